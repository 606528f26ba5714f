package resolve

import "time"

// Mode selects what the resolved view will be used for. Hidden-set
// filtering only applies to the normal per-unit view; aggregation always
// sees every template.
type Mode int

const (
	ModeNormal Mode = iota
	ModeAggregation
)

// FileDescriptor identifies one attachment backing a monthly value.
type FileDescriptor struct {
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type,omitempty"`
	Ref         string    `json:"ref,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at,omitempty"`
}

// ResolvedActivity is one fully resolved activity row: effective labels,
// 12 monthly values (January first), attachments, and the row total.
type ResolvedActivity struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Indicator string               `json:"indicator"`
	Values    [12]int              `json:"values"`
	Files     [12][]FileDescriptor `json:"files,omitempty"`
	Total     int                  `json:"total"`
}

// ResolvedTemplate is one fully resolved performance indicator.
// Percentage-class templates total by rounded averaging; all others sum.
type ResolvedTemplate struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	TabLabel     string             `json:"tab_label"`
	Percentage   bool               `json:"percentage"`
	Activities   []ResolvedActivity `json:"activities"`
	ColumnTotals [12]int            `json:"column_totals"`
	GrandTotal   int                `json:"grand_total"`
}
