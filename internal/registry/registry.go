package registry

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// ActivityTemplate is the base definition of one activity row: default
// labels and 12 default monthly values, January first.
type ActivityTemplate struct {
	ID        string  `json:"id" yaml:"id"`
	Name      string  `json:"name" yaml:"name"`
	Indicator string  `json:"indicator" yaml:"indicator"`
	Defaults  [12]int `json:"defaults" yaml:"defaults"`
}

// Template is the year-scoped base definition of one performance indicator.
type Template struct {
	ID         string             `json:"id" yaml:"id"`
	Title      string             `json:"title" yaml:"title"`
	Activities []ActivityTemplate `json:"activities" yaml:"activities"`
}

// percentageClassIDs enumerates the templates whose values are percentages.
// Their totals are combined by rounded averaging instead of summation.
var percentageClassIDs = map[string]bool{
	"PI4": true,
	"PI7": true,
}

// IsPercentage reports whether the template's values aggregate by averaging.
func IsPercentage(templateID string) bool {
	return percentageClassIDs[templateID]
}

// Registry holds the base template definitions per year. The set of
// activities for a given PI id varies by year, not just the values, so each
// year carries its own full template list.
type Registry struct {
	years map[string][]Template
}

// New creates a registry seeded with the built-in template definitions.
func New() *Registry {
	return &Registry{years: builtinYears()}
}

// NewEmpty creates a registry with no years, for seeding from files alone.
func NewEmpty() *Registry {
	return &Registry{years: make(map[string][]Template)}
}

// Years returns the seeded years in ascending order.
func (r *Registry) Years() []string {
	years := make([]string, 0, len(r.years))
	for y := range r.years {
		years = append(years, y)
	}
	sort.Strings(years)
	return years
}

// SetYear replaces the template list for a year.
func (r *Registry) SetYear(year string, templates []Template) {
	r.years[year] = templates
}

// BaseTemplates returns a copy of the base templates for year. A year with
// no seed of its own reuses the latest preceding seeded year; a year before
// every seed gets the earliest one.
func (r *Registry) BaseTemplates(year string) []Template {
	source, ok := r.years[year]
	if !ok {
		source = r.nearestYear(year)
	}

	// Deep copy so callers can decorate without mutating the registry.
	result := make([]Template, len(source))
	for i, tpl := range source {
		result[i] = tpl
		result[i].Activities = make([]ActivityTemplate, len(tpl.Activities))
		copy(result[i].Activities, tpl.Activities)
	}
	return result
}

func (r *Registry) nearestYear(year string) []Template {
	years := r.Years()
	if len(years) == 0 {
		return nil
	}

	best := ""
	for _, y := range years {
		if y <= year {
			best = y
		}
	}
	if best == "" {
		best = years[0]
	}
	return r.years[best]
}

// DecodeCustom parses a stored custom-template list. Used when resolving
// the custom-pi-definitions override kind.
func DecodeCustom(raw []byte) ([]Template, error) {
	var templates []Template
	if err := json.Unmarshal(raw, &templates); err != nil {
		return nil, fmt.Errorf("failed to decode custom templates: %w", err)
	}
	return templates, nil
}

// NewCustomTemplate builds a fresh template with generated ids and one
// placeholder activity whose 12 months are all zero.
func NewCustomTemplate(year string) Template {
	templateID := "custom-" + shortID()
	return Template{
		ID:    templateID,
		Title: "New Performance Indicator",
		Activities: []ActivityTemplate{
			{
				ID:        NewActivityID(templateID, year),
				Name:      "New Activity",
				Indicator: "New Indicator",
			},
		},
	}
}

// NewActivityID generates a unique activity row id for a template and year.
func NewActivityID(templateID, year string) string {
	yy := year
	if len(yy) == 4 {
		yy = yy[2:]
	}
	return fmt.Sprintf("%s_%s_%s", strings.ToLower(templateID), yy, shortID())
}

func shortID() string {
	return uuid.NewString()[:8]
}
