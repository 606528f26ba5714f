package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestBaseTemplatesYearVariants(t *testing.T) {
	r := New()

	find := func(year, id string) Template {
		t.Helper()
		for _, tpl := range r.BaseTemplates(year) {
			if tpl.ID == id {
				return tpl
			}
		}
		t.Fatalf("template %s not found for %s", id, year)
		return Template{}
	}

	// PI2 gains a row from 2025 onward.
	if got := len(find("2024", "PI2").Activities); got != 2 {
		t.Errorf("PI2 2024 rows = %d, want 2", got)
	}
	if got := len(find("2025", "PI2").Activities); got != 3 {
		t.Errorf("PI2 2025 rows = %d, want 3", got)
	}

	// Activity ids carry the year infix, so variants never alias.
	if got := find("2026", "PI1").Activities[0].ID; got != "pi1_26_1" {
		t.Errorf("PI1 2026 first activity id = %q, want pi1_26_1", got)
	}
	if got := find("2023", "PI1").Activities[0].ID; got != "pi1_23_1" {
		t.Errorf("PI1 2023 first activity id = %q, want pi1_23_1", got)
	}
}

func TestBaseTemplatesYearFallback(t *testing.T) {
	r := New()

	tests := []struct {
		name     string
		year     string
		wantLike string // year whose catalogue should be served
	}{
		{"FutureYear", "2030", "2026"},
		{"BeforeAllSeeds", "2019", "2023"},
		{"ExactYear", "2024", "2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.BaseTemplates(tt.year)
			want := r.BaseTemplates(tt.wantLike)
			if len(got) != len(want) {
				t.Fatalf("BaseTemplates(%s) len = %d, want %d", tt.year, len(got), len(want))
			}
			if got[0].Activities[0].ID != want[0].Activities[0].ID {
				t.Errorf("BaseTemplates(%s) first activity = %q, want %q",
					tt.year, got[0].Activities[0].ID, want[0].Activities[0].ID)
			}
		})
	}
}

func TestBaseTemplatesReturnsCopies(t *testing.T) {
	r := New()

	first := r.BaseTemplates("2026")
	first[0].Title = "Mutated"
	first[0].Activities[0].Name = "Mutated"

	second := r.BaseTemplates("2026")
	if second[0].Title == "Mutated" || second[0].Activities[0].Name == "Mutated" {
		t.Errorf("BaseTemplates() exposed shared backing data")
	}
}

func TestIsPercentage(t *testing.T) {
	if !IsPercentage("PI4") || !IsPercentage("PI7") {
		t.Errorf("percentage-class templates not recognized")
	}
	if IsPercentage("PI1") || IsPercentage("custom-abc123") {
		t.Errorf("non-percentage template misclassified")
	}
}

func TestNewCustomTemplate(t *testing.T) {
	tpl := NewCustomTemplate("2026")

	if tpl.ID == "" || tpl.Title == "" {
		t.Fatalf("custom template missing id or title: %+v", tpl)
	}
	if len(tpl.Activities) != 1 {
		t.Fatalf("custom template activities = %d, want 1 placeholder", len(tpl.Activities))
	}
	for m, v := range tpl.Activities[0].Defaults {
		if v != 0 {
			t.Errorf("placeholder month %d default = %d, want 0", m, v)
		}
	}

	other := NewCustomTemplate("2026")
	if other.ID == tpl.ID || other.Activities[0].ID == tpl.Activities[0].ID {
		t.Errorf("generated ids are not unique")
	}
}

func TestDecodeCustom(t *testing.T) {
	templates := []Template{NewCustomTemplate("2026"), NewCustomTemplate("2026")}
	raw, err := json.Marshal(templates)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	decoded, err := DecodeCustom(raw)
	if err != nil {
		t.Fatalf("DecodeCustom() error: %v", err)
	}
	if len(decoded) != 2 || decoded[0].ID != templates[0].ID {
		t.Errorf("DecodeCustom() = %+v, want %+v", decoded, templates)
	}

	if _, err := DecodeCustom([]byte("not json")); err == nil {
		t.Errorf("DecodeCustom(corrupt) = nil error, want error")
	}
}

func TestLoadDirOverlay(t *testing.T) {
	dir := t.TempDir()
	seed := `year: "2026"
templates:
  - id: PI1
    title: Seeded Title
    activities:
      - name: Seeded activity
        indicator: Seeded indicator
        defaults: [1, 2, 3]
`
	if err := os.WriteFile(filepath.Join(dir, "2026.yml"), []byte(seed), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	// A corrupt seed must not abort loading.
	if err := os.WriteFile(filepath.Join(dir, "bad.yml"), []byte(":::"), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	r := New()
	if err := r.LoadDir(dir); err != nil {
		t.Fatalf("LoadDir() error: %v", err)
	}

	got := r.BaseTemplates("2026")
	if len(got) != 1 {
		t.Fatalf("seeded year templates = %d, want 1 (seed replaces built-ins)", len(got))
	}
	if got[0].Title != "Seeded Title" {
		t.Errorf("seeded title = %q, want Seeded Title", got[0].Title)
	}
	activity := got[0].Activities[0]
	if activity.ID != "pi1_26_1" {
		t.Errorf("generated seed activity id = %q, want pi1_26_1", activity.ID)
	}
	wantDefaults := [12]int{1, 2, 3}
	if activity.Defaults != wantDefaults {
		t.Errorf("short defaults = %v, want padded %v", activity.Defaults, wantDefaults)
	}

	// Other years keep their built-ins.
	if len(r.BaseTemplates("2024")) != 8 {
		t.Errorf("unrelated year lost built-in templates")
	}
}
