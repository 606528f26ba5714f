package registry

import (
	"fmt"
	"strings"
)

// builtinRow describes one seed activity before year stamping.
type builtinRow struct {
	name      string
	indicator string
	def       int
}

// builtinDef describes one seed template. minYear gates rows that only
// exist from a given reporting year onward.
type builtinDef struct {
	id    string
	title string
	rows  []builtinRow
	extra map[string][]builtinRow // first year -> rows added from that year on
}

// builtinDefs is the base template catalogue. PI4 and PI7 are the
// percentage-class templates (see percentageClassIDs).
var builtinDefs = []builtinDef{
	{
		id:    "PI1",
		title: "Crime Prevention",
		rows: []builtinRow{
			{"Patrol operations conducted", "Number of patrols", 0},
			{"Checkpoints established", "Number of checkpoints", 0},
			{"Anti-criminality lectures", "Number of lectures delivered", 0},
		},
	},
	{
		id:    "PI2",
		title: "Law Enforcement Operations",
		rows: []builtinRow{
			{"Warrants served", "Number of warrants", 0},
			{"Wanted persons arrested", "Number of arrests", 0},
		},
		extra: map[string][]builtinRow{
			"2025": {
				{"Joint inter-agency operations", "Number of operations", 0},
			},
		},
	},
	{
		id:    "PI3",
		title: "Community Engagement",
		rows: []builtinRow{
			{"Community dialogues held", "Number of dialogues", 0},
			{"School visitations", "Number of visits", 0},
			{"Barangay outreach activities", "Number of activities", 0},
		},
	},
	{
		id:    "PI4",
		title: "Crime Clearance Efficiency",
		rows: []builtinRow{
			{"Crime clearance rate", "Percent of cases cleared", 100},
			{"Crime solution rate", "Percent of cases solved", 100},
		},
	},
	{
		id:    "PI5",
		title: "Personnel Development",
		rows: []builtinRow{
			{"Training courses completed", "Number of personnel trained", 0},
			{"Specialized seminars attended", "Number of personnel", 0},
		},
	},
	{
		id:    "PI6",
		title: "Logistics and Resources",
		rows: []builtinRow{
			{"Vehicles maintained", "Number of serviceable vehicles", 0},
			{"Equipment inspections", "Number of inspections", 0},
		},
	},
	{
		id:    "PI7",
		title: "Operational Readiness",
		rows: []builtinRow{
			{"Personnel readiness rate", "Percent fit for duty", 100},
			{"Response time compliance", "Percent within standard", 100},
		},
	},
	{
		id:    "PI8",
		title: "Administrative Compliance",
		rows: []builtinRow{
			{"Reports submitted on time", "Number of reports", 0},
			{"Audits passed", "Number of audits", 0},
		},
	},
}

// builtinSeedYears are the reporting years shipped with the binary.
var builtinSeedYears = []string{"2023", "2024", "2025", "2026"}

func builtinYears() map[string][]Template {
	years := make(map[string][]Template, len(builtinSeedYears))
	for _, year := range builtinSeedYears {
		years[year] = buildYear(year)
	}
	return years
}

func buildYear(year string) []Template {
	templates := make([]Template, 0, len(builtinDefs))
	for _, def := range builtinDefs {
		rows := append([]builtinRow(nil), def.rows...)
		for firstYear, added := range def.extra {
			if year >= firstYear {
				rows = append(rows, added...)
			}
		}

		tpl := Template{ID: def.id, Title: def.title}
		for i, row := range rows {
			activity := ActivityTemplate{
				ID:        seedActivityID(def.id, year, i+1),
				Name:      row.name,
				Indicator: row.indicator,
			}
			for m := range activity.Defaults {
				activity.Defaults[m] = row.def
			}
			tpl.Activities = append(tpl.Activities, activity)
		}
		templates = append(templates, tpl)
	}
	return templates
}

// seedActivityID yields stable per-year row ids such as "pi1_26_1".
func seedActivityID(templateID, year string, row int) string {
	yy := year
	if len(yy) == 4 {
		yy = yy[2:]
	}
	return fmt.Sprintf("%s_%s_%d", strings.ToLower(templateID), yy, row)
}
