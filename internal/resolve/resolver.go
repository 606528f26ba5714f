package resolve

import (
	"math"

	"github.com/rs/zerolog/log"

	"pireport/internal/policy"
	"pireport/internal/registry"
	"pireport/internal/store"
)

// Resolver computes effective per-unit views by layering unit-scoped
// overrides over year-global overrides over the base template registry.
// It holds no state of its own; views are recomputed from the store on
// every call.
type Resolver struct {
	store    store.Store
	registry *registry.Registry
}

// New creates a resolver over the given store and template registry.
func New(st store.Store, reg *registry.Registry) *Resolver {
	return &Resolver{store: st, registry: reg}
}

// Templates resolves the ordered template list for one unit and year.
// In ModeNormal the unit's hidden sets are applied; ModeAggregation skips
// all hiding so consolidated roll-ups always include every template.
func (r *Resolver) Templates(year string, unit policy.Unit, mode Mode) []ResolvedTemplate {
	templates := r.orderedTemplates(year)

	var result []ResolvedTemplate
	hidden := r.hiddenSet(year, unit, mode)
	for _, tpl := range templates {
		if hidden[tpl.ID] {
			continue
		}
		result = append(result, r.resolveTemplate(year, unit, tpl))
	}
	return result
}

// AllTemplates returns the ordered base+custom template definitions for a
// year with no per-unit resolution applied. The mutation layer uses this to
// locate templates and compute neighbor swaps.
func (r *Resolver) AllTemplates(year string) []registry.Template {
	return r.orderedTemplates(year)
}

// Accomplishment resolves a single cell value for one unit: the stored
// override if present, otherwise the role/year-conditioned default. This is
// the lookup consolidated aggregation runs per member unit; it bypasses
// label and file resolution entirely.
func (r *Resolver) Accomplishment(year string, unit policy.Unit, templateID, activityID string, month int) int {
	if value, ok := First[int](r.store, store.AccomplishmentKey(year, unit.ID, templateID, activityID, month)); ok {
		return value
	}
	if policy.ZeroDefault(unit.Role, year) {
		return 0
	}
	if base, ok := r.findActivity(year, templateID, activityID); ok {
		return base.Defaults[month]
	}
	return 0
}

// ActiveActivityIDs resolves the effective activity-row id list for one
// template: unit-scoped list, else year-global list, else the base
// activities in definition order. Once a unit-scoped list exists the unit's
// rows are fully independent of everyone else's.
func (r *Resolver) ActiveActivityIDs(year string, unit policy.Unit, tpl registry.Template) []string {
	ids, ok := First[[]string](r.store,
		store.ActivitySetKey(year, unit.ID, tpl.ID),
		store.ActivitySetKey(year, "", tpl.ID),
	)
	if ok {
		return ids
	}
	ids = make([]string, 0, len(tpl.Activities))
	for _, a := range tpl.Activities {
		ids = append(ids, a.ID)
	}
	return ids
}

// orderedTemplates loads base templates for the year, appends stored custom
// templates, and applies the stored display order. Order entries without a
// matching template are ignored; templates missing from the order keep
// their original relative position at the end.
func (r *Resolver) orderedTemplates(year string) []registry.Template {
	templates := r.registry.BaseTemplates(year)

	if raw, ok := r.store.Get(store.CustomTemplatesKey(year)); ok {
		custom, err := registry.DecodeCustom(raw)
		if err != nil {
			log.Warn().Err(err).Str("year", year).Msg("Malformed custom template list, ignoring")
		} else {
			templates = append(templates, custom...)
		}
	}

	order, ok := First[[]string](r.store, store.OrderKey(year))
	if !ok {
		return templates
	}

	byID := make(map[string]int, len(templates))
	for i, tpl := range templates {
		byID[tpl.ID] = i
	}

	placed := make(map[string]bool, len(order))
	ordered := make([]registry.Template, 0, len(templates))
	for _, id := range order {
		if i, ok := byID[id]; ok && !placed[id] {
			ordered = append(ordered, templates[i])
			placed[id] = true
		}
	}
	for _, tpl := range templates {
		if !placed[tpl.ID] {
			ordered = append(ordered, tpl)
		}
	}
	return ordered
}

func (r *Resolver) resolveTemplate(year string, unit policy.Unit, tpl registry.Template) ResolvedTemplate {
	title := FirstOr(r.store, tpl.Title,
		store.TitleKey(year, unit.ID, tpl.ID),
		store.TitleKey(year, "", tpl.ID),
	)
	tabLabel := FirstOr(r.store, title,
		store.TabLabelKey(year, unit.ID, tpl.ID),
		store.TabLabelKey(year, "", tpl.ID),
	)

	resolved := ResolvedTemplate{
		ID:         tpl.ID,
		Title:      title,
		TabLabel:   tabLabel,
		Percentage: registry.IsPercentage(tpl.ID),
	}

	baseByID := make(map[string]registry.ActivityTemplate, len(tpl.Activities))
	for _, a := range tpl.Activities {
		baseByID[a.ID] = a
	}

	for _, activityID := range r.ActiveActivityIDs(year, unit, tpl) {
		base, hasBase := baseByID[activityID]

		name := base.Name
		indicator := base.Indicator
		if !hasBase {
			// Row created at runtime with no base definition.
			name = "New Activity"
			indicator = "New Indicator"
		}

		activity := ResolvedActivity{
			ID: activityID,
			Name: FirstOr(r.store, name,
				store.ActivityNameKey(year, unit.ID, tpl.ID, activityID),
				store.ActivityNameKey(year, "", tpl.ID, activityID),
			),
			Indicator: FirstOr(r.store, indicator,
				store.IndicatorNameKey(year, unit.ID, tpl.ID, activityID),
				store.IndicatorNameKey(year, "", tpl.ID, activityID),
			),
		}

		for month := 0; month < 12; month++ {
			activity.Values[month] = r.Accomplishment(year, unit, tpl.ID, activityID, month)
			activity.Files[month] = FirstOr[[]FileDescriptor](r.store, nil,
				store.FileListKey(year, unit.ID, tpl.ID, activityID, month),
			)
		}
		activity.Total = rowTotal(activity.Values, resolved.Percentage)

		resolved.Activities = append(resolved.Activities, activity)
	}

	fillTotals(&resolved)
	return resolved
}

// hiddenSet returns the template ids to drop from the unit's normal view.
func (r *Resolver) hiddenSet(year string, unit policy.Unit, mode Mode) map[string]bool {
	if mode == ModeAggregation {
		return nil
	}
	if policy.ForceVisible(unit.Name, year) {
		return nil
	}

	hidden := make(map[string]bool)
	for _, id := range FirstOr[[]string](r.store, nil, store.HiddenSetKey(unit.ID)) {
		hidden[id] = true
	}

	// Group-level hiding applies to station units only, and never in the
	// years where station views are fully unit-scoped.
	if unit.Role == policy.RoleStation && !policy.IndependentYear(year) {
		group := policy.HiddenGroup(unit.Name)
		for _, id := range FirstOr[[]string](r.store, nil, store.HiddenSetKey(group)) {
			hidden[id] = true
		}
	}
	return hidden
}

// RecomputeTotals refreshes every row total, the column totals, and the
// grand total from the current Values. Callers that rewrite cell values,
// such as consolidated aggregation, use this to restore the invariants.
func (t *ResolvedTemplate) RecomputeTotals() {
	for i := range t.Activities {
		t.Activities[i].Total = rowTotal(t.Activities[i].Values, t.Percentage)
	}
	fillTotals(t)
}

// rowTotal computes an activity's total across 12 months.
func rowTotal(values [12]int, percentage bool) int {
	sum := 0
	for _, v := range values {
		sum += v
	}
	if percentage {
		return roundedAverage(sum, 12)
	}
	return sum
}

// fillTotals computes the per-month column totals and the grand total.
// Percentage-class templates average across activity rows; others sum.
func fillTotals(tpl *ResolvedTemplate) {
	count := len(tpl.Activities)
	if count == 0 {
		return
	}

	for month := 0; month < 12; month++ {
		sum := 0
		for _, a := range tpl.Activities {
			sum += a.Values[month]
		}
		if tpl.Percentage {
			tpl.ColumnTotals[month] = roundedAverage(sum, count)
		} else {
			tpl.ColumnTotals[month] = sum
		}
	}

	total := 0
	for _, a := range tpl.Activities {
		total += a.Total
	}
	if tpl.Percentage {
		tpl.GrandTotal = roundedAverage(total, count)
	} else {
		tpl.GrandTotal = total
	}
}

// roundedAverage divides sum by count with nearest-integer rounding.
func roundedAverage(sum, count int) int {
	if count == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(count)))
}

func (r *Resolver) findActivity(year, templateID, activityID string) (registry.ActivityTemplate, bool) {
	for _, tpl := range r.orderedTemplates(year) {
		if tpl.ID != templateID {
			continue
		}
		for _, a := range tpl.Activities {
			if a.ID == activityID {
				return a, true
			}
		}
	}
	return registry.ActivityTemplate{}, false
}
