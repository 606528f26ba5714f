// Package mutate is the write path: every operation is an unconditional
// overwrite-or-append into the scoped store, gated by the authority matrix
// in internal/policy. Nothing here merges; last write wins per key.
package mutate

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/rs/zerolog/log"

	"pireport/internal/policy"
	"pireport/internal/registry"
	"pireport/internal/resolve"
	"pireport/internal/store"
)

// ErrUnauthorized is returned when the acting unit's role lacks edit
// authority for the target scope. Enforced in the core so a careless
// caller cannot widen its reach.
var ErrUnauthorized = errors.New("role not authorized for this mutation")

// LabelField selects which label RenameLabel rewrites.
type LabelField string

const (
	FieldActivity  LabelField = "activity"
	FieldIndicator LabelField = "indicator"
)

// Direction moves a template one position in the display order.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Mutator applies override writes for one acting unit.
type Mutator struct {
	store    store.Store
	resolver *resolve.Resolver
}

// New creates a mutator over the store and resolver.
func New(st store.Store, resolver *resolve.Resolver) *Mutator {
	return &Mutator{store: st, resolver: resolver}
}

// SetAccomplishment overwrites one cell for the target unit. Non-numeric
// input coerces to 0.
func (m *Mutator) SetAccomplishment(actor, target policy.Unit, year, templateID, activityID string, month int, value any) error {
	if !policy.CanEditValues(actor, target) {
		return ErrUnauthorized
	}
	if month < 0 || month > 11 {
		return fmt.Errorf("month %d out of range", month)
	}
	return m.store.Set(store.AccomplishmentKey(year, target.ID, templateID, activityID, month), CoerceInt(value))
}

// SetFiles overwrites the attachment list for one cell.
func (m *Mutator) SetFiles(actor, target policy.Unit, year, templateID, activityID string, month int, files []resolve.FileDescriptor) error {
	if !policy.CanEditValues(actor, target) {
		return ErrUnauthorized
	}
	if month < 0 || month > 11 {
		return fmt.Errorf("month %d out of range", month)
	}
	return m.store.Set(store.FileListKey(year, target.ID, templateID, activityID, month), files)
}

// RenameLabel rewrites an activity or indicator label for the target unit.
// Labels are always unit-scoped; there is no global label write.
func (m *Mutator) RenameLabel(actor, target policy.Unit, year, templateID, activityID string, field LabelField, text string) error {
	if !policy.CanManageStructure(actor.Role) {
		return ErrUnauthorized
	}
	switch field {
	case FieldActivity:
		return m.store.Set(store.ActivityNameKey(year, target.ID, templateID, activityID), text)
	case FieldIndicator:
		return m.store.Set(store.IndicatorNameKey(year, target.ID, templateID, activityID), text)
	default:
		return fmt.Errorf("unknown label field %q", field)
	}
}

// RenameTitle rewrites the template title for the target unit only.
func (m *Mutator) RenameTitle(actor, target policy.Unit, year, templateID, text string) error {
	if !policy.CanManageStructure(actor.Role) {
		return ErrUnauthorized
	}
	return m.store.Set(store.TitleKey(year, target.ID, templateID), text)
}

// RenameTabLabel rewrites the template's tab label for the target unit only.
func (m *Mutator) RenameTabLabel(actor, target policy.Unit, year, templateID, text string) error {
	if !policy.CanManageStructure(actor.Role) {
		return ErrUnauthorized
	}
	return m.store.Set(store.TabLabelKey(year, target.ID, templateID), text)
}

// AddTemplate creates a custom template for the year, with one placeholder
// activity and generated ids, appended to the custom list and to the
// display order.
func (m *Mutator) AddTemplate(actor policy.Unit, year string) (registry.Template, error) {
	if !policy.CanManageStructure(actor.Role) {
		return registry.Template{}, ErrUnauthorized
	}

	custom := m.customTemplates(year)
	tpl := registry.NewCustomTemplate(year)
	custom = append(custom, tpl)
	if err := m.store.Set(store.CustomTemplatesKey(year), custom); err != nil {
		return registry.Template{}, err
	}

	// Persist the full current order so the new template lands at the end
	// regardless of whether an order list existed before.
	if err := m.store.Set(store.OrderKey(year), m.currentOrder(year)); err != nil {
		return registry.Template{}, err
	}
	return tpl, nil
}

// AddActivityRow appends a new generated row id to the unit's active-id
// list for the template and returns the id. No values are seeded; the
// zero-default policy covers fresh rows.
func (m *Mutator) AddActivityRow(actor, target policy.Unit, year, templateID string) (string, error) {
	if !policy.CanManageStructure(actor.Role) {
		return "", ErrUnauthorized
	}
	tpl, err := m.findTemplate(year, templateID)
	if err != nil {
		return "", err
	}

	ids := m.resolver.ActiveActivityIDs(year, target, tpl)
	newID := registry.NewActivityID(templateID, year)
	ids = append(ids, newID)
	if err := m.store.Set(store.ActivitySetKey(year, target.ID, templateID), ids); err != nil {
		return "", err
	}
	return newID, nil
}

// RemoveActivityRow drops a row id from the unit's active-id list. The
// starting point is the unit list or, absent that, the global one.
func (m *Mutator) RemoveActivityRow(actor, target policy.Unit, year, templateID, activityID string) error {
	if !policy.CanManageStructure(actor.Role) {
		return ErrUnauthorized
	}
	tpl, err := m.findTemplate(year, templateID)
	if err != nil {
		return err
	}

	ids := m.resolver.ActiveActivityIDs(year, target, tpl)
	remaining := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != activityID {
			remaining = append(remaining, id)
		}
	}
	return m.store.Set(store.ActivitySetKey(year, target.ID, templateID), remaining)
}

// HideTemplateForUnit adds the template to the unit's hidden set.
// Idempotent: hiding twice equals hiding once.
func (m *Mutator) HideTemplateForUnit(actor policy.Unit, unitID, templateID string) error {
	if !policy.CanManageStructure(actor.Role) {
		return ErrUnauthorized
	}

	hidden := resolve.FirstOr[[]string](m.store, nil, store.HiddenSetKey(unitID))
	for _, id := range hidden {
		if id == templateID {
			return nil
		}
	}
	return m.store.Set(store.HiddenSetKey(unitID), append(hidden, templateID))
}

// UnhideAllForUnit clears the unit's hidden set entirely.
func (m *Mutator) UnhideAllForUnit(actor policy.Unit, unitID string) error {
	if !policy.CanManageStructure(actor.Role) {
		return ErrUnauthorized
	}
	return m.store.Remove(store.HiddenSetKey(unitID))
}

// ReorderTemplates swaps the template with its immediate neighbor and
// persists the full resulting order. Moving past either end is a no-op.
func (m *Mutator) ReorderTemplates(actor policy.Unit, year, templateID string, direction Direction) error {
	if !policy.CanManageStructure(actor.Role) {
		return ErrUnauthorized
	}

	order := m.currentOrder(year)
	index := -1
	for i, id := range order {
		if id == templateID {
			index = i
			break
		}
	}
	if index == -1 {
		return fmt.Errorf("template %s not found in %s", templateID, year)
	}

	neighbor := index - 1
	if direction == DirectionDown {
		neighbor = index + 1
	}
	if neighbor < 0 || neighbor >= len(order) {
		return nil
	}

	order[index], order[neighbor] = order[neighbor], order[index]
	return m.store.Set(store.OrderKey(year), order)
}

// ClearUnitTemplateData removes every stored monthly value for the
// template and unit. Labels and file lists are untouched.
func (m *Mutator) ClearUnitTemplateData(actor policy.Unit, year string, target policy.Unit, templateID string) error {
	if !policy.CanManageStructure(actor.Role) {
		return ErrUnauthorized
	}

	for _, key := range m.store.Keys(store.AccomplishmentPrefix(year, target.ID, templateID)) {
		if err := m.store.Remove(key); err != nil {
			return err
		}
	}
	return nil
}

// ImportSummary reports how many rows of a tabular label import were
// applied and how many were skipped.
type ImportSummary struct {
	RowsApplied int `json:"rows_applied"`
	RowsSkipped int `json:"rows_skipped"`
}

// ImportLabels writes unit-scoped label overrides from tabular input. Row i
// maps onto the i-th currently resolved activity; rows beyond the current
// activity count and rows with no usable cells are skipped, never fatal.
// Column 0 is the activity name, column 1 the indicator name; empty cells
// leave the existing label untouched.
func (m *Mutator) ImportLabels(actor, target policy.Unit, year, templateID string, rows [][]string) (ImportSummary, error) {
	if !policy.CanManageStructure(actor.Role) {
		return ImportSummary{}, ErrUnauthorized
	}
	tpl, err := m.findTemplate(year, templateID)
	if err != nil {
		return ImportSummary{}, err
	}

	activityIDs := m.resolver.ActiveActivityIDs(year, target, tpl)
	var summary ImportSummary
	for i, row := range rows {
		if i >= len(activityIDs) {
			summary.RowsSkipped += len(rows) - i
			break
		}

		applied := false
		if len(row) > 0 && row[0] != "" {
			if err := m.store.Set(store.ActivityNameKey(year, target.ID, templateID, activityIDs[i]), row[0]); err != nil {
				return summary, err
			}
			applied = true
		}
		if len(row) > 1 && row[1] != "" {
			if err := m.store.Set(store.IndicatorNameKey(year, target.ID, templateID, activityIDs[i]), row[1]); err != nil {
				return summary, err
			}
			applied = true
		}

		if applied {
			summary.RowsApplied++
		} else {
			summary.RowsSkipped++
		}
	}

	log.Info().Str("template", templateID).Str("unit", target.ID).
		Int("applied", summary.RowsApplied).Int("skipped", summary.RowsSkipped).
		Msg("Label import finished")
	return summary, nil
}

// CoerceInt turns arbitrary caller input into a stored integer. Numeric
// strings parse; fractional values truncate toward zero; everything else
// coerces to 0.
func CoerceInt(value any) int {
	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return int(f)
		}
		return 0
	case nil:
		return 0
	default:
		return 0
	}
}

func (m *Mutator) customTemplates(year string) []registry.Template {
	raw, ok := m.store.Get(store.CustomTemplatesKey(year))
	if !ok {
		return nil
	}
	custom, err := registry.DecodeCustom(raw)
	if err != nil {
		log.Warn().Err(err).Str("year", year).Msg("Malformed custom template list, starting fresh")
		return nil
	}
	return custom
}

func (m *Mutator) currentOrder(year string) []string {
	templates := m.resolver.AllTemplates(year)
	order := make([]string, 0, len(templates))
	for _, tpl := range templates {
		order = append(order, tpl.ID)
	}
	return order
}

func (m *Mutator) findTemplate(year, templateID string) (registry.Template, error) {
	for _, tpl := range m.resolver.AllTemplates(year) {
		if tpl.ID == templateID {
			return tpl, nil
		}
	}
	return registry.Template{}, fmt.Errorf("template %s not found in %s", templateID, year)
}
