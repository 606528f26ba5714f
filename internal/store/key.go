package store

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies what an override value means. Every kind owns its own
// keyspace; two keys with different kinds can never collide.
type Kind string

const (
	KindActivityName    Kind = "activity-name"
	KindIndicatorName   Kind = "indicator-name"
	KindTitle           Kind = "pi-title"
	KindTabLabel        Kind = "tab-label"
	KindAccomplishment  Kind = "accomplishment"
	KindFileList        Kind = "file-list"
	KindActivitySet     Kind = "activity-id-set"
	KindOrder           Kind = "pi-order"
	KindHiddenSet       Kind = "hidden-pi-set"
	KindCustomTemplates Kind = "custom-pi-definitions"
)

// globalScope is the serialized scope marker for year-wide overrides that
// are not tied to a single unit.
const globalScope = "global"

// Key is the composite address of one override fact. Unit == "" means the
// key is global for the year. Month is -1 when the kind is not month-scoped.
type Key struct {
	Kind     Kind
	Year     string
	Unit     string
	Template string
	Activity string
	Month    int
}

// String serializes the key to its canonical store form. All six fields are
// always emitted so that kinds with fewer components cannot collide with
// kinds that use more.
func (k Key) String() string {
	scope := k.Unit
	if scope == "" {
		scope = globalScope
	}
	return strings.Join([]string{
		string(k.Kind), k.Year, scope, k.Template, k.Activity, strconv.Itoa(k.Month),
	}, "|")
}

// Global returns a copy of the key with its unit scope cleared.
func (k Key) Global() Key {
	k.Unit = ""
	return k
}

// IsGlobal reports whether the key is year-global rather than unit-scoped.
func (k Key) IsGlobal() bool {
	return k.Unit == ""
}

// ParseKey is the inverse of Key.String.
func ParseKey(s string) (Key, error) {
	parts := strings.Split(s, "|")
	if len(parts) != 6 {
		return Key{}, fmt.Errorf("malformed key %q: want 6 fields, got %d", s, len(parts))
	}
	month, err := strconv.Atoi(parts[5])
	if err != nil {
		return Key{}, fmt.Errorf("malformed key %q: bad month: %w", s, err)
	}
	unit := parts[2]
	if unit == globalScope {
		unit = ""
	}
	return Key{
		Kind:     Kind(parts[0]),
		Year:     parts[1],
		Unit:     unit,
		Template: parts[3],
		Activity: parts[4],
		Month:    month,
	}, nil
}

// Constructors below pin the shape of each kind's key so call sites cannot
// accidentally leave a component set that the kind does not use.

func ActivityNameKey(year, unit, template, activity string) Key {
	return Key{Kind: KindActivityName, Year: year, Unit: unit, Template: template, Activity: activity, Month: -1}
}

func IndicatorNameKey(year, unit, template, activity string) Key {
	return Key{Kind: KindIndicatorName, Year: year, Unit: unit, Template: template, Activity: activity, Month: -1}
}

func TitleKey(year, unit, template string) Key {
	return Key{Kind: KindTitle, Year: year, Unit: unit, Template: template, Month: -1}
}

func TabLabelKey(year, unit, template string) Key {
	return Key{Kind: KindTabLabel, Year: year, Unit: unit, Template: template, Month: -1}
}

func AccomplishmentKey(year, unit, template, activity string, month int) Key {
	return Key{Kind: KindAccomplishment, Year: year, Unit: unit, Template: template, Activity: activity, Month: month}
}

func FileListKey(year, unit, template, activity string, month int) Key {
	return Key{Kind: KindFileList, Year: year, Unit: unit, Template: template, Activity: activity, Month: month}
}

func ActivitySetKey(year, unit, template string) Key {
	return Key{Kind: KindActivitySet, Year: year, Unit: unit, Template: template, Month: -1}
}

func OrderKey(year string) Key {
	return Key{Kind: KindOrder, Year: year, Month: -1}
}

// HiddenSetKey is unit-scoped and year-independent: a hide sticks until the
// unit's hidden set is cleared.
func HiddenSetKey(unit string) Key {
	return Key{Kind: KindHiddenSet, Unit: unit, Month: -1}
}

func CustomTemplatesKey(year string) Key {
	return Key{Kind: KindCustomTemplates, Year: year, Month: -1}
}

// AccomplishmentPrefix returns the serialized-key prefix matching every
// monthly value stored for one template of one unit in one year.
func AccomplishmentPrefix(year, unit, template string) string {
	return strings.Join([]string{string(KindAccomplishment), year, unit, template, ""}, "|")
}
