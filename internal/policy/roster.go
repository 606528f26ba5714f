package policy

// DashboardScope selects the member units combined by a consolidated view.
type DashboardScope string

const (
	ScopeAllUnits       DashboardScope = "all-units"
	ScopeRegionalHQOnly DashboardScope = "regional-hq-only"
	ScopeStationOnly    DashboardScope = "station-only"
)

// The consolidated rosters are fixed at setup. Units added later would need
// a new release, matching how the reporting structure is managed.

var regionalHQRoster = []Unit{
	{ID: "RHQ-North", Name: "Regional HQ North", Role: RoleRegionalHQ},
	{ID: "RHQ-South", Name: "Regional HQ South", Role: RoleRegionalHQ},
	{ID: "RHQ-East", Name: "Regional HQ East", Role: RoleRegionalHQ},
}

var stationRoster = []Unit{
	{ID: "Central", Name: "Central Station", Role: RoleStation},
	{ID: "Station1", Name: "Station1", Role: RoleStation},
	{ID: "Station2", Name: "Station2", Role: RoleStation},
	{ID: "Station3", Name: "Station3", Role: RoleStation},
	{ID: "Station4", Name: "Station4", Role: RoleStation},
	{ID: "Station5", Name: "Station5", Role: RoleStation},
}

// RosterUnits returns a copy of the member units for a dashboard scope.
func RosterUnits(scope DashboardScope) []Unit {
	var members []Unit
	switch scope {
	case ScopeRegionalHQOnly:
		members = regionalHQRoster
	case ScopeStationOnly:
		members = stationRoster
	default:
		members = append(append([]Unit(nil), regionalHQRoster...), stationRoster...)
		return members
	}
	return append([]Unit(nil), members...)
}

// FindUnit looks a roster unit up by id. Administrative units are not in
// any roster; ok=false for unknown ids.
func FindUnit(id string) (Unit, bool) {
	for _, u := range RosterUnits(ScopeAllUnits) {
		if u.ID == id {
			return u, true
		}
	}
	return Unit{}, false
}
