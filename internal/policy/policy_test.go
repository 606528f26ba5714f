package policy

import "testing"

func TestZeroDefault(t *testing.T) {
	tests := []struct {
		name string
		role Role
		year string
		want bool
	}{
		{"Station2023", RoleStation, "2023", true},
		{"Station2026", RoleStation, "2026", true},
		{"Station2022", RoleStation, "2022", false},
		{"RegionalHQ2024", RoleRegionalHQ, "2024", true},
		{"RegionalHQExtraYear", RoleRegionalHQ, "2025", true},
		{"RegionalHQ2022", RoleRegionalHQ, "2022", false},
		{"SuperAdminNever", RoleSuperAdmin, "2026", false},
		{"SubAdminNever", RoleSubAdmin, "2026", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ZeroDefault(tt.role, tt.year); got != tt.want {
				t.Errorf("ZeroDefault(%s, %s) = %v, want %v", tt.role, tt.year, got, tt.want)
			}
		})
	}
}

func TestHiddenGroup(t *testing.T) {
	if got := HiddenGroup("Central Station"); got != GroupCentral {
		t.Errorf("HiddenGroup(Central Station) = %q, want %q", got, GroupCentral)
	}
	if got := HiddenGroup("Station1"); got != GroupStations {
		t.Errorf("HiddenGroup(Station1) = %q, want %q", got, GroupStations)
	}
}

func TestIndependentYear(t *testing.T) {
	if !IndependentYear("2025") || !IndependentYear("2026") {
		t.Errorf("independent years not recognized")
	}
	if IndependentYear("2024") {
		t.Errorf("2024 misreported as independent")
	}
}

func TestForceVisible(t *testing.T) {
	tests := []struct {
		name     string
		unitName string
		year     string
		want     bool
	}{
		{"UnconditionalException", "Regional HQ North", "2023", true},
		{"NamedYearException", "Regional HQ South", "2024", true},
		{"NamedYearExceptionOtherYear", "Regional HQ South", "2026", true}, // currently unconditional
		{"NoException", "Station1", "2026", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ForceVisible(tt.unitName, tt.year); got != tt.want {
				t.Errorf("ForceVisible(%s, %s) = %v, want %v", tt.unitName, tt.year, got, tt.want)
			}
		})
	}
}

func TestSelectViewMode(t *testing.T) {
	tests := []struct {
		name    string
		viewer  Role
		subject Role
		want    ViewMode
	}{
		{"SuperAdminSelf", RoleSuperAdmin, RoleSuperAdmin, ViewConsolidated},
		{"SuperAdminViewsSubAdmin", RoleSuperAdmin, RoleSubAdmin, ViewConsolidated},
		{"SubAdminSelf", RoleSubAdmin, RoleSubAdmin, ViewConsolidated},
		{"SubAdminViewsSuperAdmin", RoleSubAdmin, RoleSuperAdmin, ViewNormal},
		{"SuperAdminViewsStation", RoleSuperAdmin, RoleStation, ViewNormal},
		{"StationSelf", RoleStation, RoleStation, ViewNormal},
		{"RegionalHQSelf", RoleRegionalHQ, RoleRegionalHQ, ViewNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SelectViewMode(tt.viewer, tt.subject); got != tt.want {
				t.Errorf("SelectViewMode(%s, %s) = %v, want %v", tt.viewer, tt.subject, got, tt.want)
			}
		})
	}
}

func TestAuthorityMatrix(t *testing.T) {
	super := Unit{ID: "HQ", Role: RoleSuperAdmin}
	sub := Unit{ID: "SubAdmin1", Role: RoleSubAdmin}
	station1 := Unit{ID: "Station1", Role: RoleStation}
	station2 := Unit{ID: "Station2", Role: RoleStation}
	rhq := Unit{ID: "RHQ-North", Role: RoleRegionalHQ}

	tests := []struct {
		name   string
		actor  Unit
		target Unit
		want   bool
	}{
		{"SuperAdminAnyUnit", super, station1, true},
		{"SubAdminAnyUnit", sub, rhq, true},
		{"StationOwnUnit", station1, station1, true},
		{"StationOtherUnit", station1, station2, false},
		{"RegionalHQOwnUnit", rhq, rhq, true},
		{"RegionalHQStation", rhq, station1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanEditValues(tt.actor, tt.target); got != tt.want {
				t.Errorf("CanEditValues(%s, %s) = %v, want %v", tt.actor.ID, tt.target.ID, got, tt.want)
			}
		})
	}

	if !CanManageStructure(RoleSuperAdmin) {
		t.Errorf("CanManageStructure(SuperAdmin) = false")
	}
	for _, role := range []Role{RoleSubAdmin, RoleRegionalHQ, RoleStation} {
		if CanManageStructure(role) {
			t.Errorf("CanManageStructure(%s) = true, want false", role)
		}
	}
}

func TestRosterScopes(t *testing.T) {
	all := RosterUnits(ScopeAllUnits)
	hqs := RosterUnits(ScopeRegionalHQOnly)
	stations := RosterUnits(ScopeStationOnly)

	if len(all) != len(hqs)+len(stations) {
		t.Errorf("AllUnits roster = %d members, want %d", len(all), len(hqs)+len(stations))
	}
	for _, u := range hqs {
		if u.Role != RoleRegionalHQ {
			t.Errorf("HQ roster contains %s with role %s", u.ID, u.Role)
		}
	}
	for _, u := range stations {
		if u.Role != RoleStation {
			t.Errorf("station roster contains %s with role %s", u.ID, u.Role)
		}
	}

	if _, ok := FindUnit("Station1"); !ok {
		t.Errorf("FindUnit(Station1) not found")
	}
	if _, ok := FindUnit("Nowhere"); ok {
		t.Errorf("FindUnit(Nowhere) unexpectedly found")
	}
}
