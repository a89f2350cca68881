package rbac

import "testing"

func activeAssignment(clubRoles map[string]ClubRole, districtRoles map[string]DistrictRole) Assignment {
	return Assignment{
		UserID:        "u1",
		IsActive:      true,
		ClubRoles:     clubRoles,
		DistrictRoles: districtRoles,
	}
}

func TestDecide_SuperAdminBypassesEverything(t *testing.T) {
	r := NewResolver(DefaultTable())
	a := Assignment{UserID: "u1", IsSuperAdmin: true}

	caps := []Capability{
		CapAccessFinances, CapAccessMembers, CapAccessProtocols, CapAccessTasks,
		CapAccessLicenses, CapAccessJubilees, CapEnterResults, CapManageKM,
		Capability("NOT_A_REAL_CAPABILITY"),
	}
	for _, cap := range caps {
		for _, scope := range []string{"club-1", "district-1", ""} {
			d := r.Decide(a, cap, scope)
			if !d.Allowed {
				t.Errorf("super admin denied %s in scope %q", cap, scope)
			}
		}
	}
}

func TestDecide_NoRoleForScopeDenies(t *testing.T) {
	r := NewResolver(DefaultTable())
	a := activeAssignment(map[string]ClubRole{"club-1": RoleVorstand}, nil)

	caps := []Capability{
		CapAccessFinances, CapAccessMembers, CapAccessProtocols, CapAccessTasks,
		CapAccessLicenses, CapAccessJubilees, CapEnterResults,
	}
	for _, cap := range caps {
		if d := r.Decide(a, cap, "club-2"); d.Allowed {
			t.Errorf("expected deny for %s in club-2, got allow via %s", cap, d.MatchedRole)
		}
	}
}

func TestDecide_CapabilityTable(t *testing.T) {
	r := NewResolver(DefaultTable())

	tests := []struct {
		name  string
		role  ClubRole
		cap   Capability
		allow bool
	}{
		{"kassenwart finances", RoleKassenwart, CapAccessFinances, true},
		{"vorstand finances", RoleVorstand, CapAccessFinances, true},
		{"sportleiter finances", RoleSportleiter, CapAccessFinances, false},
		{"sportleiter results", RoleSportleiter, CapEnterResults, true},
		{"trainer results", RoleTrainer, CapEnterResults, true},
		{"kassenwart results", RoleKassenwart, CapEnterResults, false},
		{"schriftfuehrer protocols", RoleSchriftfuehrer, CapAccessProtocols, true},
		{"vereinsschuetze protocols", RoleVereinsschuetze, CapAccessProtocols, false},
		{"ehrenmitglied members", RoleEhrenmitglied, CapAccessMembers, false},
		{"ausbilder licenses", RoleAusbilder, CapAccessLicenses, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := activeAssignment(map[string]ClubRole{"club-1": tt.role}, nil)
			d := r.Decide(a, tt.cap, "club-1")
			if d.Allowed != tt.allow {
				t.Errorf("Decide(%s, %s) allowed = %v, want %v", tt.role, tt.cap, d.Allowed, tt.allow)
			}
			if tt.allow && d.MatchedRole != string(tt.role) {
				t.Errorf("expected matched role %s, got %s", tt.role, d.MatchedRole)
			}
		})
	}
}

func TestDecide_DistrictScope(t *testing.T) {
	r := NewResolver(DefaultTable())

	a := activeAssignment(
		map[string]ClubRole{"club-1": RoleVorstand},
		map[string]DistrictRole{"kv-einbeck": RoleKVKMOrga},
	)

	if d := r.Decide(a, CapManageKM, "kv-einbeck"); !d.Allowed {
		t.Error("expected KM orga to manage KM in their district")
	}
	if d := r.Decide(a, CapManageKM, "kv-northeim"); d.Allowed {
		t.Error("district role must not leak into another district")
	}
	// A club role never satisfies a district-scoped capability.
	if d := r.Decide(a, CapManageKM, "club-1"); d.Allowed {
		t.Error("club role granted a district capability")
	}
}

func TestDecide_UnknownCapabilityFailsClosed(t *testing.T) {
	r := NewResolver(DefaultTable())
	a := activeAssignment(map[string]ClubRole{"club-1": RoleVorstand}, nil)

	if d := r.Decide(a, Capability("ACCESS_EVERYTHING"), "club-1"); d.Allowed {
		t.Error("unknown capability must deny")
	}
}

func TestDecide_InactiveAssignmentDenies(t *testing.T) {
	r := NewResolver(DefaultTable())
	a := Assignment{
		UserID:    "u1",
		IsActive:  false,
		ClubRoles: map[string]ClubRole{"club-1": RoleVorstand},
	}

	if d := r.Decide(a, CapAccessFinances, "club-1"); d.Allowed {
		t.Error("deactivated assignment must deny")
	}
}

func TestDecide_CrossClubIsolation(t *testing.T) {
	r := NewResolver(DefaultTable())
	// Roles in many clubs must not grant anything beyond the single queried scope.
	clubRoles := map[string]ClubRole{}
	for _, id := range []string{"c1", "c2", "c3", "c4", "c5", "c6", "c7", "c8", "c9", "c10", "c11"} {
		clubRoles[id] = RoleVorstand
	}
	a := activeAssignment(clubRoles, nil)

	if d := r.Decide(a, CapManageKM, "kv-einbeck"); d.Allowed {
		t.Error("holding roles in many clubs must not grant district rights")
	}
	if d := r.Decide(a, CapAccessFinances, "c12"); d.Allowed {
		t.Error("role in other clubs leaked into unrelated scope")
	}
}

func TestMerge_LaterWinsOnCollision(t *testing.T) {
	earlier := Assignment{
		UserID:   "u1",
		IsActive: true,
		ClubRoles: map[string]ClubRole{
			"club-1": RoleVereinsschuetze,
			"club-2": RoleTrainer,
		},
		DistrictRoles: map[string]DistrictRole{"kv-einbeck": RoleKVKMOrga},
	}
	later := Assignment{
		UserID:    "u1",
		IsActive:  true,
		ClubRoles: map[string]ClubRole{"club-1": RoleVorstand},
		DistrictRoles: map[string]DistrictRole{
			"kv-einbeck": RoleKVWettkampfleiter,
		},
	}

	merged := Merge(earlier, later)

	if got := merged.ClubRoles["club-1"]; got != RoleVorstand {
		t.Errorf("expected later club role to win, got %s", got)
	}
	if got := merged.ClubRoles["club-2"]; got != RoleTrainer {
		t.Errorf("expected untouched club role to survive, got %s", got)
	}
	if got := merged.DistrictRoles["kv-einbeck"]; got != RoleKVWettkampfleiter {
		t.Errorf("expected later district role to win, got %s", got)
	}

	// Inputs must not be mutated.
	if earlier.ClubRoles["club-1"] != RoleVereinsschuetze {
		t.Error("Merge mutated its input")
	}
}

func TestMerge_SuperAdminSticks(t *testing.T) {
	earlier := Assignment{UserID: "u1", IsSuperAdmin: true, IsActive: true}
	later := Assignment{UserID: "u1", IsActive: true}

	if !Merge(earlier, later).IsSuperAdmin {
		t.Error("super admin flag lost in merge")
	}
	if !Merge(later, earlier).IsSuperAdmin {
		t.Error("super admin flag lost in reversed merge")
	}
}
