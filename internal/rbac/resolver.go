package rbac

// Capability is an action a user may request within a club or district scope.
type Capability string

const (
	CapAccessFinances  Capability = "ACCESS_FINANCES"
	CapAccessMembers   Capability = "ACCESS_MEMBERS"
	CapAccessProtocols Capability = "ACCESS_PROTOCOLS"
	CapAccessTasks     Capability = "ACCESS_TASKS"
	CapAccessLicenses  Capability = "ACCESS_LICENSES"
	CapAccessJubilees  Capability = "ACCESS_JUBILEES"
	CapEnterResults    Capability = "ENTER_RESULTS"
	CapManageKM        Capability = "MANAGE_KM"
)

// districtScoped marks capabilities that are evaluated against district roles
// rather than club roles.
var districtScoped = map[Capability]bool{
	CapManageKM: true,
}

// DistrictScoped reports whether cap is evaluated against district roles.
func DistrictScoped(cap Capability) bool { return districtScoped[cap] }

// Table maps each capability to the roles allowed to exercise it. The table is
// configuration data so the association can adjust it between seasons without a
// code change.
type Table struct {
	ClubCapabilities     map[Capability][]ClubRole
	DistrictCapabilities map[Capability][]DistrictRole
}

// DefaultTable returns the capability table from the association's rulebook.
func DefaultTable() Table {
	return Table{
		ClubCapabilities: map[Capability][]ClubRole{
			CapAccessFinances:  {RoleVorstand, RoleKassenwart},
			CapAccessMembers:   {RoleVorstand, RoleSchriftfuehrer, RoleSportleiter},
			CapAccessProtocols: {RoleVorstand, RoleSchriftfuehrer},
			CapAccessTasks:     {RoleVorstand, RoleSportleiter, RoleSchriftfuehrer, RoleKassenwart},
			CapAccessLicenses:  {RoleVorstand, RoleSportleiter, RoleAusbilder},
			CapAccessJubilees:  {RoleVorstand, RoleSchriftfuehrer},
			CapEnterResults:    {RoleVorstand, RoleSportleiter, RoleTrainer},
		},
		DistrictCapabilities: map[Capability][]DistrictRole{
			CapManageKM: {RoleKVWettkampfleiter, RoleKVKMOrga},
		},
	}
}

// Decision is the outcome of a permission check. MatchedRole carries the role
// that granted access, for diagnostics; it is empty on deny and on the
// super-admin bypass.
type Decision struct {
	Allowed     bool
	MatchedRole string
}

// Resolver evaluates capability requests against role assignments.
type Resolver struct {
	table Table
}

// NewResolver creates a Resolver using the given capability table.
func NewResolver(table Table) *Resolver {
	return &Resolver{table: table}
}

// Decide reports whether the assignment grants the capability within the given
// scope (a club id, or a district id for district-scoped capabilities).
//
// The check is fail-closed: an inactive assignment, a missing role for the
// scope, or a capability absent from the table all deny. Roles held in other
// clubs never leak into the requested scope; callers must pass the scope the
// user is acting in.
func (r *Resolver) Decide(a Assignment, cap Capability, scopeID string) Decision {
	if a.IsSuperAdmin {
		return Decision{Allowed: true}
	}
	if !a.IsActive {
		return Decision{}
	}

	if districtScoped[cap] {
		role, ok := a.DistrictRoles[scopeID]
		if !ok {
			return Decision{}
		}
		for _, allowed := range r.table.DistrictCapabilities[cap] {
			if role == allowed {
				return Decision{Allowed: true, MatchedRole: string(role)}
			}
		}
		return Decision{}
	}

	role, ok := a.ClubRoles[scopeID]
	if !ok {
		return Decision{}
	}
	for _, allowed := range r.table.ClubCapabilities[cap] {
		if role == allowed {
			return Decision{Allowed: true, MatchedRole: string(role)}
		}
	}
	return Decision{}
}
