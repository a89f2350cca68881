package rbac

// ClubRole is a permission tag scoped to a single club.
type ClubRole string

const (
	RoleVorstand       ClubRole = "VORSTAND"
	RoleSportleiter    ClubRole = "SPORTLEITER"
	RoleKassenwart     ClubRole = "KASSENWART"
	RoleSchriftfuehrer ClubRole = "SCHRIFTFUEHRER"
	RoleJugendwart     ClubRole = "JUGENDWART"
	RoleDamenwart      ClubRole = "DAMENWART"
	RoleZeugwart       ClubRole = "ZEUGWART"
	RolePressewart     ClubRole = "PRESSEWART"
	RoleTrainer        ClubRole = "TRAINER"
	RoleAusbilder      ClubRole = "AUSBILDER"
	RoleVereinsschuetze ClubRole = "VEREINSSCHUETZE"
	RoleEhrenmitglied  ClubRole = "EHRENMITGLIED"
)

// DistrictRole is a permission tag scoped to the whole district.
type DistrictRole string

const (
	RoleKVWettkampfleiter DistrictRole = "KV_WETTKAMPFLEITER"
	RoleKVKMOrga          DistrictRole = "KV_KM_ORGA"
)

// validClubRoles is the closed set of accepted club role tags.
var validClubRoles = map[ClubRole]bool{
	RoleVorstand: true, RoleSportleiter: true, RoleKassenwart: true,
	RoleSchriftfuehrer: true, RoleJugendwart: true, RoleDamenwart: true,
	RoleZeugwart: true, RolePressewart: true, RoleTrainer: true,
	RoleAusbilder: true, RoleVereinsschuetze: true, RoleEhrenmitglied: true,
}

// validDistrictRoles is the closed set of accepted district role tags.
var validDistrictRoles = map[DistrictRole]bool{
	RoleKVWettkampfleiter: true,
	RoleKVKMOrga:          true,
}

// ValidClubRole reports whether tag is a known club role.
func ValidClubRole(tag ClubRole) bool { return validClubRoles[tag] }

// ValidDistrictRole reports whether tag is a known district role.
func ValidDistrictRole(tag DistrictRole) bool { return validDistrictRoles[tag] }

// Assignment associates a user with their club- and district-scoped roles.
// A user holds at most one role per club id and at most one per district id;
// the map keys enforce that structurally.
type Assignment struct {
	UserID        string                  `json:"user_id"`
	IsSuperAdmin  bool                    `json:"is_super_admin"`
	IsActive      bool                    `json:"is_active"`
	ClubRoles     map[string]ClubRole     `json:"club_roles"`
	DistrictRoles map[string]DistrictRole `json:"district_roles"`
}

// Merge combines two partial assignments for the same user. Entries from the
// later assignment win on key collision. Flags are OR-ed for IsSuperAdmin and
// taken from the later assignment for IsActive. Neither input is mutated.
func Merge(earlier, later Assignment) Assignment {
	out := Assignment{
		UserID:        earlier.UserID,
		IsSuperAdmin:  earlier.IsSuperAdmin || later.IsSuperAdmin,
		IsActive:      later.IsActive,
		ClubRoles:     make(map[string]ClubRole, len(earlier.ClubRoles)+len(later.ClubRoles)),
		DistrictRoles: make(map[string]DistrictRole, len(earlier.DistrictRoles)+len(later.DistrictRoles)),
	}
	if out.UserID == "" {
		out.UserID = later.UserID
	}
	for club, role := range earlier.ClubRoles {
		out.ClubRoles[club] = role
	}
	for club, role := range later.ClubRoles {
		out.ClubRoles[club] = role
	}
	for district, role := range earlier.DistrictRoles {
		out.DistrictRoles[district] = role
	}
	for district, role := range later.DistrictRoles {
		out.DistrictRoles[district] = role
	}
	return out
}
