package common

type Role string

const (
	Researcher Role = "Researcher"
	UGStudent  Role = "Undergraduate Student"
	Industries Role = "Industries"
	LabManager Role = "Lab Manager"
)

type UserType string

const (
	UserResearcher UserType = "researcher"
	UserStudent    UserType = "student"
	UserIndustry   UserType = "industry"
	UserLabManager UserType = "lab_manager"
)

// AccessLevel is ordinal, a higher level includes every lower one.
type AccessLevel int

const (
	LevelBasic    AccessLevel = 1
	LevelIndustry AccessLevel = 2
	LevelResearch AccessLevel = 3
	LevelManager  AccessLevel = 4

	DefaultLevel = LevelResearch
)

type RoleInfo struct {
	Role        Role        `json:"role"`
	UserType    UserType    `json:"user_type"`
	AccessLevel AccessLevel `json:"access_level"`
}

var roleCatalog = []RoleInfo{
	{Role: Researcher, UserType: UserResearcher, AccessLevel: LevelResearch},
	{Role: UGStudent, UserType: UserStudent, AccessLevel: LevelBasic},
	{Role: Industries, UserType: UserIndustry, AccessLevel: LevelIndustry},
	{Role: LabManager, UserType: UserLabManager, AccessLevel: LevelManager},
}

func Roles() []RoleInfo {
	out := make([]RoleInfo, len(roleCatalog))
	copy(out, roleCatalog)
	return out
}

// ResolveRole maps a role name to its user type and level, unknown roles act as researchers.
func ResolveRole(role Role) RoleInfo {
	for _, r := range roleCatalog {
		if r.Role == role {
			return r
		}
	}
	return RoleInfo{Role: role, UserType: UserResearcher, AccessLevel: DefaultLevel}
}
