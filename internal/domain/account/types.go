package account

type Role string

const (
	RoleDiver    Role = "diver"
	RoleGuide    Role = "guide"
	RoleOperator Role = "operator"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleDiver, RoleGuide, RoleOperator:
		return true
	default:
		return false
	}
}
