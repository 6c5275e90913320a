package models

type UserRole string

const (
	OrgAdminRole   UserRole = "ORG_ADMIN_ROLE"
	OrgManagerRole UserRole = "ORG_MANAGER_ROLE"
	OrgViewerRole  UserRole = "ORG_VIEWER_ROLE"
)

var roleHumanName = map[UserRole]string{
	OrgAdminRole:   "Administrador",
	OrgManagerRole: "Gestor",
	OrgViewerRole:  "Visualizador",
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)
}

func (r UserRole) IsOrgAdmin() bool {
	return r == OrgAdminRole
}

// CanExport reports whether the role may download literal response data.
func (r UserRole) CanExport() bool {
	return r == OrgAdminRole || r == OrgManagerRole
}
