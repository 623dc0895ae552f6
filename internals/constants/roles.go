package constants

import "fmt"

// Role yang dibawa di klaim JWT.
const (
	RoleCandidat   = "candidat"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

var AdminRoles = []string{RoleAdmin, RoleSuperAdmin}

// Template pesan error role
const (
	ErrOnlyAdminsCanAccess      = "Seuls les administrateurs peuvent accéder à %s."
	ErrOnlySuperAdminsCanAccess = "Seul un super administrateur peut accéder à %s."
	ErrOnlyCandidatsCanAccess   = "Seuls les candidats peuvent accéder à %s."
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorSuperAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlySuperAdminsCanAccess, feature)
}

func RoleErrorCandidat(feature string) string {
	return fmt.Sprintf(ErrOnlyCandidatsCanAccess, feature)
}
