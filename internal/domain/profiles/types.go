package profiles

// Role es la enumeración cerrada de roles de la plataforma.
// Nada de comparar strings sueltos en handlers: siempre contra estas constantes.
type Role string

const (
	RoleUser    Role = "user"
	RoleRescuer Role = "rescuer"
	RoleShelter Role = "shelter"
	RoleVet     Role = "vet"
	RoleAdmin   Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleRescuer, RoleShelter, RoleVet, RoleAdmin:
		return true
	}
	return false
}

// Discoverable indica si el rol aparece en búsquedas por cercanía.
func (r Role) Discoverable() bool {
	switch r {
	case RoleRescuer, RoleShelter, RoleVet:
		return true
	}
	return false
}

// RequiresVerification: roles que necesitan aprobación de un admin
// antes de operar (subir documento => pending => verified/rejected).
func (r Role) RequiresVerification() bool {
	switch r {
	case RoleRescuer, RoleShelter, RoleVet:
		return true
	}
	return false
}

type VerificationStatus string

const (
	VerificationNone     VerificationStatus = "none"
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func (t Theme) IsValid() bool {
	return t == ThemeLight || t == ThemeDark
}
