package profiles

import "time"

// Profile es el registro de identidad visible de un usuario.
// El ID es el mismo user id de la cuenta; se crea en el registro
// y nunca se borra desde este servicio.
type Profile struct {
	ID string

	Role         Role
	Verification VerificationStatus

	DisplayName string
	AvatarURL   string
	Phone       string
	Address     string
	Bio         string

	// ServiceInfo: especialidad o nombre de clínica, solo relevante
	// para vets/shelters.
	ServiceInfo string

	// Coordenadas para descubrimiento por cercanía. (0,0) = sin ubicación.
	Lat float64
	Lng float64

	// Preferencia de tema del cliente; se persiste aquí en vez de
	// local storage para que siga al usuario entre dispositivos.
	Theme Theme

	VerificationDocURL string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Guest es el perfil por defecto cuando el fetch del perfil real
// falla o excede el timeout: la UI degrada a modo invitado en vez
// de bloquearse.
func Guest(id string) Profile {
	return Profile{
		ID:           id,
		Role:         RoleUser,
		Verification: VerificationNone,
		DisplayName:  "Invitado",
		Theme:        ThemeLight,
	}
}
