package appointments

import (
	"strings"
	"time"
)

// Step es el paso del asistente de reserva.
type Step int

const (
	StepService Step = iota
	StepPetDetails
	StepMedicalHistory
	StepClinic
	StepSchedule
)

const lastStep = StepSchedule

// Draft es el borrador del wizard. Puro: no toca repositorio ni reloj;
// el servicio recién persiste cuando Complete() da verdadero.
type Draft struct {
	Service ServiceType

	PetName    string
	PetSpecies string
	PetBreed   string
	PetAge     string
	PetSex     string

	Vaccinated   bool
	Sterilized   bool
	Medicated    bool
	MedicalNotes string

	VetID string

	PreferredDate time.Time
	PreferredSlot TimeSlot
	Consent       bool
}

// Wizard recorre los cinco pasos en orden. Next se bloquea con un
// mensaje mientras el paso actual esté incompleto; Back siempre puede.
type Wizard struct {
	Draft Draft
	step  Step
}

func NewWizard() *Wizard {
	return &Wizard{step: StepService}
}

func (w *Wizard) Step() Step { return w.step }

// ValidateStep evalúa un paso contra el borrador actual. El mensaje
// está pensado para mostrarse tal cual al usuario.
func (w *Wizard) ValidateStep(step Step) (bool, string) {
	d := w.Draft
	switch step {
	case StepService:
		if !d.Service.IsValid() {
			return false, "Elige el tipo de servicio"
		}
	case StepPetDetails:
		if strings.TrimSpace(d.PetName) == "" {
			return false, "Falta el nombre de la mascota"
		}
		if strings.TrimSpace(d.PetSpecies) == "" {
			return false, "Falta la especie de la mascota"
		}
	case StepMedicalHistory:
		if d.Medicated && strings.TrimSpace(d.MedicalNotes) == "" {
			return false, "Si está medicada, indica qué medicación recibe"
		}
	case StepClinic:
		if strings.TrimSpace(d.VetID) == "" {
			return false, "Elige una veterinaria"
		}
	case StepSchedule:
		if d.PreferredDate.IsZero() {
			return false, "Elige una fecha"
		}
		if !d.PreferredSlot.IsValid() {
			return false, "Elige una franja horaria"
		}
		if !d.Consent {
			return false, "Debes aceptar las condiciones de atención"
		}
	default:
		return false, "Paso desconocido"
	}
	return true, ""
}

// Next avanza un paso si el actual está completo.
func (w *Wizard) Next() (bool, string) {
	if ok, msg := w.ValidateStep(w.step); !ok {
		return false, msg
	}
	if w.step < lastStep {
		w.step++
	}
	return true, ""
}

// Back retrocede sin condiciones; en el primer paso no hace nada.
func (w *Wizard) Back() {
	if w.step > StepService {
		w.step--
	}
}

// Complete valida el borrador entero, en orden. Devuelve el primer
// paso incompleto y su mensaje.
func (w *Wizard) Complete() (bool, Step, string) {
	for step := StepService; step <= lastStep; step++ {
		if ok, msg := w.ValidateStep(step); !ok {
			return false, step, msg
		}
	}
	return true, lastStep, ""
}

// Submit entrega el borrador listo para persistir. Solo con el último
// paso completo, igual que el botón final del wizard.
func (w *Wizard) Submit() (Draft, bool, string) {
	ok, _, msg := w.Complete()
	if !ok {
		return Draft{}, false, msg
	}
	return w.Draft, true, ""
}
