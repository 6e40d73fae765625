package appointments

// Status del turno. Transiciones en una sola dirección:
// pending -> confirmed -> completed, pending -> rejected,
// pending/confirmed -> cancelled.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// ServiceType es el tipo de atención que pide el dueño.
type ServiceType string

const (
	ServiceConsultation  ServiceType = "consultation"
	ServiceVaccination   ServiceType = "vaccination"
	ServiceDeworming     ServiceType = "deworming"
	ServiceSterilization ServiceType = "sterilization"
	ServiceGrooming      ServiceType = "grooming"
	ServiceEmergency     ServiceType = "emergency"
)

func (t ServiceType) IsValid() bool {
	switch t {
	case ServiceConsultation, ServiceVaccination, ServiceDeworming,
		ServiceSterilization, ServiceGrooming, ServiceEmergency:
		return true
	}
	return false
}

// TimeSlot es la franja preferida del dueño; la hora exacta la fija
// el veterinario al confirmar.
type TimeSlot string

const (
	SlotMorning   TimeSlot = "morning"
	SlotAfternoon TimeSlot = "afternoon"
	SlotEvening   TimeSlot = "evening"
)

func (s TimeSlot) IsValid() bool {
	return s == SlotMorning || s == SlotAfternoon || s == SlotEvening
}
