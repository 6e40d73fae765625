package lostfound

// ReportType clasifica el reporte: mascota perdida o encontrada.
type ReportType string

const (
	TypeLost  ReportType = "lost"
	TypeFound ReportType = "found"
)

func (t ReportType) IsValid() bool {
	return t == TypeLost || t == TypeFound
}

// ReportStatus es el estado primario del reporte. Avanza en una sola
// dirección: lost -> sighted -> found/reunited. Independiente de la custodia.
type ReportStatus string

const (
	StatusLost     ReportStatus = "lost"
	StatusSighted  ReportStatus = "sighted"
	StatusFound    ReportStatus = "found"
	StatusReunited ReportStatus = "reunited"
)

// CustodyStatus es el sub-estado de custodia, solo con sentido cuando
// el reporte es de tipo "found":
//   - user_holding: quien encontró se queda con el animal (terminal)
//   - rescuer_notified -> pickup_scheduled -> in_shelter
//
// in_shelter nunca lo origina este API: lo asienta un proceso externo
// y acá solo se acepta/renderiza.
type CustodyStatus string

const (
	CustodyNone            CustodyStatus = ""
	CustodyUserHolding     CustodyStatus = "user_holding"
	CustodyRescuerNotified CustodyStatus = "rescuer_notified"
	CustodyPickupScheduled CustodyStatus = "pickup_scheduled"
	CustodyInShelter       CustodyStatus = "in_shelter"
)

// ValidAtCreation: ramas de custodia que el finder puede elegir al crear.
func (c CustodyStatus) ValidAtCreation() bool {
	return c == CustodyUserHolding || c == CustodyRescuerNotified
}
