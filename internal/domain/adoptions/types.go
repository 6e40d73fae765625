package adoptions

// ListingStatus es el ciclo de vida del anuncio.
// available -> pending -> adopted; una dirección.
type ListingStatus string

const (
	ListingAvailable ListingStatus = "available"
	ListingPending   ListingStatus = "pending"
	ListingAdopted   ListingStatus = "adopted"
)

// RequestStatus es el estado de la solicitud; pending es el único
// estado no terminal.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)
