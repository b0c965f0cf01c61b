package dto

// CreateMachineryRequest entrada para registrar un equipo.
type CreateMachineryRequest struct {
	Number string `json:"number" validate:"required,max=20"`
	Type   string `json:"type" validate:"required,oneof=camioneta camion extraccion batea otros"`
	Plate  string `json:"plate" validate:"required,max=20"`
}

// MachineryResponse salida de un equipo.
type MachineryResponse struct {
	ID     string `json:"id"`
	Number string `json:"number"`
	Type   string `json:"type"`
	Plate  string `json:"plate"`
}
