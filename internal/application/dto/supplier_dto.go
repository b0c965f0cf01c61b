package dto

// CreateSupplierRequest entrada para registrar un proveedor.
type CreateSupplierRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	TaxID    string `json:"tax_id" validate:"required,max=20"`
	Address  string `json:"address" validate:"required,max=200"`
	Location string `json:"location" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,max=20"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	TaxID    string `json:"tax_id"`
	Address  string `json:"address"`
	Location string `json:"location"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}
