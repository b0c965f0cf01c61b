package entity

// Supplier representa un proveedor.
type Supplier struct {
	ID       string
	Name     string // único
	TaxID    string // RUT, único
	Address  string
	Location string
	Email    string
	Phone    string
}
