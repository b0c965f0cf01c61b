package entity

// Tipos de equipo.
const (
	MachineryTypePickup     = "camioneta"
	MachineryTypeTruck      = "camion"
	MachineryTypeExtraction = "extraccion"
	MachineryTypeTipper     = "batea"
	MachineryTypeOther      = "otros"
)

// Machinery equipo de la flota al que se cargan salidas con cargo "maquinaria".
type Machinery struct {
	ID     string
	Number string // nro de equipo, único
	Type   string
	Plate  string // patente
}

// ValidMachineryType indica si t es un tipo de equipo conocido.
func ValidMachineryType(t string) bool {
	switch t {
	case MachineryTypePickup, MachineryTypeTruck, MachineryTypeExtraction,
		MachineryTypeTipper, MachineryTypeOther:
		return true
	}
	return false
}
