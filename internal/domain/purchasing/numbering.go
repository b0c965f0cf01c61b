// Package purchasing contiene las reglas de negocio puras de órdenes de compra:
// numeración correlativa por partición, cálculo de estado y conciliación de recepciones.
package purchasing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jhoicas/bodega-api/internal/domain"
)

// Claves de partición reconocidas.
const (
	PartitionInversiones = "Inversiones Imperia SPA"
	PartitionMaquinarias = "Maquinarias Imperia SPA"
	PartitionRequests    = "solicitudes"
)

// SkipRule valor reservado que la numeración nunca debe entregar.
type SkipRule struct {
	Name  string
	Value int64
}

// Partition ámbito de numeración con su valor inicial y reglas de salto.
type Partition struct {
	Key   string
	Start int64
	Skips []SkipRule
}

// ReservedOC7788 número de OC de Inversiones reservado en el correlativo histórico.
var ReservedOC7788 = SkipRule{Name: "oc-7788-reservada", Value: 7788}

// Next calcula el siguiente número dado el último asignado (last) en la partición.
// Sin valor previo o con un valor no numérico se devuelve Start.
func (p Partition) Next(last string, found bool) int64 {
	if !found || strings.TrimSpace(last) == "" {
		return p.Start
	}
	n, err := strconv.ParseInt(strings.TrimSpace(last), 10, 64)
	if err != nil {
		return p.Start
	}
	next := n + 1
	for _, s := range p.Skips {
		if next == s.Value {
			next++
		}
	}
	return next
}

// Partitions registro de particiones por clave.
type Partitions map[string]Partition

// DefaultPartitions particiones de la operación: una por empresa emisora de OC más la global de solicitudes.
func DefaultPartitions() Partitions {
	return Partitions{
		PartitionInversiones: {Key: PartitionInversiones, Start: 7698, Skips: []SkipRule{ReservedOC7788}},
		PartitionMaquinarias: {Key: PartitionMaquinarias, Start: 280},
		PartitionRequests:    {Key: PartitionRequests, Start: 3400},
	}
}

// Lookup devuelve la partición registrada o domain.ErrInvalidPartition.
func (ps Partitions) Lookup(key string) (Partition, error) {
	p, ok := ps[key]
	if !ok {
		return Partition{}, fmt.Errorf("%w: %q", domain.ErrInvalidPartition, key)
	}
	return p, nil
}

// IsOrderPartition indica si key es una empresa emisora de órdenes de compra.
func (ps Partitions) IsOrderPartition(key string) bool {
	_, ok := ps[key]
	return ok && key != PartitionRequests
}
