package purchasing_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/purchasing"
)

func TestNext_SinValorPrevioDevuelveInicio(t *testing.T) {
	parts := purchasing.DefaultPartitions()
	cases := map[string]int64{
		purchasing.PartitionInversiones: 7698,
		purchasing.PartitionMaquinarias: 280,
		purchasing.PartitionRequests:    3400,
	}
	for key, want := range cases {
		p, err := parts.Lookup(key)
		require.NoError(t, err)
		assert.Equal(t, want, p.Next("", false), key)
	}
}

func TestNext_IncrementaUltimo(t *testing.T) {
	p, _ := purchasing.DefaultPartitions().Lookup(purchasing.PartitionMaquinarias)
	assert.Equal(t, int64(301), p.Next("300", true))
	assert.Equal(t, int64(301), p.Next(" 300 ", true))
}

// 7787 + 1 = 7788 está reservado en Inversiones: se entrega 7789.
func TestNext_SaltaValorReservado(t *testing.T) {
	p, _ := purchasing.DefaultPartitions().Lookup(purchasing.PartitionInversiones)
	assert.Equal(t, int64(7789), p.Next("7787", true))
	assert.Equal(t, int64(7787), p.Next("7786", true))
	assert.Equal(t, int64(7790), p.Next("7789", true))
}

// El salto es propio de la partición: Maquinarias sí entrega 7788.
func TestNext_SaltoNoAplicaAOtraParticion(t *testing.T) {
	p, _ := purchasing.DefaultPartitions().Lookup(purchasing.PartitionMaquinarias)
	assert.Equal(t, int64(7788), p.Next("7787", true))
}

func TestNext_ValorNoNumericoVuelveAlInicio(t *testing.T) {
	p, _ := purchasing.DefaultPartitions().Lookup(purchasing.PartitionRequests)
	assert.Equal(t, int64(3400), p.Next("SOL-12", true))
}

func TestLookup_ParticionDesconocida(t *testing.T) {
	_, err := purchasing.DefaultPartitions().Lookup("Otra Empresa SPA")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidPartition))
}

func TestIsOrderPartition(t *testing.T) {
	parts := purchasing.DefaultPartitions()
	assert.True(t, parts.IsOrderPartition(purchasing.PartitionInversiones))
	assert.True(t, parts.IsOrderPartition(purchasing.PartitionMaquinarias))
	assert.False(t, parts.IsOrderPartition(purchasing.PartitionRequests))
	assert.False(t, parts.IsOrderPartition("x"))
}
