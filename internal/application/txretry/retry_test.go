package txretry_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/bodega-api/internal/application/txretry"
	"github.com/jhoicas/bodega-api/internal/domain"
)

func TestDo_ReintentaConflictosHastaAgotar(t *testing.T) {
	calls := 0
	err := txretry.Do(context.Background(), 3, func() error {
		calls++
		return fmt.Errorf("update line: %w", domain.ErrConcurrentUpdate)
	})
	assert.Equal(t, 3, calls)
	assert.True(t, errors.Is(err, domain.ErrConcurrentUpdate))
}

func TestDo_ExitoTrasUnConflicto(t *testing.T) {
	calls := 0
	err := txretry.Do(context.Background(), 3, func() error {
		calls++
		if calls == 1 {
			return domain.ErrConcurrentUpdate
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestDo_NoReintentaOtrosErrores(t *testing.T) {
	calls := 0
	err := txretry.Do(context.Background(), 3, func() error {
		calls++
		return domain.ErrNotFound
	})
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDo_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	err := txretry.Do(ctx, 3, func() error {
		calls++
		return domain.ErrConcurrentUpdate
	})
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, context.Canceled)
}
