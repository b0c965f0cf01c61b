// Package jobs tareas en segundo plano (asynq): revisión de alertas y barrido de órdenes inactivas.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/jhoicas/bodega-api/internal/application/dto"
)

const (
	// QueueDefault cola por defecto.
	QueueDefault = "default"
	// TaskAlertScan revisión de órdenes, solicitudes y stock bajo.
	TaskAlertScan = "alerts:scan"
	// TaskOrderSweep paso de órdenes pendientes antiguas a inactiva.
	TaskOrderSweep = "orders:sweep"
)

// AlertScanPayload datos de la tarea de revisión.
type AlertScanPayload struct {
	Trigger string `json:"trigger"` // cron | manual
}

// OrderSweepPayload datos del barrido. AsOf nil usa la hora del worker.
type OrderSweepPayload struct {
	AsOf *time.Time `json:"as_of,omitempty"`
}

// NewAlertScanTask construye la tarea de revisión de alertas.
func NewAlertScanTask(trigger string) (*asynq.Task, error) {
	data, err := json.Marshal(AlertScanPayload{Trigger: trigger})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAlertScan, data), nil
}

// NewOrderSweepTask construye la tarea de barrido de órdenes.
func NewOrderSweepTask(asOf *time.Time) (*asynq.Task, error) {
	data, err := json.Marshal(OrderSweepPayload{AsOf: asOf})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderSweep, data), nil
}

// AlertScanner caso de uso de revisión de alertas.
type AlertScanner interface {
	Scan(ctx context.Context) (*dto.AlertScanResponse, error)
}

// OrderSweeper caso de uso de barrido de órdenes.
type OrderSweeper interface {
	SweepStale(ctx context.Context, asOf time.Time) (int64, error)
}

// AlertScanJob procesa TaskAlertScan.
type AlertScanJob struct {
	scanner AlertScanner
	log     zerolog.Logger
}

// NewAlertScanJob construye el handler.
func NewAlertScanJob(scanner AlertScanner, log zerolog.Logger) *AlertScanJob {
	return &AlertScanJob{scanner: scanner, log: log.With().Str("task", TaskAlertScan).Logger()}
}

// Handle ejecuta la revisión. Un payload inválido no se reintenta.
func (j *AlertScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	var p AlertScanPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("payload %s: %v: %w", TaskAlertScan, err, asynq.SkipRetry)
	}
	res, err := j.scanner.Scan(ctx)
	if err != nil {
		j.log.Error().Err(err).Str("trigger", p.Trigger).Msg("revisión de alertas falló")
		return err
	}
	j.log.Info().
		Str("trigger", p.Trigger).
		Int("stale_orders", res.StaleOrders).
		Int("stale_requests", res.StaleRequests).
		Int("low_stock", res.LowStock).
		Msg("revisión de alertas completada")
	return nil
}

// OrderSweepJob procesa TaskOrderSweep.
type OrderSweepJob struct {
	sweeper OrderSweeper
	log     zerolog.Logger
	now     func() time.Time
}

// NewOrderSweepJob construye el handler.
func NewOrderSweepJob(sweeper OrderSweeper, log zerolog.Logger) *OrderSweepJob {
	return &OrderSweepJob{
		sweeper: sweeper,
		log:     log.With().Str("task", TaskOrderSweep).Logger(),
		now:     time.Now,
	}
}

// Handle ejecuta el barrido.
func (j *OrderSweepJob) Handle(ctx context.Context, t *asynq.Task) error {
	var p OrderSweepPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("payload %s: %v: %w", TaskOrderSweep, err, asynq.SkipRetry)
	}
	asOf := j.now()
	if p.AsOf != nil {
		asOf = *p.AsOf
	}
	n, err := j.sweeper.SweepStale(ctx, asOf)
	if err != nil {
		return err
	}
	j.log.Info().Int64("updated", n).Time("as_of", asOf).Msg("órdenes inactivas actualizadas")
	return nil
}
