// Package memstore implementa los puertos de repositorio y los TxRunner en memoria para tests.
// Run/RunPurchasing serializan las transacciones con un mutex y restauran el estado si fn falla.
package memstore

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

// Store base de datos en memoria.
type Store struct {
	mu sync.Mutex

	products  map[string]*entity.Product
	suppliers map[string]*entity.Supplier
	machinery map[string]*entity.Machinery
	orders    map[string]*entity.PurchaseOrder
	requests  map[string]*entity.Request
	movements []*entity.Movement
	alerts    map[string]*entity.Alert
	sequences map[string]string

	// conflicts cantidad de transacciones que fallarán con ErrConcurrentUpdate antes de ejecutar fn.
	conflicts int
	// Commits transacciones confirmadas.
	Commits int
}

// New crea un store vacío.
func New() *Store {
	return &Store{
		products:  map[string]*entity.Product{},
		suppliers: map[string]*entity.Supplier{},
		machinery: map[string]*entity.Machinery{},
		orders:    map[string]*entity.PurchaseOrder{},
		requests:  map[string]*entity.Request{},
		alerts:    map[string]*entity.Alert{},
		sequences: map[string]string{},
	}
}

// FailWithConflict hace que las próximas n transacciones devuelvan domain.ErrConcurrentUpdate.
func (s *Store) FailWithConflict(n int) {
	s.mu.Lock()
	s.conflicts = n
	s.mu.Unlock()
}

// SetSequence fija el último valor asignado de una partición.
func (s *Store) SetSequence(partition, value string) {
	s.mu.Lock()
	s.sequences[partition] = value
	s.mu.Unlock()
}

// MovementsSnapshot copia de los movimientos registrados.
func (s *Store) MovementsSnapshot() []entity.Movement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Movement, 0, len(s.movements))
	for _, m := range s.movements {
		out = append(out, *m)
	}
	return out
}

// Run implementa inventory.TxRunner.
func (s *Store) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.PurchaseOrderRepository,
) error) error {
	return s.tx(ctx, func(tx handle) error {
		return fn(movementRepo{tx}, productRepo{tx}, orderRepo{tx})
	})
}

// RunPurchasing implementa purchasing.TxRunner.
func (s *Store) RunPurchasing(ctx context.Context, fn func(
	seqRepo repository.SequenceRepository,
	orderRepo repository.PurchaseOrderRepository,
	requestRepo repository.RequestRepository,
) error) error {
	return s.tx(ctx, func(tx handle) error {
		return fn(sequenceRepo{tx}, orderRepo{tx}, requestRepo{tx})
	})
}

func (s *Store) tx(ctx context.Context, fn func(handle) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conflicts > 0 {
		s.conflicts--
		return domain.ErrConcurrentUpdate
	}
	snap := s.snapshot()
	if err := fn(handle{s: s, inTx: true}); err != nil {
		s.restore(snap)
		return err
	}
	s.Commits++
	return nil
}

// Repositorios fuera de transacción.

func (s *Store) Products() repository.ProductRepository {
	return productRepo{handle{s: s}}
}

func (s *Store) Suppliers() repository.SupplierRepository {
	return supplierRepo{handle{s: s}}
}

func (s *Store) Machinery() repository.MachineryRepository {
	return machineryRepo{handle{s: s}}
}

func (s *Store) Orders() repository.PurchaseOrderRepository {
	return orderRepo{handle{s: s}}
}

func (s *Store) Requests() repository.RequestRepository {
	return requestRepo{handle{s: s}}
}

func (s *Store) Movements() repository.MovementRepository {
	return movementRepo{handle{s: s}}
}

func (s *Store) Alerts() repository.AlertRepository {
	return alertRepo{handle{s: s}}
}

func (s *Store) Sequences() repository.SequenceRepository {
	return sequenceRepo{handle{s: s}}
}

func (s *Store) Analytics() repository.AnalyticsRepository {
	return analyticsRepo{handle{s: s}}
}

// handle acceso al store; dentro de una transacción el mutex ya está tomado.
type handle struct {
	s    *Store
	inTx bool
}

func (h handle) lock() func() {
	if h.inTx {
		return func() {}
	}
	h.s.mu.Lock()
	return h.s.mu.Unlock
}

type state struct {
	products  map[string]*entity.Product
	suppliers map[string]*entity.Supplier
	machinery map[string]*entity.Machinery
	orders    map[string]*entity.PurchaseOrder
	requests  map[string]*entity.Request
	movements []*entity.Movement
	alerts    map[string]*entity.Alert
	sequences map[string]string
}

func (s *Store) snapshot() state {
	st := state{
		products:  make(map[string]*entity.Product, len(s.products)),
		suppliers: make(map[string]*entity.Supplier, len(s.suppliers)),
		machinery: make(map[string]*entity.Machinery, len(s.machinery)),
		orders:    make(map[string]*entity.PurchaseOrder, len(s.orders)),
		requests:  make(map[string]*entity.Request, len(s.requests)),
		movements: append([]*entity.Movement(nil), s.movements...),
		alerts:    make(map[string]*entity.Alert, len(s.alerts)),
		sequences: make(map[string]string, len(s.sequences)),
	}
	for k, v := range s.products {
		st.products[k] = cloneProduct(v)
	}
	for k, v := range s.suppliers {
		c := *v
		st.suppliers[k] = &c
	}
	for k, v := range s.machinery {
		c := *v
		st.machinery[k] = &c
	}
	for k, v := range s.orders {
		st.orders[k] = cloneOrder(v)
	}
	for k, v := range s.requests {
		st.requests[k] = cloneRequest(v)
	}
	for k, v := range s.alerts {
		st.alerts[k] = cloneAlert(v)
	}
	for k, v := range s.sequences {
		st.sequences[k] = v
	}
	return st
}

func (s *Store) restore(st state) {
	s.products = st.products
	s.suppliers = st.suppliers
	s.machinery = st.machinery
	s.orders = st.orders
	s.requests = st.requests
	s.movements = st.movements
	s.alerts = st.alerts
	s.sequences = st.sequences
}

func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.New().String()
}

func cloneProduct(p *entity.Product) *entity.Product {
	c := *p
	return &c
}

func cloneOrder(o *entity.PurchaseOrder) *entity.PurchaseOrder {
	c := *o
	c.Lines = append([]entity.OrderLine(nil), o.Lines...)
	return &c
}

func cloneRequest(r *entity.Request) *entity.Request {
	c := *r
	c.Lines = append([]entity.RequestLine(nil), r.Lines...)
	return &c
}

func cloneAlert(a *entity.Alert) *entity.Alert {
	c := *a
	if a.ResolvedAt != nil {
		t := *a.ResolvedAt
		c.ResolvedAt = &t
	}
	return &c
}
