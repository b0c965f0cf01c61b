package memstore

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	rules "github.com/jhoicas/bodega-api/internal/domain/purchasing"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

type productRepo struct{ handle }

func (r productRepo) Create(_ context.Context, p *entity.Product) error {
	defer r.lock()()
	for _, existing := range r.s.products {
		if existing.Code == p.Code {
			return domain.ErrDuplicate
		}
	}
	p.ID = newID(p.ID)
	r.s.products[p.ID] = cloneProduct(p)
	return nil
}

func (r productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	defer r.lock()()
	if p, ok := r.s.products[id]; ok {
		return cloneProduct(p), nil
	}
	return nil, nil
}

func (r productRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	defer r.lock()()
	for _, p := range r.s.products {
		if p.Code == code {
			return cloneProduct(p), nil
		}
	}
	return nil, nil
}

func (r productRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r productRepo) Update(_ context.Context, p *entity.Product) error {
	defer r.lock()()
	cur, ok := r.s.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	for _, other := range r.s.products {
		if other.ID != p.ID && other.Code == p.Code {
			return domain.ErrDuplicate
		}
	}
	c := cloneProduct(p)
	c.Stock = cur.Stock
	r.s.products[p.ID] = c
	return nil
}

func (r productRepo) AdjustStock(_ context.Context, id string, delta int64) (int64, error) {
	defer r.lock()()
	p, ok := r.s.products[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	p.Stock += delta
	return p.Stock, nil
}

func (r productRepo) UpdatePurchasePrice(_ context.Context, id string, price decimal.Decimal) error {
	defer r.lock()()
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.PurchasePrice = price
	return nil
}

func (r productRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	defer r.lock()()
	q := strings.ToLower(strings.TrimSpace(f.Search))
	var out []*entity.Product
	for _, p := range r.s.products {
		if q != "" && !strings.Contains(strings.ToLower(p.Code), q) && !strings.Contains(strings.ToLower(p.Name), q) {
			continue
		}
		out = append(out, cloneProduct(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r productRepo) ListBelowMinimum(_ context.Context) ([]*entity.Product, error) {
	defer r.lock()()
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.BelowMinimum() {
			out = append(out, cloneProduct(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

type supplierRepo struct{ handle }

func (r supplierRepo) Create(_ context.Context, sup *entity.Supplier) error {
	defer r.lock()()
	for _, existing := range r.s.suppliers {
		if existing.Name == sup.Name || existing.TaxID == sup.TaxID {
			return domain.ErrDuplicate
		}
	}
	sup.ID = newID(sup.ID)
	c := *sup
	r.s.suppliers[sup.ID] = &c
	return nil
}

func (r supplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	defer r.lock()()
	if sup, ok := r.s.suppliers[id]; ok {
		c := *sup
		return &c, nil
	}
	return nil, nil
}

func (r supplierRepo) List(_ context.Context) ([]*entity.Supplier, error) {
	defer r.lock()()
	out := make([]*entity.Supplier, 0, len(r.s.suppliers))
	for _, sup := range r.s.suppliers {
		c := *sup
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type machineryRepo struct{ handle }

func (r machineryRepo) Create(_ context.Context, m *entity.Machinery) error {
	defer r.lock()()
	for _, existing := range r.s.machinery {
		if existing.Number == m.Number {
			return domain.ErrDuplicate
		}
	}
	m.ID = newID(m.ID)
	c := *m
	r.s.machinery[m.ID] = &c
	return nil
}

func (r machineryRepo) GetByID(_ context.Context, id string) (*entity.Machinery, error) {
	defer r.lock()()
	if m, ok := r.s.machinery[id]; ok {
		c := *m
		return &c, nil
	}
	return nil, nil
}

func (r machineryRepo) List(_ context.Context) ([]*entity.Machinery, error) {
	defer r.lock()()
	out := make([]*entity.Machinery, 0, len(r.s.machinery))
	for _, m := range r.s.machinery {
		c := *m
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

type orderRepo struct{ handle }

func (r orderRepo) Create(_ context.Context, o *entity.PurchaseOrder) error {
	defer r.lock()()
	for _, existing := range r.s.orders {
		if existing.Company == o.Company && existing.Number == o.Number {
			return domain.ErrDuplicate
		}
	}
	o.ID = newID(o.ID)
	for i := range o.Lines {
		o.Lines[i].ID = newID(o.Lines[i].ID)
		o.Lines[i].OrderID = o.ID
	}
	r.s.orders[o.ID] = cloneOrder(o)
	return nil
}

func (r orderRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	defer r.lock()()
	if o, ok := r.s.orders[id]; ok {
		return cloneOrder(o), nil
	}
	return nil, nil
}

func (r orderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, id)
}

func (r orderRepo) AddReceived(_ context.Context, lineID string, qty int64) (int64, error) {
	defer r.lock()()
	for _, o := range r.s.orders {
		for i := range o.Lines {
			if o.Lines[i].ID == lineID {
				o.Lines[i].Received += qty
				return o.Lines[i].Received, nil
			}
		}
	}
	return 0, domain.ErrNotFound
}

func (r orderRepo) UpdateStatus(_ context.Context, id string, status entity.OrderStatus) error {
	defer r.lock()()
	o, ok := r.s.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	return nil
}

func (r orderRepo) MarkStale(_ context.Context, cutoff time.Time) (int64, error) {
	defer r.lock()()
	var n int64
	for _, o := range r.s.orders {
		if o.Status == entity.OrderStatusPending && o.CreatedAt.Before(cutoff) {
			o.Status = entity.OrderStatusInactive
			n++
		}
	}
	return n, nil
}

func (r orderRepo) List(_ context.Context, f repository.OrderFilter) ([]*entity.PurchaseOrder, error) {
	defer r.lock()()
	var out []*entity.PurchaseOrder
	for _, o := range r.s.orders {
		if len(f.Statuses) > 0 && !hasStatus(f.Statuses, o.Status) {
			continue
		}
		if f.CreatedBefore != nil && !o.CreatedAt.Before(*f.CreatedBefore) {
			continue
		}
		out = append(out, cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, f.Offset, f.Limit), nil
}

func hasStatus(list []entity.OrderStatus, s entity.OrderStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func page[T any](items []T, offset, limit int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

type requestRepo struct{ handle }

func (r requestRepo) Create(_ context.Context, req *entity.Request) error {
	defer r.lock()()
	for _, existing := range r.s.requests {
		if existing.Number == req.Number {
			return domain.ErrDuplicate
		}
	}
	req.ID = newID(req.ID)
	for i := range req.Lines {
		req.Lines[i].ID = newID(req.Lines[i].ID)
		req.Lines[i].RequestID = req.ID
	}
	r.s.requests[req.ID] = cloneRequest(req)
	return nil
}

func (r requestRepo) GetByID(_ context.Context, id string) (*entity.Request, error) {
	defer r.lock()()
	if req, ok := r.s.requests[id]; ok {
		return cloneRequest(req), nil
	}
	return nil, nil
}

func (r requestRepo) GetForUpdate(ctx context.Context, id string) (*entity.Request, error) {
	return r.GetByID(ctx, id)
}

func (r requestRepo) UpdateStatus(_ context.Context, id string, status entity.RequestStatus, at time.Time) error {
	defer r.lock()()
	req, ok := r.s.requests[id]
	if !ok {
		return domain.ErrNotFound
	}
	req.Status = status
	req.UpdatedAt = at
	return nil
}

func (r requestRepo) List(_ context.Context, f repository.RequestFilter) ([]*entity.Request, error) {
	defer r.lock()()
	var out []*entity.Request
	for _, req := range r.s.requests {
		if f.Status != "" && req.Status != f.Status {
			continue
		}
		if f.CreatedBefore != nil && !req.CreatedAt.Before(*f.CreatedBefore) {
			continue
		}
		out = append(out, cloneRequest(req))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, f.Offset, f.Limit), nil
}

type sequenceRepo struct{ handle }

func (r sequenceRepo) Lock(_ context.Context, partition string) (string, bool, error) {
	defer r.lock()()
	v, ok := r.s.sequences[partition]
	if !ok {
		v = r.highestNumber(partition)
		r.s.sequences[partition] = v
	}
	return v, v != "", nil
}

// highestNumber mayor número numérico ya guardado en la partición, "" si no hay.
func (r sequenceRepo) highestNumber(partition string) string {
	var (
		max   int64
		found bool
	)
	consider := func(number string) {
		n, err := strconv.ParseInt(number, 10, 64)
		if err != nil || n < 0 {
			return
		}
		if !found || n > max {
			max, found = n, true
		}
	}
	if partition == rules.PartitionRequests {
		for _, req := range r.s.requests {
			consider(req.Number)
		}
	} else {
		for _, o := range r.s.orders {
			if o.Company == partition {
				consider(o.Number)
			}
		}
	}
	if !found {
		return ""
	}
	return strconv.FormatInt(max, 10)
}

func (r sequenceRepo) Advance(_ context.Context, partition, value string) error {
	defer r.lock()()
	r.s.sequences[partition] = value
	return nil
}

type movementRepo struct{ handle }

func (r movementRepo) Create(_ context.Context, m *entity.Movement) error {
	defer r.lock()()
	m.ID = newID(m.ID)
	c := *m
	r.s.movements = append(r.s.movements, &c)
	return nil
}

func (r movementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	defer r.lock()()
	var out []*entity.Movement
	for _, m := range r.s.movements {
		if f.Kind != "" && m.Kind != f.Kind {
			continue
		}
		if f.From != nil && m.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && m.CreatedAt.After(*f.To) {
			continue
		}
		if f.ConsignmentOnly {
			p, ok := r.s.products[m.ProductID]
			if !ok || !p.Consignment {
				continue
			}
		}
		c := *m
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, f.Offset, f.Limit), nil
}

type alertRepo struct{ handle }

func (r alertRepo) Create(_ context.Context, a *entity.Alert) error {
	defer r.lock()()
	a.ID = newID(a.ID)
	r.s.alerts[a.ID] = cloneAlert(a)
	return nil
}

func (r alertRepo) GetByID(_ context.Context, id string) (*entity.Alert, error) {
	defer r.lock()()
	if a, ok := r.s.alerts[id]; ok {
		return cloneAlert(a), nil
	}
	return nil, nil
}

func (r alertRepo) ExistsPending(_ context.Context, alertType, originID string) (bool, error) {
	defer r.lock()()
	for _, a := range r.s.alerts {
		if a.Type == alertType && a.OriginID == originID && a.Status == entity.AlertStatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (r alertRepo) Resolve(_ context.Context, a *entity.Alert) error {
	defer r.lock()()
	cur, ok := r.s.alerts[a.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if cur.Status != entity.AlertStatusPending {
		return domain.ErrInvalidState
	}
	r.s.alerts[a.ID] = cloneAlert(a)
	return nil
}

func (r alertRepo) List(_ context.Context, f repository.AlertFilter) ([]*entity.Alert, error) {
	defer r.lock()()
	var out []*entity.Alert
	for _, a := range r.s.alerts {
		if f.From != nil && a.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && a.CreatedAt.After(*f.To) {
			continue
		}
		out = append(out, cloneAlert(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type analyticsRepo struct{ handle }

func (r analyticsRepo) GetStockTotals(_ context.Context) (repository.StockTotals, error) {
	defer r.lock()()
	t := repository.StockTotals{TotalValue: decimal.Zero}
	for _, p := range r.s.products {
		t.Products++
		if p.BelowMinimum() {
			t.BelowMinimum++
		}
		t.TotalValue = t.TotalValue.Add(p.TotalValue())
	}
	return t, nil
}

func (r analyticsRepo) CountOrdersByStatus(_ context.Context) (map[entity.OrderStatus]int, error) {
	defer r.lock()()
	out := map[entity.OrderStatus]int{}
	for _, o := range r.s.orders {
		out[o.Status]++
	}
	return out, nil
}

func (r analyticsRepo) CountPendingRequests(_ context.Context) (int, error) {
	defer r.lock()()
	n := 0
	for _, req := range r.s.requests {
		if req.Status == entity.RequestStatusPending {
			n++
		}
	}
	return n, nil
}

func (r analyticsRepo) CountPendingAlerts(_ context.Context) (int, error) {
	defer r.lock()()
	n := 0
	for _, a := range r.s.alerts {
		if a.Status == entity.AlertStatusPending {
			n++
		}
	}
	return n, nil
}
