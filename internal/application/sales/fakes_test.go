package sales_test

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/crismard/ventapos-api/internal/application/inventory"
	"github.com/crismard/ventapos-api/internal/application/sales"
	"github.com/crismard/ventapos-api/internal/domain"
	"github.com/crismard/ventapos-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// fakeStore: estado en memoria compartido por los repos fake. El txRunner toma un
// snapshot antes de cada callback y lo restaura si falla, imitando el rollback de
// una transacción real.
// ──────────────────────────────────────────────────────────────────────────────

type fakeStore struct {
	stocks       map[string]*entity.WarehouseStock // variantID|warehouseID
	pos          map[string]bool                   // bodegas punto de venta
	reservations map[string]*entity.StockReservation
	movements    []*entity.StockMovement
	vales        map[string]*entity.Vale // por ID
	sales        map[string]*entity.Sale // por ValeID
	payments     []*entity.Payment
	customers    map[string]*entity.Customer
	variants     map[string]*entity.ProductVariant
	configs      map[string]string
	dailySeq     map[string]int
	saleSeq      int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		stocks:       map[string]*entity.WarehouseStock{},
		pos:          map[string]bool{},
		reservations: map[string]*entity.StockReservation{},
		vales:        map[string]*entity.Vale{},
		sales:        map[string]*entity.Sale{},
		customers:    map[string]*entity.Customer{},
		variants:     map[string]*entity.ProductVariant{},
		configs:      map[string]string{},
		dailySeq:     map[string]int{},
	}
}

func stockKey(variantID, warehouseID string) string { return variantID + "|" + warehouseID }

// addStock registra una posición de stock y marca la bodega como punto de venta.
func (s *fakeStore) addStock(variantID, warehouseID, available string) {
	s.stocks[stockKey(variantID, warehouseID)] = &entity.WarehouseStock{
		VariantID:   variantID,
		WarehouseID: warehouseID,
		Available:   decimal.RequireFromString(available),
	}
	s.pos[warehouseID] = true
}

func (s *fakeStore) addVariant(id, price string) {
	s.variants[id] = &entity.ProductVariant{
		ID:    id,
		SKU:   "SKU-" + id,
		Name:  "tela " + id,
		Price: decimal.RequireFromString(price),
	}
}

func (s *fakeStore) stockAt(variantID, warehouseID string) *entity.WarehouseStock {
	if st, ok := s.stocks[stockKey(variantID, warehouseID)]; ok {
		return st
	}
	return &entity.WarehouseStock{VariantID: variantID, WarehouseID: warehouseID}
}

func (s *fakeStore) valeByNumber(number string) *entity.Vale {
	for _, v := range s.vales {
		if v.Number == number {
			return v
		}
	}
	return nil
}

func (s *fakeStore) activeReservations(valeID string) []*entity.StockReservation {
	var out []*entity.StockReservation
	for _, r := range s.reservations {
		if r.ValeID == valeID && r.Status == entity.ReservationActive {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func copyVale(v *entity.Vale) *entity.Vale {
	if v == nil {
		return nil
	}
	c := *v
	c.Lines = nil
	for _, l := range v.Lines {
		lc := *l
		c.Lines = append(c.Lines, &lc)
	}
	return &c
}

func (s *fakeStore) clone() *fakeStore {
	c := newFakeStore()
	for k, v := range s.stocks {
		sc := *v
		c.stocks[k] = &sc
	}
	for k, v := range s.pos {
		c.pos[k] = v
	}
	for k, v := range s.reservations {
		rc := *v
		c.reservations[k] = &rc
	}
	c.movements = append(c.movements, s.movements...)
	for k, v := range s.vales {
		c.vales[k] = copyVale(v)
	}
	for k, v := range s.sales {
		sc := *v
		c.sales[k] = &sc
	}
	c.payments = append(c.payments, s.payments...)
	for k, v := range s.customers {
		cc := *v
		c.customers[k] = &cc
	}
	for k, v := range s.variants {
		vc := *v
		c.variants[k] = &vc
	}
	for k, v := range s.configs {
		c.configs[k] = v
	}
	for k, v := range s.dailySeq {
		c.dailySeq[k] = v
	}
	c.saleSeq = s.saleSeq
	return c
}

// ──────────────────────────────────────────────────────────────────────────────
// Repos fake
// ──────────────────────────────────────────────────────────────────────────────

type fakeStockRepo struct{ s *fakeStore }

func (r fakeStockRepo) Get(_ context.Context, variantID, warehouseID string) (*entity.WarehouseStock, error) {
	st := r.s.stockAt(variantID, warehouseID)
	c := *st
	return &c, nil
}

func (r fakeStockRepo) GetForUpdate(_ context.Context, variantID, warehouseID string) (*entity.WarehouseStock, error) {
	// Como el adaptador real: la fila inexistente se materializa en cero al bloquear.
	key := stockKey(variantID, warehouseID)
	if _, ok := r.s.stocks[key]; !ok {
		r.s.stocks[key] = &entity.WarehouseStock{VariantID: variantID, WarehouseID: warehouseID}
	}
	c := *r.s.stocks[key]
	return &c, nil
}

func (r fakeStockRepo) ListPointOfSaleForUpdate(_ context.Context, variantID string) ([]*entity.WarehouseStock, error) {
	var out []*entity.WarehouseStock
	for _, st := range r.s.stocks {
		if st.VariantID == variantID && r.s.pos[st.WarehouseID] {
			c := *st
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WarehouseID < out[j].WarehouseID })
	return out, nil
}

func (r fakeStockRepo) Upsert(_ context.Context, stock *entity.WarehouseStock) error {
	c := *stock
	r.s.stocks[stockKey(stock.VariantID, stock.WarehouseID)] = &c
	return nil
}

func (r fakeStockRepo) ListByWarehouse(_ context.Context, warehouseID string, belowMin bool, limit, offset int) ([]*entity.WarehouseStock, error) {
	var out []*entity.WarehouseStock
	for _, st := range r.s.stocks {
		if st.WarehouseID != warehouseID {
			continue
		}
		if belowMin && !st.BelowMinimum() {
			continue
		}
		c := *st
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VariantID < out[j].VariantID })
	return out, nil
}

type fakeMovementRepo struct{ s *fakeStore }

func (r fakeMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	c := *m
	r.s.movements = append(r.s.movements, &c)
	return nil
}

func (r fakeMovementRepo) GetByID(_ context.Context, id string) (*entity.StockMovement, error) {
	for _, m := range r.s.movements {
		if m.ID == id {
			c := *m
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r fakeMovementRepo) ListByWarehouse(_ context.Context, warehouseID string, _, _ *time.Time, _, _ int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.WarehouseID == warehouseID {
			c := *m
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r fakeMovementRepo) ListByVariant(_ context.Context, variantID string, _, _ *time.Time, _, _ int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.VariantID == variantID {
			c := *m
			out = append(out, &c)
		}
	}
	return out, nil
}

type fakeReservationRepo struct{ s *fakeStore }

func (r fakeReservationRepo) Create(_ context.Context, res *entity.StockReservation) error {
	c := *res
	r.s.reservations[res.ID] = &c
	return nil
}

func (r fakeReservationRepo) ListActiveByVale(_ context.Context, valeID string) ([]*entity.StockReservation, error) {
	var out []*entity.StockReservation
	for _, res := range r.s.activeReservations(valeID) {
		c := *res
		out = append(out, &c)
	}
	return out, nil
}

func (r fakeReservationRepo) markStatus(id, status string) (bool, error) {
	res, ok := r.s.reservations[id]
	if !ok || res.Status != entity.ReservationActive {
		return false, nil
	}
	res.Status = status
	res.UpdatedAt = time.Now()
	return true, nil
}

func (r fakeReservationRepo) MarkReleased(_ context.Context, id string) (bool, error) {
	return r.markStatus(id, entity.ReservationReleased)
}

func (r fakeReservationRepo) MarkCommitted(_ context.Context, id string) (bool, error) {
	return r.markStatus(id, entity.ReservationCommitted)
}

type fakeValeRepo struct{ s *fakeStore }

func (r fakeValeRepo) Create(_ context.Context, v *entity.Vale) error {
	// Como el repositorio Postgres: Create persiste sólo la cabecera; las
	// líneas llegan únicamente vía CreateLine.
	stored := copyVale(v)
	stored.Lines = nil
	r.s.vales[v.ID] = stored
	return nil
}

func (r fakeValeRepo) CreateLine(_ context.Context, line *entity.ValeLine) error {
	v, ok := r.s.vales[line.ValeID]
	if !ok {
		return domain.ErrValeNotFound
	}
	lc := *line
	v.Lines = append(v.Lines, &lc)
	return nil
}

func (r fakeValeRepo) GetByNumber(_ context.Context, number string) (*entity.Vale, error) {
	return copyVale(r.s.valeByNumber(number)), nil
}

func (r fakeValeRepo) GetByNumberForUpdate(ctx context.Context, number string) (*entity.Vale, error) {
	return r.GetByNumber(ctx, number)
}

func (r fakeValeRepo) Update(_ context.Context, v *entity.Vale) error {
	stored, ok := r.s.vales[v.ID]
	if !ok {
		return domain.ErrValeNotFound
	}
	lines := stored.Lines
	*stored = *copyVale(v)
	if stored.Lines == nil {
		stored.Lines = lines
	}
	return nil
}

func (r fakeValeRepo) NextDailySequence(_ context.Context, day time.Time) (int, error) {
	key := day.Format("20060102")
	r.s.dailySeq[key]++
	return r.s.dailySeq[key], nil
}

func (r fakeValeRepo) ListExpiredReservations(_ context.Context, now time.Time, limit int) ([]string, error) {
	var out []string
	for _, v := range r.s.vales {
		if v.State == entity.ValeStateVoucherPending && v.ReservationExpired(now) {
			out = append(out, v.Number)
		}
	}
	sort.Strings(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeSaleRepo struct{ s *fakeStore }

func (r fakeSaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	if _, ok := r.s.sales[sale.ValeID]; ok {
		return domain.ErrDuplicate
	}
	c := *sale
	r.s.sales[sale.ValeID] = &c
	return nil
}

func (r fakeSaleRepo) GetByValeID(_ context.Context, valeID string) (*entity.Sale, error) {
	if sale, ok := r.s.sales[valeID]; ok {
		c := *sale
		return &c, nil
	}
	return nil, domain.ErrNotFound
}

func (r fakeSaleRepo) GetByNumber(_ context.Context, number int64) (*entity.Sale, error) {
	for _, sale := range r.s.sales {
		if sale.Number == number {
			c := *sale
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r fakeSaleRepo) NextSaleNumber(_ context.Context) (int64, error) {
	r.s.saleSeq++
	return r.s.saleSeq, nil
}

type fakePaymentRepo struct{ s *fakeStore }

func (r fakePaymentRepo) Create(_ context.Context, p *entity.Payment) error {
	c := *p
	r.s.payments = append(r.s.payments, &c)
	return nil
}

func (r fakePaymentRepo) ListBySale(_ context.Context, saleID string) ([]*entity.Payment, error) {
	var out []*entity.Payment
	for _, p := range r.s.payments {
		if p.SaleID == saleID {
			c := *p
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r fakePaymentRepo) SumCashByShift(_ context.Context, shiftID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range r.s.payments {
		if p.Method != entity.PaymentCash {
			continue
		}
		for _, sale := range r.s.sales {
			if sale.ID == p.SaleID && !sale.Cancelled &&
				sale.CashShiftID != nil && *sale.CashShiftID == shiftID {
				total = total.Add(p.Amount)
			}
		}
	}
	return total, nil
}

type fakeCustomerRepo struct{ s *fakeStore }

func (r fakeCustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	cc := *c
	r.s.customers[c.ID] = &cc
	return nil
}

func (r fakeCustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	if c, ok := r.s.customers[id]; ok {
		cc := *c
		return &cc, nil
	}
	return nil, domain.ErrNotFound
}

func (r fakeCustomerRepo) GetByRUT(_ context.Context, rut string) (*entity.Customer, error) {
	for _, c := range r.s.customers {
		if c.RUT == rut {
			cc := *c
			return &cc, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r fakeCustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	cc := *c
	r.s.customers[c.ID] = &cc
	return nil
}

type fakeVariantRepo struct{ s *fakeStore }

func (r fakeVariantRepo) GetByID(_ context.Context, id string) (*entity.ProductVariant, error) {
	if v, ok := r.s.variants[id]; ok {
		c := *v
		return &c, nil
	}
	return nil, nil
}

type fakeConfigRepo struct{ s *fakeStore }

func (r fakeConfigRepo) Get(_ context.Context, key string) (*entity.AppConfig, error) {
	if v, ok := r.s.configs[key]; ok {
		return &entity.AppConfig{Key: key, Value: v}, nil
	}
	return nil, domain.ErrNotFound
}

func (r fakeConfigRepo) Set(_ context.Context, key, value string) error {
	r.s.configs[key] = value
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// fakeTxRunner con rollback por snapshot
// ──────────────────────────────────────────────────────────────────────────────

type fakeTxRunner struct{ s *fakeStore }

func (t fakeTxRunner) ledgerRepos() inventory.LedgerRepos {
	return inventory.LedgerRepos{
		Stock:        fakeStockRepo{t.s},
		Movements:    fakeMovementRepo{t.s},
		Reservations: fakeReservationRepo{t.s},
	}
}

func (t fakeTxRunner) Run(_ context.Context, fn func(r inventory.LedgerRepos) error) error {
	snapshot := t.s.clone()
	if err := fn(t.ledgerRepos()); err != nil {
		*t.s = *snapshot
		return err
	}
	return nil
}

func (t fakeTxRunner) RunSales(_ context.Context, fn func(r sales.TxRepos) error) error {
	snapshot := t.s.clone()
	repos := sales.TxRepos{
		LedgerRepos: t.ledgerRepos(),
		Vales:       fakeValeRepo{t.s},
		Sales:       fakeSaleRepo{t.s},
		Payments:    fakePaymentRepo{t.s},
		Customers:   fakeCustomerRepo{t.s},
	}
	if err := fn(repos); err != nil {
		*t.s = *snapshot
		return err
	}
	return nil
}

// recordingNotifier acumula los eventos publicados.
type recordingNotifier struct {
	events []string
}

func (n *recordingNotifier) Publish(_ context.Context, event string, _ any) {
	n.events = append(n.events, event)
}
