package commerce

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gouravdhdb/storefront/internal/domain"
	"github.com/gouravdhdb/storefront/internal/port"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Config carries the machine's collaborators.
type Config struct {
	Store      port.Store
	Dispatcher port.Dispatcher // optional, nil disables order notifications
	Catalog    []domain.Voucher
	Currency   currency.Unit

	// Notify receives asynchronous notifications (dispatch failures). It
	// may be called from a background goroutine and must be safe for that.
	Notify func(Notification)
}

// Machine owns the cart, the voucher ledger and the order history. All
// operations are serialized through one mutex so multiple UI surfaces can
// share a single instance without breaking the cart invariants.
type Machine struct {
	mu         sync.Mutex
	store      port.Store
	dispatcher port.Dispatcher
	notify     func(Notification)
	unit       currency.Unit

	cart           []domain.CartLine
	orders         []domain.Order
	vouchers       map[string]*domain.Voucher
	activeDiscount decimal.Decimal
	darkMode       bool
	draft          *domain.Order

	dispatches sync.WaitGroup
}

// New builds a machine and loads cart, order history, dark-mode flag and any
// staged draft from the store. Absent or malformed blobs yield empty state.
func New(ctx context.Context, cfg Config) (*Machine, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is nil")
	}

	catalog := cfg.Catalog
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	unit := cfg.Currency
	if unit == (currency.Unit{}) {
		unit = domain.INR
	}

	m := &Machine{
		store:          cfg.Store,
		dispatcher:     cfg.Dispatcher,
		notify:         cfg.Notify,
		unit:           unit,
		vouchers:       make(map[string]*domain.Voucher, len(catalog)),
		activeDiscount: decimal.Zero,
	}
	for i := range catalog {
		v := catalog[i]
		m.vouchers[v.Code] = &v
	}

	var err error
	if m.cart, err = cfg.Store.LoadCart(ctx); err != nil {
		return nil, fmt.Errorf("store.LoadCart: %w", err)
	}
	if m.orders, err = cfg.Store.LoadOrders(ctx); err != nil {
		return nil, fmt.Errorf("store.LoadOrders: %w", err)
	}
	if m.darkMode, err = cfg.Store.LoadDarkMode(ctx); err != nil {
		return nil, fmt.Errorf("store.LoadDarkMode: %w", err)
	}
	if m.draft, err = cfg.Store.LoadDraft(ctx); err != nil {
		return nil, fmt.Errorf("store.LoadDraft: %w", err)
	}

	return m, nil
}

// AddItem appends a new line with quantity 1, or increments the quantity of
// the line with the same name.
func (m *Machine) AddItem(ctx context.Context, name string, unitPrice decimal.Decimal) (Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	merged := false
	for i := range m.cart {
		if m.cart[i].Name == name {
			m.cart[i].Quantity++
			merged = true
			break
		}
	}
	if !merged {
		m.cart = append(m.cart, domain.CartLine{
			Name:      name,
			UnitPrice: domain.NewMoney(unitPrice, m.unit),
			Quantity:  1,
		})
	}

	m.invalidateDiscount()
	if err := m.store.SaveCart(ctx, m.cart); err != nil {
		return Notification{}, fmt.Errorf("store.SaveCart: %w", err)
	}

	return Notification{Message: name + " added to cart!", Success: true}, nil
}

// IncreaseQuantity bumps the quantity of the line at index.
func (m *Machine) IncreaseQuantity(ctx context.Context, index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if index < 0 || index >= len(m.cart) {
		return fmt.Errorf("index %d: %w", index, domain.ErrIndexOutOfRange)
	}

	m.cart[index].Quantity++
	m.invalidateDiscount()

	if err := m.store.SaveCart(ctx, m.cart); err != nil {
		return fmt.Errorf("store.SaveCart: %w", err)
	}
	return nil
}

// DecreaseQuantity lowers the quantity of the line at index, removing the
// line entirely rather than letting it reach zero.
func (m *Machine) DecreaseQuantity(ctx context.Context, index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if index < 0 || index >= len(m.cart) {
		return fmt.Errorf("index %d: %w", index, domain.ErrIndexOutOfRange)
	}

	if m.cart[index].Quantity > 1 {
		m.cart[index].Quantity--
	} else {
		m.cart = append(m.cart[:index], m.cart[index+1:]...)
	}
	m.invalidateDiscount()

	if err := m.store.SaveCart(ctx, m.cart); err != nil {
		return fmt.Errorf("store.SaveCart: %w", err)
	}
	return nil
}

// RemoveItem deletes the line at index outright. The returned notification
// is failure-styled on purpose, naming the removed item.
func (m *Machine) RemoveItem(ctx context.Context, index int) (Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if index < 0 || index >= len(m.cart) {
		return Notification{}, fmt.Errorf("index %d: %w", index, domain.ErrIndexOutOfRange)
	}

	removed := m.cart[index].Name
	m.cart = append(m.cart[:index], m.cart[index+1:]...)
	m.invalidateDiscount()

	if err := m.store.SaveCart(ctx, m.cart); err != nil {
		return Notification{}, fmt.Errorf("store.SaveCart: %w", err)
	}

	return Notification{Message: removed + " removed from cart.", Success: false}, nil
}

// Subtotal sums unit price times quantity over all cart lines.
func (m *Machine) Subtotal() domain.Money {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.CartSubtotal(m.cart, m.unit)
}

// ActiveDiscount is the discount from the most recent voucher application,
// zero when none is active.
func (m *Machine) ActiveDiscount() domain.Money {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.NewMoney(m.activeDiscount, m.unit)
}

// FinalTotal is the subtotal minus the active discount, floored at zero.
func (m *Machine) FinalTotal() domain.Money {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.finalTotalLocked()
}

func (m *Machine) finalTotalLocked() domain.Money {
	total := domain.CartSubtotal(m.cart, m.unit).Amount.Sub(m.activeDiscount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return domain.NewMoney(total, m.unit)
}

// ApplyVoucher validates and consumes the voucher with the given code and
// returns the discount it grants. Applying a second voucher replaces the
// active discount; it never stacks. Consumption is irreversible for the
// remainder of the process even if the discount is later invalidated.
func (m *Machine) ApplyVoucher(code string) (domain.Money, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return domain.Money{}, domain.ErrEmptyCode
	}

	v, ok := m.vouchers[code]
	if !ok {
		return domain.Money{}, fmt.Errorf("%s: %w", code, domain.ErrUnknownCode)
	}
	if v.Consumed {
		return domain.Money{}, fmt.Errorf("%s: %w", code, domain.ErrAlreadyConsumed)
	}

	subtotal := domain.CartSubtotal(m.cart, m.unit).Amount
	if subtotal.LessThan(v.MinSubtotal) {
		return domain.Money{}, fmt.Errorf("%s requires subtotal of at least %s: %w",
			code, v.MinSubtotal, domain.ErrBelowMinimum)
	}

	discount := v.DiscountFor(subtotal)
	m.activeDiscount = discount
	v.Consumed = true

	return domain.NewMoney(discount, m.unit), nil
}

// CheckoutSource selects what is being checked out: the whole cart, or one
// synthesized buy-now line.
type CheckoutSource struct {
	buyNow *domain.CartLine
}

func FromCart() CheckoutSource {
	return CheckoutSource{}
}

func BuyNow(name string, unitPrice decimal.Decimal) CheckoutSource {
	return CheckoutSource{buyNow: &domain.CartLine{Name: name, UnitPrice: domain.Money{Amount: unitPrice}, Quantity: 1}}
}

// Placement is the result of PlaceOrder. Staged means the order was written
// as a pending draft for an external payment flow and is not yet part of
// the order history.
type Placement struct {
	Order  domain.Order
	Staged bool
}

// PlaceOrder validates the checkout details and either finalizes the order
// immediately or, for a deferred payment method, stages it as a pending
// draft for the payment collaborator.
func (m *Machine) PlaceOrder(ctx context.Context, customer domain.Customer, method domain.PaymentMethod, src CheckoutSource) (Placement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !customer.Complete() || method == "" {
		return Placement{}, domain.ErrIncompleteDetails
	}

	var (
		lines    []domain.CartLine
		subtotal domain.Money
		discount domain.Money
	)
	if src.buyNow != nil {
		line := *src.buyNow
		line.UnitPrice.Currency = m.unit
		lines = []domain.CartLine{line}
		subtotal = line.LineTotal()
		discount = domain.NewMoney(decimal.Zero, m.unit)
	} else {
		if len(m.cart) == 0 {
			return Placement{}, domain.ErrEmptyCart
		}
		lines = append([]domain.CartLine(nil), m.cart...)
		subtotal = domain.CartSubtotal(lines, m.unit)
		discount = domain.NewMoney(m.activeDiscount, m.unit)
	}

	now := time.Now()
	order := domain.Order{
		ID:              newOrderID(now),
		Lines:           lines,
		Subtotal:        subtotal,
		DiscountApplied: discount,
		Customer:        customer,
		PaymentMethod:   method,
		PlacedAt:        now,
		Status:          domain.OrderPending,
	}

	if method.Deferred() {
		if err := m.store.SaveDraft(ctx, order); err != nil {
			return Placement{}, fmt.Errorf("store.SaveDraft: %w", err)
		}
		m.draft = &order
		return Placement{Order: order, Staged: true}, nil
	}

	if err := m.finalizeLocked(ctx, order); err != nil {
		return Placement{}, err
	}
	return Placement{Order: order}, nil
}

// CompletePayment finalizes the staged draft on return from the payment
// collaborator, through the same path as immediate placement.
func (m *Machine) CompletePayment(ctx context.Context) (domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.draft == nil {
		return domain.Order{}, domain.ErrNoDraft
	}
	order := *m.draft

	if err := m.finalizeLocked(ctx, order); err != nil {
		return domain.Order{}, err
	}

	if err := m.store.ClearDraft(ctx); err != nil {
		return domain.Order{}, fmt.Errorf("store.ClearDraft: %w", err)
	}
	m.draft = nil

	return order, nil
}

// AbandonDraft discards the staged draft without creating an order.
func (m *Machine) AbandonDraft(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.draft == nil {
		return domain.ErrNoDraft
	}
	if err := m.store.ClearDraft(ctx); err != nil {
		return fmt.Errorf("store.ClearDraft: %w", err)
	}
	m.draft = nil

	return nil
}

// finalizeLocked prepends the order to history, persists it, clears the
// cart and active discount, and kicks off the fire-and-forget notification
// dispatch. Caller holds the mutex.
func (m *Machine) finalizeLocked(ctx context.Context, order domain.Order) error {
	m.orders = append([]domain.Order{order}, m.orders...)
	if err := m.store.SaveOrders(ctx, m.orders); err != nil {
		m.orders = m.orders[1:]
		return fmt.Errorf("store.SaveOrders: %w", err)
	}

	m.cart = nil
	m.activeDiscount = decimal.Zero
	if err := m.store.SaveCart(ctx, m.cart); err != nil {
		return fmt.Errorf("store.SaveCart: %w", err)
	}

	if m.dispatcher != nil {
		total := order.Subtotal.Sub(order.DiscountApplied)
		if total.IsNegative() {
			total = domain.NewMoney(decimal.Zero, m.unit)
		}
		summary := port.OrderSummary{
			Customer:      order.Customer,
			PaymentMethod: order.PaymentMethod,
			Lines:         order.Lines,
			Total:         total,
			Discount:      order.DiscountApplied,
		}

		m.dispatches.Add(1)
		go func() {
			defer m.dispatches.Done()
			if err := m.dispatcher.Dispatch(context.Background(), summary); err != nil {
				m.emit(Notification{Message: "Failed to send order notification.", Success: false})
			}
		}()
	}

	return nil
}

// Orders returns a copy of the order history, most recent first.
func (m *Machine) Orders() []domain.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Order(nil), m.orders...)
}

// Cart returns a copy of the current cart lines.
func (m *Machine) Cart() []domain.CartLine {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.CartLine(nil), m.cart...)
}

// Draft returns a copy of the staged draft order, or nil.
func (m *Machine) Draft() *domain.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.draft == nil {
		return nil
	}
	d := *m.draft
	return &d
}

func (m *Machine) DarkMode() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.darkMode
}

func (m *Machine) SetDarkMode(ctx context.Context, on bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.darkMode = on
	if err := m.store.SaveDarkMode(ctx, on); err != nil {
		return fmt.Errorf("store.SaveDarkMode: %w", err)
	}
	return nil
}

// Wait blocks until all in-flight notification dispatches have finished.
func (m *Machine) Wait() {
	m.dispatches.Wait()
}

// invalidateDiscount drops the active discount after a cart mutation: the
// amount was computed against a subtotal that no longer exists. The voucher
// that granted it stays consumed.
func (m *Machine) invalidateDiscount() {
	m.activeDiscount = decimal.Zero
}

func (m *Machine) emit(n Notification) {
	if m.notify != nil {
		m.notify(n)
	}
}

// newOrderID is a creation timestamp with a random disambiguator, so ids
// stay unique even when two orders land in the same millisecond.
func newOrderID(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), uuid.NewString()[:8])
}
