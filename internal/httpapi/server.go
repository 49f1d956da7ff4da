package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/gouravdhdb/storefront/internal/commerce"
	"github.com/gouravdhdb/storefront/internal/domain"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/shopspring/decimal"
)

// Server exposes every machine operation over HTTP for the rendering layer.
// It owns no business state; it translates requests into machine calls and
// machine results into JSON.
type Server struct {
	Router  *mux.Router
	machine *commerce.Machine
}

func NewServer(m *commerce.Machine) *Server {
	s := &Server{Router: mux.NewRouter(), machine: m}

	api := s.Router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/cart", s.handleGetCart).Methods(http.MethodGet)
	api.HandleFunc("/cart/items", s.handleAddItem).Methods(http.MethodPost)
	api.HandleFunc("/cart/items/{index}/increase", s.handleIncrease).Methods(http.MethodPost)
	api.HandleFunc("/cart/items/{index}/decrease", s.handleDecrease).Methods(http.MethodPost)
	api.HandleFunc("/cart/items/{index}", s.handleRemoveItem).Methods(http.MethodDelete)
	api.HandleFunc("/voucher", s.handleApplyVoucher).Methods(http.MethodPost)
	api.HandleFunc("/orders", s.handleListOrders).Methods(http.MethodGet)
	api.HandleFunc("/orders", s.handlePlaceOrder).Methods(http.MethodPost)
	api.HandleFunc("/payment/complete", s.handleCompletePayment).Methods(http.MethodPost)
	api.HandleFunc("/payment/abandon", s.handleAbandonDraft).Methods(http.MethodPost)
	api.HandleFunc("/darkmode", s.handleGetDarkMode).Methods(http.MethodGet)
	api.HandleFunc("/darkmode", s.handleSetDarkMode).Methods(http.MethodPut)

	s.Router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	return s
}

type notificationView struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

type cartLineView struct {
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type cartView struct {
	Items    []cartLineView  `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
	Currency string          `json:"currency"`
}

type customerView struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
	PaymentRef string `json:"payment_ref,omitempty"`
}

type orderView struct {
	ID            string          `json:"id"`
	Items         []cartLineView  `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount_applied"`
	Customer      customerView    `json:"customer"`
	PaymentMethod string          `json:"payment_method"`
	PlacedAt      time.Time       `json:"placed_at"`
	Status        string          `json:"status"`
}

func mapLinesToViews(lines []domain.CartLine) []cartLineView {
	views := make([]cartLineView, 0, len(lines))
	for _, l := range lines {
		views = append(views, cartLineView{
			Name:      l.Name,
			UnitPrice: l.UnitPrice.Amount,
			Quantity:  l.Quantity,
			LineTotal: l.LineTotal().Amount,
		})
	}
	return views
}

func mapOrderToView(o domain.Order) orderView {
	return orderView{
		ID:       o.ID,
		Items:    mapLinesToViews(o.Lines),
		Subtotal: o.Subtotal.Amount,
		Discount: o.DiscountApplied.Amount,
		Customer: customerView{
			Name:       o.Customer.Name,
			Address:    o.Customer.Address,
			Phone:      o.Customer.Phone,
			PaymentRef: o.Customer.PaymentRef,
		},
		PaymentMethod: string(o.PaymentMethod),
		PlacedAt:      o.PlacedAt,
		Status:        string(o.Status),
	}
}

// handleGetCart returns cart contents and totals.
// @Summary Current cart
// @Produce json
// @Success 200 {object} cartView
// @Router /api/cart [get]
func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	s.writeCart(w)
}

func (s *Server) writeCart(w http.ResponseWriter) {
	subtotal := s.machine.Subtotal()
	view := cartView{
		Items:    mapLinesToViews(s.machine.Cart()),
		Subtotal: subtotal.Amount,
		Discount: s.machine.ActiveDiscount().Amount,
		Total:    s.machine.FinalTotal().Amount,
		Currency: subtotal.Currency.String(),
	}
	writeJSON(w, http.StatusOK, view)
}

type addItemRequest struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// handleAddItem adds one unit of a product to the cart.
// @Summary Add item
// @Accept json
// @Produce json
// @Param item body addItemRequest true "Item"
// @Success 200 {object} notificationView
// @Router /api/cart/items [post]
func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" || !req.Price.IsPositive() {
		http.Error(w, "name and positive price required", http.StatusBadRequest)
		return
	}

	n, err := s.machine.AddItem(r.Context(), req.Name, req.Price)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notificationView{Message: n.Message, Success: n.Success})
}

func (s *Server) cartIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		http.Error(w, "invalid index", http.StatusBadRequest)
		return 0, false
	}
	return index, true
}

// handleIncrease bumps a cart line's quantity.
// @Summary Increase quantity
// @Success 200 {object} cartView
// @Router /api/cart/items/{index}/increase [post]
func (s *Server) handleIncrease(w http.ResponseWriter, r *http.Request) {
	index, ok := s.cartIndex(w, r)
	if !ok {
		return
	}
	if err := s.machine.IncreaseQuantity(r.Context(), index); err != nil {
		writeDomainError(w, err)
		return
	}
	s.writeCart(w)
}

// handleDecrease lowers a cart line's quantity, removing the line at 1.
// @Summary Decrease quantity
// @Success 200 {object} cartView
// @Router /api/cart/items/{index}/decrease [post]
func (s *Server) handleDecrease(w http.ResponseWriter, r *http.Request) {
	index, ok := s.cartIndex(w, r)
	if !ok {
		return
	}
	if err := s.machine.DecreaseQuantity(r.Context(), index); err != nil {
		writeDomainError(w, err)
		return
	}
	s.writeCart(w)
}

// handleRemoveItem deletes a cart line.
// @Summary Remove item
// @Produce json
// @Success 200 {object} notificationView
// @Router /api/cart/items/{index} [delete]
func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	index, ok := s.cartIndex(w, r)
	if !ok {
		return
	}
	n, err := s.machine.RemoveItem(r.Context(), index)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notificationView{Message: n.Message, Success: n.Success})
}

type voucherRequest struct {
	Code string `json:"code"`
}

type voucherResponse struct {
	Discount decimal.Decimal `json:"discount"`
}

// handleApplyVoucher applies a voucher code to the current cart.
// @Summary Apply voucher
// @Accept json
// @Produce json
// @Param voucher body voucherRequest true "Code"
// @Success 200 {object} voucherResponse
// @Router /api/voucher [post]
func (s *Server) handleApplyVoucher(w http.ResponseWriter, r *http.Request) {
	var req voucherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	discount, err := s.machine.ApplyVoucher(req.Code)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, voucherResponse{Discount: discount.Amount})
}

// handleListOrders returns the order history, most recent first.
// @Summary List orders
// @Produce json
// @Success 200 {array} orderView
// @Router /api/orders [get]
func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	orders := s.machine.Orders()
	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, mapOrderToView(o))
	}
	writeJSON(w, http.StatusOK, views)
}

type placeOrderRequest struct {
	Customer      customerView `json:"customer"`
	PaymentMethod string       `json:"payment_method"`
	BuyNow        *struct {
		Name  string          `json:"name"`
		Price decimal.Decimal `json:"price"`
	} `json:"buy_now,omitempty"`
}

type placementResponse struct {
	Order  orderView `json:"order"`
	Staged bool      `json:"staged"`
}

// handlePlaceOrder checks out the cart, or a single buy-now item.
// @Summary Place order
// @Accept json
// @Produce json
// @Param order body placeOrderRequest true "Checkout"
// @Success 201 {object} placementResponse
// @Router /api/orders [post]
func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	customer := domain.Customer{
		Name:       req.Customer.Name,
		Address:    req.Customer.Address,
		Phone:      req.Customer.Phone,
		PaymentRef: req.Customer.PaymentRef,
	}
	src := commerce.FromCart()
	if req.BuyNow != nil {
		src = commerce.BuyNow(req.BuyNow.Name, req.BuyNow.Price)
	}

	placement, err := s.machine.PlaceOrder(r.Context(), customer, domain.PaymentMethod(req.PaymentMethod), src)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, placementResponse{
		Order:  mapOrderToView(placement.Order),
		Staged: placement.Staged,
	})
}

// handleCompletePayment finalizes the staged draft order.
// @Summary Complete online payment
// @Produce json
// @Success 200 {object} orderView
// @Router /api/payment/complete [post]
func (s *Server) handleCompletePayment(w http.ResponseWriter, r *http.Request) {
	order, err := s.machine.CompletePayment(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrderToView(order))
}

// handleAbandonDraft discards the staged draft order.
// @Summary Abandon online payment
// @Success 204
// @Router /api/payment/abandon [post]
func (s *Server) handleAbandonDraft(w http.ResponseWriter, r *http.Request) {
	if err := s.machine.AbandonDraft(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type darkModeView struct {
	Enabled bool `json:"enabled"`
}

// handleGetDarkMode returns the persisted dark-mode flag.
// @Summary Dark mode flag
// @Produce json
// @Success 200 {object} darkModeView
// @Router /api/darkmode [get]
func (s *Server) handleGetDarkMode(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, darkModeView{Enabled: s.machine.DarkMode()})
}

// handleSetDarkMode persists the dark-mode flag.
// @Summary Set dark mode flag
// @Accept json
// @Success 204
// @Router /api/darkmode [put]
func (s *Server) handleSetDarkMode(w http.ResponseWriter, r *http.Request) {
	var req darkModeView
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := s.machine.SetDarkMode(r.Context(), req.Enabled); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrIndexOutOfRange), errors.Is(err, domain.ErrNoDraft):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrEmptyCode),
		errors.Is(err, domain.ErrUnknownCode),
		errors.Is(err, domain.ErrAlreadyConsumed),
		errors.Is(err, domain.ErrBelowMinimum),
		errors.Is(err, domain.ErrIncompleteDetails),
		errors.Is(err, domain.ErrEmptyCart):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
