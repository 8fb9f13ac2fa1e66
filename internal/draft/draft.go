// Package draft holds the in-progress order being assembled at the counter.
// A draft lives only in memory, owned by one session, until SubmitOrder hands
// it to the backend; nothing here prices, persists or applies payments.
package draft

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pressline/counter-api/internal/enum"
	"github.com/pressline/counter-api/internal/gateway"
	"github.com/shopspring/decimal"
)

const (
	minStep = 1
	maxStep = 3
)

// Errors returned by draft operations.
var (
	ErrNoCustomer          = errors.New("customer is required")
	ErrCustomerNotSaved    = errors.New("customer has no id yet")
	ErrEmptyItems          = errors.New("at least one item is required")
	ErrNoActor             = errors.New("acting user is required")
	ErrInvalidOption       = errors.New("invalid payment option")
	ErrInvalidMethod       = errors.New("invalid payment method")
	ErrInsufficientPayment = errors.New("amount paid is less than the order total")
	ErrSubmitInFlight      = errors.New("submission already in progress")
	ErrStaleSubmit         = errors.New("draft was reset while submitting")
	ErrItemNotFound        = errors.New("item not found in draft")
	ErrGarmentNotFound     = errors.New("garment not found on item")
)

// CustomerRef identifies the draft's customer. ID is uuid.Nil only while a
// new customer is being created inline.
type CustomerRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Phone string    `json:"phone"`
	Email string    `json:"email,omitempty"`
}

// Garment is per-unit metadata attached to a line item. Every garment gets a
// local id at creation so edit/remove operations never key by position.
type Garment struct {
	ID          uuid.UUID `json:"id"`
	TagID       string    `json:"tag_id"`
	Description string    `json:"description"`
	Notes       string    `json:"notes,omitempty"`
}

// NewGarment creates a garment draft with a fresh local id.
func NewGarment(tagID, description, notes string) Garment {
	return Garment{
		ID:          uuid.New(),
		TagID:       tagID,
		Description: description,
		Notes:       notes,
	}
}

// LineItem is one service entry in the draft, unique by ServiceID.
type LineItem struct {
	ServiceID    uuid.UUID       `json:"service_id"`
	ServiceName  string          `json:"service_name"`
	Quantity     int32           `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	PricingModel string          `json:"pricing_model"`
	Garments     []Garment       `json:"garments"`
}

// PaymentChoice is the payment recorded on a submitted draft.
type PaymentChoice struct {
	Option     string          `json:"option"`
	Method     string          `json:"method,omitempty"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
}

// OrderCreator is the single remote call a draft makes.
// Satisfied by *gateway.OrderGateway.
type OrderCreator interface {
	Create(ctx context.Context, token string, params gateway.CreateOrderParams) (gateway.CreateOrderResult, error)
}

// Draft is the wizard's state: current step, customer, accumulated items and
// submission status. All methods are safe for concurrent use, though in
// practice one session mutates its own draft.
type Draft struct {
	mu sync.Mutex

	step     int
	customer *CustomerRef
	items    []LineItem
	payment  *PaymentChoice

	orderID     uuid.UUID
	invoiceID   uuid.UUID
	orderNumber string

	errMsg     string
	submitting bool

	// generation is bumped by Reset; a submit result whose generation no
	// longer matches is discarded instead of resurrecting a cleared draft.
	generation uint64

	lastActive time.Time
}

// New creates an empty draft at step 1.
func New() *Draft {
	return &Draft{step: minStep, lastActive: time.Now()}
}

// Snapshot is a copy of the draft's state for rendering.
type Snapshot struct {
	Step        int             `json:"step"`
	Customer    *CustomerRef    `json:"customer"`
	Items       []LineItem      `json:"items"`
	Payment     *PaymentChoice  `json:"payment"`
	Total       decimal.Decimal `json:"total"`
	OrderID     uuid.UUID       `json:"order_id,omitempty"`
	InvoiceID   uuid.UUID       `json:"invoice_id,omitempty"`
	OrderNumber string          `json:"order_number,omitempty"`
	Error       string          `json:"error,omitempty"`
	Submitting  bool            `json:"submitting"`
}

// Snapshot returns a copy of the current state.
func (d *Draft) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	snap := Snapshot{
		Step:        d.step,
		Total:       d.totalLocked(),
		OrderID:     d.orderID,
		InvoiceID:   d.invoiceID,
		OrderNumber: d.orderNumber,
		Error:       d.errMsg,
		Submitting:  d.submitting,
	}
	if d.customer != nil {
		c := *d.customer
		snap.Customer = &c
	}
	if d.payment != nil {
		p := *d.payment
		snap.Payment = &p
	}
	snap.Items = make([]LineItem, len(d.items))
	for i, item := range d.items {
		snap.Items[i] = copyItem(item)
	}
	return snap
}

// Step returns the current wizard step.
func (d *Draft) Step() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.step
}

// NextStep advances one step, clamped to the last step.
func (d *Draft) NextStep() int {
	return d.GoToStep(d.Step() + 1)
}

// PrevStep goes back one step, clamped to the first step.
func (d *Draft) PrevStep() int {
	return d.GoToStep(d.Step() - 1)
}

// GoToStep jumps to step n, clamped to [1,3]. It never validates; readiness
// gates belong to the step views.
func (d *Draft) GoToStep(n int) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	if n < minStep {
		n = minStep
	}
	if n > maxStep {
		n = maxStep
	}
	d.step = n
	d.touchLocked()
	return d.step
}

// SetCustomer replaces the draft's customer wholesale.
func (d *Draft) SetCustomer(ref CustomerRef) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.customer = &ref
	d.touchLocked()
}

// Customer returns the current customer, or nil.
func (d *Draft) Customer() *CustomerRef {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.customer == nil {
		return nil
	}
	c := *d.customer
	return &c
}

// AddItem adds a line item. If an item with the same service already exists,
// the quantities are summed and the garment lists concatenated (existing
// first) instead of creating a second row.
func (d *Draft) AddItem(item LineItem) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range d.items {
		if d.items[i].ServiceID == item.ServiceID {
			d.items[i].Quantity += item.Quantity
			d.items[i].Garments = append(d.items[i].Garments, item.Garments...)
			d.touchLocked()
			return
		}
	}
	d.items = append(d.items, copyItem(item))
	d.touchLocked()
}

// RemoveItem drops the item for the given service. Absent items are ignored.
func (d *Draft) RemoveItem(serviceID uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.removeItemLocked(serviceID)
	d.touchLocked()
}

// UpdateItemQuantity sets an item's quantity. A quantity of zero or less
// removes the item; garments are left untouched otherwise.
func (d *Draft) UpdateItemQuantity(serviceID uuid.UUID, qty int32) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if qty <= 0 {
		d.removeItemLocked(serviceID)
		d.touchLocked()
		return
	}
	for i := range d.items {
		if d.items[i].ServiceID == serviceID {
			d.items[i].Quantity = qty
			break
		}
	}
	d.touchLocked()
}

// UpdateItemGarments replaces one item's garment list wholesale. Garments
// without a local id are assigned one.
func (d *Draft) UpdateItemGarments(serviceID uuid.UUID, garments []Garment) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range d.items {
		if d.items[i].ServiceID == serviceID {
			next := make([]Garment, len(garments))
			for j, g := range garments {
				if g.ID == uuid.Nil {
					g.ID = uuid.New()
				}
				next[j] = g
			}
			d.items[i].Garments = next
			d.touchLocked()
			return nil
		}
	}
	return ErrItemNotFound
}

// AddGarment appends one garment to an item's list.
func (d *Draft) AddGarment(serviceID uuid.UUID, g Garment) (Garment, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	for i := range d.items {
		if d.items[i].ServiceID == serviceID {
			d.items[i].Garments = append(d.items[i].Garments, g)
			d.touchLocked()
			return g, nil
		}
	}
	return Garment{}, ErrItemNotFound
}

// UpdateGarment edits one garment, keyed by its local id.
func (d *Draft) UpdateGarment(serviceID, garmentID uuid.UUID, tagID, description, notes string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range d.items {
		if d.items[i].ServiceID != serviceID {
			continue
		}
		for j := range d.items[i].Garments {
			if d.items[i].Garments[j].ID == garmentID {
				d.items[i].Garments[j].TagID = tagID
				d.items[i].Garments[j].Description = description
				d.items[i].Garments[j].Notes = notes
				d.touchLocked()
				return nil
			}
		}
		return ErrGarmentNotFound
	}
	return ErrItemNotFound
}

// RemoveGarment drops one garment, keyed by its local id.
func (d *Draft) RemoveGarment(serviceID, garmentID uuid.UUID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range d.items {
		if d.items[i].ServiceID != serviceID {
			continue
		}
		for j := range d.items[i].Garments {
			if d.items[i].Garments[j].ID == garmentID {
				d.items[i].Garments = append(d.items[i].Garments[:j], d.items[i].Garments[j+1:]...)
				d.touchLocked()
				return nil
			}
		}
		return ErrGarmentNotFound
	}
	return ErrItemNotFound
}

// TotalAmount is the display total: Σ unit price × quantity over all items,
// recomputed on every call. The backend recomputes its own total at creation.
func (d *Draft) TotalAmount() decimal.Decimal {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.totalLocked()
}

// ItemCount returns the number of line items.
func (d *Draft) ItemCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.items)
}

// SubmitOrder finalizes the draft with exactly one backend call. The acting
// persona is an explicit parameter, never read from ambient state.
//
// Preconditions are checked before any network traffic; a failed check sets
// the draft error and returns without calling out. PAY_LATER forces
// method="" and amount=0 regardless of arguments. On failure the backend's
// message is stored verbatim and items/customer are left intact for retry.
func (d *Draft) SubmitOrder(ctx context.Context, orders OrderCreator, token, actor, option, method string, amount decimal.Decimal) error {
	d.mu.Lock()

	if d.submitting {
		d.mu.Unlock()
		return ErrSubmitInFlight
	}

	if err := d.validateSubmitLocked(actor, option, method, amount); err != nil {
		d.errMsg = err.Error()
		d.mu.Unlock()
		return err
	}

	if option == enum.PaymentOptionPayLater {
		method = ""
		amount = decimal.Zero
	}

	params := gateway.CreateOrderParams{
		CustomerID:    d.customer.ID,
		Items:         make([]gateway.CreateOrderItem, len(d.items)),
		PaymentOption: option,
		AmountPaid:    amount,
		ActorName:     actor,
	}
	if method != "" {
		m := method
		params.PaymentMethod = &m
	}
	for i, item := range d.items {
		garments := make([]gateway.CreateOrderGarment, len(item.Garments))
		for j, g := range item.Garments {
			garments[j] = gateway.CreateOrderGarment{
				TagID:       g.TagID,
				Description: g.Description,
				Notes:       g.Notes,
			}
		}
		params.Items[i] = gateway.CreateOrderItem{
			ServiceID: item.ServiceID,
			Quantity:  item.Quantity,
			Garments:  garments,
		}
	}

	d.submitting = true
	d.errMsg = ""
	gen := d.generation
	d.mu.Unlock()

	result, err := orders.Create(ctx, token, params)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.generation != gen {
		// The draft was reset while the call was in flight. Whatever the
		// backend answered belongs to a draft that no longer exists.
		return ErrStaleSubmit
	}

	d.submitting = false
	d.touchLocked()

	if err != nil {
		d.errMsg = err.Error()
		return err
	}

	d.orderID = result.OrderID
	d.invoiceID = result.InvoiceID
	d.orderNumber = result.OrderNumber
	d.payment = &PaymentChoice{Option: option, Method: method, AmountPaid: amount}
	return nil
}

// Reset discards the draft back to its empty initial shape and clears all
// error/success markers. This is the only way customer, items and payment are
// cleared.
func (d *Draft) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.step = minStep
	d.customer = nil
	d.items = nil
	d.payment = nil
	d.orderID = uuid.Nil
	d.invoiceID = uuid.Nil
	d.orderNumber = ""
	d.errMsg = ""
	d.submitting = false
	d.generation++
	d.touchLocked()
}

// LastActive reports when the draft was last touched; used by the store's
// TTL sweep.
func (d *Draft) LastActive() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastActive
}

// --- Internal helpers (callers hold d.mu) ---

func (d *Draft) validateSubmitLocked(actor, option, method string, amount decimal.Decimal) error {
	if d.customer == nil {
		return ErrNoCustomer
	}
	if d.customer.ID == uuid.Nil {
		return ErrCustomerNotSaved
	}
	if len(d.items) == 0 {
		return ErrEmptyItems
	}
	if actor == "" {
		return ErrNoActor
	}
	if !enum.ValidPaymentOption(option) {
		return ErrInvalidOption
	}
	if option != enum.PaymentOptionPayLater && method != "" && !enum.ValidPaymentMethod(method) {
		return ErrInvalidMethod
	}
	if option == enum.PaymentOptionPayNow && amount.LessThan(d.totalLocked()) {
		return ErrInsufficientPayment
	}
	return nil
}

func (d *Draft) totalLocked() decimal.Decimal {
	total := decimal.Zero
	for _, item := range d.items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt32(item.Quantity)))
	}
	return total
}

func (d *Draft) removeItemLocked(serviceID uuid.UUID) {
	for i := range d.items {
		if d.items[i].ServiceID == serviceID {
			d.items = append(d.items[:i], d.items[i+1:]...)
			return
		}
	}
}

func (d *Draft) touchLocked() {
	d.lastActive = time.Now()
}

func copyItem(item LineItem) LineItem {
	out := item
	out.Garments = make([]Garment, len(item.Garments))
	copy(out.Garments, item.Garments)
	return out
}
