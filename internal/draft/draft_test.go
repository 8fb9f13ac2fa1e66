package draft_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pressline/counter-api/internal/draft"
	"github.com/pressline/counter-api/internal/enum"
	"github.com/pressline/counter-api/internal/gateway"
	"github.com/shopspring/decimal"
)

// mockOrderCreator records the last create call.
type mockOrderCreator struct {
	mu      sync.Mutex
	calls   int
	params  gateway.CreateOrderParams
	result  gateway.CreateOrderResult
	err     error
	blockCh chan struct{} // when set, Create blocks until closed
}

func (m *mockOrderCreator) Create(_ context.Context, _ string, params gateway.CreateOrderParams) (gateway.CreateOrderResult, error) {
	m.mu.Lock()
	m.calls++
	m.params = params
	block := m.blockCh
	m.mu.Unlock()

	if block != nil {
		<-block
	}
	if m.err != nil {
		return gateway.CreateOrderResult{}, m.err
	}
	return m.result, nil
}

func (m *mockOrderCreator) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func washItem(serviceID uuid.UUID, qty int32, price string, garments ...draft.Garment) draft.LineItem {
	return draft.LineItem{
		ServiceID:    serviceID,
		ServiceName:  "Wash & Fold",
		Quantity:     qty,
		UnitPrice:    decimal.RequireFromString(price),
		PricingModel: enum.PricingModelPerItem,
		Garments:     garments,
	}
}

func readyDraft(serviceID uuid.UUID) *draft.Draft {
	d := draft.New()
	d.SetCustomer(draft.CustomerRef{ID: uuid.New(), Name: "Dewi", Phone: "0812"})
	d.AddItem(washItem(serviceID, 2, "10.00"))
	return d
}

func TestStepNavigationClamps(t *testing.T) {
	d := draft.New()

	if got := d.Step(); got != 1 {
		t.Fatalf("initial step = %d, want 1", got)
	}
	if got := d.PrevStep(); got != 1 {
		t.Errorf("prev from step 1 = %d, want 1", got)
	}
	d.NextStep()
	d.NextStep()
	if got := d.NextStep(); got != 3 {
		t.Errorf("next past step 3 = %d, want 3", got)
	}
	if got := d.GoToStep(99); got != 3 {
		t.Errorf("goto 99 = %d, want 3", got)
	}
	if got := d.GoToStep(-5); got != 1 {
		t.Errorf("goto -5 = %d, want 1", got)
	}
}

func TestAddItemMergesByService(t *testing.T) {
	serviceID := uuid.New()
	d := draft.New()

	g1 := draft.NewGarment("T-001", "blue shirt", "")
	g2 := draft.NewGarment("T-002", "white blouse", "delicate")
	g3 := draft.NewGarment("T-003", "jacket", "")

	d.AddItem(washItem(serviceID, 2, "10.00", g1, g2))
	d.AddItem(washItem(serviceID, 1, "10.00", g3))

	snap := d.Snapshot()
	if len(snap.Items) != 1 {
		t.Fatalf("item count = %d, want 1 (same service must merge)", len(snap.Items))
	}
	item := snap.Items[0]
	if item.Quantity != 3 {
		t.Errorf("quantity = %d, want 3", item.Quantity)
	}
	if len(item.Garments) != 3 {
		t.Fatalf("garments = %d, want 3", len(item.Garments))
	}
	// Concatenation must preserve order, existing first.
	for i, want := range []string{"T-001", "T-002", "T-003"} {
		if item.Garments[i].TagID != want {
			t.Errorf("garment[%d] = %s, want %s", i, item.Garments[i].TagID, want)
		}
	}
	if !snap.Total.Equal(decimal.RequireFromString("30.00")) {
		t.Errorf("total = %s, want 30.00", snap.Total)
	}
}

func TestAddItemDistinctServicesStack(t *testing.T) {
	d := draft.New()
	d.AddItem(washItem(uuid.New(), 1, "10.00"))
	d.AddItem(washItem(uuid.New(), 1, "4.50"))

	if got := d.ItemCount(); got != 2 {
		t.Errorf("item count = %d, want 2", got)
	}
	if total := d.TotalAmount(); !total.Equal(decimal.RequireFromString("14.50")) {
		t.Errorf("total = %s, want 14.50", total)
	}
}

func TestUpdateQuantityZeroEqualsRemove(t *testing.T) {
	serviceA := uuid.New()
	serviceB := uuid.New()

	viaUpdate := draft.New()
	viaUpdate.AddItem(washItem(serviceA, 2, "10.00"))
	viaUpdate.UpdateItemQuantity(serviceA, 0)

	viaRemove := draft.New()
	viaRemove.AddItem(washItem(serviceB, 2, "10.00"))
	viaRemove.RemoveItem(serviceB)

	if viaUpdate.ItemCount() != 0 || viaRemove.ItemCount() != 0 {
		t.Errorf("qty 0 (%d items) and remove (%d items) must both empty the draft",
			viaUpdate.ItemCount(), viaRemove.ItemCount())
	}
}

func TestUpdateQuantityKeepsGarments(t *testing.T) {
	serviceID := uuid.New()
	d := draft.New()
	d.AddItem(washItem(serviceID, 2, "10.00", draft.NewGarment("T-001", "shirt", "")))

	d.UpdateItemQuantity(serviceID, 5)

	snap := d.Snapshot()
	if snap.Items[0].Quantity != 5 {
		t.Errorf("quantity = %d, want 5", snap.Items[0].Quantity)
	}
	if len(snap.Items[0].Garments) != 1 {
		t.Errorf("garments = %d, want 1 (untouched)", len(snap.Items[0].Garments))
	}
}

func TestRemoveAbsentItemIsNoop(t *testing.T) {
	d := draft.New()
	d.AddItem(washItem(uuid.New(), 1, "10.00"))
	d.RemoveItem(uuid.New())

	if d.ItemCount() != 1 {
		t.Errorf("item count = %d, want 1", d.ItemCount())
	}
}

func TestTotalRecomputedAfterMutation(t *testing.T) {
	serviceID := uuid.New()
	d := draft.New()
	d.AddItem(washItem(serviceID, 2, "10.00"))

	if total := d.TotalAmount(); !total.Equal(decimal.RequireFromString("20.00")) {
		t.Fatalf("total = %s, want 20.00", total)
	}

	d.UpdateItemQuantity(serviceID, 7)
	if total := d.TotalAmount(); !total.Equal(decimal.RequireFromString("70.00")) {
		t.Errorf("total after quantity edit = %s, want 70.00", total)
	}

	d.RemoveItem(serviceID)
	if total := d.TotalAmount(); !total.IsZero() {
		t.Errorf("total after removal = %s, want 0", total)
	}
}

func TestGarmentEditsKeyedByID(t *testing.T) {
	serviceID := uuid.New()
	d := draft.New()
	d.AddItem(washItem(serviceID, 1, "10.00"))

	g1, err := d.AddGarment(serviceID, draft.NewGarment("T-001", "shirt", ""))
	if err != nil {
		t.Fatalf("add garment: %v", err)
	}
	g2, err := d.AddGarment(serviceID, draft.NewGarment("T-002", "trousers", ""))
	if err != nil {
		t.Fatalf("add garment: %v", err)
	}

	if err := d.UpdateGarment(serviceID, g2.ID, "T-002", "trousers", "stain on knee"); err != nil {
		t.Fatalf("update garment: %v", err)
	}
	if err := d.RemoveGarment(serviceID, g1.ID); err != nil {
		t.Fatalf("remove garment: %v", err)
	}

	snap := d.Snapshot()
	garments := snap.Items[0].Garments
	if len(garments) != 1 {
		t.Fatalf("garments = %d, want 1", len(garments))
	}
	if garments[0].ID != g2.ID || garments[0].Notes != "stain on knee" {
		t.Errorf("surviving garment = %+v, want updated T-002", garments[0])
	}

	if err := d.RemoveGarment(serviceID, g1.ID); !errors.Is(err, draft.ErrGarmentNotFound) {
		t.Errorf("removing a removed garment: err = %v, want ErrGarmentNotFound", err)
	}
	if err := d.UpdateGarment(uuid.New(), g2.ID, "", "", ""); !errors.Is(err, draft.ErrItemNotFound) {
		t.Errorf("editing garment on absent item: err = %v, want ErrItemNotFound", err)
	}
}

func TestUpdateItemGarmentsWholesale(t *testing.T) {
	serviceID := uuid.New()
	d := draft.New()
	d.AddItem(washItem(serviceID, 1, "10.00", draft.NewGarment("T-001", "shirt", "")))

	err := d.UpdateItemGarments(serviceID, []draft.Garment{
		{TagID: "T-010", Description: "dress"},
		{TagID: "T-011", Description: "coat"},
	})
	if err != nil {
		t.Fatalf("update garments: %v", err)
	}

	garments := d.Snapshot().Items[0].Garments
	if len(garments) != 2 {
		t.Fatalf("garments = %d, want 2 (wholesale replacement)", len(garments))
	}
	for i, g := range garments {
		if g.ID == uuid.Nil {
			t.Errorf("garment[%d] has no local id after replacement", i)
		}
	}
}

func TestSubmitShortCircuits(t *testing.T) {
	serviceID := uuid.New()

	tests := []struct {
		name    string
		setup   func() *draft.Draft
		wantErr error
	}{
		{
			name:    "no customer",
			setup:   func() *draft.Draft { d := draft.New(); d.AddItem(washItem(serviceID, 1, "10.00")); return d },
			wantErr: draft.ErrNoCustomer,
		},
		{
			name: "customer without id",
			setup: func() *draft.Draft {
				d := draft.New()
				d.SetCustomer(draft.CustomerRef{Name: "Dewi", Phone: "0812"})
				d.AddItem(washItem(serviceID, 1, "10.00"))
				return d
			},
			wantErr: draft.ErrCustomerNotSaved,
		},
		{
			name: "no items",
			setup: func() *draft.Draft {
				d := draft.New()
				d.SetCustomer(draft.CustomerRef{ID: uuid.New(), Name: "Dewi", Phone: "0812"})
				return d
			},
			wantErr: draft.ErrEmptyItems,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creator := &mockOrderCreator{}
			d := tt.setup()

			err := d.SubmitOrder(context.Background(), creator, "tok", "Sari", enum.PaymentOptionPayLater, "", decimal.Zero)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if creator.callCount() != 0 {
				t.Errorf("backend called %d times, want 0", creator.callCount())
			}
			if d.Snapshot().Error == "" {
				t.Error("draft error not set")
			}
		})
	}
}

func TestSubmitRequiresActor(t *testing.T) {
	creator := &mockOrderCreator{}
	d := readyDraft(uuid.New())

	err := d.SubmitOrder(context.Background(), creator, "tok", "", enum.PaymentOptionPayLater, "", decimal.Zero)
	if !errors.Is(err, draft.ErrNoActor) {
		t.Fatalf("err = %v, want ErrNoActor", err)
	}
	if creator.callCount() != 0 {
		t.Errorf("backend called %d times, want 0", creator.callCount())
	}
}

func TestSubmitPayLaterForcesZeroPayment(t *testing.T) {
	creator := &mockOrderCreator{result: gateway.CreateOrderResult{
		OrderID:   uuid.New(),
		InvoiceID: uuid.New(),
	}}
	d := readyDraft(uuid.New())

	// Caller-supplied method and amount must be ignored under PAY_LATER.
	err := d.SubmitOrder(context.Background(), creator, "tok", "Sari",
		enum.PaymentOptionPayLater, enum.PaymentMethodCash, decimal.RequireFromString("999.99"))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if creator.params.PaymentMethod != nil {
		t.Errorf("payment method = %v, want nil", *creator.params.PaymentMethod)
	}
	if !creator.params.AmountPaid.IsZero() {
		t.Errorf("amount paid = %s, want 0", creator.params.AmountPaid)
	}

	payment := d.Snapshot().Payment
	if payment == nil || payment.Option != enum.PaymentOptionPayLater || !payment.AmountPaid.IsZero() {
		t.Errorf("recorded payment = %+v, want PAY_LATER with 0", payment)
	}
}

func TestSubmitPayNowInsufficientAmountBlocked(t *testing.T) {
	creator := &mockOrderCreator{}
	d := readyDraft(uuid.New()) // total 20.00

	err := d.SubmitOrder(context.Background(), creator, "tok", "Sari",
		enum.PaymentOptionPayNow, enum.PaymentMethodCash, decimal.RequireFromString("19.99"))
	if !errors.Is(err, draft.ErrInsufficientPayment) {
		t.Fatalf("err = %v, want ErrInsufficientPayment", err)
	}
	if creator.callCount() != 0 {
		t.Errorf("backend called %d times, want 0", creator.callCount())
	}
}

func TestSubmitSendsNormalizedItemsWithoutPrices(t *testing.T) {
	serviceID := uuid.New()
	customerID := uuid.New()
	creator := &mockOrderCreator{result: gateway.CreateOrderResult{OrderID: uuid.New()}}

	d := draft.New()
	d.SetCustomer(draft.CustomerRef{ID: customerID, Name: "Dewi", Phone: "0812"})
	d.AddItem(washItem(serviceID, 2, "10.00", draft.NewGarment("T-001", "shirt", "collar stain")))

	err := d.SubmitOrder(context.Background(), creator, "tok", "Sari",
		enum.PaymentOptionPayNow, enum.PaymentMethodCard, decimal.RequireFromString("20.00"))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	p := creator.params
	if p.CustomerID != customerID {
		t.Errorf("customer id = %s, want %s", p.CustomerID, customerID)
	}
	if p.ActorName != "Sari" {
		t.Errorf("actor = %q, want Sari", p.ActorName)
	}
	if len(p.Items) != 1 || p.Items[0].ServiceID != serviceID || p.Items[0].Quantity != 2 {
		t.Errorf("items = %+v", p.Items)
	}
	if len(p.Items[0].Garments) != 1 || p.Items[0].Garments[0].TagID != "T-001" {
		t.Errorf("garments = %+v", p.Items[0].Garments)
	}
}

func TestSubmitFailurePreservesDraft(t *testing.T) {
	creator := &mockOrderCreator{err: errors.New("insufficient inventory")}
	serviceID := uuid.New()
	d := readyDraft(serviceID)

	err := d.SubmitOrder(context.Background(), creator, "tok", "Sari", enum.PaymentOptionPayLater, "", decimal.Zero)
	if err == nil {
		t.Fatal("expected error")
	}

	snap := d.Snapshot()
	if snap.Error != "insufficient inventory" {
		t.Errorf("error = %q, want backend message verbatim", snap.Error)
	}
	if len(snap.Items) != 1 || snap.Items[0].Quantity != 2 {
		t.Errorf("items changed on failure: %+v", snap.Items)
	}
	if snap.Customer == nil {
		t.Error("customer cleared on failure")
	}
	if snap.Submitting {
		t.Error("submitting flag still set after failure")
	}

	// Retry without re-entering data must reach the backend again.
	creator.err = nil
	creator.result = gateway.CreateOrderResult{OrderID: uuid.New()}
	if err := d.SubmitOrder(context.Background(), creator, "tok", "Sari", enum.PaymentOptionPayLater, "", decimal.Zero); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if creator.callCount() != 2 {
		t.Errorf("backend calls = %d, want 2", creator.callCount())
	}
}

func TestSubmitWhileInFlightRejected(t *testing.T) {
	block := make(chan struct{})
	creator := &mockOrderCreator{blockCh: block, result: gateway.CreateOrderResult{OrderID: uuid.New()}}
	d := readyDraft(uuid.New())

	done := make(chan error, 1)
	go func() {
		done <- d.SubmitOrder(context.Background(), creator, "tok", "Sari", enum.PaymentOptionPayLater, "", decimal.Zero)
	}()

	// Wait for the first submit to reach the backend.
	for creator.callCount() == 0 {
		time.Sleep(time.Millisecond)
	}

	err := d.SubmitOrder(context.Background(), creator, "tok", "Sari", enum.PaymentOptionPayLater, "", decimal.Zero)
	if !errors.Is(err, draft.ErrSubmitInFlight) {
		t.Fatalf("err = %v, want ErrSubmitInFlight", err)
	}

	close(block)
	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if creator.callCount() != 1 {
		t.Errorf("backend calls = %d, want 1", creator.callCount())
	}
}

func TestLateSubmitResultDiscardedAfterReset(t *testing.T) {
	block := make(chan struct{})
	creator := &mockOrderCreator{blockCh: block, result: gateway.CreateOrderResult{
		OrderID:     uuid.New(),
		OrderNumber: "LDY-001",
	}}
	d := readyDraft(uuid.New())

	done := make(chan error, 1)
	go func() {
		done <- d.SubmitOrder(context.Background(), creator, "tok", "Sari", enum.PaymentOptionPayLater, "", decimal.Zero)
	}()

	for creator.callCount() == 0 {
		time.Sleep(time.Millisecond)
	}

	// Reset while the call is in flight; the late success must not resurrect
	// the cleared draft.
	d.Reset()
	close(block)

	if err := <-done; !errors.Is(err, draft.ErrStaleSubmit) {
		t.Fatalf("err = %v, want ErrStaleSubmit", err)
	}

	snap := d.Snapshot()
	if snap.OrderID != uuid.Nil || snap.OrderNumber != "" {
		t.Errorf("late result applied to reset draft: %+v", snap)
	}
}

func TestResetReturnsToInitialShape(t *testing.T) {
	creator := &mockOrderCreator{result: gateway.CreateOrderResult{
		OrderID:   uuid.New(),
		InvoiceID: uuid.New(),
	}}
	d := readyDraft(uuid.New())
	d.GoToStep(3)

	if err := d.SubmitOrder(context.Background(), creator, "tok", "Sari", enum.PaymentOptionPayLater, "", decimal.Zero); err != nil {
		t.Fatalf("submit: %v", err)
	}

	d.Reset()

	snap := d.Snapshot()
	if snap.Step != 1 {
		t.Errorf("step = %d, want 1", snap.Step)
	}
	if snap.Customer != nil {
		t.Errorf("customer = %+v, want nil", snap.Customer)
	}
	if len(snap.Items) != 0 {
		t.Errorf("items = %d, want 0", len(snap.Items))
	}
	if snap.Payment != nil {
		t.Errorf("payment = %+v, want nil", snap.Payment)
	}
	if snap.OrderID != uuid.Nil || snap.InvoiceID != uuid.Nil || snap.OrderNumber != "" {
		t.Error("success markers not cleared")
	}
	if snap.Error != "" || snap.Submitting {
		t.Error("error/submitting markers not cleared")
	}
}
