package checkout

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/harish-v07/CreatorHub/internal/event"
	"github.com/harish-v07/CreatorHub/internal/gateway"
	"github.com/harish-v07/CreatorHub/internal/model"
	"github.com/harish-v07/CreatorHub/internal/signature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockVerifier struct {
	mu         sync.Mutex
	calls      int
	VerifyFunc func(orderID, paymentID, sig string) error
}

func (m *MockVerifier) Verify(_ context.Context, orderID, paymentID, sig string) error {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return m.VerifyFunc(orderID, paymentID, sig)
}

type MockRecorder struct {
	mu         sync.Mutex
	orders     []*model.OrderModel
	RecordFunc func(order *model.OrderModel) error
}

func (m *MockRecorder) Record(_ context.Context, order *model.OrderModel) error {
	if m.RecordFunc != nil {
		if err := m.RecordFunc(order); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.orders = append(m.orders, order)
	m.mu.Unlock()
	return nil
}

func (m *MockRecorder) ListByPayment(_ context.Context, paymentID string) ([]model.OrderModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var rows []model.OrderModel
	for _, o := range m.orders {
		if o.GatewayPaymentId == paymentID {
			rows = append(rows, *o)
		}
	}
	return rows, nil
}

type MockOrderFetcher struct {
	Orders map[string]*gateway.Order
	Err    error
}

func (m *MockOrderFetcher) FetchOrder(_ context.Context, orderID string) (*gateway.Order, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	order, ok := m.Orders[orderID]
	if !ok {
		return nil, &gateway.Error{StatusCode: 400, Description: "The id provided does not exist"}
	}
	return order, nil
}

type MockCatalog map[string]float64

func (m MockCatalog) PriceForItem(_ context.Context, itemID string, itemType model.ItemType) (float64, error) {
	price, ok := m[string(itemType)+":"+itemID]
	if !ok {
		return 0, errors.New("item not found")
	}
	return price, nil
}

func testCatalog() MockCatalog {
	return MockCatalog{
		"course:course-1":   999,
		"product:product-1": 19.99,
		"product:product-2": 50,
		"product:cheap":     1,
		"course:premium":    4999,
	}
}

// cartOrder the gateway order cartRequest was paid against
func cartOrder() *MockOrderFetcher {
	return &MockOrderFetcher{Orders: map[string]*gateway.Order{
		"order_1": {ID: "order_1", Amount: 99900 + 1999 + 5000, Currency: "INR", Status: "paid"},
	}}
}

func newTestFinalizer(verifier Verifier, recorder *MockRecorder, cart Cart, events event.Publisher, workers int) *Finalizer {
	return NewFinalizer(verifier, cartOrder(), testCatalog(), recorder, cart, events, workers)
}

type MockCart struct {
	cleared []string
	Err     error
}

func (m *MockCart) Clear(_ context.Context, userID string) error {
	m.cleared = append(m.cleared, userID)
	return m.Err
}

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
}

func (p *recordingPublisher) Publish(_ context.Context, topic, _ string, _ interface{}) error {
	p.mu.Lock()
	p.topics = append(p.topics, topic)
	p.mu.Unlock()
	return nil
}

func proofFor(secret string) Proof {
	return Proof{
		OrderID:   "order_1",
		PaymentID: "pay_1",
		Signature: signature.Sign(secret, "order_1", "pay_1"),
	}
}

func cartRequest() FinalizeRequest {
	return FinalizeRequest{
		BuyerID: "buyer-1",
		Proof:   proofFor("secret"),
		Items: []Item{
			{ItemID: "course-1", ItemType: model.ItemTypeCourse, Amount: 99900},
			{ItemID: "product-1", ItemType: model.ItemTypeProduct, Amount: 1999},
			{ItemID: "product-2", ItemType: model.ItemTypeProduct, Amount: 5000},
		},
		FromCart: true,
	}
}

func TestFinalize_Completed(t *testing.T) {
	recorder := &MockRecorder{}
	cart := &MockCart{}
	events := &recordingPublisher{}
	f := newTestFinalizer(signature.NewVerifier("secret"), recorder, cart, events, 2)

	result, err := f.Finalize(context.Background(), cartRequest())
	require.NoError(t, err)
	assert.Equal(t, OutcomeCompleted, result.Outcome)
	assert.Equal(t, RedirectDashboard, result.Redirect)

	require.Len(t, recorder.orders, 3)
	for _, o := range recorder.orders {
		assert.Equal(t, model.OrderStatusCompleted, o.Status)
		assert.Equal(t, "pay_1", o.GatewayPaymentId)
		assert.Equal(t, "buyer-1", o.UserId)
		assert.Equal(t, "INR", o.Currency)
	}
	assert.Equal(t, []string{"buyer-1"}, cart.cleared)
	assert.Equal(t, []string{event.TopicPurchaseCompleted}, events.topics)
}

func TestFinalize_VerificationFailedWritesNothing(t *testing.T) {
	recorder := &MockRecorder{}
	cart := &MockCart{}
	f := newTestFinalizer(signature.NewVerifier("other-secret"), recorder, cart, nil, 4)

	result, err := f.Finalize(context.Background(), cartRequest())
	require.NoError(t, err)
	assert.Equal(t, OutcomeVerificationFailed, result.Outcome)
	assert.ErrorIs(t, result.Err, signature.ErrSignatureMismatch)
	assert.Empty(t, recorder.orders)
	assert.Empty(t, cart.cleared)
}

func TestFinalize_CapturedNotRecorded(t *testing.T) {
	verifier := &MockVerifier{VerifyFunc: func(string, string, string) error { return nil }}
	recorder := &MockRecorder{RecordFunc: func(o *model.OrderModel) error {
		if o.ItemId == "product-1" {
			return errors.New("insert failed")
		}
		return nil
	}}
	cart := &MockCart{}
	events := &recordingPublisher{}
	f := newTestFinalizer(verifier, recorder, cart, events, 4)

	result, err := f.Finalize(context.Background(), cartRequest())
	require.NoError(t, err)
	assert.Equal(t, OutcomeCapturedNotRecorded, result.Outcome)
	assert.Equal(t, MessageCapturedNotRecorded, result.Message)
	assert.Equal(t, []string{"product-1"}, result.FailedItemIDs)
	assert.Len(t, recorder.orders, 2)

	assert.Equal(t, 1, verifier.calls, "never re-verified")
	assert.Empty(t, cart.cleared)
	assert.Equal(t, []string{event.TopicPurchaseUnrecorded}, events.topics)
}

func TestFinalize_CartClearFailureStillCompletes(t *testing.T) {
	f := newTestFinalizer(signature.NewVerifier("secret"), &MockRecorder{}, &MockCart{Err: errors.New("redis down")}, nil, 0)

	result, err := f.Finalize(context.Background(), cartRequest())
	require.NoError(t, err)
	assert.Equal(t, OutcomeCompleted, result.Outcome)
}

func TestFinalize_SingleItemNotFromCart(t *testing.T) {
	cart := &MockCart{}
	orders := &MockOrderFetcher{Orders: map[string]*gateway.Order{
		"order_1": {ID: "order_1", Amount: 99900, Currency: "INR", Notes: gateway.Notes{"item_id": "course-1", "item_type": "course"}},
	}}
	f := NewFinalizer(signature.NewVerifier("secret"), orders, testCatalog(), &MockRecorder{}, cart, nil, 4)

	req := cartRequest()
	req.Items = req.Items[:1]
	req.FromCart = false

	result, err := f.Finalize(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCompleted, result.Outcome)
	assert.Empty(t, cart.cleared)
}

func TestFinalize_InvalidRequest(t *testing.T) {
	f := newTestFinalizer(signature.NewVerifier("secret"), &MockRecorder{}, nil, nil, 4)

	req := cartRequest()
	req.Items = nil
	_, err := f.Finalize(context.Background(), req)
	assert.ErrorIs(t, err, ErrNoItems)

	req = cartRequest()
	req.BuyerID = ""
	_, err = f.Finalize(context.Background(), req)
	assert.ErrorIs(t, err, ErrNoBuyer)
}

func TestFinalize_AmountsComeFromCatalog(t *testing.T) {
	recorder := &MockRecorder{}
	f := newTestFinalizer(signature.NewVerifier("secret"), recorder, nil, nil, 4)

	req := cartRequest()
	for i := range req.Items {
		req.Items[i].Amount = 1
	}
	result, err := f.Finalize(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCompleted, result.Outcome)

	amounts := map[string]int64{}
	for _, o := range recorder.orders {
		amounts[o.ItemId] = o.Amount
	}
	assert.Equal(t, map[string]int64{"course-1": 99900, "product-1": 1999, "product-2": 5000}, amounts)
}

func TestFinalize_ReplayedProofForOtherItemWritesNothing(t *testing.T) {
	orders := &MockOrderFetcher{Orders: map[string]*gateway.Order{
		"order_1": {ID: "order_1", Amount: 100, Currency: "INR", Notes: gateway.Notes{"item_id": "cheap", "item_type": "product"}},
	}}
	recorder := &MockRecorder{}
	f := NewFinalizer(signature.NewVerifier("secret"), orders, testCatalog(), recorder, nil, nil, 4)

	genuine := FinalizeRequest{
		BuyerID: "buyer-1",
		Proof:   proofFor("secret"),
		Items:   []Item{{ItemID: "cheap", ItemType: model.ItemTypeProduct, Amount: 100}},
	}
	result, err := f.Finalize(context.Background(), genuine)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCompleted, result.Outcome)

	replay := genuine
	replay.Items = []Item{{ItemID: "premium", ItemType: model.ItemTypeCourse, Amount: 1}}
	result, err = f.Finalize(context.Background(), replay)
	assert.ErrorIs(t, err, ErrOrderMismatch)
	assert.Nil(t, result)

	require.Len(t, recorder.orders, 1)
	assert.Equal(t, "cheap", recorder.orders[0].ItemId)

	// the genuine request may be repeated
	result, err = f.Finalize(context.Background(), genuine)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCompleted, result.Outcome)
}

func TestFinalize_PaymentReusedForDifferentPurchase(t *testing.T) {
	orders := &MockOrderFetcher{Orders: map[string]*gateway.Order{
		"order_1": {ID: "order_1", Amount: 5000, Currency: "INR"},
	}}
	catalog := MockCatalog{"product:a": 25, "product:b": 25, "product:c": 50}
	recorder := &MockRecorder{}
	f := NewFinalizer(signature.NewVerifier("secret"), orders, catalog, recorder, nil, nil, 4)

	first := FinalizeRequest{
		BuyerID: "buyer-1",
		Proof:   proofFor("secret"),
		Items: []Item{
			{ItemID: "a", ItemType: model.ItemTypeProduct},
			{ItemID: "b", ItemType: model.ItemTypeProduct},
		},
	}
	_, err := f.Finalize(context.Background(), first)
	require.NoError(t, err)

	sameTotal := first
	sameTotal.Items = []Item{{ItemID: "c", ItemType: model.ItemTypeProduct}}
	_, err = f.Finalize(context.Background(), sameTotal)
	assert.ErrorIs(t, err, ErrPaymentReused)

	otherBuyer := first
	otherBuyer.BuyerID = "buyer-2"
	_, err = f.Finalize(context.Background(), otherBuyer)
	assert.ErrorIs(t, err, ErrPaymentReused)

	assert.Len(t, recorder.orders, 2)
}

func TestFinalize_BindingFailures(t *testing.T) {
	tests := []struct {
		name    string
		orders  *MockOrderFetcher
		mutate  func(r *FinalizeRequest)
		wantErr error
	}{
		{
			name:    "total differs from order",
			orders:  &MockOrderFetcher{Orders: map[string]*gateway.Order{"order_1": {ID: "order_1", Amount: 100}}},
			mutate:  func(r *FinalizeRequest) {},
			wantErr: ErrOrderMismatch,
		},
		{
			name:    "unknown item",
			orders:  cartOrder(),
			mutate:  func(r *FinalizeRequest) { r.Items[0].ItemID = "missing" },
			wantErr: ErrOrderMismatch,
		},
		{
			name:    "duplicate item",
			orders:  cartOrder(),
			mutate:  func(r *FinalizeRequest) { r.Items[2] = r.Items[1] },
			wantErr: ErrOrderMismatch,
		},
		{
			name:    "currency differs",
			orders:  cartOrder(),
			mutate:  func(r *FinalizeRequest) { r.Currency = "USD" },
			wantErr: ErrOrderMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := &MockRecorder{}
			f := NewFinalizer(signature.NewVerifier("secret"), tt.orders, testCatalog(), recorder, nil, nil, 4)
			req := cartRequest()
			tt.mutate(&req)

			_, err := f.Finalize(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, recorder.orders)
		})
	}
}

func TestFinalize_OrderFetchFailureWritesNothing(t *testing.T) {
	recorder := &MockRecorder{}
	gwErr := &gateway.Error{StatusCode: 502, Description: "upstream down"}
	f := NewFinalizer(signature.NewVerifier("secret"), &MockOrderFetcher{Err: gwErr}, testCatalog(), recorder, nil, nil, 4)

	_, err := f.Finalize(context.Background(), cartRequest())
	require.Error(t, err)
	_, ok := gateway.AsError(err)
	assert.True(t, ok)
	assert.Empty(t, recorder.orders)
}

func TestDismiss(t *testing.T) {
	recorder := &MockRecorder{}
	f := newTestFinalizer(signature.NewVerifier("secret"), recorder, nil, nil, 4)

	result := f.Dismiss(context.Background(), "order_1")
	assert.Equal(t, OutcomeDismissed, result.Outcome)
	assert.Empty(t, recorder.orders)
}

func TestRemoteVerifier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/payments/verify", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"success":true,"message":"Payment verified successfully"}`))
	}))
	defer srv.Close()

	v := NewRemoteVerifier(srv.URL+"/", time.Second)
	assert.NoError(t, v.Verify(context.Background(), "order_1", "pay_1", "sig"))
}

func TestRemoteVerifier_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"error":"Invalid payment signature"}`))
	}))
	defer srv.Close()

	err := NewRemoteVerifier(srv.URL, time.Second).Verify(context.Background(), "order_1", "pay_1", "bad")
	assert.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "Invalid payment signature")
}
