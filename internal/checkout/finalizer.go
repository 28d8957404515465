// Package checkout turns a completed gateway checkout into purchase records.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/harish-v07/CreatorHub/internal/event"
	"github.com/harish-v07/CreatorHub/internal/gateway"
	"github.com/harish-v07/CreatorHub/internal/logger"
	"github.com/harish-v07/CreatorHub/internal/logic"
	"github.com/harish-v07/CreatorHub/internal/model"
	"github.com/panjf2000/ants/v2"
)

const (
	MessageCompleted           = "Payment successful!"
	MessageVerificationFailed  = "Payment verification failed"
	MessageCapturedNotRecorded = "Payment successful but order creation failed. Please contact support."
	MessageDismissed           = "Payment cancelled"

	RedirectDashboard = "/dashboard"
)

var (
	ErrNoItems = errors.New("no items to finalize")
	ErrNoBuyer = errors.New("missing buyer")

	// ErrOrderMismatch the items do not add up to the paid gateway order.
	ErrOrderMismatch = errors.New("items do not match the paid order")
	// ErrPaymentReused the payment was already recorded for other items or another buyer.
	ErrPaymentReused = errors.New("payment already recorded for a different purchase")
)

type Outcome string

const (
	OutcomeCompleted           Outcome = "completed"
	OutcomeVerificationFailed  Outcome = "verification_failed"
	OutcomeCapturedNotRecorded Outcome = "captured_not_recorded"
	OutcomeDismissed           Outcome = "dismissed"
)

// Verifier checks the checkout proof. Any error means unverified.
type Verifier interface {
	Verify(ctx context.Context, orderID, paymentID, signature string) error
}

// Recorder persists settled purchases.
type Recorder interface {
	Record(ctx context.Context, order *model.OrderModel) error
	ListByPayment(ctx context.Context, paymentID string) ([]model.OrderModel, error)
}

// OrderFetcher reads the gateway order a proof was issued for.
type OrderFetcher interface {
	FetchOrder(ctx context.Context, orderID string) (*gateway.Order, error)
}

// Catalog returns an item's listed price in major units.
type Catalog interface {
	PriceForItem(ctx context.Context, itemID string, itemType model.ItemType) (float64, error)
}

// Cart is cleared after a successful cart checkout.
type Cart interface {
	Clear(ctx context.Context, userID string) error
}

// Proof the three values the checkout widget hands back on success
type Proof struct {
	OrderID   string
	PaymentID string
	Signature string
}

type Item struct {
	ItemID   string
	ItemType model.ItemType
	Amount   int64 // minor units; replaced by the catalog price before writing
}

type FinalizeRequest struct {
	BuyerID  string
	Proof    Proof
	Items    []Item
	Currency string
	FromCart bool
}

type Result struct {
	Outcome       Outcome
	Message       string
	Redirect      string
	FailedItemIDs []string
	Err           error
}

// Finalizer verifies a checkout and records its purchases.
type Finalizer struct {
	verifier   Verifier
	orders     OrderFetcher
	catalog    Catalog
	recorder   Recorder
	cart       Cart
	events     event.Publisher
	maxWorkers int
}

// NewFinalizer cart and events may be nil.
func NewFinalizer(verifier Verifier, orders OrderFetcher, catalog Catalog, recorder Recorder, cart Cart, events event.Publisher, maxWorkers int) *Finalizer {
	if events == nil {
		events = event.NopPublisher{}
	}
	if maxWorkers <= 0 {
		maxWorkers = 8
	}
	return &Finalizer{
		verifier:   verifier,
		orders:     orders,
		catalog:    catalog,
		recorder:   recorder,
		cart:       cart,
		events:     events,
		maxWorkers: maxWorkers,
	}
}

// Finalize verifies the proof, binds the items to the paid gateway order and
// then writes one completed purchase per item. Nothing is written when
// verification or binding fails. A verified payment whose rows could not all
// be written is reported as OutcomeCapturedNotRecorded and is never retried or
// re-verified here.
func (f *Finalizer) Finalize(ctx context.Context, req FinalizeRequest) (*Result, error) {
	if req.BuyerID == "" {
		return nil, ErrNoBuyer
	}
	if len(req.Items) == 0 {
		return nil, ErrNoItems
	}

	p := req.Proof
	if err := f.verifier.Verify(ctx, p.OrderID, p.PaymentID, p.Signature); err != nil {
		logger.Warn("Payment verification failed for order %s payment %s: %v", p.OrderID, p.PaymentID, err)
		return &Result{Outcome: OutcomeVerificationFailed, Message: MessageVerificationFailed, Err: err}, nil
	}

	req, err := f.bind(ctx, req)
	if err != nil {
		logger.Warn("Rejected finalize for order %s payment %s buyer %s: %v", p.OrderID, p.PaymentID, req.BuyerID, err)
		return nil, err
	}

	failed := f.recordAll(ctx, req)
	if len(failed) > 0 {
		logger.Error("Payment captured but not recorded: order=%s payment=%s buyer=%s failed_items=%s",
			p.OrderID, p.PaymentID, req.BuyerID, strings.Join(failed, ","))
		f.publish(ctx, event.TopicPurchaseUnrecorded, p.PaymentID, event.PurchaseUnrecorded{
			BuyerID:       req.BuyerID,
			OrderID:       p.OrderID,
			PaymentID:     p.PaymentID,
			FailedItemIDs: failed,
		})
		return &Result{
			Outcome:       OutcomeCapturedNotRecorded,
			Message:       MessageCapturedNotRecorded,
			FailedItemIDs: failed,
			Err:           fmt.Errorf("%d of %d purchases not recorded", len(failed), len(req.Items)),
		}, nil
	}

	if req.FromCart && f.cart != nil {
		if err := f.cart.Clear(ctx, req.BuyerID); err != nil {
			logger.Warn("Failed to clear cart for buyer %s: %v", req.BuyerID, err)
		}
	}

	items := make([]event.PurchasedItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, event.PurchasedItem{ItemID: it.ItemID, ItemType: string(it.ItemType), Amount: it.Amount})
	}
	f.publish(ctx, event.TopicPurchaseCompleted, p.PaymentID, event.PurchaseCompleted{
		BuyerID:   req.BuyerID,
		OrderID:   p.OrderID,
		PaymentID: p.PaymentID,
		Items:     items,
	})

	logger.Info("Recorded %d purchases for buyer %s payment %s", len(req.Items), req.BuyerID, p.PaymentID)
	return &Result{Outcome: OutcomeCompleted, Message: MessageCompleted, Redirect: RedirectDashboard}, nil
}

// Dismiss the buyer closed the widget without paying. No writes.
func (f *Finalizer) Dismiss(_ context.Context, orderID string) *Result {
	logger.Info("Checkout dismissed for order %s", orderID)
	return &Result{Outcome: OutcomeDismissed, Message: MessageDismissed}
}

// bind prices every item from the catalog and checks the batch against the
// gateway order and any rows already written for the payment. The returned
// request carries the catalog amounts and the order's currency.
func (f *Finalizer) bind(ctx context.Context, req FinalizeRequest) (FinalizeRequest, error) {
	p := req.Proof
	order, err := f.orders.FetchOrder(ctx, p.OrderID)
	if err != nil {
		return req, fmt.Errorf("failed to fetch order %s: %w", p.OrderID, err)
	}

	items := make([]Item, len(req.Items))
	seen := make(map[string]bool, len(req.Items))
	var total int64
	for i, it := range req.Items {
		if seen[it.ItemID] {
			return req, fmt.Errorf("%w: item %s listed twice", ErrOrderMismatch, it.ItemID)
		}
		seen[it.ItemID] = true

		price, err := f.catalog.PriceForItem(ctx, it.ItemID, it.ItemType)
		if err != nil {
			return req, fmt.Errorf("%w: %v", ErrOrderMismatch, err)
		}
		it.Amount = logic.ToMinorUnits(price)
		total += it.Amount
		items[i] = it
	}

	if total != order.Amount {
		return req, fmt.Errorf("%w: items total %d, order %s is %d", ErrOrderMismatch, total, order.ID, order.Amount)
	}
	if req.Currency != "" && order.Currency != "" && !strings.EqualFold(req.Currency, order.Currency) {
		return req, fmt.Errorf("%w: currency %s, order is %s", ErrOrderMismatch, req.Currency, order.Currency)
	}
	if noted := order.Notes["item_id"]; noted != "" {
		if len(items) != 1 || items[0].ItemID != noted || string(items[0].ItemType) != order.Notes["item_type"] {
			return req, fmt.Errorf("%w: order %s was created for %s %s", ErrOrderMismatch, order.ID, order.Notes["item_type"], noted)
		}
	}

	existing, err := f.recorder.ListByPayment(ctx, p.PaymentID)
	if err != nil {
		return req, fmt.Errorf("failed to check payment %s: %w", p.PaymentID, err)
	}
	if len(existing) > 0 && !samePurchase(existing, req.BuyerID, items) {
		return req, fmt.Errorf("%w: payment %s", ErrPaymentReused, p.PaymentID)
	}

	req.Items = items
	if order.Currency != "" {
		req.Currency = order.Currency
	}
	return req, nil
}

// samePurchase reports whether the rows already written for a payment belong
// to this buyer and are a subset of these items, so a repeated finalize only
// fills in rows a partial failure left out.
func samePurchase(rows []model.OrderModel, buyerID string, items []Item) bool {
	if len(rows) > len(items) {
		return false
	}
	want := make(map[string]bool, len(items))
	for _, it := range items {
		want[string(it.ItemType)+":"+it.ItemID] = true
	}
	for _, row := range rows {
		if row.UserId != buyerID || !want[string(row.ItemType)+":"+row.ItemId] {
			return false
		}
	}
	return true
}

// recordAll writes every item on a pool sized to the batch and returns the ids
// of items that failed.
func (f *Finalizer) recordAll(ctx context.Context, req FinalizeRequest) []string {
	size := len(req.Items)
	if size > f.maxWorkers {
		size = f.maxWorkers
	}

	var (
		mu     sync.Mutex
		failed []string
		wg     sync.WaitGroup
	)
	markFailed := func(itemID string) {
		mu.Lock()
		failed = append(failed, itemID)
		mu.Unlock()
	}

	pool, err := ants.NewPool(size)
	if err != nil {
		logger.Error("Failed to create write pool: %v", err)
		for _, it := range req.Items {
			failed = append(failed, it.ItemID)
		}
		return failed
	}
	defer pool.Release()

	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}

	for _, it := range req.Items {
		order := &model.OrderModel{
			UserId:           req.BuyerID,
			ItemId:           it.ItemID,
			ItemType:         it.ItemType,
			Amount:           it.Amount,
			Currency:         currency,
			Status:           model.OrderStatusCompleted,
			GatewayOrderId:   req.Proof.OrderID,
			GatewayPaymentId: req.Proof.PaymentID,
			GatewaySignature: req.Proof.Signature,
		}

		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			if err := f.recorder.Record(ctx, order); err != nil {
				logger.Error("Failed to record item %s for payment %s: %v", order.ItemId, order.GatewayPaymentId, err)
				markFailed(order.ItemId)
			}
		}); err != nil {
			wg.Done()
			logger.Error("Failed to submit write for item %s: %v", it.ItemID, err)
			markFailed(it.ItemID)
		}
	}

	wg.Wait()
	return failed
}

func (f *Finalizer) publish(ctx context.Context, topic, key string, payload interface{}) {
	if err := f.events.Publish(ctx, topic, key, payload); err != nil {
		logger.Warn("Failed to publish %s for %s: %v", topic, key, err)
	}
}
