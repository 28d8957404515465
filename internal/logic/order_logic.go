package logic

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/harish-v07/CreatorHub/internal/cache"
	"github.com/harish-v07/CreatorHub/internal/config"
	"github.com/harish-v07/CreatorHub/internal/gateway"
	"github.com/harish-v07/CreatorHub/internal/logger"
	"github.com/harish-v07/CreatorHub/internal/model"
)

var (
	ErrMissingAmount = errors.New("Missing required field: amount")
	ErrInvalidAmount = errors.New("amount must be a finite number")
)

const defaultCurrency = "INR"

// OrderGateway the gateway calls order creation needs
type OrderGateway interface {
	Configured() bool
	CreateOrder(ctx context.Context, req gateway.OrderRequest) (*gateway.Order, error)
}

// SellerLookup resolves an item to the creator that owns it
type SellerLookup interface {
	CreatorForCourse(ctx context.Context, courseID string) (string, error)
	CreatorForProduct(ctx context.Context, productID string) (string, error)
	CreatorForItem(ctx context.Context, itemID string, itemType model.ItemType) (string, error)
}

// ProfileReader loads a creator profile
type ProfileReader interface {
	Get(ctx context.Context, creatorID string) (*model.CreatorProfileModel, error)
}

// CreateOrderRequest a checkout request. Amount is in currency units.
type CreateOrderRequest struct {
	Amount      float64
	Currency    string
	Description string
	Receipt     string

	// Seller hints, checked in this order
	CreatorID string
	CourseID  string
	ProductID string
	ItemID    string
	ItemType  model.ItemType
}

// OrderLogic creates gateway orders, attaching a creator split when it can.
type OrderLogic struct {
	gateway  OrderGateway
	items    SellerLookup
	profiles ProfileReader
	accounts cache.AccountCache
	split    config.SplitConfig
}

func NewOrderLogic(gw OrderGateway, items SellerLookup, profiles ProfileReader, accounts cache.AccountCache, split config.SplitConfig) *OrderLogic {
	if accounts == nil {
		accounts = cache.NopAccountCache{}
	}
	return &OrderLogic{
		gateway:  gw,
		items:    items,
		profiles: profiles,
		accounts: accounts,
		split:    split,
	}
}

// ToMinorUnits converts a currency amount to paise, rounding up. Float noise
// within 1e-6 of a whole number is snapped first so 19.99 gives 1999.
func ToMinorUnits(amount float64) int64 {
	minor := amount * 100
	if nearest := math.Round(minor); math.Abs(minor-nearest) < 1e-6 {
		return int64(nearest)
	}
	return int64(math.Ceil(minor))
}

// ComputeSplit returns the creator share of amountMinor and whether a transfer
// to accountID should be attached.
func ComputeSplit(amountMinor int64, accountID string, policy config.SplitConfig) (int64, bool) {
	share := amountMinor * policy.CreatorPercentage / 100
	if !model.IsRoutableAccountID(accountID) {
		return share, false
	}
	return share, share >= policy.MinTransferAmount
}

// CreateOrder creates the gateway order. When a split is rejected because the
// creator's account is not activated yet, the order is resubmitted once
// without it.
func (l *OrderLogic) CreateOrder(ctx context.Context, req CreateOrderRequest) (*gateway.Order, error) {
	if math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) {
		return nil, ErrInvalidAmount
	}
	if req.Amount <= 0 {
		return nil, ErrMissingAmount
	}
	if !l.gateway.Configured() {
		return nil, gateway.ErrNotConfigured
	}

	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	amountMinor := ToMinorUnits(req.Amount)
	itemID, itemType := req.item()

	orderReq := gateway.OrderRequest{
		Amount:   amountMinor,
		Currency: currency,
		Receipt:  req.Receipt,
		Notes: compactNotes(map[string]string{
			"description": req.Description,
			"item_id":     itemID,
			"item_type":   string(itemType),
		}),
	}

	creatorID := l.resolveSeller(ctx, req)
	if creatorID != "" {
		accountID := l.accountFor(ctx, creatorID)
		share, attach := ComputeSplit(amountMinor, accountID, l.split)
		switch {
		case attach:
			orderReq.Transfers = []gateway.Transfer{{
				Account:  accountID,
				Amount:   share,
				Currency: currency,
				Notes: compactNotes(map[string]string{
					"creator_id": creatorID,
					"item_id":    itemID,
					"item_type":  string(itemType),
				}),
				LinkedAccountNotes: []string{fmt.Sprintf("Payment for %s: %s", itemType, req.Description)},
				OnHold:             0,
			}}
			logger.Info("Split %d of %d to %s for creator %s", share, amountMinor, accountID, creatorID)
		case !model.IsRoutableAccountID(accountID):
			logger.Info("Creator %s has no routable account, order without split", creatorID)
		default:
			logger.Info("Creator share %d below minimum transfer %d, order without split", share, l.split.MinTransferAmount)
		}
	}

	order, err := l.gateway.CreateOrder(ctx, orderReq)
	if err == nil {
		return order, nil
	}

	if len(orderReq.Transfers) > 0 && gateway.IsAccountNotActivated(err) {
		logger.Warn("Linked account %s not activated, retrying order without split: %v", orderReq.Transfers[0].Account, err)
		return l.gateway.CreateOrder(ctx, orderReq.WithoutTransfers())
	}
	return nil, err
}

func (r CreateOrderRequest) item() (string, model.ItemType) {
	switch {
	case r.ItemID != "":
		return r.ItemID, r.ItemType
	case r.CourseID != "":
		return r.CourseID, model.ItemTypeCourse
	case r.ProductID != "":
		return r.ProductID, model.ItemTypeProduct
	}
	return "", r.ItemType
}

// resolveSeller returns "" when no seller can be determined. Lookup failures
// never block checkout.
func (l *OrderLogic) resolveSeller(ctx context.Context, req CreateOrderRequest) string {
	var (
		creatorID string
		err       error
	)
	switch {
	case req.CreatorID != "":
		return req.CreatorID
	case req.CourseID != "":
		creatorID, err = l.items.CreatorForCourse(ctx, req.CourseID)
	case req.ProductID != "":
		creatorID, err = l.items.CreatorForProduct(ctx, req.ProductID)
	case req.ItemID != "" && req.ItemType.Valid():
		creatorID, err = l.items.CreatorForItem(ctx, req.ItemID, req.ItemType)
	default:
		return ""
	}
	if err != nil {
		logger.Warn("Seller lookup failed, order without split: %v", err)
		return ""
	}
	return creatorID
}

func (l *OrderLogic) accountFor(ctx context.Context, creatorID string) string {
	if accountID, ok := l.accounts.Get(ctx, creatorID); ok {
		return accountID
	}

	profile, err := l.profiles.Get(ctx, creatorID)
	if err != nil {
		logger.Warn("Profile lookup for creator %s failed, order without split: %v", creatorID, err)
		return ""
	}

	accountID := profile.AccountID()
	if profile.HasRoutableAccount() {
		l.accounts.Set(ctx, creatorID, accountID)
	}
	return accountID
}

func compactNotes(notes map[string]string) map[string]string {
	for k, v := range notes {
		if v == "" {
			delete(notes, k)
		}
	}
	if len(notes) == 0 {
		return nil
	}
	return notes
}
