package logic

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/harish-v07/CreatorHub/internal/cache"
	"github.com/harish-v07/CreatorHub/internal/config"
	"github.com/harish-v07/CreatorHub/internal/event"
	"github.com/harish-v07/CreatorHub/internal/gateway"
	"github.com/harish-v07/CreatorHub/internal/logger"
	"github.com/harish-v07/CreatorHub/internal/model"
	"github.com/harish-v07/CreatorHub/internal/repository"
)

// AccountGateway the linked-account calls provisioning needs
type AccountGateway interface {
	Configured() bool
	CreateAccount(ctx context.Context, req gateway.AccountRequest) (*gateway.Account, error)
	RequestProduct(ctx context.Context, accountID, productName string) (*gateway.Product, error)
	ListProducts(ctx context.Context, accountID string) ([]gateway.Product, error)
	UpdateProduct(ctx context.Context, accountID, productID string, update gateway.ProductUpdate) (*gateway.Product, error)
	CreateStakeholder(ctx context.Context, accountID string, req gateway.StakeholderRequest) (*gateway.Stakeholder, error)
}

// ProfileStore persistence for provisioning state
type ProfileStore interface {
	ProfileReader
	SaveAccountCheckpoint(ctx context.Context, creatorID, accountID string) error
	SaveSettlementDetails(ctx context.Context, creatorID string, d repository.SettlementDetails) error
	MarkKYCSubmitted(ctx context.Context, creatorID string, at time.Time) error
}

type ProvisionRequest struct {
	CreatorID string
	Email     string
	Phone     string
	Bank      BankDetails
}

type ProvisionResult struct {
	AccountID    string
	Reused       bool
	KYCSubmitted bool
}

// LinkedAccountLogic provisions a creator's route sub-account and its
// settlement details.
type LinkedAccountLogic struct {
	gateway  AccountGateway
	profiles ProfileStore
	accounts cache.AccountCache
	events   event.Publisher
	cfg      config.ProvisioningConfig
	now      func() time.Time
	locks    *keyedMutex
}

func NewLinkedAccountLogic(
	gw AccountGateway,
	profiles ProfileStore,
	accounts cache.AccountCache,
	events event.Publisher,
	cfg config.ProvisioningConfig,
) *LinkedAccountLogic {
	if accounts == nil {
		accounts = cache.NopAccountCache{}
	}
	if events == nil {
		events = event.NopPublisher{}
	}
	return &LinkedAccountLogic{
		gateway:  gw,
		profiles: profiles,
		accounts: accounts,
		events:   events,
		cfg:      cfg,
		now:      time.Now,
		locks:    newKeyedMutex(),
	}
}

// Provision runs the five provisioning steps in order. An existing routable
// account id on the profile is reused, so calling it again after a failure
// never creates a second sub-account.
func (l *LinkedAccountLogic) Provision(ctx context.Context, req ProvisionRequest) (*ProvisionResult, error) {
	req.Bank.Normalize()
	if err := req.Bank.Validate(); err != nil {
		return nil, err
	}
	if !l.gateway.Configured() {
		return nil, gateway.ErrNotConfigured
	}

	unlock := l.locks.Lock(req.CreatorID)
	defer unlock()

	profile, err := l.profiles.Get(ctx, req.CreatorID)
	if err != nil {
		return nil, err
	}

	result := &ProvisionResult{}
	phone := l.phone(req.Phone, profile)

	// Step 1
	if profile.HasRoutableAccount() {
		result.AccountID = profile.AccountID()
		result.Reused = true
		logger.Info("Reusing linked account %s for creator %s", result.AccountID, req.CreatorID)
	} else {
		acc, err := l.gateway.CreateAccount(ctx, l.accountRequest(req, phone))
		if err != nil {
			return nil, fmt.Errorf("Account creation failed: %w", err)
		}
		result.AccountID = acc.ID
		logger.Info("Linked account %s created for creator %s", acc.ID, req.CreatorID)

		// later steps must not run against an account the profile does not know about
		if err := l.profiles.SaveAccountCheckpoint(ctx, req.CreatorID, acc.ID); err != nil {
			logger.Error("Failed to checkpoint account %s for creator %s, suspend it before retrying: %v", acc.ID, req.CreatorID, err)
			return nil, fmt.Errorf("Failed to update profile: %w", err)
		}
	}

	// Step 2
	productID, err := l.routeProduct(ctx, result.AccountID)
	if err != nil {
		return nil, err
	}

	// Step 3
	_, err = l.gateway.UpdateProduct(ctx, result.AccountID, productID, gateway.ProductUpdate{
		Settlements: gateway.Settlements{
			AccountNumber:   req.Bank.AccountNumber,
			IFSCCode:        req.Bank.IFSCCode,
			BeneficiaryName: req.Bank.AccountHolderName,
		},
		TNCAccepted: true,
	})
	if err != nil {
		return nil, fmt.Errorf("Settlement update failed: %w", err)
	}

	// Step 4, non-fatal
	now := l.now()
	var kycAt, attemptedAt *time.Time
	stakeholder := l.stakeholderRequest(req.CreatorID, req.Bank.AccountHolderName, l.email(req.Email, profile, req.CreatorID), phone, req.Bank.PAN)
	if _, err := l.gateway.CreateStakeholder(ctx, result.AccountID, stakeholder); err != nil {
		logger.Warn("Stakeholder submission failed for account %s (non-fatal): %v", result.AccountID, err)
		attemptedAt = &now
	} else {
		kycAt = &now
		result.KYCSubmitted = true
	}

	// Step 5
	err = l.profiles.SaveSettlementDetails(ctx, req.CreatorID, repository.SettlementDetails{
		AccountID:         result.AccountID,
		BankAccountLast4:  req.Bank.Last4(),
		IFSCCode:          req.Bank.IFSCCode,
		AccountHolderName: req.Bank.AccountHolderName,
		PANNumber:         req.Bank.PAN,
		Phone:             req.Phone,
		VerifiedAt:        now,
		KYCSubmittedAt:    kycAt,
		KYCAttemptedAt:    attemptedAt,
	})
	if err != nil {
		logger.Error("Failed to save settlement details for creator %s: %v", req.CreatorID, err)
		return nil, fmt.Errorf("Failed to update profile: %w", err)
	}

	l.accounts.Invalidate(ctx, req.CreatorID)
	if err := l.events.Publish(ctx, event.TopicLinkedAccountProvisioned, req.CreatorID, event.LinkedAccountProvisioned{
		CreatorID:    req.CreatorID,
		AccountID:    result.AccountID,
		Reused:       result.Reused,
		KYCSubmitted: result.KYCSubmitted,
	}); err != nil {
		logger.Warn("Failed to publish provisioning event for creator %s: %v", req.CreatorID, err)
	}

	logger.Info("Profile updated with route account %s", result.AccountID)
	return result, nil
}

// SubmitKYC re-sends the stakeholder payload for a provisioned profile whose
// earlier submission failed.
func (l *LinkedAccountLogic) SubmitKYC(ctx context.Context, profile *model.CreatorProfileModel) error {
	if !profile.HasRoutableAccount() {
		return fmt.Errorf("creator %s has no routable account", profile.Id)
	}

	unlock := l.locks.Lock(profile.Id)
	defer unlock()

	req := l.stakeholderRequest(profile.Id, profile.AccountHolderName, l.email("", profile, profile.Id), l.phone("", profile), profile.PANNumber)
	if _, err := l.gateway.CreateStakeholder(ctx, profile.AccountID(), req); err != nil {
		return fmt.Errorf("stakeholder submission failed: %w", err)
	}
	return l.profiles.MarkKYCSubmitted(ctx, profile.Id, l.now())
}

// routeProduct requests the route product, falling back to the existing one
// when the gateway says it was already requested.
func (l *LinkedAccountLogic) routeProduct(ctx context.Context, accountID string) (string, error) {
	product, err := l.gateway.RequestProduct(ctx, accountID, gateway.RouteProduct)
	if err == nil {
		return product.ID, nil
	}
	if !gateway.IsAlreadyExists(err) {
		return "", fmt.Errorf("Product request failed: %w", err)
	}

	logger.Info("Route product already requested for %s, fetching product list", accountID)
	products, listErr := l.gateway.ListProducts(ctx, accountID)
	if listErr != nil {
		return "", fmt.Errorf("Product request failed: %w", listErr)
	}
	if len(products) == 0 || products[0].ID == "" {
		return "", fmt.Errorf("Product request failed: %w", err)
	}
	return products[0].ID, nil
}

func (l *LinkedAccountLogic) accountRequest(req ProvisionRequest, phone string) gateway.AccountRequest {
	addr := l.cfg.Address
	return gateway.AccountRequest{
		Email:             l.uniqueEmail(req.CreatorID),
		Phone:             phone,
		Type:              gateway.RouteProduct,
		LegalBusinessName: req.Bank.AccountHolderName,
		BusinessType:      "individual",
		ContactName:       req.Bank.AccountHolderName,
		Profile: gateway.AccountProfile{
			Category:    l.cfg.Category,
			Subcategory: l.cfg.Subcategory,
			Addresses: map[string]gateway.Address{
				"registered": {
					Street1:    addr.Street1,
					Street2:    addr.Street2,
					City:       addr.City,
					State:      addr.State,
					PostalCode: addr.PostalCode,
					Country:    addr.Country,
				},
			},
		},
	}
}

func (l *LinkedAccountLogic) stakeholderRequest(creatorID, name, email, phone, pan string) gateway.StakeholderRequest {
	addr := l.cfg.Address
	return gateway.StakeholderRequest{
		Name:         name,
		Email:        email,
		Relationship: gateway.StakeholderRelationship{Director: true},
		Phone:        gateway.StakeholderPhone{Primary: phone},
		Addresses: map[string]gateway.Address{
			"residential": {
				Street:     addr.Street1,
				City:       addr.City,
				State:      addr.State,
				PostalCode: addr.PostalCode,
				Country:    addr.Country,
			},
		},
		KYC: gateway.StakeholderKYC{PAN: pan},
	}
}

// uniqueEmail the gateway rejects emails used by earlier failed attempts, so
// each new account gets a timestamped one.
func (l *LinkedAccountLogic) uniqueEmail(creatorID string) string {
	return fmt.Sprintf("creator_%s_%d@%s", shortID(strings.ReplaceAll(creatorID, "-", "")), l.now().UnixMilli(), l.cfg.EmailDomain)
}

func (l *LinkedAccountLogic) email(requested string, profile *model.CreatorProfileModel, creatorID string) string {
	if requested != "" {
		return requested
	}
	if profile != nil && profile.Email != "" {
		return profile.Email
	}
	return fmt.Sprintf("creator_%s@%s", shortID(creatorID), l.cfg.EmailDomain)
}

func (l *LinkedAccountLogic) phone(requested string, profile *model.CreatorProfileModel) string {
	if requested != "" {
		return requested
	}
	if profile != nil && profile.Phone != "" {
		return profile.Phone
	}
	return l.cfg.DefaultPhone
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// keyedMutex serialises work per key within this process.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refLock
}

type refLock struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refLock)}
}

func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &refLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
