package logic

import (
	"context"
	"sync"
	"testing"

	"github.com/harish-v07/CreatorHub/internal/database"
	"github.com/harish-v07/CreatorHub/internal/gateway"
	"github.com/harish-v07/CreatorHub/internal/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	return db
}

type MockOrderGateway struct {
	mu              sync.Mutex
	Requests        []gateway.OrderRequest
	CreateOrderFunc func(req gateway.OrderRequest) (*gateway.Order, error)
	Unconfigured    bool
}

func (m *MockOrderGateway) Configured() bool { return !m.Unconfigured }

func (m *MockOrderGateway) CreateOrder(_ context.Context, req gateway.OrderRequest) (*gateway.Order, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	m.mu.Unlock()
	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(req)
	}
	return &gateway.Order{ID: "order_test", Amount: req.Amount, Currency: req.Currency}, nil
}

type MockAccountGateway struct {
	mu                    sync.Mutex
	Calls                 []string
	CreateAccountFunc     func(req gateway.AccountRequest) (*gateway.Account, error)
	RequestProductFunc    func(accountID, productName string) (*gateway.Product, error)
	ListProductsFunc      func(accountID string) ([]gateway.Product, error)
	UpdateProductFunc     func(accountID, productID string, update gateway.ProductUpdate) (*gateway.Product, error)
	CreateStakeholderFunc func(accountID string, req gateway.StakeholderRequest) (*gateway.Stakeholder, error)
}

func (m *MockAccountGateway) record(call string) {
	m.mu.Lock()
	m.Calls = append(m.Calls, call)
	m.mu.Unlock()
}

func (m *MockAccountGateway) count(call string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c == call {
			n++
		}
	}
	return n
}

func (m *MockAccountGateway) Configured() bool { return true }

func (m *MockAccountGateway) CreateAccount(_ context.Context, req gateway.AccountRequest) (*gateway.Account, error) {
	m.record("CreateAccount")
	if m.CreateAccountFunc != nil {
		return m.CreateAccountFunc(req)
	}
	return &gateway.Account{ID: "acc_NEW123", Email: req.Email}, nil
}

func (m *MockAccountGateway) RequestProduct(_ context.Context, accountID, productName string) (*gateway.Product, error) {
	m.record("RequestProduct")
	if m.RequestProductFunc != nil {
		return m.RequestProductFunc(accountID, productName)
	}
	return &gateway.Product{ID: "acc_prd_1", ProductName: productName}, nil
}

func (m *MockAccountGateway) ListProducts(_ context.Context, accountID string) ([]gateway.Product, error) {
	m.record("ListProducts")
	if m.ListProductsFunc != nil {
		return m.ListProductsFunc(accountID)
	}
	return []gateway.Product{{ID: "acc_prd_existing"}}, nil
}

func (m *MockAccountGateway) UpdateProduct(_ context.Context, accountID, productID string, update gateway.ProductUpdate) (*gateway.Product, error) {
	m.record("UpdateProduct")
	if m.UpdateProductFunc != nil {
		return m.UpdateProductFunc(accountID, productID, update)
	}
	return &gateway.Product{ID: productID}, nil
}

func (m *MockAccountGateway) CreateStakeholder(_ context.Context, accountID string, req gateway.StakeholderRequest) (*gateway.Stakeholder, error) {
	m.record("CreateStakeholder")
	if m.CreateStakeholderFunc != nil {
		return m.CreateStakeholderFunc(accountID, req)
	}
	return &gateway.Stakeholder{ID: "sth_1", Name: req.Name}, nil
}

type MockSellerLookup struct {
	Courses  map[string]string
	Products map[string]string
	Err      error
}

func (m *MockSellerLookup) CreatorForCourse(_ context.Context, id string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.Courses[id], nil
}

func (m *MockSellerLookup) CreatorForProduct(_ context.Context, id string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.Products[id], nil
}

func (m *MockSellerLookup) CreatorForItem(ctx context.Context, id string, t model.ItemType) (string, error) {
	if t == model.ItemTypeCourse {
		return m.CreatorForCourse(ctx, id)
	}
	return m.CreatorForProduct(ctx, id)
}

type MockProfileReader struct {
	Profiles map[string]*model.CreatorProfileModel
	Err      error
}

func (m *MockProfileReader) Get(_ context.Context, id string) (*model.CreatorProfileModel, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	p, ok := m.Profiles[id]
	if !ok {
		return &model.CreatorProfileModel{Id: id}, nil
	}
	return p, nil
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

func strPtr(s string) *string { return &s }
