package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/harish-v07/CreatorHub/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.GatewayConfig{
		KeyID:     "rzp_test_key",
		KeySecret: "secret",
		BaseURL:   srv.URL,
		Timeout:   5 * time.Second,
	})
}

func TestClient_NotConfigured(t *testing.T) {
	c := NewClient(config.GatewayConfig{})
	_, err := c.CreateOrder(context.Background(), OrderRequest{Amount: 100, Currency: "INR"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestCreateOrder_SendsBasicAuthAndKeepsRawBody(t *testing.T) {
	var got map[string]interface{}
	body := `{"id":"order_1","entity":"order","amount":99900,"currency":"INR","status":"created","offer_id":null}`

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "secret", pass)

		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &got))
		w.Write([]byte(body))
	})

	order, err := c.CreateOrder(context.Background(), OrderRequest{Amount: 99900, Currency: "INR", Receipt: "r1"})
	require.NoError(t, err)
	assert.Equal(t, "order_1", order.ID)
	assert.Equal(t, int64(99900), order.Amount)
	assert.JSONEq(t, body, string(order.Raw))

	_, hasTransfers := got["transfers"]
	assert.False(t, hasTransfers, "transfers key must be absent when there is no split")
}

func TestCreateOrder_TransfersSerialised(t *testing.T) {
	var got struct {
		Transfers []map[string]interface{} `json:"transfers"`
	}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &got))
		w.Write([]byte(`{"id":"order_2"}`))
	})

	_, err := c.CreateOrder(context.Background(), OrderRequest{
		Amount:   100000,
		Currency: "INR",
		Transfers: []Transfer{{
			Account:  "acc_123",
			Amount:   85000,
			Currency: "INR",
		}},
	})
	require.NoError(t, err)
	require.Len(t, got.Transfers, 1)
	assert.Equal(t, "acc_123", got.Transfers[0]["account"])
	assert.Equal(t, float64(85000), got.Transfers[0]["amount"])
	assert.Equal(t, float64(0), got.Transfers[0]["on_hold"])
}

func TestFetchOrder_DecodesNotes(t *testing.T) {
	bodies := map[string]string{
		"order_1": `{"id":"order_1","amount":99900,"currency":"INR","status":"paid","notes":{"item_id":"course-1","item_type":"course"}}`,
		"order_2": `{"id":"order_2","amount":500,"currency":"INR","status":"paid","notes":[]}`,
	}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		id := r.URL.Path[len("/v1/orders/"):]
		w.Write([]byte(bodies[id]))
	})

	order, err := c.FetchOrder(context.Background(), "order_1")
	require.NoError(t, err)
	assert.Equal(t, int64(99900), order.Amount)
	assert.Equal(t, "paid", order.Status)
	assert.Equal(t, "course-1", order.Notes["item_id"])

	order, err = c.FetchOrder(context.Background(), "order_2")
	require.NoError(t, err)
	assert.Empty(t, order.Notes)
}

func TestClient_DecodesRejection(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"Linked account is not activated","reason":"account_not_activated","source":"business","step":"payment_initiation","field":"account"}}`))
	})

	_, err := c.CreateOrder(context.Background(), OrderRequest{Amount: 100, Currency: "INR"})
	require.Error(t, err)

	gwErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, gwErr.StatusCode)
	assert.Equal(t, "BAD_REQUEST_ERROR", gwErr.Code)
	assert.Equal(t, "account", gwErr.Field)
	assert.NotEmpty(t, gwErr.Raw)
	assert.True(t, IsAccountNotActivated(err))
	assert.False(t, IsAlreadyExists(err))
}

func TestClient_NonJSONRejection(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	})

	_, err := c.ListAccounts(context.Background(), "route", 10)
	gwErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, gwErr.StatusCode)
	assert.Equal(t, "upstream down", gwErr.Description)
}

func TestErrorPredicates(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		notActivated bool
		already      bool
	}{
		{"reason mentions activation", &Error{Reason: "Account NOT Activated"}, true, false},
		{"description mentions activation", &Error{Description: "account activation pending"}, true, false},
		{"already requested", &Error{Description: "Product already requested"}, false, true},
		{"unrelated", &Error{Description: "amount too small"}, false, false},
		{"plain error", errors.New("activation already"), false, false},
		{"nil", nil, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.notActivated, IsAccountNotActivated(tt.err))
			assert.Equal(t, tt.already, IsAlreadyExists(tt.err))
		})
	}
}

func TestAccountsAndProducts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v2/accounts":
			w.Write([]byte(`{"id":"acc_new","type":"route"}`))
		case r.Method == http.MethodGet && r.URL.Path == "/v2/accounts":
			assert.Equal(t, "route", r.URL.Query().Get("type"))
			assert.Equal(t, "100", r.URL.Query().Get("count"))
			w.Write([]byte(`{"count":2,"items":[{"id":"acc_a"},{"id":"acc_b"}]}`))
		case r.Method == http.MethodPatch && r.URL.Path == "/v2/accounts/acc_a":
			var body map[string]map[string]bool
			raw, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.True(t, body["profile"]["suspended"])
			w.Write([]byte(`{"id":"acc_a","status":"suspended"}`))
		case r.Method == http.MethodGet && r.URL.Path == "/v2/accounts/acc_a/products":
			w.Write([]byte(`[{"id":"acc_prd_1","product_name":"route"}]`))
		case r.Method == http.MethodPatch && r.URL.Path == "/v2/accounts/acc_a/products/acc_prd_1":
			w.Write([]byte(`{"id":"acc_prd_1","activation_status":"under_review"}`))
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	acc, err := c.CreateAccount(ctx, AccountRequest{Email: "x@y.z", Type: "route"})
	require.NoError(t, err)
	assert.Equal(t, "acc_new", acc.ID)

	accounts, err := c.ListAccounts(ctx, "route", 100)
	require.NoError(t, err)
	assert.Len(t, accounts, 2)

	suspended, err := c.SuspendAccount(ctx, "acc_a")
	require.NoError(t, err)
	assert.Equal(t, "suspended", suspended.Status)

	products, err := c.ListProducts(ctx, "acc_a")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "acc_prd_1", products[0].ID)

	p, err := c.UpdateProduct(ctx, "acc_a", "acc_prd_1", ProductUpdate{TNCAccepted: true})
	require.NoError(t, err)
	assert.Equal(t, "under_review", p.ActivationStatus)
}
