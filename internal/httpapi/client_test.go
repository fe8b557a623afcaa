package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"storefront/internal/order"
	"storefront/internal/product"
	"storefront/internal/session"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestLoginSendsCredentialsAndDecodesSession(t *testing.T) {
	userID := uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"), "login should be anonymous")

		body := map[string]string{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "s@example.com", body["email"])
		assert.Equal(t, "password", body["password"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]any{
				"id":       userID,
				"username": "shopper",
				"email":    "s@example.com",
				"role":     "user",
			},
			"token": "issued-token",
		})
	}))
	defer server.Close()
	client := NewClient(server.URL, time.Second, nil)

	user, token, err := client.Login(context.Background(), "s@example.com", "password")

	assert.NoError(t, err)
	assert.Equal(t, "issued-token", token)
	assert.Equal(t, session.User{
		ID:       userID,
		Username: "shopper",
		Email:    "s@example.com",
		Role:     session.RoleUser,
	}, user)
}

func TestLoginValidatesBeforeNetwork(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()
	client := NewClient(server.URL, time.Second, nil)

	_, _, err := client.Login(context.Background(), "not-an-email", "password")

	assert.Error(t, err)
	assert.Zero(t, calls, "an invalid request should never hit the backend")
}

func TestAuthenticatedCallsCarryBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer my-token", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode([]order.Order{})
	}))
	defer server.Close()
	client := NewClient(server.URL, time.Second, staticToken("my-token"))

	_, err := client.Orders(context.Background())

	assert.NoError(t, err)
}

func TestCreateOrderSendsIdsAndQuantitiesOnly(t *testing.T) {
	productID := uuid.New()
	orderID := uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)

		body := map[string][]map[string]any{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Len(t, body["items"], 1)
		assert.Equal(t, productID.String(), body["items"][0]["product_id"])
		assert.Equal(t, float64(3), body["items"][0]["quantity"])
		assert.NotContains(t, body["items"][0], "price",
			"price is the backend's to decide at order time")

		_ = json.NewEncoder(w).Encode(order.Order{
			ID:     orderID,
			Status: order.StatusPending,
			Total:  decimal.NewFromInt(30),
		})
	}))
	defer server.Close()
	client := NewClient(server.URL, time.Second, staticToken("my-token"))

	created, err := client.CreateOrder(context.Background(), []OrderItem{
		{ProductID: productID, Quantity: 3},
	})

	assert.NoError(t, err)
	assert.Equal(t, orderID, created.ID)
	assert.True(t, created.Total.Equal(decimal.NewFromInt(30)))
}

func TestCreateOrderRejectsInvalidItems(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()
	client := NewClient(server.URL, time.Second, staticToken("my-token"))

	_, err := client.CreateOrder(context.Background(), []OrderItem{})
	assert.Error(t, err)

	_, err = client.CreateOrder(context.Background(), []OrderItem{{ProductID: uuid.New(), Quantity: 0}})
	assert.Error(t, err)

	assert.Zero(t, calls)
}

func TestNonSuccessStatusBecomesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "product is out of stock"})
	}))
	defer server.Close()
	client := NewClient(server.URL, time.Second, staticToken("my-token"))

	_, err := client.CreateOrder(context.Background(), []OrderItem{{ProductID: uuid.New(), Quantity: 1}})

	apiErr := &APIError{}
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "product is out of stock", apiErr.Message)
}

func TestProductsDecodesCatalog(t *testing.T) {
	id := uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]product.Product{
			{ID: id, Name: "grinder", Price: decimal.NewFromInt(120), Stock: 7},
		})
	}))
	defer server.Close()
	client := NewClient(server.URL, time.Second, nil)

	products, err := client.Products(context.Background())

	assert.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, id, products[0].ID)
	assert.Equal(t, "grinder", products[0].Name)
	assert.True(t, products[0].Price.Equal(decimal.NewFromInt(120)))
	assert.Equal(t, int32(7), products[0].Stock)
}

func TestUpdateOrderStatusPatchesStatus(t *testing.T) {
	orderID := uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/orders/"+orderID.String(), r.URL.Path)

		body := map[string]string{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "processing", body["status"])

		_ = json.NewEncoder(w).Encode(order.Order{ID: orderID, Status: order.StatusProcessing})
	}))
	defer server.Close()
	client := NewClient(server.URL, time.Second, staticToken("admin-token"))

	updated, err := client.UpdateOrderStatus(context.Background(), orderID, order.StatusProcessing)

	assert.NoError(t, err)
	assert.Equal(t, order.StatusProcessing, updated.Status)
}

func TestCreateProductValidatesPrice(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()
	client := NewClient(server.URL, time.Second, staticToken("admin-token"))

	_, err := client.CreateProduct(context.Background(), CreateProductRequest{
		Name:  "free grinder",
		Price: decimal.NewFromInt(-1),
		Stock: 1,
	})

	assert.Error(t, err)
	assert.Zero(t, calls)
}
