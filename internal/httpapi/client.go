// Package httpapi is the typed client for the storefront backend: auth and
// token issuance, the product catalog, order creation and administration,
// and user management. Transport detail stays here; the rest of the engine
// works with domain types.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"storefront/internal/log"
	"storefront/internal/order"
	"storefront/internal/otel"
	"storefront/internal/product"
	"storefront/internal/session"
)

// TokenSource supplies the bearer credential for authenticated calls. An
// empty token sends the request anonymously.
type TokenSource interface {
	Token() string
}

type anonymous struct{}

func (anonymous) Token() string { return "" }

type Client struct {
	baseURL  string
	http     *http.Client
	tokens   TokenSource
	validate *validator.Validate
}

func NewClient(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	if tokens == nil {
		tokens = anonymous{}
	}
	return &Client{
		baseURL:  baseURL,
		http:     &http.Client{Timeout: timeout, Transport: otelhttp.NewTransport(http.DefaultTransport)},
		tokens:   tokens,
		validate: newValidator(),
	}
}

// APIError is a non-2xx backend response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned status code=%d with message=%s", e.StatusCode, e.Message)
}

func (cl *Client) do(c context.Context, method, path string, body, out any) error {
	c, span := otel.Tracer.Start(c, "Client "+method+" "+path)
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Client do").
		Str("method", method).
		Str("path", path).
		Logger()

	var reqBody *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			err = fmt.Errorf("failed marshaling request body with error=%w", err)
			otel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return err
		}
		reqBody = bytes.NewBuffer(raw)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(c, method, cl.baseURL+path, reqBody)
	if err != nil {
		err = fmt.Errorf("failed creating request with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := cl.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	logger.Debug().Msg("sending request")
	resp, err := cl.http.Do(req)
	if err != nil {
		err = fmt.Errorf("failed sending request with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		errBody := map[string]any{}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		message, _ := errBody["message"].(string)
		err = &APIError{StatusCode: resp.StatusCode, Message: message}
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		err = fmt.Errorf("failed decoding response body with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	return nil
}

type authResponse struct {
	User  session.User `json:"user"`
	Token string       `json:"token"`
}

func (cl *Client) Login(c context.Context, email, password string) (session.User, string, error) {
	req := LoginRequest{Email: email, Password: password}
	if err := cl.validate.Struct(req); err != nil {
		return session.User{}, "", fmt.Errorf("invalid login request with error=%w", err)
	}
	res := authResponse{}
	if err := cl.do(c, http.MethodPost, "/auth/login", req, &res); err != nil {
		return session.User{}, "", err
	}
	return res.User, res.Token, nil
}

func (cl *Client) Register(c context.Context, username, email, password string) (session.User, string, error) {
	req := RegisterRequest{Username: username, Email: email, Password: password}
	if err := cl.validate.Struct(req); err != nil {
		return session.User{}, "", fmt.Errorf("invalid register request with error=%w", err)
	}
	res := authResponse{}
	if err := cl.do(c, http.MethodPost, "/auth/register", req, &res); err != nil {
		return session.User{}, "", err
	}
	return res.User, res.Token, nil
}

func (cl *Client) Products(c context.Context) ([]product.Product, error) {
	products := []product.Product{}
	if err := cl.do(c, http.MethodGet, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (cl *Client) Product(c context.Context, id uuid.UUID) (product.Product, error) {
	p := product.Product{}
	if err := cl.do(c, http.MethodGet, "/products/"+id.String(), nil, &p); err != nil {
		return product.Product{}, err
	}
	return p, nil
}

func (cl *Client) CreateProduct(c context.Context, req CreateProductRequest) (product.Product, error) {
	if err := cl.validate.Struct(req); err != nil {
		return product.Product{}, fmt.Errorf("invalid create product request with error=%w", err)
	}
	p := product.Product{}
	if err := cl.do(c, http.MethodPost, "/products", req, &p); err != nil {
		return product.Product{}, err
	}
	return p, nil
}

func (cl *Client) UpdateProduct(c context.Context, id uuid.UUID, req UpdateProductRequest) (product.Product, error) {
	if err := cl.validate.Struct(req); err != nil {
		return product.Product{}, fmt.Errorf("invalid update product request with error=%w", err)
	}
	p := product.Product{}
	if err := cl.do(c, http.MethodPut, "/products/"+id.String(), req, &p); err != nil {
		return product.Product{}, err
	}
	return p, nil
}

func (cl *Client) DeleteProduct(c context.Context, id uuid.UUID) error {
	return cl.do(c, http.MethodDelete, "/products/"+id.String(), nil, nil)
}

func (cl *Client) CreateOrder(c context.Context, items []OrderItem) (order.Order, error) {
	req := CreateOrderRequest{Items: items}
	if err := cl.validate.Struct(req); err != nil {
		return order.Order{}, fmt.Errorf("invalid create order request with error=%w", err)
	}
	o := order.Order{}
	if err := cl.do(c, http.MethodPost, "/orders", req, &o); err != nil {
		return order.Order{}, err
	}
	return o, nil
}

func (cl *Client) Orders(c context.Context) ([]order.Order, error) {
	orders := []order.Order{}
	if err := cl.do(c, http.MethodGet, "/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (cl *Client) Order(c context.Context, id uuid.UUID) (order.Order, error) {
	o := order.Order{}
	if err := cl.do(c, http.MethodGet, "/orders/"+id.String(), nil, &o); err != nil {
		return order.Order{}, err
	}
	return o, nil
}

func (cl *Client) UpdateOrderStatus(c context.Context, id uuid.UUID, status order.Status) (order.Order, error) {
	req := UpdateOrderStatusRequest{Status: string(status)}
	if err := cl.validate.Struct(req); err != nil {
		return order.Order{}, fmt.Errorf("invalid update order status request with error=%w", err)
	}
	o := order.Order{}
	if err := cl.do(c, http.MethodPatch, "/orders/"+id.String(), req, &o); err != nil {
		return order.Order{}, err
	}
	return o, nil
}

func (cl *Client) CancelOrder(c context.Context, id uuid.UUID) (order.Order, error) {
	o := order.Order{}
	if err := cl.do(c, http.MethodPut, "/orders/"+id.String()+"/cancel", nil, &o); err != nil {
		return order.Order{}, err
	}
	return o, nil
}

func (cl *Client) Me(c context.Context) (session.User, error) {
	u := session.User{}
	if err := cl.do(c, http.MethodGet, "/users/me", nil, &u); err != nil {
		return session.User{}, err
	}
	return u, nil
}

func (cl *Client) UpdateMe(c context.Context, req UpdateUserRequest) (session.User, error) {
	if err := cl.validate.Struct(req); err != nil {
		return session.User{}, fmt.Errorf("invalid update user request with error=%w", err)
	}
	u := session.User{}
	if err := cl.do(c, http.MethodPatch, "/users/me", req, &u); err != nil {
		return session.User{}, err
	}
	return u, nil
}

func (cl *Client) Users(c context.Context) ([]session.User, error) {
	users := []session.User{}
	if err := cl.do(c, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (cl *Client) UpdateUser(c context.Context, id uuid.UUID, req UpdateUserRequest) (session.User, error) {
	if err := cl.validate.Struct(req); err != nil {
		return session.User{}, fmt.Errorf("invalid update user request with error=%w", err)
	}
	u := session.User{}
	if err := cl.do(c, http.MethodPatch, "/users/"+id.String(), req, &u); err != nil {
		return session.User{}, err
	}
	return u, nil
}

func (cl *Client) DeleteUser(c context.Context, id uuid.UUID) error {
	return cl.do(c, http.MethodDelete, "/users/"+id.String(), nil, nil)
}
