package httpapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type LoginRequest struct {
	Email    string `validate:"required,email" json:"email"`
	Password string `validate:"required"       json:"password"`
}

// MarshalZerologObject redacts the password from log output; the wire body
// is marshaled with the plain struct tags.
func (l LoginRequest) MarshalZerologObject(e *zerolog.Event) {
	e.Str("email", l.Email).Str("password", "***")
}

type RegisterRequest struct {
	Username string `validate:"required"       json:"username"`
	Email    string `validate:"required,email" json:"email"`
	Password string `validate:"required"       json:"password"`
}

func (r RegisterRequest) MarshalZerologObject(e *zerolog.Event) {
	e.Str("email", r.Email).Str("username", r.Username)
}

type CreateOrderRequest struct {
	Items []OrderItem `validate:"required,gt=0,dive" json:"items"`
}

// OrderItem deliberately carries no price: the backend is the source of
// truth for pricing at order time.
type OrderItem struct {
	ProductID uuid.UUID `validate:"required"       json:"product_id"`
	Quantity  int32     `validate:"required,gte=1" json:"quantity"`
}

type UpdateOrderStatusRequest struct {
	Status string `validate:"required" json:"status"`
}

type CreateProductRequest struct {
	Name     string          `validate:"required"       json:"name"`
	Price    decimal.Decimal `validate:"positive_price" json:"price"`
	ImageURL string          `                          json:"image_url"`
	Stock    int32           `validate:"gte=0"          json:"stock"`
}

type UpdateProductRequest struct {
	Name     string          `                                    json:"name,omitempty"`
	Price    decimal.Decimal `validate:"omitempty,positive_price" json:"price"`
	ImageURL string          `                                    json:"image_url,omitempty"`
	Stock    int32           `validate:"gte=0"                    json:"stock"`
}

type UpdateUserRequest struct {
	Username string `                          json:"username,omitempty"`
	Email    string `validate:"omitempty,email" json:"email,omitempty"`
}

func validatePrice(fl validator.FieldLevel) bool {
	d, ok := fl.Field().Interface().(decimal.Decimal)
	if !ok {
		return false
	}
	return d.IsPositive()
}

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("positive_price", validatePrice); err != nil {
		panic(err)
	}
	return v
}
