// Package checkout converts a cart into a submitted order exactly once per
// user action. It validates preconditions locally, submits product ids and
// quantities only, and clears the cart solely after the backend confirms
// the order.
package checkout

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"storefront/internal/cart"
	"storefront/internal/errors"
	"storefront/internal/httpapi"
	"storefront/internal/log"
	"storefront/internal/order"
	"storefront/internal/otel"
	"storefront/internal/session"
)

// Status tracks a checkout attempt. A failed or succeeded attempt never
// returns to idle on its own; the next Checkout call starts fresh.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusValidating Status = "validating"
	StatusSubmitting Status = "submitting"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
)

// OrderCreator is the single backend operation checkout consumes.
type OrderCreator interface {
	CreateOrder(c context.Context, items []httpapi.OrderItem) (order.Order, error)
}

type Coordinator struct {
	client OrderCreator
	status Status
}

func NewCoordinator(client OrderCreator) *Coordinator {
	return &Coordinator{client: client, status: StatusIdle}
}

// Status reports the state of the most recent attempt.
func (co *Coordinator) Status() Status {
	return co.status
}

// Checkout submits the cart as an order. On success the cart is cleared and
// the backend's order (authoritative pricing and total) is returned. On any
// failure the cart is left untouched: precondition failures surface as
// ErrEmptyCart or ErrUnauthenticated without a backend call, backend
// failures as *errors.CheckoutError. A single attempt, no retries; retrying
// a user-initiated order submission belongs to the caller.
func (co *Coordinator) Checkout(
	c context.Context,
	crt *cart.Cart,
	sess session.Session,
) (order.Order, error) {
	c, span := otel.Tracer.Start(c, "Coordinator Checkout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Coordinator Checkout").
		Int(log.KeyCartLines, len(crt.Lines())).
		Str(log.KeyCartTotal, crt.Total().String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "validating cart").Logger()
	logger.Info().Msg("validating cart")
	co.status = StatusValidating
	if crt.IsEmpty() {
		co.status = StatusFailed
		err := errors.ErrEmptyCart
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return order.Order{}, err
	}
	if !sess.Authenticated() {
		co.status = StatusFailed
		err := errors.ErrUnauthenticated
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return order.Order{}, err
	}
	logger.Info().Msg("validated cart")

	items := make([]httpapi.OrderItem, 0, len(crt.Lines()))
	for _, line := range crt.Lines() {
		items = append(items, httpapi.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	}

	logger = logger.With().Str(log.KeyProcess, "submitting order").Logger()
	logger.Info().Msg("submitting order")
	co.status = StatusSubmitting
	created, err := co.client.CreateOrder(c, items)
	if err != nil {
		co.status = StatusFailed
		err = &errors.CheckoutError{Cause: err}
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(fmt.Sprintf("failed submitting order with error=%s", err))
		return order.Order{}, err
	}
	logger = logger.With().
		Str(log.KeyOrderID, created.ID.String()).
		Str(log.KeyOrderStatus, string(created.Status)).
		Logger()
	logger.Info().Msg("submitted order")

	logger = logger.With().Str(log.KeyProcess, "clearing cart").Logger()
	logger.Info().Msg("clearing cart")
	crt.Clear()
	co.status = StatusSucceeded
	logger.Info().Msg("cleared cart")

	return created, nil
}
