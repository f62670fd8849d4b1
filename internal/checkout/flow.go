package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/palermo-rentals/storefront/internal/api"
	"github.com/palermo-rentals/storefront/internal/cart"
	"github.com/palermo-rentals/storefront/internal/confirmation"
)

var (
	ErrEmptyCart          = errors.New("cart is empty, nothing to check out")
	ErrMissingReservation = errors.New("line item has no reservation details")
)

// BookingClient is the slice of the booking API the submit flow needs.
type BookingClient interface {
	CreateOrGetCustomer(ctx context.Context, req api.CustomerRequest) (*api.Customer, error)
	CreateRentals(ctx context.Context, rentals []api.RentalRequest) (json.RawMessage, error)
}

// ConfirmedEvent is emitted after a successful booking.
type ConfirmedEvent struct {
	CustomerID  string    `json:"customer_id"`
	Rentals     int       `json:"rentals"`
	Total       float64   `json:"total"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}

// EventPublisher emits booking events. Publish failures never fail the
// booking itself.
type EventPublisher interface {
	BookingConfirmed(ctx context.Context, event ConfirmedEvent) error
}

// Flow runs the checkout submission: one rental per line item, batched into
// a single create call. On success the confirmation store is populated and
// cart plus checkout info are reset.
type Flow struct {
	client    BookingClient
	publisher EventPublisher
}

// NewFlow builds a submit flow. publisher may be nil when no broker is
// configured.
func NewFlow(client BookingClient, publisher EventPublisher) *Flow {
	return &Flow{client: client, publisher: publisher}
}

func (f *Flow) Submit(ctx context.Context, c *cart.Cart, state *State, confirmed *confirmation.Store) (json.RawMessage, error) {
	items := c.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	info := state.Info()
	rentals := make([]api.RentalRequest, 0, len(items))
	for _, item := range items {
		details, ok := c.ReservationFor(item.ID)
		if !ok || len(details.Slots) == 0 {
			return nil, fmt.Errorf("%w: product %s", ErrMissingReservation, item.ProductID)
		}

		accessories := make([]string, 0, len(item.Accessories))
		for _, acc := range item.Accessories {
			accessories = append(accessories, acc.ID)
		}

		rentals = append(rentals, api.RentalRequest{
			ProductID:     item.ProductID,
			Date:          details.Date,
			Slots:         details.Slots,
			People:        item.Persons,
			Accessories:   accessories,
			PaymentMethod: string(info.PaymentMethod),
			Currency:      string(info.Currency),
		})
	}

	customer, err := f.client.CreateOrGetCustomer(ctx, api.CustomerRequest{
		Name:  info.Name,
		Email: info.Email,
		DNI:   info.DNI,
	})
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	for i := range rentals {
		rentals[i].CustomerID = customer.ID
	}

	summary, err := f.client.CreateRentals(ctx, rentals)
	if err != nil {
		return nil, fmt.Errorf("create rentals: %w", err)
	}

	confirmed.Set(summary)

	if f.publisher != nil {
		event := ConfirmedEvent{
			CustomerID:  customer.ID,
			Rentals:     len(rentals),
			Total:       c.Total(),
			ConfirmedAt: time.Now(),
		}
		if errPub := f.publisher.BookingConfirmed(ctx, event); errPub != nil {
			log.Printf("publish booking confirmed: %v", errPub)
		}
	}

	c.Clear()
	state.Reset()
	return summary, nil
}
