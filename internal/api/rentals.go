package api

import (
	"context"
	"encoding/json"
	"net/http"
)

// RentalRequest is one reservation in the batch sent at checkout:
// one entry per cart line item.
type RentalRequest struct {
	CustomerID    string   `json:"customerId"`
	ProductID     string   `json:"productId"`
	Date          string   `json:"date"`
	Slots         []string `json:"slots"`
	People        int      `json:"people"`
	Accessories   []string `json:"accessories,omitempty"`
	PaymentMethod string   `json:"paymentMethod"`
	Currency      string   `json:"currency"`
}

// CreateRentals submits the whole batch in one call. The response is kept
// opaque: it is stored and rendered as-is on the confirmation screen.
func (c *Client) CreateRentals(ctx context.Context, rentals []RentalRequest) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/rentals", nil, rentals, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CancelRental cancels a single reservation.
func (c *Client) CancelRental(ctx context.Context, rentalID string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPatch, "/rentals/cancel/"+rentalID, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CancelByStorm is the weather-related cancellation variant; the backend
// applies a different refund policy for it.
func (c *Client) CancelByStorm(ctx context.Context, rentalID string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPatch, "/rentals/cancel-storm/"+rentalID, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
