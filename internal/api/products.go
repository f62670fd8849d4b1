package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// ProductRecord is the product shape as the booking API returns it.
type ProductRecord struct {
	ID           string              `json:"_id"`
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	Price        float64             `json:"price"`
	MaxPeople    int                 `json:"maxPeople"`
	Requirements ProductRequirements `json:"requirements"`
}

type ProductRequirements struct {
	RequiresHelmet     bool `json:"requiresHelmet"`
	RequiresLifeJacket bool `json:"requiresLifeJacket"`
}

// TimeSlot is a bookable half-hour window.
type TimeSlot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Products fetches the full product list. The backend answers either
// {"products": [...]} or a bare array; both forms are accepted.
func (c *Client) Products(ctx context.Context) ([]ProductRecord, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/products", nil, nil, &raw); err != nil {
		return nil, err
	}

	var wrapped struct {
		Products []ProductRecord `json:"products"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Products != nil {
		return wrapped.Products, nil
	}

	var records []ProductRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return records, nil
}

// AvailableSlots fetches the bookable slots for a product on a date.
func (c *Client) AvailableSlots(ctx context.Context, productID, date string) ([]TimeSlot, error) {
	query := url.Values{}
	query.Set("productId", productID)
	query.Set("date", date)

	var out struct {
		Slots []TimeSlot `json:"slots"`
	}
	if err := c.do(ctx, http.MethodGet, "/rentals/available-slots", query, nil, &out); err != nil {
		return nil, err
	}
	return out.Slots, nil
}
