package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrDuplicateIdentity reports that a customer with the same national id
// already exists. Callers dispatch on this kind, never on message text.
var ErrDuplicateIdentity = errors.New("customer with this national id already exists")

type Customer struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	DNI   string `json:"dni"`
}

type CustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	DNI   string `json:"dni"`
}

// CreateCustomer registers a new customer. A conflict on the national id is
// translated into ErrDuplicateIdentity.
func (c *Client) CreateCustomer(ctx context.Context, req CustomerRequest) (*Customer, error) {
	var out struct {
		Customer Customer `json:"customer"`
	}
	err := c.do(ctx, http.MethodPost, "/customers", nil, req, &out)
	if err != nil {
		var remote *RemoteError
		if errors.As(err, &remote) && remote.StatusCode == http.StatusConflict {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateIdentity, remote.Message)
		}
		return nil, err
	}
	return &out.Customer, nil
}

// CustomerByDNI looks up an existing customer by national id.
func (c *Client) CustomerByDNI(ctx context.Context, dni string) (*Customer, error) {
	var out struct {
		Customers []Customer `json:"customers"`
	}
	if err := c.do(ctx, http.MethodGet, "/customers/dni/"+dni, nil, nil, &out); err != nil {
		return nil, err
	}
	if len(out.Customers) == 0 {
		return nil, &RemoteError{StatusCode: http.StatusNotFound, Message: "customer not found"}
	}
	return &out.Customers[0], nil
}

// CreateOrGetCustomer creates the customer, falling back to the DNI lookup
// when the identity already exists.
func (c *Client) CreateOrGetCustomer(ctx context.Context, req CustomerRequest) (*Customer, error) {
	customer, err := c.CreateCustomer(ctx, req)
	if err == nil {
		return customer, nil
	}
	if !errors.Is(err, ErrDuplicateIdentity) {
		return nil, err
	}
	return c.CustomerByDNI(ctx, req.DNI)
}
