package checkout

import (
	"errors"
	"fmt"
)

// PaymentMethod and Currency are closed enums. Unrecognized values are
// rejected at the boundary rather than stored.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

var ErrUnknownPaymentMethod = errors.New("unknown payment method")

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentCash, PaymentCard:
		return PaymentMethod(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPaymentMethod, s)
}

type Currency string

const (
	CurrencyLocal Currency = "local"
	CurrencyUSD   Currency = "usd"
	CurrencyEUR   Currency = "eur"
)

var ErrUnknownCurrency = errors.New("unknown currency")

func ParseCurrency(s string) (Currency, error) {
	switch Currency(s) {
	case CurrencyLocal, CurrencyUSD, CurrencyEUR:
		return Currency(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, s)
}

// Info holds the customer entry fields and payment selection for the current
// checkout attempt. Independent of cart pricing.
type Info struct {
	Name          string        `json:"name" bson:"name"`
	Email         string        `json:"email" bson:"email"`
	DNI           string        `json:"dni" bson:"dni"`
	Currency      Currency      `json:"currency" bson:"currency"`
	PaymentMethod PaymentMethod `json:"payment_method" bson:"payment_method"`
}

func DefaultInfo() Info {
	return Info{
		Currency:      CurrencyLocal,
		PaymentMethod: PaymentCash,
	}
}

// Update carries a partial customer-info change; nil fields are retained.
type Update struct {
	Name     *string
	Email    *string
	DNI      *string
	Currency *string
}

// State is the checkout-info store for one session.
type State struct {
	info Info
}

func NewState() *State {
	return &State{info: DefaultInfo()}
}

func (s *State) Info() Info {
	return s.info
}

// UpdateCustomer merges the given fields into the current info. An
// unrecognized currency rejects the whole update.
func (s *State) UpdateCustomer(u Update) error {
	next := s.info
	if u.Name != nil {
		next.Name = *u.Name
	}
	if u.Email != nil {
		next.Email = *u.Email
	}
	if u.DNI != nil {
		next.DNI = *u.DNI
	}
	if u.Currency != nil {
		currency, err := ParseCurrency(*u.Currency)
		if err != nil {
			return err
		}
		next.Currency = currency
	}
	s.info = next
	return nil
}

func (s *State) SetPaymentMethod(method string) error {
	parsed, err := ParsePaymentMethod(method)
	if err != nil {
		return err
	}
	s.info.PaymentMethod = parsed
	return nil
}

// Reset restores defaults: empty identity fields, local currency, cash.
func (s *State) Reset() {
	s.info = DefaultInfo()
}

// Restore rehydrates persisted info, normalizing enum fields that predate
// the closed-enum rule back to defaults.
func (s *State) Restore(info Info) {
	if _, err := ParseCurrency(string(info.Currency)); err != nil {
		info.Currency = CurrencyLocal
	}
	if _, err := ParsePaymentMethod(string(info.PaymentMethod)); err != nil {
		info.PaymentMethod = PaymentCash
	}
	s.info = info
}
