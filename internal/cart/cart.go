package cart

import (
	"math"

	"github.com/google/uuid"

	"github.com/palermo-rentals/storefront/internal/catalog"
)

// Flat multi-product discount: 10% off whenever the cart spans more than one
// distinct product.
const discountRate = 0.1

// ProductSource resolves product ids against the loaded catalog.
type ProductSource interface {
	GetByID(id string) (catalog.Product, bool)
}

// LineItem is one product entry in the in-progress booking, independent of
// its reservation time. Accessories are snapshotted at add time.
type LineItem struct {
	ID          string              `json:"id" bson:"id"`
	ProductID   string              `json:"product_id" bson:"product_id"`
	Accessories []catalog.Accessory `json:"accessories" bson:"accessories"`
	Persons     int                 `json:"persons" bson:"persons"`
}

// ReservationDetails is the date and slot selection attached to a line item.
// Slot uniqueness and ordering are the picker's concern, not enforced here.
type ReservationDetails struct {
	Date  string   `json:"date" bson:"date"`
	Slots []string `json:"slots" bson:"slots"`
}

// Cart holds line items and their reservation details and derives pricing
// from them on every read. Not safe for concurrent use; callers serialize
// access per session.
type Cart struct {
	products ProductSource
	items    []LineItem
	details  map[string]ReservationDetails
	newID    func() string
}

func New(products ProductSource) *Cart {
	return &Cart{
		products: products,
		details:  make(map[string]ReservationDetails),
		newID:    uuid.NewString,
	}
}

// AddItem creates a line item for the product with persons=1 and the
// product's required accessories snapshotted. Returns ("", false) when the
// product is already in the cart or does not resolve in the catalog.
func (c *Cart) AddItem(productID string) (string, bool) {
	for _, item := range c.items {
		if item.ProductID == productID {
			return "", false
		}
	}

	product, ok := c.products.GetByID(productID)
	if !ok {
		return "", false
	}

	accessories := make([]catalog.Accessory, len(product.RequiredAccessories))
	copy(accessories, product.RequiredAccessories)

	id := c.newID()
	c.items = append(c.items, LineItem{
		ID:          id,
		ProductID:   productID,
		Accessories: accessories,
		Persons:     1,
	})
	return id, true
}

// RemoveItem deletes the line item and its reservation details together.
// No-op when the id is not present.
func (c *Cart) RemoveItem(itemID string) {
	for i, item := range c.items {
		if item.ID == itemID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			delete(c.details, itemID)
			return
		}
	}
}

// UpdatePersonCount clamps count into [1, product.MaxPersons]. MaxPersons
// falls back to 1 when the product no longer resolves. No-op for unknown
// line items.
func (c *Cart) UpdatePersonCount(itemID string, count int) {
	for i := range c.items {
		if c.items[i].ID != itemID {
			continue
		}
		maxPersons := 1
		if product, ok := c.products.GetByID(c.items[i].ProductID); ok {
			maxPersons = product.MaxPersons
		}
		if count < 1 {
			count = 1
		}
		if count > maxPersons {
			count = maxPersons
		}
		c.items[i].Persons = count
		return
	}
}

// SetReservationDetails overwrites (or creates) the details entry for the
// line item. Liveness of itemID is deliberately not checked: details stored
// for a removed item stay orphaned until Clear.
func (c *Cart) SetReservationDetails(itemID string, details ReservationDetails) {
	c.details[itemID] = details
}

// ReservationFor returns the details attached to a line item, if any.
func (c *Cart) ReservationFor(itemID string) (ReservationDetails, bool) {
	details, ok := c.details[itemID]
	return details, ok
}

// Items returns a copy of the current line items.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Clear resets line items and reservation details together, orphans included.
func (c *Cart) Clear() {
	c.items = nil
	c.details = make(map[string]ReservationDetails)
}

func (c *Cart) ItemCount() int {
	return len(c.items)
}

// Subtotal sums product price times chosen slot count over all line items.
// Items without details, or whose product no longer resolves, contribute
// nothing.
func (c *Cart) Subtotal() float64 {
	var total float64
	for _, item := range c.items {
		product, ok := c.products.GetByID(item.ProductID)
		if !ok {
			continue
		}
		details, ok := c.details[item.ID]
		if !ok {
			continue
		}
		total += product.Price * float64(len(details.Slots))
	}
	return total
}

// HasDiscount holds iff the cart spans more than one distinct product.
func (c *Cart) HasDiscount() bool {
	unique := make(map[string]struct{}, len(c.items))
	for _, item := range c.items {
		unique[item.ProductID] = struct{}{}
	}
	return len(unique) > 1
}

func (c *Cart) Discount() float64 {
	if !c.HasDiscount() {
		return 0
	}
	return c.Subtotal() * discountRate
}

// Total is subtotal minus discount, clamped to zero: never negative, never
// NaN in observable state.
func (c *Cart) Total() float64 {
	total := c.Subtotal() - c.Discount()
	if math.IsNaN(total) || total < 0 {
		return 0
	}
	return total
}
