package session

import (
	"sync"
	"time"

	"github.com/palermo-rentals/storefront/internal/cart"
	"github.com/palermo-rentals/storefront/internal/checkout"
	"github.com/palermo-rentals/storefront/internal/confirmation"
)

// Session is the per-user state context: cart, checkout info and the last
// confirmed booking, all scoped to one session id. The shared catalog is
// referenced through the cart's product source, never owned here.
//
// State mutations are single-threaded per session; handlers take the session
// lock around each operation.
type Session struct {
	ID           string
	Cart         *cart.Cart
	Checkout     *checkout.State
	Confirmation *confirmation.Store
	CreatedAt    time.Time
	UpdatedAt    time.Time

	mu sync.Mutex
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

func newSession(id string, products cart.ProductSource) *Session {
	now := time.Now()
	return &Session{
		ID:           id,
		Cart:         cart.New(products),
		Checkout:     checkout.NewState(),
		Confirmation: confirmation.NewStore(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Snapshot is the persisted form of a session. The confirmation summary is
// display-only state and is not persisted.
type Snapshot struct {
	ID        string        `json:"id" bson:"_id"`
	Cart      cart.Snapshot `json:"cart" bson:"cart"`
	Checkout  checkout.Info `json:"checkout" bson:"checkout"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" bson:"updated_at"`
}

func (s *Session) snapshot() *Snapshot {
	return &Snapshot{
		ID:        s.ID,
		Cart:      s.Cart.Snapshot(),
		Checkout:  s.Checkout.Info(),
		CreatedAt: s.CreatedAt,
		UpdatedAt: time.Now(),
	}
}

func fromSnapshot(snap *Snapshot, products cart.ProductSource) *Session {
	s := newSession(snap.ID, products)
	s.Cart.Restore(snap.Cart)
	s.Checkout.Restore(snap.Checkout)
	s.CreatedAt = snap.CreatedAt
	s.UpdatedAt = snap.UpdatedAt
	return s
}
