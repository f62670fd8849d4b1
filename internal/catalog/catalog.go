package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/palermo-rentals/storefront/internal/api"
)

// Product is the normalized catalog entry. Immutable once loaded; cart line
// items reference it by id only.
type Product struct {
	ID                  string       `json:"id"`
	Name                string       `json:"name"`
	Description         string       `json:"description"`
	Image               string       `json:"image"`
	Price               float64      `json:"price"` // per half-hour slot
	MaxPersons          int          `json:"max_persons"`
	Requirements        Requirements `json:"requirements"`
	RequiredAccessories []Accessory  `json:"required_accessories"`
	TimeSlots           []string     `json:"time_slots"`
}

type Requirements struct {
	RequiresHelmet     bool `json:"requires_helmet"`
	RequiresLifeJacket bool `json:"requires_life_jacket"`
}

type Accessory struct {
	ID       string `json:"id" bson:"id"`
	Name     string `json:"name" bson:"name"`
	Required bool   `json:"required" bson:"required"`
}

// ProductFetcher is the slice of the booking API the store needs.
type ProductFetcher interface {
	Products(ctx context.Context) ([]api.ProductRecord, error)
}

// Store holds the loaded catalog. Load replaces the whole catalog; readers
// may run concurrently with a reload.
type Store struct {
	fetcher ProductFetcher

	mu       sync.RWMutex
	products []Product
	byID     map[string]int
}

func NewStore(fetcher ProductFetcher) *Store {
	return &Store{
		fetcher: fetcher,
		byID:    make(map[string]int),
	}
}

// Load fetches and normalizes all products, replacing the in-memory catalog.
// A fetch failure leaves the previous catalog untouched.
func (s *Store) Load(ctx context.Context) error {
	records, err := s.fetcher.Products(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	products := make([]Product, 0, len(records))
	byID := make(map[string]int, len(records))
	for _, rec := range records {
		byID[rec.ID] = len(products)
		products = append(products, normalize(rec))
	}

	s.mu.Lock()
	s.products = products
	s.byID = byID
	s.mu.Unlock()
	return nil
}

// GetByID returns the product with that id, if loaded.
func (s *Store) GetByID(id string) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return Product{}, false
	}
	return s.products[i], true
}

// Products returns a copy of the current catalog.
func (s *Store) Products() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

func normalize(rec api.ProductRecord) Product {
	return Product{
		ID:          rec.ID,
		Name:        rec.Name,
		Description: rec.Description,
		Image:       imageByName(rec.Name),
		Price:       rec.Price,
		MaxPersons:  rec.MaxPeople,
		Requirements: Requirements{
			RequiresHelmet:     rec.Requirements.RequiresHelmet,
			RequiresLifeJacket: rec.Requirements.RequiresLifeJacket,
		},
		RequiredAccessories: requiredAccessories(rec.Requirements),
		TimeSlots:           slotLabels(),
	}
}

func requiredAccessories(req api.ProductRequirements) []Accessory {
	var accessories []Accessory
	if req.RequiresHelmet {
		accessories = append(accessories, Accessory{ID: "helmet", Name: "Helmet", Required: true})
	}
	if req.RequiresLifeJacket {
		accessories = append(accessories, Accessory{ID: "lifeJacket", Name: "Life jacket", Required: true})
	}
	return accessories
}

// Display images keyed by product name exactly as the backend reports it.
var productImages = map[string]string{
	"Jetski":                  "https://images.pexels.com/photos/8609596/pexels-photo-8609596.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=1",
	"Cuatriciclo":             "https://images.pexels.com/photos/18158099/pexels-photo-18158099/free-photo-of-hombre-conduciendo-un-quad-por-un-campo.jpeg",
	"Equipo de Buceo":         "https://images.pexels.com/photos/37530/divers-scuba-divers-diving-underwater-37530.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=1",
	"Tabla de Surf (Adultos)": "https://images.pexels.com/photos/13581283/pexels-photo-13581283.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=1",
	"Tabla de Surf (Niños)":   "https://images.pexels.com/photos/6299949/pexels-photo-6299949.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=1",
}

func imageByName(name string) string {
	return productImages[name]
}

// slotLabels generates the fixed bookable labels, half-hour steps from
// 08:00 through 19:30.
func slotLabels() []string {
	slots := make([]string, 0, 24)
	for h := 8; h < 20; h++ {
		slots = append(slots, fmt.Sprintf("%02d:00", h), fmt.Sprintf("%02d:30", h))
	}
	return slots
}
