package model

import (
	"strings"

	"github.com/google/uuid"

	"github.com/gustavoponcell/Barbearia/value"
)

// Service is a catalog entry: price, estimated duration and whether it
// needs a station with a wash basin.
type Service struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Price       value.Money `json:"price"`
	DurationMin int         `json:"duration_min"`
	NeedsWash   bool        `json:"needs_wash"`
}

// NewService validates the catalog entry. Counting of catalogued services
// happens in the engine when the entry is added, not here.
func NewService(id uuid.UUID, name string, price value.Money, durationMin int, needsWash bool) (*Service, error) {
	if id == uuid.Nil {
		return nil, validationf("service id is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationf("service name is required")
	}
	if durationMin <= 0 {
		return nil, validationf("service duration must be positive")
	}
	return &Service{ID: id, Name: name, Price: price, DurationMin: durationMin, NeedsWash: needsWash}, nil
}
