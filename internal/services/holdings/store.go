// Package holdings keeps the in-memory portfolio: an ordered ticker -> amount map.
package holdings

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/bobmcallan/folio-dashboard/internal/models"
)

var (
	// ErrInvalidHolding is returned for an empty ticker or a non-positive amount.
	ErrInvalidHolding = errors.New("invalid holding")
	// ErrHoldingNotFound is returned when removing a ticker that is not held.
	ErrHoldingNotFound = errors.New("holding not found")
)

// NormalizeTicker trims and upper-cases a ticker symbol.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// Validate normalises ticker and checks both fields.
func Validate(ticker string, amount float64) (string, error) {
	t := NormalizeTicker(ticker)
	if t == "" {
		return "", fmt.Errorf("%w: ticker is required", ErrInvalidHolding)
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return "", fmt.Errorf("%w: amount for %s must be a positive number", ErrInvalidHolding, t)
	}
	return t, nil
}

// Store is the session's portfolio. Keys are unique; insertion order is kept
// for display, and overwriting a ticker keeps its original position.
// Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	order   []string
	amounts map[string]float64
}

// NewStore creates an empty portfolio.
func NewStore() *Store {
	return &Store{amounts: make(map[string]float64)}
}

// Add inserts or overwrites a holding and returns the normalised ticker.
func (s *Store) Add(ticker string, amount float64) (string, error) {
	t, err := Validate(ticker, amount)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.amounts[t]; !exists {
		s.order = append(s.order, t)
	}
	s.amounts[t] = amount
	return t, nil
}

// Remove deletes a holding and returns the normalised ticker.
func (s *Store) Remove(ticker string) (string, error) {
	t := NormalizeTicker(ticker)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.amounts[t]; !exists {
		return t, fmt.Errorf("%w: %s", ErrHoldingNotFound, t)
	}
	delete(s.amounts, t)
	for i, o := range s.order {
		if o == t {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return t, nil
}

// List returns a copy of the holdings in insertion order.
func (s *Store) List() []models.Holding {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Holding, 0, len(s.order))
	for _, t := range s.order {
		out = append(out, models.Holding{Ticker: t, Amount: s.amounts[t]})
	}
	return out
}

// Get returns the amount held for ticker.
func (s *Store) Get(ticker string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.amounts[NormalizeTicker(ticker)]
	return v, ok
}

// Len returns the number of holdings.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
