// Package notify keeps the feed of user-visible notifications.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/folio-dashboard/internal/common"
)

// Level classifies a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// DefaultCapacity is the number of notifications retained.
const DefaultCapacity = 50

// Notification is one user-visible message.
type Notification struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	Ticker    string    `json:"ticker,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Center is a bounded, non-blocking notification feed. Oldest entries are
// dropped once capacity is reached. Safe for concurrent use.
type Center struct {
	mu       sync.RWMutex
	items    []Notification
	capacity int
	logger   *common.Logger
	now      func() time.Time
}

// NewCenter creates a Center holding up to capacity notifications.
func NewCenter(capacity int, logger *common.Logger) *Center {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Center{
		capacity: capacity,
		logger:   logger,
		now:      time.Now,
	}
}

// Success records a success notification.
func (c *Center) Success(msg string) Notification {
	return c.push(LevelSuccess, msg, "")
}

// Error records an error notification.
func (c *Center) Error(msg string) Notification {
	return c.push(LevelError, msg, "")
}

// TickerError records an error notification about one ticker.
func (c *Center) TickerError(ticker, msg string) Notification {
	return c.push(LevelError, msg, ticker)
}

// Info records an informational notification.
func (c *Center) Info(msg string) Notification {
	return c.push(LevelInfo, msg, "")
}

func (c *Center) push(level Level, msg, ticker string) Notification {
	n := Notification{
		ID:        uuid.New().String(),
		Level:     level,
		Message:   msg,
		Ticker:    ticker,
		CreatedAt: c.now(),
	}

	c.mu.Lock()
	c.items = append(c.items, n)
	if over := len(c.items) - c.capacity; over > 0 {
		c.items = append([]Notification(nil), c.items[over:]...)
	}
	c.mu.Unlock()

	evt := c.logger.Info()
	if level == LevelError {
		evt = c.logger.Warn()
	}
	evt.Str("level", string(level)).Str("ticker", ticker).Msg(msg)

	return n
}

// List returns every retained notification, oldest first.
func (c *Center) List() []Notification {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Notification(nil), c.items...)
}

// Since returns notifications recorded after the one with id. An unknown or
// empty id returns everything retained.
func (c *Center) Since(id string) []Notification {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if id != "" {
		for i, n := range c.items {
			if n.ID == id {
				return append([]Notification(nil), c.items[i+1:]...)
			}
		}
	}
	return append([]Notification(nil), c.items...)
}

// Latest returns the most recent notification, if any.
func (c *Center) Latest() (Notification, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.items) == 0 {
		return Notification{}, false
	}
	return c.items[len(c.items)-1], true
}
