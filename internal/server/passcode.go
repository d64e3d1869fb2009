package server

import (
	"sync"

	"github.com/mhoffman/alfred/internal/wire"
)

// Passcode holds the shared secret every authenticated request is
// checked against. It is read by every in-flight connection and can be
// swapped at runtime by the admin endpoint, so all access goes through
// the same lock.
type Passcode struct {
	mu    sync.RWMutex
	value string
}

// NewPasscode seeds the cell with the configured secret.
func NewPasscode(value string) *Passcode {
	return &Passcode{value: value}
}

// Get returns the current passcode.
func (p *Passcode) Get() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.value
}

// Set replaces the passcode. Takes effect for the next auth check; no
// restart involved.
func (p *Passcode) Set(value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.value = value
}

// Matches reports whether the request carries the current passcode in
// either the x-api-key header or the passcode query parameter. No
// other credential forms are accepted.
func (p *Passcode) Matches(req *wire.Request) bool {
	current := p.Get()
	if current == "" {
		return false
	}
	return req.Header("x-api-key") == current || req.Query["passcode"] == current
}
