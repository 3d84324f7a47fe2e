// Package cart owns the mutable line collection: merge-by-key insertion,
// quantity mutation, removal and derived totals. It is fully synchronous
// and makes no network calls; durability goes through the injected store.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/aurafashions/storefront/internal/domain"
	"github.com/aurafashions/storefront/internal/store"
)

// storageKey is the persisted-store key holding the serialized line
// collection.
const storageKey = "cart.lines"

// ErrInvalidQuantity is returned when AddItem is called with a quantity
// below 1.
var ErrInvalidQuantity = errors.New("quantity must be a positive integer")

// Manager is the single owner of cart state. Every mutation leaves the
// persisted store consistent with memory before returning; on a write
// failure the in-memory change is rolled back.
type Manager struct {
	mu    sync.Mutex
	store store.Store
	state domain.CartState
}

// NewManager hydrates the cart from the persisted store. A missing key
// means an empty cart; a corrupt payload is surfaced as an error.
func NewManager(ctx context.Context, st store.Store) (*Manager, error) {
	m := &Manager{store: st}

	raw, err := st.Get(ctx, storageKey)
	if errors.Is(err, store.ErrKeyNotFound) {
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var lines []domain.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, fmt.Errorf("failed to parse persisted cart: %w", err)
	}
	m.state.Lines = lines

	return m, nil
}

// AddItem merges product into the cart: an existing line with the same
// identity key absorbs the quantity, otherwise a new line is appended
// preserving arrival order.
func (m *Manager) AddItem(ctx context.Context, product domain.ProductRef, quantity int) (domain.CartState, error) {
	if quantity < 1 {
		return m.State(), ErrInvalidQuantity
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.state.Clone()

	if i := m.state.Find(product.Key()); i >= 0 {
		m.state.Lines[i].Quantity += quantity
	} else {
		m.state.Lines = append(m.state.Lines, domain.CartLine{Product: product, Quantity: quantity})
	}

	return m.commit(ctx, prev)
}

// UpdateQuantity replaces the quantity of the line matching key. A quantity
// of zero or below removes the line. An absent key is a no-op.
func (m *Manager) UpdateQuantity(ctx context.Context, key domain.LineKey, quantity int) (domain.CartState, error) {
	if quantity <= 0 {
		return m.RemoveItem(ctx, key)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.state.Find(key)
	if i < 0 {
		return m.state.Clone(), nil
	}

	prev := m.state.Clone()
	m.state.Lines[i].Quantity = quantity

	return m.commit(ctx, prev)
}

// RemoveItem deletes the line matching key. An absent key is a no-op, not
// an error.
func (m *Manager) RemoveItem(ctx context.Context, key domain.LineKey) (domain.CartState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.state.Find(key)
	if i < 0 {
		return m.state.Clone(), nil
	}

	prev := m.state.Clone()
	m.state.Lines = append(m.state.Lines[:i:i], m.state.Lines[i+1:]...)

	return m.commit(ctx, prev)
}

// Clear empties the collection and erases the persisted cart key.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.state
	m.state = domain.CartState{}

	if err := m.store.Delete(ctx, storageKey); err != nil {
		m.state = prev
		return fmt.Errorf("failed to clear persisted cart: %w", err)
	}
	return nil
}

// State returns a snapshot of the current lines.
func (m *Manager) State() domain.CartState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone()
}

// Total is the sum of price*quantity over all lines.
func (m *Manager) Total() float64 {
	return m.State().Total()
}

// ItemCount is the sum of quantities over all lines.
func (m *Manager) ItemCount() int {
	return m.State().ItemCount()
}

// commit persists the mutated state, restoring prev on failure. Callers
// hold m.mu; prev must not alias m.state.Lines.
func (m *Manager) commit(ctx context.Context, prev domain.CartState) (domain.CartState, error) {
	raw, err := json.Marshal(m.state.Lines)
	if err != nil {
		m.state = prev
		return prev.Clone(), fmt.Errorf("failed to marshal cart: %w", err)
	}
	if err := m.store.Set(ctx, storageKey, raw); err != nil {
		m.state = prev
		return prev.Clone(), fmt.Errorf("failed to persist cart: %w", err)
	}
	return m.state.Clone(), nil
}
