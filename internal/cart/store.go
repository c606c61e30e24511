package cart

import (
	"context"

	"github.com/vetdesign/checkout-api/internal/storage"
)

// storageKeyPrefix is the stable name the cart aggregate persists under,
// namespaced per session.
const storageKeyPrefix = "cart-storage:"

// StorageKey returns the persistence key for a session's cart.
func StorageKey(sessionID string) string {
	return storageKeyPrefix + sessionID
}

// Repository loads and saves the cart aggregate for a session. Implementors
// must round-trip state exactly.
type Repository interface {
	Load(ctx context.Context, sessionID string) (State, bool, error)
	Save(ctx context.Context, sessionID string, state State) error
}

// KVRepository persists carts as JSON blobs in a key-value store.
type KVRepository struct {
	KV storage.KV
}

// Load implements Repository.
func (r KVRepository) Load(ctx context.Context, sessionID string) (State, bool, error) {
	var state State
	found, err := r.KV.GetJSON(ctx, StorageKey(sessionID), &state)
	return state, found, err
}

// Save implements Repository.
func (r KVRepository) Save(ctx context.Context, sessionID string, state State) error {
	return r.KV.SetJSON(ctx, StorageKey(sessionID), state)
}

// Store couples a session's cart state with its repository. Mutations apply
// in memory and persist synchronously before returning; reads always observe
// the latest write.
type Store struct {
	repo      Repository
	sessionID string
	state     State
	hydrated  bool
}

// Open loads the persisted cart for the session. When the read fails the
// store starts from an empty state and reports Hydrated() == false so
// consumers can render a neutral view instead of acting on transient zeros.
func Open(ctx context.Context, repo Repository, sessionID string) *Store {
	st := &Store{repo: repo, sessionID: sessionID}
	state, _, err := repo.Load(ctx, sessionID)
	if err != nil {
		return st
	}
	st.state = state
	st.hydrated = true
	return st
}

// Hydrated reports whether persisted state was successfully restored.
func (st *Store) Hydrated() bool {
	return st.hydrated
}

// Snapshot returns a copy of the current cart state.
func (st *Store) Snapshot() State {
	items := make([]LineItem, len(st.state.Items))
	copy(items, st.state.Items)
	return State{Items: items}
}

// TotalItems exposes the derived item count for badge rendering.
func (st *Store) TotalItems() int {
	return st.state.TotalItems()
}

// AddItem adds or increments a line item and persists the result.
func (st *Store) AddItem(ctx context.Context, p Product) error {
	st.state.Add(p)
	return st.persist(ctx)
}

// RemoveItem removes a line item and persists the result.
func (st *Store) RemoveItem(ctx context.Context, id int64) error {
	st.state.Remove(id)
	return st.persist(ctx)
}

// UpdateQuantity applies an in-range quantity change and persists the result.
// Out-of-range requests leave the state untouched but still succeed.
func (st *Store) UpdateQuantity(ctx context.Context, id int64, qty int) error {
	st.state.SetQuantity(id, qty)
	return st.persist(ctx)
}

// Clear empties the cart and persists the empty state.
func (st *Store) Clear(ctx context.Context) error {
	st.state.Clear()
	return st.persist(ctx)
}

func (st *Store) persist(ctx context.Context) error {
	if err := st.repo.Save(ctx, st.sessionID, st.state); err != nil {
		return err
	}
	// A successful write makes the in-memory view authoritative even when
	// the initial load failed.
	st.hydrated = true
	return nil
}
