package checkout

import (
	"context"

	"github.com/vetdesign/checkout-api/internal/storage"
)

const storageKeyPrefix = "checkout-storage:"

// StorageKey returns the persistence key for a session's checkout state.
func StorageKey(sessionID string) string {
	return storageKeyPrefix + sessionID
}

// Repository loads and saves the checkout aggregate for a session.
type Repository interface {
	Load(ctx context.Context, sessionID string) (State, bool, error)
	Save(ctx context.Context, sessionID string, state State) error
}

// KVRepository persists checkout state as JSON blobs in a key-value store.
type KVRepository struct {
	KV storage.KV
}

// Load implements Repository. A missing key yields the default state.
func (r KVRepository) Load(ctx context.Context, sessionID string) (State, bool, error) {
	state := NewState()
	found, err := r.KV.GetJSON(ctx, StorageKey(sessionID), &state)
	if err != nil {
		return NewState(), false, err
	}
	if !found {
		return NewState(), false, nil
	}
	return state, true, nil
}

// Save implements Repository.
func (r KVRepository) Save(ctx context.Context, sessionID string, state State) error {
	return r.KV.SetJSON(ctx, StorageKey(sessionID), state)
}

// Store couples a session's checkout state with its repository, mirroring the
// cart store: mutate in memory, persist synchronously.
type Store struct {
	repo      Repository
	sessionID string
	state     State
	hydrated  bool
}

// Open loads the persisted checkout state for the session. On a failed read
// the store starts from defaults and reports Hydrated() == false.
func Open(ctx context.Context, repo Repository, sessionID string) *Store {
	st := &Store{repo: repo, sessionID: sessionID, state: NewState()}
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

// Snapshot returns a copy of the current checkout state.
func (st *Store) Snapshot() State {
	state := st.state
	if st.state.Address != nil {
		addr := *st.state.Address
		state.Address = &addr
	}
	if st.state.Payment != nil {
		pay := *st.state.Payment
		state.Payment = &pay
	}
	return state
}

// SetAddress persists a new address.
func (st *Store) SetAddress(ctx context.Context, a Address) error {
	st.state.SetAddress(a)
	return st.persist(ctx)
}

// SetPayment persists a new payment selection.
func (st *Store) SetPayment(ctx context.Context, p Payment) error {
	st.state.SetPayment(p)
	return st.persist(ctx)
}

// SetDeliveryMethod persists a new delivery method.
func (st *Store) SetDeliveryMethod(ctx context.Context, method string) error {
	st.state.SetDeliveryMethod(method)
	return st.persist(ctx)
}

// SetPromoCode persists a new promo code.
func (st *Store) SetPromoCode(ctx context.Context, code string) error {
	st.state.SetPromoCode(code)
	return st.persist(ctx)
}

// Clear resets the checkout state to defaults and persists it. The cart
// aggregate is deliberately untouched.
func (st *Store) Clear(ctx context.Context) error {
	st.state.Clear()
	return st.persist(ctx)
}

func (st *Store) persist(ctx context.Context) error {
	if err := st.repo.Save(ctx, st.sessionID, st.state); err != nil {
		return err
	}
	st.hydrated = true
	return nil
}
