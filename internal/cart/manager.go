// Package cart holds the authoritative in-memory cart state per
// session. All mutations to one session's cart are serialized through
// the manager, mirroring how a UI event loop serializes reducer
// dispatches. The local cart always wins over the server mirror.
package cart

import (
	"context"
	"io"
	"log"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"

	"storefront-gateway/internal/domain"
	"storefront-gateway/internal/guestcart"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Syncer mirrors cart changes to the platform API for authenticated
// sessions. Calls are best-effort; the local cart stays correct when
// they fail.
type Syncer interface {
	MirrorAdd(ctx context.Context, accessToken string, item domain.CartItem) error
	MirrorClear(ctx context.Context, accessToken string) error
}

type Manager struct {
	store       *guestcart.Store
	syncer      Syncer
	logger      *log.Logger
	syncTimeout time.Duration
	syncRetries int

	mu     sync.Mutex
	states map[string]domain.Cart

	// syncWG tracks in-flight mirror goroutines so shutdown and tests
	// can wait for them.
	syncWG sync.WaitGroup
}

func New(store *guestcart.Store, syncer Syncer, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Manager{
		store:       store,
		syncer:      syncer,
		logger:      logger,
		syncTimeout: 5 * time.Second,
		syncRetries: 1,
		states:      make(map[string]domain.Cart),
	}
}

// SetSyncPolicy overrides the per-attempt timeout and retry count for
// background mirror calls. Non-positive values keep the defaults.
func (m *Manager) SetSyncPolicy(timeout time.Duration, retries int) {
	if timeout > 0 {
		m.syncTimeout = timeout
	}
	if retries >= 0 {
		m.syncRetries = retries
	}
}

// Load reads the persisted cart. When the result is structurally
// identical to the cached state, the cached value is returned
// unchanged so downstream consumers can cheaply detect "no change".
func (m *Manager) Load(ctx context.Context, key string) (domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cart, err := m.store.Read(ctx, key)
	if err != nil {
		return domain.Cart{}, err
	}
	if cached, ok := m.states[key]; ok && sameState(cached, cart) {
		return cached, nil
	}
	m.states[key] = cart
	return cart, nil
}

// Add adds or merges a line. For authenticated sessions (non-empty
// accessToken) the addition is mirrored to the platform API in the
// background.
func (m *Manager) Add(ctx context.Context, key, accessToken string, in guestcart.AddInput) (domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cart, err := m.store.Add(ctx, key, in)
	if err != nil {
		return domain.Cart{}, err
	}
	m.states[key] = cart

	if accessToken != "" && m.syncer != nil {
		item := findLine(cart, in.ProductID, in.SelectedAttributes)
		m.mirrorAdd(accessToken, item)
	}
	return cart, nil
}

func (m *Manager) UpdateItem(ctx context.Context, key, itemID string, in guestcart.UpdateInput) (domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cart, err := m.store.Update(ctx, key, itemID, in)
	if err != nil {
		return domain.Cart{}, err
	}
	m.states[key] = cart
	return cart, nil
}

func (m *Manager) RemoveItem(ctx context.Context, key, itemID string) (domain.Cart, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cart, removed, err := m.store.Remove(ctx, key, itemID)
	if err != nil {
		return domain.Cart{}, false, err
	}
	m.states[key] = cart
	return cart, removed, nil
}

// Clear empties the cart and, for authenticated sessions, mirrors the
// clear to the platform API in the background.
func (m *Manager) Clear(ctx context.Context, key, accessToken string) (domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cart, err := m.store.Clear(ctx, key)
	if err != nil {
		return domain.Cart{}, err
	}
	m.states[key] = cart

	if accessToken != "" && m.syncer != nil {
		m.mirrorClear(accessToken)
	}
	return cart, nil
}

// SyncFromServer adopts a server-side cart into an empty local cart.
// It is a no-op when local items already exist: cross-device merge
// only populates an empty cart, the local cart never gets overridden.
func (m *Manager) SyncFromServer(ctx context.Context, key string, server domain.Cart) (domain.Cart, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	local, err := m.store.Read(ctx, key)
	if err != nil {
		return domain.Cart{}, false, err
	}
	if !local.Empty() {
		m.states[key] = local
		return local, false, nil
	}
	if server.Empty() {
		m.states[key] = local
		return local, false, nil
	}

	adopted, err := m.store.Replace(ctx, key, server)
	if err != nil {
		return domain.Cart{}, false, err
	}
	m.states[key] = adopted
	return adopted, true, nil
}

// WaitSync blocks until all in-flight background mirror calls finish.
func (m *Manager) WaitSync() {
	m.syncWG.Wait()
}

func (m *Manager) mirrorAdd(accessToken string, item domain.CartItem) {
	m.syncWG.Add(1)
	go func() {
		defer m.syncWG.Done()
		for attempt := 0; attempt <= m.syncRetries; attempt++ {
			ctx, cancel := context.WithTimeout(context.Background(), m.syncTimeout)
			err := m.syncer.MirrorAdd(ctx, accessToken, item)
			cancel()
			if err == nil {
				return
			}
			m.logger.Printf("cart mirror: add item=%s attempt=%d error=%v", item.ID, attempt+1, err)
		}
	}()
}

func (m *Manager) mirrorClear(accessToken string) {
	m.syncWG.Add(1)
	go func() {
		defer m.syncWG.Done()
		for attempt := 0; attempt <= m.syncRetries; attempt++ {
			ctx, cancel := context.WithTimeout(context.Background(), m.syncTimeout)
			err := m.syncer.MirrorClear(ctx, accessToken)
			cancel()
			if err == nil {
				return
			}
			m.logger.Printf("cart mirror: clear attempt=%d error=%v", attempt+1, err)
		}
	}()
}

// sameState compares carts by their serialized form, the dirty-check
// that lets Load return an identical state reference.
func sameState(a, b domain.Cart) bool {
	rawA, errA := json.Marshal(a)
	rawB, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return string(rawA) == string(rawB)
}

func findLine(cart domain.Cart, productID string, attrs map[string]string) domain.CartItem {
	for _, item := range cart.Items {
		if item.SameLine(productID, attrs) {
			return item
		}
	}
	return domain.CartItem{}
}
