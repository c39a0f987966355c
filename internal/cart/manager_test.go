package cart

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"storefront-gateway/internal/cartstore"
	"storefront-gateway/internal/domain"
	"storefront-gateway/internal/guestcart"
)

var testNow = time.Now().UTC()

type stubSyncer struct {
	mu         sync.Mutex
	addCalls   int
	clearCalls int
	addErrs    []error
	lastToken  string
	lastItem   domain.CartItem
}

func (s *stubSyncer) MirrorAdd(_ context.Context, token string, item domain.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var err error
	if s.addCalls < len(s.addErrs) {
		err = s.addErrs[s.addCalls]
	}
	s.addCalls++
	s.lastToken = token
	s.lastItem = item
	return err
}

func (s *stubSyncer) MirrorClear(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearCalls++
	s.lastToken = token
	return nil
}

func newTestManager(t *testing.T, syncer Syncer) *Manager {
	t.Helper()
	store, err := guestcart.New(cartstore.NewMemory(), nil, nil)
	if err != nil {
		t.Fatalf("new guest store: %v", err)
	}
	return New(store, syncer, nil)
}

func addInput(productID string, qty int) guestcart.AddInput {
	return guestcart.AddInput{
		ProductID:      productID,
		Name:           "Mug",
		BasePriceCents: 1200,
		Currency:       "USD",
		Qty:            qty,
	}
}

func TestAddAndLoad(t *testing.T) {
	m := newTestManager(t, nil)
	ctx := context.Background()

	cart, err := m.Add(ctx, "guest:a", "", addInput("p1", 2))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Qty != 2 {
		t.Fatalf("unexpected cart: %+v", cart)
	}

	loaded, err := m.Load(ctx, "guest:a")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.TotalCents() != 2400 {
		t.Fatalf("unexpected total: %d", loaded.TotalCents())
	}
}

func TestLoadDirtyCheckReturnsCachedState(t *testing.T) {
	m := newTestManager(t, nil)
	ctx := context.Background()

	if _, err := m.Add(ctx, "guest:a", "", addInput("p1", 1)); err != nil {
		t.Fatalf("add: %v", err)
	}
	first, err := m.Load(ctx, "guest:a")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	second, err := m.Load(ctx, "guest:a")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	// Same backing array means the cached state was handed back.
	if len(first.Items) == 0 || len(second.Items) == 0 || &first.Items[0] != &second.Items[0] {
		t.Fatal("expected identical state on unchanged reload")
	}
}

func TestAnonymousAddDoesNotSync(t *testing.T) {
	syncer := &stubSyncer{}
	m := newTestManager(t, syncer)

	if _, err := m.Add(context.Background(), "guest:a", "", addInput("p1", 1)); err != nil {
		t.Fatalf("add: %v", err)
	}
	m.WaitSync()
	if syncer.addCalls != 0 {
		t.Fatalf("anonymous add must not mirror, got %d calls", syncer.addCalls)
	}
}

func TestAuthenticatedAddMirrorsInBackground(t *testing.T) {
	syncer := &stubSyncer{}
	m := newTestManager(t, syncer)

	if _, err := m.Add(context.Background(), "guest:a", "tok-1", addInput("p1", 3)); err != nil {
		t.Fatalf("add: %v", err)
	}
	m.WaitSync()

	if syncer.addCalls != 1 {
		t.Fatalf("expected 1 mirror call, got %d", syncer.addCalls)
	}
	if syncer.lastToken != "tok-1" || syncer.lastItem.ProductID != "p1" || syncer.lastItem.Qty != 3 {
		t.Fatalf("unexpected mirror payload: token=%s item=%+v", syncer.lastToken, syncer.lastItem)
	}
}

func TestMirrorRetriesOnceAndSwallowsFailure(t *testing.T) {
	syncer := &stubSyncer{addErrs: []error{errors.New("timeout"), errors.New("timeout")}}
	m := newTestManager(t, syncer)

	cart, err := m.Add(context.Background(), "guest:a", "tok-1", addInput("p1", 1))
	if err != nil {
		t.Fatalf("mirror failure must not surface, got %v", err)
	}
	m.WaitSync()

	if syncer.addCalls != 2 {
		t.Fatalf("expected initial call plus one retry, got %d", syncer.addCalls)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("local cart must stay correct: %+v", cart)
	}
}

func TestClearMirrorsForAuthenticated(t *testing.T) {
	syncer := &stubSyncer{}
	m := newTestManager(t, syncer)
	ctx := context.Background()

	m.Add(ctx, "guest:a", "", addInput("p1", 1))
	cart, err := m.Clear(ctx, "guest:a", "tok-1")
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	m.WaitSync()

	if !cart.Empty() {
		t.Fatalf("expected empty cart, got %+v", cart)
	}
	if syncer.clearCalls != 1 {
		t.Fatalf("expected 1 mirror clear, got %d", syncer.clearCalls)
	}
}

func TestSyncFromServerPopulatesEmptyCartOnly(t *testing.T) {
	m := newTestManager(t, nil)
	ctx := context.Background()

	server := domain.Cart{Items: []domain.CartItem{{
		ProductID: "p9", Name: "Server Mug", BasePriceCents: 900, Currency: "USD", Qty: 2, AddedAt: testNow,
	}}}

	cart, adopted, err := m.SyncFromServer(ctx, "guest:a", server)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if !adopted || len(cart.Items) != 1 {
		t.Fatalf("empty local cart should adopt server cart: adopted=%v cart=%+v", adopted, cart)
	}
	if cart.Items[0].ID == "" {
		t.Fatal("adopted items must get local ids")
	}
	if cart.Items[0].UnitPriceCents != 900 || cart.Items[0].TotalCents != 1800 {
		t.Fatalf("adopted items must be repriced: %+v", cart.Items[0])
	}

	// A second sync must not override the now non-empty local cart.
	other := domain.Cart{Items: []domain.CartItem{{ProductID: "p10", Qty: 1, AddedAt: testNow}}}
	cart, adopted, err = m.SyncFromServer(ctx, "guest:a", other)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if adopted {
		t.Fatal("non-empty local cart must win over the server mirror")
	}
	if cart.Items[0].ProductID != "p9" {
		t.Fatalf("local cart mutated: %+v", cart)
	}
}

func TestRemoveItem(t *testing.T) {
	m := newTestManager(t, nil)
	ctx := context.Background()

	cart, _ := m.Add(ctx, "guest:a", "", addInput("p1", 1))
	itemID := cart.Items[0].ID

	cart, removed, err := m.RemoveItem(ctx, "guest:a", itemID)
	if err != nil || !removed {
		t.Fatalf("remove: removed=%v err=%v", removed, err)
	}
	if !cart.Empty() {
		t.Fatalf("expected empty cart, got %+v", cart)
	}
}
