package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"givestack/internal/donations"
	"givestack/internal/paystack"
	"givestack/internal/ratelimiter"

	"go.uber.org/zap"
)

// stubStore is an in-memory donations.Store for handler tests.
type stubStore struct {
	mu        sync.Mutex
	nextID    int64
	donations map[int64]*donations.Donation
	notes     map[int64][]*donations.Note

	createErr error
}

func newStubStore() *stubStore {
	return &stubStore{
		nextID:    1,
		donations: make(map[int64]*donations.Donation),
		notes:     make(map[int64][]*donations.Note),
	}
}

func (s *stubStore) Create(ctx context.Context, d *donations.Donation) (*donations.Donation, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *d
	cp.ID = s.nextID
	cp.Status = donations.StatusPending
	s.nextID++
	s.donations[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (s *stubStore) GetByID(ctx context.Context, id int64) (*donations.Donation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.donations[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (s *stubStore) GetByPurchaseKey(ctx context.Context, key string) (*donations.Donation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.donations {
		if d.PurchaseKey == key {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *stubStore) MarkComplete(ctx context.Context, id int64) (bool, error) {
	return s.transition(id, donations.StatusComplete)
}

func (s *stubStore) MarkFailed(ctx context.Context, id int64) (bool, error) {
	return s.transition(id, donations.StatusFailed)
}

func (s *stubStore) transition(id int64, to donations.Status) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.donations[id]
	if !ok || d.Status != donations.StatusPending {
		return false, nil
	}
	d.Status = to
	return true, nil
}

func (s *stubStore) SetGatewayResponse(ctx context.Context, id int64, raw any) error {
	return nil
}

func (s *stubStore) AppendNote(ctx context.Context, id int64, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes[id] = append(s.notes[id], &donations.Note{
		ID:         int64(len(s.notes[id]) + 1),
		DonationID: id,
		Body:       body,
	})
	return nil
}

func (s *stubStore) ListNotes(ctx context.Context, id int64) ([]*donations.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*donations.Note(nil), s.notes[id]...), nil
}

func (s *stubStore) List(ctx context.Context, status donations.Status, limit, offset int) ([]*donations.Donation, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*donations.Donation
	for _, d := range s.donations {
		if status != "" && d.Status != status {
			continue
		}
		cp := *d
		out = append(out, &cp)
	}
	return out, len(out), nil
}

// seed inserts a donation directly, bypassing Create.
func (s *stubStore) seed(d *donations.Donation) *donations.Donation {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *d
	if cp.ID == 0 {
		cp.ID = s.nextID
		s.nextID++
	}
	s.donations[cp.ID] = &cp
	return &cp
}

// stubGateway answers Initialize and Verify from canned function fields.
type stubGateway struct {
	initializeFn func(ctx context.Context, req paystack.InitializeRequest) (*paystack.InitializeData, error)
	verifyFn     func(ctx context.Context, reference string) (*paystack.VerifyData, error)
}

func (g *stubGateway) Initialize(ctx context.Context, req paystack.InitializeRequest) (*paystack.InitializeData, error) {
	if g.initializeFn == nil {
		return nil, fmt.Errorf("unexpected Initialize call")
	}
	return g.initializeFn(ctx, req)
}

func (g *stubGateway) Verify(ctx context.Context, reference string) (*paystack.VerifyData, error) {
	if g.verifyFn == nil {
		return nil, fmt.Errorf("unexpected Verify call")
	}
	return g.verifyFn(ctx, reference)
}

const (
	testBasicUser = "admin"
	testBasicPass = "sekrit"
)

func newTestApplication(t *testing.T, store donations.Store, gateway donations.Gateway) *application {
	t.Helper()

	logger := zap.NewNop().Sugar()

	cfg := config{
		addr:           "localhost:8080",
		env:            "test",
		externalURL:    "https://give.example.com",
		successPageURL: "https://give.example.com/thank-you",
		paystack: paystackConfig{
			keys: paystack.Keys{
				Mode: paystack.ModeTest,
				Test: paystack.Credentials{PublicKey: "pk_test_abc", SecretKey: "sk_test_abc"},
			},
		},
		auth: authConfig{
			basic: basicConfig{user: testBasicUser, pass: testBasicPass},
		},
		rateLimiter: ratelimiter.Config{Enabled: false},
	}

	svc := donations.NewService(store, gateway, nil, nil, logger, donations.Config{
		PublicKey:       "pk_test_abc",
		CallbackBaseURL: cfg.externalURL + "/v1/paystack/callback",
		SuccessPageURL:  cfg.successPageURL,
		PluginName:      pluginName,
	})

	return &application{
		config:    cfg,
		store:     store,
		donations: svc,
		logger:    logger,
	}
}

func executeRequest(req *http.Request, mux http.Handler) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func checkResponseCode(t *testing.T, expected, actual int) {
	t.Helper()
	if expected != actual {
		t.Errorf("expected response code %d, got %d", expected, actual)
	}
}
