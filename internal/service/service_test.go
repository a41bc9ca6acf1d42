package service

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/tandadapp/backend/internal/models"
	"github.com/tandadapp/backend/internal/storage/sqlite"
)

// fixedClock pins Now to a settable instant so date logic is
// deterministic.
type fixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fixedClock) set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

// recordingSink captures payouts instead of moving value.
type recordingSink struct {
	mu        sync.Mutex
	transfers []recordedTransfer
}

type recordedTransfer struct {
	recipient string
	amount    int64
}

func (s *recordingSink) Pay(_ context.Context, recipient string, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transfers = append(s.transfers, recordedTransfer{recipient: recipient, amount: amount})
	return nil
}

func (s *recordingSink) all() []recordedTransfer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]recordedTransfer(nil), s.transfers...)
}

// setupServices builds the ledger over a temp SQLite store with a
// pinned clock and a recording payment sink.
func setupServices(t *testing.T) (*Services, *fixedClock, *recordingSink) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "tanda-service-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		os.RemoveAll(tempDir)
		t.Fatalf("failed to create store: %v", err)
	}

	t.Cleanup(func() {
		store.Close()
		os.RemoveAll(tempDir)
	})

	clock := &fixedClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	sink := &recordingSink{}
	return New(store, clock, sink), clock, sink
}

// createTestGroup creates a group with sane defaults and returns it.
func createTestGroup(t *testing.T, svc *Services, creator string, capacity uint32, amount int64, cycleDays uint32) *models.Group {
	t.Helper()

	group, err := svc.Groups.Create(context.Background(), creator, 1, "test tanda", capacity, amount, cycleDays)
	if err != nil {
		t.Fatalf("Create group failed: %v", err)
	}
	return group
}

// joinAll enrolls the given accounts in the group.
func joinAll(t *testing.T, svc *Services, groupID string, accounts ...string) {
	t.Helper()

	for _, account := range accounts {
		if _, err := svc.Members.Join(context.Background(), groupID, account); err != nil {
			t.Fatalf("Join(%s) failed: %v", account, err)
		}
	}
}

func expectKind(t *testing.T, err error, kind Kind) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected %v error, got nil", kind)
	}
	if KindOf(err) != kind {
		t.Fatalf("expected %v error, got %v: %v", kind, KindOf(err), err)
	}
}
