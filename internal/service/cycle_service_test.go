package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tandadapp/backend/internal/models"
	"github.com/tandadapp/backend/internal/storage/sqlite"
)

// TestRotationScenario walks a three-member group through a full first
// cycle: enrollment, three contributions, a turn claim and the payout.
func TestRotationScenario(t *testing.T) {
	svc, _, sink := setupServices(t)
	ctx := context.Background()

	group := createTestGroup(t, svc, "alice", 3, 100, 7)
	joinAll(t, svc, group.ID, "bob", "carol", "dave")

	for _, account := range []string{"bob", "carol", "dave"} {
		idx, cycle, err := svc.Cycles.Contribute(ctx, group.ID, account, 100)
		if err != nil {
			t.Fatalf("Contribute(%s) failed: %v", account, err)
		}
		if idx != 0 {
			t.Fatalf("expected %s to land in cycle 0, got %d", account, idx)
		}
		if account == "dave" && !cycle.ContributionsComplete {
			t.Fatal("expected cycle 0 to be complete after the third contribution")
		}
	}

	cycles, err := svc.Cycles.Cycles(ctx, group.ID)
	if err != nil {
		t.Fatalf("Cycles failed: %v", err)
	}
	if cycles[0].CollectedAmount != 300 {
		t.Errorf("expected collected amount 300, got %d", cycles[0].CollectedAmount)
	}
	if len(cycles[0].Contributors) != 3 {
		t.Errorf("expected 3 contributors, got %v", cycles[0].Contributors)
	}

	if _, err := svc.Cycles.ClaimTurn(ctx, group.ID, "carol", 1); err != nil {
		t.Fatalf("ClaimTurn failed: %v", err)
	}

	paid, err := svc.Cycles.Payout(ctx, group.ID, 0)
	if err != nil {
		t.Fatalf("Payout failed: %v", err)
	}
	if !paid.PaidOut {
		t.Error("expected cycle 0 to be marked paid out")
	}

	transfers := sink.all()
	if len(transfers) != 1 {
		t.Fatalf("expected exactly one transfer, got %d", len(transfers))
	}
	if transfers[0].recipient != "carol" || transfers[0].amount != 300 {
		t.Errorf("expected 300 paid to carol, got %d to %s", transfers[0].amount, transfers[0].recipient)
	}

	t.Run("payout is not repeatable", func(t *testing.T) {
		_, err := svc.Cycles.Payout(ctx, group.ID, 0)
		expectKind(t, err, KindState)
		if len(sink.all()) != 1 {
			t.Errorf("expected no second transfer, got %d", len(sink.all()))
		}
	})

	t.Run("next payable advances", func(t *testing.T) {
		idx, err := svc.Cycles.NextPayable(ctx, group.ID)
		if err != nil {
			t.Fatalf("NextPayable failed: %v", err)
		}
		if idx != 1 {
			t.Errorf("expected next payable cycle 1, got %d", idx)
		}
	})
}

func TestContribute(t *testing.T) {
	svc, _, _ := setupServices(t)
	ctx := context.Background()

	t.Run("repeat contributions advance to the next cycle", func(t *testing.T) {
		group := createTestGroup(t, svc, "alice", 3, 100, 7)
		joinAll(t, svc, group.ID, "bob")

		first, _, err := svc.Cycles.Contribute(ctx, group.ID, "bob", 100)
		if err != nil {
			t.Fatalf("first Contribute failed: %v", err)
		}
		second, _, err := svc.Cycles.Contribute(ctx, group.ID, "bob", 100)
		if err != nil {
			t.Fatalf("second Contribute failed: %v", err)
		}
		if first != 0 || second != 1 {
			t.Errorf("expected cycles 0 then 1, got %d then %d", first, second)
		}

		cycles, err := svc.Cycles.Cycles(ctx, group.ID)
		if err != nil {
			t.Fatalf("Cycles failed: %v", err)
		}
		if len(cycles[0].Contributors) != 1 || len(cycles[1].Contributors) != 1 {
			t.Errorf("expected one contributor in each of the first two cycles, got %v / %v",
				cycles[0].Contributors, cycles[1].Contributors)
		}
	})

	t.Run("wrong amount leaves state untouched", func(t *testing.T) {
		group := createTestGroup(t, svc, "alice", 3, 100, 7)
		joinAll(t, svc, group.ID, "bob")

		_, _, err := svc.Cycles.Contribute(ctx, group.ID, "bob", 50)
		expectKind(t, err, KindPayment)
		_, _, err = svc.Cycles.Contribute(ctx, group.ID, "bob", 150)
		expectKind(t, err, KindPayment)

		cycles, err := svc.Cycles.Cycles(ctx, group.ID)
		if err != nil {
			t.Fatalf("Cycles failed: %v", err)
		}
		if cycles[0].CollectedAmount != 0 || len(cycles[0].Contributors) != 0 {
			t.Errorf("expected untouched cycle, got collected=%d contributors=%v",
				cycles[0].CollectedAmount, cycles[0].Contributors)
		}

		history, err := svc.History.For(ctx, group.ID, "bob")
		if err != nil {
			t.Fatalf("History.For failed: %v", err)
		}
		if len(history) != 0 {
			t.Errorf("expected no history after rejected payments, got %d entries", len(history))
		}
	})

	t.Run("non-members cannot contribute", func(t *testing.T) {
		group := createTestGroup(t, svc, "alice", 3, 100, 7)
		_, _, err := svc.Cycles.Contribute(ctx, group.ID, "mallory", 100)
		expectKind(t, err, KindUnauthorized)
	})

	t.Run("exhausted once every cycle holds the account", func(t *testing.T) {
		group := createTestGroup(t, svc, "alice", 2, 100, 7)
		joinAll(t, svc, group.ID, "bob", "carol")

		for i := 0; i < 2; i++ {
			if _, _, err := svc.Cycles.Contribute(ctx, group.ID, "bob", 100); err != nil {
				t.Fatalf("Contribute %d failed: %v", i, err)
			}
		}
		_, _, err := svc.Cycles.Contribute(ctx, group.ID, "bob", 100)
		expectKind(t, err, KindExhausted)
	})

	t.Run("unknown group", func(t *testing.T) {
		_, _, err := svc.Cycles.Contribute(ctx, "missing", "bob", 100)
		expectKind(t, err, KindNotFound)
	})
}

// TestCyclePreconditions_Uninitialized seeds a group straight into the
// store, bypassing cycle generation: the missing cycle list must be
// reported before the membership, amount and turn-number checks.
func TestCyclePreconditions_Uninitialized(t *testing.T) {
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

	svc := New(store, &fixedClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}, &recordingSink{})
	ctx := context.Background()

	group := &models.Group{
		Creator:            "alice",
		Name:               "raw group",
		MemberCapacity:     2,
		ContributionAmount: 100,
		CycleLengthDays:    7,
		StartDate:          "2024-01-01 00:00:00 UTC",
		EndDate:            "2024-01-14 00:00:00 UTC",
		Status:             models.GroupPending,
		Members:            []string{"bob"},
	}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	// Non-member, wrong amount: still the missing cycle list answers.
	_, _, err = svc.Cycles.Contribute(ctx, group.ID, "mallory", 1)
	expectKind(t, err, KindState)

	_, err = svc.Cycles.ClaimTurn(ctx, group.ID, "mallory", 99)
	expectKind(t, err, KindState)
}

func TestNextUnpaidFor(t *testing.T) {
	svc, _, _ := setupServices(t)
	ctx := context.Background()

	group := createTestGroup(t, svc, "alice", 2, 100, 7)
	joinAll(t, svc, group.ID, "bob", "carol")

	idx, err := svc.Cycles.NextUnpaidFor(ctx, group.ID, "bob")
	if err != nil {
		t.Fatalf("NextUnpaidFor failed: %v", err)
	}
	if idx != 0 {
		t.Errorf("expected cycle 0 before any contribution, got %d", idx)
	}

	if _, _, err := svc.Cycles.Contribute(ctx, group.ID, "bob", 100); err != nil {
		t.Fatalf("Contribute failed: %v", err)
	}
	idx, err = svc.Cycles.NextUnpaidFor(ctx, group.ID, "bob")
	if err != nil {
		t.Fatalf("NextUnpaidFor failed: %v", err)
	}
	if idx != 1 {
		t.Errorf("expected cycle 1 after one contribution, got %d", idx)
	}

	if _, _, err := svc.Cycles.Contribute(ctx, group.ID, "bob", 100); err != nil {
		t.Fatalf("Contribute failed: %v", err)
	}
	idx, err = svc.Cycles.NextUnpaidFor(ctx, group.ID, "bob")
	if err != nil {
		t.Fatalf("NextUnpaidFor failed: %v", err)
	}
	if idx != Exhausted {
		t.Errorf("expected the exhausted sentinel, got %d", idx)
	}
}

func TestClaimTurn(t *testing.T) {
	svc, _, _ := setupServices(t)
	ctx := context.Background()

	group := createTestGroup(t, svc, "alice", 3, 100, 7)
	joinAll(t, svc, group.ID, "bob", "carol", "dave")

	t.Run("turn number bounds", func(t *testing.T) {
		_, err := svc.Cycles.ClaimTurn(ctx, group.ID, "bob", 0)
		expectKind(t, err, KindValidation)
		_, err = svc.Cycles.ClaimTurn(ctx, group.ID, "bob", 4)
		expectKind(t, err, KindValidation)
	})

	t.Run("non-members cannot claim", func(t *testing.T) {
		_, err := svc.Cycles.ClaimTurn(ctx, group.ID, "mallory", 1)
		expectKind(t, err, KindUnauthorized)
	})

	t.Run("a turn is claimed once", func(t *testing.T) {
		cycle, err := svc.Cycles.ClaimTurn(ctx, group.ID, "bob", 1)
		if err != nil {
			t.Fatalf("ClaimTurn failed: %v", err)
		}
		if cycle.TurnHolder != "bob" {
			t.Errorf("expected turn holder bob, got %q", cycle.TurnHolder)
		}

		_, err = svc.Cycles.ClaimTurn(ctx, group.ID, "carol", 1)
		expectKind(t, err, KindState)
	})

	t.Run("one account may hold several turns", func(t *testing.T) {
		if _, err := svc.Cycles.ClaimTurn(ctx, group.ID, "bob", 2); err != nil {
			t.Fatalf("second turn claim failed: %v", err)
		}

		cycles, err := svc.Cycles.Cycles(ctx, group.ID)
		if err != nil {
			t.Fatalf("Cycles failed: %v", err)
		}
		if cycles[0].TurnHolder != "bob" || cycles[1].TurnHolder != "bob" {
			t.Errorf("expected bob holding turns 1 and 2, got %q and %q",
				cycles[0].TurnHolder, cycles[1].TurnHolder)
		}
	})
}

func TestPayout_Preconditions(t *testing.T) {
	svc, _, sink := setupServices(t)
	ctx := context.Background()

	group := createTestGroup(t, svc, "alice", 2, 100, 7)
	joinAll(t, svc, group.ID, "bob", "carol")

	t.Run("index out of range", func(t *testing.T) {
		_, err := svc.Cycles.Payout(ctx, group.ID, -1)
		expectKind(t, err, KindValidation)
		_, err = svc.Cycles.Payout(ctx, group.ID, 2)
		expectKind(t, err, KindValidation)
	})

	t.Run("incomplete cycle", func(t *testing.T) {
		if _, _, err := svc.Cycles.Contribute(ctx, group.ID, "bob", 100); err != nil {
			t.Fatalf("Contribute failed: %v", err)
		}
		_, err := svc.Cycles.Payout(ctx, group.ID, 0)
		expectKind(t, err, KindState)
	})

	t.Run("unclaimed turn", func(t *testing.T) {
		if _, _, err := svc.Cycles.Contribute(ctx, group.ID, "carol", 100); err != nil {
			t.Fatalf("Contribute failed: %v", err)
		}
		_, err := svc.Cycles.Payout(ctx, group.ID, 0)
		expectKind(t, err, KindState)
	})

	if len(sink.all()) != 0 {
		t.Errorf("expected no transfers from failed payouts, got %d", len(sink.all()))
	}
}

func TestRegenerate(t *testing.T) {
	svc, _, _ := setupServices(t)
	ctx := context.Background()

	group := createTestGroup(t, svc, "alice", 2, 100, 7)
	joinAll(t, svc, group.ID, "bob", "carol")

	if _, _, err := svc.Cycles.Contribute(ctx, group.ID, "bob", 100); err != nil {
		t.Fatalf("Contribute failed: %v", err)
	}
	if _, err := svc.Cycles.ClaimTurn(ctx, group.ID, "carol", 1); err != nil {
		t.Fatalf("ClaimTurn failed: %v", err)
	}

	t.Run("creator only", func(t *testing.T) {
		_, err := svc.Cycles.Regenerate(ctx, group.ID, "bob")
		expectKind(t, err, KindUnauthorized)
	})

	t.Run("preserves ledger state", func(t *testing.T) {
		cycles, err := svc.Cycles.Regenerate(ctx, group.ID, "alice")
		if err != nil {
			t.Fatalf("Regenerate failed: %v", err)
		}
		if len(cycles) != 2 {
			t.Fatalf("expected 2 cycles, got %d", len(cycles))
		}
		if cycles[0].CollectedAmount != 100 || !cycles[0].HasContributor("bob") {
			t.Errorf("expected bob's contribution preserved, got collected=%d contributors=%v",
				cycles[0].CollectedAmount, cycles[0].Contributors)
		}
		if cycles[0].TurnHolder != "carol" {
			t.Errorf("expected carol's turn preserved, got %q", cycles[0].TurnHolder)
		}
		if cycles[0].StartDate != "2024-01-01 00:00:00 UTC" || cycles[1].StartDate != "2024-01-08 00:00:00 UTC" {
			t.Errorf("expected dates rebuilt from the group start, got %q / %q",
				cycles[0].StartDate, cycles[1].StartDate)
		}
	})
}

func TestInitialize_Idempotent(t *testing.T) {
	svc, _, _ := setupServices(t)
	ctx := context.Background()

	group := createTestGroup(t, svc, "alice", 2, 100, 7)
	joinAll(t, svc, group.ID, "bob", "carol")
	if _, _, err := svc.Cycles.Contribute(ctx, group.ID, "bob", 100); err != nil {
		t.Fatalf("Contribute failed: %v", err)
	}

	if err := svc.Cycles.Initialize(ctx, group); err != nil {
		t.Fatalf("repeat Initialize failed: %v", err)
	}

	cycles, err := svc.Cycles.Cycles(ctx, group.ID)
	if err != nil {
		t.Fatalf("Cycles failed: %v", err)
	}
	if cycles[0].CollectedAmount != 100 {
		t.Errorf("expected existing cycles untouched, got collected=%d", cycles[0].CollectedAmount)
	}
}
