package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/tandadapp/backend/internal/models"
)

func TestSQLiteStore(t *testing.T) {
	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "tanda-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	dbPath := filepath.Join(tempDir, "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	t.Run("CreateGroup generates ID and round-trips", func(t *testing.T) {
		group := &models.Group{
			Creator:            "alice",
			Name:               "Friday savings",
			MemberCapacity:     3,
			ContributionAmount: 100,
			CycleLengthDays:    7,
			StartDate:          "2024-01-01 00:00:00 UTC",
			EndDate:            "2024-01-21 00:00:00 UTC",
			Status:             models.GroupPending,
		}

		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		if group.ID == "" {
			t.Error("Expected group ID to be generated")
		}
		if group.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}

		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if got == nil {
			t.Fatal("GetGroup returned nil for existing group")
		}
		if got.Creator != "alice" || got.Name != "Friday savings" {
			t.Errorf("group mismatch: %+v", got)
		}
		if got.MemberCapacity != 3 || got.ContributionAmount != 100 || got.CycleLengthDays != 7 {
			t.Errorf("group parameters mismatch: %+v", got)
		}
		if got.Status != models.GroupPending || got.Active {
			t.Errorf("expected pending inactive group, got status=%s active=%v", got.Status, got.Active)
		}
	})

	t.Run("GetGroup returns nil for unknown id", func(t *testing.T) {
		got, err := store.GetGroup(ctx, "nonexistent-id")
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil, got %+v", got)
		}
	})

	t.Run("UpdateGroup rewrites fields and member set", func(t *testing.T) {
		group := &models.Group{
			Creator:            "bob",
			Name:               "Before",
			MemberCapacity:     3,
			ContributionAmount: 50,
			CycleLengthDays:    15,
			StartDate:          "2024-02-01 00:00:00 UTC",
			EndDate:            "2024-03-16 00:00:00 UTC",
			Status:             models.GroupPending,
		}
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}

		group.Name = "After"
		group.Active = true
		group.Status = models.GroupActive
		group.Members = []string{"bob", "carol", "dave"}
		if err := store.UpdateGroup(ctx, group); err != nil {
			t.Fatalf("UpdateGroup failed: %v", err)
		}

		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if got.Name != "After" || !got.Active || got.Status != models.GroupActive {
			t.Errorf("update not persisted: %+v", got)
		}
		if len(got.Members) != 3 || got.Members[1] != "carol" {
			t.Errorf("member set mismatch: %v", got.Members)
		}
	})

	t.Run("UpdateGroup fails for unknown group", func(t *testing.T) {
		err := store.UpdateGroup(ctx, &models.Group{ID: "nonexistent-id", Status: models.GroupPending})
		if err == nil {
			t.Error("expected error updating nonexistent group")
		}
	})

	t.Run("ListGroups preserves creation order", func(t *testing.T) {
		before, err := store.ListGroups(ctx)
		if err != nil {
			t.Fatalf("ListGroups failed: %v", err)
		}

		first := &models.Group{Creator: "x", Name: "First", MemberCapacity: 3,
			ContributionAmount: 1, CycleLengthDays: 7, StartDate: "2024-01-01 00:00:00 UTC",
			EndDate: "2024-01-21 00:00:00 UTC", Status: models.GroupPending}
		second := &models.Group{Creator: "x", Name: "Second", MemberCapacity: 3,
			ContributionAmount: 1, CycleLengthDays: 7, StartDate: "2024-01-01 00:00:00 UTC",
			EndDate: "2024-01-21 00:00:00 UTC", Status: models.GroupPending}
		store.CreateGroup(ctx, first)
		store.CreateGroup(ctx, second)

		after, err := store.ListGroups(ctx)
		if err != nil {
			t.Fatalf("ListGroups failed: %v", err)
		}
		if len(after) != len(before)+2 {
			t.Fatalf("expected %d groups, got %d", len(before)+2, len(after))
		}
		if after[len(after)-2].Name != "First" || after[len(after)-1].Name != "Second" {
			t.Errorf("creation order not preserved: %s, %s",
				after[len(after)-2].Name, after[len(after)-1].Name)
		}
	})

	t.Run("Cycles round-trip through PutCycles", func(t *testing.T) {
		group := &models.Group{Creator: "erin", Name: "Cycles", MemberCapacity: 2,
			ContributionAmount: 10, CycleLengthDays: 7, StartDate: "2024-01-01 00:00:00 UTC",
			EndDate: "2024-01-14 00:00:00 UTC", Status: models.GroupPending}
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}

		// No cycles generated yet.
		cycles, err := store.GetCycles(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetCycles failed: %v", err)
		}
		if cycles != nil {
			t.Errorf("expected nil cycles before initialization, got %v", cycles)
		}

		put := []models.Cycle{
			{
				StartDate:       "2024-01-01 00:00:00 UTC",
				EndDate:         "2024-01-07 00:00:00 UTC",
				TurnHolder:      "erin",
				CollectedAmount: 10,
				Contributors:    []string{"erin"},
			},
			{
				StartDate: "2024-01-08 00:00:00 UTC",
				EndDate:   "2024-01-14 00:00:00 UTC",
			},
		}
		if err := store.PutCycles(ctx, group.ID, put); err != nil {
			t.Fatalf("PutCycles failed: %v", err)
		}

		got, err := store.GetCycles(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetCycles failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 cycles, got %d", len(got))
		}
		if got[0].TurnHolder != "erin" || got[0].CollectedAmount != 10 {
			t.Errorf("cycle 0 mismatch: %+v", got[0])
		}
		if len(got[0].Contributors) != 1 || got[0].Contributors[0] != "erin" {
			t.Errorf("cycle 0 contributors mismatch: %v", got[0].Contributors)
		}
		if got[1].TurnHolder != "" || got[1].Contributors != nil {
			t.Errorf("cycle 1 should be empty: %+v", got[1])
		}
	})

	t.Run("Member index upsert and lookup", func(t *testing.T) {
		got, err := store.GetMember(ctx, "nobody")
		if err != nil {
			t.Fatalf("GetMember failed: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil for unknown member, got %+v", got)
		}

		member := &models.Member{Account: "frank", Created: []string{"g1"}, CreatedAt: 1}
		if err := store.PutMember(ctx, member); err != nil {
			t.Fatalf("PutMember failed: %v", err)
		}
		member.Joined = append(member.Joined, "g2")
		if err := store.PutMember(ctx, member); err != nil {
			t.Fatalf("PutMember (update) failed: %v", err)
		}

		got, err = store.GetMember(ctx, "frank")
		if err != nil {
			t.Fatalf("GetMember failed: %v", err)
		}
		if got == nil {
			t.Fatal("GetMember returned nil for existing member")
		}
		if len(got.Created) != 1 || got.Created[0] != "g1" {
			t.Errorf("created list mismatch: %v", got.Created)
		}
		if len(got.Joined) != 1 || got.Joined[0] != "g2" {
			t.Errorf("joined list mismatch: %v", got.Joined)
		}

		accounts, err := store.ListMemberAccounts(ctx)
		if err != nil {
			t.Fatalf("ListMemberAccounts failed: %v", err)
		}
		found := false
		for _, a := range accounts {
			if a == "frank" {
				found = true
			}
		}
		if !found {
			t.Errorf("frank missing from accounts: %v", accounts)
		}
	})

	t.Run("Contribution history is append-only and ordered", func(t *testing.T) {
		for i, amount := range []int64{100, 100, 100} {
			c := &models.Contribution{GroupID: "hist-group", Account: "gina", Amount: amount, Timestamp: int64(i + 1)}
			if err := store.AppendContribution(ctx, c); err != nil {
				t.Fatalf("AppendContribution failed: %v", err)
			}
		}
		store.AppendContribution(ctx, &models.Contribution{GroupID: "hist-group", Account: "hank", Amount: 100, Timestamp: 4})

		history, err := store.HistoryFor(ctx, "hist-group", "gina")
		if err != nil {
			t.Fatalf("HistoryFor failed: %v", err)
		}
		if len(history) != 3 {
			t.Fatalf("expected 3 entries, got %d", len(history))
		}
		for i, c := range history {
			if c.Timestamp != int64(i+1) {
				t.Errorf("entry %d out of order: timestamp %d", i, c.Timestamp)
			}
		}

		groupHistory, err := store.GroupHistory(ctx, "hist-group")
		if err != nil {
			t.Fatalf("GroupHistory failed: %v", err)
		}
		if len(groupHistory) != 4 {
			t.Errorf("expected 4 entries for the group, got %d", len(groupHistory))
		}

		all, err := store.AllHistories(ctx)
		if err != nil {
			t.Fatalf("AllHistories failed: %v", err)
		}
		if len(all["hist-group"]) != 4 {
			t.Errorf("expected 4 entries under hist-group, got %d", len(all["hist-group"]))
		}
	})

	t.Run("RecordTransfer assigns id", func(t *testing.T) {
		transfer := &models.Transfer{GroupID: "g", CycleIndex: 0, Recipient: "bob", Amount: 300}
		if err := store.RecordTransfer(ctx, transfer); err != nil {
			t.Fatalf("RecordTransfer failed: %v", err)
		}
		if transfer.ID == "" {
			t.Error("Expected transfer ID to be generated")
		}
	})

	t.Run("Accounts create and lookup", func(t *testing.T) {
		if err := store.CreateAccount(ctx, &models.Account{Name: "ivy", PasswordHash: "x"}); err != nil {
			t.Fatalf("CreateAccount failed: %v", err)
		}
		if err := store.CreateAccount(ctx, &models.Account{Name: "ivy", PasswordHash: "y"}); err == nil {
			t.Error("expected error creating duplicate account")
		}

		got, err := store.GetAccount(ctx, "ivy")
		if err != nil {
			t.Fatalf("GetAccount failed: %v", err)
		}
		if got == nil || got.PasswordHash != "x" {
			t.Errorf("account mismatch: %+v", got)
		}

		missing, err := store.GetAccount(ctx, "nobody")
		if err != nil {
			t.Fatalf("GetAccount failed: %v", err)
		}
		if missing != nil {
			t.Errorf("expected nil for unknown account, got %+v", missing)
		}
	})
}
