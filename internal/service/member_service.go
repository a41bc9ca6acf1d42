package service

import (
	"context"
	"log/slog"

	"github.com/tandadapp/backend/internal/models"
	"github.com/tandadapp/backend/internal/scheduler"
	"github.com/tandadapp/backend/internal/storage"
)

// MemberService is the membership ledger: it tracks which accounts
// belong to which groups and keeps the per-account index of groups
// created and joined.
type MemberService struct {
	store storage.Store
	clock scheduler.Clock
	locks *groupLocks
}

// Register records that account created or joined a group. Idempotent:
// the member record is created on first sight and a group id already
// present in the target list is not appended again.
func (s *MemberService) Register(ctx context.Context, account, groupID string, asCreator bool) error {
	member, err := s.store.GetMember(ctx, account)
	if err != nil {
		return err
	}
	if member == nil {
		member = &models.Member{Account: account, CreatedAt: s.clock.Now().Unix()}
	}

	if asCreator {
		if containsString(member.Created, groupID) {
			return nil
		}
		member.Created = append(member.Created, groupID)
	} else {
		if containsString(member.Joined, groupID) {
			return nil
		}
		member.Joined = append(member.Joined, groupID)
	}

	return s.store.PutMember(ctx, member)
}

// Join enrolls requester in a group. Fails when the group is unknown,
// when requester is already enrolled, or when the group is at capacity.
// Joining past capacity is a hard error, not a silent no-op.
func (s *MemberService) Join(ctx context.Context, groupID, requester string) (*models.Group, error) {
	unlock := s.locks.lock(groupID)
	defer unlock()

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, errf(KindNotFound, "group not found: %s", groupID)
	}
	if group.HasMember(requester) {
		return nil, errf(KindState, "account %s is already a member of group %s", requester, groupID)
	}
	if group.Full() {
		return nil, errf(KindState, "group %s is full (%d members)", groupID, group.MemberCapacity)
	}

	group.Members = append(group.Members, requester)
	if err := s.store.UpdateGroup(ctx, group); err != nil {
		return nil, err
	}
	if err := s.Register(ctx, requester, groupID, false); err != nil {
		return nil, err
	}

	slog.Info("Member joined group",
		"group_id", groupID,
		"account", requester,
		"members", len(group.Members),
		"capacity", group.MemberCapacity,
	)
	audit("ok", "join_group", groupID, requester, "member added")

	return group, nil
}

// Members returns the member set of a group, empty when the group is
// unknown.
func (s *MemberService) Members(ctx context.Context, groupID string) ([]string, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil || group.Members == nil {
		return []string{}, nil
	}
	return group.Members, nil
}

// Accounts returns every account that has ever created or joined a
// group, in first-seen order.
func (s *MemberService) Accounts(ctx context.Context) ([]string, error) {
	return s.store.ListMemberAccounts(ctx)
}

// CreatedBy returns the ids of groups the account created, empty when
// the account is unknown.
func (s *MemberService) CreatedBy(ctx context.Context, account string) ([]string, error) {
	member, err := s.store.GetMember(ctx, account)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return []string{}, nil
	}
	return member.Created, nil
}

// JoinedBy returns the ids of groups the account joined, empty when
// the account is unknown.
func (s *MemberService) JoinedBy(ctx context.Context, account string) ([]string, error) {
	member, err := s.store.GetMember(ctx, account)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return []string{}, nil
	}
	return member.Joined, nil
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
