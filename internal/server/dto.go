package server

import "github.com/tandadapp/backend/internal/models"

// groupView is the JSON shape of a group.
type groupView struct {
	ID                 string   `json:"id"`
	Creator            string   `json:"creator"`
	Name               string   `json:"name"`
	MemberCapacity     uint32   `json:"member_capacity"`
	ContributionAmount int64    `json:"contribution_amount"`
	CycleLengthDays    uint32   `json:"cycle_length_days"`
	StartDate          string   `json:"start_date"`
	EndDate            string   `json:"end_date"`
	Active             bool     `json:"active"`
	Status             string   `json:"status"`
	Members            []string `json:"members"`
	CreatedAt          int64    `json:"created_at"`
}

func toGroupView(g *models.Group) groupView {
	members := g.Members
	if members == nil {
		members = []string{}
	}
	return groupView{
		ID:                 g.ID,
		Creator:            g.Creator,
		Name:               g.Name,
		MemberCapacity:     g.MemberCapacity,
		ContributionAmount: g.ContributionAmount,
		CycleLengthDays:    g.CycleLengthDays,
		StartDate:          g.StartDate,
		EndDate:            g.EndDate,
		Active:             g.Active,
		Status:             string(g.Status),
		Members:            members,
		CreatedAt:          g.CreatedAt,
	}
}

func toGroupViews(groups []*models.Group) []groupView {
	views := make([]groupView, len(groups))
	for i, g := range groups {
		views[i] = toGroupView(g)
	}
	return views
}

// cycleView is the JSON shape of one cycle.
type cycleView struct {
	Index                 int      `json:"index"`
	StartDate             string   `json:"start_date"`
	EndDate               string   `json:"end_date"`
	TurnHolder            string   `json:"turn_holder"`
	CollectedAmount       int64    `json:"collected_amount"`
	Contributors          []string `json:"contributors"`
	ContributionsComplete bool     `json:"contributions_complete"`
	PaidOut               bool     `json:"paid_out"`
}

func toCycleView(index int, c *models.Cycle) cycleView {
	contributors := c.Contributors
	if contributors == nil {
		contributors = []string{}
	}
	return cycleView{
		Index:                 index,
		StartDate:             c.StartDate,
		EndDate:               c.EndDate,
		TurnHolder:            c.TurnHolder,
		CollectedAmount:       c.CollectedAmount,
		Contributors:          contributors,
		ContributionsComplete: c.ContributionsComplete,
		PaidOut:               c.PaidOut,
	}
}

func toCycleViews(cycles []models.Cycle) []cycleView {
	views := make([]cycleView, len(cycles))
	for i := range cycles {
		views[i] = toCycleView(i, &cycles[i])
	}
	return views
}

// contributionView is the JSON shape of one history entry.
type contributionView struct {
	GroupID   string `json:"group_id"`
	Account   string `json:"account"`
	Amount    int64  `json:"amount"`
	Timestamp int64  `json:"timestamp"`
}

func toContributionViews(contributions []*models.Contribution) []contributionView {
	views := make([]contributionView, len(contributions))
	for i, c := range contributions {
		views[i] = contributionView{
			GroupID:   c.GroupID,
			Account:   c.Account,
			Amount:    c.Amount,
			Timestamp: c.Timestamp,
		}
	}
	return views
}
