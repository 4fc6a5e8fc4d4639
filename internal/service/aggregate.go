package service

import "github.com/tmtperez/track-my-bids/internal/model/entity"

// AggregateScopeStatus derives a bid's overall scope status from its line
// items. Priority order is fixed: any Pending item keeps the whole bid
// Pending; with none Pending, any Lost item reports Lost; only a set of
// all-Won items reports Won. An empty set is Unknown. A bid is only as
// resolved as its least-resolved line item.
func AggregateScopeStatus(scopes []entity.Scope) string {
	if len(scopes) == 0 {
		return entity.ScopeStatusUnknown
	}

	hasLost := false
	hasWon := false
	for _, s := range scopes {
		switch s.Status {
		case entity.ScopeStatusPending:
			return entity.ScopeStatusPending
		case entity.ScopeStatusLost:
			hasLost = true
		case entity.ScopeStatusWon:
			hasWon = true
		}
	}

	if hasLost {
		return entity.ScopeStatusLost
	}
	if hasWon {
		return entity.ScopeStatusWon
	}
	return entity.ScopeStatusUnknown
}

// TotalAmount sums the scope costs. A zero-value cost contributes nothing,
// so the sum is total on any input.
func TotalAmount(scopes []entity.Scope) float64 {
	var total float64
	for _, s := range scopes {
		total += s.Cost
	}
	return total
}
