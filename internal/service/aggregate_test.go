package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tmtperez/track-my-bids/internal/model/entity"
)

func scopesFrom(statuses ...string) []entity.Scope {
	out := make([]entity.Scope, len(statuses))
	for i, s := range statuses {
		out[i] = entity.Scope{Name: "s", Status: s}
	}
	return out
}

func TestAggregateScopeStatusPendingWins(t *testing.T) {
	// Any Pending item dominates regardless of how many Won/Lost are present.
	cases := [][]string{
		{"Won", "Lost", "Pending"},
		{"Pending"},
		{"Pending", "Pending", "Won"},
		{"Lost", "Pending"},
	}
	for _, c := range cases {
		assert.Equal(t, entity.ScopeStatusPending, AggregateScopeStatus(scopesFrom(c...)), "%v", c)
	}
}

func TestAggregateScopeStatusFallbackOrder(t *testing.T) {
	assert.Equal(t, entity.ScopeStatusLost, AggregateScopeStatus(scopesFrom("Won", "Lost")))
	assert.Equal(t, entity.ScopeStatusWon, AggregateScopeStatus(scopesFrom("Won", "Won")))
	assert.Equal(t, entity.ScopeStatusUnknown, AggregateScopeStatus(nil))
	assert.Equal(t, entity.ScopeStatusUnknown, AggregateScopeStatus([]entity.Scope{}))
}

func TestTotalAmount(t *testing.T) {
	scopes := []entity.Scope{
		{Name: "a", Cost: 100},
		{Name: "b", Cost: 0},
		{Name: "c", Cost: 50},
	}
	assert.Equal(t, 150.0, TotalAmount(scopes))
	assert.Equal(t, 0.0, TotalAmount(nil))

	// A scope with no cost provided contributes zero.
	assert.Equal(t, 100.0, TotalAmount([]entity.Scope{{Name: "a", Cost: 100}, {Name: "b"}}))
}
