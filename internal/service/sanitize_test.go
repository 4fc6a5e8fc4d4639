package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tmtperez/track-my-bids/internal/model/entity"
)

func TestSanitizeScopesDropsBlankNames(t *testing.T) {
	got := SanitizeScopes([]ScopeInput{
		{Name: "  ", Cost: 100, Status: "Won"},
		{Name: " Foundation ", Cost: 250, Status: "Pending"},
		{Name: "", Cost: 10},
	})

	assert.Len(t, got, 1)
	assert.Equal(t, "Foundation", got[0].Name)
	assert.Equal(t, 250.0, got[0].Cost)
}

func TestSanitizeScopesCoercesStatus(t *testing.T) {
	got := SanitizeScopes([]ScopeInput{
		{Name: "Steel", Status: "won"},
		{Name: "Concrete", Status: "LOST"},
		{Name: "Glazing", Status: "Maybe"},
		{Name: "Roofing", Status: ""},
	})

	assert.Equal(t, entity.ScopeStatusWon, got[0].Status)
	assert.Equal(t, entity.ScopeStatusLost, got[1].Status)
	assert.Equal(t, entity.ScopeStatusPending, got[2].Status)
	assert.Equal(t, entity.ScopeStatusPending, got[3].Status)
}

func TestSanitizeScopesClampsNegativeCost(t *testing.T) {
	got := SanitizeScopes([]ScopeInput{{Name: "Demo", Cost: -50}})
	assert.Equal(t, 0.0, got[0].Cost)
}

func TestNormalizeBidStatus(t *testing.T) {
	for in, want := range map[string]string{
		"":          entity.BidStatusActive,
		"Active":    entity.BidStatusActive,
		"complete":  entity.BidStatusComplete,
		"Completed": entity.BidStatusComplete,
		"archived":  entity.BidStatusArchived,
		"HOT":       entity.BidStatusHot,
		"Cold":      entity.BidStatusCold,
	} {
		got, ok := NormalizeBidStatus(in)
		assert.True(t, ok, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}

	_, ok := NormalizeBidStatus("Lukewarm")
	assert.False(t, ok)
}

func TestParseDateLoose(t *testing.T) {
	d := ParseDateLoose("2025-06-01")
	if assert.NotNil(t, d) {
		assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), *d)
	}

	d = ParseDateLoose("15/03/2025")
	if assert.NotNil(t, d) {
		assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), *d)
	}

	assert.Nil(t, ParseDateLoose(""))
	assert.Nil(t, ParseDateLoose("not a date"))
}
