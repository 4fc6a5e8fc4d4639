package service

import (
	"strings"
	"time"

	"github.com/tmtperez/track-my-bids/internal/model/entity"
)

// ScopeInput is the wire shape of one scope line in bid create/update and
// CSV import payloads.
type ScopeInput struct {
	Name   string  `json:"name"`
	Cost   float64 `json:"cost"`
	Status string  `json:"status"`
}

// SanitizeScopes normalizes a submitted scope list. Names are trimmed and
// scopes left with an empty name are dropped, not rejected. Costs are clamped
// to non-negative (invalid input binds to zero upstream). Statuses are
// whitelisted case-insensitively into {Pending, Won, Lost}; anything else
// defaults to Pending.
func SanitizeScopes(raw []ScopeInput) []entity.Scope {
	out := make([]entity.Scope, 0, len(raw))
	for _, s := range raw {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			continue
		}
		cost := s.Cost
		if cost < 0 {
			cost = 0
		}
		out = append(out, entity.Scope{
			Name:   name,
			Cost:   cost,
			Status: coerceScopeStatus(s.Status),
		})
	}
	return out
}

func coerceScopeStatus(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "won":
		return entity.ScopeStatusWon
	case "lost":
		return entity.ScopeStatusLost
	case "pending":
		return entity.ScopeStatusPending
	default:
		return entity.ScopeStatusPending
	}
}

// NormalizeBidStatus maps the accepted inputs onto the stored closed set.
// The legacy spelling "Completed" becomes "Complete". An empty string
// defaults to Active; anything unrecognized is reported invalid.
func NormalizeBidStatus(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return entity.BidStatusActive, true
	case "active":
		return entity.BidStatusActive, true
	case "complete", "completed":
		return entity.BidStatusComplete, true
	case "archived":
		return entity.BidStatusArchived, true
	case "hot":
		return entity.BidStatusHot, true
	case "cold":
		return entity.BidStatusCold, true
	default:
		return "", false
	}
}

// ParseDateLoose accepts the date spellings that show up in client payloads
// and imported spreadsheets: ISO (YYYY-MM-DD, with or without a time part)
// and day-first slash or dash forms (DD/MM/YYYY). Empty input is nil, not an
// error; unparseable input is nil as well.
func ParseDateLoose(s string) *time.Time {
	t := strings.TrimSpace(s)
	if t == "" {
		return nil
	}

	for _, layout := range []string{
		"2006-01-02",
		time.RFC3339,
		"2006-01-02T15:04:05",
		"02/01/2006",
		"02-01-2006",
	} {
		if d, err := time.Parse(layout, t); err == nil {
			d = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
			return &d
		}
	}
	return nil
}
