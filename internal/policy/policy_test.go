package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tmtperez/track-my-bids/internal/model/entity"
)

func uintPtr(v uint) *uint { return &v }

func TestDefaultCoarseTable(t *testing.T) {
	p := Default()

	for _, role := range []string{entity.RoleAdmin, entity.RoleManager, entity.RoleUser} {
		for _, action := range []Action{ActionRead, ActionCreate, ActionUpdate, ActionDelete} {
			assert.True(t, p.Can(role, action), "%s should be allowed %s", role, action)
		}
	}

	assert.False(t, p.Can("INTERN", ActionRead), "unknown role is denied everything")
}

func TestOwnershipGate(t *testing.T) {
	p := Default()

	// USER updating somebody else's bid is denied.
	assert.False(t, p.CanAccessBid(entity.RoleUser, 7, uintPtr(3), ActionUpdate))

	// USER updating their own bid is allowed.
	assert.True(t, p.CanAccessBid(entity.RoleUser, 7, uintPtr(7), ActionUpdate))

	// USER touching an unowned bid is allowed under the permissive default.
	assert.True(t, p.CanAccessBid(entity.RoleUser, 7, nil, ActionUpdate))

	// Privileged roles bypass ownership entirely.
	assert.True(t, p.CanAccessBid(entity.RoleAdmin, 1, uintPtr(3), ActionDelete))
	assert.True(t, p.CanAccessBid(entity.RoleManager, 1, uintPtr(3), ActionUpdate))
}

func TestUnownedDisallowedWhenConfiguredOff(t *testing.T) {
	p := Default()
	p.AllowUnowned = false

	assert.False(t, p.CanAccessBid(entity.RoleUser, 7, nil, ActionUpdate))
	assert.True(t, p.CanAccessBid(entity.RoleUser, 7, uintPtr(7), ActionUpdate))
}

func TestLegacyViewerReadOnly(t *testing.T) {
	p := Legacy()

	assert.True(t, p.CanAccessBid(entity.RoleViewer, 2, uintPtr(9), ActionRead))
	assert.False(t, p.CanAccessBid(entity.RoleViewer, 2, uintPtr(9), ActionUpdate))
	assert.False(t, p.Can(entity.RoleViewer, ActionDelete))

	// ESTIMATOR is owner-scoped like USER in the current scheme.
	assert.True(t, p.CanAccessBid(entity.RoleEstimator, 4, nil, ActionUpdate))
	assert.False(t, p.CanAccessBid(entity.RoleEstimator, 4, uintPtr(5), ActionUpdate))
}

func TestOwnerFilter(t *testing.T) {
	p := Default()
	assert.True(t, p.OwnerFilter(entity.RoleUser))
	assert.False(t, p.OwnerFilter(entity.RoleAdmin))
	assert.False(t, p.OwnerFilter(entity.RoleManager))
}
