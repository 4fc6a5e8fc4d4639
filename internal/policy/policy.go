// Package policy decides which callers may perform which bid operations.
// It is a pure function of (role, caller identity, action, target owner):
// no persisted state, no I/O.
package policy

import "github.com/tmtperez/track-my-bids/internal/model/entity"

// Action is one of the coarse operations the gate arbitrates.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Policy maps roles to allowed actions and carries the row-level ownership
// rules for owner-scoped roles. The active policy is swappable without
// touching call sites; see Default and Legacy.
type Policy struct {
	// Allowed is the coarse role to action table.
	Allowed map[string][]Action

	// OwnerScoped marks roles restricted to bids they own.
	OwnerScoped map[string]bool

	// ReadOnly marks roles that pass the row-level gate only for reads.
	ReadOnly map[string]bool

	// AllowUnowned lets owner-scoped roles touch bids with no owner set.
	AllowUnowned bool
}

// Default is the active three-role configuration: every role may perform all
// actions, but USER is owner-scoped at row level.
func Default() *Policy {
	all := []Action{ActionRead, ActionCreate, ActionUpdate, ActionDelete}
	return &Policy{
		Allowed: map[string][]Action{
			entity.RoleAdmin:   all,
			entity.RoleManager: all,
			entity.RoleUser:    all,
		},
		OwnerScoped:  map[string]bool{entity.RoleUser: true},
		ReadOnly:     map[string]bool{},
		AllowUnowned: true,
	}
}

// Legacy is the older four-role configuration: ESTIMATOR is owner-scoped,
// VIEWER may only read.
func Legacy() *Policy {
	all := []Action{ActionRead, ActionCreate, ActionUpdate, ActionDelete}
	return &Policy{
		Allowed: map[string][]Action{
			entity.RoleAdmin:     all,
			entity.RoleManager:   all,
			entity.RoleEstimator: all,
			entity.RoleViewer:    {ActionRead},
		},
		OwnerScoped:  map[string]bool{entity.RoleEstimator: true},
		ReadOnly:     map[string]bool{entity.RoleViewer: true},
		AllowUnowned: true,
	}
}

// Can is the coarse check: whether the role may perform the action at all.
func (p *Policy) Can(role string, action Action) bool {
	for _, a := range p.Allowed[role] {
		if a == action {
			return true
		}
	}
	return false
}

// CanAccessBid is the fine, row-level check for operations addressing one
// bid. Both checks compose: a caller must pass Can and CanAccessBid.
// The caller is expected to report plain Forbidden either way, so the reason
// for a denial is never leaked.
func (p *Policy) CanAccessBid(role string, userID uint, ownerID *uint, action Action) bool {
	if !p.Can(role, action) {
		return false
	}

	if p.ReadOnly[role] {
		return action == ActionRead
	}

	if !p.OwnerScoped[role] {
		// Privileged roles bypass ownership entirely.
		return true
	}

	if ownerID == nil {
		return p.AllowUnowned
	}
	return *ownerID == userID
}

// OwnerFilter reports whether list queries for this role must be restricted
// to the caller's own bids.
func (p *Policy) OwnerFilter(role string) bool {
	return p.OwnerScoped[role]
}
