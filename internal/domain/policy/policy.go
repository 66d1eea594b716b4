// Package policy decides which taxpayer actions a user may perform.
//
// The decision depends on three inputs only: the actor's role, the actor's
// organization and the owning organization (employer reference) of the target
// record. It performs no I/O.
package policy

import (
	"github.com/jhoicas/taxpayer-registry/internal/domain"
	"github.com/jhoicas/taxpayer-registry/internal/domain/entity"
)

// Action is a per-record taxpayer action.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionVerify Action = "verify"
)

// Actions lists every per-record action.
var Actions = []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionVerify}

type rule int

const (
	deny rule = iota
	allow
	// ownOrg: the record must belong to the actor's organization.
	ownOrg
	// ownOrUnassigned: the record may be unassigned or belong to the actor's organization.
	ownOrUnassigned
)

var rules = map[entity.Role]map[Action]rule{
	entity.RoleAdmin: {
		ActionCreate: allow,
		ActionRead:   allow,
		ActionUpdate: allow,
		ActionDelete: allow,
		ActionVerify: allow,
	},
	entity.RoleAccountant: {
		ActionCreate: ownOrUnassigned,
		ActionRead:   ownOrg,
		ActionUpdate: ownOrg,
		ActionDelete: ownOrg,
		ActionVerify: ownOrg,
	},
	entity.RoleEmployer: {
		ActionCreate: ownOrUnassigned,
		ActionRead:   ownOrg,
		ActionUpdate: ownOrg,
		ActionDelete: ownOrg,
		ActionVerify: deny,
	},
	entity.RoleOrganization: {},
}

// Allowed reports whether actor may perform action on a record owned by owner.
func Allowed(actor *entity.User, action Action, owner *string) bool {
	if actor == nil {
		return false
	}
	switch rules[actor.Role][action] {
	case allow:
		return true
	case ownOrg:
		return entity.SameOrganization(owner, actor.OrganizationID)
	case ownOrUnassigned:
		return owner == nil || entity.SameOrganization(owner, actor.OrganizationID)
	default:
		return false
	}
}

// Authorize returns a Forbidden error unless actor may perform action on a record owned by owner.
func Authorize(actor *entity.User, action Action, owner *string) error {
	if Allowed(actor, action, owner) {
		return nil
	}
	if actor != nil && actor.Role == entity.RoleOrganization {
		return domain.Forbidden("organization users cannot %s taxpayers", action)
	}
	if action == ActionCreate {
		return domain.Forbidden("you can only assign taxpayers to your own organization")
	}
	return domain.Forbidden("you don't have permission to %s this taxpayer", action)
}

// Scope narrows queries to the records a caller may see.
type Scope struct {
	// All disables the ownership predicate.
	All bool
	// None makes every query return no rows.
	None bool
	// OrganizationID restricts rows to employer_id = *OrganizationID, or employer_id IS NULL when nil.
	OrganizationID *string
}

// Match reports whether a record owned by owner is inside the scope.
func (s Scope) Match(owner *string) bool {
	switch {
	case s.None:
		return false
	case s.All:
		return true
	default:
		return entity.SameOrganization(owner, s.OrganizationID)
	}
}

// Visibility is the list/search scope of actor.
func Visibility(actor *entity.User) Scope {
	if actor == nil {
		return Scope{None: true}
	}
	switch actor.Role {
	case entity.RoleAdmin:
		return Scope{All: true}
	case entity.RoleAccountant, entity.RoleEmployer:
		return Scope{OrganizationID: actor.OrganizationID}
	default:
		return Scope{None: true}
	}
}

// StatsScope is the aggregate scope of actor. Organization users see aggregates
// for their own organization even though they cannot list records.
func StatsScope(actor *entity.User) Scope {
	if actor == nil {
		return Scope{None: true}
	}
	switch actor.Role {
	case entity.RoleAdmin:
		return Scope{All: true}
	case entity.RoleAccountant, entity.RoleEmployer, entity.RoleOrganization:
		return Scope{OrganizationID: actor.OrganizationID}
	default:
		return Scope{None: true}
	}
}
