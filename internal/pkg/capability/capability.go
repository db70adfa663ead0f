package capability

import (
	"github.com/google/uuid"
)

// Resource is anything with an owner set that access decisions are made
// against: a chat room, a call session, a post.
type Resource interface {
	OwnerIDs() []uuid.UUID
}

// Action names what the account wants to do with the resource.
type Action string

const (
	ActionRead   Action = "read"
	ActionWrite  Action = "write"
	ActionDelete Action = "delete"
)

// Decision is the result of a capability check.
type Decision struct {
	Allowed bool
	Reason  string
}

// Check decides whether accountID may perform action on resource.
// Participants may read and write; only owners (the first listed id for
// single-owner resources) may delete. Admin role bypasses ownership.
func Check(accountID uuid.UUID, role string, resource Resource, action Action) Decision {
	if role == "admin" {
		return Decision{Allowed: true}
	}

	owners := resource.OwnerIDs()
	if len(owners) == 0 {
		return Decision{Allowed: false, Reason: "resource has no owners"}
	}

	switch action {
	case ActionRead, ActionWrite:
		for _, id := range owners {
			if id == accountID {
				return Decision{Allowed: true}
			}
		}
		return Decision{Allowed: false, Reason: "not a participant"}

	case ActionDelete:
		if owners[0] == accountID {
			return Decision{Allowed: true}
		}
		return Decision{Allowed: false, Reason: "not the owner"}

	default:
		return Decision{Allowed: false, Reason: "unknown action"}
	}
}
