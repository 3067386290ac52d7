package domain

import "errors"

var ErrForbidden = errors.New("access forbidden")
var ErrUnauthenticated = errors.New("authentication required")
var ErrStoreUnavailable = errors.New("storage unavailable")

// Operation enumerates every action the access policy can rule on.
type Operation int

const (
	OpCreateAnnotation Operation = iota
	OpListAnnotations
	OpDeleteAnnotation
	OpEditAnnotation
	OpExportAnnotations
	OpUploadVideo
	OpDeleteVideo
	OpSaveNote
	OpDeleteNote
)

// Actor is the authenticated identity making a request. A zero Actor
// (empty ID) represents an unauthenticated caller.
type Actor struct {
	ID       string
	Email    string
	Username string
	Role     Role
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// Authenticated reports whether the actor carries a verified identity.
func (a Actor) Authenticated() bool { return a.ID != "" }

// Decision is the outcome of a policy check.
type Decision int

const (
	Deny Decision = iota
	Allow
)

// Decide is the pure access-control rule set. ownerID is the user id that
// owns the target resource; pass the empty string for operations without an
// owned resource (creation, listing, upload). Rules are evaluated in order
// and the first match wins; anything unmatched is denied.
func Decide(actor Actor, ownerID string, op Operation) Decision {
	if !actor.Authenticated() {
		return Deny
	}

	switch op {
	case OpCreateAnnotation, OpListAnnotations, OpSaveNote:
		// Any authenticated actor. Listing is additionally scoped to the
		// actor's own records at the service layer for non-admins.
		return Allow
	case OpDeleteAnnotation, OpDeleteNote:
		// Admins, or the record's own creator.
		if actor.IsAdmin() || actor.ID == ownerID {
			return Allow
		}
		return Deny
	case OpExportAnnotations:
		// Admins export everything; a regular user may export only their
		// own records (ownerID names the user whose rows are requested).
		if actor.IsAdmin() || actor.ID == ownerID {
			return Allow
		}
		return Deny
	case OpUploadVideo, OpDeleteVideo, OpEditAnnotation:
		if actor.IsAdmin() {
			return Allow
		}
		return Deny
	}

	return Deny
}
