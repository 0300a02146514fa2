package moderation

import "github.com/google/uuid"

// Viewer is the request-scoped identity the policy decides against.
// The zero value is an unauthenticated viewer.
type Viewer struct {
	ID        uuid.UUID
	College   string
	IsAdmin   bool
	IsBlocked bool
}

func (v Viewer) Authenticated() bool {
	return v.ID != uuid.Nil
}

// Visibility is the derived viewing permission for a (viewer, content)
// pair. It is distinct from interaction permission (see CanInteract).
type Visibility int

const (
	// VisibilityFull grants the complete item including actions.
	VisibilityFull Visibility = iota
	// VisibilityOwnerPending is the author's view of their own
	// content while it awaits review.
	VisibilityOwnerPending
	// VisibilityOwnerRejected is the author's view of rejected
	// content: reason shown, edit-and-resubmit available.
	VisibilityOwnerRejected
	// VisibilityDeniedUnderReview means the item must be treated as
	// nonexistent for this viewer. List queries exclude such rows at
	// the SQL level; fetch-by-id answers 404.
	VisibilityDeniedUnderReview
	// VisibilityDeniedCollege exposes metadata only; body content and
	// all interactions stay blocked.
	VisibilityDeniedCollege
)

// Resolve computes the visibility of a content item for a viewer.
// First matching rule wins; the order is load-bearing: admin bypass,
// then owner views, then the approval gate, then the college gate.
func Resolve(viewer Viewer, authorID uuid.UUID, college string, status Status) Visibility {
	if viewer.IsAdmin {
		return VisibilityFull
	}

	if viewer.Authenticated() && viewer.ID == authorID {
		switch {
		case status == StatusRejected:
			return VisibilityOwnerRejected
		case status.Hidden():
			return VisibilityOwnerPending
		default:
			return VisibilityFull
		}
	}

	if status != StatusApproved {
		return VisibilityDeniedUnderReview
	}

	if viewer.College != college {
		return VisibilityDeniedCollege
	}

	return VisibilityFull
}
