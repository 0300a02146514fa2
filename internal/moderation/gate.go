package moderation

import "github.com/tashikmiddha/campusconfess-backend/internal/apperr"

// Distinct gate denials so clients can render the matching message.
var (
	ErrUnauthenticated = apperr.Unauthenticated("sign in to interact with posts")
	ErrBlocked         = apperr.Forbidden("your account has been blocked")
	ErrCollegeMismatch = apperr.Forbidden("you can only interact with posts from your own college")
)

// CanInteract gates every mutating action (like, comment, vote,
// report) against a content item's college. The blocked check runs
// before the admin bypass: a blocked account is vetoed no matter its
// role.
func CanInteract(viewer Viewer, college string) error {
	if !viewer.Authenticated() {
		return ErrUnauthenticated
	}
	if viewer.IsBlocked {
		return ErrBlocked
	}
	if viewer.IsAdmin {
		return nil
	}
	if viewer.College != college {
		return ErrCollegeMismatch
	}
	return nil
}
