package moderation

import (
	"strings"

	"github.com/tashikmiddha/campusconfess-backend/internal/apperr"
)

// Status is the moderation lifecycle state of a piece of content.
// Post and competition services are the only writers of this field,
// and they apply transitions exclusively through Decide / Resubmit /
// Flag so the invariants below hold everywhere:
//
//   - new content is always pending with an empty reason
//   - rejected and flagged always carry a non-empty reason
//   - approved always has an empty reason
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusFlagged  Status = "flagged"
)

// Decision is an explicit admin review outcome. Automated flagging is
// advisory only; a Decision is the sole path into approved/rejected.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// Hidden reports whether content in this state is withheld from
// everyone except its author and admins.
func (s Status) Hidden() bool {
	return s == StatusPending || s == StatusFlagged
}

// Terminal reports whether an admin review has concluded for the
// current submission cycle.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Outcome is the result of applying a transition: the next status and
// the reason to store alongside it. Changed is false when the
// transition is an idempotent repeat and nothing should be written.
type Outcome struct {
	Status  Status
	Reason  string
	Changed bool
}

// Decide validates an admin decision against the current status and
// returns the resulting state. Repeating the decision that already
// concluded the review is an idempotent no-op; a conflicting decision
// from a stale admin view is a Conflict.
func Decide(current Status, d Decision, reason string) (Outcome, error) {
	var target Status
	switch d {
	case DecisionApprove:
		target = StatusApproved
	case DecisionReject:
		target = StatusRejected
	default:
		return Outcome{}, apperr.Validation("unknown moderation decision: " + string(d))
	}

	if current.Terminal() {
		if current == target {
			return Outcome{Status: current, Changed: false}, nil
		}
		return Outcome{}, apperr.Conflict("content has already been " + string(current))
	}

	if d == DecisionReject && strings.TrimSpace(reason) == "" {
		return Outcome{}, apperr.Validation("a reason is required when rejecting content")
	}

	return Outcome{Status: target, Reason: reasonFor(target, reason), Changed: true}, nil
}

// Resubmit is the author-edit transition: edited content goes back to
// review and any prior decision reason is cleared.
func Resubmit() Outcome {
	return Outcome{Status: StatusPending, Reason: "", Changed: true}
}

// Flag records an automated pre-screen hit. The rationale is required
// so the admin queue and the author notice can explain the hold.
func Flag(rationale string) (Outcome, error) {
	if strings.TrimSpace(rationale) == "" {
		return Outcome{}, apperr.Validation("a rationale is required when flagging content")
	}
	return Outcome{Status: StatusFlagged, Reason: rationale, Changed: true}, nil
}

func reasonFor(s Status, reason string) string {
	if s == StatusApproved {
		return ""
	}
	return strings.TrimSpace(reason)
}
