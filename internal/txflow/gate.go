// Package txflow drives every mutating action through its lifecycle:
// approval gating, submission, confirmation tracking, cache invalidation,
// and user-facing notifications.
package txflow

import "github.com/halofi/halobot/internal/domain"

// NeedsApproval reports whether an allowance-raising step must precede the
// action. The only condition is an exactly-zero allowance on a
// token-spending action: the controller always requests an unlimited
// approval, so a nonzero allowance is taken to be the max from an earlier
// approval and no top-up is attempted.
func NeedsApproval(kind domain.ActionKind, allowance domain.Allowance) bool {
	return kind.SpendsTokens() && allowance.IsZero()
}
