package domain

import "context"

// UserLock serializes cart mutations per user. Reconciliation reads across
// every cart the user owns, so two mutations for the same user must never
// interleave. Acquire is try-once: a held lock surfaces as ErrUserBusy.
type UserLock interface {
	Acquire(ctx context.Context, userID string) (func(), error)
}
