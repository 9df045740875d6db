// Package core implements the task lifecycle engine and its time ledger.
//
// # Status transitions
//
// A task is always in one of three states: todo, in_progress or done. Any
// state may transition to any other; done is revisitable. Transition reads
// the previous status and the task's accumulated minutes in the same
// storage transaction that persists the new status, then reconciles the
// time ledger:
//
//   - Entering done (from any other state) with a positive accumulated
//     total credits one auto-flagged ledger entry carrying that total as
//     the task's estimated effort.
//
//   - Leaving done retracts the credit by deleting every auto-flagged
//     entry for the task+user pair, however many have accumulated.
//
//   - All other edges, including same-status transitions, leave the
//     ledger untouched.
//
// The ledger side effect is best effort: the status change is the primary
// fact and commits first. A reconciliation failure is logged and reported
// on TransitionResult.SideEffectErr without failing the transition.
//
// # Manual time logging
//
// LogTime appends a manual (auto=false) entry and increments the task's
// total minutes in one atomic storage operation. Only manual logging moves
// total_minutes; auto entries record the estimate observed at completion
// and are never recomputed.
//
// # Reports
//
// SelfReport groups one user's entries by UTC calendar date. AdminReport
// groups all users' entries by (date, user, auto) and layers per-date
// auto/manual splits plus a grand summary on top. Both carry an explicit
// Empty flag so "no data yet" is distinguishable from a zero total.
package core
