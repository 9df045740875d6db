package core

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jyang234/timeledger/internal/storage"
)

// ledgerAction is the reconciler's decision for one transition edge
type ledgerAction int

const (
	ledgerNone ledgerAction = iota
	ledgerCredit
	ledgerRetract
)

// reconcileAction decides the ledger side effect for a status edge.
// Entering done with a positive estimate credits it; leaving done retracts
// every accumulated credit; everything else, including same-status edges,
// is a no-op.
func reconcileAction(prevStatus, newStatus string, estimate int) ledgerAction {
	if newStatus == StatusDone && prevStatus != StatusDone && estimate > 0 {
		return ledgerCredit
	}
	if prevStatus == StatusDone && newStatus != StatusDone {
		return ledgerRetract
	}
	return ledgerNone
}

// Transition moves one of the requester's tasks to newStatus and
// reconciles the time ledger. The status change is the primary fact: a
// reconciliation failure is logged, reported on SideEffectErr and
// swallowed, never rolled back.
func (e *Engine) Transition(ctx context.Context, taskID, requesterID, newStatus string) (*TransitionResult, error) {
	if !ValidStatus(newStatus) {
		return nil, fmt.Errorf("status %q: %w", newStatus, ErrInvalidStatus)
	}

	prevStatus, estimate, err := e.tasks.TransitionTask(ctx, taskID, requesterID, newStatus)
	if err != nil {
		return nil, mapStorageErr(err)
	}

	result := &TransitionResult{
		TaskID: taskID,
		Status: newStatus,
	}

	switch reconcileAction(prevStatus, newStatus, estimate) {
	case ledgerCredit:
		entry := &storage.EntryRecord{
			ID:       e.ids.GenerateID(),
			TaskID:   taskID,
			UserID:   requesterID,
			Minutes:  estimate,
			Auto:     true,
			LoggedAt: time.Now().UTC(),
		}
		if err := e.ledger.InsertAutoEntry(ctx, entry); err != nil {
			log.Printf("Warning: auto time credit failed for task %s (%s -> %s): %v", taskID, prevStatus, newStatus, err)
			result.SideEffectErr = err
		} else {
			result.AutoTimeLogged = true
		}

	case ledgerRetract:
		if _, err := e.ledger.DeleteAutoEntries(ctx, taskID, requesterID); err != nil {
			log.Printf("Warning: auto time retraction failed for task %s (%s -> %s): %v", taskID, prevStatus, newStatus, err)
			result.SideEffectErr = err
		} else {
			result.AutoTimeRemoved = true
		}
	}

	return result, nil
}
