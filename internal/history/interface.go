package history

import (
	"context"
	"time"
)

// QuickAction is the durable record of one dispatched nudge. Created exactly
// once per dispatch and never mutated afterwards.
type QuickAction struct {
	ID            string
	Timestamp     time.Time
	ActionType    string
	ActionDetails string
	Reason        string
}

// Store persists quick actions. LoadAll seeds the controller's visible
// history at startup; Save is called once per dispatched action. Callers
// treat failures of either as non-fatal and continue on in-memory state.
type Store interface {
	Save(ctx context.Context, action QuickAction) error
	LoadAll(ctx context.Context) ([]QuickAction, error)
	Close() error
}
