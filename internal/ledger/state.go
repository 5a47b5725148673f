package ledger

import "go.uber.org/zap"

// transferState tracks how far a transfer got inside its unit of work.
type transferState int

const (
	stateStarted transferState = iota
	stateLocksAcquired
	stateValidated
	stateMutated
	stateCommitted
	stateAborted
)

var transferStateNames = map[transferState]string{
	stateStarted:       "STARTED",
	stateLocksAcquired: "LOCKS_ACQUIRED",
	stateValidated:     "VALIDATED",
	stateMutated:       "MUTATED",
	stateCommitted:     "COMMITTED",
	stateAborted:       "ABORTED",
}

// MUTATED may still abort when the commit itself fails.
var transferTransitions = map[transferState][]transferState{
	stateStarted:       {stateLocksAcquired, stateAborted},
	stateLocksAcquired: {stateValidated, stateAborted},
	stateValidated:     {stateMutated, stateAborted},
	stateMutated:       {stateCommitted, stateAborted},
}

func (s transferState) String() string {
	if name, ok := transferStateNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

func (s transferState) canMoveTo(next transferState) bool {
	for _, allowed := range transferTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// transferTrace records and logs the state of one transfer.
type transferTrace struct {
	state transferState
	log   *zap.Logger
}

func newTransferTrace(log *zap.Logger) *transferTrace {
	log.Debug("Transfer state", zap.Stringer("state", stateStarted))
	return &transferTrace{state: stateStarted, log: log}
}

func (t *transferTrace) moveTo(next transferState) {
	if !t.state.canMoveTo(next) {
		t.log.Error("Invalid transfer state transition",
			zap.Stringer("from", t.state),
			zap.Stringer("to", next))
	}
	t.log.Debug("Transfer state", zap.Stringer("from", t.state), zap.Stringer("state", next))
	t.state = next
}
