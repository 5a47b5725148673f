package ledger

import (
	"fmt"
	"strings"

	"ledger-core-go/internal/store"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// canonicalAccountId returns the lowercase hyphenated form of an account id.
// Lock ordering compares these strings, so every id must pass through here
// before it reaches the store.
func canonicalAccountId(id string) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", fmt.Errorf("%w: invalid account id %q", store.ErrValidation, id)
	}
	return parsed.String(), nil
}

// lockOrder returns the two ids in the order their rows must be locked.
// The order depends only on the ids, never on which side is payer.
func lockOrder(a, b string) (first, second string) {
	if a <= b {
		return a, b
	}
	return b, a
}

// newEntryId returns a time-sortable entry id. ulid.Make is monotonic and
// safe for concurrent use.
func newEntryId() string {
	return ulid.Make().String()
}
