package chore

import (
	"errors"
	"fmt"
	"strings"
)

var ErrChoreNotFound = errors.New("chore not found")

// EligibilityError rejects an assignment into a restricted category. It
// carries the category and the allowed display names so the UI can say
// exactly who may take the chore.
type EligibilityError struct {
	Category string
	Allowed  []string
}

func (e *EligibilityError) Error() string {
	return fmt.Sprintf("category %q is restricted to: %s", e.Category, strings.Join(e.Allowed, ", "))
}
