package solver

import (
	"errors"
	"fmt"
)

// ErrNeedThreeConstraints is returned by Trilaterate when the connection
// set does not contain exactly 3 constraints.
var ErrNeedThreeConstraints = errors.New("trilateration requires exactly 3 constraints")

// BudgetError is returned when a search evaluates more distinct coordinates
// than its budget allows. It signals either a degenerate constraint set
// (the zero-error region is too large to enumerate) or a diverging walk;
// callers decide whether to enlarge the budget, reseed, or gather more
// constraints. The search cannot continue once this is returned.
type BudgetError struct {
	Limit int
}

func (e *BudgetError) Error() string {
	return fmt.Sprintf("evaluation budget of %d coordinates exceeded", e.Limit)
}

// IsBudgetError reports whether err is (or wraps) a BudgetError.
func IsBudgetError(err error) bool {
	var be *BudgetError
	return errors.As(err, &be)
}
