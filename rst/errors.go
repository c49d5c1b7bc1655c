package rst

import "fmt"

// ContractError reports a call sequence a Formatter cannot honor, like
// closing a style or list that was never opened. It indicates a bug in the
// event source; Formatter methods panic with it.
type ContractError struct {
	Op     string
	Reason string
	State  string
}

func (err *ContractError) Error() string {
	return fmt.Sprintf("rst: %s: %s [%s]", err.Op, err.Reason, err.State)
}

func (f *Formatter) violation(op, reason string) {
	panic(&ContractError{
		Op:     op,
		Reason: reason,
		State:  fmt.Sprint(f),
	})
}
