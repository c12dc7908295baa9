package errhandler

import "errors"

// Flatten returns err followed by every error reachable through
// [errors.Unwrap], outermost first. It returns nil for a nil error.
func Flatten(err error) []error {
	var chain []error
	for err != nil {
		chain = append(chain, err)
		err = errors.Unwrap(err)
	}
	return chain
}

// firstLeaf descends into joined errors, always taking the first member,
// until it reaches an error that does not join others.
func firstLeaf(err error) error {
	for {
		joined, ok := err.(interface{ Unwrap() []error })
		if !ok {
			return err
		}

		var next error
		for _, e := range joined.Unwrap() {
			if e != nil {
				next = e
				break
			}
		}
		if next == nil {
			return err
		}
		err = next
	}
}
