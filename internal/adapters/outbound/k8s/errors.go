package k8s

import "fmt"

// InvalidAgeError reports a display age that cannot be turned into a timestamp.
type InvalidAgeError struct {
	Age string
}

func (e *InvalidAgeError) Error() string {
	return fmt.Sprintf("invalid age %q", e.Age)
}
