package adapter

import "fmt"

// RegistrationError reports an adapter descriptor that cannot join the
// registry, most commonly a name already taken by another adapter.
type RegistrationError struct {
	Name    string
	Message string
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("registration error: adapter %q: %s", e.Name, e.Message)
}
