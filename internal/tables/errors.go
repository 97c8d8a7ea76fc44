package tables

import "fmt"

// ConfigError is a fatal lookup-table load failure: a malformed file, a
// schema violation or contradictory table contents. Process start aborts on
// it.
type ConfigError struct {
	File    string
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("table config error in %s: %s: %v", e.File, e.Message, e.Cause)
	}
	return fmt.Sprintf("table config error in %s: %s", e.File, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}
