package providers

import "fmt"

// AutomationError A provider-local failure with a category tag the event stream
// carries, so the UI can tell a missing selector from a crashed driver.
type AutomationError struct {
	Category string
	Message  string
}

func (err *AutomationError) Error() string {
	return fmt.Sprintf("%s: %s", err.Category, err.Message)
}

func Automation(category, format string, args ...interface{}) *AutomationError {
	return &AutomationError{Category: category, Message: fmt.Sprintf(format, args...)}
}
