package profile

import "fmt"

// MalformedProfileError reports a row that cannot become a valid profile.
// Malformed input is fatal to the whole run: nothing scored from a partially
// parsed pool is trustworthy.
type MalformedProfileError struct {
	File   string
	Row    int
	Field  string
	Reason string
}

func (e *MalformedProfileError) Error() string {
	return fmt.Sprintf("malformed profile in %s row %d, field %q: %s", e.File, e.Row, e.Field, e.Reason)
}
