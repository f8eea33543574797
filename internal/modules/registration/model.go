// README: Operator registration (MTOP) lookup results.
package registration

import "errors"

// Status is advisory feedback shown to the rider; it never blocks a trip.
type Status string

const (
	StatusRegistered    Status = "registered"
	StatusNotRegistered Status = "not_registered"
	StatusUnknown       Status = "unknown"
)

var ErrLookup = errors.New("registration lookup failed")
