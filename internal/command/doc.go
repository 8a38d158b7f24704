// Package command validates raw command name/value pairs against a
// closed registry.
//
// Every accepted command name is declared in the registry together
// with its value requirement (none, boolean, integer, time-of-day),
// an optional inclusive integer range, whether the command may be
// retried, and whether it addresses a single side or the whole pod.
// Validation happens once, up front; everything past Validate deals
// only in dispatch-ready Validated values.
package command
