package temperature

import "errors"

// ErrUnsupportedUnit indicates a unit token outside C, F, K.
var ErrUnsupportedUnit = errors.New("temperature: unsupported unit")
