package telemetry

import "errors"

// ErrTelemetryUnavailable indicates one failed poll cycle. It does not
// abort subsequent cycles and does not invalidate previously reported
// samples.
var ErrTelemetryUnavailable = errors.New("telemetry: unavailable")
