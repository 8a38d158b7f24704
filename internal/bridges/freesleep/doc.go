// Package freesleep is the HTTP client for the free-sleep pod
// firmware's local API.
//
// The device exposes a small JSON surface: device status, settings,
// services, per-side per-day schedule writes, one-shot jobs, and a
// vitals summary. This package owns all outbound traffic to it, the
// mapping from validated commands to wire writes included.
//
// Retry discipline: network-class failures (connection errors,
// timeouts, 5xx responses) are retried with exponential backoff, but
// only for idempotent operations. Responses the device explicitly
// refuses (4xx) surface immediately as ErrDeviceRejected and are
// never retried. Non-idempotent commands (priming, reboot) get
// exactly one attempt regardless of failure class.
package freesleep
