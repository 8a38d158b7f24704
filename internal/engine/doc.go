// Package engine is the mediation core between callers and the pod.
//
// It owns the two write paths:
//
//   - Execute: validate a raw command against the closed registry,
//     resolve its device ID, dispatch one request to the device, and
//     publish an acknowledgement.
//   - SetSchedule: convert and validate a partial schedule fragment,
//     then per targeted side merge it onto the latest committed week,
//     dispatch the per-day writes, and commit only on full success.
//
// Schedule writes are serialized per side; commands never take
// schedule locks. Multi-side requests report per-side outcomes, and a
// mixed outcome surfaces as ErrPartialFailure with every side's error
// preserved.
//
// Acknowledgements and committed schedule state fan out through the
// Publisher interface to MQTT and the websocket hub.
package engine
