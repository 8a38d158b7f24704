// Package api implements the HTTP REST API and WebSocket server for Podlink.
//
// This package provides:
//   - REST endpoints for command dispatch, schedule management, and telemetry
//   - WebSocket hub for real-time event broadcasts (vitals samples,
//     committed schedules, command acknowledgements)
//   - Optional JWT bearer authentication
//   - Middleware stack (request ID, logging, recovery, CORS, body limits)
//
// # Architecture
//
// The API server sits between callers (the host home-automation platform,
// dashboards, scripts) and the mediation engine. Commands and schedule
// writes flow through engine validation before anything reaches the pod;
// telemetry reads come from the poller's cache and never touch the device.
//
// # Security
//
// When a JWT secret is configured, every /api/v1 route except /health
// requires a valid bearer token. With no secret the API runs open, which
// is acceptable only on a trusted LAN segment.
package api
