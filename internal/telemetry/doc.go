// Package telemetry polls the pod's vitals and normalizes them into a
// canonical per-side sample shape.
//
// Raw vitals fields that the device omits or nulls become nil pointers
// in the Sample, never zero values, so consumers can tell "no reading"
// from "a reading of zero". All samples from one poll cycle share a
// single timestamp.
//
// The Poller runs as an independent background task on a fixed
// interval. A failed cycle is reported and logged but never stops
// subsequent cycles, and polling never blocks command or schedule
// dispatch.
package telemetry
