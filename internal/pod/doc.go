// Package pod defines the core identity model for the bed device.
//
// A pod has exactly two independently controllable sides, left and
// right. Most operations target a single side; a few (priming,
// reboot, LED brightness) apply to the pod as a whole.
//
// The package also provides the Registry, a fixed mapping between
// host-platform device identifiers and pod targets. The mapping is
// built once at startup from configuration and never changes at
// runtime.
package pod
