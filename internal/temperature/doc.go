// Package temperature converts temperatures between external units and
// the canonical internal representation.
//
// The pod firmware works exclusively in degrees Fahrenheit, so that is
// the canonical unit. Celsius and Kelvin inputs are converted at the
// boundary; everything past the converter deals in °F only.
//
// Converted values are snapped to the device's supported resolution
// using round-half-to-even, so repeated conversion of the same input
// is stable and does not drift.
package temperature
