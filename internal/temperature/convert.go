package temperature

import (
	"fmt"
	"math"
	"strings"
)

// Unit is a recognised temperature unit token.
type Unit string

// Supported input units.
const (
	Celsius    Unit = "C"
	Fahrenheit Unit = "F"
	Kelvin     Unit = "K"
)

// absoluteZeroC is 0 K expressed in °C.
const absoluteZeroC = -273.15

// ParseUnit normalises a unit token ("c", "°C", "celsius", ...) to a Unit.
func ParseUnit(token string) (Unit, error) {
	switch strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(token), "°")) {
	case "C", "CELSIUS":
		return Celsius, nil
	case "F", "FAHRENHEIT":
		return Fahrenheit, nil
	case "K", "KELVIN":
		return Kelvin, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedUnit, token)
	}
}

// Converter converts external-unit temperatures to the canonical
// internal unit (°F), snapped to the device's resolution.
//
// A Converter is immutable and safe for concurrent use.
type Converter struct {
	step float64
}

// NewConverter creates a Converter for the given device resolution.
// Step must be positive; the device's native resolution is 0.5 °F.
func NewConverter(step float64) (*Converter, error) {
	if step <= 0 {
		return nil, fmt.Errorf("temperature: step must be positive, got %v", step)
	}
	return &Converter{step: step}, nil
}

// Convert converts value from the given unit to canonical °F, rounded
// half-to-even onto the step grid.
//
// Parameters:
//   - value: The temperature in the source unit
//   - from: The source unit
//
// Returns:
//   - float64: The canonical value in °F
//   - error: ErrUnsupportedUnit if the unit is not recognised
func (c *Converter) Convert(value float64, from Unit) (float64, error) {
	var fahrenheit float64
	switch from {
	case Fahrenheit:
		fahrenheit = value
	case Celsius:
		fahrenheit = value*9/5 + 32
	case Kelvin:
		fahrenheit = (value+absoluteZeroC)*9/5 + 32
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedUnit, string(from))
	}
	return c.Snap(fahrenheit), nil
}

// Snap rounds a °F value half-to-even onto the step grid.
func (c *Converter) Snap(fahrenheit float64) float64 {
	return math.RoundToEven(fahrenheit/c.step) * c.step
}

// Step returns the configured device resolution in °F.
func (c *Converter) Step() float64 {
	return c.step
}

// ToCelsius converts a canonical °F value back to °C for presentation.
// The result is not snapped; presentation layers round as they see fit.
func ToCelsius(fahrenheit float64) float64 {
	return (fahrenheit - 32) * 5 / 9
}
