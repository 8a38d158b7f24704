package mqtt

import "fmt"

// Topic prefixes for the Podlink MQTT hierarchy.
//
// State topics are retained so host-platform adapters that reconnect
// immediately see the latest published value.
const (
	// TopicPrefix is the base for all Podlink topics.
	TopicPrefix = "podlink"

	// TopicPrefixState is the base for retained entity-state topics.
	TopicPrefixState = "podlink/state"

	// TopicPrefixAck is the base for command acknowledgement topics.
	TopicPrefixAck = "podlink/ack"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "podlink/system"
)

// Topics provides builders for Podlink MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	vitalsTopic := topics.SideVitals("left")
//	// Returns: "podlink/state/side/left/vitals"
type Topics struct{}

// SideVitals returns the retained vitals state topic for a side.
//
// Example: podlink/state/side/left/vitals
func (Topics) SideVitals(side string) string {
	return fmt.Sprintf("%s/side/%s/vitals", TopicPrefixState, side)
}

// SideSchedule returns the retained schedule state topic for a side.
//
// Example: podlink/state/side/right/schedule
func (Topics) SideSchedule(side string) string {
	return fmt.Sprintf("%s/side/%s/schedule", TopicPrefixState, side)
}

// PodStatus returns the retained pod status snapshot topic.
//
// Example: podlink/state/pod/status
func (Topics) PodStatus() string {
	return fmt.Sprintf("%s/pod/status", TopicPrefixState)
}

// CommandAck returns the acknowledgement topic for one command request.
//
// Example: podlink/ack/command/req-abc123
func (Topics) CommandAck(requestID string) string {
	return fmt.Sprintf("%s/command/%s", TopicPrefixAck, requestID)
}

// SystemStatus returns the online/offline status topic, also used as
// the broker LWT target.
//
// Example: podlink/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllSideStates returns a pattern matching every per-side state topic.
//
// Pattern: podlink/state/side/+/+
func (Topics) AllSideStates() string {
	return fmt.Sprintf("%s/side/+/+", TopicPrefixState)
}

// AllCommandAcks returns a pattern matching every command ack.
//
// Pattern: podlink/ack/command/+
func (Topics) AllCommandAcks() string {
	return fmt.Sprintf("%s/command/+", TopicPrefixAck)
}

// AllTopics returns a pattern matching all Podlink topics.
// Use with caution - this receives ALL traffic.
//
// Pattern: podlink/#
func (Topics) AllTopics() string {
	return "podlink/#"
}
