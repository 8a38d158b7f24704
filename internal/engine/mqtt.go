package engine

import (
	"encoding/json"

	"github.com/awender/podlink/internal/infrastructure/logging"
	"github.com/awender/podlink/internal/infrastructure/mqtt"
	"github.com/awender/podlink/internal/pod"
	"github.com/awender/podlink/internal/schedule"
)

// MQTTPublisher fans engine output out to the host platform's broker.
//
// Command acknowledgements go to the per-request ack topic;
// committed schedules go to the per-side retained state topic so late
// subscribers always see the current week.
type MQTTPublisher struct {
	client *mqtt.Client
	topics mqtt.Topics
	qos    byte
	logger *logging.Logger
}

// NewMQTTPublisher creates a publisher over a connected MQTT client.
func NewMQTTPublisher(client *mqtt.Client, qos byte, logger *logging.Logger) *MQTTPublisher {
	if logger == nil {
		logger = logging.Default()
	}
	return &MQTTPublisher{
		client: client,
		qos:    qos,
		logger: logger.With("component", "mqtt-publisher"),
	}
}

// PublishCommandAck publishes a command result to its ack topic.
// Publish failures are logged, not returned; acks are best-effort.
func (p *MQTTPublisher) PublishCommandAck(result CommandResult) {
	payload, err := json.Marshal(result)
	if err != nil {
		p.logger.Error("marshal command ack", "request_id", result.RequestID, "error", err)
		return
	}
	topic := p.topics.CommandAck(result.RequestID)
	if err := p.client.Publish(topic, payload, p.qos, false); err != nil {
		p.logger.Warn("publish command ack", "topic", topic, "error", err)
	}
}

// PublishSchedule publishes a committed week to the side's retained
// state topic.
func (p *MQTTPublisher) PublishSchedule(deviceID string, side pod.SideIndex, week schedule.WeeklySchedule) {
	payload, err := json.Marshal(map[string]any{
		"device_id": deviceID,
		"schedule":  week,
	})
	if err != nil {
		p.logger.Error("marshal schedule state", "device_id", deviceID, "error", err)
		return
	}
	topic := p.topics.SideSchedule(side.String())
	if err := p.client.PublishRetained(topic, payload); err != nil {
		p.logger.Warn("publish schedule state", "topic", topic, "error", err)
	}
}
