package telemetry

import (
	"encoding/json"
	"time"

	"github.com/awender/podlink/internal/bridges/freesleep"
	"github.com/awender/podlink/internal/infrastructure/influxdb"
	"github.com/awender/podlink/internal/infrastructure/logging"
	"github.com/awender/podlink/internal/infrastructure/mqtt"
	"github.com/awender/podlink/internal/pod"
)

// MQTTSink publishes poll results to the host platform's broker.
// Samples and pod status are retained so late subscribers see the
// latest state immediately.
type MQTTSink struct {
	client *mqtt.Client
	topics mqtt.Topics
	logger *logging.Logger
}

// NewMQTTSink creates a sink over a connected MQTT client.
func NewMQTTSink(client *mqtt.Client, logger *logging.Logger) *MQTTSink {
	if logger == nil {
		logger = logging.Default()
	}
	return &MQTTSink{
		client: client,
		logger: logger.With("component", "mqtt-sink"),
	}
}

// PublishSample publishes one side's vitals to its retained state topic.
func (s *MQTTSink) PublishSample(side pod.SideIndex, sample Sample) {
	payload, err := json.Marshal(sample)
	if err != nil {
		s.logger.Error("marshal vitals sample", "side", side.String(), "error", err)
		return
	}
	topic := s.topics.SideVitals(side.String())
	if err := s.client.PublishRetained(topic, payload); err != nil {
		s.logger.Warn("publish vitals sample", "topic", topic, "error", err)
	}
}

// PublishStatus publishes the pod status snapshot to its retained topic.
func (s *MQTTSink) PublishStatus(status freesleep.DeviceStatus) {
	payload, err := json.Marshal(status)
	if err != nil {
		s.logger.Error("marshal pod status", "error", err)
		return
	}
	topic := s.topics.PodStatus()
	if err := s.client.PublishRetained(topic, payload); err != nil {
		s.logger.Warn("publish pod status", "topic", topic, "error", err)
	}
}

// InfluxSink records poll results as time-series points.
type InfluxSink struct {
	client *influxdb.Client
	pods   *pod.Registry
}

// NewInfluxSink creates a sink over a connected InfluxDB client.
// Device IDs for tagging come from the pod registry.
func NewInfluxSink(client *influxdb.Client, pods *pod.Registry) *InfluxSink {
	return &InfluxSink{client: client, pods: pods}
}

// PublishSample writes one side's vitals sample.
func (s *InfluxSink) PublishSample(side pod.SideIndex, sample Sample) {
	deviceID, ok := s.pods.DeviceID(pod.SideTarget(side))
	if !ok {
		return
	}
	s.client.WriteVitals(deviceID, sample.HeartRate, sample.RespirationRate, sample.HRV, sample.Timestamp)
}

// PublishStatus writes per-side thermal state and pod hardware state.
func (s *InfluxSink) PublishStatus(status freesleep.DeviceStatus) {
	at := time.Now().UTC()
	for _, side := range pod.Sides() {
		deviceID, ok := s.pods.DeviceID(pod.SideTarget(side))
		if !ok {
			continue
		}
		st := status.SideFor(side)
		s.client.WriteSideTemperature(deviceID, st.CurrentTemperatureF, st.TargetTemperatureF, st.IsOn, at)
	}
	if podID, ok := s.pods.DeviceID(pod.PodTarget()); ok {
		s.client.WritePodStatus(podID, status.WaterLevel, status.IsPriming, at)
	}
}
