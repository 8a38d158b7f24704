package api

import (
	"github.com/awender/podlink/internal/bridges/freesleep"
	"github.com/awender/podlink/internal/engine"
	"github.com/awender/podlink/internal/pod"
	"github.com/awender/podlink/internal/schedule"
	"github.com/awender/podlink/internal/telemetry"
)

// HubPublisher adapts the WebSocket hub to the engine's publisher
// interface and the telemetry sink interface, broadcasting events to
// subscribed clients.
type HubPublisher struct {
	hub *Hub
}

// NewHubPublisher creates a publisher over a running hub.
func NewHubPublisher(hub *Hub) *HubPublisher {
	return &HubPublisher{hub: hub}
}

// PublishCommandAck broadcasts a command result on "command.executed".
func (p *HubPublisher) PublishCommandAck(result engine.CommandResult) {
	p.hub.Broadcast(ChannelCommandExecuted, result)
}

// PublishSchedule broadcasts a committed week on "schedule.updated".
func (p *HubPublisher) PublishSchedule(deviceID string, _ pod.SideIndex, week schedule.WeeklySchedule) {
	p.hub.Broadcast(ChannelScheduleUpdated, map[string]any{
		"device_id": deviceID,
		"schedule":  week,
	})
}

// PublishSample broadcasts a vitals sample on "telemetry.sample".
func (p *HubPublisher) PublishSample(side pod.SideIndex, sample telemetry.Sample) {
	p.hub.Broadcast(ChannelTelemetrySample, map[string]any{
		"side":   side.String(),
		"sample": sample,
	})
}

// PublishStatus is part of the telemetry sink interface. Status
// snapshots are served from the REST API, not broadcast.
func (p *HubPublisher) PublishStatus(_ freesleep.DeviceStatus) {}
