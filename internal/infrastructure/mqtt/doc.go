// Package mqtt provides MQTT client connectivity for Podlink.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// Podlink uses MQTT as the outbound entity-state channel to the host
// platform: retained per-side vitals and schedule state, command
// acknowledgements, and an online/offline system status with LWT.
//
//	Podlink Core → MQTT Broker → Host-platform adapters
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//   - Message payloads are not encrypted beyond TLS transport
//
// # Performance Characteristics
//
//   - Connection: <1 second to local broker
//   - Publish latency: <10ms for QoS 1 to local broker
//   - Reconnect: Exponential backoff 1s-60s with jitter
//   - Message throughput: Broker-limited (typically 10K+ msg/sec)
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Publish a retained vitals sample for the left side
//	topic := mqtt.Topics{}.SideVitals("left")
//	client.PublishRetained(topic, []byte(`{"heart_rate":57}`))
package mqtt
