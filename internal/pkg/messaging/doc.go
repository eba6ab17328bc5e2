// Package messaging publishes events to a message broker.
//
// The service only produces events (the detection audit trail), so the
// abstraction is publish-only. Implementations exist for NATS, Kafka, NSQ
// and Google Pub/Sub, plus a no-op publisher for deployments without a broker.
package messaging
