package event

import "time"

const DetectionVerdictDestination string = "detection_verdict"

// DetectionVerdictMessage is published for every transaction that required step-up.
type DetectionVerdictMessage struct {
	EventID      string    `json:"event_id"`
	RequestID    string    `json:"request_id"`
	ChainID      int64     `json:"chain_id"`
	ProtocolName string    `json:"protocol_name"`
	Blocked      bool      `json:"blocked"`
	Errored      bool      `json:"errored"`
	Message      string    `json:"message"`
	DecidedAt    time.Time `json:"decided_at"`
}
