package static

import "time"

// Transfer outcomes reported to Metrics.
const (
	OutcomeCompleted = "completed"
	OutcomeStopped   = "stopped"
	OutcomeFailed    = "failed"
)

// Metrics receives observations from the file responder.
//
// A nil Metrics disables collection. Implementations must be safe for
// concurrent use.
type Metrics interface {
	// RecordResponse records the status code written for a request.
	RecordResponse(method string, status int)

	// RecordBytesSent records body bytes handed to a channel.
	RecordBytesSent(n int64)

	// RecordTransferStarted records a transfer registered on a channel.
	RecordTransferStarted()

	// RecordTransfer records a finished transfer and how long it ran.
	RecordTransfer(outcome string, duration time.Duration)
}
