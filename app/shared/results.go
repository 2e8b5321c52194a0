package shared

// OperationResult carries the outcome of a service operation. Exactly one of
// Success or Failure is set for operations that resolve either way; both may
// be nil for operations that apply silently (ticks, idempotent replays).
type OperationResult struct {
	Success any
	Failure any
}

// Result is one derived fact produced by a handler: the topic to publish on
// and the payload to marshal.
type Result struct {
	Topic   string
	Payload any
}
