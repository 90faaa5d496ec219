package metrics

// Class categorizes the result of one completed request attempt.
type Class int

const (
	// Success means the server responded with the expected status code.
	Success Class = iota
	// StatusMismatch means the server responded, but not with the expected
	// status code.
	StatusMismatch
	// TransportError means the request never completed (connection failure,
	// timeout, DNS error and friends).
	TransportError
)

func (c Class) String() string {
	switch c {
	case Success:
		return "success"
	case StatusMismatch:
		return "status_mismatch"
	case TransportError:
		return "transport_error"
	default:
		return "unknown"
	}
}

// Outcome is the immutable record of one request attempt. Outcomes are
// appended in completion order, which need not match issuance order.
type Outcome struct {
	LatencySeconds float64
	Class          Class
}
