package producer

import "fmt"

// State is the lifecycle phase of a Producer.
type State int32

const (
	// Listening waits for a display to connect.
	Listening State = iota
	// Connected has accepted a display and is about to stream.
	Connected
	// Streaming runs collection cycles and sends payloads.
	Streaming
	// Terminated means the session ended. The Producer listens again
	// unless it is shutting down.
	Terminated
)

func (s State) String() string {
	switch s {
	case Listening:
		return "listening"
	case Connected:
		return "connected"
	case Streaming:
		return "streaming"
	case Terminated:
		return "terminated"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}
