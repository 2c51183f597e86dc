package realtime

type ConnectionState int

const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	// StateConfiguring is held while the initial session.update is sent.
	StateConfiguring
	StateActive
	// StateClosing is held while Disconnect waits for the receive loop.
	StateClosing
)

func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConfiguring:
		return "configuring"
	case StateActive:
		return "active"
	case StateClosing:
		return "closing"
	}
	return "unknown"
}
