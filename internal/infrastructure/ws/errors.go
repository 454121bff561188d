package ws

import "errors"

// ErrTooManyConnections is returned when a user exceeds the per-user socket
// limit on this instance.
var ErrTooManyConnections = errors.New("too many connections for user")
