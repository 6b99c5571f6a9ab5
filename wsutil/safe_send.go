// Package wsutil holds helpers shared by the transport and the session loop.
package wsutil

import "log/slog"

// SafeSend delivers data without blocking or panicking. A full channel drops the message
// and reports false; a closed channel is recovered and also reports false.
func SafeSend(ch chan []byte, data []byte) (sent bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Debug("send on closed channel", "tag", "wsutil", "panic", r)
			sent = false
		}
	}()
	select {
	case ch <- data:
		return true
	default:
		slog.Warn("send buffer full, dropping message", "tag", "wsutil", "bytes", len(data))
		return false
	}
}
