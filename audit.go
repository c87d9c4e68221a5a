package goSentinel

import (
	"io"

	"github.com/MrEthical07/goSentinel/internal/audit"
)

// Audit event types.
const (
	EventConstantCreated     = "constant.created"
	EventConstantBound       = "constant.bound"
	EventDefaultMaterialized = "constant.default_materialized"
	EventBindRejected        = "constant.rebind_rejected"
	EventBoolBound           = "constant.bool_bound"
	EventRegistryReset       = "registry.reset"
)

// AuditEvent is one constant or registry transition.
type AuditEvent = audit.Event

// AuditSink receives audit events from the registry's dispatcher goroutine.
type AuditSink = audit.Sink

// NoOpSink discards audit events.
type NoOpSink = audit.NoOpSink

// ChannelSink delivers audit events on a buffered channel.
type ChannelSink = audit.ChannelSink

// JSONWriterSink writes audit events as JSON lines.
type JSONWriterSink = audit.JSONWriterSink

// NewChannelSink returns a ChannelSink with the given buffer.
func NewChannelSink(buffer int) *ChannelSink {
	return audit.NewChannelSink(buffer)
}

// NewJSONWriterSink returns a sink writing to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return audit.NewJSONWriterSink(w)
}
