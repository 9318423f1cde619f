package cipher

import (
	"github.com/RowanDark/cipherkit/internal/logging"
)

// record emits a best-effort audit event. Audit failures never fail the
// cipher operation that triggered them.
func (o *options) record(name string, event logging.EventType, decision logging.Decision, reason string, metadata map[string]any) {
	if o == nil || o.audit == nil {
		return
	}

	_ = o.audit.Emit(logging.AuditEvent{
		EventType: event,
		Cipher:    name,
		Decision:  decision,
		Reason:    reason,
		Metadata:  metadata,
	})
}
