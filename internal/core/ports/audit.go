package ports

import (
	"context"

	"github.com/roncloudtech/hospital-remittance/internal/core/domain"
)

// AuditRepository defines persistence for the append-only audit log.
type AuditRepository interface {
	Insert(ctx context.Context, e *domain.AuditEntry) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditEntry, int64, error)
}

// AuditRecorder is the write-side view services and the idle reaper use.
// Recording is best-effort at every call site: failures are logged by the
// caller and never abort the surrounding operation.
type AuditRecorder interface {
	Insert(ctx context.Context, e *domain.AuditEntry) error
}
