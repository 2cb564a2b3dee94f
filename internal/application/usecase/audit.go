package usecase

import "github.com/jhoicas/inventory-core/internal/application/ports"

func auditOrNop(a ports.AuditTrail) ports.AuditTrail {
	if a == nil {
		return ports.NopAuditTrail{}
	}
	return a
}
