package auth

import (
	"testing"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
)

func requireDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error code=%q, got nil", code)
	}
	if !domain.Is(err, code) {
		t.Fatalf("expected code=%q, got err=%v", code, err)
	}
}

func requireAuditAction(t *testing.T, audits []auditEntry, action, result string) map[string]string {
	t.Helper()
	for i := len(audits) - 1; i >= 0; i-- {
		if audits[i].action == action && audits[i].fields["result"] == result {
			return audits[i].fields
		}
	}
	t.Fatalf("expected audit %s result=%s, got %+v", action, result, audits)
	return nil
}
