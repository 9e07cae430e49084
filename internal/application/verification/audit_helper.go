package verification

import "github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"

func domainCode(err error) string {
	if err == nil {
		return ""
	}
	if c := domain.CodeOf(err); c != "" {
		return c
	}
	return "non_domain_error"
}

func (s *Service) auditFn(action string, base map[string]string) func(result string, err error, extra map[string]string) {
	return func(result string, err error, extra map[string]string) {
		fields := make(map[string]string, len(base)+len(extra)+2)
		for k, v := range base {
			fields[k] = v
		}
		fields["result"] = result
		if err != nil {
			fields["error_code"] = domainCode(err)
		}
		for k, v := range extra {
			fields[k] = v
		}
		s.audit(action, fields)
	}
}
