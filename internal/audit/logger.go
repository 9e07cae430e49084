package audit

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	appCtx "github.com/baechuer/real-time-ressys/services/verification-service/internal/pkg/context"
)

// Logger writes structured audit events for identity and verification actions.
type Logger struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Logger {
	return &Logger{
		log: log.With().Bool("audit", true).Logger(),
	}
}

// Record logs one audit event. Failed outcomes go out at warn level.
// Email fields are masked. The HTTP request id is logged as correlation_id since
// request_id names the verification request in workflow events.
func (l *Logger) Record(ctx context.Context, action string, fields map[string]string) {
	evt := l.log.Info()
	if fields["result"] == "error" {
		evt = l.log.Warn()
	}
	evt = evt.Str("action", action)
	if rid := appCtx.RequestID(ctx); rid != "" {
		evt = evt.Str("correlation_id", rid)
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := fields[k]
		if k == "email" || strings.HasSuffix(k, "_email") {
			v = maskEmail(v)
		}
		evt = evt.Str(k, v)
	}
	evt.Msg("audit")
}

// Func adapts the logger to the services' WithAudit hook.
func (l *Logger) Func() func(action string, fields map[string]string) {
	return func(action string, fields map[string]string) {
		l.Record(context.Background(), action, fields)
	}
}

// maskEmail keeps the first two characters and the domain.
func maskEmail(email string) string {
	if len(email) < 5 {
		return "***"
	}
	at := strings.IndexByte(email, '@')
	switch {
	case at < 0:
		return "***"
	case at < 2:
		return email[:1] + "***" + email[at:]
	}
	return email[:2] + "***" + email[at:]
}
