package http_handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/application/authz"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/transport/http/middleware"
)

// principal returns the caller injected by the Auth middleware.
func principal(r *http.Request) (authz.Principal, error) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		return authz.Principal{}, domain.ErrTokenInvalid()
	}
	return p, nil
}

func urlID(r *http.Request, name string) (string, error) {
	id := strings.TrimSpace(chi.URLParam(r, name))
	if id == "" {
		return "", domain.ErrMissingField(name)
	}
	return id, nil
}

// pageFromQuery reads ?page=&limit=; absent values fall back to defaults.
func pageFromQuery(r *http.Request) (domain.Page, error) {
	q := r.URL.Query()
	var p domain.Page

	if v := strings.TrimSpace(q.Get("page")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return domain.Page{}, domain.ErrInvalidField("page", "must be a positive integer")
		}
		p.Page = n
	}
	if v := strings.TrimSpace(q.Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return domain.Page{}, domain.ErrInvalidField("limit", "must be a positive integer")
		}
		p.Limit = n
	}
	return p.Normalize(), nil
}
