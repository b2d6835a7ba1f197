package middlewarex

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type ctxKey string

const (
	ctxDomain ctxKey = "domain"
)

func WithDomain(ctx context.Context, domain string) context.Context {
	return context.WithValue(ctx, ctxDomain, domain)
}

func Domain(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxDomain).(string)
	return v, ok && v != ""
}

// ProjectDomain copies the {domain} URL parameter into the request context.
func ProjectDomain(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		domain := chi.URLParam(r, "domain")
		if domain == "" {
			http.Error(w, "domain not found", http.StatusNotFound)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithDomain(r.Context(), domain)))
	})
}
