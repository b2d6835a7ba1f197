package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/api/v1/domains/{domain}/mobile-workers", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	counter := httpRequests.WithLabelValues(http.MethodGet, "/api/v1/domains/{domain}/mobile-workers", "418")
	before := testutil.ToFloat64(counter)

	for _, domain := range []string{"a", "b"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/domains/"+domain+"/mobile-workers", nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}

func TestObserveListPage(t *testing.T) {
	ok := listPages.WithLabelValues("test_list", "ok")
	failed := listPages.WithLabelValues("test_list", "error")
	okBefore, failedBefore := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	ObserveListPage("test_list", nil)
	ObserveListPage("test_list", errors.New("boom"))
	ObserveListPage("test_list", nil)

	assert.Equal(t, okBefore+2, testutil.ToFloat64(ok))
	assert.Equal(t, failedBefore+1, testutil.ToFloat64(failed))
}

func TestHandlerServesMetrics(t *testing.T) {
	ObserveListPage("served_list", nil)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `listkit_list_pages_total{list="served_list",result="ok"}`)
}
