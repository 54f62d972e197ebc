package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"clinic-backend/internal/delivery/http/handler"
	"clinic-backend/internal/delivery/http/middleware"
	"clinic-backend/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func newTestRouter() http.Handler {
	collector := metrics.NewCollector("clinic", prometheus.NewRegistry())
	return NewRouter(
		&handler.AuthHandler{},
		&handler.MedicineHandler{},
		&handler.AttributeHandler{},
		&handler.CatalogHandler{},
		&handler.ServiceHandler{},
		&handler.ServiceBookingHandler{},
		&handler.AppointmentHandler{},
		&handler.PrescriptionHandler{},
		&handler.AuditLogHandler{},
		&middleware.AuthMiddleware{},
		middleware.NewCORSMiddleware(),
		middleware.NewMetricsMiddleware(collector),
		collector.Handler(),
	).Setup()
}

func TestRouter_CORS(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		name   string
		method string
		path   string
		code   int
	}{
		{name: "preflight on secured route", method: http.MethodOptions, path: "/api/v1/service-bookings/me", code: http.StatusOK},
		{name: "preflight on unknown path", method: http.MethodOptions, path: "/api/v1/nowhere", code: http.StatusOK},
		{name: "health", method: http.MethodGet, path: "/api/v1/health", code: http.StatusOK},
		{name: "unknown path", method: http.MethodGet, path: "/api/v1/nowhere", code: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
		})
	}
}
