package http

import (
	"net/http"

	"clinic-backend/internal/delivery/http/handler"
	"clinic-backend/internal/delivery/http/middleware"
	"clinic-backend/internal/domain/entity"

	"github.com/gorilla/mux"
)

type Router struct {
	router                *mux.Router
	authHandler           *handler.AuthHandler
	medicineHandler       *handler.MedicineHandler
	attributeHandler      *handler.AttributeHandler
	catalogHandler        *handler.CatalogHandler
	serviceHandler        *handler.ServiceHandler
	serviceBookingHandler *handler.ServiceBookingHandler
	appointmentHandler    *handler.AppointmentHandler
	prescriptionHandler   *handler.PrescriptionHandler
	auditLogHandler       *handler.AuditLogHandler
	authMiddleware        *middleware.AuthMiddleware
	corsMiddleware        *middleware.CORSMiddleware
	metricsMiddleware     *middleware.MetricsMiddleware
	metricsHandler        http.Handler
}

func NewRouter(
	authHandler *handler.AuthHandler,
	medicineHandler *handler.MedicineHandler,
	attributeHandler *handler.AttributeHandler,
	catalogHandler *handler.CatalogHandler,
	serviceHandler *handler.ServiceHandler,
	serviceBookingHandler *handler.ServiceBookingHandler,
	appointmentHandler *handler.AppointmentHandler,
	prescriptionHandler *handler.PrescriptionHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	metricsMiddleware *middleware.MetricsMiddleware,
	metricsHandler http.Handler,
) *Router {
	return &Router{
		router:                mux.NewRouter(),
		authHandler:           authHandler,
		medicineHandler:       medicineHandler,
		attributeHandler:      attributeHandler,
		catalogHandler:        catalogHandler,
		serviceHandler:        serviceHandler,
		serviceBookingHandler: serviceBookingHandler,
		appointmentHandler:    appointmentHandler,
		prescriptionHandler:   prescriptionHandler,
		auditLogHandler:       auditLogHandler,
		authMiddleware:        authMiddleware,
		corsMiddleware:        corsMiddleware,
		metricsMiddleware:     metricsMiddleware,
		metricsHandler:        metricsHandler,
	}
}

// Setup registers every route. CORS wraps the root router so preflight
// requests are answered even for paths no route matches.
func (r *Router) Setup() http.Handler {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check and metrics
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)
	api.Handle("/metrics", r.metricsHandler).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register/patient", r.authHandler.RegisterPatient).Methods(http.MethodPost)
	auth.HandleFunc("/register/doctor", r.authHandler.RegisterDoctor).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	r.medicineRoutes(api)
	r.serviceRoutes(api)
	r.bookingRoutes(api)
	r.appointmentRoutes(api)
	r.prescriptionRoutes(api)

	// Admin routes (protected - admin only)
	admin := r.secured(api, "/admin", entity.RoleAdmin)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id:[0-9]+}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	r.router.Use(r.metricsMiddleware.Handle)

	return r.corsMiddleware.Handle(r.router)
}

// secured returns a subrouter under prefix that requires a valid token and,
// when roles are given, one of those roles
func (r *Router) secured(parent *mux.Router, prefix string, roles ...string) *mux.Router {
	sub := parent.PathPrefix(prefix).Subrouter()
	sub.Use(r.authMiddleware.Authenticate)
	if len(roles) > 0 {
		sub.Use(middleware.RequireRole(roles...))
	}
	return sub
}

func (r *Router) medicineRoutes(api *mux.Router) {
	// Catalogue mutations (admin)
	medicinesAdmin := r.secured(api, "/medicines", entity.RoleAdmin)
	medicinesAdmin.HandleFunc("/save", r.medicineHandler.SaveWithDetails).Methods(http.MethodPost)
	medicinesAdmin.HandleFunc("/delete", r.medicineHandler.Delete).Methods(http.MethodPost)

	attributesAdmin := r.secured(api, "/attributes", entity.RoleAdmin)
	attributesAdmin.HandleFunc("/save", r.attributeHandler.Save).Methods(http.MethodPost)
	attributesAdmin.HandleFunc("/delete", r.attributeHandler.Delete).Methods(http.MethodPost)

	// Catalogue reads (public)
	api.HandleFunc("/medicines", r.medicineHandler.GetAll).Methods(http.MethodGet)
	api.HandleFunc("/medicines/search", r.medicineHandler.Search).Methods(http.MethodGet)
	api.HandleFunc("/medicines/newest", r.medicineHandler.GetNewest).Methods(http.MethodGet)
	api.HandleFunc("/medicines/by-code", r.medicineHandler.GetByCode).Methods(http.MethodGet)
	api.HandleFunc("/medicines/by-name", r.medicineHandler.FindByName).Methods(http.MethodGet)
	api.HandleFunc("/medicines/{id:[0-9]+}", r.medicineHandler.GetByID).Methods(http.MethodGet)
	api.HandleFunc("/medicines/{id:[0-9]+}/details", r.medicineHandler.GetDetails).Methods(http.MethodGet)
	api.HandleFunc("/medicines/{id:[0-9]+}/attributes", r.attributeHandler.GetByMedicineID).Methods(http.MethodGet)

	api.HandleFunc("/attributes", r.attributeHandler.GetAll).Methods(http.MethodGet)
	api.HandleFunc("/attributes/{id:[0-9]+}", r.attributeHandler.GetByID).Methods(http.MethodGet)

	api.HandleFunc("/brands", r.catalogHandler.GetBrands).Methods(http.MethodGet)
	api.HandleFunc("/categories", r.catalogHandler.GetCategories).Methods(http.MethodGet)
}

func (r *Router) serviceRoutes(api *mux.Router) {
	servicesAdmin := r.secured(api, "/services", entity.RoleAdmin)
	servicesAdmin.HandleFunc("/save-with-doctors", r.serviceHandler.SaveWithDoctors).Methods(http.MethodPost)
	servicesAdmin.HandleFunc("", r.serviceHandler.Delete).Methods(http.MethodDelete)

	api.HandleFunc("/services", r.serviceHandler.GetAll).Methods(http.MethodGet)
	api.HandleFunc("/services/by-name", r.serviceHandler.FindByName).Methods(http.MethodGet)
	api.HandleFunc("/services/{id:[0-9]+}", r.serviceHandler.GetByID).Methods(http.MethodGet)
	api.HandleFunc("/services/{id:[0-9]+}/doctors", r.serviceHandler.GetDoctorIDs).Methods(http.MethodGet)
}

func (r *Router) bookingRoutes(api *mux.Router) {
	bookingsAdmin := r.secured(api, "/service-bookings", entity.RoleAdmin)
	bookingsAdmin.HandleFunc("", r.serviceBookingHandler.Delete).Methods(http.MethodDelete)

	bookingsStaff := r.secured(api, "/service-bookings", entity.RoleAdmin, entity.RoleDoctor)
	bookingsStaff.HandleFunc("/{id:[0-9]+}/status-price", r.serviceBookingHandler.UpdateStatusAndPrice).Methods(http.MethodPut)

	// Any authenticated user; /me resolves doctor or patient itself
	bookings := r.secured(api, "/service-bookings")
	bookings.HandleFunc("/me", r.serviceBookingHandler.GetMyBookings).Methods(http.MethodGet)
	bookings.HandleFunc("", r.serviceBookingHandler.GetAll).Methods(http.MethodGet)
	bookings.HandleFunc("/{id:[0-9]+}", r.serviceBookingHandler.GetByID).Methods(http.MethodGet)
	bookings.HandleFunc("/by-service/{id:[0-9]+}", r.serviceBookingHandler.GetByServiceID).Methods(http.MethodGet)
	bookings.HandleFunc("/by-patient/{id:[0-9]+}", r.serviceBookingHandler.GetByPatientID).Methods(http.MethodGet)
	bookings.HandleFunc("/by-status/{status}", r.serviceBookingHandler.GetByStatus).Methods(http.MethodGet)
	bookings.HandleFunc("/save", r.serviceBookingHandler.Save).Methods(http.MethodPost)
	bookings.HandleFunc("/cancel/{id:[0-9]+}", r.serviceBookingHandler.Cancel).Methods(http.MethodPost)
}

func (r *Router) appointmentRoutes(api *mux.Router) {
	appointmentsStaff := r.secured(api, "/appointments", entity.RoleAdmin, entity.RoleDoctor)
	appointmentsStaff.HandleFunc("/save", r.appointmentHandler.Save).Methods(http.MethodPost)
	appointmentsStaff.HandleFunc("/{id:[0-9]+}/status", r.appointmentHandler.UpdateStatus).Methods(http.MethodPut)
	appointmentsStaff.HandleFunc("/{id:[0-9]+}/consultation", r.appointmentHandler.SaveConsultation).Methods(http.MethodPost)
	appointmentsStaff.HandleFunc("", r.appointmentHandler.Delete).Methods(http.MethodDelete)

	appointments := r.secured(api, "/appointments")
	appointments.HandleFunc("", r.appointmentHandler.GetAll).Methods(http.MethodGet)
	appointments.HandleFunc("/{id:[0-9]+}", r.appointmentHandler.GetByID).Methods(http.MethodGet)
	appointments.HandleFunc("/by-doctor/{id:[0-9]+}", r.appointmentHandler.GetByDoctorID).Methods(http.MethodGet)
	appointments.HandleFunc("/by-patient/{id:[0-9]+}", r.appointmentHandler.GetByPatientID).Methods(http.MethodGet)
}

func (r *Router) prescriptionRoutes(api *mux.Router) {
	prescriptionsStaff := r.secured(api, "/prescriptions", entity.RoleAdmin, entity.RoleDoctor)
	prescriptionsStaff.HandleFunc("/save", r.prescriptionHandler.Save).Methods(http.MethodPost)
	prescriptionsStaff.HandleFunc("", r.prescriptionHandler.Delete).Methods(http.MethodDelete)

	prescriptions := r.secured(api, "/prescriptions")
	prescriptions.HandleFunc("", r.prescriptionHandler.GetAll).Methods(http.MethodGet)
	prescriptions.HandleFunc("/{id:[0-9]+}", r.prescriptionHandler.GetByID).Methods(http.MethodGet)
	prescriptions.HandleFunc("/by-patient/{id:[0-9]+}", r.prescriptionHandler.GetByPatientID).Methods(http.MethodGet)
	prescriptions.HandleFunc("/by-doctor/{id:[0-9]+}", r.prescriptionHandler.GetByDoctorID).Methods(http.MethodGet)
	prescriptions.HandleFunc("/by-appointment/{id:[0-9]+}", r.prescriptionHandler.GetByAppointmentID).Methods(http.MethodGet)
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
