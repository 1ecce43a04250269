package http

import (
	"net/http"

	"healthcare-backend/internal/delivery/http/handler"
	"healthcare-backend/internal/delivery/http/middleware"
	"healthcare-backend/pkg/response"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	router              *mux.Router
	authHandler         *handler.AuthHandler
	doctorHandler       *handler.DoctorHandler
	patientHandler      *handler.PatientHandler
	mappingHandler      *handler.MappingHandler
	auditLogHandler     *handler.AuditLogHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
	rateLimitMiddleware *middleware.RateLimitMiddleware
	metricsMiddleware   *middleware.MetricsMiddleware
	loggingMiddleware   *middleware.LoggingMiddleware
	gatherer            prometheus.Gatherer
}

func NewRouter(
	authHandler *handler.AuthHandler,
	doctorHandler *handler.DoctorHandler,
	patientHandler *handler.PatientHandler,
	mappingHandler *handler.MappingHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	rateLimitMiddleware *middleware.RateLimitMiddleware,
	metricsMiddleware *middleware.MetricsMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
	gatherer prometheus.Gatherer,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		authHandler:         authHandler,
		doctorHandler:       doctorHandler,
		patientHandler:      patientHandler,
		mappingHandler:      mappingHandler,
		auditLogHandler:     auditLogHandler,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
		rateLimitMiddleware: rateLimitMiddleware,
		metricsMiddleware:   metricsMiddleware,
		loggingMiddleware:   loggingMiddleware,
		gatherer:            gatherer,
	}
}

// Setup registers every route and returns the root handler. CORS and request
// logging wrap the router so they also see preflights and unmatched paths.
func (r *Router) Setup() http.Handler {
	r.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "")
	})
	r.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method \""+req.Method+"\" not allowed.")
	})
	r.router.Use(r.metricsMiddleware.Handle)

	api := r.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)
	api.Handle("/metrics", promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.Handle("/register", r.rateLimitMiddleware.Limit(http.HandlerFunc(r.authHandler.Register))).Methods(http.MethodPost)
	auth.Handle("/login", r.rateLimitMiddleware.Limit(http.HandlerFunc(r.authHandler.Login))).Methods(http.MethodPost)
	auth.HandleFunc("/token/refresh", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)

	// Patients (listing scoped to the requester)
	protected.HandleFunc("/patients", r.patientHandler.GetMyPatients).Methods(http.MethodGet)
	protected.HandleFunc("/patients", r.patientHandler.CreatePatient).Methods(http.MethodPost)
	protected.HandleFunc("/patients/{id}", r.patientHandler.GetPatient).Methods(http.MethodGet)
	protected.HandleFunc("/patients/{id}", r.patientHandler.UpdatePatient).Methods(http.MethodPut)
	protected.HandleFunc("/patients/{id}", r.patientHandler.PatchPatient).Methods(http.MethodPatch)
	protected.HandleFunc("/patients/{id}", r.patientHandler.DeletePatient).Methods(http.MethodDelete)

	// Doctors (shared)
	protected.HandleFunc("/doctors", r.doctorHandler.GetAllDoctors).Methods(http.MethodGet)
	protected.HandleFunc("/doctors", r.doctorHandler.CreateDoctor).Methods(http.MethodPost)
	protected.HandleFunc("/doctors/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	protected.HandleFunc("/doctors/{id}", r.doctorHandler.UpdateDoctor).Methods(http.MethodPut)
	protected.HandleFunc("/doctors/{id}", r.doctorHandler.PatchDoctor).Methods(http.MethodPatch)
	protected.HandleFunc("/doctors/{id}", r.doctorHandler.DeleteDoctor).Methods(http.MethodDelete)

	// Mappings
	protected.HandleFunc("/mappings", r.mappingHandler.AssignDoctor).Methods(http.MethodPost)
	protected.HandleFunc("/mappings/list", r.mappingHandler.ListMappings).Methods(http.MethodGet)
	protected.HandleFunc("/mappings/{patient_id}/doctors", r.mappingHandler.ListPatientDoctors).Methods(http.MethodGet)
	protected.HandleFunc("/mappings/{id}", r.mappingHandler.RemoveMapping).Methods(http.MethodDelete)

	protected.HandleFunc("/audit-logs", r.auditLogHandler.GetMyAuditLogs).Methods(http.MethodGet)

	return r.loggingMiddleware.Handle(r.corsMiddleware.Handle(r.router))
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	response.Success(w, http.StatusOK, map[string]string{"status": "ok"})
}
