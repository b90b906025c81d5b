package http

import (
	"net/http"

	"clinic-management/internal/delivery/http/handler"
	"clinic-management/internal/delivery/http/middleware"
	"clinic-management/pkg/metrics"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth           *handler.AuthHandler
	User           *handler.UserHandler
	Doctor         *handler.DoctorHandler
	Specialization *handler.SpecializationHandler
	Patient        *handler.PatientHandler
	Appointment    *handler.AppointmentHandler
	MedicalRecord  *handler.MedicalRecordHandler
	ClinicService  *handler.ClinicServiceHandler
	Report         *handler.ReportHandler
	AuditLog       *handler.AuditLogHandler
	Health         *handler.HealthHandler
}

type Router struct {
	router         *mux.Router
	handlers       Handlers
	authMiddleware *middleware.AuthMiddleware
	metrics        *metrics.Collector
	log            *logrus.Logger
}

func NewRouter(
	handlers Handlers,
	authMiddleware *middleware.AuthMiddleware,
	metrics *metrics.Collector,
	log *logrus.Logger,
) *Router {
	return &Router{
		router:         mux.NewRouter(),
		handlers:       handlers,
		authMiddleware: authMiddleware,
		metrics:        metrics,
		log:            log,
	}
}

// Setup registers every route. CORS wraps the returned router from outside since
// mux middleware does not run for unmatched OPTIONS preflights.
func (r *Router) Setup() *mux.Router {
	h := r.handlers

	r.router.Handle("/metrics", r.metrics.Handler()).Methods(http.MethodGet)

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", h.Health.Health).Methods(http.MethodGet)

	// Auth routes (public)
	api.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh-token", h.Auth.RefreshToken).Methods(http.MethodPost)

	// Auth routes (any logged in user)
	api.Handle("/auth/logout", r.authenticated(h.Auth.Logout)).Methods(http.MethodPost)
	api.Handle("/auth/me", r.authenticated(h.Auth.Me)).Methods(http.MethodGet)

	// Staff routes
	api.Handle("/doctors", r.staff(h.Doctor.GetAllDoctors)).Methods(http.MethodGet)
	api.Handle("/doctors/{id}", r.staff(h.Doctor.GetDoctor)).Methods(http.MethodGet)
	api.Handle("/doctors/{id}/availability", r.staff(h.Doctor.GetAvailability)).Methods(http.MethodGet)
	api.Handle("/specializations", r.staff(h.Specialization.GetAll)).Methods(http.MethodGet)
	api.Handle("/specializations/{id}", r.staff(h.Specialization.GetByID)).Methods(http.MethodGet)
	api.Handle("/services", r.staff(h.ClinicService.GetAll)).Methods(http.MethodGet)
	api.Handle("/services/{id}", r.staff(h.ClinicService.GetByID)).Methods(http.MethodGet)
	api.Handle("/search", r.staff(h.Report.Search)).Methods(http.MethodGet)

	api.Handle("/patients", r.staff(h.Patient.SearchPatients)).Methods(http.MethodGet)
	api.Handle("/patients", r.staff(h.Patient.CreatePatient)).Methods(http.MethodPost)
	api.Handle("/patients/{id}", r.staff(h.Patient.GetPatient)).Methods(http.MethodGet)
	api.Handle("/patients/{id}", r.staff(h.Patient.UpdatePatient)).Methods(http.MethodPut)
	api.Handle("/patients/{id}", r.staff(h.Patient.DeletePatient)).Methods(http.MethodDelete)
	api.Handle("/patients/{id}/medical-records", r.staff(h.Patient.GetMedicalRecords)).Methods(http.MethodGet)

	// validate is registered before {id} so it is not read as an ID
	api.Handle("/appointments/validate", r.staff(h.Appointment.ValidateAppointment)).Methods(http.MethodPost)
	api.Handle("/appointments", r.staff(h.Appointment.ListAppointments)).Methods(http.MethodGet)
	api.Handle("/appointments", r.staff(h.Appointment.CreateAppointment)).Methods(http.MethodPost)
	api.Handle("/appointments/{id:[0-9]+}", r.staff(h.Appointment.GetAppointment)).Methods(http.MethodGet)
	api.Handle("/appointments/{id:[0-9]+}", r.staff(h.Appointment.UpdateAppointment)).Methods(http.MethodPut)
	api.Handle("/appointments/{id:[0-9]+}", r.staff(h.Appointment.DeleteAppointment)).Methods(http.MethodDelete)
	api.Handle("/appointments/{id:[0-9]+}/status", r.staff(h.Appointment.ChangeStatus)).Methods(http.MethodPatch)

	// Clinical records (admin or doctor)
	api.Handle("/appointments/{id:[0-9]+}/medical-record", r.clinical(h.MedicalRecord.Create)).Methods(http.MethodPost)
	api.Handle("/medical-records/{id:[0-9]+}", r.clinical(h.MedicalRecord.GetByID)).Methods(http.MethodGet)
	api.Handle("/medical-records/{id:[0-9]+}", r.clinical(h.MedicalRecord.Update)).Methods(http.MethodPut)

	api.Handle("/reports/dashboard", r.staff(h.Report.Dashboard)).Methods(http.MethodGet)
	api.Handle("/reports/doctor-workload", r.staff(h.Report.DoctorWorkload)).Methods(http.MethodGet)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)

	admin.HandleFunc("/doctors", h.Doctor.CreateDoctor).Methods(http.MethodPost)
	admin.HandleFunc("/doctors/{id}", h.Doctor.UpdateDoctor).Methods(http.MethodPut)
	admin.HandleFunc("/doctors/{id}", h.Doctor.DeleteDoctor).Methods(http.MethodDelete)

	admin.HandleFunc("/specializations", h.Specialization.Create).Methods(http.MethodPost)
	admin.HandleFunc("/specializations/{id}", h.Specialization.Update).Methods(http.MethodPut)
	admin.HandleFunc("/specializations/{id}", h.Specialization.Delete).Methods(http.MethodDelete)

	admin.HandleFunc("/services", h.ClinicService.Create).Methods(http.MethodPost)
	admin.HandleFunc("/services/{id}", h.ClinicService.Update).Methods(http.MethodPut)
	admin.HandleFunc("/services/{id}", h.ClinicService.Delete).Methods(http.MethodDelete)

	admin.HandleFunc("/users", h.User.GetAllUsers).Methods(http.MethodGet)
	admin.HandleFunc("/users", h.User.CreateUser).Methods(http.MethodPost)
	admin.HandleFunc("/users/{id}", h.User.UpdateUser).Methods(http.MethodPut)

	admin.HandleFunc("/audit-logs", h.AuditLog.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id:[0-9]+}", h.AuditLog.GetAuditLog).Methods(http.MethodGet)

	r.router.Use(middleware.RequestLogger(r.log))
	r.router.Use(r.metrics.HTTPMiddleware)

	return r.router
}

func (r *Router) authenticated(fn http.HandlerFunc) http.Handler {
	return r.authMiddleware.Authenticate(fn)
}

func (r *Router) staff(fn http.HandlerFunc) http.Handler {
	return r.authMiddleware.Authenticate(middleware.RequireStaff(fn))
}

func (r *Router) clinical(fn http.HandlerFunc) http.Handler {
	return r.authMiddleware.Authenticate(middleware.RequireAdminOrDoctor(fn))
}
