package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vetcare/clinic-api/internal/access"
	"github.com/vetcare/clinic-api/internal/handler"
	"github.com/vetcare/clinic-api/internal/handler/analytics"
	"github.com/vetcare/clinic-api/internal/handler/animal"
	"github.com/vetcare/clinic-api/internal/handler/appointment"
	authhandler "github.com/vetcare/clinic-api/internal/handler/auth"
	"github.com/vetcare/clinic-api/internal/handler/clinic"
	"github.com/vetcare/clinic-api/internal/handler/consultation"
	"github.com/vetcare/clinic-api/internal/handler/health"
	"github.com/vetcare/clinic-api/internal/handler/inventory"
	"github.com/vetcare/clinic-api/internal/handler/invoice"
	"github.com/vetcare/clinic-api/internal/handler/medical"
	"github.com/vetcare/clinic-api/internal/handler/message"
	"github.com/vetcare/clinic-api/internal/handler/notification"
	"github.com/vetcare/clinic-api/internal/handler/owner"
	"github.com/vetcare/clinic-api/internal/handler/reminder"
	"github.com/vetcare/clinic-api/internal/handler/review"
	"github.com/vetcare/clinic-api/internal/handler/sharelink"
	"github.com/vetcare/clinic-api/internal/handler/user"
	"github.com/vetcare/clinic-api/internal/middleware"
	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/pkg/metrics"
)

// Handlers collects every HTTP handler the router mounts.
type Handlers struct {
	Health       *health.Handler
	Auth         *authhandler.Handler
	Animal       *animal.Handler
	Appointment  *appointment.Handler
	Consultation *consultation.Handler
	Medical      *medical.Handler
	Inventory    *inventory.Handler
	Invoice      *invoice.Handler
	Message      *message.Handler
	Notification *notification.Handler
	Reminder     *reminder.Handler
	Review       *review.Handler
	ShareLink    *sharelink.Handler
	Owner        *owner.Handler
	User         *user.Handler
	Clinic       *clinic.Handler
	Analytics    *analytics.Handler
}

// Config carries the router-level knobs that come from the application config.
type Config struct {
	RPS       float64
	Burst     int
	AuthRPS   float64
	AuthBurst int
	CORS      middleware.CORSConfig
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	checker  *access.Checker
	handlers Handlers
	cfg      Config
}

func NewRouter(auth *middleware.AuthMiddleware, checker *access.Checker, m *metrics.Metrics, handlers Handlers, cfg Config) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORS),
		middleware.Metrics(m),
	)
	engine.Use(middleware.NewRateLimiter(cfg.RPS, cfg.Burst).Limit())

	return &Router{
		engine:   engine,
		auth:     auth,
		checker:  checker,
		handlers: handlers,
		cfg:      cfg,
	}
}

func (r *Router) Engine() *gin.Engine { return r.engine }

// Setup mounts every route. Single-record routes on scoped resources carry a
// Guard that resolves the record's clinic and owner before the handler runs.
func (r *Router) Setup() {
	h := r.handlers

	r.engine.GET("/health", h.Health.Health)
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse("no route for "+c.Request.URL.Path))
	})

	api := r.engine.Group("/api/v1")

	r.setupPublicRoutes(api)

	protected := api.Group("")
	protected.Use(r.auth.Authenticate())
	r.setupProtectedRoutes(protected)
}

func (r *Router) setupPublicRoutes(api *gin.RouterGroup) {
	h := r.handlers

	// Credential endpoints get a much stricter per-IP limiter than the rest
	// of the API.
	authLimit := middleware.NewRateLimiter(r.cfg.AuthRPS, r.cfg.AuthBurst).Limit()

	auth := api.Group("/auth")
	auth.POST("/login", authLimit, h.Auth.Login)
	auth.POST("/register", authLimit, h.Auth.Register)

	api.POST("/reviews", h.Review.Submit)
	api.GET("/reviews/public", h.Review.ListPublic)

	api.GET("/share-links/public/:code", h.ShareLink.Resolve)
}

func (r *Router) setupProtectedRoutes(protected *gin.RouterGroup) {
	h := r.handlers
	staff := middleware.RequireStaff()
	admin := middleware.RequireRoles(model.RoleAdmin)

	auth := protected.Group("/auth")
	auth.GET("/me", h.Auth.Me)
	auth.POST("/logout", h.Auth.Logout)

	animals := protected.Group("/animals")
	animals.POST("", staff, h.Animal.Create)
	animals.GET("", h.Animal.List)
	animals.GET("/:id", r.guard(access.ResourceAnimal), h.Animal.Get)
	animals.PUT("/:id", staff, r.guard(access.ResourceAnimal), h.Animal.Update)
	animals.DELETE("/:id", staff, r.guard(access.ResourceAnimal), h.Animal.Deactivate)
	animals.GET("/:id/weights", r.guard(access.ResourceAnimal), h.Animal.WeightHistory)
	animals.POST("/:id/weights", staff, r.guard(access.ResourceAnimal), h.Animal.AddWeight)

	appointments := protected.Group("/appointments")
	appointments.POST("", h.Appointment.Create)
	appointments.GET("", h.Appointment.List)
	appointments.GET("/:id", r.guard(access.ResourceAppointment), h.Appointment.Get)
	appointments.PUT("/:id", staff, r.guard(access.ResourceAppointment), h.Appointment.Update)
	appointments.PATCH("/:id/status", r.guard(access.ResourceAppointment), h.Appointment.UpdateStatus)
	appointments.POST("/:id/complete", staff, r.guard(access.ResourceAppointment), h.Appointment.Complete)

	consultations := protected.Group("/consultations")
	consultations.POST("", staff, h.Consultation.Create)
	consultations.GET("", h.Consultation.List)
	consultations.GET("/:id", r.guard(access.ResourceConsultation), h.Consultation.Get)
	consultations.PUT("/:id", staff, r.guard(access.ResourceConsultation), h.Consultation.Update)
	consultations.DELETE("/:id", staff, r.guard(access.ResourceConsultation), h.Consultation.Delete)

	vaccinations := protected.Group("/vaccinations")
	vaccinations.POST("", staff, h.Medical.CreateVaccination)
	vaccinations.GET("", h.Medical.ListVaccinations)
	vaccinations.GET("/upcoming", h.Medical.UpcomingVaccinations)
	vaccinations.GET("/animal/:id", r.guard(access.ResourceAnimal), h.Medical.AnimalVaccinations)
	vaccinations.GET("/:id", r.guard(access.ResourceVaccination), h.Medical.GetVaccination)
	vaccinations.DELETE("/:id", staff, r.guard(access.ResourceVaccination), h.Medical.DeleteVaccination)

	certificates := protected.Group("/certificates")
	certificates.POST("", staff, h.Medical.CreateCertificate)
	certificates.GET("", h.Medical.ListCertificates)
	certificates.GET("/:id", r.guard(access.ResourceCertificate), h.Medical.GetCertificate)
	certificates.DELETE("/:id", staff, r.guard(access.ResourceCertificate), h.Medical.DeleteCertificate)

	prescriptions := protected.Group("/prescriptions")
	prescriptions.POST("", staff, h.Medical.CreatePrescription)
	prescriptions.GET("", h.Medical.ListPrescriptions)
	prescriptions.GET("/:id", r.guard(access.ResourcePrescription), h.Medical.GetPrescription)
	prescriptions.PUT("/:id", staff, r.guard(access.ResourcePrescription), h.Medical.UpdatePrescription)
	prescriptions.GET("/:id/medications", r.guard(access.ResourcePrescription), h.Medical.ListMedications)
	prescriptions.POST("/:id/medications", staff, r.guard(access.ResourcePrescription), h.Medical.AddMedication)

	inv := protected.Group("/inventory", staff)
	inv.POST("", h.Inventory.Create)
	inv.GET("", h.Inventory.List)
	inv.GET("/alerts", h.Inventory.Alerts)
	inv.GET("/:id", h.Inventory.Get)
	inv.PUT("/:id", h.Inventory.Update)
	inv.POST("/:id/adjust", h.Inventory.Adjust)

	invoices := protected.Group("/invoices")
	invoices.POST("", staff, h.Invoice.Create)
	invoices.GET("", h.Invoice.List)
	invoices.GET("/:id", r.guard(access.ResourceInvoice), h.Invoice.Get)
	invoices.POST("/:id/pay", staff, r.guard(access.ResourceInvoice), h.Invoice.Pay)

	messages := protected.Group("/messages")
	messages.POST("", h.Message.Send)
	messages.GET("", h.Message.Thread)
	messages.GET("/conversations", staff, h.Message.Conversations)
	messages.PATCH("/:id/read", r.guard(access.ResourceMessage), h.Message.MarkRead)

	notifications := protected.Group("/notifications")
	notifications.GET("", h.Notification.List)
	notifications.PATCH("/:id/read", h.Notification.MarkRead)
	notifications.POST("/read-all", h.Notification.MarkAllRead)
	notifications.DELETE("/clear-read", h.Notification.ClearRead)

	reminders := protected.Group("/reminders")
	reminders.GET("/mine", h.Reminder.Mine)
	reminders.POST("", staff, h.Reminder.Create)
	reminders.GET("", staff, h.Reminder.List)
	reminders.GET("/sent", staff, h.Reminder.Sent)
	reminders.POST("/:id/send", staff, h.Reminder.Send)
	reminders.POST("/:id/cancel", staff, h.Reminder.Cancel)

	reviews := protected.Group("/reviews", staff)
	reviews.GET("", h.Review.ListAll)
	reviews.POST("/:id/respond", h.Review.Respond)
	reviews.PATCH("/:id/publish", h.Review.Publish)

	shareLinks := protected.Group("/share-links")
	shareLinks.POST("", h.ShareLink.Create)
	shareLinks.GET("", h.ShareLink.List)
	shareLinks.POST("/:id/deactivate", r.guard(access.ResourceShareLink), h.ShareLink.Deactivate)

	owners := protected.Group("/owners")
	owners.GET("/me", h.Owner.Profile)
	owners.POST("", staff, h.Owner.Create)
	owners.GET("", staff, h.Owner.List)
	owners.GET("/:id", h.Owner.Get)
	owners.PUT("/:id", staff, h.Owner.Update)

	users := protected.Group("/users", admin)
	users.POST("", h.User.Create)
	users.GET("", h.User.List)
	users.GET("/:id", h.User.Get)
	users.PUT("/:id", h.User.Update)
	users.PATCH("/:id/deactivate", h.User.Deactivate)
	users.POST("/:id/reset-password", h.User.ResetPassword)

	clinicGroup := protected.Group("/clinic", staff)
	clinicGroup.GET("/me", h.Clinic.Me)
	clinicGroup.PUT("/me", admin, h.Clinic.Update)
	clinicGroup.GET("/stats", h.Clinic.Stats)

	analyticsGroup := protected.Group("/analytics", staff)
	analyticsGroup.GET("/dashboard", h.Analytics.Dashboard)
	analyticsGroup.GET("/today", h.Analytics.Today)
	analyticsGroup.GET("/activity", h.Analytics.Activity)
	analyticsGroup.GET("/revenue", h.Analytics.Revenue)
}

func (r *Router) guard(resource access.Resource) gin.HandlerFunc {
	return middleware.Guard(r.checker, resource, "id")
}
