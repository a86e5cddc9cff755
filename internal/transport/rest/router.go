package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/police-portal/internal/announcement"
	"github.com/frahmantamala/police-portal/internal/auth"
	"github.com/frahmantamala/police-portal/internal/core/permission"
	"github.com/frahmantamala/police-portal/internal/department"
	"github.com/frahmantamala/police-portal/internal/observability"
	"github.com/frahmantamala/police-portal/internal/passwordreset"
	"github.com/frahmantamala/police-portal/internal/personnel"
	"github.com/frahmantamala/police-portal/internal/report"
	"github.com/frahmantamala/police-portal/internal/transport/middleware"
	"github.com/frahmantamala/police-portal/internal/transport/swagger"
	"github.com/frahmantamala/police-portal/internal/upload"
	"github.com/frahmantamala/police-portal/internal/user"
	"github.com/frahmantamala/police-portal/internal/wanted"
	"github.com/go-chi/chi"
)

// Routes carries everything the router mounts. Nil handlers leave their
// routes unregistered.
type Routes struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	Metrics        *observability.Metrics
	MetricsPath    string
	OpenAPISpec    []byte
	Health         *HealthHandler

	Authorizer    *auth.Authorizer
	Auth          *auth.Handler
	Users         *user.Handler
	PasswordReset *passwordreset.Handler
	Uploads       *upload.Handler
	Departments   *department.Handler
	Announcements *announcement.Handler
	Wanted        *wanted.Handler
	Reports       *report.Handler
	Personnel     *personnel.Handler
}

func RegisterAllRoutes(router *chi.Mux, rt Routes) {
	router.Use(middleware.CORS(rt.AllowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(rt.Logger))
	router.Use(middleware.LoggingMiddleware(rt.Logger))
	if rt.Metrics != nil {
		router.Use(observability.HTTPMetricsMiddleware(rt.Metrics))
		router.Method(http.MethodGet, rt.MetricsPath, rt.Metrics.Handler())
	}

	if rt.OpenAPISpec != nil {
		router.Method(http.MethodGet, swagger.SpecRoute, swagger.SpecHandler(rt.OpenAPISpec))
		router.Handle("/swagger/*", swagger.Handler())
	}

	if rt.Health != nil {
		router.Route("/api/v1", func(r chi.Router) {
			r.Get("/health", rt.Health.Check)
			r.Get("/ping", rt.Health.Ping)
		})
	}

	router.Route("/api", func(r chi.Router) {
		registerAuthRoutes(r, rt)
		registerUserRoutes(r, rt)
		registerContentRoutes(r, rt)
	})
}

func registerAuthRoutes(r chi.Router, rt Routes) {
	authz := rt.Authorizer

	if rt.Auth != nil {
		r.Post("/login", rt.Auth.Login)
		r.With(authz.Identify).Get("/auth/me", rt.Auth.Me)
		r.Post("/auth/logout", rt.Auth.Logout)
	}
	if rt.Users != nil {
		r.With(authz.RequireAdmin).Post("/auth/register", rt.Users.Register)
	}
	if rt.PasswordReset != nil {
		r.Post("/auth/forgot-password", rt.PasswordReset.ForgotPassword)
		r.Get("/auth/reset-password/validate", rt.PasswordReset.ValidateToken)
		r.Post("/auth/reset-password", rt.PasswordReset.ResetPassword)
	}
}

func registerUserRoutes(r chi.Router, rt Routes) {
	if rt.Users == nil {
		return
	}
	authz := rt.Authorizer

	r.Route("/users", func(ur chi.Router) {
		ur.With(authz.RequireAuthenticated).Post("/change-password", rt.Users.ChangePassword)

		ur.Group(func(ar chi.Router) {
			ar.Use(authz.RequireAdmin)
			ar.Get("/", rt.Users.ListUsers)
			ar.Patch("/{id}", rt.Users.UpdateAccess)
			ar.Patch("/{id}/email", rt.Users.UpdateEmail)
			ar.Delete("/{id}", rt.Users.DeleteUser)
		})
	})
}

func registerContentRoutes(r chi.Router, rt Routes) {
	authz := rt.Authorizer

	if rt.Uploads != nil {
		r.Post("/uploads/request-url", rt.Uploads.RequestURL)
	}

	if rt.Departments != nil {
		r.Get("/departments", rt.Departments.List)
	}

	if h := rt.Announcements; h != nil {
		r.Route("/announcements", func(ar chi.Router) {
			// the handler decides whether the feed needs a principal
			ar.With(authz.Identify).Get("/", h.List)

			ar.Group(func(mr chi.Router) {
				mr.Use(authz.RequirePermission(permission.ManageAnnouncements))
				mr.Post("/", h.Create)
				mr.Patch("/{id}", h.Update)
				mr.Delete("/{id}", h.Delete)
			})
		})
	}

	if h := rt.Wanted; h != nil {
		r.Route("/wanted", func(wr chi.Router) {
			wr.Get("/", h.ListPersons)

			wr.Group(func(mr chi.Router) {
				mr.Use(authz.RequirePermission(permission.ManageWanted))
				mr.Post("/", h.CreatePerson)
				mr.Patch("/{id}", h.UpdatePerson)
				mr.Delete("/{id}", h.DeletePerson)
			})
		})

		r.Route("/wanted-vehicles", func(vr chi.Router) {
			vr.Get("/public", h.ListPublicVehicles)

			vr.Group(func(mr chi.Router) {
				mr.Use(authz.RequirePermission(permission.ManageWanted))
				mr.Get("/", h.ListVehicles)
				mr.Post("/", h.CreateVehicle)
				mr.Patch("/{id}", h.UpdateVehicle)
				mr.Delete("/{id}", h.DeleteVehicle)
			})
		})
	}

	if h := rt.Reports; h != nil {
		r.Post("/report", h.Submit)

		r.Route("/reports", func(rr chi.Router) {
			rr.Use(authz.RequirePermission(permission.ManageReports))
			rr.Get("/", h.List)
			rr.Patch("/{id}/status", h.UpdateStatus)
			rr.Delete("/{id}", h.Delete)
		})

		r.Route("/internal-reports", func(ir chi.Router) {
			ir.With(authz.RequireAnyPermission(permission.SubmitInternalReport, permission.ViewAnnouncements)).
				Post("/", h.CreateInternal)

			ir.Group(func(mr chi.Router) {
				mr.Use(authz.RequireAnyPermission(permission.ManageReports, permission.ManageInternalReports))
				mr.Get("/", h.ListInternal)
				mr.Patch("/{id}/status", h.UpdateInternalStatus)
				mr.Delete("/{id}", h.DeleteInternal)
			})
		})
	}

	if h := rt.Personnel; h != nil {
		r.Route("/personnel", func(pr chi.Router) {
			pr.Use(authz.RequirePermission(permission.ManagePersonnel))
			pr.Get("/", h.List)
			pr.Post("/", h.Create)
			pr.Patch("/{id}", h.Update)
			pr.Delete("/{id}", h.Delete)
		})

		r.Route("/personnel-records", func(pr chi.Router) {
			pr.Use(authz.RequirePermission(permission.ManagePersonnel))
			pr.Get("/", h.ListRecords)
			pr.Post("/", h.CreateRecord)
			pr.Delete("/{id}", h.DeleteRecord)
		})
	}
}
