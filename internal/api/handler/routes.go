package handler

import (
	"net/http"

	"github.com/vfg2006/income-report-api/internal/api/handler/router"
	"github.com/vfg2006/income-report-api/internal/scheduler"
	"github.com/vfg2006/income-report-api/internal/usecases/account"
	"github.com/vfg2006/income-report-api/internal/usecases/authenticating"
	"github.com/vfg2006/income-report-api/internal/usecases/reporting"
	"github.com/vfg2006/income-report-api/pkg/middleware"
)

func Healthcheck(prober scheduler.SourceProber) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(prober),
		},
	}
}

func Authentication(service authenticating.Authenticator, sessions SessionWriter) []router.Route {
	return []router.Route{
		{
			Path:    "/api/auth/login",
			Method:  http.MethodPost,
			Handler: Login(service, sessions),
		},
		{
			Path:        "/api/auth/me",
			Method:      http.MethodGet,
			Handler:     GetMe(service, sessions),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:    "/api/auth/logout",
			Method:  http.MethodPost,
			Handler: Logout(sessions),
		},
		{
			Path:        "/api/auth/password",
			Method:      http.MethodPost,
			Handler:     ChangePassword(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Users(service account.AccountService) []router.Route {
	return []router.Route{
		{
			Path:        "/api/users",
			Method:      http.MethodGet,
			Handler:     ListUsers(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/api/users",
			Method:      http.MethodPost,
			Handler:     CreateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/api/users/:id",
			Method:      http.MethodGet,
			Handler:     GetUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.SelfOrAdmin()},
		},
		{
			Path:        "/api/users/:id",
			Method:      http.MethodPut,
			Handler:     UpdateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/api/users/:id",
			Method:      http.MethodDelete,
			Handler:     DeactivateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/api/users/:id/reactivate",
			Method:      http.MethodPost,
			Handler:     ReactivateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/api/users/:id/reset-password",
			Method:      http.MethodPost,
			Handler:     ResetPassword(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}

func Reports(service reporting.Reporter) []router.Route {
	return []router.Route{
		{
			Path:        "/api/reports/:name",
			Method:      http.MethodGet,
			Handler:     GetReport(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

// Probes fica sob /api/admin, então o portão já exige admin pelo prefixo
func Probes(prober scheduler.SourceProber) []router.Route {
	return []router.Route{
		{
			Path:        "/api/admin/probes/status",
			Method:      http.MethodGet,
			Handler:     GetSourceProbeStatus(prober),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/api/admin/probes/run",
			Method:      http.MethodPost,
			Handler:     RunSourceProbe(prober),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}
