// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	activityfeature "github.com/dalemusser/planhub/internal/app/features/activity"
	assetsfeature "github.com/dalemusser/planhub/internal/app/features/assets"
	authgooglefeature "github.com/dalemusser/planhub/internal/app/features/authgoogle"
	campaignsfeature "github.com/dalemusser/planhub/internal/app/features/campaigns"
	healthfeature "github.com/dalemusser/planhub/internal/app/features/health"
	logoutfeature "github.com/dalemusser/planhub/internal/app/features/logout"
	projectsfeature "github.com/dalemusser/planhub/internal/app/features/projects"
	tasksfeature "github.com/dalemusser/planhub/internal/app/features/tasks"
	templatesfeature "github.com/dalemusser/planhub/internal/app/features/templates"
	userinfofeature "github.com/dalemusser/planhub/internal/app/features/userinfo"
	usersfeature "github.com/dalemusser/planhub/internal/app/features/users"
	audit "github.com/dalemusser/planhub/internal/app/store/audit"
	userstore "github.com/dalemusser/planhub/internal/app/store/users"
	"github.com/dalemusser/planhub/internal/app/system/auditlog"
	"github.com/dalemusser/planhub/internal/app/system/auth"
	"github.com/dalemusser/planhub/internal/app/system/authz"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this
// WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and the Startup hook have completed. PlanHub mounts the JSON API
// under /api, the Google sign-in endpoints under /auth/google, and the
// built SPA bundle everywhere else.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Fetch fresh user data on each request so role changes and
	// deactivations take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	auditLogger := auditlog.New(audit.New(deps.MongoDatabase), logger, auditlog.Config{
		Auth:    appCfg.ActivityLogAuth,
		Admin:   appCfg.ActivityLogAdmin,
		Content: appCfg.ActivityLogContent,
	})

	allow := authz.ParseAllowList(appCfg.AdminEmails)

	fileStore, err := buildStorage(context.Background(), appCfg)
	if err != nil {
		logger.Error("storage init failed", zap.Error(err))
		return nil, err
	}

	r := chi.NewRouter()

	// Global auth middleware: loads the SessionUser into context for
	// every request.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Sign-in with Google
	googleHandler := authgooglefeature.NewHandler(
		deps.MongoDatabase,
		sessionMgr,
		auditLogger,
		allow,
		appCfg.SuperAdminEmail,
		appCfg.GoogleClientID,
		appCfg.GoogleClientSecret,
		appCfg.BaseURL,
		logger,
	)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, auditLogger, logger)
	logoutfeature.MountRoutes(r, logoutHandler)

	// Identity endpoint; answers for signed-out visitors too.
	userinfofeature.MountRoutes(r, userinfofeature.NewHandler())

	// User administration
	usersHandler := usersfeature.NewHandler(deps.MongoDatabase, allow, auditLogger, logger)
	usersfeature.MountRoutes(r, usersHandler, sessionMgr)

	// Project content
	projectsHandler := projectsfeature.NewHandler(deps.MongoDatabase, auditLogger, logger)
	projectsfeature.MountRoutes(r, projectsHandler, sessionMgr)

	campaignsHandler := campaignsfeature.NewHandler(deps.MongoDatabase, auditLogger, logger)
	campaignsfeature.MountRoutes(r, campaignsHandler, sessionMgr)

	tasksHandler := tasksfeature.NewHandler(deps.MongoDatabase, auditLogger, logger)
	tasksfeature.MountRoutes(r, tasksHandler, sessionMgr)

	// Template library (admin only)
	templatesHandler := templatesfeature.NewHandler(deps.MongoDatabase, auditLogger, logger)
	templatesfeature.MountRoutes(r, templatesHandler, sessionMgr)

	// File uploads
	assetsHandler := assetsfeature.NewHandler(deps.MongoDatabase, fileStore, auditLogger, logger)
	assetsfeature.MountRoutes(r, assetsHandler, sessionMgr)

	// Activity feed (admin only)
	activityHandler := activityfeature.NewHandler(deps.MongoDatabase, logger)
	activityfeature.MountRoutes(r, activityHandler, sessionMgr)

	// SPA bundle: static assets plus an index.html fallback so
	// client-side routes deep-link correctly.
	if appCfg.WebDist != "" {
		mountSPA(r, appCfg.WebDist)
	}

	return r, nil
}

// mountSPA serves the built frontend. Hashed assets go through the
// pantry fileserver (pre-compressed variants included); everything else
// that is not an API route falls back to index.html.
func mountSPA(r chi.Router, dist string) {
	r.Handle("/assets/*", fileserver.Handler("/assets", filepath.Join(dist, "assets")))

	index := filepath.Join(dist, "index.html")
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		if strings.HasPrefix(req.URL.Path, "/api/") {
			http.NotFound(w, req)
			return
		}
		if _, err := os.Stat(index); err != nil {
			http.NotFound(w, req)
			return
		}
		http.ServeFile(w, req, index)
	})
}
