// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	"github.com/dalemusser/skprofiles/internal/app/cachestore"
	errorsfeature "github.com/dalemusser/skprofiles/internal/app/features/errors"
	healthfeature "github.com/dalemusser/skprofiles/internal/app/features/health"
	localitiesfeature "github.com/dalemusser/skprofiles/internal/app/features/localities"
	logoutfeature "github.com/dalemusser/skprofiles/internal/app/features/logout"
	profilesfeature "github.com/dalemusser/skprofiles/internal/app/features/profiles"
	reportsfeature "github.com/dalemusser/skprofiles/internal/app/features/reports"
	userinfofeature "github.com/dalemusser/skprofiles/internal/app/features/userinfo"
	localitystore "github.com/dalemusser/skprofiles/internal/app/store/localities"
	profilestore "github.com/dalemusser/skprofiles/internal/app/store/profiles"
	reportstore "github.com/dalemusser/skprofiles/internal/app/store/reports"
	"github.com/dalemusser/skprofiles/internal/app/system/auth"
	"github.com/dalemusser/skprofiles/internal/app/system/metrics"
	"github.com/dalemusser/skprofiles/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler.
//
// WAFFLE calls this after configuration, DB connections, schema setup and
// Startup have completed. The stores, the list cache and the metrics
// registry are built here and shared by the feature routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	db := deps.MongoDatabase
	profiles := profilestore.New(db, logger).WithMetrics(m).WithChunkSize(appCfg.ImportChunkSize)
	reports := reportstore.New(db, logger).WithMetrics(m)
	localities := localitystore.New(db)

	lists := profilesfeature.NewListPool(profiles, cachestore.Config{
		Persister: listPersister(deps, appCfg),
		MaxAge:    appCfg.CacheMaxAge,
		Logger:    logger,
	})

	r := chi.NewRouter()

	// Loads the SessionUser into the request context when a session exists.
	r.Use(sessionMgr.LoadSessionUser)

	errorsHandler := errorsfeature.NewHandler()
	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	// Health check for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, deps.Redis, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	userinfofeature.MountRoutes(r, userinfofeature.NewHandler())

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	localitiesHandler := localitiesfeature.NewHandler(db, logger)
	r.Mount("/localities", localitiesfeature.Routes(localitiesHandler, sessionMgr))

	reportsHandler := reportsfeature.NewHandler(reports, profiles, localities, lists, logger)
	if appCfg.ImportsPerMinute > 0 {
		reportsHandler.ImportLimiter = ratelimit.New(appCfg.ImportsPerMinute, time.Minute)
	}
	r.Mount("/reports", reportsfeature.Routes(reportsHandler, sessionMgr))

	profilesHandler := profilesfeature.NewHandler(profiles, lists, logger)
	r.Mount("/profiles", profilesfeature.Routes(profilesHandler, sessionMgr))

	return r, nil
}

// listPersister keeps list snapshots in Redis when a client is available.
func listPersister(deps DBDeps, appCfg AppConfig) cachestore.Persister {
	if deps.Redis != nil {
		return cachestore.NewRedisPersister(deps.Redis, 2*appCfg.CacheMaxAge)
	}
	return cachestore.NewMemoryPersister()
}
