package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"auditflow/backend/internal/api"
	"auditflow/backend/internal/auth"
	"auditflow/backend/internal/config"
	"auditflow/backend/internal/logging"
	"auditflow/backend/internal/mcp"
	"auditflow/backend/internal/metrics"
	"auditflow/backend/internal/repository"
	"auditflow/backend/internal/services"
	"auditflow/backend/internal/tls"
)

// clientCacheCapacity bounds the number of clients kept by the read cache.
const clientCacheCapacity = 10_000

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and MCP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(*configPath)
			if err != nil {
				return err
			}
			logger := logging.NewLogger(cfg.Log.Level, cfg.IsDev())
			defer logger.Sync()

			return serve(cmd.Context(), cfg, logger)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *logging.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Configuration loaded",
		"environment", cfg.Environment,
		"db_driver", cfg.DB.Driver,
		"okta_domain", cfg.Auth.OktaDomain,
		"swagger_client_id", cfg.Auth.SwaggerClientID,
		"config_file", cfg.Source,
	)
	if cfg.Auth.SwaggerClientID != "" && cfg.Auth.SwaggerClientID == cfg.Auth.ClientID {
		logger.Warn("Swagger client id matches the backend client id; the PKCE flow needs a separate public client")
	}

	repo, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("database initialization failed: %w", err)
	}
	defer repo.Close()

	clients := repository.NewCachingClientStore(repo, cfg.DB.ClientCacheTTL, clientCacheCapacity)
	go clients.StartEviction(ctx)

	m := metrics.New()
	clientService := services.NewClientService(clients, logger)
	workflowService := services.NewWorkflowService(clients, repo, logger, services.WithRecorder(m))
	vaultService := services.NewVaultService(repo, repo, logger)
	riskService := services.NewRiskService(clients, repo, repo, nil)
	logger.Info("Service layer initialized")

	authz, err := auth.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("auth initialization failed: %w", err)
	}

	srv := &api.Server{
		Clients:   clientService,
		Workflows: workflowService,
		Vault:     vaultService,
		Risk:      riskService,
		Storage:   repo,
		Driver:    cfg.DB.Driver,
		Logger:    logger,
	}

	e := newEcho(logger, m)
	e.GET("/", srv.GetRoot)
	e.GET("/health", srv.GetHealth)
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	e.GET("/login", echo.WrapHandler(http.HandlerFunc(authz.LoginHandler)))
	e.GET("/auth/callback", echo.WrapHandler(http.HandlerFunc(authz.CallbackHandler)))
	e.GET("/logout", echo.WrapHandler(http.HandlerFunc(authz.LogoutHandler)))

	apiGroup := e.Group("/api")
	apiGroup.Use(echo.WrapMiddleware(authz.RequireAuth))
	api.RegisterHandlers(apiGroup, srv)
	logger.Info("REST API handlers mounted")

	mcpServer := mcp.NewServer(workflowService, riskService)
	mcpHandlers := http.NewServeMux()
	mcp.MountHTTPHandlers(mcpHandlers, mcpServer.GetMCPServer())
	mcpHandler := echo.WrapHandler(authz.RequireAuth(mcpHandlers))
	e.Any("/mcp", mcpHandler)
	e.Any("/mcp/*", mcpHandler)
	logger.Info("MCP protocol handlers mounted")

	e.GET("/openapi.yaml", echo.WrapHandler(api.SpecHandler(cfg.Auth.OktaDomain)))
	e.GET("/docs", echo.WrapHandler(api.SwaggerHandler(cfg.Auth.OktaDomain, cfg.Auth.SwaggerClientID)))
	e.GET("/docs/oauth2-redirect.html", echo.WrapHandler(api.OAuth2RedirectHandler()))

	addr := cfg.Server.Addr
	if cfg.TLS.Enable {
		addr = cfg.Server.TLSAddr
		generated, err := tls.EnsureSelfSignedCert(cfg.TLS.CertFile, cfg.TLS.KeyFile, cfg.TLS.Hostnames)
		if err != nil {
			return fmt.Errorf("tls certificate: %w", err)
		}
		if generated {
			logger.Warn("generated self-signed certificate", "cert_file", cfg.TLS.CertFile, "hostnames", cfg.TLS.Hostnames)
		}
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      e,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "address", addr, "tls", cfg.TLS.Enable)
		if cfg.TLS.Enable {
			serverErrors <- server.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			serverErrors <- server.ListenAndServe()
		}
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
			if err := server.Close(); err != nil {
				logger.Error("Server close error", "error", err)
			}
		}

		logger.Info("Server stopped gracefully")
		return nil
	}
}

// newEcho builds the router with the shared middleware chain. Metrics sit
// outermost so they see the final status of every request.
func newEcho(logger *logging.Logger, m *metrics.Metrics) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = api.NewRequestValidator()
	e.HTTPErrorHandler = api.ErrorHandler(logger)

	e.Use(m.Middleware())
	e.Use(middleware.Recover())
	e.Use(otelecho.Middleware("auditflow"))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				logger.Warn("request",
					"method", v.Method, "uri", v.URI, "status", v.Status,
					"latency", v.Latency, "error", v.Error)
				return nil
			}
			logger.Info("request",
				"method", v.Method, "uri", v.URI, "status", v.Status,
				"latency", v.Latency)
			return nil
		},
	}))
	return e
}
