package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"quiz-portal/internal/app"
	"quiz-portal/internal/config"
	"quiz-portal/internal/guard"
	"quiz-portal/internal/identity"
	"quiz-portal/internal/infra/gateway"
	"quiz-portal/internal/infra/memory"
	redisstore "quiz-portal/internal/infra/redis"
	transport "quiz-portal/internal/transport/http"
)

// NewServeCmd builds the CLI subcommand to start the portal.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the quiz portal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		return err
	}
	defer logger.Sync()

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	gatewayClient := gateway.NewClient(gateway.Config{
		BaseURL: cfg.Gateway.BaseURL,
		APIKey:  cfg.Gateway.APIKey,
		Timeout: config.TTLDuration(cfg.Gateway.Timeout, 15*time.Second),
	})

	var sessions app.SessionRepository = memory.NewSessionStore()
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		sessions = redisstore.NewSessionStore(client, config.TTLDuration(cfg.Redis.TTL, 2*time.Hour))
		logger.Info("using redis session store", zap.String("addr", cfg.Redis.Addr))
	}

	quizService := app.NewQuizService(sessions, gatewayClient, logger)
	catalog := memory.NewCatalogCache(gatewayClient, config.TTLDuration(cfg.Catalog.TTL, 10*time.Minute))

	resolver := identity.Resolver{
		AdminGroup: cfg.Identity.AdminGroup,
		UserGroup:  cfg.Identity.UserGroup,
	}
	parser := identity.NewTokenParser(cfg.Identity.TokenSecret, cfg.Identity.GroupsClaim)
	provider := identity.NewOIDCProvider(identity.OIDCConfig{
		Domain:         cfg.Identity.Domain,
		ClientID:       cfg.Identity.ClientID,
		ClientSecret:   cfg.Identity.ClientSecret,
		RedirectURI:    cfg.Identity.RedirectURI,
		LogoutRedirect: cfg.Identity.LogoutRedirect,
		Scopes:         cfg.Identity.Scopes,
	}, parser)

	opts := transport.Options{
		CookieName:     cfg.Session.Cookie,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}
	server := transport.NewServer(
		quizService,
		catalog,
		gatewayClient,
		gatewayClient,
		identity.NewStore(),
		provider,
		guard.New(resolver),
		logger,
		opts,
	)

	httpServer := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      server.Handler(opts),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("starting quiz portal", zap.String("port", finalPort))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutting down server...")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
