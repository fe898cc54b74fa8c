package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"multipiste/config"
	"multipiste/core/auth"
	"multipiste/core/multitrack"
	"multipiste/logger"
	"multipiste/storage"

	"github.com/gorilla/mux"
)

// PathsFromConfig 由配置生成曲库路径布局
func PathsFromConfig(cfg *config.Config) multitrack.Paths {
	return multitrack.Paths{
		DefaultRoot: cfg.TracksPath,
		UserBase:    cfg.UserTracksBase,
		UserSuffix:  cfg.UserTracksSuffix,
		AliasDir:    cfg.AliasDir,
	}
}

// NewRouter 组装路由与中间件；creds 为 nil 时不启用 Basic Auth
func NewRouter(cfg *config.Config, library *multitrack.Library, creds *auth.Credentials) http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeText(w, http.StatusOK, "ok")
	}).Methods(http.MethodGet, http.MethodHead)

	NewAPIHandler(library, cfg).RegisterRoutes(router)
	NewStaticHandler(cfg, library.Paths()).RegisterRoutes(router)

	// 中间件包在路由外层，未匹配的请求同样经过鉴权与日志
	var handler http.Handler = router
	if creds != nil {
		handler = basicAuth(creds, cfg.AuthRealm)(handler)
	}
	handler = cors(handler)
	handler = recoverer(handler)
	handler = requestLogger(handler)
	return handler
}

// Start initializes and starts the HTTP server, blocking until ctx is done.
func Start(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	store, err := storage.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize %s storage: %w", cfg.StorageBackend, err)
	}
	library := multitrack.NewLibrary(store, PathsFromConfig(cfg))

	var creds *auth.Credentials
	if cfg.AuthEnabled() {
		creds, err = auth.NewCredentials(cfg.AuthUser, cfg.AuthPassword, cfg.AuthPasswordHash)
		if err != nil {
			return fmt.Errorf("failed to set up basic auth: %w", err)
		}
		logger.Info("Basic auth enabled", logger.Int("port", cfg.Port), logger.String("user", cfg.AuthUser))
	}

	// 下载为流式传输，不设置 WriteTimeout
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           NewRouter(cfg, library, creds),
		ReadHeaderTimeout: cfg.ReadTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting",
			logger.String("addr", server.Addr),
			logger.String("storage", cfg.StorageBackend),
			logger.String("tracksPath", cfg.TracksPath),
			logger.String("clientDir", cfg.ClientDir))

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
	}

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}
