package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clinicdesk/platform/pkg/aggregate"
	"github.com/clinicdesk/platform/pkg/common/config"
	"github.com/clinicdesk/platform/pkg/common/database"
	"github.com/clinicdesk/platform/pkg/common/kafka"
	"github.com/clinicdesk/platform/pkg/common/logger"
	"github.com/clinicdesk/platform/pkg/forms"
	"github.com/clinicdesk/platform/pkg/identity"
	"github.com/clinicdesk/platform/pkg/middleware"
	"github.com/clinicdesk/platform/pkg/publichealth"
	"github.com/clinicdesk/platform/pkg/records"
	"github.com/clinicdesk/platform/pkg/viewstate"
	"github.com/gorilla/mux"
)

// sessionAdapter bridges auth lifecycle events into the view-state manager.
type sessionAdapter struct {
	manager *viewstate.Manager
}

func (a *sessionAdapter) SessionStarted(r *http.Request, sessionID string) error {
	_, err := a.manager.Dispatch(r.Context(), sessionID, viewstate.LoginSucceeded{})
	return err
}

func (a *sessionAdapter) SessionEnded(r *http.Request, sessionID string) error {
	return a.manager.Reset(r.Context(), sessionID)
}

func main() {
	logger.Init()
	cfg := config.Load()

	var (
		store     records.Store
		userStore identity.UserStore
	)

	switch cfg.StoreBackend {
	case "memory":
		memStore := records.NewMemoryStore()
		if cfg.SeedDemoData {
			records.Seed(memStore)
		}
		store = memStore
		userStore = identity.NewMemoryRepository()
		logger.Log.Info("using in-memory record store")
	default:
		db, err := database.GetPostgres()
		if err != nil {
			logger.Log.WithError(err).Fatal("failed to connect to postgres")
		}
		repo := records.NewRepository(db)
		if err := repo.AutoMigrate(); err != nil {
			logger.Log.WithError(err).Fatal("failed to migrate record tables")
		}
		userRepo := identity.NewRepository(db)
		if err := userRepo.AutoMigrate(); err != nil {
			logger.Log.WithError(err).Fatal("failed to migrate identity tables")
		}
		store = repo
		userStore = userRepo
	}

	var (
		stateStore viewstate.StateStore
		revoker    *identity.TokenRevoker
	)
	if cfg.StoreBackend == "memory" {
		stateStore = viewstate.NewMemoryStateStore()
	} else {
		redisClient := database.GetRedis()
		stateStore = viewstate.NewRedisStateStore(redisClient)
		revoker = identity.NewTokenRevoker(redisClient)
	}

	var publisher records.EventPublisher
	var producer *kafka.Producer
	if cfg.StoreBackend != "memory" {
		producer = kafka.NewProducer(cfg.KafkaMutationTopic)
		publisher = producer
	}

	recordService := records.NewService(store, publisher)
	stateManager := viewstate.NewManager(stateStore, cfg.SessionTTL)
	aggregateService := aggregate.NewService(store)

	tokens, err := identity.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTTTL)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to initialize token manager")
	}

	var sso *identity.SSOAuthenticator
	if cfg.OIDCIssuer != "" {
		sso, err = identity.NewSSOAuthenticator(cfg.OIDCIssuer, cfg.OIDCClientID, cfg.OIDCClientSecret, cfg.OIDCRedirectURL)
		if err != nil {
			logger.Log.WithError(err).Fatal("failed to initialize sso authenticator")
		}
		logger.Log.WithField("issuer", cfg.OIDCIssuer).Info("hospital sso enabled")
	}

	catalog, err := publichealth.Load(cfg.PublicHealthCatalogPath)
	if err != nil {
		logger.Log.WithError(err).Warn("falling back to built-in public health catalog")
	}

	identityService := identity.NewService(userStore)
	authHandler := identity.NewAuthHandler(identityService, tokens, revoker, sso, &sessionAdapter{manager: stateManager})
	formHandler := forms.NewHandler(recordService, stateManager)

	router := mux.NewRouter()
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)
	router.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	}).Methods(http.MethodGet)

	router.Use(middleware.Recovery)
	router.Use(middleware.Logging)
	router.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	auth := router.PathPrefix("/api/v1/auth").Subrouter()
	authHandler.Register(auth)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Authenticate(tokens, revoker))
	records.NewHandler(recordService).Register(api)
	aggregate.NewHandler(aggregateService).Register(api)
	viewstate.NewHandler(stateManager).Register(api)
	forms.NewHTTPHandler(formHandler).Register(api)
	publichealth.NewHandler(catalog).Register(api)

	address := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Log.WithField("addr", address).Info("Clinic service listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("failed to start clinic service")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down clinic service...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Error("Clinic service forced to shutdown")
	}
	if producer != nil {
		producer.Close()
	}
	if cfg.StoreBackend != "memory" {
		database.ClosePostgres()
		database.CloseRedis()
	}
	logger.Log.Info("Clinic service stopped")
}
