package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"SnapSolve-App/internal/config"
	"SnapSolve-App/internal/database"
	"SnapSolve-App/internal/domain/model"
	"SnapSolve-App/internal/domain/repository"
	"SnapSolve-App/internal/domain/service"
	"SnapSolve-App/internal/handler"
	"SnapSolve-App/internal/infrastructure/ai"
	"SnapSolve-App/internal/infrastructure/auth"
	infraDB "SnapSolve-App/internal/infrastructure/database"
	infraFirestore "SnapSolve-App/internal/infrastructure/firestore"
	"SnapSolve-App/internal/infrastructure/logging"
	"SnapSolve-App/internal/infrastructure/mail"
	"SnapSolve-App/internal/infrastructure/maps"
	"SnapSolve-App/internal/infrastructure/metrics"
	repoImpl "SnapSolve-App/internal/repository"
	"SnapSolve-App/internal/usecase"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ 設定エラー: %v", err)
	}

	if os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	metrics.Register()

	ctx := context.Background()

	// チケットストアの初期化
	tickets, closeStore, err := newTicketsRepository(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ チケットストア初期化失敗: %v", err)
	}
	defer closeStore()

	// IDプロバイダの初期化
	verifier, err := newIdentityRepository(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ 認証プロバイダ初期化失敗: %v", err)
	}

	// 外部APIクライアントの初期化
	geocoder := maps.NewGoogleGeocodingProvider(cfg.GoogleMapsAPIKey, cfg.GeocodeTimeout)
	gemini := ai.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiTimeout)

	var notifier repository.NotificationRepository
	if cfg.SendGridAPIKey != "" {
		notifier = mail.NewSendGridNotifier(cfg.SendGridAPIKey, cfg.MailFromName, cfg.MailFromEmail)
	} else {
		log.Warn("⚠️ SENDGRID_API_KEY is not set, notifications will only be logged")
		notifier = mail.NewLogNotifier()
	}

	// ユースケースとハンドラーの組み立て
	analyzeUseCase := usecase.NewAnalyzeUseCase(service.NewGeoEnricher(geocoder), gemini, cfg.GeocodeTimeout, cfg.GeminiTimeout)
	ticketUseCase := usecase.NewTicketUseCase(tickets, notifier, cfg.StoreTimeout, cfg.NotifyTimeout)

	router := handler.NewRouter(handler.RouterDeps{
		AnalyzeHandler: handler.NewAnalyzeHandler(analyzeUseCase),
		TicketHandler:  handler.NewTicketHandler(ticketUseCase),
		Verifier:       verifier,
		MaxBodyBytes:   cfg.MaxBodyBytes,
	})

	log.Warn("⚠️ GET /api/tickets/all is unauthenticated and returns every ticket including images")

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithFields(log.Fields{
			"port":          cfg.Port,
			"ticket_store":  cfg.TicketStore,
			"auth_provider": cfg.AuthProvider,
		}).Info("🚀 SnapSolve server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Failed to start HTTP server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("🛑 Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("❌ Server forced to shutdown")
	}
	log.Info("✅ Server exited")
}

// newTicketsRepository は TICKET_STORE に応じたチケットストアを作成する
func newTicketsRepository(ctx context.Context, cfg *config.Config) (repository.TicketsRepository, func(), error) {
	switch cfg.TicketStore {
	case model.TicketStorePostgres:
		connectCtx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
		defer cancel()

		client, err := infraDB.NewPostgreSQLClient(connectCtx, cfg.PostgresDSN())
		if err != nil {
			return nil, nil, err
		}
		repo := repoImpl.NewPostgresTicketsRepository(client).(*repoImpl.PostgresTicketsRepository)
		if err := repo.EnsureSchema(connectCtx); err != nil {
			client.Close()
			return nil, nil, err
		}
		return repo, func() { client.Close() }, nil

	case model.TicketStoreMemory:
		log.Warn("⚠️ Using in-memory ticket store, tickets are lost on restart")
		return repoImpl.NewMemoryTicketsRepository(), func() {}, nil

	default:
		client, err := infraFirestore.NewFirestoreClient(ctx, cfg.FirestoreProjectID)
		if err != nil {
			return nil, nil, err
		}
		repo := repoImpl.NewFirestoreTicketsRepository(client.GetClient(), cfg.FirestoreCollection)
		return repo, func() { client.Close() }, nil
	}
}

// newIdentityRepository は AUTH_PROVIDER に応じたトークン検証器を作成する
func newIdentityRepository(ctx context.Context, cfg *config.Config) (repository.IdentityRepository, error) {
	switch cfg.AuthProvider {
	case model.AuthProviderSupabase:
		client, err := database.NewSupabaseClient(cfg.SupabaseURL, cfg.SupabaseAnonKey)
		if err != nil {
			return nil, err
		}
		return auth.NewSupabaseVerifier(client.GetClient()), nil
	default:
		verifier, err := auth.NewFirebaseVerifier(ctx, cfg.FirebaseProjectID)
		if err != nil {
			return nil, err
		}
		return verifier, nil
	}
}
