package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Amoukli/Coach-AI/internal/cache"
	"github.com/Amoukli/Coach-AI/internal/config"
	"github.com/Amoukli/Coach-AI/internal/repository"
	"github.com/Amoukli/Coach-AI/internal/service"
	"github.com/Amoukli/Coach-AI/internal/transport/rest"
	"github.com/Amoukli/Coach-AI/internal/transport/ws"
)

// @title Coach AI Consultation API
// @version 1.0
// @description Voice-driven medical consultation training engine
// @host localhost:8080
// @BasePath /v1
func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()

	log.Printf("AI Config:")
	log.Printf("  Deployment: %s", cfg.AI.Deployment)
	if cfg.AI.IsEnabled() {
		log.Println("  API Key:    configured ✓")
	} else {
		log.Println("  API Key:    NOT SET (using canned patient replies)")
	}
	if cfg.Speech.IsEnabled() {
		log.Printf("  Speech:     %s ✓", cfg.Speech.Region)
	} else {
		log.Println("  Speech:     NOT SET (text-only sessions)")
	}

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	// Ping MongoDB
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	// Ping Redis
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize repositories
	userRepo := repository.NewUserRepo(mongoClient, cfg.Database)
	scenarioRepo := repository.NewScenarioRepo(mongoClient, cfg.Database)
	sessionRepo := repository.NewSessionRepo(mongoClient, cfg.Database)
	assessmentRepo := repository.NewAssessmentRepo(mongoClient, cfg.Database)
	progressRepo := repository.NewProgressRepo(mongoClient, cfg.Database)

	// Initialize caches
	sessionCache := cache.NewSessionCache(rdb)
	scenarioCache := cache.NewScenarioCache(rdb)
	skillsCache := cache.NewSkillsCache(rdb)
	leaderboard := cache.NewLeaderboardCache(rdb)

	// External clients
	clareClient := service.NewGuidelineClient(cfg.ClareAPIURL, cfg.ClareAPIKey)
	clarkClient := service.NewClarkClient(cfg.ClarkAPIURL, cfg.ClarkAPIKey)

	// Initialize services
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, time.Duration(cfg.TokenExpiryMin)*time.Minute, cfg.AllowAdminSignup)
	scenarioSvc := service.NewScenarioService(scenarioRepo, scenarioCache, clareClient, clarkClient)
	progressSvc := service.NewProgressService(progressRepo, skillsCache)
	assessmentSvc := service.NewAssessmentService(assessmentRepo, progressSvc, leaderboard)
	sessionSvc := service.NewSessionService(sessionRepo, userRepo, scenarioSvc, sessionCache, assessmentSvc)
	analyticsSvc := service.NewAnalyticsService(sessionRepo, assessmentRepo, scenarioSvc, userRepo, progressSvc, leaderboard)

	responder := service.NewResponderService(cfg.AI)
	speechSvc := service.NewSpeechService(cfg.Speech)

	var synthesizer service.Synthesizer
	if cfg.Speech.IsEnabled() {
		synthesizer = speechSvc
	}
	dialogueSvc := service.NewDialogueService(scenarioSvc, sessionCache, responder, synthesizer)

	// Create router with container
	container := &rest.Container{
		AuthService:       authSvc,
		ScenarioService:   scenarioSvc,
		SessionService:    sessionSvc,
		DialogueService:   dialogueSvc,
		AssessmentService: assessmentSvc,
		ProgressService:   progressSvc,
		AnalyticsService:  analyticsSvc,
		SpeechService:     speechSvc,
		WSHub:             wsHub,
		CORSOrigins:       cfg.CORSOrigins,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/register")
		log.Println("  POST /v1/auth/login")
		log.Println("  GET  /v1/scenarios")
		log.Println("  POST/GET /v1/sessions")
		log.Println("  POST /v1/sessions/{id}/messages")
		log.Println("  POST /v1/sessions/{id}/complete")
		log.Println("  GET  /v1/analytics/dashboard")
		log.Println("  POST /v1/voice/synthesize")
		log.Println("  WS   /v1/ws/sessions/{id}")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
