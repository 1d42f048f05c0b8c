package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"prop-tracker/internal/config"
	"prop-tracker/internal/database"
	"prop-tracker/internal/handlers"
	"prop-tracker/internal/jobs"
	"prop-tracker/internal/nba"
	"prop-tracker/internal/odds"
	"prop-tracker/internal/repository"
	"prop-tracker/internal/services"
	"prop-tracker/internal/stats"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repository
	repo := repository.NewRepository(database.GetDB())

	// Initialize stats provider and resolver
	nbaClient := nba.NewClient(
		nba.WithBaseURL(cfg.NBA.BaseURL),
		nba.WithMinInterval(cfg.NBA.MinRequestInterval),
	)
	resolver := stats.NewResolver(nbaClient)

	// Initialize services
	captureService := services.NewCaptureService(resolver, nbaClient, repo)
	ledgerService := services.NewLedgerService(repo, captureService)
	resolveService := services.NewResolveService(resolver, ledgerService, repo)
	analyticsService := services.NewAnalyticsService(repo, cfg.NBA.AnalyticsCacheTTL)
	playerService := services.NewPlayerService(nbaClient, cfg.NBA.PlayerDirectoryTTL, cfg.NBA.PlayerProfileTTL, nil)
	researchService := services.NewResearchService(nbaClient, nil)

	// The cheatsheet is optional: without an odds API key its endpoint
	// answers 503.
	var cheatsheetService *services.CheatsheetService
	if cfg.Odds.APIKey != "" {
		oddsClient := odds.NewClient(cfg.Odds.APIKey, odds.WithBaseURL(cfg.Odds.BaseURL))
		cheatsheetService = services.NewCheatsheetService(oddsClient)
	} else {
		log.Println("ODDS_API_KEY not set, cheatsheet endpoint disabled")
	}

	// Initialize handlers
	betHandler := handlers.NewBetHandler(ledgerService, resolveService)
	playerHandler := handlers.NewPlayerHandler(playerService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	researchHandler := handlers.NewResearchHandler(researchService)
	cheatsheetHandler := handlers.NewCheatsheetHandler(cheatsheetService)

	// Start prop resolver job
	var resolverJob *jobs.PropResolver
	if cfg.Jobs.ResolverEnabled {
		resolverJob = jobs.NewPropResolver(
			resolveService,
			repo,
			cfg.Jobs.ResolverInterval,
			cfg.Jobs.ResolverBatch,
			cfg.Jobs.ResolverCapture,
		)
		go resolverJob.Start()
		log.Println("Prop resolver job started")
	}

	// Set up Gin router
	router := gin.Default()
	router.Use(requestID())

	// CORS middleware
	allowedOrigins := []string{
		"http://localhost:3000",
		"http://localhost:5173", // Vite dev server
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	}
	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	health := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
	router.GET("/health", health)
	router.GET("/api/health", health)

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		// Bet ledger endpoints
		api.POST("/bets", betHandler.CreateBet)
		api.GET("/bets/recent", betHandler.GetRecentBets)
		api.POST("/bets/:id/props", betHandler.AddProp)
		api.PUT("/bets/:id/result", betHandler.MarkBetResult)

		// Prop resolution endpoints
		api.PUT("/props/:id/result", betHandler.MarkPropResult)
		api.POST("/props/:id/resolve", betHandler.AutoResolveProp)
		api.POST("/props/resolve-batch", betHandler.BatchResolve)

		// Player directory endpoints
		api.GET("/players/search", playerHandler.SearchPlayers)
		api.GET("/players/:id", playerHandler.GetPlayer)

		// Analytics endpoints
		api.GET("/analytics/bust-players", analyticsHandler.GetBustPlayers)
		api.GET("/analytics/tough-matchups", analyticsHandler.GetToughMatchups)
		api.GET("/analytics/player-vs-opponent", analyticsHandler.GetPlayerVsOpponent)

		// Research endpoints
		api.GET("/research/player", researchHandler.PlayerResearch)

		// Bookmaker cheatsheet
		api.GET("/cheatsheet", cheatsheetHandler.GetCheatsheet)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		log.Printf("Health check: http://localhost:%s/health", cfg.Server.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	if resolverJob != nil {
		resolverJob.Stop()
	}

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// requestID tags every request with a correlation id, echoed in the response.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}
