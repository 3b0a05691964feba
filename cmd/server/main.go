package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"github.com/aponomy/schema-ehnemark/internal/auth"
	"github.com/aponomy/schema-ehnemark/internal/database"
	"github.com/aponomy/schema-ehnemark/internal/handlers"
	"github.com/aponomy/schema-ehnemark/internal/metrics"
	"github.com/aponomy/schema-ehnemark/internal/middleware"
	"github.com/aponomy/schema-ehnemark/internal/notify"
	"github.com/aponomy/schema-ehnemark/internal/proposal"
	"github.com/aponomy/schema-ehnemark/internal/storage"
)

var Version = "dev"

func main() {
	ctx := context.Background()

	connString := os.Getenv("DATABASE_URL")
	if connString == "" {
		log.Fatal("DATABASE_URL is required")
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	policy, err := proposal.ParsePolicy(os.Getenv("CONSENT_POLICY"))
	if err != nil {
		log.Fatalf("Invalid CONSENT_POLICY: %v", err)
	}

	pool, err := database.Connect(ctx, connString)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	users := storage.NewUserRepo(pool)
	schedules := storage.NewScheduleRepo(pool)
	proposals := storage.NewProposalRepo(pool)
	drafts := storage.NewDraftRepo(pool)

	engine := proposal.NewEngine(proposals, drafts, policy)
	jwtService := auth.NewJWTService(jwtSecret, "schema-ehnemark")

	// Initialize Gin
	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(metrics.Middleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"version": Version,
		})
	})

	// Version endpoint
	r.GET("/api/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version": Version,
			"service": "schema-ehnemark",
			"policy":  string(policy),
		})
	})

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	api.POST("/login", handlers.Login(users, jwtService))
	api.GET("/schedule", handlers.GetSchedule(schedules))
	api.GET("/schedule/stats", handlers.GetStatistics(schedules))

	authed := api.Group("")
	authed.Use(middleware.RequireAuth(jwtService))
	authed.GET("/proposal", handlers.GetProposal(engine))
	authed.PUT("/proposal", handlers.UpdateProposal(engine))
	if policy == proposal.PolicyDuel {
		authed.GET("/proposals", handlers.GetDraftProposals(engine))
		authed.PUT("/proposals", handlers.UpdateDraftProposal(engine))
	}

	// Handoff reminder job
	reminderSpec := os.Getenv("REMINDER_CRON")
	if reminderSpec == "" {
		reminderSpec = "0 18 * * *"
	}
	reminder := notify.NewReminder(schedules, users, notify.LogNotifier{})
	scheduler := cron.New()
	if _, err := reminder.Start(scheduler, reminderSpec); err != nil {
		log.Fatalf("Failed to schedule reminder: %v", err)
	}
	scheduler.Start()

	// Server configuration
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: r,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %s (policy: %s)", port, policy)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
