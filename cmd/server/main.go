package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rogelio-fraga-dev/barberbot/internal/agenda"
	"github.com/rogelio-fraga-dev/barberbot/internal/ai"
	"github.com/rogelio-fraga-dev/barberbot/internal/bot"
	"github.com/rogelio-fraga-dev/barberbot/internal/config"
	"github.com/rogelio-fraga-dev/barberbot/internal/database"
	"github.com/rogelio-fraga-dev/barberbot/internal/dispatch"
	"github.com/rogelio-fraga-dev/barberbot/internal/evolution"
	"github.com/rogelio-fraga-dev/barberbot/internal/store"
	"github.com/rogelio-fraga-dev/barberbot/internal/webhook"
)

func main() {
	cfg := config.LoadConfig()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	contacts := store.NewContactStore(db)
	interactions := store.NewInteractionStore(db)
	actions := store.NewActionStore(db)

	evolutionClient := evolution.NewClient(cfg)
	aiClient := ai.NewClient(cfg)
	agendaService := agenda.NewService(actions, cfg)

	orchestrator := bot.NewOrchestrator(cfg, evolutionClient, evolutionClient, aiClient, agendaService,
		contacts, interactions, actions)

	engine := dispatch.NewEngine(actions, evolutionClient, orchestrator.Pauses, cfg)
	reporter := dispatch.NewReporter(contacts, actions, agendaService, evolutionClient, cfg)
	scheduler, err := dispatch.NewScheduler(engine, reporter, orchestrator.Dedup)
	if err != nil {
		log.Fatalf("Failed to build scheduler: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	r := gin.Default()

	// CORS Middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	webhookHandler := webhook.NewHandler(orchestrator)
	webhookHandler.RegisterRoutes(r)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
