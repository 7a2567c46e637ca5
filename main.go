package main

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"credinews/cache"
	"credinews/config"
	"credinews/database"
	"credinews/handlers"
	"credinews/logger"
	"credinews/services"
)

func main() {
	log.SetOutput(logger.GetWriter())
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Println("🚀 Starting CrediNews backend...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("❌ Configuration error:", err)
	}

	log.Printf("✓ Configuration loaded")
	log.Printf("  - Port: %s", cfg.Port)

	database.InitDB(cfg.DbUrl)
	cache.InitRedis(cfg.RedisUrl)

	var factCheckClient *services.GoogleFactCheckClient
	if cfg.GoogleFactCheckAPIKey != "" {
		factCheckClient = services.NewGoogleFactCheckClient(cfg.GoogleFactCheckAPIKey)
		log.Printf("  - Google Fact Check API: enabled ✓")
	} else {
		log.Printf("  - Google Fact Check API: disabled")
	}

	var facebookClient *services.FacebookClient
	if cfg.FacebookAccessToken != "" {
		facebookClient = services.NewFacebookClient(cfg.FacebookAccessToken)
		log.Printf("  - Facebook Graph API: enabled ✓")
	} else {
		log.Printf("  - Facebook Graph API: disabled")
	}

	engine := services.NewEngine(factCheckClient, facebookClient)

	trendsCron := services.StartTrendsCron()
	defer trendsCron.Stop()

	analyzerHandler := handlers.NewAnalyzerHandler(cfg, engine)
	trendsHandler := handlers.NewTrendsHandler()
	userHandler := handlers.NewUserHandler()
	adminHandler := handlers.NewAdminHandler(cfg)
	log.Println("✓ Services initialized")

	http.HandleFunc("/api/analyze", analyzerHandler.Analyze)
	http.HandleFunc("/api/analyze/stream", analyzerHandler.AnalyzeStream)
	http.HandleFunc("/api/analysis/", analyzerHandler.GetAnalysis)
	http.HandleFunc("/api/health", analyzerHandler.Health)
	http.HandleFunc("/api/trends", trendsHandler.GetTrends)
	http.HandleFunc("/api/trends/export", trendsHandler.ExportTrends)
	http.HandleFunc("/api/user/news-verifications", userHandler.History)
	http.HandleFunc("/api/user/export", userHandler.Export)

	// Admin API
	http.HandleFunc("/api/admin/stats", adminHandler.AuthMiddleware(adminHandler.GetStats))
	http.HandleFunc("/api/admin/logs", adminHandler.StreamLogs)

	addr := ":" + cfg.Port
	fmt.Println("\n" + strings.Repeat("=", 50))
	fmt.Printf("🎯 Server running at http://localhost%s\n", addr)
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("\n📝 Examples:")
	fmt.Printf(`   curl -X POST http://localhost%s/api/analyze -H "Content-Type: application/json" -d '{"type": "text", "content": "some claim"}'`+"\n", addr)
	fmt.Printf(`   curl http://localhost%s/api/trends?range=7`+"\n", addr)
	fmt.Println("\n" + strings.Repeat("=", 50) + "\n")

	log.Println("✓ Server ready to accept requests...")
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatal("❌ Server start error:", err)
	}
}
