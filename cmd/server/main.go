package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"field-route-service/internal/adapters/cache"
	"field-route-service/internal/adapters/insights"
	"field-route-service/internal/adapters/ors"
	"field-route-service/internal/adapters/repositories"
	"field-route-service/internal/api"
	platformdb "field-route-service/internal/platform/db"
	"field-route-service/internal/ports"
	"field-route-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (SQLite, Redis, ORS) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := getEnv("DB_PATH", "data/app.db")
	seedPath := getEnv("SEED_PATH", "data/seeds/questions.json")
	port := getEnv("PORT", "8080")

	db, err := openDB(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Initialize schema and seed the question catalog on startup for local runs.
	if err := initAndSeed(db, seedPath); err != nil {
		log.Fatal(err)
	}

	geocodeCache := newGeocodeCache(db)

	// Without an ORS key the service runs fully offline: nearest-neighbor
	// planning and local geocoordinates only.
	var optimizer ports.OptimizationProvider
	var geocoder ports.GeocodeProvider
	if orsKey := strings.TrimSpace(os.Getenv("ORS_API_KEY")); orsKey != "" {
		orsURL := os.Getenv("ORS_BASE_URL")
		opt, err := ors.NewOptimizer(orsKey, orsURL)
		if err != nil {
			log.Fatal(err)
		}
		geo, err := ors.NewGeocoder(orsKey, orsURL, geocodeCache)
		if err != nil {
			log.Fatal(err)
		}
		optimizer, geocoder = opt, geo
	} else {
		log.Println("ORS_API_KEY not set, running without external optimizer and geocoder")
	}

	var insightProvider ports.InsightProvider
	if insightsURL := strings.TrimSpace(os.Getenv("INSIGHTS_URL")); insightsURL != "" {
		ip, err := insights.NewHTTPInsightProvider(insightsURL)
		if err != nil {
			log.Fatal(err)
		}
		insightProvider = ip
	}

	routes := repositories.NewSqliteRouteRepository(db)
	stops := repositories.NewSqliteStopRepository(db)
	responses := repositories.NewSqliteResponseRepository(db)
	reports := repositories.NewSqliteReportRepository(db)
	questions := repositories.NewSqliteQuestionRepository(db)

	routeService := &services.RouteService{
		Routes:    routes,
		Stops:     stops,
		Responses: responses,
		Questions: questions,
		Optimizer: optimizer,
		Geocoder:  geocoder,
	}
	reportService := &services.ReportService{
		Routes:    routes,
		Stops:     stops,
		Responses: responses,
		Reports:   reports,
		Insights:  insightProvider,
	}

	router := api.NewRouter(routeService, reportService, reports, questions)

	// Timeouts are tuned for cold-cache optimization (external API latency).
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func openDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return db, nil
}

func initAndSeed(db *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(db); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedQuestionsFromJSON(db, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}

// newGeocodeCache picks the most shared backend available: Redis when
// REDIS_ADDR is set, the Postgres table when DATABASE_URL is set, and
// otherwise the local SQLite table. Cached geocodes survive restarts
// either way.
func newGeocodeCache(local *sql.DB) ports.GeocodeCache {
	if addr := strings.TrimSpace(os.Getenv("REDIS_ADDR")); addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		log.Printf("Geocode cache backend=redis addr=%s", addr)
		return cache.NewRedisGeocodeCache(client)
	}

	if databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL")); databaseURL != "" {
		pg, err := platformdb.Open(databaseURL)
		if err != nil {
			log.Fatal(err)
		}
		log.Println("Geocode cache backend=postgres")
		return cache.NewSQLGeocodeCache(pg)
	}

	return cache.NewSqliteGeocodeCache(local)
}
