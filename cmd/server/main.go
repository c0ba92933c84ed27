package main

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/casafin/casafin/internal/db"
	"github.com/casafin/casafin/internal/handlers"
	"github.com/casafin/casafin/internal/logger"
	"github.com/casafin/casafin/internal/repositories"
	"github.com/casafin/casafin/internal/services"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	log, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Database connection
	config := db.NewConfig()
	database, err := db.Connect(config)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Health(); err != nil {
		log.Fatal("Database health check failed", zap.Error(err))
	}
	if err := database.Migrate(); err != nil {
		log.Fatal("Database migration failed", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize repositories
	assetRepo := repositories.NewAssetRepository(database)
	transactionRepo := repositories.NewTransactionRepository(database)
	valuationRepo := repositories.NewValuationRepository(database)

	// Initialize services and handlers
	investmentService := services.NewInvestmentService(database, assetRepo, transactionRepo, valuationRepo)
	investmentHandler := handlers.NewInvestmentHandler(investmentService)

	// Setup HTTP router
	router := mux.NewRouter()

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status":  "healthy",
			"service": "casafin-backend",
		})
	})

	// Investment endpoints. Literal segments are registered before the
	// {assetID} catch-alls so mux matches them first.
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/investments/household/{householdID}", investmentHandler.HandleHouseholdAssets).Methods(http.MethodGet)
	api.HandleFunc("/investments/household/{householdID}/portfolio", investmentHandler.HandlePortfolioSummary).Methods(http.MethodGet)
	api.HandleFunc("/investments/household/{householdID}/member/{memberID}", investmentHandler.HandleCreateAsset).Methods(http.MethodPost)
	api.HandleFunc("/investments/transactions/{transactionID}", investmentHandler.HandleTransaction).Methods(http.MethodPatch, http.MethodDelete)
	api.HandleFunc("/investments/{assetID}", investmentHandler.HandleAsset).Methods(http.MethodGet, http.MethodPatch, http.MethodDelete)
	api.HandleFunc("/investments/{assetID}/transactions", investmentHandler.HandleAssetTransactions).Methods(http.MethodGet, http.MethodPost)
	api.HandleFunc("/investments/{assetID}/valuations", investmentHandler.HandleAssetValuations).Methods(http.MethodGet, http.MethodPost)
	api.HandleFunc("/investments/{assetID}/recalculate", investmentHandler.HandleRecalculateQuantity).Methods(http.MethodPost)

	// CORS middleware
	corsHandler := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}

	// Get port from environment
	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	// Start server
	log.Info("Server starting", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, corsHandler(router)); err != nil {
		log.Fatal("Server stopped", zap.Error(err))
	}
}
