package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/afiliadosprobusiness-lab/map-leads-backend/admin"
	config "github.com/afiliadosprobusiness-lab/map-leads-backend/firebase"
	"github.com/afiliadosprobusiness-lab/map-leads-backend/handlers"
	"github.com/afiliadosprobusiness-lab/map-leads-backend/middleware"
	"github.com/afiliadosprobusiness-lab/map-leads-backend/provider"
	"github.com/afiliadosprobusiness-lab/map-leads-backend/search"
	"github.com/afiliadosprobusiness-lab/map-leads-backend/store"
)

func main() {
	// load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println("no .env, falling back to environment variables")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	clients, err := config.Init(ctx)
	if err != nil {
		logger.Fatal("firebase init failed", zap.Error(err))
	}
	defer clients.Firestore.Close()

	st := store.NewFirestore(clients.Firestore)
	identity := admin.NewFirebaseIdentity(clients.Auth)
	mgr := admin.NewManager(st, identity, logger)

	var prov provider.Provider
	if apify := provider.NewApifyFromEnv(); apify != nil {
		prov = apify
		logger.Info("place-search provider configured")
	} else {
		logger.Info("no APIFY_TOKEN set, searches run in synthetic mode")
	}
	orch := search.NewOrchestrator(st, prov, logger)

	superadmins := handlers.ParseSuperadmins(os.Getenv("SUPERADMIN_EMAILS"))

	// router
	r := mux.NewRouter()

	// protected /api/* routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.VerifyFirebaseToken(clients.App))
	api.HandleFunc("/user/profile", handlers.GetProfile(st)).Methods("GET")
	api.HandleFunc("/user/usage", handlers.GetUsage(st)).Methods("GET")
	api.HandleFunc("/search/run", handlers.RunSearch(orch)).Methods("POST")
	api.HandleFunc("/admin", handlers.Admin(mgr, superadmins)).Methods("POST")

	// CORS configuration
	frontendOrigin := os.Getenv("FRONTEND_ORIGIN")
	if frontendOrigin == "" {
		frontendOrigin = "*"
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{frontendOrigin}, // cannot be "*" if AllowCredentials=true
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           int((12 * time.Hour).Seconds()),
	})

	handler := c.Handler(r)

	// port normalization (prefer Cloud Run's PORT)
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:         port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("map-leads backend listening",
		zap.String("addr", port),
		zap.String("cors_origin", frontendOrigin))
	log.Fatal(srv.ListenAndServe())
}
