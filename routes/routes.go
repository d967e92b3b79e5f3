package routes

import (
	"net/http"
	"os"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/HarshJain-sudo/oldmachine-backend/controllers"
)

func optionsHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// InitRouter builds the router: CORS, health check and the marketplace
// and seller-portal route groups.
func InitRouter() *mux.Router {
	r := mux.NewRouter()

	r.Handle("/health", http.HandlerFunc(controllers.Health)).Methods(http.MethodGet)

	// Origins from CORS_ALLOWED_ORIGINS (comma-separated) or local defaults.
	origins := []string{
		"http://localhost:3000", "http://localhost:8080",
		"http://127.0.0.1:3000", "http://127.0.0.1:8080",
	}
	if originsEnv := os.Getenv("CORS_ALLOWED_ORIGINS"); originsEnv != "" {
		for _, p := range strings.Split(originsEnv, ",") {
			if o := strings.TrimSpace(p); o != "" {
				origins = append(origins, o)
			}
		}
	}
	r.Use(func(next http.Handler) http.Handler {
		return handlers.CORS(
			handlers.AllowedOrigins(origins),
			handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}),
			handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Requested-With", "X-Request-ID"}),
			handlers.AllowCredentials(),
		)(next)
	})

	api := r.PathPrefix("/api").Subrouter()

	// Catch-all OPTIONS handler for CORS preflight.
	api.PathPrefix("/").HandlerFunc(optionsHandler).Methods(http.MethodOptions)

	registerMarketplaceRoutes(api.PathPrefix("/marketplace").Subrouter())
	registerSellerPortalRoutes(api.PathPrefix("/seller-portal").Subrouter())

	return r
}
