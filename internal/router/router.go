package router

import (
	"net/http"
	"strings"

	"boutique/internal/handler"
	"boutique/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	orderHandler *handler.OrderHandler,
	cartHandler *handler.CartHandler,
	addressHandler *handler.AddressHandler,
	auditHandler *handler.AuditHandler,
	jwtSecret string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Order handler function
	orderRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		// Route based on method and path
		if r.URL.Path == "/api/orders" || r.URL.Path == "/api/orders/" {
			switch r.Method {
			case http.MethodPost:
				orderHandler.Create(w, r)
			case http.MethodGet:
				orderHandler.ListAll(w, r)
			default:
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			}
			return
		}

		if r.URL.Path == "/api/orders/my" || r.URL.Path == "/api/orders/my/" {
			orderHandler.ListMine(w, r)
			return
		}

		// Status updates address a specific order ID
		if r.Method == http.MethodPatch && strings.HasSuffix(r.URL.Path, "/status") {
			orderHandler.UpdateStatus(w, r)
			return
		}

		http.Error(w, "not found", http.StatusNotFound)
	}

	// Register order routes (both with and without trailing slash)
	mux.HandleFunc("/api/orders", orderRouteHandler)
	mux.HandleFunc("/api/orders/", orderRouteHandler)

	mux.HandleFunc("/api/cart", cartHandler.Handle)
	mux.HandleFunc("/api/cart/", cartHandler.Handle)

	mux.HandleFunc("/api/addresses", addressHandler.Handle)
	mux.HandleFunc("/api/addresses/", addressHandler.Handle)

	mux.HandleFunc("/api/audit", auditHandler.Recent)

	// Apply middleware in order: Recovery -> Logging -> CORS -> CookieAuth
	var h http.Handler = mux
	h = middleware.CookieAuth([]byte(jwtSecret), logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
