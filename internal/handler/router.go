package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(convertHandler *ConvertHandler, allowedOrigins []string, middlewares ...mux.MiddlewareFunc) http.Handler {
	router := mux.NewRouter()
	router.Use(middlewares...)

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "doc-text-converter",
		})
	}).Methods("GET")

	// Upload page and conversion form target
	router.HandleFunc("/", convertHandler.Index).Methods("GET")
	router.HandleFunc("/convert", convertHandler.Convert).Methods("POST")

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
		},
		ExposedHeaders: []string{
			"X-Request-ID",
		},
		MaxAge: 300, // Maximum value not ignored by any of major browsers
	})

	return c.Handler(router)
}
