package router

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"kardly-server/app/auth"
	"kardly-server/app/controller"
	"kardly-server/models"
	"kardly-server/utils"
)

type Controllers struct {
	Health     *controller.HealthController
	Photocard  *controller.PhotocardController
	Catalog    *controller.CatalogController
	Collection *controller.CollectionController
}

// Options selects how add_photocard is authenticated
type Options struct {
	RequireAuth bool
}

// SetupRoutes builds the HTTP handler for every API endpoint
func SetupRoutes(log *zap.Logger, controllers *Controllers, authn *auth.Middleware, opts Options) http.Handler {
	r := mux.NewRouter()
	r.Use(recoverer(log), requestLogger(log))

	// Health check
	r.HandleFunc("/health", controllers.Health.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// Photocards: the owner comes from the token when one is sent
	addPhotocard := authn.Optional
	if opts.RequireAuth {
		addPhotocard = authn.Require
	}
	api.Handle("/add_photocard", addPhotocard(http.HandlerFunc(controllers.Photocard.AddPhotocard))).Methods(http.MethodPost)

	// Catalog find-or-create
	api.HandleFunc("/groups/create", controllers.Catalog.CreateGroup).Methods(http.MethodPost)
	api.HandleFunc("/members/create", controllers.Catalog.CreateMember).Methods(http.MethodPost)
	api.HandleFunc("/albums/create", controllers.Catalog.CreateAlbum).Methods(http.MethodPost)

	// Collection flags always act for the caller
	api.Handle("/collection/toggle-owned", authn.Require(http.HandlerFunc(controllers.Collection.ToggleOwned))).Methods(http.MethodPost)
	api.Handle("/collection/toggle-wishlist", authn.Require(http.HandlerFunc(controllers.Collection.ToggleWishlist))).Methods(http.MethodPost)

	// a known path with the wrong method is reported like an unknown path.
	// mux skips middleware for these handlers, so they are wrapped here
	r.NotFoundHandler = requestLogger(log)(http.HandlerFunc(notFound))
	r.MethodNotAllowedHandler = r.NotFoundHandler

	return r
}

func notFound(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteError(w, http.StatusNotFound, models.CodeNotFound, "Endpoint not found")
}

// recoverer turns a panicking handler into a SERVER_ERROR response
func recoverer(log *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					if v == http.ErrAbortHandler {
						panic(v)
					}
					log.Error("unhandled panic", zap.Any("panic", v), zap.String("path", r.URL.Path), zap.Stack("stack"))
					_ = utils.WriteError(w, http.StatusInternalServerError, models.CodeServerError, "An unexpected error occurred")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// statusRecorder remembers the status written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func requestLogger(log *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			log.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
