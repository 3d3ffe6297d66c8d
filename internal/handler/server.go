// Package handler implements the HTTP handlers for the trip planner API.
// All handlers are methods on Server. Methods are split into resource files
// (health.go, trip.go, hotel.go, ...) but share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pkordes/trip-planner/api"
	"github.com/pkordes/trip-planner/internal/collab"
	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/middleware"
	"github.com/pkordes/trip-planner/internal/service"
)

// TripServicer defines the business operations the handlers depend on.
// Defining the interface here, in the consumer package, lets handler tests
// inject a mock without touching the store or service layer.
type TripServicer interface {
	Create(ctx context.Context, actor domain.Actor, in service.NewTrip) (domain.Trip, error)
	Get(ctx context.Context, tripID string) (domain.Trip, error)
	AddHotel(ctx context.Context, actor domain.Actor, tripID, url string) (domain.Trip, error)
	VoteHotel(ctx context.Context, actor domain.Actor, tripID, hotelID string, vote *domain.VoteType) (domain.Trip, error)
	RankedHotels(ctx context.Context, tripID string) ([]collab.RankedHotel, error)
	HotelPreview(ctx context.Context, tripID, hotelID string) (domain.LinkMetadata, error)
	Preview(ctx context.Context, rawURL string) (domain.LinkMetadata, error)
	AddActivity(ctx context.Context, actor domain.Actor, tripID string, in service.NewActivity) (domain.Trip, error)
	RateActivity(ctx context.Context, actor domain.Actor, tripID, activityID string, rating *int) (domain.Trip, error)
	AddPackingItem(ctx context.Context, actor domain.Actor, tripID, name string) (domain.Trip, error)
	TogglePacking(ctx context.Context, actor domain.Actor, tripID, itemID string) (domain.Trip, error)
	AddComment(ctx context.Context, actor domain.Actor, tripID string, kind domain.ItemKind, itemID, text string) (domain.Trip, error)
	Export(ctx context.Context, tripID string) ([]domain.ExportRow, error)
}

var _ TripServicer = (*service.TripService)(nil)

// Server holds the dependencies shared by every handler.
type Server struct {
	trips TripServicer
	log   *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(trips TripServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{trips: trips, log: log}
}

// Routes registers every API endpoint on r. Mutating endpoints require the
// identity headers; r must already run middleware.NewActorHandler.
func (s *Server) Routes(r chi.Router) {
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)
	r.Get("/link-preview", s.GetLinkPreview)

	r.Route("/trips", func(r chi.Router) {
		r.With(middleware.RequireActor).Post("/", s.CreateTrip)

		r.Route("/{tripID}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Get("/hotels/ranked", s.RankHotels)
			r.Get("/hotels/{itemID}/preview", s.PreviewHotel)
			r.Get("/export", s.GetExport)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireActor)
				r.Post("/hotels", s.AddHotel)
				r.Put("/hotels/{itemID}/vote", s.VoteHotel)
				r.Post("/activities", s.AddActivity)
				r.Put("/activities/{itemID}/rating", s.RateActivity)
				r.Post("/packing", s.AddPackingItem)
				r.Post("/packing/{itemID}/toggle", s.TogglePacking)
				r.Post("/{kind}/{itemID}/comments", s.AddComment)
			})
		})
	})
}

// RouterOptions configures NewRouter.
type RouterOptions struct {
	Logger       *slog.Logger
	CORSOrigins  []string
	MaxBodyBytes int64
	// Gatherer, when set, is exposed at /metrics.
	Gatherer prometheus.Gatherer
}

// NewRouter builds the production chi router: middleware stack, API routes
// and the metrics endpoint.
//
// Middleware order: RequestID, RealIP, CORS, Actor, SlogLogger, Recoverer,
// MaxBodySize. The logger runs inside Actor so it can record the user id.
func NewRouter(s *Server, opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewCORSHandler(opts.CORSOrigins))
	r.Use(middleware.NewActorHandler())
	r.Use(middleware.NewSlogLogger(s.log))
	r.Use(chimiddleware.Recoverer)
	if opts.MaxBodyBytes > 0 {
		r.Use(middleware.NewMaxBodySizeHandler(opts.MaxBodyBytes))
	}
	r.Use(chimiddleware.Timeout(30 * time.Second))

	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	s.Routes(r)
	return r
}

// GetOpenAPI handles GET /openapi.yaml.
func (s *Server) GetOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(api.OpenAPI)
}
