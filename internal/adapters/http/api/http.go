// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/okian/mizan/internal/adapters/csvio"
	"github.com/okian/mizan/internal/adapters/http/swagger"
	"github.com/okian/mizan/internal/domain/kpi"
	"github.com/okian/mizan/internal/domain/model"
	"github.com/okian/mizan/internal/domain/report"
	"github.com/okian/mizan/internal/domain/scoring"
	"github.com/okian/mizan/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Years(ctx context.Context) ([]int, error)
	DefaultYear(ctx context.Context) (int, error)

	// Select reloads a year from disk and republishes its report.
	Select(ctx context.Context, year int) (*report.Report, error)

	// Read operations expose the published snapshot.
	Report(ctx context.Context, year int) (*report.Report, error)
	Leaderboard(ctx context.Context, year, limit int) ([]scoring.Entry, error)
	KPI(ctx context.Context, year int) (*kpi.KPI, error)
	Member(ctx context.Context, year int, id string) (*report.MemberDetail, error)

	AddActivity(ctx context.Context, a csvio.NewActivity) (model.Participation, error)
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxLeaderboardLimit caps GET .../leaderboard?limit.
func WithMaxLeaderboardLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithRateLimit limits each client to rps requests per second with the
// given burst. A zero rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		s.rps = rps
		s.burst = burst
	}
}

// WithCORSOrigins sets the browser origins allowed to call the API.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.origins = origins
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithRequestTimeout bounds every request.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// Server wires HTTP routes for the report API.
type Server struct {
	maxLimit int
	rps      float64
	burst    int
	origins  []string
	timeout  time.Duration
	log      logger.Logger

	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	reportHandler      *ReportHandler
	leaderboardHandler *LeaderboardHandler
	memberHandler      *MemberHandler
	activityHandler    *ActivityHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		maxLimit: 100,
		origins:  []string{"*"},
		timeout:  30 * time.Second,
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	years := newYearParser(deps)
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.reportHandler = NewReportHandler(deps, years)
	s.leaderboardHandler = NewLeaderboardHandler(deps, years, s.maxLimit)
	s.memberHandler = NewMemberHandler(deps, years)
	s.activityHandler = NewActivityHandler(deps, years)
	return s
}

// Router builds the chi router with middleware and every route attached.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, RequestLogger(s.log), middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:         300,
	}))
	s.Register(r)
	return r
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(r chi.Router) {
	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/metrics", s.healthHandler.HandleMetrics)
	swagger.Register(context.Background(), r)

	r.Group(func(ar chi.Router) {
		ar.Use(RateLimitMiddleware(newClientLimiter(s.rps, s.burst)))

		ar.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
		ar.Get("/years", MetricsMiddleware(s.reportHandler.HandleYears, "years"))
		ar.Route("/years/{year}", func(yr chi.Router) {
			yr.Get("/report", MetricsMiddleware(s.reportHandler.HandleReport, "report"))
			yr.Get("/kpi", MetricsMiddleware(s.reportHandler.HandleKPI, "kpi"))
			yr.Post("/reload", MetricsMiddleware(s.reportHandler.HandleReload, "reload"))
			yr.Get("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
			yr.Get("/members/{id}", MetricsMiddleware(s.memberHandler.HandleGetMember, "member"))
			yr.Post("/activities", MetricsMiddleware(s.activityHandler.HandlePostActivity, "activities"))
		})
	})
}

// yearParser resolves the {year} path parameter: an integer, "all" or "current".
type yearParser struct {
	deps Dependencies
}

func newYearParser(deps Dependencies) *yearParser { return &yearParser{deps: deps} }

func (p *yearParser) parse(r *http.Request) (int, error) {
	const op = "api.parse_year"
	raw := chi.URLParam(r, "year")
	if strings.EqualFold(raw, "current") {
		y, err := p.deps.DefaultYear(r.Context())
		if err != nil {
			return 0, Wrap(op, err)
		}
		return y, nil
	}
	y, ok := model.ParseYearKey(raw)
	if !ok {
		return 0, NewKind(op, ErrBadRequest)
	}
	return y, nil
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const contentTypeMsgpack = "application/msgpack"

// wantsMsgpack reports whether the client asked for a MessagePack body.
func wantsMsgpack(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, contentTypeMsgpack) || strings.Contains(accept, "application/x-msgpack")
}

// writeResponse encodes v as MessagePack when the client accepts it, JSON otherwise.
func writeResponse(w http.ResponseWriter, r *http.Request, status int, v any) {
	if !wantsMsgpack(r) {
		writeJSON(w, status, v)
		return
	}
	w.Header().Set("Content-Type", contentTypeMsgpack)
	w.WriteHeader(status)
	enc := msgpack.NewEncoder(w)
	enc.SetCustomStructTag("json")
	_ = enc.Encode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
