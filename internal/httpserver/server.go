package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/UshurbakiyevDavlat/Marketing-App/internal/analytics"
	"github.com/UshurbakiyevDavlat/Marketing-App/internal/cache"
	"github.com/UshurbakiyevDavlat/Marketing-App/internal/config"
	"github.com/UshurbakiyevDavlat/Marketing-App/internal/database"
	"github.com/UshurbakiyevDavlat/Marketing-App/internal/ingest"
	"github.com/UshurbakiyevDavlat/Marketing-App/internal/metrics"
	"github.com/UshurbakiyevDavlat/Marketing-App/internal/models"
	"github.com/UshurbakiyevDavlat/Marketing-App/internal/storage"
)

// Dependencies holds all external dependencies for the server. Any of the
// database handles may be nil; the server falls back to in-memory stores.
type Dependencies struct {
	DB         *database.PostgresDB
	ClickHouse *database.ClickHouseDB
	Redis      *database.RedisDB
	Config     *config.Config
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
}

// Server wraps HTTP handlers over the analytics engine.
type Server struct {
	campaigns   storage.CampaignRepo
	analytics   *analytics.Service
	ingestor    *ingest.Ingestor
	metricCache *cache.MetricsCache
	logger      *zap.Logger
	config      *config.Config
	metrics     *metrics.Metrics
}

// NewServer constructs a new http.Handler with all routes registered.
func NewServer(deps *Dependencies) http.Handler {
	// Initialize repositories
	var cRepo storage.CampaignRepo
	if deps.DB != nil {
		cRepo = storage.NewPostgresCampaignRepo(deps.DB.Pool)
	} else {
		cRepo = storage.NewInMemoryCampaignRepo()
	}

	var eventLog storage.EventLog
	switch {
	case deps.Config.EventStore == config.EventStoreClickHouse && deps.ClickHouse != nil:
		eventLog = storage.NewClickHouseEventLog(deps.ClickHouse.Conn, deps.Logger)
	case deps.Config.EventStore == config.EventStorePostgres && deps.DB != nil:
		eventLog = storage.NewPostgresEventLog(deps.DB.Pool)
	default:
		eventLog = storage.NewInMemoryEventLog()
	}

	var metricCache *cache.MetricsCache
	if deps.Redis != nil && deps.Config.Cache.Enabled {
		metricCache = cache.NewMetricsCache(deps.Redis.Client, deps.Config.Cache.TTL, deps.Logger, deps.Metrics)
	}

	var invalidator ingest.Invalidator
	if metricCache != nil {
		invalidator = metricCache
	}

	s := &Server{
		campaigns:   cRepo,
		analytics:   analytics.NewService(cRepo, eventLog, deps.Logger),
		ingestor:    ingest.NewIngestor(eventLog, invalidator, deps.Logger, deps.Metrics),
		metricCache: metricCache,
		logger:      deps.Logger,
		config:      deps.Config,
		metrics:     deps.Metrics,
	}

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", s.handleHealth)

	// Prometheus metrics
	if deps.Config.Metrics.Enabled && deps.Metrics != nil {
		mux.Handle(deps.Config.Metrics.Path, deps.Metrics.Handler())
	}

	// Campaign management
	mux.HandleFunc("/campaigns", s.handleCampaigns)
	mux.HandleFunc("/campaigns/", s.handleCampaignByID)

	// Cross-campaign analytics
	mux.HandleFunc("/analytics/overall", s.handleOverallAnalytics)
	mux.HandleFunc("/analytics/ab-test", s.handleABTest)

	// Event ingestion
	mux.HandleFunc("/webhooks/email-events", s.handleEmailEvents)

	return mux
}

// ---- Health Check ----

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// ---- Campaigns CRUD ----

func (s *Server) handleCampaigns(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		var (
			list []*models.Campaign
			err  error
		)
		if userID := r.URL.Query().Get("user_id"); userID != "" {
			list, err = s.campaigns.ListByUser(r.Context(), userID)
		} else {
			list, err = s.campaigns.ListAll(r.Context())
		}
		if err != nil {
			s.logger.Error("failed to list campaigns", zap.Error(err))
			s.errorResponse(w, "failed to list", http.StatusInternalServerError)
			return
		}
		if list == nil {
			list = []*models.Campaign{}
		}
		s.jsonResponse(w, list)

	case http.MethodPost:
		var c models.Campaign
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			s.errorResponse(w, "invalid json", http.StatusBadRequest)
			return
		}
		now := time.Now().UTC()
		if c.ID == "" {
			c.ID = uuid.NewString()
			c.CreatedAt = now
		}
		c.UpdatedAt = now
		if err := c.Validate(); err != nil {
			s.errorResponse(w, "invalid campaign: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := s.campaigns.Upsert(r.Context(), &c); err != nil {
			s.logger.Error("failed to save campaign", zap.Error(err))
			s.errorResponse(w, "failed to save", http.StatusInternalServerError)
			return
		}
		s.jsonResponse(w, c)

	default:
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleCampaignByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/campaigns/")
	if rest == "" {
		http.NotFound(w, r)
		return
	}

	id, sub, _ := strings.Cut(rest, "/")
	if sub != "" {
		s.handleCampaignAnalytics(w, r, id, sub)
		return
	}

	switch r.Method {
	case http.MethodGet:
		c, err := s.campaigns.GetByID(r.Context(), id)
		if err != nil {
			s.logger.Error("failed to get campaign", zap.Error(err))
			s.errorResponse(w, "failed to get campaign", http.StatusInternalServerError)
			return
		}
		if c == nil {
			s.errorResponse(w, "campaign not found", http.StatusNotFound)
			return
		}
		s.jsonResponse(w, c)

	case http.MethodDelete:
		if err := s.campaigns.Delete(r.Context(), id); err != nil {
			s.logger.Error("failed to delete campaign", zap.Error(err))
			s.errorResponse(w, "failed to delete", http.StatusInternalServerError)
			return
		}
		if s.metricCache != nil {
			_ = s.metricCache.Invalidate(r.Context(), id)
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// ---- Per-Campaign Analytics ----

func (s *Server) handleCampaignAnalytics(w http.ResponseWriter, r *http.Request, id, sub string) {
	if r.Method != http.MethodGet {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	switch sub {
	case "analytics":
		s.serveCampaignMetrics(w, r, id, start)

	case "analytics/segments":
		segments, err := s.analytics.GetSegmentedMetrics(r.Context(), id)
		if err != nil {
			s.analyticsError(w, "segments", err, start)
			return
		}
		s.recordAnalytics("segments", start)
		s.jsonResponse(w, segments)

	case "analytics/filtered":
		q := r.URL.Query()
		opts := analytics.FilterOptions{
			Tag:        q.Get("tag"),
			BounceType: q.Get("bounce_type"),
			TimePeriod: q.Get("time_period"),
		}
		m, err := s.analytics.GetFilteredCampaignMetrics(r.Context(), id, opts)
		if err != nil {
			s.analyticsError(w, "filtered", err, start)
			return
		}
		s.recordAnalytics("filtered", start)
		s.jsonResponse(w, m)

	case "analytics/bounces":
		report, err := s.analytics.GetBounceAnalysis(r.Context(), id)
		if err != nil {
			s.analyticsError(w, "bounces", err, start)
			return
		}
		s.recordAnalytics("bounces", start)
		s.jsonResponse(w, report)

	case "analytics/time":
		tm, err := s.analytics.CalculateTimeMetrics(r.Context(), id)
		if err != nil {
			s.analyticsError(w, "time", err, start)
			return
		}
		s.recordAnalytics("time", start)
		s.jsonResponse(w, tm)

	default:
		http.NotFound(w, r)
	}
}

// serveCampaignMetrics serves the base metric vector, consulting the Redis
// cache when enabled. The analytics engine itself always computes from the
// live event snapshot.
func (s *Server) serveCampaignMetrics(w http.ResponseWriter, r *http.Request, id string, start time.Time) {
	if s.metricCache != nil {
		if cached, err := s.metricCache.Get(r.Context(), id); err == nil && cached != nil {
			s.recordAnalytics("campaign_metrics", start)
			s.jsonResponse(w, cached)
			return
		}
	}

	m, err := s.analytics.GetCampaignMetrics(r.Context(), id)
	if err != nil {
		s.analyticsError(w, "campaign_metrics", err, start)
		return
	}
	if s.metricCache != nil {
		if err := s.metricCache.Set(r.Context(), id, m); err != nil {
			s.logger.Warn("failed to cache campaign metrics", zap.String("campaign_id", id), zap.Error(err))
		}
	}
	s.recordAnalytics("campaign_metrics", start)
	s.jsonResponse(w, m)
}

// ---- Cross-Campaign Analytics ----

func (s *Server) handleOverallAnalytics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		s.errorResponse(w, "user_id required", http.StatusBadRequest)
		return
	}

	start := time.Now()
	m, err := s.analytics.GetUserMetrics(r.Context(), userID)
	if err != nil {
		s.analyticsError(w, "overall", err, start)
		return
	}
	s.recordAnalytics("overall", start)
	s.jsonResponse(w, m)
}

func (s *Server) handleABTest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	campaignA := q.Get("campaign_a")
	campaignB := q.Get("campaign_b")
	if campaignA == "" || campaignB == "" {
		s.errorResponse(w, "campaign_a and campaign_b required", http.StatusBadRequest)
		return
	}

	start := time.Now()
	verdict, err := s.analytics.DetermineABTestWinner(r.Context(), campaignA, campaignB)
	if err != nil {
		s.analyticsError(w, "ab_test", err, start)
		return
	}
	if s.metrics != nil {
		s.metrics.RecordABVerdict(string(verdict.Winner))
	}
	s.recordAnalytics("ab_test", start)
	s.jsonResponse(w, verdict)
}

// ---- Event Ingestion ----

func (s *Server) handleEmailEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var batch []ingest.ProviderEvent
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		s.errorResponse(w, "invalid json", http.StatusBadRequest)
		return
	}

	res, err := s.ingestor.Ingest(r.Context(), batch)
	if err != nil {
		s.logger.Error("failed to ingest events", zap.Error(err))
		s.errorResponse(w, "failed to ingest events", http.StatusInternalServerError)
		return
	}
	s.jsonResponse(w, res)
}

// ---- Helper Methods ----

func (s *Server) recordAnalytics(operation string, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordAnalytics(operation, "ok", time.Since(start).Seconds())
	}
}

// analyticsError maps engine errors onto HTTP status codes: a missing
// campaign is 404, an operation that needs events but found none is 422.
func (s *Server) analyticsError(w http.ResponseWriter, operation string, err error, start time.Time) {
	var code int
	var result string
	switch {
	case errors.Is(err, analytics.ErrCampaignNotFound):
		code = http.StatusNotFound
		result = "not_found"
	case errors.Is(err, analytics.ErrNoEventData):
		code = http.StatusUnprocessableEntity
		result = "no_data"
	default:
		s.logger.Error("analytics operation failed",
			zap.String("operation", operation),
			zap.Error(err),
		)
		code = http.StatusInternalServerError
		result = "error"
	}
	if s.metrics != nil {
		s.metrics.RecordAnalytics(operation, result, time.Since(start).Seconds())
	}
	s.errorResponse(w, err.Error(), code)
}

func (s *Server) jsonResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) errorResponse(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
