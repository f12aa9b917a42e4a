// Package httpapi exposes the liveness service's HTTP surface: challenge
// issuance, verification, health, metrics, and the admin read endpoints,
// per spec.md §6. Route registration and CORS/security-header middleware
// are adapted from the teacher's dashboard.Server (a ServeMux plus a
// withCORS wrapper), generalized from a dashboard-API shape to this
// service's own routes.
package httpapi

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/glyphwatch/clnp/admin"
	"github.com/glyphwatch/clnp/apierr"
	"github.com/glyphwatch/clnp/config"
	"github.com/glyphwatch/clnp/logger"
	"github.com/glyphwatch/clnp/metrics"
	"github.com/glyphwatch/clnp/session"
)

// maxBodyBytes is the request body cap spec.md §4.6 assigns every verify
// endpoint.
const maxBodyBytes = 2 << 20 // 2 MiB

// Server is the liveness service's HTTP frontend.
type Server struct {
	svc       *session.Service
	store     *session.Store
	aggregator *admin.Aggregator
	cfg       *config.Config
	metrics   *metrics.Metrics
	metricsReg *prometheus.Registry
	log       *logger.Logger

	mux *http.ServeMux
}

// New builds a Server wired to its collaborators and registers every
// route.
func New(svc *session.Service, store *session.Store, aggregator *admin.Aggregator, cfg *config.Config, m *metrics.Metrics, reg *prometheus.Registry, log *logger.Logger) *Server {
	s := &Server{
		svc: svc, store: store, aggregator: aggregator,
		cfg: cfg, metrics: m, metricsReg: reg, log: log,
		mux: http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the http.Handler to mount on an *http.Server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/api/challenge", s.withMiddleware(s.handleStandaloneChallenge))
	s.mux.HandleFunc("/api/verify", s.withMiddleware(s.handleStandaloneVerify))
	s.mux.HandleFunc("/api/embed/challenge", s.withMiddleware(s.handleEmbedChallenge))
	s.mux.HandleFunc("/api/embed/verify", s.withMiddleware(s.handleEmbedVerify))
	s.mux.HandleFunc("/api/health", s.withMiddleware(s.handleHealth))

	s.mux.HandleFunc("/api/admin/stats", s.withMiddleware(s.withAdminAuth(s.handleAdminStats)))
	s.mux.HandleFunc("/api/admin/sessions", s.withMiddleware(s.withAdminAuth(s.handleAdminSessions)))
	s.mux.HandleFunc("/api/admin/session/", s.withMiddleware(s.withAdminAuth(s.handleAdminSession)))

	if s.metricsReg != nil {
		s.mux.Handle("/metrics", metrics.Handler(s.metricsReg))
	}

	s.mux.HandleFunc("/", s.withMiddleware(s.handleNotFound))
}

// withMiddleware applies permissive CORS and the two fixed security
// headers spec.md §6 requires on every API response, and terminates
// preflight OPTIONS requests.
func (s *Server) withMiddleware(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h(w, r)
	}
}

// withAdminAuth enforces the single bearer-token admin auth scheme of
// spec.md §6: 503 if no token is configured, 401 on a missing or
// non-matching token, constant-time comparison either way.
func (s *Server) withAdminAuth(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.AdminToken == "" {
			writeError(w, apierr.New(apierr.CodeAdminNotConfigured, "admin token is not configured"))
			return
		}

		token := r.URL.Query().Get("token")
		if auth := r.Header.Get("Authorization"); token == "" && strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimPrefix(auth, "Bearer ")
		}
		if token == "" {
			writeError(w, apierr.New(apierr.CodeMissingToken, "admin token required"))
			return
		}
		if subtle.ConstantTimeCompare([]byte(token), []byte(s.cfg.AdminToken)) != 1 {
			writeError(w, apierr.New(apierr.CodeInvalidToken, "invalid admin token"))
			return
		}
		h(w, r)
	}
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, apierr.New(apierr.CodeNotFound, "unknown route"))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":                true,
		"uptimeSec":         s.metrics.UptimeSeconds(),
		"pendingChallenges": s.store.Count(),
	})
}

func (s *Server) handleStandaloneChallenge(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, apierr.New(apierr.CodeNotFound, "method not allowed"))
		return
	}
	token, view, err := s.svc.IssueStandalone()
	if err != nil {
		s.log.Errorf("issue standalone challenge: %v", err)
		writeError(w, apierr.New(apierr.CodeAnalysisFailed, "failed to issue challenge"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "token": token, "challenge": view})
}

func (s *Server) handleEmbedChallenge(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, apierr.New(apierr.CodeNotFound, "method not allowed"))
		return
	}
	token, view, err := s.svc.IssueEmbed()
	if err != nil {
		s.log.Errorf("issue embed challenge: %v", err)
		writeError(w, apierr.New(apierr.CodeAnalysisFailed, "failed to issue challenge"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "token": token, "challenge": view})
}

func (s *Server) handleStandaloneVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, apierr.New(apierr.CodeNotFound, "method not allowed"))
		return
	}

	var sub session.StandaloneSubmission
	if !decodeBody(w, r, &sub) {
		return
	}

	ipHash := session.HashIP(s.cfg.Secret, session.ClientIP(r))
	result, apiErr := s.svc.VerifyStandalone(&sub, ipHash, r.UserAgent(), time.Now())
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}
	writeJSON(w, http.StatusOK, verifyResponse(result))
}

func (s *Server) handleEmbedVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, apierr.New(apierr.CodeNotFound, "method not allowed"))
		return
	}

	var sub session.EmbedSubmission
	if !decodeBody(w, r, &sub) {
		return
	}

	ipHash := session.HashIP(s.cfg.Secret, session.ClientIP(r))
	result, apiErr := s.svc.VerifyEmbed(&sub, ipHash, r.UserAgent(), time.Now())
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}
	writeJSON(w, http.StatusOK, verifyResponse(result))
}

func verifyResponse(r *session.VerifyResult) map[string]any {
	resp := map[string]any{
		"ok":               true,
		"sessionId":        r.SessionID,
		"verified":         r.Verified,
		"score":            r.Score,
		"verdict":          r.Verdict,
		"verdictClass":     r.Class,
		"sampleRateHz":     r.SampleRateHz,
		"sampleCount":      r.SampleCount,
		"validMetricCount": r.ValidMetricCount,
		"receipt":          r.Receipt,
	}
	if r.UniqueElements > 0 || r.HoverTimeMs > 0 {
		resp["hoverTimeMs"] = r.HoverTimeMs
		resp["uniqueElements"] = r.UniqueElements
		resp["plausible"] = r.Plausible
	}
	return resp
}

func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.aggregator.Stats(time.Now())
	if err != nil {
		s.log.Errorf("admin stats: %v", err)
		writeError(w, apierr.New(apierr.CodeAnalysisFailed, "failed to compute stats"))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleAdminSessions(w http.ResponseWriter, r *http.Request) {
	limit := 50
	offset := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			offset = n
		}
	}

	rows, err := s.aggregator.Sessions(limit, offset)
	if err != nil {
		s.log.Errorf("admin sessions: %v", err)
		writeError(w, apierr.New(apierr.CodeAnalysisFailed, "failed to list sessions"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "sessions": rows})
}

func (s *Server) handleAdminSession(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/admin/session/")
	if id == "" {
		writeError(w, apierr.New(apierr.CodeSessionNotFound, "session id required"))
		return
	}

	rec, err := s.aggregator.Session(id)
	if err != nil {
		if apiErr, ok := err.(*apierr.Error); ok {
			writeError(w, apiErr)
			return
		}
		s.log.Errorf("admin session %s: %v", id, err)
		writeError(w, apierr.New(apierr.CodeAnalysisFailed, "failed to load session"))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if strings.Contains(err.Error(), "http: request body too large") {
			writeError(w, apierr.New(apierr.CodeBodyTooLarge, "request body exceeds 2 MiB"))
			return false
		}
		writeError(w, apierr.New(apierr.CodeInvalidJSON, "malformed JSON body"))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, apiErr *apierr.Error) {
	writeJSON(w, apiErr.Status(), map[string]any{
		"ok":      false,
		"code":    apiErr.Code,
		"message": apiErr.Message,
	})
}
