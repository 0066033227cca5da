package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hamed0406/docsync/internal/domain"
	apimw "github.com/hamed0406/docsync/internal/httpapi/middleware"
	"github.com/hamed0406/docsync/internal/metrics"
	"github.com/hamed0406/docsync/internal/probe"
	"github.com/hamed0406/docsync/internal/settings"
)

type Server struct {
	Logger  *zap.Logger
	Panel   *settings.Panel
	Checker probe.Checker
}

func NewServer(l *zap.Logger, p *settings.Panel, c probe.Checker) *Server {
	if l == nil {
		l = zap.NewNop()
	}
	return &Server{Logger: l, Panel: p, Checker: c}
}

// Router wires the settings API. Rate limits are requests per minute per
// client IP; zero disables a limit.
func (s *Server) Router(keys apimw.Keys, allowedOrigins []string, pubRPM, pubBurst, admRPM, admBurst int) http.Handler {
	r := chi.NewRouter()
	r.Use(apimw.RequestID)
	r.Use(apimw.AccessLog(s.Logger))

	if len(allowedOrigins) == 0 {
		r.Use(cors.AllowAll().Handler)
	} else {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
			AllowedHeaders: []string{"Authorization", "Content-Type", "X-API-Key", apimw.RequestIDHeader},
			ExposedHeaders: []string{apimw.RequestIDHeader, "Retry-After"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	r.Group(func(pub chi.Router) {
		pub.Use(apimw.RateLimit(pubRPM, pubBurst))
		pub.Use(apimw.RequireAny(keys))
		pub.Get("/api/settings", s.handleGetSettings)
		pub.Get("/api/settings/diagnose", s.handleDiagnose)
		pub.Post("/api/check", s.handleAdHocCheck)
	})

	r.Group(func(adm chi.Router) {
		adm.Use(apimw.RateLimit(admRPM, admBurst))
		adm.Use(apimw.RequireAdmin(keys))
		adm.Put("/api/settings", s.handleReplaceSettings)
		adm.Patch("/api/settings/{field}", s.handleSetField)
		adm.Post("/api/settings/check", s.handlePanelCheck)
	})

	return r
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	cur := s.Panel.Settings()
	cur.AccessToken = maskToken(cur.AccessToken)
	writeJSON(w, http.StatusOK, cur)
}

func (s *Server) handleReplaceSettings(w http.ResponseWriter, r *http.Request) {
	next := domain.DefaultSettings()
	if err := json.NewDecoder(r.Body).Decode(&next); err != nil {
		writeError(w, http.StatusBadRequest, "bad payload", "")
		return
	}
	// A masked token echoed back from GET keeps the stored one.
	if next.AccessToken != "" && next.AccessToken == maskToken(s.Panel.Settings().AccessToken) {
		next.AccessToken = s.Panel.Settings().AccessToken
	}
	if err := s.Panel.Replace(r.Context(), next); err != nil {
		s.writeSettingsError(w, err)
		return
	}
	cur := s.Panel.Settings()
	cur.AccessToken = maskToken(cur.AccessToken)
	writeJSON(w, http.StatusOK, cur)
}

type fieldPayload struct {
	Value *string `json:"value"`
}

func (s *Server) handleSetField(w http.ResponseWriter, r *http.Request) {
	field, err := settings.ParseField(chi.URLParam(r, "field"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error(), "")
		return
	}
	var p fieldPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.Value == nil {
		writeError(w, http.StatusBadRequest, "bad payload", "")
		return
	}
	if err := s.Panel.Set(r.Context(), field, *p.Value); err != nil {
		s.writeSettingsError(w, err)
		return
	}
	val, _ := s.Panel.Get(field)
	if field == settings.FieldAccessToken {
		val = maskToken(val)
	}
	writeJSON(w, http.StatusOK, map[string]string{"field": string(field), "value": val})
}

func (s *Server) handlePanelCheck(w http.ResponseWriter, r *http.Request) {
	res, err := s.Panel.Check(r.Context())
	if errors.Is(err, settings.ErrCheckInProgress) {
		writeError(w, http.StatusConflict, err.Error(), "in_progress")
		return
	}
	s.writeCheck(w, res, err)
}

type checkPayload struct {
	ServiceURL  string `json:"service_url"`
	AccessToken string `json:"access_token"`
}

func (s *Server) handleAdHocCheck(w http.ResponseWriter, r *http.Request) {
	var p checkPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "bad payload", "")
		return
	}
	res, err := s.Checker.Check(r.Context(), p.ServiceURL, p.AccessToken)
	outcome := probe.Kind(err)
	switch {
	case err != nil && outcome == "":
		outcome = "error"
	case err == nil && res.Succeeded:
		outcome = "succeeded"
	case err == nil:
		outcome = "failed"
	}
	metrics.ObserveCheck(outcome, res.LatencyMS)
	s.writeCheck(w, res, err)
}

func (s *Server) handleDiagnose(w http.ResponseWriter, r *http.Request) {
	st := probe.DiagnoseHost(r.Context(), s.Panel.Settings().ServiceURL)
	s.Logger.Info("dns_check",
		zap.String("host", st.Host),
		zap.String("class", st.Class),
		zap.Bool("has_a_or_aaaa", st.HasAOrAAAA),
		zap.Strings("nameservers", st.Nameservers),
		zap.String("cname", st.CNAME),
		zap.String("resolver_error", st.ResolverError),
	)
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) writeCheck(w http.ResponseWriter, res domain.ConnectivityResult, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, res)
		return
	}
	kind := probe.Kind(err)
	switch kind {
	case "configuration":
		writeError(w, http.StatusBadRequest, err.Error(), kind)
	case "network", "response_parse":
		writeError(w, http.StatusBadGateway, err.Error(), kind)
	default:
		s.Logger.Error("check_unclassified_error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "check failed", "")
	}
}

func (s *Server) writeSettingsError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, settings.ErrInvalidValue):
		writeError(w, http.StatusBadRequest, err.Error(), "")
	case errors.Is(err, settings.ErrUnknownField):
		writeError(w, http.StatusNotFound, err.Error(), "")
	default:
		s.Logger.Error("settings_write_failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not save settings", "")
	}
}

// maskToken keeps the last four characters of long tokens only.
func maskToken(tok string) string {
	switch {
	case tok == "":
		return ""
	case len(tok) <= 8:
		return strings.Repeat("*", 8)
	default:
		return strings.Repeat("*", 8) + tok[len(tok)-4:]
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, kind string) {
	body := map[string]string{"error": msg}
	if kind != "" {
		body["kind"] = kind
	}
	writeJSON(w, status, body)
}
