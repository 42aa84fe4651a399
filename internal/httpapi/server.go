package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hamed0406/sslchecker/internal/domain"
	apimw "github.com/hamed0406/sslchecker/internal/httpapi/middleware"
)

// Checker evaluates one host per call.
type Checker interface {
	Check(ctx context.Context, host string) domain.ProbeResult
}

type Server struct {
	Logger  *zap.Logger
	Checker Checker
}

func NewServer(l *zap.Logger, c Checker) *Server {
	return &Server{Logger: l, Checker: c}
}

// Router wires routes and middleware. No allowed origins means allow all;
// reqPerMin <= 0 disables rate limiting.
func (s *Server) Router(keys apimw.Keys, allowedOrigins []string, reqPerMin, burst int) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(allowedOrigins) == 0 {
		r.Use(cors.AllowAll().Handler)
	} else {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "X-API-Key", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(apimw.RateLimit(reqPerMin, burst))
		r.Use(apimw.RequireAny(keys))
		r.Get("/check", s.handleCheckQuery)
		r.Get("/api/certs/{host}", s.handleCheckPath)
	})

	return r
}

func (s *Server) handleCheckQuery(w http.ResponseWriter, r *http.Request) {
	s.check(w, r, r.URL.Query().Get("host"))
}

func (s *Server) handleCheckPath(w http.ResponseWriter, r *http.Request) {
	s.check(w, r, chi.URLParam(r, "host"))
}

func (s *Server) check(w http.ResponseWriter, r *http.Request, raw string) {
	host, err := NormalizeHost(raw)
	if err != nil {
		s.Logger.Info("check_rejected", zap.String("host", raw), zap.Error(err))
		writeJSON(w, domain.BadRequest(err.Error()))
		return
	}

	res := s.Checker.Check(r.Context(), host)
	resp := res.Response()

	s.Logger.Info("check_served",
		zap.String("host", host),
		zap.Int("status", resp.StatusCode),
		zap.Stringer("outcome", res.Outcome),
	)
	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, resp domain.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	_ = json.NewEncoder(w).Encode(resp)
}

var (
	errHostRequired = errors.New("missing required query parameter: host")
	errHostScheme   = errors.New("host must be a bare host name, not a URL")
	errHostPort     = errors.New("host must not include a port")
	errHostInvalid  = errors.New("host is not a valid host name")
)

// NormalizeHost validates a bare host name or IP and lower-cases it. The
// error text is suitable for a 400 response.
func NormalizeHost(raw string) (string, error) {
	h := strings.ToLower(strings.TrimSpace(raw))
	h = strings.TrimSuffix(h, ".")
	if h == "" {
		return "", errHostRequired
	}
	if strings.Contains(h, "://") || strings.ContainsAny(h, "/?#@ \t") {
		return "", errHostScheme
	}
	if ip := net.ParseIP(strings.Trim(h, "[]")); ip != nil {
		return ip.String(), nil
	}
	if strings.Contains(h, ":") {
		return "", errHostPort
	}
	if len(h) > 253 {
		return "", errHostInvalid
	}
	for _, label := range strings.Split(h, ".") {
		if label == "" || len(label) > 63 || label[0] == '-' || label[len(label)-1] == '-' {
			return "", errHostInvalid
		}
		for _, c := range label {
			if !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '-' || c == '_') {
				return "", errHostInvalid
			}
		}
	}
	return h, nil
}
