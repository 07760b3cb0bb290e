// Package web serves a localhost-only single-user UI and JSON API over the
// vocabulary loader. It has no auth/CSRF protection of its own.
package web

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Tuyet3005/english-vocab-tracker/graph"
	"github.com/Tuyet3005/english-vocab-tracker/loader"
	"github.com/Tuyet3005/english-vocab-tracker/vocab"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const (
	maxSheetsPerRequest = 50
	maxSheetNameLength  = 31
)

// VocabService is the part of loader.Service the server relies on.
type VocabService interface {
	Load(ctx context.Context, sheetNames []string, refresh bool) (*vocab.Document, error)
	LoadRaw(ctx context.Context, sheetNames []string, refresh bool) (*vocab.RawDocument, error)
	Cached(ctx context.Context, sheetNames []string) (*vocab.Document, bool, error)
	Invalidate(ctx context.Context, sheetNames []string) (int, error)
	ListWorksheets(ctx context.Context) ([]string, error)
}

// DeviceAuthenticator is the part of graph.Authenticator the server relies on.
// It is nil when the server reads a local workbook.
type DeviceAuthenticator interface {
	StartDeviceLogin(ctx context.Context) (*graph.DeviceLogin, error)
	CompleteDeviceLogin(ctx context.Context, login *graph.DeviceLogin) error
	Status() graph.Status
}

type Options struct {
	Title  string
	Logger *slog.Logger
	// BaseContext bounds background work such as device login polling.
	BaseContext context.Context
}

type Server struct {
	vocab  VocabService
	auth   DeviceAuthenticator
	title  string
	logger *slog.Logger
	base   context.Context

	handler http.Handler

	loginMu     sync.Mutex
	activeLogin *graph.DeviceLogin
}

type worksheetView struct {
	Name       string
	Error      string
	Skipped    bool
	Statistics vocab.WorksheetStatistics
	Topics     []vocab.Topic
}

type indexPageView struct {
	Title      string
	FileName   string
	HasData    bool
	CachedAt   string
	Worksheets []worksheetView
	Data       template.JS
}

type authStatusResponse struct {
	Enabled bool `json:"enabled"`
	graph.Status
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewServer(service VocabService, auth DeviceAuthenticator, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	base := opts.BaseContext
	if base == nil {
		base = context.Background()
	}
	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = "English vocabulary"
	}

	server := &Server{
		vocab:  service,
		auth:   auth,
		title:  title,
		logger: logger,
		base:   base,
	}

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(fmt.Sprintf("embedded static assets: %v", err))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", server.handleIndex)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))
	mux.HandleFunc("GET /healthz", server.handleHealth)
	mux.HandleFunc("GET /api/vocab", server.handleAPIVocab)
	mux.HandleFunc("GET /api/vocab/raw", server.handleAPIVocabRaw)
	mux.HandleFunc("GET /api/worksheets", server.handleAPIWorksheets)
	mux.HandleFunc("DELETE /api/cache", server.handleAPICacheDelete)
	mux.HandleFunc("POST /api/auth/device", server.handleAPIAuthDevice)
	mux.HandleFunc("GET /api/auth/status", server.handleAPIAuthStatus)

	server.handler = Chain(RequestID, AccessLog(logger), Recovery(logger))(mux)
	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	view := indexPageView{Title: s.title, Data: template.JS("null")}

	doc, ok, err := s.vocab.Cached(r.Context(), nil)
	if err != nil {
		s.logger.WarnContext(r.Context(), "read cached vocabulary failed", "error", err)
	}
	if ok && doc != nil {
		encoded, err := json.Marshal(doc)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("encode cached vocabulary: %v", err))
			return
		}
		view.HasData = true
		view.FileName = doc.FileName
		view.Data = template.JS(encoded)
		view.Worksheets = worksheetViews(doc)
		if doc.CachedAt != nil {
			view.CachedAt = doc.CachedAt.Local().Format(time.DateTime)
		}
	}

	if err := renderTemplate(w, "index.html", view); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func worksheetViews(doc *vocab.Document) []worksheetView {
	views := make([]worksheetView, 0, len(doc.Worksheets))
	for _, sheet := range doc.Worksheets {
		if raw, skipped := sheet.Passthrough(); skipped {
			if raw.IsNull() {
				continue
			}
			views = append(views, worksheetView{Name: raw.Name, Error: raw.Error, Skipped: true})
			continue
		}
		views = append(views, worksheetView{
			Name:       sheet.Name,
			Statistics: sheet.Statistics,
			Topics:     sheet.Topics,
		})
	}
	return views
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAPIVocab(w http.ResponseWriter, r *http.Request) {
	sheets, refresh, err := parseLoadQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := s.vocab.Load(r.Context(), sheets, refresh)
	if err != nil {
		s.writeLoadError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleAPIVocabRaw(w http.ResponseWriter, r *http.Request) {
	sheets, refresh, err := parseLoadQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	raw, err := s.vocab.LoadRaw(r.Context(), sheets, refresh)
	if err != nil {
		s.writeLoadError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, raw)
}

func (s *Server) handleAPIWorksheets(w http.ResponseWriter, r *http.Request) {
	names, err := s.vocab.ListWorksheets(r.Context())
	if err != nil {
		s.writeLoadError(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"worksheets": names})
}

func (s *Server) handleAPICacheDelete(w http.ResponseWriter, r *http.Request) {
	sheets, err := parseSheetsQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	removed, err := s.vocab.Invalidate(r.Context(), sheets)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

// handleAPIAuthDevice starts a device login and keeps polling for the token
// in the background. A login that is already waiting is returned as is.
func (s *Server) handleAPIAuthDevice(w http.ResponseWriter, r *http.Request) {
	if s.auth == nil {
		writeError(w, http.StatusNotFound, "authentication is not configured for this source")
		return
	}

	s.loginMu.Lock()
	defer s.loginMu.Unlock()

	if s.activeLogin != nil {
		if pending := s.auth.Status().Pending; pending != nil {
			writeJSON(w, http.StatusOK, pending)
			return
		}
	}

	login, err := s.auth.StartDeviceLogin(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	s.activeLogin = login
	go s.completeLogin(login)

	writeJSON(w, http.StatusAccepted, login)
}

func (s *Server) completeLogin(login *graph.DeviceLogin) {
	ctx := s.base
	if !login.ExpiresAt.IsZero() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, login.ExpiresAt)
		defer cancel()
	}

	err := s.auth.CompleteDeviceLogin(ctx, login)

	s.loginMu.Lock()
	if s.activeLogin == login {
		s.activeLogin = nil
	}
	s.loginMu.Unlock()

	if err != nil {
		s.logger.Warn("device login failed", "error", err)
		return
	}
	s.logger.Info("device login confirmed")
}

func (s *Server) handleAPIAuthStatus(w http.ResponseWriter, _ *http.Request) {
	if s.auth == nil {
		writeJSON(w, http.StatusOK, authStatusResponse{Enabled: false})
		return
	}
	writeJSON(w, http.StatusOK, authStatusResponse{Enabled: true, Status: s.auth.Status()})
}

func (s *Server) writeLoadError(w http.ResponseWriter, r *http.Request, err error) {
	status := loadErrorStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "load vocabulary failed", "error", err)
	}
	writeError(w, status, err.Error())
}

func loadErrorStatus(err error) int {
	var apiErr *graph.APIError
	switch {
	case errors.Is(err, graph.ErrNotAuthenticated), errors.Is(err, graph.ErrAuthorizationPending):
		return http.StatusUnauthorized
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized:
		return http.StatusUnauthorized
	case errors.Is(err, loader.ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func parseLoadQuery(r *http.Request) ([]string, bool, error) {
	sheets, err := parseSheetsQuery(r)
	if err != nil {
		return nil, false, err
	}
	refresh, err := parseRefresh(r.URL.Query().Get("refresh"))
	if err != nil {
		return nil, false, err
	}
	return sheets, refresh, nil
}

func parseSheetsQuery(r *http.Request) ([]string, error) {
	sheets := loader.ParseSheetList(r.URL.Query().Get("sheets"))
	if len(sheets) > maxSheetsPerRequest {
		return nil, fmt.Errorf("too many worksheets requested (max %d)", maxSheetsPerRequest)
	}
	for _, name := range sheets {
		if len([]rune(name)) > maxSheetNameLength {
			return nil, fmt.Errorf("worksheet name %q is longer than %d characters", name, maxSheetNameLength)
		}
	}
	return sheets, nil
}

func parseRefresh(value string) (bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return false, nil
	}
	refresh, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid refresh value %q (expected 1/0 or true/false)", value)
	}
	return refresh, nil
}

func renderTemplate(w http.ResponseWriter, pageTemplate string, data any) error {
	tmpl, err := template.New("base.html").Funcs(template.FuncMap{
		"percent": func(part, total int) string {
			if total == 0 {
				return "0%"
			}
			return fmt.Sprintf("%.0f%%", float64(part)*100/float64(total))
		},
	}).ParseFS(templateFS, "templates/base.html", "templates/"+pageTemplate)
	if err != nil {
		return fmt.Errorf("parse template %s: %w", pageTemplate, err)
	}
	var page bytes.Buffer
	if err := tmpl.ExecuteTemplate(&page, "base", data); err != nil {
		return fmt.Errorf("render template %s: %w", pageTemplate, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = page.WriteTo(w)
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
