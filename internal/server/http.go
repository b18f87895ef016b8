package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/xtding233/orbsim/internal/gacha"
	"github.com/xtding233/orbsim/internal/preset"
)

const maxBody = 1 << 20

type errResp struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// HTTPHandler serves the JSON API.
type HTTPHandler struct {
	svc *Service
	log logrus.FieldLogger
}

func NewHTTPHandler(svc *Service, log logrus.FieldLogger) *HTTPHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &HTTPHandler{svc: svc, log: log}
}

// Routes builds the router.
func (h *HTTPHandler) Routes(timeout time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.requestLog)
	r.Use(middleware.Recoverer)
	if timeout > 0 {
		r.Use(middleware.Timeout(timeout))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/banners", h.handleBanners)
	r.Get("/goals", h.handleGoals)
	r.Post("/simulate", h.handleSimulate)
	return r
}

func (h *HTTPHandler) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.log.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"duration":   time.Since(start).String(),
			"request_id": middleware.GetReqID(r.Context()),
		}).Debug("http request")
	})
}

func (h *HTTPHandler) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{Error: "invalid json: " + err.Error()})
		return
	}
	resp, err := h.svc.Simulate(r.Context(), req, "http")
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *HTTPHandler) handleBanners(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"banners": h.svc.Banners()})
}

func (h *HTTPHandler) handleGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := h.svc.Goals(r.URL.Query().Get("banner"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"goals": goals})
}

// StatusFor maps service errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, preset.ErrUnknownBanner):
		return http.StatusNotFound
	case errors.Is(err, gacha.ErrUnreachableGoal):
		return http.StatusUnprocessableEntity
	case errors.Is(err, gacha.ErrInvalidConfig), errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return 499
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	resp := errResp{Error: err.Error()}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		resp.Error = "invalid request"
		for _, e := range j.Unwrap() {
			resp.Details = append(resp.Details, e.Error())
		}
	}
	writeJSON(w, StatusFor(err), resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ServeHTTP listens on port until ctx is done, then shuts down.
func ServeHTTP(ctx context.Context, port int, handler http.Handler, log logrus.FieldLogger) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Infof("http server listening on port %d", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down http server...")
	return srv.Shutdown(context.WithoutCancel(ctx))
}
