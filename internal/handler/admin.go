package handler

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/devsamp/devsamp-bfa-go/internal/domain"
	"github.com/devsamp/devsamp-bfa-go/internal/port"
	"github.com/devsamp/devsamp-bfa-go/internal/service"

	"go.uber.org/zap"
)

const (
	uploadFormOverhead = 1 << 20
	pingTimeout        = 2 * time.Second
)

// ============================================================
// Admin overview, uploads, health
// ============================================================

func overviewHandler(svc *service.OverviewService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/admin/overview")
		defer span.End()

		o, err := svc.Overview(ctx)
		if err != nil {
			handleServiceError(w, err, "Failed to load overview", logger)
			return
		}
		writeJSON(w, http.StatusOK, o)
	}
}

func uploadHandler(svc *service.UploadService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /api/upload")
		defer span.End()

		r.Body = http.MaxBytesReader(w, r.Body, svc.MaxBytes()+uploadFormOverhead)
		if err := r.ParseMultipartForm(svc.MaxBytes()); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, "File too large")
				return
			}
			writeError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "No file uploaded")
			return
		}
		defer file.Close()

		res, err := svc.Upload(ctx, header.Filename, file, header.Size)
		if err != nil {
			handleServiceError(w, err, "Upload failed", logger)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// probe pings every checker concurrently.
func probe(ctx context.Context, checkers map[string]port.HealthChecker) []domain.ServiceHealth {
	out := make(chan domain.ServiceHealth, len(checkers))
	for name, c := range checkers {
		go func() {
			ctx, cancel := context.WithTimeout(ctx, pingTimeout)
			defer cancel()
			start := time.Now()
			status := "healthy"
			if err := c.Ping(ctx); err != nil {
				status = "unhealthy"
			}
			out <- domain.ServiceHealth{
				Name:        name,
				Status:      status,
				LatencyMs:   time.Since(start).Milliseconds(),
				LastChecked: time.Now().Format(time.RFC3339),
			}
		}()
	}

	services := make([]domain.ServiceHealth, 0, len(checkers))
	for range checkers {
		services = append(services, <-out)
	}
	sort.Slice(services, func(i, j int) bool { return services[i].Name < services[j].Name })
	return services
}

// healthzHandler always answers 200 and reports degraded backends.
func healthzHandler(checkers map[string]port.HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().Format(time.RFC3339)
		services := append([]domain.ServiceHealth{
			{Name: "bfa-api", Status: "healthy", LastChecked: now},
		}, probe(r.Context(), checkers)...)

		overall := "healthy"
		for _, s := range services {
			if s.Status != "healthy" {
				overall = "degraded"
			}
		}
		writeJSON(w, http.StatusOK, domain.HealthStatus{Status: overall, Services: services})
	}
}

// readyzHandler answers 503 while the primary store is unreachable.
func readyzHandler(store port.HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store != nil {
			ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
			defer cancel()
			if err := store.Ping(ctx); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
