package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/devsamp/devsamp-bfa-go/internal/domain"
	"github.com/devsamp/devsamp-bfa-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Flat content collections
// ============================================================

const maxContentBody = 1 << 20

// mountContent registers GET/POST/PUT/DELETE /{collection}. Reads are
// public; writes go through admin.
func mountContent[E any, P interface {
	*E
	domain.Record
}](r chi.Router, svc *service.ContentService[E, P], admin func(http.Handler) http.Handler, logger *zap.Logger) {
	path := "/" + svc.Spec().Name
	r.Get(path, listContentHandler(svc, logger))
	r.With(admin).Post(path, createContentHandler(svc, logger))
	r.With(admin).Put(path, updateContentHandler(svc, logger))
	r.With(admin).Delete(path, deleteContentHandler(svc, logger))
}

func listContentHandler[E any, P interface {
	*E
	domain.Record
}](svc *service.ContentService[E, P], logger *zap.Logger) http.HandlerFunc {
	spec := svc.Spec()
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/"+spec.Name)
		defer span.End()

		list, err := svc.List(ctx)
		if err != nil {
			handleServiceError(w, err, "Failed to fetch "+spec.PluralKey, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{spec.PluralKey: list})
	}
}

func createContentHandler[E any, P interface {
	*E
	domain.Record
}](svc *service.ContentService[E, P], logger *zap.Logger) http.HandlerFunc {
	spec := svc.Spec()
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /api/"+spec.Name)
		defer span.End()

		rec := P(new(E))
		r.Body = http.MaxBytesReader(w, r.Body, maxContentBody)
		if !decodeJSON(w, r, rec) {
			return
		}

		created, err := svc.Create(ctx, rec)
		if err != nil {
			handleServiceError(w, err, "Error creating "+strings.ToLower(spec.Label), logger)
			return
		}
		writeJSON(w, http.StatusCreated, domain.MessageResponse{Message: spec.Label + " Created!", ID: created.Base().ID})
	}
}

func updateContentHandler[E any, P interface {
	*E
	domain.Record
}](svc *service.ContentService[E, P], logger *zap.Logger) http.HandlerFunc {
	spec := svc.Spec()
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /api/"+spec.Name)
		defer span.End()

		raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxContentBody))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		var target struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(raw, &target); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		updated, err := svc.Update(ctx, target.ID, raw)
		if err != nil {
			handleServiceError(w, err, "Error updating "+strings.ToLower(spec.Label), logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.MessageResponse{Message: spec.Label + " Updated!", ID: updated.Base().ID})
	}
}

func deleteContentHandler[E any, P interface {
	*E
	domain.Record
}](svc *service.ContentService[E, P], logger *zap.Logger) http.HandlerFunc {
	spec := svc.Spec()
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /api/"+spec.Name)
		defer span.End()

		if err := svc.Delete(ctx, r.URL.Query().Get("id")); err != nil {
			handleServiceError(w, err, "Error deleting "+strings.ToLower(spec.Label), logger)
			return
		}
		writeMessage(w, http.StatusOK, spec.Label+" Deleted!")
	}
}
