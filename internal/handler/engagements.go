package handler

import (
	"net/http"

	"github.com/devsamp/devsamp-bfa-go/internal/domain"
	"github.com/devsamp/devsamp-bfa-go/internal/service"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Client engagements
// ============================================================

type projectsResponse struct {
	Projects any `json:"projects"`
}

type engagementResponse struct {
	Message string                   `json:"message"`
	Project *domain.ClientEngagement `json:"project"`
}

// listEngagementsHandler serves both the admin list and, with ?email=,
// the single engagement of one client (null when none).
func listEngagementsHandler(svc *service.EngagementService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/client-projects")
		defer span.End()

		if email := r.URL.Query().Get("email"); email != "" {
			e, err := svc.FindByClientEmail(ctx, email)
			if err != nil {
				handleServiceError(w, err, "Error fetching projects", logger)
				return
			}
			writeJSON(w, http.StatusOK, projectsResponse{Projects: e})
			return
		}

		list, err := svc.List(ctx)
		if err != nil {
			handleServiceError(w, err, "Error fetching projects", logger)
			return
		}
		writeJSON(w, http.StatusOK, projectsResponse{Projects: list})
	}
}

func createEngagementHandler(svc *service.EngagementService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /api/client-projects")
		defer span.End()

		var patch domain.EngagementPatch
		if !decodeJSON(w, r, &patch) {
			return
		}

		created, err := svc.Create(ctx, patch)
		if err != nil {
			handleServiceError(w, err, "Error creating project", logger)
			return
		}
		writeJSON(w, http.StatusCreated, domain.MessageResponse{Message: "Client Project Created!", ID: created.ID})
	}
}

func updateEngagementHandler(svc *service.EngagementService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /api/client-projects")
		defer span.End()

		var req domain.EngagementUpdateRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		span.SetAttributes(attribute.String("engagement.id", req.ID))

		updated, err := svc.Update(ctx, req)
		if err != nil {
			handleServiceError(w, err, "Error updating project", logger)
			return
		}
		writeJSON(w, http.StatusOK, engagementResponse{Message: "Project Updated Successfully!", Project: updated})
	}
}

func deleteEngagementHandler(svc *service.EngagementService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /api/client-projects")
		defer span.End()

		if err := svc.Delete(ctx, r.URL.Query().Get("id")); err != nil {
			handleServiceError(w, err, "Error deleting project", logger)
			return
		}
		writeMessage(w, http.StatusOK, "Project Deleted!")
	}
}

func appendDocumentHandler(svc *service.EngagementService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /api/client-projects/documents")
		defer span.End()

		var in service.DocumentUpload
		if !decodeJSON(w, r, &in) {
			return
		}

		updated, err := svc.AppendDocument(ctx, in)
		if err != nil {
			handleServiceError(w, err, "Error adding document", logger)
			return
		}
		writeJSON(w, http.StatusOK, engagementResponse{Message: "Document Added!", Project: updated})
	}
}

func dashboardHandler(svc *service.EngagementService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/dashboard")
		defer span.End()

		d, err := svc.Dashboard(ctx, r.URL.Query().Get("email"))
		if err != nil {
			handleServiceError(w, err, "Error loading dashboard", logger)
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}
