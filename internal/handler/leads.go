package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/devsamp/devsamp-bfa-go/internal/domain"
	"github.com/devsamp/devsamp-bfa-go/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Leads (contact form)
// ============================================================

type contactsResponse struct {
	Contacts []*domain.Lead `json:"contacts"`
}

func listLeadsHandler(svc *service.LeadService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/contact")
		defer span.End()

		leads, err := svc.List(ctx)
		if err != nil {
			handleServiceError(w, err, "Failed to fetch contacts", logger)
			return
		}
		writeJSON(w, http.StatusOK, contactsResponse{Contacts: leads})
	}
}

func submitLeadHandler(svc *service.LeadService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /api/contact")
		defer span.End()

		var in domain.LeadInput
		if !decodeJSON(w, r, &in) {
			return
		}

		lead, err := svc.Submit(ctx, in)
		if err != nil {
			handleServiceError(w, err, "Failed to save message", logger)
			return
		}
		writeJSON(w, http.StatusCreated, domain.MessageResponse{Message: "Message Saved & Email Sent!", ID: lead.ID})
	}
}

func updateLeadStatusHandler(svc *service.LeadService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /api/contact")
		defer span.End()

		var req domain.LeadStatusRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		if _, err := svc.UpdateStatus(ctx, req); err != nil {
			handleServiceError(w, err, "Failed to update status", logger)
			return
		}
		writeMessage(w, http.StatusOK, "Status Updated!")
	}
}

func deleteLeadHandler(svc *service.LeadService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /api/contact")
		defer span.End()

		if err := svc.Delete(ctx, r.URL.Query().Get("id")); err != nil {
			handleServiceError(w, err, "Failed to delete", logger)
			return
		}
		writeMessage(w, http.StatusOK, "Lead Deleted!")
	}
}

// exportLeadsHandler buffers the CSV so a store failure still yields a
// JSON error instead of a truncated file.
func exportLeadsHandler(svc *service.LeadService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/contact/export")
		defer span.End()

		var buf bytes.Buffer
		if err := svc.Export(ctx, &buf); err != nil {
			handleServiceError(w, err, "Failed to export contacts", logger)
			return
		}

		filename := fmt.Sprintf("leads-%s.csv", time.Now().UTC().Format(time.DateOnly))
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
	}
}
