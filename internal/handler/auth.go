package handler

import (
	"net/http"

	"github.com/devsamp/devsamp-bfa-go/internal/domain"
	"github.com/devsamp/devsamp-bfa-go/internal/service"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Authentication
// ============================================================

func authHandler(svc *service.AuthService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /api/auth")
		defer span.End()

		var req domain.AuthRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		span.SetAttributes(attribute.String("auth.action", string(req.Action)))

		resp, created, err := svc.Handle(ctx, req)
		if err != nil {
			handleServiceError(w, err, "Server Error", logger)
			return
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		writeJSON(w, status, resp)
	}
}

func adminLoginHandler(svc *service.AuthService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /api/admin/login")
		defer span.End()

		var req domain.AdminLoginRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		resp, err := svc.AdminLogin(ctx, req)
		if err != nil {
			handleServiceError(w, err, "Server Error", logger)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
