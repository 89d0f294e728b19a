package preferences

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	appMiddleware "github.com/FACorreiaa/go-group-trip-planner/app/middleware"
	"github.com/FACorreiaa/go-group-trip-planner/internal/api"
	"github.com/FACorreiaa/go-group-trip-planner/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	GetMyPreferencesHandler(w http.ResponseWriter, r *http.Request)
	SetPreferenceHandler(w http.ResponseWriter, r *http.Request)
	DeletePreferenceHandler(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	logger  *slog.Logger
	service Service
}

func NewHandler(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		logger:  logger,
		service: service,
	}
}

// GetMyPreferencesHandler lists the authenticated user's category preferences.
func (h *HandlerImpl) GetMyPreferencesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PreferenceHandler").Start(r.Context(), "GetMyPreferences")
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetMyPreferencesHandler"))

	userID, ok := requireUserID(ctx, w, r, l)
	if !ok {
		return
	}

	prefs, err := h.service.GetUserPreferences(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Service failed to fetch preferences", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch preferences")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch preferences")
		return
	}

	span.SetStatus(codes.Ok, "Preferences fetched")
	api.WriteJSONResponse(w, r, http.StatusOK, prefs)
}

// SetPreferenceHandler upserts a category score for the authenticated user.
func (h *HandlerImpl) SetPreferenceHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PreferenceHandler").Start(r.Context(), "SetPreference")
	defer span.End()
	l := h.logger.With(slog.String("handler", "SetPreferenceHandler"))

	userID, ok := requireUserID(ctx, w, r, l)
	if !ok {
		return
	}

	var req types.SetPreferenceRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.CategorySlug == "" {
		api.ValidationErrorResponse(w, r, map[string]string{"category_slug": "must not be empty"})
		return
	}
	span.SetAttributes(attribute.String("category.slug", req.CategorySlug), attribute.Int("score", req.Score))

	pref, err := h.service.SetPreference(ctx, userID, req.CategorySlug, req.Score)
	if err != nil {
		l.ErrorContext(ctx, "Service failed to set preference", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to set preference")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to set preference")
		return
	}

	span.SetStatus(codes.Ok, "Preference set")
	api.WriteJSONResponse(w, r, http.StatusOK, pref)
}

// DeletePreferenceHandler removes one category rating for the authenticated user.
func (h *HandlerImpl) DeletePreferenceHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PreferenceHandler").Start(r.Context(), "DeletePreference")
	defer span.End()
	l := h.logger.With(slog.String("handler", "DeletePreferenceHandler"))

	userID, ok := requireUserID(ctx, w, r, l)
	if !ok {
		return
	}

	categorySlug := chi.URLParam(r, "categorySlug")
	if categorySlug == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Category slug required")
		return
	}

	if err := h.service.DeletePreference(ctx, userID, categorySlug); err != nil {
		l.ErrorContext(ctx, "Service failed to delete preference", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete preference")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete preference")
		return
	}

	span.SetStatus(codes.Ok, "Preference deleted")
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

func requireUserID(ctx context.Context, w http.ResponseWriter, r *http.Request, l *slog.Logger) (uuid.UUID, bool) {
	userIDStr, ok := appMiddleware.GetUserIDFromContext(ctx)
	if !ok || userIDStr == "" {
		l.ErrorContext(ctx, "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		l.ErrorContext(ctx, "Invalid user ID format", slog.String("userID_str", userIDStr), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return uuid.Nil, false
	}
	return userID, true
}
