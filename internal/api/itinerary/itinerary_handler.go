package itinerary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-group-trip-planner/internal/api"
	"github.com/FACorreiaa/go-group-trip-planner/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	GenerateItineraryHandler(w http.ResponseWriter, r *http.Request)
	GenerateFullRouteHandler(w http.ResponseWriter, r *http.Request)
	GetGroupPreferencesHandler(w http.ResponseWriter, r *http.Request)
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

// GenerateItineraryHandler produces the single-day schedule for a trip.
func (h *HandlerImpl) GenerateItineraryHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "GenerateItinerary")
	defer span.End()
	l := h.logger.With(slog.String("handler", "GenerateItineraryHandler"))

	tripID, err := uuid.Parse(chi.URLParam(r, "tripID"))
	if err != nil {
		l.ErrorContext(ctx, "Invalid trip ID", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid trip ID")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid trip ID format")
		return
	}
	span.SetAttributes(attribute.String("trip.id", tripID.String()))

	it, err := h.service.Generate(ctx, tripID)
	if err != nil {
		h.respondGenerationError(ctx, w, r, l, span, err)
		return
	}

	span.SetStatus(codes.Ok, "Itinerary generated")
	api.WriteJSONResponse(w, r, http.StatusOK, it)
}

// GenerateFullRouteHandler produces the multi-day schedule for a trip.
// The days/radius_meters ranges are rejected here, before any scoring runs.
func (h *HandlerImpl) GenerateFullRouteHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "GenerateFullRoute")
	defer span.End()
	l := h.logger.With(slog.String("handler", "GenerateFullRouteHandler"))

	tripID, err := uuid.Parse(chi.URLParam(r, "tripID"))
	if err != nil {
		l.ErrorContext(ctx, "Invalid trip ID", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid trip ID")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid trip ID format")
		return
	}

	var req types.GenerateFullRouteRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if fields := validateFullRouteRequest(req); len(fields) > 0 {
		l.DebugContext(ctx, "Full-route request failed validation", slog.Any("fields", fields))
		span.SetStatus(codes.Error, "Validation failed")
		api.ValidationErrorResponse(w, r, fields)
		return
	}
	span.SetAttributes(
		attribute.String("trip.id", tripID.String()),
		attribute.Int("days", req.Days),
		attribute.Int("radius_meters", req.RadiusMeters),
	)

	it, err := h.service.GenerateFullRoute(ctx, tripID, req.Days, req.RadiusMeters, req.ForceRefresh)
	if err != nil {
		h.respondGenerationError(ctx, w, r, l, span, err)
		return
	}

	span.SetAttributes(attribute.Bool("cache.hit", it.Cached))
	span.SetStatus(codes.Ok, "Full-route itinerary generated")
	api.WriteJSONResponse(w, r, http.StatusOK, it)
}

// GetGroupPreferencesHandler returns the aggregated preference map for a trip.
func (h *HandlerImpl) GetGroupPreferencesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "GetGroupPreferences")
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetGroupPreferencesHandler"))

	tripID, err := uuid.Parse(chi.URLParam(r, "tripID"))
	if err != nil {
		l.ErrorContext(ctx, "Invalid trip ID", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid trip ID")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid trip ID format")
		return
	}

	prefs, err := h.service.AggregatePreferences(ctx, tripID)
	if err != nil {
		h.respondGenerationError(ctx, w, r, l, span, err)
		return
	}

	span.SetStatus(codes.Ok, "Group preferences fetched")
	api.WriteJSONResponse(w, r, http.StatusOK, prefs)
}

func validateFullRouteRequest(req types.GenerateFullRouteRequest) map[string]string {
	fields := make(map[string]string)
	if req.Days < types.MinItineraryDays || req.Days > types.MaxItineraryDays {
		fields["days"] = fmt.Sprintf("must be between %d and %d", types.MinItineraryDays, types.MaxItineraryDays)
	}
	if req.RadiusMeters < types.MinRadiusMeters || req.RadiusMeters > types.MaxRadiusMeters {
		fields["radius_meters"] = fmt.Sprintf("must be between %d and %d", types.MinRadiusMeters, types.MaxRadiusMeters)
	}
	return fields
}

// respondGenerationError maps domain errors to 4xx responses and everything
// else to a generic 500, without leaking collaborator failure details.
func (h *HandlerImpl) respondGenerationError(ctx context.Context, w http.ResponseWriter, r *http.Request, l *slog.Logger, span trace.Span, err error) {
	switch {
	case errors.Is(err, types.ErrTripNotFound):
		span.SetStatus(codes.Error, "Trip not found")
		api.ErrorResponse(w, r, http.StatusNotFound, "Trip not found")
	case errors.Is(err, types.ErrNoPlacesAttached):
		span.SetStatus(codes.Error, "No places attached")
		api.ErrorResponse(w, r, http.StatusBadRequest, "No places added for this trip.")
	case errors.Is(err, types.ErrNoOriginPoint):
		span.SetStatus(codes.Error, "No origin point")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Trip has no origin point (no fixed places and no start location).")
	default:
		l.ErrorContext(ctx, "Itinerary generation failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Generation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to generate itinerary")
	}
}
