package places

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-group-trip-planner/internal/api"
	"github.com/FACorreiaa/go-group-trip-planner/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	GetPlaceHandler(w http.ResponseWriter, r *http.Request)
	SearchPlacesHandler(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	logger *slog.Logger
	repo   Repository
}

func NewHandler(repo Repository, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		logger: logger,
		repo:   repo,
	}
}

// GetPlaceHandler returns one place by id.
func (h *HandlerImpl) GetPlaceHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlaceHandler").Start(r.Context(), "GetPlace")
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetPlaceHandler"))

	placeID, err := uuid.Parse(chi.URLParam(r, "placeID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid place ID format")
		return
	}
	span.SetAttributes(attribute.String("place.id", placeID.String()))

	place, err := h.repo.GetPlace(ctx, placeID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to get place", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get place")
		api.ErrorResponse(w, r, http.StatusNotFound, "Place not found")
		return
	}

	span.SetStatus(codes.Ok, "Place fetched")
	api.WriteJSONResponse(w, r, http.StatusOK, place)
}

// SearchPlacesHandler lists places, optionally filtered by category, minimum
// rating and a lat/lon/radius circle.
func (h *HandlerImpl) SearchPlacesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlaceHandler").Start(r.Context(), "SearchPlaces")
	defer span.End()
	l := h.logger.With(slog.String("handler", "SearchPlacesHandler"))

	q := r.URL.Query()
	filter := types.PlaceFilter{CategorySlug: q.Get("category")}

	if v := q.Get("min_rating"); v != "" {
		minRating, err := strconv.ParseFloat(v, 64)
		if err != nil {
			api.ValidationErrorResponse(w, r, map[string]string{"min_rating": "must be a number"})
			return
		}
		filter.MinRating = &minRating
	}

	latStr, lonStr, radiusStr := q.Get("lat"), q.Get("lon"), q.Get("radius_meters")
	if latStr != "" || lonStr != "" || radiusStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lon, lonErr := strconv.ParseFloat(lonStr, 64)
		radius, radErr := strconv.Atoi(radiusStr)
		if latErr != nil || lonErr != nil || radErr != nil {
			api.ValidationErrorResponse(w, r, map[string]string{
				"lat": "lat, lon and radius_meters must be provided together as numbers",
			})
			return
		}
		filter.Lat, filter.Lon, filter.RadiusMeters = &lat, &lon, &radius
	}

	places, err := h.repo.SearchPlaces(ctx, filter)
	if err != nil {
		l.ErrorContext(ctx, "Failed to search places", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to search places")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to search places")
		return
	}

	span.SetAttributes(attribute.Int("places.count", len(places)))
	span.SetStatus(codes.Ok, "Places searched")
	api.WriteJSONResponse(w, r, http.StatusOK, places)
}
