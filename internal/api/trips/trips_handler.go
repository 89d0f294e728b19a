package trips

import (
	"context"
	"errors"
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
	CreateTripHandler(w http.ResponseWriter, r *http.Request)
	GetTripHandler(w http.ResponseWriter, r *http.Request)
	DeleteTripHandler(w http.ResponseWriter, r *http.Request)
	GetMyTripsHandler(w http.ResponseWriter, r *http.Request)
	InviteMemberHandler(w http.ResponseWriter, r *http.Request)
	RespondToInviteHandler(w http.ResponseWriter, r *http.Request)
	AttachPlaceHandler(w http.ResponseWriter, r *http.Request)
	DetachPlaceHandler(w http.ResponseWriter, r *http.Request)
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

// CreateTripHandler creates a trip owned by the authenticated user.
func (h *HandlerImpl) CreateTripHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), "CreateTrip")
	defer span.End()
	l := h.logger.With(slog.String("handler", "CreateTripHandler"))

	ownerID, ok := requireUserID(ctx, w, r, l)
	if !ok {
		return
	}

	var req types.CreateTripRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		api.ValidationErrorResponse(w, r, map[string]string{"name": "must not be empty"})
		return
	}
	span.SetAttributes(attribute.String("trip.name", req.Name))

	trip, err := h.service.CreateTrip(ctx, ownerID, req)
	if err != nil {
		l.ErrorContext(ctx, "Service failed to create trip", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create trip")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to create trip")
		return
	}

	span.SetAttributes(attribute.String("trip.id", trip.ID.String()))
	span.SetStatus(codes.Ok, "Trip created")
	api.WriteJSONResponse(w, r, http.StatusCreated, trip)
}

// GetTripHandler returns a single trip.
func (h *HandlerImpl) GetTripHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), "GetTrip")
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetTripHandler"))

	tripID, ok := parseTripID(ctx, w, r, l)
	if !ok {
		return
	}

	trip, err := h.service.GetTrip(ctx, tripID)
	if err != nil {
		if errors.Is(err, types.ErrTripNotFound) {
			span.SetStatus(codes.Error, "Trip not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Trip not found")
			return
		}
		l.ErrorContext(ctx, "Service failed to get trip", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get trip")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to get trip")
		return
	}

	span.SetStatus(codes.Ok, "Trip fetched")
	api.WriteJSONResponse(w, r, http.StatusOK, trip)
}

// DeleteTripHandler removes a trip.
func (h *HandlerImpl) DeleteTripHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), "DeleteTrip")
	defer span.End()
	l := h.logger.With(slog.String("handler", "DeleteTripHandler"))

	tripID, ok := parseTripID(ctx, w, r, l)
	if !ok {
		return
	}

	if err := h.service.DeleteTrip(ctx, tripID); err != nil {
		if errors.Is(err, types.ErrTripNotFound) {
			span.SetStatus(codes.Error, "Trip not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Trip not found")
			return
		}
		l.ErrorContext(ctx, "Service failed to delete trip", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete trip")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete trip")
		return
	}

	span.SetStatus(codes.Ok, "Trip deleted")
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

// GetMyTripsHandler lists the authenticated user's trips.
func (h *HandlerImpl) GetMyTripsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), "GetMyTrips")
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetMyTripsHandler"))

	userID, ok := requireUserID(ctx, w, r, l)
	if !ok {
		return
	}

	trips, err := h.service.GetUserTrips(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Service failed to list trips", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list trips")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list trips")
		return
	}

	span.SetAttributes(attribute.Int("trips.count", len(trips)))
	span.SetStatus(codes.Ok, "Trips listed")
	api.WriteJSONResponse(w, r, http.StatusOK, trips)
}

// InviteMemberHandler invites a user to a trip.
func (h *HandlerImpl) InviteMemberHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), "InviteMember")
	defer span.End()
	l := h.logger.With(slog.String("handler", "InviteMemberHandler"))

	tripID, ok := parseTripID(ctx, w, r, l)
	if !ok {
		return
	}

	var req types.InviteMemberRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.UserID == uuid.Nil {
		api.ValidationErrorResponse(w, r, map[string]string{"user_id": "must not be empty"})
		return
	}

	if err := h.service.InviteMember(ctx, tripID, req.UserID, req.Role); err != nil {
		l.ErrorContext(ctx, "Service failed to invite member", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to invite member")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to invite member")
		return
	}

	span.SetStatus(codes.Ok, "Member invited")
	api.WriteJSONResponse(w, r, http.StatusCreated, api.Response{Success: true, Message: "Member invited"})
}

// RespondToInviteHandler records the authenticated user's accept/decline.
func (h *HandlerImpl) RespondToInviteHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), "RespondToInvite")
	defer span.End()
	l := h.logger.With(slog.String("handler", "RespondToInviteHandler"))

	tripID, ok := parseTripID(ctx, w, r, l)
	if !ok {
		return
	}
	userID, ok := requireUserID(ctx, w, r, l)
	if !ok {
		return
	}

	var req types.RespondInviteRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Status != types.MemberStatusAccepted && req.Status != types.MemberStatusDeclined {
		api.ValidationErrorResponse(w, r, map[string]string{"status": "must be accepted or declined"})
		return
	}

	if err := h.service.RespondToInvite(ctx, tripID, userID, req.Status); err != nil {
		l.ErrorContext(ctx, "Service failed to record invite response", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to record invite response")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to record invite response")
		return
	}

	span.SetStatus(codes.Ok, "Invite response recorded")
	api.WriteJSONResponse(w, r, http.StatusOK, api.Response{Success: true, Message: "Invite response recorded"})
}

// AttachPlaceHandler attaches a candidate place to a trip.
func (h *HandlerImpl) AttachPlaceHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), "AttachPlace")
	defer span.End()
	l := h.logger.With(slog.String("handler", "AttachPlaceHandler"))

	tripID, ok := parseTripID(ctx, w, r, l)
	if !ok {
		return
	}

	var req types.AttachPlaceRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.PlaceID == uuid.Nil {
		api.ValidationErrorResponse(w, r, map[string]string{"place_id": "must not be empty"})
		return
	}

	if err := h.service.AttachPlace(ctx, tripID, req); err != nil {
		if errors.Is(err, types.ErrDuplicateAttachment) {
			span.SetStatus(codes.Error, "Duplicate attachment")
			api.ErrorResponse(w, r, http.StatusConflict, "Place is already attached to this trip")
			return
		}
		l.ErrorContext(ctx, "Service failed to attach place", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to attach place")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to attach place")
		return
	}

	span.SetStatus(codes.Ok, "Place attached")
	api.WriteJSONResponse(w, r, http.StatusCreated, api.Response{Success: true, Message: "Place attached"})
}

// DetachPlaceHandler removes a candidate place from a trip.
func (h *HandlerImpl) DetachPlaceHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), "DetachPlace")
	defer span.End()
	l := h.logger.With(slog.String("handler", "DetachPlaceHandler"))

	tripID, ok := parseTripID(ctx, w, r, l)
	if !ok {
		return
	}
	placeID, err := uuid.Parse(chi.URLParam(r, "placeID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid place ID format")
		return
	}

	if err := h.service.DetachPlace(ctx, tripID, placeID); err != nil {
		l.ErrorContext(ctx, "Service failed to detach place", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to detach place")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to detach place")
		return
	}

	span.SetStatus(codes.Ok, "Place detached")
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

func parseTripID(ctx context.Context, w http.ResponseWriter, r *http.Request, l *slog.Logger) (uuid.UUID, bool) {
	tripID, err := uuid.Parse(chi.URLParam(r, "tripID"))
	if err != nil {
		l.ErrorContext(ctx, "Invalid trip ID format", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid trip ID format")
		return uuid.Nil, false
	}
	return tripID, true
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
