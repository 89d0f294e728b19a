package types

import (
	"time"

	"github.com/google/uuid"
)

// MemberStatus is the invitation state of a trip member.
type MemberStatus string

const (
	MemberStatusPending  MemberStatus = "pending"
	MemberStatusAccepted MemberStatus = "accepted"
	MemberStatusDeclined MemberStatus = "declined"
)

// Trip represents a group trip with its candidate places and members.
type Trip struct {
	ID          uuid.UUID    `json:"id"`
	OwnerID     uuid.UUID    `json:"owner_id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	StartLat    *float64     `json:"start_lat,omitempty"`
	StartLon    *float64     `json:"start_lon,omitempty"`
	StartDate   *time.Time   `json:"start_date,omitempty"`
	EndDate     *time.Time   `json:"end_date,omitempty"`
	Places      []TripPlace  `json:"places,omitempty"`
	Members     []TripMember `json:"members,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// HasStartPoint reports whether the trip carries an explicit start coordinate.
func (t *Trip) HasStartPoint() bool {
	return t.StartLat != nil && t.StartLon != nil
}

// TripMember is a user invited to a trip, with their invitation status.
type TripMember struct {
	TripID    uuid.UUID    `json:"trip_id"`
	UserID    uuid.UUID    `json:"user_id"`
	Role      string       `json:"role"`
	Status    MemberStatus `json:"status"`
	InvitedAt time.Time    `json:"invited_at"`
}

// TripPlace joins a trip and a place, carrying per-trip scheduling state.
type TripPlace struct {
	TripID     uuid.UUID `json:"trip_id"`
	Place      Place     `json:"place"`
	IsFixed    bool      `json:"is_fixed"`
	Day        *int      `json:"day,omitempty"`
	OrderIndex int       `json:"order_index"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateTripRequest is the expected JSON body for creating a trip.
type CreateTripRequest struct {
	Name        string     `json:"name" validate:"required,min=1,max=120"`
	Description string     `json:"description,omitempty" validate:"max=500"`
	StartLat    *float64   `json:"start_lat,omitempty"`
	StartLon    *float64   `json:"start_lon,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

// AttachPlaceRequest is the expected JSON body for attaching a place to a trip.
type AttachPlaceRequest struct {
	PlaceID    uuid.UUID `json:"place_id" validate:"required"`
	IsFixed    bool      `json:"is_fixed"`
	Day        *int      `json:"day,omitempty" validate:"omitempty,gt=0"`
	OrderIndex int       `json:"order_index" validate:"gte=0"`
}

// InviteMemberRequest is the expected JSON body for inviting a user to a trip.
type InviteMemberRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
	Role   string    `json:"role,omitempty"`
}

// RespondInviteRequest is the expected JSON body for accepting or declining
// a trip invitation.
type RespondInviteRequest struct {
	Status MemberStatus `json:"status" validate:"required,oneof=accepted declined"`
}
