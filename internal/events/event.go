// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"room_portal_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// ActivityEvent is implemented by events that should land in the activity
// log. The logs module subscribes to each of them and persists one row
// per event, best-effort.
type ActivityEvent interface {
	Event
	// ActorID is the user the activity is attributed to.
	ActorID() uuid.UUID
	// Module is the feature area the activity belongs to.
	Module() string
	// ActivityType is the short human-readable activity label.
	ActivityType() string
	// Description is the full human-readable activity description.
	Description() string
}

// ActivityEventNames lists every event name the activity log subscribes to.
var ActivityEventNames = []string{
	EventAppointmentCreated,
	EventAppointmentAccepted,
	EventAppointmentCanceled,
	EventPermissionsUpdated,
	EventProfileEmailChanged,
	EventUserLoggedIn,
	EventUserLoggedOut,
}

// Event names.
const (
	EventAppointmentCreated  = "appointments.created"
	EventAppointmentAccepted = "appointments.accepted"
	EventAppointmentCanceled = "appointments.canceled"
	EventPermissionsUpdated  = "permissions.updated"
	EventProfileEmailChanged = "customers.profile.email_changed"
	EventUserLoggedIn        = "auth.user.logged_in"
	EventUserLoggedOut       = "auth.user.logged_out"
)

// activity carries the shared activity-log payload.
type activity struct {
	BaseEvent
	Actor    uuid.UUID `json:"actorId"`
	Activity string    `json:"activityType"`
	Text     string    `json:"description"`
}

func (a activity) ActorID() uuid.UUID   { return a.Actor }
func (a activity) ActivityType() string { return a.Activity }
func (a activity) Description() string  { return a.Text }

// =============================================================================
// Appointments Domain Events
// =============================================================================

// AppointmentCreated is published after a booking request succeeds.
type AppointmentCreated struct {
	activity
	AppointmentID uuid.UUID `json:"appointmentId"`
	RoomID        uuid.UUID `json:"roomId"`
	CustomerID    uuid.UUID `json:"customerId"`
}

func (e AppointmentCreated) EventName() string { return EventAppointmentCreated }
func (e AppointmentCreated) Module() string    { return "APPOINTMENT" }

// AppointmentAccepted is published when an administrator accepts a booking.
type AppointmentAccepted struct {
	activity
	AppointmentID uuid.UUID `json:"appointmentId"`
}

func (e AppointmentAccepted) EventName() string { return EventAppointmentAccepted }
func (e AppointmentAccepted) Module() string    { return "APPOINTMENT" }

// AppointmentCanceled is published when a booking is canceled by its owner
// or by an administrator.
type AppointmentCanceled struct {
	activity
	AppointmentID uuid.UUID `json:"appointmentId"`
}

func (e AppointmentCanceled) EventName() string { return EventAppointmentCanceled }
func (e AppointmentCanceled) Module() string    { return "APPOINTMENT" }

// NewAppointmentCreated builds an AppointmentCreated event.
func NewAppointmentCreated(actorID, appointmentID, roomID, customerID uuid.UUID, description string) AppointmentCreated {
	return AppointmentCreated{
		activity: activity{
			BaseEvent: NewBaseEvent(),
			Actor:     actorID,
			Activity:  "Criação de agendamento",
			Text:      description,
		},
		AppointmentID: appointmentID,
		RoomID:        roomID,
		CustomerID:    customerID,
	}
}

// NewAppointmentAccepted builds an AppointmentAccepted event.
func NewAppointmentAccepted(actorID, appointmentID uuid.UUID, description string) AppointmentAccepted {
	return AppointmentAccepted{
		activity: activity{
			BaseEvent: NewBaseEvent(),
			Actor:     actorID,
			Activity:  "Aceite de agendamento",
			Text:      description,
		},
		AppointmentID: appointmentID,
	}
}

// NewAppointmentCanceled builds an AppointmentCanceled event.
func NewAppointmentCanceled(actorID, appointmentID uuid.UUID, description string) AppointmentCanceled {
	return AppointmentCanceled{
		activity: activity{
			BaseEvent: NewBaseEvent(),
			Actor:     actorID,
			Activity:  "Cancelamento de agendamento",
			Text:      description,
		},
		AppointmentID: appointmentID,
	}
}

// =============================================================================
// Permissions Domain Events
// =============================================================================

// PermissionsUpdated is published when a permission batch actually changed
// at least one effective value.
type PermissionsUpdated struct {
	activity
	CustomerID uuid.UUID `json:"customerId"`
	Changes    []string  `json:"changes"`
}

func (e PermissionsUpdated) EventName() string { return EventPermissionsUpdated }
func (e PermissionsUpdated) Module() string    { return "ACCOUNT" }

// NewPermissionsUpdated builds a PermissionsUpdated event.
func NewPermissionsUpdated(actorID, customerID uuid.UUID, changes []string, description string) PermissionsUpdated {
	return PermissionsUpdated{
		activity: activity{
			BaseEvent: NewBaseEvent(),
			Actor:     actorID,
			Activity:  "Atualização de permissões",
			Text:      description,
		},
		CustomerID: customerID,
		Changes:    changes,
	}
}

// =============================================================================
// Customers Domain Events
// =============================================================================

// ProfileEmailChanged is published when a profile update changed the email.
type ProfileEmailChanged struct {
	activity
	OldEmail string `json:"oldEmail"`
	NewEmail string `json:"newEmail"`
}

func (e ProfileEmailChanged) EventName() string { return EventProfileEmailChanged }
func (e ProfileEmailChanged) Module() string    { return "ACCOUNT" }

// NewProfileEmailChanged builds a ProfileEmailChanged event.
func NewProfileEmailChanged(userID uuid.UUID, oldEmail, newEmail string) ProfileEmailChanged {
	return ProfileEmailChanged{
		activity: activity{
			BaseEvent: NewBaseEvent(),
			Actor:     userID,
			Activity:  "Atualização de perfil",
			Text:      "Alterou email de '" + oldEmail + "' para '" + newEmail + "'",
		},
		OldEmail: oldEmail,
		NewEmail: newEmail,
	}
}

// =============================================================================
// Auth Domain Events
// =============================================================================

// UserLoggedIn is published after a successful login.
type UserLoggedIn struct {
	activity
	Email string `json:"email"`
}

func (e UserLoggedIn) EventName() string { return EventUserLoggedIn }
func (e UserLoggedIn) Module() string    { return "AUTH" }

// NewUserLoggedIn builds a UserLoggedIn event.
func NewUserLoggedIn(userID uuid.UUID, email string) UserLoggedIn {
	return UserLoggedIn{
		activity: activity{
			BaseEvent: NewBaseEvent(),
			Actor:     userID,
			Activity:  "Login",
			Text:      "Usuário realizou login",
		},
		Email: email,
	}
}

// UserLoggedOut is published after a token is revoked via logout.
type UserLoggedOut struct {
	activity
}

func (e UserLoggedOut) EventName() string { return EventUserLoggedOut }
func (e UserLoggedOut) Module() string    { return "AUTH" }

// NewUserLoggedOut builds a UserLoggedOut event.
func NewUserLoggedOut(userID uuid.UUID) UserLoggedOut {
	return UserLoggedOut{
		activity: activity{
			BaseEvent: NewBaseEvent(),
			Actor:     userID,
			Activity:  "Logout",
			Text:      "Usuário realizou logout",
		},
	}
}
