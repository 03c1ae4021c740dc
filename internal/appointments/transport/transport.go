// Package transport defines request and response DTOs for the appointments
// module. Scheduled times cross the wire as civil-time strings in the
// application's fixed offset.
package transport

import (
	"github.com/google/uuid"
)

// CreateAppointmentRequest is the booking payload. ScheduledAt is a civil
// date-time string, interpreted in the application's fixed offset.
type CreateAppointmentRequest struct {
	RoomID      string `json:"roomId" binding:"required,uuid"`
	ScheduledAt string `json:"scheduledAt" binding:"required"`
}

// ListAppointmentsRequest carries the shared listing query parameters. From
// and To bound scheduled times as a closed range, also as civil strings.
type ListAppointmentsRequest struct {
	Page       int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize   int    `form:"pageSize,default=20" binding:"omitempty,min=1,max=100"`
	Sort       string `form:"sort,default=asc" binding:"omitempty,oneof=asc desc"`
	From       string `form:"from" binding:"omitempty"`
	To         string `form:"to" binding:"omitempty"`
	CustomerID string `form:"customerId" binding:"omitempty,uuid"`
}

// RoomSummary is the embedded room view.
type RoomSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// CustomerSummary is the embedded customer view.
type CustomerSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  *string   `json:"name,omitempty"`
	Email *string   `json:"email,omitempty"`
}

// AppointmentResponse is one appointment on the wire. Room and Customer are
// omitted when the related record was deleted.
type AppointmentResponse struct {
	ID          uuid.UUID        `json:"id"`
	RoomID      uuid.UUID        `json:"roomId"`
	CustomerID  uuid.UUID        `json:"customerId"`
	ScheduledAt string           `json:"scheduledAt"`
	Status      string           `json:"status"`
	Room        *RoomSummary     `json:"room,omitempty"`
	Customer    *CustomerSummary `json:"customer,omitempty"`
}

// Meta carries pagination info plus the applied sort direction.
type Meta struct {
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
	Total    int    `json:"total"`
	Sort     string `json:"sort"`
}

// ListAppointmentsResponse is one page of appointments.
type ListAppointmentsResponse struct {
	Data []AppointmentResponse `json:"data"`
	Meta Meta                  `json:"meta"`
}
