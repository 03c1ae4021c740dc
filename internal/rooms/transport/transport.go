// Package transport defines request and response DTOs for the rooms module.
package transport

import (
	"time"

	"github.com/google/uuid"

	"room_portal_backend/internal/rooms/repository"
)

// CreateRoomRequest is the payload for creating a room.
type CreateRoomRequest struct {
	Name                string `json:"name" validate:"required,min=2,max=255"`
	StartTime           string `json:"startTime" validate:"required"`
	EndTime             string `json:"endTime" validate:"required"`
	SlotDurationMinutes int    `json:"slotDurationMinutes" validate:"required,min=1"`
}

// UpdateRoomRequest is the payload for updating a room. All fields required;
// updates replace the full operating window.
type UpdateRoomRequest struct {
	Name                string `json:"name" validate:"required,min=2,max=255"`
	StartTime           string `json:"startTime" validate:"required"`
	EndTime             string `json:"endTime" validate:"required"`
	SlotDurationMinutes int    `json:"slotDurationMinutes" validate:"required,min=1"`
}

// ListRoomsRequest carries pagination query parameters.
type ListRoomsRequest struct {
	Page     int `form:"page,default=1" validate:"omitempty,min=1"`
	PageSize int `form:"pageSize,default=20" validate:"omitempty,min=1,max=100"`
}

// RoomResponse is one room on the wire.
type RoomResponse struct {
	ID                  uuid.UUID `json:"id"`
	Name                string    `json:"name"`
	StartTime           string    `json:"startTime"`
	EndTime             string    `json:"endTime"`
	SlotDurationMinutes int       `json:"slotDurationMinutes"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// Meta carries pagination info.
type Meta struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Total    int `json:"total"`
}

// ListRoomsResponse is one page of rooms.
type ListRoomsResponse struct {
	Data []RoomResponse `json:"data"`
	Meta Meta           `json:"meta"`
}

// FromRoom maps a repository room to the wire format.
func FromRoom(room *repository.Room) RoomResponse {
	return RoomResponse{
		ID:                  room.ID,
		Name:                room.Name,
		StartTime:           room.StartTime,
		EndTime:             room.EndTime,
		SlotDurationMinutes: room.SlotDurationMinutes,
		CreatedAt:           room.CreatedAt,
		UpdatedAt:           room.UpdatedAt,
	}
}

// FromResult maps a repository page to the wire format.
func FromResult(res *repository.ListResult) ListRoomsResponse {
	data := make([]RoomResponse, 0, len(res.Items))
	for i := range res.Items {
		data = append(data, FromRoom(&res.Items[i]))
	}
	return ListRoomsResponse{
		Data: data,
		Meta: Meta{Page: res.Page, PageSize: res.PageSize, Total: res.Total},
	}
}
