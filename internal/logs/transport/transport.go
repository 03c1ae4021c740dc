// Package transport defines request and response DTOs for the logs module.
package transport

import (
	"time"

	"github.com/google/uuid"

	"room_portal_backend/internal/logs/repository"
)

// ListLogsRequest carries query parameters for listing activity logs.
type ListLogsRequest struct {
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize,default=20" binding:"omitempty,min=1,max=100"`
	Module   string `form:"module" binding:"omitempty,alpha"`
	UserID   string `form:"userId" binding:"omitempty,uuid"`
}

// LogResponse is one activity-log entry on the wire.
type LogResponse struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"userId"`
	Module       string    `json:"module"`
	ActivityType string    `json:"activityType"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Meta carries pagination info.
type Meta struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Total    int `json:"total"`
}

// ListLogsResponse is one page of activity logs.
type ListLogsResponse struct {
	Data []LogResponse `json:"data"`
	Meta Meta          `json:"meta"`
}

// FromResult maps a repository page to the wire format.
func FromResult(res *repository.ListResult) ListLogsResponse {
	data := make([]LogResponse, 0, len(res.Items))
	for _, l := range res.Items {
		data = append(data, LogResponse{
			ID:           l.ID,
			UserID:       l.UserID,
			Module:       l.Module,
			ActivityType: l.ActivityType,
			Description:  l.Description,
			CreatedAt:    l.CreatedAt,
		})
	}
	return ListLogsResponse{
		Data: data,
		Meta: Meta{Page: res.Page, PageSize: res.PageSize, Total: res.Total},
	}
}
