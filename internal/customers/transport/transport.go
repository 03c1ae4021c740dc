// Package transport defines request and response DTOs for the customers module.
package transport

import (
	"time"

	"github.com/google/uuid"

	"room_portal_backend/internal/customers/repository"
)

// RegisterRequest is the public registration payload.
type RegisterRequest struct {
	Name         string  `json:"name" binding:"required,min=2,max=255"`
	Email        string  `json:"email" binding:"required,email"`
	Password     string  `json:"password" binding:"required,min=8,max=72"`
	ZipCode      string  `json:"zipCode" binding:"omitempty,max=20"`
	Street       string  `json:"street" binding:"omitempty,max=255"`
	Number       string  `json:"number" binding:"omitempty,max=20"`
	Complement   *string `json:"complement" binding:"omitempty,max=255"`
	Neighborhood string  `json:"neighborhood" binding:"omitempty,max=255"`
	City         string  `json:"city" binding:"omitempty,max=255"`
	State        string  `json:"state" binding:"omitempty,max=100"`
}

// UpdateProfileRequest is the payload for PATCH /customers/me. Nil fields
// are left unchanged.
type UpdateProfileRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=2,max=255"`
	Email        *string `json:"email" binding:"omitempty,email"`
	ZipCode      *string `json:"zipCode" binding:"omitempty,max=20"`
	Street       *string `json:"street" binding:"omitempty,max=255"`
	Number       *string `json:"number" binding:"omitempty,max=20"`
	Complement   *string `json:"complement" binding:"omitempty,max=255"`
	Neighborhood *string `json:"neighborhood" binding:"omitempty,max=255"`
	City         *string `json:"city" binding:"omitempty,max=255"`
	State        *string `json:"state" binding:"omitempty,max=100"`
}

// ListCustomersRequest carries query parameters for the admin listing.
type ListCustomersRequest struct {
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize,default=20" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search" binding:"omitempty,max=255"`
}

// UpdatePermissionsRequest is the payload for PUT /customers/:id/permissions.
type UpdatePermissionsRequest struct {
	Permissions []PermissionUpdate `json:"permissions" binding:"required,min=1,dive"`
}

// PermissionUpdate is one module/canView pair.
type PermissionUpdate struct {
	Module  string `json:"module" binding:"required"`
	CanView *bool  `json:"canView" binding:"required"`
}

// CustomerResponse is a customer profile on the wire.
type CustomerResponse struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"userId"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	ZipCode      string    `json:"zipCode"`
	Street       string    `json:"street"`
	Number       string    `json:"number"`
	Complement   *string   `json:"complement"`
	Neighborhood string    `json:"neighborhood"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Meta carries pagination info.
type Meta struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Total    int `json:"total"`
}

// ListCustomersResponse is one page of customers.
type ListCustomersResponse struct {
	Data []CustomerResponse `json:"data"`
	Meta Meta               `json:"meta"`
}

// FromProfile maps a repository profile to the wire format.
func FromProfile(p *repository.Profile) CustomerResponse {
	return CustomerResponse{
		ID:           p.Customer.ID,
		UserID:       p.User.ID,
		Name:         p.User.Name,
		Email:        p.User.Email,
		Role:         p.User.Role,
		Status:       p.User.Status,
		ZipCode:      p.Customer.ZipCode,
		Street:       p.Customer.Street,
		Number:       p.Customer.Number,
		Complement:   p.Customer.Complement,
		Neighborhood: p.Customer.Neighborhood,
		City:         p.Customer.City,
		State:        p.Customer.State,
		CreatedAt:    p.Customer.CreatedAt,
		UpdatedAt:    p.Customer.UpdatedAt,
	}
}

// FromResult maps a repository page to the wire format.
func FromResult(res *repository.ListResult) ListCustomersResponse {
	data := make([]CustomerResponse, 0, len(res.Items))
	for i := range res.Items {
		data = append(data, FromProfile(&res.Items[i]))
	}
	return ListCustomersResponse{
		Data: data,
		Meta: Meta{Page: res.Page, PageSize: res.PageSize, Total: res.Total},
	}
}
