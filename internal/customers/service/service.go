package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"room_portal_backend/internal/authz"
	"room_portal_backend/internal/customers/repository"
	"room_portal_backend/internal/customers/transport"
	"room_portal_backend/internal/events"
	permissionsrepo "room_portal_backend/internal/permissions/repository"
	"room_portal_backend/platform/apperr"
	"room_portal_backend/platform/sanitize"
)

// Store is the persistence surface the service needs.
type Store interface {
	InTx(ctx context.Context, fn func(q repository.DBTX) error) error
	CreateUser(ctx context.Context, q repository.DBTX, user *repository.User) error
	CreateCustomer(ctx context.Context, q repository.DBTX, customer *repository.Customer) error
	GetProfileByUserID(ctx context.Context, q repository.DBTX, userID uuid.UUID) (*repository.Profile, error)
	GetProfileByCustomerID(ctx context.Context, customerID uuid.UUID) (*repository.Profile, error)
	CustomerIDByUserID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
	UpdateUser(ctx context.Context, q repository.DBTX, user *repository.User) error
	UpdateCustomerAddress(ctx context.Context, q repository.DBTX, customer *repository.Customer) error
	List(ctx context.Context, params repository.ListParams) (*repository.ListResult, error)
	SoftDelete(ctx context.Context, customerID uuid.UUID) error
}

// PermissionSeeder creates the default module permissions for a new customer
// inside the registration transaction.
type PermissionSeeder interface {
	CreateDefaults(ctx context.Context, q permissionsrepo.DBTX, customerID uuid.UUID) error
}

type Service struct {
	store Store
	perms PermissionSeeder
	bus   events.Bus
}

func New(store Store, perms PermissionSeeder, bus events.Bus) *Service {
	return &Service{store: store, perms: perms, bus: bus}
}

// Register creates the user, the customer profile and the default module
// permissions in one transaction. An email collision rolls everything back
// and surfaces as AlreadyExists.
func (s *Service) Register(ctx context.Context, req transport.RegisterRequest) (*repository.Profile, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to hash password", err)
	}

	user := &repository.User{
		Name:         sanitize.Text(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Role:         authz.RoleCustomer,
		Status:       "ACTIVE",
	}
	customer := &repository.Customer{
		ZipCode:      sanitize.Text(req.ZipCode),
		Street:       sanitize.Text(req.Street),
		Number:       sanitize.Text(req.Number),
		Complement:   sanitizePtr(req.Complement),
		Neighborhood: sanitize.Text(req.Neighborhood),
		City:         sanitize.Text(req.City),
		State:        sanitize.Text(req.State),
	}

	err = s.store.InTx(ctx, func(q repository.DBTX) error {
		if err := s.store.CreateUser(ctx, q, user); err != nil {
			return err
		}
		customer.UserID = user.ID
		if err := s.store.CreateCustomer(ctx, q, customer); err != nil {
			return err
		}
		return s.perms.CreateDefaults(ctx, q, customer.ID)
	})
	if err != nil {
		return nil, err
	}

	return &repository.Profile{User: *user, Customer: *customer}, nil
}

// Me returns the caller's profile.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*repository.Profile, error) {
	return s.store.GetProfileByUserID(ctx, nil, userID)
}

// UpdateMe applies a partial profile update. Identity and address writes run
// in one transaction; an email change additionally emits an activity event.
func (s *Service) UpdateMe(ctx context.Context, userID uuid.UUID, req transport.UpdateProfileRequest) (*repository.Profile, error) {
	profile, err := s.store.GetProfileByUserID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}

	oldEmail := profile.User.Email

	if req.Name != nil {
		profile.User.Name = sanitize.Text(*req.Name)
	}
	if req.Email != nil {
		profile.User.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.ZipCode != nil {
		profile.Customer.ZipCode = sanitize.Text(*req.ZipCode)
	}
	if req.Street != nil {
		profile.Customer.Street = sanitize.Text(*req.Street)
	}
	if req.Number != nil {
		profile.Customer.Number = sanitize.Text(*req.Number)
	}
	if req.Complement != nil {
		profile.Customer.Complement = sanitizePtr(req.Complement)
	}
	if req.Neighborhood != nil {
		profile.Customer.Neighborhood = sanitize.Text(*req.Neighborhood)
	}
	if req.City != nil {
		profile.Customer.City = sanitize.Text(*req.City)
	}
	if req.State != nil {
		profile.Customer.State = sanitize.Text(*req.State)
	}

	err = s.store.InTx(ctx, func(q repository.DBTX) error {
		if err := s.store.UpdateUser(ctx, q, &profile.User); err != nil {
			return err
		}
		return s.store.UpdateCustomerAddress(ctx, q, &profile.Customer)
	})
	if err != nil {
		return nil, err
	}

	if profile.User.Email != oldEmail {
		s.bus.Publish(ctx, events.NewProfileEmailChanged(userID, oldEmail, profile.User.Email))
	}

	return profile, nil
}

// List returns one page of customers for the admin view.
func (s *Service) List(ctx context.Context, req transport.ListCustomersRequest) (*repository.ListResult, error) {
	return s.store.List(ctx, repository.ListParams{
		Search:   req.Search,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
}

// GetByID returns one customer profile for the admin view.
func (s *Service) GetByID(ctx context.Context, customerID uuid.UUID) (*repository.Profile, error) {
	return s.store.GetProfileByCustomerID(ctx, customerID)
}

// Delete soft-deletes a customer and its user account.
func (s *Service) Delete(ctx context.Context, customerID uuid.UUID) error {
	return s.store.SoftDelete(ctx, customerID)
}

// CustomerIDByUserID resolves the customer behind a user. Also serves the
// logs and appointments modules.
func (s *Service) CustomerIDByUserID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	return s.store.CustomerIDByUserID(ctx, userID)
}

func sanitizePtr(value *string) *string {
	if value == nil {
		return nil
	}
	clean := sanitize.Text(*value)
	return &clean
}
