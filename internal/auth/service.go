package auth

import (
	"context"

	"github.com/nikhilv/blogfeed/internal/apperr"
	"github.com/nikhilv/blogfeed/internal/models"
	"github.com/nikhilv/blogfeed/internal/validate"
)

// defaultStatus is assigned to every freshly registered user.
const defaultStatus = "I am new!"

// UserStore defines the interface for user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	SetStatus(ctx context.Context, id, status string) error
}

// Service implements registration, login and status updates.
type Service struct {
	users UserStore
	codec *TokenCodec
}

func NewService(users UserStore, codec *TokenCodec) *Service {
	return &Service{users: users, codec: codec}
}

// Register validates the input, rejects duplicate emails and stores the
// user with a hashed password. Nothing is written on invalid input.
func (s *Service) Register(ctx context.Context, input models.UserInput) (*models.User, error) {
	if violations := validate.UserInput(input.Email, input.Password); len(violations) > 0 {
		return nil, apperr.Invalid(violations)
	}

	if existing, err := s.users.GetUserByEmail(ctx, input.Email); err == nil && existing != nil {
		return nil, apperr.New(apperr.Conflict, "User exists already.")
	} else if err != nil && !apperr.Is(err, apperr.NotFound) {
		return nil, err
	}

	hashed, err := HashPassword(input.Password)
	if err != nil {
		return nil, apperr.Wrap(apperr.StoreError, "Creating user failed.", err)
	}

	return s.users.CreateUser(ctx, &models.User{
		Email:    input.Email,
		Name:     input.Name,
		Password: hashed,
		Status:   defaultStatus,
	})
}

// Login checks the credentials and issues a signed token.
func (s *Service) Login(ctx context.Context, email, password string) (*models.AuthData, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if apperr.Is(err, apperr.NotFound) {
			return nil, apperr.New(apperr.Unauthenticated, "User not found.")
		}
		return nil, err
	}

	if !CheckPassword(password, user.Password) {
		return nil, apperr.New(apperr.Unauthenticated, "Password is incorrect.")
	}

	token, err := s.codec.Issue(user.ID.Hex(), user.Email)
	if err != nil {
		return nil, apperr.Wrap(apperr.StoreError, "Signing token failed.", err)
	}
	return &models.AuthData{UserID: user.ID.Hex(), Token: token}, nil
}

// UpdateStatus sets the status line of the authenticated user.
func (s *Service) UpdateStatus(ctx context.Context, userID, status string) (*models.User, error) {
	if userID == "" {
		return nil, apperr.New(apperr.Unauthenticated, "Not authenticated!")
	}
	if err := s.users.SetStatus(ctx, userID, status); err != nil {
		return nil, err
	}
	return s.users.GetUserByID(ctx, userID)
}
