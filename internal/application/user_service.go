package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	userDomain "github.com/shareit-app/shareit-server/internal/domain/user"
	"github.com/shareit-app/shareit-server/internal/platform/database"
	"github.com/shareit-app/shareit-server/internal/platform/domain"
)

// CreateUserRequest holds the data needed to register a user.
type CreateUserRequest struct {
	Name  string `json:"name" binding:"required,max=125"`
	Email string `json:"email" binding:"required,email"`
}

// UpdateUserRequest holds a partial user update.
type UpdateUserRequest struct {
	Name  *string `json:"name" binding:"omitempty,max=125"`
	Email *string `json:"email" binding:"omitempty,email"`
}

// UserDTO is the response representation of a user.
type UserDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserService manages marketplace users.
type UserService struct {
	repo   userDomain.UserRepository
	tx     database.Transactor
	logger *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(repo userDomain.UserRepository, tx database.Transactor, logger *zap.Logger) *UserService {
	return &UserService{repo: repo, tx: tx, logger: logger}
}

// CreateUser registers a user. Emails are unique.
func (s *UserService) CreateUser(ctx context.Context, req CreateUserRequest) (_ *UserDTO, err error) {
	defer func() { observe("create_user", err) }()

	u, err := userDomain.NewUser(req.Name, req.Email)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.ensureEmailFree(ctx, u.Email(), 0); err != nil {
			return err
		}
		if err := s.repo.Save(ctx, u); err != nil {
			return fmt.Errorf("failed to save user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user created", zap.Int64("user_id", u.ID()))
	result := toUserDTO(u)
	return &result, nil
}

// UpdateUser merges the non-nil fields of req into the user.
func (s *UserService) UpdateUser(ctx context.Context, userID int64, req UpdateUserRequest) (_ *UserDTO, err error) {
	defer func() { observe("update_user", err) }()

	var u *userDomain.User
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		u, err = s.repo.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if req.Email != nil && *req.Email != u.Email() {
			if err := s.ensureEmailFree(ctx, *req.Email, userID); err != nil {
				return err
			}
		}
		if err := u.Apply(userDomain.Patch{Name: req.Name, Email: req.Email}); err != nil {
			return err
		}
		return s.repo.Update(ctx, u)
	})
	if err != nil {
		return nil, err
	}

	result := toUserDTO(u)
	return &result, nil
}

// GetUser returns a user by id.
func (s *UserService) GetUser(ctx context.Context, userID int64) (*UserDTO, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := toUserDTO(u)
	return &result, nil
}

// ListUsers returns every user.
func (s *UserService) ListUsers(ctx context.Context) ([]UserDTO, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = toUserDTO(u)
	}
	return dtos, nil
}

// DeleteUser removes a user.
func (s *UserService) DeleteUser(ctx context.Context, userID int64) (err error) {
	defer func() { observe("delete_user", err) }()

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		exists, err := s.repo.ExistsByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to check user: %w", err)
		}
		if !exists {
			return domain.NewNotFoundError("User", userID)
		}
		return s.repo.Delete(ctx, userID)
	})
	if err != nil {
		return err
	}
	s.logger.Info("user deleted", zap.Int64("user_id", userID))
	return nil
}

func (s *UserService) ensureEmailFree(ctx context.Context, email string, exceptID int64) error {
	taken, err := s.repo.ExistsByEmail(ctx, email, exceptID)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return domain.NewEmailAlreadyExistsError(email)
	}
	return nil
}

func toUserDTO(u *userDomain.User) UserDTO {
	return UserDTO{ID: u.ID(), Name: u.Name(), Email: u.Email()}
}
