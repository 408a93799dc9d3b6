package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/truongductri01/daily-spark/core"
)

var (
	// errors
	ErrNotFound         = errors.New("user not found")
	ErrUserExists       = errors.New("a user with this id already exists")
	ErrUserLimitReached = errors.New("maximum number of users reached")
)

type (
	Repository interface {
		CreateUser(ctx context.Context, usr User) (User, error)
		// GetUserByID returns ErrNotFound when no User has this id.
		GetUserByID(ctx context.Context, id string) (User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
		// QueryUserIDs returns the ids of all users, in the store's natural order.
		QueryUserIDs(ctx context.Context) ([]string, error)
		CountUsers(ctx context.Context) (int, error)
	}

	ServiceInterface interface {
		Create(ctx context.Context, nu NewUser) (User, error)
		GetByID(ctx context.Context, id string) (User, error)
		Update(ctx context.Context, uu UpdateUser) (User, error)
		Count(ctx context.Context) (int, error)
		QueryIDs(ctx context.Context) ([]string, error)
	}

	Service struct {
		repo     Repository
		logger   core.Logger
		maxUsers int
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, logger core.Logger, conf *core.Config) *Service {
	return &Service{
		repo:     repo,
		logger:   logger,
		maxUsers: conf.MaxUsers,
	}
}

// Create registers a new User, unless the users limit is reached or nu.ID is already taken.
// nu is expected to be validated.
func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	count, err := svc.repo.CountUsers(ctx)
	if err != nil {
		return User{}, errors.Wrap(err, "counting users")
	}
	if svc.maxUsers > 0 && count >= svc.maxUsers {
		err = errors.Wrapf(ErrUserLimitReached, "limit is %d and there are already %d users", svc.maxUsers, count)
		svc.logger.Warn(err.Error())
		return User{}, core.NewValidationError(err)
	}

	id := nu.ID
	if id == "" {
		id = uuid.NewString()
	} else if _, err = svc.repo.GetUserByID(ctx, id); err == nil {
		return User{}, core.NewValidationError(ErrUserExists, core.FieldError{Field: "id", Error: ErrUserExists.Error()})
	} else if errors.Cause(err) != ErrNotFound {
		return User{}, errors.Wrapf(err, "checking user %q", id)
	}

	usr, err := svc.repo.CreateUser(ctx, User{
		ID:          id,
		DisplayName: nu.DisplayName,
		Email:       nu.Email,
	})
	if err != nil {
		if errors.Cause(err) == ErrUserExists {
			return User{}, core.NewValidationError(ErrUserExists, core.FieldError{Field: "id", Error: ErrUserExists.Error()})
		}
		return User{}, errors.Wrap(err, "creating user")
	}
	svc.logger.Info(fmt.Sprintf("user %q created", usr.ID), usr)
	return usr, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, core.CleanString(id))
}

// Update only writes the fields set in uu; the stored User is returned as is when nothing changed.
func (svc *Service) Update(ctx context.Context, uu UpdateUser) (User, error) {
	usr, err := svc.repo.GetUserByID(ctx, uu.ID)
	if err != nil {
		return User{}, err
	}
	if !uu.apply(&usr) {
		return usr, nil
	}
	if usr, err = svc.repo.UpdateUser(ctx, usr); err != nil {
		return User{}, errors.Wrapf(err, "updating user %q", uu.ID)
	}
	return usr, nil
}

func (svc *Service) Count(ctx context.Context) (int, error) {
	return svc.repo.CountUsers(ctx)
}

func (svc *Service) QueryIDs(ctx context.Context) ([]string, error) {
	return svc.repo.QueryUserIDs(ctx)
}
