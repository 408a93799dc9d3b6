package curriculum

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/truongductri01/daily-spark/core"
)

var (
	// errors
	ErrNotFound         = errors.New("curriculum not found")
	ErrCurriculumExists = errors.New("a curriculum with this id already exists")
)

type (
	Repository interface {
		CreateCurriculum(ctx context.Context, c Curriculum) (Curriculum, error)
		// GetCurriculum is a point lookup inside the partition of userID. Returns ErrNotFound.
		GetCurriculum(ctx context.Context, userID, id string) (Curriculum, error)
		// CurriculumExists looks id up across all partitions.
		CurriculumExists(ctx context.Context, id string) (bool, error)
		// QueryCurricula scans the partition of userID, in the store's natural order.
		QueryCurricula(ctx context.Context, userID string, filter QueryFilter) ([]Curriculum, error)
		UpdateCurriculum(ctx context.Context, c Curriculum) (Curriculum, error)
	}

	ServiceInterface interface {
		Create(ctx context.Context, nc NewCurriculum) (Curriculum, error)
		Get(ctx context.Context, userID, id string) (Curriculum, error)
		QueryByUser(ctx context.Context, userID string, filter QueryFilter) ([]Curriculum, error)
		QueryActive(ctx context.Context, userID string) ([]Curriculum, error)
		Update(ctx context.Context, uc UpdateCurriculum) (Curriculum, error)
	}

	Service struct {
		repo   Repository
		logger core.Logger
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, logger core.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Create stores a new Curriculum. nc is expected to be validated.
// The owner's existence is not checked: users and curricula live in separate stores.
func (svc *Service) Create(ctx context.Context, nc NewCurriculum) (Curriculum, error) {
	id := nc.ID
	if id == "" {
		id = uuid.NewString()
	} else if exists, err := svc.repo.CurriculumExists(ctx, id); err != nil {
		return Curriculum{}, errors.Wrapf(err, "checking curriculum %q", id)
	} else if exists {
		return Curriculum{}, core.NewValidationError(ErrCurriculumExists, core.FieldError{Field: "id", Error: ErrCurriculumExists.Error()})
	}

	topics := nc.Topics
	if topics == nil {
		topics = []Topic{}
	}
	for i := range topics {
		if topics[i].ID == "" {
			topics[i].ID = uuid.NewString()
		}
	}

	c, err := svc.repo.CreateCurriculum(ctx, Curriculum{
		ID:               id,
		UserID:           nc.UserID,
		CourseTitle:      nc.CourseTitle,
		Status:           nc.Status,
		NextReminderDate: nc.NextReminderDate.UTC(),
		Topics:           topics,
	})
	if err != nil {
		if errors.Cause(err) == ErrCurriculumExists {
			return Curriculum{}, core.NewValidationError(ErrCurriculumExists, core.FieldError{Field: "id", Error: ErrCurriculumExists.Error()})
		}
		return Curriculum{}, errors.Wrap(err, "creating curriculum")
	}
	svc.logger.Info(fmt.Sprintf("curriculum %q created for user %q", c.ID, c.UserID))
	return c, nil
}

func (svc *Service) Get(ctx context.Context, userID, id string) (Curriculum, error) {
	return svc.repo.GetCurriculum(ctx, core.CleanString(userID), core.CleanString(id))
}

func (svc *Service) QueryByUser(ctx context.Context, userID string, filter QueryFilter) ([]Curriculum, error) {
	return svc.repo.QueryCurricula(ctx, core.CleanString(userID), filter)
}

// QueryActive returns the curricula of userID with the Active status.
func (svc *Service) QueryActive(ctx context.Context, userID string) ([]Curriculum, error) {
	return svc.repo.QueryCurricula(ctx, userID, QueryFilter{Status: StatusActive})
}

// Update only writes the fields set in uc; the stored Curriculum is returned as is when nothing changed.
func (svc *Service) Update(ctx context.Context, uc UpdateCurriculum) (Curriculum, error) {
	c, err := svc.repo.GetCurriculum(ctx, uc.UserID, uc.ID)
	if err != nil {
		return Curriculum{}, err
	}
	for i := range uc.Topics {
		if uc.Topics[i].ID == "" {
			uc.Topics[i].ID = uuid.NewString()
		}
	}
	if !uc.apply(&c) {
		return c, nil
	}
	if c, err = svc.repo.UpdateCurriculum(ctx, c); err != nil {
		return Curriculum{}, errors.Wrapf(err, "updating curriculum %q", uc.ID)
	}
	return c, nil
}
