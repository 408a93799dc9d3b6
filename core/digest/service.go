package digest

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/pkg/errors"

	"github.com/truongductri01/daily-spark/core"
	"github.com/truongductri01/daily-spark/core/curriculum"
	"github.com/truongductri01/daily-spark/core/user"
)

var (
	// ErrNotFound is matched (errors.Is) by every reason a user gets no digest.
	ErrNotFound = errors.New("not found")

	ErrUserNotFound      error = &notFoundError{"user not found"}
	ErrNoActiveCurricula error = &notFoundError{"no active curricula found"}
)

type notFoundError struct {
	msg string
}

func (e *notFoundError) Error() string        { return e.msg }
func (e *notFoundError) Is(target error) bool { return target == ErrNotFound }

// IsNotFound reports whether err means the user has nothing to be sent.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

type (
	ServiceInterface interface {
		Aggregate(ctx context.Context, userID string) (Result, error)
		Preview(ctx context.Context, userID string) (Digest, error)
		ProcessAll(ctx context.Context) ([]Outcome, error)
		ProcessAllIsolated(ctx context.Context) (Report, error)
		Run(ctx context.Context) (Report, error)
	}

	// Service builds the curriculum digests and emails them.
	Service struct {
		usrRepo  user.Repository
		currRepo curriculum.Repository
		mailSvc  core.EmailService
		logger   core.Logger
		appName  string
		isolate  bool
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(
	usrRepo user.Repository,
	currRepo curriculum.Repository,
	mailSvc core.EmailService,
	logger core.Logger,
	conf *core.Config,
) *Service {
	return &Service{
		usrRepo:  usrRepo,
		currRepo: currRepo,
		mailSvc:  mailSvc,
		logger:   logger,
		appName:  conf.AppName,
		isolate:  conf.IsolateFailures,
	}
}

// Aggregate builds the digest of userID and emails it.
// Email failures never fail the aggregation; they are reported in Result.Notification.
func (svc *Service) Aggregate(ctx context.Context, userID string) (Result, error) {
	usr, dgst, err := svc.build(ctx, userID)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Digest:       dgst,
		Notification: svc.notify(ctx, usr, dgst),
	}, nil
}

// Preview builds the digest of userID without sending it.
func (svc *Service) Preview(ctx context.Context, userID string) (Digest, error) {
	_, dgst, err := svc.build(ctx, userID)
	return dgst, err
}

func (svc *Service) build(ctx context.Context, userID string) (user.User, Digest, error) {
	extras := map[string]interface{}{"userId": userID}

	usr, err := svc.usrRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			svc.logger.Warn(fmt.Sprintf("user %q not found", userID), extras)
			return user.User{}, Digest{}, ErrUserNotFound
		}
		svc.logger.Error(fmt.Sprintf("getting user %q: %v", userID, err), err, extras)
		return user.User{}, Digest{}, errors.Wrapf(err, "getting user %q", userID)
	}

	curricula, err := svc.currRepo.QueryCurricula(ctx, userID, curriculum.QueryFilter{Status: curriculum.StatusActive})
	if err != nil {
		svc.logger.Error(fmt.Sprintf("querying active curricula of user %q: %v", userID, err), err, usr)
		return user.User{}, Digest{}, errors.Wrapf(err, "querying active curricula of user %q", userID)
	}
	active := make([]curriculum.Curriculum, 0, len(curricula))
	for _, c := range curricula {
		if c.IsActive() {
			active = append(active, c)
		}
	}
	if len(active) == 0 {
		svc.logger.Info(fmt.Sprintf("no active curricula found for user %q", userID), usr)
		return user.User{}, Digest{}, ErrNoActiveCurricula
	}

	return usr, Digest{
		DisplayName: usr.DisplayName,
		Email:       usr.Email,
		Topics:      Flatten(active),
	}, nil
}

func (svc *Service) subject(displayName string) string {
	return fmt.Sprintf("[%s] - Daily Curriculum Topics, %s", svc.appName, displayName)
}

func (svc *Service) notify(ctx context.Context, usr user.User, dgst Digest) Notification {
	html, err := RenderHTML(dgst.DisplayName, dgst.Topics)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("rendering digest email: %v", err), err, usr)
		return failedNotification(err)
	}
	text, err := RenderText(dgst.DisplayName, dgst.Topics)
	if err != nil {
		svc.logger.Warn(fmt.Sprintf("rendering digest text: %v", err), err, usr)
	}

	msg := &core.EmailMessage{
		To:          []mail.Address{{Address: dgst.Email}},
		Subject:     svc.subject(dgst.DisplayName),
		TextContent: text,
		HTMLContent: html,
	}
	if err = svc.mailSvc.SendMessage(ctx, msg); err != nil {
		svc.logger.Error(fmt.Sprintf("sending digest email: %v", err), err, usr)
		return failedNotification(err)
	}
	svc.logger.Info(fmt.Sprintf("digest with %d topics sent to user %q", len(dgst.Topics), usr.ID), usr)
	return Notification{Sent: true}
}
