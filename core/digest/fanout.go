package digest

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// ProcessAll aggregates the digests of every user concurrently, one goroutine per user.
// Users without a digest yield a NotFound outcome. Any other failure aborts the batch:
// all goroutines are still waited for, but no outcome is returned.
// Outcomes are in the order of the user ids scan.
func (svc *Service) ProcessAll(ctx context.Context) ([]Outcome, error) {
	ids, err := svc.queryUserIDs(ctx)
	if err != nil {
		return nil, err
	}

	outcomes := make([]Outcome, len(ids))
	var g errgroup.Group
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			res, err := svc.Aggregate(ctx, id)
			outcomes[i] = newOutcome(id, res, err)
			if err != nil && !IsNotFound(err) {
				return errors.Wrapf(err, "processing user %q", id)
			}
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		svc.logger.Error(fmt.Sprintf("processing all users: %v", err), err)
		return nil, err
	}
	return outcomes, nil
}

// ProcessAllIsolated is like ProcessAll but a user's failure only affects its own outcome.
// Only a failure to list the users fails the call.
func (svc *Service) ProcessAllIsolated(ctx context.Context) (Report, error) {
	ids, err := svc.queryUserIDs(ctx)
	if err != nil {
		return Report{}, err
	}

	outcomes := make([]Outcome, len(ids))
	var g errgroup.Group
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			res, err := svc.Aggregate(ctx, id)
			outcomes[i] = newOutcome(id, res, err)
			return nil
		})
	}
	_ = g.Wait()

	report := Report{Outcomes: outcomes}
	for _, o := range outcomes {
		if o.Err != nil {
			report.Failed++
		}
	}
	if report.Failed > 0 {
		svc.logger.Warn(fmt.Sprintf("processing all users: %d of %d failed", report.Failed, len(outcomes)))
	}
	return report, nil
}

// Run processes all users with the configured failure policy.
func (svc *Service) Run(ctx context.Context) (Report, error) {
	if svc.isolate {
		return svc.ProcessAllIsolated(ctx)
	}
	outcomes, err := svc.ProcessAll(ctx)
	if err != nil {
		return Report{}, err
	}
	return Report{Outcomes: outcomes}, nil
}

func (svc *Service) queryUserIDs(ctx context.Context) ([]string, error) {
	ids, err := svc.usrRepo.QueryUserIDs(ctx)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("querying user ids: %v", err), err)
		return nil, errors.Wrap(err, "querying user ids")
	}
	svc.logger.Info(fmt.Sprintf("processing %d users", len(ids)))
	return ids, nil
}

func newOutcome(userID string, res Result, err error) Outcome {
	switch {
	case err == nil:
		dgst := res.Digest
		return Outcome{UserID: userID, Digest: &dgst, Notification: res.Notification}
	case IsNotFound(err):
		return Outcome{UserID: userID, NotFound: true}
	default:
		return Outcome{UserID: userID, Err: err, Error: err.Error()}
	}
}
