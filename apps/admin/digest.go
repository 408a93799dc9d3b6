package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/truongductri01/daily-spark/core/digest"
)

func (cli *commandLine) digest(ctx context.Context, userID string) error {
	res, err := cli.digestSvc.Aggregate(ctx, userID)
	if err != nil {
		return err
	}
	if !res.Notification.Sent {
		return cli.print(struct {
			digest.Digest
			SendError string `json:"sendError"`
		}{res.Digest, res.Notification.Error})
	}
	return cli.print(res.Digest)
}

// processAll uses the configured failure policy unless isolate forces per-user isolation.
func (cli *commandLine) processAll(ctx context.Context, isolate bool) error {
	run := cli.digestSvc.Run
	if isolate {
		run = cli.digestSvc.ProcessAllIsolated
	}
	report, err := run(ctx)
	if err != nil {
		return errors.Wrap(err, "processing all users")
	}
	return cli.print(report)
}
