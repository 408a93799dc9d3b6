package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/truongductri01/daily-spark/core/digest"
	"github.com/truongductri01/daily-spark/core/user"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	usrSvc    user.ServiceInterface
	digestSvc digest.ServiceInterface
	validate  *validator.Validate
	out       io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  adduser -name NAME -email EMAIL [-id ID] - register a user")
	fmt.Fprintln(cli.out, "  digest -user ID - build and email the digest of a user")
	fmt.Fprintln(cli.out, "  processall [-isolate] - build and email the digests of all users")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserName := addUserCmd.String("name", "", "The user's display name.")
	addUserEmail := addUserCmd.String("email", "", "The user's email address.")
	addUserID := addUserCmd.String("id", "", "The user's id. Generated when empty.")

	digestCmd := flag.NewFlagSet("digest", flag.ContinueOnError)
	digestUser := digestCmd.String("user", "", "The user's id.")

	processAllCmd := flag.NewFlagSet("processall", flag.ContinueOnError)
	processAllIsolate := processAllCmd.Bool("isolate", false, "Keep going when a user fails.")

	for _, cmd := range []*flag.FlagSet{addUserCmd, digestCmd, processAllCmd} {
		cmd.SetOutput(cli.out)
	}

	ctx := context.Background()

	switch args[1] {
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *addUserName == "" || *addUserEmail == "" {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(ctx, *addUserID, *addUserName, *addUserEmail)
	case "digest":
		if err := digestCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *digestUser == "" {
			digestCmd.Usage()
			return errHelp
		}
		return cli.digest(ctx, *digestUser)
	case "processall":
		if err := processAllCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.processAll(ctx, *processAllIsolate)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) print(v interface{}) error {
	enc := json.NewEncoder(cli.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
