package main

import (
	"context"

	"github.com/truongductri01/daily-spark/core/user"
)

func (cli *commandLine) addUser(ctx context.Context, id, name, email string) error {
	nu := user.NewUser{
		ID:          id,
		DisplayName: name,
		Email:       email,
	}
	if err := nu.Validate(cli.validate); err != nil {
		return err
	}
	usr, err := cli.usrSvc.Create(ctx, nu)
	if err != nil {
		return err
	}
	return cli.print(usr)
}
