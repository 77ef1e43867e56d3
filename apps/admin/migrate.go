package main

import (
	"context"

	"github.com/trezcool/chuo/storage/database"
)

var migrateFunc = database.Migrate // mockable

func (cli *commandLine) migrate(ctx context.Context, args []string) error {
	return migrateFunc(ctx, cli.db, args[0], args[1:]...)
}
