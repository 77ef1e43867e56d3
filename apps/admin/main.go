package main

import (
	"context"
	"log"
	"os"

	"github.com/trezcool/chuo/core"
	"github.com/trezcool/chuo/core/academic"
	"github.com/trezcool/chuo/storage/database"
	sqlxrepos "github.com/trezcool/chuo/storage/database/sqlx"
)

func main() {
	logger := log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig()
	errAndDie(logger, err)

	ctx := context.Background()
	errAndDie(logger, database.CreateIfNotExist(ctx, conf))

	// set up DB
	db, err := database.Open(ctx, conf)
	errAndDie(logger, err)
	defer db.Close()

	validate, _ := core.NewValidator()

	// start CLI
	cli := &commandLine{
		db:      db.DB,
		usrRepo: sqlxrepos.NewUserRepository(db),
		acadSvc: academic.NewService(sqlxrepos.NewAcademicRepository(db), validate),
	}
	if err = newRootCmd(cli).ExecuteContext(ctx); err != nil {
		db.Close()
		os.Exit(1)
	}
}

func errAndDie(logger *log.Logger, err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
