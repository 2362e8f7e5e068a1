package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/campusrecords/catalog/pkg/config"
	"github.com/campusrecords/catalog/pkg/database"
	"github.com/campusrecords/catalog/pkg/migrations"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"
)

func main() {
	log := logger.New()

	var db *bun.DB
	migrator := func() *migrate.Migrator {
		return migrate.NewMigrator(db, migrations.Migrations)
	}

	app := &cli.App{
		Name:  "migrations",
		Usage: "manage the catalog database schema",
		Before: func(_ *cli.Context) error {
			cfg, err := config.New()
			if err != nil {
				return errors.Wrap(err, "config error")
			}
			db, err = database.New(cfg)
			return errors.Wrap(err, "database error")
		},
		After: func(_ *cli.Context) error {
			if db == nil {
				return nil
			}
			return db.Close()
		},
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: func(c *cli.Context) error {
					return migrator().Init(c.Context)
				},
			},
			{
				Name:  "migrate",
				Usage: "apply pending migrations",
				Action: func(c *cli.Context) error {
					group, err := migrations.BringUpToDate(c.Context, db)
					if err != nil {
						return err
					}
					if group.ID == 0 {
						fmt.Println("There are no new migrations to run")
						return nil
					}
					fmt.Printf("Migrated to %s\n", group)
					return nil
				},
			},
			{
				Name:  "rollback",
				Usage: "roll back the last migration group",
				Action: func(c *cli.Context) error {
					m := migrator()
					if err := m.Lock(c.Context); err != nil {
						return err
					}
					defer m.Unlock(c.Context) //nolint:errcheck

					group, err := m.Rollback(c.Context)
					if err != nil {
						return err
					}
					if group.ID == 0 {
						fmt.Println("There are no groups to roll back")
						return nil
					}
					fmt.Printf("Rolled back %s\n", group)
					return nil
				},
			},
			{
				Name:      "create",
				Usage:     "create a Go migration",
				ArgsUsage: "<words describing the change>",
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return cli.Exit("a migration name is required", 1)
					}
					name := strings.ToLower(strings.Join(c.Args().Slice(), "_"))
					mf, err := migrator().CreateGoMigration(c.Context, name, migrate.WithGoTemplate(migrationTemplate))
					if err != nil {
						return err
					}
					fmt.Printf("Created migration %s (%s)\n", mf.Name, mf.Path)
					return nil
				},
			},
			{
				Name:  "status",
				Usage: "print migration status",
				Action: func(c *cli.Context) error {
					ms, err := migrator().MigrationsWithStatus(c.Context)
					if err != nil {
						return err
					}
					fmt.Printf("Migrations: %s\n", ms)
					fmt.Printf("Unapplied migrations: %s\n", ms.Unapplied())
					fmt.Printf("Last migration group: %s\n", ms.LastGroup())
					return nil
				},
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Err(err).Fatal("migrations failed")
	}
}

const migrationTemplate = `package %s

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(ctx context.Context, db *bun.DB) error {
		_, err := db.ExecContext(ctx, "")
		return errors.WithStack(err)
	}

	down := func(ctx context.Context, db *bun.DB) error {
		_, err := db.ExecContext(ctx, "")
		return errors.WithStack(err)
	}

	Migrations.MustRegister(up, down)
}
`
