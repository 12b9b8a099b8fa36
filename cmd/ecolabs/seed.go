package main

import (
	"context"
	"fmt"

	"ecolabs/internal/db"
	"ecolabs/internal/seed"
	"ecolabs/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with an administrator account",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "name",
			Usage: "Administrator display name",
			Value: "Administrator",
		},
		&cli.StringFlag{
			Name:     "email",
			Usage:    "Administrator email address",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "password",
			Usage:    "Administrator password",
			Required: true,
		},
	},
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logrus.Info("Connected to database")

		if err := db.Migrate(ctx, pool); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}

		repos := store.New(pool)

		logrus.Info("Seeding administrator account...")
		if err := seed.SeedAdmin(ctx, repos.Users, c.String("name"), c.String("email"), c.String("password")); err != nil {
			return fmt.Errorf("failed to seed administrator: %w", err)
		}

		logrus.Info("Administrator account ready")

		return nil
	},
}
