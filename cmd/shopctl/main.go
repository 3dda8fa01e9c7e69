// Command shopctl runs database and account maintenance outside the API.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/oksasatya/shop-admin/config"
	"github.com/oksasatya/shop-admin/internal/application"
	"github.com/oksasatya/shop-admin/internal/domain/entity"
	"github.com/oksasatya/shop-admin/internal/infrastructure/postgres"
	"github.com/oksasatya/shop-admin/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-ctl", cfg.Env)

	cmd := &cli.Command{
		Name:  "shopctl",
		Usage: "shop-admin maintenance commands",
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Apply pending migrations, or roll back with --down",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "down", Usage: "number of migrations to roll back"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					if n := c.Int("down"); n > 0 {
						return postgres.RollbackMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, int(n), logger)
					}
					return postgres.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger)
				},
			},
			{
				Name:  "seed-admin",
				Usage: "Create or promote a verified admin account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
					&cli.StringFlag{Name: "name", Value: "Administrator"},
					&cli.StringFlag{Name: "phone", Value: ""},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := sql.Open("pgx", cfg.PostgresDSN())
					if err != nil {
						return err
					}
					defer func() { _ = db.Close() }()
					id, err := seedAdmin(ctx, db, adminSeed{
						Email:    c.String("email"),
						Name:     c.String("name"),
						Password: c.String("password"),
						Phone:    c.String("phone"),
					})
					if err != nil {
						return err
					}
					fmt.Printf("admin ready: id=%s email=%s\n", id, entity.NormalizeEmail(c.String("email")))
					return nil
				},
			},
			{
				Name:  "set-role",
				Usage: "Change the role of an existing user",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "role", Required: true, Usage: "user or admin"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					pool, err := postgres.NewPool(ctx, cfg.PostgresDSN(), postgres.PoolOptions{MaxConns: 2})
					if err != nil {
						return err
					}
					defer pool.Close()
					users := postgres.NewUserRepository(pool)
					auth := application.NewAuthService(users, nil, nil, logger, application.AuthConfig{})
					u, err := auth.SetRole(ctx, c.String("email"), entity.Role(c.String("role")))
					if err != nil {
						return err
					}
					fmt.Printf("role updated: email=%s role=%s\n", u.Email, u.Role)
					return nil
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
