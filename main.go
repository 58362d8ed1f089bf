package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Kousuke-irie/chancenmarket-backend/config"
	"github.com/Kousuke-irie/chancenmarket-backend/database"
	"github.com/Kousuke-irie/chancenmarket-backend/logger"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// Version ビルド時に ldflags で上書きする
var Version = "dev"

func main() {
	cmd := &cli.Command{
		Name:    "chancenmarket",
		Usage:   "Chancenmarket Kleinanzeigen API",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "設定ファイルのパス",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "HTTPサーバーを起動する",
				Action: serveAction,
			},
			{
				Name:   "migrate",
				Usage:  "テーブルを作成・更新する",
				Action: migrateAction,
			},
			{
				Name:   "seed-admin",
				Usage:  "管理者アカウントを作成する",
				Action: seedAdminAction,
			},
		},
		Action: serveAction,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatalf("chancenmarket: %v", err)
	}
}

func setup(cmd *cli.Command) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, nil, err
	}
	zl, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}
	return cfg, zl, nil
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	cfg, zl, err := setup(cmd)
	if err != nil {
		return err
	}
	defer zl.Sync()

	return runServer(ctx, cfg, zl)
}

func migrateAction(ctx context.Context, cmd *cli.Command) error {
	cfg, zl, err := setup(cmd)
	if err != nil {
		return err
	}
	defer zl.Sync()

	db, err := database.Open(cfg.Database)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	zl.Info("migration completed", zap.String("driver", cfg.Database.Driver))
	return nil
}

func seedAdminAction(ctx context.Context, cmd *cli.Command) error {
	cfg, zl, err := setup(cmd)
	if err != nil {
		return err
	}
	defer zl.Sync()

	db, err := database.Open(cfg.Database)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return database.SeedAdmin(db, cfg.Admin, zl)
}
