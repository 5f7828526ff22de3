// Package cli implements fypadmin, the operator command line for the portal.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fyp-portal/config"
	"fyp-portal/internal/model"
	"fyp-portal/internal/repository"
	"fyp-portal/internal/service"
	"fyp-portal/pkg/database"
	"fyp-portal/pkg/jwt"
	applogger "fyp-portal/pkg/logger"
	"fyp-portal/pkg/redis"
)

// env is everything a command needs once config and connections are up.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	sqlDB  *sql.DB
	svc    *service.Service
	close  func()
}

type openFunc func(ctx context.Context, configPath string) (*env, error)

type app struct {
	configPath string
	outputFmt  string
	open       openFunc
}

// operator is the caller recorded for actions run from the command line.
var operator = service.Caller{UserID: "fypadmin", Role: model.RoleCommittee}

// Execute runs fypadmin.
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the command tree against the configured database.
func NewRootCommand() *cobra.Command {
	return newRootCommand(openEnv)
}

func newRootCommand(open openFunc) *cobra.Command {
	a := &app{open: open}

	root := &cobra.Command{
		Use:   "fypadmin",
		Short: "Operator tools for the FYP portal",
		Long: `fypadmin runs maintenance and committee tasks against the portal
database without going through the HTTP API: schema migrations, panel
generation and export, supervisor recommendations and token management.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "",
		"config file (default: ./config/config.yaml)")
	root.PersistentFlags().StringVarP(&a.outputFmt, "output", "o", "table",
		"output format (table, json)")

	root.AddCommand(
		a.migrateCommand(),
		a.panelsCommand(),
		a.recommendCommand(),
		a.tokenCommand(),
	)
	return root
}

// run opens the environment, hands it to fn and closes it afterwards.
func (a *app) run(cmd *cobra.Command, fn func(ctx context.Context, e *env, out io.Writer) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	e, err := a.open(ctx, a.configPath)
	if err != nil {
		return err
	}
	defer e.close()

	return fn(ctx, e, cmd.OutOrStdout())
}

func openEnv(_ context.Context, configPath string) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := applogger.NewLogger(&cfg.Log, zap.String("component", "fypadmin"))
	if err != nil {
		return nil, err
	}

	db, err := database.NewDB(&cfg.Database, logger, cfg.Log.Level == "debug")
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	var store service.KeyStore
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, lock and revocation disabled", zap.Error(err))
	} else {
		store = rdb
	}

	svc := service.NewService(cfg, repository.NewRepository(db), jwt.NewManager(&cfg.Auth), store, logger)

	return &env{
		cfg:    cfg,
		logger: logger,
		sqlDB:  sqlDB,
		svc:    svc,
		close: func() {
			if rdb != nil {
				_ = rdb.Close()
			}
			_ = sqlDB.Close()
			_ = logger.Sync()
		},
	}, nil
}
