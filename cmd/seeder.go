package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/police-portal/internal/announcement"
	announcementPostgres "github.com/frahmantamala/police-portal/internal/announcement/postgres"
	"github.com/frahmantamala/police-portal/internal/core/permission"
	"github.com/frahmantamala/police-portal/internal/department"
	departmentPostgres "github.com/frahmantamala/police-portal/internal/department/postgres"
	"github.com/frahmantamala/police-portal/internal/password"
	"github.com/frahmantamala/police-portal/internal/user"
	userPostgres "github.com/frahmantamala/police-portal/internal/user/postgres"
	"github.com/frahmantamala/police-portal/pkg/logger"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var clearData bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with the bootstrap data",
	Long:  `Seed the bootstrap admin, the permission catalogue, departments and starter announcements. Existing rows are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger.Setup(cfg.Observability.Logging.Format, cfg.Observability.Logging.Level)
		lg := logger.LoggerWrapper()

		db, err := initDB(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to init db: %w", err)
		}
		defer db.Close()

		gdb, err := initGorm(db)
		if err != nil {
			return fmt.Errorf("failed to init gorm: %w", err)
		}

		ctx := context.Background()
		if clearData {
			if err := clearContent(ctx, db); err != nil {
				return err
			}
			lg.Info("cleared departments and announcements")
		}

		return seed(ctx, db, gdb, cfg.Security.BCryptCost, cfg.Security.AdminDefaultPassword, lg)
	},
}

func init() {
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear departments and announcements before seeding")
}

func seed(ctx context.Context, db *sqlx.DB, gdb *gorm.DB, bcryptCost int, adminPassword string, lg *slog.Logger) error {
	inserted, err := seedPermissions(ctx, db)
	if err != nil {
		return err
	}
	lg.Info("permission catalogue ready", "inserted", inserted, "total", len(permission.All))

	users := user.NewService(userPostgres.NewUserRepository(gdb), password.NewHasher(bcryptCost), lg)
	created, err := users.EnsureAdmin(ctx, adminPassword)
	if err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	lg.Info("bootstrap admin ready", "created", created, "username", user.AdminUsername)

	departments := department.NewService(departmentPostgres.NewDepartmentRepository(gdb), lg)
	if _, err := departments.EnsureDefaults(ctx); err != nil {
		return fmt.Errorf("failed to seed departments: %w", err)
	}

	announcements := announcement.NewService(announcementPostgres.NewAnnouncementRepository(gdb), lg)
	if _, err := announcements.EnsureDefaults(ctx); err != nil {
		return fmt.Errorf("failed to seed announcements: %w", err)
	}
	return nil
}

// seedPermissions inserts missing catalogue tags and reports how many were new.
func seedPermissions(ctx context.Context, db *sqlx.DB) (int, error) {
	inserted := 0
	for _, p := range permission.All {
		res, err := db.ExecContext(ctx,
			`INSERT INTO permissions (name, description, created_at) VALUES ($1, $2, now()) ON CONFLICT (name) DO NOTHING`,
			string(p), p.Description())
		if err != nil {
			return inserted, fmt.Errorf("failed to insert permission %s: %w", p, err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			inserted++
		}
	}
	return inserted, nil
}

func clearContent(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, `TRUNCATE departments, announcements RESTART IDENTITY`); err != nil {
		return fmt.Errorf("failed to clear content: %w", err)
	}
	return nil
}
