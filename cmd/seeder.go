package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"strings"

	"github.com/frahmantamala/idea-portal/internal"
	userDatamodel "github.com/frahmantamala/idea-portal/internal/core/datamodel/user"
	"github.com/frahmantamala/idea-portal/internal/core/policy"
	"github.com/frahmantamala/idea-portal/pkg/logger"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Provision the bootstrap admin and CEO accounts",
	Long:  `Create the configured admin and CEO accounts when they do not exist yet. Safe to run repeatedly.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gormDB, err := initGorm(db)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		accounts := bootstrapAccounts(cfg.Bootstrap)
		if err := seedAccounts(context.Background(), gormDB, accounts, cfg.Security.BCryptCost, logger.LoggerWrapper()); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	},
}

type bootstrapAccount struct {
	Email    string
	Password string
	FullName string
	Role     policy.Role
}

func bootstrapAccounts(cfg internal.BootstrapConfig) []bootstrapAccount {
	return []bootstrapAccount{
		{Email: cfg.AdminEmail, Password: cfg.AdminPassword, FullName: cfg.AdminName, Role: policy.RoleAdmin},
		{Email: cfg.CEOEmail, Password: cfg.CEOPassword, FullName: cfg.CEOName, Role: policy.RoleCEO},
	}
}

// seedAccounts inserts each account that is missing. Existing accounts are
// left untouched, including their password and role.
func seedAccounts(ctx context.Context, db *gorm.DB, accounts []bootstrapAccount, cost int, lg *slog.Logger) error {
	for _, a := range accounts {
		email := strings.ToLower(strings.TrimSpace(a.Email))
		if email == "" {
			continue
		}

		var existing userDatamodel.User
		err := db.WithContext(ctx).Where("LOWER(email) = ?", email).First(&existing).Error
		if err == nil {
			lg.Info("bootstrap account already exists", "email", email, "role", existing.Role)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("lookup %s: %w", email, err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), cost)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", email, err)
		}

		row := &userDatamodel.User{
			Email:        email,
			FullName:     a.FullName,
			PasswordHash: string(hash),
			Role:         string(a.Role),
		}
		if err := db.WithContext(ctx).Create(row).Error; err != nil {
			return fmt.Errorf("insert %s: %w", email, err)
		}
		lg.Info("seeded bootstrap account", "email", email, "role", a.Role, "user_id", row.ID)
	}
	return nil
}
