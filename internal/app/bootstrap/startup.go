// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"

	userstore "github.com/dalemusser/planhub/internal/app/store/users"
	"github.com/dalemusser/planhub/internal/app/system/roles"
	"github.com/dalemusser/planhub/internal/app/system/status"
	"github.com/dalemusser/planhub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.SuperAdminEmail != "" {
		if err := ensureSuperAdmin(ctx, deps, appCfg.SuperAdminEmail, logger); err != nil {
			return err
		}
	}
	return nil
}

// ensureSuperAdmin guarantees an active superadmin account exists for
// the configured email, promoting an existing user or creating a fresh
// record. Without it a new deployment has nobody who can approve users.
func ensureSuperAdmin(ctx context.Context, deps DBDeps, email string, logger *zap.Logger) error {
	users := userstore.New(deps.MongoDatabase)

	u, err := users.GetByEmail(ctx, email)
	if err == nil {
		if u.Role == roles.SuperAdmin && u.Status == status.Active {
			return nil
		}
		role := roles.SuperAdmin
		st := status.Active
		if err := users.Apply(ctx, u.ID, userstore.Change{Role: &role, Status: &st}); err != nil {
			return err
		}
		logger.Info("promoted existing user to superadmin",
			zap.String("user_id", u.ID.Hex()), zap.String("email", email))
		return nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	created, err := users.Create(ctx, models.User{
		FullName: email,
		Email:    email,
		Role:     roles.SuperAdmin,
		Status:   status.Active,
	})
	if err != nil {
		return err
	}
	logger.Info("created superadmin account",
		zap.String("user_id", created.ID.Hex()), zap.String("email", email))
	return nil
}
