// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	audit "github.com/dalemusser/planhub/internal/app/store/audit"
	assetstore "github.com/dalemusser/planhub/internal/app/store/assets"
	campaignstore "github.com/dalemusser/planhub/internal/app/store/campaigns"
	categorystore "github.com/dalemusser/planhub/internal/app/store/categories"
	"github.com/dalemusser/planhub/internal/app/store/oauthstate"
	projectstore "github.com/dalemusser/planhub/internal/app/store/projects"
	taskstore "github.com/dalemusser/planhub/internal/app/store/tasks"
	templatestore "github.com/dalemusser/planhub/internal/app/store/tasktemplates"
	userstore "github.com/dalemusser/planhub/internal/app/store/users"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ConnectDB establishes the MongoDB connection and verifies it with a
// ping before the rest of startup proceeds.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return DBDeps{}, fmt.Errorf("ping MongoDB: %w", err)
	}

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase))

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// EnsureSchema creates the indexes every store relies on.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase

	ensure := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"users", userstore.New(db).EnsureIndexes},
		{"projects", projectstore.New(db).EnsureIndexes},
		{"campaigns", campaignstore.New(db).EnsureIndexes},
		{"template_categories", categorystore.New(db).EnsureIndexes},
		{"task_templates", templatestore.New(db).EnsureIndexes},
		{"tasks", taskstore.New(db).EnsureIndexes},
		{"assets", assetstore.New(db).EnsureIndexes},
		{"activity_events", audit.New(db).EnsureIndexes},
		{"oauth_states", oauthstate.New(db).EnsureIndexes},
	}

	for _, e := range ensure {
		if err := e.fn(ctx); err != nil {
			return fmt.Errorf("ensure indexes for %s: %w", e.name, err)
		}
		logger.Debug("indexes ensured", zap.String("collection", e.name))
	}
	return nil
}
