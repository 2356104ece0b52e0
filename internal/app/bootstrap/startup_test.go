package bootstrap

import (
	"testing"

	userstore "github.com/dalemusser/planhub/internal/app/store/users"
	"github.com/dalemusser/planhub/internal/domain/models"
	"github.com/dalemusser/planhub/internal/testutil"
	"go.uber.org/zap"
)

func TestEnsureSuperAdmin_CreatesNew(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	deps := DBDeps{MongoDatabase: db}

	if err := ensureSuperAdmin(ctx, deps, "root@example.com", zap.NewNop()); err != nil {
		t.Fatalf("ensureSuperAdmin failed: %v", err)
	}

	u, err := userstore.New(db).GetByEmail(ctx, "root@example.com")
	if err != nil {
		t.Fatalf("superadmin not created: %v", err)
	}
	if u.Role != "superadmin" || u.Status != "active" {
		t.Errorf("superadmin account: role %q, status %q", u.Role, u.Status)
	}
}

func TestEnsureSuperAdmin_PromotesExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	deps := DBDeps{MongoDatabase: db}
	users := userstore.New(db)

	seeded, err := users.Create(ctx, models.User{
		FullName: "Existing Person",
		Email:    "existing@example.com",
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	if err := ensureSuperAdmin(ctx, deps, "existing@example.com", zap.NewNop()); err != nil {
		t.Fatalf("ensureSuperAdmin failed: %v", err)
	}

	u, err := users.GetByID(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if u.Role != "superadmin" || u.Status != "active" {
		t.Errorf("promoted account: role %q, status %q", u.Role, u.Status)
	}
}

func TestEnsureSuperAdmin_AlreadySuperAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	deps := DBDeps{MongoDatabase: db}
	users := userstore.New(db)

	seeded, err := users.Create(ctx, models.User{
		FullName: "Root",
		Email:    "root@example.com",
		Role:     "superadmin",
		Status:   "active",
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	if err := ensureSuperAdmin(ctx, deps, "root@example.com", zap.NewNop()); err != nil {
		t.Fatalf("ensureSuperAdmin failed: %v", err)
	}

	u, err := users.GetByID(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if u.Role != "superadmin" || u.Status != "active" {
		t.Errorf("account changed: role %q, status %q", u.Role, u.Status)
	}
}
