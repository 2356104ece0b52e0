package authgoogle

import (
	"testing"

	userstore "github.com/dalemusser/planhub/internal/app/store/users"
	"github.com/dalemusser/planhub/internal/app/system/authz"
	"github.com/dalemusser/planhub/internal/domain/models"
	"github.com/dalemusser/planhub/internal/testutil"
	"go.uber.org/zap"
)

func userSeed(name, email string) models.User {
	return models.User{FullName: name, Email: email}
}

func newSyncHandler(t *testing.T, allow authz.AllowList, superAdminEmail string) *Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return &Handler{
		Log:             zap.NewNop(),
		Users:           userstore.New(db),
		Allow:           allow,
		SuperAdminEmail: superAdminEmail,
	}
}

func TestSyncUser_CreatesPending(t *testing.T) {
	h := newSyncHandler(t, authz.NewAllowList(), "")
	ctx := testutil.TestContext(t)

	g := &googleUserInfo{ID: "g-123", Email: "new@example.com", Name: "New Person"}
	u, created, err := h.syncUser(ctx, g)
	if err != nil {
		t.Fatalf("syncUser failed: %v", err)
	}
	if !created {
		t.Error("expected a fresh record")
	}
	if u.Role != "user" || u.Status != "pending" {
		t.Errorf("fresh user: role %q, status %q", u.Role, u.Status)
	}
	if u.GoogleID != "g-123" {
		t.Errorf("google id not stored: %q", u.GoogleID)
	}
}

func TestSyncUser_MatchesByGoogleID(t *testing.T) {
	h := newSyncHandler(t, authz.NewAllowList(), "")
	ctx := testutil.TestContext(t)

	g := &googleUserInfo{ID: "g-42", Email: "person@example.com", Name: "Person"}
	first, _, err := h.syncUser(ctx, g)
	if err != nil {
		t.Fatalf("first sync failed: %v", err)
	}

	// Email changes on the Google side must not fork the account.
	g2 := &googleUserInfo{ID: "g-42", Email: "renamed@example.com", Name: "Person"}
	second, created, err := h.syncUser(ctx, g2)
	if err != nil {
		t.Fatalf("second sync failed: %v", err)
	}
	if created {
		t.Error("second sign-in should not create a record")
	}
	if second.ID != first.ID {
		t.Errorf("account forked: %s vs %s", second.ID.Hex(), first.ID.Hex())
	}
}

func TestSyncUser_LinksByEmail(t *testing.T) {
	h := newSyncHandler(t, authz.NewAllowList(), "")
	ctx := testutil.TestContext(t)

	seeded, err := h.Users.Create(ctx, userSeed("Imported Person", "imported@example.com"))
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	g := &googleUserInfo{ID: "g-77", Email: "imported@example.com", Name: "Imported Person"}
	u, created, err := h.syncUser(ctx, g)
	if err != nil {
		t.Fatalf("syncUser failed: %v", err)
	}
	if created {
		t.Error("existing email should not create a record")
	}
	if u.ID != seeded.ID {
		t.Errorf("matched wrong record: %s vs %s", u.ID.Hex(), seeded.ID.Hex())
	}

	reloaded, err := h.Users.GetByGoogleID(ctx, "g-77")
	if err != nil {
		t.Fatalf("google id not linked: %v", err)
	}
	if reloaded.ID != seeded.ID {
		t.Errorf("linked wrong record: %s", reloaded.ID.Hex())
	}
}

func TestSyncUser_AllowListedBecomesActiveAdmin(t *testing.T) {
	h := newSyncHandler(t, authz.NewAllowList("boot@example.com"), "")
	ctx := testutil.TestContext(t)

	g := &googleUserInfo{ID: "g-boot", Email: "Boot@Example.com", Name: "Bootstrapper"}
	u, _, err := h.syncUser(ctx, g)
	if err != nil {
		t.Fatalf("syncUser failed: %v", err)
	}
	if u.Role != "admin" || u.Status != "active" {
		t.Errorf("allow-listed user: role %q, status %q", u.Role, u.Status)
	}
}

func TestSyncUser_SuperAdminEmail(t *testing.T) {
	h := newSyncHandler(t, authz.NewAllowList(), "root@example.com")
	ctx := testutil.TestContext(t)

	g := &googleUserInfo{ID: "g-root", Email: "root@example.com", Name: "Root"}
	u, _, err := h.syncUser(ctx, g)
	if err != nil {
		t.Fatalf("syncUser failed: %v", err)
	}
	if u.Role != "superadmin" || u.Status != "active" {
		t.Errorf("superadmin bootstrap: role %q, status %q", u.Role, u.Status)
	}
}
