package oauthstate_test

import (
	"testing"
	"time"

	"github.com/dalemusser/planhub/internal/app/store/oauthstate"
	"github.com/dalemusser/planhub/internal/testutil"
)

func TestSaveAndConsume(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := oauthstate.New(db)

	if err := store.Save(ctx, "state-abc", "/projects", time.Now().Add(10*time.Minute)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	returnURL, valid, err := store.Consume(ctx, "state-abc")
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if !valid {
		t.Fatal("state should be valid")
	}
	if returnURL != "/projects" {
		t.Errorf("returnURL: got %q, want %q", returnURL, "/projects")
	}

	// One-time use: second consume fails.
	_, valid, err = store.Consume(ctx, "state-abc")
	if err != nil {
		t.Fatalf("second Consume: %v", err)
	}
	if valid {
		t.Error("state should not be reusable")
	}
}

func TestConsumeExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := oauthstate.New(db)

	if err := store.Save(ctx, "state-old", "", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	_, valid, err := store.Consume(ctx, "state-old")
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if valid {
		t.Error("expired state should be invalid")
	}
}

func TestConsumeUnknown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := oauthstate.New(db)

	_, valid, err := store.Consume(ctx, "never-saved")
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if valid {
		t.Error("unknown state should be invalid")
	}
}
