package templatestore

import (
	"errors"
	"testing"

	"github.com/dalemusser/planhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestListByCategoriesOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	store := New(db)

	catA := fx.CreateCategory(ctx, "Launch prep")
	catB := fx.CreateCategory(ctx, "Post launch")

	// Inserted out of position order to prove sorting.
	a2 := fx.CreateTemplate(ctx, catA.ID, "A second", 2)
	a1 := fx.CreateTemplate(ctx, catA.ID, "A first", -3)
	b := fx.CreateTemplate(ctx, catB.ID, "B between", 7)

	one, two, three := 1, 3, 2
	if err := store.Update(ctx, a1.ID, Update{Position: &one}); err != nil {
		t.Fatalf("Update position: %v", err)
	}
	if err := store.Update(ctx, a2.ID, Update{Position: &two}); err != nil {
		t.Fatalf("Update position: %v", err)
	}
	if err := store.Update(ctx, b.ID, Update{Position: &three}); err != nil {
		t.Fatalf("Update position: %v", err)
	}

	got, err := store.ListByCategories(ctx, []primitive.ObjectID{catB.ID, catA.ID})
	if err != nil {
		t.Fatalf("ListByCategories: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d templates, want 3", len(got))
	}
	// Position ranks across categories, not within each.
	if got[0].Title != "A first" || got[1].Title != "B between" || got[2].Title != "A second" {
		t.Errorf("order: got %q, %q, %q", got[0].Title, got[1].Title, got[2].Title)
	}
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	store := New(db)

	cat := fx.CreateCategory(ctx, "Launch prep")
	tpl := fx.CreateTemplate(ctx, cat.ID, "Book venue", 5)

	bogus := "finished"
	if err := store.Update(ctx, tpl.ID, Update{Status: &bogus}); !errors.Is(err, ErrBadStatus) {
		t.Fatalf("Update with unknown status: got %v, want ErrBadStatus", err)
	}

	done := "Done" // trims and lowercases
	if err := store.Update(ctx, tpl.ID, Update{Status: &done}); err != nil {
		t.Fatalf("Update with valid status: %v", err)
	}
	got, err := store.GetByID(ctx, tpl.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != "done" {
		t.Errorf("stored status: got %q, want %q", got.Status, "done")
	}
}

func TestListByCategoriesEmpty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := New(db)

	got, err := store.ListByCategories(ctx, nil)
	if err != nil {
		t.Fatalf("ListByCategories(nil): %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d templates, want 0", len(got))
	}
}

func TestCountByCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	store := New(db)

	cat := fx.CreateCategory(ctx, "Content")
	fx.CreateTemplate(ctx, cat.ID, "Draft outline", 0)
	fx.CreateTemplate(ctx, cat.ID, "Write copy", 1)

	n, err := store.CountByCategory(ctx, cat.ID)
	if err != nil {
		t.Fatalf("CountByCategory: %v", err)
	}
	if n != 2 {
		t.Errorf("count: got %d, want 2", n)
	}

	empty, err := store.CountByCategory(ctx, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("CountByCategory(empty): %v", err)
	}
	if empty != 0 {
		t.Errorf("count: got %d, want 0", empty)
	}
}
