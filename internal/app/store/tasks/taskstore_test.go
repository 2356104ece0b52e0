package taskstore

import (
	"errors"
	"testing"

	"github.com/dalemusser/planhub/internal/domain/models"
	"github.com/dalemusser/planhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateDefaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := New(db)

	task, err := store.Create(ctx, models.Task{
		ProjectID: primitive.NewObjectID(),
		Title:     "  Write launch email  ",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.Title != "Write launch email" {
		t.Errorf("title not trimmed: %q", task.Title)
	}
	if task.Status != StatusTodo {
		t.Errorf("default status: got %q, want %q", task.Status, StatusTodo)
	}
	if task.CompletedAt != nil {
		t.Error("completed_at should be unset for a todo task")
	}
}

func TestStatusTransitionsStampCompletedAt(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := New(db)

	task, err := store.Create(ctx, models.Task{
		ProjectID: primitive.NewObjectID(),
		Title:     "Publish post",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	done := StatusDone
	if err := store.Update(ctx, task.ID, Update{Status: &done}); err != nil {
		t.Fatalf("Update to done: %v", err)
	}
	got, err := store.GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != StatusDone {
		t.Errorf("status: got %q", got.Status)
	}
	if got.CompletedAt == nil {
		t.Fatal("completed_at not stamped on done")
	}

	// Reopening clears the stamp.
	todo := StatusTodo
	if err := store.Update(ctx, task.ID, Update{Status: &todo}); err != nil {
		t.Fatalf("Update to todo: %v", err)
	}
	got, err = store.GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.CompletedAt != nil {
		t.Error("completed_at not cleared on reopen")
	}
}

func TestAddAssignee(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := New(db)

	task, err := store.Create(ctx, models.Task{
		ProjectID: primitive.NewObjectID(),
		Title:     "Review creative",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	userID := primitive.NewObjectID()
	if err := store.AddAssignee(ctx, task.ID, userID); err != nil {
		t.Fatalf("AddAssignee: %v", err)
	}

	err = store.AddAssignee(ctx, task.ID, userID)
	if !errors.Is(err, ErrAlreadyAssigned) {
		t.Errorf("duplicate assignment: want ErrAlreadyAssigned, got %v", err)
	}

	got, err := store.GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.AssigneeIDs) != 1 {
		t.Errorf("assignee_ids: got %d entries, want 1", len(got.AssigneeIDs))
	}
}

func TestCreateMany(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := New(db)

	projectID := primitive.NewObjectID()
	created, err := store.CreateMany(ctx, []models.Task{
		{ProjectID: projectID, Title: "First"},
		{ProjectID: projectID, Title: "Second"},
	})
	if err != nil {
		t.Fatalf("CreateMany: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("got %d tasks, want 2", len(created))
	}
	for _, task := range created {
		if task.ID.IsZero() {
			t.Error("task ID not assigned")
		}
		if task.Status != StatusTodo {
			t.Errorf("status: got %q", task.Status)
		}
	}

	listed, err := store.ListByProject(ctx, projectID, ListFilter{})
	if err != nil {
		t.Fatalf("ListByProject: %v", err)
	}
	if len(listed) != 2 {
		t.Errorf("listed %d tasks, want 2", len(listed))
	}
}

func TestCreateManyEmpty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := New(db)

	created, err := store.CreateMany(ctx, nil)
	if err != nil {
		t.Fatalf("CreateMany(nil): %v", err)
	}
	if len(created) != 0 {
		t.Errorf("got %d tasks, want 0", len(created))
	}
}
