package tasks_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/planhub/internal/app/features/tasks"
	"github.com/dalemusser/planhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestServeCreate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	handler := tasks.NewHandler(db, nil, zap.NewNop())

	p := fx.CreateProject(ctx, "Launch", primitive.NewObjectID(), time.Now().UTC())

	req := testutil.NewJSONRequest("POST", "/api/projects/"+p.ID.Hex()+"/tasks",
		`{"title":"Draft brief","details":"<p>Outline</p><script>x()</script>"}`)
	req = testutil.WithUser(req, testutil.RegularUser())
	req = testutil.WithChiURLParam(req, "id", p.ID.Hex())
	rec := testutil.NewRecorder()

	handler.ServeCreate(rec, req)
	rec.AssertStatus(t, http.StatusCreated)

	var view struct {
		ProjectID string `json:"projectId"`
		Details   string `json:"details"`
		Status    string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if view.ProjectID != p.ID.Hex() {
		t.Errorf("projectId: got %q, want %q", view.ProjectID, p.ID.Hex())
	}
	if view.Details != "<p>Outline</p>" {
		t.Errorf("details not sanitized: %q", view.Details)
	}
	if view.Status != "todo" {
		t.Errorf("default status: got %q, want todo", view.Status)
	}
}

func TestServeCreate_MissingTitle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	handler := tasks.NewHandler(db, nil, zap.NewNop())

	p := fx.CreateProject(ctx, "Launch", primitive.NewObjectID(), time.Now().UTC())

	req := testutil.NewJSONRequest("POST", "/api/projects/"+p.ID.Hex()+"/tasks", `{"details":"late"}`)
	req = testutil.WithUser(req, testutil.RegularUser())
	req = testutil.WithChiURLParam(req, "id", p.ID.Hex())
	rec := testutil.NewRecorder()

	handler.ServeCreate(rec, req)
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestServePatch_CompleteAndReopen(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	handler := tasks.NewHandler(db, nil, zap.NewNop())

	p := fx.CreateProject(ctx, "Launch", primitive.NewObjectID(), time.Now().UTC())
	task := fx.CreateTask(ctx, p.ID, "Ship it")

	req := testutil.NewJSONRequest("PATCH", "/api/tasks/"+task.ID.Hex(), `{"status":"done"}`)
	req = testutil.WithUser(req, testutil.RegularUser())
	req = testutil.WithChiURLParam(req, "id", task.ID.Hex())
	rec := testutil.NewRecorder()

	handler.ServePatch(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	var done struct {
		Status      string     `json:"status"`
		CompletedAt *time.Time `json:"completedAt"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &done); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if done.Status != "done" || done.CompletedAt == nil {
		t.Fatalf("done task: status %q, completedAt %v", done.Status, done.CompletedAt)
	}

	req = testutil.NewJSONRequest("PATCH", "/api/tasks/"+task.ID.Hex(), `{"status":"todo"}`)
	req = testutil.WithUser(req, testutil.RegularUser())
	req = testutil.WithChiURLParam(req, "id", task.ID.Hex())
	rec = testutil.NewRecorder()

	handler.ServePatch(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	var reopened struct {
		CompletedAt *time.Time `json:"completedAt"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &reopened); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if reopened.CompletedAt != nil {
		t.Errorf("reopened task kept completedAt %v", reopened.CompletedAt)
	}
}

func TestServeAssign_Duplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	handler := tasks.NewHandler(db, nil, zap.NewNop())

	p := fx.CreateProject(ctx, "Launch", primitive.NewObjectID(), time.Now().UTC())
	task := fx.CreateTask(ctx, p.ID, "Review copy")
	userID := primitive.NewObjectID().Hex()

	assign := func() *testutil.ResponseRecorder {
		req := testutil.NewJSONRequest("POST", "/api/tasks/"+task.ID.Hex()+"/assignees",
			`{"userId":"`+userID+`"}`)
		req = testutil.WithUser(req, testutil.RegularUser())
		req = testutil.WithChiURLParam(req, "id", task.ID.Hex())
		rec := testutil.NewRecorder()
		handler.ServeAssign(rec, req)
		return rec
	}

	assign().AssertStatus(t, http.StatusOK)
	assign().AssertStatus(t, http.StatusConflict)
}

func TestServeCreateFromTemplates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	handler := tasks.NewHandler(db, nil, zap.NewNop())

	anchor := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)
	p := fx.CreateProject(ctx, "Spring launch", primitive.NewObjectID(), anchor)
	cat := fx.CreateCategory(ctx, "Pre-launch")
	fx.CreateTemplate(ctx, cat.ID, "Book venue", -10)
	fx.CreateTemplate(ctx, cat.ID, "Send invites", 7)

	req := testutil.NewJSONRequest("POST", "/api/tasks/create-from-templates",
		`{"projectId":"`+p.ID.Hex()+`","categoryIds":["`+cat.ID.Hex()+`"]}`)
	req = testutil.WithUser(req, testutil.RegularUser())
	rec := testutil.NewRecorder()

	handler.ServeCreateFromTemplates(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	var views []struct {
		Title                 string     `json:"title"`
		TargetDate            *time.Time `json:"targetDate"`
		CreatedFromTemplateID *string    `json:"createdFromTemplateId"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &views); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("got %d tasks, want 2", len(views))
	}
	byTitle := map[string]time.Time{}
	for _, v := range views {
		if v.TargetDate == nil {
			t.Fatalf("task %q has no target date", v.Title)
		}
		if v.CreatedFromTemplateID == nil {
			t.Errorf("task %q lost its template reference", v.Title)
		}
		byTitle[v.Title] = v.TargetDate.UTC()
	}
	if got, want := byTitle["Book venue"], anchor.AddDate(0, 0, -10); !got.Equal(want) {
		t.Errorf("Book venue target: got %v, want %v", got, want)
	}
	if got, want := byTitle["Send invites"], anchor.AddDate(0, 0, 7); !got.Equal(want) {
		t.Errorf("Send invites target: got %v, want %v", got, want)
	}
}

func TestServeCreateFromTemplates_NoTemplates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	handler := tasks.NewHandler(db, nil, zap.NewNop())

	p := fx.CreateProject(ctx, "Quiet launch", primitive.NewObjectID(), time.Now().UTC())
	cat := fx.CreateCategory(ctx, "Empty shelf")

	req := testutil.NewJSONRequest("POST", "/api/tasks/create-from-templates",
		`{"projectId":"`+p.ID.Hex()+`","categoryIds":["`+cat.ID.Hex()+`"]}`)
	req = testutil.WithUser(req, testutil.RegularUser())
	rec := testutil.NewRecorder()

	handler.ServeCreateFromTemplates(rec, req)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "[]")
}

func TestServeCreateFromTemplates_MissingCategories(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := tasks.NewHandler(db, nil, zap.NewNop())

	req := testutil.NewJSONRequest("POST", "/api/tasks/create-from-templates",
		`{"projectId":"`+primitive.NewObjectID().Hex()+`","categoryIds":[]}`)
	req = testutil.WithUser(req, testutil.RegularUser())
	rec := testutil.NewRecorder()

	handler.ServeCreateFromTemplates(rec, req)
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestServeListByProject_FilterByStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	handler := tasks.NewHandler(db, nil, zap.NewNop())

	p := fx.CreateProject(ctx, "Launch", primitive.NewObjectID(), time.Now().UTC())
	fx.CreateTask(ctx, p.ID, "Open item")
	doneTask := fx.CreateTask(ctx, p.ID, "Closed item")

	req := testutil.NewJSONRequest("PATCH", "/api/tasks/"+doneTask.ID.Hex(), `{"status":"done"}`)
	req = testutil.WithUser(req, testutil.RegularUser())
	req = testutil.WithChiURLParam(req, "id", doneTask.ID.Hex())
	rec := testutil.NewRecorder()
	handler.ServePatch(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	req = testutil.NewRequest("GET", "/api/projects/"+p.ID.Hex()+"/tasks?status=done")
	req = testutil.WithUser(req, testutil.RegularUser())
	req = testutil.WithChiURLParam(req, "id", p.ID.Hex())
	rec = testutil.NewRecorder()

	handler.ServeListByProject(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	var views []struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &views); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if len(views) != 1 || views[0].Title != "Closed item" {
		t.Errorf("filtered list: %+v", views)
	}
}
