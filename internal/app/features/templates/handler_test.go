package templates_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/dalemusser/planhub/internal/app/features/templates"
	"github.com/dalemusser/planhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestServeCreateTemplate_SanitizesDetails(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	handler := templates.NewHandler(db, nil, zap.NewNop())

	cat := fx.CreateCategory(ctx, "Launch prep")

	body := `{"categoryId":"` + cat.ID.Hex() + `","title":"Brief the team","details":"<p>Agenda</p><script>alert(1)</script>","targetDaysOffset":-5}`
	req := testutil.NewJSONRequest("POST", "/api/task-templates", body)
	req = testutil.WithUser(req, testutil.AdminUser())
	rec := testutil.NewRecorder()

	handler.ServeCreateTemplate(rec, req)
	rec.AssertStatus(t, http.StatusCreated)

	var view struct {
		Details          string `json:"details"`
		TargetDaysOffset int    `json:"targetDaysOffset"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if strings.Contains(view.Details, "script") {
		t.Errorf("details not sanitized: %q", view.Details)
	}
	if !strings.Contains(view.Details, "<p>Agenda</p>") {
		t.Errorf("benign markup stripped: %q", view.Details)
	}
	if view.TargetDaysOffset != -5 {
		t.Errorf("negative offset not preserved: got %d", view.TargetDaysOffset)
	}
}

func TestServeCreateTemplate_UnknownCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := templates.NewHandler(db, nil, zap.NewNop())

	body := `{"categoryId":"` + primitive.NewObjectID().Hex() + `","title":"Orphan"}`
	req := testutil.NewJSONRequest("POST", "/api/task-templates", body)
	req = testutil.WithUser(req, testutil.AdminUser())
	rec := testutil.NewRecorder()

	handler.ServeCreateTemplate(rec, req)
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestServeDeleteCategory_RefusedWhileTemplatesRemain(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	handler := templates.NewHandler(db, nil, zap.NewNop())

	cat := fx.CreateCategory(ctx, "Busy category")
	fx.CreateTemplate(ctx, cat.ID, "Still here", 0)

	req := testutil.NewAuthenticatedRequest("DELETE", "/api/template-categories/"+cat.ID.Hex(), testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", cat.ID.Hex())
	rec := testutil.NewRecorder()

	handler.ServeDeleteCategory(rec, req)
	rec.AssertStatus(t, http.StatusConflict)
}

func TestServeDeleteCategory_EmptyCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	handler := templates.NewHandler(db, nil, zap.NewNop())

	cat := fx.CreateCategory(ctx, "Empty category")

	req := testutil.NewAuthenticatedRequest("DELETE", "/api/template-categories/"+cat.ID.Hex(), testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", cat.ID.Hex())
	rec := testutil.NewRecorder()

	handler.ServeDeleteCategory(rec, req)
	rec.AssertStatus(t, http.StatusOK)
}

func TestServeCreateCategory_DuplicateName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	handler := templates.NewHandler(db, nil, zap.NewNop())

	if err := handler.Categories.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}

	first := testutil.NewJSONRequest("POST", "/api/template-categories", `{"name":"Launch"}`)
	first = testutil.WithUser(first, testutil.AdminUser())
	firstRec := testutil.NewRecorder()
	handler.ServeCreateCategory(firstRec, first)
	firstRec.AssertStatus(t, http.StatusCreated)

	dup := testutil.NewJSONRequest("POST", "/api/template-categories", `{"name":"launch"}`)
	dup = testutil.WithUser(dup, testutil.AdminUser())
	dupRec := testutil.NewRecorder()
	handler.ServeCreateCategory(dupRec, dup)
	dupRec.AssertStatus(t, http.StatusConflict)
}
