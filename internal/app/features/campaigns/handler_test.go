package campaigns_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/planhub/internal/app/features/campaigns"
	"github.com/dalemusser/planhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestServeCreate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	handler := campaigns.NewHandler(db, nil, zap.NewNop())

	p := fx.CreateProject(ctx, "Launch", primitive.NewObjectID(), time.Now().UTC())

	req := testutil.NewJSONRequest("POST", "/api/projects/"+p.ID.Hex()+"/campaigns",
		`{"name":"Email blast","channel":"Email"}`)
	req = testutil.WithUser(req, testutil.RegularUser())
	req = testutil.WithChiURLParam(req, "id", p.ID.Hex())
	rec := testutil.NewRecorder()

	handler.ServeCreate(rec, req)
	rec.AssertStatus(t, http.StatusCreated)

	var view struct {
		ProjectID string `json:"projectId"`
		Channel   string `json:"channel"`
		Status    string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if view.ProjectID != p.ID.Hex() {
		t.Errorf("projectId: got %q, want %q", view.ProjectID, p.ID.Hex())
	}
	if view.Channel != "email" {
		t.Errorf("channel not normalized: %q", view.Channel)
	}
	if view.Status != "draft" {
		t.Errorf("default status: got %q, want draft", view.Status)
	}
}

func TestServeCreate_ProjectNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := campaigns.NewHandler(db, nil, zap.NewNop())

	missing := primitive.NewObjectID().Hex()
	req := testutil.NewJSONRequest("POST", "/api/projects/"+missing+"/campaigns", `{"name":"Orphan"}`)
	req = testutil.WithUser(req, testutil.RegularUser())
	req = testutil.WithChiURLParam(req, "id", missing)
	rec := testutil.NewRecorder()

	handler.ServeCreate(rec, req)
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestServePatch_InvalidStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	handler := campaigns.NewHandler(db, nil, zap.NewNop())

	p := fx.CreateProject(ctx, "Launch", primitive.NewObjectID(), time.Now().UTC())
	c := fx.CreateCampaign(ctx, p.ID, "Social push")

	req := testutil.NewJSONRequest("PATCH", "/api/campaigns/"+c.ID.Hex(), `{"status":"archived"}`)
	req = testutil.WithUser(req, testutil.RegularUser())
	req = testutil.WithChiURLParam(req, "id", c.ID.Hex())
	rec := testutil.NewRecorder()

	handler.ServePatch(rec, req)
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestServeDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	handler := campaigns.NewHandler(db, nil, zap.NewNop())

	p := fx.CreateProject(ctx, "Launch", primitive.NewObjectID(), time.Now().UTC())
	c := fx.CreateCampaign(ctx, p.ID, "Short lived")

	req := testutil.NewAuthenticatedRequest("DELETE", "/api/campaigns/"+c.ID.Hex(), testutil.RegularUser())
	req = testutil.WithChiURLParam(req, "id", c.ID.Hex())
	rec := testutil.NewRecorder()

	handler.ServeDelete(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	getReq := testutil.NewAuthenticatedRequest("GET", "/api/campaigns/"+c.ID.Hex(), testutil.RegularUser())
	getReq = testutil.WithChiURLParam(getReq, "id", c.ID.Hex())
	getRec := testutil.NewRecorder()

	handler.ServeGet(getRec, getReq)
	getRec.AssertStatus(t, http.StatusNotFound)
}
