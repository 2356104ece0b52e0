package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/planhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given role and status.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, role, status string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      text.Fold(email),
		Role:       role,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateAdmin creates an active test admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, "admin", "active")
}

// CreatePendingUser creates a test user still awaiting approval.
func (f *Fixtures) CreatePendingUser(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, "user", "pending")
}

// CreateProject creates an active test project owned by the given user.
// CreatedAt doubles as the anchor date for template instantiation, so it
// can be set explicitly.
func (f *Fixtures) CreateProject(ctx context.Context, name string, ownerID primitive.ObjectID, createdAt time.Time) models.Project {
	f.t.Helper()

	project := models.Project{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		Description: "Test project description",
		OwnerID:     ownerID,
		Status:      "active",
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}

	if _, err := f.db.Collection("projects").InsertOne(ctx, project); err != nil {
		f.t.Fatalf("failed to create test project: %v", err)
	}
	return project
}

// CreateCampaign creates a draft test campaign in the given project.
func (f *Fixtures) CreateCampaign(ctx context.Context, projectID primitive.ObjectID, name string) models.Campaign {
	f.t.Helper()

	now := time.Now().UTC()
	campaign := models.Campaign{
		ID:        primitive.NewObjectID(),
		ProjectID: projectID,
		Name:      name,
		NameCI:    text.Fold(name),
		Channel:   "email",
		Status:    "draft",
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("campaigns").InsertOne(ctx, campaign); err != nil {
		f.t.Fatalf("failed to create test campaign: %v", err)
	}
	return campaign
}

// CreateCategory creates a test template category.
func (f *Fixtures) CreateCategory(ctx context.Context, name string) models.TemplateCategory {
	f.t.Helper()

	now := time.Now().UTC()
	cat := models.TemplateCategory{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("template_categories").InsertOne(ctx, cat); err != nil {
		f.t.Fatalf("failed to create test category: %v", err)
	}
	return cat
}

// CreateTemplate creates a task template in the given category.
func (f *Fixtures) CreateTemplate(ctx context.Context, categoryID primitive.ObjectID, title string, offsetDays int) models.TaskTemplate {
	f.t.Helper()

	now := time.Now().UTC()
	tpl := models.TaskTemplate{
		ID:               primitive.NewObjectID(),
		CategoryID:       categoryID,
		Title:            title,
		TitleCI:          text.Fold(title),
		Details:          "<p>Test template details</p>",
		TargetDaysOffset: offsetDays,
		Status:           "todo",
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if _, err := f.db.Collection("task_templates").InsertOne(ctx, tpl); err != nil {
		f.t.Fatalf("failed to create test template: %v", err)
	}
	return tpl
}

// CreateTask creates a todo task in the given project.
func (f *Fixtures) CreateTask(ctx context.Context, projectID primitive.ObjectID, title string) models.Task {
	f.t.Helper()

	now := time.Now().UTC()
	task := models.Task{
		ID:        primitive.NewObjectID(),
		ProjectID: projectID,
		Title:     title,
		TitleCI:   text.Fold(title),
		Status:    "todo",
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("tasks").InsertOne(ctx, task); err != nil {
		f.t.Fatalf("failed to create test task: %v", err)
	}
	return task
}
