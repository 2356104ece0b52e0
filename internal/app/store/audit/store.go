// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Event categories
const (
	CategoryAuth    = "auth"
	CategoryAdmin   = "admin"
	CategoryContent = "content"
)

// Auth event types
const (
	EventLoginSuccess               = "login_success"
	EventLoginUserCreated           = "login_user_created" // first sign-in, pending record created
	EventLoginFailedUserRejected    = "login_failed_user_rejected"
	EventLoginFailedUserDeactivated = "login_failed_user_deactivated"
	EventLogout                     = "logout"
)

// Admin event types
const (
	EventUserApproved    = "user_approved"
	EventUserRejected    = "user_rejected"
	EventTemplateCreated = "template_created"
	EventTemplateUpdated = "template_updated"
	EventTemplateDeleted = "template_deleted"
	EventCategoryCreated = "category_created"
	EventCategoryUpdated = "category_updated"
	EventCategoryDeleted = "category_deleted"
)

// Content event types
const (
	EventProjectCreated    = "project_created"
	EventProjectUpdated    = "project_updated"
	EventProjectArchived   = "project_archived"
	EventCampaignCreated   = "campaign_created"
	EventCampaignUpdated   = "campaign_updated"
	EventCampaignDeleted   = "campaign_deleted"
	EventTaskCreated       = "task_created"
	EventTaskUpdated       = "task_updated"
	EventTaskDeleted       = "task_deleted"
	EventTasksInstantiated = "tasks_instantiated" // bulk create from templates
	EventAssetUploaded     = "asset_uploaded"
	EventAssetDeleted      = "asset_deleted"
)

// Event represents one activity-log entry.
type Event struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Timestamp time.Time          `bson:"timestamp"`

	// Event classification
	Category  string `bson:"category"`
	EventType string `bson:"event_type"`

	// Who
	ActorID *primitive.ObjectID `bson:"actor_id,omitempty"` // who performed the action
	UserID  *primitive.ObjectID `bson:"user_id,omitempty"`  // affected user, if any

	// What
	ProjectID *primitive.ObjectID `bson:"project_id,omitempty"`
	TargetID  *primitive.ObjectID `bson:"target_id,omitempty"` // task/template/campaign/asset id

	// Context
	IP        string `bson:"ip"`
	UserAgent string `bson:"user_agent,omitempty"`

	// Outcome
	Success       bool   `bson:"success"`
	FailureReason string `bson:"failure_reason,omitempty"`

	// Additional details (varies by event type)
	Details map[string]string `bson:"details,omitempty"`
}

// QueryFilter defines filters for listing activity.
type QueryFilter struct {
	ProjectID *primitive.ObjectID
	ActorID   *primitive.ObjectID
	Category  string
	EventType string
	StartTime *time.Time
	EndTime   *time.Time
	Limit     int64
	Offset    int64
}

// Store manages activity-log records.
type Store struct {
	c *mongo.Collection
}

// New creates a new activity Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("activity_events")}
}

// EnsureIndexes creates the indexes the listing queries need.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		{Keys: bson.D{
			{Key: "project_id", Value: 1},
			{Key: "timestamp", Value: -1},
		}},
		{Keys: bson.D{
			{Key: "actor_id", Value: 1},
			{Key: "timestamp", Value: -1},
		}},
		{Keys: bson.D{
			{Key: "category", Value: 1},
			{Key: "event_type", Value: 1},
			{Key: "timestamp", Value: -1},
		}},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Log records an activity event. The ID and timestamp are filled in when
// absent so callers can pass minimal events.
func (s *Store) Log(ctx context.Context, event Event) error {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, event)
	return err
}

// Query returns events matching the filter, most recent first.
func (s *Store) Query(ctx context.Context, f QueryFilter) ([]Event, error) {
	filter := bson.M{}
	if f.ProjectID != nil {
		filter["project_id"] = *f.ProjectID
	}
	if f.ActorID != nil {
		filter["actor_id"] = *f.ActorID
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.EventType != "" {
		filter["event_type"] = f.EventType
	}
	if f.StartTime != nil || f.EndTime != nil {
		trange := bson.M{}
		if f.StartTime != nil {
			trange["$gte"] = *f.StartTime
		}
		if f.EndTime != nil {
			trange["$lte"] = *f.EndTime
		}
		filter["timestamp"] = trange
	}

	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit).
		SetSkip(f.Offset)

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var events []Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// GetByActor returns the most recent events performed by one actor.
func (s *Store) GetByActor(ctx context.Context, actorID primitive.ObjectID, limit int64) ([]Event, error) {
	return s.Query(ctx, QueryFilter{ActorID: &actorID, Limit: limit})
}

// GetByProject returns the most recent events for one project.
func (s *Store) GetByProject(ctx context.Context, projectID primitive.ObjectID, limit int64) ([]Event, error) {
	return s.Query(ctx, QueryFilter{ProjectID: &projectID, Limit: limit})
}
