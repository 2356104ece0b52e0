package taskstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/planhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	StatusDraft      = "draft"
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

var (
	// ErrAlreadyAssigned is returned when assigning a user who is
	// already on the task.
	ErrAlreadyAssigned = errors.New("user is already assigned to this task")

	errBadStatus = errors.New(`status must be "draft"|"todo"|"in_progress"|"done"`)
)

func validStatus(st string) bool {
	switch st {
	case StatusDraft, StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("tasks")}
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "target_date", Value: 1}}},
		{Keys: bson.D{{Key: "assignee_ids", Value: 1}}},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create inserts a single task. Details must already be sanitized by the
// caller.
func (s *Store) Create(ctx context.Context, t models.Task) (models.Task, error) {
	t.ID = primitive.NewObjectID()
	t.Title = strings.TrimSpace(t.Title)
	t.TitleCI = text.Fold(t.Title)
	if t.Status == "" {
		t.Status = StatusTodo
	}
	if !validStatus(t.Status) {
		return models.Task{}, errBadStatus
	}

	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Status == StatusDone {
		t.CompletedAt = &now
	}

	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// CreateMany inserts a batch of tasks in one ordered InsertMany. Used by
// template instantiation; a zero-length batch is a no-op.
func (s *Store) CreateMany(ctx context.Context, tasks []models.Task) ([]models.Task, error) {
	if len(tasks) == 0 {
		return nil, nil
	}

	now := time.Now()
	docs := make([]interface{}, len(tasks))
	for i := range tasks {
		tasks[i].ID = primitive.NewObjectID()
		tasks[i].Title = strings.TrimSpace(tasks[i].Title)
		tasks[i].TitleCI = text.Fold(tasks[i].Title)
		if tasks[i].Status == "" {
			tasks[i].Status = StatusTodo
		}
		if !validStatus(tasks[i].Status) {
			return nil, errBadStatus
		}
		tasks[i].CreatedAt = now
		tasks[i].UpdatedAt = now
		docs[i] = tasks[i]
	}

	if _, err := s.c.InsertMany(ctx, docs); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	var t models.Task
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

type Update struct {
	Title        *string
	Details      *string // sanitized HTML
	AttachmentID *primitive.ObjectID
	AssigneeIDs  *[]primitive.ObjectID
	TargetDate   *time.Time
	Status       *string
}

// Update applies the set fields. Moving into done status stamps
// completed_at; leaving done clears it.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) error {
	now := time.Now()
	set := bson.M{"updated_at": now}
	unset := bson.M{}

	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		set["title"] = title
		set["title_ci"] = text.Fold(title)
	}
	if upd.Details != nil {
		set["details"] = *upd.Details
	}
	if upd.AttachmentID != nil {
		set["attachment_id"] = *upd.AttachmentID
	}
	if upd.AssigneeIDs != nil {
		set["assignee_ids"] = *upd.AssigneeIDs
	}
	if upd.TargetDate != nil {
		set["target_date"] = *upd.TargetDate
	}
	if upd.Status != nil {
		st := strings.ToLower(strings.TrimSpace(*upd.Status))
		if !validStatus(st) {
			return errBadStatus
		}
		set["status"] = st
		if st == StatusDone {
			set["completed_at"] = now
		} else {
			unset["completed_at"] = ""
		}
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// AddAssignee appends a user to the task's assignee list.
// Returns ErrAlreadyAssigned if the user is already on it.
func (s *Store) AddAssignee(ctx context.Context, id, userID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "assignee_ids": bson.M{"$ne": userID}},
		bson.M{
			"$push": bson.M{"assignee_ids": userID},
			"$set":  bson.M{"updated_at": time.Now()},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		n, err := s.c.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		if n == 0 {
			return mongo.ErrNoDocuments
		}
		return ErrAlreadyAssigned
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

type ListFilter struct {
	Status     string
	AssigneeID *primitive.ObjectID
}

// ListByProject returns a project's tasks ordered by target date, dateless
// tasks first.
func (s *Store) ListByProject(ctx context.Context, projectID primitive.ObjectID, f ListFilter) ([]models.Task, error) {
	filter := bson.M{"project_id": projectID}
	if f.Status != "" {
		filter["status"] = strings.ToLower(strings.TrimSpace(f.Status))
	}
	if f.AssigneeID != nil {
		filter["assignee_ids"] = *f.AssigneeID
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "target_date", Value: 1}, {Key: "_id", Value: 1}})

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var tasks []models.Task
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}
