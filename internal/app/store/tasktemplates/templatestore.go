package templatestore

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

// ErrBadStatus reports a status outside the task vocabulary.
var ErrBadStatus = errors.New(`status must be "draft"|"todo"|"in_progress"|"done"`)

// validStatus mirrors the task status vocabulary; templates carry the
// status their instantiated tasks will start with.
func validStatus(st string) bool {
	switch st {
	case "draft", "todo", "in_progress", "done":
		return true
	}
	return false
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("task_templates")}
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "category_id", Value: 1}, {Key: "position", Value: 1}}},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create inserts a template. Details must already be sanitized by the
// caller.
func (s *Store) Create(ctx context.Context, tpl models.TaskTemplate) (models.TaskTemplate, error) {
	tpl.ID = primitive.NewObjectID()
	tpl.Title = strings.TrimSpace(tpl.Title)
	tpl.TitleCI = text.Fold(tpl.Title)

	now := time.Now()
	tpl.CreatedAt = now
	tpl.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, tpl); err != nil {
		return models.TaskTemplate{}, err
	}
	return tpl, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.TaskTemplate, error) {
	var tpl models.TaskTemplate
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

type Update struct {
	CategoryID       *primitive.ObjectID
	Title            *string
	Details          *string // sanitized HTML
	AssigneeIDs      *[]primitive.ObjectID
	TargetDaysOffset *int
	Status           *string
	Position         *int
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) error {
	set := bson.M{"updated_at": time.Now()}
	if upd.CategoryID != nil {
		set["category_id"] = *upd.CategoryID
	}
	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		set["title"] = title
		set["title_ci"] = text.Fold(title)
	}
	if upd.Details != nil {
		set["details"] = *upd.Details
	}
	if upd.AssigneeIDs != nil {
		set["assignee_ids"] = *upd.AssigneeIDs
	}
	if upd.TargetDaysOffset != nil {
		set["target_days_offset"] = *upd.TargetDaysOffset
	}
	if upd.Status != nil {
		st := strings.ToLower(strings.TrimSpace(*upd.Status))
		if !validStatus(st) {
			return ErrBadStatus
		}
		set["status"] = st
	}
	if upd.Position != nil {
		set["position"] = *upd.Position
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
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

// List returns templates, optionally narrowed to one category, ordered
// by category then position.
func (s *Store) List(ctx context.Context, categoryID *primitive.ObjectID) ([]models.TaskTemplate, error) {
	filter := bson.M{}
	if categoryID != nil {
		filter["category_id"] = *categoryID
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "category_id", Value: 1}, {Key: "position", Value: 1}, {Key: "_id", Value: 1}})

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var tpls []models.TaskTemplate
	if err := cur.All(ctx, &tpls); err != nil {
		return nil, err
	}
	return tpls, nil
}

// ListByCategories returns templates belonging to any of the given
// categories, ordered by position across all of them.
func (s *Store) ListByCategories(ctx context.Context, categoryIDs []primitive.ObjectID) ([]models.TaskTemplate, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "position", Value: 1}, {Key: "_id", Value: 1}})

	cur, err := s.c.Find(ctx, bson.M{"category_id": bson.M{"$in": categoryIDs}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var tpls []models.TaskTemplate
	if err := cur.All(ctx, &tpls); err != nil {
		return nil, err
	}
	return tpls, nil
}

// CountByCategory reports how many templates reference the category.
// Used to refuse category deletion while templates remain.
func (s *Store) CountByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"category_id": categoryID})
}
