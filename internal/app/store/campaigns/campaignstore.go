package campaignstore

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
	StatusDraft    = "draft"
	StatusRunning  = "running"
	StatusPaused   = "paused"
	StatusFinished = "finished"
)

var errBadStatus = errors.New(`status must be "draft"|"running"|"paused"|"finished"`)

func validStatus(st string) bool {
	switch st {
	case StatusDraft, StatusRunning, StatusPaused, StatusFinished:
		return true
	}
	return false
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("campaigns")}
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "name_ci", Value: 1}}},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

func (s *Store) Create(ctx context.Context, c models.Campaign) (models.Campaign, error) {
	c.ID = primitive.NewObjectID()
	c.Name = strings.TrimSpace(c.Name)
	c.NameCI = text.Fold(c.Name)
	c.Channel = strings.ToLower(strings.TrimSpace(c.Channel))
	if c.Status == "" {
		c.Status = StatusDraft
	}
	if !validStatus(c.Status) {
		return models.Campaign{}, errBadStatus
	}

	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.Campaign{}, err
	}
	return c, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Campaign, error) {
	var c models.Campaign
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

type Update struct {
	Name     *string
	Channel  *string
	Notes    *string
	Status   *string
	StartsAt *time.Time
	EndsAt   *time.Time
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) error {
	set := bson.M{"updated_at": time.Now()}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	if upd.Channel != nil {
		set["channel"] = strings.ToLower(strings.TrimSpace(*upd.Channel))
	}
	if upd.Notes != nil {
		set["notes"] = strings.TrimSpace(*upd.Notes)
	}
	if upd.Status != nil {
		st := strings.ToLower(strings.TrimSpace(*upd.Status))
		if !validStatus(st) {
			return errBadStatus
		}
		set["status"] = st
	}
	if upd.StartsAt != nil {
		set["starts_at"] = *upd.StartsAt
	}
	if upd.EndsAt != nil {
		set["ends_at"] = *upd.EndsAt
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

// ListByProject returns a project's campaigns ordered by name.
func (s *Store) ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Campaign, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}})

	cur, err := s.c.Find(ctx, bson.M{"project_id": projectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var campaigns []models.Campaign
	if err := cur.All(ctx, &campaigns); err != nil {
		return nil, err
	}
	return campaigns, nil
}
