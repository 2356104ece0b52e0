package projectstore

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
	StatusActive   = "active"
	StatusArchived = "archived"
)

var errBadStatus = errors.New(`status must be "active"|"archived"`)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("projects")}
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "name_ci", Value: 1}}},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create inserts a new active project. CreatedAt is the anchor date for
// template instantiation and is never changed afterward.
func (s *Store) Create(ctx context.Context, p models.Project) (models.Project, error) {
	p.ID = primitive.NewObjectID()
	p.Name = strings.TrimSpace(p.Name)
	p.NameCI = text.Fold(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	if p.Status == "" {
		p.Status = StatusActive
	}
	if p.Status != StatusActive && p.Status != StatusArchived {
		return models.Project{}, errBadStatus
	}

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	var p models.Project
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update holds the mutable project fields. CreatedAt is deliberately
// absent; the anchor date is immutable.
type Update struct {
	Name        *string
	Description *string
	Status      *string
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) error {
	set := bson.M{"updated_at": time.Now()}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	if upd.Description != nil {
		set["description"] = strings.TrimSpace(*upd.Description)
	}
	if upd.Status != nil {
		st := strings.ToLower(strings.TrimSpace(*upd.Status))
		if st != StatusActive && st != StatusArchived {
			return errBadStatus
		}
		set["status"] = st
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

// Archive flips the project to archived status. Projects are never
// hard-deleted.
func (s *Store) Archive(ctx context.Context, id primitive.ObjectID) error {
	st := StatusArchived
	return s.Update(ctx, id, Update{Status: &st})
}

type ListFilter struct {
	Status  string
	OwnerID *primitive.ObjectID
	Search  string
	Limit   int64
}

func (s *Store) List(ctx context.Context, f ListFilter) ([]models.Project, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = strings.ToLower(strings.TrimSpace(f.Status))
	}
	if f.OwnerID != nil {
		filter["owner_id"] = *f.OwnerID
	}
	if f.Search != "" {
		filter["name_ci"] = bson.M{"$regex": "^" + text.Fold(f.Search)}
	}

	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 200
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var projects []models.Project
	if err := cur.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}
