package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/planhub/internal/app/system/normalize"
	"github.com/dalemusser/planhub/internal/app/system/roles"
	"github.com/dalemusser/planhub/internal/app/system/status"
	"github.com/dalemusser/planhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an
	// email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")

	errBadRole   = errors.New(`role must be "user"|"admin"|"superadmin"`)
	errBadStatus = errors.New(`status must be "pending"|"active"|"rejected"|"deactivated"`)
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// EnsureIndexes creates the unique email index and the sparse google_id
// lookup index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "google_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}, {Key: "full_name_ci", Value: 1}},
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email.
// Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByGoogleID looks up a user by Google subject identifier.
func (s *Store) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"google_id": googleID}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing & validating fields.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.FullName = normalize.Name(u.FullName)
	u.FullNameCI = text.Fold(u.FullName)
	u.Email = normalize.Email(u.Email)
	if u.Role == "" {
		u.Role = roles.User
	}
	if u.Status == "" {
		u.Status = status.Pending
	}

	if !roles.IsValid(u.Role) {
		return models.User{}, errBadRole
	}
	if !status.IsValid(u.Status) {
		return models.User{}, errBadStatus
	}

	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// Change holds the privileged fields an admin may modify. Nil means
// "leave as-is"; the update only touches the fields that are set.
type Change struct {
	Role   *string
	Status *string
}

// IsEmpty reports whether the change touches nothing.
func (c Change) IsEmpty() bool {
	return c.Role == nil && c.Status == nil
}

// Apply persists a role/status change and stamps updated_at.
// Returns mongo.ErrNoDocuments if the user does not exist.
func (s *Store) Apply(ctx context.Context, id primitive.ObjectID, chg Change) error {
	set := bson.M{"updated_at": time.Now()}
	if chg.Role != nil {
		role := normalize.Role(*chg.Role)
		if !roles.IsValid(role) {
			return errBadRole
		}
		set["role"] = role
	}
	if chg.Status != nil {
		st := normalize.Status(*chg.Status)
		if !status.IsValid(st) {
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

// SetStatus updates only the status field, stamping updated_at.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, st string) error {
	return s.Apply(ctx, id, Change{Status: &st})
}

// TouchLogin stamps last_login_at and refreshes name/avatar from the
// identity provider on each successful sign-in.
func (s *Store) TouchLogin(ctx context.Context, id primitive.ObjectID, fullName, avatarURL string) error {
	now := time.Now()
	set := bson.M{
		"last_login_at": now,
		"updated_at":    now,
	}
	if fullName = normalize.Name(fullName); fullName != "" {
		set["full_name"] = fullName
		set["full_name_ci"] = text.Fold(fullName)
	}
	if avatarURL != "" {
		set["avatar_url"] = avatarURL
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// LinkGoogleID attaches the Google subject to an existing user record
// (first Google sign-in of a user created by other means).
func (s *Store) LinkGoogleID(ctx context.Context, id primitive.ObjectID, googleID string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"google_id":  googleID,
		"updated_at": time.Now(),
	}})
	return err
}

// ListFilter narrows List results.
type ListFilter struct {
	Status string // "" means all
	Role   string // "" means all
	Search string // case-insensitive name prefix
	Limit  int64
}

// List returns users matching the filter ordered by folded name.
func (s *Store) List(ctx context.Context, f ListFilter) ([]models.User, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = normalize.Status(f.Status)
	}
	if f.Role != "" {
		filter["role"] = normalize.Role(f.Role)
	}
	if f.Search != "" {
		filter["full_name_ci"] = bson.M{"$regex": "^" + text.Fold(f.Search)}
	}

	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 200
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "full_name_ci", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CountByStatus returns how many users currently hold the given status.
func (s *Store) CountByStatus(ctx context.Context, st string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"status": normalize.Status(st)})
}
