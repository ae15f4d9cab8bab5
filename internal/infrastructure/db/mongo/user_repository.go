package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/brightdesk/user-directory/internal/core/domain"
)

const collectionUsers = "users"

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type userDoc struct {
	UserID       int64              `bson:"user_id"`
	Email        string             `bson:"email"`
	Username     string             `bson:"username"`
	FirstName    string             `bson:"first_name"`
	LastName     string             `bson:"last_name"`
	PasswordHash string             `bson:"password_hash,omitempty"`
	Role         string             `bson:"role"`
	Status       string             `bson:"status"`
	Permissions  domain.Permissions `bson:"permissions"`
	Metadata     map[string]any     `bson:"metadata,omitempty"`
	// Relationships stores linked user IDs per relationship type; the
	// references are hydrated one level deep on single-user reads.
	Relationships map[string][]int64 `bson:"relationships,omitempty"`
	CreatedAt     int64              `bson:"created_at"`
	UpdatedAt     int64              `bson:"updated_at"`
}

func toDoc(u *domain.User) userDoc {
	return userDoc{
		UserID:        u.ID,
		Email:         u.Email,
		Username:      u.Username,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		PasswordHash:  u.PasswordHash,
		Role:          string(u.Role),
		Status:        string(u.Status),
		Permissions:   u.Permissions,
		Metadata:      u.Metadata,
		Relationships: u.RelationshipIDs(),
		CreatedAt:     u.CreatedAt.Unix(),
		UpdatedAt:     u.UpdatedAt.Unix(),
	}
}

func (d userDoc) toDomain() (*domain.User, error) {
	role, err := domain.ParseRole(d.Role)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w: %q", d.UserID, err, d.Role)
	}
	status, err := domain.ParseStatus(d.Status)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w: %q", d.UserID, err, d.Status)
	}

	perms := d.Permissions
	if perms.Custom == nil {
		perms.Custom = map[string]bool{}
	}
	meta := d.Metadata
	if meta == nil {
		meta = map[string]any{}
	}

	return &domain.User{
		ID:           d.UserID,
		Email:        d.Email,
		Username:     d.Username,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		PasswordHash: d.PasswordHash,
		Role:         role,
		Status:       status,
		Permissions:  perms,
		Metadata:     meta,
		CreatedAt:    unixToTime(d.CreatedAt),
		UpdatedAt:    unixToTime(d.UpdatedAt),
	}, nil
}

// Create inserts a new user document.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, toDoc(u)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"user_id": id})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	user, err := doc.toDomain()
	if err != nil {
		return nil, err
	}
	if err := r.hydrateRelationships(ctx, user, doc.Relationships); err != nil {
		return nil, err
	}
	return user, nil
}

// hydrateRelationships resolves stored relationship ID lists into shallow
// user references (one level deep: the linked users' own relationships are
// not loaded). Links to users that no longer exist are skipped.
func (r *UserRepository) hydrateRelationships(ctx context.Context, user *domain.User, rels map[string][]int64) error {
	if len(rels) == 0 {
		return nil
	}

	idSet := map[int64]struct{}{}
	for _, ids := range rels {
		for _, id := range ids {
			idSet[id] = struct{}{}
		}
	}
	allIDs := make([]int64, 0, len(idSet))
	for id := range idSet {
		allIDs = append(allIDs, id)
	}

	cursor, err := r.col.Find(ctx, bson.M{"user_id": bson.M{"$in": allIDs}})
	if err != nil {
		return fmt.Errorf("hydrate relationships: %w", err)
	}
	defer cursor.Close(ctx)

	linked := make(map[int64]*domain.User, len(allIDs))
	for cursor.Next(ctx) {
		var doc userDoc
		if err := cursor.Decode(&doc); err != nil {
			return fmt.Errorf("hydrate relationships: decode: %w", err)
		}
		other, err := doc.toDomain()
		if err != nil {
			return fmt.Errorf("hydrate relationships: %w", err)
		}
		linked[other.ID] = other
	}
	if err := cursor.Err(); err != nil {
		return fmt.Errorf("hydrate relationships: cursor: %w", err)
	}

	for relType, ids := range rels {
		for _, id := range ids {
			other, ok := linked[id]
			if !ok {
				continue
			}
			if err := user.AddRelationship(relType, other); err != nil {
				return fmt.Errorf("hydrate relationships: %w", err)
			}
		}
	}
	return nil
}

// SaveRelationships replaces the stored relationship ID lists for a user.
func (r *UserRepository) SaveRelationships(ctx context.Context, userID int64, rels map[string][]int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"relationships": rels}},
	)
	if err != nil {
		return fmt.Errorf("save relationships: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// ListByStatus returns all users with the given status, ordered by user ID.
func (r *UserRepository) ListByStatus(ctx context.Context, status domain.Status) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "user_id", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{"status": string(status)}, opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*domain.User
	for cursor.Next(ctx) {
		var doc userDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("list users: decode: %w", err)
		}
		u, err := doc.toDomain()
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		users = append(users, u)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list users: cursor: %w", err)
	}
	return users, nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"user_id": id})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// EnsureIndexes creates the unique indexes the repository relies on.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
