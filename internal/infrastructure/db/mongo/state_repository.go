package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/suitewaste/deskshell/internal/core/domain"
)

const collectionUserState = "user_state"

// StateRepository implements ports.StateRepository on MongoDB. One document
// per user id carries both the app-data blob and its audit trail, so a
// user's record stays a single unit of durability.
type StateRepository struct {
	col *mongo.Collection
}

func NewStateRepository(db *mongo.Database) *StateRepository {
	return &StateRepository{col: db.Collection(collectionUserState)}
}

type userStateDoc struct {
	UserID string             `bson:"_id"`
	Data   *domain.AppData    `bson:"data,omitempty"`
	Audit  []domain.AuditEntry `bson:"audit,omitempty"`
}

// LoadUserData retrieves the business-data blob for one user.
func (r *StateRepository) LoadUserData(ctx context.Context, userID string) (*domain.AppData, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userStateDoc
	opts := options.FindOne().SetProjection(bson.M{"data": 1})
	err := r.col.FindOne(ctx, bson.M{"_id": userID}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserDataNotFound
		}
		return nil, err
	}
	if doc.Data == nil {
		return nil, domain.ErrUserDataNotFound
	}
	return doc.Data, nil
}

// SaveUserData writes the merged blob, creating the document on first use.
func (r *StateRepository) SaveUserData(ctx context.Context, userID string, data domain.AppData) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"data": data, "updated_at": time.Now().UTC()}}
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": userID}, update, options.Update().SetUpsert(true))
	return err
}

// LoadAuditLog returns the user's audit trail, newest first, empty when the
// user has no record yet.
func (r *StateRepository) LoadAuditLog(ctx context.Context, userID string) ([]domain.AuditEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userStateDoc
	opts := options.FindOne().SetProjection(bson.M{"audit": 1})
	err := r.col.FindOne(ctx, bson.M{"_id": userID}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return doc.Audit, nil
}

// SaveAuditLog replaces the trail; truncation past the cap happens upstream.
func (r *StateRepository) SaveAuditLog(ctx context.Context, userID string, entries []domain.AuditEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"audit": entries}}
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": userID}, update, options.Update().SetUpsert(true))
	return err
}

// EnsureIndexes creates the indexes the per-user store queries by.
func (r *StateRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "updated_at", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
