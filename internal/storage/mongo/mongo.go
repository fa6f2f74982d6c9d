// Package mongo implements the storage repositories on MongoDB. Documents
// use the string entity id as _id.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adanyl0v/taskboard/internal/storage"
)

const (
	usersCollection         = "users"
	sessionsCollection      = "sessions"
	tasksCollection         = "tasks"
	notificationsCollection = "notifications"
)

type DB struct {
	users         *mongo.Collection
	sessions      *mongo.Collection
	tasks         *mongo.Collection
	notifications *mongo.Collection
}

func New(db *mongo.Database) *DB {
	return &DB{
		users:         db.Collection(usersCollection),
		sessions:      db.Collection(sessionsCollection),
		tasks:         db.Collection(tasksCollection),
		notifications: db.Collection(notificationsCollection),
	}
}

func (db *DB) Store() *storage.Store {
	return &storage.Store{
		Users:         db,
		Sessions:      db,
		Tasks:         db,
		Notifications: db,
	}
}

// Migrate creates the indexes the repositories rely on.
func (db *DB) Migrate(ctx context.Context) error {
	indexes := []struct {
		coll  *mongo.Collection
		model mongo.IndexModel
	}{
		{db.users, mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{db.sessions, mongo.IndexModel{
			Keys:    bson.D{{Key: "refresh_token", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{db.tasks, mongo.IndexModel{Keys: bson.D{{Key: "created_by", Value: 1}}}},
		{db.tasks, mongo.IndexModel{Keys: bson.D{{Key: "assigned_to", Value: 1}}}},
		{db.notifications, mongo.IndexModel{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		}},
	}

	for _, idx := range indexes {
		_, err := idx.coll.Indexes().CreateOne(ctx, idx.model)
		if err != nil {
			return fmt.Errorf("failed to create index on %s: %w", idx.coll.Name(), err)
		}
	}
	return nil
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return storage.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", storage.ErrDuplicate, err)
	}
	return err
}

func expectMatched(res *mongo.UpdateResult) error {
	if res.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func expectDeleted(res *mongo.DeleteResult) error {
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}
