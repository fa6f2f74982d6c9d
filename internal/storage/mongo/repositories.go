package mongo

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adanyl0v/taskboard/internal/models"
	"github.com/adanyl0v/taskboard/internal/storage"
)

func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	doc := newUserDocument(user)
	doc.Email = strings.ToLower(doc.Email)
	_, err := db.users.InsertOne(ctx, doc)
	return translate(err)
}

func (db *DB) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc userDocument
	err := db.users.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		return nil, translate(err)
	}
	return doc.model(), nil
}

func (db *DB) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return db.findUser(ctx, bson.M{"_id": id})
}

func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return db.findUser(ctx, bson.M{"email": strings.ToLower(email)})
}

func (db *DB) ListUsers(ctx context.Context, excludeRole models.Role) ([]*models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := db.users.Find(ctx, bson.M{"role": bson.M{"$ne": string(excludeRole)}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*models.User
	for cursor.Next(ctx) {
		var doc userDocument
		if err = cursor.Decode(&doc); err != nil {
			return nil, err
		}
		users = append(users, doc.model())
	}
	return users, cursor.Err()
}

func (db *DB) CountUsers(ctx context.Context, excludeRole models.Role) (int64, error) {
	return db.users.CountDocuments(ctx, bson.M{"role": bson.M{"$ne": string(excludeRole)}})
}

func (db *DB) UpdateUserProfile(ctx context.Context, user *models.User) error {
	update := bson.M{"$set": bson.M{
		"name":        user.Name,
		"address":     user.Address,
		"contact":     user.Contact,
		"city":        user.City,
		"state":       user.State,
		"pin_code":    user.PinCode,
		"profile_pic": user.ProfilePic,
		"updated_at":  user.UpdatedAt,
	}}
	res, err := db.users.UpdateOne(ctx, bson.M{"_id": user.ID}, update)
	if err != nil {
		return translate(err)
	}
	return expectMatched(res)
}

func (db *DB) UpdateUserRole(ctx context.Context, id string, role models.Role) error {
	update := bson.M{"$set": bson.M{"role": string(role)}}
	res, err := db.users.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return translate(err)
	}
	return expectMatched(res)
}

func (db *DB) DeleteUser(ctx context.Context, id string) error {
	res, err := db.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translate(err)
	}
	return expectDeleted(res)
}

func (db *DB) CreateSession(ctx context.Context, session *models.Session) error {
	_, err := db.sessions.InsertOne(ctx, sessionDocument(*session))
	return translate(err)
}

func (db *DB) findSession(ctx context.Context, filter bson.M) (*models.Session, error) {
	var doc sessionDocument
	err := db.sessions.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		return nil, translate(err)
	}
	return doc.model(), nil
}

func (db *DB) GetSessionByID(ctx context.Context, id string) (*models.Session, error) {
	return db.findSession(ctx, bson.M{"_id": id})
}

func (db *DB) GetSessionByRefreshToken(ctx context.Context, refreshToken, fingerprint string) (*models.Session, error) {
	return db.findSession(ctx, bson.M{"refresh_token": refreshToken, "fingerprint": fingerprint})
}

func (db *DB) UpdateSessionToken(ctx context.Context, session *models.Session) error {
	update := bson.M{"$set": bson.M{
		"refresh_token": session.RefreshToken,
		"expires_at":    session.ExpiresAt,
		"updated_at":    session.UpdatedAt,
	}}
	res, err := db.sessions.UpdateOne(ctx, bson.M{"_id": session.ID}, update)
	if err != nil {
		return translate(err)
	}
	return expectMatched(res)
}

func (db *DB) DeleteSessionsByUserID(ctx context.Context, userID string) (int64, error) {
	res, err := db.sessions.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, translate(err)
	}
	return res.DeletedCount, nil
}

func (db *DB) DeleteSessionsByFingerprint(ctx context.Context, userID, fingerprint string) (int64, error) {
	res, err := db.sessions.DeleteMany(ctx, bson.M{"user_id": userID, "fingerprint": fingerprint})
	if err != nil {
		return 0, translate(err)
	}
	return res.DeletedCount, nil
}

func (db *DB) CreateTask(ctx context.Context, task *models.Task) error {
	_, err := db.tasks.InsertOne(ctx, newTaskDocument(task))
	return translate(err)
}

func (db *DB) GetTaskByID(ctx context.Context, id string) (*models.Task, error) {
	var doc taskDocument
	err := db.tasks.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		return nil, translate(err)
	}
	return doc.model(), nil
}

func (db *DB) findTasks(ctx context.Context, filter bson.M, sort bson.D) ([]*models.Task, error) {
	cursor, err := db.tasks.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tasks []*models.Task
	for cursor.Next(ctx) {
		var doc taskDocument
		if err = cursor.Decode(&doc); err != nil {
			return nil, err
		}
		tasks = append(tasks, doc.model())
	}
	return tasks, cursor.Err()
}

func (db *DB) ListTasksByParticipant(ctx context.Context, userID string) ([]*models.Task, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"created_by": userID},
		bson.M{"assigned_to": userID},
	}}
	return db.findTasks(ctx, filter, bson.D{{Key: "start_date_time", Value: 1}})
}

func (db *DB) ListAllTasks(ctx context.Context) ([]*models.Task, error) {
	return db.findTasks(ctx, bson.M{}, bson.D{{Key: "created_at", Value: 1}})
}

func (db *DB) UpdateTask(ctx context.Context, task *models.Task) error {
	res, err := db.tasks.ReplaceOne(ctx, bson.M{"_id": task.ID}, newTaskDocument(task))
	if err != nil {
		return translate(err)
	}
	return expectMatched(res)
}

func (db *DB) DeleteTask(ctx context.Context, id string) error {
	res, err := db.tasks.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translate(err)
	}
	return expectDeleted(res)
}

func (db *DB) DeleteTasksByCreator(ctx context.Context, userID string) (int64, error) {
	res, err := db.tasks.DeleteMany(ctx, bson.M{"created_by": userID})
	if err != nil {
		return 0, translate(err)
	}
	return res.DeletedCount, nil
}

func (db *DB) ClearAssignee(ctx context.Context, userID string) (int64, error) {
	res, err := db.tasks.UpdateMany(ctx,
		bson.M{"assigned_to": userID},
		bson.M{"$set": bson.M{"assigned_to": nil}},
	)
	if err != nil {
		return 0, translate(err)
	}
	return res.ModifiedCount, nil
}

func (db *DB) CreateNotification(ctx context.Context, n *models.Notification) error {
	_, err := db.notifications.InsertOne(ctx, newNotificationDocument(n))
	return translate(err)
}

func (db *DB) ListNotifications(ctx context.Context, filter storage.NotificationFilter) ([]*models.Notification, error) {
	query := bson.M{"user_id": filter.UserID}
	if filter.Source != nil {
		query["source"] = string(*filter.Source)
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cursor, err := db.notifications.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notes []*models.Notification
	for cursor.Next(ctx) {
		var doc notificationDocument
		if err = cursor.Decode(&doc); err != nil {
			return nil, err
		}
		notes = append(notes, doc.model())
	}
	return notes, cursor.Err()
}

func (db *DB) MarkNotificationRead(ctx context.Context, id, userID string) error {
	res, err := db.notifications.UpdateOne(ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return translate(err)
	}
	return expectMatched(res)
}

func (db *DB) MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error) {
	res, err := db.notifications.UpdateMany(ctx,
		bson.M{"user_id": userID, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return 0, translate(err)
	}
	return res.ModifiedCount, nil
}

func (db *DB) DeleteNotification(ctx context.Context, id, userID string) error {
	res, err := db.notifications.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return translate(err)
	}
	return expectDeleted(res)
}
