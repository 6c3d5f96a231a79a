package repositories

import (
	"context"
	"time"

	"github.com/artfolio/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationRepository defines the interface for notification fan-out and
// read-state operations. The read flag lives in two places (the notification
// document and the recipient's embedded inbox index); every mutation here
// flips both inside one transaction.
type NotificationRepository interface {
	Fanout(ctx context.Context, notification *models.Notification) error
	GetNotificationByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Notification, error)
	MarkRead(ctx context.Context, id, recipient primitive.ObjectID) error
	MarkAllRead(ctx context.Context, recipient primitive.ObjectID) error
}

// MongoNotificationRepository implements NotificationRepository on the
// notifications collection plus the recipient's user document.
type MongoNotificationRepository struct {
	collection *mongo.Collection
	users      *mongo.Collection
}

// NewMongoNotificationRepository creates a new MongoNotificationRepository.
func NewMongoNotificationRepository(db *mongo.Database) *MongoNotificationRepository {
	return &MongoNotificationRepository{
		collection: db.Collection("notifications"),
		users:      db.Collection("users"),
	}
}

// Fanout persists the notification and pushes an unread reference into the
// recipient's inbox index, both in one transaction.
func (r *MongoNotificationRepository) Fanout(ctx context.Context, notification *models.Notification) error {
	notification.ID = primitive.NewObjectID()
	notification.CreatedAt = time.Now()
	notification.UpdatedAt = notification.CreatedAt
	notification.Read = false

	return withTransaction(ctx, r.collection.Database().Client(), func(sc mongo.SessionContext) error {
		if _, err := r.collection.InsertOne(sc, notification); err != nil {
			return err
		}
		_, err := r.users.UpdateOne(sc,
			bson.M{"_id": notification.Recipient},
			bson.M{"$push": bson.M{"notifications": models.NotificationRef{
				Notification: notification.ID,
				Read:         false,
			}}},
		)
		return err
	})
}

// GetNotificationByID retrieves a notification by ObjectID.
func (r *MongoNotificationRepository) GetNotificationByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error) {
	var notification models.Notification
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&notification); err != nil {
		return nil, err
	}
	return &notification, nil
}

// FindByIDs fetches the given notifications keyed by id. Missing ids are
// simply absent from the result; callers treat dangling inbox references as
// deleted.
func (r *MongoNotificationRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Notification, error) {
	byID := make(map[primitive.ObjectID]models.Notification, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var notification models.Notification
		if err := cursor.Decode(&notification); err != nil {
			return nil, err
		}
		byID[notification.ID] = notification
	}
	return byID, cursor.Err()
}

// MarkRead flips the read flag on the notification document and on the
// matching inbox index entry in one transaction.
func (r *MongoNotificationRepository) MarkRead(ctx context.Context, id, recipient primitive.ObjectID) error {
	return withTransaction(ctx, r.collection.Database().Client(), func(sc mongo.SessionContext) error {
		if _, err := r.collection.UpdateOne(sc,
			bson.M{"_id": id},
			bson.M{"$set": bson.M{"read": true, "updatedAt": time.Now()}},
		); err != nil {
			return err
		}
		opts := options.Update().SetArrayFilters(options.ArrayFilters{
			Filters: []interface{}{bson.M{"elem.notification": id}},
		})
		_, err := r.users.UpdateOne(sc,
			bson.M{"_id": recipient},
			bson.M{"$set": bson.M{"notifications.$[elem].read": true}},
			opts,
		)
		return err
	})
}

// MarkAllRead flips the read flag on all of the recipient's notification
// documents and on every inbox index entry in one transaction.
func (r *MongoNotificationRepository) MarkAllRead(ctx context.Context, recipient primitive.ObjectID) error {
	return withTransaction(ctx, r.collection.Database().Client(), func(sc mongo.SessionContext) error {
		if _, err := r.collection.UpdateMany(sc,
			bson.M{"recipient": recipient, "read": false},
			bson.M{"$set": bson.M{"read": true, "updatedAt": time.Now()}},
		); err != nil {
			return err
		}
		_, err := r.users.UpdateOne(sc,
			bson.M{"_id": recipient},
			bson.M{"$set": bson.M{"notifications.$[].read": true}},
		)
		return err
	})
}
