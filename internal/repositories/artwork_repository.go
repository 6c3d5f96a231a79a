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

// ArtworkRepository defines the interface for artwork data operations.
type ArtworkRepository interface {
	CreateArtwork(ctx context.Context, artwork *models.Artwork) error
	GetArtworkByID(ctx context.Context, id primitive.ObjectID) (*models.Artwork, error)
	DeleteArtwork(ctx context.Context, id, owner primitive.ObjectID) error
	ListPopular(ctx context.Context, skip, limit int64) ([]models.Artwork, error)
	ListByCreators(ctx context.Context, creators []primitive.ObjectID, skip, limit int64) ([]models.Artwork, error)
	ListByCreator(ctx context.Context, creator primitive.ObjectID, skip, limit int64) ([]models.Artwork, error)
	CountByCreator(ctx context.Context, creator primitive.ObjectID) (int64, error)
	AddLike(ctx context.Context, artworkID, userID primitive.ObjectID) error
	RemoveLike(ctx context.Context, artworkID, userID primitive.ObjectID) error
	AddComment(ctx context.Context, artworkID primitive.ObjectID, comment *models.Comment) error
	AddCommentLike(ctx context.Context, artworkID, commentID, userID primitive.ObjectID) error
	RemoveCommentLike(ctx context.Context, artworkID, commentID, userID primitive.ObjectID) error
	IncrementView(ctx context.Context, artworkID, creator primitive.ObjectID) (int64, error)
	Search(ctx context.Context, query string, creatorIDs []primitive.ObjectID) ([]models.Artwork, error)
}

// MongoArtworkRepository implements ArtworkRepository on the artworks
// collection. It also touches the users collection where an artwork write
// must stay consistent with the owner's document.
type MongoArtworkRepository struct {
	collection *mongo.Collection
	users      *mongo.Collection
}

// NewMongoArtworkRepository creates a new MongoArtworkRepository.
func NewMongoArtworkRepository(db *mongo.Database) *MongoArtworkRepository {
	return &MongoArtworkRepository{
		collection: db.Collection("artworks"),
		users:      db.Collection("users"),
	}
}

// CreateArtwork inserts the artwork and appends its id to the creator's
// artwork list in one transaction.
func (r *MongoArtworkRepository) CreateArtwork(ctx context.Context, artwork *models.Artwork) error {
	artwork.ID = primitive.NewObjectID()
	artwork.CreatedAt = time.Now()
	artwork.UpdatedAt = artwork.CreatedAt
	if artwork.Likes == nil {
		artwork.Likes = []primitive.ObjectID{}
	}
	if artwork.Comments == nil {
		artwork.Comments = []models.Comment{}
	}
	if artwork.Software == nil {
		artwork.Software = []string{}
	}
	if artwork.Tags == nil {
		artwork.Tags = []string{}
	}

	return withTransaction(ctx, r.collection.Database().Client(), func(sc mongo.SessionContext) error {
		if _, err := r.collection.InsertOne(sc, artwork); err != nil {
			return err
		}
		_, err := r.users.UpdateOne(sc,
			bson.M{"_id": artwork.Creator},
			bson.M{"$push": bson.M{"artworks": artwork.ID}},
		)
		return err
	})
}

// GetArtworkByID retrieves an artwork by ObjectID.
func (r *MongoArtworkRepository) GetArtworkByID(ctx context.Context, id primitive.ObjectID) (*models.Artwork, error) {
	var artwork models.Artwork
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&artwork); err != nil {
		return nil, err
	}
	return &artwork, nil
}

// DeleteArtwork removes the artwork and pulls its id from the owner's artwork
// list in one transaction.
func (r *MongoArtworkRepository) DeleteArtwork(ctx context.Context, id, owner primitive.ObjectID) error {
	return withTransaction(ctx, r.collection.Database().Client(), func(sc mongo.SessionContext) error {
		res, err := r.collection.DeleteOne(sc, bson.M{"_id": id})
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return mongo.ErrNoDocuments
		}
		_, err = r.users.UpdateOne(sc,
			bson.M{"_id": owner},
			bson.M{"$pull": bson.M{"artworks": id}},
		)
		return err
	})
}

// popularPipelineSort orders by like count, then views, then recency, with
// _id as the stable final tiebreak.
var popularPipelineSort = bson.D{
	{Key: "likesCount", Value: -1},
	{Key: "views", Value: -1},
	{Key: "createdAt", Value: -1},
	{Key: "_id", Value: -1},
}

// ListPopular returns a slice of the global popularity-ordered listing.
func (r *MongoArtworkRepository) ListPopular(ctx context.Context, skip, limit int64) ([]models.Artwork, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$addFields", Value: bson.M{
			"likesCount": bson.M{"$size": bson.M{"$ifNull": bson.A{"$likes", bson.A{}}}},
		}}},
		{{Key: "$sort", Value: popularPipelineSort}},
		{{Key: "$skip", Value: skip}},
		{{Key: "$limit", Value: limit}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var artworks []models.Artwork
	if err := cursor.All(ctx, &artworks); err != nil {
		return nil, err
	}
	return artworks, nil
}

// ListByCreators returns artworks by any of the given creators, newest first.
func (r *MongoArtworkRepository) ListByCreators(ctx context.Context, creators []primitive.ObjectID, skip, limit int64) ([]models.Artwork, error) {
	return r.find(ctx, bson.M{"creator": bson.M{"$in": creators}}, skip, limit)
}

// ListByCreator returns one creator's artworks, newest first.
func (r *MongoArtworkRepository) ListByCreator(ctx context.Context, creator primitive.ObjectID, skip, limit int64) ([]models.Artwork, error) {
	return r.find(ctx, bson.M{"creator": creator}, skip, limit)
}

func (r *MongoArtworkRepository) find(ctx context.Context, filter bson.M, skip, limit int64) ([]models.Artwork, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var artworks []models.Artwork
	if err := cursor.All(ctx, &artworks); err != nil {
		return nil, err
	}
	return artworks, nil
}

// CountByCreator counts a creator's artworks.
func (r *MongoArtworkRepository) CountByCreator(ctx context.Context, creator primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"creator": creator})
}

// AddLike puts userID in the artwork's like set. $addToSet makes a redundant
// like a no-op.
func (r *MongoArtworkRepository) AddLike(ctx context.Context, artworkID, userID primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": artworkID},
		bson.M{"$addToSet": bson.M{"likes": userID}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// RemoveLike pulls userID from the artwork's like set.
func (r *MongoArtworkRepository) RemoveLike(ctx context.Context, artworkID, userID primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": artworkID},
		bson.M{"$pull": bson.M{"likes": userID}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// AddComment appends an embedded comment to the artwork.
func (r *MongoArtworkRepository) AddComment(ctx context.Context, artworkID primitive.ObjectID, comment *models.Comment) error {
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()
	if comment.Likes == nil {
		comment.Likes = []primitive.ObjectID{}
	}
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": artworkID},
		bson.M{"$push": bson.M{"comments": comment}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// AddCommentLike puts userID in an embedded comment's like set.
func (r *MongoArtworkRepository) AddCommentLike(ctx context.Context, artworkID, commentID, userID primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": artworkID, "comments._id": commentID},
		bson.M{"$addToSet": bson.M{"comments.$.likes": userID}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// RemoveCommentLike pulls userID from an embedded comment's like set.
func (r *MongoArtworkRepository) RemoveCommentLike(ctx context.Context, artworkID, commentID, userID primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": artworkID, "comments._id": commentID},
		bson.M{"$pull": bson.M{"comments.$.likes": userID}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// IncrementView atomically bumps both the artwork's view counter and the
// creator's aggregate total in one transaction, and returns the new view
// count.
func (r *MongoArtworkRepository) IncrementView(ctx context.Context, artworkID, creator primitive.ObjectID) (int64, error) {
	var views int64
	err := withTransaction(ctx, r.collection.Database().Client(), func(sc mongo.SessionContext) error {
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		var artwork models.Artwork
		err := r.collection.FindOneAndUpdate(sc,
			bson.M{"_id": artworkID},
			bson.M{"$inc": bson.M{"views": 1}},
			opts,
		).Decode(&artwork)
		if err != nil {
			return err
		}
		views = artwork.Views

		_, err = r.users.UpdateOne(sc,
			bson.M{"_id": creator},
			bson.M{"$inc": bson.M{"totalViews": 1}},
		)
		return err
	})
	return views, err
}

// Search matches title, art style, software and tags by case-insensitive
// substring, unioned with artworks by the given creators. A single $or query
// deduplicates naturally; ordering is newest first with _id as the stable
// tiebreak.
func (r *MongoArtworkRepository) Search(ctx context.Context, query string, creatorIDs []primitive.ObjectID) ([]models.Artwork, error) {
	regex := bson.M{"$regex": query, "$options": "i"}
	or := bson.A{
		bson.M{"title": regex},
		bson.M{"artStyle": regex},
		bson.M{"software": regex},
		bson.M{"tags": regex},
	}
	if len(creatorIDs) > 0 {
		or = append(or, bson.M{"creator": bson.M{"$in": creatorIDs}})
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"$or": or}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var artworks []models.Artwork
	if err := cursor.All(ctx, &artworks); err != nil {
		return nil, err
	}
	return artworks, nil
}
