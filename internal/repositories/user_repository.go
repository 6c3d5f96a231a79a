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

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameTaken(ctx context.Context, username string, exclude primitive.ObjectID) (bool, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, req *models.UpdateProfileRequest) (*models.User, error)
	UpdateImages(ctx context.Context, id primitive.ObjectID, profilePicture, coverImage string) (*models.User, error)
	Follow(ctx context.Context, follower, target primitive.ObjectID) error
	Unfollow(ctx context.Context, follower, target primitive.ObjectID) error
	FollowersPage(ctx context.Context, id primitive.ObjectID, skip, limit int) ([]models.UserCompact, int, error)
	FollowingPage(ctx context.Context, id primitive.ObjectID, skip, limit int) ([]models.UserCompact, int, error)
	SearchIDsByNameOrUsername(ctx context.Context, query string) ([]primitive.ObjectID, error)
	SetVerified(ctx context.Context, id primitive.ObjectID) error
	SetResetToken(ctx context.Context, id primitive.ObjectID, tokenHash string, expires time.Time) error
	GetUserByResetToken(ctx context.Context, tokenHash string) (*models.User, error)
	ResetPassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
}

// MongoUserRepository implements UserRepository on the users collection.
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository.
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection("users")}
}

// CreateUser inserts a new user with empty edge sets and default images.
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	if user.ProfilePicture == "" {
		user.ProfilePicture = models.DefaultProfilePicture
	}
	if user.CoverImage == "" {
		user.CoverImage = models.DefaultCoverImage
	}
	if user.Followers == nil {
		user.Followers = []primitive.ObjectID{}
	}
	if user.Following == nil {
		user.Following = []primitive.ObjectID{}
	}
	if user.Artworks == nil {
		user.Artworks = []primitive.ObjectID{}
	}
	if user.Notifications == nil {
		user.Notifications = []models.NotificationRef{}
	}
	_, err := r.collection.InsertOne(ctx, user)
	return err
}

// GetUserByID retrieves a user by ObjectID.
func (r *MongoUserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email.
func (r *MongoUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username.
func (r *MongoUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UsernameTaken reports whether the username belongs to a user other than
// exclude. Pass primitive.NilObjectID to check against all users.
func (r *MongoUserRepository) UsernameTaken(ctx context.Context, username string, exclude primitive.ObjectID) (bool, error) {
	filter := bson.M{"username": username}
	if exclude != primitive.NilObjectID {
		filter["_id"] = bson.M{"$ne": exclude}
	}
	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateProfile applies the non-empty profile fields and returns the updated
// user.
func (r *MongoUserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, req *models.UpdateProfileRequest) (*models.User, error) {
	set := bson.M{"updatedAt": time.Now()}
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.Username != "" {
		set["username"] = req.Username
	}
	if req.CityState != "" {
		set["cityState"] = req.CityState
	}
	if req.Title != "" {
		set["title"] = req.Title
	}
	if req.Summary != "" {
		set["summary"] = req.Summary
	}
	if req.Link != "" {
		set["link"] = req.Link
	}
	if req.SocialLinks != nil {
		set["socialLinks"] = req.SocialLinks
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user models.User
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateImages sets whichever of the two image URLs is non-empty and returns
// the updated user.
func (r *MongoUserRepository) UpdateImages(ctx context.Context, id primitive.ObjectID, profilePicture, coverImage string) (*models.User, error) {
	set := bson.M{"updatedAt": time.Now()}
	if profilePicture != "" {
		set["profilePicture"] = profilePicture
	}
	if coverImage != "" {
		set["coverImage"] = coverImage
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user models.User
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Follow writes both sides of the edge in one transaction: target joins the
// follower's forward set and the follower joins the target's backward set.
func (r *MongoUserRepository) Follow(ctx context.Context, follower, target primitive.ObjectID) error {
	return withTransaction(ctx, r.collection.Database().Client(), func(sc mongo.SessionContext) error {
		if _, err := r.collection.UpdateOne(sc,
			bson.M{"_id": follower},
			bson.M{"$addToSet": bson.M{"following": target}},
		); err != nil {
			return err
		}
		_, err := r.collection.UpdateOne(sc,
			bson.M{"_id": target},
			bson.M{"$addToSet": bson.M{"followers": follower}},
		)
		return err
	})
}

// Unfollow removes both sides of the edge in one transaction.
func (r *MongoUserRepository) Unfollow(ctx context.Context, follower, target primitive.ObjectID) error {
	return withTransaction(ctx, r.collection.Database().Client(), func(sc mongo.SessionContext) error {
		if _, err := r.collection.UpdateOne(sc,
			bson.M{"_id": follower},
			bson.M{"$pull": bson.M{"following": target}},
		); err != nil {
			return err
		}
		_, err := r.collection.UpdateOne(sc,
			bson.M{"_id": target},
			bson.M{"$pull": bson.M{"followers": follower}},
		)
		return err
	})
}

// FollowersPage returns a page of the user's followers in edge-insertion
// order, plus the total follower count.
func (r *MongoUserRepository) FollowersPage(ctx context.Context, id primitive.ObjectID, skip, limit int) ([]models.UserCompact, int, error) {
	return r.edgePage(ctx, id, "followers", skip, limit)
}

// FollowingPage returns a page of the users the user follows, plus the total.
func (r *MongoUserRepository) FollowingPage(ctx context.Context, id primitive.ObjectID, skip, limit int) ([]models.UserCompact, int, error) {
	return r.edgePage(ctx, id, "following", skip, limit)
}

func (r *MongoUserRepository) edgePage(ctx context.Context, id primitive.ObjectID, field string, skip, limit int) ([]models.UserCompact, int, error) {
	var doc struct {
		Followers []primitive.ObjectID `bson:"followers"`
		Following []primitive.ObjectID `bson:"following"`
	}
	opts := options.FindOne().SetProjection(bson.M{field: 1})
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&doc); err != nil {
		return nil, 0, err
	}

	ids := doc.Followers
	if field == "following" {
		ids = doc.Following
	}
	total := len(ids)

	if skip >= total {
		return []models.UserCompact{}, total, nil
	}
	end := skip + limit
	if end > total {
		end = total
	}
	page := ids[skip:end]

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": page}})
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	byID := make(map[primitive.ObjectID]models.UserCompact, len(page))
	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			return nil, 0, err
		}
		byID[user.ID] = user.ToCompact()
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, err
	}

	// Keep the stored edge order, dropping ids whose user no longer exists.
	users := make([]models.UserCompact, 0, len(page))
	for _, uid := range page {
		if compact, ok := byID[uid]; ok {
			users = append(users, compact)
		}
	}
	return users, total, nil
}

// SearchIDsByNameOrUsername returns the ids of users whose name or username
// contains the query, case-insensitively.
func (r *MongoUserRepository) SearchIDsByNameOrUsername(ctx context.Context, query string) ([]primitive.ObjectID, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"name": bson.M{"$regex": query, "$options": "i"}},
		bson.M{"username": bson.M{"$regex": query, "$options": "i"}},
	}}
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ids []primitive.ObjectID
	for cursor.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		ids = append(ids, doc.ID)
	}
	return ids, cursor.Err()
}

// SetVerified marks the user's email as verified.
func (r *MongoUserRepository) SetVerified(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"isVerified": true, "updatedAt": time.Now()}})
	return err
}

// SetResetToken stores the hashed reset token and its expiry.
func (r *MongoUserRepository) SetResetToken(ctx context.Context, id primitive.ObjectID, tokenHash string, expires time.Time) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"resetPasswordToken":   tokenHash,
		"resetPasswordExpires": expires,
		"updatedAt":            time.Now(),
	}})
	return err
}

// GetUserByResetToken finds the user holding a non-expired reset token hash.
func (r *MongoUserRepository) GetUserByResetToken(ctx context.Context, tokenHash string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{
		"resetPasswordToken":   tokenHash,
		"resetPasswordExpires": bson.M{"$gt": time.Now()},
	}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ResetPassword replaces the password hash and clears the reset token.
func (r *MongoUserRepository) ResetPassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set":   bson.M{"password": passwordHash, "updatedAt": time.Now()},
		"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpires": ""},
	})
	return err
}
