package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Austinekay/mainserver/internal/public/application"
	"github.com/Austinekay/mainserver/internal/public/domain"
)

// ReviewRepository implements application.ReviewRepository using MongoDB.
type ReviewRepository struct {
	collection *mongo.Collection
}

func NewReviewRepository(db *mongo.Database, collectionName string) *ReviewRepository {
	return &ReviewRepository{collection: db.Collection(collectionName)}
}

func (r *ReviewRepository) Find(ctx context.Context, filter application.ReviewFilter, paging application.Paging) ([]domain.Review, error) {
	mongoFilter, err := reviewFilter(filter)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(reviewSort(paging.Sort))
	if paging.Limit > 0 {
		opts.SetLimit(int64(paging.Limit))
		opts.SetSkip(paging.Skip())
	}
	cursor, err := r.collection.Find(ctx, mongoFilter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reviews := make([]domain.Review, 0)
	for cursor.Next(ctx) {
		var doc ReviewDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		reviews = append(reviews, mapReviewDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id string) (*domain.Review, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: review %s", application.ErrNotFound, id)
	}
	var doc ReviewDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: review %s", application.ErrNotFound, id)
		}
		return nil, err
	}
	review := mapReviewDocument(doc)
	return &review, nil
}

// FindByShopAndUser returns the user's review for the shop, or nil when the
// user has not reviewed it yet.
func (r *ReviewRepository) FindByShopAndUser(ctx context.Context, shopID, userID string) (*domain.Review, error) {
	objectID, err := primitive.ObjectIDFromHex(shopID)
	if err != nil {
		return nil, fmt.Errorf("%w: shop %s", application.ErrNotFound, shopID)
	}
	var doc ReviewDocument
	if err := r.collection.FindOne(ctx, bson.M{"shopId": objectID, "userId": userID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	review := mapReviewDocument(doc)
	return &review, nil
}

func (r *ReviewRepository) Count(ctx context.Context, filter application.ReviewFilter) (int64, error) {
	mongoFilter, err := reviewFilter(filter)
	if err != nil {
		return 0, err
	}
	return r.collection.CountDocuments(ctx, mongoFilter)
}

// Stats aggregates the average rating and count over a shop's reviews.
func (r *ReviewRepository) Stats(ctx context.Context, shopID string) (domain.ReviewStats, error) {
	objectID, err := primitive.ObjectIDFromHex(shopID)
	if err != nil {
		return domain.ReviewStats{}, fmt.Errorf("%w: shop %s", application.ErrNotFound, shopID)
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"shopId": objectID}}},
		{{Key: "$group", Value: bson.M{
			"_id":       nil,
			"avgRating": bson.M{"$avg": "$rating"},
			"count":     bson.M{"$sum": 1},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return domain.ReviewStats{}, err
	}
	defer cursor.Close(ctx)

	if cursor.Next(ctx) {
		var row struct {
			AvgRating float64 `bson:"avgRating"`
			Count     int     `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return domain.ReviewStats{}, err
		}
		return domain.ReviewStats{AvgRating: row.AvgRating, Count: row.Count}, nil
	}
	return domain.ReviewStats{}, cursor.Err()
}

func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	shopID, err := primitive.ObjectIDFromHex(review.ShopID)
	if err != nil {
		return fmt.Errorf("%w: shop %s", application.ErrNotFound, review.ShopID)
	}
	now := time.Now()
	doc := ReviewDocument{
		ID:        primitive.NewObjectID(),
		ShopID:    shopID,
		UserID:    review.UserID,
		UserName:  review.UserName,
		Rating:    review.Rating,
		Comment:   review.Comment,
		Photos:    append([]string{}, review.Photos...),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return err
	}
	review.ID = doc.ID.Hex()
	review.CreatedAt = now
	review.UpdatedAt = now
	return nil
}

func (r *ReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	objectID, err := primitive.ObjectIDFromHex(review.ID)
	if err != nil {
		return fmt.Errorf("%w: review %s", application.ErrNotFound, review.ID)
	}
	now := time.Now()
	set := bson.M{
		"rating":    review.Rating,
		"comment":   review.Comment,
		"photos":    review.Photos,
		"updatedAt": now,
	}
	if review.Reply != nil {
		set["reply"] = ReviewReplyDocument{
			Text:     review.Reply.Text,
			AuthorID: review.Reply.AuthorID,
			Date:     review.Reply.Date,
		}
	}
	result, err := r.collection.UpdateByID(ctx, objectID, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: review %s", application.ErrNotFound, review.ID)
	}
	review.UpdatedAt = now
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: review %s", application.ErrNotFound, id)
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: review %s", application.ErrNotFound, id)
	}
	return nil
}

func reviewFilter(filter application.ReviewFilter) (bson.M, error) {
	mongoFilter := bson.M{}
	if filter.ShopID != "" {
		objectID, err := primitive.ObjectIDFromHex(filter.ShopID)
		if err != nil {
			return nil, fmt.Errorf("%w: shop %s", application.ErrNotFound, filter.ShopID)
		}
		mongoFilter["shopId"] = objectID
	}
	if len(filter.ShopIDs) > 0 {
		ids := make([]primitive.ObjectID, 0, len(filter.ShopIDs))
		for _, raw := range filter.ShopIDs {
			objectID, err := primitive.ObjectIDFromHex(raw)
			if err != nil {
				continue
			}
			ids = append(ids, objectID)
		}
		mongoFilter["shopId"] = bson.M{"$in": ids}
	}
	if filter.UserID != "" {
		mongoFilter["userId"] = filter.UserID
	}
	return mongoFilter, nil
}

func reviewSort(sortKey string) bson.D {
	switch sortKey {
	case "oldest":
		return bson.D{{Key: "createdAt", Value: 1}}
	case "highest":
		return bson.D{{Key: "rating", Value: -1}, {Key: "createdAt", Value: -1}}
	case "lowest":
		return bson.D{{Key: "rating", Value: 1}, {Key: "createdAt", Value: -1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}
