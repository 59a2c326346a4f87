package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Austinekay/mainserver/internal/public/application"
	"github.com/Austinekay/mainserver/internal/public/domain"
)

// ShopRepository implements application.ShopRepository using MongoDB.
type ShopRepository struct {
	collection *mongo.Collection
}

// NewShopRepository creates a new Mongo-backed shop repository.
func NewShopRepository(db *mongo.Database, collectionName string) *ShopRepository {
	return &ShopRepository{collection: db.Collection(collectionName)}
}

// EnsureIndexes は地理検索に必須の 2dsphere インデックスを作成する。
func (r *ShopRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "location", Value: "2dsphere"}},
	})
	return err
}

// browseFilter は通常一覧のフィルタ。承認済み店舗のみが対象。
func browseFilter(filter application.ShopFilter) bson.M {
	mongoFilter := bson.M{"approved": true}
	if filter.Search != "" {
		mongoFilter["$or"] = textSearchClauses(filter.Search)
	}
	if filter.Category != "" {
		mongoFilter["categories"] = bson.M{"$regex": strings.TrimSpace(filter.Category), "$options": "i"}
	}
	return mongoFilter
}

// nearbyFilter は近傍検索のフィルタ。テキスト・カテゴリ条件は通常一覧と
// 同じフィールドを対象にする。
func nearbyFilter(query application.GeoQuery) bson.M {
	mongoFilter := bson.M{
		"approved": true,
		"location": bson.M{
			"$near": bson.M{
				"$geometry": bson.M{
					"type":        "Point",
					"coordinates": []float64{query.Lng, query.Lat},
				},
				"$maxDistance": query.RadiusMeters,
			},
		},
	}
	if query.Category != "" {
		mongoFilter["categories"] = bson.M{"$regex": strings.TrimSpace(query.Category), "$options": "i"}
	}
	if query.Text != "" {
		mongoFilter["$or"] = textSearchClauses(query.Text)
	}
	return mongoFilter
}

// textSearchClauses は一覧に表示される全テキストフィールドへの部分一致条件。
func textSearchClauses(search string) []bson.M {
	keyword := strings.TrimSpace(search)
	regex := bson.M{"$regex": keyword, "$options": "i"}
	return []bson.M{
		{"name": regex},
		{"description": regex},
		{"address": regex},
		{"categories": regex},
	}
}

// Find returns approved shops filtered by free text and category.
func (r *ShopRepository) Find(ctx context.Context, filter application.ShopFilter) ([]domain.Shop, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, browseFilter(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	return decodeShops(ctx, cursor)
}

// FindNearby returns approved shops ordered nearest-first within the radius.
// $near は距離順に返すため追加のソートは不要。
func (r *ShopRepository) FindNearby(ctx context.Context, query application.GeoQuery) ([]domain.Shop, error) {
	opts := options.Find()
	if query.Limit > 0 {
		opts.SetLimit(int64(query.Limit))
	}
	cursor, err := r.collection.Find(ctx, nearbyFilter(query), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	return decodeShops(ctx, cursor)
}

// FindByID returns a single shop by its identifier.
func (r *ShopRepository) FindByID(ctx context.Context, id string) (*domain.Shop, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: shop %s", application.ErrNotFound, id)
	}
	var doc ShopDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: shop %s", application.ErrNotFound, id)
		}
		return nil, err
	}
	shop := mapShopDocument(doc)
	return &shop, nil
}

// FindByOwner returns every shop registered by the owner, approved or not.
func (r *ShopRepository) FindByOwner(ctx context.Context, ownerID string) ([]domain.Shop, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"ownerId": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	return decodeShops(ctx, cursor)
}

func (r *ShopRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"ownerId": ownerID})
}

func (r *ShopRepository) Create(ctx context.Context, shop *domain.Shop) error {
	now := time.Now()
	doc := newShopDocument(shop)
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = &now
	doc.UpdatedAt = &now
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return err
	}
	shop.ID = doc.ID.Hex()
	shop.CreatedAt = now
	shop.UpdatedAt = now
	return nil
}

func (r *ShopRepository) Update(ctx context.Context, shop *domain.Shop) error {
	objectID, err := primitive.ObjectIDFromHex(shop.ID)
	if err != nil {
		return fmt.Errorf("%w: shop %s", application.ErrNotFound, shop.ID)
	}
	now := time.Now()
	update := bson.M{"$set": bson.M{
		"name":         shop.Name,
		"description":  shop.Description,
		"address":      shop.Address,
		"contact":      shop.Contact,
		"categories":   shop.Categories,
		"images":       shop.Images,
		"location":     newLocationDocument(shop.Location),
		"approved":     shop.Approved,
		"openingHours": newWeekHoursDocument(shop.OpeningHours),
		"updatedAt":    now,
	}}
	result, err := r.collection.UpdateByID(ctx, objectID, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: shop %s", application.ErrNotFound, shop.ID)
	}
	shop.UpdatedAt = now
	return nil
}

func (r *ShopRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: shop %s", application.ErrNotFound, id)
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: shop %s", application.ErrNotFound, id)
	}
	return nil
}

func newShopDocument(shop *domain.Shop) ShopDocument {
	return ShopDocument{
		OwnerID:      shop.OwnerID,
		Name:         shop.Name,
		Description:  shop.Description,
		Address:      shop.Address,
		Contact:      shop.Contact,
		Categories:   append([]string{}, shop.Categories...),
		Images:       append([]string{}, shop.Images...),
		Location:     newLocationDocument(shop.Location),
		Approved:     shop.Approved,
		OpeningHours: newWeekHoursDocument(shop.OpeningHours),
	}
}

func decodeShops(ctx context.Context, cursor *mongo.Cursor) ([]domain.Shop, error) {
	shops := make([]domain.Shop, 0)
	for cursor.Next(ctx) {
		var doc ShopDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		shops = append(shops, mapShopDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return shops, nil
}
