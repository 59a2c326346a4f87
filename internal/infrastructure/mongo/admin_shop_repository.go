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

	adminapp "github.com/Austinekay/mainserver/internal/admin/application"
	admindomain "github.com/Austinekay/mainserver/internal/admin/domain"
	publicapp "github.com/Austinekay/mainserver/internal/public/application"
)

// AdminShopRepository implements the admin-side shop repository. Unlike the
// public repository it never filters on the approved flag by default.
type AdminShopRepository struct {
	shops   *mongo.Collection
	reviews *mongo.Collection
}

func NewAdminShopRepository(db *mongo.Database, shopCollection, reviewCollection string) *AdminShopRepository {
	return &AdminShopRepository{
		shops:   db.Collection(shopCollection),
		reviews: db.Collection(reviewCollection),
	}
}

func (r *AdminShopRepository) Find(ctx context.Context, filter adminapp.ShopFilter, paging adminapp.Paging) ([]admindomain.Shop, error) {
	mongoFilter := bson.M{}
	if filter.ApprovedOnly {
		mongoFilter["approved"] = true
	}
	if filter.PendingOnly {
		mongoFilter["approved"] = false
	}
	if filter.Category != "" {
		mongoFilter["categories"] = bson.M{"$regex": strings.TrimSpace(filter.Category), "$options": "i"}
	}
	if filter.Keyword != "" {
		keyword := strings.TrimSpace(filter.Keyword)
		mongoFilter["$or"] = []bson.M{
			{"name": bson.M{"$regex": keyword, "$options": "i"}},
			{"description": bson.M{"$regex": keyword, "$options": "i"}},
			{"address": bson.M{"$regex": keyword, "$options": "i"}},
			{"ownerId": keyword},
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if paging.Limit > 0 {
		opts.SetLimit(int64(paging.Limit))
		page := paging.Page
		if page < 1 {
			page = 1
		}
		opts.SetSkip(int64((page - 1) * paging.Limit))
	}
	cursor, err := r.shops.Find(ctx, mongoFilter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	shops := make([]admindomain.Shop, 0)
	for cursor.Next(ctx) {
		var doc ShopDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		shops = append(shops, mapAdminShopDocument(doc, 0))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return shops, nil
}

func (r *AdminShopRepository) FindByID(ctx context.Context, id string) (*admindomain.Shop, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: shop %s", publicapp.ErrNotFound, id)
	}
	var doc ShopDocument
	if err := r.shops.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: shop %s", publicapp.ErrNotFound, id)
		}
		return nil, err
	}
	// 詳細画面のみレビュー件数を同梱する。一覧では件数分の問い合わせを避ける。
	reviewCount, err := r.reviews.CountDocuments(ctx, bson.M{"shopId": objectID})
	if err != nil {
		return nil, err
	}
	shop := mapAdminShopDocument(doc, int(reviewCount))
	return &shop, nil
}

func (r *AdminShopRepository) Update(ctx context.Context, shop *admindomain.Shop) error {
	objectID, err := primitive.ObjectIDFromHex(shop.ID)
	if err != nil {
		return fmt.Errorf("%w: shop %s", publicapp.ErrNotFound, shop.ID)
	}
	now := time.Now()
	update := bson.M{"$set": bson.M{
		"name":        shop.Name,
		"description": shop.Description,
		"address":     shop.Address,
		"contact":     shop.Contact,
		"categories":  shop.Categories.Strings(),
		"images":      shop.Images.Strings(),
		"location": LocationDocument{
			Type:        "Point",
			Coordinates: []float64{shop.Location.Lng, shop.Location.Lat},
		},
		"approved":     shop.Approved,
		"openingHours": newWeekHoursDocument(shop.OpeningHours),
		"updatedAt":    now,
	}}
	result, err := r.shops.UpdateByID(ctx, objectID, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: shop %s", publicapp.ErrNotFound, shop.ID)
	}
	shop.UpdatedAt = now
	return nil
}

func (r *AdminShopRepository) SetApproval(ctx context.Context, id string, approved bool) (*admindomain.Shop, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: shop %s", publicapp.ErrNotFound, id)
	}
	update := bson.M{"$set": bson.M{"approved": approved, "updatedAt": time.Now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc ShopDocument
	if err := r.shops.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: shop %s", publicapp.ErrNotFound, id)
		}
		return nil, err
	}
	shop := mapAdminShopDocument(doc, 0)
	return &shop, nil
}

func (r *AdminShopRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: shop %s", publicapp.ErrNotFound, id)
	}
	result, err := r.shops.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: shop %s", publicapp.ErrNotFound, id)
	}
	// 店舗に紐づくレビューも併せて消す。孤児ドキュメントを残さない。
	_, err = r.reviews.DeleteMany(ctx, bson.M{"shopId": objectID})
	return err
}

func (r *AdminShopRepository) CategoryCounts(ctx context.Context) ([]adminapp.CategoryCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$categories"}},
		{{Key: "$group", Value: bson.M{"_id": "$categories", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
		{{Key: "$limit", Value: 5}},
	}
	cursor, err := r.shops.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	counts := make([]adminapp.CategoryCount, 0)
	for cursor.Next(ctx) {
		var row struct {
			ID    string `bson:"_id"`
			Count int    `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		counts = append(counts, adminapp.CategoryCount{Name: row.ID, Count: row.Count})
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *AdminShopRepository) CountAll(ctx context.Context) (int64, error) {
	return r.shops.CountDocuments(ctx, bson.M{})
}

func (r *AdminShopRepository) CountApproved(ctx context.Context) (int64, error) {
	return r.shops.CountDocuments(ctx, bson.M{"approved": true})
}

func mapAdminShopDocument(doc ShopDocument, reviewCount int) admindomain.Shop {
	createdAt := time.Time{}
	if doc.CreatedAt != nil {
		createdAt = *doc.CreatedAt
	}
	updatedAt := time.Time{}
	if doc.UpdatedAt != nil {
		updatedAt = *doc.UpdatedAt
	}
	point := mapLocationDocument(doc.Location)

	categories := make(admindomain.CategoryList, 0, len(doc.Categories))
	for _, value := range doc.Categories {
		categories = append(categories, admindomain.Category(value))
	}
	images := make(admindomain.ImageURLList, 0, len(doc.Images))
	for _, value := range doc.Images {
		images = append(images, admindomain.ImageURL(value))
	}

	return admindomain.Shop{
		ID:           doc.ID.Hex(),
		OwnerID:      doc.OwnerID,
		Name:         doc.Name,
		Description:  doc.Description,
		Address:      doc.Address,
		Contact:      doc.Contact,
		Categories:   categories,
		Images:       images,
		Location:     admindomain.Coordinates{Lng: point.Lng, Lat: point.Lat},
		Approved:     doc.Approved,
		OpeningHours: mapWeekHoursDocument(doc.OpeningHours),
		ReviewCount:  reviewCount,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}
