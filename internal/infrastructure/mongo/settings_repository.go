package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	admindomain "github.com/Austinekay/mainserver/internal/admin/domain"
)

// SettingsRepository persists platform settings as one document per key.
type SettingsRepository struct {
	collection *mongo.Collection
}

func NewSettingsRepository(db *mongo.Database, collectionName string) *SettingsRepository {
	return &SettingsRepository{collection: db.Collection(collectionName)}
}

// Get returns the setting for the key, or nil when it does not exist.
func (r *SettingsRepository) Get(ctx context.Context, key string) (*admindomain.Setting, error) {
	var doc SettingDocument
	if err := r.collection.FindOne(ctx, bson.M{"key": key}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	setting := mapSettingDocument(doc)
	return &setting, nil
}

func (r *SettingsRepository) All(ctx context.Context) ([]admindomain.Setting, error) {
	opts := options.Find().SetSort(bson.D{{Key: "key", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	settings := make([]admindomain.Setting, 0)
	for cursor.Next(ctx) {
		var doc SettingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		settings = append(settings, mapSettingDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *SettingsRepository) Upsert(ctx context.Context, key string, value any) (*admindomain.Setting, error) {
	now := time.Now()
	update := bson.M{
		"$set":         bson.M{"value": value, "updatedAt": now},
		"$setOnInsert": bson.M{"_id": primitive.NewObjectID(), "key": key},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var doc SettingDocument
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"key": key}, update, opts).Decode(&doc); err != nil {
		return nil, err
	}
	setting := mapSettingDocument(doc)
	return &setting, nil
}

// EnsureDefaults は存在しないキーのみ既定値で投入する。既存の値は変更しない。
func (r *SettingsRepository) EnsureDefaults(ctx context.Context, defaults []admindomain.Setting) error {
	for _, setting := range defaults {
		update := bson.M{"$setOnInsert": bson.M{
			"_id":         primitive.NewObjectID(),
			"key":         setting.Key,
			"value":       setting.Value,
			"description": setting.Description,
			"category":    setting.Category,
			"updatedAt":   time.Now(),
		}}
		opts := options.Update().SetUpsert(true)
		if _, err := r.collection.UpdateOne(ctx, bson.M{"key": setting.Key}, update, opts); err != nil {
			return err
		}
	}
	return nil
}

func mapSettingDocument(doc SettingDocument) admindomain.Setting {
	return admindomain.Setting{
		Key:         doc.Key,
		Value:       doc.Value,
		Description: doc.Description,
		Category:    doc.Category,
		UpdatedAt:   doc.UpdatedAt,
	}
}
