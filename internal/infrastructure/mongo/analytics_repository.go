package mongo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Austinekay/mainserver/internal/public/application"
)

// AnalyticsRepository implements application.AnalyticsRecorder using MongoDB.
// イベントは追記のみで更新しない。
type AnalyticsRepository struct {
	collection *mongo.Collection
}

func NewAnalyticsRepository(db *mongo.Database, collectionName string) *AnalyticsRepository {
	return &AnalyticsRepository{collection: db.Collection(collectionName)}
}

func (r *AnalyticsRepository) Record(ctx context.Context, event application.AnalyticsEvent) error {
	shopID, err := primitive.ObjectIDFromHex(event.ShopID)
	if err != nil {
		return fmt.Errorf("%w: shop %s", application.ErrNotFound, event.ShopID)
	}
	doc := AnalyticsEventDocument{
		ID:        primitive.NewObjectID(),
		ShopID:    shopID,
		Type:      event.Type,
		UserID:    event.UserID,
		IPAddress: event.IPAddress,
		UserAgent: event.UserAgent,
		Timestamp: time.Now(),
	}
	_, err = r.collection.InsertOne(ctx, doc)
	return err
}

// CountToday counts today's events of the given type across the shops.
func (r *AnalyticsRepository) CountToday(ctx context.Context, shopIDs []string, eventType string) (int64, error) {
	ids := objectIDs(shopIDs)
	if len(ids) == 0 {
		return 0, nil
	}
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return r.collection.CountDocuments(ctx, bson.M{
		"shopId":    bson.M{"$in": ids},
		"type":      eventType,
		"timestamp": bson.M{"$gte": startOfDay},
	})
}

func (r *AnalyticsRepository) CountTotal(ctx context.Context, shopID, eventType string) (int64, error) {
	objectID, err := primitive.ObjectIDFromHex(shopID)
	if err != nil {
		return 0, fmt.Errorf("%w: shop %s", application.ErrNotFound, shopID)
	}
	return r.collection.CountDocuments(ctx, bson.M{"shopId": objectID, "type": eventType})
}

// DailyBreakdown returns per-day view/click totals for the trailing window,
// oldest day first. Days with no events are omitted.
func (r *AnalyticsRepository) DailyBreakdown(ctx context.Context, shopID string, days int) ([]application.DailyStat, error) {
	objectID, err := primitive.ObjectIDFromHex(shopID)
	if err != nil {
		return nil, fmt.Errorf("%w: shop %s", application.ErrNotFound, shopID)
	}
	if days <= 0 {
		days = 7
	}
	since := time.Now().AddDate(0, 0, -days)

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"shopId":    objectID,
			"timestamp": bson.M{"$gte": since},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"date": bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$timestamp"}},
				"type": "$type",
			},
			"count": bson.M{"$sum": 1},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	byDate := make(map[string]*application.DailyStat)
	for cursor.Next(ctx) {
		var row struct {
			ID struct {
				Date string `bson:"date"`
				Type string `bson:"type"`
			} `bson:"_id"`
			Count int `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		stat, ok := byDate[row.ID.Date]
		if !ok {
			stat = &application.DailyStat{Date: row.ID.Date}
			byDate[row.ID.Date] = stat
		}
		switch row.ID.Type {
		case "view":
			stat.Views = row.Count
		case "click":
			stat.Clicks = row.Count
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	stats := make([]application.DailyStat, 0, len(byDate))
	for _, stat := range byDate {
		stats = append(stats, *stat)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Date < stats[j].Date })
	return stats, nil
}

func objectIDs(raw []string) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, value := range raw {
		objectID, err := primitive.ObjectIDFromHex(value)
		if err != nil {
			continue
		}
		ids = append(ids, objectID)
	}
	return ids
}
