package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mongodoc "github.com/Austinekay/mainserver/internal/infrastructure/mongo"
	"github.com/Austinekay/mainserver/internal/public/domain"
)

type seedOptions struct {
	mongoURI   string
	database   string
	collection string
	ownerID    string
	drop       bool
}

type sampleShop struct {
	name        string
	description string
	address     string
	contact     string
	categories  []string
	lng         float64
	lat         float64
}

// ラゴス中心部の座標でまとめているのは近傍検索の動作確認を一箇所で行うため。
var sampleShops = []sampleShop{
	{
		name:        "Tech World Electronics",
		description: "Latest electronics and gadgets for all your tech needs",
		address:     "123 Tech Street, Lagos, Nigeria",
		contact:     "+234 123 456 7890",
		categories:  []string{"Electronics", "Technology"},
		lng:         3.3792, lat: 6.5244,
	},
	{
		name:        "Fashion Hub",
		description: "Trendy clothes and accessories for men and women",
		address:     "456 Fashion Avenue, Lagos, Nigeria",
		contact:     "+234 123 456 7891",
		categories:  []string{"Fashion", "Clothing"},
		lng:         3.3800, lat: 6.5250,
	},
	{
		name:        "Healthy Bites Restaurant",
		description: "Fresh and healthy meals prepared with organic ingredients",
		address:     "789 Food Court, Lagos, Nigeria",
		contact:     "+234 123 456 7892",
		categories:  []string{"Food", "Restaurant"},
		lng:         3.3785, lat: 6.5235,
	},
	{
		name:        "Beauty Palace",
		description: "Professional beauty services and cosmetic products",
		address:     "321 Beauty Lane, Lagos, Nigeria",
		contact:     "+234 123 456 7893",
		categories:  []string{"Beauty", "Services"},
		lng:         3.3810, lat: 6.5260,
	},
	{
		name:        "Auto Care Center",
		description: "Complete automotive services and car accessories",
		address:     "654 Auto Street, Lagos, Nigeria",
		contact:     "+234 123 456 7894",
		categories:  []string{"Automotive", "Services"},
		lng:         3.3775, lat: 6.5225,
	},
}

func main() {
	opts := parseFlags()
	logger := log.New(os.Stdout, "[mainserver-seed] ", log.LstdFlags)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(opts.mongoURI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		logger.Fatalf("MongoDB 接続に失敗しました: %v", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Printf("MongoDB 切断時にエラー: %v", err)
		}
	}()

	collection := client.Database(opts.database).Collection(opts.collection)

	if opts.drop {
		if _, err := collection.DeleteMany(ctx, bson.M{}); err != nil {
			logger.Fatalf("既存の店舗ドキュメント削除に失敗しました: %v", err)
		}
		logger.Printf("コレクション %s をクリアしました", opts.collection)
	}

	if err := ensureShopIndexes(ctx, collection); err != nil {
		logger.Fatalf("インデックス作成に失敗しました: %v", err)
	}

	now := time.Now()
	docs := make([]any, 0, len(sampleShops))
	for _, shop := range sampleShops {
		docs = append(docs, buildShopDocument(shop, opts.ownerID, now))
	}
	result, err := collection.InsertMany(ctx, docs)
	if err != nil {
		logger.Fatalf("サンプル店舗の投入に失敗しました: %v", err)
	}
	logger.Printf("%d 件のサンプル店舗を投入しました", len(result.InsertedIDs))
}

func parseFlags() seedOptions {
	opts := seedOptions{}
	flag.StringVar(&opts.mongoURI, "mongo-uri", envOrDefault("MONGO_URI", "mongodb://localhost:27017"), "MongoDB connection URI")
	flag.StringVar(&opts.database, "db", envOrDefault("MONGO_DB", "mainserver"), "database name")
	flag.StringVar(&opts.collection, "collection", envOrDefault("SHOP_COLLECTION", "shops"), "shop collection name")
	flag.StringVar(&opts.ownerID, "owner", "sample-owner", "owner ID assigned to the sample shops")
	flag.BoolVar(&opts.drop, "drop", false, "delete existing shops before seeding")
	flag.Parse()
	return opts
}

func ensureShopIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "location", Value: "2dsphere"}},
	})
	return err
}

func buildShopDocument(shop sampleShop, ownerID string, now time.Time) mongodoc.ShopDocument {
	hours := domain.DefaultWeekHours()
	return mongodoc.ShopDocument{
		ID:          primitive.NewObjectID(),
		OwnerID:     ownerID,
		Name:        shop.name,
		Description: shop.description,
		Address:     shop.address,
		Contact:     shop.contact,
		Categories:  shop.categories,
		Images:      []string{},
		Location: mongodoc.LocationDocument{
			Type:        "Point",
			Coordinates: []float64{shop.lng, shop.lat},
		},
		Approved:     true,
		OpeningHours: weekHoursDocument(hours),
		CreatedAt:    &now,
		UpdatedAt:    &now,
	}
}

func weekHoursDocument(hours domain.WeekHours) mongodoc.WeekHoursDocument {
	day := func(entry domain.DayHours) mongodoc.DayHoursDocument {
		return mongodoc.DayHoursDocument{Open: entry.Open, Close: entry.Close, Closed: entry.Closed}
	}
	return mongodoc.WeekHoursDocument{
		Monday:    day(hours.Monday),
		Tuesday:   day(hours.Tuesday),
		Wednesday: day(hours.Wednesday),
		Thursday:  day(hours.Thursday),
		Friday:    day(hours.Friday),
		Saturday:  day(hours.Saturday),
		Sunday:    day(hours.Sunday),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
