package mongo

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/Austinekay/mainserver/internal/public/application"
)

func clauseFields(t *testing.T, filter bson.M) map[string]bool {
	t.Helper()
	clauses, ok := filter["$or"].([]bson.M)
	if !ok {
		t.Fatalf("filter has no $or clause: %v", filter)
	}
	fields := make(map[string]bool)
	for _, clause := range clauses {
		for field, condition := range clause {
			fields[field] = true
			regex, ok := condition.(bson.M)
			if !ok || regex["$options"] != "i" {
				t.Fatalf("field %s is not a case-insensitive regex: %v", field, condition)
			}
		}
	}
	return fields
}

func TestNearbyFilter(t *testing.T) {
	query := application.GeoQuery{
		Lat:          6.5244,
		Lng:          3.3792,
		RadiusMeters: 5000,
		Category:     "Restaurant",
		Text:         "Food Court",
	}
	filter := nearbyFilter(query)

	if filter["approved"] != true {
		t.Fatal("nearby filter must restrict to approved shops")
	}

	near, ok := filter["location"].(bson.M)["$near"].(bson.M)
	if !ok {
		t.Fatalf("missing $near clause: %v", filter["location"])
	}
	coordinates := near["$geometry"].(bson.M)["coordinates"].([]float64)
	// GeoJSON は経度が先。
	if coordinates[0] != 3.3792 || coordinates[1] != 6.5244 {
		t.Fatalf("unexpected coordinates: %v", coordinates)
	}
	if near["$maxDistance"] != 5000 {
		t.Fatalf("unexpected $maxDistance: %v", near["$maxDistance"])
	}

	category, ok := filter["categories"].(bson.M)
	if !ok || category["$regex"] != "Restaurant" || category["$options"] != "i" {
		t.Fatalf("unexpected category condition: %v", filter["categories"])
	}

	fields := clauseFields(t, filter)
	for _, field := range []string{"name", "description", "address", "categories"} {
		if !fields[field] {
			t.Fatalf("text search misses field %s: %v", field, fields)
		}
	}
}

func TestNearbyFilterWithoutOptionalConditions(t *testing.T) {
	filter := nearbyFilter(application.GeoQuery{Lat: 6.5, Lng: 3.3, RadiusMeters: 1000})
	if _, ok := filter["$or"]; ok {
		t.Fatal("empty text must not add an $or clause")
	}
	if _, ok := filter["categories"]; ok {
		t.Fatal("empty category must not add a categories condition")
	}
}

func TestBrowseFilter(t *testing.T) {
	filter := browseFilter(application.ShopFilter{Search: "Lagos", Category: "Beauty"})
	if filter["approved"] != true {
		t.Fatal("browse filter must restrict to approved shops")
	}

	fields := clauseFields(t, filter)
	for _, field := range []string{"name", "description", "address", "categories"} {
		if !fields[field] {
			t.Fatalf("text search misses field %s: %v", field, fields)
		}
	}

	category, ok := filter["categories"].(bson.M)
	if !ok || category["$regex"] != "Beauty" {
		t.Fatalf("unexpected category condition: %v", filter["categories"])
	}
}
