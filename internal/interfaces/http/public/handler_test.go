package public

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Austinekay/mainserver/internal/public/application"
	"github.com/Austinekay/mainserver/internal/public/domain"
	"github.com/Austinekay/mainserver/internal/recommend"
)

type stubShopQueries struct {
	status    domain.ShopStatus
	statusErr error
}

func (s *stubShopQueries) List(_ context.Context, _ application.ShopFilter) ([]domain.Shop, error) {
	return nil, nil
}

func (s *stubShopQueries) SearchNearby(_ context.Context, _ application.GeoQuery) ([]domain.Shop, error) {
	return nil, nil
}

func (s *stubShopQueries) Detail(_ context.Context, _ string) (*domain.Shop, error) {
	return nil, application.ErrNotFound
}

func (s *stubShopQueries) ByOwner(_ context.Context, _ string) ([]domain.Shop, error) {
	return nil, nil
}

func (s *stubShopQueries) Status(_ context.Context, _ string, _ time.Time) (domain.ShopStatus, error) {
	return s.status, s.statusErr
}

type stubSearcher struct {
	shops []domain.Shop
}

func (s *stubSearcher) FindNearby(_ context.Context, _ application.GeoQuery) ([]domain.Shop, error) {
	return s.shops, nil
}

type stubRanker struct {
	ready   bool
	content string
}

func (s *stubRanker) Ready() bool { return s.ready }

func (s *stubRanker) Rank(_ context.Context, _ string, _, _ float64, _ []recommend.Candidate) (string, error) {
	return s.content, nil
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func decodeJSONBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, rec.Body.String())
	}
	return body
}

func TestRecommendHandler(t *testing.T) {
	nearby := []domain.Shop{{
		ID:         "s1",
		Name:       "Healthy Bites",
		Categories: []string{"Restaurant"},
		Approved:   true,
	}}

	newRequest := func(body string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/recommend", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return req
	}

	t.Run("missing fields", func(t *testing.T) {
		h := NewHandler(Config{Logger: testLogger()})
		for _, body := range []string{
			`{}`,
			`{"query":"food"}`,
			`{"query":"  ","lat":6.5,"lng":3.3}`,
			`{"lat":6.5,"lng":3.3}`,
		} {
			rec := httptest.NewRecorder()
			h.recommendHandler().ServeHTTP(rec, newRequest(body))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("body %s: expected 400, got %d", body, rec.Code)
			}
			if got := decodeJSONBody(t, rec)["message"]; got != "Query and location are required" {
				t.Fatalf("body %s: unexpected message %v", body, got)
			}
		}
	})

	t.Run("missing credential", func(t *testing.T) {
		pipeline := recommend.NewPipeline(&stubSearcher{shops: nearby}, &stubRanker{ready: false}, testLogger())
		h := NewHandler(Config{Logger: testLogger(), Pipeline: pipeline})

		rec := httptest.NewRecorder()
		h.recommendHandler().ServeHTTP(rec, newRequest(`{"query":"food","lat":6.5244,"lng":3.3792}`))
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		if got := decodeJSONBody(t, rec)["message"]; got != "API configuration error" {
			t.Fatalf("unexpected message: %v", got)
		}
	})

	t.Run("ranked response", func(t *testing.T) {
		ranker := &stubRanker{
			ready:   true,
			content: `[{"id":"s1","name":"Healthy Bites","category":"Restaurant","reason":"Fresh meals close to you"}]`,
		}
		pipeline := recommend.NewPipeline(&stubSearcher{shops: nearby}, ranker, testLogger())
		h := NewHandler(Config{Logger: testLogger(), Pipeline: pipeline})

		rec := httptest.NewRecorder()
		h.recommendHandler().ServeHTTP(rec, newRequest(`{"query":"food","lat":6.5244,"lng":3.3792}`))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
		}

		var resp recommendResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if len(resp.Recommendations) != 1 {
			t.Fatalf("expected one recommendation, got %d", len(resp.Recommendations))
		}
		if resp.Recommendations[0].Name != "Healthy Bites" || resp.Recommendations[0].Reason != "Fresh meals close to you" {
			t.Fatalf("unexpected recommendation: %+v", resp.Recommendations[0])
		}
	})
}

func TestShopStatusHandler(t *testing.T) {
	location := time.FixedZone("WAT", 60*60)
	queries := &stubShopQueries{status: domain.ShopStatus{IsOpen: true, Message: "Open until 17:00"}}
	h := NewHandler(Config{Logger: testLogger(), ShopQueries: queries, Location: location})

	router := chi.NewRouter()
	router.Get("/shops/{id}/status", h.shopStatusHandler())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/shops/abc123/status", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := decodeJSONBody(t, rec)
	if body["isOpen"] != true || body["message"] != "Open until 17:00" {
		t.Fatalf("unexpected body: %v", body)
	}

	now := time.Now().In(location)
	currentTime, _ := body["currentTime"].(string)
	if len(currentTime) != 5 || currentTime[2] != ':' {
		t.Fatalf("currentTime not HH:MM: %q", currentTime)
	}
	if body["currentDay"] != strings.ToLower(now.Weekday().String()) {
		t.Fatalf("unexpected currentDay: %v", body["currentDay"])
	}

	t.Run("unknown shop", func(t *testing.T) {
		h := NewHandler(Config{Logger: testLogger(), ShopQueries: &stubShopQueries{statusErr: application.ErrNotFound}})
		router := chi.NewRouter()
		router.Get("/shops/{id}/status", h.shopStatusHandler())

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/shops/missing/status", nil))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
