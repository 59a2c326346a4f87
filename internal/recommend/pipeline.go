package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/Austinekay/mainserver/internal/public/application"
	"github.com/Austinekay/mainserver/internal/public/domain"
)

const (
	searchRadiusMeters = 5000
	candidateLimit     = 20
	maxRecommendations = 3
)

// Query is one recommendation request.
type Query struct {
	Query string
	Lat   float64
	Lng   float64
}

// Recommendation is a single ranked suggestion. ID is empty on the degraded
// proximity fallback, matching the wire contract.
type Recommendation struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Reason   string `json:"reason"`
}

// ShopSearcher is the proximity-query port the pipeline consumes.
type ShopSearcher interface {
	FindNearby(ctx context.Context, query application.GeoQuery) ([]domain.Shop, error)
}

// Ranker is the external natural-language ranking port.
type Ranker interface {
	Ready() bool
	Rank(ctx context.Context, query string, lat, lng float64, candidates []Candidate) (string, error)
}

// Pipeline produces an ordered top-N recommendation list, degrading to plain
// proximity ranking when the ranking service is unavailable or returns
// unusable output. Single attempt per request; no retries.
type Pipeline struct {
	searcher ShopSearcher
	ranker   Ranker
	logger   *log.Logger
}

// NewPipeline wires the recommendation pipeline.
func NewPipeline(searcher ShopSearcher, ranker Ranker, logger *log.Logger) *Pipeline {
	return &Pipeline{searcher: searcher, ranker: ranker, logger: logger}
}

// Recommend runs the full pipeline for one request.
func (p *Pipeline) Recommend(ctx context.Context, q Query) ([]Recommendation, error) {
	if strings.TrimSpace(q.Query) == "" {
		return nil, fmt.Errorf("%w: query, latitude, and longitude are required", application.ErrInvalidQuery)
	}

	geoQuery := application.GeoQuery{
		Lat:          q.Lat,
		Lng:          q.Lng,
		RadiusMeters: searchRadiusMeters,
		Limit:        candidateLimit,
	}
	if err := geoQuery.Validate(); err != nil {
		return nil, err
	}

	nearby, err := p.searcher.FindNearby(ctx, geoQuery)
	if err != nil {
		p.logf("近隣店舗の取得に失敗: %v", err)
		return p.fallback(ctx, q)
	}

	candidates := make([]domain.Shop, 0, len(nearby))
	for _, shop := range nearby {
		if MatchesCategories(q.Query, shop.Categories) {
			candidates = append(candidates, shop)
		}
	}
	if len(candidates) == 0 {
		return []Recommendation{}, nil
	}

	if p.ranker == nil || !p.ranker.Ready() {
		return nil, fmt.Errorf("%w: ranking service credential missing", application.ErrConfiguration)
	}

	payload := make([]Candidate, 0, len(candidates))
	for _, shop := range candidates {
		payload = append(payload, Candidate{
			ID:          shop.ID,
			Name:        shop.Name,
			Categories:  append([]string{}, shop.Categories...),
			Description: shop.Description,
			Address:     shop.Address,
		})
	}

	content, err := p.ranker.Rank(ctx, q.Query, q.Lat, q.Lng, payload)
	if err != nil {
		p.logf("ランキングサービス呼び出しに失敗: %v", err)
		return p.fallback(ctx, q)
	}

	recommendations, ok := parseRecommendations(content)
	if !ok {
		p.logf("ランキングレスポンスの解析に失敗、候補から合成します")
		recommendations = synthesize(candidates, "Popular local business located nearby")
	} else if len(recommendations) == 0 {
		recommendations = synthesize(candidates, "Recommended nearby business")
	}

	return dedupeAndCap(recommendations), nil
}

// fallback answers with plain proximity ranking when the ranking call (or the
// candidate fetch) failed. If even this query fails, the upstream failure
// surfaces to the caller.
func (p *Pipeline) fallback(ctx context.Context, q Query) ([]Recommendation, error) {
	shops, err := p.searcher.FindNearby(ctx, application.GeoQuery{
		Lat:          q.Lat,
		Lng:          q.Lng,
		RadiusMeters: searchRadiusMeters,
		Limit:        maxRecommendations,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get recommendations: %v", application.ErrUpstream, err)
	}

	recommendations := make([]Recommendation, 0, len(shops))
	for _, shop := range shops {
		recommendations = append(recommendations, Recommendation{
			Name:     shop.Name,
			Category: firstCategory(shop.Categories),
			Reason:   "Popular nearby business",
		})
	}
	return recommendations, nil
}

// parseRecommendations attempts a direct JSON parse, then falls back to the
// first bracketed array substring. Returns false when neither yields an array.
func parseRecommendations(content string) ([]Recommendation, bool) {
	var recommendations []Recommendation
	if err := json.Unmarshal([]byte(content), &recommendations); err == nil {
		return recommendations, true
	}

	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(content[start:end+1]), &recommendations); err == nil {
			return recommendations, true
		}
	}
	return nil, false
}

func synthesize(shops []domain.Shop, reason string) []Recommendation {
	limit := len(shops)
	if limit > maxRecommendations {
		limit = maxRecommendations
	}
	recommendations := make([]Recommendation, 0, limit)
	for _, shop := range shops[:limit] {
		recommendations = append(recommendations, Recommendation{
			ID:       shop.ID,
			Name:     shop.Name,
			Category: firstCategory(shop.Categories),
			Reason:   reason,
		})
	}
	return recommendations
}

func dedupeAndCap(recommendations []Recommendation) []Recommendation {
	seen := make(map[string]struct{}, len(recommendations))
	result := make([]Recommendation, 0, maxRecommendations)
	for _, rec := range recommendations {
		if _, ok := seen[rec.Name]; ok {
			continue
		}
		seen[rec.Name] = struct{}{}
		result = append(result, rec)
		if len(result) == maxRecommendations {
			break
		}
	}
	return result
}

func firstCategory(categories []string) string {
	if len(categories) > 0 && strings.TrimSpace(categories[0]) != "" {
		return categories[0]
	}
	return "General"
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.logger != nil {
		p.logger.Printf(format, args...)
	}
}
