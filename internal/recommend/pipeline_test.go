package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/Austinekay/mainserver/internal/public/application"
	"github.com/Austinekay/mainserver/internal/public/domain"
)

type fakeSearcher struct {
	shops []domain.Shop
	err   error
	calls int
}

func (f *fakeSearcher) FindNearby(_ context.Context, _ application.GeoQuery) ([]domain.Shop, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.shops, nil
}

type fakeRanker struct {
	ready   bool
	content string
	err     error
	calls   int
}

func (f *fakeRanker) Ready() bool { return f.ready }

func (f *fakeRanker) Rank(_ context.Context, _ string, _, _ float64, _ []Candidate) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.content, nil
}

func shopFixture(id, name string, categories ...string) domain.Shop {
	return domain.Shop{
		ID:         id,
		Name:       name,
		Categories: categories,
		Approved:   true,
	}
}

func TestPipelineRecommend(t *testing.T) {
	query := Query{Query: "I want food", Lat: 6.5244, Lng: 3.3792}

	t.Run("empty query is rejected", func(t *testing.T) {
		p := NewPipeline(&fakeSearcher{}, &fakeRanker{ready: true}, nil)
		_, err := p.Recommend(context.Background(), Query{Query: "  ", Lat: 1, Lng: 1})
		if !errors.Is(err, application.ErrInvalidQuery) {
			t.Fatalf("expected ErrInvalidQuery, got %v", err)
		}
	})

	t.Run("out of range coordinates are rejected", func(t *testing.T) {
		p := NewPipeline(&fakeSearcher{}, &fakeRanker{ready: true}, nil)
		_, err := p.Recommend(context.Background(), Query{Query: "food", Lat: 95, Lng: 3})
		if !errors.Is(err, application.ErrInvalidQuery) {
			t.Fatalf("expected ErrInvalidQuery, got %v", err)
		}
	})

	t.Run("no candidates after filter returns empty list without ranking call", func(t *testing.T) {
		ranker := &fakeRanker{ready: true}
		searcher := &fakeSearcher{shops: []domain.Shop{shopFixture("1", "Gadget Hub", "Electronics")}}
		p := NewPipeline(searcher, ranker, nil)

		got, err := p.Recommend(context.Background(), query)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("expected empty recommendations, got %v", got)
		}
		if ranker.calls != 0 {
			t.Fatalf("ranker should not be called, got %d calls", ranker.calls)
		}
	})

	t.Run("missing credential fails fast without ranking call", func(t *testing.T) {
		ranker := &fakeRanker{ready: false}
		searcher := &fakeSearcher{shops: []domain.Shop{shopFixture("1", "Healthy Bites", "Restaurant")}}
		p := NewPipeline(searcher, ranker, nil)

		_, err := p.Recommend(context.Background(), query)
		if !errors.Is(err, application.ErrConfiguration) {
			t.Fatalf("expected ErrConfiguration, got %v", err)
		}
		if ranker.calls != 0 {
			t.Fatalf("ranker should not be called, got %d calls", ranker.calls)
		}
	})

	t.Run("valid ranking response is parsed", func(t *testing.T) {
		ranker := &fakeRanker{
			ready:   true,
			content: `[{"id":"1","name":"Healthy Bites","category":"Restaurant","reason":"Great organic menu"}]`,
		}
		searcher := &fakeSearcher{shops: []domain.Shop{shopFixture("1", "Healthy Bites", "Restaurant")}}
		p := NewPipeline(searcher, ranker, nil)

		got, err := p.Recommend(context.Background(), query)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1 || got[0].Name != "Healthy Bites" || got[0].Reason != "Great organic menu" {
			t.Fatalf("unexpected recommendations: %v", got)
		}
	})

	t.Run("array embedded in prose is extracted", func(t *testing.T) {
		ranker := &fakeRanker{
			ready:   true,
			content: "Here you go:\n[{\"name\":\"Healthy Bites\",\"category\":\"Restaurant\",\"reason\":\"Close by\"}]\nEnjoy!",
		}
		searcher := &fakeSearcher{shops: []domain.Shop{shopFixture("1", "Healthy Bites", "Restaurant")}}
		p := NewPipeline(searcher, ranker, nil)

		got, err := p.Recommend(context.Background(), query)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1 || got[0].Name != "Healthy Bites" {
			t.Fatalf("unexpected recommendations: %v", got)
		}
	})

	t.Run("unparseable response synthesizes from candidates", func(t *testing.T) {
		ranker := &fakeRanker{ready: true, content: "I cannot answer that."}
		searcher := &fakeSearcher{shops: []domain.Shop{
			shopFixture("1", "Healthy Bites", "Restaurant"),
			shopFixture("2", "Spice Garden", "Restaurant"),
		}}
		p := NewPipeline(searcher, ranker, nil)

		got, err := p.Recommend(context.Background(), query)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 synthesized recommendations, got %v", got)
		}
		if got[0].Reason != "Popular local business located nearby" {
			t.Fatalf("unexpected reason: %q", got[0].Reason)
		}
	})

	t.Run("duplicates are removed and capped at three", func(t *testing.T) {
		ranker := &fakeRanker{
			ready: true,
			content: `[
				{"name":"A","category":"Restaurant","reason":"r"},
				{"name":"A","category":"Restaurant","reason":"r"},
				{"name":"B","category":"Restaurant","reason":"r"},
				{"name":"C","category":"Restaurant","reason":"r"},
				{"name":"D","category":"Restaurant","reason":"r"}
			]`,
		}
		searcher := &fakeSearcher{shops: []domain.Shop{shopFixture("1", "A", "Restaurant")}}
		p := NewPipeline(searcher, ranker, nil)

		got, err := p.Recommend(context.Background(), query)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("expected 3 recommendations, got %d", len(got))
		}
		if got[0].Name != "A" || got[1].Name != "B" || got[2].Name != "C" {
			t.Fatalf("unexpected order: %v", got)
		}
	})

	t.Run("ranker failure falls back to proximity", func(t *testing.T) {
		ranker := &fakeRanker{ready: true, err: errors.New("upstream 500")}
		searcher := &fakeSearcher{shops: []domain.Shop{
			shopFixture("1", "Healthy Bites", "Restaurant"),
		}}
		p := NewPipeline(searcher, ranker, nil)

		got, err := p.Recommend(context.Background(), query)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("expected 1 fallback recommendation, got %v", got)
		}
		if got[0].Reason != "Popular nearby business" {
			t.Fatalf("unexpected reason: %q", got[0].Reason)
		}
		if got[0].ID != "" {
			t.Fatalf("fallback recommendations must not carry IDs, got %q", got[0].ID)
		}
	})

	t.Run("search failure then fallback failure surfaces upstream error", func(t *testing.T) {
		searcher := &fakeSearcher{err: errors.New("mongo down")}
		p := NewPipeline(searcher, &fakeRanker{ready: true}, nil)

		_, err := p.Recommend(context.Background(), query)
		if !errors.Is(err, application.ErrUpstream) {
			t.Fatalf("expected ErrUpstream, got %v", err)
		}
		if searcher.calls != 2 {
			t.Fatalf("expected primary and fallback queries, got %d calls", searcher.calls)
		}
	})
}
