package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Austinekay/mainserver/internal/public/domain"
)

type fakeShopRepo struct {
	shops      map[string]*domain.Shop
	ownerCount int64
	created    []*domain.Shop
}

func newFakeShopRepo() *fakeShopRepo {
	return &fakeShopRepo{shops: make(map[string]*domain.Shop)}
}

func (f *fakeShopRepo) Find(_ context.Context, _ ShopFilter) ([]domain.Shop, error) {
	return nil, nil
}

func (f *fakeShopRepo) FindNearby(_ context.Context, _ GeoQuery) ([]domain.Shop, error) {
	return nil, nil
}

func (f *fakeShopRepo) FindByID(_ context.Context, id string) (*domain.Shop, error) {
	shop, ok := f.shops[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *shop
	return &clone, nil
}

func (f *fakeShopRepo) FindByOwner(_ context.Context, _ string) ([]domain.Shop, error) {
	return nil, nil
}

func (f *fakeShopRepo) CountByOwner(_ context.Context, _ string) (int64, error) {
	return f.ownerCount, nil
}

func (f *fakeShopRepo) Create(_ context.Context, shop *domain.Shop) error {
	shop.ID = "new-shop"
	f.created = append(f.created, shop)
	f.shops[shop.ID] = shop
	return nil
}

func (f *fakeShopRepo) Update(_ context.Context, shop *domain.Shop) error {
	f.shops[shop.ID] = shop
	return nil
}

func (f *fakeShopRepo) Delete(_ context.Context, id string) error {
	delete(f.shops, id)
	return nil
}

type fakeSettings struct {
	bools map[string]bool
	ints  map[string]int
}

func (f *fakeSettings) Bool(_ context.Context, key string, fallback bool) bool {
	if v, ok := f.bools[key]; ok {
		return v
	}
	return fallback
}

func (f *fakeSettings) Int(_ context.Context, key string, fallback int) int {
	if v, ok := f.ints[key]; ok {
		return v
	}
	return fallback
}

type fakeReviewRepo struct {
	reviews map[string]*domain.Review
	byUser  map[string]*domain.Review
	creates int
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{
		reviews: make(map[string]*domain.Review),
		byUser:  make(map[string]*domain.Review),
	}
}

func (f *fakeReviewRepo) Find(_ context.Context, _ ReviewFilter, _ Paging) ([]domain.Review, error) {
	return nil, nil
}

func (f *fakeReviewRepo) FindByID(_ context.Context, id string) (*domain.Review, error) {
	review, ok := f.reviews[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *review
	return &clone, nil
}

func (f *fakeReviewRepo) FindByShopAndUser(_ context.Context, shopID, userID string) (*domain.Review, error) {
	review, ok := f.byUser[shopID+"/"+userID]
	if !ok {
		return nil, nil
	}
	clone := *review
	return &clone, nil
}

func (f *fakeReviewRepo) Count(_ context.Context, _ ReviewFilter) (int64, error) {
	return int64(len(f.reviews)), nil
}

func (f *fakeReviewRepo) Stats(_ context.Context, _ string) (domain.ReviewStats, error) {
	return domain.ReviewStats{}, nil
}

func (f *fakeReviewRepo) Create(_ context.Context, review *domain.Review) error {
	f.creates++
	review.ID = "new-review"
	f.reviews[review.ID] = review
	f.byUser[review.ShopID+"/"+review.UserID] = review
	return nil
}

func (f *fakeReviewRepo) Update(_ context.Context, review *domain.Review) error {
	f.reviews[review.ID] = review
	return nil
}

func (f *fakeReviewRepo) Delete(_ context.Context, id string) error {
	delete(f.reviews, id)
	return nil
}

type fakeNotifications struct {
	created []*domain.Notification
}

func (f *fakeNotifications) Create(_ context.Context, notification *domain.Notification) error {
	f.created = append(f.created, notification)
	return nil
}

func (f *fakeNotifications) FindByRecipient(_ context.Context, _ string, _ Paging) ([]domain.Notification, error) {
	return nil, nil
}

func (f *fakeNotifications) MarkRead(_ context.Context, _, _ string) error {
	return nil
}

func validShopCommand(owner string) UpsertShopCommand {
	return UpsertShopCommand{
		OwnerID:     owner,
		Name:        "Healthy Bites",
		Description: "Fresh meals",
		Address:     "789 Food Court",
		Categories:  []string{"Restaurant"},
		Location:    &domain.GeoPoint{Lng: 3.3792, Lat: 6.5244},
	}
}

func TestGeoQueryValidate(t *testing.T) {
	if err := (GeoQuery{Lat: 6.5, Lng: 3.3, RadiusMeters: 5000}).Validate(); err != nil {
		t.Fatalf("valid query rejected: %v", err)
	}
	for _, q := range []GeoQuery{
		{Lat: 91, Lng: 0, RadiusMeters: 5000},
		{Lat: 0, Lng: -200, RadiusMeters: 5000},
		{Lat: 0, Lng: 0, RadiusMeters: 0},
		{Lat: 0, Lng: 0, RadiusMeters: -1},
	} {
		if err := q.Validate(); !errors.Is(err, ErrInvalidQuery) {
			t.Fatalf("query %+v: expected ErrInvalidQuery, got %v", q, err)
		}
	}
}

func TestShopCommandServiceCreate(t *testing.T) {
	t.Run("missing required fields", func(t *testing.T) {
		svc := NewShopCommandService(newFakeShopRepo(), nil)
		_, err := svc.Create(context.Background(), UpsertShopCommand{OwnerID: "u1"})
		if !errors.Is(err, ErrInvalidQuery) {
			t.Fatalf("expected ErrInvalidQuery, got %v", err)
		}
	})

	t.Run("description too long", func(t *testing.T) {
		svc := NewShopCommandService(newFakeShopRepo(), nil)
		cmd := validShopCommand("u1")
		cmd.Description = strings.Repeat("a", 2001)
		if _, err := svc.Create(context.Background(), cmd); !errors.Is(err, ErrInvalidQuery) {
			t.Fatalf("expected ErrInvalidQuery, got %v", err)
		}
	})

	t.Run("shop limit enforced", func(t *testing.T) {
		repo := newFakeShopRepo()
		repo.ownerCount = 5
		svc := NewShopCommandService(repo, &fakeSettings{})
		_, err := svc.Create(context.Background(), validShopCommand("u1"))
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("limit from settings", func(t *testing.T) {
		repo := newFakeShopRepo()
		repo.ownerCount = 5
		settings := &fakeSettings{ints: map[string]int{"maxShopsPerUser": 10}}
		svc := NewShopCommandService(repo, settings)
		if _, err := svc.Create(context.Background(), validShopCommand("u1")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("pending by default", func(t *testing.T) {
		repo := newFakeShopRepo()
		svc := NewShopCommandService(repo, &fakeSettings{})
		shop, err := svc.Create(context.Background(), validShopCommand("u1"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if shop.Approved {
			t.Fatal("new shop must not be approved without autoApproveShops")
		}
	})

	t.Run("auto approve setting", func(t *testing.T) {
		repo := newFakeShopRepo()
		settings := &fakeSettings{bools: map[string]bool{"autoApproveShops": true}}
		svc := NewShopCommandService(repo, settings)
		shop, err := svc.Create(context.Background(), validShopCommand("u1"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !shop.Approved {
			t.Fatal("shop should be approved when autoApproveShops is on")
		}
	})

	t.Run("default categories and hours", func(t *testing.T) {
		repo := newFakeShopRepo()
		cmd := validShopCommand("u1")
		cmd.Categories = nil
		svc := NewShopCommandService(repo, nil)
		shop, err := svc.Create(context.Background(), cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(shop.Categories) != 1 || shop.Categories[0] != "General" {
			t.Fatalf("expected default category, got %v", shop.Categories)
		}
		if shop.OpeningHours.Monday.Open != "09:00" {
			t.Fatalf("expected default hours, got %+v", shop.OpeningHours.Monday)
		}
	})
}

func TestShopCommandServiceAuthorization(t *testing.T) {
	repo := newFakeShopRepo()
	repo.shops["s1"] = &domain.Shop{ID: "s1", OwnerID: "owner", Name: "Shop", Description: "d", Address: "a"}
	svc := NewShopCommandService(repo, nil)

	cmd := UpsertShopCommand{Name: "Shop", Description: "d", Address: "a"}
	if _, err := svc.Update(context.Background(), "s1", "intruder", cmd); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden on foreign update, got %v", err)
	}
	if err := svc.Delete(context.Background(), "s1", "intruder", false); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden on foreign delete, got %v", err)
	}
	if err := svc.Delete(context.Background(), "s1", "intruder", true); err != nil {
		t.Fatalf("admin delete should succeed, got %v", err)
	}
}

func TestReviewCommandServiceSubmit(t *testing.T) {
	shopRepo := newFakeShopRepo()
	shopRepo.shops["s1"] = &domain.Shop{ID: "s1", OwnerID: "owner", Name: "Healthy Bites"}

	base := SubmitReviewCommand{ShopID: "s1", UserID: "u1", UserName: "Ada", Rating: 5, Comment: "Great"}

	t.Run("rating bounds", func(t *testing.T) {
		svc := NewReviewCommandService(newFakeReviewRepo(), shopRepo, nil)
		for _, rating := range []int{0, 6, -1} {
			cmd := base
			cmd.Rating = rating
			if _, err := svc.Submit(context.Background(), cmd); !errors.Is(err, ErrInvalidQuery) {
				t.Fatalf("rating %d: expected ErrInvalidQuery, got %v", rating, err)
			}
		}
	})

	t.Run("comment too long", func(t *testing.T) {
		svc := NewReviewCommandService(newFakeReviewRepo(), shopRepo, nil)
		cmd := base
		cmd.Comment = strings.Repeat("a", 501)
		if _, err := svc.Submit(context.Background(), cmd); !errors.Is(err, ErrInvalidQuery) {
			t.Fatalf("expected ErrInvalidQuery, got %v", err)
		}
	})

	t.Run("unknown shop", func(t *testing.T) {
		svc := NewReviewCommandService(newFakeReviewRepo(), shopRepo, nil)
		cmd := base
		cmd.ShopID = "missing"
		if _, err := svc.Submit(context.Background(), cmd); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("one review per user per shop", func(t *testing.T) {
		reviewRepo := newFakeReviewRepo()
		svc := NewReviewCommandService(reviewRepo, shopRepo, nil)
		if _, err := svc.Submit(context.Background(), base); err != nil {
			t.Fatalf("first submit failed: %v", err)
		}
		if _, err := svc.Submit(context.Background(), base); !errors.Is(err, ErrDuplicate) {
			t.Fatalf("expected ErrDuplicate, got %v", err)
		}
		if reviewRepo.creates != 1 {
			t.Fatalf("expected exactly one created review, got %d", reviewRepo.creates)
		}
	})

	t.Run("owner gets notified", func(t *testing.T) {
		notifications := &fakeNotifications{}
		svc := NewReviewCommandService(newFakeReviewRepo(), shopRepo, notifications)
		if _, err := svc.Submit(context.Background(), base); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
		if len(notifications.created) != 1 {
			t.Fatalf("expected one notification, got %d", len(notifications.created))
		}
		notification := notifications.created[0]
		if notification.RecipientID != "owner" || notification.Type != domain.NotificationReview {
			t.Fatalf("unexpected notification: %+v", notification)
		}
		if notification.Message != "Healthy Bites received a new 5-star review" {
			t.Fatalf("unexpected message: %q", notification.Message)
		}
	})

	t.Run("self review is not notified", func(t *testing.T) {
		notifications := &fakeNotifications{}
		svc := NewReviewCommandService(newFakeReviewRepo(), shopRepo, notifications)
		cmd := base
		cmd.UserID = "owner"
		if _, err := svc.Submit(context.Background(), cmd); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
		if len(notifications.created) != 0 {
			t.Fatalf("expected no notification, got %d", len(notifications.created))
		}
	})
}

func TestReviewCommandServiceReply(t *testing.T) {
	shopRepo := newFakeShopRepo()
	shopRepo.shops["s1"] = &domain.Shop{ID: "s1", OwnerID: "owner", Name: "Healthy Bites"}
	reviewRepo := newFakeReviewRepo()
	reviewRepo.reviews["r1"] = &domain.Review{ID: "r1", ShopID: "s1", UserID: "u1", Rating: 4, Comment: "Nice"}

	svc := NewReviewCommandService(reviewRepo, shopRepo, nil)

	if _, err := svc.Reply(context.Background(), "r1", "stranger", false, "thanks"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for stranger, got %v", err)
	}
	if _, err := svc.Reply(context.Background(), "r1", "owner", false, "  "); !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery for empty text, got %v", err)
	}

	review, err := svc.Reply(context.Background(), "r1", "owner", false, "Thanks for visiting!")
	if err != nil {
		t.Fatalf("owner reply failed: %v", err)
	}
	if review.Reply == nil || review.Reply.Text != "Thanks for visiting!" || review.Reply.AuthorID != "owner" {
		t.Fatalf("unexpected reply: %+v", review.Reply)
	}

	if _, err := svc.Reply(context.Background(), "r1", "moderator", true, "Noted."); err != nil {
		t.Fatalf("admin reply failed: %v", err)
	}
}
