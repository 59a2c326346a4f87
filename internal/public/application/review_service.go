package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Austinekay/mainserver/internal/public/domain"
)

const maxReviewCommentRunes = 500

// ReviewQueryService describes review read use-cases.
type ReviewQueryService interface {
	ListForShop(ctx context.Context, shopID string, paging Paging) ([]domain.Review, int64, domain.ReviewStats, error)
}

// ReviewCommandService handles review writes.
type ReviewCommandService interface {
	Submit(ctx context.Context, cmd SubmitReviewCommand) (*domain.Review, error)
	Update(ctx context.Context, reviewID, actorID string, cmd UpdateReviewCommand) (*domain.Review, error)
	Delete(ctx context.Context, reviewID, actorID string, actorIsAdmin bool) error
	Reply(ctx context.Context, reviewID, actorID string, actorIsAdmin bool, text string) (*domain.Review, error)
}

// SubmitReviewCommand captures a new review.
type SubmitReviewCommand struct {
	ShopID   string
	UserID   string
	UserName string
	Rating   int
	Comment  string
	Photos   []string
}

// UpdateReviewCommand captures an edit; zero values leave fields untouched.
type UpdateReviewCommand struct {
	Rating  int
	Comment string
	Photos  []string
}

func NewReviewQueryService(reviews ReviewRepository) ReviewQueryService {
	return &reviewQueryService{reviews: reviews}
}

type reviewQueryService struct {
	reviews ReviewRepository
}

func (s *reviewQueryService) ListForShop(ctx context.Context, shopID string, paging Paging) ([]domain.Review, int64, domain.ReviewStats, error) {
	filter := ReviewFilter{ShopID: shopID}
	reviews, err := s.reviews.Find(ctx, filter, paging)
	if err != nil {
		return nil, 0, domain.ReviewStats{}, err
	}
	total, err := s.reviews.Count(ctx, filter)
	if err != nil {
		return nil, 0, domain.ReviewStats{}, err
	}
	stats, err := s.reviews.Stats(ctx, shopID)
	if err != nil {
		return nil, 0, domain.ReviewStats{}, err
	}
	return reviews, total, stats, nil
}

// NewReviewCommandService wires the review write use-cases. notifications is
// optional; when present the shop owner is notified of new reviews.
func NewReviewCommandService(reviews ReviewRepository, shops ShopRepository, notifications NotificationRepository) ReviewCommandService {
	return &reviewCommandService{reviews: reviews, shops: shops, notifications: notifications}
}

type reviewCommandService struct {
	reviews       ReviewRepository
	shops         ShopRepository
	notifications NotificationRepository
}

func (s *reviewCommandService) Submit(ctx context.Context, cmd SubmitReviewCommand) (*domain.Review, error) {
	if cmd.Rating < 1 || cmd.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidQuery)
	}
	comment := strings.TrimSpace(cmd.Comment)
	if comment == "" {
		return nil, fmt.Errorf("%w: comment is required", ErrInvalidQuery)
	}
	if utf8.RuneCountInString(comment) > maxReviewCommentRunes {
		return nil, fmt.Errorf("%w: comment must be at most %d characters", ErrInvalidQuery, maxReviewCommentRunes)
	}

	shop, err := s.shops.FindByID(ctx, cmd.ShopID)
	if err != nil {
		return nil, err
	}

	existing, err := s.reviews.FindByShopAndUser(ctx, cmd.ShopID, cmd.UserID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: you have already reviewed this shop", ErrDuplicate)
	}

	now := time.Now().UTC()
	review := &domain.Review{
		ShopID:    cmd.ShopID,
		UserID:    cmd.UserID,
		UserName:  cmd.UserName,
		Rating:    cmd.Rating,
		Comment:   comment,
		Photos:    append([]string{}, cmd.Photos...),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	if s.notifications != nil && shop.OwnerID != "" && shop.OwnerID != cmd.UserID {
		notification := &domain.Notification{
			RecipientID: shop.OwnerID,
			Type:        domain.NotificationReview,
			Title:       "New review",
			Message:     fmt.Sprintf("%s received a new %d-star review", shop.Name, cmd.Rating),
			ShopID:      shop.ID,
			ReviewID:    review.ID,
			CreatedAt:   now,
		}
		// Best effort; the review itself already persisted.
		_ = s.notifications.Create(ctx, notification)
	}

	return review, nil
}

func (s *reviewCommandService) Update(ctx context.Context, reviewID, actorID string, cmd UpdateReviewCommand) (*domain.Review, error) {
	review, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.UserID != actorID {
		return nil, fmt.Errorf("%w: not authorized to update this review", ErrForbidden)
	}

	if cmd.Rating != 0 {
		if cmd.Rating < 1 || cmd.Rating > 5 {
			return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidQuery)
		}
		review.Rating = cmd.Rating
	}
	if comment := strings.TrimSpace(cmd.Comment); comment != "" {
		if utf8.RuneCountInString(comment) > maxReviewCommentRunes {
			return nil, fmt.Errorf("%w: comment must be at most %d characters", ErrInvalidQuery, maxReviewCommentRunes)
		}
		review.Comment = comment
	}
	if len(cmd.Photos) > 0 {
		review.Photos = append([]string{}, cmd.Photos...)
	}
	review.UpdatedAt = time.Now().UTC()

	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewCommandService) Delete(ctx context.Context, reviewID, actorID string, actorIsAdmin bool) error {
	review, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.UserID != actorID && !actorIsAdmin {
		return fmt.Errorf("%w: not authorized to delete this review", ErrForbidden)
	}
	return s.reviews.Delete(ctx, reviewID)
}

func (s *reviewCommandService) Reply(ctx context.Context, reviewID, actorID string, actorIsAdmin bool, text string) (*domain.Review, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: reply text is required", ErrInvalidQuery)
	}

	review, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	shop, err := s.shops.FindByID(ctx, review.ShopID)
	if err != nil {
		return nil, err
	}
	if !actorIsAdmin && shop.OwnerID != actorID {
		return nil, fmt.Errorf("%w: not authorized to reply to this review", ErrForbidden)
	}

	review.Reply = &domain.ReviewReply{
		Text:     text,
		AuthorID: actorID,
		Date:     time.Now().UTC(),
	}
	review.UpdatedAt = review.Reply.Date

	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}
