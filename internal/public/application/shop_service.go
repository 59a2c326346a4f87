package application

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Austinekay/mainserver/internal/public/domain"
)

// SettingsReader exposes the runtime settings the shop use-cases consult.
type SettingsReader interface {
	Bool(ctx context.Context, key string, fallback bool) bool
	Int(ctx context.Context, key string, fallback int) int
}

// ShopQueryService describes public read use-cases.
// ShopQueryService は店舗の参照ユースケースを提供するリーダーモデル。
type ShopQueryService interface {
	List(ctx context.Context, filter ShopFilter) ([]domain.Shop, error)
	SearchNearby(ctx context.Context, query GeoQuery) ([]domain.Shop, error)
	Detail(ctx context.Context, id string) (*domain.Shop, error)
	ByOwner(ctx context.Context, ownerID string) ([]domain.Shop, error)
	Status(ctx context.Context, id string, now time.Time) (domain.ShopStatus, error)
}

// ShopCommandService describes owner-facing write use-cases.
type ShopCommandService interface {
	Create(ctx context.Context, cmd UpsertShopCommand) (*domain.Shop, error)
	Update(ctx context.Context, id string, actorID string, cmd UpsertShopCommand) (*domain.Shop, error)
	Delete(ctx context.Context, id string, actorID string, actorIsAdmin bool) error
}

// UpsertShopCommand captures owner input for creating/updating a shop.
type UpsertShopCommand struct {
	OwnerID      string
	Name         string
	Description  string
	Address      string
	Contact      string
	Categories   []string
	Images       []string
	Location     *domain.GeoPoint
	OpeningHours *domain.WeekHours
}

const maxShopDescriptionRunes = 2000

func (c UpsertShopCommand) validate(requireLocation bool) error {
	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Description) == "" || strings.TrimSpace(c.Address) == "" {
		return fmt.Errorf("%w: name, description, and address are required", ErrInvalidQuery)
	}
	if utf8.RuneCountInString(c.Description) > maxShopDescriptionRunes {
		return fmt.Errorf("%w: description must be at most %d characters", ErrInvalidQuery, maxShopDescriptionRunes)
	}
	if c.Location == nil {
		if requireLocation {
			return fmt.Errorf("%w: valid location coordinates are required", ErrInvalidQuery)
		}
		return nil
	}
	if err := c.Location.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	return nil
}

func NewShopQueryService(repo ShopRepository) ShopQueryService {
	return &shopQueryService{repo: repo}
}

type shopQueryService struct {
	repo ShopRepository
}

func (s *shopQueryService) List(ctx context.Context, filter ShopFilter) ([]domain.Shop, error) {
	return s.repo.Find(ctx, filter)
}

func (s *shopQueryService) SearchNearby(ctx context.Context, query GeoQuery) ([]domain.Shop, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return s.repo.FindNearby(ctx, query)
}

func (s *shopQueryService) Detail(ctx context.Context, id string) (*domain.Shop, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *shopQueryService) ByOwner(ctx context.Context, ownerID string) ([]domain.Shop, error) {
	return s.repo.FindByOwner(ctx, ownerID)
}

func (s *shopQueryService) Status(ctx context.Context, id string, now time.Time) (domain.ShopStatus, error) {
	shop, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.ShopStatus{}, err
	}
	return shop.OpeningHours.StatusAt(now), nil
}

// NewShopCommandService wires the write use-cases. settings may be nil in
// tests; defaults then apply.
func NewShopCommandService(repo ShopRepository, settings SettingsReader) ShopCommandService {
	return &shopCommandService{repo: repo, settings: settings}
}

type shopCommandService struct {
	repo     ShopRepository
	settings SettingsReader
}

const (
	settingAutoApproveShops = "autoApproveShops"
	settingMaxShopsPerUser  = "maxShopsPerUser"
)

func (s *shopCommandService) Create(ctx context.Context, cmd UpsertShopCommand) (*domain.Shop, error) {
	if err := cmd.validate(true); err != nil {
		return nil, err
	}

	maxShops := 5
	autoApprove := false
	if s.settings != nil {
		maxShops = s.settings.Int(ctx, settingMaxShopsPerUser, maxShops)
		autoApprove = s.settings.Bool(ctx, settingAutoApproveShops, autoApprove)
	}
	if maxShops > 0 {
		count, err := s.repo.CountByOwner(ctx, cmd.OwnerID)
		if err != nil {
			return nil, err
		}
		if count >= int64(maxShops) {
			return nil, fmt.Errorf("%w: shop limit of %d reached", ErrForbidden, maxShops)
		}
	}

	categories := normalizeCategories(cmd.Categories)
	hours := domain.DefaultWeekHours()
	if cmd.OpeningHours != nil {
		hours = *cmd.OpeningHours
	}

	now := time.Now().UTC()
	shop := &domain.Shop{
		OwnerID:      cmd.OwnerID,
		Name:         strings.TrimSpace(cmd.Name),
		Description:  strings.TrimSpace(cmd.Description),
		Address:      strings.TrimSpace(cmd.Address),
		Contact:      strings.TrimSpace(cmd.Contact),
		Categories:   categories,
		Images:       append([]string{}, cmd.Images...),
		Location:     *cmd.Location,
		Approved:     autoApprove,
		OpeningHours: hours,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, shop); err != nil {
		return nil, err
	}
	return shop, nil
}

func (s *shopCommandService) Update(ctx context.Context, id string, actorID string, cmd UpsertShopCommand) (*domain.Shop, error) {
	if err := cmd.validate(false); err != nil {
		return nil, err
	}

	shop, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if shop.OwnerID != actorID {
		return nil, fmt.Errorf("%w: not authorized to update this shop", ErrForbidden)
	}

	shop.Name = strings.TrimSpace(cmd.Name)
	shop.Description = strings.TrimSpace(cmd.Description)
	shop.Address = strings.TrimSpace(cmd.Address)
	shop.Contact = strings.TrimSpace(cmd.Contact)
	if len(cmd.Categories) > 0 {
		shop.Categories = normalizeCategories(cmd.Categories)
	}
	if len(cmd.Images) > 0 {
		shop.Images = append([]string{}, cmd.Images...)
	}
	if cmd.Location != nil {
		shop.Location = *cmd.Location
	}
	if cmd.OpeningHours != nil {
		shop.OpeningHours = *cmd.OpeningHours
	}
	shop.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, shop); err != nil {
		return nil, err
	}
	return shop, nil
}

func (s *shopCommandService) Delete(ctx context.Context, id string, actorID string, actorIsAdmin bool) error {
	shop, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !actorIsAdmin && shop.OwnerID != actorID {
		return fmt.Errorf("%w: not authorized to delete this shop", ErrForbidden)
	}
	return s.repo.Delete(ctx, id)
}

func normalizeCategories(values []string) []string {
	result := make([]string, 0, len(values))
	seen := make(map[string]struct{})
	for _, raw := range values {
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		key := strings.ToLower(value)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, value)
	}
	if len(result) == 0 {
		result = append(result, "General")
	}
	return result
}
