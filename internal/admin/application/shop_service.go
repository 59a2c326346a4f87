package application

import (
	"context"
	"fmt"

	admindomain "github.com/Austinekay/mainserver/internal/admin/domain"
	publicapp "github.com/Austinekay/mainserver/internal/public/application"
	publicdomain "github.com/Austinekay/mainserver/internal/public/domain"
)

// shopService implements ShopService.
type shopService struct {
	repo          ShopRepository
	notifications NotificationWriter
}

func NewShopService(repo ShopRepository, notifications NotificationWriter) ShopService {
	return &shopService{repo: repo, notifications: notifications}
}

func (s *shopService) List(ctx context.Context, filter ShopFilter, paging Paging) ([]admindomain.Shop, error) {
	return s.repo.Find(ctx, filter, paging)
}

func (s *shopService) Detail(ctx context.Context, id string) (*admindomain.Shop, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *shopService) Update(ctx context.Context, id string, cmd UpdateShopCommand) (*admindomain.Shop, error) {
	shop, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cmd.Name != "" {
		shop.Name = cmd.Name
	}
	if cmd.Description != "" {
		shop.Description = cmd.Description
	}
	if cmd.Address != "" {
		shop.Address = cmd.Address
	}
	if cmd.Contact != "" {
		shop.Contact = cmd.Contact
	}
	if len(cmd.Categories) > 0 {
		categories, err := admindomain.NewCategoryList(cmd.Categories)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", publicapp.ErrInvalidQuery, err)
		}
		shop.Categories = categories
	}
	if cmd.Images != nil {
		images, err := admindomain.NewImageURLList(cmd.Images, 0)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", publicapp.ErrInvalidQuery, err)
		}
		shop.Images = images
	}
	if cmd.Location != nil {
		shop.Location = *cmd.Location
	}
	if cmd.OpeningHours != nil {
		shop.OpeningHours = *cmd.OpeningHours
	}
	if cmd.Approved != nil {
		shop.Approved = *cmd.Approved
	}
	if err := s.repo.Update(ctx, shop); err != nil {
		return nil, err
	}
	return shop, nil
}

func (s *shopService) Approve(ctx context.Context, id string) (*admindomain.Shop, error) {
	shop, err := s.repo.SetApproval(ctx, id, true)
	if err != nil {
		return nil, err
	}
	s.notifyOwner(ctx, shop, publicdomain.NotificationShopApproved,
		"Shop approved",
		fmt.Sprintf("Your shop %q has been approved and is now visible to customers", shop.Name))
	return shop, nil
}

func (s *shopService) Reject(ctx context.Context, id string) (*admindomain.Shop, error) {
	shop, err := s.repo.SetApproval(ctx, id, false)
	if err != nil {
		return nil, err
	}
	s.notifyOwner(ctx, shop, publicdomain.NotificationShopRejected,
		"Shop suspended",
		fmt.Sprintf("Your shop %q has been suspended and is no longer visible to customers", shop.Name))
	return shop, nil
}

func (s *shopService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *shopService) Stats(ctx context.Context) (PlatformStats, error) {
	total, err := s.repo.CountAll(ctx)
	if err != nil {
		return PlatformStats{}, err
	}
	approved, err := s.repo.CountApproved(ctx)
	if err != nil {
		return PlatformStats{}, err
	}
	categories, err := s.repo.CategoryCounts(ctx)
	if err != nil {
		return PlatformStats{}, err
	}
	if categories == nil {
		categories = []CategoryCount{}
	}
	return PlatformStats{
		TotalShops:    total,
		ApprovedShops: approved,
		PendingShops:  total - approved,
		TopCategories: categories,
	}, nil
}

// 通知の失敗でモデレーション自体を失敗させない。
func (s *shopService) notifyOwner(ctx context.Context, shop *admindomain.Shop, kind publicdomain.NotificationType, title, message string) {
	if s.notifications == nil || shop.OwnerID == "" {
		return
	}
	_ = s.notifications.Create(ctx, &publicdomain.Notification{
		RecipientID: shop.OwnerID,
		Type:        kind,
		Title:       title,
		Message:     message,
		ShopID:      shop.ID,
	})
}
