package application

import (
	"context"
	"log"

	admindomain "github.com/Austinekay/mainserver/internal/admin/domain"
)

// SettingsService manages the platform-wide runtime settings.
type SettingsService interface {
	All(ctx context.Context) ([]admindomain.Setting, error)
	Set(ctx context.Context, key string, value any) (*admindomain.Setting, error)
	Bool(ctx context.Context, key string, fallback bool) bool
	Int(ctx context.Context, key string, fallback int) int
	String(ctx context.Context, key string, fallback string) string
	EnsureDefaults(ctx context.Context) error
}

// DefaultSettings は初回起動時に投入される設定値。
func DefaultSettings() []admindomain.Setting {
	return []admindomain.Setting{
		{Key: "autoApproveShops", Value: false, Description: "Automatically approve newly registered shops", Category: "moderation"},
		{Key: "maintenanceMode", Value: false, Description: "Reject public write operations while enabled", Category: "system"},
		{Key: "maxShopsPerUser", Value: 5, Description: "Maximum number of shops one owner may register", Category: "moderation"},
		{Key: "sessionTimeout", Value: 30, Description: "Session timeout in minutes", Category: "security"},
		{Key: "backupFrequency", Value: "daily", Description: "How often data backups run", Category: "system"},
	}
}

type settingsService struct {
	repo   SettingsRepository
	logger *log.Logger
}

func NewSettingsService(repo SettingsRepository, logger *log.Logger) SettingsService {
	return &settingsService{repo: repo, logger: logger}
}

func (s *settingsService) All(ctx context.Context) ([]admindomain.Setting, error) {
	return s.repo.All(ctx)
}

func (s *settingsService) Set(ctx context.Context, key string, value any) (*admindomain.Setting, error) {
	return s.repo.Upsert(ctx, key, value)
}

func (s *settingsService) EnsureDefaults(ctx context.Context) error {
	return s.repo.EnsureDefaults(ctx, DefaultSettings())
}

func (s *settingsService) Bool(ctx context.Context, key string, fallback bool) bool {
	setting, err := s.repo.Get(ctx, key)
	if err != nil || setting == nil {
		return fallback
	}
	value, ok := setting.Value.(bool)
	if !ok {
		s.warnType(key)
		return fallback
	}
	return value
}

func (s *settingsService) Int(ctx context.Context, key string, fallback int) int {
	setting, err := s.repo.Get(ctx, key)
	if err != nil || setting == nil {
		return fallback
	}
	// Mongo はドライバ次第で int32/int64/float64 を返すため全て受ける。
	switch value := setting.Value.(type) {
	case int:
		return value
	case int32:
		return int(value)
	case int64:
		return int(value)
	case float64:
		return int(value)
	default:
		s.warnType(key)
		return fallback
	}
}

func (s *settingsService) String(ctx context.Context, key string, fallback string) string {
	setting, err := s.repo.Get(ctx, key)
	if err != nil || setting == nil {
		return fallback
	}
	value, ok := setting.Value.(string)
	if !ok {
		s.warnType(key)
		return fallback
	}
	return value
}

func (s *settingsService) warnType(key string) {
	if s.logger != nil {
		s.logger.Printf("設定 %s の型が想定外のため既定値を使用します", key)
	}
}
