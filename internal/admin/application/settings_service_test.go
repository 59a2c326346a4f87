package application

import (
	"context"
	"testing"

	admindomain "github.com/Austinekay/mainserver/internal/admin/domain"
)

type fakeSettingsRepo struct {
	values map[string]any
}

func (f *fakeSettingsRepo) Get(_ context.Context, key string) (*admindomain.Setting, error) {
	value, ok := f.values[key]
	if !ok {
		return nil, nil
	}
	return &admindomain.Setting{Key: key, Value: value}, nil
}

func (f *fakeSettingsRepo) All(_ context.Context) ([]admindomain.Setting, error) {
	return nil, nil
}

func (f *fakeSettingsRepo) Upsert(_ context.Context, key string, value any) (*admindomain.Setting, error) {
	f.values[key] = value
	return &admindomain.Setting{Key: key, Value: value}, nil
}

func (f *fakeSettingsRepo) EnsureDefaults(_ context.Context, defaults []admindomain.Setting) error {
	for _, setting := range defaults {
		if _, ok := f.values[setting.Key]; !ok {
			f.values[setting.Key] = setting.Value
		}
	}
	return nil
}

func TestSettingsServiceInt(t *testing.T) {
	// BSON デコードは数値を int32/int64/float64 で返すことがある。
	repo := &fakeSettingsRepo{values: map[string]any{
		"asInt":     7,
		"asInt32":   int32(8),
		"asInt64":   int64(9),
		"asFloat":   float64(10),
		"wrongType": "not a number",
	}}
	svc := NewSettingsService(repo, nil)
	ctx := context.Background()

	cases := []struct {
		key  string
		want int
	}{
		{"asInt", 7},
		{"asInt32", 8},
		{"asInt64", 9},
		{"asFloat", 10},
		{"wrongType", 42},
		{"missing", 42},
	}
	for _, tc := range cases {
		if got := svc.Int(ctx, tc.key, 42); got != tc.want {
			t.Fatalf("Int(%s): got %d, want %d", tc.key, got, tc.want)
		}
	}
}

func TestSettingsServiceBoolAndString(t *testing.T) {
	repo := &fakeSettingsRepo{values: map[string]any{
		"maintenanceMode": true,
		"backupFrequency": "weekly",
	}}
	svc := NewSettingsService(repo, nil)
	ctx := context.Background()

	if !svc.Bool(ctx, "maintenanceMode", false) {
		t.Fatal("expected maintenanceMode true")
	}
	if svc.Bool(ctx, "autoApproveShops", false) {
		t.Fatal("expected fallback false for missing key")
	}
	if got := svc.String(ctx, "backupFrequency", "daily"); got != "weekly" {
		t.Fatalf("unexpected backupFrequency: %q", got)
	}
	if got := svc.String(ctx, "missing", "daily"); got != "daily" {
		t.Fatalf("unexpected fallback: %q", got)
	}
}

func TestSettingsServiceEnsureDefaults(t *testing.T) {
	repo := &fakeSettingsRepo{values: map[string]any{"maxShopsPerUser": 12}}
	svc := NewSettingsService(repo, nil)

	if err := svc.EnsureDefaults(context.Background()); err != nil {
		t.Fatalf("EnsureDefaults: %v", err)
	}
	// 既存の値は上書きされない。
	if got := svc.Int(context.Background(), "maxShopsPerUser", 5); got != 12 {
		t.Fatalf("existing setting overwritten: %d", got)
	}
	if got := svc.String(context.Background(), "backupFrequency", ""); got != "daily" {
		t.Fatalf("default not seeded: %q", got)
	}
}
