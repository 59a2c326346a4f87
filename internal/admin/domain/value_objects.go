package domain

import (
	"fmt"
	"regexp"
	"strings"
)

type Coordinates struct {
	Lng float64
	Lat float64
}

func NewCoordinates(lng, lat float64) (Coordinates, error) {
	if lng < -180 || lng > 180 {
		return Coordinates{}, fmt.Errorf("longitude must be between -180 and 180")
	}
	if lat < -90 || lat > 90 {
		return Coordinates{}, fmt.Errorf("latitude must be between -90 and 90")
	}
	return Coordinates{Lng: lng, Lat: lat}, nil
}

type Category string

func NewCategory(value string) (Category, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("category is required")
	}
	return Category(trimmed), nil
}

type CategoryList []Category

func NewCategoryList(values []string) (CategoryList, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("categories must not be empty")
	}
	result := make([]Category, 0, len(values))
	seen := make(map[string]struct{})
	for _, raw := range values {
		value, err := NewCategory(raw)
		if err != nil {
			return nil, err
		}
		key := strings.ToLower(string(value))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, value)
	}
	return CategoryList(result), nil
}

func (l CategoryList) Strings() []string {
	result := make([]string, 0, len(l))
	for _, v := range l {
		result = append(result, string(v))
	}
	return result
}

var timeOfDayPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// TimeOfDay is a zero-padded 24-hour "HH:MM" string.
type TimeOfDay string

func NewTimeOfDay(value string) (TimeOfDay, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	if !timeOfDayPattern.MatchString(trimmed) {
		return "", fmt.Errorf("invalid time of day: %s (expected HH:MM)", trimmed)
	}
	return TimeOfDay(trimmed), nil
}

func (t TimeOfDay) String() string {
	return string(t)
}

type ImageURL string

func NewImageURL(value string) (ImageURL, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("image URL is required")
	}
	if len(trimmed) > 2048 {
		return "", fmt.Errorf("image URL too long")
	}
	return ImageURL(trimmed), nil
}

type ImageURLList []ImageURL

func NewImageURLList(values []string, limit int) (ImageURLList, error) {
	if len(values) == 0 {
		return nil, nil
	}
	if limit > 0 && len(values) > limit {
		return nil, fmt.Errorf("image URLs must be <= %d", limit)
	}
	result := make([]ImageURL, 0, len(values))
	for _, raw := range values {
		urlValue, err := NewImageURL(raw)
		if err != nil {
			return nil, err
		}
		result = append(result, urlValue)
	}
	return ImageURLList(result), nil
}

func (l ImageURLList) Strings() []string {
	result := make([]string, 0, len(l))
	for _, v := range l {
		result = append(result, string(v))
	}
	return result
}
