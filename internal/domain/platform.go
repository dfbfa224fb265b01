package domain

import "fmt"

// Platform — целевая социальная площадка поста.
type Platform string

// Поддерживаемые площадки.
const (
	PlatformTwitter   Platform = "twitter"
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
)

// Platforms возвращает список всех поддерживаемых площадок.
func Platforms() []Platform {
	return []Platform{PlatformTwitter, PlatformFacebook, PlatformInstagram}
}

// IsValid проверяет, что площадка входит в перечисление.
func (p Platform) IsValid() bool {
	switch p {
	case PlatformTwitter, PlatformFacebook, PlatformInstagram:
		return true
	default:
		return false
	}
}

// NormalizePlatforms валидирует список площадок и убирает дубликаты,
// сохраняя порядок первого вхождения. Пустой список — ошибка.
func NormalizePlatforms(platforms []Platform) ([]Platform, error) {
	if len(platforms) == 0 {
		return nil, fmt.Errorf("at least one platform is required")
	}

	seen := make(map[Platform]bool, len(platforms))
	result := make([]Platform, 0, len(platforms))
	for _, p := range platforms {
		if !p.IsValid() {
			return nil, fmt.Errorf("invalid platform %q", p)
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		result = append(result, p)
	}
	return result, nil
}
