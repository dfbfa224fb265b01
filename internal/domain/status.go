package domain

// PostStatus — статус поста в жизненном цикле публикации.
//
// Жизненный цикл:
//
//	draft ⇄ scheduled → published (терминальный)
//	            ↓
//	         failed → scheduled / draft (ручной retry)
//
// Переходы в published и failed выполняет только scheduler.
type PostStatus string

const (
	// StatusDraft — черновик, scheduler его не трогает.
	StatusDraft PostStatus = "draft"

	// StatusScheduled — пост ожидает публикации в ScheduledAt.
	StatusScheduled PostStatus = "scheduled"

	// StatusPublished — пост опубликован. Терминальный статус:
	// из него нет переходов, пост неизменяем.
	StatusPublished PostStatus = "published"

	// StatusFailed — публикация не удалась. Пользователь может
	// вернуть пост в scheduled или draft.
	StatusFailed PostStatus = "failed"
)

// IsTerminal возвращает true, если из статуса нет переходов.
func (s PostStatus) IsTerminal() bool {
	return s == StatusPublished
}

// IsValid проверяет, что статус входит в перечисление.
func (s PostStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusScheduled, StatusPublished, StatusFailed:
		return true
	default:
		return false
	}
}
