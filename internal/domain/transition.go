package domain

import "errors"

// Actor — инициатор перехода статуса.
//
// Привилегия перехода определяется явным актором, а не тем, какой
// код вызвал переход: только scheduler может устанавливать
// published и failed.
type Actor string

const (
	// ActorUser — пользователь через API.
	ActorUser Actor = "user"

	// ActorScheduler — фоновый процесс публикации.
	ActorScheduler Actor = "scheduler"
)

// Ошибки переходов. Каждая причина отказа различима для вызывающего.
var (
	// ErrTerminalStatus — пост в published, переходы запрещены.
	ErrTerminalStatus = errors.New("published post is immutable")

	// ErrPrivilegedTransition — переход доступен только scheduler.
	ErrPrivilegedTransition = errors.New("transition is reserved for the scheduler")

	// ErrSameStatus — запрошен текущий статус (no-op).
	ErrSameStatus = errors.New("status unchanged")

	// ErrIllegalTransition — переход не предусмотрен машиной состояний.
	ErrIllegalTransition = errors.New("illegal status transition")
)

// ApplyTransition — чистая машина состояний публикации.
//
// Таблица переходов:
//
//	draft     → scheduled          user
//	scheduled → draft              user
//	scheduled → published, failed  только scheduler
//	failed    → scheduled, draft   user (ручной retry)
//	published → *                  запрещено (терминальный)
//
// Возвращает новый статус либо ошибку с различимой причиной отказа:
// ErrTerminalStatus, ErrPrivilegedTransition, ErrSameStatus,
// ErrIllegalTransition.
func ApplyTransition(current, requested PostStatus, actor Actor) (PostStatus, error) {
	if current == requested {
		return current, ErrSameStatus
	}

	if current.IsTerminal() {
		return current, ErrTerminalStatus
	}

	// published и failed устанавливает только scheduler
	if requested == StatusPublished || requested == StatusFailed {
		if actor != ActorScheduler {
			return current, ErrPrivilegedTransition
		}
		// scheduler работает только с scheduled-постами
		if current != StatusScheduled {
			return current, ErrIllegalTransition
		}
		return requested, nil
	}

	// пользовательские переходы между draft / scheduled / failed
	switch {
	case current == StatusDraft && requested == StatusScheduled:
		return requested, nil
	case current == StatusScheduled && requested == StatusDraft:
		return requested, nil
	case current == StatusFailed && (requested == StatusScheduled || requested == StatusDraft):
		return requested, nil
	}

	return current, ErrIllegalTransition
}
