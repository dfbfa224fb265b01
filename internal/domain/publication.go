package domain

import (
	"time"

	"github.com/google/uuid"
)

// PublicationRecord — запись журнала публикаций.
//
// Журнал append-only: запись создаётся ровно один раз scheduler'ом
// и никогда не обновляется и не удаляется. Уникальность по PostID
// обеспечивает БД — существование записи является долговременным
// доказательством того, что пост уже обработан.
type PublicationRecord struct {
	// ID — уникальный идентификатор записи.
	ID uuid.UUID `json:"id"`

	// PostID — пост, к которому относится запись. Не более одной
	// записи на пост (уникальный индекс в БД).
	PostID uuid.UUID `json:"post_id"`

	// PublishedAt — момент публикации, фиксируется при вставке.
	PublishedAt time.Time `json:"published_at"`

	// CreatedAt — время создания записи.
	CreatedAt time.Time `json:"created_at"`
}
