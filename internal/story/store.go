// README: Story archive backed by PostgreSQL.
package story

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Archive is one persisted generation record.
type Archive struct {
	SessionID  string
	StartLabel string
	EndLabel   string
	Style      Style
	Language   Language
	Provider   string
	Text       string
	CreatedAt  time.Time
}

// Store appends completed narratives to the story archive. A nil Store (no
// database configured) is valid and appends nothing.
type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	if db == nil {
		return nil
	}
	return &Store{db: db}
}

func (s *Store) Append(ctx context.Context, a Archive) error {
	if s == nil {
		return nil
	}
	_, err := s.db.Exec(ctx, `
        INSERT INTO story_archive (
            session_id, start_label, end_label, style, language, provider, story_text, created_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8
        )`,
		a.SessionID,
		a.StartLabel,
		a.EndLabel,
		string(a.Style),
		string(a.Language),
		a.Provider,
		a.Text,
		a.CreatedAt,
	)
	return err
}
