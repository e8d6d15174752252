// README: Story generation service: provider streaming plus archive and metrics.
package story

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"fable/internal/metrics"
)

// Service wraps a Provider with fragment accounting and best-effort archiving.
type Service struct {
	provider Provider
	store    *Store
	maxWords int
}

func NewService(provider Provider, store *Store, maxWords int) *Service {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}
	return &Service{provider: provider, store: store, maxWords: maxWords}
}

// Generate streams a narrative for the request, forwarding each fragment to
// emit in arrival order, and archives the completed text. Provider errors
// (including a missing credential) propagate to the caller; archive failures
// do not.
func (s *Service) Generate(ctx context.Context, sessionID string, req Request, emit func(string)) error {
	if req.MaxWords <= 0 {
		req.MaxWords = s.maxWords
	}
	var full strings.Builder

	err := s.provider.StreamStory(ctx, req, func(fragment string) {
		full.WriteString(fragment)
		metrics.StoryFragments.Inc()
		emit(fragment)
	})

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.StoryGenerations.WithLabelValues(s.provider.Name(), status).Inc()
	if err != nil {
		return err
	}

	if archiveErr := s.store.Append(ctx, Archive{
		SessionID:  sessionID,
		StartLabel: req.Start.Label,
		EndLabel:   req.End.Label,
		Style:      req.Style,
		Language:   req.Language,
		Provider:   s.provider.Name(),
		Text:       full.String(),
		CreatedAt:  time.Now(),
	}); archiveErr != nil {
		slog.Warn("story archive append failed", "session", sessionID, "err", archiveErr)
	}
	return nil
}
