package service

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/pollux-site/site-admin/internal/events"
	"github.com/pollux-site/site-admin/internal/repository"
	"github.com/pollux-site/site-admin/internal/sanitize"
	apperrors "github.com/pollux-site/site-admin/pkg/util/errorutil"
)

var contentKeyPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// ContentService reads and writes the editable site fields.
type ContentService struct {
	repo       repository.ContentRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	maxLength  int
}

// NewContentService builds the service. repo may be nil when no content store
// is configured; saves then fail with a 500.
func NewContentService(repo repository.ContentRepository, dispatcher events.Dispatcher, logger *zap.Logger, maxLength int) *ContentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentService{repo: repo, dispatcher: dispatcher, logger: logger, maxLength: maxLength}
}

// Save sanitizes and upserts every well-formed key, then publishes
// ContentSaved. Keys outside [a-z0-9_] are skipped. The returned count is the
// number of fields submitted.
func (s *ContentService) Save(ctx context.Context, updates map[string]any) (int, error) {
	if len(updates) == 0 {
		return 0, apperrors.NewValidationError("No content to save", nil)
	}
	if s.repo == nil {
		return 0, apperrors.NewDomainError("STORE_UNAVAILABLE", "Database not configured", http.StatusInternalServerError, nil)
	}

	keys := make([]string, 0, len(updates))
	for key := range updates {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	saved := make([]string, 0, len(keys))
	for _, key := range keys {
		if !contentKeyPattern.MatchString(key) {
			s.logger.Warn("skipping content key with invalid format", zap.String("key", key))
			continue
		}

		text, _ := updates[key].(string)
		value := sanitize.StripHTML(text, s.maxLength)
		if err := s.repo.Upsert(ctx, key, value); err != nil {
			return 0, apperrors.NewInternalError(fmt.Errorf("save content %s: %w", key, err))
		}
		saved = append(saved, key)
	}

	if s.dispatcher != nil {
		event := events.NewEvent(events.EventContentSaved, time.Now(), events.ContentSavedPayload{Keys: saved})
		if err := s.dispatcher.Publish(ctx, event); err != nil {
			s.logger.Warn("content saved handlers failed", zap.Error(err))
		}
	}

	return len(updates), nil
}

// All returns every stored field as key -> value.
func (s *ContentService) All(ctx context.Context) (map[string]string, error) {
	if s.repo == nil {
		return nil, apperrors.NewDomainError("STORE_UNAVAILABLE", "Database not configured", http.StatusInternalServerError, nil)
	}
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("list content: %w", err))
	}
	content := make(map[string]string, len(entries))
	for _, entry := range entries {
		content[entry.Key] = entry.Value
	}
	return content, nil
}
