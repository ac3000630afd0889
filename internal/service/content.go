package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

const (
	contentKeyPrefix = "content:"
	contentAllKey    = "contents:all"
	contentGenKey    = "contents:gen"
)

type ContentCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Delete(ctx context.Context, keys ...string) error
	Generation(ctx context.Context, genKey string) (int64, error)
	Bump(ctx context.Context, genKey string) (int64, error)
	SetIfGeneration(ctx context.Context, genKey string, gen int64, key string, value []byte) (bool, error)
}

// ContentService is a read-through cache over the contents table. Every
// write goes through Save, which bumps the content generation, refreshes the
// key and drops the aggregate. Readers only fill a miss if no Save committed
// since they started.
type ContentService struct {
	Repo  *repo.GormRepo
	Cache ContentCache
}

// Get returns nil when the key does not exist.
func (s *ContentService) Get(ctx context.Context, key string) (models.JSON, error) {
	l := logging.FromContext(ctx).With("svc", "content.get", "key", key)

	if b, ok, err := s.Cache.Get(ctx, contentKeyPrefix+key); err != nil {
		l.Warn("content_cache_read_failed", "error", err)
	} else if ok {
		return models.JSON(b), nil
	}

	gen, genErr := s.Cache.Generation(ctx, contentGenKey)
	c, err := s.Repo.GetContent(ctx, key)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	s.fill(ctx, l, gen, genErr, contentKeyPrefix+key, c.Value)
	return c.Value, nil
}

func (s *ContentService) fill(ctx context.Context, l *slog.Logger, gen int64, genErr error, key string, value []byte) {
	if genErr != nil {
		l.Warn("content_cache_read_failed", "error", genErr)
		return
	}
	ok, err := s.Cache.SetIfGeneration(ctx, contentGenKey, gen, key, value)
	if err != nil {
		l.Warn("content_cache_write_failed", "error", err)
		return
	}
	if !ok {
		l.Debug("content_cache_fill_skipped", "cache_key", key)
	}
}

func (s *ContentService) All(ctx context.Context) (map[string]models.JSON, error) {
	l := logging.FromContext(ctx).With("svc", "content.all")

	if b, ok, err := s.Cache.Get(ctx, contentAllKey); err != nil {
		l.Warn("content_cache_read_failed", "error", err)
	} else if ok {
		var out map[string]models.JSON
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		l.Warn("content_cache_corrupt", "key", contentAllKey)
	}

	gen, genErr := s.Cache.Generation(ctx, contentGenKey)
	list, err := s.Repo.AllContents(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]models.JSON, len(list))
	for _, c := range list {
		out[c.Key] = c.Value
	}

	if b, err := json.Marshal(out); err == nil {
		s.fill(ctx, l, gen, genErr, contentAllKey, b)
	}
	return out, nil
}

func (s *ContentService) Save(ctx context.Context, key string, value models.JSON) (*models.Content, error) {
	l := logging.FromContext(ctx).With("svc", "content.save", "key", key)

	key = strings.TrimSpace(key)
	if key == "" {
		return nil, invalid("key", "The key field is required.")
	}
	if len(key) > 191 {
		return nil, invalid("key", "The key field must not be greater than 191 characters.")
	}
	if value.IsNull() {
		value = models.JSON("null")
	}

	c := &models.Content{Key: key, Value: value}
	if err := s.Repo.UpsertContent(ctx, c); err != nil {
		l.Error("content_save_failed", "error", err)
		return nil, err
	}

	stale := []string{contentAllKey}
	if gen, err := s.Cache.Bump(ctx, contentGenKey); err != nil {
		l.Warn("content_cache_write_failed", "error", err)
		stale = append(stale, contentKeyPrefix+key)
	} else if ok, err := s.Cache.SetIfGeneration(ctx, contentGenKey, gen, contentKeyPrefix+key, value); err != nil || !ok {
		if err != nil {
			l.Warn("content_cache_write_failed", "error", err)
		}
		stale = append(stale, contentKeyPrefix+key)
	}
	if err := s.Cache.Delete(ctx, stale...); err != nil {
		l.Warn("content_cache_invalidate_failed", "error", err)
	}

	l.Info("content_saved")
	return c, nil
}

// UpdateContent saves several keys through the same path as Save.
func (s *ContentService) UpdateContent(ctx context.Context, values map[string]models.JSON) error {
	for k, v := range values {
		if _, err := s.Save(ctx, k, v); err != nil {
			return err
		}
	}
	return nil
}
