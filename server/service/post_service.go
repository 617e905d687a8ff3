package service

import (
	"context"
	"encoding/json"
	"time"

	"tedbus_server/server/common/log"
	"tedbus_server/server/domain"
)

type PostRepository interface {
	Insert(ctx context.Context, post domain.Post) (string, error)
	ListNewestFirst(ctx context.Context) ([]domain.Post, error)
}

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

const (
	postsCacheKey = "posts:recent"
	postsCacheTTL = 30 * time.Second
)

type PostService struct {
	posts PostRepository
	cache Cache
	now   func() time.Time
}

// NewPostService builds the feed service; cache may be nil to serve every
// read from the repository.
func NewPostService(posts PostRepository, cache Cache) *PostService {
	return &PostService{posts: posts, cache: cache, now: time.Now}
}

func (s *PostService) Create(ctx context.Context, post domain.Post) (string, error) {
	post.CreatedAt = s.now().UTC()
	id, err := s.posts.Insert(ctx, post)
	if err != nil {
		return "", err
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, postsCacheKey); err != nil {
			log.Warnf("invalidate posts cache: %v", err)
		}
	}
	return id, nil
}

// List returns the feed newest first. An empty collection yields the single
// default welcome post instead of an empty page.
func (s *PostService) List(ctx context.Context) ([]domain.Post, error) {
	if s.cache != nil {
		raw, ok, err := s.cache.Get(ctx, postsCacheKey)
		if err != nil {
			log.Warnf("read posts cache: %v", err)
		} else if ok {
			var cached []domain.Post
			if json.Unmarshal(raw, &cached) == nil {
				return cached, nil
			}
		}
	}

	posts, err := s.posts.ListNewestFirst(ctx)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		posts = []domain.Post{defaultWelcomePost(s.now().UTC())}
	}

	if s.cache != nil {
		if raw, err := json.Marshal(posts); err == nil {
			if err := s.cache.Set(ctx, postsCacheKey, raw, postsCacheTTL); err != nil {
				log.Warnf("write posts cache: %v", err)
			}
		}
	}
	return posts, nil
}

func defaultWelcomePost(now time.Time) domain.Post {
	return domain.Post{
		Title:      "Welcome to Tedbus Community 🎉",
		Content:    "This is a default post. Share your travel stories here!",
		AuthorName: "System",
		CreatedAt:  now,
	}
}
