package service

import (
	"context"
	"testing"

	"github.com/okian/marquee/internal/adapters/cache/questioncache"
	"github.com/okian/marquee/internal/config"
	"github.com/okian/marquee/pkg/logger"
)

type nopCloseFetcher struct {
	questioncache.Fetcher
}

func (nopCloseFetcher) Close() error { return nil }

// SetQuestionFetcher makes FromConfig use f, or fail with err when f is nil,
// for the rest of the test.
func SetQuestionFetcher(t testing.TB, f questioncache.Fetcher, err error) {
	t.Helper()
	prev := openQuestionFetcher
	openQuestionFetcher = func(context.Context, *config.Config, logger.Logger) (questionFetcher, error) {
		if f == nil {
			return nil, err
		}
		return nopCloseFetcher{f}, nil
	}
	t.Cleanup(func() { openQuestionFetcher = prev })
}
