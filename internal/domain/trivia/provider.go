package trivia

import (
	"context"
	"time"

	"github.com/okian/marquee/internal/domain/model"
	"github.com/okian/marquee/pkg/logger"
	"github.com/okian/marquee/pkg/metrics"
)

// Provider is one source of trivia questions.
type Provider interface {
	// Name labels the source in responses and metrics, e.g. "firebase".
	Name() string
	// Questions returns up to q.Limit questions. An empty result is not an error.
	Questions(ctx context.Context, q model.QuestionQuery) ([]model.Question, error)
}

// Result is the outcome of a chain lookup. Source is empty when nothing was found.
type Result struct {
	Questions []model.Question
	Source    string
}

// Chain tries providers in order; the first non-empty answer wins.
type Chain struct {
	providers []Provider
	log       logger.Logger
}

// NewChain builds a chain over providers. Nil providers are skipped.
func NewChain(log logger.Logger, providers ...Provider) *Chain {
	if log == nil {
		log = logger.Nop()
	}
	c := &Chain{log: log}
	for _, p := range providers {
		if p != nil {
			c.providers = append(c.providers, p)
		}
	}
	return c
}

// Questions walks the chain. Provider failures are logged and skipped, so the
// result is always usable; when every source is empty or failing it holds no questions.
func (c *Chain) Questions(ctx context.Context, q model.QuestionQuery) Result {
	for _, p := range c.providers {
		start := time.Now()
		qs, err := p.Questions(ctx, q)
		if err != nil {
			metrics.RecordErrorByComponent("trivia_"+p.Name(), "provider")
			metrics.RecordErrorLatency("trivia_"+p.Name(), "provider", float64(time.Since(start).Milliseconds()))
			c.log.Warn(ctx, "question provider failed, trying next",
				logger.String("provider", p.Name()),
				logger.Error(err),
			)
			continue
		}
		if len(qs) > 0 {
			metrics.RecordQuestionsServed(p.Name(), len(qs))
			return Result{Questions: qs, Source: p.Name()}
		}
	}
	metrics.RecordQuestionsServed("none", 0)
	return Result{Questions: []model.Question{}}
}
