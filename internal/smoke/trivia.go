package smoke

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"slices"
	"strconv"

	"github.com/okian/marquee/internal/domain/model"
)

// checkTrivia samples questions and, when the store serves them, checks that
// a seed yields the same selection twice.
func checkTrivia(ctx context.Context, cfg *Config, c *client, stats *Stats) error {
	log.Println("🎬 Sampling trivia questions...")

	q := url.Values{}
	q.Set("limit", strconv.Itoa(cfg.Questions))
	q.Set("seed", cfg.Seed)
	path := "/api/trivia/questions?" + q.Encode()

	var first, second []model.Question
	hdr, err := c.getJSON(ctx, path, &first)
	if err != nil {
		return err
	}
	if err := verifyQuestions(first); err != nil {
		return err
	}
	stats.QuestionsServed = len(first)
	stats.QuestionSource = hdr.Get("X-Question-Source")

	if stats.QuestionSource != "postgresql" {
		log.Printf("ℹ️  questions served by %q; seed is ignored there", stats.QuestionSource)
		return nil
	}
	if _, err := c.getJSON(ctx, path, &second); err != nil {
		return err
	}
	stats.SeedDeterministic = sameIDs(first, second)
	if !stats.SeedDeterministic {
		return fmt.Errorf("seed %q returned different questions", cfg.Seed)
	}
	log.Printf("✅ %d questions from %s, seed deterministic", len(first), stats.QuestionSource)
	return nil
}

func verifyQuestions(qs []model.Question) error {
	for _, q := range qs {
		answers := []string{q.CorrectAnswer, q.WrongAnswer1, q.WrongAnswer2, q.WrongAnswer3}
		if q.Question == "" || slices.Contains(answers, "") {
			return fmt.Errorf("question %s is incomplete", q.ID)
		}
	}
	return nil
}

func sameIDs(a, b []model.Question) bool {
	return slices.EqualFunc(a, b, func(x, y model.Question) bool { return x.ID == y.ID })
}
