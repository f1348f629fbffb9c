// Package trivia normalizes, samples and sources trivia questions.
package trivia

import (
	"strings"

	"github.com/okian/marquee/internal/domain/model"
)

const minOptions = 4

// Normalize validates a raw record and converts it to a Question.
// Options other than the correct one fill the wrong answers in their original order.
func Normalize(raw model.RawQuestion) (model.Question, error) {
	text := strings.TrimSpace(raw.Question)
	switch {
	case raw.Disabled:
		return model.Question{}, ErrDisabled
	case text == "":
		return model.Question{}, ErrMissingQuestion
	case len(raw.Options) < minOptions:
		return model.Question{}, ErrTooFewOptions
	case raw.CorrectIndex < 0 || raw.CorrectIndex >= len(raw.Options):
		return model.Question{}, ErrCorrectIndexBounds
	}

	wrong := make([]string, 0, len(raw.Options)-1)
	for i, opt := range raw.Options {
		if i != raw.CorrectIndex {
			wrong = append(wrong, opt)
		}
	}

	q := model.Question{
		ID:            raw.DocID,
		Question:      text,
		CorrectAnswer: raw.Options[raw.CorrectIndex],
		WrongAnswer1:  wrong[0],
		WrongAnswer2:  wrong[1],
		WrongAnswer3:  wrong[2],
		Category:      firstNonEmpty(raw.Category, raw.MovieTitle, model.DefaultCategory),
		Difficulty:    firstNonEmpty(raw.Difficulty, model.DefaultDifficulty),
		Hint:          strings.TrimSpace(raw.Hint),
		MovieTitle:    strings.TrimSpace(raw.MovieTitle),
	}
	return q, nil
}

// Ingest normalizes a fetched batch, keeping the first accepted record per
// document id. It returns the accepted questions and how many records were rejected.
func Ingest(raws []model.RawQuestion) ([]model.Question, int) {
	out := make([]model.Question, 0, len(raws))
	seen := make(map[string]struct{}, len(raws))
	rejected := 0
	for _, raw := range raws {
		if _, dup := seen[raw.DocID]; dup && raw.DocID != "" {
			continue
		}
		q, err := Normalize(raw)
		if err != nil {
			rejected++
			continue
		}
		if raw.DocID != "" {
			seen[raw.DocID] = struct{}{}
		}
		out = append(out, q)
	}
	return out, rejected
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
