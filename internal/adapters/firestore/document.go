package firestore

import (
	"math"
	"strconv"
	"strings"

	"github.com/okian/marquee/internal/domain/model"
)

// questionDoc is the stored question shape. Options and the index are loosely
// typed because older documents hold numbers where newer ones hold strings.
type questionDoc struct {
	Question           string `firestore:"question"`
	Options            []any  `firestore:"options"`
	Answers            []any  `firestore:"answers"`
	CorrectIndex       any    `firestore:"correctIndex"`
	CorrectAnswerIndex any    `firestore:"correctAnswerIndex"`
	Category           string `firestore:"category"`
	MovieTitle         string `firestore:"movieTitle"`
	Movie              string `firestore:"movie"`
	Difficulty         string `firestore:"difficulty"`
	Hint               string `firestore:"hint"`
	Disabled           bool   `firestore:"disabled"`
}

// raw flattens the document. A missing or unusable index becomes -1.
func (d questionDoc) raw(id string) model.RawQuestion {
	r := model.RawQuestion{
		DocID:        id,
		Question:     d.Question,
		Category:     d.Category,
		MovieTitle:   d.MovieTitle,
		Difficulty:   d.Difficulty,
		Hint:         d.Hint,
		Disabled:     d.Disabled,
		CorrectIndex: -1,
	}
	if r.MovieTitle == "" {
		r.MovieTitle = d.Movie
	}

	opts := d.Options
	if opts == nil {
		opts = d.Answers
	}
	if opts != nil {
		r.Options = make([]string, 0, len(opts))
		for _, o := range opts {
			r.Options = append(r.Options, optionText(o))
		}
	}

	idx := d.CorrectIndex
	if idx == nil {
		idx = d.CorrectAnswerIndex
	}
	if n, ok := index(idx); ok {
		r.CorrectIndex = n
	}
	return r
}

func optionText(v any) string {
	switch o := v.(type) {
	case string:
		return o
	case int64:
		return strconv.FormatInt(o, 10)
	case float64:
		return strconv.FormatFloat(o, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(o)
	}
	return ""
}

// index accepts integers, integral doubles and numeric strings.
func index(v any) (int, bool) {
	switch n := v.(type) {
	case int64:
		if n < math.MinInt32 || n > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	case float64:
		if n != math.Trunc(n) || n < math.MinInt32 || n > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	}
	return 0, false
}
