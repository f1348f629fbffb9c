package model

// Default labels applied during question ingestion.
const (
	DefaultCategory   = "Movie Trivia"
	DefaultDifficulty = "medium"
)

// Question is a normalized trivia question. It is never mutated after creation.
type Question struct {
	ID            string `json:"id"`
	Question      string `json:"question"`
	CorrectAnswer string `json:"correctAnswer"`
	WrongAnswer1  string `json:"wrongAnswer1"`
	WrongAnswer2  string `json:"wrongAnswer2"`
	WrongAnswer3  string `json:"wrongAnswer3"`
	Category      string `json:"category"`
	Difficulty    string `json:"difficulty"`
	Hint          string `json:"hint,omitempty"`
	MovieTitle    string `json:"movieTitle,omitempty"`
}

// RawQuestion is a question document as read from the external document store,
// before validation and normalization.
type RawQuestion struct {
	DocID        string
	Question     string
	Options      []string
	CorrectIndex int
	Category     string
	MovieTitle   string
	Difficulty   string
	Hint         string
	Disabled     bool
}

// Tier selects the relational question pool.
type Tier string

// Supported tiers.
const (
	TierAll     Tier = "all"
	TierPopular Tier = "popular"
)

// QuestionQuery parameterizes a relational question sample.
type QuestionQuery struct {
	Limit int
	Tier  Tier
	// Seed, when set, makes the sample deterministic for that seed.
	Seed string
}

// TriviaStats summarizes where questions are currently served from.
type TriviaStats struct {
	TotalQuestions int64  `json:"totalQuestions"`
	Source         string `json:"source"`
}
