package repository

import (
	"time"

	"github.com/okian/marquee/internal/domain/model"
)

// Question tiers stored per row. TierPopular rows answer tier=popular queries.
const (
	tierPopular  = "popular"
	tierStandard = "standard"
)

// TriviaQuestionRow is the trivia_questions table.
type TriviaQuestionRow struct {
	ID            uint   `gorm:"primaryKey"`
	Question      string `gorm:"not null"`
	CorrectAnswer string `gorm:"not null"`
	WrongAnswer1  string `gorm:"not null"`
	WrongAnswer2  string `gorm:"not null"`
	WrongAnswer3  string `gorm:"not null"`
	Category      string `gorm:"not null;default:'Movie Trivia'"`
	Difficulty    string `gorm:"not null;default:'medium'"`
	Hint          string
	MovieTitle    string
	Tier          string `gorm:"not null;default:'standard';index"`
	CreatedAt     time.Time
}

// TableName implements gorm's tabler.
func (TriviaQuestionRow) TableName() string { return "trivia_questions" }

func (r TriviaQuestionRow) toModel() model.Question {
	return model.Question{
		ID:            idString(r.ID),
		Question:      r.Question,
		CorrectAnswer: r.CorrectAnswer,
		WrongAnswer1:  r.WrongAnswer1,
		WrongAnswer2:  r.WrongAnswer2,
		WrongAnswer3:  r.WrongAnswer3,
		Category:      r.Category,
		Difficulty:    r.Difficulty,
		Hint:          r.Hint,
		MovieTitle:    r.MovieTitle,
	}
}

// MovieAthleteRow is the movie_athletes table.
type MovieAthleteRow struct {
	ID               uint   `gorm:"primaryKey"`
	Name             string `gorm:"not null"`
	Archetype        string `gorm:"not null;index"`
	MovieTitle       string
	Athleticism      int `gorm:"not null"`
	Clutch           int `gorm:"not null"`
	Leadership       int `gorm:"not null"`
	Heart            int `gorm:"not null"`
	Skill            int `gorm:"not null"`
	Intimidation     int `gorm:"not null"`
	Teamwork         int `gorm:"not null"`
	Charisma         int `gorm:"not null"`
	WildcardValue    *int
	WildcardName     string
	WildcardCategory string
	CreatedAt        time.Time
}

// TableName implements gorm's tabler.
func (MovieAthleteRow) TableName() string { return "movie_athletes" }

func (r MovieAthleteRow) toModel() model.Character {
	return model.Character{
		ID:               model.CharacterID(idString(r.ID)),
		Name:             r.Name,
		Archetype:        model.Archetype(r.Archetype),
		MovieTitle:       r.MovieTitle,
		Athleticism:      r.Athleticism,
		Clutch:           r.Clutch,
		Leadership:       r.Leadership,
		Heart:            r.Heart,
		Skill:            r.Skill,
		Intimidation:     r.Intimidation,
		Teamwork:         r.Teamwork,
		Charisma:         r.Charisma,
		WildcardValue:    r.WildcardValue,
		WildcardName:     r.WildcardName,
		WildcardCategory: r.WildcardCategory,
	}
}

// GameSessionRow is the game_sessions table.
type GameSessionRow struct {
	ID             string  `gorm:"type:uuid;primaryKey"`
	ProfileID      *string `gorm:"index"`
	GameType       string  `gorm:"not null;index"`
	Score          int     `gorm:"not null"`
	TotalQuestions int     `gorm:"not null"`
	CreatedAt      time.Time
}

// TableName implements gorm's tabler.
func (GameSessionRow) TableName() string { return "game_sessions" }

func (r GameSessionRow) toModel() model.GameSession {
	return model.GameSession{
		ID:             r.ID,
		ProfileID:      r.ProfileID,
		GameType:       r.GameType,
		Score:          r.Score,
		TotalQuestions: r.TotalQuestions,
		CreatedAt:      r.CreatedAt,
	}
}
