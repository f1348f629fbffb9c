package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/okian/marquee/pkg/logger"
)

func wildcard(v int) *int { return &v }

// starterQuestions is inserted when trivia_questions is empty.
var starterQuestions = []TriviaQuestionRow{ //nolint:gochecknoglobals // seed catalog
	{Question: "Which boxer does Rocky Balboa fight in the original Rocky?", CorrectAnswer: "Apollo Creed", WrongAnswer1: "Clubber Lang", WrongAnswer2: "Ivan Drago", WrongAnswer3: "Tommy Gunn", Category: "Sports Movies", Difficulty: "easy", MovieTitle: "Rocky", Tier: tierPopular},
	{Question: "What is the name of the high school team in Hoosiers?", CorrectAnswer: "Hickory Huskers", WrongAnswer1: "Terhune Tigers", WrongAnswer2: "South Bend Central Bears", WrongAnswer3: "Milan Indians", Category: "Sports Movies", Difficulty: "medium", MovieTitle: "Hoosiers", Tier: tierPopular},
	{Question: "Which university does Rudy dream of playing football for?", CorrectAnswer: "Notre Dame", WrongAnswer1: "Michigan", WrongAnswer2: "USC", WrongAnswer3: "Penn State", Category: "Sports Movies", Difficulty: "easy", MovieTitle: "Rudy", Tier: tierPopular},
	{Question: "In Remember the Titans, which city is T.C. Williams High School in?", CorrectAnswer: "Alexandria", WrongAnswer1: "Richmond", WrongAnswer2: "Norfolk", WrongAnswer3: "Arlington", Category: "Sports Movies", Difficulty: "medium", Hint: "Northern Virginia", MovieTitle: "Remember the Titans", Tier: tierPopular},
	{Question: "What does Roy Hobbs name his bat in The Natural?", CorrectAnswer: "Wonderboy", WrongAnswer1: "Savoy Special", WrongAnswer2: "Lightning", WrongAnswer3: "Old Hickory", Category: "Sports Movies", Difficulty: "medium", MovieTitle: "The Natural", Tier: tierPopular},
	{Question: "Which sport did Happy Gilmore originally want to play professionally?", CorrectAnswer: "Hockey", WrongAnswer1: "Golf", WrongAnswer2: "Baseball", WrongAnswer3: "Football", Category: "Comedy", Difficulty: "easy", MovieTitle: "Happy Gilmore", Tier: tierPopular},
	{Question: "Who trains Daniel LaRusso in The Karate Kid (1984)?", CorrectAnswer: "Mr. Miyagi", WrongAnswer1: "John Kreese", WrongAnswer2: "Terry Silver", WrongAnswer3: "Mr. Han", Category: "Sports Movies", Difficulty: "easy", MovieTitle: "The Karate Kid", Tier: tierStandard},
	{Question: "What position does Bobby Boucher play in The Waterboy?", CorrectAnswer: "Linebacker", WrongAnswer1: "Quarterback", WrongAnswer2: "Kicker", WrongAnswer3: "Running back", Category: "Comedy", Difficulty: "medium", MovieTitle: "The Waterboy", Tier: tierStandard},
	{Question: "Which minor league team does Crash Davis join in Bull Durham?", CorrectAnswer: "Durham Bulls", WrongAnswer1: "Toledo Mud Hens", WrongAnswer2: "Asheville Tourists", WrongAnswer3: "Rochester Red Wings", Category: "Sports Movies", Difficulty: "hard", MovieTitle: "Bull Durham", Tier: tierStandard},
	{Question: "In Moneyball, which team does Billy Beane manage?", CorrectAnswer: "Oakland Athletics", WrongAnswer1: "Boston Red Sox", WrongAnswer2: "New York Yankees", WrongAnswer3: "San Francisco Giants", Category: "Drama", Difficulty: "easy", MovieTitle: "Moneyball", Tier: tierStandard},
	{Question: "Which country hosts the Winter Olympics in Cool Runnings?", CorrectAnswer: "Canada", WrongAnswer1: "Norway", WrongAnswer2: "Japan", WrongAnswer3: "France", Category: "Comedy", Difficulty: "hard", Hint: "Calgary, 1988", MovieTitle: "Cool Runnings", Tier: tierStandard},
	{Question: "What is the name of the dodgeball team in DodgeBall: A True Underdog Story?", CorrectAnswer: "Average Joe's", WrongAnswer1: "Globo Gym Purple Cobras", WrongAnswer2: "Skillz That Killz", WrongAnswer3: "Cobras United", Category: "Comedy", Difficulty: "medium", MovieTitle: "DodgeBall", Tier: tierStandard},
}

// starterAthletes is inserted when movie_athletes is empty; every archetype is represented.
var starterAthletes = []MovieAthleteRow{ //nolint:gochecknoglobals // seed catalog
	{Name: "Rocky Balboa", Archetype: "underdog", MovieTitle: "Rocky", Athleticism: 78, Clutch: 88, Leadership: 60, Heart: 99, Skill: 70, Intimidation: 55, Teamwork: 62, Charisma: 74},
	{Name: "Apollo Creed", Archetype: "natural", MovieTitle: "Rocky", Athleticism: 92, Clutch: 80, Leadership: 72, Heart: 75, Skill: 95, Intimidation: 70, Teamwork: 50, Charisma: 97},
	{Name: "Ivan Drago", Archetype: "villain", MovieTitle: "Rocky IV", Athleticism: 97, Clutch: 70, Leadership: 40, Heart: 45, Skill: 85, Intimidation: 99, Teamwork: 35, Charisma: 20},
	{Name: "Mickey Goldmill", Archetype: "veteran", MovieTitle: "Rocky", Athleticism: 30, Clutch: 75, Leadership: 90, Heart: 88, Skill: 80, Intimidation: 65, Teamwork: 80, Charisma: 60},
	{Name: "Roy Hobbs", Archetype: "natural", MovieTitle: "The Natural", Athleticism: 85, Clutch: 97, Leadership: 65, Heart: 82, Skill: 96, Intimidation: 50, Teamwork: 60, Charisma: 70, WildcardValue: wildcard(80), WildcardName: "Wonderboy", WildcardCategory: "equipment"},
	{Name: "Norman Dale", Archetype: "captain", MovieTitle: "Hoosiers", Athleticism: 35, Clutch: 78, Leadership: 96, Heart: 85, Skill: 72, Intimidation: 60, Teamwork: 94, Charisma: 66},
	{Name: "Jimmy Chitwood", Archetype: "natural", MovieTitle: "Hoosiers", Athleticism: 80, Clutch: 95, Leadership: 55, Heart: 78, Skill: 92, Intimidation: 40, Teamwork: 70, Charisma: 50},
	{Name: "Rudy Ruettiger", Archetype: "underdog", MovieTitle: "Rudy", Athleticism: 50, Clutch: 70, Leadership: 62, Heart: 99, Skill: 45, Intimidation: 30, Teamwork: 90, Charisma: 68},
	{Name: "Crash Davis", Archetype: "veteran", MovieTitle: "Bull Durham", Athleticism: 60, Clutch: 82, Leadership: 85, Heart: 74, Skill: 84, Intimidation: 58, Teamwork: 78, Charisma: 80},
	{Name: "Herman Boone", Archetype: "captain", MovieTitle: "Remember the Titans", Athleticism: 45, Clutch: 80, Leadership: 98, Heart: 90, Skill: 75, Intimidation: 82, Teamwork: 96, Charisma: 72},
	{Name: "Gerry Bertier", Archetype: "teammate", MovieTitle: "Remember the Titans", Athleticism: 84, Clutch: 76, Leadership: 80, Heart: 88, Skill: 78, Intimidation: 66, Teamwork: 97, Charisma: 70},
	{Name: "Julius Campbell", Archetype: "teammate", MovieTitle: "Remember the Titans", Athleticism: 88, Clutch: 74, Leadership: 70, Heart: 86, Skill: 80, Intimidation: 78, Teamwork: 95, Charisma: 64},
	{Name: "Shooter McGavin", Archetype: "villain", MovieTitle: "Happy Gilmore", Athleticism: 55, Clutch: 60, Leadership: 35, Heart: 25, Skill: 88, Intimidation: 62, Teamwork: 20, Charisma: 75},
	{Name: "Happy Gilmore", Archetype: "wildcard", MovieTitle: "Happy Gilmore", Athleticism: 82, Clutch: 72, Leadership: 40, Heart: 80, Skill: 60, Intimidation: 85, Teamwork: 35, Charisma: 78, WildcardValue: wildcard(95), WildcardName: "Hockey slapshot drive", WildcardCategory: "technique"},
	{Name: "Bobby Boucher", Archetype: "wildcard", MovieTitle: "The Waterboy", Athleticism: 90, Clutch: 70, Leadership: 30, Heart: 92, Skill: 55, Intimidation: 88, Teamwork: 60, Charisma: 45, WildcardValue: wildcard(70), WildcardName: "Tackling rage", WildcardCategory: "temperament"},
}

// Seed inserts the starter catalog into empty tables. It is safe to call on every start.
func (s *Store) Seed(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		nq, err := seedIfEmpty(tx, &TriviaQuestionRow{}, starterQuestions)
		if err != nil {
			return fmt.Errorf("repository: seed questions: %w", err)
		}
		na, err := seedIfEmpty(tx, &MovieAthleteRow{}, starterAthletes)
		if err != nil {
			return fmt.Errorf("repository: seed athletes: %w", err)
		}
		if nq+na > 0 {
			s.log.Info(ctx, "seeded starter catalog",
				logger.Int("questions", nq),
				logger.Int("athletes", na),
			)
		}
		return nil
	})
}

func seedIfEmpty[T any](tx *gorm.DB, table *T, rows []T) (int, error) {
	var n int64
	if err := tx.Model(table).Count(&n).Error; err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	batch := make([]T, len(rows))
	copy(batch, rows)
	if err := tx.Create(&batch).Error; err != nil {
		return 0, err
	}
	return len(batch), nil
}
