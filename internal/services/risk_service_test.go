package services

import (
	"context"
	"testing"

	"github.com/pregoway/pregoway/internal/models"
)

func TestHeuristicScorer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		answers   models.AnswerSet
		wantScore int
		wantLevel string
	}{
		{
			name: "routine day",
			answers: models.AnswerSet{
				QuestionEnergy:   models.ScaleAnswer(4),
				QuestionHeadache: models.YesNoAnswer(false),
				QuestionKicks:    models.NumericAnswer("15"),
				QuestionSymptoms: models.MultiSelectAnswer([]string{SymptomNone}),
			},
			wantScore: 0,
			wantLevel: models.LevelGreen,
		},
		{
			name: "mild headache only",
			answers: models.AnswerSet{
				QuestionEnergy:           models.ScaleAnswer(4),
				QuestionHeadache:         models.YesNoAnswer(true),
				QuestionHeadacheSeverity: models.ScaleAnswer(3),
				QuestionKicks:            models.NumericAnswer("15"),
				QuestionSymptoms:         models.MultiSelectAnswer([]string{SymptomNone}),
			},
			wantScore: 10,
			wantLevel: models.LevelGreen,
		},
		{
			name: "low energy with moderate headache",
			answers: models.AnswerSet{
				QuestionEnergy:           models.ScaleAnswer(2),
				QuestionHeadache:         models.YesNoAnswer(true),
				QuestionHeadacheSeverity: models.ScaleAnswer(5),
				QuestionKicks:            models.NumericAnswer("15"),
				QuestionSymptoms:         models.MultiSelectAnswer([]string{SymptomNone}),
			},
			wantScore: 25,
			wantLevel: models.LevelYellow,
		},
		{
			name: "reduced movement and swelling",
			answers: models.AnswerSet{
				QuestionEnergy:   models.ScaleAnswer(3),
				QuestionHeadache: models.YesNoAnswer(false),
				QuestionKicks:    models.NumericAnswer("4"),
				QuestionSymptoms: models.MultiSelectAnswer([]string{"Swelling in hands/feet"}),
			},
			wantScore: 30,
			wantLevel: models.LevelYellow,
		},
		{
			name: "bleeding with severe headache",
			answers: models.AnswerSet{
				QuestionEnergy:           models.ScaleAnswer(2),
				QuestionHeadache:         models.YesNoAnswer(true),
				QuestionHeadacheSeverity: models.ScaleAnswer(9),
				QuestionKicks:            models.NumericAnswer("6"),
				QuestionSymptoms:         models.MultiSelectAnswer([]string{"Vaginal bleeding", "Vision changes"}),
			},
			wantScore: 100,
			wantLevel: models.LevelRed,
		},
	}

	scorer := HeuristicScorer{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assessment, err := scorer.Score(context.Background(), tt.answers)
			if err != nil {
				t.Fatalf("Score() unexpected error: %v", err)
			}
			if assessment.Score != tt.wantScore {
				t.Fatalf("Score() = %d, want %d", assessment.Score, tt.wantScore)
			}
			if assessment.Level != tt.wantLevel {
				t.Fatalf("Level = %s, want %s", assessment.Level, tt.wantLevel)
			}
			if assessment.Insight == "" {
				t.Fatal("expected non-empty insight")
			}
		})
	}
}

func TestLevelForScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score int
		want  string
	}{
		{score: 0, want: models.LevelGreen},
		{score: 19, want: models.LevelGreen},
		{score: 20, want: models.LevelYellow},
		{score: 39, want: models.LevelYellow},
		{score: 40, want: models.LevelOrange},
		{score: 69, want: models.LevelOrange},
		{score: 70, want: models.LevelRed},
		{score: 120, want: models.LevelRed},
	}
	for _, tt := range tests {
		if got := LevelForScore(tt.score); got != tt.want {
			t.Fatalf("LevelForScore(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}
