package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pregoway/pregoway/internal/models"
)

// RiskAssessment is the outcome of scoring one check-in.
type RiskAssessment struct {
	Score   int    `json:"score"`
	Level   string `json:"level"`
	Insight string `json:"insight"`
}

type RiskScorer interface {
	Score(ctx context.Context, answers models.AnswerSet) (RiskAssessment, error)
}

// HeuristicScorer grades a check-in with fixed symptom weights. It is the
// built-in scorer and the fallback when a remote scorer is unreachable.
type HeuristicScorer struct{}

var symptomWeights = map[string]int{
	"Severe abdominal pain":  25,
	"Vaginal bleeding":       25,
	"Vision changes":         25,
	"Swelling in hands/feet": 15,
	"Shortness of breath":    15,
}

func (HeuristicScorer) Score(_ context.Context, answers models.AnswerSet) (RiskAssessment, error) {
	score := 0
	concerns := make([]string, 0, 4)

	if symptoms, ok := answers[QuestionSymptoms]; ok {
		for _, selection := range symptoms.Selections {
			if weight, flagged := symptomWeights[selection]; flagged {
				score += weight
				concerns = append(concerns, selection)
			}
		}
	}

	if headache, ok := answers[QuestionHeadache]; ok && headache.YesNo {
		score += 10
		severity := answers[QuestionHeadacheSeverity].Scale
		switch {
		case severity >= 7:
			score += 15
			concerns = append(concerns, "severe headache")
		case severity >= 4:
			score += 5
		}
	}

	if energy, ok := answers[QuestionEnergy]; ok && energy.Scale > 0 && energy.Scale <= 2 {
		score += 10
		concerns = append(concerns, "low energy")
	}

	if kicks, ok := answers[QuestionKicks]; ok {
		if count, err := strconv.Atoi(strings.TrimSpace(kicks.Numeric)); err == nil && count < 10 {
			score += 15
			concerns = append(concerns, "reduced fetal movement")
		}
	}

	return RiskAssessment{
		Score:   score,
		Level:   LevelForScore(score),
		Insight: insightFor(concerns),
	}, nil
}

func LevelForScore(score int) string {
	switch {
	case score >= 70:
		return models.LevelRed
	case score >= 40:
		return models.LevelOrange
	case score >= 20:
		return models.LevelYellow
	default:
		return models.LevelGreen
	}
}

func insightFor(concerns []string) string {
	if len(concerns) == 0 {
		return "All responses look routine today."
	}
	return fmt.Sprintf("Flagged today: %s. Consider contacting your care team if this persists.", strings.Join(concerns, ", "))
}

// RemoteScorer delegates scoring to an external model endpoint and falls back
// to the heuristic when the call fails.
type RemoteScorer struct {
	client   *resty.Client
	fallback HeuristicScorer
}

func NewRemoteScorer(baseURL string) *RemoteScorer {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(5 * time.Second).
		SetRetryCount(2)
	return &RemoteScorer{client: client}
}

func (scorer *RemoteScorer) Score(ctx context.Context, answers models.AnswerSet) (RiskAssessment, error) {
	assessment := RiskAssessment{}
	response, err := scorer.client.R().
		SetContext(ctx).
		SetBody(answers).
		SetResult(&assessment).
		Post("/score")
	if err != nil {
		return scorer.fallback.Score(ctx, answers)
	}
	if response.IsError() {
		return scorer.fallback.Score(ctx, answers)
	}
	if assessment.Level == "" {
		assessment.Level = LevelForScore(assessment.Score)
	}
	return assessment, nil
}
