package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pregoway/pregoway/internal/models"
)

var (
	ErrSessionComplete = errors.New("check-in session already complete")
	ErrAnswerMismatch  = errors.New("answer does not fit the question")
)

// CheckinSession walks the daily question script one answer at a time. The
// headache severity follow-up is spliced in directly after a yes answer and
// removed again if the answer flips to no before it is reached.
type CheckinSession struct {
	Queue    []Question       `json:"queue"`
	Position int              `json:"position"`
	Answers  models.AnswerSet `json:"answers"`
}

func NewCheckinSession() *CheckinSession {
	return &CheckinSession{
		Queue:   DefaultQuestions(),
		Answers: models.AnswerSet{},
	}
}

func (session *CheckinSession) Current() (Question, bool) {
	if session.Position >= len(session.Queue) {
		return Question{}, false
	}
	return session.Queue[session.Position], true
}

func (session *CheckinSession) Complete() bool {
	return session.Position >= len(session.Queue)
}

// Answer records a value for the current question and advances. Re-answering
// is not supported; the client restarts the session instead.
func (session *CheckinSession) Answer(answer models.Answer) error {
	question, ok := session.Current()
	if !ok {
		return ErrSessionComplete
	}
	if err := validateAnswer(question, answer); err != nil {
		return err
	}

	session.Answers[question.ID] = answer
	session.Position++

	if question.Kind == QuestionYesNo && question.FollowUp != "" {
		if answer.YesNo {
			session.spliceFollowUp(question.FollowUp)
		} else {
			session.removeFollowUp(question.FollowUp)
		}
	}
	return nil
}

// spliceFollowUp inserts the follow-up as the next question, once.
func (session *CheckinSession) spliceFollowUp(id string) {
	for _, queued := range session.Queue {
		if queued.ID == id {
			return
		}
	}
	followUp, ok := FollowUpQuestion(id)
	if !ok {
		return
	}
	queue := make([]Question, 0, len(session.Queue)+1)
	queue = append(queue, session.Queue[:session.Position]...)
	queue = append(queue, followUp)
	queue = append(queue, session.Queue[session.Position:]...)
	session.Queue = queue
}

// removeFollowUp drops an unanswered spliced follow-up from the queue.
func (session *CheckinSession) removeFollowUp(id string) {
	if _, answered := session.Answers[id]; answered {
		delete(session.Answers, id)
	}
	queue := make([]Question, 0, len(session.Queue))
	for index, queued := range session.Queue {
		if queued.ID == id && index >= session.Position {
			continue
		}
		queue = append(queue, queued)
	}
	session.Queue = queue
}

func validateAnswer(question Question, answer models.Answer) error {
	switch question.Kind {
	case QuestionScale5:
		if answer.Kind != models.AnswerScale {
			return ErrAnswerMismatch
		}
		if answer.Scale < 1 || answer.Scale > 5 {
			return fmt.Errorf("%s: scale value %d out of range 1-5", question.ID, answer.Scale)
		}
	case QuestionScale10:
		if answer.Kind != models.AnswerScale {
			return ErrAnswerMismatch
		}
		if answer.Scale < 1 || answer.Scale > 10 {
			return fmt.Errorf("%s: scale value %d out of range 1-10", question.ID, answer.Scale)
		}
	case QuestionYesNo:
		if answer.Kind != models.AnswerYesNo {
			return ErrAnswerMismatch
		}
	case QuestionNumeric:
		if answer.Kind != models.AnswerNumeric {
			return ErrAnswerMismatch
		}
		value := strings.TrimSpace(answer.Numeric)
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed < 0 {
			return fmt.Errorf("%s: %q is not a non-negative count", question.ID, answer.Numeric)
		}
	case QuestionMultiSelect:
		if answer.Kind != models.AnswerMultiSelect {
			return ErrAnswerMismatch
		}
		allowed := make(map[string]bool, len(question.Options))
		for _, option := range question.Options {
			allowed[option] = true
		}
		// An empty selection is a valid "none of the above" answer.
		for _, selection := range answer.Selections {
			if !allowed[selection] {
				return fmt.Errorf("%s: unknown option %q", question.ID, selection)
			}
		}
		if len(answer.Selections) > 1 {
			for _, selection := range answer.Selections {
				if selection == SymptomNone {
					return fmt.Errorf("%s: %q cannot be combined with other options", question.ID, SymptomNone)
				}
			}
		}
	default:
		return fmt.Errorf("question %s has unknown kind %q", question.ID, question.Kind)
	}
	return nil
}

// ReplayAnswerSet validates a flat answer map by feeding it through a fresh
// session in script order. It catches missing answers, stray extras and the
// follow-up rules without trusting the client's sequencing.
func ReplayAnswerSet(answers models.AnswerSet) error {
	session := NewCheckinSession()
	consumed := 0
	for {
		question, ok := session.Current()
		if !ok {
			break
		}
		answer, present := answers[question.ID]
		if !present {
			return fmt.Errorf("missing answer for %s", question.ID)
		}
		if err := session.Answer(answer); err != nil {
			return err
		}
		consumed++
	}
	if consumed != len(answers) {
		return fmt.Errorf("got %d answers, expected %d", len(answers), consumed)
	}
	return nil
}
