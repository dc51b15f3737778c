package services

// Question kinds accepted by the daily check-in.
const (
	QuestionScale5      = "scale_5"
	QuestionScale10     = "scale_10"
	QuestionYesNo       = "yes_no"
	QuestionNumeric     = "numeric"
	QuestionMultiSelect = "multi_select"
)

const (
	QuestionEnergy           = "energy"
	QuestionHeadache         = "headache"
	QuestionHeadacheSeverity = "headache_severity"
	QuestionKicks            = "kicks"
	QuestionSymptoms         = "symptoms"
)

// SymptomNone is the exclusive "nothing to report" option.
const SymptomNone = "None of the above"

type Question struct {
	ID       string   `json:"id"`
	Prompt   string   `json:"prompt"`
	Kind     string   `json:"kind"`
	Options  []string `json:"options,omitempty"`
	FollowUp string   `json:"-"`
}

// SymptomOptions are the selectable answers for the symptoms question.
func SymptomOptions() []string {
	return []string{
		"Severe abdominal pain",
		"Vaginal bleeding",
		"Vision changes",
		"Swelling in hands/feet",
		"Shortness of breath",
		SymptomNone,
	}
}

// DefaultQuestions is the base daily check-in script. The headache severity
// follow-up is not part of the base queue; it is spliced in when headache is
// answered yes.
func DefaultQuestions() []Question {
	return []Question{
		{
			ID:       QuestionEnergy,
			Prompt:   "How is your energy today?",
			Kind:     QuestionScale5,
			FollowUp: "",
		},
		{
			ID:       QuestionHeadache,
			Prompt:   "Did you have a headache today?",
			Kind:     QuestionYesNo,
			FollowUp: QuestionHeadacheSeverity,
		},
		{
			ID:     QuestionKicks,
			Prompt: "How many kicks did you count?",
			Kind:   QuestionNumeric,
		},
		{
			ID:      QuestionSymptoms,
			Prompt:  "Any of these symptoms today?",
			Kind:    QuestionMultiSelect,
			Options: SymptomOptions(),
		},
	}
}

// FollowUpQuestion resolves a follow-up id to its definition.
func FollowUpQuestion(id string) (Question, bool) {
	if id == QuestionHeadacheSeverity {
		return Question{
			ID:     QuestionHeadacheSeverity,
			Prompt: "How severe was the headache?",
			Kind:   QuestionScale10,
		}, true
	}
	return Question{}, false
}
