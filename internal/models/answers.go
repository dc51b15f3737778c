package models

import (
	"encoding/json"
	"fmt"
	"math"
)

const (
	AnswerScale       = "scale"
	AnswerYesNo       = "yes_no"
	AnswerNumeric     = "numeric"
	AnswerMultiSelect = "multi"
)

// Answer is a tagged union over the value types a check-in question can
// produce. Exactly one of the value fields is meaningful, selected by Kind.
type Answer struct {
	Kind       string
	Scale      int
	YesNo      bool
	Numeric    string
	Selections []string
}

func ScaleAnswer(value int) Answer {
	return Answer{Kind: AnswerScale, Scale: value}
}

func YesNoAnswer(value bool) Answer {
	return Answer{Kind: AnswerYesNo, YesNo: value}
}

func NumericAnswer(value string) Answer {
	return Answer{Kind: AnswerNumeric, Numeric: value}
}

func MultiSelectAnswer(values []string) Answer {
	if values == nil {
		values = []string{}
	}
	return Answer{Kind: AnswerMultiSelect, Selections: values}
}

// AnswerSet maps question identifiers to answers. On the wire and in the
// checkins.answers column it keeps the flat shape the mobile client expects:
// scale answers as numbers, yes/no as booleans, numeric as strings and
// multi-select as string arrays.
type AnswerSet map[string]Answer

func (set AnswerSet) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(set))
	for questionID, answer := range set {
		switch answer.Kind {
		case AnswerScale:
			flat[questionID] = answer.Scale
		case AnswerYesNo:
			flat[questionID] = answer.YesNo
		case AnswerNumeric:
			flat[questionID] = answer.Numeric
		case AnswerMultiSelect:
			selections := answer.Selections
			if selections == nil {
				selections = []string{}
			}
			flat[questionID] = selections
		default:
			return nil, fmt.Errorf("answer %s has unknown kind %q", questionID, answer.Kind)
		}
	}
	return json.Marshal(flat)
}

func (set *AnswerSet) UnmarshalJSON(data []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	parsed := make(AnswerSet, len(raw))
	for questionID, rawValue := range raw {
		answer, err := parseAnswerValue(rawValue)
		if err != nil {
			return fmt.Errorf("answer %s: %w", questionID, err)
		}
		parsed[questionID] = answer
	}

	*set = parsed
	return nil
}

func parseAnswerValue(raw json.RawMessage) (Answer, error) {
	var boolValue bool
	if err := json.Unmarshal(raw, &boolValue); err == nil {
		return YesNoAnswer(boolValue), nil
	}

	var numberValue float64
	if err := json.Unmarshal(raw, &numberValue); err == nil {
		if numberValue != math.Trunc(numberValue) {
			return Answer{}, fmt.Errorf("scale value %v is not an integer", numberValue)
		}
		return ScaleAnswer(int(numberValue)), nil
	}

	var stringValue string
	if err := json.Unmarshal(raw, &stringValue); err == nil {
		return NumericAnswer(stringValue), nil
	}

	var listValue []string
	if err := json.Unmarshal(raw, &listValue); err == nil {
		return MultiSelectAnswer(listValue), nil
	}

	return Answer{}, fmt.Errorf("unsupported answer value %s", string(raw))
}
