package bank

import "strings"

// typeRule encodes the option-legality table for one (kind, type) pair.
// A zero maxOptions means the type admits no options at all.
type typeRule struct {
	minOptions int
	maxOptions int
	minCorrect int
	maxCorrect int
	scored     bool     // options carry a correctness flag
	uniqueText bool     // option texts must be unique, case-insensitive
	fixedTexts []string // exact texts required, case-insensitive, one each
}

var typeRules = map[Kind]map[QuestionType]typeRule{
	KindQuiz: {
		TypeMCQ:       {minOptions: 4, maxOptions: 4, minCorrect: 1, maxCorrect: 1, scored: true, uniqueText: true},
		TypeMSQ:       {minOptions: 5, maxOptions: 8, minCorrect: 2, maxCorrect: 3, scored: true, uniqueText: true},
		TypeTrueFalse: {minOptions: 2, maxOptions: 2, minCorrect: 1, maxCorrect: 1, scored: true, fixedTexts: []string{"true", "false"}},
	},
	KindQuizFeedback: {
		TypeMCQ:         {minOptions: 2, maxOptions: 5},
		TypeDescriptive: {},
	},
	KindTopicFeedback: {
		TypeMCQ:         {minOptions: 2, maxOptions: 5},
		TypeDescriptive: {},
	},
}

// NormalizeType maps a case-insensitive tag to its canonical QuestionType
// within the given bank kind, or a ValidationError for tags outside the
// closed set.
func NormalizeType(kind Kind, tag string) (QuestionType, error) {
	trimmed := strings.TrimSpace(tag)
	if trimmed == "" {
		return "", invalid("type", "must not be empty")
	}
	for qt := range typeRules[kind] {
		if strings.EqualFold(trimmed, string(qt)) {
			return qt, nil
		}
	}
	return "", invalid("type", "unknown question type "+strings.ToUpper(trimmed))
}

// ValidateOptions decides whether a candidate option list is legal for a
// question type. Pure; callers that want to discard options for types that
// forbid them must do so before calling.
func ValidateOptions(kind Kind, qt QuestionType, options []OptionInput) error {
	rule, ok := typeRules[kind][qt]
	if !ok {
		return invalid("type", "unknown question type "+string(qt))
	}

	n := len(options)
	if rule.maxOptions == 0 {
		if n != 0 {
			return invalid("options", string(qt)+" questions do not take options")
		}
		return nil
	}
	if n < rule.minOptions || n > rule.maxOptions {
		return invalid("options", "option count out of range for "+string(qt))
	}

	if rule.scored {
		correct := 0
		for _, o := range options {
			if o.IsCorrect {
				correct++
			}
		}
		if correct < rule.minCorrect || correct > rule.maxCorrect {
			return invalid("options", "correct answer count out of range for "+string(qt))
		}
	}

	if len(rule.fixedTexts) > 0 {
		return validateFixedTexts(rule.fixedTexts, options)
	}
	if rule.uniqueText && !uniqueTexts(options) {
		return invalid("options", "option texts must be unique")
	}
	return nil
}

// validateFixedTexts requires exactly one option per required text. Implied
// uniqueness makes the generic check redundant.
func validateFixedTexts(required []string, options []OptionInput) error {
	for _, want := range required {
		found := false
		for _, o := range options {
			if strings.EqualFold(strings.TrimSpace(o.Text), want) {
				found = true
				break
			}
		}
		if !found {
			return invalid("options", "missing required option "+want)
		}
	}
	return nil
}

func uniqueTexts(options []OptionInput) bool {
	seen := make(map[string]struct{}, len(options))
	for _, o := range options {
		key := strings.ToLower(strings.TrimSpace(o.Text))
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
	}
	return true
}
