package bank

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func opts(texts ...string) []OptionInput {
	out := make([]OptionInput, 0, len(texts))
	for _, t := range texts {
		out = append(out, OptionInput{Text: t})
	}
	return out
}

func markCorrect(options []OptionInput, idx ...int) []OptionInput {
	for _, i := range idx {
		options[i].IsCorrect = true
	}
	return options
}

func TestNormalizeTypeCaseInsensitive(t *testing.T) {
	qt, err := NormalizeType(KindQuiz, "mcq")
	assert.NoError(t, err)
	assert.Equal(t, TypeMCQ, qt)

	qt, err = NormalizeType(KindQuiz, " t/f ")
	assert.NoError(t, err)
	assert.Equal(t, TypeTrueFalse, qt)

	qt, err = NormalizeType(KindTopicFeedback, "DESCRIPTIVE")
	assert.NoError(t, err)
	assert.Equal(t, TypeDescriptive, qt)
}

func TestNormalizeTypeRejectsOutsideKind(t *testing.T) {
	_, err := NormalizeType(KindQuizFeedback, "MSQ")
	assert.True(t, IsValidation(err), "MSQ is not a feedback type")

	_, err = NormalizeType(KindQuiz, "Descriptive")
	assert.True(t, IsValidation(err), "Descriptive is not a quiz type")

	_, err = NormalizeType(KindQuiz, "Essay")
	assert.True(t, IsValidation(err))

	_, err = NormalizeType(KindQuiz, "")
	assert.True(t, IsValidation(err))
}

func TestValidateQuizMCQ(t *testing.T) {
	assert.NoError(t, ValidateOptions(KindQuiz, TypeMCQ, markCorrect(opts("a", "b", "c", "d"), 0)))

	err := ValidateOptions(KindQuiz, TypeMCQ, markCorrect(opts("a", "b", "c"), 0))
	assert.True(t, IsValidation(err), "three options")

	err = ValidateOptions(KindQuiz, TypeMCQ, markCorrect(opts("a", "b", "c", "d", "e"), 0))
	assert.True(t, IsValidation(err), "five options")

	err = ValidateOptions(KindQuiz, TypeMCQ, markCorrect(opts("a", "b", "c", "d"), 0, 1))
	assert.True(t, IsValidation(err), "two correct answers")

	err = ValidateOptions(KindQuiz, TypeMCQ, opts("a", "b", "c", "d"))
	assert.True(t, IsValidation(err), "no correct answer")
}

func TestValidateQuizMCQDuplicateTexts(t *testing.T) {
	err := ValidateOptions(KindQuiz, TypeMCQ, markCorrect(opts("Paris", "paris ", "Lyon", "Nice"), 0))
	assert.True(t, IsValidation(err), "duplicate texts differ only in case and spacing")
}

func TestValidateQuizMSQ(t *testing.T) {
	assert.NoError(t, ValidateOptions(KindQuiz, TypeMSQ, markCorrect(opts("a", "b", "c", "d", "e", "f"), 0, 1)))
	assert.NoError(t, ValidateOptions(KindQuiz, TypeMSQ, markCorrect(opts("a", "b", "c", "d", "e"), 0, 1, 2)))

	err := ValidateOptions(KindQuiz, TypeMSQ, markCorrect(opts("a", "b", "c", "d"), 0, 1))
	assert.True(t, IsValidation(err), "four options is below the minimum")

	err = ValidateOptions(KindQuiz, TypeMSQ, markCorrect(opts("a", "b", "c", "d", "e", "f", "g", "h", "i"), 0, 1))
	assert.True(t, IsValidation(err), "nine options is above the maximum")

	err = ValidateOptions(KindQuiz, TypeMSQ, markCorrect(opts("a", "b", "c", "d", "e", "f"), 0, 1, 2, 3))
	assert.True(t, IsValidation(err), "four correct answers")

	err = ValidateOptions(KindQuiz, TypeMSQ, markCorrect(opts("a", "b", "c", "d", "e"), 0))
	assert.True(t, IsValidation(err), "one correct answer")
}

func TestValidateQuizTrueFalse(t *testing.T) {
	assert.NoError(t, ValidateOptions(KindQuiz, TypeTrueFalse, markCorrect(opts("True", "False"), 0)))
	assert.NoError(t, ValidateOptions(KindQuiz, TypeTrueFalse, markCorrect(opts("TRUE", "false"), 1)))

	err := ValidateOptions(KindQuiz, TypeTrueFalse, markCorrect(opts("Yes", "No"), 0))
	assert.True(t, IsValidation(err), "texts must be true/false")

	err = ValidateOptions(KindQuiz, TypeTrueFalse, opts("True", "False"))
	assert.True(t, IsValidation(err), "no correct answer")

	err = ValidateOptions(KindQuiz, TypeTrueFalse, markCorrect(opts("True", "False", "Maybe"), 0))
	assert.True(t, IsValidation(err), "three options")
}

func TestValidateFeedbackMCQ(t *testing.T) {
	assert.NoError(t, ValidateOptions(KindQuizFeedback, TypeMCQ, opts("Good", "Bad")))
	assert.NoError(t, ValidateOptions(KindTopicFeedback, TypeMCQ, opts("1", "2", "3", "4", "5")))

	err := ValidateOptions(KindQuizFeedback, TypeMCQ, opts("Only"))
	assert.True(t, IsValidation(err), "one option")

	err = ValidateOptions(KindTopicFeedback, TypeMCQ, opts("1", "2", "3", "4", "5", "6"))
	assert.True(t, IsValidation(err), "six options")
}

func TestValidateDescriptiveTakesNoOptions(t *testing.T) {
	assert.NoError(t, ValidateOptions(KindQuizFeedback, TypeDescriptive, nil))

	err := ValidateOptions(KindTopicFeedback, TypeDescriptive, opts("unexpected"))
	assert.True(t, IsValidation(err))
}
