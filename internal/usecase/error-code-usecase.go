package usecase

import (
	"fmt"
	"github.com/iamvkosarev/repair-chat-bot/internal/model"
	"strings"
)

const lookupToChatFormat = "I'm experiencing: %s. Error code: %s. Can you help me with this?"

type ErrorCodeUsecase struct {
	codes    map[string]model.ErrorRecord
	symptoms map[string]model.ErrorRecord
}

func NewErrorCodeUsecase(vocabulary model.Vocabulary) *ErrorCodeUsecase {
	codes := make(map[string]model.ErrorRecord, len(vocabulary.ErrorCodes))
	for code, record := range vocabulary.ErrorCodes {
		codes[strings.ToUpper(code)] = record
	}
	symptoms := make(map[string]model.ErrorRecord, len(vocabulary.Symptoms))
	for symptom, record := range vocabulary.Symptoms {
		symptoms[strings.ToLower(symptom)] = record
	}
	return &ErrorCodeUsecase{
		codes:    codes,
		symptoms: symptoms,
	}
}

// Resolve tries the code table first and the symptom table second. Matches are exact.
func (e *ErrorCodeUsecase) Resolve(query string) (model.ErrorRecord, bool) {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return model.ErrorRecord{}, false
	}
	if record, ok := e.codes[strings.ToUpper(normalized)]; ok {
		return record, true
	}
	if record, ok := e.symptoms[normalized]; ok {
		return record, true
	}
	return model.ErrorRecord{}, false
}

func LookupToChatText(record model.ErrorRecord) string {
	return fmt.Sprintf(lookupToChatFormat, record.Issue, record.Code)
}
