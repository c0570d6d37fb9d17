package usecase

import (
	"github.com/iamvkosarev/repair-chat-bot/internal/model"
	"strings"
)

type AdvisorUsecase struct {
	vocabulary model.Vocabulary
}

func NewAdvisorUsecase(vocabulary model.Vocabulary) *AdvisorUsecase {
	return &AdvisorUsecase{
		vocabulary: vocabulary,
	}
}

// SuggestTools returns the distinct tools of every part mentioned in text.
func (a *AdvisorUsecase) SuggestTools(text string) []string {
	lowered := strings.ToLower(text)
	if lowered == "" {
		return nil
	}
	seen := make(map[string]struct{})
	tools := make([]string, 0)
	for _, entry := range a.vocabulary.Tools {
		if !strings.Contains(lowered, strings.ToLower(entry.Keyword)) {
			continue
		}
		for _, tool := range entry.Values {
			if _, ok := seen[tool]; ok {
				continue
			}
			seen[tool] = struct{}{}
			tools = append(tools, tool)
		}
	}
	return tools
}

func (a *AdvisorUsecase) KnownIssues(vehicle, text string) []string {
	lowered := strings.ToLower(text)
	if lowered == "" {
		return nil
	}
	issues := make([]string, 0)
	for _, issue := range a.vocabulary.KnownIssues[vehicle] {
		if strings.Contains(lowered, strings.ToLower(issue)) {
			issues = append(issues, issue)
		}
	}
	return issues
}

func (a *AdvisorUsecase) IsKnownIssue(vehicle, text string) bool {
	return len(a.KnownIssues(vehicle, text)) > 0
}

// QuickPrompts falls back to the generic list for vehicles without their own prompts.
func (a *AdvisorUsecase) QuickPrompts(vehicle string) []string {
	if vehicle == "" {
		return nil
	}
	if prompts, ok := a.vocabulary.QuickPrompts[vehicle]; ok {
		return prompts
	}
	return a.vocabulary.QuickPrompts[a.vocabulary.GenericVehicle]
}

func (a *AdvisorUsecase) Tip(n int) string {
	tips := a.vocabulary.Tips
	if len(tips) == 0 {
		return ""
	}
	n %= len(tips)
	if n < 0 {
		n += len(tips)
	}
	return tips[n]
}

func (a *AdvisorUsecase) Examples() []string {
	return a.vocabulary.Examples
}

func (a *AdvisorUsecase) Vehicles() []string {
	return a.vocabulary.Vehicles
}
