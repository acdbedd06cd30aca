package quiz

import (
	"fmt"
	"strings"
)

const optionsPerQuestion = 4

// ValidateQuestions 会话准入校验：空集、选项数不为4、正确答案不在A-D内都整组拒绝。
// 这是对 AI 生成内容唯一的防线，这里不做任何猜测性修复。
func ValidateQuestions(questions []Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("%w: empty set", ErrInvalidQuestionSet)
	}

	for i, q := range questions {
		if strings.TrimSpace(q.Text) == "" {
			return fmt.Errorf("%w: question %d has empty text", ErrInvalidQuestionSet, i)
		}
		if len(q.Options) != optionsPerQuestion {
			return fmt.Errorf("%w: question %d has %d options, want %d", ErrInvalidQuestionSet, i, len(q.Options), optionsPerQuestion)
		}
		for j, opt := range q.Options {
			if strings.TrimSpace(opt) == "" {
				return fmt.Errorf("%w: question %d option %d is empty", ErrInvalidQuestionSet, i, j)
			}
		}
		if !validLabel(q.CorrectAnswer) {
			return fmt.Errorf("%w: question %d correct answer %q not in A-D", ErrInvalidQuestionSet, i, q.CorrectAnswer)
		}
	}
	return nil
}

func validLabel(label string) bool {
	switch label {
	case "A", "B", "C", "D":
		return true
	}
	return false
}
