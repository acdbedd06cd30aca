package quiz

import (
	"errors"
	"testing"
)

func TestValidateQuestions(t *testing.T) {
	valid := Question{
		Text:          "What does CPU stand for?",
		Options:       []string{"a", "b", "c", "d"},
		CorrectAnswer: "A",
	}

	cases := []struct {
		name    string
		mutate  func([]Question) []Question
		wantErr bool
	}{
		{"valid set", func(qs []Question) []Question { return qs }, false},
		{"empty set", func([]Question) []Question { return nil }, true},
		{"three options", func(qs []Question) []Question {
			qs[1].Options = qs[1].Options[:3]
			return qs
		}, true},
		{"five options", func(qs []Question) []Question {
			qs[0].Options = append(qs[0].Options, "e")
			return qs
		}, true},
		{"label out of range", func(qs []Question) []Question {
			qs[2].CorrectAnswer = "E"
			return qs
		}, true},
		{"lowercase label rejected", func(qs []Question) []Question {
			qs[0].CorrectAnswer = "a"
			return qs
		}, true},
		{"empty question text", func(qs []Question) []Question {
			qs[1].Text = "   "
			return qs
		}, true},
		{"empty option text", func(qs []Question) []Question {
			qs[2].Options[3] = ""
			return qs
		}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			qs := make([]Question, 3)
			for i := range qs {
				q := valid
				q.Options = append([]string(nil), valid.Options...)
				qs[i] = q
			}
			err := ValidateQuestions(tc.mutate(qs))
			if tc.wantErr && !errors.Is(err, ErrInvalidQuestionSet) {
				t.Fatalf("err = %v, want ErrInvalidQuestionSet", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
		})
	}
}

func TestManagerReplacesAndDisposes(t *testing.T) {
	m := NewManager()

	s1, err := NewSession("s1", testQuestions(1), Config{SecondsPerQuestion: 600})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	s2, err := NewSession("s2", testQuestions(1), Config{SecondsPerQuestion: 600})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	m.Put(7, s1)
	m.Put(7, s2) // 替换时旧会话应被废弃

	if err := s1.SelectAnswer("A"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("replaced session still accepts input: %v", err)
	}
	got, ok := m.Get(7)
	if !ok || got != s2 {
		t.Fatal("manager lost current session")
	}
	if m.Count() != 1 {
		t.Fatalf("count = %d, want 1", m.Count())
	}

	m.Remove(7)
	if _, ok := m.Get(7); ok {
		t.Fatal("session survived removal")
	}
	if err := s2.SelectAnswer("A"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("removed session still accepts input: %v", err)
	}
	m.Remove(7) // 幂等
}
