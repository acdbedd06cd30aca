package service

import (
	"strings"
	"testing"
)

func TestExtractJSONArrayPlain(t *testing.T) {
	raw := `[{"question":"q1","options":["a","b","c","d"],"correctAnswer":"A"}]`
	got, err := extractJSONArray(raw)
	if err != nil {
		t.Fatalf("extractJSONArray: %v", err)
	}
	if got != raw {
		t.Errorf("got %q", got)
	}
}

func TestExtractJSONArrayFenced(t *testing.T) {
	raw := "```json\n[{\"question\":\"q1\"}]\n```"
	got, err := extractJSONArray(raw)
	if err != nil {
		t.Fatalf("extractJSONArray: %v", err)
	}
	if got != `[{"question":"q1"}]` {
		t.Errorf("got %q", got)
	}
}

func TestExtractJSONArrayWithSurroundingText(t *testing.T) {
	raw := "好的，以下是生成的题目：\n[{\"question\":\"q1\"}]\n希望对你有帮助。"
	got, err := extractJSONArray(raw)
	if err != nil {
		t.Fatalf("extractJSONArray: %v", err)
	}
	if got != `[{"question":"q1"}]` {
		t.Errorf("got %q", got)
	}
}

func TestExtractJSONArrayMissing(t *testing.T) {
	if _, err := extractJSONArray("抱歉，我无法生成题目。"); err == nil {
		t.Fatal("expected error when no array present")
	}
}

func TestExtractJSONObjectFenced(t *testing.T) {
	raw := "```json\n{\"name\":\"Go 入门\"}\n```"
	got, err := extractJSONObject(raw)
	if err != nil {
		t.Fatalf("extractJSONObject: %v", err)
	}
	if got != `{"name":"Go 入门"}` {
		t.Errorf("got %q", got)
	}
}

func TestExtractJSONObjectMissing(t *testing.T) {
	if _, err := extractJSONObject("no object here"); err == nil {
		t.Fatal("expected error when no object present")
	}
}

func TestBuildTutorMessagesOrder(t *testing.T) {
	history := []AIChatMessage{
		{Role: "user", Content: "什么是切片？"},
		{Role: "assistant", Content: "切片是……"},
	}
	msgs := buildTutorMessages("那数组呢？", "课程：Go 基础", history)

	if len(msgs) != 4 {
		t.Fatalf("len = %d, want 4", len(msgs))
	}
	if msgs[0].Role != "system" || !strings.Contains(msgs[0].Content, "Go 基础") {
		t.Errorf("system message missing background: %+v", msgs[0])
	}
	if msgs[1] != history[0] || msgs[2] != history[1] {
		t.Error("history not preserved in order")
	}
	if msgs[3].Role != "user" || msgs[3].Content != "那数组呢？" {
		t.Errorf("prompt not last: %+v", msgs[3])
	}
}
