package quiz

import (
	"errors"
	"testing"
	"time"
)

// manualScheduler 把延迟回调攒起来由测试手动触发，保证推进时序可控
type manualScheduler struct {
	pending []func()
}

func (m *manualScheduler) after(_ time.Duration, f func()) {
	m.pending = append(m.pending, f)
}

func (m *manualScheduler) fire() {
	pending := m.pending
	m.pending = nil
	for _, f := range pending {
		f()
	}
}

func testQuestions(n int) []Question {
	qs := make([]Question, n)
	for i := range qs {
		qs[i] = Question{
			Text:          "question",
			Options:       []string{"w", "x", "y", "z"},
			CorrectAnswer: "B",
		}
	}
	return qs
}

// newTestSession 的计时 tick 设为一小时，真实 ticker 在测试期间不会走动，
// 超时一律通过 expire 手动注入。
func newTestSession(t *testing.T, n int, sched *manualScheduler) *Session {
	t.Helper()
	s, err := newSession("s-test", testQuestions(n), Config{Difficulty: "Medium", SecondsPerQuestion: 30},
		time.Now, sched.after, time.Hour)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s
}

func expire(s *Session) {
	s.mu.Lock()
	epoch := s.epoch
	s.mu.Unlock()
	s.handleExpiry(epoch)
}

func TestCompletionYieldsTotalQuestions(t *testing.T) {
	sched := &manualScheduler{}
	s := newTestSession(t, 4, sched)

	for i := 0; i < 4; i++ {
		if err := s.SelectAnswer("A"); err != nil {
			t.Fatalf("select q%d: %v", i, err)
		}
		if err := s.Advance(); err != nil {
			t.Fatalf("advance q%d: %v", i, err)
		}
	}

	res, err := s.Result()
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if res.TotalQuestions != 4 {
		t.Fatalf("total = %d, want 4", res.TotalQuestions)
	}
	if len(res.Questions) != 4 {
		t.Fatalf("per-question entries = %d, want 4", len(res.Questions))
	}
}

func TestScoreCountsOnlyCorrectAnswers(t *testing.T) {
	sched := &manualScheduler{}
	s := newTestSession(t, 3, sched)

	answers := []string{"B", "A", "B"} // 对、错、对
	for _, a := range answers {
		if err := s.SelectAnswer(a); err != nil {
			t.Fatalf("select: %v", err)
		}
		if err := s.Advance(); err != nil {
			t.Fatalf("advance: %v", err)
		}
	}

	res, err := s.Result()
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if res.Score != 2 {
		t.Fatalf("score = %d, want 2", res.Score)
	}
	if res.Score > res.TotalQuestions {
		t.Fatalf("score %d exceeds total %d", res.Score, res.TotalQuestions)
	}
}

func TestExpiryLocksAnswer(t *testing.T) {
	sched := &manualScheduler{}
	s := newTestSession(t, 2, sched)

	if err := s.SelectAnswer("B"); err != nil {
		t.Fatalf("select: %v", err)
	}
	expire(s)

	// 锁定后无论多少次选择都不再生效
	for i := 0; i < 3; i++ {
		err := s.SelectAnswer("A")
		if err == nil {
			t.Fatal("expected select after expiry to be rejected")
		}
	}
	sched.fire() // 自动推进到第二题

	snap := s.Snapshot()
	if snap.CurrentIndex != 1 {
		t.Fatalf("current = %d, want 1", snap.CurrentIndex)
	}
	if got := snap.States[0].UserAnswer; got != "B" {
		t.Fatalf("locked answer changed to %q", got)
	}
	if !snap.States[0].TimeExpired || !snap.States[0].Viewed {
		t.Fatalf("expired question must be viewed+expired, got %+v", snap.States[0])
	}
}

func TestBackForwardRoundTripIsStable(t *testing.T) {
	sched := &manualScheduler{}
	s := newTestSession(t, 3, sched)

	if err := s.SelectAnswer("C"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := s.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if err := s.SelectAnswer("D"); err != nil {
		t.Fatalf("select: %v", err)
	}

	if err := s.Retreat(); err != nil {
		t.Fatalf("retreat: %v", err)
	}
	snap := s.Snapshot()
	if snap.CurrentIndex != 0 {
		t.Fatalf("current = %d, want 0", snap.CurrentIndex)
	}
	if snap.TimeLeft != 0 {
		t.Fatalf("revisited question must show frozen timer, got %d", snap.TimeLeft)
	}
	// 冻结题面上不能再改答案
	if err := s.SelectAnswer("A"); err == nil {
		t.Fatal("expected select on frozen question to be rejected")
	}

	if err := s.Advance(); err != nil {
		t.Fatalf("advance back: %v", err)
	}
	snap = s.Snapshot()
	if snap.CurrentIndex != 1 {
		t.Fatalf("current = %d, want 1", snap.CurrentIndex)
	}
	if got := snap.States[0].UserAnswer; got != "C" {
		t.Fatalf("answer changed across navigation: %q", got)
	}
	if got := snap.States[1].UserAnswer; got != "D" {
		t.Fatalf("answer changed across navigation: %q", got)
	}
	// 已看过的题不重新装表
	if snap.TimeLeft != 0 {
		t.Fatalf("viewed question re-armed timer: %d", snap.TimeLeft)
	}
}

func TestExpiryRaceAdvancesExactlyOnce(t *testing.T) {
	sched := &manualScheduler{}
	s := newTestSession(t, 3, sched)

	expire(s)

	// 停留窗口内的手动推进是重复触发，必须被丢弃
	if err := s.Advance(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("advance during transition = %v, want ErrInvalidTransition", err)
	}
	if err := s.Retreat(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("retreat during transition = %v, want ErrInvalidTransition", err)
	}

	sched.fire()
	snap := s.Snapshot()
	if snap.CurrentIndex != 1 {
		t.Fatalf("current = %d, want exactly 1", snap.CurrentIndex)
	}

	// 作废纪元的超时回调不得再次推进
	s.handleExpiry(0)
	sched.fire()
	if got := s.Snapshot().CurrentIndex; got != 1 {
		t.Fatalf("stale expiry advanced cursor to %d", got)
	}
}

func TestMixedScenarioScoring(t *testing.T) {
	sched := &manualScheduler{}
	s := newTestSession(t, 3, sched)

	// Q1 答对
	if err := s.SelectAnswer("B"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := s.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}

	// Q2 放任超时
	expire(s)
	sched.fire()

	// Q3 答错后交卷
	if err := s.SelectAnswer("A"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := s.Finish(); err != nil {
		t.Fatalf("finish: %v", err)
	}

	res, err := s.Result()
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if res.Score != 1 {
		t.Fatalf("score = %d, want 1", res.Score)
	}
	if res.Questions[1].IsCorrect {
		t.Fatal("expired question marked correct")
	}
	if res.Questions[1].UserAnswer != nil {
		t.Fatalf("expired question has answer %q, want null", *res.Questions[1].UserAnswer)
	}
	if res.Questions[2].IsCorrect {
		t.Fatal("wrong answer marked correct")
	}
}

func TestMalformedSetNeverStarts(t *testing.T) {
	bad := testQuestions(2)
	bad[1].Options = bad[1].Options[:3] // 缺一个选项

	s, err := NewSession("s-bad", bad, Config{SecondsPerQuestion: 30})
	if !errors.Is(err, ErrInvalidQuestionSet) {
		t.Fatalf("err = %v, want ErrInvalidQuestionSet", err)
	}
	if s != nil {
		t.Fatal("session must not be created from malformed set")
	}
}

func TestFinishOnLastQuestionCompletesOnce(t *testing.T) {
	sched := &manualScheduler{}
	s := newTestSession(t, 2, sched)

	if err := s.SelectAnswer("B"); err != nil {
		t.Fatalf("select: %v", err)
	}
	// 非最后一题不能交卷
	if err := s.Finish(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("finish on q0 = %v, want ErrInvalidTransition", err)
	}
	if err := s.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if err := s.SelectAnswer("B"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := s.Finish(); err != nil {
		t.Fatalf("finish: %v", err)
	}

	if s.State() != Completed {
		t.Fatalf("state = %v, want Completed", s.State())
	}
	res, err := s.Result()
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if res.Score != 2 || res.TotalQuestions != 2 {
		t.Fatalf("score/total = %d/%d, want 2/2", res.Score, res.TotalQuestions)
	}

	// 终态后的事件全部作废
	if err := s.Advance(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("advance after completion = %v, want ErrInvalidTransition", err)
	}
	if err := s.SelectAnswer("A"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("select after completion = %v, want ErrInvalidTransition", err)
	}
}

func TestLastQuestionExpiryCompletesDirectly(t *testing.T) {
	sched := &manualScheduler{}
	s := newTestSession(t, 1, sched)

	expire(s)
	sched.fire()

	if s.State() != Completed {
		t.Fatalf("state = %v, want Completed", s.State())
	}
	res, err := s.Result()
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if res.Score != 0 {
		t.Fatalf("score = %d, want 0", res.Score)
	}
}

func TestDisposeInvalidatesPendingCallbacks(t *testing.T) {
	sched := &manualScheduler{}
	s := newTestSession(t, 2, sched)

	expire(s)
	s.Dispose()
	sched.fire()

	if got := s.Snapshot().CurrentIndex; got != 0 {
		t.Fatalf("disposed session advanced to %d", got)
	}
	if err := s.SelectAnswer("A"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("select after dispose = %v, want ErrInvalidTransition", err)
	}
	s.Dispose() // 幂等
}

func TestResultIsACopy(t *testing.T) {
	sched := &manualScheduler{}
	s := newTestSession(t, 1, sched)

	if err := s.SelectAnswer("B"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := s.Finish(); err != nil {
		t.Fatalf("finish: %v", err)
	}

	res1, _ := s.Result()
	res1.Questions[0].IsCorrect = false
	res1.Score = 99

	res2, _ := s.Result()
	if res2.Score != 1 || !res2.Questions[0].IsCorrect {
		t.Fatal("result snapshot is not isolated from callers")
	}
}
