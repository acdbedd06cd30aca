package quiz

import (
	"sync"
	"time"
)

// State 会话状态机：NotStarted -> InProgress -> Completed
type State int

const (
	NotStarted State = iota
	InProgress
	Completed
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case InProgress:
		return "in_progress"
	case Completed:
		return "completed"
	}
	return "unknown"
}

// displayDelay 超时后展示正确状态的停留时间，之后自动推进
const displayDelay = 2 * time.Second

// Session 测验会话控制器。持有题目集、每题状态和当前游标，
// 所有变更都在锁内完成，计时器回调与用户操作串行化。
//
// 并发约定：
//   - transitioning 闩在超时到自动推进之间置位，期间的用户操作被丢弃而不是排队；
//   - epoch 随每次装表递增，旧纪元的超时回调一律作废，
//     防止手动推进和计时器同 tick 触发时重复前进。
type Session struct {
	mu    sync.Mutex
	id    string
	state State

	cfg       Config
	questions []Question
	states    []QuestionState
	current   int

	timer         *Countdown
	epoch         uint64
	transitioning bool
	disposed      bool

	startedAt   time.Time
	completedAt time.Time
	result      *Result

	// 测试钩子
	now          func() time.Time
	after        func(d time.Duration, f func())
	tickInterval time.Duration
}

// NewSession 校验题目集并进入 InProgress，装上第一题的计时器。
// 校验失败时不产生任何会话状态。
func NewSession(id string, questions []Question, cfg Config) (*Session, error) {
	return newSession(id, questions, cfg, time.Now, defaultAfter, time.Second)
}

func defaultAfter(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

func newSession(id string, questions []Question, cfg Config, now func() time.Time, after func(time.Duration, func()), tick time.Duration) (*Session, error) {
	if err := ValidateQuestions(questions); err != nil {
		return nil, err
	}
	if cfg.SecondsPerQuestion <= 0 {
		cfg.SecondsPerQuestion = 30
	}
	cfg.QuestionCount = len(questions)

	s := &Session{
		id:           id,
		state:        InProgress,
		cfg:          cfg,
		questions:    questions,
		states:       make([]QuestionState, len(questions)),
		startedAt:    now(),
		now:          now,
		after:        after,
		tickInterval: tick,
	}
	for i := range s.states {
		s.states[i].TimeLeftAtEntry = cfg.SecondsPerQuestion
	}
	s.armTimerLocked()
	return s, nil
}

// armTimerLocked 给当前题装满一块新表。旧表停走，纪元递增使其回调作废。
func (s *Session) armTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.epoch++
	epoch := s.epoch
	s.timer = NewCountdown(s.cfg.SecondsPerQuestion, s.tickInterval, func() {
		s.handleExpiry(epoch)
	})
	s.timer.Start()
}

// stopTimerLocked 停表并作废尚未送达的超时回调
func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.epoch++
}

// SelectAnswer 记录当前题的作答。只在计时器仍在走时允许修改，
// 超时锁定后的选择被拒绝，保证"已过期"结论不会被悄悄覆盖。
func (s *Session) SelectAnswer(label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed || s.state != InProgress || s.transitioning {
		return ErrInvalidTransition
	}
	if !validLabel(label) {
		return ErrInvalidLabel
	}

	st := &s.states[s.current]
	if st.TimeExpired {
		return ErrAnswerLocked
	}
	if s.timer == nil || !s.timer.Active() {
		// 回看的冻结题面，不可再交互
		return ErrInvalidTransition
	}

	st.UserAnswer = label
	st.Viewed = true
	return nil
}

// Advance 用户点击"下一题"。要求当前题已作答或已超时。
// 走到最后一题时等价于 Finish。
func (s *Session) Advance() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.advanceLocked()
}

func (s *Session) advanceLocked() error {
	if s.disposed || s.state != InProgress || s.transitioning {
		return ErrInvalidTransition
	}
	if !s.states[s.current].Viewed {
		return ErrNotViewed
	}

	s.stopTimerLocked()

	if s.current == len(s.questions)-1 {
		s.completeLocked()
		return nil
	}

	s.current++
	s.enterCurrentLocked()
	return nil
}

// Retreat 用户点击"上一题"。只改游标，目标题按构造必然已 viewed，
// 以冻结状态展示，计时器不再装表。
func (s *Session) Retreat() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed || s.state != InProgress || s.transitioning {
		return ErrInvalidTransition
	}
	if s.current == 0 {
		return ErrInvalidTransition
	}

	s.stopTimerLocked()
	s.current--
	s.states[s.current].TimeLeftAtEntry = 0
	return nil
}

// Finish 最后一题上的"交卷"按钮，语义等同在最后一题上 Advance
func (s *Session) Finish() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed || s.state != InProgress || s.transitioning {
		return ErrInvalidTransition
	}
	if s.current != len(s.questions)-1 {
		return ErrInvalidTransition
	}
	return s.advanceLocked()
}

// enterCurrentLocked 进入游标所指的题：回看过的题冻结展示，新题重新装表
func (s *Session) enterCurrentLocked() {
	st := &s.states[s.current]
	if st.Viewed {
		st.TimeLeftAtEntry = 0
		return
	}
	st.TimeLeftAtEntry = s.cfg.SecondsPerQuestion
	s.armTimerLocked()
}

// handleExpiry 计时器归零。标记当前题过期并置闩，
// 停留 displayDelay 后自动推进；最后一题直接结束。
func (s *Session) handleExpiry(epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed || s.state != InProgress || epoch != s.epoch {
		return
	}

	st := &s.states[s.current]
	st.TimeExpired = true
	st.Viewed = true
	s.transitioning = true

	s.after(displayDelay, func() {
		s.autoAdvance(epoch)
	})
}

// autoAdvance 超时停留结束后的自动推进
func (s *Session) autoAdvance(epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed || s.state != InProgress || epoch != s.epoch {
		return
	}
	s.transitioning = false

	if s.current == len(s.questions)-1 {
		s.stopTimerLocked()
		s.completeLocked()
		return
	}

	s.current++
	s.epoch++ // 过期的表不再复用
	s.enterCurrentLocked()
}

// completeLocked 进入终态并组装一次性的结果快照
func (s *Session) completeLocked() {
	s.state = Completed
	s.completedAt = s.now()
	s.result = s.buildResultLocked()
}

func (s *Session) buildResultLocked() *Result {
	res := &Result{
		TotalQuestions: len(s.questions),
		Questions:      make([]ResultQuestion, len(s.questions)),
	}
	for i, q := range s.questions {
		st := s.states[i]
		opts := make([]ResultOption, len(q.Options))
		for j, text := range q.Options {
			opts[j] = ResultOption{Text: text, Label: labelForIndex(j)}
		}

		var userAnswer *string
		if st.UserAnswer != "" {
			answer := st.UserAnswer
			userAnswer = &answer
		}
		correct := st.UserAnswer == q.CorrectAnswer

		res.Questions[i] = ResultQuestion{
			Question:      q.Text,
			Options:       opts,
			CorrectAnswer: q.CorrectAnswer,
			UserAnswer:    userAnswer,
			IsCorrect:     correct,
		}
		if correct {
			res.Score++
		}
	}
	return res
}

// Result 终态结果的副本；未结束返回 ErrNotCompleted
func (s *Session) Result() (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Completed || s.result == nil {
		return nil, ErrNotCompleted
	}
	return s.copyResultLocked(), nil
}

func (s *Session) copyResultLocked() *Result {
	cp := *s.result
	cp.Questions = make([]ResultQuestion, len(s.result.Questions))
	copy(cp.Questions, s.result.Questions)
	return &cp
}

// Snapshot 渲染层视图。进行中不暴露正确答案，结束后附带结果。
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:             s.id,
		State:          s.state.String(),
		Config:         s.cfg,
		CurrentIndex:   s.current,
		TotalQuestions: len(s.questions),
		States:         make([]QuestionState, len(s.states)),
	}
	copy(snap.States, s.states)

	if s.state == InProgress {
		if s.timer != nil {
			snap.TimeLeft = s.timer.Remaining()
		}
		q := s.questions[s.current]
		opts := make([]ResultOption, len(q.Options))
		for j, text := range q.Options {
			opts[j] = ResultOption{Text: text, Label: labelForIndex(j)}
		}
		snap.Question = &ViewQuestion{Index: s.current, Question: q.Text, Options: opts}
	}
	if s.state == Completed && s.result != nil {
		snap.Result = s.copyResultLocked()
	}
	return snap
}

// ID 会话标识
func (s *Session) ID() string {
	return s.id
}

// StartedAt 会话开始时间
func (s *Session) StartedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startedAt
}

// CompletedAt 进入终态的时间，未结束为零值
func (s *Session) CompletedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completedAt
}

// TimeSpent 从开始到结束（或当前）经过的时长
func (s *Session) TimeSpent() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.completedAt.IsZero() {
		return s.completedAt.Sub(s.startedAt)
	}
	return s.now().Sub(s.startedAt)
}

// State 当前状态
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispose 停表并作废一切未送达的回调。用户离开页面时必须调用，
// 防止悬挂的超时回调打在已拆除的会话上。重复调用是空操作。
func (s *Session) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return
	}
	s.disposed = true
	s.transitioning = false
	s.stopTimerLocked()
}
