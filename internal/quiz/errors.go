package quiz

import "errors"

var (
	// ErrInvalidQuestionSet 题目集结构不合法，整组拒绝，不做局部修复
	ErrInvalidQuestionSet = errors.New("invalid question set")
	// ErrInvalidTransition 当前状态不接受该事件（过期回调、重复触发等）。
	// 会话内部收到后不改状态；HTTP 层映射为 409，客户端据此刷新快照
	ErrInvalidTransition = errors.New("invalid session transition")
	// ErrAnswerLocked 该题已超时锁定，答案不可再修改
	ErrAnswerLocked = errors.New("answer locked by time expiry")
	// ErrNotViewed 当前题目既未作答也未超时，不能前进
	ErrNotViewed = errors.New("question not yet viewed")
	// ErrInvalidLabel 选项标签不在 A-D 范围内
	ErrInvalidLabel = errors.New("invalid option label")
	// ErrSessionNotFound 用户没有进行中的测验会话
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrNotCompleted 会话尚未结束，结果不可用
	ErrNotCompleted = errors.New("quiz session not completed")
)
