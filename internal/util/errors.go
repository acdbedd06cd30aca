package util

import "errors"

// 业务层公共错误，controller 据此映射 HTTP 状态码
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrCourseNotFound     = errors.New("course not found")
	ErrMilestoneNotFound  = errors.New("milestone not found")
	ErrChatNotFound       = errors.New("chat history not found")
	ErrForbidden          = errors.New("forbidden")
	ErrDeadlinePast       = errors.New("deadline must be in the future")
)
