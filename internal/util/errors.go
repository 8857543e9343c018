package util

import "errors"

var (
	ErrUserNotFound        = errors.New("用户不存在")
	ErrEmailRegistered     = errors.New("该邮箱已被注册")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrCollegeNotFound     = errors.New("college not found")
	ErrDepartmentNotFound  = errors.New("department not found")
	ErrTopicNotFound       = errors.New("topic not found")
	ErrSubTopicNotFound    = errors.New("sub-topic not found")
	ErrAssignmentNotFound  = errors.New("assignment not found")
	ErrQuestionNotFound    = errors.New("question not found")
	ErrAttemptNotFound     = errors.New("attempt not found")
	ErrAttemptCompleted    = errors.New("attempt already submitted")
	ErrScopeRequired       = errors.New("exactly one of assignment or sub-topic scope is required")
	ErrDuplicateCode       = errors.New("code already exists")
	ErrAssignmentNotActive = errors.New("assignment not currently active")
)
