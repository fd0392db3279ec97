package core

import "errors"

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）以及 errors.Is（按 Module + Code 比较）
//
// 使用场景：
//   - Store 错误：NOT_FOUND, NOT_SUPPORTED
//   - Index 错误：物品不存在
//   - Quiz 错误：偏好缺失、偏好无法解析、非法等级
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "INVALID_INPUT"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "index", "quiz"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is 让 errors.Is 能够识别被 fmt.Errorf("%w") 包装过的哨兵错误。
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Module == t.Module && e.Code == t.Code && e.Message == t.Message
}

// IsDomainError 检查错误链中是否存在 DomainError
func IsDomainError(err error) bool {
	return GetDomainError(err) != nil
}

// GetDomainError 获取错误链中的 DomainError，如果不存在则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeNotSupported  = "NOT_SUPPORTED"  // 操作不支持
	ErrorCodeUnavailable   = "UNAVAILABLE"    // 服务不可用
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入无效
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误
)

// 模块名称常量
const (
	ModuleStore     = "store"     // 存储模块
	ModuleIndex     = "index"     // 相似度索引
	ModuleQuiz      = "quiz"      // 问卷 / 偏好
	ModuleRecommend = "recommend" // 混合推荐
)

var (
	// ErrItemNotFound 名称或 ID 无法解析到目录中的物品
	ErrItemNotFound = NewDomainError(ModuleIndex, ErrorCodeNotFound, "fragrance not found")

	// ErrPreferencesNotFound 用户没有问卷记录
	ErrPreferencesNotFound = NewDomainError(ModuleQuiz, ErrorCodeNotFound, "quiz not started")

	// ErrMalformedPreferences 存储的偏好无法解析
	ErrMalformedPreferences = NewDomainError(ModuleQuiz, ErrorCodeInvalidInput, "malformed preferences")

	// ErrQuizNotStarted 提交答案前未开始问卷
	ErrQuizNotStarted = NewDomainError(ModuleQuiz, ErrorCodeInvalidInput, "quiz not started")

	// ErrAnswersRequired 提交的答案为空
	ErrAnswersRequired = NewDomainError(ModuleQuiz, ErrorCodeInvalidInput, "answers are required")

	// ErrInvalidTier 非法的经验等级
	ErrInvalidTier = NewDomainError(ModuleQuiz, ErrorCodeInvalidInput, "valid experience level is required")

	// ErrFavoriteNotFound 收藏记录不存在
	ErrFavoriteNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "favorite not found")
)

func hasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	return hasCode(err, ErrorCodeNotFound)
}

// IsNotSupported 检查错误是否为 NOT_SUPPORTED
func IsNotSupported(err error) bool {
	return hasCode(err, ErrorCodeNotSupported)
}

// IsUnavailable 检查错误是否为 UNAVAILABLE
func IsUnavailable(err error) bool {
	return hasCode(err, ErrorCodeUnavailable)
}

// IsInvalidInput 检查错误是否为 INVALID_INPUT
func IsInvalidInput(err error) bool {
	return hasCode(err, ErrorCodeInvalidInput)
}
