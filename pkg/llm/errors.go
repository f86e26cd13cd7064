package llm

import "errors"

// ErrServiceUnavailable 是所有补全服务故障的共同类别，调用方用 errors.Is 判断即可。
var ErrServiceUnavailable = errors.New("completion service unavailable")

var (
	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = &kindError{msg: "llm request timed out"}

	// ErrUnavailable indicates the endpoint is unreachable, misconfigured or returned a non-200 status.
	ErrUnavailable = &kindError{msg: "llm endpoint unavailable"}

	// ErrInvalidResponse indicates the response body was malformed or empty.
	ErrInvalidResponse = &kindError{msg: "invalid llm response"}
)

type kindError struct {
	msg string
}

func (e *kindError) Error() string { return e.msg }

// Is 让每一种具体错误同时匹配 ErrServiceUnavailable。
func (e *kindError) Is(target error) bool {
	return target == ErrServiceUnavailable
}
