package response

// AppError 统一错误包装：Code 为 HTTP 状态码，Key 为机器可读错误标识
type AppError struct {
	Code    int
	Key     string
	Message string
	Details []string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WrapError 包装错误
func WrapError(code int, key, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Key:     key,
		Message: message,
		Err:     err,
	}
}

// WithDetails 附加逐项错误说明
func (e *AppError) WithDetails(details []string) *AppError {
	e.Details = details
	return e
}
