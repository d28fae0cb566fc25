package remote

import (
	"errors"
	"fmt"
)

// APIError lỗi mang status code kiểu HTTP từ một collaborator bên ngoài
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

// StatusOf trả về status code nếu err là APIError, 0 nếu không phải
func StatusOf(err error) int {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.StatusCode
	}
	return 0
}

// IsClientError lỗi 4xx — validation, không retry
func IsClientError(err error) bool {
	s := StatusOf(err)
	return s >= 400 && s < 500
}

// ExtractMessage rút message hiển thị được từ lỗi bất kỳ
func ExtractMessage(err error) string {
	if err == nil {
		return ""
	}
	var ae *APIError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return err.Error()
}
