package bank

import "fmt"

// ReadError 读取题库文件时的错误
type ReadError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ReadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("read question bank: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("read question bank %s: %s: %v", e.Path, e.Reason, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}
