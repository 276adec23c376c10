package audit

import "errors"

var (
	ErrLoad  = errors.New("load audit log")
	ErrSave  = errors.New("update audit log")
	ErrClear = errors.New("clear audit log")
)
