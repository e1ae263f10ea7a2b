package record

import (
	"errors"
	"fmt"
)

var errNull = errors.New("value is null")

type NotAnObjectError struct {
	Path string
	Err  error
}

func (e *NotAnObjectError) Error() string {
	where := e.Path
	if where == "" {
		where = "document"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s is not a JSON object: %v", where, e.Err)
	}
	return fmt.Sprintf("%s is not a JSON object", where)
}

func (e *NotAnObjectError) Unwrap() error {
	return e.Err
}

type MissingFieldError struct {
	Path string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("required field %s is missing", e.Path)
}

type FieldTypeError struct {
	Path string
	Want string
	Err  error
}

func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("field %s must be a %s: %v", e.Path, e.Want, e.Err)
}

func (e *FieldTypeError) Unwrap() error {
	return e.Err
}

type LiteralMismatchError struct {
	Path string
	Want string
	Got  string
}

func (e *LiteralMismatchError) Error() string {
	return fmt.Sprintf("field %s must be %q, got %q", e.Path, e.Want, e.Got)
}
