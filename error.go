package infodoc

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	EINVALID  = "invalid"
	ENOTFOUND = "not_found"
	EINTERNAL = "internal"

	// ENOMANUAL is returned when no file exists for a manual name.
	ENOMANUAL = "no_manual"
	// ENONODE is returned when every node lookup strategy is exhausted.
	ENONODE = "no_node"
	// EMALFORMED is returned when a tag table cannot be parsed.
	EMALFORMED = "malformed_tag_table"
	// ENOMENU is returned when a node has no menu.
	ENOMENU = "no_menu"
	// ENOMENUITEM is returned when a menu lacks the requested item.
	ENOMENUITEM = "no_menu_item"
	// ENOINDEX is returned when a manual has no index nodes.
	ENOINDEX = "no_index"
	// ENOPOINTER is returned when a node lacks a Next, Prev or Up pointer.
	ENOPOINTER = "no_pointer"
	// ENOHISTORY is returned when a history stack is empty.
	ENOHISTORY = "no_history"
)

// Error represents an application-specific error.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error.".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}
