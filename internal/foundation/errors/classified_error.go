package errors

import (
	stderrors "errors"
	"fmt"
)

const contextDocument = "document"

// ClassifiedError is an error with a category, a severity and structured
// context.
type ClassifiedError struct {
	cause    error
	context  ErrorContext
	category ErrorCategory
	severity ErrorSeverity
	message  string
}

// Error formats as "[category] document: message: cause", omitting the
// parts that are unset.
func (e *ClassifiedError) Error() string {
	msg := e.message
	if doc := e.Document(); doc != "" {
		msg = doc + ": " + msg
	}
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.category, msg, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.category, msg)
}

func (e *ClassifiedError) Unwrap() error { return e.cause }

func (e *ClassifiedError) Category() ErrorCategory { return e.category }

func (e *ClassifiedError) Severity() ErrorSeverity { return e.severity }

func (e *ClassifiedError) Message() string { return e.message }

func (e *ClassifiedError) Context() ErrorContext { return e.context }

// Document returns the source document the error was tagged with, if any.
func (e *ClassifiedError) Document() string {
	doc, _ := e.context.GetString(contextDocument)
	return doc
}

// Is matches another ClassifiedError with the same category and message,
// regardless of context.
func (e *ClassifiedError) Is(target error) bool {
	if other, ok := target.(*ClassifiedError); ok {
		return e.category == other.category && e.message == other.message
	}
	return false
}

// AsClassified finds the first ClassifiedError in err's chain.
func AsClassified(err error) (*ClassifiedError, bool) {
	var classified *ClassifiedError
	if stderrors.As(err, &classified) {
		return classified, true
	}
	return nil, false
}

// HasCategory reports whether the first ClassifiedError in err's chain has
// the given category.
func HasCategory(err error, category ErrorCategory) bool {
	classified, ok := AsClassified(err)
	return ok && classified.category == category
}

// Tag records relPath as the document of the first ClassifiedError in err's
// chain, unless one is already set. err is returned unchanged.
func Tag(err error, relPath string) error {
	if classified, ok := AsClassified(err); ok && classified.Document() == "" {
		classified.context = classified.context.Set(contextDocument, relPath)
	}
	return err
}
