// Package errors provides the classified error type used across docnorm.
//
// A ClassifiedError carries a category, a severity and structured context,
// usually including the document it belongs to. The CLI adapter maps
// categories to process exit codes.
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryRender, "markdown conversion failed").
//		WithDocument(doc.RelPath).
//		Build()
package errors
