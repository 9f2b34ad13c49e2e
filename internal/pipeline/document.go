package pipeline

import (
	"git.home.luguber.info/inful/docnorm/internal/anchors"
	"git.home.luguber.info/inful/docnorm/internal/collection"
)

// Document is one markdown source moving through the stages. Stages modify
// it in place.
type Document struct {
	// Path is the source file on disk; used for git lookups.
	Path string
	// RelPath is the slash-separated path below the content directory.
	RelPath string
	// Source is the file content as read.
	Source []byte

	Fields         map[string]any
	HadFrontMatter bool
	Body           []byte
	Entry          collection.Entry
	Fingerprint    string

	HTML       []byte
	HeadingIDs []string
	Stats      anchors.Stats

	// Skipped is set when a stage returned ErrSkip; later stages did not run.
	Skipped bool
	// Err is the first stage failure, if any.
	Err error
}

// NewDocument creates a Document for the given source bytes.
func NewDocument(path, relPath string, source []byte) *Document {
	return &Document{
		Path:    path,
		RelPath: relPath,
		Source:  source,
		Fields:  map[string]any{},
	}
}
