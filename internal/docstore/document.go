package docstore

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is a mutable YAML mapping held in memory.
//
// Documents are not safe for concurrent use. The edit invocations in this
// package assume one edit (or one composed batch) is driven to completion
// by a single caller before the document is touched again.
type Document struct {
	root map[string]any
}

// New creates an empty document.
func New() *Document {
	return &Document{root: map[string]any{}}
}

// Load parses YAML bytes into a document. The top level must be a mapping.
func Load(data []byte) (*Document, error) {
	root := map[string]any{}
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return &Document{root: root}, nil
}

// Bytes serializes the document back to YAML.
func (d *Document) Bytes() ([]byte, error) {
	out, err := yaml.Marshal(d.root)
	if err != nil {
		return nil, fmt.Errorf("serialize document: %w", err)
	}
	return out, nil
}

// Get resolves a dotted path and returns the value at it.
// The second return is false if the path doesn't resolve.
func (d *Document) Get(path string) (any, bool) {
	segments, err := splitPath(path)
	if err != nil {
		return nil, false
	}
	current := d.root
	for i, seg := range segments {
		value, ok := current[seg]
		if !ok {
			return nil, false
		}
		if i == len(segments)-1 {
			return value, true
		}
		next, ok := value.(map[string]any)
		if !ok {
			return nil, false
		}
		current = next
	}
	return nil, false
}

// splitPath validates and splits a dotted path into segments.
func splitPath(path string) ([]string, error) {
	if path == "" {
		return nil, &EditError{Code: ErrCodeInvalidPath, Path: path, Message: "path is empty"}
	}
	segments := strings.Split(path, ".")
	for _, seg := range segments {
		if seg == "" {
			return nil, &EditError{Code: ErrCodeInvalidPath, Path: path, Message: "path has an empty segment"}
		}
	}
	return segments, nil
}

// resolveParent walks all but the last segment of a dotted path and returns
// the mapping that holds the final key, plus the final key itself.
//
// Every intermediate segment must exist and be a mapping; this keeps the
// edits' commit phases down to plain map operations on the returned parent.
func (d *Document) resolveParent(path string) (map[string]any, string, error) {
	segments, err := splitPath(path)
	if err != nil {
		return nil, "", err
	}

	current := d.root
	for i, seg := range segments[:len(segments)-1] {
		value, ok := current[seg]
		if !ok {
			return nil, "", &EditError{
				Code:    ErrCodeMissingKey,
				Path:    strings.Join(segments[:i+1], "."),
				Message: "intermediate key does not exist",
			}
		}
		next, ok := value.(map[string]any)
		if !ok {
			return nil, "", &EditError{
				Code:    ErrCodeNotAMapping,
				Path:    strings.Join(segments[:i+1], "."),
				Message: "intermediate key is not a mapping",
			}
		}
		current = next
	}

	return current, segments[len(segments)-1], nil
}
