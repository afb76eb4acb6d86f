package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/twophase/internal/docstore"
)

// editsFile is the on-disk format of an edits file.
type editsFile struct {
	Edits []editSpec `yaml:"edits"`
}

// editSpec is one edit as written in an edits file.
type editSpec struct {
	Op    string `yaml:"op"`
	Path  string `yaml:"path"`
	Value any    `yaml:"value,omitempty"`
	To    string `yaml:"to,omitempty"`
}

// LoadError represents an error that occurred while loading an input file.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadState reads and parses a YAML state file into a document.
func LoadState(path string) (*docstore.Document, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("state file not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("read state file: %v", err)}
	}

	doc, err := docstore.Load(data)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("parse state file %s: %v", path, err)}
	}
	return doc, nil
}

// LoadEdits reads an edits file and binds its edits to a document.
//
// The file must contain a non-empty "edits" list. Each entry needs an op
// (set, delete or rename), a dotted path, a value for set, and a target
// key for rename.
func LoadEdits(path string, doc *docstore.Document) ([]docstore.Edit, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("edits file not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("read edits file: %v", err)}
	}

	var file editsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("parse edits file %s: %v", path, err)}
	}
	if len(file.Edits) == 0 {
		return nil, &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("edits file %s contains no edits", path)}
	}

	edits := make([]docstore.Edit, 0, len(file.Edits))
	for i, spec := range file.Edits {
		switch spec.Op {
		case docstore.OpSet:
			edits = append(edits, docstore.SetField{Doc: doc, Path: spec.Path, Value: spec.Value})
		case docstore.OpDelete:
			edits = append(edits, docstore.DeleteField{Doc: doc, Path: spec.Path})
		case docstore.OpRename:
			edits = append(edits, docstore.RenameField{Doc: doc, Path: spec.Path, To: spec.To})
		default:
			return nil, &LoadError{
				Code:    ErrCodeParse,
				Message: fmt.Sprintf("edit %d: unknown op %q (want set, delete or rename)", i+1, spec.Op),
			}
		}
	}

	return edits, nil
}
