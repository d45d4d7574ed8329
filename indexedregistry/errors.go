package indexedregistry

import "fmt"

// DuplicateIndexName is returned by the register operations when an index
// with the given name already exists for the requested kind.
type DuplicateIndexName struct {
	Name string
	Kind string
}

func (e *DuplicateIndexName) Error() string {
	return fmt.Sprintf("duplicate index name %q for kind %q", e.Name, e.Kind)
}
