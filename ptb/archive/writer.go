package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
)

// Builder accumulates named members and serializes a fresh ZIP-format
// container. Export always starts from an empty builder; existing archives
// are never rewritten in place.
type Builder struct {
	order   []string
	members map[string][]byte
}

// NewBuilder returns an empty archive builder.
func NewBuilder() *Builder {
	return &Builder{members: make(map[string][]byte)}
}

// Add stores a member. Adding the same name twice replaces the content but
// keeps the original position.
func (b *Builder) Add(name string, data []byte) {
	if _, ok := b.members[name]; !ok {
		b.order = append(b.order, name)
	}
	b.members[name] = data
}

// Len returns the number of members added so far.
func (b *Builder) Len() int {
	return len(b.order)
}

// Bytes serializes the members into ZIP container bytes in insertion order.
func (b *Builder) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range b.order {
		w, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("creating member %s: %w", name, err)
		}
		if _, err := w.Write(b.members[name]); err != nil {
			return nil, fmt.Errorf("writing member %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalizing container: %w", err)
	}
	return buf.Bytes(), nil
}
