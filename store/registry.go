package store

import (
	"os"
	"path/filepath"
	"sync"

	"docchat/types"
)

// FileRegistry tracks uploaded PDFs and owns the uploads directory. Entries
// are added on upload and removed only by explicit cleanup; Reset starts a
// fresh session by dropping both entries and files.
type FileRegistry struct {
	mu    sync.RWMutex
	root  string
	docs  map[string]types.Document
	order []string
}

func NewFileRegistry(root string) (*FileRegistry, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, err
	}
	return &FileRegistry{
		root: root,
		docs: make(map[string]types.Document),
	}, nil
}

func (r *FileRegistry) Root() string { return r.root }

func (r *FileRegistry) Add(doc types.Document) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[doc.Name]; !ok {
		r.order = append(r.order, doc.Name)
	}
	r.docs[doc.Name] = doc
}

func (r *FileRegistry) Lookup(name string) (types.Document, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[name]
	return doc, ok
}

// Names returns document names in upload order.
func (r *FileRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Remove drops one entry and deletes its file. Used to clean up a failed
// ingestion.
func (r *FileRegistry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[name]
	if !ok {
		return nil
	}
	delete(r.docs, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	if err := os.Remove(doc.Path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Reset clears all entries and deletes every file in the uploads directory,
// starting a fresh session.
func (r *FileRegistry) Reset() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.docs = make(map[string]types.Document)
	r.order = nil

	entries, err := os.ReadDir(r.root)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(r.root, e.Name())); err != nil {
			return err
		}
	}
	return nil
}
