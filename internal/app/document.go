package app

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/dshills/gridstorm/internal/config"
	"github.com/dshills/gridstorm/internal/engine"
	"github.com/dshills/gridstorm/internal/engine/model"
	"github.com/dshills/gridstorm/internal/table"
)

// Document is a loaded file, or a scratch table, with its engine.
type Document struct {
	Path   string // absolute; empty for scratch documents
	Name   string // base name, or "Untitled"
	Format string // config.FormatJSON or config.FormatHTML
	Engine *engine.Engine

	saved atomic.Uint64 // engine revision last written to Path
}

// NewDocument creates a document holding root.
func NewDocument(path, format string, root *model.Node, opts ...engine.Option) *Document {
	name := filepath.Base(path)
	if path == "" {
		name = "Untitled"
	}
	return &Document{
		Path:   path,
		Name:   name,
		Format: format,
		Engine: engine.New(root, opts...),
	}
}

// LoadDocument reads and decodes the file at path. The format follows the
// file extension.
func LoadDocument(path string, opts ...engine.Option) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	root, err := DecodeDocument(format, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return NewDocument(path, format, root, opts...), nil
}

// NewTableDocument creates a scratch document holding one rows x cols
// table of empty cells.
func NewTableDocument(rows, cols int, headerRow bool, opts ...engine.Option) (*Document, error) {
	schema := model.DefaultSchema()
	t, err := table.NewTable(schema, rows, cols, headerRow)
	if err != nil {
		return nil, err
	}
	return NewDocument("", config.FormatJSON, schema.TopType().Create(nil, t), opts...), nil
}

// IsModified reports whether the engine has committed since the last save.
func (d *Document) IsModified() bool {
	return d.Engine.Revision() != d.saved.Load()
}

func (d *Document) IsScratch() bool {
	return d.Path == ""
}

// Save writes the document back to its path in its format.
func (d *Document) Save() error {
	if d.IsScratch() {
		return NewOperationError("save", d.Name, ErrDocumentNotFound)
	}
	return d.SaveAs(d.Path, d.Format)
}

// SaveAs writes the document to path in format. It does not change the
// document's own path or format.
func (d *Document) SaveAs(path, format string) error {
	rev := d.Engine.Revision()
	data, err := EncodeDocument(format, d.Engine.Doc())
	if err != nil {
		return NewOperationError("save", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return NewOperationError("save", path, err)
	}
	if path == d.Path {
		d.saved.Store(rev)
	}
	return nil
}

// DocumentManager tracks the open documents in open order and which one
// commands apply to. Files are keyed by absolute path, scratch documents by
// a generated key.
type DocumentManager struct {
	mu      sync.RWMutex
	open    []*Document
	keys    []string
	active  *Document
	scratch int
	opts    []engine.Option
}

// NewDocumentManager returns an empty manager whose documents' engines are
// created with opts.
func NewDocumentManager(opts ...engine.Option) *DocumentManager {
	return &DocumentManager{opts: opts}
}

// index returns the position of key in open order, or -1.
func (dm *DocumentManager) index(key string) int {
	return slices.Index(dm.keys, key)
}

// Open loads the file at path and makes it active. A file that is already
// open is only activated.
func (dm *DocumentManager) Open(path string) (*Document, error) {
	key, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	dm.mu.Lock()
	defer dm.mu.Unlock()
	if i := dm.index(key); i >= 0 {
		dm.active = dm.open[i]
		return dm.active, nil
	}

	doc, err := LoadDocument(key, dm.opts...)
	if err != nil {
		return nil, NewOperationError("open", path, err)
	}
	dm.push(key, doc)
	return doc, nil
}

// CreateScratch adds and activates a scratch document holding a rows x
// cols table. The second and later scratch documents are numbered.
func (dm *DocumentManager) CreateScratch(rows, cols int, headerRow bool) (*Document, error) {
	doc, err := NewTableDocument(rows, cols, headerRow, dm.opts...)
	if err != nil {
		return nil, err
	}

	dm.mu.Lock()
	defer dm.mu.Unlock()
	dm.scratch++
	if dm.scratch > 1 {
		doc.Name = fmt.Sprintf("Untitled-%d", dm.scratch)
	}
	dm.push(fmt.Sprintf("scratch:%d", dm.scratch), doc)
	return doc, nil
}

func (dm *DocumentManager) push(key string, doc *Document) {
	dm.keys = append(dm.keys, key)
	dm.open = append(dm.open, doc)
	dm.active = doc
}

// Close forgets the document opened from path. Closing the active
// document activates the most recently opened one left.
func (dm *DocumentManager) Close(path string) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	i := dm.index(path)
	if i < 0 {
		return ErrDocumentNotFound
	}
	closed := dm.open[i]
	dm.keys = slices.Delete(dm.keys, i, i+1)
	dm.open = slices.Delete(dm.open, i, i+1)
	if dm.active == closed {
		dm.active = nil
		if n := len(dm.open); n > 0 {
			dm.active = dm.open[n-1]
		}
	}
	return nil
}

// Active returns the document commands apply to, or nil.
func (dm *DocumentManager) Active() *Document {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.active
}

func (dm *DocumentManager) SetActiveByPath(path string) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	i := dm.index(path)
	if i < 0 {
		return ErrDocumentNotFound
	}
	dm.active = dm.open[i]
	return nil
}

func (dm *DocumentManager) Get(path string) (*Document, bool) {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	if i := dm.index(path); i >= 0 {
		return dm.open[i], true
	}
	return nil, false
}

// All returns the open documents in open order.
func (dm *DocumentManager) All() []*Document {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return slices.Clone(dm.open)
}

func (dm *DocumentManager) Count() int {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return len(dm.open)
}

// DirtyDocuments returns the documents with unsaved commits.
func (dm *DocumentManager) DirtyDocuments() []*Document {
	return slices.DeleteFunc(dm.All(), func(d *Document) bool { return !d.IsModified() })
}

func (dm *DocumentManager) HasDirty() bool {
	return slices.ContainsFunc(dm.All(), (*Document).IsModified)
}
