// Package ffcat is the fingerprint catalog engine's public surface. It
// wraps internal/catalog and internal/persist behind a small Database type
// and a process-wide name→handle Registry, the sole shared resource spec §5
// names across databases (each Database instance itself follows the
// single-threaded-per-handle model the original implementation assumes).
package ffcat

import (
	"io"
	"os"
	"sync"

	"github.com/nilotpal-labs/ffcat/internal/catalog"
	"github.com/nilotpal-labs/ffcat/internal/persist"
	"github.com/nilotpal-labs/ffcat/pkg/logging"
	"github.com/nilotpal-labs/ffcat/pkg/options"
	"go.uber.org/zap"
)

// Database is a handle on one in-memory catalog. It embeds the engine's
// entity graph and adds the save/load entry points a host application
// actually calls.
type Database struct {
	*catalog.Database
	log *zap.SugaredLogger
}

// New creates an empty, unnamed Database. Use Open to additionally
// register it in a process-wide Registry under name.
func New(opts ...options.OptionFunc) *Database {
	o := options.NewDefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	log := logging.New("ffcat")
	return &Database{
		Database: catalog.New(catalog.Config{Options: &o, Logger: log}),
		log:      log,
	}
}

// Save writes db's full state to w (spec §4.G, §6).
func (db *Database) Save(w io.Writer, progressEvery int) error {
	return persist.Save(w, db.Database, persist.Config{Logger: db.log, ProgressEvery: progressEvery})
}

// Load replaces db's content by reading a previously Saved stream from r.
// db must be empty; Load does not clear existing state before reading.
func (db *Database) Load(r io.Reader, readBufferSize int) error {
	return persist.Load(r, db.Database, persist.Config{Logger: db.log, ReadBufferSize: readBufferSize})
}

// SaveFile is a convenience wrapper that Saves to a newly created file at
// path.
func (db *Database) SaveFile(path string, progressEvery int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return db.Save(f, progressEvery)
}

// LoadFile is a convenience wrapper that Loads from an existing file at
// path.
func (db *Database) LoadFile(path string, readBufferSize int) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return db.Load(f, readBufferSize)
}

// Registry is a process-wide name→Database handle table, the one resource
// the original implementation shares across otherwise independent
// databases (spec §5).
type Registry struct {
	mu   sync.Mutex
	open map[string]*Database
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{open: make(map[string]*Database)}
}

// Open registers and returns a new empty Database under name, or the
// already-open Database if name is already held.
func (r *Registry) Open(name string, opts ...options.OptionFunc) *Database {
	r.mu.Lock()
	defer r.mu.Unlock()
	if db, ok := r.open[name]; ok {
		return db
	}
	db := New(opts...)
	r.open[name] = db
	return db
}

// Close drops name from the registry. It does not flush or save the
// database; callers that want durability call Database.Save first.
func (r *Registry) Close(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.open, name)
}

// List returns the names of every currently open database.
func (r *Registry) List() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.open))
	for name := range r.open {
		names = append(names, name)
	}
	return names
}

// Get returns the Database registered under name, if any.
func (r *Registry) Get(name string) (*Database, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	db, ok := r.open[name]
	return db, ok
}
