// Package checkcache persists per-file check results on disk so unchanged
// files skip the parse and rule passes on repeated runs.
package checkcache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"cstyle/internal/diag"
	"cstyle/internal/source"
)

// Schema version of Entry. Bump whenever the payload layout or any
// diagnostic message text changes, otherwise stale renders leak out of
// old cache files.
const schemaVersion uint16 = 1

// Digest identifies one (content, pattern set) combination.
type Digest [32]byte

// Finding is a cached diagnostic, stripped down to what re-rendering
// needs. Spans are stored as byte offsets; the FileID is rebound when the
// file is loaded again.
type Finding struct {
	Code     uint16
	Severity uint8
	Start    uint32
	End      uint32
	Message  string
}

// Entry is the on-disk payload for a single checked file.
type Entry struct {
	Schema     uint16
	PatternSet string
	Findings   []Finding
}

// Cache is a disk-backed result store. Safe for concurrent use.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// Open initializes a cache under XDG_CACHE_HOME (or ~/.cache) for the
// given application name.
func Open(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// KeyFor derives the cache key from the normalized file content, the
// pattern set name and the schema version. Path is deliberately not part
// of the key: identical content checks identically wherever it lives.
func KeyFor(file *source.File, patternSet string) Digest {
	h := sha256.New()
	h.Write(file.Hash[:])
	h.Write([]byte(patternSet))
	var ver [2]byte
	binary.LittleEndian.PutUint16(ver[:], schemaVersion)
	h.Write(ver[:])

	var key Digest
	copy(key[:], h.Sum(nil))
	return key
}

func (c *Cache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "results", hex.EncodeToString(key[:])+".mp")
}

// Put serializes an entry and atomically replaces any previous one.
func (c *Cache) Put(key Digest, entry *Entry) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(f.Name())
	}()

	if err := msgpack.NewEncoder(f).Encode(entry); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads an entry. A missing file or a schema mismatch is a miss, not
// an error.
func (c *Cache) Get(key Digest) (*Entry, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer func() {
		_ = f.Close()
	}()

	var entry Entry
	if err := msgpack.NewDecoder(f).Decode(&entry); err != nil {
		return nil, false, err
	}
	if entry.Schema != schemaVersion {
		return nil, false, nil
	}
	return &entry, true, nil
}

// DropAll invalidates the whole cache directory.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

// FromBag converts accumulated diagnostics into a cacheable entry.
func FromBag(patternSet string, bag *diag.Bag) *Entry {
	items := bag.Items()
	entry := &Entry{
		Schema:     schemaVersion,
		PatternSet: patternSet,
		Findings:   make([]Finding, 0, len(items)),
	}
	for _, d := range items {
		entry.Findings = append(entry.Findings, Finding{
			Code:     uint16(d.Code),
			Severity: uint8(d.Severity),
			Start:    d.Primary.Start,
			End:      d.Primary.End,
			Message:  d.Message,
		})
	}
	return entry
}

// Replay re-reports the cached findings against a freshly loaded file.
func (e *Entry) Replay(fileID source.FileID, rep diag.Reporter) {
	for _, f := range e.Findings {
		span := source.Span{File: fileID, Start: f.Start, End: f.End}
		rep.Report(diag.Code(f.Code), diag.Severity(f.Severity), span, f.Message, nil)
	}
}
