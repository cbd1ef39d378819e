// Package configfile reads and writes the JSON configuration files of the
// trading system. All access is confined to a single directory and file
// names are validated before the filesystem is touched.
package configfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"order-dashboard/internal/observability"
	"order-dashboard/internal/storage"
	"order-dashboard/internal/trace"
)

// DefaultDir is the directory holding the configuration files.
const DefaultDir = "/etc/algotrading/config"

const extension = ".json"

// FileInfo describes one configuration file.
type FileInfo struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// Store provides access to the JSON files in one directory.
type Store struct {
	dir string
}

// NewStore returns a store over DefaultDir.
func NewStore() *Store {
	return &Store{dir: DefaultDir}
}

// NewStoreAt returns a store over dir. Used by tests.
func NewStoreAt(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the directory the store operates on.
func (s *Store) Dir() string {
	return s.dir
}

// ValidateFilename rejects names that could escape the directory or
// that do not name a JSON file.
func ValidateFilename(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: filename is required", storage.ErrInvalidInput)
	case strings.Contains(name, ".."), strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: invalid filename %q", storage.ErrInvalidInput, name)
	case !strings.HasSuffix(name, extension) || name == extension:
		return fmt.Errorf("%w: only %s files are allowed", storage.ErrInvalidInput, extension)
	}
	return nil
}

// List returns the JSON files in the directory sorted by name.
// A missing directory yields an empty list.
func (s *Store) List(ctx context.Context) (files []FileInfo, err error) {
	_, span := trace.StartSpan(ctx, "configfile.List", attribute.String("dir", s.dir))
	defer func() {
		observability.RecordConfigFileOp("list", err)
		trace.EndSpan(span, err)
	}()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []FileInfo{}, nil
		}
		return nil, fmt.Errorf("%w: list %s: %w", storage.ErrIO, s.dir, err)
	}

	files = []FileInfo{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), extension) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue // removed since ReadDir
			}
			return nil, fmt.Errorf("%w: stat %s: %w", storage.ErrIO, e.Name(), err)
		}
		files = append(files, FileInfo{
			Name:     e.Name(),
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// Read parses the named file as JSON. Numbers keep their exact text.
func (s *Store) Read(ctx context.Context, name string) (content any, err error) {
	_, span := trace.StartSpan(ctx, "configfile.Read", attribute.String("filename", name))
	defer func() {
		observability.RecordConfigFileOp("read", err)
		trace.EndSpan(span, err)
	}()

	if err := ValidateFilename(name); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, name)
		}
		return nil, fmt.Errorf("%w: read %s: %w", storage.ErrIO, name, err)
	}

	content, err = decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", storage.ErrMalformedJSON, name, err)
	}
	return content, nil
}

// Write replaces the named file with content.
// A raw JSON string holding a JSON document is parsed first, so the
// file always stores the document rather than an escaped string.
func (s *Store) Write(ctx context.Context, name string, content json.RawMessage) (err error) {
	_, span := trace.StartSpan(ctx, "configfile.Write", attribute.String("filename", name))
	defer func() {
		observability.RecordConfigFileOp("write", err)
		trace.EndSpan(span, err)
	}()

	if err := ValidateFilename(name); err != nil {
		return err
	}

	value, err := Unwrap(content)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", storage.ErrMalformedJSON, name, err)
	}
	out = append(out, '\n')

	return s.writeAtomic(name, out)
}

// Unwrap turns a request payload into the value to store.
// Missing or null content is invalid input; a string must itself hold JSON.
func Unwrap(content json.RawMessage) (any, error) {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, fmt.Errorf("%w: content is required", storage.ErrInvalidInput)
	}

	value, err := decode(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrMalformedJSON, err)
	}

	if text, ok := value.(string); ok {
		value, err = decode([]byte(text))
		if err != nil {
			return nil, fmt.Errorf("%w: content string: %w", storage.ErrMalformedJSON, err)
		}
	}
	return value, nil
}

func (s *Store) writeAtomic(name string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, "."+name+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp for %s: %w", storage.ErrIO, name, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write %s: %w", storage.ErrIO, name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close %s: %w", storage.ErrIO, name, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: chmod %s: %w", storage.ErrIO, name, err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: replace %s: %w", storage.ErrIO, name, err)
	}
	return nil
}

// decode parses exactly one JSON document.
func decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after top-level value")
	}
	return v, nil
}
