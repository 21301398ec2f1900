package feed

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/navgen/pkg/errors"
)

// Sentinel errors for feed decoding.
var (
	// ErrUnknownFormat is returned when a feed path has no recognised extension.
	ErrUnknownFormat = errors.New("unknown feed format")

	// ErrEmpty is returned for a feed without declarations.
	ErrEmpty = errors.New("feed has no declarations")
)

// Format is the wire format of a feed.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatOf infers the feed format from a file name.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// ReadJSON decodes a JSON feed from r.
//
// Unknown fields are rejected so that typos in annotation argument names
// surface as feed errors instead of silently falling back to defaults.
func ReadJSON(r io.Reader) (*Feed, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var f Feed
	if err := dec.Decode(&f); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFeed, err, "decode json feed")
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// ReadTOML decodes a TOML feed from r.
func ReadTOML(r io.Reader) (*Feed, error) {
	var f Feed
	md, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFeed, err, "decode toml feed")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errs.New(errs.ErrCodeInvalidFeed, "unknown feed keys: %v", undecoded)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Read decodes a feed in the given format.
func Read(r io.Reader, format Format) (*Feed, error) {
	switch format {
	case FormatJSON:
		return ReadJSON(r)
	case FormatTOML:
		return ReadTOML(r)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Load reads and decodes the feed file at path, picking the format from
// its extension. The returned raw bytes feed the incremental cache keys.
func Load(path string) (*Feed, []byte, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	f, err := Read(bytes.NewReader(data), format)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, data, nil
}

// Validate checks the structural requirements every front-end relies on.
func (f *Feed) Validate() error {
	if len(f.Declarations) == 0 {
		return errs.Wrap(errs.ErrCodeInvalidFeed, ErrEmpty, "validate feed")
	}

	seen := make(map[string]bool, len(f.Types))
	for _, t := range f.Types {
		if t.QualifiedName == "" {
			return errs.New(errs.ErrCodeInvalidFeed, "type without qualified name")
		}
		if seen[t.QualifiedName] {
			return errs.New(errs.ErrCodeInvalidFeed, "type %s declared twice", t.QualifiedName)
		}
		seen[t.QualifiedName] = true
		if t.Kind == KindAlias && t.Target == nil {
			return errs.New(errs.ErrCodeInvalidFeed, "alias %s has no target", t.QualifiedName)
		}
	}

	decls := make(map[string]bool, len(f.Declarations))
	for _, d := range f.Declarations {
		if d.QualifiedName == "" {
			return errs.New(errs.ErrCodeInvalidFeed, "declaration %q without qualified name", d.Name)
		}
		if decls[d.QualifiedName] {
			return errs.New(errs.ErrCodeInvalidFeed, "declaration %s listed twice", d.QualifiedName)
		}
		decls[d.QualifiedName] = true
	}
	return nil
}
