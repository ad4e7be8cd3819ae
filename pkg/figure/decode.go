package figure

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/hoverfx/pkg/errors"
	"github.com/matzehuels/hoverfx/pkg/traces"
)

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatOf returns the format for a file path by extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown figure format for %s", path)
}

// Read decodes a document from r and validates it.
func Read(r io.Reader, format Format) (*Document, error) {
	var doc Document
	var err error
	switch format {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&doc)
	case FormatTOML:
		_, err = toml.NewDecoder(r).Decode(&doc)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&doc)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown figure format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFigure, err, "decode %s", format)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Load reads a document from a file, choosing the format by extension.
func Load(path string) (*Document, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFigureNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, format)
}

// Write encodes doc to w.
func Write(w io.Writer, doc *Document, format Format) error {
	var err error
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(doc)
	case FormatTOML:
		err = toml.NewEncoder(w).Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(doc); err == nil {
			err = enc.Close()
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown figure format %q", format)
	}
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Save writes doc to a file, choosing the format by extension.
func Save(doc *Document, path string) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(f, doc, format)
}

// Validate checks identifiers and array shapes. Unknown trace types and
// hover modes are accepted; the hover engine skips or ignores them.
func (d *Document) Validate() error {
	if d.ID != "" {
		if err := errors.ValidateID(d.ID); err != nil {
			return err
		}
	}
	for id, ad := range d.Axes {
		if err := errors.ValidateAxisID(id); err != nil {
			return err
		}
		if ad.Overlaying != "" {
			if err := errors.ValidateAxisID(ad.Overlaying); err != nil {
				return err
			}
			if ad.Overlaying[:1] != id[:1] || ad.Overlaying == id {
				return errors.New(errors.ErrCodeInvalidFigure, "axis %s cannot overlay %s", id, ad.Overlaying)
			}
		}
		if len(ad.Range) != 0 && len(ad.Range) != 2 {
			return errors.New(errors.ErrCodeInvalidFigure, "axis %s: range needs two values", id)
		}
		if len(ad.Domain) != 0 && (len(ad.Domain) != 2 || ad.Domain[0] < 0 || ad.Domain[1] > 1 || ad.Domain[0] >= ad.Domain[1]) {
			return errors.New(errors.ErrCodeInvalidFigure, "axis %s: domain must be [a, b] with 0 <= a < b <= 1", id)
		}
	}
	for i := range d.Traces {
		td := &d.Traces[i]
		x, y := td.axisIDs()
		if err := errors.ValidateAxisID(x); err != nil {
			return err
		}
		if err := errors.ValidateAxisID(y); err != nil {
			return err
		}
		if x[0] != 'x' || y[0] != 'y' {
			return errors.New(errors.ErrCodeInvalidFigure, "trace %d: axes %s/%s are not an x/y pair", i, x, y)
		}
		if td.typ() == traces.TypeHeatmap && len(td.Z) == 0 {
			return errors.New(errors.ErrCodeInvalidFigure, "trace %d: heatmap needs z", i)
		}
	}
	return nil
}
