package hdl

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// An Emitter translates a design into text of a hardware description
// language under dir.
type Emitter interface {
	Emit(design Design, dialect Dialect, dir string) error
}

// Manifest is the document a ManifestEmitter writes.
type Manifest struct {
	Dialect string `json:"dialect"`
	Output  string `json:"output"`
	Design  Design `json:"design"`
}

// ManifestEmitter hands designs to an external toolchain. For each design it
// writes <dir>/<name>.<ext>.json, which names the dialect, the file the
// toolchain should produce, and the design itself.
type ManifestEmitter struct {
	Indent string
}

// NewManifestEmitter creates a ManifestEmitter that writes indented JSON.
func NewManifestEmitter() *ManifestEmitter {
	return &ManifestEmitter{Indent: "  "}
}

// ManifestPath returns where the manifest of design goes.
func ManifestPath(design Design, dialect Dialect, dir string) string {
	return filepath.Join(dir, OutputName(design, dialect)+".json")
}

// OutputName returns the file name of the translated design.
func OutputName(design Design, dialect Dialect) string {
	return fmt.Sprintf("%s.%s", design.Name, dialect.Extension())
}

// Emit writes the manifest of design, creating dir if needed.
func (e *ManifestEmitter) Emit(design Design, dialect Dialect, dir string) error {
	if !dialect.Valid() {
		return errors.Errorf("unknown dialect %d", int(dialect))
	}

	if design.Name == "" {
		return errors.New("design has no name")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", dir)
	}

	m := Manifest{
		Dialect: dialect.String(),
		Output:  OutputName(design, dialect),
		Design:  design,
	}

	b, err := json.MarshalIndent(m, "", e.Indent)
	if err != nil {
		return errors.Wrap(err, "encoding manifest")
	}

	path := ManifestPath(design, dialect, dir)
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}

	return nil
}

var _ Emitter = (*ManifestEmitter)(nil)
