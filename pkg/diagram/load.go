package diagram

import (
	"bytes"
	_ "embed"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/dirchart/pkg/errors"
)

//go:embed aigovnav.toml
var defaultLayout []byte

// DefaultTOML returns the embedded layout document.
func DefaultTOML() []byte {
	return defaultLayout
}

// Default decodes the embedded directory structure layout.
func Default() (*Diagram, error) {
	return Parse(defaultLayout)
}

// Parse decodes and validates a TOML layout.
func Parse(data []byte) (*Diagram, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads a TOML layout from r, applies defaults and validates it.
// Unknown keys are rejected so typos do not silently drop elements.
func Decode(r io.Reader) (*Diagram, error) {
	var d Diagram
	md, err := toml.NewDecoder(r).Decode(&d)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLayout, err, "decode layout")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidLayout, "unknown layout keys: %s", strings.Join(keys, ", "))
	}
	d.SetDefaults()
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Load reads a TOML layout file.
func Load(path string) (*Diagram, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "layout %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read layout %s", path)
	}
	return Parse(data)
}

// Encode writes the diagram as TOML.
func (d *Diagram) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(d)
}
