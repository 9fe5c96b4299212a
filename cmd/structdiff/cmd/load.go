package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	gyaml "github.com/goccy/go-yaml"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/qri-io/structdiff"
)

// loadFile decodes a JSON or YAML document, picking the decoder by extension
func loadFile(path string, ordered bool) (interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	var v interface{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &v)
	case ".yaml", ".yml":
		v, err = decodeYAML(data, ordered)
	default:
		return nil, fmt.Errorf("unsupported file extension %q for %s", ext, path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}

	logrus.Debugf("loaded %s: %s, %d bytes", path, structdiff.Classify(v), len(data))
	return v, nil
}

// decodeYAML decodes YAML into native values. ordered documents keep their
// mappings as MapSlices, which structdiff treats as keyed sequences
func decodeYAML(data []byte, ordered bool) (interface{}, error) {
	var v interface{}
	if ordered {
		err := gyaml.UnmarshalWithOptions(data, &v, gyaml.UseOrderedMap())
		return v, err
	}
	err := yaml.Unmarshal(data, &v)
	return v, err
}

// parseValue reads a command line value. YAML is a superset of JSON, so
// both `{"a": 1}` and `a: 1` work
func parseValue(s string, ordered bool) (interface{}, error) {
	v, err := decodeYAML([]byte(s), ordered)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing value %q", s)
	}
	return v, nil
}

func encode(w io.Writer, v interface{}, format string, ordered bool) error {
	switch format {
	case "json", "pretty":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return errors.Wrap(err, "encoding json")
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		var (
			data []byte
			err  error
		)
		if ordered {
			data, err = gyaml.Marshal(v)
		} else {
			data, err = yaml.Marshal(v)
		}
		if err != nil {
			return errors.Wrap(err, "encoding yaml")
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
