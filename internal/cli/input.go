package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/okian/fitscore/internal/domain/model"
)

// readScorable decodes ScorableData from path. "-" reads stdin as JSON;
// .yaml and .yml files are decoded as YAML.
func readScorable(path string, stdin io.Reader) (model.ScorableData, error) {
	var (
		data model.ScorableData
		raw  []byte
		err  error
	)
	if path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return data, fmt.Errorf("read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &data)
	default:
		err = json.Unmarshal(raw, &data)
	}
	if err != nil {
		return data, fmt.Errorf("decode %s: %w", path, err)
	}
	return data, nil
}
