package events

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	applog "github.com/evently/evently/internal/log"
)

// Format names a supported data file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatICS  Format = "ics"
)

// ErrUnknownFormat is returned for file extensions no decoder handles.
var ErrUnknownFormat = errors.New("unknown events file format")

// FormatFromPath picks the decoder from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".ics", ".ical":
		return FormatICS, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// LoadFile reads and decodes an events file.
func LoadFile(path string) ([]Event, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read events file: %w", err)
	}
	evs, err := Parse(format, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	applog.Debug("events loaded", "path", path, "format", string(format), "count", len(evs))
	return evs, nil
}

// Parse decodes data in the given format. Entries keep their file order.
func Parse(format Format, data []byte) ([]Event, error) {
	switch format {
	case FormatJSON:
		return parseJSON(data)
	case FormatYAML:
		return parseYAML(data)
	case FormatICS:
		return parseICS(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func parseJSON(data []byte) ([]Event, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	var records []record
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("failed to parse events JSON: %w", err)
		}
	} else {
		var doc document
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse events JSON: %w", err)
		}
		records = doc.Events
	}
	return convert(records)
}

func parseYAML(data []byte) ([]Event, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to parse events YAML: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	var records []record
	root := node.Content[0]
	if root.Kind == yaml.SequenceNode {
		if err := root.Decode(&records); err != nil {
			return nil, fmt.Errorf("failed to parse events YAML: %w", err)
		}
	} else {
		var doc document
		if err := root.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse events YAML: %w", err)
		}
		records = doc.Events
	}
	return convert(records)
}

func convert(records []record) ([]Event, error) {
	out := make([]Event, 0, len(records))
	for i, r := range records {
		ev, err := r.toEvent(i)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, nil
}

// CachePath returns where Fetch stores the downloaded events file.
func CachePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to get cache directory: %w", err)
	}
	return filepath.Join(cacheDir, "evently", "events.json"), nil
}

// LoadFromCache loads the events file previously downloaded by Fetch.
func LoadFromCache() ([]Event, error) {
	cachePath, err := CachePath()
	if err != nil {
		return nil, err
	}
	return LoadFile(cachePath)
}

// IsCacheFresh reports whether the cache file exists and was written within
// maxAge. A non-positive maxAge accepts any existing file.
func IsCacheFresh(cachePath string, maxAge time.Duration) (bool, error) {
	info, err := os.Stat(cachePath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if maxAge <= 0 {
		return true, nil
	}
	return info.ModTime().After(time.Now().Add(-maxAge)), nil
}
