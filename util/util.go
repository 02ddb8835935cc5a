package util

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Check whether a file (or dir) with name exists in file system.
// If it encounter an file system access error, return false,err
func FileExists(name string) (bool, error) {
	_, err := os.Stat(name)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// Return a new slice that has duplicate elements removed, keeping the first occurrence.
func UniqueSlice[T comparable](slice []T) []T {
	keys := make(map[T]struct{}, len(slice))
	list := []T{}
	for _, entry := range slice {
		if _, ok := keys[entry]; !ok {
			keys[entry] = struct{}{}
			list = append(list, entry)
		}
	}
	return list
}

// Parse http content-type header and return mediatype, e.g. "text/html".
// contentType: the http Content-Type header, e.g. "text/html; charset=utf-8"
func MediaType(contentType string) string {
	if contentType != "" {
		if mediatype, _, err := mime.ParseMediaType(contentType); err == nil {
			return mediatype
		}
	}
	return ""
}

// Marshal a object to json (indented) / yaml / toml string according to contentType.
// contentType could be: a mediatype (e.g. "application/json"), or a file type or extension (e.g. "json" or ".json").
// For yaml and toml, input is first converted to it's json form (see ToGeneric),
// so the field names are the json ones.
// If contentType is empty or is not a supported type, return an error.
func Marshal(contentType string, input any) (data []byte, err error) {
	if strings.ContainsRune(contentType, '/') {
		contentType = MediaType(contentType)
	}
	switch contentType {
	case "application/json", "text/json", "json", ".json":
		return json.MarshalIndent(input, "", "  ")
	case "application/yaml", "text/yaml", "yaml", ".yaml", "yml", ".yml":
		if input, err = ToGeneric(input); err != nil {
			return nil, err
		}
		return yaml.Marshal(input)
	case "application/toml", "text/toml", "toml", ".toml":
		if input, err = ToGeneric(input); err != nil {
			return nil, err
		}
		return toml.Marshal(input)
	default:
		return nil, fmt.Errorf("Marshal: unsupported format %s", contentType)
	}
}

// ToGeneric converts input to the map[string]any / []any / scalar form of it's json representation.
// Integers that fit in int64 become int64, other numbers float64;
// integers too large for int64 are kept as their decimal string, so they are never rounded.
func ToGeneric(input any) (any, error) {
	data, err := json.Marshal(input)
	if err != nil {
		return nil, err
	}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var output any
	if err := decoder.Decode(&output); err != nil {
		return nil, err
	}
	return normalizeNumbers(output), nil
}

func normalizeNumbers(v any) any {
	switch v := v.(type) {
	case map[string]any:
		for key, value := range v {
			v[key] = normalizeNumbers(value)
		}
	case []any:
		for i, value := range v {
			v[i] = normalizeNumbers(value)
		}
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		if strings.ContainsAny(v.String(), ".eE") {
			if f, err := v.Float64(); err == nil {
				return f
			}
		}
		return v.String()
	}
	return v
}
