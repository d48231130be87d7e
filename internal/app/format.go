package app

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dshills/gridstorm/internal/codec/htmldoc"
	"github.com/dshills/gridstorm/internal/codec/jsondoc"
	"github.com/dshills/gridstorm/internal/config"
	"github.com/dshills/gridstorm/internal/engine/model"
)

// FormatFromPath returns the document format implied by the extension
// of path: config.FormatJSON for .json, config.FormatHTML for .html and
// .htm.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return config.FormatJSON, nil
	case ".html", ".htm":
		return config.FormatHTML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// DecodeDocument parses data in the given format.
func DecodeDocument(format string, data []byte) (*model.Node, error) {
	switch format {
	case config.FormatJSON:
		return jsondoc.Decode(data)
	case config.FormatHTML:
		return htmldoc.Decode(bytes.NewReader(data))
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// EncodeDocument renders doc in the given format.
func EncodeDocument(format string, doc *model.Node) ([]byte, error) {
	switch format {
	case config.FormatJSON:
		return jsondoc.Encode(doc)
	case config.FormatHTML:
		var buf bytes.Buffer
		if err := htmldoc.Encode(&buf, doc); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}
