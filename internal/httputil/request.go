package httputil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"signpost/internal/config"
	"signpost/internal/sidebar"
)

// ErrBodyTooLarge is returned when a request body exceeds the size limit.
var ErrBodyTooLarge = errors.New("request body too large")

// ParseJSON decodes a single JSON value from the request body into dest.
// Unknown fields are rejected.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxRequestBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dest); err != nil {
		return bodyError(err)
	}
	if decoder.More() {
		return errors.New("invalid JSON: unexpected data after the request object")
	}

	return nil
}

// ParseConfig decodes a sidebars config from the request body. The format
// follows Content-Type: JSON by default, YAML for application/yaml or
// text/yaml, and the JS module syntax for text/javascript.
func ParseConfig(w http.ResponseWriter, r *http.Request) (sidebar.Config, error) {
	format, err := formatFromContentType(r.Header.Get("Content-Type"))
	if err != nil {
		return sidebar.Config{}, err
	}

	// Read the whole body first: the YAML decoder flattens reader errors
	// into strings, which would hide the size limit.
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxRequestBodyBytes)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return sidebar.Config{}, bodyError(err)
	}
	cfg, err := sidebar.Decode(bytes.NewReader(data), format)
	if err != nil {
		return sidebar.Config{}, bodyError(err)
	}
	return cfg, nil
}

// UnsupportedMediaTypeError reports a Content-Type ParseConfig cannot read.
type UnsupportedMediaTypeError struct {
	MediaType string
}

func (e *UnsupportedMediaTypeError) Error() string {
	return fmt.Sprintf("unsupported content type %q", e.MediaType)
}

func formatFromContentType(header string) (sidebar.Format, error) {
	if header == "" {
		return sidebar.FormatJSON, nil
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return "", &UnsupportedMediaTypeError{MediaType: header}
	}
	switch mediaType {
	case "application/json":
		return sidebar.FormatJSON, nil
	case "application/yaml", "application/x-yaml", "text/yaml":
		return sidebar.FormatYAML, nil
	case "text/javascript", "application/javascript":
		return sidebar.FormatJS, nil
	default:
		return "", &UnsupportedMediaTypeError{MediaType: mediaType}
	}
}

func bodyError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, maxErr.Limit)
	}
	if errors.Is(err, io.EOF) {
		return errors.New("request body is empty")
	}
	return fmt.Errorf("invalid request body: %w", err)
}
