// Package json provides machine-readable JSON output
package json

import (
	"encoding/json"
	"io"

	"github.com/arthur-debert/cfgmigrate/pkg/errors"
)

// Renderer provides JSON output for machine consumption
type Renderer struct {
	encoder *json.Encoder
}

// New creates a new JSON renderer
func New(output io.Writer) (*Renderer, error) {
	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")
	return &Renderer{encoder: encoder}, nil
}

// RenderResult renders any result type as JSON
func (r *Renderer) RenderResult(result interface{}) error {
	return r.encoder.Encode(result)
}

type errorObject struct {
	Error   string                 `json:"error"`
	Code    errors.ErrorCode       `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RenderError renders an error as JSON, with its code and details when it
// carries them
func (r *Renderer) RenderError(err error) error {
	obj := errorObject{
		Error:   err.Error(),
		Details: errors.GetErrorDetails(err),
	}
	if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		obj.Code = code
	}
	return r.encoder.Encode(obj)
}

// RenderMessage renders a simple message as JSON
func (r *Renderer) RenderMessage(msg string) error {
	return r.encoder.Encode(map[string]string{"message": msg})
}
