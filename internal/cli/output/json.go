package output

import (
	"encoding/json"
	"io"
)

// JSONFormatter writes indented JSON without HTML escaping, so URLs and
// notes containing & or < print as typed.
type JSONFormatter struct{}

// Format writes data followed by a newline.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
