package settings

import "fmt"

// DocumentParseError reports a settings file that is not valid
// JSON-with-comments.
type DocumentParseError struct {
	Filename string
	Detail   string
}

func (e *DocumentParseError) Error() string {
	if e.Filename == "" {
		return fmt.Sprintf("invalid settings document: %s", e.Detail)
	}
	return fmt.Sprintf("invalid settings document %s: %s", e.Filename, e.Detail)
}
