package fs

import (
	"path"
	"strings"

	"srcpath/internal/logging"
)

var (
	pathLogger = logging.GetLogger().WithPrefix("path")
)

// ServerPath is a path in the debuggee's namespace as seen through the
// mount. It always starts with / and uses / as separator.
type ServerPath struct {
	path string
}

// NewServerPath cleans p and makes it absolute.
func NewServerPath(p string) *ServerPath {
	cleaned := path.Clean("/" + strings.ReplaceAll(p, `\`, "/"))
	pathLogger.Trace("Creating new server path: %q -> %q", p, cleaned)
	return &ServerPath{path: cleaned}
}

// String returns the string representation of the path
func (sp *ServerPath) String() string {
	return sp.path
}

// Join returns the child path for name
func (sp *ServerPath) Join(name string) *ServerPath {
	if sp.IsRoot() {
		return NewServerPath("/" + name)
	}
	return NewServerPath(sp.path + "/" + name)
}

// Base returns the last element of the path
func (sp *ServerPath) Base() string {
	return path.Base(sp.path)
}

// IsRoot returns true if this is the root path "/"
func (sp *ServerPath) IsRoot() bool {
	return sp.path == "/"
}
