package pathconv

import (
	"os"
	"strings"
)

func isSep(c byte) bool {
	return c == '/' || c == '\\'
}

// Normalizer lexically cleans paths into absolute form using a single
// separator. It never touches the filesystem except to ask Dir for the
// current directory when a path is relative.
type Normalizer struct {
	Dir       DirProvider
	Separator byte
}

// NewNormalizer returns a Normalizer using the host separator.
func NewNormalizer(dir DirProvider) *Normalizer {
	if dir == nil {
		dir = OSDir{}
	}
	return &Normalizer{Dir: dir, Separator: os.PathSeparator}
}

// Normalize resolves "." and ".." segments, unifies separators and anchors
// relative paths at the current directory. Leading ".." segments that
// cannot be resolved are kept.
func (n *Normalizer) Normalize(path string) string {
	sep := n.separator()

	root, rest, absolute := splitRoot(path)
	var stack []string
	if !absolute {
		root, stack = n.currentRoot()
		rest = path
	}
	stack = pushSegments(stack, rest)

	var b strings.Builder
	b.WriteString(root)
	for _, seg := range stack {
		b.WriteByte(sep)
		b.WriteString(seg)
	}
	if b.Len() == 0 {
		b.WriteByte(sep)
	}
	return b.String()
}

func (n *Normalizer) separator() byte {
	if n.Separator == 0 {
		return os.PathSeparator
	}
	return n.Separator
}

// currentRoot splits the current directory into its root and segments.
// A relative or empty report falls back to FallbackRoot.
func (n *Normalizer) currentRoot() (string, []string) {
	var cwd string
	if n.Dir != nil {
		cwd = n.Dir.CurrentDir()
	}
	if cwd == "" {
		return FallbackRoot, nil
	}
	root, rest, absolute := splitRoot(cwd)
	if !absolute {
		logger.Debug("Current directory %q is not absolute, using %s", cwd, FallbackRoot)
		root = FallbackRoot
		rest = cwd
	}
	return root, pushSegments(nil, rest)
}

// splitRoot separates the root prefix of path. A colon before the first
// separator ends a drive root; a leading separator denotes an absolute path
// with an empty prefix.
func splitRoot(path string) (root, rest string, absolute bool) {
	for i := 0; i < len(path); i++ {
		c := path[i]
		if c == ':' {
			return path[:i+1], path[i+1:], true
		}
		if isSep(c) {
			if i == 0 {
				return "", path, true
			}
			break
		}
	}
	return "", path, false
}

// pushSegments splits path on either separator and pushes every segment.
func pushSegments(stack []string, path string) []string {
	start := 0
	for i := 0; i < len(path); i++ {
		if isSep(path[i]) {
			stack = pushSegment(stack, path[start:i])
			start = i + 1
		}
	}
	return pushSegment(stack, path[start:])
}

func pushSegment(stack []string, seg string) []string {
	switch {
	case seg == "" || seg == ".":
		return stack
	case seg == ".." && len(stack) > 0 && stack[len(stack)-1] != "..":
		return stack[:len(stack)-1]
	default:
		return append(stack, seg)
	}
}

// FileName returns the part of path after the last separator, or path
// itself when it has none.
func FileName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if isSep(path[i]) {
			return path[i+1:]
		}
	}
	return path
}
