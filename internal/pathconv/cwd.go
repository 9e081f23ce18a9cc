package pathconv

// FallbackRoot is used as the root when the current directory is unknown.
const FallbackRoot = "c:"

// DirProvider reports the process's current working directory. An empty
// result means the directory could not be determined.
type DirProvider interface {
	CurrentDir() string
}

// OSDir asks the operating system for the current directory.
type OSDir struct{}

// CurrentDir implements DirProvider.
func (OSDir) CurrentDir() string {
	return currentDir()
}

// FixedDir is a DirProvider that always reports the same directory.
type FixedDir string

// CurrentDir implements DirProvider.
func (d FixedDir) CurrentDir() string {
	return string(d)
}
