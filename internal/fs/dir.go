package fs

import (
	"context"
	"os"
	"strings"

	"srcpath/internal/logging"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"
)

var (
	dirLogger = logging.GetLogger().WithPrefix("dir")
)

// Dir is a server directory whose mapped client path is a local directory.
type Dir struct {
	fs         *SrcFS
	path       *ServerPath
	clientPath string
}

// Attr implements the Node interface, returning directory attributes.
func (d *Dir) Attr(_ context.Context, a *fuse.Attr) error {
	dirLogger.Trace("Getting attributes for directory: %q -> %q", d.path.String(), d.clientPath)

	a.Mode = os.ModeDir | 0555
	a.Uid = d.fs.uid
	a.Gid = d.fs.gid

	info, err := os.Stat(d.clientPath)
	if err != nil {
		// The root is always present even when its client path is not
		if d.path.IsRoot() {
			return nil
		}
		return ToFuseError(NewFSError(OpGetattr, d.path.String(), err))
	}
	a.Mode = os.ModeDir | (info.Mode().Perm() &^ 0222)
	a.Mtime = info.ModTime()
	a.Atime = info.ModTime()
	a.Ctime = info.ModTime()
	return nil
}

// Lookup implements the NodeStringLookuper interface, mapping the child's
// server path and stating the client path it maps to.
func (d *Dir) Lookup(_ context.Context, name string) (fusefs.Node, error) {
	// ServerPath treats backslashes as separators
	if strings.ContainsRune(name, '\\') {
		return nil, ToFuseError(NewFSError(OpLookup, d.path.String()+"/"+name, ErrInvalidPath))
	}
	childPath := d.path.Join(name)
	clientPath := d.fs.mapper.Map(childPath.String())
	dirLogger.Debug("Looking up %q -> %q", childPath.String(), clientPath)

	if d.fs.insideMount(clientPath) {
		dirLogger.Warn("Not serving %q, it is inside the mount point", clientPath)
		return nil, ToFuseError(NewFSError(OpLookup, childPath.String(), ErrPathNotFound))
	}

	info, err := os.Stat(clientPath)
	if err != nil {
		dirLogger.Debug("Client path not available: %v", err)
		return nil, ToFuseError(NewFSError(OpLookup, childPath.String(), err))
	}

	if info.IsDir() {
		return &Dir{fs: d.fs, path: childPath, clientPath: clientPath}, nil
	}
	if !info.Mode().IsRegular() {
		dirLogger.Debug("Skipping non-regular file: %q", clientPath)
		return nil, ToFuseError(NewFSError(OpLookup, childPath.String(), ErrPathNotFound))
	}
	return &File{fs: d.fs, path: childPath, clientPath: clientPath}, nil
}

// ReadDirAll implements the HandleReadDirAller interface, listing the
// client directory.
func (d *Dir) ReadDirAll(_ context.Context) ([]fuse.Dirent, error) {
	dirLogger.Debug("Reading directory contents: %q -> %q", d.path.String(), d.clientPath)

	children, err := os.ReadDir(d.clientPath)
	if err != nil {
		if d.path.IsRoot() && os.IsNotExist(err) {
			return nil, nil
		}
		return nil, ToFuseError(NewFSError(OpReadDir, d.path.String(), err))
	}

	entries := make([]fuse.Dirent, 0, len(children))
	for _, child := range children {
		switch {
		case child.IsDir():
			entries = append(entries, fuse.Dirent{Name: child.Name(), Type: fuse.DT_Dir})
		case child.Type().IsRegular():
			entries = append(entries, fuse.Dirent{Name: child.Name(), Type: fuse.DT_File})
		}
	}

	dirLogger.Debug("Directory %q contains %d entries", d.path.String(), len(entries))
	return entries, nil
}
