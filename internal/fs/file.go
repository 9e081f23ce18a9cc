package fs

import (
	"context"
	"io"
	"os"
	"sync"

	"srcpath/internal/logging"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"
)

var (
	fileLogger = logging.GetLogger().WithPrefix("file")
)

// File is a server file backed by the local file at clientPath.
type File struct {
	fs         *SrcFS
	path       *ServerPath
	clientPath string
}

// Attr implements the Node interface, returning the file's attributes.
func (f *File) Attr(_ context.Context, a *fuse.Attr) error {
	fileLogger.Trace("Getting attributes for file: %q (client: %q)", f.path.String(), f.clientPath)

	info, err := os.Stat(f.clientPath)
	if err != nil {
		fileLogger.Warn("Client file not available: %q: %v", f.clientPath, err)
		return ToFuseError(NewFSError(OpGetattr, f.path.String(), err))
	}

	a.Mode = info.Mode().Perm() &^ 0222
	a.Size = safeInt64ToUint64(info.Size())
	a.Mtime = info.ModTime()
	a.Atime = info.ModTime()
	a.Ctime = info.ModTime()
	a.Uid = f.fs.uid
	a.Gid = f.fs.gid
	a.BlockSize = 4096
	a.Blocks = safeInt64ToUint64((info.Size() + 511) / 512)
	return nil
}

// Open implements the NodeOpener interface, opening the client file.
func (f *File) Open(_ context.Context, req *fuse.OpenRequest, resp *fuse.OpenResponse) (fusefs.Handle, error) {
	fileLogger.Debug("Opening file %q (client: %q)", f.path.String(), f.clientPath)

	if !req.Flags.IsReadOnly() {
		fileLogger.Warn("Attempted write access to read-only file: %q", f.path.String())
		return nil, ToFuseError(NewFSError(OpOpen, f.path.String(), ErrReadOnly))
	}

	file, err := os.Open(f.clientPath)
	if err != nil {
		return nil, ToFuseError(NewFSError(OpOpen, f.path.String(), err))
	}

	resp.Flags |= fuse.OpenKeepCache
	return &FileHandle{
		file: file,
		path: f.path.String(),
	}, nil
}

// FileHandle is an open client file.
type FileHandle struct {
	file *os.File
	path string // For logging purposes
	mu   sync.Mutex
}

// Read implements the HandleReader interface, reading data from the file.
func (fh *FileHandle) Read(_ context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	fh.mu.Lock()
	defer fh.mu.Unlock()

	fileLogger.Trace("Reading %d bytes from file %q at offset %d", req.Size, fh.path, req.Offset)

	buf := make([]byte, req.Size)
	n, err := fh.file.ReadAt(buf, req.Offset)
	if err != nil && err != io.EOF {
		return ToFuseError(NewFSError(OpRead, fh.path, err))
	}

	resp.Data = buf[:n]
	return nil
}

// Release implements the HandleReleaser interface, closing the file handle.
func (fh *FileHandle) Release(_ context.Context, _ *fuse.ReleaseRequest) error {
	fh.mu.Lock()
	defer fh.mu.Unlock()

	fileLogger.Debug("Closing file %q", fh.path)
	return fh.file.Close()
}

func safeInt64ToUint64(n int64) uint64 {
	if n < 0 {
		return 0
	}
	return uint64(n)
}

func safeIntToUint32(n int) uint32 {
	if n < 0 {
		return 0
	}
	return uint32(n)
}
