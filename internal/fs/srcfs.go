// Package fs serves the debuggee's source namespace as a read-only FUSE
// filesystem. Every lookup maps the accumulated server path to a client
// path and exposes the local file found there.
package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"srcpath/internal/logging"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"
)

var (
	vfsLogger = logging.GetLogger().WithPrefix("vfs")
)

// Mapper maps a server path to a client path.
type Mapper interface {
	Map(server string) string
}

// Options configures mounting.
type Options struct {
	// AllowOther lets other users access the mount; it needs
	// user_allow_other in /etc/fuse.conf.
	AllowOther bool
}

// SrcFS is the mounted view of the server namespace.
type SrcFS struct {
	mapper     Mapper
	opts       Options
	conn       *fuse.Conn
	mountPoint string // absolute, set by Mount
	uid        uint32
	gid        uint32
	served     chan error
}

// NewSrcFS creates a filesystem backed by mapper.
func NewSrcFS(mapper Mapper, opts Options) *SrcFS {
	// Get UID/GID from environment if set
	uid := safeIntToUint32(os.Getuid())
	gid := safeIntToUint32(os.Getgid())

	if puidStr := os.Getenv("PUID"); puidStr != "" {
		if puid, err := strconv.ParseUint(puidStr, 10, 32); err == nil {
			uid = uint32(puid)
			vfsLogger.Debug("Using PUID from environment: %d", uid)
		}
	}
	if pgidStr := os.Getenv("PGID"); pgidStr != "" {
		if pgid, err := strconv.ParseUint(pgidStr, 10, 32); err == nil {
			gid = uint32(pgid)
			vfsLogger.Debug("Using PGID from environment: %d", gid)
		}
	}

	return &SrcFS{
		mapper: mapper,
		opts:   opts,
		uid:    uid,
		gid:    gid,
	}
}

// Root implements the fusefs.FS interface, returning the root directory node.
func (sfs *SrcFS) Root() (fusefs.Node, error) {
	root := NewServerPath("/")
	clientPath := sfs.mapper.Map(root.String())
	if sfs.insideMount(clientPath) {
		// The root stays empty instead
		vfsLogger.Warn("Root maps into the mount point %s, serving it empty", sfs.mountPoint)
		clientPath = ""
	}
	return &Dir{
		fs:         sfs,
		path:       root,
		clientPath: clientPath,
	}, nil
}

// insideMount reports whether clientPath is the mount point or below it.
// Stating such a path from the server would wait on the server itself.
func (sfs *SrcFS) insideMount(clientPath string) bool {
	if sfs.mountPoint == "" || clientPath == "" {
		return false
	}
	abs, err := filepath.Abs(clientPath)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(sfs.mountPoint, abs)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func waitForMount(mountpoint string) error {
	for i := 0; i < 30; i++ {
		info, err := os.Stat(mountpoint)
		if err == nil && info.IsDir() {
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("mount point not available after 3 seconds")
}

// Mount mounts the filesystem and serves it in the background.
func (sfs *SrcFS) Mount(mountPoint string) error {
	vfsLogger.Info("Mounting source view at %s", mountPoint)
	vfsLogger.Debug("UID: %d, GID: %d", sfs.uid, sfs.gid)

	absMount, err := filepath.Abs(mountPoint)
	if err != nil {
		return fmt.Errorf("failed to resolve mount point %s: %w", mountPoint, err)
	}
	sfs.mountPoint = absMount

	mountOpts := []fuse.MountOption{
		fuse.FSName("srcpath"),
		fuse.Subtype("srcpath"),
		fuse.ReadOnly(),
		fuse.DefaultPermissions(),
		fuse.AsyncRead(),
	}
	if sfs.opts.AllowOther {
		mountOpts = append(mountOpts, fuse.AllowOther())
	}

	c, err := fuse.Mount(mountPoint, mountOpts...)
	if err != nil {
		return fmt.Errorf("mount failed: %w", err)
	}
	sfs.conn = c
	sfs.served = make(chan error, 1)

	go func() {
		serveErr := fusefs.Serve(c, sfs)
		if serveErr != nil {
			vfsLogger.Error("FUSE server error: %v", serveErr)
		}
		sfs.served <- serveErr
	}()

	// Wait for mount to be ready
	if err := waitForMount(mountPoint); err != nil {
		c.Close()
		return fmt.Errorf("mount point failed to initialize: %w", err)
	}

	vfsLogger.Info("Filesystem mounted successfully")
	return nil
}

// Wait blocks until the FUSE server stops and returns its error.
func (sfs *SrcFS) Wait() error {
	if sfs.served == nil {
		return nil
	}
	return <-sfs.served
}

// Unmount cleanly unmounts the filesystem.
func (sfs *SrcFS) Unmount(mountPoint string) error {
	vfsLogger.Info("Unmounting filesystem from: %s", mountPoint)
	if sfs.conn == nil {
		return nil
	}
	if err := fuse.Unmount(mountPoint); err != nil {
		vfsLogger.Error("Unmount failed: %v", err)
		return err
	}
	return sfs.conn.Close()
}
