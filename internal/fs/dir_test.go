package fs

import (
	"context"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"srcpath/internal/pathconv"

	"bazil.org/fuse"
)

func setupTestFS(t *testing.T) (*SrcFS, string) {
	t.Helper()

	clientDir := t.TempDir()
	testFiles := []string{
		"main.lua",
		"lib/util.lua",
		"lib/deep/inner.lua",
	}
	for _, tf := range testFiles {
		fullPath := filepath.Join(clientDir, tf)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(fullPath, []byte("return "+tf), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
	}

	r := pathconv.NewResolver(pathconv.WithSeparator('/'), pathconv.WithDirProvider(pathconv.FixedDir("/")))
	r.AddSourcemap("/app", filepath.ToSlash(clientDir))
	r.AddSourcemap("/", filepath.ToSlash(clientDir)+"/missing/")

	return NewSrcFS(pathconv.NewSyncResolver(r), Options{}), clientDir
}

func lookupDir(t *testing.T, ctx context.Context, d *Dir, name string) *Dir {
	t.Helper()
	node, err := d.Lookup(ctx, name)
	if err != nil {
		t.Fatalf("Failed to lookup %q: %v", name, err)
	}
	child, ok := node.(*Dir)
	if !ok {
		t.Fatalf("Expected %q to be a directory, got %T", name, node)
	}
	return child
}

func TestDirOperations(t *testing.T) {
	sfs, clientDir := setupTestFS(t)
	ctx := context.Background()

	rootNode, err := sfs.Root()
	if err != nil {
		t.Fatalf("Failed to get root: %v", err)
	}
	root := rootNode.(*Dir)

	t.Run("RootAttributes", func(t *testing.T) {
		attr := &fuse.Attr{}
		if err := root.Attr(ctx, attr); err != nil {
			t.Fatalf("Failed to get root attributes: %v", err)
		}
		if !attr.Mode.IsDir() {
			t.Error("Root is not a directory")
		}
	})

	t.Run("RootListingOfMissingClientDir", func(t *testing.T) {
		entries, err := root.ReadDirAll(ctx)
		if err != nil {
			t.Fatalf("Failed to read root: %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("Expected empty root listing, got %v", entries)
		}
	})

	t.Run("LookupMappedDirectory", func(t *testing.T) {
		app := lookupDir(t, ctx, root, "app")
		if app.clientPath != filepath.ToSlash(clientDir) {
			t.Errorf("Expected client path %q, got %q", clientDir, app.clientPath)
		}

		entries, err := app.ReadDirAll(ctx)
		if err != nil {
			t.Fatalf("Failed to read app directory: %v", err)
		}
		found := map[string]fuse.DirentType{}
		for _, e := range entries {
			found[e.Name] = e.Type
		}
		if found["main.lua"] != fuse.DT_File {
			t.Errorf("Expected main.lua file entry, got %v", entries)
		}
		if found["lib"] != fuse.DT_Dir {
			t.Errorf("Expected lib directory entry, got %v", entries)
		}
	})

	t.Run("LookupNested", func(t *testing.T) {
		deep := lookupDir(t, ctx, lookupDir(t, ctx, lookupDir(t, ctx, root, "app"), "lib"), "deep")
		node, err := deep.Lookup(ctx, "inner.lua")
		if err != nil {
			t.Fatalf("Failed to lookup inner.lua: %v", err)
		}
		if _, ok := node.(*File); !ok {
			t.Errorf("Expected *File, got %T", node)
		}
	})

	t.Run("LookupMissing", func(t *testing.T) {
		app := lookupDir(t, ctx, root, "app")
		_, err := app.Lookup(ctx, "nope.lua")
		if err != syscall.ENOENT {
			t.Errorf("Expected ENOENT, got %v", err)
		}

		_, err = root.Lookup(ctx, "elsewhere")
		if err != syscall.ENOENT {
			t.Errorf("Expected ENOENT for unmapped path, got %v", err)
		}
	})

	t.Run("LookupRejectsBackslash", func(t *testing.T) {
		app := lookupDir(t, ctx, root, "app")
		_, err := app.Lookup(ctx, `lib\util.lua`)
		if err != syscall.EINVAL {
			t.Errorf("Expected EINVAL, got %v", err)
		}
	})
}

func TestLookupInsideMountPoint(t *testing.T) {
	sfs, clientDir := setupTestFS(t)
	sfs.mountPoint = filepath.Join(clientDir, "lib")
	ctx := context.Background()

	rootNode, err := sfs.Root()
	if err != nil {
		t.Fatalf("Failed to get root: %v", err)
	}
	app := lookupDir(t, ctx, rootNode.(*Dir), "app")

	if _, err := app.Lookup(ctx, "lib"); err != syscall.ENOENT {
		t.Errorf("Expected ENOENT for the mount point, got %v", err)
	}
	if _, err := app.Lookup(ctx, "main.lua"); err != nil {
		t.Errorf("Expected main.lua outside the mount point, got %v", err)
	}
}

func TestRootInsideMountPoint(t *testing.T) {
	clientDir := t.TempDir()
	r := pathconv.NewResolver(pathconv.WithSeparator('/'), pathconv.WithDirProvider(pathconv.FixedDir("/")))
	r.AddSourcemap("/", filepath.ToSlash(clientDir)+"/")
	sfs := NewSrcFS(pathconv.NewSyncResolver(r), Options{})
	sfs.mountPoint = clientDir
	ctx := context.Background()

	rootNode, err := sfs.Root()
	if err != nil {
		t.Fatalf("Failed to get root: %v", err)
	}
	root := rootNode.(*Dir)
	if root.clientPath != "" {
		t.Errorf("Expected root to be detached from the mount point, got %q", root.clientPath)
	}
	entries, err := root.ReadDirAll(ctx)
	if err != nil {
		t.Fatalf("Failed to read root: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected empty root listing, got %v", entries)
	}
}
