package fs

import (
	"context"
	"os"
	"syscall"
	"testing"

	"bazil.org/fuse"
)

func TestFileOperations(t *testing.T) {
	sfs, _ := setupTestFS(t)
	ctx := context.Background()

	rootNode, _ := sfs.Root()
	app := lookupDir(t, ctx, rootNode.(*Dir), "app")
	node, err := app.Lookup(ctx, "main.lua")
	if err != nil {
		t.Fatalf("Failed to lookup file: %v", err)
	}
	file := node.(*File)
	content := "return main.lua"

	t.Run("FileAttributes", func(t *testing.T) {
		attr := &fuse.Attr{}
		if err := file.Attr(ctx, attr); err != nil {
			t.Fatalf("Failed to get file attributes: %v", err)
		}
		if attr.Size != uint64(len(content)) {
			t.Errorf("Expected size %d, got %d", len(content), attr.Size)
		}
		if attr.Mode&0222 != 0 {
			t.Errorf("Expected read-only mode, got %v", attr.Mode)
		}
	})

	t.Run("ReadFile", func(t *testing.T) {
		req := &fuse.OpenRequest{Flags: fuse.OpenReadOnly}
		resp := &fuse.OpenResponse{}
		handle, err := file.Open(ctx, req, resp)
		if err != nil {
			t.Fatalf("Failed to open file: %v", err)
		}
		fh := handle.(*FileHandle)

		readResp := &fuse.ReadResponse{}
		if err := fh.Read(ctx, &fuse.ReadRequest{Size: 64}, readResp); err != nil {
			t.Fatalf("Failed to read file: %v", err)
		}
		if string(readResp.Data) != content {
			t.Errorf("Expected content %q, got %q", content, string(readResp.Data))
		}

		readResp = &fuse.ReadResponse{}
		if err := fh.Read(ctx, &fuse.ReadRequest{Offset: 7, Size: 3}, readResp); err != nil {
			t.Fatalf("Failed to read at offset: %v", err)
		}
		if string(readResp.Data) != "mai" {
			t.Errorf("Expected %q, got %q", "mai", string(readResp.Data))
		}

		if err := fh.Release(ctx, &fuse.ReleaseRequest{}); err != nil {
			t.Errorf("Failed to release handle: %v", err)
		}
	})

	t.Run("WriteOpenRejected", func(t *testing.T) {
		for _, flags := range []fuse.OpenFlags{fuse.OpenWriteOnly, fuse.OpenReadWrite} {
			_, err := file.Open(ctx, &fuse.OpenRequest{Flags: flags}, &fuse.OpenResponse{})
			if err != syscall.EROFS {
				t.Errorf("Expected EROFS for flags %v, got %v", flags, err)
			}
		}
	})

	t.Run("AttrAfterRemoval", func(t *testing.T) {
		if err := os.Remove(file.clientPath); err != nil {
			t.Fatalf("Failed to remove client file: %v", err)
		}
		if err := file.Attr(ctx, &fuse.Attr{}); err != syscall.ENOENT {
			t.Errorf("Expected ENOENT, got %v", err)
		}
	})
}
