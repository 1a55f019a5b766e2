// Package fileutil stages source files into per-request working directories.
package fileutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// CopyFile streams src to dst with default permissions (0o644). The copy
// stops early when ctx is cancelled and the partial dst is removed.
func CopyFile(ctx context.Context, src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	srcInfo, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if srcInfo.IsDir() {
		return fmt.Errorf("copy %s: is a directory", src)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	written, err := io.Copy(out, &contextReader{ctx: ctx, r: in})
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err == nil && written != srcInfo.Size() {
		err = fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcInfo.Size(), written)
	}
	if err != nil {
		_ = os.Remove(dst)
		return err
	}
	return nil
}

// Stage places src at dst. A hard link is tried first; cross-device or
// unsupported links fall back to a copy.
func Stage(ctx context.Context, src, dst string) error {
	err := os.Link(src, dst)
	if err == nil {
		return nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return err
	}
	return CopyFile(ctx, src, dst)
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
