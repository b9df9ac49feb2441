package drifty

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"unsafe"

	"github.com/google/vectorio"
	"golang.org/x/sys/unix"
)

// ReadDocument reads the full text of a document
func ReadDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", ioError("read file", path, err)
	}
	return string(data), nil
}

// WriteDocument replaces the document at path with the concatenation of parts.
// The parts are written with a single writev into a temporary file in the same
// directory, synced, and renamed over the document so a failure part-way never
// leaves a truncated document behind.
func WriteDocument(path string, parts ...string) error {
	defer VerboseEnter()()

	dir := filepath.Dir(path)
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return ioError("create temporary file for", path, err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if err := writeParts(tmp, parts); err != nil {
		return ioError("write", path, err)
	}
	if err := tmp.Chmod(mode); err != nil {
		return ioError("set permissions on", path, err)
	}
	if err := tmp.Sync(); err != nil {
		return ioError("sync", path, err)
	}
	if err := tmp.Close(); err != nil {
		return ioError("close", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return ioError("replace", path, err)
	}
	committed = true

	if err := syncDir(dir); err != nil {
		// The document is already in place
		VerboseLog(1, "Failed to sync directory %s: %v", dir, err)
	}

	DebugLog(DebugWrite, "wrote %s from %d part(s)", path, len(parts))
	return nil
}

// writeParts writes all non-empty parts to file using vectored I/O
func writeParts(file *os.File, parts []string) error {
	iovecs := make([]syscall.Iovec, 0, len(parts))
	expected := 0
	for _, part := range parts {
		if part == "" {
			continue
		}
		iovec := syscall.Iovec{Base: unsafe.StringData(part)}
		iovec.SetLen(len(part))
		iovecs = append(iovecs, iovec)
		expected += len(part)
	}
	if len(iovecs) == 0 {
		return nil
	}

	nw, err := vectorio.WritevRaw(file.Fd(), iovecs)
	if err != nil {
		return fmt.Errorf("failed to write with vectorio: %w", err)
	}
	if nw != expected {
		return fmt.Errorf("write incomplete: wrote %d bytes, expected %d", nw, expected)
	}
	return nil
}

// syncDir flushes a directory entry change (such as a rename) to disk
func syncDir(dir string) error {
	fd, err := unix.Open(dir, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
	if err != nil {
		return err
	}
	defer unix.Close(fd)
	return unix.Fsync(fd)
}
