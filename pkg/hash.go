package drifty

import (
	_ "crypto/sha256"
	_ "crypto/sha512"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/opencontainers/go-digest"
)

// HashAlgorithm represents a hash algorithm configuration
type HashAlgorithm struct {
	Name      string
	Algorithm digest.Algorithm
}

// GetHashAlgorithm returns the hash algorithm configuration for the given name
func GetHashAlgorithm(name string) (*HashAlgorithm, error) {
	var alg digest.Algorithm
	switch strings.ToLower(name) {
	case "sha256":
		alg = digest.SHA256
	case "sha384":
		alg = digest.SHA384
	case "sha512":
		alg = digest.SHA512
	default:
		return nil, fmt.Errorf("unsupported hash algorithm: %s", name)
	}
	if !alg.Available() {
		return nil, fmt.Errorf("hash algorithm %s is not available", name)
	}
	return &HashAlgorithm{Name: alg.String(), Algorithm: alg}, nil
}

// HexSize returns the length of an encoded digest in characters
func (a *HashAlgorithm) HexSize() int {
	return a.Algorithm.Size() * 2
}

// Hasher reduces files to lowercase hex digests
type Hasher struct {
	algorithm *HashAlgorithm
}

// hashInput is one file fed into a multi-file digest. Label is the text
// written into the digest ahead of the content.
type hashInput struct {
	Path  string
	Label string
}

// NewHasher creates a hasher for the named algorithm
func NewHasher(name string) (*Hasher, error) {
	algorithm, err := GetHashAlgorithm(name)
	if err != nil {
		return nil, err
	}
	return &Hasher{algorithm: algorithm}, nil
}

// DefaultHasher returns a SHA-256 hasher
func DefaultHasher() *Hasher {
	return &Hasher{algorithm: &HashAlgorithm{Name: digest.Canonical.String(), Algorithm: digest.Canonical}}
}

// Algorithm returns the hasher's algorithm
func (h *Hasher) Algorithm() *HashAlgorithm {
	return h.algorithm
}

// ValidateDigest checks that a stored hash is a well-formed digest for this hasher
func (h *Hasher) ValidateDigest(encoded string) error {
	return h.algorithm.Algorithm.Validate(encoded)
}

// HashBytes returns the digest of data
func (h *Hasher) HashBytes(data []byte) string {
	return h.algorithm.Algorithm.FromBytes(data).Encoded()
}

// HashFile calculates the digest of a single file's contents
func (h *Hasher) HashFile(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", ioError("open", filePath, err)
	}
	defer file.Close()

	digester := h.algorithm.Algorithm.Digester()
	if _, err := io.Copy(digester.Hash(), file); err != nil {
		return "", ioError("read", filePath, err)
	}

	DebugLog(DebugHash, "hashed %s", filePath)
	return digester.Digest().Encoded(), nil
}

// HashMany calculates one digest over several files. Paths are sorted first so
// the result does not depend on enumeration order, and every path string is
// hashed along with the content so renames change the digest. The paths are
// used as given; PathResolver.HashPattern labels files relative to the
// pattern's base instead, so the two digests differ for the same files.
func (h *Hasher) HashMany(paths []string) (string, error) {
	inputs := make([]hashInput, len(paths))
	for i, path := range paths {
		inputs[i] = hashInput{Path: path, Label: path}
	}
	return h.hashInputs(inputs)
}

// hashInputs folds the labelled files into one digest in label order
func (h *Hasher) hashInputs(inputs []hashInput) (string, error) {
	sorted := make([]hashInput, len(inputs))
	copy(sorted, inputs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Label < sorted[j].Label
	})

	digester := h.algorithm.Algorithm.Digester()
	hasher := digester.Hash()
	separator := []byte{labelSeparator}

	for _, input := range sorted {
		hasher.Write([]byte(input.Label))
		hasher.Write(separator)

		file, err := os.Open(input.Path)
		if err != nil {
			return "", ioError("open", input.Path, err)
		}
		_, err = io.Copy(hasher, file)
		file.Close()
		if err != nil {
			return "", ioError("read", input.Path, err)
		}

		hasher.Write(separator)
		DebugLog(DebugHash, "hashed %s as %q", input.Path, input.Label)
	}

	return digester.Digest().Encoded(), nil
}

// HashDirectory hashes every non-hidden file below dir. Labels are the file
// paths relative to dir. An empty directory hashes its own path string, where
// PathResolver.HashPattern hashes the directory's base-relative label.
func (h *Hasher) HashDirectory(dir string) (string, error) {
	return h.hashDirectoryLabelled(dir, filepath.ToSlash(dir))
}

// hashDirectoryLabelled hashes dir, using emptyLabel as the fallback input
// when the directory holds no files
func (h *Hasher) hashDirectoryLabelled(dir, emptyLabel string) (string, error) {
	defer VerboseEnter()()

	files, err := CollectFiles(dir)
	if err != nil {
		return "", err
	}

	if len(files) == 0 {
		VerboseLog(2, "Directory %s holds no files, hashing its path", dir)
		return h.HashBytes([]byte(emptyLabel)), nil
	}

	inputs := make([]hashInput, 0, len(files))
	for _, file := range files {
		rel, err := filepath.Rel(dir, file)
		if err != nil {
			rel = file
		}
		inputs = append(inputs, hashInput{Path: file, Label: filepath.ToSlash(rel)})
	}
	return h.hashInputs(inputs)
}

// CollectFiles returns every non-hidden file below dir in sorted order.
// Entries whose name starts with "." are skipped, directories together with
// everything below them.
func CollectFiles(dir string) ([]string, error) {
	var files []string
	pathQueue := []string{dir}

	for len(pathQueue) > 0 {
		currentPath := pathQueue[len(pathQueue)-1]
		pathQueue = pathQueue[:len(pathQueue)-1]

		entries, err := os.ReadDir(currentPath)
		if err != nil {
			return nil, ioError("read directory", currentPath, err)
		}

		for _, entry := range entries {
			if strings.HasPrefix(entry.Name(), ".") {
				continue
			}

			fullPath := filepath.Join(currentPath, entry.Name())
			info, err := os.Stat(fullPath)
			if err != nil {
				// Broken symlinks and entries removed mid-walk
				VerboseLog(2, "Skipping %s: %v", fullPath, err)
				continue
			}

			if info.IsDir() {
				pathQueue = append(pathQueue, fullPath)
			} else {
				files = append(files, fullPath)
			}
		}
	}

	sort.Strings(files)
	return files, nil
}
