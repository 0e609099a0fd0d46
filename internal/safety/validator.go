package safety

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrRootNotFound = errors.New("root path does not exist")
	ErrRootNotDir   = errors.New("root path is not a directory")
	ErrRootNotRead  = errors.New("root path is not readable")
	ErrInvalidPath  = errors.New("invalid path")
	ErrInvalidName  = errors.New("invalid target name")
	ErrOutsideRoot  = errors.New("target outside root")
	ErrCollision    = errors.New("target name already exists")
)

// PathError reports an unusable traversal root. No filesystem mutation
// happens once ValidateRoot has failed.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("root %s: %v", e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// ValidateRoot resolves root to an absolute, cleaned path and checks that it
// names an existing directory that can be listed
func ValidateRoot(root string) (string, error) {
	p, err := NormalizePath(root)
	if err != nil {
		return "", &PathError{Path: root, Err: err}
	}

	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &PathError{Path: root, Err: ErrRootNotFound}
		}
		return "", &PathError{Path: root, Err: err}
	}
	if !info.IsDir() {
		return "", &PathError{Path: root, Err: ErrRootNotDir}
	}
	if err := checkListable(p); err != nil {
		return "", &PathError{Path: root, Err: fmt.Errorf("%w: %v", ErrRootNotRead, err)}
	}
	return p, nil
}

func checkListable(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.ReadDir(1); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validator enforces the contract for every rename under one root
type Validator struct {
	Root string
}

// NewValidator creates a validator for an already validated root
func NewValidator(root string) *Validator {
	return &Validator{Root: filepath.Clean(root)}
}

// ValidateRenameTarget is the single check run before a rename. It never
// lets a rename leave its directory, escape the root or overwrite an
// existing entry.
func (v *Validator) ValidateRenameTarget(oldPath, newName string) error {
	// 1. The new name must be a plain, non-empty file name
	if err := ValidateName(newName); err != nil {
		return err
	}

	// 2. The source must live under the root
	p, err := NormalizePath(oldPath)
	if err != nil {
		return err
	}
	if !IsWithinRoot(p, v.Root) || p == v.Root {
		return ErrOutsideRoot
	}

	// 3. The target must not exist yet; os.Rename would silently replace it
	target := filepath.Join(filepath.Dir(p), newName)
	if _, err := os.Lstat(target); err == nil {
		return ErrCollision
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	return nil
}

// ValidateName rejects names that cannot stand alone in a directory
func ValidateName(name string) error {
	switch name {
	case "", ".", "..":
		return ErrInvalidName
	}
	if strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator) {
		return ErrInvalidName
	}
	return nil
}

// NormalizePath converts path to absolute, cleaned form
func NormalizePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", ErrInvalidPath
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", ErrInvalidPath
	}
	return filepath.Clean(abs), nil
}

// IsWithinRoot checks if path is root itself or below it
func IsWithinRoot(path, root string) bool {
	return hasPathPrefix(filepath.Clean(path), root)
}

// hasPathPrefix checks if path has the given prefix
func hasPathPrefix(path, prefix string) bool {
	path = filepath.Clean(path)
	prefix = filepath.Clean(prefix)

	if prefix == string(os.PathSeparator) {
		return true
	}
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+string(os.PathSeparator))
}
