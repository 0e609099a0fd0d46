package safety

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestValidateRoot verifies missing roots and non-directories are rejected
func TestValidateRoot(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	tests := []struct {
		name        string
		path        string
		expectError error
	}{
		{"directory", tmpDir, nil},
		{"directory with dots", filepath.Join(tmpDir, ".", "."), nil},
		{"missing", filepath.Join(tmpDir, "missing"), ErrRootNotFound},
		{"regular file", file, ErrRootNotDir},
		{"empty", "", ErrInvalidPath},
		{"whitespace", "   ", ErrInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := ValidateRoot(tt.path)
			if tt.expectError == nil {
				if err != nil {
					t.Fatalf("ValidateRoot(%s) unexpected error: %v", tt.path, err)
				}
				if root != filepath.Clean(tmpDir) {
					t.Errorf("ValidateRoot(%s) = %s, expected %s", tt.path, root, tmpDir)
				}
				return
			}

			var pathErr *PathError
			if !errors.As(err, &pathErr) {
				t.Fatalf("ValidateRoot(%s) = %v, expected *PathError", tt.path, err)
			}
			if !errors.Is(err, tt.expectError) {
				t.Errorf("ValidateRoot(%s) = %v, expected %v", tt.path, err, tt.expectError)
			}
		})
	}
}

func TestValidateRootUnreadable(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}

	locked := filepath.Join(t.TempDir(), "locked")
	if err := os.Mkdir(locked, 0o755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatalf("Failed to chmod: %v", err)
	}
	t.Cleanup(func() { os.Chmod(locked, 0o755) })

	_, err := ValidateRoot(locked)
	var pathErr *PathError
	if !errors.As(err, &pathErr) || !errors.Is(err, ErrRootNotRead) {
		t.Errorf("ValidateRoot(%s) = %v, expected PathError wrapping %v", locked, err, ErrRootNotRead)
	}
}

// TestValidateName verifies unusable names are rejected
func TestValidateName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected error
	}{
		{"plain", "report.pdf", nil},
		{"hidden", ".bashrc", nil},
		{"empty", "", ErrInvalidName},
		{"dot", ".", ErrInvalidName},
		{"dotdot", "..", ErrInvalidName},
		{"separator", "a/b", ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateName(tt.input); err != tt.expected {
				t.Errorf("ValidateName(%q) = %v, expected %v", tt.input, err, tt.expected)
			}
		})
	}
}

// TestValidateRenameTarget is the integration test for the rename contract
func TestValidateRenameTarget(t *testing.T) {
	tmpDir := t.TempDir()
	root := filepath.Join(tmpDir, "root")
	if err := os.MkdirAll(filepath.Join(root, "docs"), 0755); err != nil {
		t.Fatalf("Failed to create root: %v", err)
	}

	source := filepath.Join(root, "docs", "reportAD.pdf")
	existing := filepath.Join(root, "docs", "taken.pdf")
	outside := filepath.Join(tmpDir, "outsideAD.txt")
	for _, p := range []string{source, existing, outside} {
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatalf("Failed to create %s: %v", p, err)
		}
	}

	// A dangling symlink still occupies the name
	dangling := filepath.Join(root, "docs", "dangling")
	if err := os.Symlink(filepath.Join(tmpDir, "nowhere"), dangling); err != nil {
		t.Fatalf("Failed to create symlink: %v", err)
	}

	validator := NewValidator(root)

	tests := []struct {
		name        string
		oldPath     string
		newName     string
		expectError error
	}{
		{"free target", source, "report.pdf", nil},
		{"collision", source, "taken.pdf", ErrCollision},
		{"collision with dangling symlink", source, "dangling", ErrCollision},
		{"empty name", source, "", ErrInvalidName},
		{"dotdot name", source, "..", ErrInvalidName},
		{"outside root", outside, "outside.txt", ErrOutsideRoot},
		{"root itself", root, "renamed", ErrOutsideRoot},
		{"empty path", "", "renamed", ErrInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateRenameTarget(tt.oldPath, tt.newName)
			if err != tt.expectError {
				t.Errorf("ValidateRenameTarget(%s, %q) = %v, expected %v", tt.oldPath, tt.newName, err, tt.expectError)
			}
		})
	}
}

// TestHasPathPrefix verifies the path prefix checking logic
func TestHasPathPrefix(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		prefix   string
		expected bool
	}{
		{"exact match", "/tmp/root", "/tmp/root", true},
		{"subdirectory", "/tmp/root/sub", "/tmp/root", true},
		{"not a prefix", "/tmp/other", "/tmp/root", false},
		{"partial match", "/tmp/rootother", "/tmp/root", false},
		{"filesystem root", "/tmp", "/", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := hasPathPrefix(tt.path, tt.prefix)
			if result != tt.expected {
				t.Errorf("hasPathPrefix(%s, %s) = %v, expected %v", tt.path, tt.prefix, result, tt.expected)
			}
		})
	}
}
