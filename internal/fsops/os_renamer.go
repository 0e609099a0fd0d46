package fsops

import "os"

// OSRenamer implements Renamer using os.Rename, which moves the directory
// entry only; contents, permissions and timestamps are untouched
type OSRenamer struct{}

func (OSRenamer) Rename(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}
