package fsops

// Renamer abstracts the filesystem rename primitive
// Enables fakes in tests to prove which renames were attempted
type Renamer interface {
	Rename(oldPath, newPath string) error
}
