package fsops

// FakeRenamer implements Renamer for testing
// Records all rename calls without touching the filesystem. A path listed
// in Errors fails with the mapped error.
type FakeRenamer struct {
	Calls  []string
	Errors map[string]error
}

func (f *FakeRenamer) Rename(oldPath, newPath string) error {
	f.Calls = append(f.Calls, oldPath+"->"+newPath)
	if err, ok := f.Errors[oldPath]; ok {
		return err
	}
	return nil
}
