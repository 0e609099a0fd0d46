package exitcodes

// Exit codes for namescrub
// These codes form the contract with scripts that wrap the tool
const (
	Success      = 0 // Traversal completed, every matched file renamed
	RuntimeError = 1 // Failure outside the rename loop (history database, traversal)
	Usage        = 2 // Missing/extra arguments or invalid configuration
	InvalidPath  = 3 // Root path missing, not a directory or unreadable
	RenameFailed = 4 // One or more renames failed
)
