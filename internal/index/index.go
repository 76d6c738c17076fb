package index

// GraphIndex defines the link graph operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type GraphIndex interface {
	Export(g Graph) error
	Documents() ([]DocumentRow, error)
	Backlinks(target string) ([]LinkRow, error)
	Unlinked() ([]string, error)
	Stats() (Stats, error)
	Close() error
}

// Verify *DB satisfies GraphIndex at compile time.
var _ GraphIndex = (*DB)(nil)
