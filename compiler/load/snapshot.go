package load

import (
	"fmt"
	"os"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/syssam/sqlmap/schema"
)

// SnapshotVersion is bumped when the snapshot layout changes.
const SnapshotVersion = 1

// Snapshot is the msgpack document written by `sqlmap inspect --snapshot`.
type Snapshot struct {
	Version int             `msgpack:"version"`
	Dialect string          `msgpack:"dialect"`
	Created time.Time       `msgpack:"created"`
	Tables  []*schema.Table `msgpack:"tables"`
}

// MarshalSnapshot encodes tables inspected from a database of the given
// dialect.
func MarshalSnapshot(dialect string, tables []*schema.Table) ([]byte, error) {
	return msgpack.Marshal(&Snapshot{
		Version: SnapshotVersion,
		Dialect: dialect,
		Created: time.Now().UTC(),
		Tables:  tables,
	})
}

// UnmarshalSnapshot decodes a snapshot and checks its version.
func UnmarshalSnapshot(buf []byte) (*Snapshot, error) {
	s := &Snapshot{}
	if err := msgpack.Unmarshal(buf, s); err != nil {
		return nil, fmt.Errorf("load: decode snapshot: %w", err)
	}
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("load: snapshot version %d, want %d", s.Version, SnapshotVersion)
	}
	return s, nil
}

// WriteSnapshot writes a snapshot file.
func WriteSnapshot(path, dialect string, tables []*schema.Table) error {
	buf, err := MarshalSnapshot(dialect, tables)
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0o644)
}

// ReadSnapshot returns the tables of a snapshot file.
func ReadSnapshot(path string) ([]*schema.Table, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	s, err := UnmarshalSnapshot(buf)
	if err != nil {
		return nil, err
	}
	return s.Tables, nil
}
