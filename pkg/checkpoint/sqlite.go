package checkpoint

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/syncfl/control-plane/pkg/tensor"
)

// SQLiteConfig configures the file-local SQLite-backed checkpoint store —
// a server-less alternative to PostgresStore for single-node
// deployments, using the pure-Go modernc.org/sqlite driver.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// SQLiteStore persists checkpoints as rows in a single SQLite table, one
// file on disk shared across all checkpoints.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(config SQLiteConfig) (*SQLiteStore, error) {
	path := config.Path
	if path == "" {
		path = "checkpoints.sqlite"
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: open sqlite: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS checkpoints (
		path TEXT PRIMARY KEY,
		epoch INTEGER NOT NULL,
		data BLOB NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("checkpoint: init schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Save(epoch int32, path string, params tensor.Set) (string, error) {
	data, err := encode(epoch, params)
	if err != nil {
		return "", err
	}
	path = resolvePath(epoch, path)

	_, err = s.db.Exec(
		`INSERT INTO checkpoints (path, epoch, data) VALUES (?, ?, ?)
		 ON CONFLICT (path) DO UPDATE SET epoch = excluded.epoch, data = excluded.data`,
		path, epoch, data,
	)
	if err != nil {
		return "", fmt.Errorf("checkpoint: insert: %w", err)
	}
	return path, nil
}

func (s *SQLiteStore) Load(path string) (int32, tensor.Set, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT data FROM checkpoints WHERE path = ?`, path).Scan(&data)
	if err != nil {
		return 0, nil, fmt.Errorf("checkpoint: select: %w", err)
	}
	return decode(data)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
