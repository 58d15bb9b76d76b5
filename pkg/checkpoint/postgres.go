package checkpoint

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/syncfl/control-plane/pkg/tensor"
)

// DatabaseConfig configures the PostgreSQL-backed checkpoint store.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// PostgresStore persists checkpoints as rows in a single table keyed by
// path.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(config DatabaseConfig) (*PostgresStore, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.Database, config.SSLMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("checkpoint: ping postgres: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, err
	}
	return store, nil
}

func (p *PostgresStore) initSchema() error {
	_, err := p.db.Exec(`CREATE TABLE IF NOT EXISTS checkpoints (
		path TEXT PRIMARY KEY,
		epoch INTEGER NOT NULL,
		data BYTEA NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`)
	if err != nil {
		return fmt.Errorf("checkpoint: init schema: %w", err)
	}
	return nil
}

func (p *PostgresStore) Save(epoch int32, path string, params tensor.Set) (string, error) {
	data, err := encode(epoch, params)
	if err != nil {
		return "", err
	}
	path = resolvePath(epoch, path)

	_, err = p.db.Exec(
		`INSERT INTO checkpoints (path, epoch, data) VALUES ($1, $2, $3)
		 ON CONFLICT (path) DO UPDATE SET epoch = $2, data = $3, created_at = NOW()`,
		path, epoch, data,
	)
	if err != nil {
		return "", fmt.Errorf("checkpoint: insert: %w", err)
	}
	return path, nil
}

func (p *PostgresStore) Load(path string) (int32, tensor.Set, error) {
	var data []byte
	err := p.db.QueryRow(`SELECT data FROM checkpoints WHERE path = $1`, path).Scan(&data)
	if err != nil {
		return 0, nil, fmt.Errorf("checkpoint: select: %w", err)
	}
	return decode(data)
}

func (p *PostgresStore) Close() error {
	return p.db.Close()
}
