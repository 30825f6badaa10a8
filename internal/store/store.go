package store

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaFS embed.FS

// Store хранилище истории запусков на SQLite
type Store struct {
	db *sql.DB
}

// New открывает базу и инициализирует схему
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("создать каталог данных: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("открыть базу: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("проверить соединение: %w", err)
	}

	// SQLite надежнее всего работает через одно соединение
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("инициализировать схему: %w", err)
	}
	return store, nil
}

func (s *Store) initSchema() error {
	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("прочитать schema.sql: %w", err)
	}
	if _, err := s.db.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("выполнить схему: %w", err)
	}
	return nil
}

// Close закрывает соединение с базой
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
