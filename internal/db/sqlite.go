package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fistulo/faqbot/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS qa_logs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    question TEXT NOT NULL,
    answer TEXT NOT NULL,
    language TEXT NOT NULL,
    user_ip TEXT,
    timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
);`

type Database struct {
	db *sql.DB
}

// New opens the sqlite database at dbPath and ensures the qa_logs table
// exists. Safe to call on every start; existing rows are never touched.
func New(dbPath string) (*Database, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to ensure db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}

	return &Database{db: db}, nil
}

func (db *Database) Close() error {
	return db.db.Close()
}

// LogInteraction appends one interaction record. The id and timestamp are
// assigned by the store.
func (db *Database) LogInteraction(question, answer, language, userIP string) error {
	query := `
        INSERT INTO qa_logs (question, answer, language, user_ip)
        VALUES (?, ?, ?, ?)`

	_, err := db.db.Exec(query, question, answer, language, userIP)
	return err
}

// RecentInteractions returns up to limit records, newest first. Timestamp
// ties are broken by id so the order stays deterministic within one second.
func (db *Database) RecentInteractions(limit int) ([]models.Interaction, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	query := `
        SELECT id, question, answer, language, COALESCE(user_ip, ''), timestamp
        FROM qa_logs
        ORDER BY timestamp DESC, id DESC
        LIMIT ?`

	rows, err := db.db.Query(query, limit)
	if err != nil {
		return []models.Interaction{}, err
	}
	defer rows.Close()

	logs := make([]models.Interaction, 0)
	for rows.Next() {
		var rec models.Interaction
		err := rows.Scan(&rec.ID, &rec.Question, &rec.Answer, &rec.Language, &rec.UserIP, &rec.Timestamp)
		if err != nil {
			return []models.Interaction{}, err
		}
		logs = append(logs, rec)
	}
	return logs, rows.Err()
}
