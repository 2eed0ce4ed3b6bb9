package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/xaenox/calendar-bot/internal/models"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	UseInMemory bool
}

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(config DatabaseConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	storage := &PostgresStorage{db: db}

	// Initialize database schema
	if err := storage.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %w", err)
	}

	return storage, nil
}

func (s *PostgresStorage) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %w", err)
	}

	if _, err := s.db.Exec(string(migrationSQL)); err != nil {
		return fmt.Errorf("error executing migrations: %w", err)
	}

	return nil
}

func (s *PostgresStorage) GetProfile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	query := `
		SELECT profile
		FROM user_profiles
		WHERE user_id = $1`

	var raw []byte
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&raw)
	if err == sql.ErrNoRows {
		return models.DefaultProfile(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying profile: %w", err)
	}

	profile := models.DefaultProfile()
	if err := json.Unmarshal(raw, profile); err != nil {
		return nil, fmt.Errorf("error decoding profile: %w", err)
	}
	return profile, nil
}

func (s *PostgresStorage) SaveProfile(ctx context.Context, userID int64, profile *models.UserProfile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("error encoding profile: %w", err)
	}

	query := `
		INSERT INTO user_profiles (user_id, profile, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET profile = $2, updated_at = NOW()`

	if _, err := s.db.ExecContext(ctx, query, userID, raw); err != nil {
		return fmt.Errorf("error saving profile: %w", err)
	}

	return nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
