package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/phishhook/phishhook/internal/core"
)

// MySQLCache is a MySQL implementation of the ReputationCache
// interface, for deployments sharing one cache across instances.
type MySQLCache struct {
	db          *sql.DB
	ttl         time.Duration
	cleanupFreq time.Duration
	logger      *zap.Logger
	stopCh      chan struct{}
}

// NewMySQLCache creates a new MySQL cache.
func NewMySQLCache(dsn string, ttl, cleanupFreq time.Duration, logger *zap.Logger) (*MySQLCache, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS url_reputation (
			url VARCHAR(768) PRIMARY KEY,
			stats TEXT,
			expires_at TIMESTAMP,
			INDEX idx_expires_at (expires_at)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	cache := &MySQLCache{
		db:          db,
		ttl:         ttl,
		cleanupFreq: cleanupFreq,
		logger:      logger,
		stopCh:      make(chan struct{}),
	}

	go cache.startCleanupTask()

	return cache, nil
}

// Get retrieves cached verdict counts for a URL.
func (c *MySQLCache) Get(ctx context.Context, url string) (map[string]int, error) {
	var statsJSON string

	err := c.db.QueryRowContext(ctx, `
		SELECT stats
		FROM url_reputation
		WHERE url = ? AND expires_at > NOW()
	`, url).Scan(&statsJSON)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, core.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to query reputation cache: %w", err)
	}

	var stats map[string]int
	if err := json.Unmarshal([]byte(statsJSON), &stats); err != nil {
		return nil, fmt.Errorf("failed to decode cached stats: %w", err)
	}

	return stats, nil
}

// Set stores verdict counts for a URL.
func (c *MySQLCache) Set(ctx context.Context, url string, stats map[string]int) error {
	statsJSON, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}

	expiresAt := time.Now().Add(c.ttl)
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO url_reputation (url, stats, expires_at)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE
			stats = VALUES(stats),
			expires_at = VALUES(expires_at)
	`, url, string(statsJSON), expiresAt.Format("2006-01-02 15:04:05"))

	if err != nil {
		return fmt.Errorf("failed to insert reputation entry: %w", err)
	}

	return nil
}

// Cleanup removes expired entries.
func (c *MySQLCache) Cleanup(ctx context.Context) error {
	result, err := c.db.ExecContext(ctx, `
		DELETE FROM url_reputation
		WHERE expires_at <= NOW()
	`)

	if err != nil {
		return fmt.Errorf("failed to clean up expired entries: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		c.logger.Warn("Failed to get rows affected during cleanup", zap.Error(err))
	} else {
		c.logger.Debug("Cleaned up expired reputation entries", zap.Int64("expired_count", rowsAffected))
	}

	return nil
}

func (c *MySQLCache) startCleanupTask() {
	ticker := time.NewTicker(c.cleanupFreq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.Cleanup(context.Background()); err != nil {
				c.logger.Error("Failed to clean up reputation cache", zap.Error(err))
			}
		case <-c.stopCh:
			return
		}
	}
}

// Stop stops the background cleanup task and closes the database.
func (c *MySQLCache) Stop() {
	close(c.stopCh)
	if err := c.db.Close(); err != nil {
		c.logger.Error("Failed to close MySQL database", zap.Error(err))
	}
}
