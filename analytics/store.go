package analytics

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Store provides database operations for analytics.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the database at dbPath and applies pending
// migrations.
func NewStore(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create analytics dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open analytics db: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	s := &Store{db: db}
	if _, err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// migrate applies all pending migrations and returns the schema version.
func (s *Store) migrate() (uint, error) {
	driver, err := sqlite.WithInstance(s.db, &sqlite.Config{})
	if err != nil {
		return 0, fmt.Errorf("create sqlite driver: %w", err)
	}
	source, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return 0, fmt.Errorf("create iofs source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return 0, fmt.Errorf("create migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("run migrations: %w", err)
	}
	version, _, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("read migration version: %w", err)
	}
	return version, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores one served request.
func (s *Store) Record(ctx context.Context, r Request) error {
	if r.Time.IsZero() {
		r.Time = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO requests (path, outcome, status, browser, os, device, bot, ts)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Path, r.Outcome, r.Status, r.Browser, r.OS, r.Device, r.Bot, r.Time.UTC().Unix())
	if err != nil {
		return fmt.Errorf("record request: %w", err)
	}
	return nil
}

// GetStats returns aggregated statistics for requests between from and to,
// both inclusive. Top pages count successful human requests only.
func (s *Store) GetStats(ctx context.Context, from, to time.Time, limit int) (*Stats, error) {
	lo, hi := from.UTC().Unix(), to.UTC().Unix()
	stats := &Stats{
		Period: from.Format("2006-01-02") + " to " + to.Format("2006-01-02"),
	}

	counts := []struct {
		dst   *int
		where string
	}{
		{&stats.TotalRequests, ""},
		{&stats.BotRequests, " AND bot != ''"},
		{&stats.NotFound, " AND status = 404"},
	}
	for _, c := range counts {
		err := s.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM requests WHERE ts BETWEEN ? AND ?"+c.where, lo, hi).Scan(c.dst)
		if err != nil {
			return nil, fmt.Errorf("count requests: %w", err)
		}
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT path, COUNT(*) AS views FROM requests
		 WHERE ts BETWEEN ? AND ? AND bot = '' AND status < 400
		 GROUP BY path ORDER BY views DESC, path LIMIT ?`, lo, hi, limit)
	if err != nil {
		return nil, fmt.Errorf("top pages: %w", err)
	}
	for rows.Next() {
		var p PageStat
		if err := rows.Scan(&p.Path, &p.Views); err != nil {
			rows.Close()
			return nil, fmt.Errorf("top pages: %w", err)
		}
		stats.TopPages = append(stats.TopPages, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("top pages: %w", err)
	}

	dims := []struct {
		dst    *[]DimensionStat
		column string
		where  string
	}{
		{&stats.Outcomes, "outcome", ""},
		{&stats.Browsers, "browser", " AND bot = ''"},
		{&stats.Devices, "device", " AND bot = ''"},
	}
	for _, d := range dims {
		result, err := s.dimension(ctx, d.column, d.where, lo, hi)
		if err != nil {
			return nil, err
		}
		*d.dst = result
	}

	daily, err := s.db.QueryContext(ctx,
		`SELECT date(ts, 'unixepoch') AS day, COUNT(*) FROM requests
		 WHERE ts BETWEEN ? AND ? GROUP BY day ORDER BY day`, lo, hi)
	if err != nil {
		return nil, fmt.Errorf("daily views: %w", err)
	}
	defer daily.Close()
	for daily.Next() {
		var v DailyView
		if err := daily.Scan(&v.Date, &v.Views); err != nil {
			return nil, fmt.Errorf("daily views: %w", err)
		}
		stats.DailyViews = append(stats.DailyViews, v)
	}
	if err := daily.Err(); err != nil {
		return nil, fmt.Errorf("daily views: %w", err)
	}
	return stats, nil
}

// dimension counts requests per distinct value of column. column is never
// user input.
func (s *Store) dimension(ctx context.Context, column, where string, lo, hi int64) ([]DimensionStat, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+column+", COUNT(*) AS n FROM requests WHERE ts BETWEEN ? AND ?"+where+
			" GROUP BY "+column+" ORDER BY n DESC, "+column, lo, hi)
	if err != nil {
		return nil, fmt.Errorf("%s stats: %w", column, err)
	}
	defer rows.Close()

	var result []DimensionStat
	for rows.Next() {
		var d DimensionStat
		if err := rows.Scan(&d.Name, &d.Count); err != nil {
			return nil, fmt.Errorf("%s stats: %w", column, err)
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

// CleanupOldRequests removes requests older than the retention period and
// returns how many were deleted.
func (s *Store) CleanupOldRequests(ctx context.Context, retentionDays int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays).Unix()
	res, err := s.db.ExecContext(ctx, "DELETE FROM requests WHERE ts < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup requests: %w", err)
	}
	return res.RowsAffected()
}

// StartCleanupScheduler runs periodic cleanup of old data. Returns a stop function.
func (s *Store) StartCleanupScheduler(retentionDays int, interval time.Duration, logger *slog.Logger) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				n, err := s.CleanupOldRequests(context.Background(), retentionDays)
				if err != nil {
					logger.Error("analytics cleanup failed", "err", err)
					continue
				}
				logger.Debug("analytics cleanup", "deleted", n)
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() { close(done) }
}
