// Package storage provides SQLite-based persistence for finished episodes
// and training runs. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Episode is one finished game driven by a human or a policy.
type Episode struct {
	ID        int64
	Policy    string // "human" or a policy id
	Seed      uint64
	Score     int // final body length
	Reward    int // sum of step rewards
	Ticks     int
	Death     string
	Width     int
	Height    int
	CreatedAt time.Time
}

// TrainingRun summarizes one invocation of the trainer.
type TrainingRun struct {
	ID        int64
	RunID     string
	Episodes  int
	BestScore int
	MeanScore float64
	ModelPath string
	Duration  int // Duration in seconds
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS episodes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			policy TEXT NOT NULL,
			seed INTEGER NOT NULL DEFAULT 0,
			score INTEGER NOT NULL,
			reward INTEGER NOT NULL DEFAULT 0,
			ticks INTEGER NOT NULL DEFAULT 0,
			death TEXT NOT NULL DEFAULT '',
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_episodes_policy ON episodes(policy);
		CREATE INDEX IF NOT EXISTS idx_episodes_top ON episodes(policy, score DESC);

		CREATE TABLE IF NOT EXISTS training_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			episodes INTEGER NOT NULL DEFAULT 0,
			best_score INTEGER NOT NULL DEFAULT 0,
			mean_score REAL NOT NULL DEFAULT 0,
			model_path TEXT NOT NULL DEFAULT '',
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveEpisode records a finished episode.
// Returns the ID of the inserted record.
func (s *Store) SaveEpisode(e Episode) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO episodes (policy, seed, score, reward, ticks, death, width, height)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Policy, int64(e.Seed), e.Score, e.Reward, e.Ticks, e.Death, e.Width, e.Height,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save episode: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const episodeColumns = `id, policy, seed, score, reward, ticks, death, width, height, created_at`

// TopEpisodes retrieves the best N episodes for the given policy.
// Results are ordered by score descending, earliest first on ties.
func (s *Store) TopEpisodes(policy string, limit int) ([]Episode, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT `+episodeColumns+`
		 FROM episodes
		 WHERE policy = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		policy, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query episodes: %w", err)
	}
	defer rows.Close()

	var entries []Episode
	for rows.Next() {
		e, err := scanEpisode(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// RecentEpisodes retrieves the latest N episodes across all policies.
func (s *Store) RecentEpisodes(limit int) ([]Episode, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+episodeColumns+`
		 FROM episodes
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query episodes: %w", err)
	}
	defer rows.Close()

	var entries []Episode
	for rows.Next() {
		e, err := scanEpisode(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEpisode(row scanner) (Episode, error) {
	var e Episode
	var seed int64
	var createdAt any
	if err := row.Scan(&e.ID, &e.Policy, &seed, &e.Score, &e.Reward, &e.Ticks,
		&e.Death, &e.Width, &e.Height, &createdAt); err != nil {
		return e, fmt.Errorf("storage: cannot scan row: %w", err)
	}
	e.Seed = uint64(seed)
	e.CreatedAt = parseTime(createdAt)
	return e, nil
}

// parseTime handles both time.Time and string datetime columns.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// HighScore returns the highest score for the given policy.
// Returns 0 if no episodes exist.
func (s *Store) HighScore(policy string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM episodes WHERE policy = ?",
		policy,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearEpisodes deletes all episodes for the given policy.
func (s *Store) ClearEpisodes(policy string) error {
	_, err := s.db.Exec("DELETE FROM episodes WHERE policy = ?", policy)
	if err != nil {
		return fmt.Errorf("storage: cannot clear episodes: %w", err)
	}
	return nil
}

// PolicyStats contains aggregated statistics for one policy.
type PolicyStats struct {
	Policy     string
	Episodes   int
	HighScore  int
	AvgScore   float64
	AvgTicks   float64
	LastPlayed time.Time
}

// GetPolicyStats retrieves aggregated statistics for a specific policy.
func (s *Store) GetPolicyStats(policy string) (*PolicyStats, error) {
	stats := &PolicyStats{Policy: policy}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), COALESCE(AVG(ticks), 0)
		 FROM episodes WHERE policy = ?`,
		policy,
	).Scan(&stats.Episodes, &stats.HighScore, &stats.AvgScore, &stats.AvgTicks)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get policy stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM episodes WHERE policy = ? ORDER BY id DESC LIMIT 1`,
		policy,
	).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// GetAllPolicyStats retrieves statistics for every policy with episodes,
// ordered by high score.
func (s *Store) GetAllPolicyStats() ([]PolicyStats, error) {
	rows, err := s.db.Query(`SELECT DISTINCT policy FROM episodes ORDER BY policy`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot list policies: %w", err)
	}
	var policies []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			rows.Close()
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		policies = append(policies, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	all := make([]PolicyStats, 0, len(policies))
	for _, p := range policies {
		st, err := s.GetPolicyStats(p)
		if err != nil {
			return nil, err
		}
		all = append(all, *st)
	}

	// Highest first; names break ties.
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].HighScore > all[j].HighScore
	})
	return all, nil
}

// SaveTrainingRun records the outcome of a training session.
func (s *Store) SaveTrainingRun(run TrainingRun) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO training_runs (run_id, episodes, best_score, mean_score, model_path, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Episodes, run.BestScore, run.MeanScore, run.ModelPath, run.Duration,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save training run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TrainingRunByID retrieves a training run by its run ID.
// Returns nil without error when the run does not exist.
func (s *Store) TrainingRunByID(runID string) (*TrainingRun, error) {
	var run TrainingRun
	var createdAt any

	err := s.db.QueryRow(
		`SELECT id, run_id, episodes, best_score, mean_score, model_path, duration_secs, created_at
		 FROM training_runs
		 WHERE run_id = ?`,
		runID,
	).Scan(&run.ID, &run.RunID, &run.Episodes, &run.BestScore, &run.MeanScore,
		&run.ModelPath, &run.Duration, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query training run: %w", err)
	}
	run.CreatedAt = parseTime(createdAt)

	return &run, nil
}

// RecentTrainingRuns retrieves the most recent training runs.
func (s *Store) RecentTrainingRuns(limit int) ([]TrainingRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, run_id, episodes, best_score, mean_score, model_path, duration_secs, created_at
		 FROM training_runs
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query training runs: %w", err)
	}
	defer rows.Close()

	var runs []TrainingRun
	for rows.Next() {
		var run TrainingRun
		var createdAt any
		if err := rows.Scan(&run.ID, &run.RunID, &run.Episodes, &run.BestScore, &run.MeanScore,
			&run.ModelPath, &run.Duration, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		run.CreatedAt = parseTime(createdAt)
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}
