package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/screenkeep/screenkeep/internal/models"
)

// UpsertDailyUsage writes one day of usage for a user. A later write for
// the same (uid, date) replaces the prior app usage map wholesale.
func (s *Store) UpsertDailyUsage(usage models.DailyUsage) error {
	encoded, err := json.Marshal(usage.AppUsages)
	if err != nil {
		return fmt.Errorf("failed to encode app usages: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO daily_usage_history (uid, date, app_usages)
		VALUES (?, ?, ?)
		ON CONFLICT(uid, date) DO UPDATE SET
			app_usages = excluded.app_usages`,
		usage.UID, usage.Date, string(encoded))

	return err
}

func (s *Store) GetDailyUsage(uid, date string) (*models.DailyUsage, error) {
	row := s.db.QueryRow(`
		SELECT uid, date, app_usages
		FROM daily_usage_history
		WHERE uid = ? AND date = ?
		LIMIT 1`, uid, date)

	usage, err := scanDailyUsage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return usage, nil
}

// GetDailyUsages returns all daily usage records with date in
// [startDate, endDate], ordered ascending by date.
func (s *Store) GetDailyUsages(uid, startDate, endDate string) ([]models.DailyUsage, error) {
	rows, err := s.db.Query(`
		SELECT uid, date, app_usages
		FROM daily_usage_history
		WHERE uid = ? AND date >= ? AND date <= ?
		ORDER BY date ASC`, uid, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectDailyUsages(rows)
}

// GetRecentDailyUsages returns the newest records first, at most limit.
func (s *Store) GetRecentDailyUsages(uid string, limit int) ([]models.DailyUsage, error) {
	rows, err := s.db.Query(`
		SELECT uid, date, app_usages
		FROM daily_usage_history
		WHERE uid = ?
		ORDER BY date DESC
		LIMIT ?`, uid, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectDailyUsages(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDailyUsage(row rowScanner) (*models.DailyUsage, error) {
	var usage models.DailyUsage
	var encoded string

	if err := row.Scan(&usage.UID, &usage.Date, &encoded); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(encoded), &usage.AppUsages); err != nil {
		return nil, fmt.Errorf("failed to decode app usages for %s: %w", usage.Date, err)
	}
	if usage.AppUsages == nil {
		usage.AppUsages = map[string]int{}
	}
	return &usage, nil
}

func collectDailyUsages(rows *sql.Rows) ([]models.DailyUsage, error) {
	var usages []models.DailyUsage
	for rows.Next() {
		usage, err := scanDailyUsage(rows)
		if err != nil {
			return nil, err
		}
		usages = append(usages, *usage)
	}
	return usages, rows.Err()
}
