package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/screenkeep/screenkeep/internal/models"
)

// InsertTracking appends a snapshot of the tracked package set to the
// tracking ledger. An empty set is a valid local snapshot.
func (s *Store) InsertTracking(record models.TrackingRecord) error {
	packages := record.TrackedPackages
	if packages == nil {
		packages = []string{}
	}
	encoded, err := json.Marshal(packages)
	if err != nil {
		return fmt.Errorf("failed to encode tracked packages: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO tracking_history (uid, effective_date, tracked_packages)
		VALUES (?, ?, ?)`,
		record.UID, record.EffectiveDate, string(encoded))

	return err
}

// EffectiveTracking resolves the tracked set as of targetDate, or nil if
// no snapshot qualifies.
func (s *Store) EffectiveTracking(uid, targetDate string) (*models.TrackingRecord, error) {
	row := s.db.QueryRow(`
		SELECT uid, effective_date, tracked_packages
		FROM tracking_history
		WHERE uid = ? AND effective_date <= ?
		ORDER BY effective_date DESC, id DESC
		LIMIT 1`, uid, targetDate)

	return scanTracking(row)
}

// LatestTracking returns the newest snapshot regardless of date, or nil
// if the user has never chosen a tracked set.
func (s *Store) LatestTracking(uid string) (*models.TrackingRecord, error) {
	row := s.db.QueryRow(`
		SELECT uid, effective_date, tracked_packages
		FROM tracking_history
		WHERE uid = ?
		ORDER BY effective_date DESC, id DESC
		LIMIT 1`, uid)

	return scanTracking(row)
}

// TrackingInRange returns all snapshots with effective date in
// [startDate, endDate], ordered ascending.
func (s *Store) TrackingInRange(uid, startDate, endDate string) ([]models.TrackingRecord, error) {
	rows, err := s.db.Query(`
		SELECT uid, effective_date, tracked_packages
		FROM tracking_history
		WHERE uid = ? AND effective_date >= ? AND effective_date <= ?
		ORDER BY effective_date ASC, id ASC`, uid, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.TrackingRecord
	for rows.Next() {
		record, err := scanTracking(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

func scanTracking(row rowScanner) (*models.TrackingRecord, error) {
	var record models.TrackingRecord
	var encoded string

	err := row.Scan(&record.UID, &record.EffectiveDate, &encoded)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := json.Unmarshal([]byte(encoded), &record.TrackedPackages); err != nil {
		return nil, fmt.Errorf("failed to decode tracked packages for %s: %w", record.EffectiveDate, err)
	}
	return &record, nil
}
