package sqlite

import (
	"database/sql"
	"errors"

	"github.com/screenkeep/screenkeep/internal/models"
)

// InsertGoal appends a record to the goal ledger. Existing records are
// never updated; resolution prefers the newest effective date, then the
// latest insertion.
func (s *Store) InsertGoal(goal models.GoalRecord) error {
	var pkg sql.NullString
	if goal.Package != "" {
		pkg = sql.NullString{String: goal.Package, Valid: true}
	}

	_, err := s.db.Exec(`
		INSERT INTO goal_history (uid, effective_date, package_name, goal_minutes)
		VALUES (?, ?, ?, ?)`,
		goal.UID, goal.EffectiveDate, pkg, goal.GoalMinutes)

	return err
}

// EffectiveAppGoal resolves the per-app goal as of targetDate, or nil if
// no record qualifies.
func (s *Store) EffectiveAppGoal(uid, pkg, targetDate string) (*models.GoalRecord, error) {
	row := s.db.QueryRow(`
		SELECT uid, effective_date, package_name, goal_minutes
		FROM goal_history
		WHERE uid = ? AND package_name = ? AND effective_date <= ?
		ORDER BY effective_date DESC, id DESC
		LIMIT 1`, uid, pkg, targetDate)

	return scanGoal(row)
}

// EffectiveOverallGoal resolves the cross-app goal as of targetDate, or
// nil if none has been set.
func (s *Store) EffectiveOverallGoal(uid, targetDate string) (*models.GoalRecord, error) {
	row := s.db.QueryRow(`
		SELECT uid, effective_date, package_name, goal_minutes
		FROM goal_history
		WHERE uid = ? AND package_name IS NULL AND effective_date <= ?
		ORDER BY effective_date DESC, id DESC
		LIMIT 1`, uid, targetDate)

	return scanGoal(row)
}

// GoalsInRange returns all goal records with effective date in
// [startDate, endDate], ordered ascending.
func (s *Store) GoalsInRange(uid, startDate, endDate string) ([]models.GoalRecord, error) {
	rows, err := s.db.Query(`
		SELECT uid, effective_date, package_name, goal_minutes
		FROM goal_history
		WHERE uid = ? AND effective_date >= ? AND effective_date <= ?
		ORDER BY effective_date ASC, id ASC`, uid, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []models.GoalRecord
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *goal)
	}
	return goals, rows.Err()
}

// GoalPackages returns the distinct packages that have ever had a
// per-app goal set, excluding the overall goal.
func (s *Store) GoalPackages(uid string) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT DISTINCT package_name
		FROM goal_history
		WHERE uid = ? AND package_name IS NOT NULL
		ORDER BY package_name`, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var packages []string
	for rows.Next() {
		var pkg string
		if err := rows.Scan(&pkg); err != nil {
			return nil, err
		}
		packages = append(packages, pkg)
	}
	return packages, rows.Err()
}

func scanGoal(row rowScanner) (*models.GoalRecord, error) {
	var goal models.GoalRecord
	var pkg sql.NullString

	err := row.Scan(&goal.UID, &goal.EffectiveDate, &pkg, &goal.GoalMinutes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if pkg.Valid {
		goal.Package = pkg.String
	}
	return &goal, nil
}
