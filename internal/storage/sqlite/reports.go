package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mithilai/Customer-Call-Analyzer/pkg/logger"
	sqlitedrv "modernc.org/sqlite"
)

// ErrConstraintViolation is returned when an insert violates a schema
// constraint, e.g. a customer_satisfied value outside {Yes, No}. A value
// reaching the store boundary out of enum is a caller bug, so the error
// propagates instead of being defaulted away.
var ErrConstraintViolation = errors.New("constraint violation")

// sqliteConstraint is the primary SQLITE_CONSTRAINT result code; extended
// constraint codes (CHECK, NOT NULL, ...) carry it in their low byte.
const sqliteConstraint = 19

// ReportStorage handles storage of call report rows
type ReportStorage struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewReportStorage creates a new SQLite report storage
func NewReportStorage(db *sql.DB, logger *logger.Logger) *ReportStorage {
	return &ReportStorage{
		db:     db,
		logger: logger.Named("sqlite-reports"),
	}
}

// InsertReport stores one fully resolved report row and returns its id
func (s *ReportStorage) InsertReport(fields ReportFields) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO call_reports
		(customer_name, agent_name, customer_satisfied, company_improvements)
		VALUES (?, ?, ?, ?)`,
		fields.CustomerName,
		fields.AgentName,
		fields.CustomerSatisfied,
		fields.CompanyImprovements,
	)
	if err != nil {
		if isConstraintError(err) {
			return 0, fmt.Errorf("%w: %v", ErrConstraintViolation, err)
		}
		return 0, fmt.Errorf("failed to insert report: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}

	s.logger.Debug("Stored call report",
		logger.Int64("id", id),
		logger.String("agent_name", fields.AgentName),
		logger.String("customer_name", fields.CustomerName),
		logger.String("customer_satisfied", fields.CustomerSatisfied))

	return id, nil
}

// ListReports returns every stored report ordered by id ascending
func (s *ReportStorage) ListReports() ([]*CallReport, error) {
	rows, err := s.db.Query(
		`SELECT id, customer_name, agent_name, customer_satisfied, company_improvements
		FROM call_reports
		ORDER BY id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	return s.scanReportRows(rows)
}

// ClearAll deletes every report row and resets the id sequence so the next
// insert is assigned id 1. Irreversible; maintenance use only.
func (s *ReportStorage) ClearAll() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin clear transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM call_reports`); err != nil {
		return fmt.Errorf("failed to delete reports: %w", err)
	}

	// sqlite_sequence only exists once an AUTOINCREMENT table has been
	// inserted into; a missing table means there is no counter to reset.
	if _, err := tx.Exec(`DELETE FROM sqlite_sequence WHERE name = 'call_reports'`); err != nil &&
		!strings.Contains(err.Error(), "no such table") {
		return fmt.Errorf("failed to reset report id sequence: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit clear transaction: %w", err)
	}

	s.logger.Info("Cleared all call reports")
	return nil
}

// scanReportRows scans database rows into CallReport structs
func (s *ReportStorage) scanReportRows(rows *sql.Rows) ([]*CallReport, error) {
	var records []*CallReport
	for rows.Next() {
		var record CallReport
		var customerName, agentName, satisfied, improvements sql.NullString

		if err := rows.Scan(
			&record.ID,
			&customerName,
			&agentName,
			&satisfied,
			&improvements,
		); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}

		record.CustomerName = customerName.String
		record.AgentName = agentName.String
		record.CustomerSatisfied = satisfied.String
		record.CompanyImprovements = improvements.String

		records = append(records, &record)
	}

	return records, rows.Err()
}

// isConstraintError reports whether err is a SQLite constraint failure
func isConstraintError(err error) bool {
	var se *sqlitedrv.Error
	if errors.As(err, &se) {
		return se.Code()&0xff == sqliteConstraint
	}
	return false
}
