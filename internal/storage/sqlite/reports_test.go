package sqlite

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/mithilai/Customer-Call-Analyzer/pkg/logger"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestStorage(t *testing.T) *ReportStorage {
	t.Helper()
	db := openTestDB(t)
	if err := EnsureSchema(db); err != nil {
		t.Fatalf("failed to ensure schema: %v", err)
	}
	return NewReportStorage(db, logger.Nop())
}

func testFields() ReportFields {
	return ReportFields{
		CustomerName:        "Alice",
		AgentName:           "Sam",
		CustomerSatisfied:   "Yes",
		CompanyImprovements: "No issues reported.",
	}
}

func TestEnsureSchemaIdempotent(t *testing.T) {
	db := openTestDB(t)

	if err := EnsureSchema(db); err != nil {
		t.Fatalf("first EnsureSchema failed: %v", err)
	}
	first, err := tableColumns(db, "call_reports")
	if err != nil {
		t.Fatal(err)
	}

	if err := EnsureSchema(db); err != nil {
		t.Fatalf("second EnsureSchema failed: %v", err)
	}
	second, err := tableColumns(db, "call_reports")
	if err != nil {
		t.Fatal(err)
	}

	if len(first) != len(second) {
		t.Fatalf("column set changed between runs: %v vs %v", first, second)
	}
	for name := range first {
		if !second[name] {
			t.Errorf("column %s missing after second run", name)
		}
	}
}

func TestEnsureSchemaAddsMissingColumn(t *testing.T) {
	db := openTestDB(t)

	// Legacy table shape, predating the company_improvements column
	_, err := db.Exec(`
		CREATE TABLE call_reports (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			customer_name TEXT DEFAULT 'Unknown',
			agent_name TEXT DEFAULT 'Unknown',
			customer_satisfied TEXT CHECK(customer_satisfied IN ('Yes', 'No'))
		)
	`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(
		`INSERT INTO call_reports (customer_name, agent_name, customer_satisfied) VALUES (?, ?, ?)`,
		"Bob", "Eve", "No",
	); err != nil {
		t.Fatal(err)
	}

	if err := EnsureSchema(db); err != nil {
		t.Fatalf("EnsureSchema on legacy table failed: %v", err)
	}

	columns, err := tableColumns(db, "call_reports")
	if err != nil {
		t.Fatal(err)
	}
	if !columns["company_improvements"] {
		t.Fatal("company_improvements column not added")
	}

	// Existing rows survive the additive migration untouched
	storage := NewReportStorage(db, logger.Nop())
	reports, err := storage.ListReports()
	if err != nil {
		t.Fatal(err)
	}
	if len(reports) != 1 || reports[0].CustomerName != "Bob" {
		t.Fatalf("legacy row was disturbed: %+v", reports)
	}
}

func TestInsertAndListReports(t *testing.T) {
	storage := newTestStorage(t)

	firstID, err := storage.InsertReport(testFields())
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if firstID != 1 {
		t.Errorf("expected first id 1, got %d", firstID)
	}

	second := testFields()
	second.CustomerName = "Carol"
	second.CustomerSatisfied = "No"
	secondID, err := storage.InsertReport(second)
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if secondID != firstID+1 {
		t.Errorf("expected id %d, got %d", firstID+1, secondID)
	}

	reports, err := storage.ListReports()
	if err != nil {
		t.Fatal(err)
	}
	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}
	if reports[0].ID >= reports[1].ID {
		t.Error("reports not ordered by id ascending")
	}
	last := reports[len(reports)-1]
	if last.ID != secondID ||
		last.CustomerName != "Carol" ||
		last.AgentName != "Sam" ||
		last.CustomerSatisfied != "No" ||
		last.CompanyImprovements != "No issues reported." {
		t.Errorf("last report does not match inserted fields: %+v", last)
	}
}

func TestInsertRejectsOutOfEnumSatisfaction(t *testing.T) {
	storage := newTestStorage(t)

	if _, err := storage.InsertReport(testFields()); err != nil {
		t.Fatal(err)
	}

	bad := testFields()
	bad.CustomerSatisfied = "Maybe"
	_, err := storage.InsertReport(bad)
	if !errors.Is(err, ErrConstraintViolation) {
		t.Fatalf("expected ErrConstraintViolation, got %v", err)
	}

	reports, err := storage.ListReports()
	if err != nil {
		t.Fatal(err)
	}
	if len(reports) != 1 {
		t.Errorf("row count changed by failed insert: %d", len(reports))
	}
}

func TestClearAllResetsIDSequence(t *testing.T) {
	storage := newTestStorage(t)

	for i := 0; i < 3; i++ {
		if _, err := storage.InsertReport(testFields()); err != nil {
			t.Fatal(err)
		}
	}

	if err := storage.ClearAll(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	reports, err := storage.ListReports()
	if err != nil {
		t.Fatal(err)
	}
	if len(reports) != 0 {
		t.Fatalf("expected empty table after clear, got %d rows", len(reports))
	}

	id, err := storage.InsertReport(testFields())
	if err != nil {
		t.Fatal(err)
	}
	if id != 1 {
		t.Errorf("expected id 1 after clear, got %d", id)
	}
}

func TestClearAllOnEmptyDatabase(t *testing.T) {
	storage := newTestStorage(t)
	// No insert has happened, so sqlite_sequence may not exist yet
	if err := storage.ClearAll(); err != nil {
		t.Fatalf("clear on fresh db failed: %v", err)
	}
}
