package sqlite

// CallReport represents one persisted row summarizing a single analyzed call.
// Rows are immutable once written; the only delete path is the bulk ClearAll
// maintenance operation.
type CallReport struct {
	ID                  int64  `json:"id"`
	CustomerName        string `json:"customer_name"`
	AgentName           string `json:"agent_name"`
	CustomerSatisfied   string `json:"customer_satisfied"` // "Yes" or "No", enforced by a CHECK constraint
	CompanyImprovements string `json:"company_improvements"`
}

// ReportFields holds the resolved analysis fields for a single insert. Every
// field must be resolved (or defaulted) before the row is written; there is
// no partial-row path.
type ReportFields struct {
	CustomerName        string
	AgentName           string
	CustomerSatisfied   string
	CompanyImprovements string
}
