package analysis

// Facet identifies one independent analysis question asked of the LLM
// collaborator for every transcript.
type Facet string

const (
	FacetSummary          Facet = "summary"
	FacetNameExtraction   Facet = "name_extraction"
	FacetSatisfaction     Facet = "satisfaction"
	FacetSentiment        Facet = "sentiment"
	FacetAttentionAreas   Facet = "attention_areas"
	FacetImprovements     Facet = "improvements"
	FacetResponseCritique Facet = "response_critique"
)

// facetOrder is the sequence facets are issued in during an analysis run
var facetOrder = []Facet{
	FacetSummary,
	FacetNameExtraction,
	FacetSatisfaction,
	FacetSentiment,
	FacetAttentionAreas,
	FacetImprovements,
	FacetResponseCritique,
}

// unknownName is the fallback for agent/customer names that cannot be
// extracted from the model output.
const unknownName = "Unknown"

// Result holds everything a single analysis run produced. The persisted
// report covers CustomerName, AgentName, CustomerSatisfied and
// CompanyImprovements; the remaining fields are returned to the caller for
// display only.
type Result struct {
	ReportID            int64    `json:"report_id"`
	Transcript          string   `json:"transcript"`
	Summary             string   `json:"summary"`
	AgentName           string   `json:"agent_name"`
	CustomerName        string   `json:"customer_name"`
	CustomerSatisfied   string   `json:"customer_satisfied"`
	OverallSentiment    string   `json:"overall_sentiment"`
	AttentionAreas      string   `json:"main_attention_areas"`
	CompanyImprovements string   `json:"company_improvements"`
	ResponseCritique    string   `json:"response_critique"`
	Diagnostics         []string `json:"diagnostics,omitempty"`
}
