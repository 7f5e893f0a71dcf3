package analysis

import "fmt"

// Prompt templates, one per facet. Each template interpolates the transcript
// verbatim (no sanitization) and instructs the model toward the exact
// response shape the extractor expects: a JSON object for name extraction, a
// single word from a closed set for satisfaction and sentiment, a
// comma-separated list for improvements and attention areas, and a
// dash-delimited record block for the response critique.
const (
	summaryTemplate = `Summarize the following customer support conversation:
keep it without preamble
%s`

	nameExtractionTemplate = `Extract only the names of the agent and customer from this conversation.
Respond strictly in JSON format:

{
  "agent_name": "<agent_name>",
  "customer_name": "<customer_name>"
}

If unknown, use "Unknown" instead of leaving fields blank.

Conversation:
%s`

	satisfactionTemplate = `Was the customer satisfied at the end of the call? Answer only Yes or No.
%s`

	sentimentTemplate = `Classify the overall sentiment of the customer's conversation strictly as Positive, Negative, or Neutral.
Only return one of these three words without any explanation:
%s`

	attentionAreasTemplate = `Identify key topics or main areas of attention in short comma-separated keywords only (e.g., billing, technical issue, refund):
%s`

	improvementsTemplate = `No preamble.
Identify issues the customer faced that the company needs to improve.
Return only a short list of issues separated by commas also without any preamble.
Example: "Website not user-friendly, Customer didn't receive email"
If nothing needs improvement, return "No issues reported."
%s`

	responseCritiqueTemplate = `- no preamble
Extract all responses given by the agent from the following conversation. Identify responses that may not have effectively addressed the customer's concerns.

Format the output as follows and do not put any markdown syntax or bulletpoint in the response:
- Old Response: "<original agent response>"
- Upgraded Response: "<better alternative>"
- Reason for improvement: "<explanation>"

Use "----------------------------" to separate entries.

Ensure the upgraded response is clear, empathetic, and directly addresses customer concerns. Do not include customer statements in the output.

Conversation:
%s`
)

// CritiqueSeparator is the record separator the critique prompt asks the
// model to emit between entries. The presentation layer splits on it; the
// core never parses the critique into a structured type.
const CritiqueSeparator = "----------------------------"

// BuildPrompt returns the instruction text for one facet with the transcript
// interpolated verbatim. Pure function of its inputs.
func BuildPrompt(facet Facet, transcript string) (string, error) {
	switch facet {
	case FacetSummary:
		return fmt.Sprintf(summaryTemplate, transcript), nil
	case FacetNameExtraction:
		return fmt.Sprintf(nameExtractionTemplate, transcript), nil
	case FacetSatisfaction:
		return fmt.Sprintf(satisfactionTemplate, transcript), nil
	case FacetSentiment:
		return fmt.Sprintf(sentimentTemplate, transcript), nil
	case FacetAttentionAreas:
		return fmt.Sprintf(attentionAreasTemplate, transcript), nil
	case FacetImprovements:
		return fmt.Sprintf(improvementsTemplate, transcript), nil
	case FacetResponseCritique:
		return fmt.Sprintf(responseCritiqueTemplate, transcript), nil
	default:
		return "", fmt.Errorf("unknown analysis facet: %s", facet)
	}
}
