package orchestrator

import (
	"fmt"
	"strings"

	"github.com/sahayak-labs/sahayak/catalog"
	"github.com/sahayak-labs/sahayak/core/protocol"
)

// FinalizeToolName is the single tool exposed to the model. The model keeps
// collecting fields in conversation until it can call this once with a
// complete application.
const FinalizeToolName = "submit_loan_application"

// finalizeTool builds the finalize schema against the registry. The loan
// type is a closed enumeration of catalog keys; customer details stay an
// open object so the model can carry extra collected fields through.
func finalizeTool(reg *catalog.Registry) protocol.Tool {
	keys := reg.Keys()
	enum := make([]any, len(keys))
	for i, key := range keys {
		enum[i] = key
	}

	return protocol.Tool{
		Name:        FinalizeToolName,
		Description: "Submit a completed loan application once every required field for the chosen loan type has been collected from the customer.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"loan_type": map[string]any{
					"type": "string",
					"enum": enum,
				},
				"customer_details": map[string]any{
					"type":        "object",
					"description": "All collected customer fields, keyed by field name.",
				},
				"documents_received": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "Names of documents the customer has provided.",
				},
			},
			"required": []any{"loan_type", "customer_details", "documents_received"},
		},
	}
}

// SystemPrompt extends a base persona message with the loan catalog so the
// model knows which products exist and which fields each one needs.
func SystemPrompt(base string, reg *catalog.Registry) string {
	var b strings.Builder
	b.WriteString(base)
	b.WriteString("\n\nAvailable loan products:\n")
	for _, lt := range reg.List() {
		fmt.Fprintf(&b, "- %s (%s): required fields: %s; helpful documents: %s\n",
			lt.DisplayName, lt.Name,
			strings.Join(lt.RequiredFields, ", "),
			strings.Join(lt.RequiredDocuments, ", "))
	}
	b.WriteString("\nCollect the required fields one or two at a time. ")
	b.WriteString("When every required field for the chosen product is collected, call ")
	b.WriteString(FinalizeToolName)
	b.WriteString(" exactly once. Never invent field values.")
	return b.String()
}
