package tools

import (
	"context"
	"fmt"
	"strings"

	"ai-agent-gateway-be/internal/repository/contract"
	"ai-agent-gateway-be/internal/repository/specification"
)

const maxSearchResults = 5

// SearchDocumentsTool queries the tenant's knowledge base.
type SearchDocumentsTool struct {
	repo contract.DocumentRepository
}

func NewSearchDocumentsTool(repo contract.DocumentRepository) *SearchDocumentsTool {
	return &SearchDocumentsTool{repo: repo}
}

func (t *SearchDocumentsTool) Name() string {
	return "search_documents"
}

func (t *SearchDocumentsTool) Description() string {
	return `Search the knowledge base. Args: {"query": "search terms"}`
}

func (t *SearchDocumentsTool) Execute(ctx context.Context, tenantID string, args map[string]interface{}) (string, error) {
	query, _ := args["query"].(string)
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("search_documents requires a query")
	}

	docs, err := t.repo.FindAll(ctx,
		specification.ByTenant{TenantID: tenantID},
		specification.DocumentSearchQuery{Query: query},
		specification.Pagination{Limit: maxSearchResults},
	)
	if err != nil {
		return "", fmt.Errorf("failed to search documents: %w", err)
	}
	if len(docs) == 0 {
		return "No documents matched the query.", nil
	}

	var b strings.Builder
	for i, doc := range docs {
		snippet := doc.Content
		if len(snippet) > 300 {
			snippet = snippet[:300] + "..."
		}
		fmt.Fprintf(&b, "%d. %s\n%s\n", i+1, doc.Title, snippet)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
