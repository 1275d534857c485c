package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/finsight-ai/finsight-be/types"
)

const groundingSystemPrompt = `You are a knowledgeable AI assistant for financial documents. Answer using *only the content* provided in the context below.

Instructions:
- Respond strictly based on the provided content.
- Structure your response using clear and concise bullet points.
- Each bullet point must convey a complete, self-contained insight or fact.
- If the content does not contain relevant information, reply with: "No content available."`

// DocumentSummaryInstruction asks for a full summary of a document scope.
const DocumentSummaryInstruction = `Provide a comprehensive summary of the uploaded financial document(s) with key metrics, events, risks, insights, and recommendations. Include tone, trends, and future implications.`

// NewsSummaryInstruction asks for a structured digest of news articles.
const NewsSummaryInstruction = `As a financial news analyst, provide a structured and concise summary of the uploaded articles.
Include:
- Key stock-related developments
- Company names, sectors, and market events
- Sentiment (positive/negative/neutral)
- Economic implications and forecasts
Use bullet points and focus on actionable insights.`

// Composer builds a grounded prompt from retrieved chunks and invokes the
// language model. Grounding is enforced by instruction only; the upstream
// model is trusted to comply.
type Composer struct {
	llm LanguageModelService
}

func NewComposer(llm LanguageModelService) *Composer {
	return &Composer{llm: llm}
}

// Ask answers instruction against the retrieved chunks and returns the answer
// together with the distinct sources the context came from, in first-seen
// order. A failed model call returns nothing; callers must not record a turn
// for it.
func (c *Composer) Ask(ctx context.Context, chunks []types.RetrievedChunk, instruction, model string) (string, []string, error) {
	prompt := buildPrompt(chunks, instruction)

	answer, err := c.llm.Complete(ctx, model, groundingSystemPrompt, prompt)
	if err != nil {
		return "", nil, err
	}

	return answer, collectSources(chunks), nil
}

func buildPrompt(chunks []types.RetrievedChunk, instruction string) string {
	var b strings.Builder
	b.WriteString("Context:\n")
	for i, chunk := range chunks {
		fmt.Fprintf(&b, "[%d] (source: %s)\n%s\n\n", i+1, chunk.Source, chunk.Content)
	}
	b.WriteString("Query: ")
	b.WriteString(instruction)
	return b.String()
}

func collectSources(chunks []types.RetrievedChunk) []string {
	seen := make(map[string]struct{}, len(chunks))
	var sources []string
	for _, chunk := range chunks {
		if _, dup := seen[chunk.DocumentID]; dup {
			continue
		}
		seen[chunk.DocumentID] = struct{}{}
		sources = append(sources, chunk.DocumentID)
	}
	return sources
}
