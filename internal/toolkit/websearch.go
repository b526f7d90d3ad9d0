package toolkit

import (
	"context"
	"fmt"

	"github.com/alfakih7/nova-cli-agent/internal/prompt"
	"github.com/alfakih7/nova-cli-agent/internal/search"
)

// SearchOutcome carries raw hits plus the gateway's summary.
type SearchOutcome struct {
	Results []search.Result `json:"results"`
	Answer  string          `json:"answer,omitempty"`
	Summary string          `json:"summary,omitempty"`
}

// WebSearch fetches general results, adds news-topic results when the query
// looks temporal or includeNews is set, and summarizes the combined set via
// the gateway. An empty result set is a non-error negative outcome.
func (t *Toolkit) WebSearch(ctx context.Context, query string, includeNews bool) Result {
	if query == "" {
		return t.record("web_search", Fail("no query provided"))
	}
	if t.search == nil || !t.search.IsAvailable() {
		t.metrics.RecordSearch("unavailable")
		return t.record("web_search", Fail("web search is unavailable: no search API key configured"))
	}

	results, answer, err := t.search.Search(ctx, query)
	if err != nil {
		t.metrics.RecordSearch("error")
		return t.record("web_search", Fail("search failed: %v", err))
	}

	if includeNews || search.IsNewsQuery(query) {
		newsResults, _, err := t.search.SearchNews(ctx, query)
		if err == nil {
			results = append(results, newsResults...)
		}
	}

	if len(results) == 0 {
		t.metrics.RecordSearch("empty")
		return t.record("web_search", Declined(fmt.Sprintf("No results found for %q.", query)))
	}

	t.metrics.RecordSearch("ok")

	outcome := SearchOutcome{Results: results, Answer: answer}

	userPrompt := prompt.Task(prompt.TaskWebSearch, map[string]string{"query": query}) +
		"\n\nSearch results:\n" + search.FormatResults(results)
	summary, err := t.complete(ctx, RouteDefault, prompt.System(prompt.SystemWebSearchAssistant), userPrompt)
	if err == nil {
		outcome.Summary = summary
	}

	return t.record("web_search", OK(outcome, fmt.Sprintf("%d results for %q", len(results), query)))
}
