package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const report_client_search_authors = "client.search-authors"

const (
	suggestEndpoint = "/default/Portal/Search.svc/Suggest"

	// authorFieldUid is the id of the author facet in the catalog.
	authorFieldUid    = 464
	scenarioCatalogue = "CATALOGUE"
)

type Author struct {
	Id    string `json:"id"`
	Label string `json:"label"`
}

type authorSearchRequest struct {
	Term         string `json:"term"`
	FieldUid     int    `json:"fieldUid"`
	ScenarioCode string `json:"scenarioCode"`
}

type authorSuggestion struct {
	Id    string          `json:"id"`
	Label string          `json:"label"`
	Query json.RawMessage `json:"query"`
	Value json.RawMessage `json:"value"`
}

func cleanAuthors(suggestions []authorSuggestion) []Author {
	authors := make([]Author, 0, len(suggestions))
	for _, s := range suggestions {
		authors = append(authors, Author{
			Id:    s.Id,
			Label: s.Label,
		})
	}
	return authors
}

// SearchAuthors returns the authors the catalog suggests for `name`. The result is
// never nil, it is empty when nothing matches.
func (c *Client) SearchAuthors(ctx context.Context, name string) ([]Author, error) {
	res, err := Call[[]authorSuggestion](ctx, c, http.MethodPost, suggestEndpoint, authorSearchRequest{
		Term:         name,
		FieldUid:     authorFieldUid,
		ScenarioCode: scenarioCatalogue,
	})
	if err != nil {
		c.tel.ReportBroken(report_client_search_authors, err, name)
		return nil, fmt.Errorf("search authors: %w", err)
	}

	authors := cleanAuthors(res.Payload)
	c.tel.ReportDebug(report_client_search_authors, name, len(authors))
	return authors, nil
}
