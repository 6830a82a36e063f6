package catalog

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
)

const report_client_search_books_from_author = "client.search-books-from-author"

const (
	searchEndpoint = "/Default/Portal/Recherche/Search.svc/Search"

	searchPage       = 0
	searchPageRange  = 10
	searchResultSize = 100

	// digitalDocbase marks e-book results, they are not held by any branch.
	digitalDocbase = "DILICOM"
)

type BookItem struct {
	Url         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Publisher   string `json:"publisher"`
	Id          string `json:"id"`
	RscId       string `json:"rscId"`
	Docbase     string `json:"docbase"`
}

// BookSearchResult holds the physical books of a search. Page and PageMax are those
// of the remote search, they count the digital results that were filtered out too.
type BookSearchResult struct {
	Page    int        `json:"page"`
	PageMax int        `json:"pageMax"`
	Results []BookItem `json:"results"`
}

type bookSearchQuery struct {
	Page         int    `json:"Page"`
	PageRange    int    `json:"PageRange"`
	ResultSize   int    `json:"ResultSize"`
	ScenarioCode string `json:"ScenarioCode"`
	// Grid is a json document encoded as a string.
	Grid string `json:"Grid"`
}

type bookSearchRequest struct {
	Query bookSearchQuery `json:"query"`
}

type searchResource struct {
	Ttl     string `json:"Ttl"`
	Desc    string `json:"Desc"`
	Pbls    string `json:"Pbls"`
	Id      string `json:"Id"`
	RscId   string `json:"RscId"`
	RscBase string `json:"RscBase"`
	Crtr    string `json:"Crtr"`
}

type searchResult struct {
	FriendlyUrl string         `json:"FriendlyUrl"`
	Resource    searchResource `json:"Resource"`
}

type searchInfo struct {
	Page    int `json:"Page"`
	PageMax int `json:"PageMax"`
}

type bookSearchPayload struct {
	SearchInfo searchInfo     `json:"SearchInfo"`
	Results    []searchResult `json:"Results"`
}

// authorGrid is the facet filter selecting the books of a single author.
func authorGrid(authorId string) (string, error) {
	grid, err := encodeJson(map[string][]string{
		strconv.Itoa(authorFieldUid): {authorId},
	})
	if err != nil {
		return "", err
	}
	return string(grid), nil
}

func cleanBookSearch(payload bookSearchPayload) BookSearchResult {
	results := make([]BookItem, 0, len(payload.Results))
	for _, r := range payload.Results {
		if r.Resource.RscBase == digitalDocbase {
			continue
		}
		results = append(results, BookItem{
			Url:         r.FriendlyUrl,
			Title:       r.Resource.Ttl,
			Description: r.Resource.Desc,
			Publisher:   r.Resource.Pbls,
			Id:          r.Resource.Id,
			RscId:       r.Resource.RscId,
			Docbase:     r.Resource.RscBase,
		})
	}
	return BookSearchResult{
		Page:    payload.SearchInfo.Page,
		PageMax: payload.SearchInfo.PageMax,
		Results: results,
	}
}

// SearchBooksFromAuthor returns the first page of physical books by the author with `authorId`,
// as returned by SearchAuthors.
func (c *Client) SearchBooksFromAuthor(ctx context.Context, authorId string) (BookSearchResult, error) {
	grid, err := authorGrid(authorId)
	if err != nil {
		c.tel.ReportBroken(report_client_search_books_from_author, fmt.Errorf("encode grid: %w", err), authorId)
		return BookSearchResult{}, err
	}

	res, err := Call[bookSearchPayload](ctx, c, http.MethodPost, searchEndpoint, bookSearchRequest{
		Query: bookSearchQuery{
			Page:         searchPage,
			PageRange:    searchPageRange,
			ResultSize:   searchResultSize,
			ScenarioCode: scenarioCatalogue,
			Grid:         grid,
		},
	})
	if err != nil {
		c.tel.ReportBroken(report_client_search_books_from_author, err, authorId)
		return BookSearchResult{}, fmt.Errorf("search books from author: %w", err)
	}

	result := cleanBookSearch(res.Payload)
	dropped := len(res.Payload.Results) - len(result.Results)
	if dropped > 0 {
		c.tel.ReportDebug(report_client_search_books_from_author, "dropped digital results", authorId, dropped)
	}
	return result, nil
}
