package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"parislib/internal/components/telemetry"
	"parislib/pkg/catalog"

	"github.com/stretchr/testify/require"
)

const authorsResponse = `{"success": true, "message": null, "errors": [], "d": [
	{"id": "456", "label": "Hugues, Victor", "query": "q", "value": "v"},
	{"id": "123", "label": "Hugo, Victor", "query": "q", "value": "v"}
]}`

const booksResponse = `{"success": true, "message": null, "errors": [], "d": {
	"SearchInfo": {"Page": 0, "PageMax": 1},
	"Results": [
		{"FriendlyUrl": "/b/1", "Resource": {"Ttl": "Les Miserables", "Pbls": "Gallimard", "Id": "1", "RscId": "rsc-1", "RscBase": "SYRACUSE"}},
		{"FriendlyUrl": "/b/2", "Resource": {"Ttl": "Les Miserables (e-book)", "Pbls": "Digital", "Id": "2", "RscId": "rsc-2", "RscBase": "DILICOM"}},
		{"FriendlyUrl": "/b/3", "Resource": {"Ttl": "Notre-Dame de Paris", "Pbls": "Folio", "Id": "3", "RscId": "rsc-3", "RscBase": "SYRACUSE"}},
		{"FriendlyUrl": "/b/4", "Resource": {"Ttl": "Les Contemplations", "Pbls": "Folio", "Id": "4", "RscId": "rsc-4", "RscBase": "SYRACUSE"}}
	]
}}`

func holdingsResponse(pageUrl string) string {
	return fmt.Sprintf(`{"success": true, "message": null, "errors": [], "d": {
	"Holdings": [
		{"Cote": "R HUG", "HoldingId": "h1", "IsAvailable": true, "IsLoanable": true, "Other": [
			{"Key": "SiteLabel", "Value": "75001 - La Canopee"},
			{"Key": "SiteLabelLink", "Value": %q}
		], "Statut": "En rayon", "WhenBack": null},
		{"Cote": "R HUG", "HoldingId": "h2", "IsAvailable": false, "IsLoanable": true, "Other": [
			{"Key": "SiteLabel", "Value": "75004 - Bibliotheque Historique"},
			{"Key": "SiteLabelLink", "Value": "https://www.paris.fr/lieux/unused"}
		], "Statut": "En pret", "WhenBack": "25/12/2024"}
	],
	"fieldList": {
		"Identifier": ["ID"], "Title": ["Title"], "Author_sort": ["Hugo, Victor"],
		"YearOfPublication_sort": ["1862"], "Isbn": ["isbn"], "Ean": ["ean"],
		"TypeOfDocument": ["Livre"], "ThumbSmall": ["s"], "ThumbMedium": ["m"],
		"ThumbLarge": ["l"], "Isbn10": ["isbn10"]
	}
}}`, pageUrl)
}

const libraryPage = `<html><body><div class="sidebar-section is-place"><div class="sidebar-section-content">
	<strong>Adresse :</strong>
	101 Porte Berger
	75001 Paris
</div></div></body></html>`

type catalogServer struct {
	srv         *httptest.Server
	client      *catalog.Client
	searchGrids []string
	holdings    atomic.Int32
	pages       atomic.Int32
	// failRscId makes the holdings endpoint reject this record.
	failRscId string
}

func newCatalogServer(t *testing.T) *catalogServer {
	s := &catalogServer{}

	mux := http.NewServeMux()
	mux.HandleFunc("/default/Portal/Search.svc/Suggest", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, authorsResponse)
	})
	mux.HandleFunc("/Default/Portal/Recherche/Search.svc/Search", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Query struct {
				Grid string `json:"Grid"`
			} `json:"query"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		s.searchGrids = append(s.searchGrids, body.Query.Grid)
		fmt.Fprint(w, booksResponse)
	})
	mux.HandleFunc("/default/Portal/Services/ILSClient.svc/GetHoldings", func(w http.ResponseWriter, r *http.Request) {
		s.holdings.Add(1)
		raw, _ := io.ReadAll(r.Body)
		if s.failRscId != "" && strings.Contains(string(raw), s.failRscId) {
			fmt.Fprint(w, `{"success": false, "message": "Unknown record", "errors": []}`)
			return
		}
		fmt.Fprint(w, holdingsResponse(s.srv.URL+"/lieux/canopee"))
	})
	mux.HandleFunc("/lieux/canopee", func(w http.ResponseWriter, r *http.Request) {
		s.pages.Add(1)
		fmt.Fprint(w, libraryPage)
	})

	s.srv = httptest.NewServer(mux)
	t.Cleanup(s.srv.Close)

	opts := catalog.DefaultClientOptions()
	opts.BaseUrl = s.srv.URL
	client, err := catalog.NewClient(opts, catalog.WithTelemetryAPI(&telemetry.Recorder{}))
	require.NoError(t, err)
	s.client = client
	return s
}

func TestLookup(t *testing.T) {
	s := newCatalogServer(t)

	result, err := lookup(context.Background(), s.client, "victor hugo", lookupOptions{
		Books:       2,
		Concurrency: 2,
		Addresses:   true,
	})
	require.NoError(t, err)

	require.Equal(t, catalog.Author{Id: "123", Label: "Hugo, Victor"}, result.Author)
	require.Equal(t, []string{`{"464":["123"]}`}, s.searchGrids)

	require.Len(t, result.Books, 2)
	require.Equal(t, "rsc-1", result.Books[0].Book.RscId)
	require.Equal(t, "rsc-3", result.Books[1].Book.RscId)
	require.Equal(t, int32(2), s.holdings.Load())
	for _, b := range result.Books {
		require.Empty(t, b.Error)
		require.NotNil(t, b.Availability)
		require.Len(t, b.Availability.Libraries, 2)
	}

	// both books are on the shelf at the same library, its page is fetched once
	require.Equal(t, int32(1), s.pages.Load())
	require.Equal(t, map[string]string{
		s.srv.URL + "/lieux/canopee": "101 Porte Berger 75001 Paris",
	}, result.Addresses)
}

func TestLookupKeepsFailedAvailability(t *testing.T) {
	s := newCatalogServer(t)
	s.failRscId = "rsc-3"

	result, err := lookup(context.Background(), s.client, "Hugo", lookupOptions{Books: 10, Concurrency: 1})
	require.NoError(t, err)

	require.Len(t, result.Books, 3)
	require.NotNil(t, result.Books[0].Availability)
	require.Nil(t, result.Books[1].Availability)
	require.Contains(t, result.Books[1].Error, "Unknown record")
	require.NotNil(t, result.Books[2].Availability)
	require.Nil(t, result.Addresses)
}

func TestLookupNoAuthor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success": true, "message": null, "errors": [], "d": []}`)
	}))
	defer srv.Close()

	opts := catalog.DefaultClientOptions()
	opts.BaseUrl = srv.URL
	client, err := catalog.NewClient(opts, catalog.WithTelemetryAPI(&telemetry.Recorder{}))
	require.NoError(t, err)

	_, err = lookup(context.Background(), client, "nobody", lookupOptions{})
	require.ErrorIs(t, err, errNoAuthor)
}
