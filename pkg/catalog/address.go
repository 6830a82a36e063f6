package catalog

import (
	"bytes"
	"context"
	"fmt"

	"parislib/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/atom"
)

const report_client_get_library_address = "client.get-library-address"

// extractAddress returns the text of the place section of a branch page, without
// its bold label (ex. "Adresse :").
func extractAddress(doc *goquery.Document) (string, bool) {
	content := doc.Find(".sidebar-section.is-place").
		First().
		Find(".sidebar-section-content").
		First()
	if content.Length() == 0 {
		return "", false
	}
	return htmlutil.OwnText(content.Nodes[0], atom.Strong, atom.B), true
}

// GetLibraryAddress fetches a branch page (LibraryHolding.Url) and returns its address.
// found is false when the page does not publish one.
func (c *Client) GetLibraryAddress(ctx context.Context, pageUrl string) (address string, found bool, err error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get(pageUrl)
	if err != nil {
		c.tel.ReportBroken(report_client_get_library_address, fmt.Errorf("fetch: %w", err), pageUrl)
		return "", false, fmt.Errorf("get library address: %w", err)
	}
	if res.IsError() {
		err = fmt.Errorf("%w: GET %s: status %d", ErrUnexpectedResponse, pageUrl, res.StatusCode())
		c.tel.ReportBroken(report_client_get_library_address, err)
		return "", false, fmt.Errorf("get library address: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		c.tel.ReportBroken(report_client_get_library_address, fmt.Errorf("parse html: %w", err), pageUrl)
		return "", false, fmt.Errorf("get library address: %w", err)
	}

	address, found = extractAddress(doc)
	if !found {
		c.tel.ReportDebug(report_client_get_library_address, "no place section", pageUrl)
	}
	return address, found, nil
}
