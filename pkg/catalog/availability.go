package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"parislib/internal/components/chrono"
	"parislib/internal/components/telemetry"
)

const report_client_get_book_availability = "client.get-book-availability"

const holdingsEndpoint = "/default/Portal/Services/ILSClient.svc/GetHoldings"

const (
	sideKeySiteLabel     = "SiteLabel"
	sideKeySiteLabelLink = "SiteLabelLink"
)

// LibraryHolding is a single copy of a book held by a branch.
type LibraryHolding struct {
	Cote        string `json:"cote"`
	HoldingId   string `json:"holdingId"`
	IsAvailable bool   `json:"isAvailable"`
	IsLoanable  bool   `json:"isLoanable"`
	Section     string `json:"section"`
	Site        string `json:"site"`
	Statut      string `json:"statut"`
	Type        string `json:"type"`
	// WhenBack is the day a borrowed copy is due back, nil if it is not on loan.
	WhenBack *time.Time `json:"whenBack"`
	// Url is the branch page on paris.fr, it can be given to GetLibraryAddress.
	Url  string `json:"url"`
	Name string `json:"name"`
}

type AvailabilityRecord struct {
	Identifier         string           `json:"identifier"`
	Title              string           `json:"title"`
	AuthorName         string           `json:"authorName"`
	YearOfPublication  int              `json:"yearOfPublication"`
	Isbn               string           `json:"isbn"`
	Ean                string           `json:"ean"`
	TypeOfDocument     string           `json:"typeOfDocument"`
	ThumbnailSmallUrl  string           `json:"thumbnailSmallUrl"`
	ThumbnailMediumUrl string           `json:"thumbnailMediumUrl"`
	ThumbnailLargeUrl  string           `json:"thumbnailLargeUrl"`
	Isbn10             string           `json:"isbn10"`
	Libraries          []LibraryHolding `json:"libraries"`
}

type availabilityRecordRef struct {
	RscId   string `json:"RscId"`
	Docbase string `json:"Docbase"`
}

type availabilityRequest struct {
	Record availabilityRecordRef `json:"Record"`
}

type keyValue struct {
	Key   string          `json:"Key"`
	Value json.RawMessage `json:"Value"`
}

type rawHolding struct {
	Cote        string `json:"Cote"`
	HoldingId   string `json:"HoldingId"`
	IsAvailable bool   `json:"IsAvailable"`
	IsLoanable  bool   `json:"IsLoanable"`
	// Other is nil when the holding has no side list, such holdings have no branch.
	Other    []keyValue `json:"Other"`
	Section  string     `json:"Section"`
	Site     string     `json:"Site"`
	Statut   string     `json:"Statut"`
	Type     string     `json:"Type"`
	WhenBack *string    `json:"WhenBack"`
}

// every field is a sequence holding a single value
type rawFieldList struct {
	Identifier            []string `json:"Identifier"`
	Title                 []string `json:"Title"`
	AuthorSort            []string `json:"Author_sort"`
	YearOfPublicationSort []string `json:"YearOfPublication_sort"`
	Isbn                  []string `json:"Isbn"`
	Ean                   []string `json:"Ean"`
	TypeOfDocument        []string `json:"TypeOfDocument"`
	ThumbSmall            []string `json:"ThumbSmall"`
	ThumbMedium           []string `json:"ThumbMedium"`
	ThumbLarge            []string `json:"ThumbLarge"`
	Isbn10                []string `json:"Isbn10"`
}

type holdingsPayload struct {
	Holdings  []rawHolding `json:"Holdings"`
	FieldList rawFieldList `json:"fieldList"`
}

// sideValue returns the value of the first entry with `key`, values that are not
// json strings are returned as their json text.
func sideValue(other []keyValue, key string) (string, bool) {
	for _, kv := range other {
		if kv.Key != key {
			continue
		}
		var value string
		err := json.Unmarshal(kv.Value, &value)
		if err != nil {
			return string(kv.Value), true
		}
		return value, true
	}
	return "", false
}

func parseWhenBack(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	date, err := chrono.ParseCatalogDate(*value)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrMalformedDate, *value, err)
	}
	return &date, nil
}

func cleanHoldings(holdings []rawHolding, tel telemetry.API) ([]LibraryHolding, error) {
	libraries := make([]LibraryHolding, 0, len(holdings))
	for _, h := range holdings {
		if h.Other == nil {
			continue
		}

		name, ok := sideValue(h.Other, sideKeySiteLabel)
		if !ok {
			tel.ReportWarning(report_client_get_book_availability, "holding without side list key", h.HoldingId, sideKeySiteLabel)
		}
		url, ok := sideValue(h.Other, sideKeySiteLabelLink)
		if !ok {
			tel.ReportWarning(report_client_get_book_availability, "holding without side list key", h.HoldingId, sideKeySiteLabelLink)
		}

		whenBack, err := parseWhenBack(h.WhenBack)
		if err != nil {
			return nil, fmt.Errorf("holding %q: %w", h.HoldingId, err)
		}

		libraries = append(libraries, LibraryHolding{
			Cote:        h.Cote,
			HoldingId:   h.HoldingId,
			IsAvailable: h.IsAvailable,
			IsLoanable:  h.IsLoanable,
			Section:     h.Section,
			Site:        h.Site,
			Statut:      h.Statut,
			Type:        h.Type,
			WhenBack:    whenBack,
			Url:         url,
			Name:        name,
		})
	}
	return libraries, nil
}

type fieldReader struct {
	errs []error
}

func (r *fieldReader) first(name string, values []string) string {
	if len(values) == 0 {
		r.errs = append(r.errs, fmt.Errorf("%w: fieldList.%s is empty", ErrMalformedResponse, name))
		return ""
	}
	return values[0]
}

func (r *fieldReader) number(name string, values []string) int {
	value := r.first(name, values)
	if len(values) == 0 {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%w: fieldList.%s %q", ErrMalformedNumber, name, value))
		return 0
	}
	return n
}

func cleanAvailability(payload holdingsPayload, tel telemetry.API) (AvailabilityRecord, error) {
	libraries, err := cleanHoldings(payload.Holdings, tel)
	if err != nil {
		return AvailabilityRecord{}, err
	}

	fields := payload.FieldList
	r := &fieldReader{}
	record := AvailabilityRecord{
		Identifier:         r.first("Identifier", fields.Identifier),
		Title:              r.first("Title", fields.Title),
		AuthorName:         r.first("Author_sort", fields.AuthorSort),
		YearOfPublication:  r.number("YearOfPublication_sort", fields.YearOfPublicationSort),
		Isbn:               r.first("Isbn", fields.Isbn),
		Ean:                r.first("Ean", fields.Ean),
		TypeOfDocument:     r.first("TypeOfDocument", fields.TypeOfDocument),
		ThumbnailSmallUrl:  r.first("ThumbSmall", fields.ThumbSmall),
		ThumbnailMediumUrl: r.first("ThumbMedium", fields.ThumbMedium),
		ThumbnailLargeUrl:  r.first("ThumbLarge", fields.ThumbLarge),
		Isbn10:             r.first("Isbn10", fields.Isbn10),
		Libraries:          libraries,
	}
	if len(r.errs) > 0 {
		return AvailabilityRecord{}, errors.Join(r.errs...)
	}
	return record, nil
}

// GetBookAvailability returns the bibliographic summary of the record `rscId` and every
// branch holding a copy of it. An empty docbase means DefaultDocbase.
func (c *Client) GetBookAvailability(ctx context.Context, rscId, docbase string) (AvailabilityRecord, error) {
	if docbase == "" {
		docbase = DefaultDocbase
	}

	res, err := Call[holdingsPayload](ctx, c, http.MethodPost, holdingsEndpoint, availabilityRequest{
		Record: availabilityRecordRef{
			RscId:   rscId,
			Docbase: docbase,
		},
	})
	if err != nil {
		c.tel.ReportBroken(report_client_get_book_availability, err, rscId, docbase)
		return AvailabilityRecord{}, fmt.Errorf("get book availability: %w", err)
	}

	record, err := cleanAvailability(res.Payload, c.tel)
	if err != nil {
		c.tel.ReportBroken(report_client_get_book_availability, err, rscId, docbase)
		return AvailabilityRecord{}, fmt.Errorf("get book availability: %w", err)
	}
	return record, nil
}
