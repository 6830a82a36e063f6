package commands

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"parislib/cmd/parislib-cli/globals"
	"parislib/lib/htmlutil"
	"parislib/lib/textutil"
	"parislib/pkg/catalog"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var errNoAuthor = errors.New("no author matches the query")

type lookupOptions struct {
	// Books is the maximum number of books to look up availability for.
	Books       int
	Concurrency int
	// Addresses fetches the address of every library with a copy on the shelf.
	Addresses bool
}

type lookupBook struct {
	Book         catalog.BookItem            `json:"book"`
	Availability *catalog.AvailabilityRecord `json:"availability,omitempty"`
	Error        string                      `json:"error,omitempty"`
}

type lookupResult struct {
	Author catalog.Author `json:"author"`
	Books  []lookupBook   `json:"books"`
	// Addresses maps a library page url to its address.
	Addresses map[string]string `json:"addresses,omitempty"`
}

// lookup chains author search, book search and availability for the author closest to `query`.
// A failed availability lookup is kept on its book instead of failing the whole lookup.
func lookup(ctx context.Context, client *catalog.Client, query string, opts lookupOptions) (lookupResult, error) {
	authors, err := client.SearchAuthors(ctx, query)
	if err != nil {
		return lookupResult{}, err
	}
	labels := make([]string, len(authors))
	for i, a := range authors {
		labels[i] = a.Label
	}
	best := textutil.BestMatch(query, labels)
	if best < 0 {
		return lookupResult{}, fmt.Errorf("%w: %q", errNoAuthor, query)
	}
	result := lookupResult{Author: authors[best]}

	books, err := client.SearchBooksFromAuthor(ctx, result.Author.Id)
	if err != nil {
		return lookupResult{}, err
	}
	found := books.Results
	if opts.Books > 0 && len(found) > opts.Books {
		found = found[:opts.Books]
	}

	result.Books = make([]lookupBook, len(found))
	group := new(errgroup.Group)
	group.SetLimit(max(opts.Concurrency, 1))
	for i, book := range found {
		result.Books[i].Book = book
		group.Go(func() error {
			record, err := client.GetBookAvailability(ctx, book.RscId, book.Docbase)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err != nil {
				result.Books[i].Error = err.Error()
				return nil
			}
			result.Books[i].Availability = &record
			return nil
		})
	}
	err = group.Wait()
	if err != nil {
		return lookupResult{}, err
	}

	if opts.Addresses {
		result.Addresses, err = lookupAddresses(ctx, client, result.Books, opts.Concurrency)
		if err != nil {
			return lookupResult{}, err
		}
	}
	return result, nil
}

func lookupAddresses(ctx context.Context, client *catalog.Client, books []lookupBook, concurrency int) (map[string]string, error) {
	var urls []string
	for _, b := range books {
		if b.Availability == nil {
			continue
		}
		for _, l := range b.Availability.Libraries {
			if l.IsAvailable && l.Url != "" && !slices.Contains(urls, l.Url) {
				urls = append(urls, l.Url)
			}
		}
	}

	addresses := make([]string, len(urls))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(max(concurrency, 1))
	for i, url := range urls {
		group.Go(func() error {
			address, found, err := client.GetLibraryAddress(groupCtx, url)
			if err != nil {
				return err
			}
			if found {
				addresses[i] = htmlutil.CollapseWhitespace(address)
			}
			return nil
		})
	}
	err := group.Wait()
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(urls))
	for i, url := range urls {
		if addresses[i] != "" {
			out[url] = addresses[i]
		}
	}
	return out, nil
}

var lookupOpts lookupOptions

func init() {
	lookupCmd.Flags().IntVar(&lookupOpts.Books, "books", 5, "Maximum number of books to check availability for.")
	lookupCmd.Flags().IntVar(&lookupOpts.Concurrency, "concurrency", 4, "Maximum number of concurrent availability requests.")
	lookupCmd.Flags().BoolVar(&lookupOpts.Addresses, "addresses", false, "Also fetch the address of the libraries with a copy on the shelf.")
	rootCmd.AddCommand(lookupCmd)
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <author name>",
	Short: "Finds the closest matching author and shows where their books can be borrowed.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g := globals.Get(cmd.Context())

		result, err := lookup(cmd.Context(), g.Client, args[0], lookupOpts)
		if err != nil {
			return err
		}
		if g.Json {
			return printJson(cmd, result)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (%s)\n", result.Author.Label, result.Author.Id)
		for _, b := range result.Books {
			fmt.Fprintf(out, "\n%s, %s\n", b.Book.Title, b.Book.Publisher)
			if b.Error != "" {
				fmt.Fprintf(out, "  availability unknown: %s\n", b.Error)
				continue
			}
			renderHoldings(cmd, g, b.Availability.Libraries)
		}
		if len(result.Addresses) > 0 {
			fmt.Fprintln(out)
			t := newTable(cmd)
			t.AppendHeader(table.Row{"Library page", "Address"})
			for url, address := range result.Addresses {
				t.AppendRow(table.Row{url, address})
			}
			t.SortBy([]table.SortBy{{Number: 1}})
			t.Render()
		}
		return nil
	},
}
