package chrono

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseCatalogDate(t *testing.T) {
	cases := []struct {
		input    string
		expected time.Time
		fails    bool
	}{
		{input: "25/12/2024", expected: time.Date(2024, time.December, 25, 0, 0, 0, 0, Paris())},
		{input: "01/02/2025", expected: time.Date(2025, time.February, 1, 0, 0, 0, 0, Paris())},
		{input: "29/02/2024", expected: time.Date(2024, time.February, 29, 0, 0, 0, 0, Paris())},
		{input: "5/12/2024", fails: true},
		{input: "25/12/24", fails: true},
		{input: "2024-12-25", fails: true},
		{input: "12/25/2024", fails: true},
		{input: "29/02/2023", fails: true},
		{input: "25/12/2024 10:00", fails: true},
		{input: "", fails: true},
	}

	for _, test := range cases {
		date, err := ParseCatalogDate(test.input)
		if test.fails {
			require.Error(t, err, test.input)
			continue
		}
		require.NoError(t, err, test.input)
		require.True(t, test.expected.Equal(date), "%s: got %s", test.input, date)
		require.Equal(t, Paris(), date.Location())
	}
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2024, time.December, 20, 23, 30, 0, 0, Paris())

	cases := []struct {
		date     time.Time
		expected int
	}{
		{date: time.Date(2024, time.December, 25, 0, 0, 0, 0, Paris()), expected: 5},
		{date: time.Date(2024, time.December, 20, 0, 0, 0, 0, Paris()), expected: 0},
		{date: time.Date(2024, time.December, 18, 0, 0, 0, 0, Paris()), expected: -2},
		// crosses a daylight saving time change
		{date: time.Date(2025, time.April, 1, 0, 0, 0, 0, Paris()), expected: 102},
	}

	for _, test := range cases {
		require.Equal(t, test.expected, DaysUntil(now, test.date), test.date.String())
	}
}

func FuzzParseCatalogDate(f *testing.F) {
	for _, seed := range []string{"25/12/2024", "5/12/2024", "31/04/2024", "", "00/00/0000", "25/12/2024 10:00"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, value string) {
		date, err := ParseCatalogDate(value)
		if err != nil {
			return
		}
		if len(value) != len(CatalogDateLayout) || value[2] != '/' || value[5] != '/' {
			t.Fatalf("accepted %q which is not dd/mm/yyyy", value)
		}
		if date.Hour() != 0 || date.Minute() != 0 || date.Location() != Paris() {
			t.Fatalf("%q parsed to %s, expected midnight in Europe/Paris", value, date)
		}
	})
}
