package chrono

import (
	"time"
	_ "time/tzdata"
)

var paris *time.Location

func init() {
	var err error
	paris, err = time.LoadLocation("Europe/Paris")
	if err != nil {
		panic(err)
	}
}

// Paris returns a [*time.Location] for Europe/Paris, the timezone the catalog reports dates in.
func Paris() *time.Location {
	return paris
}

// CatalogDateLayout is the day/month/year layout the catalog uses for return dates (ex. 25/12/2024).
const CatalogDateLayout = "02/01/2006"

// ParseCatalogDate parses a strict dd/mm/yyyy date into midnight of that day in Europe/Paris.
// Single digit days or months, two digit years and trailing text are rejected.
func ParseCatalogDate(value string) (time.Time, error) {
	return time.ParseInLocation(CatalogDateLayout, value, paris)
}

// TimeAPI is the interface that anything depending on the system clock should use.
type TimeAPI interface {
	// Now returns the current time in Europe/Paris.
	Now() time.Time
}

// StandardTime is the standard implementation of TimeAPI using the standard library.
type StandardTime struct{}

// NewStandardTime is the constructor of StandardTime.
func NewStandardTime() StandardTime {
	return StandardTime{}
}

func (StandardTime) Now() time.Time {
	return time.Now().In(paris)
}

// DaysUntil returns the number of calendar days from `now` until `date`, both taken in Europe/Paris.
// It is negative when `date` is in the past.
func DaysUntil(now, date time.Time) int {
	y, m, d := now.In(paris).Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	y, m, d = date.In(paris).Date()
	to := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}
