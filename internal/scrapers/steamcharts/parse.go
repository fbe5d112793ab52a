package steamcharts

import (
	"fmt"
	"io"
	"math"
	"steamcrawl/internal/components/chrono"
	"steamcrawl/lib/htmlutil"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// MonthRow is one row of the monthly player table. Numeric fields are nil
// when the page shows no value.
type MonthRow struct {
	// Month is formatted YYYY-MM.
	Month       string
	AvgPlayers  *float64
	Gain        *float64
	PercentGain *float64
	PeakPlayers *float64
}

const (
	currentMonthLabel = "last 30 days"
	monthLayout       = "January 2006"
	minCells          = 5
)

// ParseMonthlyRows reads the player table out of an app page. The row for
// the last 30 days is labelled with the month of now.
func ParseMonthlyRows(r io.Reader, now time.Time) ([]MonthRow, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	table := doc.Find("table.common-table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("%w: player table not found", ErrMalformedResponse)
	}

	var out []MonthRow
	var parseErr error
	table.Find("tbody tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		cells := htmlutil.CellTexts(tr.Find("td"))
		if len(cells) < minCells {
			return true
		}

		month, err := parseMonth(cells[0], now)
		if err != nil {
			parseErr = err
			return false
		}
		out = append(out, MonthRow{
			Month:       month,
			AvgPlayers:  CleanNumber(cells[1]),
			Gain:        CleanNumber(cells[2]),
			PercentGain: CleanNumber(cells[3]),
			PeakPlayers: CleanNumber(cells[4]),
		})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return out, nil
}

func parseMonth(text string, now time.Time) (string, error) {
	if strings.EqualFold(text, currentMonthLabel) {
		return chrono.Period(now), nil
	}
	t, err := time.Parse(monthLayout, text)
	if err != nil {
		return "", fmt.Errorf("%w: month %q", ErrMalformedResponse, text)
	}
	return t.Format(chrono.PeriodLayout), nil
}

var numberNoise = strings.NewReplacer(",", "", "+", "", "%", "")

// CleanNumber strips thousands separators, signs of gain and percent signs.
// A dash or anything else that is not a number yields nil.
func CleanNumber(text string) *float64 {
	text = strings.TrimSpace(numberNoise.Replace(text))
	if text == "" || text == "-" {
		return nil
	}
	n, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return nil
	}
	return &n
}
