package screenerin

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/screenhub/internal/screener"
)

// columnFields maps result-table header prefixes to shared record fields.
// Rupee-crore columns are scaled back to absolute INR.
var columnFields = []struct {
	header   string
	field    string
	inCrores bool
}{
	{"CMP", screener.FieldPrice, false},
	{"P/E", screener.FieldPERatio, false},
	{"Mar Cap", screener.FieldMarketCap, true},
	{"Div Yld", screener.FieldDividendYield, false},
	{"ROE", screener.FieldROE, false},
	{"Debt / Eq", screener.FieldDebtToEquity, false},
}

// parseScreenTable extracts records from a raw-query result table.
// Columns are resolved from the header row so column reordering on the
// site does not break parsing. Rows without a company link are skipped.
func parseScreenTable(html string) ([]screener.Record, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	table := doc.Find("table.data-table").First()

	// Column index -> record field, from the header row
	fieldByCol := map[int]struct {
		field    string
		inCrores bool
	}{}
	nameCol := -1

	table.Find("thead th").Each(func(i int, th *goquery.Selection) {
		header := cleanText(th.Text())
		if strings.HasPrefix(header, "Name") {
			nameCol = i
			return
		}
		for _, c := range columnFields {
			if strings.HasPrefix(header, c.header) {
				fieldByCol[i] = struct {
					field    string
					inCrores bool
				}{c.field, c.inCrores}
				return
			}
		}
	})

	var records []screener.Record

	table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if nameCol < 0 || cells.Length() <= nameCol {
			return
		}

		link := cells.Eq(nameCol).Find("a").First()
		href, _ := link.Attr("href")
		ticker := tickerFromHref(href)
		if ticker == "" {
			return
		}

		record := screener.Record{
			screener.FieldTicker: ticker,
			screener.FieldName:   cleanText(link.Text()),
		}

		cells.Each(func(i int, td *goquery.Selection) {
			col, ok := fieldByCol[i]
			if !ok {
				return
			}
			v, ok := parseNumber(td.Text())
			if !ok {
				record[col.field] = nil
				return
			}
			if col.inCrores {
				v = v * 1e7
			}
			record[col.field] = v
		})

		records = append(records, record)
	})

	return records, nil
}

// ratioFields maps company-page ratio labels to shared record fields
var ratioFields = map[string]struct {
	field    string
	inCrores bool
}{
	"Market Cap":     {screener.FieldMarketCap, true},
	"Current Price":  {screener.FieldPrice, false},
	"Stock P/E":      {screener.FieldPERatio, false},
	"Dividend Yield": {screener.FieldDividendYield, false},
	"ROE":            {screener.FieldROE, false},
	"ROCE":           {"roce", false},
	"Book Value":     {"bookValue", false},
	"Face Value":     {"faceValue", false},
}

// parseCompanyPage extracts the name and top-ratio values from a
// company page
func parseCompanyPage(html string) (screener.Record, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	details := screener.Record{}

	if name := cleanText(doc.Find("h1").First().Text()); name != "" {
		details[screener.FieldName] = name
	}

	doc.Find("#top-ratios li").Each(func(_ int, li *goquery.Selection) {
		label := cleanText(li.Find(".name").First().Text())
		mapping, ok := ratioFields[label]
		if !ok {
			return
		}
		v, ok := parseNumber(li.Find(".value").First().Text())
		if !ok {
			return
		}
		if mapping.inCrores {
			v = v * 1e7
		}
		details[mapping.field] = v
	})

	sector := cleanText(doc.Find(".company-profile a[href^='/market/']").First().Text())
	if sector != "" {
		details[screener.FieldSector] = sector
	}

	return details, nil
}

// tickerFromHref extracts a ticker from a /company/TICKER/... link
func tickerFromHref(href string) string {
	parts := strings.Split(strings.Trim(href, "/"), "/")
	if len(parts) >= 2 && parts[0] == "company" {
		return parts[1]
	}
	return ""
}

// parseNumber parses a display value like "₹ 1,23,456.78" or "0.65 %"
func parseNumber(raw string) (float64, bool) {
	cleaned := strings.NewReplacer(",", "", "₹", "", "%", "", "Cr.", "", "Rs.", "").Replace(raw)
	cleaned = cleanText(cleaned)
	if cleaned == "" || cleaned == "--" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// cleanText collapses whitespace runs into single spaces
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
