package board

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	actionTokenPattern = regexp.MustCompile(`getPostingOverview[^}]*action:\s*'([^']+)'`)
	numericID          = regexp.MustCompile(`^\d+$`)
	postingID          = regexp.MustCompile(`^\d{6}$`)
)

const resultRowPrefix = "resultRow_"

// ExtractActionToken finds the getPostingOverview action token in the page's scripts.
// The token must accompany every overview request.
func ExtractActionToken(pageHTML string) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return "", false
	}

	var scripts []string
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		scripts = append(scripts, s.Text())
	})

	m := actionTokenPattern.FindStringSubmatch(strings.Join(scripts, "\n"))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ScrapeJobIDs returns the posting IDs on a listing page in page order, without
// duplicates. It prefers the resultRow_ checkboxes, then the ID column of the results
// table, then any cell holding a six-digit number.
func ScrapeJobIDs(listingHTML string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(listingHTML))
	if err != nil {
		return nil
	}

	ids := newIDSet()
	doc.Find(`input[id^="` + resultRowPrefix + `"]`).Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("id")
		id = strings.TrimPrefix(id, resultRowPrefix)
		if numericID.MatchString(id) {
			ids.add(id)
		}
	})
	if ids.len() > 0 {
		return ids.list()
	}

	// The injected match column shifts the ID column one to the right.
	column := 0
	if doc.Find(`th[data-match-column="true"]`).Length() > 0 {
		column = 1
	}
	rows := doc.Find(".table__row--body")
	scanColumn(rows, column, ids)
	if ids.len() == 0 && column == 0 {
		scanColumn(rows, 1, ids)
	}
	if ids.len() > 0 {
		return ids.list()
	}

	doc.Find("td").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); postingID.MatchString(text) {
			ids.add(text)
		}
	})
	return ids.list()
}

func scanColumn(rows *goquery.Selection, column int, ids *idSet) {
	rows.Each(func(_ int, row *goquery.Selection) {
		text := strings.TrimSpace(row.Find("td").Eq(column).Text())
		if numericID.MatchString(text) {
			ids.add(text)
		}
	})
}

type idSet struct {
	seen  map[string]bool
	order []string
}

func newIDSet() *idSet {
	return &idSet{seen: make(map[string]bool)}
}

func (s *idSet) add(id string) {
	if s.seen[id] {
		return
	}
	s.seen[id] = true
	s.order = append(s.order, id)
}

func (s *idSet) len() int { return len(s.order) }

func (s *idSet) list() []string { return s.order }
