// Package scraper turns the rendered World Bank debarred-firms page into
// records. It knows the page layout; fetching and rendering live elsewhere.
package scraper

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"debarment_service/internal/models"
)

const (
	TargetURL = "https://projects.worldbank.org/en/projects-operations/procurement/debarred-firms"

	ContainerID = "k-debarred-firms"

	// first data cell, present only once the client-side grid has rendered
	ResultCellSelector = "#" + ContainerID + " tbody tr td"

	columns = 7
)

type Result struct {
	// false when the page has no results container at all
	Found bool
	Firms []models.DebarredFirm
}

// ParseDebarredFirms keeps the 7-cell rows whose firm name contains query,
// compared case-insensitively, in document order.
func ParseDebarredFirms(r io.Reader, query string) (Result, error) {
	const op = "scraper.ParseDebarredFirms"

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}

	container := doc.Find("div#" + ContainerID).First()
	if container.Length() == 0 {
		return Result{Found: false, Firms: []models.DebarredFirm{}}, nil
	}

	needle := strings.ToLower(query)
	firms := []models.DebarredFirm{}

	container.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() != columns {
			return
		}

		text := cells.Map(func(_ int, cell *goquery.Selection) string {
			return strings.TrimSpace(cell.Text())
		})

		if !strings.Contains(strings.ToLower(text[0]), needle) {
			return
		}

		firms = append(firms, models.DebarredFirm{
			FirmName:       text[0],
			AdditionalInfo: text[1],
			Address:        text[2],
			Country:        text[3],
			From:           text[4],
			To:             text[5],
			Grounds:        text[6],
		})
	})

	return Result{Found: true, Firms: firms}, nil
}
