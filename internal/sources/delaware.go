package sources

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/projectchronos/chronos/internal/models"
)

// DelawareSource parses a saved Delaware Secretary-of-State results page.
// The live site sits behind a captcha, so this source works from a static
// HTML snapshot whose result rows look like:
//
//	<tr><td>Foo LLC</td><td>1234567</td><td>2024/01/01</td><td>Active</td></tr>
type DelawareSource struct {
	path   string
	logger *slog.Logger
}

// NewDelawareSource creates a source reading from the snapshot at path.
func NewDelawareSource(path string, logger *slog.Logger) *DelawareSource {
	return &DelawareSource{path: path, logger: logger}
}

// Search returns entities from rows whose text contains name,
// case-insensitively.
func (d *DelawareSource) Search(ctx context.Context, name, state string) ([]*models.CorporateEntity, error) {
	if state != "" && !strings.EqualFold(state, "DE") {
		return nil, nil
	}

	e, err := d.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, nil
	}
	return []*models.CorporateEntity{e}, nil
}

// Fetch returns the first matching entity in the snapshot, or nil when no
// row matches.
func (d *DelawareSource) Fetch(_ context.Context, name string) (*models.CorporateEntity, error) {
	f, err := os.Open(d.path)
	if err != nil {
		return nil, fmt.Errorf("opening delaware snapshot %s: %w", d.path, err)
	}
	defer f.Close()

	doc, err := html.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing delaware snapshot: %w", err)
	}

	needle := normalizeSpace(name)
	for _, cells := range tableRows(doc) {
		if !strings.Contains(normalizeSpace(strings.Join(cells, " ")), needle) {
			continue
		}
		return d.rowToEntity(cells)
	}

	d.logger.Debug("no delaware row matched", "query", name)
	return nil, nil
}

// rowToEntity maps a result row's cells, expected in the order
// [name, file number, formed, status].
func (d *DelawareSource) rowToEntity(cells []string) (*models.CorporateEntity, error) {
	if len(cells) == 0 || cells[0] == "" {
		return nil, fmt.Errorf("delaware row has no entity name")
	}

	formed := time.Now().UTC().Truncate(24 * time.Hour)
	if len(cells) > 2 {
		if parsed, err := time.Parse("2006-01-02", strings.ReplaceAll(cells[2], "/", "-")); err == nil {
			formed = parsed
		}
	}

	status := models.StatusDelinquent
	if len(cells) > 3 && strings.Contains(strings.ToLower(cells[3]), "active") {
		status = models.StatusActive
	}

	return &models.CorporateEntity{
		Name:         cells[0],
		Jurisdiction: "DE",
		Formed:       formed,
		Status:       status,
	}, nil
}

// tableRows walks the parsed document and returns each <tr>'s cell texts.
func tableRows(doc *html.Node) [][]string {
	var rows [][]string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			var cells []string
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
					cells = append(cells, strings.TrimSpace(nodeText(c)))
				}
			}
			if len(cells) > 0 {
				rows = append(rows, cells)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return rows
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
