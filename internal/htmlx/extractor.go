package htmlx

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"cexwatch/promoworker/internal/promo"
	"cexwatch/promoworker/pkg/errors"
)

// Extractor pulls promotion records out of exchange campaign pages.
type Extractor struct {
	// Exchange is the lowercase key, e.g. "bybit"
	Exchange string
	// Display is the exchange display name, e.g. "Bybit"
	Display   string
	Selectors SelectorSet
}

// NewExtractor creates an extractor for the given exchange key.
func NewExtractor(exchange, display string) (*Extractor, error) {
	selectors, ok := SelectorsFor(exchange)
	if !ok {
		return nil, errors.NewConfiguration(fmt.Sprintf("no selectors for exchange %q", exchange), nil)
	}
	return &Extractor{
		Exchange:  exchange,
		Display:   display,
		Selectors: selectors,
	}, nil
}

// Extract parses the page and returns one record per promotion
// container that yields at least a title or a link.
func (e *Extractor) Extract(body io.Reader, sourceURL string, source promo.DataSource) ([]promo.PromotionRecord, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, errors.NewDecode(e.Display, "failed to parse HTML", err)
	}

	var records []promo.PromotionRecord
	doc.Find(e.Selectors.Container).Each(func(_ int, s *goquery.Selection) {
		if rec := e.extractContainer(s, sourceURL, source); rec != nil {
			records = append(records, *rec)
		}
	})

	return records, nil
}

func (e *Extractor) extractContainer(s *goquery.Selection, sourceURL string, source promo.DataSource) *promo.PromotionRecord {
	rec := &promo.PromotionRecord{
		Exchange:   e.Display,
		DataSource: source,
	}

	rec.Title = selectText(s, e.Selectors.Title)
	rec.Description = selectText(s, e.Selectors.Description)
	rec.Link = e.extractLink(s, sourceURL)
	rec.StartTime = selectText(s, e.Selectors.Time)
	rec.TotalPrizePool = selectText(s, e.Selectors.Prize)
	rec.AwardToken = selectText(s, e.Selectors.Token)
	rec.ParticipantsCount = selectText(s, e.Selectors.Participants)

	if e.Selectors.Image != "" {
		if img := s.Find(e.Selectors.Image).First(); img.Length() > 0 {
			if src, ok := img.Attr("src"); ok {
				rec.Icon = strings.TrimSpace(src)
			}
		}
	}

	// A container without title and link is navigation chrome, not a
	// promotion
	if rec.Title == "" && rec.Link == "" {
		return nil
	}
	if rec.Title == "" && rec.Description == "" {
		return nil
	}

	rec.PromoID = HTMLPromoID(e.Exchange, rec.Title, rec.Link)

	// HTML records have no source JSON; keep the raw selector hits as
	// the audit object instead
	raw := make(map[string]interface{})
	for key, value := range map[string]string{
		"title":        rec.Title,
		"description":  rec.Description,
		"link":         rec.Link,
		"time":         rec.StartTime,
		"prize":        rec.TotalPrizePool,
		"token":        rec.AwardToken,
		"participants": rec.ParticipantsCount,
		"icon":         rec.Icon,
	} {
		if value != "" {
			raw[key] = value
		}
	}
	rec.RawData = raw

	return rec
}

// extractLink resolves the promotion link, honoring the "self"
// convention where the container itself is the anchor.
func (e *Extractor) extractLink(s *goquery.Selection, sourceURL string) string {
	var href string

	if e.Selectors.Link == "self" {
		if goquery.NodeName(s) == "a" {
			href, _ = s.Attr("href")
		}
	} else if e.Selectors.Link != "" {
		if link := s.Find(e.Selectors.Link).First(); link.Length() > 0 {
			href, _ = link.Attr("href")
		}
	}

	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	return resolveHref(href, sourceURL)
}

// resolveHref joins root-relative hrefs onto the page origin.
func resolveHref(href, sourceURL string) string {
	if !strings.HasPrefix(href, "/") {
		return href
	}
	parts := strings.SplitN(sourceURL, "/", 4)
	if len(parts) < 3 {
		return href
	}
	return strings.Join(parts[:3], "/") + href
}

// HTMLPromoID builds the stable id used for HTML-sourced records.
func HTMLPromoID(exchange, title, link string) string {
	stableKey := fmt.Sprintf("%s_%s_%s", exchange, title, link)
	return fmt.Sprintf("%s_html_%s", exchange, promo.ContentHash(stableKey))
}

func selectText(s *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	sel := s.Find(selector).First()
	if sel.Length() == 0 {
		return ""
	}
	return strings.TrimSpace(sel.Text())
}
