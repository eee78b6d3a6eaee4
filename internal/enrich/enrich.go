// Package enrich fills in missing resource titles by fetching the
// linked pages. Enrichment is strictly best-effort: failures are
// logged and never fail a generation.
package enrich

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bhaveshbalendra/Inagiffy/internal/resilient"
	"github.com/bhaveshbalendra/Inagiffy/internal/types"
)

// DefaultTimeout is the per-request HTTP timeout.
const DefaultTimeout = 10 * time.Second

// DefaultUserAgent identifies enrichment requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; Inagiffy/1.0)"

// maxConcurrent bounds parallel page fetches per map.
const maxConcurrent = 4

// Enricher fetches resource pages and extracts their titles.
type Enricher struct {
	httpClient *http.Client
	retry      *resilient.Client
	logger     *zap.Logger
}

// New constructs an Enricher. Page fetches go through the generic
// retry profile so a transient upstream hiccup does not lose a title.
func New(logger *zap.Logger) *Enricher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		retry:      resilient.NewClient(resilient.GenericProfile(), logger.Named("enrich")),
		logger:     logger,
	}
}

// FillTitles walks the map and fills in titles for resources that lack
// one. Fetches run concurrently, bounded by maxConcurrent. The map is
// mutated in place; the method never fails.
func (e *Enricher) FillTitles(ctx context.Context, m *types.LearningMap) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)

	var walk func(subs []types.SubTopic)
	walk = func(subs []types.SubTopic) {
		for i := range subs {
			for j := range subs[i].Resources {
				res := &subs[i].Resources[j]
				if strings.TrimSpace(res.Title) != "" || !fetchable(res.URL) {
					continue
				}
				g.Go(func() error {
					title, err := e.fetchTitle(ctx, res.URL)
					if err != nil {
						e.logger.Debug("resource title fetch failed",
							zap.String("url", res.URL),
							zap.Error(err),
						)
						return nil
					}
					res.Title = title
					return nil
				})
			}
			walk(subs[i].SubTopics)
		}
	}

	for i := range m.Branches {
		walk(m.Branches[i].SubTopics)
	}

	// Workers only ever return nil; Wait is for completion.
	_ = g.Wait()
}

// fetchTitle retrieves a page and extracts its display title.
func (e *Enricher) fetchTitle(ctx context.Context, pageURL string) (string, error) {
	html, err := resilient.Execute(ctx, e.retry, func(ctx context.Context) (string, error) {
		return e.fetchPage(ctx, pageURL)
	})
	if err != nil {
		return "", err
	}
	return extractTitle(html)
}

// fetchPage performs a single GET, returning the body on 200 and an
// HTTPError envelope on any other status so the retry policy can
// classify it.
func (e *Enricher) fetchPage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", DefaultUserAgent)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &resilient.HTTPError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	return string(body), nil
}

// extractTitle pulls og:title or <title> from an HTML page.
func extractTitle(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		if og = strings.TrimSpace(og); og != "" {
			return og, nil
		}
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		return "", fmt.Errorf("page has no title")
	}
	return title, nil
}

// fetchable reports whether a resource URL is worth fetching.
func fetchable(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
