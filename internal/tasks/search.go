package tasks

import "github.com/uniworld/cli/internal/models"

// SearchPager caches the current search result set and reveals it in
// cumulative pages. Unlike [Pager], which re-slices a fixed catalog
// window, the search pager appends: NextPage returns only the newly
// revealed results and Shown keeps the running set.
type SearchPager struct {
	results []models.Program
	shown   int
	page    int
}

// NewSearchPager caches a result set with nothing revealed yet.
func NewSearchPager(results []models.Program) *SearchPager {
	return &SearchPager{results: results}
}

// NextPage reveals the next page and returns the newly revealed
// results. Past the end it returns nil.
func (p *SearchPager) NextPage() []models.Program {
	if p.shown >= len(p.results) {
		return nil
	}

	next := min(p.shown+PageSize, len(p.results))
	revealed := p.results[p.shown:next]
	p.shown = next
	p.page++
	return revealed
}

// Shown returns the cumulative revealed results.
func (p *SearchPager) Shown() []models.Program {
	return p.results[:p.shown]
}

// Page returns the running page counter.
func (p *SearchPager) Page() int { return p.page }

// Total returns the size of the cached result set.
func (p *SearchPager) Total() int { return len(p.results) }

// HasMore reports whether another page can be revealed.
func (p *SearchPager) HasMore() bool { return p.shown < len(p.results) }
