package tasks

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/uniworld/cli/internal/models"
	"github.com/uniworld/cli/internal/services"
	"github.com/uniworld/cli/internal/shared"
)

// EndpointError records a catalog endpoint that failed to load.
type EndpointError struct {
	Endpoint string
	Err      error
}

// Catalog is the loaded reference data the discovery views render from.
// Errors lists endpoints that failed; the rest of the data is usable.
type Catalog struct {
	Universities  []models.University
	Programs      []models.Program
	Countries     []string
	FieldsOfStudy []string
	Errors        []EndpointError
}

// UniversityNames returns the sorted university names for filter lists.
func (c *Catalog) UniversityNames() []string {
	names := make([]string, 0, len(c.Universities))
	for _, u := range c.Universities {
		names = append(names, u.Name)
	}
	sort.Strings(names)
	return names
}

// ProgramByID finds a program in the loaded catalog.
func (c *Catalog) ProgramByID(id int) (models.Program, bool) {
	for _, p := range c.Programs {
		if p.ID == id {
			return p, true
		}
	}
	return models.Program{}, false
}

// CatalogEngine loads the catalog and tracks the paging state of the
// discovery views.
type CatalogEngine struct {
	catalog services.Catalog
}

// NewCatalogEngine creates a CatalogEngine over the catalog service.
func NewCatalogEngine(catalog services.Catalog) *CatalogEngine {
	return &CatalogEngine{catalog: catalog}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// LoadAll fetches all four catalog endpoints concurrently and waits for
// every fetch to settle. A failed filter endpoint is recorded in the
// result and does not abort the load; a failed program fetch does, since
// nothing can render without programs.
func (e *CatalogEngine) LoadAll(ctx context.Context, progress chan<- ProgressUpdate) (*Catalog, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog service not initialized", shared.ErrServiceUnavailable)
	}

	result := &Catalog{}

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		programErr error
	)

	fetch := func(phase Phase, name string, load func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sendProgress(progress, fetchEndpointUpdate(phase, name, 1, 4))
			if err := load(); err != nil {
				mu.Lock()
				result.Errors = append(result.Errors, EndpointError{Endpoint: name, Err: err})
				mu.Unlock()
			}
		}()
	}

	fetch(FetchUniversities, "universities", func() error {
		universities, err := e.catalog.Universities(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		result.Universities = universities
		mu.Unlock()
		return nil
	})

	fetch(FetchPrograms, "programs", func() error {
		programs, err := e.catalog.Programs(ctx)
		if err != nil {
			mu.Lock()
			programErr = err
			mu.Unlock()
			return err
		}
		mu.Lock()
		result.Programs = programs
		mu.Unlock()
		return nil
	})

	fetch(FetchCountries, "countries", func() error {
		countries, err := e.catalog.Countries(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		result.Countries = countries
		mu.Unlock()
		return nil
	})

	fetch(FetchFields, "fields of study", func() error {
		fields, err := e.catalog.FieldsOfStudy(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		result.FieldsOfStudy = fields
		mu.Unlock()
		return nil
	})

	wg.Wait()

	if programErr != nil {
		return result, fmt.Errorf("%w: failed to load programs: %v", shared.ErrAPIRequest, programErr)
	}

	return result, nil
}

// PageSize is how many programs a view reveals per step.
const PageSize = 10

// Pager tracks a cumulative reveal over a list of items. Advancing
// shows one more chunk; the already revealed items stay visible.
type Pager struct {
	total int
	shown int
}

// NewPager creates a pager over total items with the first chunk shown.
func NewPager(total int) *Pager {
	p := &Pager{}
	p.Reset(total)
	return p
}

// Reset rebinds the pager to a new item count and shows the first chunk.
func (p *Pager) Reset(total int) {
	if total < 0 {
		total = 0
	}
	p.total = total
	p.shown = min(PageSize, total)
}

// Shown returns how many items are currently revealed.
func (p *Pager) Shown() int { return p.shown }

// Total returns the item count the pager covers.
func (p *Pager) Total() int { return p.total }

// HasMore reports whether another chunk can be revealed.
func (p *Pager) HasMore() bool { return p.shown < p.total }

// Advance reveals the next chunk and returns how many items are now
// shown. Advancing past the end is a no-op.
func (p *Pager) Advance() int {
	p.shown = min(p.shown+PageSize, p.total)
	return p.shown
}

// Selection tracks which programs are marked for a bulk send. Order of
// selection is preserved.
type Selection struct {
	order []int
	set   map[int]bool
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{set: make(map[int]bool)}
}

// Toggle flips one program's selected state and reports the new state.
func (s *Selection) Toggle(programID int) bool {
	if s.set[programID] {
		delete(s.set, programID)
		for i, id := range s.order {
			if id == programID {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
		return false
	}

	s.set[programID] = true
	s.order = append(s.order, programID)
	return true
}

// SelectAll marks every given program, keeping prior selections.
func (s *Selection) SelectAll(programIDs []int) {
	for _, id := range programIDs {
		if !s.set[id] {
			s.set[id] = true
			s.order = append(s.order, id)
		}
	}
}

// Clear unselects everything.
func (s *Selection) Clear() {
	s.order = nil
	s.set = make(map[int]bool)
}

// Has reports whether a program is selected.
func (s *Selection) Has(programID int) bool { return s.set[programID] }

// Count returns how many programs are selected.
func (s *Selection) Count() int { return len(s.order) }

// IDs returns the selected program IDs in selection order.
func (s *Selection) IDs() []int {
	ids := make([]int, len(s.order))
	copy(ids, s.order)
	return ids
}
