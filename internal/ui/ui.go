package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/uniworld/cli/internal/models"
	"github.com/uniworld/cli/internal/services"
	"github.com/uniworld/cli/internal/shared"
	"github.com/uniworld/cli/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ProgramListView ViewState = iota
	DetailView
	FavoritesView
	ConfirmView
	SendView
	ResultView
)

// FavoriteStore is the favorite persistence surface the TUI needs.
type FavoriteStore interface {
	tasks.FavoriteStore
	All() ([]*models.Favorite, error)
}

// Draft is the subject and body used for a bulk send started from the
// TUI. Callers prefill it from a template or flags.
type Draft struct {
	Subject string
	Body    string
}

// ModelOpts bundles the Model dependencies.
type ModelOpts struct {
	Catalog   *tasks.CatalogEngine
	Programs  services.Catalog
	Outreach  *tasks.OutreachEngine
	Favorites FavoriteStore
	Draft     Draft
}

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	view      ViewState
	engine    *tasks.CatalogEngine
	programs  services.Catalog
	outreach  *tasks.OutreachEngine
	favorites FavoriteStore
	draft     Draft

	width  int
	height int

	catalog      *tasks.Catalog
	pager        *tasks.Pager
	selection    *tasks.Selection
	favoriteIDs  map[int]bool
	programList  list.Model
	favoriteList list.Model

	detail       models.Program
	coordinators []models.Coordinator

	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	sendResult   *tasks.BulkSendResult
	sendErr      error

	err  error
	help help.Model
	keys keyMap
}

type catalogLoadedMsg struct {
	catalog *tasks.Catalog
	err     error
}

type coordinatorsFetchedMsg struct {
	program      models.Program
	coordinators []models.Coordinator
	err          error
}

type favoritesLoadedMsg struct {
	favorites []*models.Favorite
	err       error
}

type favoriteToggledMsg struct {
	programID int
	favorited bool
	err       error
}

type progressUpdateMsg tasks.ProgressUpdate

type sendCompleteMsg struct {
	result *tasks.BulkSendResult
	err    error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, opts ModelOpts) *Model {
	return &Model{
		ctx:         ctx,
		view:        ProgramListView,
		engine:      opts.Catalog,
		programs:    opts.Programs,
		outreach:    opts.Outreach,
		favorites:   opts.Favorites,
		draft:       opts.Draft,
		selection:   tasks.NewSelection(),
		favoriteIDs: map[int]bool{},
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

// Init initializes the TUI by loading the program catalog.
func (m *Model) Init() tea.Cmd {
	return m.loadCatalog()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.programList.Width() == 0 {
			m.programList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.favoriteList.Width() == 0 {
			m.favoriteList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ProgramListView:
			return m.handleProgramListKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		case FavoritesView:
			return m.handleFavoritesKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case catalogLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.catalog = msg.catalog
		m.pager = tasks.NewPager(len(msg.catalog.Programs))
		m.rebuildProgramList()
		return m, nil

	case coordinatorsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = ProgramListView
			return m, nil
		}
		m.detail = msg.program
		m.coordinators = msg.coordinators
		m.view = DetailView
		return m, nil

	case favoritesLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		items := make([]list.Item, len(msg.favorites))
		for i, favorite := range msg.favorites {
			items[i] = favoriteItem{favorite: favorite}
		}
		m.favoriteList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.favoriteList.Title = "Favorite Programs"
		m.favoriteList.SetSize(m.width-4, m.height-8)
		m.view = FavoritesView
		return m, nil

	case favoriteToggledMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.favoriteIDs[msg.programID] = msg.favorited
		m.rebuildProgramList()
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case sendCompleteMsg:
		m.sendResult = msg.result
		m.sendErr = msg.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view == ProgramListView && m.catalog == nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case ProgramListView:
		return m.renderProgramList()
	case DetailView:
		return m.renderDetail()
	case FavoritesView:
		return m.renderFavorites()
	case ConfirmView:
		return m.renderConfirm()
	case SendView:
		return m.renderSend()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleProgramListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Only quit is available until the catalog load finishes.
	if m.catalog == nil {
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	// Let the list's filter input consume keys while active.
	if m.programList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.programList, cmd = m.programList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.enter):
		if item, ok := m.programList.SelectedItem().(programItem); ok {
			return m, m.fetchCoordinators(item.program)
		}

	case key.Matches(msg, m.keys.favorite):
		if item, ok := m.programList.SelectedItem().(programItem); ok {
			return m, m.toggleFavorite(item.program)
		}

	case key.Matches(msg, m.keys.selectKey):
		if item, ok := m.programList.SelectedItem().(programItem); ok {
			m.selection.Toggle(item.program.ID)
			m.rebuildProgramList()
		}
		return m, nil

	case key.Matches(msg, m.keys.selectAll):
		ids := make([]int, 0, m.pager.Shown())
		for _, program := range m.catalog.Programs[:m.pager.Shown()] {
			ids = append(ids, program.ID)
		}
		m.selection.SelectAll(ids)
		m.rebuildProgramList()
		return m, nil

	case key.Matches(msg, m.keys.more):
		if m.pager.HasMore() {
			m.pager.Advance()
			m.rebuildProgramList()
		}
		return m, nil

	case key.Matches(msg, m.keys.favs):
		return m, m.loadFavorites()

	case key.Matches(msg, m.keys.send):
		if m.selection.Count() > 0 {
			m.view = ConfirmView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.programList, cmd = m.programList.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = ProgramListView
		return m, nil
	case key.Matches(msg, m.keys.favorite):
		return m, m.toggleFavorite(m.detail)
	case key.Matches(msg, m.keys.selectKey):
		m.selection.Toggle(m.detail.ID)
		m.rebuildProgramList()
		return m, nil
	}
	return m, nil
}

func (m *Model) handleFavoritesKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = ProgramListView
		return m, nil
	}

	var cmd tea.Cmd
	m.favoriteList, cmd = m.favoriteList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back):
		m.view = ProgramListView
		return m, nil
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.yes):
		m.view = SendView
		return m, m.startSend()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.restart):
		if m.sendErr == nil {
			m.selection.Clear()
		}
		m.view = ProgramListView
		m.sendResult = nil
		m.sendErr = nil
		m.err = nil
		m.rebuildProgramList()
		return m, nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ProgramListView:
		if m.catalog == nil {
			return m, nil
		}
		m.programList, cmd = m.programList.Update(msg)
	case FavoritesView:
		m.favoriteList, cmd = m.favoriteList.Update(msg)
	}
	return m, cmd
}

// rebuildProgramList rebuilds the visible window of the program list,
// preserving the cursor where possible.
func (m *Model) rebuildProgramList() {
	if m.catalog == nil {
		return
	}

	shown := m.catalog.Programs[:m.pager.Shown()]
	items := make([]list.Item, len(shown))
	for i, program := range shown {
		items[i] = programItem{
			program:   program,
			favorited: m.favoriteIDs[program.ID],
			selected:  m.selection.Has(program.ID),
		}
	}

	index := m.programList.Index()
	m.programList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.programList.Title = fmt.Sprintf("Programs (%d of %d)", m.pager.Shown(), m.pager.Total())
	m.programList.SetSize(m.width-4, m.height-8)
	if index < len(items) {
		m.programList.Select(index)
	}
}

func (m *Model) loadCatalog() tea.Cmd {
	return func() tea.Msg {
		catalog, err := m.engine.LoadAll(m.ctx, nil)
		return catalogLoadedMsg{catalog: catalog, err: err}
	}
}

func (m *Model) fetchCoordinators(program models.Program) tea.Cmd {
	return func() tea.Msg {
		coordinators, err := m.programs.Coordinators(m.ctx, program.ProgramID)
		return coordinatorsFetchedMsg{program: program, coordinators: coordinators, err: err}
	}
}

func (m *Model) loadFavorites() tea.Cmd {
	return func() tea.Msg {
		favorites, err := m.favorites.All()
		return favoritesLoadedMsg{favorites: favorites, err: err}
	}
}

func (m *Model) toggleFavorite(program models.Program) tea.Cmd {
	return func() tea.Msg {
		favorited, err := tasks.ToggleFavorite(m.favorites, program)
		return favoriteToggledMsg{programID: program.ID, favorited: favorited, err: err}
	}
}

// selectedPrograms maps the selected client ids back to the loaded
// catalog entries, so the send path carries each program's server-side
// key rather than its list id.
func (m *Model) selectedPrograms() []models.Program {
	if m.catalog == nil {
		return nil
	}

	selected := make([]models.Program, 0, m.selection.Count())
	for _, program := range m.catalog.Programs {
		if m.selection.Has(program.ID) {
			selected = append(selected, program)
		}
	}
	return selected
}

func (m *Model) startSend() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	progress := m.progressChan
	selected := m.selectedPrograms()

	go func() {
		result, err := m.outreach.SendBulk(m.ctx, progress, selected, m.draft.Subject, m.draft.Body)
		m.sendResult = result
		m.sendErr = err
		close(progress)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return sendCompleteMsg{result: m.sendResult, err: m.sendErr}
		}

		update, ok := <-m.progressChan
		if !ok {
			return sendCompleteMsg{result: m.sendResult, err: m.sendErr}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderProgramList() string {
	if m.catalog == nil {
		return styles.title.Render("Loading catalog...") + "\n\n" +
			styles.help.Render("q: quit")
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.favorite, m.keys.selectKey, m.keys.more, m.keys.send, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	status := ""
	if m.selection.Count() > 0 {
		status = styles.ok.Render(fmt.Sprintf("%d program(s) selected", m.selection.Count())) + "\n"
	}
	if m.err != nil {
		status += styles.warn.Render(fmt.Sprintf("Warning: %v", m.err)) + "\n"
	}

	return fmt.Sprintf("%s\n%s\n%s", m.programList.View(), status, helpView)
}

func (m *Model) renderDetail() string {
	// Server-sourced text is sanitized before it reaches the terminal.
	title := styles.title.Render(shared.SanitizeText(m.detail.Name))

	info := fmt.Sprintf("University: %s\nField: %s\nDegree: %s\n",
		shared.SanitizeText(m.detail.University.Name),
		shared.SanitizeText(m.detail.FieldOfStudy),
		shared.SanitizeText(m.detail.DegreeLevel))
	if m.detail.DurationMonths > 0 {
		info += fmt.Sprintf("Duration: %d months\n", m.detail.DurationMonths)
	}
	if m.detail.TuitionFeeEuro > 0 {
		info += fmt.Sprintf("Tuition: %.0f EUR\n", m.detail.TuitionFeeEuro)
	}

	coordinators := "\nCoordinators:\n"
	for _, coordinator := range m.coordinators {
		line := fmt.Sprintf("  • %s", shared.SanitizeText(coordinator.Name))
		if coordinator.Role != "" {
			line += fmt.Sprintf(" (%s)", shared.SanitizeText(coordinator.Role))
		}
		if coordinator.Email != "" {
			line += fmt.Sprintf(" <%s>", shared.SanitizeText(coordinator.Email))
		}
		coordinators += line + "\n"
	}

	helpKeys := []key.Binding{m.keys.favorite, m.keys.selectKey, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n%s", title, info, coordinators, helpView)
}

func (m *Model) renderFavorites() string {
	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.favoriteList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Send to every coordinator of %d program(s)?", m.selection.Count()))
	info := fmt.Sprintf("\nSubject: %s\n", m.draft.Subject)

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s%s\n%s", title, info, helpView)
}

func (m *Model) renderSend() string {
	title := styles.title.Render("Sending Emails")

	var phase string
	switch m.progress.Phase {
	case tasks.FetchCoordinators:
		phase = fmt.Sprintf("Fetching coordinators (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.DeliverEmail:
		phase = "Delivering..."
	case tasks.RecordHistory:
		phase = "Recording history..."
	default:
		phase = "Preparing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	if m.sendErr != nil {
		return fmt.Sprintf("%s\n\n%s",
			styles.err.Render(fmt.Sprintf("Send failed: %v", m.sendErr)), helpView)
	}

	if m.sendResult == nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render("No result available"), helpView)
	}

	title := styles.ok.Render("✓ Emails Sent")
	info := fmt.Sprintf("\nPrograms: %d\nRecipients: %d\nProvider: %s\n",
		len(m.sendResult.Programs), m.sendResult.TotalCoordinators, m.sendResult.Provider)

	return fmt.Sprintf("%s%s\n%s", title, info, helpView)
}
