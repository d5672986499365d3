package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hubdeck/hubdeck/internal/api"
	"github.com/hubdeck/hubdeck/internal/grid"
	"github.com/hubdeck/hubdeck/internal/log"
)

// detailView is an expanded master row's sub-grid: the same windowing
// protocol, independently paginated, scoped to the parent row.
type detailView struct {
	gridView
	parentID string
	dtype    grid.DetailType
}

// Model is the Bubble Tea model for the browse dashboard.
type Model struct {
	deps     Deps
	infer    grid.InferOptions
	pageSize int

	collections []api.Collection
	selected    int

	master *gridView
	detail *detailView
	focus  pane

	searchInput textinput.Model
	searching   bool

	spin     spinner.Model
	width    int
	height   int
	status   string
	quitting bool

	// genSeq issues scope generations. Every dispatched window request
	// gets a fresh value, so a response can never match a view it was
	// not requested for, even across view replacement.
	genSeq int
}

// NewModel creates the dashboard model.
func NewModel(deps Deps) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	ti := textinput.New()
	ti.Placeholder = "search"
	ti.CharLimit = 120

	return Model{
		deps: deps,
		infer: grid.InferOptions{
			NumericFields: deps.Config.NumericFields,
			DateFields:    deps.Config.DateFields,
		},
		pageSize:    deps.Config.PageSize,
		searchInput: ti,
		spin:        s,
		width:       80,
		height:      24,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.loadCollections())
}

func (m Model) loadCollections() tea.Cmd {
	client := m.deps.Client
	return func() tea.Msg {
		collections, err := client.Collections(context.Background())
		return collectionsMsg{collections: collections, err: err}
	}
}

// sourceOptions are applied to every row source the dashboard creates.
func (m *Model) sourceOptions() []grid.SourceOption {
	return []grid.SourceOption{
		grid.WithGate(m.deps.Session),
		grid.WithMaxAttempts(m.deps.Config.MaxAttempts),
		grid.WithRetryDelay(m.deps.Config.RetryDelay()),
	}
}

// isDetailCollection reports whether the named collection is one of the
// detail record types rather than a master collection.
func isDetailCollection(name string) bool {
	for _, t := range grid.DetailTypes {
		if name == t.Collection() {
			return true
		}
	}
	return false
}

// selectCollection rebuilds the master grid for the collection at index
// i: fresh schema, cleared search and sort, first page. Any outstanding
// requests for the old scope are invalidated first, and an open detail
// expansion is destroyed.
func (m *Model) selectCollection(i int) tea.Cmd {
	if len(m.collections) == 0 {
		return nil
	}
	m.selected = ((i % len(m.collections)) + len(m.collections)) % len(m.collections)
	coll := m.collections[m.selected]

	if m.master != nil {
		m.master.invalidate()
	}
	m.collapseDetail()
	m.focus = paneMaster

	var source *grid.RemoteSource
	fields := coll.Fields
	if isDetailCollection(coll.CollectionName) {
		source = grid.NewRemoteSource(m.deps.Client.CollectionSource(), coll.CollectionName, m.sourceOptions()...)
	} else {
		// Master repository grid: identifier and detail-count columns
		// come ahead of the server-declared fields.
		source = grid.NewRemoteSource(m.deps.Client.RepoSource(), coll.CollectionName, m.sourceOptions()...)
		fields = grid.MasterFields(coll.Fields)
	}
	m.master = newGridView(source, fields)

	return m.fetchWindow(paneMaster, m.master)
}

// fetchWindow issues the pane's current window query. The previous
// request for the pane is cancelled before the new one is dispatched.
func (m *Model) fetchWindow(p pane, g *gridView) tea.Cmd {
	g.invalidate()
	ctx, cancel := context.WithCancel(context.Background())
	g.cancel = cancel
	g.loading = true

	m.genSeq++
	g.gen = m.genSeq
	gen := g.gen
	source := g.source
	q := g.query(m.pageSize)
	return func() tea.Msg {
		window, err := source.GetRows(ctx, q)
		return windowMsg{pane: p, gen: gen, window: window, err: err}
	}
}

// expandDetail opens a sub-grid of the given type under the master
// cursor row. A fresh source is created on every expansion; collapsing
// and re-expanding never reuses prior windows.
func (m *Model) expandDetail(t grid.DetailType) tea.Cmd {
	rows := m.master.rows()
	if m.master.cursor >= len(rows) {
		return nil
	}
	parentID := rows[m.master.cursor].ID()
	if parentID == "" {
		m.status = "row has no identifier to expand"
		return nil
	}

	fields, ok := m.detailFields(t)
	if !ok {
		m.status = "no " + t.Label() + " collection configured"
		log.Error("missing detail collection", "type", string(t))
		return nil
	}

	resolver := grid.NewResolver(m.deps.Client.CollectionSource(), m.sourceOptions()...)
	source, err := resolver.ForDetail(parentID, t)
	if err != nil {
		m.status = err.Error()
		return nil
	}

	m.collapseDetail()
	m.detail = &detailView{
		gridView: *newGridView(source, fields),
		parentID: parentID,
		dtype:    t,
	}
	m.detail.search = m.master.search
	m.focus = paneDetail
	return m.fetchWindow(paneDetail, &m.detail.gridView)
}

// collapseDetail destroys the detail expansion and abandons its
// outstanding requests.
func (m *Model) collapseDetail() {
	if m.detail != nil {
		m.detail.invalidate()
		m.detail = nil
	}
	m.focus = paneMaster
}

// detailFields looks up the declared field list for a detail type.
func (m *Model) detailFields(t grid.DetailType) ([]string, bool) {
	for _, c := range m.collections {
		if c.CollectionName == t.Collection() {
			return c.Fields, true
		}
	}
	return nil, false
}

// focusedGrid returns the grid the cursor keys act on.
func (m *Model) focusedGrid() *gridView {
	if m.focus == paneDetail && m.detail != nil {
		return &m.detail.gridView
	}
	return m.master
}

// gridFor resolves a window message's pane to its current grid view, or
// nil when the pane's scope is gone (detail collapsed meanwhile).
func (m *Model) gridFor(p pane) *gridView {
	switch p {
	case paneMaster:
		return m.master
	case paneDetail:
		if m.detail == nil {
			return nil
		}
		return &m.detail.gridView
	}
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case collectionsMsg:
		if msg.err != nil {
			m.status = errorStyle.Render("collections: " + friendlyError(msg.err))
			return m, nil
		}
		m.collections = msg.collections
		// Land on the first master (non-detail) collection when there
		// is one.
		start := 0
		for i, c := range m.collections {
			if !isDetailCollection(c.CollectionName) {
				start = i
				break
			}
		}
		return m, m.selectCollection(start)

	case windowMsg:
		g := m.gridFor(msg.pane)
		if g == nil || msg.gen != g.gen {
			// Stale scope: the collection switched or the expansion was
			// destroyed after this request went out.
			return m, nil
		}
		g.loading = false
		if msg.err != nil {
			g.err = msg.err
			return m, nil
		}
		g.err = nil
		g.window = msg.window
		g.clampCursor()
		if !g.schema.Typed() {
			g.schema.Refine(msg.window.Rows, m.infer)
		}
		return m, nil

	case syncMsg:
		if msg.err != nil {
			m.status = errorStyle.Render("sync: " + friendlyError(msg.err))
		} else {
			m.status = "sync triggered"
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKey(msg)
	}
	m.status = ""

	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit

	case "/":
		m.searching = true
		m.searchInput.SetValue(m.focusedGrid().search)
		m.searchInput.Focus()
		return m, textinput.Blink

	case "c":
		return m, m.selectCollection(m.selected + 1)
	case "C":
		return m, m.selectCollection(m.selected - 1)

	case "up", "k":
		g := m.focusedGrid()
		if g != nil && g.cursor > 0 {
			g.cursor--
		}
		return m, nil
	case "down", "j":
		g := m.focusedGrid()
		if g != nil && g.cursor < len(g.rows())-1 {
			g.cursor++
		}
		return m, nil

	case "left", "h":
		g := m.focusedGrid()
		if g != nil && g.page > 0 {
			g.page--
			g.cursor = 0
			return m, m.fetchWindow(m.focus, g)
		}
		return m, nil
	case "right", "l":
		g := m.focusedGrid()
		if g != nil && g.hasNextPage(m.pageSize) {
			g.page++
			g.cursor = 0
			return m, m.fetchWindow(m.focus, g)
		}
		return m, nil

	case "<":
		g := m.focusedGrid()
		if g != nil && g.colCursor > 0 {
			g.colCursor--
		}
		return m, nil
	case ">":
		g := m.focusedGrid()
		if g != nil && g.colCursor < len(g.schema.Columns)-1 {
			g.colCursor++
		}
		return m, nil

	case "s":
		g := m.focusedGrid()
		if g != nil {
			g.cycleSort()
			g.page = 0
			return m, m.fetchWindow(m.focus, g)
		}
		return m, nil

	case "r":
		g := m.focusedGrid()
		if g != nil {
			return m, m.fetchWindow(m.focus, g)
		}
		return m, nil

	case "tab":
		if m.detail != nil {
			if m.focus == paneMaster {
				m.focus = paneDetail
			} else {
				m.focus = paneMaster
			}
		}
		return m, nil

	case "esc":
		if m.detail != nil {
			m.collapseDetail()
		}
		return m, nil

	case "enter":
		return m.toggleDetail(grid.DetailCommit)
	case "1":
		return m.toggleDetail(grid.DetailCommit)
	case "2":
		return m.toggleDetail(grid.DetailPullRequest)
	case "3":
		return m.toggleDetail(grid.DetailIssue)

	case "S":
		client := m.deps.Client
		return m, func() tea.Msg {
			return syncMsg{err: client.Sync(context.Background())}
		}
	}

	return m, nil
}

// toggleDetail collapses an expansion of the same row and type, and
// otherwise opens a fresh one.
func (m Model) toggleDetail(t grid.DetailType) (tea.Model, tea.Cmd) {
	if m.master == nil || isDetailCollection(m.currentCollection().CollectionName) {
		return m, nil
	}
	rows := m.master.rows()
	if m.master.cursor >= len(rows) {
		return m, nil
	}
	id := rows[m.master.cursor].ID()
	if m.detail != nil && m.detail.parentID == id && m.detail.dtype == t {
		m.collapseDetail()
		return m, nil
	}
	return m, m.expandDetail(t)
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.searchInput.Blur()
		g := m.focusedGrid()
		if g != nil {
			g.search = m.searchInput.Value()
			g.page = 0
			return m, m.fetchWindow(m.focus, g)
		}
		return m, nil
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m Model) currentCollection() api.Collection {
	if m.selected < len(m.collections) {
		return m.collections[m.selected]
	}
	return api.Collection{}
}

// friendlyError maps protocol errors to user-facing wording.
func friendlyError(err error) string {
	switch {
	case errors.Is(err, grid.ErrNotConnected):
		return "not connected — run 'hubdeck connect'"
	case errors.Is(err, grid.ErrBadShape):
		return "backend sent malformed data"
	default:
		return err.Error()
	}
}
