package tui

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/idilsaglam/breachtrack/internal/app"
	"github.com/idilsaglam/breachtrack/internal/catalog"
	"github.com/idilsaglam/breachtrack/internal/logging"
	"github.com/idilsaglam/breachtrack/internal/model"
	"github.com/idilsaglam/breachtrack/internal/store"
	"github.com/idilsaglam/breachtrack/internal/transfer"
	"github.com/idilsaglam/breachtrack/internal/view"
)

const (
	defaultSearchDebounce = 300 * time.Millisecond
	noticeTTL             = 4 * time.Second
)

type Options struct {
	CatalogPath    string
	WatchCatalog   bool
	SearchDebounce time.Duration
	Logger         *zap.Logger
	// ExportDir receives e/E exports. Defaults to the working directory.
	ExportDir string
	// Clipboard replaces the system clipboard, mainly for tests.
	Clipboard func(string) error
}

type mode int

const (
	modeList mode = iota
	modeWelcome
	modeSearch
	modeNote
	modePicker
	modeConfirmImport
)

// refreshMsg asks the model to re-read the projection after a change made
// outside Update (debounced note saves, catalog reloads).
type refreshMsg struct{}

type searchTickMsg struct{ seq int }

type noticeExpiredMsg struct{ seq int }

type importLoadedMsg struct{ im transfer.Importer }

type noticeMsg notice

type notice struct {
	text  string
	isErr bool
}

type Model struct {
	ctl  *app.Controller
	opts Options
	log  *zap.Logger
	keys keyMap
	st   *styles
	sink *sink

	list   list.Model
	search textinput.Model
	note   textarea.Model
	picker filepicker.Model
	im     transfer.Importer

	mode      mode
	width     int
	height    int
	searchSeq int
	noteID    string
	notice    notice
	noticeSeq int
	welcome   string
	stats     view.Stats
	compact   bool // header collapsed
	filter    model.Filter
}

// New builds the model. The controller's renderer is not touched; Run wires
// it to the program.
func New(ctl *app.Controller, opts Options) Model {
	if opts.SearchDebounce <= 0 {
		opts.SearchDebounce = defaultSearchDebounce
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}
	m := Model{
		ctl:  ctl,
		opts: opts,
		log:  logging.OrNop(opts.Logger),
		keys: newKeyMap(),
		sink: &sink{},
	}
	m.st = newStyles(ctl.Store().Theme())

	l := list.New(nil, itemDelegate{st: m.st}, 80, 20)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.NextPage = key.NewBinding(key.WithKeys("right", "l", "pgdown"), key.WithHelp("→/l", "next page"))
	l.KeyMap.PrevPage = key.NewBinding(key.WithKeys("left", "h", "pgup"), key.WithHelp("←/h", "prev page"))
	l.AdditionalShortHelpKeys = m.keys.short
	l.AdditionalFullHelpKeys = m.keys.full
	l.Styles.HelpStyle = m.st.help
	l.Styles.PaginationStyle = m.st.help
	m.list = l

	m.search = textinput.New()
	m.search.Prompt = "/ "
	m.search.Placeholder = "Search domains..."
	m.search.CharLimit = 100

	m.note = textarea.New()
	m.note.Placeholder = "What did you change? When?"
	m.note.ShowLineNumbers = false
	m.note.CharLimit = 2000
	m.note.SetHeight(4)
	m.note.SetWidth(60)

	if !ctl.Store().WelcomeShown() {
		m.mode = modeWelcome
		m.welcome = renderWelcome(ctl.Catalog().Len(), ctl.Store().Theme(), 76)
	}
	m.rebuild()
	return m
}

func (m Model) Init() tea.Cmd { return nil }

// rebuild re-reads the projection and keeps the cursor on the same row.
func (m *Model) rebuild() {
	var keep string
	if it := m.list.SelectedItem(); it != nil {
		keep = rowKey(it)
	}

	items, stats := m.ctl.Projection()
	v := m.ctl.ViewState()
	m.stats = stats
	m.compact = v.HeaderCollapsed
	m.filter = v.Filter
	if m.st.theme.Name != v.Theme {
		m.st = newStyles(v.Theme)
		m.list.SetDelegate(itemDelegate{st: m.st})
		m.list.Styles.HelpStyle = m.st.help
		m.list.Styles.PaginationStyle = m.st.help
	}

	var rows []list.Item
	for _, sec := range view.Group(items) {
		rows = append(rows, headerItem{
			category:  sec.Category,
			stats:     stats.PerCategory[sec.Category],
			visible:   len(sec.Items),
			collapsed: sec.Collapsed,
		})
		if sec.Collapsed {
			continue
		}
		for _, it := range sec.Items {
			rows = append(rows, domainItem{it})
		}
	}
	m.list.SetItems(rows)
	for i, r := range rows {
		if rowKey(r) == keep {
			m.list.Select(i)
			break
		}
	}
	m.resize()
}

func (m *Model) resize() {
	if m.width == 0 {
		return
	}
	h := m.height - lipgloss.Height(m.headerView()) - 4
	switch m.mode {
	case modeSearch:
		h -= 3
	case modeNote:
		h -= m.note.Height() + 3
	}
	if m.notice.text != "" {
		h--
	}
	if h < 3 {
		h = 3
	}
	m.list.SetSize(m.width-4, h)
	m.note.SetWidth(min(m.width-8, 76))
}

func (m Model) selected() (domainItem, headerItem, bool) {
	switch it := m.list.SelectedItem().(type) {
	case domainItem:
		return it, headerItem{category: it.Category}, true
	case headerItem:
		return domainItem{}, it, false
	}
	return domainItem{}, headerItem{}, false
}

func (m Model) hasSelection() bool { return m.list.SelectedItem() != nil }

func (m *Model) notify(text string, isErr bool) tea.Cmd {
	m.noticeSeq++
	m.notice = notice{text: text, isErr: isErr}
	seq := m.noticeSeq
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg { return noticeExpiredMsg{seq: seq} })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		if m.mode == modeWelcome {
			m.welcome = renderWelcome(m.ctl.Catalog().Len(), m.st.theme.Name, min(m.width-4, 80))
		}
		if m.mode == modePicker {
			m.picker.Height = max(m.height-8, 5)
		}
		return m, nil
	case refreshMsg:
		m.sink.done()
		m.rebuild()
		return m, nil
	case noticeMsg:
		return m, m.notify(msg.text, msg.isErr)
	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.notice = notice{}
			m.resize()
		}
		return m, nil
	case searchTickMsg:
		if msg.seq != m.searchSeq {
			return m, nil
		}
		_ = m.ctl.Dispatch(app.SetSearch{Text: m.search.Value()})
		m.rebuild()
		return m, nil
	case importLoadedMsg:
		return m.importLoaded(msg.im)
	}

	switch m.mode {
	case modeWelcome:
		return m.updateWelcome(msg)
	case modeSearch:
		return m.updateSearch(msg)
	case modeNote:
		return m.updateNote(msg)
	case modePicker:
		return m.updatePicker(msg)
	case modeConfirmImport:
		return m.updateConfirm(msg)
	}
	return m.updateList(msg)
}

func (m Model) updateWelcome(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		m.ctl.Store().MarkWelcomeShown()
		m.mode = modeList
		m.welcome = ""
		m.resize()
		if key.Matches(k, m.keys.Quit) {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(k, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(k, m.keys.Toggle):
		d, h, isDomain := m.selected()
		if !m.hasSelection() {
			return m, nil
		}
		if isDomain {
			m.dispatch(app.ToggleChecked{ID: d.ID})
		} else {
			m.dispatch(app.ToggleCategory{Category: h.category})
		}
		return m, nil

	case key.Matches(k, m.keys.Collapse):
		if _, h, _ := m.selected(); m.hasSelection() {
			m.dispatch(app.ToggleCategory{Category: h.category})
		}
		return m, nil

	case key.Matches(k, m.keys.Note):
		d, _, isDomain := m.selected()
		if !isDomain {
			return m, nil
		}
		m.mode = modeNote
		m.noteID = d.ID
		m.note.SetValue(m.ctl.Store().GetNote(d.ID))
		m.resize()
		return m, m.note.Focus()

	case key.Matches(k, m.keys.Search):
		m.mode = modeSearch
		m.resize()
		return m, m.search.Focus()

	case key.Matches(k, m.keys.Filter):
		m.dispatch(app.SetFilter{Filter: m.filter.Next()})
		return m, nil

	case key.Matches(k, m.keys.FilterN):
		i := int(k.Runes[0] - '0')
		m.dispatch(app.SetFilter{Filter: model.Filters[i]})
		return m, nil

	case key.Matches(k, m.keys.Header):
		m.dispatch(app.ToggleHeader{})
		return m, nil

	case key.Matches(k, m.keys.Theme):
		m.dispatch(app.ToggleTheme{})
		return m, m.notify("Switched to "+string(m.st.theme.Name)+" theme", false)

	case key.Matches(k, m.keys.Export):
		return m, m.export("json")

	case key.Matches(k, m.keys.ExportC):
		return m, m.export("csv")

	case key.Matches(k, m.keys.Copy):
		d, _, isDomain := m.selected()
		if !isDomain {
			return m, nil
		}
		url := "https://" + d.ID
		if err := m.opts.Clipboard(url); err != nil {
			m.log.Debug("clipboard", zap.Error(err))
			return m, m.notify("Could not copy: "+err.Error(), true)
		}
		return m, m.notify("Copied "+url, false)

	case key.Matches(k, m.keys.Import):
		return m, m.openPicker()

	case k.Type == tea.KeyEsc && m.ctl.ViewState().Search != "":
		m.search.SetValue("")
		m.dispatch(app.SetSearch{})
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// dispatch applies a on the UI goroutine and rebuilds right away.
func (m *Model) dispatch(a app.Action) {
	if err := m.ctl.Dispatch(a); err != nil {
		m.log.Warn("dispatch", zap.Error(err))
	}
	m.rebuild()
}

func (m Model) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.Type {
		case tea.KeyEnter:
			m.searchSeq++
			m.search.Blur()
			m.mode = modeList
			_ = m.ctl.Dispatch(app.SetSearch{Text: m.search.Value()})
			m.rebuild()
			return m, nil
		case tea.KeyEsc:
			m.searchSeq++
			m.search.Blur()
			m.search.SetValue("")
			m.mode = modeList
			_ = m.ctl.Dispatch(app.SetSearch{})
			m.rebuild()
			return m, nil
		case tea.KeyUp, tea.KeyDown:
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)
			return m, cmd
		}
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == before {
		return m, cmd
	}
	m.searchSeq++
	seq := m.searchSeq
	tick := tea.Tick(m.opts.SearchDebounce, func(time.Time) tea.Msg { return searchTickMsg{seq: seq} })
	return m, tea.Batch(cmd, tick)
}

func (m Model) updateNote(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && (k.Type == tea.KeyEsc || k.Type == tea.KeyCtrlS) {
		m.ctl.FlushNote(m.noteID)
		m.note.Blur()
		m.mode = modeList
		m.noteID = ""
		m.rebuild()
		return m, nil
	}

	before := m.note.Value()
	var cmd tea.Cmd
	m.note, cmd = m.note.Update(msg)
	if v := m.note.Value(); v != before {
		m.ctl.DraftNote(m.noteID, v)
	}
	return m, cmd
}

func (m *Model) export(format string) tea.Cmd {
	path := filepath.Join(m.opts.ExportDir, transfer.ExportFileName(format))
	err := transfer.WriteFile(path, func(w io.Writer) error {
		if format == "csv" {
			return transfer.WriteCSV(w, m.ctl.Catalog(), m.ctl.Store().UserState())
		}
		return transfer.WriteJSON(w, m.ctl.Snapshot(), m.stats)
	})
	if err != nil {
		m.log.Warn("export", zap.String("path", path), zap.Error(err))
		return m.notify("Export failed: "+err.Error(), true)
	}
	return m.notify(fmt.Sprintf("Exported %s to %s", strings.ToUpper(format), path), false)
}

func (m *Model) openPicker() tea.Cmd {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".json"}
	fp.ShowHidden = false
	fp.AutoHeight = false
	fp.Height = max(m.height-8, 5)
	if dir, err := filepath.Abs(m.opts.ExportDir); err == nil {
		fp.CurrentDirectory = dir
	}
	fp.Styles.Selected = m.st.selected
	fp.Styles.Cursor = m.st.selected
	m.picker = fp
	m.im.Reset()
	m.mode = modePicker
	return m.picker.Init()
}

func (m Model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && (k.String() == "q" || k.Type == tea.KeyCtrlC) {
		m.mode = modeList
		m.im.Reset()
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		return m, tea.Batch(cmd, loadImport(path))
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		var im transfer.Importer
		err := im.Select(path)
		return m, tea.Batch(cmd, m.notify(transfer.Describe(err), true))
	}
	return m, cmd
}

// loadImport reads and validates path off the UI goroutine.
func loadImport(path string) tea.Cmd {
	return func() tea.Msg {
		var im transfer.Importer
		if err := im.Select(path); err == nil {
			_ = im.ReadFile()
		}
		return importLoadedMsg{im: im}
	}
}

func (m Model) importLoaded(im transfer.Importer) (tea.Model, tea.Cmd) {
	m.im = im
	if im.State() != transfer.Validated {
		m.log.Info("import rejected", zap.String("path", im.Path()), zap.Error(im.Reason()))
		m.mode = modeList
		m.im.Reset()
		return m, m.notify(transfer.Describe(im.Reason()), true)
	}
	m.mode = modeConfirmImport
	return m, nil
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch k.String() {
	case "y", "enter":
		res, err := m.im.Apply(m.ctl)
		m.mode = modeList
		m.rebuild()
		if err != nil {
			m.im.Reset()
			return m, m.notify(transfer.Describe(err), true)
		}
		text := "Data imported successfully!"
		if res != store.Saved {
			text += " (not persisted: storage unavailable)"
		}
		m.im.Reset()
		return m, m.notify(text, false)
	case "n", "esc", "q":
		m.im.Reset()
		m.mode = modeList
		return m, m.notify("Import cancelled", false)
	}
	return m, nil
}

// View

func (m Model) View() string {
	if m.mode == modeWelcome {
		return m.st.panel.Render(m.welcome)
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")

	switch m.mode {
	case modePicker:
		b.WriteString(m.st.input.Render("Import progress (JSON export)  " + m.st.muted.Render("enter open · q cancel") + "\n" + m.picker.View()))
	case modeConfirmImport:
		b.WriteString(m.confirmView())
	default:
		b.WriteString(m.list.View())
	}

	switch m.mode {
	case modeSearch:
		b.WriteString("\n" + m.st.input.Render(m.search.View()))
	case modeNote:
		title := "Note for " + m.st.accent.Render(m.noteID) + m.st.muted.Render("  esc save & close")
		b.WriteString("\n" + m.st.input.Render(title+"\n"+m.note.View()))
	}

	if m.notice.text != "" {
		style := m.st.success
		if m.notice.isErr {
			style = m.st.errorS
		}
		b.WriteString("\n" + style.Render(m.notice.text))
	}
	return m.st.panel.Render(b.String())
}

func (m Model) headerView() string {
	s := m.stats
	counts := fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		m.st.title.Render("Breach Tracker"),
		m.st.success.Render(m.st.theme.SymDone), s.Checked,
		m.st.pending.Render(m.st.theme.SymUnchecked), s.Total-s.Checked,
		m.st.accent.Render("Total"), s.Total,
	)
	if m.compact {
		return counts + "  " + m.st.muted.Render(fmt.Sprintf("%d%%", s.Percent))
	}

	width := 40
	if m.width > 0 {
		width = min(max(m.width-30, 10), 60)
	}
	lines := []string{
		counts,
		m.st.bar(s.Percent, width, "") + fmt.Sprintf(" %3d%%", s.Percent),
	}
	var status []string
	status = append(status, "filter: "+m.st.accent.Render(string(m.filter)))
	if q := m.ctl.ViewState().Search; q != "" {
		status = append(status, "search: "+m.st.accent.Render(q))
	}
	status = append(status, m.st.muted.Render("catalog updated "+catalogDate()))
	lines = append(lines, strings.Join(status, m.st.muted.Render(" · ")))
	return strings.Join(lines, "\n")
}

func catalogDate() string {
	if t, err := time.Parse(time.RFC3339Nano, catalog.LastUpdated); err == nil {
		return t.Format("2006-01-02")
	}
	return catalog.LastUpdated
}

func (m Model) confirmView() string {
	snap := m.im.Snapshot()
	if snap == nil {
		return ""
	}
	checked := 0
	for _, v := range snap.Checked {
		if v {
			checked++
		}
	}
	lines := []string{
		m.st.title.Render("Import " + filepath.Base(m.im.Path()) + "?"),
		"",
		fmt.Sprintf("%d secured sites, %d notes", checked, len(snap.Notes)),
	}
	if !snap.Timestamp.IsZero() {
		lines = append(lines, m.st.muted.Render("exported "+snap.Timestamp.Local().Format("2006-01-02 15:04")))
	}
	lines = append(lines, "",
		m.st.errorS.Render("This replaces your current progress and notes."),
		m.st.muted.Render("y import · n cancel"))
	return m.st.input.Render(strings.Join(lines, "\n"))
}
