package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/curio-cli/internal/app"
	"github.com/glabrego/curio-cli/internal/content"
	"github.com/glabrego/curio-cli/internal/resolve"
	"github.com/glabrego/curio-cli/internal/tui/actions"
	"github.com/glabrego/curio-cli/internal/tui/i18n"
	"github.com/glabrego/curio-cli/internal/tui/platform"
	tuistate "github.com/glabrego/curio-cli/internal/tui/state"
	tuitheme "github.com/glabrego/curio-cli/internal/tui/theme"
	"github.com/glabrego/curio-cli/internal/tui/view"
)

// visibleSlot is the single generation slot for the card on screen.
const visibleSlot = "visible"

const (
	cardPageStep    = 5
	maxCardWidth    = 72
	detailMargin    = 2
	defaultStatusTT = 3 * time.Second
)

type clearStatusMsg struct {
	id int
}

type Model struct {
	service actions.Service
	gens    *resolve.Generations
	theme   tuitheme.Theme
	strs    i18n.Strings

	prefs       app.Preferences
	items       []content.Item
	collections []string
	collection  string
	saved       map[string]bool
	savedItems  []content.Item
	cursor      int
	savedCursor int

	mode            string
	detailFromSaved bool
	showHelp        bool
	detailTop       int
	pickerFocus     int
	width           int
	height          int
	loading         bool
	status          string
	statusID        int
	statusTTL       time.Duration
	err             error
	feedDuration    time.Duration

	images   map[string]view.ImageState
	imageGen uint64

	openURLFn           func(string) error
	copyFn              func(string) error
	renderImageFn       func(string, int) (string, error)
	imagePreview        map[string]string
	imagePreviewErr     map[string]string
	imagePreviewLoading map[string]bool
}

func NewModel(service actions.Service, gens *resolve.Generations) Model {
	if gens == nil {
		gens = resolve.NewGenerations()
	}
	prefs := app.DefaultPreferences()
	prefs.FirstOpen = false
	return Model{
		service:             service,
		gens:                gens,
		theme:               tuitheme.Default(),
		strs:                i18n.For(prefs.AppLanguage),
		prefs:               prefs,
		collection:          content.All,
		collections:         []string{content.All},
		saved:               make(map[string]bool),
		mode:                view.ModeFeed,
		statusTTL:           defaultStatusTT,
		images:              make(map[string]view.ImageState),
		openURLFn:           platform.OpenURLInBrowser,
		copyFn:              platform.CopyToClipboard,
		renderImageFn:       view.PreviewRenderer{}.Render,
		imagePreview:        make(map[string]string),
		imagePreviewErr:     make(map[string]string),
		imagePreviewLoading: make(map[string]bool),
	}
}

// SetImageRenderer swaps the inline preview renderer, e.g. to one carrying
// the configured User-Agent.
func (m *Model) SetImageRenderer(fn func(string, int) (string, error)) {
	m.renderImageFn = fn
}

func (m Model) Init() tea.Cmd {
	if m.service == nil {
		return nil
	}
	return actions.LoadPreferencesCmd(m.service)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case actions.PreferencesLoadSuccessMsg:
		m.prefs = msg.Preferences
		m.strs = i18n.For(m.prefs.AppLanguage)
		if m.prefs.FirstOpen {
			m.mode = view.ModeFirst
			return m, nil
		}
		return m.reloadFeed()
	case actions.PreferencesLoadErrorMsg:
		next, cmd := m.reloadFeed()
		model := next.(Model)
		model.err = msg.Err
		return model, cmd
	case actions.FeedLoadSuccessMsg:
		if msg.Language != m.prefs.ContentLanguage || msg.Collection != m.collection {
			return m, nil
		}
		anchor := m.currentFeedID()
		m.loading = false
		m.err = nil
		m.items = msg.Items
		m.collections = msg.Collections
		m.feedDuration = msg.Duration
		m.saved = make(map[string]bool, len(msg.SavedIDs))
		for _, id := range msg.SavedIDs {
			m.saved[id] = true
		}
		m.cursor = tuistate.CursorAfterReload(m.items, anchor, m.cursor)
		cmd := m.focusCurrent()
		return m, cmd
	case actions.FeedLoadErrorMsg:
		m.loading = false
		m.status = ""
		m.err = msg.Err
		return m, nil
	case actions.SavedLoadSuccessMsg:
		m.loading = false
		m.savedItems = msg.Items
		m.savedCursor = tuistate.ClampCursor(m.savedCursor, len(m.savedItems))
		return m, nil
	case actions.SavedLoadErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil
	case actions.ToggleSavedSuccessMsg:
		m.err = nil
		m.saved[msg.ContentID] = msg.Saved
		status := "Removed from saved"
		if msg.Saved {
			status = m.strs.Saved
		}
		cmd := m.setStatus(status)
		if m.mode == view.ModeSaved || m.detailFromSaved {
			return m, tea.Batch(cmd, actions.LoadSavedCmd(m.service))
		}
		return m, cmd
	case actions.PreferenceSavedMsg:
		return m, nil
	case actions.ActionErrorMsg:
		m.loading = false
		m.status = ""
		m.err = msg.Err
		return m, nil
	case actions.ImageResolvedMsg:
		if msg.Generation != m.imageGen || !m.gens.Current(visibleSlot, msg.Generation) {
			return m, nil
		}
		m.images[msg.ContentID] = view.ImageState{Phase: msg.Result.Phase, URL: msg.Result.URL}
		m.gens.End(visibleSlot, msg.Generation)
		return m, nil
	case actions.ImageResolveErrorMsg:
		if msg.Generation != m.imageGen || !m.gens.Current(visibleSlot, msg.Generation) {
			return m, nil
		}
		m.images[msg.ContentID] = view.ImageState{Phase: resolve.PhaseFailed}
		m.gens.End(visibleSlot, msg.Generation)
		return m, nil
	case actions.ShareSuccessMsg:
		m.err = nil
		cmd := m.setStatus(m.strs.LinkCopied)
		return m, cmd
	case actions.ShareErrorMsg:
		cmd := m.setStatus(m.strs.ShareFailed + ": " + msg.Err.Error())
		return m, cmd
	case actions.OpenURLSuccessMsg:
		m.err = nil
		cmd := m.setStatus(msg.Status)
		return m, cmd
	case actions.OpenURLErrorMsg:
		m.err = nil
		cmd := m.setStatus(msg.Err.Error())
		return m, cmd
	case actions.ImagePreviewSuccessMsg:
		delete(m.imagePreviewLoading, msg.ContentID)
		delete(m.imagePreviewErr, msg.ContentID)
		m.imagePreview[msg.ContentID] = msg.Raw
		return m, nil
	case actions.ImagePreviewErrorMsg:
		delete(m.imagePreviewLoading, msg.ContentID)
		m.imagePreviewErr[msg.ContentID] = msg.Err.Error()
		return m, nil
	case clearStatusMsg:
		if msg.id == m.statusID {
			m.status = ""
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c":
		m.gens.CancelAll()
		return m, tea.Quit
	case "?":
		if m.mode != view.ModeFirst {
			m.showHelp = !m.showHelp
			return m, nil
		}
	}

	if m.showHelp {
		switch key {
		case "esc":
			m.showHelp = false
		case "q":
			m.gens.CancelAll()
			return m, tea.Quit
		}
		return m, nil
	}

	switch m.mode {
	case view.ModeFirst:
		return m.handlePickerKey(key)
	case view.ModeSaved:
		return m.handleSavedKey(key)
	case view.ModeDetail:
		return m.handleDetailKey(key)
	}
	return m.handleFeedKey(key)
}

func (m Model) handleFeedKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		m.gens.CancelAll()
		return m, tea.Quit
	case "j", "down", "right":
		return m.moveCursor(1)
	case "k", "up", "left":
		return m.moveCursor(-1)
	case "pgdown":
		return m.moveCursor(cardPageStep)
	case "pgup":
		return m.moveCursor(-cardPageStep)
	case "g", "home":
		return m.moveCursor(-len(m.items))
	case "G", "end":
		return m.moveCursor(len(m.items))
	case "enter":
		if len(m.items) == 0 {
			return m, nil
		}
		m.mode = view.ModeDetail
		m.detailFromSaved = false
		m.detailTop = 0
		return m, nil
	case "v":
		m.mode = view.ModeSaved
		m.savedCursor = 0
		if m.service == nil {
			return m, nil
		}
		m.loading = true
		return m, actions.LoadSavedCmd(m.service)
	case "c":
		m.collection = content.Next(m.collections, m.collection)
		m.cursor = 0
		return m.reloadFeed()
	case "L":
		m.prefs.ContentLanguage = content.Next(content.ContentLanguageCodes(), m.prefs.ContentLanguage)
		m.cursor = 0
		next, cmd := m.reloadFeed()
		return next, tea.Batch(m.persist(actions.SetContentLanguageCmd, m.prefs.ContentLanguage), cmd)
	case "r":
		next, cmd := m.reloadFeed()
		model := next.(Model)
		status := model.setStatus(model.strs.FeedRefreshed)
		return model, tea.Batch(cmd, status)
	}
	return m.handleCardKey(key)
}

// handleCardKey covers the actions shared by the feed and the detail panel.
func (m Model) handleCardKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "s":
		item, ok := m.currentItem()
		if !ok || m.service == nil {
			return m, nil
		}
		return m, actions.ToggleSavedCmd(m.service, item.ID)
	case "y":
		item, ok := m.currentItem()
		if !ok {
			return m, nil
		}
		url := ""
		if img := m.images[item.ID]; img.Loaded() {
			url = img.URL
		}
		return m, actions.ShareCmd(item, url, m.copyFn)
	case "o":
		return m.openCurrentImage()
	case "i":
		item, ok := m.currentItem()
		if !ok {
			return m, nil
		}
		if m.mode == view.ModeFeed {
			m.mode = view.ModeDetail
			m.detailTop = 0
		}
		cmd := m.ensureInlineImagePreviewCmd(item)
		return m, cmd
	case "l":
		m.prefs.AppLanguage = content.Next(content.AppLanguageCodes, m.prefs.AppLanguage)
		m.strs = i18n.For(m.prefs.AppLanguage)
		return m, m.persist(actions.SetAppLanguageCmd, m.prefs.AppLanguage)
	case "S":
		m.prefs.SoundEnabled = !m.prefs.SoundEnabled
		if m.service == nil {
			return m, nil
		}
		status := "Sound off"
		if m.prefs.SoundEnabled {
			status = "Sound on"
		}
		statusCmd := m.setStatus(status)
		return m, tea.Batch(actions.SetSoundCmd(m.service, m.prefs.SoundEnabled), statusCmd)
	}
	return m, nil
}

func (m Model) handleDetailKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		m.gens.CancelAll()
		return m, tea.Quit
	case "esc", "backspace":
		m.mode = view.ModeFeed
		if m.detailFromSaved {
			m.mode = view.ModeSaved
			m.detailFromSaved = false
		}
		m.detailTop = 0
		return m, nil
	case "j", "down":
		m.detailTop = tuistate.ScrollTop(m.detailTop, 1, len(m.detailLines()), m.detailBodyHeight())
		return m, nil
	case "k", "up":
		m.detailTop = tuistate.ScrollTop(m.detailTop, -1, len(m.detailLines()), m.detailBodyHeight())
		return m, nil
	case "pgdown", " ":
		m.detailTop = tuistate.ScrollTop(m.detailTop, m.detailBodyHeight(), len(m.detailLines()), m.detailBodyHeight())
		return m, nil
	case "pgup":
		m.detailTop = tuistate.ScrollTop(m.detailTop, -m.detailBodyHeight(), len(m.detailLines()), m.detailBodyHeight())
		return m, nil
	case "]", "[":
		if m.detailFromSaved {
			return m, nil
		}
		delta := 1
		if key == "[" {
			delta = -1
		}
		m.detailTop = 0
		return m.moveCursor(delta)
	}
	return m.handleCardKey(key)
}

func (m Model) handleSavedKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		m.gens.CancelAll()
		return m, tea.Quit
	case "esc", "backspace", "v":
		m.mode = view.ModeFeed
		return m, nil
	case "j", "down":
		m.savedCursor = tuistate.ClampCursor(m.savedCursor+1, len(m.savedItems))
		return m, nil
	case "k", "up":
		m.savedCursor = tuistate.ClampCursor(m.savedCursor-1, len(m.savedItems))
		return m, nil
	case "enter":
		if len(m.savedItems) == 0 {
			return m, nil
		}
		m.mode = view.ModeDetail
		m.detailFromSaved = true
		m.detailTop = 0
		return m, nil
	case "s":
		return m.handleCardKey(key)
	}
	return m, nil
}

func (m Model) handlePickerKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		m.gens.CancelAll()
		return m, tea.Quit
	case "tab", "shift+tab", "left", "right", "h", "l":
		m.pickerFocus = 1 - m.pickerFocus
		return m, nil
	case "j", "down", "k", "up":
		step := content.Next
		if key == "k" || key == "up" {
			step = content.Prev
		}
		if m.pickerFocus == 0 {
			m.prefs.AppLanguage = step(content.AppLanguageCodes, m.prefs.AppLanguage)
			m.strs = i18n.For(m.prefs.AppLanguage)
		} else {
			m.prefs.ContentLanguage = step(content.ContentLanguageCodes(), m.prefs.ContentLanguage)
		}
		return m, nil
	case "enter":
		m.prefs.FirstOpen = false
		m.mode = view.ModeFeed
		next, cmd := m.reloadFeed()
		if m.service == nil {
			return next, cmd
		}
		return next, tea.Batch(actions.CompleteFirstOpenCmd(m.service, m.prefs.AppLanguage, m.prefs.ContentLanguage), cmd)
	}
	return m, nil
}

func (m Model) persist(cmdFn func(actions.Service, string) tea.Cmd, value string) tea.Cmd {
	if m.service == nil {
		return nil
	}
	return cmdFn(m.service, value)
}

func (m Model) reloadFeed() (tea.Model, tea.Cmd) {
	if m.service == nil {
		return m, nil
	}
	m.loading = true
	m.err = nil
	return m, actions.LoadFeedCmd(m.service, m.prefs.ContentLanguage, m.collection)
}

func (m Model) moveCursor(delta int) (tea.Model, tea.Cmd) {
	if len(m.items) == 0 {
		return m, nil
	}
	next := tuistate.ClampCursor(m.cursor+delta, len(m.items))
	if next == m.cursor {
		return m, nil
	}
	m.cursor = next
	cmd := m.focusCurrent()
	return m, cmd
}

// focusCurrent starts image resolution for the card under the cursor,
// superseding whatever attempt was running for the previous card, and
// schedules the preload window ahead of it.
func (m *Model) focusCurrent() tea.Cmd {
	if len(m.items) == 0 || m.service == nil {
		return nil
	}
	item := m.items[m.cursor]
	preload := actions.PreloadCmd(m.service, m.items, m.cursor)

	ctx, gen := m.gens.Begin(context.Background(), visibleSlot)
	m.imageGen = gen
	if url, ok := m.service.CachedImage(item.ID); ok {
		m.images[item.ID] = view.ImageState{Phase: resolve.PhaseResolved, URL: url}
		m.gens.End(visibleSlot, gen)
		return preload
	}
	m.images[item.ID] = view.ImageState{Phase: resolve.PhaseCheckingCache}
	return tea.Batch(actions.ResolveImageCmd(ctx, m.service, item, gen), preload)
}

func (m Model) currentItem() (content.Item, bool) {
	if m.mode == view.ModeSaved || m.detailFromSaved {
		if len(m.savedItems) == 0 {
			return content.Item{}, false
		}
		return m.savedItems[tuistate.ClampCursor(m.savedCursor, len(m.savedItems))], true
	}
	if len(m.items) == 0 {
		return content.Item{}, false
	}
	return m.items[tuistate.ClampCursor(m.cursor, len(m.items))], true
}

func (m Model) currentFeedID() string {
	if len(m.items) == 0 {
		return ""
	}
	return m.items[tuistate.ClampCursor(m.cursor, len(m.items))].ID
}

func (m Model) openCurrentImage() (tea.Model, tea.Cmd) {
	item, ok := m.currentItem()
	if !ok {
		return m, nil
	}
	validURL, err := platform.ValidateImageURL(m.images[item.ID].URL)
	if err != nil {
		m.err = nil
		cmd := m.setStatus(err.Error())
		return m, cmd
	}
	return m, actions.OpenURLCmd(validURL, m.openURLFn, m.copyFn)
}

func (m *Model) ensureInlineImagePreviewCmd(item content.Item) tea.Cmd {
	img := m.images[item.ID]
	if !img.Loaded() {
		m.imagePreviewErr[item.ID] = "image not loaded yet"
		return nil
	}
	if _, ok := m.imagePreview[item.ID]; ok {
		return nil
	}
	if m.imagePreviewLoading[item.ID] || m.renderImageFn == nil {
		return nil
	}
	m.imagePreviewLoading[item.ID] = true
	delete(m.imagePreviewErr, item.ID)
	return actions.ImagePreviewCmd(item.ID, img.URL, m.contentWidth(), m.renderImageFn)
}

func (m *Model) setStatus(status string) tea.Cmd {
	m.status = status
	m.statusID++
	return clearStatusCmd(m.statusID, m.statusTTL)
}

func clearStatusCmd(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}

func (m Model) View() string {
	var b strings.Builder
	mode := m.mode
	if m.showHelp {
		mode = "help"
	}
	b.WriteString(view.Header(m.strs, mode, m.theme))
	b.WriteString("\n")
	b.WriteString(m.theme.MetaLabel.Render(view.Toolbar(m.mode)))
	b.WriteString("\n\n")

	switch {
	case m.showHelp:
		b.WriteString(strings.Join(view.HelpLines(), "\n"))
		b.WriteString("\n")
	case m.mode == view.ModeFirst:
		b.WriteString(strings.Join(view.LanguagePickerLines(m.strs, m.prefs.AppLanguage, m.prefs.ContentLanguage, m.pickerFocus, m.theme), "\n"))
		b.WriteString("\n")
	case m.mode == view.ModeDetail:
		b.WriteString(view.RenderDetailLines(m.detailLines(), m.detailTop, m.detailBodyHeight()))
	case m.mode == view.ModeSaved:
		b.WriteString(m.savedView())
	default:
		b.WriteString(m.feedView())
	}

	b.WriteString("\n")
	b.WriteString(m.messagePanel())
	b.WriteString("\n")
	b.WriteString(view.CompactFooter(m.prefs.AppLanguage, m.prefs.ContentLanguage, m.collection, len(m.items), m.savedCount(), m.strs, m.theme))
	b.WriteString("\n")
	return b.String()
}

func (m Model) feedView() string {
	if len(m.items) == 0 {
		if m.loading {
			return "Loading cards...\n"
		}
		return "No cards match this filter.\n"
	}
	item := m.items[m.cursor]
	lines := view.CardLines(view.CardParams{
		Item:      item,
		Image:     m.images[item.ID],
		Saved:     m.saved[item.ID],
		Position:  m.cursor,
		Total:     len(m.items),
		Width:     m.cardWidth(),
		ImageRows: m.imageRows(),
		Strings:   m.strs,
	}, m.theme)
	return strings.Join(lines, "\n") + "\n"
}

func (m Model) savedView() string {
	var b strings.Builder
	b.WriteString(m.theme.Section.Render(m.strs.SavedItems))
	b.WriteString("\n\n")
	if m.loading && len(m.savedItems) == 0 {
		b.WriteString("Loading saved items...\n")
		return b.String()
	}
	start, end := tuistate.CenteredWindow(len(m.savedItems), m.savedCursor, m.listHeight())
	lines := view.SavedListLines(m.savedItems, m.savedCursor, start, end, m.contentWidth(), m.strs, m.theme)
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) detailLines() []string {
	item, ok := m.currentItem()
	if !ok {
		return []string{"No card selected."}
	}
	preview := view.InlineImagePreviewState{
		Loading: m.imagePreviewLoading[item.ID],
		Raw:     m.imagePreview[item.ID],
		Err:     m.imagePreviewErr[item.ID],
	}
	preview.Enabled = preview.Loading || preview.Raw != "" || preview.Err != ""
	return view.DetailLines(item, m.contentWidth()-2*detailMargin, detailMargin, m.strs, m.theme, preview)
}

func (m Model) messagePanel() string {
	warning := ""
	if m.err != nil {
		warning = m.err.Error()
		if errors.Is(m.err, content.ErrInvalidItem) {
			warning = "invalid import: " + warning
		}
	}
	status := m.status
	if status == "" && m.err == nil && m.feedDuration > 0 && m.mode == view.ModeFeed {
		status = fmt.Sprintf("feed loaded in %dms", m.feedDuration.Milliseconds())
	}
	return view.CompactMessage(m.loading, m.err != nil, status, warning, m.theme)
}

func (m Model) savedCount() int {
	n := 0
	for _, ok := range m.saved {
		if ok {
			n++
		}
	}
	return n
}

func (m Model) contentWidth() int {
	if m.width > 0 {
		return m.width - 1
	}
	return 100
}

func (m Model) cardWidth() int {
	return min(m.contentWidth(), maxCardWidth)
}

// imageRows gives the image area whatever height the card text leaves over.
func (m Model) imageRows() int {
	if m.height <= 0 {
		return 8
	}
	return max(3, min(14, m.height-18))
}

func (m Model) listHeight() int {
	return tuistate.PageStep(m.height, m.status != "")
}

func (m Model) detailBodyHeight() int {
	if m.height > 0 {
		usedByHeader := 6
		if m.status != "" {
			usedByHeader += 2
		}
		if h := m.height - usedByHeader; h > 3 {
			return h
		}
	}
	return 16
}
