package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/curio-cli/internal/app"
	"github.com/glabrego/curio-cli/internal/content"
	"github.com/glabrego/curio-cli/internal/resolve"
	tuiactions "github.com/glabrego/curio-cli/internal/tui/actions"
	"github.com/glabrego/curio-cli/internal/tui/view"
)

type fakeService struct {
	mu sync.Mutex

	prefs    app.Preferences
	items    []content.Item
	savedIDs []string
	feedErr  error
	cached   map[string]string
	urls     map[string]string

	feedCalls      []string
	resolveCalls   []string
	preloadIndexes []int
	savedToggles   []string
	appLangs       []string
	contentLangs   []string
	firstOpen      []string
}

func newFakeService() *fakeService {
	return &fakeService{
		prefs:  app.Preferences{AppLanguage: "en", ContentLanguage: content.All, SoundEnabled: true},
		items:  content.Samples(),
		cached: map[string]string{},
		urls:   map[string]string{},
	}
}

func (f *fakeService) LoadPreferences(context.Context) (app.Preferences, error) {
	return f.prefs, nil
}

func (f *fakeService) Feed(_ context.Context, language, collection string) ([]content.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.feedCalls = append(f.feedCalls, language+"/"+collection)
	if f.feedErr != nil {
		return nil, f.feedErr
	}
	return content.Filter(f.items, language, collection), nil
}

func (f *fakeService) Collections(context.Context) ([]string, error) {
	return content.Collections(f.items), nil
}

func (f *fakeService) SavedIDs(context.Context) ([]string, error) {
	return f.savedIDs, nil
}

func (f *fakeService) SavedItems(context.Context) ([]content.Item, error) {
	var out []content.Item
	for _, it := range f.items {
		for _, id := range f.savedIDs {
			if id == it.ID {
				out = append(out, it)
			}
		}
	}
	return out, nil
}

func (f *fakeService) ToggleSaved(_ context.Context, id string) (bool, error) {
	f.savedToggles = append(f.savedToggles, id)
	for i, existing := range f.savedIDs {
		if existing == id {
			f.savedIDs = append(f.savedIDs[:i], f.savedIDs[i+1:]...)
			return false, nil
		}
	}
	f.savedIDs = append(f.savedIDs, id)
	return true, nil
}

func (f *fakeService) SetAppLanguage(_ context.Context, lang string) error {
	f.appLangs = append(f.appLangs, lang)
	return nil
}

func (f *fakeService) SetContentLanguage(_ context.Context, lang string) error {
	f.contentLangs = append(f.contentLangs, lang)
	return nil
}

func (f *fakeService) SetSound(context.Context, bool) error { return nil }

func (f *fakeService) CompleteFirstOpen(_ context.Context, appLang, contentLang string) error {
	f.firstOpen = append(f.firstOpen, appLang+"/"+contentLang)
	return nil
}

func (f *fakeService) CachedImage(id string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.cached[id]
	return u, ok
}

func (f *fakeService) ResolveImage(ctx context.Context, item content.Item, _ resolve.Observer) (resolve.Result, error) {
	f.mu.Lock()
	f.resolveCalls = append(f.resolveCalls, item.ID)
	u, ok := f.urls[item.ID]
	f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return resolve.Result{ContentID: item.ID}, err
	}
	if !ok {
		return resolve.Result{ContentID: item.ID, Phase: resolve.PhaseFailed}, nil
	}
	return resolve.Result{ContentID: item.ID, Phase: resolve.PhaseResolved, URL: u, Source: resolve.SourceMetadata}, nil
}

func (f *fakeService) PreloadAround(_ []content.Item, index int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.preloadIndexes = append(f.preloadIndexes, index)
	return 0
}

func (f *fakeService) PreloadHead([]content.Item) int { return 0 }

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func newTestModel(svc *fakeService) Model {
	m := NewModel(svc, nil)
	m.statusTTL = time.Millisecond
	m.copyFn = func(string) error { return nil }
	m.openURLFn = func(string) error { return nil }
	return m
}

// collect runs cmd and returns every message it produces, flattening
// batches. Status-clearing ticks are dropped so assertions see the status.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	switch msg := msg.(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, collect(c)...)
		}
		return out
	case clearStatusMsg:
		return nil
	default:
		return []tea.Msg{msg}
	}
}

// settle feeds every message produced by cmd back into the model until no
// more commands are produced.
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := collect(cmd)
	for i := 0; len(queue) > 0; i++ {
		if i > 50 {
			t.Fatal("model did not settle")
		}
		msg := queue[0]
		queue = queue[1:]
		updated, next := m.Update(msg)
		m = updated.(Model)
		queue = append(queue, collect(next)...)
	}
	return m
}

func press(t *testing.T, m Model, msg tea.KeyMsg) Model {
	t.Helper()
	updated, cmd := m.Update(msg)
	return settle(t, updated.(Model), cmd)
}

func loadedModel(t *testing.T, svc *fakeService) Model {
	t.Helper()
	m := newTestModel(svc)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 90, Height: 40})
	return settle(t, updated.(Model), m.Init())
}

func TestModelInit_LoadsPreferencesThenFeed(t *testing.T) {
	svc := newFakeService()
	svc.urls["sample-iron-pillar"] = "https://img.example/iron.jpg"
	m := loadedModel(t, svc)

	if len(m.items) != 3 || m.cursor != 0 {
		t.Fatalf("expected three cards with cursor at 0, got %d cards at %d", len(m.items), m.cursor)
	}
	if len(svc.feedCalls) != 1 || svc.feedCalls[0] != "all/all" {
		t.Fatalf("unexpected feed calls: %v", svc.feedCalls)
	}
	img := m.images["sample-iron-pillar"]
	if !img.Loaded() || img.URL != "https://img.example/iron.jpg" {
		t.Fatalf("expected first card image to resolve, got %+v", img)
	}
	if len(svc.preloadIndexes) != 1 || svc.preloadIndexes[0] != 0 {
		t.Fatalf("expected a preload window from card 0, got %v", svc.preloadIndexes)
	}
}

func TestModelInit_FirstOpenShowsLanguagePicker(t *testing.T) {
	svc := newFakeService()
	svc.prefs.FirstOpen = true
	m := loadedModel(t, svc)
	if m.mode != view.ModeFirst {
		t.Fatalf("expected language picker, got mode %q", m.mode)
	}
	if len(svc.feedCalls) != 0 {
		t.Fatalf("feed must wait for the picker, got %v", svc.feedCalls)
	}

	m = press(t, m, runeKey('j'))
	if m.prefs.AppLanguage != "hi" {
		t.Fatalf("expected app language to advance to hi, got %q", m.prefs.AppLanguage)
	}
	if !strings.Contains(m.View(), m.strs.SelectLanguage) || m.strs.SelectLanguage == "Select Language" {
		t.Fatal("expected picker to re-render in the chosen language")
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = press(t, m, runeKey('j'))
	m = press(t, m, runeKey('j'))
	if m.prefs.ContentLanguage != "hi" {
		t.Fatalf("expected content language hi, got %q", m.prefs.ContentLanguage)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != view.ModeFeed {
		t.Fatalf("expected feed after confirming, got %q", m.mode)
	}
	if len(svc.firstOpen) != 1 || svc.firstOpen[0] != "hi/hi" {
		t.Fatalf("unexpected first open calls: %v", svc.firstOpen)
	}
	if len(svc.feedCalls) != 1 || svc.feedCalls[0] != "hi/all" {
		t.Fatalf("unexpected feed calls: %v", svc.feedCalls)
	}
}

func TestModelUpdate_SwipeResolvesAndPreloads(t *testing.T) {
	svc := newFakeService()
	svc.cached["sample-stepwell-chand-baori"] = "https://img.example/stepwell.jpg"
	m := loadedModel(t, svc)
	resolvedBefore := len(svc.resolveCalls)

	m = press(t, m, runeKey('j'))
	if m.cursor != 1 {
		t.Fatalf("expected cursor at 1, got %d", m.cursor)
	}
	if len(svc.resolveCalls) != resolvedBefore {
		t.Fatalf("cached card must not start a resolution, got %v", svc.resolveCalls)
	}
	if img := m.images["sample-stepwell-chand-baori"]; img.URL != "https://img.example/stepwell.jpg" {
		t.Fatalf("expected cached image, got %+v", img)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 2 {
		t.Fatalf("expected cursor at 2, got %d", m.cursor)
	}
	if img := m.images["sample-living-bridges"]; img.Phase != resolve.PhaseFailed {
		t.Fatalf("expected unresolvable card to fall back, got %+v", img)
	}
	if !strings.Contains(m.View(), "Living Architecture") {
		t.Fatal("expected placeholder labelled with the collection")
	}

	m = press(t, m, runeKey('j'))
	if m.cursor != 2 {
		t.Fatalf("expected cursor to stay on the last card, got %d", m.cursor)
	}
	want := []int{0, 1, 2}
	if len(svc.preloadIndexes) != len(want) {
		t.Fatalf("expected a preload per move, got %v", svc.preloadIndexes)
	}
	for i, idx := range want {
		if svc.preloadIndexes[i] != idx {
			t.Fatalf("expected preload indexes %v, got %v", want, svc.preloadIndexes)
		}
	}
}

func TestModelUpdate_DropsStaleImageResults(t *testing.T) {
	svc := newFakeService()
	m := loadedModel(t, svc)

	updated, first := m.Update(runeKey('j'))
	m = updated.(Model)
	staleGen := m.imageGen
	updated, second := m.Update(runeKey('j'))
	m = updated.(Model)
	if m.imageGen == staleGen {
		t.Fatal("expected a new generation for the next card")
	}

	stale := tuiactions.ImageResolvedMsg{
		ContentID:  "sample-stepwell-chand-baori",
		Generation: staleGen,
		Result:     resolve.Result{Phase: resolve.PhaseResolved, URL: "https://late.example/x.jpg"},
	}
	updated, _ = m.Update(stale)
	m = updated.(Model)
	if img := m.images["sample-stepwell-chand-baori"]; img.URL != "" {
		t.Fatalf("stale result must be dropped, got %+v", img)
	}

	for _, msg := range collect(first) {
		if res, ok := msg.(tuiactions.ImageResolveErrorMsg); ok && !errors.Is(res.Err, context.Canceled) {
			t.Fatalf("superseded attempt should end cancelled, got %v", res.Err)
		}
	}
	m = settle(t, m, second)
	if img := m.images["sample-living-bridges"]; img.Phase != resolve.PhaseFailed {
		t.Fatalf("expected current card result to apply, got %+v", img)
	}
}

func TestModelUpdate_DetailAndBack(t *testing.T) {
	svc := newFakeService()
	m := loadedModel(t, svc)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 90, Height: 20})
	m = updated.(Model)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != view.ModeDetail {
		t.Fatalf("expected detail mode, got %q", m.mode)
	}
	out := m.View()
	for _, want := range []string{"The Real Story", "Why This Is Unusual"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in detail view", want)
		}
	}

	m = press(t, m, runeKey('j'))
	if m.detailTop != 1 {
		t.Fatalf("expected detail to scroll, got top %d", m.detailTop)
	}
	m = press(t, m, runeKey(']'))
	if m.cursor != 1 || m.detailTop != 0 {
		t.Fatalf("expected next card with reset scroll, got cursor %d top %d", m.cursor, m.detailTop)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != view.ModeFeed {
		t.Fatalf("expected feed after esc, got %q", m.mode)
	}
}

func TestModelUpdate_SaveAndSavedView(t *testing.T) {
	svc := newFakeService()
	m := loadedModel(t, svc)

	updated, cmd := m.Update(runeKey('s'))
	m = updated.(Model)
	msgs := collect(cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected one toggle message, got %v", msgs)
	}
	updated, _ = m.Update(msgs[0])
	m = updated.(Model)
	if !m.saved["sample-iron-pillar"] || m.status != "Saved" {
		t.Fatalf("expected card to be saved with status, got %v %q", m.saved, m.status)
	}
	if !strings.Contains(m.View(), "♥ Saved") {
		t.Fatal("expected saved mark on the card")
	}

	m = press(t, m, runeKey('v'))
	if m.mode != view.ModeSaved || len(m.savedItems) != 1 {
		t.Fatalf("expected saved view with one item, got %q %d", m.mode, len(m.savedItems))
	}
	if !strings.Contains(m.View(), "Ancient Engineering | ") {
		t.Fatal("expected saved line in saved view")
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != view.ModeDetail || !m.detailFromSaved {
		t.Fatalf("expected detail from saved, got %q", m.mode)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != view.ModeSaved {
		t.Fatalf("expected to return to saved view, got %q", m.mode)
	}

	m = press(t, m, runeKey('s'))
	if len(m.savedItems) != 0 || m.saved["sample-iron-pillar"] {
		t.Fatalf("expected unsave to empty the saved view, got %d items", len(m.savedItems))
	}
	if !strings.Contains(m.View(), "No saved items yet") {
		t.Fatal("expected empty saved message")
	}
}

func TestModelUpdate_ShareCopiesStory(t *testing.T) {
	svc := newFakeService()
	svc.urls["sample-iron-pillar"] = "https://img.example/iron.jpg"
	m := loadedModel(t, svc)

	var copied string
	m.copyFn = func(s string) error {
		copied = s
		return nil
	}
	updated, cmd := m.Update(runeKey('y'))
	m = updated.(Model)
	for _, msg := range collect(cmd) {
		updated, _ = m.Update(msg)
		m = updated.(Model)
	}
	item := m.items[0]
	if copied != item.Title+"\n\n"+item.Summary+"\n\nhttps://img.example/iron.jpg" {
		t.Fatalf("unexpected shared text: %q", copied)
	}
	if m.status != "Link copied!" {
		t.Fatalf("expected share status, got %q", m.status)
	}
}

func TestModelUpdate_FiltersAndLanguages(t *testing.T) {
	svc := newFakeService()
	m := loadedModel(t, svc)

	m = press(t, m, runeKey('c'))
	if m.collection != "Ancient Engineering" || len(m.items) != 2 {
		t.Fatalf("expected first collection filter, got %q with %d items", m.collection, len(m.items))
	}
	m = press(t, m, runeKey('c'))
	m = press(t, m, runeKey('c'))
	if m.collection != content.All || len(m.items) != 3 {
		t.Fatalf("expected collection cycle to wrap to all, got %q", m.collection)
	}

	m = press(t, m, runeKey('L'))
	if m.prefs.ContentLanguage != "en" || len(svc.contentLangs) != 1 || svc.contentLangs[0] != "en" {
		t.Fatalf("expected content language en to be persisted, got %q %v", m.prefs.ContentLanguage, svc.contentLangs)
	}
	m = press(t, m, runeKey('L'))
	if m.prefs.ContentLanguage != "hi" || len(m.items) != 0 {
		t.Fatalf("expected empty hindi feed, got %q with %d items", m.prefs.ContentLanguage, len(m.items))
	}
	if !strings.Contains(m.View(), "No cards match this filter.") {
		t.Fatal("expected empty feed message")
	}

	m = press(t, m, runeKey('l'))
	if m.prefs.AppLanguage != "hi" || svc.appLangs[0] != "hi" {
		t.Fatalf("expected app language hi, got %q", m.prefs.AppLanguage)
	}
}

func TestModelUpdate_StaleFeedIgnored(t *testing.T) {
	m := loadedModel(t, newFakeService())
	updated, _ := m.Update(tuiactions.FeedLoadSuccessMsg{Language: "kn", Collection: content.All})
	m = updated.(Model)
	if len(m.items) != 3 {
		t.Fatalf("feed for another language must be ignored, got %d items", len(m.items))
	}
}

func TestModelUpdate_FeedError(t *testing.T) {
	svc := newFakeService()
	svc.feedErr = errors.New("disk gone")
	m := loadedModel(t, svc)
	if m.err == nil || m.loading {
		t.Fatalf("expected feed error, got err=%v loading=%v", m.err, m.loading)
	}
	if !strings.Contains(m.View(), "disk gone") {
		t.Fatal("expected error in message panel")
	}
}

func TestModelUpdate_OpenImageRequiresResolvedURL(t *testing.T) {
	svc := newFakeService()
	m := loadedModel(t, svc)

	updated, cmd := m.Update(runeKey('o'))
	m = updated.(Model)
	if !strings.Contains(m.status, "no image URL") {
		t.Fatalf("expected missing image status, got %q", m.status)
	}
	if msgs := collect(cmd); len(msgs) != 0 {
		t.Fatalf("expected no open attempt, got %v", msgs)
	}

	m.images[m.items[0].ID] = view.ImageState{Phase: resolve.PhaseResolved, URL: "https://img.example/a.jpg"}
	var opened string
	m.openURLFn = func(u string) error {
		opened = u
		return nil
	}
	_, cmd = m.Update(runeKey('o'))
	msgs := collect(cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected one open message, got %v", msgs)
	}
	if _, ok := msgs[0].(tuiactions.OpenURLSuccessMsg); !ok || opened != "https://img.example/a.jpg" {
		t.Fatalf("unexpected open result %T %q", msgs[0], opened)
	}
}

func TestModelUpdate_InlinePreview(t *testing.T) {
	svc := newFakeService()
	svc.urls["sample-iron-pillar"] = "https://img.example/iron.jpg"
	m := loadedModel(t, svc)
	m.renderImageFn = func(url string, _ int) (string, error) {
		if url != "https://img.example/iron.jpg" {
			return "", errors.New("wrong url")
		}
		return "@@@@", nil
	}

	m = press(t, m, runeKey('i'))
	if m.mode != view.ModeDetail {
		t.Fatalf("expected preview to open the detail panel, got %q", m.mode)
	}
	if m.imagePreview["sample-iron-pillar"] != "@@@@" {
		t.Fatalf("expected rendered preview, got %q", m.imagePreview["sample-iron-pillar"])
	}
	if !strings.Contains(m.View(), "@@@@") {
		t.Fatal("expected preview in detail view")
	}
}

func TestModelUpdate_HelpAndQuit(t *testing.T) {
	m := loadedModel(t, newFakeService())
	m = press(t, m, runeKey('?'))
	if !m.showHelp || !strings.Contains(m.View(), "s save or unsave") {
		t.Fatal("expected help view")
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.showHelp {
		t.Fatal("expected help to close")
	}
	_, cmd := m.Update(runeKey('q'))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected QuitMsg")
	}
}

func TestModelUpdate_ClearStatusOnlyForLatest(t *testing.T) {
	m := newTestModel(newFakeService())
	_ = m.setStatus("first")
	_ = m.setStatus("second")
	updated, _ := m.Update(clearStatusMsg{id: 1})
	m = updated.(Model)
	if m.status != "second" {
		t.Fatalf("expected newer status to survive, got %q", m.status)
	}
	updated, _ = m.Update(clearStatusMsg{id: 2})
	if updated.(Model).status != "" {
		t.Fatal("expected status to clear")
	}
}
