package actions

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/curio-cli/internal/app"
	"github.com/glabrego/curio-cli/internal/content"
	"github.com/glabrego/curio-cli/internal/resolve"
)

type Service interface {
	LoadPreferences(ctx context.Context) (app.Preferences, error)
	Feed(ctx context.Context, language, collection string) ([]content.Item, error)
	Collections(ctx context.Context) ([]string, error)
	SavedIDs(ctx context.Context) ([]string, error)
	SavedItems(ctx context.Context) ([]content.Item, error)
	ToggleSaved(ctx context.Context, id string) (bool, error)
	SetAppLanguage(ctx context.Context, lang string) error
	SetContentLanguage(ctx context.Context, lang string) error
	SetSound(ctx context.Context, enabled bool) error
	CompleteFirstOpen(ctx context.Context, appLang, contentLang string) error
	CachedImage(id string) (string, bool)
	ResolveImage(ctx context.Context, item content.Item, observe resolve.Observer) (resolve.Result, error)
	PreloadAround(items []content.Item, index int) int
	PreloadHead(items []content.Item) int
}

// resolveTimeout covers the metadata lookups plus every probe of one attempt.
const resolveTimeout = 30 * time.Second

type PreferencesLoadSuccessMsg struct {
	Preferences app.Preferences
}

type PreferencesLoadErrorMsg struct {
	Err error
}

type FeedLoadSuccessMsg struct {
	Language    string
	Collection  string
	Items       []content.Item
	Collections []string
	SavedIDs    []string
	Duration    time.Duration
}

type FeedLoadErrorMsg struct {
	Err error
}

type SavedLoadSuccessMsg struct {
	Items []content.Item
}

type SavedLoadErrorMsg struct {
	Err error
}

type ToggleSavedSuccessMsg struct {
	ContentID string
	Saved     bool
}

type PreferenceSavedMsg struct {
	Key string
}

type ActionErrorMsg struct {
	Err error
}

type ImageResolvedMsg struct {
	ContentID  string
	Generation uint64
	Result     resolve.Result
}

type ImageResolveErrorMsg struct {
	ContentID  string
	Generation uint64
	Err        error
}

type ShareSuccessMsg struct {
	ContentID string
}

type ShareErrorMsg struct {
	Err error
}

type OpenURLSuccessMsg struct {
	Status string
	Opened bool
}

type OpenURLErrorMsg struct {
	Err error
}

type ImagePreviewSuccessMsg struct {
	ContentID string
	Raw       string
}

type ImagePreviewErrorMsg struct {
	ContentID string
	Err       error
}

func LoadPreferencesCmd(service Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		prefs, err := service.LoadPreferences(ctx)
		if err != nil {
			return PreferencesLoadErrorMsg{Err: err}
		}
		return PreferencesLoadSuccessMsg{Preferences: prefs}
	}
}

// LoadFeedCmd loads the filtered feed together with the collection choices
// and saved ids so the model can replace all three at once.
func LoadFeedCmd(service Service, language, collection string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		start := time.Now()

		items, err := service.Feed(ctx, language, collection)
		if err != nil {
			return FeedLoadErrorMsg{Err: err}
		}
		collections, err := service.Collections(ctx)
		if err != nil {
			return FeedLoadErrorMsg{Err: err}
		}
		saved, err := service.SavedIDs(ctx)
		if err != nil {
			return FeedLoadErrorMsg{Err: err}
		}
		service.PreloadHead(items)
		return FeedLoadSuccessMsg{
			Language:    language,
			Collection:  collection,
			Items:       items,
			Collections: collections,
			SavedIDs:    saved,
			Duration:    time.Since(start),
		}
	}
}

func LoadSavedCmd(service Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		items, err := service.SavedItems(ctx)
		if err != nil {
			return SavedLoadErrorMsg{Err: err}
		}
		return SavedLoadSuccessMsg{Items: items}
	}
}

func ToggleSavedCmd(service Service, contentID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		saved, err := service.ToggleSaved(ctx, contentID)
		if err != nil {
			return ActionErrorMsg{Err: err}
		}
		return ToggleSavedSuccessMsg{ContentID: contentID, Saved: saved}
	}
}

func SetAppLanguageCmd(service Service, lang string) tea.Cmd {
	return savePreference(app.KeyAppLanguage, func(ctx context.Context) error {
		return service.SetAppLanguage(ctx, lang)
	})
}

func SetContentLanguageCmd(service Service, lang string) tea.Cmd {
	return savePreference(app.KeyContentLanguage, func(ctx context.Context) error {
		return service.SetContentLanguage(ctx, lang)
	})
}

func SetSoundCmd(service Service, enabled bool) tea.Cmd {
	return savePreference(app.KeySound, func(ctx context.Context) error {
		return service.SetSound(ctx, enabled)
	})
}

func CompleteFirstOpenCmd(service Service, appLang, contentLang string) tea.Cmd {
	return savePreference(app.KeyFirstOpen, func(ctx context.Context) error {
		return service.CompleteFirstOpen(ctx, appLang, contentLang)
	})
}

func savePreference(key string, save func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := save(ctx); err != nil {
			return ActionErrorMsg{Err: err}
		}
		return PreferenceSavedMsg{Key: key}
	}
}

// ResolveImageCmd runs one visible-card attempt under ctx, which the caller
// obtained from resolve.Generations. The generation travels with the result so
// the model can drop answers for cards it has already left.
func ResolveImageCmd(ctx context.Context, service Service, item content.Item, generation uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, resolveTimeout)
		defer cancel()

		res, err := service.ResolveImage(ctx, item, nil)
		if err != nil {
			return ImageResolveErrorMsg{ContentID: item.ID, Generation: generation, Err: err}
		}
		return ImageResolvedMsg{ContentID: item.ID, Generation: generation, Result: res}
	}
}

// PreloadCmd schedules the window after index. Scheduling never blocks, so
// the command reports nothing back.
func PreloadCmd(service Service, items []content.Item, index int) tea.Cmd {
	return func() tea.Msg {
		service.PreloadAround(items, index)
		return nil
	}
}

func ShareCmd(item content.Item, url string, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if copyFn == nil {
			return ShareErrorMsg{Err: fmt.Errorf("no clipboard available")}
		}
		if err := copyFn(item.ShareText(url)); err != nil {
			return ShareErrorMsg{Err: err}
		}
		return ShareSuccessMsg{ContentID: item.ID}
	}
}

func OpenURLCmd(url string, openFn, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if openFn != nil {
			if err := openFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Opened image in browser", Opened: true}
			}
		}
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Could not open browser, URL copied to clipboard", Opened: false}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not open URL or copy to clipboard")}
	}
}

func CopyURLCmd(url string, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "URL copied to clipboard"}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not copy URL to clipboard")}
	}
}

func ImagePreviewCmd(contentID, url string, width int, render func(string, int) (string, error)) tea.Cmd {
	return func() tea.Msg {
		raw, err := render(url, width)
		if err != nil {
			return ImagePreviewErrorMsg{ContentID: contentID, Err: err}
		}
		return ImagePreviewSuccessMsg{ContentID: contentID, Raw: raw}
	}
}
