package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/glabrego/curio-cli/internal/content"
	"github.com/glabrego/curio-cli/internal/logger"
	"github.com/glabrego/curio-cli/internal/preload"
	"github.com/glabrego/curio-cli/internal/resolve"
	"github.com/glabrego/curio-cli/internal/storage"
)

const (
	KeyAppLanguage     = "curio_app_lang_v1"
	KeyContentLanguage = "curio_content_lang_v1"
	KeyFirstOpen       = "curio_first_open_v1"
	KeySaved           = "curio_saved_v1"
	KeyImported        = "curio_imported_v1"
	KeySound           = "curio_sound_v1"
)

// HeadPreloadCount is how many cards are warmed when a feed is loaded.
const HeadPreloadCount = 5

type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type ImageCache interface {
	Get(contentID string) (string, bool)
	Clear(ctx context.Context) error
}

type Resolver interface {
	Resolve(ctx context.Context, contentID, ref string, observe resolve.Observer) (resolve.Result, error)
}

type Preloader interface {
	Schedule(items []preload.Target, fromIndex, windowSize int) int
	ScheduleHead(items []preload.Target, n int) int
}

type Options struct {
	PreloadWindow int
	Logger        logger.Logger
}

type Preferences struct {
	AppLanguage     string
	ContentLanguage string
	SoundEnabled    bool
	// FirstOpen is true until the language picker has been confirmed once.
	FirstOpen bool
}

func DefaultPreferences() Preferences {
	return Preferences{
		AppLanguage:     content.DefaultLanguage,
		ContentLanguage: content.All,
		SoundEnabled:    true,
		FirstOpen:       true,
	}
}

type Service struct {
	repo      Repository
	images    ImageCache
	resolver  Resolver
	preloader Preloader
	window    int
	log       logger.Logger
}

func NewService(repo Repository, images ImageCache, resolver Resolver, preloader Preloader, opts Options) *Service {
	window := opts.PreloadWindow
	if window < 1 {
		window = 6
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		repo:      repo,
		images:    images,
		resolver:  resolver,
		preloader: preloader,
		window:    window,
		log:       log,
	}
}

func (s *Service) LoadPreferences(ctx context.Context) (Preferences, error) {
	prefs := DefaultPreferences()

	if v, ok, err := s.getString(ctx, KeyAppLanguage); err != nil {
		return prefs, err
	} else if ok && content.IsAppLanguage(v) {
		prefs.AppLanguage = v
	}
	if v, ok, err := s.getString(ctx, KeyContentLanguage); err != nil {
		return prefs, err
	} else if ok && content.IsContentLanguage(v) {
		prefs.ContentLanguage = v
	}
	if v, ok, err := s.getString(ctx, KeySound); err != nil {
		return prefs, err
	} else if ok {
		prefs.SoundEnabled = v == "true"
	}
	if _, ok, err := s.getString(ctx, KeyFirstOpen); err != nil {
		return prefs, err
	} else if ok {
		prefs.FirstOpen = false
	}
	return prefs, nil
}

func (s *Service) SetAppLanguage(ctx context.Context, lang string) error {
	if !content.IsAppLanguage(lang) {
		return fmt.Errorf("unsupported app language %q", lang)
	}
	if err := s.repo.Put(ctx, KeyAppLanguage, lang); err != nil {
		return fmt.Errorf("save app language: %w", err)
	}
	return nil
}

func (s *Service) SetContentLanguage(ctx context.Context, lang string) error {
	if !content.IsContentLanguage(lang) {
		return fmt.Errorf("unsupported content language %q", lang)
	}
	if err := s.repo.Put(ctx, KeyContentLanguage, lang); err != nil {
		return fmt.Errorf("save content language: %w", err)
	}
	return nil
}

func (s *Service) SetSound(ctx context.Context, enabled bool) error {
	if err := s.repo.Put(ctx, KeySound, strconv.FormatBool(enabled)); err != nil {
		return fmt.Errorf("save sound preference: %w", err)
	}
	return nil
}

// CompleteFirstOpen records that the language picker was confirmed, along
// with the languages chosen.
func (s *Service) CompleteFirstOpen(ctx context.Context, appLang, contentLang string) error {
	if err := s.SetAppLanguage(ctx, appLang); err != nil {
		return err
	}
	if err := s.SetContentLanguage(ctx, contentLang); err != nil {
		return err
	}
	if err := s.repo.Put(ctx, KeyFirstOpen, "true"); err != nil {
		return fmt.Errorf("save first open flag: %w", err)
	}
	return nil
}

// Imported returns the stored imported items, newest first. A corrupt record
// reads as empty.
func (s *Service) Imported(ctx context.Context) ([]content.Item, error) {
	raw, ok, err := s.getString(ctx, KeyImported)
	if err != nil || !ok {
		return nil, err
	}
	var items []content.Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.log.Warn("imported items record is corrupt", logger.Error(err))
		return nil, nil
	}
	return items, nil
}

// AllItems is imported items followed by the built-in samples.
func (s *Service) AllItems(ctx context.Context) ([]content.Item, error) {
	imported, err := s.Imported(ctx)
	if err != nil {
		return nil, err
	}
	return append(imported, content.Samples()...), nil
}

func (s *Service) Feed(ctx context.Context, language, collection string) ([]content.Item, error) {
	all, err := s.AllItems(ctx)
	if err != nil {
		return nil, err
	}
	return content.Filter(all, language, collection), nil
}

// Collections lists the filter choices: all, then sample collections, then
// imported ones.
func (s *Service) Collections(ctx context.Context) ([]string, error) {
	imported, err := s.Imported(ctx)
	if err != nil {
		return nil, err
	}
	return content.Collections(append(content.Samples(), imported...)), nil
}

func (s *Service) Import(ctx context.Context, data []byte) (int, error) {
	incoming, err := content.ParseImport(data)
	if err != nil {
		return 0, err
	}
	existing, err := s.Imported(ctx)
	if err != nil {
		return 0, err
	}
	merged, added := content.MergeImported(existing, incoming)
	encoded, err := json.Marshal(merged)
	if err != nil {
		return 0, fmt.Errorf("encode imported items: %w", err)
	}
	if err := s.repo.Put(ctx, KeyImported, string(encoded)); err != nil {
		return 0, fmt.Errorf("save imported items: %w", err)
	}
	s.log.Info("imported items", logger.Int("added", added), logger.Int("total", len(merged)))
	return added, nil
}

// ClearImported drops every imported item along with the image cache.
func (s *Service) ClearImported(ctx context.Context) error {
	if err := s.repo.Delete(ctx, KeyImported); err != nil {
		return fmt.Errorf("delete imported items: %w", err)
	}
	if err := s.images.Clear(ctx); err != nil {
		return fmt.Errorf("clear image cache: %w", err)
	}
	return nil
}

func (s *Service) SavedIDs(ctx context.Context) ([]string, error) {
	raw, ok, err := s.getString(ctx, KeySaved)
	if err != nil || !ok {
		return nil, err
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		s.log.Warn("saved items record is corrupt", logger.Error(err))
		return nil, nil
	}
	return ids, nil
}

// ToggleSaved flips id in the saved list and returns whether it is now saved.
func (s *Service) ToggleSaved(ctx context.Context, id string) (bool, error) {
	ids, err := s.SavedIDs(ctx)
	if err != nil {
		return false, err
	}
	next := make([]string, 0, len(ids)+1)
	saved := true
	for _, existing := range ids {
		if existing == id {
			saved = false
			continue
		}
		next = append(next, existing)
	}
	if saved {
		next = append(next, id)
	}
	encoded, err := json.Marshal(next)
	if err != nil {
		return false, fmt.Errorf("encode saved items: %w", err)
	}
	if err := s.repo.Put(ctx, KeySaved, string(encoded)); err != nil {
		return false, fmt.Errorf("save saved items: %w", err)
	}
	return saved, nil
}

// SavedItems returns saved items in feed order.
func (s *Service) SavedItems(ctx context.Context) ([]content.Item, error) {
	ids, err := s.SavedIDs(ctx)
	if err != nil {
		return nil, err
	}
	all, err := s.AllItems(ctx)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	out := make([]content.Item, 0, len(ids))
	for _, it := range all {
		if _, ok := set[it.ID]; ok {
			out = append(out, it)
		}
	}
	return out, nil
}

// CachedImage returns the remembered image URL for id, if any.
func (s *Service) CachedImage(id string) (string, bool) {
	return s.images.Get(id)
}

func (s *Service) ResolveImage(ctx context.Context, item content.Item, observe resolve.Observer) (resolve.Result, error) {
	return s.resolver.Resolve(ctx, item.ID, item.ImageURL, observe)
}

// PreloadAround warms the window of cards after index.
func (s *Service) PreloadAround(items []content.Item, index int) int {
	return s.preloader.Schedule(Targets(items), index, s.window)
}

// PreloadHead warms the first cards of a freshly loaded feed.
func (s *Service) PreloadHead(items []content.Item) int {
	return s.preloader.ScheduleHead(Targets(items), HeadPreloadCount)
}

func Targets(items []content.Item) []preload.Target {
	out := make([]preload.Target, len(items))
	for i, it := range items {
		out[i] = preload.Target{ContentID: it.ID, ImageRef: it.ImageURL}
	}
	return out
}

func (s *Service) getString(ctx context.Context, key string) (string, bool, error) {
	v, err := s.repo.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load %s: %w", key, err)
	}
	return v, true, nil
}
