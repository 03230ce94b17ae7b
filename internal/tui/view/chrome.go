package view

import (
	"fmt"
	"strings"

	"github.com/glabrego/curio-cli/internal/content"
	"github.com/glabrego/curio-cli/internal/tui/i18n"
	tuitheme "github.com/glabrego/curio-cli/internal/tui/theme"
)

const (
	ModeFeed   = "feed"
	ModeDetail = "detail"
	ModeSaved  = "saved"
	ModeFirst  = "language"
)

func Toolbar(mode string) string {
	switch mode {
	case ModeDetail:
		return "j/k scroll | [ ] prev/next | s save | y share | i preview | o open | esc back | ? help"
	case ModeSaved:
		return "j/k move | enter open | s unsave | esc back | ? help"
	case ModeFirst:
		return "tab switch | j/k choose | enter start | q quit"
	default:
		return "j/k swipe | enter story | s save | y share | v saved | c collection | L language | ? help"
	}
}

func Header(strs i18n.Strings, mode string, th tuitheme.Theme) string {
	return th.Title.Render(strs.AppName) + " " + th.Subtext.Render(strs.Tagline) + " " + th.ModePill.Render(mode)
}

func CompactFooter(appLang, contentLang, collection string, shown, saved int, strs i18n.Strings, th tuitheme.Theme) string {
	langLabel := contentLang
	if contentLang == content.All {
		langLabel = strs.AllLanguages
	} else if name, ok := content.LanguageName(contentLang); ok {
		langLabel = name
	}
	collLabel := strs.All
	if collection != content.All {
		collLabel = strs.Collection(collection)
	}
	parts := []string{
		th.MetaLabel.Render("ui") + " " + th.MetaValue.Render(appLang),
		th.MetaLabel.Render("content") + " " + th.MetaValue.Render(langLabel),
		th.MetaLabel.Render(strings.ToLower(strs.Filter)) + " " + th.MetaValue.Render(collLabel),
		th.MetaValue.Render(fmt.Sprintf("%d shown", shown)),
		th.SavedMark.Render(fmt.Sprintf("♥ %d", saved)),
	}
	return strings.Join(parts, " • ")
}

func CompactMessage(loading bool, hasWarning bool, status, warning string, th tuitheme.Theme) string {
	state := "idle"
	if loading {
		state = "loading"
	}
	if hasWarning {
		state = "warning"
	}
	main := "Ready"
	if status != "" {
		main = status
	} else if hasWarning {
		main = warning
	}
	stateLabel := th.StateIdle.Render("state")
	switch state {
	case "warning":
		stateLabel = th.StateWarn.Render("state")
	case "loading":
		stateLabel = th.StateLoad.Render("state")
	}
	return fmt.Sprintf("%s: %s | %s", stateLabel, state, th.MetaValue.Render(main))
}

func HelpLines() []string {
	return []string{
		"Feed:",
		"  j/k or arrows swipe between cards, g/G jump to first/last, pgup/pgdown skip",
		"  enter opens the full story, esc/backspace returns",
		"Cards:",
		"  s save or unsave, y share (copies title, story and image link)",
		"  i inline image preview via chafa, o open image in browser",
		"Filters:",
		"  c cycle collection, L cycle content language, l cycle app language",
		"Views:",
		"  v saved items, S toggle sound, ? help, q quit",
	}
}

// LanguagePickerLines renders the first-open chooser. focus is 0 for the app
// language column and 1 for the content language column.
func LanguagePickerLines(strs i18n.Strings, appLang, contentLang string, focus int, th tuitheme.Theme) []string {
	lines := []string{th.Section.Render(strs.SelectLanguage), ""}
	column := func(title string, codes []string, current string, active bool) {
		heading := title
		if active {
			heading = "> " + heading
		} else {
			heading = "  " + heading
		}
		lines = append(lines, th.MetaLabel.Render(heading))
		for _, code := range codes {
			label := code
			if code == content.All {
				label = strs.AllLanguages
			} else if name, ok := content.LanguageName(code); ok {
				label = name
			}
			marker := "( )"
			if code == current {
				marker = "(•)"
			}
			lines = append(lines, th.RenderActiveLine(active && code == current, "    "+marker+" "+label))
		}
		lines = append(lines, "")
	}
	column(strs.AppLanguage, content.AppLanguageCodes, appLang, focus == 0)
	column(strs.ContentLanguage, content.ContentLanguageCodes(), contentLang, focus == 1)
	lines = append(lines, th.Title.Render("[ "+strs.StartExploring+" ]"))
	return lines
}
