package content

import (
	"strings"
	"testing"
)

func ids(items []Item) string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return strings.Join(out, ",")
}

func TestFilter(t *testing.T) {
	items := []Item{
		{ID: "1", Collection: "Oceans", Language: "en"},
		{ID: "2", Collection: "Oceans", Language: "hi"},
		{ID: "3", Collection: "Forts"},
	}

	cases := []struct {
		lang, coll, want string
	}{
		{All, All, "1,2,3"},
		{"en", All, "1,3"},
		{"hi", All, "2"},
		{All, "Oceans", "1,2"},
		{"en", "Forts", "3"},
		{"kn", All, ""},
	}
	for _, tc := range cases {
		if got := ids(Filter(items, tc.lang, tc.coll)); got != tc.want {
			t.Fatalf("Filter(%q, %q) = %q, want %q", tc.lang, tc.coll, got, tc.want)
		}
	}
}

func TestCollections(t *testing.T) {
	got := Collections([]Item{
		{Collection: "Oceans"}, {Collection: "Forts"}, {Collection: "Oceans"},
	})
	if strings.Join(got, ",") != "all,Oceans,Forts" {
		t.Fatalf("unexpected collections: %v", got)
	}
}

func TestSamples(t *testing.T) {
	items := Samples()
	if got := ids(items); got != "sample-iron-pillar,sample-stepwell-chand-baori,sample-living-bridges" {
		t.Fatalf("unexpected samples: %s", got)
	}
	for _, it := range items {
		if err := validate.Struct(it); err != nil {
			t.Fatalf("sample %s fails validation: %v", it.ID, err)
		}
		if !strings.HasPrefix(it.ImageURL, "https://upload.wikimedia.org/") {
			t.Fatalf("sample %s has unexpected image %q", it.ID, it.ImageURL)
		}
	}

	items[0].Title = "mutated"
	if Samples()[0].Title == "mutated" {
		t.Fatal("Samples must return a fresh copy")
	}
}

func TestShareText(t *testing.T) {
	it := Item{Title: "Pillar", Summary: "Never rusts."}
	if got := it.ShareText("https://img/p.jpg"); got != "Pillar\n\nNever rusts.\n\nhttps://img/p.jpg" {
		t.Fatalf("unexpected share text: %q", got)
	}
	if got := it.ShareText(""); got != "Pillar\n\nNever rusts." {
		t.Fatalf("unexpected share text without url: %q", got)
	}
	if got := (Item{}).Lang(); got != "en" {
		t.Fatalf("expected default language en, got %q", got)
	}
}

func TestLanguages(t *testing.T) {
	if !IsAppLanguage("kn") || IsAppLanguage("ta") {
		t.Fatal("unexpected app language set")
	}
	if !IsContentLanguage(All) || !IsContentLanguage("ta") || IsContentLanguage("xx") {
		t.Fatal("unexpected content language set")
	}
	if got := Next(AppLanguageCodes, "kn"); got != "en" {
		t.Fatalf("expected wrap to en, got %q", got)
	}
	if got := Next(AppLanguageCodes, "zz"); got != "en" {
		t.Fatalf("expected unknown to reset to en, got %q", got)
	}
	if got := Next([]string{"all", "Oceans"}, "all"); got != "Oceans" {
		t.Fatalf("unexpected next collection %q", got)
	}
	if got := Prev(AppLanguageCodes, "en"); got != "kn" {
		t.Fatalf("expected backwards wrap to kn, got %q", got)
	}
	if name, ok := LanguageName("kn"); !ok || name != "ಕನ್ನಡ" {
		t.Fatalf("unexpected language name %q", name)
	}
	if _, ok := LanguageName(All); ok {
		t.Fatal("all is not a language")
	}
}
