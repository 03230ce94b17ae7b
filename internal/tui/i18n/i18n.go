// Package i18n holds the interface strings for each app language.
package i18n

type Strings struct {
	AppName                 string
	Tagline                 string
	StartExploring          string
	TheRealStory            string
	WhyUnusual              string
	WhatWeKnow              string
	WhatWeDontKnow          string
	CommonMisunderstandings string
	EvidenceLevel           string
	Saved                   string
	Share                   string
	SelectLanguage          string
	AppLanguage             string
	ContentLanguage         string
	AllLanguages            string
	FeedRefreshed           string
	NewItemsAdded           string
	LinkCopied              string
	ShareFailed             string
	Close                   string
	ClearAll                string
	Disclaimer              string
	Collections             string
	Filter                  string
	All                     string
	Verified                string
	Strong                  string
	Emerging                string
	Theoretical             string
	Debated                 string
	NoSavedItems            string
	BackToFeed              string
	SavedItems              string
}

var tables = map[string]Strings{
	"en": {
		AppName:                 "CURIO",
		Tagline:                 "Discover Hidden Wonders",
		StartExploring:          "Start Exploring",
		TheRealStory:            "The Real Story",
		WhyUnusual:              "Why This Is Unusual",
		WhatWeKnow:              "What We Know",
		WhatWeDontKnow:          "What We Don't Know",
		CommonMisunderstandings: "Common Misunderstandings",
		EvidenceLevel:           "Evidence Level",
		Saved:                   "Saved",
		Share:                   "Share",
		SelectLanguage:          "Select Language",
		AppLanguage:             "App Language",
		ContentLanguage:         "Content Language",
		AllLanguages:            "All Languages",
		FeedRefreshed:           "Feed refreshed!",
		NewItemsAdded:           "new items added!",
		LinkCopied:              "Link copied!",
		ShareFailed:             "Could not share",
		Close:                   "Close",
		ClearAll:                "Clear All",
		Disclaimer:              "Compiled from established historical and scientific sources. Claims graded by evidence strength.",
		Collections:             "Collections",
		Filter:                  "Filter",
		All:                     "All",
		Verified:                "Verified",
		Strong:                  "Strong",
		Emerging:                "Emerging",
		Theoretical:             "Theoretical",
		Debated:                 "Debated",
		NoSavedItems:            "No saved items yet",
		BackToFeed:              "Back to Feed",
		SavedItems:              "Saved Items",
	},
	"hi": {
		AppName:                 "CURIO",
		Tagline:                 "छुपे हुए अजूबे खोजें",
		StartExploring:          "खोज शुरू करें",
		TheRealStory:            "असली कहानी",
		WhyUnusual:              "यह असामान्य क्यों है",
		WhatWeKnow:              "हम क्या जानते हैं",
		WhatWeDontKnow:          "हम क्या नहीं जानते",
		CommonMisunderstandings: "आम गलतफहमियां",
		EvidenceLevel:           "प्रमाण स्तर",
		Saved:                   "सहेजा गया",
		Share:                   "शेयर करें",
		SelectLanguage:          "भाषा चुनें",
		AppLanguage:             "ऐप भाषा",
		ContentLanguage:         "सामग्री भाषा",
		AllLanguages:            "सभी भाषाएं",
		FeedRefreshed:           "फ़ीड ताज़ा हो गई!",
		NewItemsAdded:           "नई पोस्ट जोड़ी गईं!",
		LinkCopied:              "लिंक कॉपी हो गया!",
		ShareFailed:             "शेयर नहीं हो सका",
		Close:                   "बंद करें",
		ClearAll:                "सभी हटाएं",
		Disclaimer:              "स्थापित ऐतिहासिक और वैज्ञानिक स्रोतों से संकलित।",
		Collections:             "संग्रह",
		Filter:                  "फ़िल्टर",
		All:                     "सभी",
		Verified:                "सत्यापित",
		Strong:                  "मजबूत",
		Emerging:                "उभरता",
		Theoretical:             "सैद्धांतिक",
		Debated:                 "विवादित",
		NoSavedItems:            "अभी तक कोई सहेजी गई पोस्ट नहीं",
		BackToFeed:              "फ़ीड पर वापस",
		SavedItems:              "सहेजी गई पोस्ट",
	},
	"kn": {
		AppName:                 "CURIO",
		Tagline:                 "ಅಡಗಿರುವ ಅದ್ಭುತಗಳನ್ನು ಅನ್ವೇಷಿಸಿ",
		StartExploring:          "ಅನ್ವೇಷಣೆ ಪ್ರಾರಂಭಿಸಿ",
		TheRealStory:            "ನಿಜವಾದ ಕಥೆ",
		WhyUnusual:              "ಇದು ಏಕೆ ಅಸಾಮಾನ್ಯ",
		WhatWeKnow:              "ನಮಗೆ ತಿಳಿದಿರುವುದು",
		WhatWeDontKnow:          "ನಮಗೆ ತಿಳಿಯದಿರುವುದು",
		CommonMisunderstandings: "ಸಾಮಾನ್ಯ ತಪ್ಪು ಕಲ್ಪನೆಗಳು",
		EvidenceLevel:           "ಸಾಕ್ಷ್ಯ ಮಟ್ಟ",
		Saved:                   "ಉಳಿಸಲಾಗಿದೆ",
		Share:                   "ಹಂಚಿಕೊಳ್ಳಿ",
		SelectLanguage:          "ಭಾಷೆ ಆಯ್ಕೆಮಾಡಿ",
		AppLanguage:             "ಆಪ್ ಭಾಷೆ",
		ContentLanguage:         "ವಿಷಯ ಭಾಷೆ",
		AllLanguages:            "ಎಲ್ಲಾ ಭಾಷೆಗಳು",
		FeedRefreshed:           "ಫೀಡ್ ರಿಫ್ರೆಶ್ ಆಯಿತು!",
		NewItemsAdded:           "ಹೊಸ ಪೋಸ್ಟ್‌ಗಳು ಸೇರಿಸಲಾಗಿದೆ!",
		LinkCopied:              "ಲಿಂಕ್ ಕಾಪಿ ಆಯಿತು!",
		ShareFailed:             "ಹಂಚಿಕೊಳ್ಳಲು ಸಾಧ್ಯವಾಗಲಿಲ್ಲ",
		Close:                   "ಮುಚ್ಚಿ",
		ClearAll:                "ಎಲ್ಲಾ ಅಳಿಸಿ",
		Disclaimer:              "ಸ್ಥಾಪಿತ ಐತಿಹಾಸಿಕ ಮತ್ತು ವೈಜ್ಞಾನಿಕ ಮೂಲಗಳಿಂದ ಸಂಕಲಿಸಲಾಗಿದೆ.",
		Collections:             "ಸಂಗ್ರಹಗಳು",
		Filter:                  "ಫಿಲ್ಟರ್",
		All:                     "ಎಲ್ಲಾ",
		Verified:                "ಪರಿಶೀಲಿತ",
		Strong:                  "ಬಲವಾದ",
		Emerging:                "ಉದಯೋನ್ಮುಖ",
		Theoretical:             "ಸೈದ್ಧಾಂತಿಕ",
		Debated:                 "ವಿವಾದಿತ",
		NoSavedItems:            "ಇನ್ನೂ ಯಾವುದೇ ಉಳಿಸಿದ ಪೋಸ್ಟ್‌ಗಳಿಲ್ಲ",
		BackToFeed:              "ಫೀಡ್‌ಗೆ ಹಿಂತಿರುಗಿ",
		SavedItems:              "ಉಳಿಸಿದ ಪೋಸ್ಟ್‌ಗಳು",
	},
}

// For returns the strings for lang, falling back to English.
func For(lang string) Strings {
	if s, ok := tables[lang]; ok {
		return s
	}
	return tables["en"]
}

// Tier translates an evidence tier, returning unknown tiers unchanged.
func (s Strings) Tier(tier string) string {
	switch tier {
	case "verified":
		return s.Verified
	case "strong":
		return s.Strong
	case "emerging":
		return s.Emerging
	case "theoretical":
		return s.Theoretical
	case "debated":
		return s.Debated
	}
	return tier
}

// Collection translates the all-collections entry and leaves names alone.
func (s Strings) Collection(name string) string {
	if name == "all" {
		return s.All
	}
	return name
}
