package content

type Language struct {
	Code   string
	Name   string
	Native string
}

var Languages = []Language{
	{Code: "en", Name: "English", Native: "English"},
	{Code: "hi", Name: "Hindi", Native: "हिन्दी"},
	{Code: "kn", Name: "Kannada", Native: "ಕನ್ನಡ"},
	{Code: "ta", Name: "Tamil", Native: "தமிழ்"},
	{Code: "te", Name: "Telugu", Native: "తెలుగు"},
	{Code: "bn", Name: "Bengali", Native: "বাংলা"},
	{Code: "mr", Name: "Marathi", Native: "मराठी"},
	{Code: "gu", Name: "Gujarati", Native: "ગુજરાતી"},
	{Code: "ml", Name: "Malayalam", Native: "മലയാളം"},
	{Code: "pa", Name: "Punjabi", Native: "ਪੰਜਾਬੀ"},
	{Code: "or", Name: "Odia", Native: "ଓଡ଼ିଆ"},
}

// AppLanguageCodes are the languages the interface itself is translated into.
var AppLanguageCodes = []string{"en", "hi", "kn"}

// ContentLanguageCodes is All followed by every known language code.
func ContentLanguageCodes() []string {
	out := make([]string, 0, len(Languages)+1)
	out = append(out, All)
	for _, l := range Languages {
		out = append(out, l.Code)
	}
	return out
}

func IsAppLanguage(code string) bool {
	for _, c := range AppLanguageCodes {
		if c == code {
			return true
		}
	}
	return false
}

func IsContentLanguage(code string) bool {
	for _, c := range ContentLanguageCodes() {
		if c == code {
			return true
		}
	}
	return false
}

// Next returns the entry after current in codes, wrapping around. An unknown
// current yields the first entry.
func Next(codes []string, current string) string {
	if len(codes) == 0 {
		return current
	}
	for i, c := range codes {
		if c == current {
			return codes[(i+1)%len(codes)]
		}
	}
	return codes[0]
}

// LanguageName returns the native name for code.
func LanguageName(code string) (string, bool) {
	for _, l := range Languages {
		if l.Code == code {
			return l.Native, true
		}
	}
	return "", false
}

// Prev is Next in the other direction.
func Prev(codes []string, current string) string {
	if len(codes) == 0 {
		return current
	}
	for i, c := range codes {
		if c == current {
			return codes[(i-1+len(codes))%len(codes)]
		}
	}
	return codes[0]
}
