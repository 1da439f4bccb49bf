package emoji

// emojiMap holds emoji and fallback mappings
var emojiMap = map[string][2]string{
	// [emoji, fallback]
	"error":      {"❌", "[ERR]"},
	"warning":    {"⚠️", "[WRN]"},
	"info":       {"ℹ️", "[INF]"},
	"success":    {"✅", "[OK]"},
	"insight":    {"💡", "[INS]"},
	"statistics": {"📊", "[STATS]"},
	"trend":      {"📈", "[TRD]"},
	"history":    {"📜", "[HIS]"},
	"positive":   {"😊", "[+]"},
	"negative":   {"😞", "[-]"},
	"category":   {"🏷️", "[CAT]"},
	"rating":     {"⭐", "[*]"},
	"model":      {"🧠", "[MDL]"},
	"server":     {"🌐", "[SRV]"},
	"rocket":     {"🚀", "[RUN]"},
	"file":       {"📄", "[FILE]"},
	"folder":     {"📁", "[DIR]"},
	"help":       {"❓", "[?]"},
	"target":     {"🎯", "[>]"},
	"door":       {"🚪", "[EXIT]"},
	"number":     {"🔢", "[#]"},
	"cache":      {"💾", "[CACHE]"},
}

// Set renders emoji keys, or their ASCII fallbacks when Disabled
type Set struct {
	Disabled bool
}

// New returns a Set honoring the no-emoji setting
func New(disabled bool) Set {
	return Set{Disabled: disabled}
}

// Get returns emoji or fallback based on the no-emoji setting
func (s Set) Get(key string) string {
	if mapping, exists := emojiMap[key]; exists {
		if s.Disabled {
			return mapping[1] // fallback
		}
		return mapping[0] // emoji
	}
	return "[?]" // unknown key
}

// ForSentiment returns the face for a sentiment label
func (s Set) ForSentiment(label string) string {
	if label == "Positive" {
		return s.Get("positive")
	}
	return s.Get("negative")
}
