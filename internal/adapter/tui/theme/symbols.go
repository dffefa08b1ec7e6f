package theme

import (
	"os"
	"strings"
)

// SymbolSet holds all UI symbols, allowing runtime switching between
// Unicode and ASCII fallback sets.
type SymbolSet struct {
	Success   string
	Error     string
	Warning   string
	Info      string
	Spinner   string
	ArrowR    string
	Bullet    string
	Ellipsis  string
	User      string
	Assistant string
}

var unicodeSymbols = SymbolSet{
	Success:   "✓", // ✓
	Error:     "✗", // ✗
	Warning:   "⚠", // ⚠
	Info:      "●", // ●
	Spinner:   "⏳", // ⏳
	ArrowR:    "→", // →
	Bullet:    "•", // •
	Ellipsis:  "…", // …
	User:      "You",
	Assistant: "GeneChat",
}

var asciiSymbols = SymbolSet{
	Success:   "[OK]",
	Error:     "[ERR]",
	Warning:   "[!]",
	Info:      "[i]",
	Spinner:   "[...]",
	ArrowR:    "->",
	Bullet:    "*",
	Ellipsis:  "...",
	User:      "You",
	Assistant: "GeneChat",
}

// DetectUnicodeSupport checks whether the terminal likely supports Unicode.
// Priority: GENECHAT_ASCII_SYMBOLS env (explicit override) > locale detection.
func DetectUnicodeSupport() bool {
	// Explicit override: set GENECHAT_ASCII_SYMBOLS=1 to force ASCII.
	if v := os.Getenv("GENECHAT_ASCII_SYMBOLS"); v == "1" || strings.EqualFold(v, "true") {
		return false
	}

	// Check locale environment variables for UTF-8 indication.
	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		val := strings.ToLower(os.Getenv(key))
		if strings.Contains(val, "utf-8") || strings.Contains(val, "utf8") {
			return true
		}
	}

	// Most modern terminals support Unicode; default to true.
	return true
}

// InitSymbols sets the package-level Symbol* variables based on terminal
// capabilities. Called automatically by init(), but can be called again
// if the environment changes (e.g., in tests).
func InitSymbols() {
	set := unicodeSymbols
	if !DetectUnicodeSupport() {
		set = asciiSymbols
	}
	apply(set)
}

// UseASCII forces the ASCII symbol set regardless of terminal detection.
// Used when ui.ascii_symbols is set in config.
func UseASCII() {
	apply(asciiSymbols)
}

func apply(set SymbolSet) {
	SymbolSuccess = set.Success
	SymbolError = set.Error
	SymbolWarning = set.Warning
	SymbolInfo = set.Info
	SymbolSpinner = set.Spinner
	SymbolArrowR = set.ArrowR
	SymbolBullet = set.Bullet
	SymbolEllipsis = set.Ellipsis
	SymbolUser = set.User
	SymbolAssistant = set.Assistant
}

func init() {
	InitSymbols()
}
