package trivia

import "strings"

// The trivia provider HTML-escapes every string it returns. The table
// below mirrors the entities observed in its payloads; decoding must be
// complete, since a partially decoded answer breaks the value-equality
// search that locates the correct option after shuffling.
var entityReplacer = strings.NewReplacer(
	"&quot;", `"`,
	"&#039;", "'",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&eacute;", "é",
	"&ouml;", "ö",
	"&uuml;", "ü",
	"&auml;", "ä",
	"&iacute;", "í",
	"&oacute;", "ó",
	"&uacute;", "ú",
	"&agrave;", "à",
	"&egrave;", "è",
	"&igrave;", "ì",
	"&ograve;", "ò",
	"&ugrave;", "ù",
	"&atilde;", "ã",
	"&otilde;", "õ",
	"&ntilde;", "ñ",
)

// decodeEntities resolves the provider's HTML entities to literals.
func decodeEntities(s string) string {
	if s == "" {
		return ""
	}
	return entityReplacer.Replace(s)
}
