package checkout

import "strings"

// markupStripper removes characters that are significant to HTML or script
// injection. Address fields entered by customers are later rendered in admin
// review screens that do not escape them, so stored markup is stripped at
// the write path.
var markupStripper = strings.NewReplacer(
	"<", "",
	">", "",
	"\"", "",
	"'", "",
	"`", "",
	"&", "",
	";", "",
)

// SanitizeText strips markup-significant characters from a free-text field
// and trims surrounding whitespace.
func SanitizeText(s string) string {
	return strings.TrimSpace(markupStripper.Replace(s))
}
