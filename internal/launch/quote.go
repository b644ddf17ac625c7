package launch

import "strings"

var dquoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, `$`, `\$`, "`", "\\`")

// dquote wraps s in double quotes, escaping the characters the shell still
// interprets inside them.
func dquote(s string) string {
	return `"` + dquoteEscaper.Replace(s) + `"`
}

// shellQuote quotes a string for shell usage.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\r\n'\"\\$`(){}[]*?!;|&<>#~") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
