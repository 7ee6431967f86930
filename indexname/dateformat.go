package indexname

import (
	"fmt"
	"strings"
)

// convertDateFormat translates the Java SimpleDateFormat dialect used in
// index patterns into a Go time layout. Supported tokens:
//
//	yyyy yy  year
//	MM       month
//	dd       day of month
//	HH       hour (24h)
//	mm       minute
//	ss       second
//	SSS      millisecond, must follow '.' or ','
//
// Non-letter characters pass through verbatim. Any other letter run is a
// syntax error; a compiled pattern never re-parses its format at resolve
// time. The millisecond restriction comes from the layout engine: zeros
// count as fractional seconds only after a '.' or ',' separator, so a bare
// SSS would render literal zeros.
func convertDateFormat(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("date format must not be empty")
	}

	var layout strings.Builder
	for i := 0; i < len(format); {
		c := format[i]
		if !isLetter(c) {
			layout.WriteByte(c)
			i++
			continue
		}
		run := 1
		for i+run < len(format) && format[i+run] == c {
			run++
		}
		token := format[i : i+run]
		goTok, ok := dateTokens[token]
		if !ok {
			return "", fmt.Errorf("unsupported date-format token %q", token)
		}
		if token == "SSS" && !followsFractionalSeparator(layout.String()) {
			return "", fmt.Errorf("millisecond token %q must follow '.' or ','", token)
		}
		layout.WriteString(goTok)
		i += run
	}
	return layout.String(), nil
}

var dateTokens = map[string]string{
	"yyyy": "2006",
	"yy":   "06",
	"MM":   "01",
	"dd":   "02",
	"HH":   "15",
	"mm":   "04",
	"ss":   "05",
	"SSS":  "000",
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func followsFractionalSeparator(layout string) bool {
	if layout == "" {
		return false
	}
	last := layout[len(layout)-1]
	return last == '.' || last == ','
}
