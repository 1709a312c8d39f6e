package rbridge

import (
	"regexp"
	"strings"
)

// Host names that stand in for R words which can not be used as Go side
// method names.
var symbolAliases = map[string]string{
	"rclass": "class",
}

// ConvertSymbol converts host name to R name. Every '__' becomes '.',
// so is__na names R is.na, and name 'rclass' becomes R 'class'.
func ConvertSymbol(symbol string) string {
	if name, ok := symbolAliases[symbol]; ok {
		return name
	}
	return strings.ReplaceAll(symbol, "__", ".")
}

var setterRe = regexp.MustCompile(`^[A-Za-z._][A-Za-z0-9._]*=$`)

// isSetter matches names like 'names=', identifier with single trailing '='
func isSetter(name string) bool {
	return setterRe.MatchString(name)
}
