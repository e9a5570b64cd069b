package main

import (
	"strings"
	"unicode"
)

// directivePrefix marks a comment line carrying a [dependencies] entry.
const directivePrefix = "//#"

// ExtractDirectives collects dependency directives from the given source
// texts. Files are scanned in order and lines top to bottom; duplicates are
// kept and nothing is validated here.
func ExtractDirectives(files []string) []string {
	var directives []string
	for _, file := range files {
		for _, line := range strings.Split(file, "\n") {
			line = strings.TrimSuffix(line, "\r")
			line = strings.TrimLeftFunc(line, unicode.IsSpace)
			if !strings.HasPrefix(line, directivePrefix) {
				continue
			}

			directive := strings.TrimLeftFunc(line[len(directivePrefix):], unicode.IsSpace)
			if directive == "" {
				continue
			}
			directives = append(directives, directive)
		}
	}
	return directives
}
