// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hay-kot/criterio"
)

// MaxTitleLength is the longest checklist title accepted, in runes.
const MaxTitleLength = 200

// Title validates a checklist title: non-empty after trimming whitespace and
// at most MaxTitleLength runes.
func Title(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("title is required")
	}
	if n := utf8.RuneCountInString(title); n > MaxTitleLength {
		return fmt.Errorf("title is %d characters, the limit is %d", n, MaxTitleLength)
	}
	return nil
}

// TitleField returns a criterio validator for checklist titles.
func TitleField(field, title string) error {
	return criterio.Run(field, title, Title)
}
