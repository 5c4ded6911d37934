// Copyright 2026 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package pipeline

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// captionLeadIns are filler openings vision models produce. Ordering
// matters: longer phrases come before their own substrings so "there is a
// picture of" wins over "there is a".
var captionLeadIns = []string{
	"there is a picture of",
	"there is a photo of",
	"there is a drawing of",
	"there is an image of",
	"there is a",
	"this is a picture of",
	"this is a photo of",
	"this is a drawing of",
	"this is an image of",
	"this is a",
	"an image of",
	"a picture of",
	"a photo of",
	"a drawing of",
}

// CleanCaption normalizes a raw vision-model caption: surrounding
// whitespace and quotes go, at most one lead-in phrase is stripped, and the
// first letter is capitalized.
func CleanCaption(caption string) string {
	cleaned := strings.TrimSpace(caption)
	cleaned = strings.Trim(cleaned, `"`)
	cleaned = strings.TrimSpace(cleaned)

	for _, phrase := range captionLeadIns {
		if hasFoldPrefix(cleaned, phrase) {
			cleaned = strings.TrimSpace(cleaned[len(phrase):])
			break
		}
	}

	return capitalizeFirst(cleaned)
}

// TrimSummaryPrefix strips the "Summary:" label some models prepend.
func TrimSummaryPrefix(summary string) string {
	trimmed := strings.TrimSpace(summary)
	trimmed = strings.Trim(trimmed, `"`)
	trimmed = strings.TrimSpace(trimmed)

	const label = "summary:"
	if hasFoldPrefix(trimmed, label) {
		trimmed = strings.TrimSpace(trimmed[len(label):])
	}

	return trimmed
}

// hasFoldPrefix reports whether s starts with the ASCII prefix,
// case-insensitively.
func hasFoldPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	if !unicode.IsLower(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
