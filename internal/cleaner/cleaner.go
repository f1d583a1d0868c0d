// Package cleaner rewrites one raw scraped document into cleaned text while
// preserving all informational content. The passes run in a strict order, each
// over the output of the previous, with an explicit protected-spans set
// guarding factual content against the noise passes.
package cleaner

import "strings"

// longLineLength is the threshold above which duplicate lines are kept:
// long lines are assumed unique enough in content even when repeated, while
// short repeated footer fragments are culled.
const longLineLength = 100

// SourceURL returns the URL from a leading "SOURCE: <url>" banner, or ""
// when the document has none. Callers capture it before Clean strips the banner.
func SourceURL(raw string) string {
	m := sourceURLRe.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return m[1]
}

// Clean rewrites raw text into cleaned text and returns it together with the
// retention ratio (cleaned length over raw length, as a percentage; 0 for
// empty input). Ratios above 100% are possible when structuring markup is
// added and are accepted as-is.
func Clean(raw string) (string, float64) {
	originalLength := len(raw)

	// Pass 1: record protected spans before anything is removed.
	var preserved []string
	for _, re := range preservePatterns {
		preserved = append(preserved, re.FindAllString(raw, -1)...)
	}

	// Pass 2: strip the SOURCE banner; the caller re-attaches the URL later.
	text := sourceBannerRe.ReplaceAllString(raw, "")

	// Pass 3: collapse excessive whitespace.
	text = blankLinesRe.ReplaceAllString(text, "\n\n")
	text = multiSpaceRe.ReplaceAllString(text, " ")

	// Pass 4: remove noise, skipping any pattern whose label occurs inside a
	// protected span.
	for _, np := range noisePatterns {
		if overlapsPreserved(np.label, preserved) {
			continue
		}
		text = np.re.ReplaceAllString(text, "")
	}

	// Pass 5: strip trade-signal boilerplate.
	text = signalTagRe.ReplaceAllString(text, "")
	text = signalLabelRe.ReplaceAllString(text, "")
	text = signalUnlockRe.ReplaceAllString(text, "")
	text = elapsedStampRe.ReplaceAllString(text, "")

	// Pass 6: remove decorative dividers. Equals-runs immediately followed by
	// a newline are structural section dividers and are kept.
	text = dashDividerRe.ReplaceAllString(text, "")
	text = removeInlineEqualsRuns(text)

	// Pass 7: drop blank and single-character lines.
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) > 1 {
			lines = append(lines, line)
		}
	}
	text = strings.Join(lines, "\n")

	// Pass 8: promote known section headers to markdown sub-headings.
	for _, header := range sectionHeaders {
		if strings.Contains(text, header) {
			text = strings.ReplaceAll(text, header, "\n## "+header+"\n")
		}
	}

	// Pass 9: deduplicate lines, keeping long lines even when repeated.
	seen := make(map[string]struct{})
	var unique []string
	for _, line := range strings.Split(text, "\n") {
		_, dup := seen[line]
		if !dup || len(line) > longLineLength {
			seen[line] = struct{}{}
			unique = append(unique, line)
		}
	}
	text = strings.Join(unique, "\n")

	// Pass 10: final trim.
	text = strings.TrimSpace(text)

	retention := 0.0
	if originalLength > 0 {
		retention = float64(len(text)) / float64(originalLength) * 100
	}
	return text, retention
}

// overlapsPreserved reports whether label occurs, case-insensitively, inside
// any protected span. A noise token that is textually part of a preserved
// fact must not be removed.
func overlapsPreserved(label string, preserved []string) bool {
	for _, p := range preserved {
		if strings.Contains(strings.ToLower(p), label) {
			return true
		}
	}
	return false
}

// removeInlineEqualsRuns deletes runs of 10+ equals characters unless the run
// is immediately followed by a newline. Go's regexp has no lookahead, so the
// matches are filtered explicitly.
func removeInlineEqualsRuns(text string) string {
	spans := equalsDividerRe.FindAllStringIndex(text, -1)
	if spans == nil {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	prev := 0
	for _, span := range spans {
		b.WriteString(text[prev:span[0]])
		if span[1] < len(text) && text[span[1]] == '\n' {
			b.WriteString(text[span[0]:span[1]])
		}
		prev = span[1]
	}
	b.WriteString(text[prev:])
	return b.String()
}
