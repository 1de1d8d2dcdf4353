package extract

import "strings"

// headerTokens are the column names the statement prompts ask for; any of
// them on a line marks the start of an un-fenced tabular block.
var headerTokens = []string{"Date", "Description", "Amount"}

// ExtractTabular pulls the tabular block out of a free-text model response.
// It prefers a ```csv fenced block, then any bare ``` fence, falls back to
// scanning for the first line containing a known header token, and returns
// the input unchanged when no heuristic matches. It never fails; callers
// handle downstream parse failure.
func ExtractTabular(text string) string {
	lines := strings.Split(text, "\n")

	for _, opening := range []string{"```csv", "```"} {
		if block, ok := fencedBlock(lines, opening); ok {
			return block
		}
	}

	for i, line := range lines {
		for _, token := range headerTokens {
			if strings.Contains(line, token) {
				return strings.TrimSpace(strings.Join(lines[i:], "\n"))
			}
		}
	}

	return text
}

// fencedBlock collects the lines between the first fence opening with the
// given tag and the next closing fence. An unterminated fence keeps its
// contents.
func fencedBlock(lines []string, opening string) (string, bool) {
	var block []string
	inBlock := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case !inBlock && strings.HasPrefix(trimmed, opening):
			inBlock = true
		case inBlock && strings.HasPrefix(trimmed, "```"):
			return strings.TrimSpace(strings.Join(block, "\n")), true
		case inBlock:
			block = append(block, line)
		}
	}
	if inBlock {
		return strings.TrimSpace(strings.Join(block, "\n")), true
	}
	return "", false
}
