package parser

import (
	"fmt"
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`@[^@\s]+`)

var stepKeywords = []string{"Given", "When", "Then", "And", "But", "*"}

// Parse parses a .feature file and returns a Document AST and any parse errors.
func Parse(filename string, content []byte) (*Document, []ParseError) {
	lines := strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")
	var errors []ParseError

	doc := &Document{}
	feature := &Feature{}
	doc.Feature = feature

	i := 0

	// Skip leading blanks and comments
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			i++
			continue
		}
		break
	}

	// Collect feature-level tags
	var featureTags []Tag
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])
		if isTagLine(trimmed) {
			featureTags = append(featureTags, parseTags(trimmed)...)
			i++
			continue
		}
		break
	}
	feature.Header.Tags = featureTags
	feature.Header.Name = filenameWithoutExt(filename)

	if i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])
		if strings.HasPrefix(trimmed, "Feature:") {
			feature.Header.Name = strings.TrimSpace(strings.TrimPrefix(trimmed, "Feature:"))
			i++

			// Scan description lines until keyword or tag
			var descLines []string
			for i < len(lines) {
				trimmed := strings.TrimSpace(lines[i])
				if isKeyword(trimmed) || isTagLine(trimmed) {
					break
				}
				descLines = append(descLines, lines[i])
				i++
			}
			feature.Header.Description = strings.TrimSpace(strings.Join(descLines, "\n"))
		}
	}

	// Body loop
	var pendingTags []Tag
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])

		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			i++
			continue
		}

		if isTagLine(trimmed) {
			pendingTags = append(pendingTags, parseTags(trimmed)...)
			i++
			continue
		}

		if strings.HasPrefix(trimmed, "Background:") {
			pendingTags = nil // Background doesn't get tags
			bg := &Background{Line: i + 1}
			var blockErrors []ParseError
			_, bg.Steps, i, blockErrors = parseBlock(lines, i+1)
			errors = append(errors, blockErrors...)
			if feature.Background != nil {
				errors = append(errors, ParseError{Line: bg.Line, Message: "multiple Background sections"})
			}
			feature.Background = bg
			continue
		}

		if strings.HasPrefix(trimmed, "Scenario:") {
			sd := ScenarioDefinition{
				Tags:     pendingTags,
				Scenario: Scenario{Name: strings.TrimSpace(strings.TrimPrefix(trimmed, "Scenario:"))},
				Line:     i + 1,
			}
			pendingTags = nil
			var blockErrors []ParseError
			sd.Scenario.Description, sd.Scenario.Steps, i, blockErrors = parseBlock(lines, i+1)
			errors = append(errors, blockErrors...)
			feature.Scenarios = append(feature.Scenarios, sd)
			continue
		}

		// Unsupported keywords
		if msg, ok := unsupported(trimmed); ok {
			errors = append(errors, ParseError{Line: i + 1, Message: msg})
			pendingTags = nil
			i = consumeBlock(lines, i+1)
			continue
		}

		errors = append(errors, ParseError{Line: i + 1, Message: fmt.Sprintf("unexpected line %q", trimmed)})
		i++
	}

	return doc, errors
}

// parseBlock reads the description and steps of a Background or Scenario.
// i points at the line after the block keyword. It returns the index of the
// first line that does not belong to the block.
func parseBlock(lines []string, i int) (string, []Step, int, []ParseError) {
	var (
		descLines []string
		steps     []Step
		errors    []ParseError
	)
	current := func(line int, what string) *Step {
		if len(steps) == 0 {
			errors = append(errors, ParseError{Line: line, Message: what + " without a step"})
			return nil
		}
		return &steps[len(steps)-1]
	}

	for i < len(lines) {
		t := strings.TrimSpace(lines[i])
		if t == "" || strings.HasPrefix(t, "#") {
			i++
			continue
		}
		if isKeyword(t) {
			break
		}
		if isTagLine(t) {
			if tagPrecedesKeyword(lines, i) {
				break
			}
			i++
			continue
		}

		if isDocStringDelimiter(t) {
			line := i + 1
			ds, next, err := readDocString(lines, i)
			i = next
			if err != nil {
				errors = append(errors, *err)
				continue
			}
			if step := current(line, "doc string"); step != nil {
				if err := step.attachDocString(ds); err != "" {
					errors = append(errors, ParseError{Line: line, Message: err})
				}
			}
			continue
		}

		if strings.HasPrefix(t, "|") {
			line := i + 1
			i++
			step := current(line, "data table row")
			if step == nil {
				continue
			}
			if err := step.appendRow(parseRow(t)); err != "" {
				errors = append(errors, ParseError{Line: line, Message: err})
			}
			continue
		}

		if keyword, text, ok := splitStep(t); ok {
			steps = append(steps, Step{Keyword: keyword, Text: text, Line: i + 1})
			i++
			continue
		}

		if len(steps) == 0 {
			descLines = append(descLines, t)
		} else {
			errors = append(errors, ParseError{Line: i + 1, Message: fmt.Sprintf("unexpected line %q", t)})
		}
		i++
	}
	return strings.Join(descLines, "\n"), steps, i, errors
}

func splitStep(trimmed string) (string, string, bool) {
	for _, kw := range stepKeywords {
		rest, ok := strings.CutPrefix(trimmed, kw)
		if !ok {
			continue
		}
		if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
			continue
		}
		return kw, strings.TrimSpace(rest), true
	}
	return "", "", false
}

func unsupported(trimmed string) (string, bool) {
	switch {
	case strings.HasPrefix(trimmed, "Scenario Outline:"):
		return "Scenario Outline is not supported", true
	case strings.HasPrefix(trimmed, "Rule:"):
		return "Rule is not supported", true
	case strings.HasPrefix(trimmed, "Examples:"):
		return "Examples is not supported", true
	}
	return "", false
}

func parseTags(line string) []Tag {
	matches := tagPattern.FindAllString(line, -1)
	var tags []Tag
	for _, m := range matches {
		tags = append(tags, Tag{Name: m})
	}
	return tags
}

// parseRow splits a table row into cells, honoring the \|, \\ and \n escapes.
func parseRow(trimmed string) []string {
	var (
		cells  []string
		cell   strings.Builder
		inCell bool
	)
	for i := 0; i < len(trimmed); i++ {
		c := trimmed[i]
		switch {
		case c == '\\' && i+1 < len(trimmed):
			i++
			switch trimmed[i] {
			case 'n':
				cell.WriteByte('\n')
			case '|', '\\':
				cell.WriteByte(trimmed[i])
			default:
				cell.WriteByte('\\')
				cell.WriteByte(trimmed[i])
			}
		case c == '|':
			if inCell {
				cells = append(cells, strings.TrimSpace(cell.String()))
			}
			cell.Reset()
			inCell = true
		default:
			cell.WriteByte(c)
		}
	}
	return cells
}

func isTagLine(trimmed string) bool {
	return strings.HasPrefix(trimmed, "@")
}

func isKeyword(trimmed string) bool {
	return strings.HasPrefix(trimmed, "Feature:") ||
		strings.HasPrefix(trimmed, "Background:") ||
		strings.HasPrefix(trimmed, "Scenario:") ||
		strings.HasPrefix(trimmed, "Scenario Outline:") ||
		strings.HasPrefix(trimmed, "Rule:") ||
		strings.HasPrefix(trimmed, "Examples:")
}

func isDocStringDelimiter(trimmed string) bool {
	return strings.HasPrefix(trimmed, `"""`) || strings.HasPrefix(trimmed, "```")
}

// readDocString reads a doc string block. i points at the opening delimiter.
// Content lines lose the indentation of the opening delimiter. Returns the
// index of the line after the closing delimiter.
func readDocString(lines []string, i int) (*DocString, int, *ParseError) {
	opener := lines[i]
	indent := len(opener) - len(strings.TrimLeft(opener, " \t"))
	trimmed := strings.TrimSpace(opener)
	delimiter := `"""`
	if strings.HasPrefix(trimmed, "```") {
		delimiter = "```"
	}
	ds := &DocString{MediaType: strings.TrimSpace(strings.TrimPrefix(trimmed, delimiter))}

	start := i + 1
	var content []string
	for i++; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == delimiter {
			ds.Content = strings.Join(content, "\n")
			return ds, i + 1, nil
		}
		content = append(content, dedent(lines[i], indent))
	}
	return nil, i, &ParseError{Line: start, Message: "unterminated doc string"}
}

func dedent(line string, indent int) string {
	n := 0
	for n < indent && n < len(line) && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	return line[n:]
}

// consumeBlock advances past content lines, skipping over doc strings,
// until the next keyword, tag line, or EOF.
func consumeBlock(lines []string, i int) int {
	for i < len(lines) {
		t := strings.TrimSpace(lines[i])
		if isDocStringDelimiter(t) {
			_, i, _ = readDocString(lines, i)
			continue
		}
		if isKeyword(t) || isTagLine(t) {
			break
		}
		i++
	}
	return i
}

// tagPrecedesKeyword checks if a tag line at index i is followed by a Scenario: or keyword line.
func tagPrecedesKeyword(lines []string, i int) bool {
	for j := i + 1; j < len(lines); j++ {
		t := strings.TrimSpace(lines[j])
		if t == "" || strings.HasPrefix(t, "#") {
			continue
		}
		if isTagLine(t) {
			continue
		}
		return isKeyword(t)
	}
	return false
}
