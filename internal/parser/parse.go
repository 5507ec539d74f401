package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// oscillatorTypeName is the one built-in type whose first non-numeric
// parameter token is a waveform keyword rather than a float.
const oscillatorTypeName = "osc"

// ParseError reports a single line's parse failure with its 1-based
// line number for diagnostics.
type ParseError struct {
	Line    int
	Text    string
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Message, e.Text)
}

// ParseLines parses a whole patch file. The special line `start` (a
// CLI command, not DSL) is stripped. Patchbay blocks span multiple
// physical lines and are folded into a single Patchbay command. The
// first parse failure aborts the load and is returned, matching the
// reference loader's abort-on-error policy.
func ParseLines(lines []string) ([]Command, error) {
	var commands []Command
	i := 0
	for i < len(lines) {
		raw := lines[i]
		line := stripComment(raw)
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || trimmed == "start" {
			i++
			continue
		}

		if trimmed == "patchbay:" {
			cmd, consumed := parsePatchbayBlock(lines[i:])
			commands = append(commands, cmd)
			i += consumed
			continue
		}

		cmd, err := ParseLine(trimmed)
		if err != nil {
			return commands, &ParseError{Line: i + 1, Text: trimmed, Message: err.Error()}
		}
		commands = append(commands, cmd)
		i++
	}
	return commands, nil
}

func stripComment(line string) string {
	if idx := strings.Index(line, " #"); idx >= 0 {
		return line[:idx]
	}
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "#") {
		return ""
	}
	return line
}

func parsePatchbayBlock(lines []string) (Command, int) {
	var ports []PatchbayPort
	i := 1
	for i < len(lines) {
		line := lines[i]
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || !strings.HasPrefix(line, "  ") {
			break
		}
		if p, ok := parsePatchbayLine(trimmed); ok {
			ports = append(ports, p)
		}
		i++
	}
	return Patchbay{Ports: ports}, i
}

func parsePatchbayLine(line string) (PatchbayPort, bool) {
	colon := strings.Index(line, ":")
	if colon < 0 {
		return PatchbayPort{}, false
	}
	name := strings.TrimSpace(line[:colon])
	rest := strings.TrimSpace(line[colon+1:])

	const keyword = "port "
	kwPos := strings.Index(rest, keyword)
	if kwPos < 0 {
		return PatchbayPort{}, false
	}
	after := strings.TrimSpace(rest[kwPos+len(keyword):])
	parts := strings.Fields(after)
	if len(parts) == 0 {
		return PatchbayPort{}, false
	}
	number, err := strconv.Atoi(parts[0])
	if err != nil {
		return PatchbayPort{}, false
	}
	var desc string
	if len(parts) > 1 {
		desc = strings.Join(parts[1:], " ")
	}
	return PatchbayPort{Name: name, Number: number, Description: desc}, true
}

// ParseLine parses one already-trimmed, comment-stripped statement.
func ParseLine(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, fmt.Errorf("empty or comment line")
	}

	if rest, ok := strings.CutPrefix(line, "import "); ok {
		return parseImport(strings.TrimSpace(rest)), nil
	}

	if line == "patchbay:" {
		return Patchbay{}, nil
	}

	if colon := strings.Index(line, ":"); colon >= 0 {
		return parseCreateModule(line, colon)
	}

	if arrow := strings.Index(line, "<-"); arrow >= 0 {
		return parseArrow(line, arrow)
	}

	return nil, fmt.Errorf("could not parse line")
}

func parseImport(importPart string) Command {
	if asPos := strings.Index(importPart, " as "); asPos >= 0 {
		return Import{
			Path:  strings.TrimSpace(importPart[:asPos]),
			Alias: strings.TrimSpace(importPart[asPos+4:]),
		}
	}
	return Import{Path: importPart}
}

func parseCreateModule(line string, colon int) (Command, error) {
	name := strings.TrimSpace(line[:colon])
	rest := strings.TrimSpace(line[colon+1:])
	parts := strings.Fields(rest)
	if len(parts) == 0 {
		return nil, fmt.Errorf("missing module type")
	}

	typ := parts[0]
	cmd := CreateModule{Name: name, Type: typ}

	for i, part := range parts[1:] {
		if i == 0 {
			if _, err := strconv.ParseFloat(part, 32); err != nil {
				cmd.Keyword = part
				if typ == oscillatorTypeName {
					cmd.Waveform = part
				}
				continue
			}
		}
		if n, err := strconv.ParseFloat(part, 32); err == nil {
			cmd.Params = append(cmd.Params, float32(n))
		}
	}
	return cmd, nil
}

func parseArrow(line string, arrow int) (Command, error) {
	left := strings.TrimSpace(line[:arrow])
	right := strings.TrimSpace(line[arrow+2:])

	if dot := strings.Index(left, "."); dot >= 0 && left != "out" && !strings.HasPrefix(left, "out.") {
		module := left[:dot]
		param := left[dot+1:]
		if v, err := strconv.ParseFloat(right, 32); err == nil {
			return SetParam{Module: module, Param: param, Value: float32(v)}, nil
		}
	}

	expr, err := parseSourceExpr(right)
	if err != nil {
		return nil, err
	}
	return Connect{Dest: parseDest(left), Source: expr}, nil
}

func parseDest(s string) PortRef {
	switch {
	case s == "out":
		return PortRef{Module: "out", Port: "mono"}
	case strings.HasPrefix(s, "out."):
		return PortRef{Module: "out", Port: s[len("out."):]}
	}
	if dot := strings.Index(s, "."); dot >= 0 {
		return PortRef{Module: s[:dot], Port: s[dot+1:]}
	}
	return PortRef{Module: s, Port: "audio"}
}

// parseSourceExpr parses the right-hand side of a connection. Per the
// reference grammar, associativity follows the rightmost operator
// occurrence in the raw text, not standard arithmetic precedence: a
// mixed `a.b * 2 + 1` nests on whichever of ` * ` / ` + ` occurs
// furthest right, not on `+` by convention.
func parseSourceExpr(s string) (SourceExpr, error) {
	s = strings.TrimSpace(s)

	mulPos := strings.LastIndex(s, " * ")
	addPos := strings.LastIndex(s, " + ")

	switch {
	case mulPos < 0 && addPos < 0:
		return parsePrimary(s)
	case mulPos > addPos:
		return splitBinary(s, mulPos, " * ", func(inner SourceExpr, n float32) SourceExpr {
			return ScaledExpr{Expr: inner, Factor: n}
		})
	default:
		return splitBinary(s, addPos, " + ", func(inner SourceExpr, n float32) SourceExpr {
			return OffsetExpr{Expr: inner, Amount: n}
		})
	}
}

func splitBinary(s string, pos int, op string, wrap func(SourceExpr, float32) SourceExpr) (SourceExpr, error) {
	left := strings.TrimSpace(s[:pos])
	right := strings.TrimSpace(s[pos+len(op):])

	if n, err := strconv.ParseFloat(left, 32); err == nil {
		inner, err := parseSourceExpr(right)
		if err != nil {
			return nil, err
		}
		return wrap(inner, float32(n)), nil
	}
	if n, err := strconv.ParseFloat(right, 32); err == nil {
		inner, err := parseSourceExpr(left)
		if err != nil {
			return nil, err
		}
		return wrap(inner, float32(n)), nil
	}
	return nil, fmt.Errorf("neither side of %q is a number in %q", strings.TrimSpace(op), s)
}

func parsePrimary(s string) (SourceExpr, error) {
	if s == "" {
		return nil, fmt.Errorf("empty source expression")
	}
	dot := strings.Index(s, ".")
	if dot < 0 {
		return Primary{Ref: PortRef{Module: s, Port: "audio"}}, nil
	}
	return Primary{Ref: PortRef{Module: s[:dot], Port: s[dot+1:]}}, nil
}
