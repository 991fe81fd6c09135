package domtest

import (
	"fmt"
	"strings"
)

// The fake DOM supports the compound-selector subset the engine actually
// uses: tag, #id, .class, [attr], [attr="v"], [attr^="v"], [attr*="v"],
// :last-child, and comma-separated lists. No combinators.

type attrCond struct {
	name  string
	op    string // "", "=", "^=", "*="
	value string
}

type simpleSelector struct {
	tag       string
	id        string
	classes   []string
	attrs     []attrCond
	lastChild bool
}

func parseSelectorList(s string) ([]simpleSelector, error) {
	var out []simpleSelector
	for _, part := range splitTopLevel(s, ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		sel, err := parseSimple(part)
		if err != nil {
			return nil, err
		}
		out = append(out, sel)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty selector %q", s)
	}
	return out, nil
}

// splitTopLevel splits on sep outside brackets and quotes.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '[':
			depth++
		case c == ']':
			depth--
		case c == sep && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}

func parseSimple(s string) (simpleSelector, error) {
	var sel simpleSelector
	i := 0

	isNameByte := func(c byte) bool {
		return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
			c >= '0' && c <= '9' || c == '-' || c == '_'
	}
	readName := func() string {
		start := i
		for i < len(s) && isNameByte(s[i]) {
			i++
		}
		return s[start:i]
	}

	if i < len(s) && isNameByte(s[i]) {
		sel.tag = strings.ToLower(readName())
	}

	for i < len(s) {
		switch s[i] {
		case '.':
			i++
			cls := readName()
			if cls == "" {
				return sel, fmt.Errorf("empty class in selector %q", s)
			}
			sel.classes = append(sel.classes, cls)
		case '#':
			i++
			id := readName()
			if id == "" {
				return sel, fmt.Errorf("empty id in selector %q", s)
			}
			sel.id = id
		case ':':
			i++
			pseudo := readName()
			if pseudo != "last-child" {
				return sel, fmt.Errorf("unsupported pseudo-class %q in selector %q", pseudo, s)
			}
			sel.lastChild = true
		case '[':
			i++
			cond, err := parseAttrCond(s, &i)
			if err != nil {
				return sel, err
			}
			sel.attrs = append(sel.attrs, cond)
		default:
			return sel, fmt.Errorf("unexpected %q in selector %q", s[i], s)
		}
	}
	return sel, nil
}

func parseAttrCond(s string, i *int) (attrCond, error) {
	var cond attrCond
	start := *i
	for *i < len(s) && s[*i] != '=' && s[*i] != '^' && s[*i] != '*' && s[*i] != ']' {
		*i++
	}
	cond.name = strings.TrimSpace(s[start:*i])
	if cond.name == "" {
		return cond, fmt.Errorf("empty attribute name in selector %q", s)
	}
	if *i >= len(s) {
		return cond, fmt.Errorf("unterminated attribute in selector %q", s)
	}

	if s[*i] == ']' {
		*i++
		return cond, nil
	}

	if s[*i] == '^' || s[*i] == '*' {
		cond.op = string(s[*i]) + "="
		*i++
		if *i >= len(s) || s[*i] != '=' {
			return cond, fmt.Errorf("malformed attribute operator in selector %q", s)
		}
		*i++
	} else { // '='
		cond.op = "="
		*i++
	}

	// Value, optionally quoted.
	if *i < len(s) && (s[*i] == '"' || s[*i] == '\'') {
		quote := s[*i]
		*i++
		vstart := *i
		for *i < len(s) && s[*i] != quote {
			*i++
		}
		if *i >= len(s) {
			return cond, fmt.Errorf("unterminated quoted value in selector %q", s)
		}
		cond.value = s[vstart:*i]
		*i++
	} else {
		vstart := *i
		for *i < len(s) && s[*i] != ']' {
			*i++
		}
		cond.value = strings.TrimSpace(s[vstart:*i])
	}

	if *i >= len(s) || s[*i] != ']' {
		return cond, fmt.Errorf("unterminated attribute in selector %q", s)
	}
	*i++
	return cond, nil
}

func (sel simpleSelector) matches(n *Node) bool {
	if sel.tag != "" && sel.tag != strings.ToLower(n.TagName) {
		return false
	}
	if sel.id != "" {
		if id, _ := n.Attr("id"); id != sel.id {
			return false
		}
	}
	if len(sel.classes) > 0 {
		have := map[string]bool{}
		if cls, ok := n.Attr("class"); ok {
			for _, c := range strings.Fields(cls) {
				have[c] = true
			}
		}
		for _, c := range sel.classes {
			if !have[c] {
				return false
			}
		}
	}
	for _, cond := range sel.attrs {
		val, ok := n.Attr(cond.name)
		if !ok {
			return false
		}
		switch cond.op {
		case "":
			// presence only
		case "=":
			if val != cond.value {
				return false
			}
		case "^=":
			if !strings.HasPrefix(val, cond.value) {
				return false
			}
		case "*=":
			if !strings.Contains(val, cond.value) {
				return false
			}
		}
	}
	if sel.lastChild {
		p := n.parent
		if p == nil || len(p.children) == 0 || p.children[len(p.children)-1] != n {
			return false
		}
	}
	return true
}

// Matches reports whether the node matches the selector list.
func Matches(n *Node, selector string) bool {
	sels, err := parseSelectorList(selector)
	if err != nil {
		return false
	}
	for _, sel := range sels {
		if sel.matches(n) {
			return true
		}
	}
	return false
}
