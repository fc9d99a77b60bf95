package morexml

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	xmlerrors "github.com/advaoptical/morexml/errors"
)

// ParsePath parses the slash-joined syntax produced by Path.String back
// into a Path. A leading slash makes the path rooted, a double slash is a
// deep descent, "*" matches any tag, and steps take "[attr='value',...]"
// and "[index]" predicates. The given bindings apply to every segment.
func ParsePath(s string, ns NS) (*Path, error) {
	steps, err := splitPathSteps(s)
	if err != nil {
		return nil, &xmlerrors.PathError{Op: "parse", Path: s, Err: err}
	}

	var p *Path
	deep := false
	for i, raw := range steps {
		if raw == "" {
			switch {
			case i == 0:
				p = RootPath(ns)
			case deep:
				return nil, &xmlerrors.PathError{Op: "parse", Path: s,
					Err: errors.New("more than two consecutive slashes")}
			default:
				deep = true
			}
			continue
		}

		tag, opts, err := parsePathStep(raw)
		if err != nil {
			return nil, &xmlerrors.PathError{Op: "parse", Path: s, Err: err}
		}
		switch {
		case p == nil:
			p = NewPath(tag, append(opts, WithNS(ns))...)
		case deep:
			p = p.Deep().Child(tag, opts...)
		default:
			p = p.Child(tag, opts...)
		}
		deep = false
	}

	switch {
	case p == nil || len(p.segs) == 0:
		return nil, &xmlerrors.PathError{Op: "parse", Path: s, Err: errors.New("empty path")}
	case deep:
		return nil, &xmlerrors.PathError{Op: "parse", Path: s,
			Err: errors.New("path ends with a deep segment")}
	case p.err != nil:
		return nil, p.err
	}
	return p, nil
}

// splitPathSteps splits on slashes that are outside predicate brackets and
// quoted values.
func splitPathSteps(s string) ([]string, error) {
	if s == "" {
		return nil, errors.New("empty path")
	}
	var steps []string
	var step strings.Builder
	depth := 0
	quoted := false
	for _, r := range s {
		switch {
		case quoted:
			if r == '\'' {
				quoted = false
			}
			step.WriteRune(r)
		case r == '\'':
			quoted = true
			step.WriteRune(r)
		case r == '[':
			depth++
			step.WriteRune(r)
		case r == ']':
			if depth == 0 {
				return nil, errors.New("unbalanced ']'")
			}
			depth--
			step.WriteRune(r)
		case r == '/' && depth == 0:
			steps = append(steps, step.String())
			step.Reset()
		default:
			step.WriteRune(r)
		}
	}
	if quoted {
		return nil, errors.New("unterminated quoted value")
	}
	if depth != 0 {
		return nil, errors.New("unbalanced '['")
	}
	steps = append(steps, step.String())
	if last := steps[len(steps)-1]; last == "" {
		return nil, errors.New("trailing slash")
	}
	return steps, nil
}

func parsePathStep(raw string) (string, []SegmentOption, error) {
	tag, rest, _ := strings.Cut(raw, "[")
	if tag == "" {
		return "", nil, fmt.Errorf("step %q has no tag", raw)
	}

	var opts []SegmentOption
	for rest != "" {
		body, after, found := strings.Cut(rest, "]")
		if !found {
			return "", nil, fmt.Errorf("unbalanced predicate in step %q", raw)
		}
		opt, err := parsePredicate(body)
		if err != nil {
			return "", nil, fmt.Errorf("step %q: %w", raw, err)
		}
		opts = append(opts, opt)

		rest = after
		if rest != "" {
			var ok bool
			rest, ok = strings.CutPrefix(rest, "[")
			if !ok {
				return "", nil, fmt.Errorf("unexpected text after predicate in step %q", raw)
			}
		}
	}
	return tag, opts, nil
}

func parsePredicate(body string) (SegmentOption, error) {
	if index, err := strconv.Atoi(body); err == nil {
		return At(index), nil
	}

	attrs := make(Attrs)
	for _, pair := range strings.Split(body, ",") {
		name, value, found := strings.Cut(pair, "=")
		if !found {
			return nil, fmt.Errorf("predicate %q is neither an index nor attr='value'", body)
		}
		value, ok := strings.CutPrefix(value, "'")
		if !ok {
			return nil, fmt.Errorf("attribute value in predicate %q is not quoted", body)
		}
		value, ok = strings.CutSuffix(value, "'")
		if !ok {
			return nil, fmt.Errorf("attribute value in predicate %q is not quoted", body)
		}
		attrs[name] = value
	}
	return Where(attrs), nil
}
