package tracker

import (
	"fmt"
	"strings"
	"time"
)

// placeholder is one segment of a parsed format string.
type placeholder int

const (
	phText placeholder = iota
	phShortID
	phID
	phTitle
	phMilestone
	phCreated
	phDue
	phTags
)

type segment struct {
	kind placeholder
	text string
}

// FormatString is a compiled issue display pattern. Placeholders:
//
//	%i short identifier   %I full identifier   %D title line
//	%M milestone          %c creation date     %d due date
//	%T tag listing        %n newline           %% literal percent
//
// The named presets simple, oneline and short expand to canned
// patterns.
type FormatString struct {
	key      string
	segments []segment
}

// fallback replaces a field that failed to read or parse; a bad field
// degrades to this placeholder instead of aborting the whole listing.
const fallback = "???"

var presets = map[string]string{
	"simple":  "%i %D",
	"oneline": "ID: %i  Date: %c  Tags: %T  Desc: %D",
	"short":   "ID: %i%nDate: %c%nDue Date: %d%nTags: %T%nDescription: %D",
}

// ParseFormat compiles a format string or preset name.
func ParseFormat(value string) (*FormatString, error) {
	pattern := value
	if p, ok := presets[value]; ok {
		pattern = p
	}

	f := &FormatString{key: value}
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			f.segments = append(f.segments, segment{kind: phText, text: cur.String()})
			cur.Reset()
		}
	}

	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '%' {
			cur.WriteRune(runes[i])
			continue
		}
		i++
		if i >= len(runes) {
			return nil, fmt.Errorf("premature end of format string, expected placeholder")
		}
		switch runes[i] {
		case '%':
			cur.WriteRune('%')
		case 'n':
			cur.WriteRune('\n')
		case 'i':
			flush()
			f.segments = append(f.segments, segment{kind: phShortID})
		case 'I':
			flush()
			f.segments = append(f.segments, segment{kind: phID})
		case 'D':
			flush()
			f.segments = append(f.segments, segment{kind: phTitle})
		case 'M':
			flush()
			f.segments = append(f.segments, segment{kind: phMilestone})
		case 'c':
			flush()
			f.segments = append(f.segments, segment{kind: phCreated})
		case 'd':
			flush()
			f.segments = append(f.segments, segment{kind: phDue})
		case 'T':
			flush()
			f.segments = append(f.segments, segment{kind: phTags})
		default:
			return nil, fmt.Errorf("unexpected format placeholder %%%c", runes[i])
		}
	}
	flush()
	return f, nil
}

// format renders one issue. Field errors degrade to the fallback
// placeholder for that field only; the rest of the view renders
// normally.
func (f *FormatString) format(is *Issue) string {
	var out strings.Builder
	for _, seg := range f.segments {
		switch seg.kind {
		case phText:
			out.WriteString(seg.text)
		case phShortID:
			out.WriteString(is.t.ShortID(is.id))
		case phID:
			out.WriteString(string(is.id))
		case phTitle:
			out.WriteString(stringOr(is.Title()))
		case phMilestone:
			m, err := is.Milestone()
			if err != nil {
				m = fallback
			}
			out.WriteString(m)
		case phCreated:
			created, err := is.Created()
			if err != nil {
				out.WriteString(fallback)
			} else {
				out.WriteString(created.Format(time.RFC3339))
			}
		case phDue:
			due, err := is.Due()
			switch {
			case err != nil:
				out.WriteString(fallback)
			case due != nil:
				out.WriteString(due.Format(time.RFC3339))
			}
		case phTags:
			tags, err := is.Tags()
			if err != nil {
				out.WriteString(fallback)
			} else {
				out.WriteString(strings.Join(tags, " "))
			}
		}
	}
	return out.String()
}

func stringOr(s string, err error) string {
	if err != nil {
		return fallback
	}
	return s
}
