package ass

import (
	"sort"
	"strings"
)

// Tag is one override tag: a name plus its arguments in declared order.
type Tag struct {
	Name string
	Args []string
}

// Arg returns the i-th argument, or "" when absent.
func (t Tag) Arg(i int) string {
	if i < 0 || i >= len(t.Args) {
		return ""
	}
	return t.Args[i]
}

// String re-serializes the tag. Tags on the parenthesis allow-list, and
// any tag with more than one argument, use the \name(a,b,...) form; the
// rest concatenate their single argument directly.
func (t Tag) String() string {
	if parenTags[t.Name] || len(t.Args) > 1 {
		return "\\" + t.Name + "(" + strings.Join(t.Args, ",") + ")"
	}
	if len(t.Args) == 1 {
		return "\\" + t.Name + t.Args[0]
	}
	return "\\" + t.Name
}

// Piece is a rewrite result: either a tag or a literal string.
type Piece struct {
	Tag     *Tag
	Literal string
}

func TagPiece(name string, args ...string) Piece {
	return Piece{Tag: &Tag{Name: name, Args: args}}
}

func LiteralPiece(s string) Piece {
	return Piece{Literal: s}
}

// TagFunc rewrites one tag into zero or more pieces. Returning nil keeps
// the tag unchanged.
type TagFunc func(Tag) []Piece

// CommentFunc rewrites free-form comment text found inside a block.
// Returning nil preserves the comment verbatim.
type CommentFunc func(string) []Piece

// Tags that always serialize with parentheses, even for one argument.
var parenTags = map[string]bool{
	"t": true, "pos": true, "org": true, "move": true,
	"fad": true, "fade": true, "clip": true, "iclip": true,
}

// All recognized override tag names. Anything else becomes a comment.
var knownTags = func() []string {
	names := []string{
		"alpha", "xbord", "ybord", "xshad", "yshad", "shad", "iclip",
		"blur", "bord", "fade", "fscx", "fscy", "move", "clip",
		"frx", "fry", "frz", "fad", "fax", "fay", "fsp", "pbo",
		"org", "pos", "an", "be", "fe", "fn", "fr", "fs", "kf", "ko",
		"1a", "2a", "3a", "4a", "1c", "2c", "3c", "4c",
		"a", "b", "c", "i", "k", "K", "p", "q", "r", "s", "t", "u",
	}
	// longest first so \fade never matches as \fad, \kf never as \k
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return names
}()

// RewriteTags tokenizes the contents of one override block (braces
// excluded) and rebuilds it through the given callbacks. The nested tag
// list of a \t(...) wrapper is re-parsed recursively before the wrapper
// itself reaches tagFn. Unrecognized content is routed to commentFn and
// preserved verbatim by default; it is never an error.
func RewriteTags(block string, tagFn TagFunc, commentFn CommentFunc) string {
	var out strings.Builder
	rest := block

	emit := func(pieces []Piece) {
		for _, p := range pieces {
			if p.Tag != nil {
				out.WriteString(p.Tag.String())
			} else {
				out.WriteString(p.Literal)
			}
		}
	}
	emitComment := func(s string) {
		if s == "" {
			return
		}
		if commentFn != nil {
			if pieces := commentFn(s); pieces != nil {
				emit(pieces)
				return
			}
		}
		out.WriteString(s)
	}
	emitTag := func(tag Tag) {
		if tagFn != nil {
			if pieces := tagFn(tag); pieces != nil {
				emit(pieces)
				return
			}
		}
		out.WriteString(tag.String())
	}

	for rest != "" {
		bs := strings.IndexByte(rest, '\\')
		if bs < 0 {
			emitComment(rest)
			break
		}
		if bs > 0 {
			emitComment(rest[:bs])
			rest = rest[bs:]
		}

		tag, remaining, ok := scanTag(rest)
		if !ok {
			// backslash with no recognized tag: comment up to the next one
			next := strings.IndexByte(rest[1:], '\\')
			if next < 0 {
				emitComment(rest)
				rest = ""
			} else {
				emitComment(rest[:next+1])
				rest = rest[next+1:]
			}
			continue
		}
		if tag.Name == "t" && len(tag.Args) > 0 {
			last := len(tag.Args) - 1
			tag.Args[last] = RewriteTags(tag.Args[last], tagFn, commentFn)
		}
		emitTag(tag)
		rest = remaining
	}
	return out.String()
}

// scanTag reads one override tag at the start of s (s begins with '\').
func scanTag(s string) (Tag, string, bool) {
	body := s[1:]
	var name string
	for _, candidate := range knownTags {
		if strings.HasPrefix(body, candidate) {
			name = candidate
			break
		}
	}
	if name == "" {
		return Tag{}, s, false
	}
	rest := body[len(name):]

	// parenthesized argument list
	if strings.HasPrefix(rest, "(") {
		inner, remaining, ok := scanParens(rest)
		if !ok {
			return Tag{}, s, false
		}
		return Tag{Name: name, Args: splitTopLevel(inner)}, remaining, true
	}

	// bare argument runs to the next tag
	end := strings.IndexByte(rest, '\\')
	var arg string
	if end < 0 {
		arg, rest = rest, ""
	} else {
		arg, rest = rest[:end], rest[end:]
	}
	if arg == "" {
		return Tag{Name: name}, rest, true
	}
	return Tag{Name: name, Args: []string{arg}}, rest, true
}

// scanParens consumes a balanced parenthesized group at the start of s
// and returns its inner content plus the remainder. An unterminated group
// extends to the end of the block.
func scanParens(s string) (string, string, bool) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return s[1:i], s[i+1:], true
			}
		}
	}
	return s[1:], "", true
}

// splitTopLevel splits on commas outside nested parentheses, so the tag
// list of \t(0,500,\clip(1,2,3,4)) stays one argument.
func splitTopLevel(s string) []string {
	if s == "" {
		return nil
	}
	var args []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	args = append(args, strings.TrimSpace(s[start:]))
	return args
}

// EachTag walks every override tag in a block's contents, including tags
// nested inside \t(...), without rewriting anything.
func EachTag(block string, visit func(Tag)) {
	RewriteTags(block, func(t Tag) []Piece {
		visit(t)
		return nil
	}, nil)
}

// TextCallbacks drive RewriteText. Nil members leave the corresponding
// content unchanged. When Block is set it receives each whole {...} block
// (braces included) and Tag/Comment are not consulted.
type TextCallbacks struct {
	// KeepSpecials routes the \N, \n and \h escapes to Special instead
	// of treating them as plain text.
	KeepSpecials bool

	Text    func(string) string
	Special func(string) string
	Block   func(string) string
	Tag     TagFunc
	Comment CommentFunc
	// Drawing receives plain-text segments while the drawing scale set by
	// a preceding \p tag is positive.
	Drawing func(string) string
}

// RewriteText scans a line's text for override blocks and rebuilds it
// through the callbacks. The drawing scale signalled by \p<n> is threaded
// from each block to the plain-text segments that follow it.
func RewriteText(text string, cb TextCallbacks) string {
	var out strings.Builder
	rest := text
	drawScale := 0

	flushPlain := func(seg string) {
		if seg == "" {
			return
		}
		if drawScale > 0 {
			if cb.Drawing != nil {
				out.WriteString(cb.Drawing(seg))
			} else {
				out.WriteString(seg)
			}
			return
		}
		if !cb.KeepSpecials {
			if cb.Text != nil {
				out.WriteString(cb.Text(seg))
			} else {
				out.WriteString(seg)
			}
			return
		}
		for seg != "" {
			idx, code := nextSpecial(seg)
			if idx < 0 {
				if cb.Text != nil {
					out.WriteString(cb.Text(seg))
				} else {
					out.WriteString(seg)
				}
				break
			}
			if idx > 0 {
				if cb.Text != nil {
					out.WriteString(cb.Text(seg[:idx]))
				} else {
					out.WriteString(seg[:idx])
				}
			}
			if cb.Special != nil {
				out.WriteString(cb.Special(code))
			} else {
				out.WriteString(code)
			}
			seg = seg[idx+len(code):]
		}
	}

	for rest != "" {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			flushPlain(rest)
			break
		}
		flushPlain(rest[:open])
		rest = rest[open:]

		closing := strings.IndexByte(rest, '}')
		if closing < 0 {
			// unterminated block: treat the remainder as plain text
			flushPlain(rest)
			break
		}
		raw := rest[:closing+1]
		rest = rest[closing+1:]

		var rebuilt string
		if cb.Block != nil {
			rebuilt = cb.Block(raw)
		} else {
			rebuilt = "{" + RewriteTags(raw[1:len(raw)-1], cb.Tag, cb.Comment) + "}"
		}
		out.WriteString(rebuilt)

		if scale, found := drawingScale(raw); found {
			drawScale = scale
		}
	}
	return out.String()
}

func nextSpecial(s string) (int, string) {
	for i := 0; i+1 < len(s); i++ {
		if s[i] != '\\' {
			continue
		}
		switch s[i+1] {
		case 'N', 'n', 'h':
			return i, s[i : i+2]
		}
	}
	return -1, ""
}

// drawingScale extracts the last \p value from a block, brace delimiters
// included or not.
func drawingScale(block string) (int, bool) {
	block = strings.TrimPrefix(block, "{")
	block = strings.TrimSuffix(block, "}")
	scale, found := 0, false
	EachTag(block, func(t Tag) {
		if t.Name != "p" {
			return
		}
		if v, err := parseInt(t.Arg(0)); err == nil {
			scale, found = v, true
		}
	})
	return scale, found
}

// StripTags removes every override block from text and replaces hard
// break escapes with lineBreak and \h with a space. The caption exporter
// and display-text helpers use it.
func StripTags(text, lineBreak string) string {
	stripped := RewriteText(text, TextCallbacks{
		KeepSpecials: true,
		Block:        func(string) string { return "" },
		Special: func(code string) string {
			if code == "\\h" {
				return " "
			}
			return lineBreak
		},
	})
	return strings.TrimSpace(stripped)
}
