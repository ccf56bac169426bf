package ass

// InfoEntry is one key/value line of the [Script Info] section.
// Entries keep their insertion order when written back.
type InfoEntry struct {
	Key   string
	Value string
}

// Colour is an ARGB colour, serialized as &HAABBGGRR.
type Colour struct {
	Alpha uint8
	Red   uint8
	Green uint8
	Blue  uint8
}

// Style is a named V4+ style. Once registered in a document it is treated
// as immutable; events refer to it by table index. Placeholder styles are
// fabricated lazily when an event names a style the document never
// declared, so reading degrades gracefully instead of failing.
type Style struct {
	Name            string
	FontName        string
	FontSize        float64
	PrimaryColour   Colour
	SecondaryColour Colour
	OutlineColour   Colour
	BackColour      Colour
	Bold            bool
	Italic          bool
	Underline       bool
	StrikeOut       bool
	ScaleX          float64
	ScaleY          float64
	Spacing         float64
	Angle           float64
	BorderStyle     int
	Outline         float64
	Shadow          float64
	Alignment       int
	MarginL         int
	MarginR         int
	MarginV         int
	Encoding        int
	Placeholder     bool
}

// EqualsIgnoringName reports structural equality between two styles,
// excluding Name and the placeholder flag. Merge and event registration
// use it to reuse an existing style instead of duplicating it.
func (s *Style) EqualsIgnoringName(o *Style) bool {
	a, b := *s, *o
	a.Name, b.Name = "", ""
	a.Placeholder, b.Placeholder = false, false
	return a == b
}

// Event kinds as they appear in the [Events] section.
const (
	KindDialogue = "Dialogue"
	KindComment  = "Comment"
)

// Event is one typed record of the [Events] section. Start and End are in
// seconds. Style is an index into the owning document's style table.
type Event struct {
	Kind    string
	Layer   int
	Start   float64
	End     float64
	Style   int
	Name    string
	MarginL int
	MarginR int
	MarginV int
	Effect  string
	Text    string
}

// Document is an in-memory subtitle document: ordered script info
// entries, an owned style table, and ordered events.
type Document struct {
	Info   []InfoEntry
	Styles []*Style
	Events []*Event

	styleFormat []string
	eventFormat []string
}

// NewDocument returns an empty document with the standard V4+ field
// orders already declared.
func NewDocument() *Document {
	return &Document{
		styleFormat: defaultStyleFormat(),
		eventFormat: defaultEventFormat(),
	}
}

// SetInfo adds or replaces a script info entry, keeping first-insertion
// order for existing keys.
func (d *Document) SetInfo(key, value string) {
	for i := range d.Info {
		if d.Info[i].Key == key {
			d.Info[i].Value = value
			return
		}
	}
	d.Info = append(d.Info, InfoEntry{Key: key, Value: value})
}

// InfoValue returns the value for key, or "" when absent.
func (d *Document) InfoValue(key string) string {
	for i := range d.Info {
		if d.Info[i].Key == key {
			return d.Info[i].Value
		}
	}
	return ""
}

// AddStyle appends a style and returns its index. The caller must not
// mutate the style afterwards.
func (d *Document) AddStyle(s *Style) int {
	d.Styles = append(d.Styles, s)
	return len(d.Styles) - 1
}

// InternStyle returns the index of a registered style structurally equal
// to s (name excluded), registering s when none matches.
func (d *Document) InternStyle(s *Style) int {
	for i, have := range d.Styles {
		if have.EqualsIgnoringName(s) {
			return i
		}
	}
	return d.AddStyle(s)
}

// StyleIndex resolves a style by name. Unknown names fabricate a
// placeholder so positional parsing never fails on a dangling reference.
func (d *Document) StyleIndex(name string) int {
	for i, s := range d.Styles {
		if s.Name == name {
			return i
		}
	}
	ph := defaultStyle()
	ph.Name = name
	ph.Placeholder = true
	return d.AddStyle(ph)
}

// StyleName returns the referenced style's name, or "Default" for an
// out-of-range index.
func (d *Document) StyleName(idx int) string {
	if idx < 0 || idx >= len(d.Styles) {
		return "Default"
	}
	return d.Styles[idx].Name
}

// StyleOf returns the event's style, or nil for an out-of-range index.
func (d *Document) StyleOf(e *Event) *Style {
	if e.Style < 0 || e.Style >= len(d.Styles) {
		return nil
	}
	return d.Styles[e.Style]
}

// AddEvent appends an event and returns it.
func (d *Document) AddEvent(e *Event) *Event {
	if e.Kind == "" {
		e.Kind = KindDialogue
	}
	d.Events = append(d.Events, e)
	return e
}

func defaultStyle() *Style {
	return &Style{
		Name:            "Default",
		FontName:        "Arial",
		FontSize:        20,
		PrimaryColour:   Colour{Red: 0xFF, Green: 0xFF, Blue: 0xFF},
		SecondaryColour: Colour{Red: 0xFF},
		BackColour:      Colour{},
		ScaleX:          100,
		ScaleY:          100,
		BorderStyle:     1,
		Outline:         2,
		Shadow:          2,
		Alignment:       2,
		MarginL:         10,
		MarginR:         10,
		MarginV:         10,
		Encoding:        1,
	}
}
