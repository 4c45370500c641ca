package skills

// Metadata represents the frontmatter of a SKILL.md file
type Metadata struct {
	Name          string
	Description   string
	License       string
	Compatibility string
	AllowedTools  string
	// Extra holds the nested metadata: block in declaration order
	Extra Fields
}

// Definition is a validated skill as loaded from disk
type Definition struct {
	Metadata Metadata
	// Body is everything after the closing frontmatter delimiter
	Body string
	// FullContent is the original document, injected verbatim on activation
	FullContent string
	// Dir is the directory containing SKILL.md
	Dir string
}

// Name is a shorthand for d.Metadata.Name
func (d *Definition) Name() string {
	return d.Metadata.Name
}

// Field is a single key/value pair of the metadata block
type Field struct {
	Key   string
	Value string
}

// Fields is an insertion-ordered string map. Setting an existing key
// replaces its value without moving it.
type Fields struct {
	items []Field
	index map[string]int
}

// Set adds or replaces key.
func (f *Fields) Set(key, value string) {
	if f.index == nil {
		f.index = make(map[string]int)
	}
	if i, ok := f.index[key]; ok {
		f.items[i].Value = value
		return
	}
	f.index[key] = len(f.items)
	f.items = append(f.items, Field{Key: key, Value: value})
}

// Get returns the value stored under key.
func (f *Fields) Get(key string) (string, bool) {
	i, ok := f.index[key]
	if !ok {
		return "", false
	}
	return f.items[i].Value, true
}

// Len returns the number of keys.
func (f *Fields) Len() int {
	return len(f.items)
}

// All returns a copy of the pairs in insertion order.
func (f *Fields) All() []Field {
	out := make([]Field, len(f.items))
	copy(out, f.items)
	return out
}
