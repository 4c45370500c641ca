package skills

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/wallacegibbon/skillclaw/internal/logger"
)

// SkillFileName is the document looked up in every skill directory.
const SkillFileName = "SKILL.md"

const summaryHeader = "Available skills:"

// Catalog is the read-only set of skills a session can activate
type Catalog struct {
	skills []*Definition
	byName map[string]*Definition
}

// NewCatalog builds a catalog from already validated definitions, keeping
// their order. Names must be unique.
func NewCatalog(defs ...*Definition) (*Catalog, error) {
	c := &Catalog{
		skills: make([]*Definition, 0, len(defs)),
		byName: make(map[string]*Definition, len(defs)),
	}
	for _, def := range defs {
		name := def.Name()
		if _, exists := c.byName[name]; exists {
			return nil, errors.Errorf("duplicate skill name '%s'", name)
		}
		c.skills = append(c.skills, def)
		c.byName[name] = def
	}
	return c, nil
}

// Load builds a catalog from the immediate subdirectories of dir. A
// subdirectory without SKILL.md is not a skill and is skipped; the first
// invalid skill aborts the load.
func Load(dir string) (*Catalog, error) {
	entries, err := readSkillsDir(dir)
	if err != nil {
		return nil, err
	}

	var defs []*Definition
	for _, entry := range entries {
		skillDir := filepath.Join(dir, entry.Name())
		def, err := loadSkill(skillDir, entry.Name())
		if err != nil {
			return nil, err
		}
		if def == nil {
			continue
		}
		logger.L.WithFields(logrus.Fields{"skill": def.Name(), "path": skillDir}).Debug("skill loaded")
		defs = append(defs, def)
	}

	return NewCatalog(defs...)
}

// ValidateDir checks every skill under dir and reports all failures rather
// than stopping at the first one.
func ValidateDir(dir string) error {
	entries, err := readSkillsDir(dir)
	if err != nil {
		return err
	}

	var result *multierror.Error
	for _, entry := range entries {
		if _, err := loadSkill(filepath.Join(dir, entry.Name()), entry.Name()); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// readSkillsDir returns the directory entries of dir that are directories,
// following symlinks, in lexical order.
func readSkillsDir(dir string) ([]os.DirEntry, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, &ConfigurationError{Dir: dir, Err: err}
	}
	if !info.IsDir() {
		return nil, &ConfigurationError{Dir: dir, Err: errors.New("not a directory")}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &ConfigurationError{Dir: dir, Err: err}
	}

	dirs := entries[:0]
	for _, entry := range entries {
		info, err := os.Stat(filepath.Join(dir, entry.Name()))
		if err != nil || !info.IsDir() {
			continue
		}
		dirs = append(dirs, entry)
	}
	return dirs, nil
}

// loadSkill returns nil, nil when skillDir holds no SKILL.md.
func loadSkill(skillDir, dirName string) (*Definition, error) {
	skillFile := filepath.Join(skillDir, SkillFileName)
	content, err := os.ReadFile(skillFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to read %s", skillFile)
	}

	def, err := Parse(skillFile, dirName, string(content))
	if err != nil {
		return nil, err
	}
	def.Dir = skillDir
	return def, nil
}

// Lookup finds a skill by exact name.
func (c *Catalog) Lookup(name string) (*Definition, bool) {
	def, ok := c.byName[name]
	return def, ok
}

// Skills returns the definitions in load order.
func (c *Catalog) Skills() []*Definition {
	out := make([]*Definition, len(c.skills))
	copy(out, c.skills)
	return out
}

// Len returns the number of skills.
func (c *Catalog) Len() int {
	return len(c.skills)
}

// IsEmpty reports whether the catalog has no skills.
func (c *Catalog) IsEmpty() bool {
	return len(c.skills) == 0
}

// Summarize renders one "- name: description" line per skill under a fixed
// header, for injection into prompts. An empty catalog yields "".
func (c *Catalog) Summarize() string {
	if c.IsEmpty() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(summaryHeader)
	for _, def := range c.skills {
		sb.WriteString("\n- ")
		sb.WriteString(def.Metadata.Name)
		sb.WriteString(": ")
		sb.WriteString(def.Metadata.Description)
	}
	return sb.String()
}
