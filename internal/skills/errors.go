package skills

import "fmt"

// Validation rules reported by ValidationError.
const (
	RuleFrontmatterStart = "frontmatter-start"
	RuleFrontmatterEnd   = "frontmatter-end"
	RuleMalformedLine    = "malformed-line"
	RuleNameMissing      = "name-missing"
	RuleNameLength       = "name-length"
	RuleNameDirectory    = "name-directory"
	RuleNameCharset      = "name-charset"
	RuleNameHyphenEdge   = "name-hyphen-edge"
	RuleNameHyphenRun    = "name-hyphen-run"
	RuleDescMissing      = "description-missing"
	RuleDescLength       = "description-length"
	RuleCompatLength     = "compatibility-length"
)

// ValidationError reports a malformed or non-conformant skill document.
type ValidationError struct {
	Path string
	Rule string
	Msg  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("skill file '%s': %s (%s)", e.Path, e.Msg, e.Rule)
}

func invalid(path, rule, format string, args ...any) *ValidationError {
	return &ValidationError{Path: path, Rule: rule, Msg: fmt.Sprintf(format, args...)}
}

// ConfigurationError reports a missing or unusable skills directory.
type ConfigurationError struct {
	Dir string
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("skills directory '%s': %v", e.Dir, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
