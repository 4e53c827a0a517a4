package locator

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/shinji-kodama/lastools-toolbox/internal/model"
	"github.com/shinji-kodama/lastools-toolbox/internal/report"
)

// DefaultSuffix is appended to tool names to form executable file names.
const DefaultSuffix = ".exe"

// exampleRoot is the install location suggested when the actual one is
// rejected.
const exampleRoot = `C:\software\lastools`

// Locator resolves executable paths inside one LAStools bin directory.
type Locator struct {
	binDir string
	suffix string

	// join builds executable paths. filepath.Join for a local install,
	// path.Join for a bin directory inside a Linux container image.
	join func(elem ...string) string

	// stat enables existence checks. Disabled for container installs,
	// whose files are not visible from the host.
	stat bool

	m report.Messenger
}

// Option configures a Locator.
type Option func(*Locator)

// WithSuffix overrides the executable file suffix. An empty suffix is
// valid (native Linux builds of LAStools).
func WithSuffix(suffix string) Option {
	return func(l *Locator) {
		l.suffix = suffix
	}
}

// WithMessenger routes "Found ..." and error explanations to m.
func WithMessenger(m report.Messenger) Option {
	return func(l *Locator) {
		if m != nil {
			l.m = m
		}
	}
}

// InstallRoot derives the LAStools root from the path of the running
// executable: three directory levels up.
func InstallRoot(executable string) string {
	return filepath.Dir(filepath.Dir(filepath.Dir(executable)))
}

// ResolveRoot returns override when set, otherwise the root derived
// from executable.
func ResolveRoot(override, executable string) string {
	if strings.TrimSpace(override) != "" {
		return override
	}
	return InstallRoot(executable)
}

// ValidateRoot rejects install paths LAStools cannot be launched from.
// The explanatory lines are reported through m before the error is
// returned.
func ValidateRoot(root string, m report.Messenger) error {
	if m == nil {
		m = report.Discard{}
	}

	var problem string
	switch {
	case strings.Contains(root, " "):
		problem = "spaces"
	case strings.ContainsAny(root, "()"):
		problem = "brackets"
	default:
		return nil
	}

	msg := `Error. Path to .\lastools installation contains ` + problem + "."
	m.AddMessage(msg)
	m.AddMessage("This does not work: " + root)
	m.AddMessage("This would work:    " + exampleRoot)
	return model.ConfigError("%s", msg)
}

// New validates root and returns a Locator for its bin directory.
//
// Steps:
//  1. Reject roots containing spaces or parentheses.
//  2. Require <root>/bin to exist as a directory.
func New(root string, opts ...Option) (*Locator, error) {
	l := newLocator(opts...)
	l.join = filepath.Join
	l.stat = true

	// Step 1: Path validation happens before any filesystem access.
	if err := ValidateRoot(root, l.m); err != nil {
		return nil, err
	}

	// Step 2: The bin directory must exist.
	l.binDir = filepath.Join(root, "bin")
	info, err := os.Stat(l.binDir)
	if err != nil || !info.IsDir() {
		msg := `Cannot find .\lastools\bin at ` + l.binDir
		l.m.AddMessage(msg)
		return nil, model.ConfigError("%s", msg).WithErr(err)
	}
	l.m.AddMessage("Found " + l.binDir + " ...")

	return l, nil
}

// NewContainer returns a Locator for a bin directory inside a container
// image. The path is validated for spaces and parentheses like a local
// root, but nothing is stat-ed.
func NewContainer(binDir string, opts ...Option) (*Locator, error) {
	l := newLocator(opts...)
	l.join = path.Join
	l.stat = false

	if err := ValidateRoot(binDir, l.m); err != nil {
		return nil, err
	}
	l.binDir = binDir
	return l, nil
}

func newLocator(opts ...Option) *Locator {
	l := &Locator{
		suffix: DefaultSuffix,
		m:      report.Discard{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// BinDir returns the resolved bin directory.
func (l *Locator) BinDir() string {
	return l.binDir
}

// Executable returns the path of the named tool's executable, checking
// that it exists for local installs.
func (l *Locator) Executable(tool string) (string, error) {
	name := tool + l.suffix
	p := l.join(l.binDir, name)

	if l.stat {
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			msg := "Cannot find " + name + " at " + p
			l.m.AddMessage(msg)
			return "", model.ConfigError("%s", msg).WithErr(err)
		}
		l.m.AddMessage("Found " + p + " ...")
	}

	return p, nil
}

// Executables resolves every tool in order, failing on the first one
// that is missing. Pipelines use it to check all stages before the first
// one runs. Duplicate names are resolved once.
func (l *Locator) Executables(tools ...string) (map[string]string, error) {
	paths := make(map[string]string, len(tools))
	for _, tool := range tools {
		if _, ok := paths[tool]; ok {
			continue
		}
		p, err := l.Executable(tool)
		if err != nil {
			return nil, err
		}
		paths[tool] = p
	}
	return paths, nil
}
