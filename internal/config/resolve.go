package config

// Setting keys consulted when resolving the checker executable.
const (
	ProjectExecutableKey = "MypyReveal.executable"
	LinterExecutableKey  = "SublimeLinter.linters.mypy.executable"
	DefaultExecutable    = "mypy"
)

// Lookup is one step of a fallback chain.
type Lookup func() (string, bool)

// FirstOf returns the value of the first lookup that succeeds, or fallback.
func FirstOf(fallback string, lookups ...Lookup) string {
	for _, lookup := range lookups {
		if v, ok := lookup(); ok {
			return v
		}
	}
	return fallback
}

// Literal succeeds with v unless v is empty.
func Literal(v string) Lookup {
	return func() (string, bool) {
		return v, v != ""
	}
}

// ProjectSetting looks key up in the project settings.
func ProjectSetting(p *Project, key string) Lookup {
	return func() (string, bool) {
		return p.Setting(key)
	}
}

// GlobalExecutable reads the executable from the settings store.
func GlobalExecutable(s *Settings) Lookup {
	return func() (string, bool) {
		if s == nil || s.Executable == "" {
			return "", false
		}
		return s.Executable, true
	}
}

// Sources gathers everything executable resolution may consult.
type Sources struct {
	Override string // Per-invocation override, e.g. a command-line flag
	Project  *Project
	Settings *Settings
}

// ResolveExecutable resolves the checker executable. It is evaluated on
// every call and never cached.
func ResolveExecutable(src Sources) string {
	return ExpandHome(FirstOf(DefaultExecutable,
		Literal(src.Override),
		ProjectSetting(src.Project, ProjectExecutableKey),
		ProjectSetting(src.Project, LinterExecutableKey),
		GlobalExecutable(src.Settings),
	))
}

// ResolveWorkingDir returns the directory the checker runs in: the first
// project folder, or "" to inherit the caller's.
func ResolveWorkingDir(p *Project) string {
	return p.Root()
}
