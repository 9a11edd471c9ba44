package motion

// Theme is the colour scheme.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ThemeKey is the storage key for the saved theme.
const ThemeKey = "theme"

// Storage persists small string values (browser storage, a cookie jar, ...).
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// MemoryStorage is a map-backed Storage.
type MemoryStorage map[string]string

func (m MemoryStorage) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m MemoryStorage) Set(key, value string) {
	m[key] = value
}

// LoadTheme returns the saved theme, dark when nothing valid is saved.
func LoadTheme(s Storage) Theme {
	if v, ok := s.Get(ThemeKey); ok && Theme(v) == ThemeLight {
		return ThemeLight
	}
	return ThemeDark
}

// ToggleTheme flips current, persists the result and returns it.
func ToggleTheme(current Theme, s Storage) Theme {
	next := ThemeLight
	if current == ThemeLight {
		next = ThemeDark
	}
	s.Set(ThemeKey, string(next))
	return next
}

// Attr is the value of the root data-theme attribute; dark is the default and has none.
func (t Theme) Attr() string {
	if t == ThemeLight {
		return string(ThemeLight)
	}
	return ""
}
