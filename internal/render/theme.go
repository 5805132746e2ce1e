package render

// Theme defines colors for the elements of a host diagram.
type Theme struct {
	Name   string
	Colors map[string]ThemeColor
}

// ThemeColor defines fill and stroke colors for an element type.
type ThemeColor struct {
	Fill   string
	Stroke string
	Font   string
}

var themes = map[string]*Theme{
	"default": {
		Name: "default",
		Colors: map[string]ThemeColor{
			"datacenter": {Fill: "#E0F2FE", Stroke: "#0284C7", Font: "#075985"},
			"server":     {Fill: "#FFF7ED", Stroke: "#EA580C", Font: "#9A3412"},
			"agent":      {Fill: "#DCFCE7", Stroke: "#16A34A", Font: "#166534"},
			"service":    {Fill: "#E0E7FF", Stroke: "#4F46E5", Font: "#3730A3"},
			"database":   {Fill: "#EDE9FE", Stroke: "#7C3AED", Font: "#5B21B6"},
			"unresolved": {Fill: "#FEE2E2", Stroke: "#DC2626", Font: "#991B1B"},
		},
	},
	"dark": {
		Name: "dark",
		Colors: map[string]ThemeColor{
			"datacenter": {Fill: "#082F49", Stroke: "#0EA5E9", Font: "#7DD3FC"},
			"server":     {Fill: "#431407", Stroke: "#F97316", Font: "#FDBA74"},
			"agent":      {Fill: "#052E16", Stroke: "#22C55E", Font: "#86EFAC"},
			"service":    {Fill: "#1E1B4B", Stroke: "#818CF8", Font: "#A5B4FC"},
			"database":   {Fill: "#2E1065", Stroke: "#A78BFA", Font: "#C4B5FD"},
			"unresolved": {Fill: "#450A0A", Stroke: "#EF4444", Font: "#FCA5A5"},
		},
	},
	"monochrome": {
		Name: "monochrome",
		Colors: map[string]ThemeColor{
			"datacenter": {Fill: "#F3F4F6", Stroke: "#6B7280", Font: "#374151"},
			"server":     {Fill: "#E5E7EB", Stroke: "#4B5563", Font: "#1F2937"},
			"agent":      {Fill: "#D1D5DB", Stroke: "#374151", Font: "#111827"},
			"service":    {Fill: "#F9FAFB", Stroke: "#9CA3AF", Font: "#4B5563"},
			"database":   {Fill: "#D1D5DB", Stroke: "#4B5563", Font: "#1F2937"},
			"unresolved": {Fill: "#FFFFFF", Stroke: "#111827", Font: "#111827"},
		},
	},
}

// ThemeNames returns all available theme names.
func ThemeNames() []string {
	return []string{"default", "dark", "monochrome"}
}

// GetTheme returns the named theme or the default.
func GetTheme(name string) *Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes["default"]
}

// ColorFor returns the theme color for a named element.
func (t *Theme) ColorFor(name string) ThemeColor {
	if c, ok := t.Colors[name]; ok {
		return c
	}
	return ThemeColor{Fill: "#F9FAFB", Stroke: "#D1D5DB", Font: "#111827"}
}
