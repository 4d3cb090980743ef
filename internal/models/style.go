package models

// RenderStyle is the YAML drawing policy handed to the rendering
// collaborator: global stroke settings plus per-label color overrides.
// The backend never interprets colors; it only validates and relays them.
type RenderStyle struct {
	DefaultColor    string       `json:"defaultColor" yaml:"default_color"`
	BackgroundColor string       `json:"backgroundColor" yaml:"background_color"`
	LineThickness   int          `json:"lineThickness" yaml:"line_thickness"`
	PointRadius     int          `json:"pointRadius" yaml:"point_radius"`
	FontSize        int          `json:"fontSize" yaml:"font_size"`
	LabelColors     []LabelColor `json:"labelColors" yaml:"label_colors"`
}

// LabelColor maps a label pattern (with * wildcards) to a color.
type LabelColor struct {
	Pattern string `json:"pattern" yaml:"pattern"`
	Color   string `json:"color" yaml:"color"`
}

// StyleInfo contains metadata about an uploaded style file.
type StyleInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	UploadedAt string `json:"uploadedAt"`
	RuleCount  int    `json:"ruleCount"`
}
