package models

// PublicationMode controls how a generated newsletter is published to Ghost.
type PublicationMode string

const (
	ModeDraft        PublicationMode = "draft"
	ModePublish      PublicationMode = "publish"
	ModeEmail        PublicationMode = "email"
	ModeEmailPublish PublicationMode = "email+publish"
)

// SourceConfig configures one content source for a generation run.
type SourceConfig struct {
	Enabled  bool `json:"enabled"`
	Days     int  `json:"days"`
	MaxItems int  `json:"max_items"`
}

// TautulliConfig extends SourceConfig with media-server specific options.
type TautulliConfig struct {
	SourceConfig
	FeaturedItem bool `json:"featured_item"`
}

// TunarrConfig extends SourceConfig with TV programming options.
type TunarrConfig struct {
	SourceConfig
	Channels      []string `json:"channels,omitempty"`
	DisplayFormat string   `json:"display_format,omitempty"`
}

// StatisticsConfig configures the statistics section.
type StatisticsConfig struct {
	Enabled           bool `json:"enabled"`
	Days              int  `json:"days"`
	IncludeComparison bool `json:"include_comparison"`
}

// MaintenanceConfig configures an optional maintenance notice.
type MaintenanceConfig struct {
	Enabled       bool   `json:"enabled"`
	Description   string `json:"description,omitempty"`
	Type          string `json:"type,omitempty"`
	DurationValue int    `json:"duration_value,omitempty"`
	DurationUnit  string `json:"duration_unit,omitempty"`
	StartDatetime string `json:"start_datetime,omitempty"`
}

// GenerationConfig is the full configuration for one newsletter generation,
// mirroring the backend's generation schema.
type GenerationConfig struct {
	TemplateID        string          `json:"template_id"`
	Title             string          `json:"title,omitempty"`
	PublicationMode   PublicationMode `json:"publication_mode,omitempty"`
	GhostNewsletterID string          `json:"ghost_newsletter_id,omitempty"`

	Tautulli       TautulliConfig `json:"tautulli"`
	Romm           SourceConfig   `json:"romm"`
	Komga          SourceConfig   `json:"komga"`
	Audiobookshelf SourceConfig   `json:"audiobookshelf"`
	Tunarr         TunarrConfig   `json:"tunarr"`

	Statistics  StatisticsConfig  `json:"statistics"`
	Maintenance MaintenanceConfig `json:"maintenance"`

	MaxTotalItems int  `json:"max_total_items,omitempty"`
	SkipIfEmpty   bool `json:"skip_if_empty,omitempty"`
}

// DefaultGenerationConfig returns a config with the backend's defaults:
// draft mode, all sources disabled, seven-day windows.
func DefaultGenerationConfig(templateID string) GenerationConfig {
	src := SourceConfig{Days: 7, MaxItems: -1}
	return GenerationConfig{
		TemplateID:      templateID,
		Title:           "Newsletter {{date.week}}",
		PublicationMode: ModeDraft,
		Tautulli:        TautulliConfig{SourceConfig: src},
		Romm:            src,
		Komga:           src,
		Audiobookshelf:  src,
		Tunarr:          TunarrConfig{SourceConfig: src, DisplayFormat: "grid"},
		Statistics:      StatisticsConfig{Days: 7},
		MaxTotalItems:   -1,
	}
}
