package config

import (
	"errors"
	"fmt"

	twominute "github.com/necrop/twominuteoed-build"
)

// Config is the root configuration of a preparation run.
type Config struct {
	Paths    PathsConfig             `yaml:"paths"`
	Timeline TimelineConfig          `yaml:"timeline"`
	Filters  FiltersConfig           `yaml:"filters"`
	Sampling SamplingConfig          `yaml:"sampling"`
	Dithers  []twominute.DitherPoint `yaml:"dithers"`
	Output   OutputConfig            `yaml:"output"`
	Log      LogConfig               `yaml:"log"`
}

// PathsConfig locates the input files and the output directory.
type PathsConfig struct {
	LanguageCoordinates string `yaml:"language_coordinates" env:"TMO_LANGUAGE_COORDINATES" env-required:"true"`
	SourceData          string `yaml:"source_data"          env:"TMO_SOURCE_DATA"          env-required:"true"`
	Overrides           string `yaml:"overrides"            env:"TMO_OVERRIDES"`
	Etymologies         string `yaml:"etymologies"          env:"TMO_ETYMOLOGIES"`
	OutDir              string `yaml:"out_dir"              env:"TMO_OUT_DIR"              env-default:"./twominuteoed/data"`
}

// TimelineConfig bounds the animated period.
type TimelineConfig struct {
	StartYear      int `yaml:"start_year"      env:"TMO_START_YEAR"      env-default:"800"`
	EndYear        int `yaml:"end_year"        env:"TMO_END_YEAR"        env-default:"2010"`
	AnimationStart int `yaml:"animation_start" env:"TMO_ANIMATION_START" env-default:"1150"`
}

// FiltersConfig drops language categories at load time. Everything is
// kept except unspecified-language entries unless told otherwise.
type FiltersConfig struct {
	ExcludeEnglish     bool `yaml:"exclude_english"     env:"TMO_EXCLUDE_ENGLISH"`
	ExcludeGermanic    bool `yaml:"exclude_germanic"    env:"TMO_EXCLUDE_GERMANIC"`
	IncludeUnspecified bool `yaml:"include_unspecified" env:"TMO_INCLUDE_UNSPECIFIED"`
}

// SamplingConfig tunes winnowing and randomness.
type SamplingConfig struct {
	Cap               int      `yaml:"cap"                env:"TMO_CAP"                env-default:"50"`
	ReferenceLat      float64  `yaml:"reference_lat"      env:"TMO_REFERENCE_LAT"      env-default:"52.6"`
	ReferenceLon      float64  `yaml:"reference_lon"      env:"TMO_REFERENCE_LON"      env-default:"-1.1"`
	ExcludedLanguages []string `yaml:"excluded_languages" env:"TMO_EXCLUDED_LANGUAGES" env-default:"English,Germanic,West Germanic"`
	Blocklist         []string `yaml:"blocklist"          env:"TMO_BLOCKLIST"          env-default:"shit,fuck,bugger,cunt,piss"`
	LanguageGroups    []string `yaml:"language_groups"    env:"TMO_LANGUAGE_GROUPS"    env-default:"germanic,english,romance,latin,greek,other"`
	Seed              int64    `yaml:"seed"               env:"TMO_SEED"`
}

// OutputConfig selects the artifact encoding.
type OutputConfig struct {
	Format string `yaml:"format" env:"TMO_OUTPUT_FORMAT" env-default:"json"`
}

// LogConfig controls logging.
type LogConfig struct {
	Debug bool `yaml:"debug" env:"TMO_DEBUG"`
}

// EntryFilters converts the load filters.
func (c *Config) EntryFilters() twominute.Filters {
	return twominute.Filters{
		IncludeEnglish:     !c.Filters.ExcludeEnglish,
		IncludeGermanic:    !c.Filters.ExcludeGermanic,
		IncludeUnspecified: c.Filters.IncludeUnspecified,
	}
}

// AnimationTimeline converts the timeline settings.
func (c *Config) AnimationTimeline() twominute.Timeline {
	return twominute.Timeline{
		StartYear:      c.Timeline.StartYear,
		EndYear:        c.Timeline.EndYear,
		AnimationStart: c.Timeline.AnimationStart,
	}
}

// ReferencePoint is the point winnowing measures distance from.
func (c *Config) ReferencePoint() twominute.Point {
	return twominute.Point{Lat: c.Sampling.ReferenceLat, Lon: c.Sampling.ReferenceLon}
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	var errs []error
	t := c.Timeline
	if t.StartYear < twominute.MinEntryYear {
		errs = append(errs, fmt.Errorf("timeline.start_year %d is before %d", t.StartYear, twominute.MinEntryYear))
	}
	if t.EndYear < t.StartYear {
		errs = append(errs, fmt.Errorf("timeline.end_year %d is before start_year %d", t.EndYear, t.StartYear))
	}
	if t.AnimationStart < t.StartYear || t.AnimationStart > t.EndYear {
		errs = append(errs, fmt.Errorf("timeline.animation_start %d is outside [%d, %d]", t.AnimationStart, t.StartYear, t.EndYear))
	}
	if c.Sampling.Cap <= 0 {
		errs = append(errs, fmt.Errorf("sampling.cap must be positive, got %d", c.Sampling.Cap))
	}
	if c.Sampling.ReferenceLat < -90 || c.Sampling.ReferenceLat > 90 {
		errs = append(errs, fmt.Errorf("sampling.reference_lat %v out of range", c.Sampling.ReferenceLat))
	}
	if c.Sampling.ReferenceLon < -180 || c.Sampling.ReferenceLon > 180 {
		errs = append(errs, fmt.Errorf("sampling.reference_lon %v out of range", c.Sampling.ReferenceLon))
	}
	if len(c.Sampling.LanguageGroups) == 0 {
		errs = append(errs, errors.New("sampling.language_groups is empty"))
	}
	if _, err := twominute.ParseFormat(c.Output.Format); err != nil {
		errs = append(errs, fmt.Errorf("output.format: %w", err))
	}
	return errors.Join(errs...)
}
