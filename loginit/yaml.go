package loginit

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"

	"go.jacobcolvin.com/logkit/log"
	"go.jacobcolvin.com/logkit/log/rolling"
)

// ErrParseConfig indicates a YAML configuration document is malformed.
var ErrParseConfig = errors.New("parse logging config")

// document is the YAML form of a [Config]. Pointer fields distinguish absent
// keys from zero values.
type document struct {
	Console       *bool   `yaml:"console"`
	File          *bool   `yaml:"file"`
	Server        *bool   `yaml:"server"`
	Level         *string `yaml:"level"`
	Filter        *string `yaml:"filter"`
	FilePath      *string `yaml:"file_path"`
	FilePrefix    *string `yaml:"file_prefix"`
	FileRotation  *string `yaml:"file_rotation"`
	FileBackups   *int    `yaml:"file_backups"`
	FileFormat    *string `yaml:"file_format"`
	ServerAddress *string `yaml:"server_address"`
	ServerRate    *int    `yaml:"server_rate"`
}

// LoadYAML reads options from a YAML document such as:
//
//	console: true
//	file: true
//	level: debug
//	file_path: /var/log/app
//	file_rotation: hourly
//	file_backups: 7
//
// Keys present in the document count as explicit settings, but they never
// replace options that were already set by a builder call or a flag. Unknown
// keys and invalid values are errors, in which case c is left unchanged.
func (c *Config) LoadYAML(data []byte) error {
	var doc document

	err := yaml.UnmarshalWithOptions(data, &doc, yaml.DisallowUnknownField())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrParseConfig, err)
	}

	level, err := parseField(doc.Level, log.ParseLevel)
	if err != nil {
		return fmt.Errorf("%w: level: %w", ErrParseConfig, err)
	}

	rotation, err := parseField(doc.FileRotation, rolling.ParseRotation)
	if err != nil {
		return fmt.Errorf("%w: file_rotation: %w", ErrParseConfig, err)
	}

	format, err := parseField(doc.FileFormat, log.ParseFormat)
	if err != nil {
		return fmt.Errorf("%w: file_format: %w", ErrParseConfig, err)
	}

	backups, err := parseField(doc.FileBackups, nonNegative)
	if err != nil {
		return fmt.Errorf("%w: file_backups: %w", ErrParseConfig, err)
	}

	rate, err := parseField(doc.ServerRate, nonNegative)
	if err != nil {
		return fmt.Errorf("%w: server_rate: %w", ErrParseConfig, err)
	}

	c.console = c.console.Or(ptrOption(doc.Console))
	c.file = c.file.Or(ptrOption(doc.File))
	c.server = c.server.Or(ptrOption(doc.Server))
	c.level = c.level.Or(level)
	c.filter = c.filter.Or(ptrOption(doc.Filter))
	c.filePath = c.filePath.Or(ptrOption(doc.FilePath))
	c.filePrefix = c.filePrefix.Or(ptrOption(doc.FilePrefix))
	c.fileRotation = c.fileRotation.Or(rotation)
	c.fileBackups = c.fileBackups.Or(backups)
	c.fileFormat = c.fileFormat.Or(format)
	c.serverAddress = c.serverAddress.Or(ptrOption(doc.ServerAddress))
	c.serverRate = c.serverRate.Or(rate)

	return nil
}

func ptrOption[T any](p *T) Option[T] {
	if p == nil {
		return None[T]()
	}

	return Some(*p)
}

func parseField[S, T any](p *S, parse func(S) (T, error)) (Option[T], error) {
	if p == nil {
		return None[T](), nil
	}

	v, err := parse(*p)
	if err != nil {
		return None[T](), err
	}

	return Some(v), nil
}

func nonNegative(n int) (int, error) {
	if n < 0 {
		return 0, fmt.Errorf("%w: %d is negative", log.ErrInvalidArgument, n)
	}

	return n, nil
}
