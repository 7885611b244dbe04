// Package config loads the YAML configuration shared by the CLI commands.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/bpkcongli/schema-checker/pkg/catalog"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
// Schemas are read separately from the rest so field order is preserved.
type Config struct {
	Log     LogConfig            `mapstructure:"log"`
	Server  ServerConfig         `mapstructure:"server"`
	Redis   RedisConfig          `mapstructure:"redis"`
	Schemas []catalog.Definition `mapstructure:"-"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ServerConfig struct {
	Port         int   `mapstructure:"port"`
	MaxBodyBytes int64 `mapstructure:"max_body_bytes"`
	// RecordRejections stores refused payloads in the rejection log.
	RecordRejections bool `mapstructure:"record_rejections"`
	// MaskFields are regular expressions; payload keys matching any of them
	// are masked in the rejection log.
	MaskFields []string `mapstructure:"mask_fields"`
}

// RedisConfig enables the Redis rejection log when Addr is set.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// Default returns the configuration used for keys the file leaves out.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Port:             8080,
			MaxBodyBytes:     1 << 20,
			RecordRejections: true,
		},
		Redis: RedisConfig{
			Prefix: "schemachecker:rejection:",
		},
	}
}

// Load reads and parses the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML document on top of Default().
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return cfg, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: config must be a mapping", root.Line)
	}

	var raw map[string]any
	if err := root.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if node := valueOf(root, "schemas"); node != nil {
		defs, err := parseSchemas(node)
		if err != nil {
			return nil, err
		}
		cfg.Schemas = defs
	}
	delete(raw, "schemas")

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused: true,
		Result:      cfg,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func valueOf(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

// parseSchemas reads:
//
//	schemas:
//	  signup:
//	    description: ...
//	    mandatory:
//	      username: string
//	    non_mandatory:
//	      contactPerson: ContactPerson
func parseSchemas(node *yaml.Node) ([]catalog.Definition, error) {
	if isNull(node) {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: schemas must map names to definitions", node.Line)
	}

	defs := make([]catalog.Definition, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, body := node.Content[i], node.Content[i+1]
		def := catalog.Definition{Name: key.Value}

		if !isNull(body) {
			if body.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("line %d: schema %s must be a mapping", body.Line, def.Name)
			}
			for j := 0; j+1 < len(body.Content); j += 2 {
				k, v := body.Content[j], body.Content[j+1]
				var err error
				switch k.Value {
				case "description":
					def.Description = v.Value
				case "mandatory":
					def.Mandatory, err = parseFields(v)
				case "non_mandatory":
					def.NonMandatory, err = parseFields(v)
				default:
					err = fmt.Errorf("line %d: unknown key %q", k.Line, k.Value)
				}
				if err != nil {
					return nil, fmt.Errorf("schema %s: %w", def.Name, err)
				}
			}
		}

		defs = append(defs, def)
	}
	return defs, nil
}

func parseFields(node *yaml.Node) ([]catalog.FieldDef, error) {
	if isNull(node) {
		return []catalog.FieldDef{}, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: fields must map names to types", node.Line)
	}

	fields := make([]catalog.FieldDef, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name, typ := node.Content[i], node.Content[i+1]
		if typ.Kind != yaml.ScalarNode || typ.Value == "" {
			return nil, fmt.Errorf("line %d: field %s needs a type name", typ.Line, name.Value)
		}
		fields = append(fields, catalog.FieldDef{Name: name.Value, Type: typ.Value})
	}
	return fields, nil
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.Tag == "!!null"
}
