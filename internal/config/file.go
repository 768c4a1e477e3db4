package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// LoadFile reads a JSON or YAML config file into a flag-name keyed map.
// camelCase keys are normalised to the kebab-case flag names.
func LoadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	raw := map[string]any{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		err = dec.Decode(&raw)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	values := make(map[string]any, len(raw))
	for key, value := range raw {
		values[kebab(key)] = value
	}
	return values, nil
}

// ResetDefaults puts every flag not given on the command line back to its
// registered default, so a config file can be re-applied from scratch.
func ResetDefaults(flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(flag *pflag.Flag) {
		if flag.Changed || err != nil {
			return
		}
		if sv, ok := flag.Value.(pflag.SliceValue); ok {
			def := strings.Trim(flag.DefValue, "[]")
			if def == "" {
				err = sv.Replace(nil)
			} else {
				err = sv.Replace(strings.Split(def, ","))
			}
		} else {
			err = flag.Value.Set(flag.DefValue)
		}
		if err != nil {
			err = fmt.Errorf("reset flag %q: %w", flag.Name, err)
		}
	})
	return err
}

// ApplyDefaults sets every flag named in values that was not given on the
// command line. Unknown keys are reported as an error.
func ApplyDefaults(flags *pflag.FlagSet, values map[string]any) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		flag := flags.Lookup(key)
		if flag == nil {
			return fmt.Errorf("unknown config key %q", key)
		}
		if flag.Changed {
			continue
		}
		if err := setFlag(flag, values[key]); err != nil {
			return fmt.Errorf("config key %q: %w", key, err)
		}
	}
	return nil
}

func setFlag(flag *pflag.Flag, value any) error {
	if sv, ok := flag.Value.(pflag.SliceValue); ok {
		items, err := toStrings(value)
		if err != nil {
			return err
		}
		return sv.Replace(items)
	}

	switch v := value.(type) {
	case nil:
		return nil
	case []any, map[string]any:
		return fmt.Errorf("expected a scalar value, got %T", value)
	default:
		return flag.Value.Set(scalar(v))
	}
}

// scalar formats a decoded config value without exponent notation.
func scalar(v any) string {
	switch n := v.(type) {
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32)
	default:
		return fmt.Sprint(v)
	}
}

func toStrings(value any) ([]string, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{v}, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			switch item.(type) {
			case []any, map[string]any:
				return nil, fmt.Errorf("expected a list of scalars, got %T", item)
			}
			out = append(out, scalar(item))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a list, got %T", value)
	}
}

// kebab maps camelCase and snake_case keys to flag names. A run of
// capitals is one word: startURL -> start-url, iarcRatingID -> iarc-rating-id.
func kebab(key string) string {
	runes := []rune(key)
	var b strings.Builder
	for i, r := range runes {
		switch {
		case r == '_':
			b.WriteRune('-')
		case unicode.IsUpper(r):
			if i > 0 && wordStart(runes, i) {
				b.WriteRune('-')
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func wordStart(runes []rune, i int) bool {
	prev := runes[i-1]
	if prev == '_' || prev == '-' {
		return false
	}
	if !unicode.IsUpper(prev) {
		return true
	}
	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
