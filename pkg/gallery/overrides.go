package gallery

import (
	"flag"
	"log/slog"
	"slices"
	"strings"

	"github.com/ViBiOh/flags"
)

// Config of package
type Config struct {
	Overrides string
}

// Flags adds flags for configuring package
func Flags(fs *flag.FlagSet, prefix string, overrides ...flags.Override) *Config {
	var config Config

	flags.New("Overrides", "Templates overrides, in the form `id|url~id|url`").Prefix(prefix).DocPrefix("gallery").StringVar(fs, &config.Overrides, "", overrides)

	return &config
}

// WithOverrides replaces the URL of known templates and appends unknown ones, in declaration order
func WithOverrides(templates []Template, value string) []Template {
	output := slices.Clone(templates)

	if len(value) == 0 {
		return output
	}

	for _, override := range strings.Split(value, "~") {
		id, url, ok := strings.Cut(override, "|")
		id, url = strings.TrimSpace(id), strings.TrimSpace(url)

		if !ok || len(id) == 0 || len(url) == 0 {
			slog.Error("parse template override", "override", override)
			continue
		}

		index := slices.IndexFunc(output, func(template Template) bool {
			return template.ID == id
		})

		if index == -1 {
			output = append(output, Template{ID: id, Name: id, URL: url})
			continue
		}

		output[index].URL = url
	}

	return output
}
