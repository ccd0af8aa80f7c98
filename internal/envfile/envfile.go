// Package envfile loads the bot's .env-style configuration: one KEY=VALUE
// pair per line, blank lines and '#'-prefixed comments skipped. This is the
// concrete shape of the "environment-file loading" external collaborator;
// it is used only by cmd/ircbot, never by the server core.
package envfile

import (
	"strings"

	"github.com/horgh/config"
	"github.com/pkg/errors"
)

// Load reads path and returns its key/value pairs, with keys lowercased and
// values kept as written, using github.com/horgh/config's scanning rules
// directly.
func Load(path string) (map[string]string, error) {
	values, err := config.ReadStringMap(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return values, nil
}

// RequireKeys checks that every key in required is present and non-blank
// in values.
func RequireKeys(values map[string]string, required ...string) error {
	for _, key := range required {
		v, ok := values[strings.ToLower(key)]
		if !ok || v == "" {
			return errors.Errorf("missing required key: %s", key)
		}
	}
	return nil
}
