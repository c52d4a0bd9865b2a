package logging

import (
	"testing"

	"github.com/pion/logging"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]logging.LogLevel{
		"error": logging.LogLevelError,
		"WARN":  logging.LogLevelWarn,
		"info":  logging.LogLevelInfo,
		"debug": logging.LogLevelDebug,
		"trace": logging.LogLevelTrace,
		"off":   logging.LogLevelDisabled,
	}

	for name, expected := range cases {
		name, expected := name, expected
		t.Run(name, func(t *testing.T) {
			level, err := ParseLevel(name)
			if err != nil {
				t.Fatal(err)
			}
			if level != expected {
				t.Errorf("expected %v, got %v", expected, level)
			}
		})
	}

	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected an error for an unknown level")
	}
}
