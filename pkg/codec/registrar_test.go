package codec

import (
	"errors"
	"testing"

	"github.com/pion/hantro/pkg/decoder"
	"github.com/pion/hantro/pkg/g1/g1test"
)

func TestRegistrar(t *testing.T) {
	errBuild := errors.New("build")
	Register("test-codec", BuilderFunc(func() (decoder.Adapter, error) {
		return nil, errBuild
	}), ".TST")

	if _, err := Build("test-codec"); err != errBuild {
		t.Errorf("expected %v, got %v", errBuild, err)
	}
	if _, err := Build("missing"); err == nil {
		t.Error("expected an error for an unknown codec")
	}
	if _, err := BuildSession("missing", g1test.New(1<<20), nil, decoder.Options{}); err == nil {
		t.Error("expected an error for an unknown codec")
	}

	name, ok := ForFile("/tmp/clip.tst")
	if !ok || name != "test-codec" {
		t.Errorf("expected test-codec, got %q", name)
	}
	if _, ok := ForFile("clip.unknown"); ok {
		t.Error("unknown extensions must not match")
	}

	var found bool
	for _, n := range Names() {
		found = found || n == "test-codec"
	}
	if !found {
		t.Errorf("test-codec missing from %v", Names())
	}
}
