package secret

import (
	"errors"
	"slices"
	"testing"
)

func TestRegistry_RegisterAndCreate(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register("stub", func(cfg map[string]any) (Provider, error) {
		return &stubProvider{name: "stub"}, nil
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	p, err := reg.Create("stub", map[string]any{"k": "v"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if p.Name() != "stub" {
		t.Fatalf("unexpected provider: %#v", p)
	}
}

func TestRegistry_RegisterInvalid(t *testing.T) {
	reg := NewRegistry()
	factory := func(map[string]any) (Provider, error) { return &stubProvider{name: "stub"}, nil }

	if err := reg.Register(" ", factory); err == nil {
		t.Fatal("expected error for blank name")
	}
	if err := reg.Register("stub", nil); err == nil {
		t.Fatal("expected error for nil factory")
	}
	_ = reg.Register("stub", factory)
	if err := reg.Register("stub", factory); err == nil {
		t.Fatal("expected duplicate registration error")
	}
}

func TestRegistry_CreateUnknown(t *testing.T) {
	if _, err := NewRegistry().Create("missing", nil); !errors.Is(err, ErrUnknownProvider) {
		t.Fatalf("expected ErrUnknownProvider, got %v", err)
	}
}

func TestDefaultRegistry_Builtins(t *testing.T) {
	if got := DefaultRegistry.List(); !slices.Equal(got, []string{"env", "file"}) {
		t.Fatalf("List() = %v", got)
	}

	p, err := DefaultRegistry.Create("file", map[string]any{"dir": "/run/secrets"})
	if err != nil {
		t.Fatalf("Create(file) error = %v", err)
	}
	if fp, ok := p.(*FileProvider); !ok || fp.Dir != "/run/secrets" {
		t.Fatalf("unexpected provider %#v", p)
	}
}
