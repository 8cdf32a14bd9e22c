package secret

import (
	"errors"
	"strings"
	"testing"
)

func TestExpandEnvStrict_MissingVarErrors(t *testing.T) {
	t.Setenv("PRESENT", "ok")

	_, err := ExpandEnvStrict("a=${PRESENT} b=${MISSING_B} c=${MISSING_A} d=${MISSING_B}")
	if !errors.Is(err, ErrMissingEnv) {
		t.Fatalf("expected ErrMissingEnv, got %v", err)
	}
	if !strings.HasSuffix(err.Error(), "MISSING_A, MISSING_B") {
		t.Fatalf("expected sorted, deduplicated names, got: %v", err)
	}
}

func TestExpandEnvStrict_Expands(t *testing.T) {
	t.Setenv("WECHAT_APPID", "wx123")

	out, err := ExpandEnvStrict("${WECHAT_APPID}-${WECHAT_APPID}")
	if err != nil {
		t.Fatalf("ExpandEnvStrict() error = %v", err)
	}
	if out != "wx123-wx123" {
		t.Fatalf("ExpandEnvStrict() = %q", out)
	}
}

func TestExpandEnvStrict_DollarEscape(t *testing.T) {
	t.Setenv("X", "y")
	out, err := ExpandEnvStrict("$${X}-${X}")
	if err != nil {
		t.Fatalf("ExpandEnvStrict() error = %v", err)
	}
	if out != "${X}-y" {
		t.Fatalf("ExpandEnvStrict() = %q, want %q", out, "${X}-y")
	}
}

func TestExpandEnvStrict_EscapedRefIsNotRequired(t *testing.T) {
	out, err := ExpandEnvStrict("$${JSAPISIGN_TEST_UNSET_VARIABLE}")
	if err != nil {
		t.Fatalf("ExpandEnvStrict() error = %v", err)
	}
	if out != "${JSAPISIGN_TEST_UNSET_VARIABLE}" {
		t.Fatalf("ExpandEnvStrict() = %q", out)
	}
}

func TestExpandEnvStrict_BareDollarsKept(t *testing.T) {
	t.Setenv("Xy", "leaked")

	tests := []string{
		"k3y$Xy",
		"abc$def",
		"a$$b",
		"$",
		"trailing$",
		"$1${",
		"${not closed",
	}
	for _, in := range tests {
		out, err := ExpandEnvStrict(in)
		if err != nil {
			t.Fatalf("ExpandEnvStrict(%q) error = %v", in, err)
		}
		if out != in {
			t.Errorf("ExpandEnvStrict(%q) = %q, want unchanged", in, out)
		}
	}
}
