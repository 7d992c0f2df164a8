package diagram

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakePager struct {
	out  string
	err  error
	code string
}

func (f *fakePager) Eval(_ context.Context, _, _ string, args ...any) (string, error) {
	if len(args) > 0 {
		f.code, _ = args[0].(string)
	}
	return f.out, f.err
}

func TestRenderPassesCodeAndReturnsSVG(t *testing.T) {
	pager := &fakePager{out: "<svg>ok</svg>"}
	r := New(pager, nil)

	svg, errMsg := r.Render(context.Background(), "graph TD; A-->B")
	if errMsg != "" {
		t.Fatalf("unexpected error %q", errMsg)
	}
	if svg != "<svg>ok</svg>" {
		t.Fatalf("expected svg passthrough, got %q", svg)
	}
	if pager.code != "graph TD; A-->B" {
		t.Fatalf("diagram code not forwarded, got %q", pager.code)
	}
}

func TestRenderBlankInput(t *testing.T) {
	pager := &fakePager{out: "<svg/>"}
	r := New(pager, nil)

	svg, errMsg := r.Render(context.Background(), "   \n ")
	if svg != "" || errMsg != "" {
		t.Fatalf("blank input must yield empty strings, got (%q, %q)", svg, errMsg)
	}
	if pager.code != "" {
		t.Fatal("blank input must not reach the renderer")
	}
}

func TestRenderFailureIsContained(t *testing.T) {
	r := New(&fakePager{err: errors.New("parse error on line 2")}, nil)

	svg, errMsg := r.Render(context.Background(), "graph TD; A--")
	if svg != "" {
		t.Fatal("failed render must not return markup")
	}
	if !strings.Contains(errMsg, "parse error") {
		t.Fatalf("expected the engine message, got %q", errMsg)
	}
}
