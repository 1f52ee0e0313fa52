package domain_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/alex-iam/smk/internal/core/domain"
	"go.trai.ch/zerr"
)

func node(path string, kind domain.FileKind, includes ...string) *domain.FileNode {
	incs := make([]domain.FilePath, len(includes))
	for i, inc := range includes {
		incs[i] = domain.NewFilePath(inc)
	}
	return &domain.FileNode{
		Path:     domain.NewFilePath(path),
		Kind:     kind,
		Includes: incs,
	}
}

func TestGraph_AddNode_Duplicate(t *testing.T) {
	g := domain.NewGraph()
	n := node("/src/main.c", domain.KindSource)

	if err := g.AddNode(n); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := g.AddNode(n)
	if err == nil {
		t.Fatal("expected error when adding duplicate node, got nil")
	}
	if !errors.Is(err, domain.ErrNodeAlreadyExists) {
		t.Errorf("expected ErrNodeAlreadyExists, got %v", err)
	}
}

func TestGraph_TransitiveIncludes(t *testing.T) {
	// main.c -> a.h -> b.h -> c.h, util.c -> b.h
	g := domain.NewGraph()
	_ = g.AddNode(node("/src/main.c", domain.KindSource, "/src/a.h"))
	_ = g.AddNode(node("/src/util.c", domain.KindSource, "/src/b.h"))
	_ = g.AddNode(node("/src/a.h", domain.KindHeader, "/src/b.h"))
	_ = g.AddNode(node("/src/b.h", domain.KindHeader, "/src/c.h"))
	_ = g.AddNode(node("/src/c.h", domain.KindHeader))

	set, err := g.TransitiveIncludes(domain.NewFilePath("/src/main.c"))
	if err != nil {
		t.Fatalf("TransitiveIncludes failed: %v", err)
	}

	want := []string{"/src/a.h", "/src/b.h", "/src/c.h"}
	if len(set) != len(want) {
		t.Fatalf("expected %d includes, got %d (%v)", len(want), len(set), set)
	}
	for i, p := range want {
		if set[i].String() != p {
			t.Errorf("include %d: expected %q, got %q", i, p, set[i].String())
		}
	}

	// util.c must not pick up a.h through its sibling.
	set, err = g.TransitiveIncludes(domain.NewFilePath("/src/util.c"))
	if err != nil {
		t.Fatalf("TransitiveIncludes failed: %v", err)
	}
	for _, p := range set {
		if p.String() == "/src/a.h" {
			t.Error("sibling include leaked into util.c's transitive set")
		}
	}
}

func TestGraph_TransitiveIncludes_UnknownFile(t *testing.T) {
	g := domain.NewGraph()
	_, err := g.TransitiveIncludes(domain.NewFilePath("/nope.c"))
	if !errors.Is(err, domain.ErrNodeNotFound) {
		t.Errorf("expected ErrNodeNotFound, got %v", err)
	}
}

func TestGraph_DetectCycle(t *testing.T) {
	// a.h -> b.h -> a.h
	g := domain.NewGraph()
	_ = g.AddNode(node("/src/main.c", domain.KindSource, "/src/a.h"))
	_ = g.AddNode(node("/src/a.h", domain.KindHeader, "/src/b.h"))
	_ = g.AddNode(node("/src/b.h", domain.KindHeader, "/src/a.h"))

	err := g.DetectCycle()
	if err == nil {
		t.Fatal("expected cycle error, got nil")
	}
	if !errors.Is(err, domain.ErrCycleDetected) {
		t.Fatalf("expected ErrCycleDetected, got %v", err)
	}

	var zErr *zerr.Error
	if !errors.As(err, &zErr) {
		t.Fatalf("expected *zerr.Error, got %T", err)
	}
	cycle, ok := zErr.Metadata()["cycle"].(string)
	if !ok {
		t.Fatal("expected cycle metadata on error")
	}
	// The full path must name both headers, not just the repeated one.
	for _, want := range []string{"/src/a.h", "/src/b.h"} {
		if !strings.Contains(cycle, want) {
			t.Errorf("cycle path %q missing %q", cycle, want)
		}
	}
}

func TestGraph_DetectCycle_Acyclic(t *testing.T) {
	// Diamond: main.c -> {a.h, b.h} -> common.h
	g := domain.NewGraph()
	_ = g.AddNode(node("/src/main.c", domain.KindSource, "/src/a.h", "/src/b.h"))
	_ = g.AddNode(node("/src/a.h", domain.KindHeader, "/src/common.h"))
	_ = g.AddNode(node("/src/b.h", domain.KindHeader, "/src/common.h"))
	_ = g.AddNode(node("/src/common.h", domain.KindHeader))

	if err := g.DetectCycle(); err != nil {
		t.Errorf("expected no cycle, got %v", err)
	}
}

func TestGraph_Sources_Deterministic(t *testing.T) {
	g := domain.NewGraph()
	_ = g.AddNode(node("/src/z.c", domain.KindSource))
	_ = g.AddNode(node("/src/a.c", domain.KindSource))
	_ = g.AddNode(node("/src/m.h", domain.KindHeader))

	var got []string
	for n := range g.Sources() {
		got = append(got, n.Path.String())
	}

	want := []string{"/src/a.c", "/src/z.c"}
	if len(got) != len(want) {
		t.Fatalf("expected %d sources, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("source %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
