package registry

import (
	"context"
	"testing"

	"mediaconv/internal/config"
	"mediaconv/internal/converters"
)

type nopConverter struct{ name string }

func (n nopConverter) Name() string { return n.name }
func (n nopConverter) Convert(context.Context, string, string, converters.Options) error {
	return nil
}

func testRegistry() *Registry {
	image := nopConverter{name: "image"}
	audio := nopConverter{name: "audio"}
	return NewFromEntries([]Entry{
		{Pair: Pair{".webp", ".png"}, Family: "image", Converter: image},
		{Pair: Pair{".avif", ".png"}, Family: "image", Converter: image},
		{Pair: Pair{".mp3", ".wav"}, Family: "audio", Converter: audio},
	})
}

func TestLookupRegisteredPairs(t *testing.T) {
	cfg := config.Default()
	reg, err := New(&cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	pairs := []Pair{
		{".webp", ".png"},
		{".avif", ".png"},
		{".svg", ".png"},
		{".svgz", ".png"},
		{".mp3", ".wav"},
		{".mp4", ".wav"},
		{".m4v", ".wav"},
		{".m4a", ".wav"},
	}
	for _, pair := range pairs {
		if _, ok := reg.Lookup(pair.Input, pair.Output); !ok {
			t.Errorf("Lookup(%s) should succeed", pair)
		}
	}
}

func TestLookupUnregisteredPairs(t *testing.T) {
	cfg := config.Default()
	reg, err := New(&cfg)
	if err != nil {
		t.Fatal(err)
	}

	for _, pair := range []Pair{
		{".webp", ".wav"},
		{".mp3", ".png"},
		{".txt", ".png"},
		{".png", ".webp"},
	} {
		if _, ok := reg.Lookup(pair.Input, pair.Output); ok {
			t.Errorf("Lookup(%s) should report not found", pair)
		}
	}
}

func TestDefaultOutput(t *testing.T) {
	reg := testRegistry()

	out, ok := reg.DefaultOutput(".webp")
	if !ok || out != ".png" {
		t.Fatalf("DefaultOutput(.webp) = %q, %v", out, ok)
	}
	if _, ok := reg.DefaultOutput(".unknownext"); ok {
		t.Fatal("DefaultOutput(.unknownext) should report not found")
	}
}

func TestLookupNormalizesExtensions(t *testing.T) {
	reg := testRegistry()

	if _, ok := reg.Lookup(".WEBP", ".PNG"); !ok {
		t.Fatal("lookup should be case-insensitive")
	}
	if _, ok := reg.Lookup("webp", "png"); !ok {
		t.Fatal("lookup should tolerate a missing leading dot")
	}
}

func TestInputExtensionsSorted(t *testing.T) {
	reg := testRegistry()

	got := reg.InputExtensions()
	want := []string{".avif", ".mp3", ".webp"}
	if len(got) != len(want) {
		t.Fatalf("extensions = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("extensions = %v, want %v", got, want)
		}
	}
}

func TestSupports(t *testing.T) {
	reg := testRegistry()
	if !reg.Supports(".mp3") {
		t.Fatal("Supports(.mp3) = false")
	}
	if reg.Supports(".txt") {
		t.Fatal("Supports(.txt) = true")
	}
}

func TestDuplicatePairIgnored(t *testing.T) {
	first := nopConverter{name: "first"}
	second := nopConverter{name: "second"}
	reg := NewFromEntries([]Entry{
		{Pair: Pair{".webp", ".png"}, Converter: first},
		{Pair: Pair{".webp", ".png"}, Converter: second},
	})

	conv, ok := reg.Lookup(".webp", ".png")
	if !ok {
		t.Fatal("lookup failed")
	}
	if conv.Name() != "first" {
		t.Fatalf("duplicate registration replaced the original: %s", conv.Name())
	}
	if len(reg.Entries()) != 1 {
		t.Fatalf("entries = %d", len(reg.Entries()))
	}
}
