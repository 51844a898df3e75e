package lang

import (
	"context"
	"testing"
)

var benchSources = []struct {
	name   string
	source string
}{
	{"Literal", "42"},
	{"Range", "-10.5..10.5"},
	{"IntegerRange", "0..1000|*1"},
	{"Selection", "[1, 2, 3, 4, 5]"},
	{"Nested", "(0..5)..[10, 20..30]"},
	{"Rejection", "0..1000|!*2,3,5"},
	{"Precomputed", "0..1000|!*2,3,5"},
}

func BenchmarkCompile(b *testing.B) {
	for _, bs := range benchSources {
		b.Run(bs.name, func(b *testing.B) {
			b.ReportAllocs()

			for b.Loop() {
				if _, err := Compile(context.Background(), bs.source); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkCompileCached(b *testing.B) {
	b.Cleanup(ClearCache)

	for _, bs := range benchSources {
		b.Run(bs.name, func(b *testing.B) {
			b.ReportAllocs()

			for b.Loop() {
				if _, err := CompileCached(context.Background(), bs.source); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkGenerate(b *testing.B) {
	for _, bs := range benchSources {
		opts := []Option{WithSeed(1)}
		if bs.name == "Rejection" {
			opts = append(opts, WithPrecompute(false))
		}

		p := mustCompile(b, bs.source, opts...)

		b.Run(bs.name, func(b *testing.B) {
			b.ReportAllocs()

			for b.Loop() {
				p.Generate()
			}
		})
	}
}

func BenchmarkGenerateCrypto(b *testing.B) {
	p := mustCompile(b, "-10.5..10.5")

	b.ReportAllocs()

	for b.Loop() {
		p.Generate()
	}
}
