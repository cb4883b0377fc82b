// Package benchmarks provides benchmarks for holds and shared access.
package benchmarks

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/comalice/traitx"
	"github.com/comalice/traitx/config"
)

func BenchmarkHoldCoalesce(b *testing.B) {
	for _, writes := range []int{2, 16, 128} {
		b.Run(fmt.Sprintf("writes=%d", writes), func(b *testing.B) {
			s := GenFlatSchema(4)
			inst := MustNew(s)
			var delivered int
			inst.Observe(traitx.All, func(traitx.ChangeEvent) error {
				delivered++
				return nil
			})
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				err := inst.Hold(func(h *traitx.Instance) error {
					for w := 0; w < writes; w++ {
						if err := h.Set(fmt.Sprintf("a%d", w%4), i*writes+w+1); err != nil {
							return err
						}
					}
					return nil
				})
				if err != nil {
					b.Fatal(err)
				}
			}
			b.StopTimer()
			if limit := 4 * b.N; delivered > limit {
				b.Fatalf("delivered %d events, want at most %d", delivered, limit)
			}
		})
	}
}

func BenchmarkSharedParallel(b *testing.B) {
	shared := traitx.NewShared(MustNew(GenFlatSchema(4)))
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			i++
			if i%4 == 0 {
				if err := shared.Set("a1", i); err != nil {
					b.Error(err)
					return
				}
				continue
			}
			if _, err := shared.Get("a1"); err != nil {
				b.Error(err)
				return
			}
		}
	})
}

func BenchmarkConfigLoad(b *testing.B) {
	for _, n := range []int{10, 100} {
		b.Run(fmt.Sprintf("attrs=%d", n), func(b *testing.B) {
			data := GenConfigYAML(n)
			path := filepath.Join(b.TempDir(), "bench.yaml")
			if err := os.WriteFile(path, data, 0o600); err != nil {
				b.Fatal(err)
			}
			s := GenFlatSchema(n)
			loader := config.NewLoader(config.WithFiles(path))
			b.SetBytes(int64(len(data)))
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				values, _, err := loader.Load(context.Background())
				if err != nil {
					b.Fatal(err)
				}
				if err := loader.Apply(values, MustNew(s)); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkHelp(b *testing.B) {
	s := GenFlatSchema(50)
	var buf bytes.Buffer
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		if err := config.Help(&buf, s); err != nil {
			b.Fatal(err)
		}
	}
}
