// Package benchmarks provides performance benchmarks for attribute access.
package benchmarks

import (
	"fmt"
	"testing"

	"github.com/comalice/traitx"
)

func BenchmarkGetCommitted(b *testing.B) {
	inst := MustNew(GenFlatSchema(16), traitx.WithValue("a7", 7))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := inst.Get("a7"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkResolveDefaultChain(b *testing.B) {
	for _, depth := range []int{1, 8, 64} {
		b.Run(fmt.Sprintf("depth=%d", depth), func(b *testing.B) {
			s := GenChainSchema(depth)
			last := fmt.Sprintf("c%d", depth-1)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				inst := MustNew(s)
				v, err := inst.Get(last)
				if err != nil {
					b.Fatal(err)
				}
				if v != depth {
					b.Fatalf("%s = %v, want %d", last, v, depth)
				}
			}
		})
	}
}

func BenchmarkSet(b *testing.B) {
	inst := MustNew(GenFlatSchema(16))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := inst.Set("a3", i); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSetCoerced(b *testing.B) {
	inst := MustNew(GenFlatSchema(16))
	vals := []any{"1", 2.0, uint8(3), int64(4)}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := inst.Set("a3", vals[i%len(vals)]); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSetValidated(b *testing.B) {
	for _, n := range []int{1, 4, 16} {
		b.Run(fmt.Sprintf("validators=%d", n), func(b *testing.B) {
			inst := MustNew(GenValidatedSchema(n))
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := inst.Set("v", i); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkSetObserved(b *testing.B) {
	for _, n := range []int{1, 10, 100} {
		b.Run(fmt.Sprintf("observers=%d", n), func(b *testing.B) {
			inst := MustNew(GenFlatSchema(1))
			var delivered int
			for j := 0; j < n; j++ {
				inst.Observe("a0", func(traitx.ChangeEvent) error {
					delivered++
					return nil
				})
			}
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := inst.Set("a0", i+1); err != nil {
					b.Fatal(err)
				}
			}
			b.StopTimer()
			if delivered != n*b.N {
				b.Fatalf("delivered %d, want %d", delivered, n*b.N)
			}
		})
	}
}
