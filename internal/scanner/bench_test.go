package scanner

import (
	"testing"

	"github.com/MeKo-Tech/barscan/internal/barcode"
	"github.com/MeKo-Tech/barscan/internal/binarizer"
	"github.com/MeKo-Tech/barscan/internal/frame"
	"github.com/MeKo-Tech/barscan/internal/luminance"
	"github.com/MeKo-Tech/barscan/internal/testutil"
)

func benchmarkPipeline(b *testing.B, f *frame.Frame, hints barcode.Hints) {
	b.Helper()
	var adapter luminance.Adapter
	defer adapter.Release()
	dec := barcode.NewDecoder(nil)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		lum, err := adapter.Convert(f)
		if err != nil {
			b.Fatal(err)
		}
		bm, err := binarizer.Binarize(lum)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := dec.Decode(bm, hints); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkPipeline_QR(b *testing.B) {
	benchmarkPipeline(b, testutil.MustQRFrame(b, testutil.QRPayload), barcode.DefaultHints())
}

func BenchmarkPipeline_EAN13(b *testing.B) {
	benchmarkPipeline(b, testutil.MustEAN13Frame(b, testutil.EAN13Payload), barcode.DefaultHints())
}

// A blank frame runs every try-harder attempt, the worst case per frame.
func BenchmarkPipeline_BlankTryHarder(b *testing.B) {
	benchmarkPipeline(b, testutil.WhiteFrame(), barcode.DefaultHints())
}

func BenchmarkPipeline_BlankFast(b *testing.B) {
	hints := barcode.DefaultHints()
	hints.TryHarder = false
	benchmarkPipeline(b, testutil.WhiteFrame(), hints)
}
