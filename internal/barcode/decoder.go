package barcode

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/aztec"
	"github.com/makiuchi-d/gozxing/datamatrix"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"

	"github.com/MeKo-Tech/barscan/internal/binarizer"
	"github.com/MeKo-Tech/barscan/internal/luminance"
)

// thresholdNudge is the bias applied in both directions when trying harder.
const thresholdNudge = 8

// DecodeError reports a genuine fault while decoding, as opposed to a frame
// that simply holds no symbol.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("decode %s: %v", e.Op, e.Err) }

func (e *DecodeError) Unwrap() error { return e.Err }

// Decoder locates and decodes at most one symbol per bitmap. It holds no
// per-call state, so a single Decoder may serve every frame.
type Decoder struct {
	logger *slog.Logger
}

// NewDecoder returns a Decoder. A nil logger falls back to slog.Default.
func NewDecoder(logger *slog.Logger) *Decoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Decoder{logger: logger}
}

// attempt is one pass over the bitmap in the try-harder sequence.
type attempt struct {
	name     string
	bias     int
	rotation int
	pure     bool
}

func plan(h Hints) []attempt {
	steps := []attempt{{name: "base", pure: h.PureBarcode}}
	if !h.TryHarder {
		return steps
	}
	steps = append(steps,
		attempt{name: "bias-", bias: -thresholdNudge, pure: h.PureBarcode},
		attempt{name: "bias+", bias: thresholdNudge, pure: h.PureBarcode},
		attempt{name: "rot90", rotation: 90, pure: h.PureBarcode},
		attempt{name: "rot180", rotation: 180, pure: h.PureBarcode},
		attempt{name: "rot270", rotation: 270, pure: h.PureBarcode},
	)
	if !h.PureBarcode {
		steps = append(steps, attempt{name: "pure", pure: true})
	}
	return steps
}

// Decode searches bm for a symbol in hints.PossibleFormats. It returns
// (nil, nil) when nothing is found. When several symbols decode in the same
// pass the one with the largest bounding box wins.
func (d *Decoder) Decode(bm *binarizer.Bitmap, hints Hints) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = &DecodeError{Op: "decode", Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if bm == nil {
		return nil, &DecodeError{Op: "input", Err: errors.New("nil bitmap")}
	}
	if err := hints.Validate(); err != nil {
		return nil, &DecodeError{Op: "hints", Err: err}
	}
	lum := bm.Luminance()
	if lum == nil || lum.Width != bm.Width() || lum.Height != bm.Height() || len(lum.Pix) != lum.Width*lum.Height {
		return nil, &DecodeError{Op: "input", Err: errors.New("bitmap and luminance dimensions differ")}
	}

	for _, a := range plan(hints) {
		res, err := d.try(bm, a, hints)
		if err != nil {
			return nil, err
		}
		if res != nil {
			d.logger.Debug("symbol decoded", "attempt", a.name, "format", res.Format.String())
			return res, nil
		}
	}
	return nil, nil
}

func (d *Decoder) try(bm *binarizer.Bitmap, a attempt, hints Hints) (*Result, error) {
	target := bm
	var err error
	switch {
	case a.rotation != 0:
		var rotated *luminance.Image
		rotated, err = luminance.Rotate(bm.Luminance(), a.rotation)
		if err == nil {
			target, err = binarizer.BinarizeWithBias(rotated, bm.Bias())
		}
	case a.bias != 0:
		target, err = binarizer.BinarizeWithBias(bm.Luminance(), bm.Bias()+a.bias)
	}
	if err != nil {
		return nil, &DecodeError{Op: a.name, Err: err}
	}

	zhints := libraryHints(hints, a.pure)
	var best *Result
	for _, f := range hints.PossibleFormats {
		r, err := decodeFormat(target.Binary(), f, zhints)
		if err != nil {
			return nil, err
		}
		if r == nil || r.Text == "" || !hints.Allows(r.Format) {
			continue
		}
		if a.rotation != 0 {
			for i, p := range r.Points {
				x, y := luminance.Unrotate(p.X, p.Y, a.rotation, bm.Width(), bm.Height())
				r.Points[i] = Point{X: x, Y: y}
			}
		}
		r.BBox = rectFromPoints(r.Points)
		if best == nil || r.Area() > best.Area() {
			best = r
		}
	}
	return best, nil
}

func libraryHints(h Hints, pure bool) map[gozxing.DecodeHintType]interface{} {
	hints := make(map[gozxing.DecodeHintType]interface{})
	formats := make([]gozxing.BarcodeFormat, 0, len(h.PossibleFormats))
	for _, f := range h.PossibleFormats {
		if bf, ok := mapFormatToZXing(f); ok {
			formats = append(formats, bf)
		}
	}
	hints[gozxing.DecodeHintType_POSSIBLE_FORMATS] = formats
	// the library checks for presence, not value
	if h.TryHarder {
		hints[gozxing.DecodeHintType_TRY_HARDER] = true
	}
	if pure {
		hints[gozxing.DecodeHintType_PURE_BARCODE] = true
	}
	return hints
}

// decodeFormat runs a fresh single-format reader over bb. Reader exceptions
// (not found, checksum, format) mean "no symbol of this format".
func decodeFormat(bb *gozxing.BinaryBitmap, f Format, hints map[gozxing.DecodeHintType]interface{}) (*Result, error) {
	reader := newReader(f)
	if reader == nil {
		return nil, nil
	}
	zr, err := reader.Decode(bb, hints)
	if err != nil {
		var re gozxing.ReaderException
		if errors.As(err, &re) {
			return nil, nil
		}
		return nil, &DecodeError{Op: f.Name(), Err: err}
	}
	if zr == nil {
		return nil, nil
	}

	res := &Result{Text: zr.GetText(), Format: mapFormatFromZXing(zr.GetBarcodeFormat())}
	for _, p := range zr.GetResultPoints() {
		if p == nil {
			continue
		}
		res.Points = append(res.Points, Point{X: p.GetX(), Y: p.GetY()})
	}
	return res, nil
}

func newReader(f Format) gozxing.Reader {
	switch f {
	case FormatQR:
		return qrcode.NewQRCodeReader()
	case FormatDataMatrix:
		return datamatrix.NewDataMatrixReader()
	case FormatAztec:
		return aztec.NewAztecReader()
	case FormatCode128:
		return oned.NewCode128Reader()
	case FormatCode39:
		return oned.NewCode39Reader()
	case FormatEAN8:
		return oned.NewEAN8Reader()
	case FormatEAN13:
		return oned.NewEAN13Reader()
	case FormatUPCA:
		return oned.NewUPCAReader()
	case FormatUPCE:
		return oned.NewUPCEReader()
	case FormatITF:
		return oned.NewITFReader()
	case FormatCodabar:
		return oned.NewCodaBarReader()
	default:
		return nil
	}
}

func mapFormatToZXing(f Format) (gozxing.BarcodeFormat, bool) {
	switch f {
	case FormatQR:
		return gozxing.BarcodeFormat_QR_CODE, true
	case FormatDataMatrix:
		return gozxing.BarcodeFormat_DATA_MATRIX, true
	case FormatAztec:
		return gozxing.BarcodeFormat_AZTEC, true
	case FormatCode128:
		return gozxing.BarcodeFormat_CODE_128, true
	case FormatCode39:
		return gozxing.BarcodeFormat_CODE_39, true
	case FormatEAN8:
		return gozxing.BarcodeFormat_EAN_8, true
	case FormatEAN13:
		return gozxing.BarcodeFormat_EAN_13, true
	case FormatUPCA:
		return gozxing.BarcodeFormat_UPC_A, true
	case FormatUPCE:
		return gozxing.BarcodeFormat_UPC_E, true
	case FormatITF:
		return gozxing.BarcodeFormat_ITF, true
	case FormatCodabar:
		return gozxing.BarcodeFormat_CODABAR, true
	default:
		return 0, false
	}
}

func mapFormatFromZXing(bf gozxing.BarcodeFormat) Format {
	switch bf {
	case gozxing.BarcodeFormat_QR_CODE:
		return FormatQR
	case gozxing.BarcodeFormat_DATA_MATRIX:
		return FormatDataMatrix
	case gozxing.BarcodeFormat_AZTEC:
		return FormatAztec
	case gozxing.BarcodeFormat_CODE_128:
		return FormatCode128
	case gozxing.BarcodeFormat_CODE_39:
		return FormatCode39
	case gozxing.BarcodeFormat_EAN_8:
		return FormatEAN8
	case gozxing.BarcodeFormat_EAN_13:
		return FormatEAN13
	case gozxing.BarcodeFormat_UPC_A:
		return FormatUPCA
	case gozxing.BarcodeFormat_UPC_E:
		return FormatUPCE
	case gozxing.BarcodeFormat_ITF:
		return FormatITF
	case gozxing.BarcodeFormat_CODABAR:
		return FormatCodabar
	default:
		return FormatUnknown
	}
}
