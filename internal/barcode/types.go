// Package barcode decodes one symbol per binarized frame.
//
// A Decoder never treats an empty frame as a failure: when no symbol is
// present Decode returns (nil, nil). Errors are reserved for faults such as
// malformed input or an unexpected failure inside the decoder library.
package barcode

import (
	"errors"
	"fmt"
	"image"
	"strings"
)

// Format represents a barcode symbology.
type Format int

const (
	FormatUnknown Format = iota
	FormatQR
	FormatDataMatrix
	FormatAztec
	FormatCode128
	FormatCode39
	FormatEAN8
	FormatEAN13
	FormatUPCA
	FormatUPCE
	FormatITF
	FormatCodabar
)

// AllFormats lists every symbology the decoder can be asked for.
var AllFormats = []Format{
	FormatQR, FormatDataMatrix, FormatAztec,
	FormatCode128, FormatCode39, FormatEAN8, FormatEAN13,
	FormatUPCA, FormatUPCE, FormatITF, FormatCodabar,
}

// String returns the upper case symbology name printed in decode lines.
func (f Format) String() string {
	switch f {
	case FormatQR:
		return "QR_CODE"
	case FormatDataMatrix:
		return "DATA_MATRIX"
	case FormatAztec:
		return "AZTEC"
	case FormatCode128:
		return "CODE_128"
	case FormatCode39:
		return "CODE_39"
	case FormatEAN8:
		return "EAN_8"
	case FormatEAN13:
		return "EAN_13"
	case FormatUPCA:
		return "UPC_A"
	case FormatUPCE:
		return "UPC_E"
	case FormatITF:
		return "ITF"
	case FormatCodabar:
		return "CODABAR"
	default:
		return "UNKNOWN"
	}
}

// Name returns the short configuration name accepted by ParseFormat.
func (f Format) Name() string {
	switch f {
	case FormatQR:
		return "qr"
	case FormatDataMatrix:
		return "datamatrix"
	case FormatAztec:
		return "aztec"
	case FormatCode128:
		return "code128"
	case FormatCode39:
		return "code39"
	case FormatEAN8:
		return "ean8"
	case FormatEAN13:
		return "ean13"
	case FormatUPCA:
		return "upca"
	case FormatUPCE:
		return "upce"
	case FormatITF:
		return "itf"
	case FormatCodabar:
		return "codabar"
	default:
		return "unknown"
	}
}

// ParseFormat accepts configuration names ("qr", "ean-13") as well as the
// printed names ("QR_CODE", "EAN_13").
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "qr", "qrcode", "qr_code":
		return FormatQR, true
	case "datamatrix", "data-matrix", "data_matrix":
		return FormatDataMatrix, true
	case "aztec":
		return FormatAztec, true
	case "code128", "code-128", "code_128":
		return FormatCode128, true
	case "code39", "code-39", "code_39":
		return FormatCode39, true
	case "ean8", "ean-8", "ean_8":
		return FormatEAN8, true
	case "ean13", "ean-13", "ean_13":
		return FormatEAN13, true
	case "upca", "upc-a", "upc_a":
		return FormatUPCA, true
	case "upce", "upc-e", "upc_e":
		return FormatUPCE, true
	case "itf", "interleaved2of5", "i2/5":
		return FormatITF, true
	case "codabar":
		return FormatCodabar, true
	default:
		return FormatUnknown, false
	}
}

// ParseFormats parses a list of names, dropping duplicates and keeping order.
func ParseFormats(names []string) ([]Format, error) {
	out := make([]Format, 0, len(names))
	seen := make(map[Format]bool, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		f, ok := ParseFormat(n)
		if !ok {
			return nil, fmt.Errorf("unknown barcode format %q", n)
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out, nil
}

// ErrNoFormats is returned when hints name no symbology to search for.
var ErrNoFormats = errors.New("possible formats must not be empty")

// Hints controls how hard the decoder searches and for which symbologies.
// The decoder reads hints on every call and keeps no copy.
type Hints struct {
	// TryHarder enables threshold perturbation, rotated and pure-barcode attempts.
	TryHarder bool

	// PossibleFormats restricts decoding to the listed symbologies, in
	// priority order.
	PossibleFormats []Format

	// PureBarcode assumes the frame holds only a symbol with no quiet zone.
	PureBarcode bool
}

// DefaultHints searches hard for QR and EAN-13 symbols.
func DefaultHints() Hints {
	return Hints{TryHarder: true, PossibleFormats: []Format{FormatQR, FormatEAN13}}
}

// Validate checks the hints invariants.
func (h Hints) Validate() error {
	if len(h.PossibleFormats) == 0 {
		return ErrNoFormats
	}
	for _, f := range h.PossibleFormats {
		if f <= FormatUnknown || f > FormatCodabar {
			return fmt.Errorf("invalid format %d in hints", int(f))
		}
	}
	return nil
}

// Allows reports whether f is one of the permitted formats.
func (h Hints) Allows(f Format) bool {
	for _, p := range h.PossibleFormats {
		if p == f {
			return true
		}
	}
	return false
}

// Point is a location in frame pixel coordinates.
type Point struct {
	X float64
	Y float64
}

// Result represents a decoded barcode.
type Result struct {
	Text   string
	Format Format
	Points []Point          // finder/guard pattern locations, if reported
	BBox   image.Rectangle // bounding box of Points
}

// Area returns the bounding box area used to rank competing symbols.
func (r *Result) Area() int {
	if r == nil || len(r.Points) < 2 {
		return 0
	}
	return r.BBox.Dx() * r.BBox.Dy()
}

// Anchor returns the first reported point, if any.
func (r *Result) Anchor() (Point, bool) {
	if r == nil || len(r.Points) == 0 {
		return Point{}, false
	}
	return r.Points[0], true
}

func rectFromPoints(pts []Point) image.Rectangle {
	if len(pts) == 0 {
		return image.Rectangle{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := pts[0].X, pts[0].Y
	for _, p := range pts[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return image.Rect(int(minX), int(minY), int(maxX)+1, int(maxY)+1)
}
