package render

import (
	"context"
	"testing"

	apperr "github.com/matzehuels/mindmap/pkg/errors"
)

func TestConvertWithoutTool(t *testing.T) {
	old := converter
	converter = "mindmap-no-such-converter"
	defer func() { converter = old }()

	if Available() {
		t.Fatal("bogus converter should not be found")
	}
	_, err := ToPDF(context.Background(), []byte("<svg/>"))
	if !apperr.Is(err, apperr.ErrCodeUnsupported) {
		t.Errorf("ToPDF err = %v, want UNSUPPORTED", err)
	}
	_, err = ToPNG(context.Background(), []byte("<svg/>"), 2)
	if !apperr.Is(err, apperr.ErrCodeUnsupported) {
		t.Errorf("ToPNG err = %v, want UNSUPPORTED", err)
	}
}

func TestConvertPNG(t *testing.T) {
	if !Available() {
		t.Skip("rsvg-convert not installed")
	}
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><rect width="10" height="10"/></svg>`)
	png, err := ToPNG(context.Background(), svg, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(png) < 8 || string(png[1:4]) != "PNG" {
		t.Errorf("output is not a PNG")
	}
}
