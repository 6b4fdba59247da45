package pipeline

import (
	"os"

	apperr "github.com/matzehuels/mindmap/pkg/errors"
	mmio "github.com/matzehuels/mindmap/pkg/io"
)

// Load decodes the document named by opts. Data wins over Input; the codec
// is InputFormat, else chosen by the Input extension, else JSON for raw
// data.
func Load(opts Options) (mmio.Document, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return mmio.Document{}, err
	}
	data := opts.Data
	if len(data) == 0 {
		var err error
		data, err = os.ReadFile(opts.Input)
		if err != nil {
			if os.IsNotExist(err) {
				return mmio.Document{}, apperr.Wrap(apperr.ErrCodeNotFound, err, "open %s", opts.Input)
			}
			return mmio.Document{}, apperr.Wrap(apperr.ErrCodeInvalidPath, err, "open %s", opts.Input)
		}
	}
	return mmio.Decode(inputFormat(opts), data)
}

func inputFormat(opts Options) mmio.Format {
	switch {
	case opts.InputFormat != "":
		return mmio.Format(opts.InputFormat)
	case len(opts.Data) == 0 && opts.Input != "":
		return mmio.FormatForPath(opts.Input)
	default:
		return mmio.FormatJSON
	}
}
