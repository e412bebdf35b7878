package docviz

import (
	"context"
	"strings"

	"github.com/matzehuels/pyfmt/pkg/doc"
	"github.com/matzehuels/pyfmt/pkg/errors"
)

// Format selects an export encoding.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatDOT  Format = "dot"
	FormatSVG  Format = "svg"
)

// Formats lists the supported encodings in help-text order.
var Formats = []Format{FormatText, FormatYAML, FormatDOT, FormatSVG}

// ParseFormat maps a case-insensitive name to a [Format].
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidOption, "unknown dump format %q (want text, yaml, dot or svg)", s)
}

// Export encodes d in the requested format. ids may be nil.
func Export(ctx context.Context, d doc.Doc, ids *doc.IDs, f Format) ([]byte, error) {
	switch f {
	case FormatText:
		return []byte(doc.Dump(d, ids)), nil
	case FormatYAML:
		return ToYAML(doc.Tree(d, ids))
	case FormatDOT:
		return []byte(ToDOT(doc.Tree(d, ids))), nil
	case FormatSVG:
		return RenderSVG(ctx, ToDOT(doc.Tree(d, ids)))
	}
	return nil, errors.New(errors.ErrCodeInvalidOption, "unknown dump format %q", f)
}
