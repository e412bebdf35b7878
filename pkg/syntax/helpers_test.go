package syntax

import (
	stderrors "errors"
	"fmt"

	"github.com/matzehuels/pyfmt/pkg/errors"
)

func typeName(v any) string { return fmt.Sprintf("%T", v) }

func asParseError(err error, target **errors.ParseError) bool {
	return stderrors.As(err, target)
}
