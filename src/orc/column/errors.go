package column

import orcerrors "github.com/omyshell/presto/src/orc/errors"

func indexError(idx int64, dictSize int) error {
	return orcerrors.Corruption(orcerrors.Context{}, "dictionary index out of range")
}
