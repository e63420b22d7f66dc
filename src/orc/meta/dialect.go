package meta

import orcerrors "github.com/omyshell/presto/src/orc/errors"

// Dialect distinguishes the Apache ORC wire format from the legacy DWRF
// (Facebook) one; both are parsed through the same call surface, selected
// once at open time from the postscript's shape.
type Dialect uint8

const (
	DialectORC Dialect = iota
	DialectDWRF
)

func (d Dialect) String() string {
	if d == DialectDWRF {
		return "DWRF"
	}
	return "ORC"
}

func unsupportedMetadata(name, msg string) error {
	return orcerrors.UnsupportedMetadata(orcerrors.Context{File: name}, msg)
}
