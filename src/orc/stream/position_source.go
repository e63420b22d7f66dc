package stream

// PositionSource hands back the position vector for a given column id at
// the row group currently being entered. Every column - leaf or composite -
// has its own independent row index and therefore its own position vector;
// a composite reader consults its own entry for its PRESENT/LENGTH streams
// and passes the same PositionSource down so each child looks up its own.
type PositionSource interface {
	Positions(col int) (*PositionReader, error)
}
