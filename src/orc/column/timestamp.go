package column

import (
	"time"

	"github.com/omyshell/presto/src/orc/stream"
)

var pow10 = [8]int64{1, 10, 100, 1000, 10000, 100000, 1000000, 10000000}

// decodeNanos expands the trailing-zero-run encoded SECONDARY value: the low
// 3 bits count how many trailing decimal zeros were stripped from the
// nanosecond value, the remaining bits are the stripped value.
func decodeNanos(v int64) int64 {
	factor := v & 0x7
	return (v >> 3) * pow10[factor]
}

// TimestampReader decodes TIMESTAMP columns: PRESENT, a DATA stream of
// seconds since the ORC epoch (2015-01-01 00:00:00 in the file's writer
// time zone), and a SECONDARY stream of trailing-zero-run-encoded nanos.
// The file-zone-relative epoch is resolved to an absolute instant once per
// value; because an absolute instant is the same instant under any zone,
// the session zone only affects how a caller later formats it, not the
// stored value.
type TimestampReader struct {
	col     int
	pres    present
	seconds stream.IntegerDecoder
	nanos   stream.IntegerDecoder
	epoch   time.Time
}

func orcEpoch(fileZone *time.Location) time.Time {
	return time.Date(2015, time.January, 1, 0, 0, 0, 0, fileZone)
}

func NewTimestampReader(col int, presentStream *stream.BooleanStream, seconds, nanos stream.IntegerDecoder, fileZone *time.Location) *TimestampReader {
	return &TimestampReader{col: col, pres: present{stream: presentStream}, seconds: seconds, nanos: nanos, epoch: orcEpoch(fileZone)}
}

func (r *TimestampReader) StartRowGroup(ps stream.PositionSource) error {
	positions, err := ps.Positions(r.col)
	if err != nil {
		return err
	}
	if err := r.pres.seek(positions); err != nil {
		return err
	}
	if err := r.seconds.Seek(positions); err != nil {
		return err
	}
	return r.nanos.Seek(positions)
}

func (r *TimestampReader) ReadBatch(out *Batch, size int) (int, error) {
	out.ensureTimestamp(size)
	if _, err := r.pres.fill(size, out.NullMask); err != nil {
		return 0, err
	}
	for i := 0; i < size; i++ {
		if out.NullMask[i] {
			continue
		}
		secs, err := r.seconds.ReadValue()
		if err != nil {
			return 0, err
		}
		encodedNanos, err := r.nanos.ReadValue()
		if err != nil {
			return 0, err
		}
		nanos := decodeNanos(encodedNanos)
		instant := r.epoch.Add(time.Duration(secs) * time.Second).Add(time.Duration(nanos))
		out.Longs[i] = instant.Unix()
		out.Nanos[i] = int64(instant.Nanosecond())
	}
	out.Count = size
	return size, nil
}

func (r *TimestampReader) Skip(n int) error {
	nonNull, err := r.pres.skip(n)
	if err != nil {
		return err
	}
	if err := r.seconds.Skip(nonNull); err != nil {
		return err
	}
	return r.nanos.Skip(nonNull)
}
