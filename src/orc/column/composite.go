package column

import "github.com/omyshell/presto/src/orc/stream"

// StructReader decodes STRUCT columns: its own PRESENT plus one child Reader
// per field, each producing exactly as many rows as the struct itself (a
// null struct still advances every field's cursor, since ORC keeps fields
// byte-aligned per row regardless of struct-level nullity).
type StructReader struct {
	col    int
	pres   present
	fields []Reader
}

func NewStructReader(col int, presentStream *stream.BooleanStream, fields []Reader) *StructReader {
	return &StructReader{col: col, pres: present{stream: presentStream}, fields: fields}
}

func (r *StructReader) StartRowGroup(ps stream.PositionSource) error {
	positions, err := ps.Positions(r.col)
	if err != nil {
		return err
	}
	if err := r.pres.seek(positions); err != nil {
		return err
	}
	for _, f := range r.fields {
		if err := f.StartRowGroup(ps); err != nil {
			return err
		}
	}
	return nil
}

func (r *StructReader) ReadBatch(out *Batch, size int) (int, error) {
	out.ensureCap(size)
	if _, err := r.pres.fill(size, out.NullMask); err != nil {
		return 0, err
	}
	if len(out.StructFields) != len(r.fields) {
		out.StructFields = make([]*Batch, len(r.fields))
		for i := range out.StructFields {
			out.StructFields[i] = &Batch{}
		}
	}
	for i, f := range r.fields {
		if _, err := f.ReadBatch(out.StructFields[i], size); err != nil {
			return 0, err
		}
	}
	out.Count = size
	return size, nil
}

func (r *StructReader) Skip(n int) error {
	if _, err := r.pres.skip(n); err != nil {
		return err
	}
	for _, f := range r.fields {
		if err := f.Skip(n); err != nil {
			return err
		}
	}
	return nil
}

// ListReader decodes LIST columns: PRESENT, a LENGTH stream over child
// count per row, and one child Reader whose elements are concatenated
// across rows (a null or empty list contributes zero elements).
type ListReader struct {
	col     int
	pres    present
	lengths stream.IntegerDecoder
	child   Reader
}

func NewListReader(col int, presentStream *stream.BooleanStream, lengths stream.IntegerDecoder, child Reader) *ListReader {
	return &ListReader{col: col, pres: present{stream: presentStream}, lengths: lengths, child: child}
}

func (r *ListReader) StartRowGroup(ps stream.PositionSource) error {
	positions, err := ps.Positions(r.col)
	if err != nil {
		return err
	}
	if err := r.pres.seek(positions); err != nil {
		return err
	}
	if err := r.lengths.Seek(positions); err != nil {
		return err
	}
	return r.child.StartRowGroup(ps)
}

func (r *ListReader) ReadBatch(out *Batch, size int) (int, error) {
	out.ensureCap(size)
	if _, err := r.pres.fill(size, out.NullMask); err != nil {
		return 0, err
	}
	if cap(out.ListLengths) < size {
		out.ListLengths = make([]int, size)
	}
	out.ListLengths = out.ListLengths[:size]

	total := 0
	for i := 0; i < size; i++ {
		if out.NullMask[i] {
			out.ListLengths[i] = 0
			continue
		}
		l, err := r.lengths.ReadValue()
		if err != nil {
			return 0, err
		}
		out.ListLengths[i] = int(l)
		total += int(l)
	}
	if out.ListChild == nil {
		out.ListChild = &Batch{}
	}
	if total > 0 {
		if _, err := r.child.ReadBatch(out.ListChild, total); err != nil {
			return 0, err
		}
	} else {
		out.ListChild.Count = 0
	}
	out.Count = size
	return size, nil
}

func (r *ListReader) Skip(n int) error {
	nonNull, err := r.pres.skip(n)
	if err != nil {
		return err
	}
	total := 0
	for i := 0; i < nonNull; i++ {
		l, err := r.lengths.ReadValue()
		if err != nil {
			return err
		}
		total += int(l)
	}
	if total == 0 {
		return nil
	}
	return r.child.Skip(total)
}

// MapReader decodes MAP columns: PRESENT, a LENGTH stream over pair count,
// and two children (keys, values) whose elements are concatenated the same
// way ListReader's are.
type MapReader struct {
	col     int
	pres    present
	lengths stream.IntegerDecoder
	keys    Reader
	values  Reader
}

func NewMapReader(col int, presentStream *stream.BooleanStream, lengths stream.IntegerDecoder, keys, values Reader) *MapReader {
	return &MapReader{col: col, pres: present{stream: presentStream}, lengths: lengths, keys: keys, values: values}
}

func (r *MapReader) StartRowGroup(ps stream.PositionSource) error {
	positions, err := ps.Positions(r.col)
	if err != nil {
		return err
	}
	if err := r.pres.seek(positions); err != nil {
		return err
	}
	if err := r.lengths.Seek(positions); err != nil {
		return err
	}
	if err := r.keys.StartRowGroup(ps); err != nil {
		return err
	}
	return r.values.StartRowGroup(ps)
}

func (r *MapReader) ReadBatch(out *Batch, size int) (int, error) {
	out.ensureCap(size)
	if _, err := r.pres.fill(size, out.NullMask); err != nil {
		return 0, err
	}
	if cap(out.MapLengths) < size {
		out.MapLengths = make([]int, size)
	}
	out.MapLengths = out.MapLengths[:size]

	total := 0
	for i := 0; i < size; i++ {
		if out.NullMask[i] {
			out.MapLengths[i] = 0
			continue
		}
		l, err := r.lengths.ReadValue()
		if err != nil {
			return 0, err
		}
		out.MapLengths[i] = int(l)
		total += int(l)
	}
	if out.MapKeys == nil {
		out.MapKeys = &Batch{}
	}
	if out.MapValues == nil {
		out.MapValues = &Batch{}
	}
	if total > 0 {
		if _, err := r.keys.ReadBatch(out.MapKeys, total); err != nil {
			return 0, err
		}
		if _, err := r.values.ReadBatch(out.MapValues, total); err != nil {
			return 0, err
		}
	} else {
		out.MapKeys.Count = 0
		out.MapValues.Count = 0
	}
	out.Count = size
	return size, nil
}

func (r *MapReader) Skip(n int) error {
	nonNull, err := r.pres.skip(n)
	if err != nil {
		return err
	}
	total := 0
	for i := 0; i < nonNull; i++ {
		l, err := r.lengths.ReadValue()
		if err != nil {
			return err
		}
		total += int(l)
	}
	if total == 0 {
		return nil
	}
	if err := r.keys.Skip(total); err != nil {
		return err
	}
	return r.values.Skip(total)
}

// UnionReader decodes UNION columns: PRESENT, a byte tag stream selecting
// the active child per row, and one child Reader per branch. Each branch's
// underlying streams only carry values for the rows that selected it, so
// rows are grouped by branch before each branch is read in bulk.
type UnionReader struct {
	col      int
	pres     present
	tags     *stream.ByteStream
	children []Reader
}

func NewUnionReader(col int, presentStream *stream.BooleanStream, tags *stream.ByteStream, children []Reader) *UnionReader {
	return &UnionReader{col: col, pres: present{stream: presentStream}, tags: tags, children: children}
}

func (r *UnionReader) StartRowGroup(ps stream.PositionSource) error {
	positions, err := ps.Positions(r.col)
	if err != nil {
		return err
	}
	if err := r.pres.seek(positions); err != nil {
		return err
	}
	if err := r.tags.Seek(positions); err != nil {
		return err
	}
	for _, c := range r.children {
		if err := c.StartRowGroup(ps); err != nil {
			return err
		}
	}
	return nil
}

func (r *UnionReader) ReadBatch(out *Batch, size int) (int, error) {
	out.ensureCap(size)
	if _, err := r.pres.fill(size, out.NullMask); err != nil {
		return 0, err
	}
	if cap(out.UnionTags) < size {
		out.UnionTags = make([]byte, size)
	}
	out.UnionTags = out.UnionTags[:size]

	counts := make([]int, len(r.children))
	for i := 0; i < size; i++ {
		if out.NullMask[i] {
			continue
		}
		tag, err := r.tags.ReadByte()
		if err != nil {
			return 0, err
		}
		out.UnionTags[i] = tag
		if int(tag) >= len(r.children) {
			return 0, indexError(int64(tag), len(r.children))
		}
		counts[tag]++
	}

	if len(out.UnionChildren) != len(r.children) {
		out.UnionChildren = make([]*Batch, len(r.children))
		for i := range out.UnionChildren {
			out.UnionChildren[i] = &Batch{}
		}
	}
	for branch, c := range r.children {
		if counts[branch] == 0 {
			out.UnionChildren[branch].Count = 0
			continue
		}
		if _, err := c.ReadBatch(out.UnionChildren[branch], counts[branch]); err != nil {
			return 0, err
		}
	}
	out.Count = size
	return size, nil
}

func (r *UnionReader) Skip(n int) error {
	nonNull, err := r.pres.skip(n)
	if err != nil {
		return err
	}
	counts := make([]int, len(r.children))
	for i := 0; i < nonNull; i++ {
		tag, err := r.tags.ReadByte()
		if err != nil {
			return err
		}
		if int(tag) >= len(r.children) {
			return indexError(int64(tag), len(r.children))
		}
		counts[tag]++
	}
	for branch, c := range r.children {
		if counts[branch] == 0 {
			continue
		}
		if err := c.Skip(counts[branch]); err != nil {
			return err
		}
	}
	return nil
}
