package orcweb

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/omyshell/presto/src/orc/column"
	"github.com/omyshell/presto/src/orc/predicate"
	"github.com/omyshell/presto/src/orc/reader"
	"github.com/omyshell/presto/src/orc/source"
)

// handleScan opens an ORC/DWRF file (?path=... for local files, or
// ?bucket=...&key=... for S3), scans the requested columns under an
// optional JSON-encoded tuple-domain predicate, and streams the result as
// newline-delimited JSON batches. Each request is tagged with an ephemeral
// scan id, since a debug endpoint has no durable request state to key log
// lines or the streamed batches on otherwise.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	scanID := uuid.New().String()

	var src source.Source
	var err error
	switch {
	case q.Get("path") != "":
		src, err = source.OpenFile(q.Get("path"))
	case q.Get("bucket") != "" && q.Get("key") != "":
		if s.S3 == nil {
			http.Error(w, "server has no S3 client configured", http.StatusServiceUnavailable)
			return
		}
		src, err = source.OpenS3(ctx, s.S3, q.Get("bucket"), q.Get("key"))
	default:
		http.Error(w, "must supply either ?path= or ?bucket=&key=", http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer src.Close()

	colsParam := q.Get("columns")
	if colsParam == "" {
		http.Error(w, "must supply ?columns=<comma-separated column ids>", http.StatusBadRequest)
		return
	}
	var cols []int
	for _, part := range strings.Split(colsParam, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			http.Error(w, "invalid column id: "+part, http.StatusBadRequest)
			return
		}
		cols = append(cols, n)
	}

	var td predicate.TupleDomain
	if raw := q.Get("predicate"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &td); err != nil {
			http.Error(w, "invalid predicate JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	fileZone := time.UTC
	if tz := q.Get("file_zone"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			http.Error(w, "unknown file_zone: "+tz, http.StatusBadRequest)
			return
		}
		fileZone = loc
	}

	batchSize := 0
	if bs := q.Get("batch_size"); bs != "" {
		n, err := strconv.Atoi(bs)
		if err != nil {
			http.Error(w, "invalid batch_size", http.StatusBadRequest)
			return
		}
		batchSize = n
	}

	log.Printf("scan %s: opening %s columns=%v", scanID, src.Name(), cols)

	rdr, err := reader.Open(ctx, src, reader.Config{
		IncludedColumns: cols,
		Predicate:       td,
		Start:           0,
		Length:          src.Size(),
		FileZone:        fileZone,
		SessionZone:     time.UTC,
		BatchSize:       batchSize,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer rdr.Close()

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("X-Scan-Id", scanID)
	enc := json.NewEncoder(w)
	flusher, _ := w.(http.Flusher)
	for {
		res, err := rdr.NextBatch(batchSize)
		if err != nil {
			fmt.Fprintf(w, "{\"error\": %q, \"scan_id\": %q}\n", err.Error(), scanID)
			return
		}
		if res.Rows == 0 {
			log.Printf("scan %s: done", scanID)
			return
		}
		columns := make(map[string]interface{}, len(res.Columns))
		for col, b := range res.Columns {
			columns[strconv.Itoa(col)] = batchToRows(b)
		}
		if err := enc.Encode(map[string]interface{}{"scan_id": scanID, "rows": res.Rows, "columns": columns}); err != nil {
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// batchToRows flattens a column.Batch into one JSON value per row,
// recursing into composite representations. List/map elements are
// concatenated across the whole batch, so a running offset picks out each
// row's slice.
func batchToRows(b *column.Batch) []interface{} {
	if b == nil {
		return nil
	}
	rows := make([]interface{}, b.Count)
	isNull := func(i int) bool { return i < len(b.NullMask) && b.NullMask[i] }

	switch {
	case b.ListLengths != nil:
		child := batchToRows(b.ListChild)
		offset := 0
		for i := 0; i < b.Count; i++ {
			n := b.ListLengths[i]
			if isNull(i) {
				rows[i] = nil
			} else {
				rows[i] = append([]interface{}{}, child[offset:offset+n]...)
			}
			offset += n
		}
	case b.MapLengths != nil:
		keys := batchToRows(b.MapKeys)
		values := batchToRows(b.MapValues)
		offset := 0
		for i := 0; i < b.Count; i++ {
			n := b.MapLengths[i]
			if isNull(i) {
				rows[i] = nil
			} else {
				pairs := make([]map[string]interface{}, 0, n)
				for j := 0; j < n; j++ {
					pairs = append(pairs, map[string]interface{}{"key": keys[offset+j], "value": values[offset+j]})
				}
				rows[i] = pairs
			}
			offset += n
		}
	case b.UnionTags != nil:
		children := make([][]interface{}, len(b.UnionChildren))
		for ci, cb := range b.UnionChildren {
			children[ci] = batchToRows(cb)
		}
		cursors := make([]int, len(b.UnionChildren))
		for i := 0; i < b.Count; i++ {
			if isNull(i) {
				rows[i] = nil
				continue
			}
			tag := int(b.UnionTags[i])
			rows[i] = map[string]interface{}{"tag": tag, "value": children[tag][cursors[tag]]}
			cursors[tag]++
		}
	case b.StructFields != nil:
		fields := make([][]interface{}, len(b.StructFields))
		for fi, fb := range b.StructFields {
			fields[fi] = batchToRows(fb)
		}
		for i := 0; i < b.Count; i++ {
			if isNull(i) {
				rows[i] = nil
				continue
			}
			row := make(map[string]interface{}, len(fields))
			for fi := range fields {
				row[strconv.Itoa(fi)] = fields[fi][i]
			}
			rows[i] = row
		}
	case b.Nanos != nil:
		for i := 0; i < b.Count; i++ {
			if isNull(i) {
				rows[i] = nil
				continue
			}
			rows[i] = map[string]interface{}{"seconds": b.Longs[i], "nanos": b.Nanos[i]}
		}
	case b.Bytes != nil:
		for i := 0; i < b.Count; i++ {
			if isNull(i) {
				rows[i] = nil
				continue
			}
			rows[i] = string(b.Bytes[i])
		}
	case b.Doubles != nil:
		for i := 0; i < b.Count; i++ {
			if isNull(i) {
				rows[i] = nil
				continue
			}
			rows[i] = b.Doubles[i]
		}
	default:
		for i := 0; i < b.Count; i++ {
			if isNull(i) {
				rows[i] = nil
				continue
			}
			rows[i] = b.Longs[i]
		}
	}
	return rows
}
