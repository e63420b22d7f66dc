// orccat reads an ORC/DWRF file end to end and writes its rows as CSV or
// JSON lines to stdout.
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/omyshell/presto/src/orc/column"
	"github.com/omyshell/presto/src/orc/predicate"
	"github.com/omyshell/presto/src/orc/reader"
	"github.com/omyshell/presto/src/orc/source"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	columnsFlag := flag.String("columns", "", "comma-separated column ids to read (required)")
	format := flag.String("format", "csv", "output format: csv or json")
	fileZoneFlag := flag.String("file-zone", "UTC", "time zone timestamps were written in")
	batchSize := flag.Int("batch-size", 1024, "rows per internal batch")
	flag.Parse()

	path := flag.Arg(0)
	if path == "" {
		return errors.New("need to supply an ORC/DWRF file to read")
	}
	if *columnsFlag == "" {
		return errors.New("need -columns, a comma-separated list of column ids")
	}
	var cols []int
	for _, part := range strings.Split(*columnsFlag, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return fmt.Errorf("invalid column id %q: %w", part, err)
		}
		cols = append(cols, n)
	}
	fileZone, err := time.LoadLocation(*fileZoneFlag)
	if err != nil {
		return fmt.Errorf("unknown -file-zone %q: %w", *fileZoneFlag, err)
	}

	src, err := source.OpenFile(path)
	if err != nil {
		return err
	}
	defer src.Close()

	ctx := context.Background()
	rdr, err := reader.Open(ctx, src, reader.Config{
		IncludedColumns: cols,
		Predicate:       predicate.TupleDomain{},
		Start:           0,
		Length:          src.Size(),
		FileZone:        fileZone,
		SessionZone:     time.UTC,
		BatchSize:       *batchSize,
	})
	if err != nil {
		return err
	}
	defer rdr.Close()

	switch *format {
	case "csv":
		return writeCSV(rdr, cols)
	case "json":
		return writeJSON(rdr, cols)
	default:
		return fmt.Errorf("unknown -format %q (want csv or json)", *format)
	}
}

func writeCSV(rdr *reader.Reader, cols []int) error {
	w := csv.NewWriter(os.Stdout)
	defer w.Flush()
	record := make([]string, len(cols))
	for {
		res, err := rdr.NextBatch(0)
		if err != nil {
			return err
		}
		if res.Rows == 0 {
			return nil
		}
		for i := 0; i < res.Rows; i++ {
			for ci, col := range cols {
				record[ci] = cellString(res.Columns[col], i)
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
	}
}

func writeJSON(rdr *reader.Reader, cols []int) error {
	enc := json.NewEncoder(os.Stdout)
	for {
		res, err := rdr.NextBatch(0)
		if err != nil {
			return err
		}
		if res.Rows == 0 {
			return nil
		}
		for i := 0; i < res.Rows; i++ {
			row := make(map[string]interface{}, len(cols))
			for _, col := range cols {
				row[strconv.Itoa(col)] = cellValue(res.Columns[col], i)
			}
			if err := enc.Encode(row); err != nil {
				return err
			}
		}
	}
}

func cellValue(b *column.Batch, i int) interface{} {
	if b == nil || (i < len(b.NullMask) && b.NullMask[i]) {
		return nil
	}
	switch {
	case b.Nanos != nil:
		return fmt.Sprintf("%d.%09d", b.Longs[i], b.Nanos[i])
	case b.Bytes != nil:
		return string(b.Bytes[i])
	case b.Doubles != nil:
		return b.Doubles[i]
	case b.Longs != nil:
		return b.Longs[i]
	default:
		return "<composite column; use orcweb /scan for nested output>"
	}
}

func cellString(b *column.Batch, i int) string {
	v := cellValue(b, i)
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
