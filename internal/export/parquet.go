package export

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/kuvahaku/kuvahaku/internal/records"
	"github.com/parquet-go/parquet-go"
)

// Metadata keys stored alongside the rows.
const (
	metaKeyword   = "kuvahaku.keyword"
	metaLimit     = "kuvahaku.limit"
	metaRawCount  = "kuvahaku.raw_count"
	metaFetchedAt = "kuvahaku.fetched_at"
)

// SaveParquet writes the snapshot rows with the search parameters as file
// metadata.
func SaveParquet(path string, snap *Snapshot) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[records.Record](file,
		parquet.KeyValueMetadata(metaKeyword, snap.Keyword),
		parquet.KeyValueMetadata(metaLimit, strconv.Itoa(snap.Limit)),
		parquet.KeyValueMetadata(metaRawCount, strconv.Itoa(snap.RawCount)),
		parquet.KeyValueMetadata(metaFetchedAt, snap.FetchedAt.Format(time.RFC3339)),
	)

	if _, err := writer.Write(snap.Records); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}

	slog.Debug("Saved parquet snapshot", "path", path, "rows", len(snap.Records))
	return nil
}

// LoadParquet reads a snapshot written by SaveParquet.
func LoadParquet(path string) (*Snapshot, error) {
	slog.Debug("Opening Parquet file", "path", path)

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	snap := &Snapshot{}
	snap.Keyword, _ = pf.Lookup(metaKeyword)
	if v, ok := pf.Lookup(metaLimit); ok {
		snap.Limit, _ = strconv.Atoi(v)
	}
	if v, ok := pf.Lookup(metaRawCount); ok {
		snap.RawCount, _ = strconv.Atoi(v)
	}
	if v, ok := pf.Lookup(metaFetchedAt); ok {
		snap.FetchedAt, _ = time.Parse(time.RFC3339, v)
	}

	reader := parquet.NewGenericReader[records.Record](pf)
	defer reader.Close()

	snap.Records = make(records.Table, 0, pf.NumRows())

	for {
		// Fresh buffer per batch: decoded coordinate pointers must not be shared.
		rows := make([]records.Record, 128)
		n, err := reader.Read(rows)
		snap.Records = append(snap.Records, rows[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}

	slog.Debug("Finished reading Parquet file", "total_records", len(snap.Records))
	return snap, nil
}
