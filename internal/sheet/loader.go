package sheet

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"cloudlab-go/internal/logger"
	"cloudlab-go/internal/types"
)

// LoadObjects reads bucket/key pairs from the first sheet. Columns are found by header:
// "bucket" for the bucket and "key", "object" or "path" for the key. A row without a
// bucket uses defaultBucket. An s3:// URI in the key column carries its own bucket.
func LoadObjects(path, defaultBucket string) ([]types.ObjectRef, error) {
	log := logger.New().WithField("component", "sheet.loader").WithField("path", path)
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, fmt.Errorf("no data rows")
	}

	bucketIdx, keyIdx := -1, -1
	for i, h := range rows[0] {
		l := strings.ToLower(strings.TrimSpace(h))
		switch {
		case strings.Contains(l, "bucket"):
			if bucketIdx == -1 {
				bucketIdx = i
			}
		case strings.Contains(l, "key") || strings.Contains(l, "object") || strings.Contains(l, "path"):
			if keyIdx == -1 {
				keyIdx = i
			}
		}
	}
	if keyIdx == -1 {
		return nil, fmt.Errorf("no key column in header %v", rows[0])
	}
	log.WithField("bucket_col", bucketIdx).WithField("key_col", keyIdx).Debug("detected columns")

	var out []types.ObjectRef
	for i, r := range rows[1:] {
		ref := types.ObjectRef{Bucket: defaultBucket}
		if bucketIdx >= 0 && bucketIdx < len(r) && strings.TrimSpace(r[bucketIdx]) != "" {
			ref.Bucket = strings.TrimSpace(r[bucketIdx])
		}
		if keyIdx < len(r) {
			ref.Key = strings.TrimSpace(r[keyIdx])
		}
		if b, k, ok := splitS3URI(ref.Key); ok {
			ref.Bucket, ref.Key = b, k
		}
		if ref.Key == "" {
			continue
		}
		if ref.Bucket == "" {
			return nil, fmt.Errorf("row %d: no bucket for key %q", i+2, ref.Key)
		}
		out = append(out, ref)
	}
	log.WithField("objects", len(out)).Info("objects loaded")
	return out, nil
}

func splitS3URI(s string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(s, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, _ = strings.Cut(rest, "/")
	return bucket, key, bucket != ""
}
