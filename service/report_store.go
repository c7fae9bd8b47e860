package service

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
)

var (
	reportsBucket = []byte("reports")
	byTimeBucket  = []byte("by_time")
)

// storedReport is the on-disk record of a report
type storedReport struct {
	StoredAtUnixNs int64                  `json:"stored_at_unix_ns"`
	Report         *domain.AnalysisReport `json:"report"`
}

// BoltReportStore persists reports in a bbolt database.
// Reports are kept as JSON keyed by analysis id; by_time indexes them by
// big-endian store time followed by the id.
type BoltReportStore struct {
	db  *bolt.DB
	now func() time.Time
}

// OpenReportStore opens or creates the database at path
func OpenReportStore(path string) (*BoltReportStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, domain.NewStoreError("failed to create store directory", err)
		}
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, domain.NewStoreError("failed to open report store "+path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(reportsBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(byTimeBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, domain.NewStoreError("failed to initialize report store", err)
	}
	return &BoltReportStore{db: db, now: time.Now}, nil
}

// Save stores a report, replacing any report with the same id
func (s *BoltReportStore) Save(ctx context.Context, report *domain.AnalysisReport) error {
	if report == nil || report.AnalysisID == "" {
		return domain.NewInvalidInputError("report without analysis id", nil)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	record := storedReport{StoredAtUnixNs: s.now().UnixNano(), Report: report}
	data, err := json.Marshal(record)
	if err != nil {
		return domain.NewStoreError("failed to encode report", err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		reports := tx.Bucket(reportsBucket)
		index := tx.Bucket(byTimeBucket)
		id := []byte(report.AnalysisID)

		if old := reports.Get(id); old != nil {
			var prev storedReport
			if err := json.Unmarshal(old, &prev); err == nil {
				if err := index.Delete(timeKey(prev.StoredAtUnixNs, report.AnalysisID)); err != nil {
					return err
				}
			}
		}
		if err := reports.Put(id, data); err != nil {
			return err
		}
		return index.Put(timeKey(record.StoredAtUnixNs, report.AnalysisID), id)
	})
	if err != nil {
		return domain.NewStoreError("failed to save report", err)
	}
	return nil
}

// Get loads a report by analysis id
func (s *BoltReportStore) Get(ctx context.Context, id string) (*domain.AnalysisReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var record storedReport
	found := false
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(reportsBucket).Get([]byte(id))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &record)
	})
	if err != nil {
		return nil, domain.NewStoreError("failed to load report", err)
	}
	if !found {
		return nil, domain.NewNotFoundError("report", id)
	}
	return record.Report, nil
}

// List returns up to limit summaries, newest first. limit <= 0 lists all.
func (s *BoltReportStore) List(ctx context.Context, limit int) ([]domain.ReportSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []domain.ReportSummary
	err := s.db.View(func(tx *bolt.Tx) error {
		reports := tx.Bucket(reportsBucket)
		c := tx.Bucket(byTimeBucket).Cursor()
		for k, id := c.Last(); k != nil; k, id = c.Prev() {
			if limit > 0 && len(out) >= limit {
				break
			}
			data := reports.Get(id)
			if data == nil {
				continue
			}
			var record storedReport
			if err := json.Unmarshal(data, &record); err != nil {
				return err
			}
			out = append(out, summarize(record))
		}
		return nil
	})
	if err != nil {
		return nil, domain.NewStoreError("failed to list reports", err)
	}
	return out, nil
}

// Delete removes a report
func (s *BoltReportStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	found := false
	err := s.db.Update(func(tx *bolt.Tx) error {
		reports := tx.Bucket(reportsBucket)
		data := reports.Get([]byte(id))
		if data == nil {
			return nil
		}
		found = true
		var record storedReport
		if err := json.Unmarshal(data, &record); err == nil {
			if err := tx.Bucket(byTimeBucket).Delete(timeKey(record.StoredAtUnixNs, id)); err != nil {
				return err
			}
		}
		return reports.Delete([]byte(id))
	})
	if err != nil {
		return domain.NewStoreError("failed to delete report", err)
	}
	if !found {
		return domain.NewNotFoundError("report", id)
	}
	return nil
}

// Close closes the database
func (s *BoltReportStore) Close() error {
	return s.db.Close()
}

func timeKey(unixNs int64, id string) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.BigEndian, uint64(unixNs))
	buf.WriteString(id)
	return buf.Bytes()
}

func summarize(record storedReport) domain.ReportSummary {
	r := record.Report
	return domain.ReportSummary{
		AnalysisID:      r.AnalysisID,
		Language:        r.Language,
		ClonePercentage: r.ClonePercentage,
		CloneCount:      len(r.Clones),
		StoredAtUnixNs:  record.StoredAtUnixNs,
	}
}
