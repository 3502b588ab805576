package db

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"goCrashSim/config"
	"goCrashSim/game"
	"goCrashSim/sim"
	"goCrashSim/state"

	bolt "go.etcd.io/bbolt"
)

const runBucketPrefix = "books:"

var ErrRunNotFound = errors.New("run not found")

var errAuditLimit = errors.New("audit limit reached")

var (
	// Books is the local book archive the audit API falls back to
	Books *BookStore
)

// BookStore is a local bbolt archive of simulated books, one bucket per run.
type BookStore struct {
	DB *bolt.DB
}

var _ sim.Sink = (*BookStore)(nil)

func OpenBookStore(dataDir string) (*BookStore, error) {
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database path: %w", err)
	}

	db, err := bolt.Open(filepath.Join(dataDir, config.BoltFileName), 0o600, &bolt.Options{Timeout: config.BoltOpenTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &BookStore{DB: db}, nil
}

func (s *BookStore) Close() error {
	return s.DB.Close()
}

// InitBookStore opens the local book archive in dataDir
func InitBookStore(dataDir string) error {
	log.Printf("🔌 Opening local book archive in %s...", dataDir)

	store, err := OpenBookStore(dataDir)
	if err != nil {
		return err
	}
	Books = store

	log.Println("✅ Local book archive opened")
	return nil
}

// CloseBookStore closes the local book archive
func CloseBookStore() {
	if Books != nil {
		log.Println("🔌 Closing local book archive...")
		Books.Close()
		Books = nil
	}
}

func runBucket(runID string) []byte {
	return []byte(runBucketPrefix + runID)
}

func indexKey(index int64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(index))
	return buf
}

func (s *BookStore) WriteBatch(_ context.Context, runID string, books []*state.Book) error {
	return s.DB.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(runBucket(runID))
		if err != nil {
			return fmt.Errorf("failed to create bucket for run %s: %w", runID, err)
		}

		for _, book := range books {
			data, err := json.Marshal(book)
			if err != nil {
				return fmt.Errorf("failed to marshal book %d: %w", book.ID, err)
			}
			if err := bucket.Put(indexKey(book.ID), data); err != nil {
				return fmt.Errorf("failed to store book %d: %w", book.ID, err)
			}
		}
		return nil
	})
}

// GetBook returns a stored book, or nil if the run has no book at that index.
func (s *BookStore) GetBook(runID string, index int64) (*state.Book, error) {
	var book *state.Book

	err := s.DB.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(runBucket(runID))
		if bucket == nil {
			return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}

		data := bucket.Get(indexKey(index))
		if data == nil {
			return nil
		}

		book = &state.Book{}
		if err := json.Unmarshal(data, book); err != nil {
			return fmt.Errorf("failed to unmarshal book %d: %w", index, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return book, nil
}

// CountBooks returns how many books a run has stored.
func (s *BookStore) CountBooks(runID string) (int, error) {
	var count int

	err := s.DB.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(runBucket(runID))
		if bucket == nil {
			return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		count = bucket.Stats().KeyN
		return nil
	})

	return count, err
}

// ForEachBook visits a run's books in round index order.
func (s *BookStore) ForEachBook(runID string, fn func(*state.Book) error) error {
	return s.DB.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(runBucket(runID))
		if bucket == nil {
			return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}

		return bucket.ForEach(func(_, v []byte) error {
			var book state.Book
			if err := json.Unmarshal(v, &book); err != nil {
				return fmt.Errorf("failed to unmarshal book: %w", err)
			}
			return fn(&book)
		})
	})
}

// GetLocalRound looks a round up in the local archive, or returns nil if the
// archive is closed or holds no such round.
func GetLocalRound(runID string, index int64) (*RoundRecord, error) {
	if Books == nil {
		return nil, nil
	}

	book, err := Books.GetBook(runID, index)
	if errors.Is(err, ErrRunNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, nil
	}

	return roundFromBook(runID, book), nil
}

func roundFromBook(runID string, book *state.Book) *RoundRecord {
	return &RoundRecord{
		RunID:            runID,
		RoundIndex:       book.ID,
		RoundID:          book.Fairness.RoundID,
		ClientSeed:       book.Fairness.ClientSeed,
		Nonce:            int64(book.Fairness.Nonce),
		CrashPoint:       book.CrashPoint(),
		PayoutMultiplier: book.PayoutMultiplier,
		SourceHash:       book.Fairness.SourceHash.Hex(),
	}
}

// AuditReport is the result of re-verifying a stored run.
type AuditReport struct {
	RunID   string  `json:"runId"`
	Stored  int     `json:"stored"`
	Checked int     `json:"checked"`
	Failed  []int64 `json:"failed"`
}

// AuditRun re-derives up to limit books of a run, in round index order, and
// records the index of every book whose stored outcome does not verify.
func (s *BookStore) AuditRun(runID string, rtp float64, limit int) (*AuditReport, error) {
	if err := game.ValidateRTP(rtp); err != nil {
		return nil, err
	}

	stored, err := s.CountBooks(runID)
	if err != nil {
		return nil, err
	}

	report := &AuditReport{RunID: runID, Stored: stored, Failed: []int64{}}

	err = s.ForEachBook(runID, func(book *state.Book) error {
		if report.Checked >= limit {
			return errAuditLimit
		}
		report.Checked++

		ok, err := game.VerifyOutcome(book.Outcome(), rtp)
		if err != nil || !ok {
			report.Failed = append(report.Failed, book.ID)
		}
		return nil
	})
	if err != nil && !errors.Is(err, errAuditLimit) {
		return nil, err
	}

	return report, nil
}
