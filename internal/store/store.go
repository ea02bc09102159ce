// Package store persists claims and verification results in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ppiankov/claimstream/internal/errs"
	"github.com/ppiankov/claimstream/internal/model"
)

// Store manages the results SQLite database
type Store struct {
	db *sql.DB
}

// New opens or creates the results database at dbPath, creating parent
// directories and the schema as needed
func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errs.Storage("creating database directory", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, errs.Storage("opening database", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS claims (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			video_id TEXT NOT NULL,
			claim_text TEXT NOT NULL,
			claim_type TEXT NOT NULL,
			confidence REAL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_claims_video_id ON claims(video_id)`,
		`CREATE TABLE IF NOT EXISTS verifications (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			claim_id INTEGER NOT NULL REFERENCES claims(id),
			label TEXT NOT NULL,
			confidence REAL,
			explanation TEXT,
			citations TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_verifications_claim_id ON verifications(claim_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return errs.Storage("creating schema", err)
		}
	}
	return nil
}

// InsertClaim stores a claim for a video and returns its row ID
func (s *Store) InsertClaim(ctx context.Context, videoID string, claim model.Claim) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO claims (video_id, claim_text, claim_type, confidence, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		videoID, claim.Text, string(claim.Type), claim.Confidence,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, errs.Storage("inserting claim", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, errs.Storage("reading claim id", err)
	}
	return id, nil
}

// InsertVerification stores a verification result for a previously
// inserted claim. Citations are stored as a JSON array.
func (s *Store) InsertVerification(ctx context.Context, claimID int64, v model.VerificationResult) error {
	citations, err := json.Marshal(v.Citations)
	if err != nil {
		return errs.Storage("encoding citations", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO verifications (claim_id, label, confidence, explanation, citations, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		claimID, string(v.Label), v.Confidence, v.Explanation, string(citations),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return errs.Storage("inserting verification", err)
	}
	return nil
}

// StoredClaim is a claim row joined with its identifier
type StoredClaim struct {
	ID         int64
	VideoID    string
	Text       string
	Type       model.ClaimType
	Confidence float64
	CreatedAt  string
}

// ClaimsByVideo returns all claims stored for a video, oldest first
func (s *Store) ClaimsByVideo(ctx context.Context, videoID string) ([]StoredClaim, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, video_id, claim_text, claim_type, confidence, created_at
		 FROM claims WHERE video_id = ? ORDER BY id`, videoID)
	if err != nil {
		return nil, errs.Storage("querying claims", err)
	}
	defer rows.Close()

	var claims []StoredClaim
	for rows.Next() {
		var c StoredClaim
		var claimType string
		if err := rows.Scan(&c.ID, &c.VideoID, &c.Text, &claimType, &c.Confidence, &c.CreatedAt); err != nil {
			return nil, errs.Storage("scanning claim row", err)
		}
		c.Type = model.ClaimType(claimType)
		claims = append(claims, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Storage("iterating claim rows", err)
	}
	return claims, nil
}

// VerificationByClaim returns the most recent verification for a claim,
// or sql.ErrNoRows wrapped as a storage error when none exists
func (s *Store) VerificationByClaim(ctx context.Context, claimID int64) (model.VerificationResult, error) {
	var v model.VerificationResult
	var label, citations string

	err := s.db.QueryRowContext(ctx,
		`SELECT label, confidence, explanation, citations
		 FROM verifications WHERE claim_id = ? ORDER BY id DESC LIMIT 1`, claimID).
		Scan(&label, &v.Confidence, &v.Explanation, &citations)
	if err != nil {
		return model.VerificationResult{}, errs.Storage(fmt.Sprintf("loading verification for claim %d", claimID), err)
	}

	v.Label = model.Label(label)
	if citations != "" {
		if err := json.Unmarshal([]byte(citations), &v.Citations); err != nil {
			return model.VerificationResult{}, errs.Storage("decoding citations", err)
		}
	}
	return v, nil
}

// SaveRun persists all claims and verifications from a completed
// pipeline run in a single transaction
func (s *Store) SaveRun(ctx context.Context, run *model.PipelineRun) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errs.Storage("starting transaction", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)

	verificationsByClaim := make(map[string]model.VerificationResult, len(run.Verifications))
	for _, v := range run.Verifications {
		verificationsByClaim[v.ClaimID] = v
	}

	for _, claim := range run.Claims {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO claims (video_id, claim_text, claim_type, confidence, created_at)
			 VALUES (?, ?, ?, ?, ?)`,
			run.VideoID, claim.Text, string(claim.Type), claim.Confidence, now)
		if err != nil {
			return errs.Storage("inserting claim", err)
		}
		claimID, err := result.LastInsertId()
		if err != nil {
			return errs.Storage("reading claim id", err)
		}

		v, ok := verificationsByClaim[claim.ID]
		if !ok {
			continue
		}
		citations, err := json.Marshal(v.Citations)
		if err != nil {
			return errs.Storage("encoding citations", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO verifications (claim_id, label, confidence, explanation, citations, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			claimID, string(v.Label), v.Confidence, v.Explanation, string(citations), now); err != nil {
			return errs.Storage("inserting verification", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errs.Storage("committing run", err)
	}
	return nil
}
