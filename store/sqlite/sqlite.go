// Package sqlite provides a durable SessionStore backed by a local SQLite
// database, so debate history survives the process and can be replayed later.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/noah-ing/consensys/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id             TEXT PRIMARY KEY,
	code           TEXT NOT NULL,
	context        TEXT NOT NULL DEFAULT '',
	created_at     TEXT NOT NULL,
	final_decision TEXT
);
CREATE TABLE IF NOT EXISTS reviews (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id  TEXT NOT NULL REFERENCES sessions(id),
	agent_name  TEXT NOT NULL,
	issues      TEXT NOT NULL,
	suggestions TEXT NOT NULL,
	severity    TEXT NOT NULL,
	confidence  REAL NOT NULL,
	summary     TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS responses (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id      TEXT NOT NULL REFERENCES sessions(id),
	agent_name      TEXT NOT NULL,
	responding_to   TEXT NOT NULL,
	agreement_level TEXT NOT NULL,
	points          TEXT NOT NULL,
	summary         TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS votes (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL REFERENCES sessions(id),
	agent_name TEXT NOT NULL,
	decision   TEXT NOT NULL,
	reasoning  TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS consensus (
	session_id           TEXT PRIMARY KEY REFERENCES sessions(id),
	final_decision       TEXT NOT NULL,
	vote_counts          TEXT NOT NULL,
	key_issues           TEXT NOT NULL,
	accepted_suggestions TEXT NOT NULL,
	code                 TEXT NOT NULL,
	context              TEXT NOT NULL DEFAULT ''
);
`

// Store persists debate artifacts in a SQLite database file. It is safe for
// concurrent use; database/sql serializes access to the single connection
// pool and every write is a single statement.
type Store struct {
	db *sql.DB
}

var _ core.SessionStore = (*Store)(nil)

// Open opens (or creates) the database at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// CreateSession inserts a new session record.
func (s *Store) CreateSession(session *core.Session) error {
	_, err := s.db.Exec(
		`INSERT INTO sessions (id, code, context, created_at) VALUES (?, ?, ?, ?)`,
		session.ID, session.Code, session.Context, session.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// SaveReview appends one review row. Issues and suggestions are stored as
// JSON so the row round-trips without a join table.
func (s *Store) SaveReview(sessionID string, review core.Review) error {
	issues, err := json.Marshal(review.Issues)
	if err != nil {
		return fmt.Errorf("encode issues: %w", err)
	}
	suggestions, err := json.Marshal(review.Suggestions)
	if err != nil {
		return fmt.Errorf("encode suggestions: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO reviews (session_id, agent_name, issues, suggestions, severity, confidence, summary)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sessionID, review.AgentName, string(issues), string(suggestions),
		string(review.Severity), review.Confidence, review.Summary,
	)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

// SaveResponse appends one rebuttal row.
func (s *Store) SaveResponse(sessionID string, response core.Response) error {
	points, err := json.Marshal(response.Points)
	if err != nil {
		return fmt.Errorf("encode points: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO responses (session_id, agent_name, responding_to, agreement_level, points, summary)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sessionID, response.AgentName, response.RespondingTo,
		string(response.AgreementLevel), string(points), response.Summary,
	)
	if err != nil {
		return fmt.Errorf("insert response: %w", err)
	}
	return nil
}

// SaveVote appends one vote row.
func (s *Store) SaveVote(sessionID string, vote core.Vote) error {
	_, err := s.db.Exec(
		`INSERT INTO votes (session_id, agent_name, decision, reasoning) VALUES (?, ?, ?, ?)`,
		sessionID, vote.AgentName, string(vote.Decision), vote.Reasoning,
	)
	if err != nil {
		return fmt.Errorf("insert vote: %w", err)
	}
	return nil
}

// SaveConsensus inserts the terminal artifact and stamps the final decision
// onto the session row.
func (s *Store) SaveConsensus(consensus core.Consensus) error {
	counts, err := json.Marshal(consensus.VoteCounts)
	if err != nil {
		return fmt.Errorf("encode vote counts: %w", err)
	}
	issues, err := json.Marshal(consensus.KeyIssues)
	if err != nil {
		return fmt.Errorf("encode key issues: %w", err)
	}
	suggestions, err := json.Marshal(consensus.AcceptedSuggestions)
	if err != nil {
		return fmt.Errorf("encode suggestions: %w", err)
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()
	if _, err := tx.Exec(
		`INSERT INTO consensus (session_id, final_decision, vote_counts, key_issues, accepted_suggestions, code, context)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		consensus.SessionID, string(consensus.FinalDecision), string(counts),
		string(issues), string(suggestions), consensus.Code, consensus.Context,
	); err != nil {
		return fmt.Errorf("insert consensus: %w", err)
	}
	if _, err := tx.Exec(
		`UPDATE sessions SET final_decision = ? WHERE id = ?`,
		string(consensus.FinalDecision), consensus.SessionID,
	); err != nil {
		return fmt.Errorf("update session decision: %w", err)
	}
	return tx.Commit()
}

// GetSession returns the session record or core.ErrSessionNotFound.
func (s *Store) GetSession(sessionID string) (*core.Session, error) {
	row := s.db.QueryRow(
		`SELECT id, code, context, created_at, final_decision FROM sessions WHERE id = ?`,
		sessionID,
	)
	return scanSession(row)
}

// GetReviews returns the session's reviews in insertion order.
func (s *Store) GetReviews(sessionID string) ([]core.Review, error) {
	rows, err := s.db.Query(
		`SELECT agent_name, issues, suggestions, severity, confidence, summary
		 FROM reviews WHERE session_id = ? ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	var reviews []core.Review
	for rows.Next() {
		var r core.Review
		var issues, suggestions, severity string
		if err := rows.Scan(&r.AgentName, &issues, &suggestions, &severity, &r.Confidence, &r.Summary); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		if err := json.Unmarshal([]byte(issues), &r.Issues); err != nil {
			return nil, fmt.Errorf("decode issues: %w", err)
		}
		if err := json.Unmarshal([]byte(suggestions), &r.Suggestions); err != nil {
			return nil, fmt.Errorf("decode suggestions: %w", err)
		}
		r.Severity = core.Severity(severity)
		r.SessionID = sessionID
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

// GetResponses returns the session's rebuttals in insertion order.
func (s *Store) GetResponses(sessionID string) ([]core.Response, error) {
	rows, err := s.db.Query(
		`SELECT agent_name, responding_to, agreement_level, points, summary
		 FROM responses WHERE session_id = ? ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query responses: %w", err)
	}
	defer rows.Close()

	var responses []core.Response
	for rows.Next() {
		var r core.Response
		var level, points string
		if err := rows.Scan(&r.AgentName, &r.RespondingTo, &level, &points, &r.Summary); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		if err := json.Unmarshal([]byte(points), &r.Points); err != nil {
			return nil, fmt.Errorf("decode points: %w", err)
		}
		r.AgreementLevel = core.AgreementLevel(level)
		r.SessionID = sessionID
		responses = append(responses, r)
	}
	return responses, rows.Err()
}

// GetVotes returns the session's votes in insertion order.
func (s *Store) GetVotes(sessionID string) ([]core.Vote, error) {
	rows, err := s.db.Query(
		`SELECT agent_name, decision, reasoning FROM votes WHERE session_id = ? ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query votes: %w", err)
	}
	defer rows.Close()

	var votes []core.Vote
	for rows.Next() {
		var v core.Vote
		var decision string
		if err := rows.Scan(&v.AgentName, &decision, &v.Reasoning); err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		v.Decision = core.VoteDecision(decision)
		v.SessionID = sessionID
		votes = append(votes, v)
	}
	return votes, rows.Err()
}

// GetConsensus returns the terminal artifact, or core.ErrSessionNotFound if
// none has been recorded for the session.
func (s *Store) GetConsensus(sessionID string) (*core.Consensus, error) {
	row := s.db.QueryRow(
		`SELECT final_decision, vote_counts, key_issues, accepted_suggestions, code, context
		 FROM consensus WHERE session_id = ?`,
		sessionID,
	)
	var c core.Consensus
	var decision, counts, issues, suggestions string
	err := row.Scan(&decision, &counts, &issues, &suggestions, &c.Code, &c.Context)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan consensus: %w", err)
	}
	c.SessionID = sessionID
	c.FinalDecision = core.VoteDecision(decision)
	if err := json.Unmarshal([]byte(counts), &c.VoteCounts); err != nil {
		return nil, fmt.Errorf("decode vote counts: %w", err)
	}
	if err := json.Unmarshal([]byte(issues), &c.KeyIssues); err != nil {
		return nil, fmt.Errorf("decode key issues: %w", err)
	}
	if err := json.Unmarshal([]byte(suggestions), &c.AcceptedSuggestions); err != nil {
		return nil, fmt.Errorf("decode suggestions: %w", err)
	}
	return &c, nil
}

// ListSessions returns up to limit sessions, most recently created first.
// A non-positive limit returns all sessions.
func (s *Store) ListSessions(limit int) ([]core.Session, error) {
	query := `SELECT id, code, context, created_at, final_decision FROM sessions ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []core.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *sess)
	}
	return sessions, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*core.Session, error) {
	var sess core.Session
	var createdAt string
	var decision sql.NullString
	err := row.Scan(&sess.ID, &sess.Code, &sess.Context, &createdAt, &decision)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	sess.CreatedAt = ts
	if decision.Valid {
		d := core.VoteDecision(decision.String)
		sess.FinalDecision = &d
	}
	return &sess, nil
}
