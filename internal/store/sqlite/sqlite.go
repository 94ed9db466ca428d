package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/kenangan-app/kenangan-server/internal/model"
	"github.com/kenangan-app/kenangan-server/internal/store"
)

// Open opens (or creates) a SQLite database at the given path with WAL enabled.
func Open(path string) (*sql.DB, error) {
	// ensure parent directory exists to avoid SQLITE_CANTOPEN errors
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// New opens the database at path, ensures the schema, and returns the store.
func New(path string) (store.Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewWithDB(db), nil
}

// NewWithDB constructs a SQLite store around an existing connection (used by
// the factory and by tests with in-memory databases).
func NewWithDB(db *sql.DB) store.Store { return &sqliteStore{db: db} }

// EnsureSchema creates the tables if they do not exist.
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS memories (
            record_id TEXT PRIMARY KEY,
            family_id TEXT NOT NULL,
            author_id TEXT NOT NULL,
            author_name TEXT NOT NULL,
            content TEXT,
            image_url TEXT,
            date TIMESTAMP NOT NULL,
            type TEXT NOT NULL,
            reactions TEXT NOT NULL DEFAULT '{}',
            source_date TEXT
        );`,
		`CREATE INDEX IF NOT EXISTS idx_memories_family_date ON memories(family_id, date);`,
		`CREATE TABLE IF NOT EXISTS families (
            family_id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            member_ids TEXT NOT NULL DEFAULT '[]',
            creation_time TIMESTAMP NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS messages (
            message_id TEXT PRIMARY KEY,
            family_id TEXT NOT NULL,
            sender_id TEXT NOT NULL,
            sender_name TEXT NOT NULL,
            content TEXT NOT NULL,
            type TEXT NOT NULL,
            creation_time TIMESTAMP NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS devices (
            user_id TEXT NOT NULL,
            token TEXT NOT NULL,
            platform TEXT,
            creation_time TIMESTAMP NOT NULL,
            PRIMARY KEY(user_id, token)
        );`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

type sqliteStore struct{ db *sql.DB }

func (s *sqliteStore) Memories() store.Memories { return &memories{db: s.db} }
func (s *sqliteStore) Families() store.Families { return &families{db: s.db} }
func (s *sqliteStore) Messages() store.Messages { return &messages{db: s.db} }
func (s *sqliteStore) Devices() store.Devices   { return &devices{db: s.db} }

// HealthPing implements store.HealthPinger.
func (s *sqliteStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// --- Memories ---

type memories struct{ db *sql.DB }

func (m *memories) Create(ctx context.Context, rec *model.MemoryRecord) (*model.MemoryRecord, error) {
	out := *rec
	if out.RecordID == "" {
		out.RecordID = uuid.New().String()
	}
	if out.Date.IsZero() {
		out.Date = time.Now().UTC()
	}
	if out.Reactions == nil {
		out.Reactions = map[string]string{}
	}
	reactions, err := json.Marshal(out.Reactions)
	if err != nil {
		return nil, err
	}
	_, err = m.db.ExecContext(ctx, `
        INSERT INTO memories (record_id, family_id, author_id, author_name, content, image_url, date, type, reactions, source_date)
        VALUES (?,?,?,?,?,?,?,?,?,?)
    `, out.RecordID, out.FamilyID, out.AuthorID, out.AuthorName,
		nullable(out.Content), nullable(out.ImageURL), out.Date.UTC(), out.Type, string(reactions), nullable(out.SourceDate))
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (m *memories) GetByID(ctx context.Context, familyID, recordID string) (*model.MemoryRecord, error) {
	row := m.db.QueryRowContext(ctx, `
        SELECT record_id, family_id, author_id, author_name, content, image_url, date, type, reactions, source_date
        FROM memories WHERE family_id=? AND record_id=?
    `, familyID, recordID)
	rec, err := scanMemory(row)
	if err == sql.ErrNoRows {
		return nil, model.ErrNotFound
	}
	return rec, err
}

func (m *memories) ListByDay(ctx context.Context, req model.ListDayRequest) ([]*model.MemoryRecord, error) {
	rows, err := m.db.QueryContext(ctx, `
        SELECT record_id, family_id, author_id, author_name, content, image_url, date, type, reactions, source_date
        FROM memories WHERE family_id=? AND date>=? AND date<=? ORDER BY date ASC
    `, req.FamilyID, req.Start.UTC(), req.End.UTC())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*model.MemoryRecord
	for rows.Next() {
		rec, err := scanMemory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (m *memories) SetReaction(ctx context.Context, familyID, recordID, userID, reaction string) (*model.MemoryRecord, error) {
	rec, err := m.GetByID(ctx, familyID, recordID)
	if err != nil {
		return nil, err
	}
	if rec.Reactions == nil {
		rec.Reactions = map[string]string{}
	}
	if reaction == "" {
		delete(rec.Reactions, userID)
	} else {
		rec.Reactions[userID] = reaction
	}
	b, err := json.Marshal(rec.Reactions)
	if err != nil {
		return nil, err
	}
	_, err = m.db.ExecContext(ctx, `UPDATE memories SET reactions=? WHERE family_id=? AND record_id=?`,
		string(b), familyID, recordID)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

type rowScanner interface{ Scan(dest ...any) error }

func scanMemory(r rowScanner) (*model.MemoryRecord, error) {
	var rec model.MemoryRecord
	var content, imageURL, sourceDate sql.NullString
	var reactions string
	if err := r.Scan(&rec.RecordID, &rec.FamilyID, &rec.AuthorID, &rec.AuthorName,
		&content, &imageURL, &rec.Date, &rec.Type, &reactions, &sourceDate); err != nil {
		return nil, err
	}
	rec.Content = content.String
	rec.ImageURL = imageURL.String
	rec.SourceDate = sourceDate.String
	if err := json.Unmarshal([]byte(reactions), &rec.Reactions); err != nil {
		return nil, err
	}
	return &rec, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// --- Families ---

type families struct{ db *sql.DB }

func (f *families) Create(ctx context.Context, fam *model.Family) (*model.Family, error) {
	out := *fam
	if out.FamilyID == "" {
		out.FamilyID = uuid.New().String()
	}
	if out.CreationTime.IsZero() {
		out.CreationTime = time.Now().UTC()
	}
	members, err := json.Marshal(out.MemberIDs)
	if err != nil {
		return nil, err
	}
	_, err = f.db.ExecContext(ctx, `
        INSERT INTO families (family_id, name, member_ids, creation_time) VALUES (?,?,?,?)
    `, out.FamilyID, out.Name, string(members), out.CreationTime)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (f *families) Get(ctx context.Context, familyID string) (*model.Family, error) {
	var fam model.Family
	var members string
	row := f.db.QueryRowContext(ctx, `
        SELECT family_id, name, member_ids, creation_time FROM families WHERE family_id=?
    `, familyID)
	if err := row.Scan(&fam.FamilyID, &fam.Name, &members, &fam.CreationTime); err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal([]byte(members), &fam.MemberIDs); err != nil {
		return nil, err
	}
	return &fam, nil
}

// --- Messages ---

type messages struct{ db *sql.DB }

func (m *messages) Create(ctx context.Context, msg *model.ChatMessage) (*model.ChatMessage, error) {
	out := *msg
	if out.MessageID == "" {
		out.MessageID = uuid.New().String()
	}
	if out.CreationTime.IsZero() {
		out.CreationTime = time.Now().UTC()
	}
	_, err := m.db.ExecContext(ctx, `
        INSERT INTO messages (message_id, family_id, sender_id, sender_name, content, type, creation_time)
        VALUES (?,?,?,?,?,?,?)
    `, out.MessageID, out.FamilyID, out.SenderID, out.SenderName, out.Content, out.Type, out.CreationTime)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Devices ---

type devices struct{ db *sql.DB }

func (d *devices) Register(ctx context.Context, dev *model.Device) (*model.Device, error) {
	out := *dev
	if out.CreationTime.IsZero() {
		out.CreationTime = time.Now().UTC()
	}
	_, err := d.db.ExecContext(ctx, `
        INSERT INTO devices (user_id, token, platform, creation_time) VALUES (?,?,?,?)
        ON CONFLICT(user_id, token) DO UPDATE SET platform=excluded.platform
    `, out.UserID, out.Token, nullable(out.Platform), out.CreationTime)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (d *devices) ListTokens(ctx context.Context, userIDs []string) ([]string, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimRight(strings.Repeat("?,", len(userIDs)), ",")
	args := make([]any, len(userIDs))
	for i, id := range userIDs {
		args[i] = id
	}
	rows, err := d.db.QueryContext(ctx,
		`SELECT token FROM devices WHERE user_id IN (`+placeholders+`) ORDER BY creation_time ASC`, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var tokens []string
	for rows.Next() {
		var tok string
		if err := rows.Scan(&tok); err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, rows.Err()
}
