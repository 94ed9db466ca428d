package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kenangan-app/kenangan-server/internal/model"
	"github.com/kenangan-app/kenangan-server/internal/store"
)

// Open opens a PostgreSQL connection using the pgx stdlib driver and verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a native Postgres store backed directly by database/sql.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

// EnsureSchema creates the tables if they do not exist. Deployments normally
// run migrations out of band; this keeps cloud-dev bring-up to one step.
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS memories (
            record_id TEXT PRIMARY KEY,
            family_id TEXT NOT NULL,
            author_id TEXT NOT NULL,
            author_name TEXT NOT NULL,
            content TEXT,
            image_url TEXT,
            date TIMESTAMPTZ NOT NULL,
            type TEXT NOT NULL,
            reactions JSONB NOT NULL DEFAULT '{}',
            source_date TEXT
        )`,
		`CREATE INDEX IF NOT EXISTS idx_memories_family_date ON memories(family_id, date)`,
		`CREATE TABLE IF NOT EXISTS families (
            family_id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            member_ids JSONB NOT NULL DEFAULT '[]',
            creation_time TIMESTAMPTZ NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS messages (
            message_id TEXT PRIMARY KEY,
            family_id TEXT NOT NULL,
            sender_id TEXT NOT NULL,
            sender_name TEXT NOT NULL,
            content TEXT NOT NULL,
            type TEXT NOT NULL,
            creation_time TIMESTAMPTZ NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS devices (
            user_id TEXT NOT NULL,
            token TEXT NOT NULL,
            platform TEXT,
            creation_time TIMESTAMPTZ NOT NULL,
            PRIMARY KEY(user_id, token)
        )`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

type pgStore struct{ db *sql.DB }

func (s *pgStore) Memories() store.Memories { return &memories{db: s.db} }
func (s *pgStore) Families() store.Families { return &families{db: s.db} }
func (s *pgStore) Messages() store.Messages { return &messages{db: s.db} }
func (s *pgStore) Devices() store.Devices   { return &devices{db: s.db} }

// HealthPing implements store.HealthPinger.
func (s *pgStore) HealthPing(ctx context.Context) error {
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
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
    `, out.RecordID, out.FamilyID, out.AuthorID, out.AuthorName,
		nullable(out.Content), nullable(out.ImageURL), out.Date.UTC(), out.Type, reactions, nullable(out.SourceDate))
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (m *memories) GetByID(ctx context.Context, familyID, recordID string) (*model.MemoryRecord, error) {
	row := m.db.QueryRowContext(ctx, `
        SELECT record_id, family_id, author_id, author_name, content, image_url, date, type, reactions, source_date
        FROM memories WHERE family_id=$1 AND record_id=$2
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
        FROM memories WHERE family_id=$1 AND date>=$2 AND date<=$3 ORDER BY date ASC
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
	var res sql.Result
	var err error
	if reaction == "" {
		res, err = m.db.ExecContext(ctx,
			`UPDATE memories SET reactions = reactions - $3 WHERE family_id=$1 AND record_id=$2`,
			familyID, recordID, userID)
	} else {
		res, err = m.db.ExecContext(ctx,
			`UPDATE memories SET reactions = jsonb_set(reactions, ARRAY[$3], to_jsonb($4::text), true) WHERE family_id=$1 AND record_id=$2`,
			familyID, recordID, userID, reaction)
	}
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.ErrNotFound
	}
	return m.GetByID(ctx, familyID, recordID)
}

type rowScanner interface{ Scan(dest ...any) error }

func scanMemory(r rowScanner) (*model.MemoryRecord, error) {
	var rec model.MemoryRecord
	var content, imageURL, sourceDate sql.NullString
	var reactions []byte
	if err := r.Scan(&rec.RecordID, &rec.FamilyID, &rec.AuthorID, &rec.AuthorName,
		&content, &imageURL, &rec.Date, &rec.Type, &reactions, &sourceDate); err != nil {
		return nil, err
	}
	rec.Content = content.String
	rec.ImageURL = imageURL.String
	rec.SourceDate = sourceDate.String
	if err := json.Unmarshal(reactions, &rec.Reactions); err != nil {
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
	members, err := json.Marshal(out.MemberIDs)
	if err != nil {
		return nil, err
	}
	row := f.db.QueryRowContext(ctx, `
        INSERT INTO families (family_id, name, member_ids, creation_time)
        VALUES ($1,$2,$3,now()) RETURNING creation_time
    `, out.FamilyID, out.Name, members)
	if err := row.Scan(&out.CreationTime); err != nil {
		return nil, err
	}
	return &out, nil
}

func (f *families) Get(ctx context.Context, familyID string) (*model.Family, error) {
	var fam model.Family
	var members []byte
	row := f.db.QueryRowContext(ctx, `
        SELECT family_id, name, member_ids, creation_time FROM families WHERE family_id=$1
    `, familyID)
	if err := row.Scan(&fam.FamilyID, &fam.Name, &members, &fam.CreationTime); err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(members, &fam.MemberIDs); err != nil {
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
	row := m.db.QueryRowContext(ctx, `
        INSERT INTO messages (message_id, family_id, sender_id, sender_name, content, type, creation_time)
        VALUES ($1,$2,$3,$4,$5,$6,now()) RETURNING creation_time
    `, out.MessageID, out.FamilyID, out.SenderID, out.SenderName, out.Content, out.Type)
	if err := row.Scan(&out.CreationTime); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Devices ---

type devices struct{ db *sql.DB }

func (d *devices) Register(ctx context.Context, dev *model.Device) (*model.Device, error) {
	out := *dev
	row := d.db.QueryRowContext(ctx, `
        INSERT INTO devices (user_id, token, platform, creation_time)
        VALUES ($1,$2,$3,now())
        ON CONFLICT (user_id, token) DO UPDATE SET platform=EXCLUDED.platform
        RETURNING creation_time
    `, out.UserID, out.Token, nullable(out.Platform))
	if err := row.Scan(&out.CreationTime); err != nil {
		return nil, err
	}
	return &out, nil
}

func (d *devices) ListTokens(ctx context.Context, userIDs []string) ([]string, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	rows, err := d.db.QueryContext(ctx,
		`SELECT token FROM devices WHERE user_id = ANY($1) ORDER BY creation_time ASC`, userIDs)
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
