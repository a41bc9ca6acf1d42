package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Cycle rows are keyed (group_id, idx) and rewritten as a unit; the
// contributor set lives in its own table so membership checks stay
// relational.
const schema = `
CREATE TABLE IF NOT EXISTS groups (
    id TEXT PRIMARY KEY,
    creator TEXT NOT NULL,
    name TEXT NOT NULL,
    member_capacity INTEGER NOT NULL,
    contribution_amount INTEGER NOT NULL,
    cycle_length_days INTEGER NOT NULL,
    start_date TEXT NOT NULL,
    end_date TEXT NOT NULL,
    active INTEGER NOT NULL DEFAULT 0,
    status TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS group_members (
    group_id TEXT NOT NULL,
    account TEXT NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (group_id, account),
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS cycles (
    group_id TEXT NOT NULL,
    idx INTEGER NOT NULL,
    start_date TEXT NOT NULL,
    end_date TEXT NOT NULL,
    turn_holder TEXT NOT NULL DEFAULT '',
    collected_amount INTEGER NOT NULL DEFAULT 0,
    contributions_complete INTEGER NOT NULL DEFAULT 0,
    paid_out INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (group_id, idx),
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS cycle_contributors (
    group_id TEXT NOT NULL,
    idx INTEGER NOT NULL,
    account TEXT NOT NULL,
    PRIMARY KEY (group_id, idx, account),
    FOREIGN KEY (group_id, idx) REFERENCES cycles(group_id, idx) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS members (
    account TEXT PRIMARY KEY,
    created_at INTEGER NOT NULL,
    seq INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS member_groups (
    account TEXT NOT NULL,
    group_id TEXT NOT NULL,
    role TEXT NOT NULL CHECK (role IN ('creator', 'member')),
    position INTEGER NOT NULL,
    PRIMARY KEY (account, group_id, role),
    FOREIGN KEY (account) REFERENCES members(account) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS contributions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    group_id TEXT NOT NULL,
    account TEXT NOT NULL,
    amount INTEGER NOT NULL,
    timestamp INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS transfers (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL,
    cycle_idx INTEGER NOT NULL,
    recipient TEXT NOT NULL,
    amount INTEGER NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS accounts (
    name TEXT PRIMARY KEY,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_group_members_group_id ON group_members(group_id);
CREATE INDEX IF NOT EXISTS idx_cycles_group_id ON cycles(group_id);
CREATE INDEX IF NOT EXISTS idx_contributions_group_id ON contributions(group_id);
CREATE INDEX IF NOT EXISTS idx_contributions_group_account ON contributions(group_id, account);
CREATE INDEX IF NOT EXISTS idx_transfers_group_id ON transfers(group_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
