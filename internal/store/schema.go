package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS file_tracker (
    file_path            TEXT PRIMARY KEY,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL,
    parsed_at            TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS calls (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    source_file          TEXT NOT NULL REFERENCES file_tracker(file_path) ON DELETE CASCADE,
    seq                  INTEGER NOT NULL,
    call_id              TEXT NOT NULL,
    from_number          TEXT,
    to_number            TEXT,
    direction            TEXT,
    start_raw            TEXT,
    start_unix_ns        INTEGER,
    end_raw              TEXT,
    end_unix_ns          INTEGER,
    duration_ms          INTEGER,
    call_summary         TEXT,
    sentiment            TEXT,
    linked_appointment   INTEGER NOT NULL DEFAULT 0,
    transcript           TEXT,
    recording_url        TEXT,
    UNIQUE (source_file, seq)
);

CREATE TABLE IF NOT EXISTS call_turns (
    call_row             INTEGER NOT NULL REFERENCES calls(id) ON DELETE CASCADE,
    seq                  INTEGER NOT NULL,
    role                 TEXT,
    content              TEXT,
    tool_name            TEXT,
    PRIMARY KEY (call_row, seq)
);

CREATE INDEX IF NOT EXISTS idx_calls_start ON calls(start_unix_ns);
CREATE INDEX IF NOT EXISTS idx_calls_call_id ON calls(call_id);
`
