package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Notes: one row per saved clip
CREATE TABLE IF NOT EXISTS notes (
    note_id TEXT PRIMARY KEY,
    title TEXT NOT NULL DEFAULT '',
    url TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL,
    clip_type TEXT NOT NULL,        -- selection, page, element
    language TEXT NOT NULL DEFAULT '',

    -- Top keywords as a JSON array: ["word1", "word2", ...]
    keywords TEXT NOT NULL DEFAULT '[]',

    content_hash TEXT NOT NULL,

    -- epoch millis
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notes_hash ON notes(content_hash);
CREATE INDEX IF NOT EXISTS idx_notes_url ON notes(url);
CREATE INDEX IF NOT EXISTS idx_notes_created ON notes(created_at);
`
