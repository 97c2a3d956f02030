package store

const schema = `
-- The 'documents' table holds whole JSON documents addressed by a
-- hierarchical path, mirroring the remote document store's top-level
-- collections.
CREATE TABLE IF NOT EXISTS documents (
    path TEXT PRIMARY KEY,
    body TEXT NOT NULL,
    updated_at DATETIME NOT NULL
);
`
