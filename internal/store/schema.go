package store

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;

-- One row per batch, mapreduce or search invocation
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    mode TEXT NOT NULL,           -- batch, mapreduce
    variant TEXT,                 -- plain, hashed, sparse (mapreduce only)
    hash_range INTEGER,
    document_count INTEGER DEFAULT 0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Batch IDF per term
CREATE TABLE IF NOT EXISTS idf (
    run_id INTEGER NOT NULL,
    term TEXT NOT NULL,
    idf REAL NOT NULL,
    PRIMARY KEY (run_id, term),
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

-- Batch TF and tf*idf per document and term
CREATE TABLE IF NOT EXISTS term_weights (
    run_id INTEGER NOT NULL,
    document TEXT NOT NULL,
    term TEXT NOT NULL,
    tf REAL NOT NULL,
    tfidf REAL NOT NULL,
    PRIMARY KEY (run_id, document, term),
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_term_weights_term ON term_weights(term);

-- Map/reduce output pairs in emission order
CREATE TABLE IF NOT EXISTS mapreduce_pairs (
    pair_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    key TEXT NOT NULL,            -- term, bucket or sparse bucket
    article TEXT NOT NULL,
    tfidf REAL NOT NULL,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_mapreduce_pairs_run ON mapreduce_pairs(run_id);
`
