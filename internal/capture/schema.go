package capture

const createCaptures = `CREATE TABLE captures (
    capture_id TEXT PRIMARY KEY,
    captured_at TEXT NOT NULL,
    method TEXT NOT NULL,
    url TEXT NOT NULL,
    entity_type TEXT NOT NULL,
    entity_id INTEGER NOT NULL DEFAULT 0,
    status_code INTEGER NOT NULL DEFAULT 0,
    request TEXT NOT NULL DEFAULT '',
    response TEXT NOT NULL DEFAULT '',
    error TEXT NOT NULL DEFAULT '',
    duration_ms INTEGER NOT NULL DEFAULT 0
);`

const createCapturesIndex = `CREATE INDEX idx_captures_entity ON captures (entity_type, captured_at);`

// schemaStatements run in order when a store is opened.
var schemaStatements = []string{
	createCaptures,
	createCapturesIndex,
}

const captureColumns = `capture_id, captured_at, method, url, entity_type, entity_id,
    status_code, request, response, error, duration_ms`
