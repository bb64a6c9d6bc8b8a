package persist

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/narswright/nars-kernel/internal/reasoner"
)

// sqliteBackend implements Backend as a row store: tables meta (which holds
// the hyperparameters), tasks, concepts, beliefs, input_order, novel_order
// (SPEC_FULL.md §3,
// grounded on the teacher's sqlite.go/sqlite_schema.go/factory.go layering
// of a schema-migration step ahead of a CRUD-style backend).
type sqliteBackend struct {
	db *sql.DB
}

// OpenSQLite opens (creating if necessary) a SQLite-backed Backend at dsn
// (a file path, or ":memory:" for a process-local store).
func OpenSQLite(dsn string) (Backend, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("persist: opening sqlite %q: %w", dsn, err)
	}
	b := &sqliteBackend{db: db}
	if err := b.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return b, nil
}

func (b *sqliteBackend) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			id INTEGER PRIMARY KEY CHECK (id = 0),
			hyperparams_json TEXT NOT NULL,
			tick INTEGER NOT NULL,
			stamp_serial INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			serial_id TEXT PRIMARY KEY,
			parent_id TEXT NOT NULL DEFAULT '',
			parent_belief TEXT NOT NULL DEFAULT '',
			sentence TEXT NOT NULL,
			stamp_base_json TEXT NOT NULL,
			stamp_time INTEGER NOT NULL,
			priority REAL NOT NULL,
			durability REAL NOT NULL,
			quality REAL NOT NULL,
			is_input INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS input_order (position INTEGER PRIMARY KEY, serial_id TEXT NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS novel_order (position INTEGER PRIMARY KEY, serial_id TEXT NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS concepts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			term TEXT NOT NULL,
			priority REAL NOT NULL,
			durability REAL NOT NULL,
			quality REAL NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS beliefs (
			concept_id INTEGER NOT NULL REFERENCES concepts(id),
			content TEXT NOT NULL,
			frequency REAL NOT NULL,
			confidence REAL NOT NULL,
			stamp_base_json TEXT NOT NULL,
			stamp_time INTEGER NOT NULL,
			revisable INTEGER NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := b.db.Exec(stmt); err != nil {
			return fmt.Errorf("persist: migrating schema: %w", err)
		}
	}
	return nil
}

func (b *sqliteBackend) Save(s Snapshot) error {
	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("persist: begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"meta", "tasks", "input_order", "novel_order", "beliefs", "concepts"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("persist: clearing %s: %w", table, err)
		}
	}

	hpJSON, err := json.Marshal(s.Hyperparams)
	if err != nil {
		return fmt.Errorf("persist: encoding hyperparameters: %w", err)
	}
	if _, err := tx.Exec(`INSERT INTO meta (id, hyperparams_json, tick, stamp_serial) VALUES (0, ?, ?, ?)`,
		string(hpJSON), s.Tick, s.StampSerial); err != nil {
		return fmt.Errorf("persist: writing meta: %w", err)
	}

	for _, t := range s.Tasks {
		baseJSON, _ := json.Marshal(t.StampBase)
		if _, err := tx.Exec(
			`INSERT INTO tasks (serial_id, parent_id, parent_belief, sentence, stamp_base_json, stamp_time, priority, durability, quality, is_input)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.SerialID, t.ParentID, t.ParentBelief, t.Sentence, string(baseJSON), t.StampTime,
			t.Priority, t.Durability, t.Quality, boolToInt(t.IsInput),
		); err != nil {
			return fmt.Errorf("persist: writing task %s: %w", t.SerialID, err)
		}
	}
	for pos, id := range s.Input {
		if _, err := tx.Exec(`INSERT INTO input_order (position, serial_id) VALUES (?, ?)`, pos, id); err != nil {
			return fmt.Errorf("persist: writing input order: %w", err)
		}
	}
	for pos, id := range s.NovelTasks {
		if _, err := tx.Exec(`INSERT INTO novel_order (position, serial_id) VALUES (?, ?)`, pos, id); err != nil {
			return fmt.Errorf("persist: writing novel order: %w", err)
		}
	}
	for _, c := range s.Concepts {
		res, err := tx.Exec(`INSERT INTO concepts (term, priority, durability, quality) VALUES (?, ?, ?, ?)`,
			c.Term, c.Priority, c.Durability, c.Quality)
		if err != nil {
			return fmt.Errorf("persist: writing concept %s: %w", c.Term, err)
		}
		conceptID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("persist: reading concept id: %w", err)
		}
		for _, belief := range c.Beliefs {
			baseJSON, _ := json.Marshal(belief.StampBase)
			if _, err := tx.Exec(
				`INSERT INTO beliefs (concept_id, content, frequency, confidence, stamp_base_json, stamp_time, revisable)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				conceptID, belief.Content, belief.Frequency, belief.Confidence, string(baseJSON), belief.StampTime, boolToInt(belief.Revisable),
			); err != nil {
				return fmt.Errorf("persist: writing belief for %s: %w", c.Term, err)
			}
		}
	}

	return tx.Commit()
}

func (b *sqliteBackend) Load() (Snapshot, error) {
	var s Snapshot
	var hpJSON string
	row := b.db.QueryRow(`SELECT hyperparams_json, tick, stamp_serial FROM meta WHERE id = 0`)
	if err := row.Scan(&hpJSON, &s.Tick, &s.StampSerial); err != nil {
		if err == sql.ErrNoRows {
			return Snapshot{Hyperparams: reasoner.DefaultHyperparams()}, nil
		}
		return Snapshot{}, fmt.Errorf("persist: reading meta: %w", err)
	}
	if err := json.Unmarshal([]byte(hpJSON), &s.Hyperparams); err != nil {
		return Snapshot{}, fmt.Errorf("persist: decoding hyperparameters: %w", err)
	}

	taskRows, err := b.db.Query(`SELECT serial_id, parent_id, parent_belief, sentence, stamp_base_json, stamp_time, priority, durability, quality, is_input FROM tasks`)
	if err != nil {
		return Snapshot{}, fmt.Errorf("persist: reading tasks: %w", err)
	}
	defer taskRows.Close()
	for taskRows.Next() {
		var t TaskRecord
		var baseJSON string
		var isInput int
		if err := taskRows.Scan(&t.SerialID, &t.ParentID, &t.ParentBelief, &t.Sentence, &baseJSON, &t.StampTime, &t.Priority, &t.Durability, &t.Quality, &isInput); err != nil {
			return Snapshot{}, fmt.Errorf("persist: scanning task: %w", err)
		}
		json.Unmarshal([]byte(baseJSON), &t.StampBase)
		t.IsInput = isInput != 0
		s.Tasks = append(s.Tasks, t)
	}
	if err := taskRows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("persist: reading tasks: %w", err)
	}

	s.Input, err = readOrder(b.db, "input_order")
	if err != nil {
		return Snapshot{}, err
	}
	s.NovelTasks, err = readOrder(b.db, "novel_order")
	if err != nil {
		return Snapshot{}, err
	}

	conceptRows, err := b.db.Query(`SELECT id, term, priority, durability, quality FROM concepts`)
	if err != nil {
		return Snapshot{}, fmt.Errorf("persist: reading concepts: %w", err)
	}
	defer conceptRows.Close()
	for conceptRows.Next() {
		var id int64
		var cr ConceptRecord
		if err := conceptRows.Scan(&id, &cr.Term, &cr.Priority, &cr.Durability, &cr.Quality); err != nil {
			return Snapshot{}, fmt.Errorf("persist: scanning concept: %w", err)
		}
		beliefRows, err := b.db.Query(`SELECT content, frequency, confidence, stamp_base_json, stamp_time, revisable FROM beliefs WHERE concept_id = ?`, id)
		if err != nil {
			return Snapshot{}, fmt.Errorf("persist: reading beliefs for %s: %w", cr.Term, err)
		}
		for beliefRows.Next() {
			var br BeliefRecord
			var baseJSON string
			var revisable int
			if err := beliefRows.Scan(&br.Content, &br.Frequency, &br.Confidence, &baseJSON, &br.StampTime, &revisable); err != nil {
				beliefRows.Close()
				return Snapshot{}, fmt.Errorf("persist: scanning belief: %w", err)
			}
			json.Unmarshal([]byte(baseJSON), &br.StampBase)
			br.Revisable = revisable != 0
			cr.Beliefs = append(cr.Beliefs, br)
		}
		beliefRows.Close()
		s.Concepts = append(s.Concepts, cr)
	}
	if err := conceptRows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("persist: reading concepts: %w", err)
	}

	return s, nil
}

func readOrder(db *sql.DB, table string) ([]string, error) {
	rows, err := db.Query(fmt.Sprintf(`SELECT serial_id FROM %s ORDER BY position`, table))
	if err != nil {
		return nil, fmt.Errorf("persist: reading %s: %w", table, err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("persist: scanning %s: %w", table, err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (b *sqliteBackend) Close() error { return b.db.Close() }

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
