package storage

import (
	"database/sql"
	"log"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the settlement ledger handed to the simulation as its wallet
// boundary. The game only ever writes final balances here; it never reads
// them back, so in-room state stays ephemeral.
type Store struct {
	db    *sql.DB
	queue chan settlement
	done  chan struct{}
}

type settlement struct {
	playerID string
	name     string
	stake    float64
	usdt     float64
	reason   string
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS settlements (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		player_id TEXT NOT NULL,
		name TEXT,
		stake REAL,
		usdt REAL,
		reason TEXT,
		settled_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{
		db:    db,
		queue: make(chan settlement, 256),
		done:  make(chan struct{}),
	}
	go s.writer()
	return s, nil
}

// RecordSettlement queues one ledger row. It never blocks the simulation;
// if the queue is full the row is dropped and logged.
func (s *Store) RecordSettlement(playerID, name string, stake, usdt float64, reason string) {
	select {
	case s.queue <- settlement{playerID: playerID, name: name, stake: stake, usdt: usdt, reason: reason}:
	default:
		log.Printf("storage: settlement queue full, dropping entry for %s", playerID)
	}
}

func (s *Store) writer() {
	defer close(s.done)
	query := `
	INSERT INTO settlements (player_id, name, stake, usdt, reason)
	VALUES (?, ?, ?, ?, ?);
	`
	for st := range s.queue {
		if _, err := s.db.Exec(query, st.playerID, st.name, st.stake, st.usdt, st.reason); err != nil {
			log.Printf("storage: error saving settlement for %s: %v", st.playerID, err)
		}
	}
}

// Close flushes queued settlements and closes the database.
func (s *Store) Close() error {
	close(s.queue)
	<-s.done
	return s.db.Close()
}
