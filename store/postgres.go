package store

import (
	"database/sql"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

const pgNotifyChannel = "quiz_store_changes"

// PostgresBackend keeps the key-value map in a single Postgres table and uses
// LISTEN/NOTIFY as the cross-context change signal, so multiple processes
// sharing one database behave like browser tabs sharing one storage host.
type PostgresBackend struct {
	db       *sql.DB
	listener *pq.Listener
	log      *logrus.Entry

	mu      sync.Mutex
	subs    map[int]func(key string)
	nextSub int

	done chan struct{}
}

// NewPostgresBackend connects, creates the store table if needed, and starts
// listening for change notifications. Close must be called on teardown.
func NewPostgresBackend(connStr string, log *logrus.Entry) (*PostgresBackend, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS quiz_store (
		k TEXT PRIMARY KEY,
		v TEXT NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, err
	}

	listener := pq.NewListener(connStr, 2*time.Second, time.Minute, nil)
	if err := listener.Listen(pgNotifyChannel); err != nil {
		listener.Close()
		db.Close()
		return nil, err
	}

	p := &PostgresBackend{
		db:       db,
		listener: listener,
		log:      log,
		subs:     make(map[int]func(key string)),
		done:     make(chan struct{}),
	}
	go p.dispatch()
	return p, nil
}

// Close stops the notification dispatcher and closes the connection.
func (p *PostgresBackend) Close() {
	close(p.done)
	p.listener.Close()
	p.db.Close()
}

func (p *PostgresBackend) Get(key string) (string, bool) {
	var v string
	err := p.db.QueryRow("SELECT v FROM quiz_store WHERE k = $1", key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", false
	}
	if err != nil {
		p.log.WithField("key", key).WithError(err).Error("store read failed")
		return "", false
	}
	return v, true
}

func (p *PostgresBackend) Set(key, value string) error {
	_, err := p.db.Exec(
		"INSERT INTO quiz_store (k, v) VALUES ($1, $2) ON CONFLICT (k) DO UPDATE SET v = EXCLUDED.v",
		key, value)
	if err != nil {
		return err
	}
	p.notify(key)
	return nil
}

func (p *PostgresBackend) Delete(key string) error {
	_, err := p.db.Exec("DELETE FROM quiz_store WHERE k = $1", key)
	if err != nil {
		return err
	}
	p.notify(key)
	return nil
}

func (p *PostgresBackend) Subscribe(fn func(key string)) (cancel func()) {
	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

func (p *PostgresBackend) notify(key string) {
	if _, err := p.db.Exec("SELECT pg_notify($1, $2)", pgNotifyChannel, key); err != nil {
		p.log.WithField("key", key).WithError(err).Error("change notification failed")
	}
}

// dispatch forwards LISTEN notifications (our own writes included) to local
// subscribers.
func (p *PostgresBackend) dispatch() {
	for {
		select {
		case <-p.done:
			return
		case n := <-p.listener.Notify:
			if n == nil {
				continue
			}
			p.mu.Lock()
			subs := make([]func(key string), 0, len(p.subs))
			for _, fn := range p.subs {
				subs = append(subs, fn)
			}
			p.mu.Unlock()
			for _, fn := range subs {
				fn(n.Extra)
			}
		}
	}
}
