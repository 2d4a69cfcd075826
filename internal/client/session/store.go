// Package session хранит выданный сервером токен между запусками клиента.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketSession = []byte("session")
	keyCurrent    = []byte("current")
)

// ErrNoSession возвращается, когда сохраненной сессии нет
var ErrNoSession = errors.New("no saved session")

// Session — выданный сервером токен с моментом истечения
type Session struct {
	Token      string    `json:"token"`
	Expiration time.Time `json:"expiration"`
	Username   string    `json:"username"`
}

// Expired сообщает, истек ли срок действия токена
func (s *Session) Expired() bool {
	return !time.Now().Before(s.Expiration)
}

// Store сохраняет сессию в локальной BoltDB
type Store struct {
	db *bolt.DB
}

// Open открывает локальную базу и инициализирует bucket
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSession)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Close закрывает базу
func (s *Store) Close() error {
	return s.db.Close()
}

// Save сохраняет сессию, затирая предыдущую
func (s *Store) Save(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSession).Put(keyCurrent, data)
	})
}

// Get возвращает сохраненную сессию или ErrNoSession
func (s *Store) Get(ctx context.Context) (*Session, error) {
	var sess Session
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketSession).Get(keyCurrent)
		if data == nil {
			return ErrNoSession
		}
		return json.Unmarshal(data, &sess)
	})
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// Current возвращает сессию, только если она еще действительна.
// Просроченный токен удаляется, как при выходе.
func (s *Store) Current(ctx context.Context) (*Session, error) {
	sess, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	if sess.Expired() {
		if err := s.Clear(ctx); err != nil {
			return nil, err
		}
		return nil, ErrNoSession
	}
	return sess, nil
}

// Clear удаляет сохраненную сессию
func (s *Store) Clear(ctx context.Context) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSession).Delete(keyCurrent)
	})
}
