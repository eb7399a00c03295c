package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/books-api/internal/domain"
	"github.com/phrazzld/books-api/internal/platform/logger"
	"github.com/phrazzld/books-api/internal/store"
	goredis "github.com/redis/go-redis/v9"
)

const bookEntity = "book"

// RedisBookStore implements the store.BookStore interface on Redis.
type RedisBookStore struct {
	client  *goredis.Client
	scripts *bookScripts
	docsKey string
	order   string
	seqKey  string
	logger  *slog.Logger
}

// NewRedisBookStore creates a Redis implementation of the BookStore
// interface. All keys live under keyPrefix. If logger is nil, a default
// logger will be used.
func NewRedisBookStore(client *goredis.Client, keyPrefix string, logger *slog.Logger) *RedisBookStore {
	if client == nil {
		panic("client cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if keyPrefix == "" {
		keyPrefix = "books"
	}
	return &RedisBookStore{
		client:  client,
		scripts: newBookScripts(),
		docsKey: keyPrefix + ":docs",
		order:   keyPrefix + ":order",
		seqKey:  keyPrefix + ":seq",
		logger:  logger.With(slog.String("component", "book_store")),
	}
}

// Ensure RedisBookStore implements store.BookStore interface
var _ store.BookStore = (*RedisBookStore)(nil)

// List implements store.BookStore.List in insertion order.
func (s *RedisBookStore) List(ctx context.Context) ([]domain.Book, error) {
	ids, err := s.client.ZRange(ctx, s.order, 0, -1).Result()
	if err != nil {
		return nil, store.NewStoreError(bookEntity, "list", "failed to read book order", err)
	}

	books := make([]domain.Book, 0, len(ids))
	if len(ids) == 0 {
		return books, nil
	}

	docs, err := s.client.HMGet(ctx, s.docsKey, ids...).Result()
	if err != nil {
		return nil, store.NewStoreError(bookEntity, "list", "failed to read books", err)
	}

	for _, doc := range docs {
		raw, ok := doc.(string)
		if !ok {
			// removed between the two reads
			continue
		}
		book, err := decodeBook(raw)
		if err != nil {
			return nil, store.NewStoreError(bookEntity, "list", "failed to decode book", err)
		}
		books = append(books, book)
	}
	return books, nil
}

// Get implements store.BookStore.Get
func (s *RedisBookStore) Get(ctx context.Context, id string) (domain.Book, bool, error) {
	raw, err := s.client.HGet(ctx, s.docsKey, id).Result()
	if errors.Is(err, goredis.Nil) {
		return domain.Book{}, false, nil
	}
	if err != nil {
		return domain.Book{}, false, store.NewStoreError(bookEntity, "get", "failed to read book", err)
	}

	book, err := decodeBook(raw)
	if err != nil {
		return domain.Book{}, false, store.NewStoreError(bookEntity, "get", "failed to decode book", err)
	}
	return book, true, nil
}

// Insert implements store.BookStore.Insert
func (s *RedisBookStore) Insert(ctx context.Context, in domain.BookInput) (domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	book := in.WithID(uuid.NewString())
	doc, err := encodeBook(book)
	if err != nil {
		return domain.Book{}, store.NewStoreError(bookEntity, "insert", "failed to encode book", err)
	}

	created, err := s.scripts.insert.Run(ctx, s.client,
		[]string{s.docsKey, s.order, s.seqKey}, book.ID, doc).Int()
	if err != nil {
		log.Error("failed to insert book", slog.String("error", err.Error()))
		return domain.Book{}, store.NewStoreError(bookEntity, "insert", "failed to insert book", err)
	}
	if created == 0 {
		return domain.Book{}, store.NewStoreError(bookEntity, "insert", "id collision", store.ErrDuplicate)
	}

	log.Debug("book inserted", slog.String("book_id", book.ID))
	return book, nil
}

// Replace implements store.BookStore.Replace
func (s *RedisBookStore) Replace(ctx context.Context, id string, in domain.BookInput) (domain.Book, bool, error) {
	book := in.WithID(id)
	doc, err := encodeBook(book)
	if err != nil {
		return domain.Book{}, false, store.NewStoreError(bookEntity, "replace", "failed to encode book", err)
	}

	err = s.scripts.replace.Run(ctx, s.client, []string{s.docsKey}, id, doc).Err()
	if errors.Is(err, goredis.Nil) {
		return domain.Book{}, false, nil
	}
	if err != nil {
		return domain.Book{}, false, store.NewStoreError(bookEntity, "replace", "failed to replace book", err)
	}
	return book, true, nil
}

// Remove implements store.BookStore.Remove
func (s *RedisBookStore) Remove(ctx context.Context, id string) (domain.Book, bool, error) {
	raw, err := s.scripts.remove.Run(ctx, s.client, []string{s.docsKey, s.order}, id).Text()
	if errors.Is(err, goredis.Nil) {
		return domain.Book{}, false, nil
	}
	if err != nil {
		return domain.Book{}, false, store.NewStoreError(bookEntity, "remove", "failed to remove book", err)
	}

	book, err := decodeBook(raw)
	if err != nil {
		return domain.Book{}, false, store.NewStoreError(bookEntity, "remove", "failed to decode book", err)
	}
	return book, true, nil
}

// Ping implements store.BookStore.Ping
func (s *RedisBookStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return store.NewStoreError(bookEntity, "ping", "redis unreachable", err)
	}
	return nil
}

func encodeBook(b domain.Book) (string, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeBook(raw string) (domain.Book, error) {
	var b domain.Book
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		return domain.Book{}, fmt.Errorf("%w: %v", store.ErrCorruptRecord, err)
	}
	return b, nil
}
