package store

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/feral-file/ff-emoji-insights/internal/domain"
	"github.com/feral-file/ff-emoji-insights/internal/store/schema"
)

type pgStore struct {
	db    *gorm.DB
	table string
}

// NewPGStore creates a new PostgreSQL store reading from table
func NewPGStore(db *gorm.DB, table string) Store {
	if table == "" {
		table = schema.DefaultTableName
	}
	return &pgStore{db: db, table: table}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// If any of the pool settings are 0, the defaults of NormalizeConnectionPoolSettings are used.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// Defaults (when zero):
//   - MaxOpenConns: 10
//   - MaxIdleConns: 2
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
//
// The dashboard is a single reader so the pool is smaller than a write-heavy service needs.
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns <= 0 {
		maxOpenConns = 10
	}
	if maxIdleConns <= 0 {
		maxIdleConns = 2
	}
	if connMaxLifetime <= 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime <= 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	// Ensure MaxIdleConns doesn't exceed MaxOpenConns
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// ListAllEntities returns the metadata item of every emoji ordered by partition key
func (s *pgStore) ListAllEntities(ctx context.Context) ([]domain.EventRecord, error) {
	var items []schema.EmojiItem
	err := s.db.WithContext(ctx).
		Table(s.table).
		Where("sk = ?", domain.MetadataSortKey).
		Order("pk ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to scan emoji metadata: %w", err)
	}

	return toEventRecords(items)
}

// ListEventsFor returns the event items of one emoji whose sort key starts with the author id
func (s *pgStore) ListEventsFor(ctx context.Context, entityKey domain.EntityKey, authorID string) ([]domain.EventRecord, error) {
	var items []schema.EmojiItem
	err := s.db.WithContext(ctx).
		Table(s.table).
		Where("pk = ? AND sk LIKE ? ESCAPE '\\'", string(entityKey), escapeLike(authorID)+domain.EntityKeyDelimiter+"%").
		Order("sk ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query events for %s: %w", entityKey, err)
	}

	return toEventRecords(items)
}

// Ping checks that the backing database is reachable
func (s *pgStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// escapeLike escapes LIKE wildcards so an author id only ever matches literally
func escapeLike(value string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(value)
}

func toEventRecords(items []schema.EmojiItem) ([]domain.EventRecord, error) {
	records := make([]domain.EventRecord, 0, len(items))
	for _, item := range items {
		record, err := ToEventRecord(item)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// ToEventRecord normalizes a stored item. Event items without a count represent a single
// occurrence; metadata items must carry one.
func ToEventRecord(item schema.EmojiItem) (domain.EventRecord, error) {
	record := domain.EventRecord{EntityKey: domain.EntityKey(item.PK)}

	isMetadata := item.SK == domain.MetadataSortKey
	if !isMetadata {
		authorID, _, found := strings.Cut(item.SK, domain.EntityKeyDelimiter)
		if !found {
			return domain.EventRecord{}, fmt.Errorf("%w: sort key %q of %s has no author prefix", domain.ErrMalformedRecord, item.SK, item.PK)
		}
		record.AuthorID = authorID
	}

	rawTimestamp, ok := item.Attributes[schema.AttributeTimestamp].(string)
	if !ok {
		return domain.EventRecord{}, fmt.Errorf("%w: item %s/%s has no timestamp", domain.ErrMalformedRecord, item.PK, item.SK)
	}
	timestamp, err := domain.ParseTimestamp(rawTimestamp)
	if err != nil {
		return domain.EventRecord{}, fmt.Errorf("item %s/%s: %w", item.PK, item.SK, err)
	}
	record.Timestamp = timestamp

	rawCount, ok := item.Attributes[schema.AttributeCount]
	switch {
	case ok:
		count, err := parseCount(rawCount)
		if err != nil {
			return domain.EventRecord{}, fmt.Errorf("item %s/%s: %w", item.PK, item.SK, err)
		}
		record.Count = count
	case isMetadata:
		return domain.EventRecord{}, fmt.Errorf("%w: metadata item %s has no count", domain.ErrMalformedRecord, item.PK)
	default:
		record.Count = 1
	}

	return record, nil
}

// parseCount accepts the numeric shapes a JSON document can decode into
func parseCount(value any) (int64, error) {
	var count int64
	switch v := value.(type) {
	case json.Number:
		parsed, err := v.Int64()
		if err != nil {
			f, ferr := v.Float64()
			if ferr != nil || f != math.Trunc(f) {
				return 0, fmt.Errorf("%w: invalid count %q", domain.ErrMalformedRecord, v.String())
			}
			parsed = int64(f)
		}
		count = parsed
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%w: invalid count %v", domain.ErrMalformedRecord, v)
		}
		count = int64(v)
	case int:
		count = int64(v)
	case int64:
		count = v
	case string:
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid count %q", domain.ErrMalformedRecord, v)
		}
		count = parsed
	default:
		return 0, fmt.Errorf("%w: unsupported count type %T", domain.ErrMalformedRecord, value)
	}

	if count < 0 {
		return 0, fmt.Errorf("%w: negative count %d", domain.ErrMalformedRecord, count)
	}
	return count, nil
}
