package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 250
)

var ErrInvalidPageToken = errors.New("invalid_page_token")

type Pagination struct {
	PageToken string `form:"page_token"`
	PageSize  int    `form:"page_size,default=50"`
}

type Cursor struct {
	ID        string `json:"id,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Position is a decoded cursor ready to be used in a keyset WHERE clause.
type Position struct {
	ID        snowflake.ID
	CreatedAt time.Time
}

type PageInfo struct {
	NextPageToken string `json:"next_page_token"`
	HasMore       bool   `json:"has_more"`
}

// Limit clamps the requested page size into [1, MaxPageSize].
func (p Pagination) Limit() int {
	switch {
	case p.PageSize <= 0:
		return DefaultPageSize
	case p.PageSize > MaxPageSize:
		return MaxPageSize
	default:
		return p.PageSize
	}
}

// Position decodes PageToken; an empty token yields nil.
func (p Pagination) Position() (*Position, error) {
	token := strings.TrimSpace(p.PageToken)
	if token == "" {
		return nil, nil
	}
	cursor, err := DecodeCursor(token)
	if err != nil {
		return nil, ErrInvalidPageToken
	}
	createdAt, err := time.Parse(time.RFC3339Nano, cursor.CreatedAt)
	if err != nil {
		return nil, ErrInvalidPageToken
	}
	id, err := snowflake.ParseString(strings.TrimSpace(cursor.ID))
	if err != nil || id == 0 {
		return nil, ErrInvalidPageToken
	}
	return &Position{ID: id, CreatedAt: createdAt}, nil
}

func EncodeCursor(data Cursor) (string, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return "", err
	}

	return base64.URLEncoding.EncodeToString(b), nil
}

func DecodeCursor(data string) (*Cursor, error) {
	b, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		return nil, err
	}

	var cursor Cursor
	if err := json.Unmarshal(b, &cursor); err != nil {
		return nil, err
	}

	return &cursor, nil
}

// Page trims a limit+1 result set and builds the page info for it.
func Page[T any](items []T, limit int, key func(T) (snowflake.ID, time.Time)) ([]T, PageInfo) {
	if len(items) <= limit {
		return items, PageInfo{}
	}

	items = items[:limit]
	id, createdAt := key(items[len(items)-1])
	token, err := EncodeCursor(Cursor{
		ID:        id.String(),
		CreatedAt: createdAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return items, PageInfo{HasMore: true}
	}
	return items, PageInfo{HasMore: true, NextPageToken: token}
}

// Apply adds the keyset condition for pos and fetches one extra row so Page
// can tell whether another page exists. Results are newest first.
func Apply(stmt *gorm.DB, pos *Position, limit int) *gorm.DB {
	if pos != nil {
		stmt = stmt.Where("((created_at < ?) OR (created_at = ? AND id < ?))", pos.CreatedAt, pos.CreatedAt, pos.ID)
	}
	return stmt.Order("created_at desc, id desc").Limit(limit + 1)
}
