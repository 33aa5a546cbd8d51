// Package comment is the append-only comment log, one storage key per report.
package comment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"opengov/api/internal/identity"
	"opengov/api/internal/kv"
	"opengov/api/internal/util"
)

type Comment struct {
	ID        string        `json:"id"`
	ReportID  string        `json:"reportId"`
	UserID    string        `json:"userId"`
	UserName  string        `json:"userName"`
	UserRole  identity.Role `json:"userRole"`
	Text      string        `json:"text"`
	CreatedAt time.Time     `json:"createdAt"`
}

var ErrEmptyText = errors.New("comment: text is empty")

// Log appends and lists comments. Comments are never edited or deleted.
// Whether the parent report exists is the caller's concern; the log only
// scopes keys by report id.
type Log struct {
	store kv.Store
	mu    sync.Mutex
	now   func() time.Time
}

func NewLog(store kv.Store) *Log {
	return &Log{store: store, now: time.Now}
}

func key(reportID string) string {
	return "comments:" + reportID
}

// Append records a comment by author. Text is kept verbatim apart from the
// emptiness check.
func (l *Log) Append(ctx context.Context, reportID string, author identity.User, text string) (Comment, error) {
	if strings.TrimSpace(text) == "" {
		return Comment{}, ErrEmptyText
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	comments, err := l.load(ctx, reportID)
	if err != nil {
		return Comment{}, err
	}

	created := Comment{
		ID:        util.NewID("cmt"),
		ReportID:  reportID,
		UserID:    author.ID,
		UserName:  author.Name,
		UserRole:  author.Role,
		Text:      text,
		CreatedAt: l.now().UTC(),
	}
	comments = append(comments, created)

	raw, err := json.Marshal(comments)
	if err != nil {
		return Comment{}, fmt.Errorf("encode comments: %w", err)
	}
	if err := l.store.Set(ctx, key(reportID), raw); err != nil {
		return Comment{}, err
	}
	return created, nil
}

// List returns the comments for reportID in append order.
func (l *Log) List(ctx context.Context, reportID string) ([]Comment, error) {
	return l.load(ctx, reportID)
}

func (l *Log) load(ctx context.Context, reportID string) ([]Comment, error) {
	raw, ok, err := l.store.Get(ctx, key(reportID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var comments []Comment
	if err := json.Unmarshal(raw, &comments); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}
	return comments, nil
}
