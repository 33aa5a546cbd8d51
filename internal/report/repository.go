// Package report owns the report collection, its status lifecycle and the
// authority assignment rule.
package report

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

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusRejected   Status = "rejected"
)

type Category string

const (
	CategoryInfrastructure Category = "infrastructure"
	CategorySafety         Category = "safety"
	CategoryEnvironment    Category = "environment"
	CategoryUtilities      Category = "utilities"
	CategoryOther          Category = "other"
)

func ValidStatus(status Status) bool {
	switch status {
	case StatusPending, StatusInProgress, StatusResolved, StatusRejected:
		return true
	}
	return false
}

func ValidCategory(category Category) bool {
	switch category {
	case CategoryInfrastructure, CategorySafety, CategoryEnvironment, CategoryUtilities, CategoryOther:
		return true
	}
	return false
}

// CanTransition encodes the lifecycle: every status may move to in_progress,
// resolved or rejected, and nothing ever moves back to pending. Backward
// moves like resolved to in_progress stay permitted so an authority can
// reopen work on a report.
func CanTransition(from, to Status) bool {
	if !ValidStatus(from) || !ValidStatus(to) {
		return false
	}
	return to != StatusPending
}

type Report struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Category       Category  `json:"category"`
	Status         Status    `json:"status"`
	Location       string    `json:"location"`
	Latitude       *float64  `json:"latitude,omitempty"`
	Longitude      *float64  `json:"longitude,omitempty"`
	Images         []string  `json:"images,omitempty"`
	CitizenID      string    `json:"citizenId"`
	CitizenName    string    `json:"citizenName"`
	AssignedTo     string    `json:"assignedTo,omitempty"`
	AssignedToName string    `json:"assignedToName,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// CreateInput carries the citizen-supplied fields of a new report. Images
// are already-encoded data URL strings.
type CreateInput struct {
	Title       string
	Description string
	Category    Category
	Location    string
	Latitude    *float64
	Longitude   *float64
	Images      []string
}

var (
	ErrNotFound          = errors.New("report: not found")
	ErrForbidden         = errors.New("report: forbidden")
	ErrValidation        = errors.New("report: invalid input")
	ErrInvalidTransition = errors.New("report: invalid status transition")
)

const reportsKey = "reports"

// Repository stores the whole report collection as one JSON array under a
// single key. Writes within this process are serialized by the mutex; a
// concurrent writer in another process can still lose the race
// (last-write-wins at key granularity, by contract).
type Repository struct {
	store     kv.Store
	maxImages int
	mu        sync.Mutex
	now       func() time.Time
}

func NewRepository(store kv.Store, maxImages int) *Repository {
	if maxImages <= 0 {
		maxImages = 5
	}
	return &Repository{store: store, maxImages: maxImages, now: time.Now}
}

// Create validates input, stamps ownership from the acting user and appends
// the report to the collection with status pending.
func (r *Repository) Create(ctx context.Context, input CreateInput, actor identity.User) (Report, error) {
	if strings.TrimSpace(input.Title) == "" {
		return Report{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if strings.TrimSpace(input.Description) == "" {
		return Report{}, fmt.Errorf("%w: description is required", ErrValidation)
	}
	if strings.TrimSpace(input.Location) == "" {
		return Report{}, fmt.Errorf("%w: location is required", ErrValidation)
	}
	if !ValidCategory(input.Category) {
		return Report{}, fmt.Errorf("%w: unknown category %q", ErrValidation, input.Category)
	}
	if len(input.Images) > r.maxImages {
		return Report{}, fmt.Errorf("%w: at most %d images allowed", ErrValidation, r.maxImages)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	reports, err := r.load(ctx)
	if err != nil {
		return Report{}, err
	}

	now := r.now().UTC()
	created := Report{
		ID:          util.NewID("rpt"),
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Status:      StatusPending,
		Location:    input.Location,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		Images:      input.Images,
		CitizenID:   actor.ID,
		CitizenName: actor.Name,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	reports = append(reports, created)

	if err := r.save(ctx, reports); err != nil {
		return Report{}, err
	}
	return created, nil
}

// ListAll returns the full collection in insertion order.
func (r *Repository) ListAll(ctx context.Context) ([]Report, error) {
	return r.load(ctx)
}

// ListForCitizen returns the subset owned by citizenID, insertion order kept.
func (r *Repository) ListForCitizen(ctx context.Context, citizenID string) ([]Report, error) {
	reports, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	var owned []Report
	for _, report := range reports {
		if report.CitizenID == citizenID {
			owned = append(owned, report)
		}
	}
	return owned, nil
}

func (r *Repository) Get(ctx context.Context, id string) (Report, error) {
	reports, err := r.load(ctx)
	if err != nil {
		return Report{}, err
	}
	for _, report := range reports {
		if report.ID == id {
			return report, nil
		}
	}
	return Report{}, ErrNotFound
}

// UpdateStatus applies a status transition as actor. Only authority users may
// transition; moving into in_progress assigns the acting authority and the
// assignment is never cleared by later transitions. UpdatedAt is refreshed
// even when the status value does not change.
func (r *Repository) UpdateStatus(ctx context.Context, id string, newStatus Status, actor identity.User) (Report, error) {
	if actor.Role != identity.RoleAuthority {
		return Report{}, ErrForbidden
	}
	if !ValidStatus(newStatus) {
		return Report{}, fmt.Errorf("%w: unknown status %q", ErrValidation, newStatus)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	reports, err := r.load(ctx)
	if err != nil {
		return Report{}, err
	}

	for i := range reports {
		if reports[i].ID != id {
			continue
		}
		if !CanTransition(reports[i].Status, newStatus) {
			return Report{}, fmt.Errorf("%w: %s → %s", ErrInvalidTransition, reports[i].Status, newStatus)
		}
		reports[i].Status = newStatus
		if newStatus == StatusInProgress {
			reports[i].AssignedTo = actor.ID
			reports[i].AssignedToName = actor.Name
		}
		reports[i].UpdatedAt = r.now().UTC()

		if err := r.save(ctx, reports); err != nil {
			return Report{}, err
		}
		return reports[i], nil
	}
	return Report{}, ErrNotFound
}

func (r *Repository) load(ctx context.Context) ([]Report, error) {
	raw, ok, err := r.store.Get(ctx, reportsKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var reports []Report
	if err := json.Unmarshal(raw, &reports); err != nil {
		return nil, fmt.Errorf("decode reports: %w", err)
	}
	return reports, nil
}

func (r *Repository) save(ctx context.Context, reports []Report) error {
	raw, err := json.Marshal(reports)
	if err != nil {
		return fmt.Errorf("encode reports: %w", err)
	}
	return r.store.Set(ctx, reportsKey, raw)
}
