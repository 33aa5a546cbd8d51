package app

import (
	"context"
	"net/http"

	"opengov/api/internal/activity"
	"opengov/api/internal/comment"
	"opengov/api/internal/config"
	"opengov/api/internal/export"
	"opengov/api/internal/identity"
	"opengov/api/internal/kv"
	"opengov/api/internal/prefs"
	"opengov/api/internal/query"
	"opengov/api/internal/report"
)

// Service wires the identity directory, report repository, comment log and
// preferences over one shared store, and owns the cross-component rules the
// repositories cannot enforce alone (comment parent checks, role-scoped
// listings).
type Service struct {
	cfg      config.Config
	store    kv.Store
	identity *identity.Directory
	reports  *report.Repository
	comments *comment.Log
	prefs    *prefs.Prefs
}

func New(cfg config.Config, store kv.Store) *Service {
	return &Service{
		cfg:      cfg,
		store:    store,
		identity: identity.NewDirectory(store),
		reports:  report.NewRepository(store, cfg.MaxImages),
		comments: comment.NewLog(store),
		prefs:    prefs.New(store),
	}
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// --- identity ---

func (s *Service) Signup(ctx context.Context, email, password, name string, role identity.Role) (identity.User, error) {
	return s.identity.Signup(ctx, email, password, name, role)
}

func (s *Service) Login(ctx context.Context, email, password string, role identity.Role) (identity.User, error) {
	return s.identity.Login(ctx, email, password, role)
}

func (s *Service) Logout(ctx context.Context) error {
	return s.identity.Logout(ctx)
}

func (s *Service) CurrentSession(ctx context.Context) (*identity.User, error) {
	return s.identity.CurrentSession(ctx)
}

// --- reports ---

func (s *Service) CreateReport(ctx context.Context, input report.CreateInput, actor identity.User) (report.Report, error) {
	return s.reports.Create(ctx, input, actor)
}

// ListReports returns the actor's view of the collection: citizens see only
// their own reports, authorities see everything. The snapshot then goes
// through the query engine.
func (s *Service) ListReports(ctx context.Context, actor identity.User, criteria query.Criteria) ([]report.Report, error) {
	snapshot, err := s.visibleReports(ctx, actor)
	if err != nil {
		return nil, err
	}
	return query.Apply(snapshot, criteria), nil
}

// GetReport fetches one report under the actor's visibility: citizens can
// only reach their own reports.
func (s *Service) GetReport(ctx context.Context, id string, actor identity.User) (report.Report, error) {
	r, err := s.reports.Get(ctx, id)
	if err != nil {
		return report.Report{}, err
	}
	if actor.Role != identity.RoleAuthority && r.CitizenID != actor.ID {
		return report.Report{}, report.ErrForbidden
	}
	return r, nil
}

func (s *Service) UpdateReportStatus(ctx context.Context, id string, status report.Status, actor identity.User) (report.Report, error) {
	return s.reports.UpdateStatus(ctx, id, status, actor)
}

func (s *Service) visibleReports(ctx context.Context, actor identity.User) ([]report.Report, error) {
	if actor.Role == identity.RoleAuthority {
		return s.reports.ListAll(ctx)
	}
	return s.reports.ListForCitizen(ctx, actor.ID)
}

// Stats aggregates the actor's view by status and category: citizens get
// numbers for their own reports, authorities for the whole collection.
func (s *Service) Stats(ctx context.Context, actor identity.User) (map[string]any, error) {
	reports, err := s.visibleReports(ctx, actor)
	if err != nil {
		return nil, err
	}
	byStatus := map[string]int{}
	byCategory := map[string]int{}
	for _, r := range reports {
		byStatus[string(r.Status)]++
		byCategory[string(r.Category)]++
	}
	return map[string]any{
		"total":      len(reports),
		"byStatus":   byStatus,
		"byCategory": byCategory,
	}, nil
}

// --- comments & activity ---

// AddComment verifies the parent report exists and is visible to the actor
// before appending.
func (s *Service) AddComment(ctx context.Context, reportID string, actor identity.User, text string) (comment.Comment, error) {
	if _, err := s.GetReport(ctx, reportID, actor); err != nil {
		return comment.Comment{}, err
	}
	return s.comments.Append(ctx, reportID, actor, text)
}

func (s *Service) ListComments(ctx context.Context, reportID string, actor identity.User) ([]comment.Comment, error) {
	if _, err := s.GetReport(ctx, reportID, actor); err != nil {
		return nil, err
	}
	return s.comments.List(ctx, reportID)
}

func (s *Service) ReportActivity(ctx context.Context, reportID string, actor identity.User) ([]activity.Entry, error) {
	r, err := s.GetReport(ctx, reportID, actor)
	if err != nil {
		return nil, err
	}
	return activity.ForReport(r), nil
}

// --- exports ---

// ExportList renders the actor's filtered view as CSV or PDF.
func (s *Service) ExportList(ctx context.Context, actor identity.User, criteria query.Criteria, format export.Format) (*export.Result, error) {
	reports, err := s.ListReports(ctx, actor, criteria)
	if err != nil {
		return nil, err
	}
	switch format {
	case export.FormatCSV:
		return export.CSV(reports)
	case export.FormatPDF:
		return export.ListPDF(ctx, reports, s.cfg.ExportTimeout)
	default:
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "format must be 'csv' or 'pdf'", nil)
	}
}

// ExportReport renders one report's detail sheet as PDF.
func (s *Service) ExportReport(ctx context.Context, reportID string, actor identity.User) (*export.Result, error) {
	r, err := s.GetReport(ctx, reportID, actor)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.List(ctx, reportID)
	if err != nil {
		return nil, err
	}
	return export.ReportPDF(ctx, r, comments, activity.ForReport(r), s.cfg.ExportTimeout)
}

// --- preferences ---

// Settings bundles the client preferences in one payload.
func (s *Service) Settings(ctx context.Context) (map[string]any, error) {
	language, err := s.prefs.Language(ctx)
	if err != nil {
		return nil, err
	}
	token, err := s.prefs.MapboxToken(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"language":    language,
		"mapboxToken": token,
	}, nil
}

// UpdateSettings applies only the provided fields.
func (s *Service) UpdateSettings(ctx context.Context, language, mapboxToken *string) error {
	if language != nil {
		if err := s.prefs.SetLanguage(ctx, *language); err != nil {
			return err
		}
	}
	if mapboxToken != nil {
		if err := s.prefs.SetMapboxToken(ctx, *mapboxToken); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) TourSeen(ctx context.Context, role identity.Role) (bool, error) {
	return s.prefs.TourSeen(ctx, role)
}

func (s *Service) MarkTourSeen(ctx context.Context, role identity.Role) error {
	return s.prefs.MarkTourSeen(ctx, role)
}
