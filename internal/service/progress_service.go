package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"alcyxob/bodytrack/internal/authz"
	"alcyxob/bodytrack/internal/catalog"
	"alcyxob/bodytrack/internal/domain"
	"alcyxob/bodytrack/internal/repository"
	"alcyxob/bodytrack/internal/storage"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgressInput carries body metrics. Nil fields are left untouched on update.
type ProgressInput struct {
	Date       *time.Time
	Weight     *float64
	BodyFatPct *float64
	Chest      *float64
	Waist      *float64
	Hips       *float64
	Arm        *float64
	Leg        *float64
	PhotoKeys  []string
	Notes      *string
}

// ProgressView is a list of records as seen by one caller.
// Since is set when older history was hidden by the client's tier.
type ProgressView struct {
	Records []domain.ProgressRecord
	Tier    domain.PlanTier
	Since   *time.Time
}

// ProgressStats summarises the visible records.
type ProgressStats struct {
	Records       int        `json:"records"`
	FirstDate     *time.Time `json:"firstDate,omitempty"`
	LastDate      *time.Time `json:"lastDate,omitempty"`
	InitialWeight *float64   `json:"initialWeight,omitempty"`
	CurrentWeight *float64   `json:"currentWeight,omitempty"`
	WeightChange  *float64   `json:"weightChange,omitempty"`
	InitialFatPct *float64   `json:"initialBodyFatPct,omitempty"`
	CurrentFatPct *float64   `json:"currentBodyFatPct,omitempty"`
	FatPctChange  *float64   `json:"bodyFatPctChange,omitempty"`
}

type PhotoUpload struct {
	UploadURL string    `json:"uploadUrl"`
	ObjectKey string    `json:"objectKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type ProgressService interface {
	// ListForClient returns the client's records newest first, hiding those
	// older than the retention window of tier.
	ListForClient(ctx context.Context, clientID primitive.ObjectID, tier domain.PlanTier) (*ProgressView, error)
	// ListForViewer picks the tier from the caller: staff see everything, a
	// client sees what their own plan allows.
	ListForViewer(ctx context.Context, clientID primitive.ObjectID, viewer authz.Principal) (*ProgressView, error)
	Stats(ctx context.Context, clientID primitive.ObjectID, viewer authz.Principal) (*ProgressStats, error)
	Get(ctx context.Context, id primitive.ObjectID) (*domain.ProgressRecord, error)
	PhotoURLs(ctx context.Context, record *domain.ProgressRecord) []string
	Create(ctx context.Context, clientID primitive.ObjectID, in ProgressInput) (*domain.ProgressRecord, error)
	Update(ctx context.Context, id primitive.ObjectID, in ProgressInput) (*domain.ProgressRecord, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	PhotoUploadURL(ctx context.Context, clientID primitive.ObjectID, contentType string) (*PhotoUpload, error)
}

type progressService struct {
	progress repository.ProgressRepository
	clients  repository.ClientRepository
	plans    *catalog.Catalog
	files    storage.FileStorage
	now      func() time.Time
}

func NewProgressService(progress repository.ProgressRepository, clients repository.ClientRepository, plans *catalog.Catalog, files storage.FileStorage) ProgressService {
	if files == nil {
		files = storage.Disabled()
	}
	return &progressService{
		progress: progress,
		clients:  clients,
		plans:    plans,
		files:    files,
		now:      time.Now,
	}
}

func (s *progressService) ListForClient(ctx context.Context, clientID primitive.ObjectID, tier domain.PlanTier) (*ProgressView, error) {
	if _, err := s.clients.GetByID(ctx, clientID); err != nil {
		return nil, notFound(err, ErrClientNotFound)
	}
	return s.list(ctx, clientID, tier)
}

func (s *progressService) list(ctx context.Context, clientID primitive.ObjectID, tier domain.PlanTier) (*ProgressView, error) {
	view := &ProgressView{Tier: tier}
	if cutoff, limited := s.plans.RetentionCutoff(tier, s.now().UTC()); limited {
		view.Since = &cutoff
	}
	records, err := s.progress.ListByClient(ctx, clientID, view.Since)
	if err != nil {
		return nil, err
	}
	view.Records = records
	return view, nil
}

func (s *progressService) ListForViewer(ctx context.Context, clientID primitive.ObjectID, viewer authz.Principal) (*ProgressView, error) {
	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, notFound(err, ErrClientNotFound)
	}
	tier := client.Plan
	if viewer.IsStaff() {
		tier = s.unrestrictedTier()
	}
	return s.list(ctx, clientID, tier)
}

// unrestrictedTier is the first tier without a retention limit.
func (s *progressService) unrestrictedTier() domain.PlanTier {
	for _, t := range s.plans.All() {
		if t.RetentionMonths <= 0 {
			return t.Code
		}
	}
	return domain.PlanPremium
}

func (s *progressService) Stats(ctx context.Context, clientID primitive.ObjectID, viewer authz.Principal) (*ProgressStats, error) {
	view, err := s.ListForViewer(ctx, clientID, viewer)
	if err != nil {
		return nil, err
	}
	return summarize(view.Records), nil
}

// summarize expects records newest first.
func summarize(records []domain.ProgressRecord) *ProgressStats {
	stats := &ProgressStats{Records: len(records)}
	if len(records) == 0 {
		return stats
	}
	last, first := records[0].Date, records[len(records)-1].Date
	stats.LastDate, stats.FirstDate = &last, &first

	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		if r.Weight != nil {
			if stats.InitialWeight == nil {
				stats.InitialWeight = r.Weight
			}
			stats.CurrentWeight = r.Weight
		}
		if r.BodyFatPct != nil {
			if stats.InitialFatPct == nil {
				stats.InitialFatPct = r.BodyFatPct
			}
			stats.CurrentFatPct = r.BodyFatPct
		}
	}
	stats.WeightChange = diff(stats.InitialWeight, stats.CurrentWeight)
	stats.FatPctChange = diff(stats.InitialFatPct, stats.CurrentFatPct)
	return stats
}

func diff(from, to *float64) *float64 {
	if from == nil || to == nil {
		return nil
	}
	d := *to - *from
	return &d
}

func (s *progressService) Get(ctx context.Context, id primitive.ObjectID) (*domain.ProgressRecord, error) {
	record, err := s.progress.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrProgressNotFound)
	}
	return record, nil
}

// PhotoURLs presigns a download URL per photo. Photos that cannot be signed are skipped.
func (s *progressService) PhotoURLs(ctx context.Context, record *domain.ProgressRecord) []string {
	urls := make([]string, 0, len(record.PhotoKeys))
	for _, key := range record.PhotoKeys {
		url, err := s.files.GeneratePresignedDownloadURL(ctx, key, storage.DefaultPresignedURLExpiry)
		if err != nil {
			if !errors.Is(err, storage.ErrNotConfigured) {
				log.WithField("key", key).WithError(err).Warn("failed to presign progress photo")
			}
			continue
		}
		urls = append(urls, url)
	}
	return urls
}

func (s *progressService) Create(ctx context.Context, clientID primitive.ObjectID, in ProgressInput) (*domain.ProgressRecord, error) {
	if _, err := s.clients.GetByID(ctx, clientID); err != nil {
		return nil, notFound(err, ErrClientNotFound)
	}
	if err := validateProgress(clientID, in); err != nil {
		return nil, err
	}

	record := &domain.ProgressRecord{ClientID: clientID, Date: s.now().UTC()}
	applyProgress(record, in)
	if _, err := s.progress.Create(ctx, record); err != nil {
		return nil, err
	}

	// The client profile tracks the latest recorded weight.
	if in.Weight != nil {
		if err := s.clients.UpdateWeight(ctx, clientID, *in.Weight); err != nil {
			log.WithField("client", clientID.Hex()).WithError(err).Warn("progress saved but client weight not updated")
		}
	}
	return record, nil
}

func (s *progressService) Update(ctx context.Context, id primitive.ObjectID, in ProgressInput) (*domain.ProgressRecord, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateProgress(record.ClientID, in); err != nil {
		return nil, err
	}
	applyProgress(record, in)
	if err := s.progress.Update(ctx, record); err != nil {
		return nil, notFound(err, ErrProgressNotFound)
	}
	return record, nil
}

func (s *progressService) Delete(ctx context.Context, id primitive.ObjectID) error {
	record, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.progress.Delete(ctx, id); err != nil {
		return notFound(err, ErrProgressNotFound)
	}
	for _, key := range record.PhotoKeys {
		if err := s.files.DeleteObject(ctx, key); err != nil && !errors.Is(err, storage.ErrNotConfigured) {
			log.WithField("key", key).WithError(err).Warn("failed to delete progress photo")
		}
	}
	return nil
}

func (s *progressService) PhotoUploadURL(ctx context.Context, clientID primitive.ObjectID, contentType string) (*PhotoUpload, error) {
	if _, err := s.clients.GetByID(ctx, clientID); err != nil {
		return nil, notFound(err, ErrClientNotFound)
	}
	key, err := storage.ProgressPhotoKey(clientID.Hex(), contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	url, err := s.files.GeneratePresignedUploadURL(ctx, key, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, err
	}
	return &PhotoUpload{
		UploadURL: url,
		ObjectKey: key,
		ExpiresAt: s.now().UTC().Add(storage.DefaultPresignedURLExpiry),
	}, nil
}

func validateProgress(clientID primitive.ObjectID, in ProgressInput) error {
	for name, v := range map[string]*float64{
		"weight": in.Weight, "chest": in.Chest, "waist": in.Waist,
		"hips": in.Hips, "arm": in.Arm, "leg": in.Leg,
	} {
		if v != nil && *v <= 0 {
			return invalidInput("%s must be positive", name)
		}
	}
	if in.BodyFatPct != nil && (*in.BodyFatPct < 0 || *in.BodyFatPct > 100) {
		return invalidInput("bodyFatPct must be between 0 and 100")
	}
	for _, key := range in.PhotoKeys {
		if !storage.OwnsKey(clientID.Hex(), key) {
			return invalidInput("photo key %q does not belong to this client", key)
		}
	}
	return nil
}

// applyProgress copies the set fields of in onto r. Photo keys are appended.
func applyProgress(r *domain.ProgressRecord, in ProgressInput) {
	if in.Date != nil {
		r.Date = in.Date.UTC()
	}
	for _, f := range []struct {
		dst **float64
		src *float64
	}{
		{&r.Weight, in.Weight}, {&r.BodyFatPct, in.BodyFatPct}, {&r.Chest, in.Chest},
		{&r.Waist, in.Waist}, {&r.Hips, in.Hips}, {&r.Arm, in.Arm}, {&r.Leg, in.Leg},
	} {
		if f.src != nil {
			v := *f.src
			*f.dst = &v
		}
	}
	for _, key := range in.PhotoKeys {
		if !slices.Contains(r.PhotoKeys, key) {
			r.PhotoKeys = append(r.PhotoKeys, key)
		}
	}
	if in.Notes != nil {
		r.Notes = *in.Notes
	}
}
