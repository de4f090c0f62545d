package lead

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"podcastcrm/internal/apperror"
	"podcastcrm/internal/pkg/logger"
)

// Store is the only path by which leads are persisted. When a remote
// repository is configured every write goes there and failures surface to
// the caller; otherwise the local blob store is used.
type Store struct {
	remote     *Repository
	local      *LocalStore
	classifier *apperror.Classifier
	log        *zap.Logger
	now        func() time.Time
	newID      func() string
}

// NewStore wires a store. remote may be nil when no remote database is
// configured; local is required.
func NewStore(remote *Repository, local *LocalStore, classifier *apperror.Classifier, log *zap.Logger) *Store {
	return &Store{
		remote:     remote,
		local:      local,
		classifier: classifier,
		log:        logger.OrNop(log).Named("lead.store"),
		now:        func() time.Time { return time.Now().UTC() },
		newID:      uuid.NewString,
	}
}

// RemoteConfigured reports whether writes go to the remote store.
func (s *Store) RemoteConfigured() bool { return s.remote != nil }

// remoteHasID reports whether id can exist remotely. The remote id column
// is a uuid, and Postgres rejects comparisons against anything else.
func (s *Store) remoteHasID(id string) bool {
	return uuid.Validate(id) == nil
}

func (s *Store) fail(err error, context string) error {
	return s.classifier.Classify(err, apperror.KindStore, context)
}

func (s *Store) build(in Input) (*Lead, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Interest = strings.TrimSpace(in.Interest)
	switch {
	case in.Name == "":
		return nil, apperror.New(apperror.KindValidation, ErrNameRequired.Error(), "lead.create")
	case in.Email == "":
		return nil, apperror.New(apperror.KindValidation, ErrEmailRequired.Error(), "lead.create")
	case in.Interest == "":
		return nil, apperror.New(apperror.KindValidation, ErrInterestRequired.Error(), "lead.create")
	case !in.Source.Valid():
		return nil, apperror.New(apperror.KindValidation, ErrInvalidSource.Error(), "lead.create")
	}
	tags := append([]string{}, in.Tags...)
	now := s.now()
	return &Lead{
		ID:          s.newID(),
		Name:        in.Name,
		Email:       in.Email,
		Phone:       strings.TrimSpace(in.Phone),
		Interest:    in.Interest,
		Source:      in.Source,
		Notes:       in.Notes,
		Tags:        tags,
		Status:      StatusNew,
		Campaign:    in.Campaign,
		Date:        now,
		LastUpdated: now,
	}, nil
}

// Create validates in and persists a new lead with status new.
func (s *Store) Create(ctx context.Context, in Input) (*Lead, error) {
	l, err := s.build(in)
	if err != nil {
		return nil, err
	}
	if s.remote != nil {
		if err := s.remote.Insert(ctx, l); err != nil {
			return nil, s.fail(err, "lead.create")
		}
	} else if err := s.local.Insert(ctx, l); err != nil {
		return nil, s.fail(err, "lead.create")
	}
	s.log.Info("lead created", zap.String("id", l.ID), zap.String("source", string(l.Source)))
	return l, nil
}

// List returns every lead, newest first. A remote read failure is logged
// and answered from the local store instead of being surfaced.
func (s *Store) List(ctx context.Context) ([]Lead, error) {
	if s.remote != nil {
		leads, err := s.remote.List(ctx)
		if err == nil {
			return leads, nil
		}
		s.log.Warn("remote lead list failed, reading local store", zap.Error(err))
	}
	leads, err := s.local.List(ctx)
	if err != nil {
		return nil, s.fail(err, "lead.list")
	}
	return leads, nil
}

// Update applies patch to the lead with id and returns the refreshed list.
// An unknown id leaves the store untouched.
func (s *Store) Update(ctx context.Context, id string, patch Patch) ([]Lead, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, apperror.New(apperror.KindValidation, "invalid lead status", "lead.update")
	}
	if s.remote != nil && !s.remoteHasID(id) {
		return s.List(ctx)
	}
	now := s.now()
	var err error
	if s.remote != nil {
		err = s.remote.Update(ctx, id, patch, now)
	} else {
		err = s.local.Mutate(ctx, id, func(l *Lead) { patch.apply(l, now) })
	}
	if err != nil {
		return nil, s.fail(err, "lead.update")
	}
	return s.List(ctx)
}

// Delete removes the lead with id and returns the refreshed list.
func (s *Store) Delete(ctx context.Context, id string) ([]Lead, error) {
	if s.remote != nil && !s.remoteHasID(id) {
		return s.List(ctx)
	}
	var err error
	if s.remote != nil {
		err = s.remote.Delete(ctx, id)
	} else {
		err = s.local.Delete(ctx, id)
	}
	if err != nil {
		return nil, s.fail(err, "lead.delete")
	}
	return s.List(ctx)
}

// LinkUser attaches userID to the lead and marks it converted.
func (s *Store) LinkUser(ctx context.Context, id, userID string) ([]Lead, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperror.New(apperror.KindValidation, "user id is required", "lead.link")
	}
	if s.remote != nil && !s.remoteHasID(id) {
		return s.List(ctx)
	}
	now := s.now()
	var err error
	if s.remote != nil {
		err = s.remote.LinkUser(ctx, id, userID, now)
	} else {
		err = s.local.Mutate(ctx, id, func(l *Lead) {
			l.UserID = userID
			l.Status = StatusConverted
			l.LastUpdated = now
		})
	}
	if err != nil {
		return nil, s.fail(err, "lead.link")
	}
	return s.List(ctx)
}

// CacheLocally writes a new lead to the local store only. It is the first
// half of QuickCapture and succeeds even when the remote store is down.
func (s *Store) CacheLocally(ctx context.Context, in Input) (*Lead, error) {
	l, err := s.build(in)
	if err != nil {
		return nil, err
	}
	if err := s.local.Insert(ctx, l); err != nil {
		return nil, s.fail(err, "lead.cache")
	}
	return l, nil
}

// MirrorRemote copies l to the remote store in the background. The
// returned channel yields the classified outcome once and is then closed;
// callers may ignore it. Failures are logged either way.
func (s *Store) MirrorRemote(ctx context.Context, l *Lead) <-chan error {
	done := make(chan error, 1)
	if s.remote == nil {
		close(done)
		return done
	}
	ctx = context.WithoutCancel(ctx)
	cp := *l
	go func() {
		defer close(done)
		if err := s.remote.Insert(ctx, &cp); err != nil {
			appErr := s.fail(err, "lead.mirror")
			s.log.Warn("remote mirror failed", zap.String("id", cp.ID), zap.Error(appErr))
			done <- appErr
		}
	}()
	return done
}

// QuickCapture caches the lead locally and mirrors it remotely without
// waiting. Only the local write can fail the call.
func (s *Store) QuickCapture(ctx context.Context, in Input) (*Lead, <-chan error, error) {
	l, err := s.CacheLocally(ctx, in)
	if err != nil {
		return nil, nil, err
	}
	return l, s.MirrorRemote(ctx, l), nil
}
