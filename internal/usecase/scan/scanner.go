package scan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skill-pulse/internal/domain/suggestion"
	"skill-pulse/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const lockKey = "scan:stale-skills:lock"

// ErrScanInProgress means another invocation holds the run lock; the caller
// should treat the run as skipped, not failed.
var ErrScanInProgress = errors.New("scan already in progress")

type Cache interface {
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type ItemFailure struct {
	ProfileID uuid.UUID
	SkillID   uuid.UUID
	Err       string
}

// Report is the per-run summary. Failures are per-candidate: one bad insert
// never abandons the rest of the run.
type Report struct {
	StartedAt          time.Time
	FinishedAt         time.Time
	EmployeesProcessed int
	CoreStackSkills    int
	StaleSkills        int
	SuggestionsCreated int
	SkippedExisting    int
	ExcludedInactive   int
	Failures           []ItemFailure
}

type Scanner struct {
	orgs           repository.OrgRepository
	employeeSkills repository.EmployeeSkillRepository
	suggestions    repository.SuggestionRepository
	cache          Cache
	logger         *zap.Logger

	staleAfter time.Duration
	lockTTL    time.Duration
	now        func() time.Time
}

func NewScanner(
	orgs repository.OrgRepository,
	employeeSkills repository.EmployeeSkillRepository,
	suggestions repository.SuggestionRepository,
	cache Cache,
	logger *zap.Logger,
	staleAfter time.Duration,
	lockTTL time.Duration,
) *Scanner {
	if staleAfter <= 0 {
		staleAfter = 365 * 24 * time.Hour
	}
	if lockTTL <= 0 {
		lockTTL = time.Hour
	}
	return &Scanner{
		orgs:           orgs,
		employeeSkills: employeeSkills,
		suggestions:    suggestions,
		cache:          cache,
		logger:         logger,
		staleAfter:     staleAfter,
		lockTTL:        lockTTL,
		now:            time.Now,
	}
}

// Run walks every assigned profile's core stack and files SYSTEM_FLAG
// re-validation suggestions for skills validated more than staleAfter ago.
// The run lock makes concurrent invocations a no-op, and the top-level
// recover keeps a scheduler host alive no matter what.
func (s *Scanner) Run(ctx context.Context) (rep Report, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scan panicked: %v", r)
			if s.logger != nil {
				s.logger.Error("staleness scan panicked", zap.Any("panic", r))
			}
		}
	}()

	if s.cache != nil {
		ok, lockErr := s.cache.SetIfNotExists(ctx, lockKey, "1", s.lockTTL)
		if lockErr == nil && !ok {
			return Report{}, ErrScanInProgress
		}
		defer func() {
			_ = s.cache.Delete(context.Background(), lockKey)
		}()
	}

	rep.StartedAt = s.now().UTC()

	profiles, err := s.orgs.ListAssignedProfiles(ctx)
	if err != nil {
		return rep, err
	}

	for _, ap := range profiles {
		rep.EmployeesProcessed++

		tagSet := make(map[string]struct{}, len(ap.Tags))
		for _, t := range ap.Tags {
			tagSet[t] = struct{}{}
		}

		records, err := s.employeeSkills.FindByProfileID(ctx, ap.ProfileID)
		if err != nil {
			rep.Failures = append(rep.Failures, ItemFailure{ProfileID: ap.ProfileID, Err: err.Error()})
			continue
		}

		for _, rec := range records {
			// Core stack membership is a case-sensitive exact match of the
			// skill name against the profile's assignment tags.
			if _, ok := tagSet[rec.SkillName]; !ok {
				continue
			}
			rep.CoreStackSkills++

			if !rec.SkillActive {
				rep.ExcludedInactive++
				continue
			}
			if rep.StartedAt.Sub(rec.LastValidatedAt) <= s.staleAfter {
				continue
			}
			rep.StaleSkills++

			created, err := s.flag(ctx, rec, rep.StartedAt)
			switch {
			case err != nil:
				rep.Failures = append(rep.Failures, ItemFailure{ProfileID: rec.ProfileID, SkillID: rec.SkillID, Err: err.Error()})
			case created:
				rep.SuggestionsCreated++
			default:
				rep.SkippedExisting++
			}
		}
	}

	rep.FinishedAt = s.now().UTC()

	if rep.SuggestionsCreated > 0 && s.cache != nil {
		_ = s.cache.DeleteByPattern(ctx, "inbox:*")
	}

	if s.logger != nil {
		s.logger.Info("staleness scan finished",
			zap.Int("employees_processed", rep.EmployeesProcessed),
			zap.Int("core_stack_skills", rep.CoreStackSkills),
			zap.Int("stale_skills", rep.StaleSkills),
			zap.Int("suggestions_created", rep.SuggestionsCreated),
			zap.Int("skipped_existing_pending", rep.SkippedExisting),
			zap.Int("excluded_inactive", rep.ExcludedInactive),
			zap.Int("failures", len(rep.Failures)),
			zap.Duration("took", rep.FinishedAt.Sub(rep.StartedAt)),
		)
		for _, f := range rep.Failures {
			s.logger.Warn("staleness scan item failed",
				zap.String("profile_id", f.ProfileID.String()),
				zap.String("skill_id", f.SkillID.String()),
				zap.String("error", f.Err),
			)
		}
	}

	return rep, nil
}

// flag files one re-validation suggestion carrying the record's current
// proficiency, so the reviewer confirms or revises rather than downgrades.
// Unlike self-report intake, only an existing PENDING suggestion blocks it.
func (s *Scanner) flag(ctx context.Context, rec repository.EmployeeSkill, now time.Time) (bool, error) {
	pending, err := s.suggestions.PendingExistsForPair(ctx, rec.ProfileID, rec.SkillID)
	if err != nil {
		return false, err
	}
	if pending {
		return false, nil
	}

	_, err = s.suggestions.Create(ctx, repository.Suggestion{
		ID:                   uuid.New(),
		ProfileID:            rec.ProfileID,
		SkillID:              rec.SkillID,
		SuggestedProficiency: rec.Proficiency,
		Status:               string(suggestion.StatusPending),
		Source:               string(suggestion.SourceSystemFlag),
		CreatedAt:            now,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
