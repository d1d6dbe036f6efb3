package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"talentbridge/internal/domain/event"
	"talentbridge/internal/domain/match"
	"talentbridge/internal/domain/notification"
	"talentbridge/internal/repository"

	"github.com/google/uuid"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationUsecase interface {
	event.Sink
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
	List(ctx context.Context, userID uuid.UUID, limit int) ([]notification.Notification, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type Notifications struct {
	notifications repository.NotificationRepository
	jobs          repository.JobRepository
	dedupBucket   time.Duration
	logger        *log.Logger

	now func() time.Time
}

func NewNotificationUsecase(
	notifications repository.NotificationRepository,
	jobs repository.JobRepository,
	dedupBucket time.Duration,
	logger *log.Logger,
) *Notifications {
	if logger == nil {
		logger = log.Default()
	}
	return &Notifications{
		notifications: notifications,
		jobs:          jobs,
		dedupBucket:   dedupBucket,
		logger:        logger,
		now:           time.Now,
	}
}

// Publish consumes a committed domain event, resolves its recipients
// and writes one notification per recipient under the dedup key.
// Dispatch failures are logged, never propagated: the triggering write
// has already committed.
func (u *Notifications) Publish(ctx context.Context, ev event.Event) {
	switch e := ev.(type) {
	case event.MatchBecameMutual:
		title := u.jobTitle(ctx, e.JobID)
		u.notify(ctx, e.CandidateID, notification.TypeNewMatch, e.MatchID,
			"It's a match!",
			fmt.Sprintf("You and the company behind %q are both interested.", title))
		if companyID := u.jobOwner(ctx, e.JobID); companyID != uuid.Nil {
			u.notify(ctx, companyID, notification.TypeNewMatch, e.MatchID,
				"It's a match!",
				fmt.Sprintf("A candidate you marked for %q is interested too.", title))
		}

	case event.ApplicationReceived:
		if companyID := u.jobOwner(ctx, e.JobID); companyID != uuid.Nil {
			u.notify(ctx, companyID, notification.TypeApplicationReceived, e.ApplicationID,
				"New application",
				fmt.Sprintf("A candidate applied to %q.", u.jobTitle(ctx, e.JobID)))
		}

	case event.ApplicationStatusChanged:
		if e.NewStatus == "withdrawn" {
			if companyID := u.jobOwner(ctx, e.JobID); companyID != uuid.Nil {
				u.notify(ctx, companyID, notification.TypeApplicationStatus, e.ApplicationID,
					"Application withdrawn",
					fmt.Sprintf("A candidate withdrew their application to %q.", u.jobTitle(ctx, e.JobID)))
			}
			return
		}
		u.notify(ctx, e.CandidateID, notification.TypeApplicationStatus, e.ApplicationID,
			"Application update",
			fmt.Sprintf("Your application to %q is now %s.", u.jobTitle(ctx, e.JobID), e.NewStatus))

	case event.MessageSent:
		if e.Sender == match.RoleCandidate {
			if companyID := u.jobOwner(ctx, e.JobID); companyID != uuid.Nil {
				u.notify(ctx, companyID, notification.TypeMessage, e.MatchID,
					"New message",
					fmt.Sprintf("You have a new message about %q.", u.jobTitle(ctx, e.JobID)))
			}
			return
		}
		u.notify(ctx, e.CandidateID, notification.TypeMessage, e.MatchID,
			"New message",
			fmt.Sprintf("You have a new message about %q.", u.jobTitle(ctx, e.JobID)))

	case event.ProfileViewed:
		u.notify(ctx, e.CandidateID, notification.TypeProfileView, e.ViewerID,
			"Profile viewed",
			"A company viewed your profile.")
	}
}

func (u *Notifications) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	if userID == uuid.Nil {
		return 0, ErrUnauthorized
	}
	n, err := u.notifications.UnreadCount(ctx, userID)
	if err != nil {
		return 0, ErrInternal
	}
	return n, nil
}

func (u *Notifications) List(ctx context.Context, userID uuid.UUID, limit int) ([]notification.Notification, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	if limit < 0 {
		return nil, ErrInvalidInput
	}

	out, err := u.notifications.List(ctx, userID, limit)
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}

func (u *Notifications) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrUnauthorized
	}
	if id == uuid.Nil {
		return ErrInvalidInput
	}

	err := u.notifications.MarkRead(ctx, id, userID)
	if err != nil {
		if errors.Is(err, notification.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return ErrInternal
	}
	return nil
}

func (u *Notifications) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrUnauthorized
	}
	if err := u.notifications.MarkAllRead(ctx, userID); err != nil {
		return ErrInternal
	}
	return nil
}

func (u *Notifications) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrUnauthorized
	}
	if id == uuid.Nil {
		return ErrInvalidInput
	}

	err := u.notifications.Delete(ctx, id, userID)
	if err != nil {
		if errors.Is(err, notification.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return ErrInternal
	}
	return nil
}

func (u *Notifications) notify(ctx context.Context, userID uuid.UUID, typ notification.Type, relatedID uuid.UUID, title, msg string) {
	now := u.now().UTC()
	n := notification.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   msg,
		RelatedID: relatedID,
		DedupKey:  notification.DedupKey(userID, typ, relatedID, now, u.dedupBucket),
		CreatedAt: now,
	}

	if _, err := u.notifications.Insert(ctx, n); err != nil {
		u.logger.Printf("notification dispatch failed: user=%s type=%s: %v", userID, typ, err)
	}
}

func (u *Notifications) jobTitle(ctx context.Context, jobID uuid.UUID) string {
	j, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		return "a job"
	}
	return j.Title
}

func (u *Notifications) jobOwner(ctx context.Context, jobID uuid.UUID) uuid.UUID {
	j, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		u.logger.Printf("notification recipient lookup failed: job=%s: %v", jobID, err)
		return uuid.Nil
	}
	return j.CompanyID
}
