package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"talentbridge/internal/domain/event"
	"talentbridge/internal/domain/match"
	"talentbridge/internal/domain/message"
	"talentbridge/internal/repository"

	"github.com/google/uuid"
)

var ErrGateClosed = errors.New("messaging requires mutual interest")

type MessageUsecase interface {
	Send(ctx context.Context, matchID uuid.UUID, actor match.Role, actorID uuid.UUID, content string) (message.Message, error)
	List(ctx context.Context, matchID uuid.UUID, actor match.Role, actorID uuid.UUID) ([]message.Message, error)
}

type Messages struct {
	messages repository.MessageRepository
	matches  repository.MatchRepository
	jobs     repository.JobRepository
	sink     event.Sink
}

func NewMessageUsecase(
	messages repository.MessageRepository,
	matches repository.MatchRepository,
	jobs repository.JobRepository,
	sink event.Sink,
) *Messages {
	return &Messages{messages: messages, matches: matches, jobs: jobs, sink: sink}
}

func (u *Messages) Send(ctx context.Context, matchID uuid.UUID, actor match.Role, actorID uuid.UUID, content string) (message.Message, error) {
	if err := message.ValidateContent(content); err != nil {
		return message.Message{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	m, err := authorizeMatchActor(ctx, u.matches, u.jobs, matchID, actor, actorID)
	if err != nil {
		return message.Message{}, err
	}

	msg := message.Message{
		ID:         uuid.New(),
		MatchID:    m.ID,
		SenderType: actor,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	}

	// The mutuality check happens inside the insert's transaction, so a
	// stale "unlocked" read can never slip a message past the gate.
	inserted, err := u.messages.InsertGated(ctx, msg)
	if err != nil {
		if errors.Is(err, match.ErrNotFound) {
			return message.Message{}, ErrMatchNotFound
		}
		return message.Message{}, ErrInternal
	}
	if !inserted {
		return message.Message{}, ErrGateClosed
	}

	u.publish(ctx, event.MessageSent{
		MessageID:   msg.ID,
		MatchID:     m.ID,
		CandidateID: m.CandidateID,
		JobID:       m.JobID,
		Sender:      actor,
	})
	return msg, nil
}

func (u *Messages) List(ctx context.Context, matchID uuid.UUID, actor match.Role, actorID uuid.UUID) ([]message.Message, error) {
	m, err := authorizeMatchActor(ctx, u.matches, u.jobs, matchID, actor, actorID)
	if err != nil {
		return nil, err
	}

	// Opening the thread reads the counterparty's messages.
	if err := u.messages.MarkReadFromSender(ctx, m.ID, actor.Other()); err != nil {
		return nil, ErrInternal
	}

	out, err := u.messages.ListByMatch(ctx, m.ID)
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}

func (u *Messages) publish(ctx context.Context, ev event.Event) {
	if u.sink != nil {
		u.sink.Publish(ctx, ev)
	}
}
