// Package service implements the secret friend flow on top of a storage
// backend: create a group, confirm participation, draw, reveal.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"github.com/tsoares/amigo-secreto/internal/auth"
	"github.com/tsoares/amigo-secreto/internal/draw"
	"github.com/tsoares/amigo-secreto/internal/metrics"
	"github.com/tsoares/amigo-secreto/internal/models"
	"github.com/tsoares/amigo-secreto/internal/storage"
)

var (
	ErrEmptyGroupName       = errors.New("group name is required")
	ErrTooFewParticipants   = errors.New("a group needs at least 2 participants")
	ErrDuplicateParticipant = errors.New("participant names must be unique")
	ErrUnknownParticipant   = errors.New("participant is not in this group")
	ErrAlreadyConfirmed     = errors.New("participant already confirmed")
	ErrNotConfirmed         = errors.New("participant has not confirmed yet")
	ErrNotAllConfirmed      = errors.New("not all participants have confirmed")
	ErrAlreadyDrawn         = errors.New("the draw was already performed")
	ErrNotDrawn             = errors.New("the draw has not been performed yet")
)

// GroupService owns the group lifecycle and its two invariants: a draw
// happens at most once per group, and only after everyone confirmed.
type GroupService struct {
	store storage.Store
	jwt   *auth.JWTManager
}

// NewGroupService creates a new GroupService with the given storage backend
// and token manager.
func NewGroupService(store storage.Store, jwt *auth.JWTManager) *GroupService {
	return &GroupService{store: store, jwt: jwt}
}

// CreateGroup validates and persists a new group and returns it together
// with the admin token that authorizes drawing and deleting it.
func (s *GroupService) CreateGroup(ctx context.Context, name string, participants []string) (*models.Group, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, "", ErrEmptyGroupName
	}

	cleaned := lo.FilterMap(participants, func(p string, _ int) (string, bool) {
		p = strings.TrimSpace(p)
		return p, p != ""
	})
	if len(cleaned) < 2 {
		return nil, "", fmt.Errorf("%w: got %d", ErrTooFewParticipants, len(cleaned))
	}
	if len(lo.Uniq(cleaned)) != len(cleaned) {
		return nil, "", ErrDuplicateParticipant
	}

	group := &models.Group{
		Name:          name,
		Participants:  cleaned,
		Confirmations: map[string]string{},
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, "", err
	}

	token, err := s.jwt.Generate(group.ID)
	if err != nil {
		slog.Error("CreateGroup failed to issue admin token", "group_id", group.ID, "error", err)
		return nil, "", err
	}

	metrics.GroupsCreated.Inc()
	slog.Info("Group created", "group_id", group.ID, "name", group.Name, "participants", len(group.Participants))
	return group, token, nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return s.store.GetGroup(ctx, groupID)
}

// Confirm records a participant's confirmation, storing the hash of the
// password they chose.
func (s *GroupService) Confirm(ctx context.Context, groupID, participant, password string) error {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}

	if !group.HasParticipant(participant) {
		return fmt.Errorf("%w: %q", ErrUnknownParticipant, participant)
	}
	if group.Confirmed(participant) {
		return ErrAlreadyConfirmed
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	if group.Confirmations == nil {
		group.Confirmations = map[string]string{}
	}
	group.Confirmations[participant] = hash

	if err := s.store.UpdateGroup(ctx, group); err != nil {
		slog.Error("Confirm failed to save group", "group_id", groupID, "error", err)
		return err
	}

	metrics.Confirmations.Inc()
	slog.Info("Participation confirmed",
		"group_id", groupID,
		"participant", participant,
		"confirmed", group.ConfirmedCount(),
		"total", len(group.Participants),
	)
	return nil
}

// Draw performs the secret friend draw for a group. It refuses to run
// before every participant has confirmed, and refuses to run twice.
func (s *GroupService) Draw(ctx context.Context, groupID string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if group.Drawn {
		return nil, ErrAlreadyDrawn
	}
	if !group.AllConfirmed() {
		return nil, fmt.Errorf("%w: %d/%d confirmed",
			ErrNotAllConfirmed, group.ConfirmedCount(), len(group.Participants))
	}

	assignments, attempts, err := draw.AssignCounted(group.Participants)
	if err != nil {
		slog.Error("Draw failed", "group_id", groupID, "error", err)
		return nil, err
	}

	group.Assignments = assignments
	group.Drawn = true
	if err := s.store.UpdateGroup(ctx, group); err != nil {
		slog.Error("Draw failed to save group", "group_id", groupID, "error", err)
		return nil, err
	}

	metrics.Draws.Inc()
	metrics.DrawAttempts.Observe(float64(attempts))
	slog.Info("Draw performed", "group_id", groupID, "participants", len(group.Participants), "attempts", attempts)
	return group, nil
}

// Reveal returns the secret friend assigned to a participant, if the draw
// happened and the participant proves their identity with their password.
func (s *GroupService) Reveal(ctx context.Context, groupID, participant, password string) (string, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return "", err
	}

	if !group.HasParticipant(participant) {
		return "", fmt.Errorf("%w: %q", ErrUnknownParticipant, participant)
	}
	if !group.Drawn {
		return "", ErrNotDrawn
	}

	hash, ok := group.Confirmations[participant]
	if !ok {
		return "", ErrNotConfirmed
	}
	if err := auth.CheckPassword(hash, password); err != nil {
		slog.Warn("Reveal rejected", "group_id", groupID, "participant", participant)
		return "", err
	}

	friend, ok := group.Assignments[participant]
	if !ok {
		// Drawn groups always carry a complete assignment map; a miss here
		// means the stored record is corrupt.
		return "", fmt.Errorf("no assignment recorded for %q", participant)
	}

	metrics.Reveals.Inc()
	slog.Info("Secret friend revealed", "group_id", groupID, "participant", participant)
	return friend, nil
}

// DeleteGroup removes a group entirely.
func (s *GroupService) DeleteGroup(ctx context.Context, groupID string) error {
	if err := s.store.DeleteGroup(ctx, groupID); err != nil {
		return err
	}
	slog.Info("Group deleted", "group_id", groupID)
	return nil
}
