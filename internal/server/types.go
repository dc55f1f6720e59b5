package server

import "github.com/tsoares/amigo-secreto/internal/models"

// CreateGroupRequest is the body of POST /api/groups.
type CreateGroupRequest struct {
	Name         string   `json:"name" validate:"required"`
	Participants []string `json:"participants" validate:"required,min=2,dive,required"`
}

// ParticipantStatus is one row of the public group view.
type ParticipantStatus struct {
	Name      string `json:"name"`
	Confirmed bool   `json:"confirmed"`
}

// GroupResponse is the public view of a group. It never includes password
// hashes or assignments; a participant only learns their own match through
// the reveal endpoint.
type GroupResponse struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	Participants   []ParticipantStatus `json:"participants"`
	ConfirmedCount int                 `json:"confirmed_count"`
	Total          int                 `json:"total"`
	Drawn          bool                `json:"drawn"`
	CreatedAt      int64               `json:"created_at"`
}

// CreateGroupResponse is returned on group creation. The admin token
// authorizes the draw and delete endpoints; the share path is what the
// creator sends to participants.
type CreateGroupResponse struct {
	Group      GroupResponse `json:"group"`
	AdminToken string        `json:"admin_token"`
	SharePath  string        `json:"share_path"`
}

// ConfirmRequest is the body of POST /api/groups/{groupID}/confirm.
type ConfirmRequest struct {
	Participant string `json:"participant" validate:"required"`
	Password    string `json:"password" validate:"required"`
}

// RevealRequest is the body of POST /api/groups/{groupID}/reveal.
type RevealRequest struct {
	Participant string `json:"participant" validate:"required"`
	Password    string `json:"password" validate:"required"`
}

// RevealResponse carries a participant's assigned secret friend.
type RevealResponse struct {
	SecretFriend string `json:"secret_friend"`
}

func toGroupResponse(group *models.Group) GroupResponse {
	participants := make([]ParticipantStatus, len(group.Participants))
	for i, name := range group.Participants {
		participants[i] = ParticipantStatus{
			Name:      name,
			Confirmed: group.Confirmed(name),
		}
	}
	return GroupResponse{
		ID:             group.ID,
		Name:           group.Name,
		Participants:   participants,
		ConfirmedCount: group.ConfirmedCount(),
		Total:          len(group.Participants),
		Drawn:          group.Drawn,
		CreatedAt:      group.CreatedAt,
	}
}
