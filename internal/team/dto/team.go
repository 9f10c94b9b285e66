package dto

type CreateTeamRequest struct {
	Name string `json:"name" binding:"required,max=20"`
}

type InviteRequest struct {
	Target string `json:"target" binding:"required"`
	Team   string `json:"team" binding:"required"`
}
