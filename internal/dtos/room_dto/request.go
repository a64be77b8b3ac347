package room_dto

type CreateRoomRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=500"`
}

type UpdateRoomRequest struct {
	Description string `json:"description" validate:"max=500"`
}
