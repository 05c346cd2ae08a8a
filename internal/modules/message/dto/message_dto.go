package dto

type SendMessageInput struct {
	ReceiverID uint   `json:"receiver_id" binding:"required"`
	Message    string `json:"message" binding:"required,max=2000"`
}
