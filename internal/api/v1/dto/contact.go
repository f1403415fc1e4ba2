package dto

// ContactRequestDTO is a contact-form submission.
type ContactRequestDTO struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,min=10,max=2000"`
}

// ContactResponseDTO acknowledges a stored and relayed message.
type ContactResponseDTO struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}
