package lead

// ContactFormRequest is the body of the public contact form.
type ContactFormRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"omitempty,max=40"`
	Message string `json:"message" validate:"required,max=5000"`
}

func (r ContactFormRequest) Input() Input {
	return Input{
		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		Interest: r.Message,
		Source:   SourceContactForm,
		Tags:     []string{"Web Inquiry"},
	}
}

// SubmitLeadRequest is posted by landing pages, the newsletter box and the
// guest popup.
type SubmitLeadRequest struct {
	Name     string   `json:"name" validate:"required,max=200"`
	Email    string   `json:"email" validate:"required,email"`
	Phone    string   `json:"phone" validate:"omitempty,max=40"`
	Interest string   `json:"interest" validate:"required,max=2000"`
	Source   Source   `json:"source" validate:"required"`
	Campaign string   `json:"campaign" validate:"omitempty,max=200"`
	Tags     []string `json:"tags" validate:"omitempty,max=20,dive,max=60"`
}

func (r SubmitLeadRequest) Input() Input {
	return Input{
		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		Interest: r.Interest,
		Source:   r.Source,
		Campaign: r.Campaign,
		Tags:     r.Tags,
	}
}

// AdminCreateRequest is a lead typed in by an admin.
type AdminCreateRequest struct {
	Name     string   `json:"name" validate:"required,max=200"`
	Email    string   `json:"email" validate:"required,email"`
	Phone    string   `json:"phone" validate:"omitempty,max=40"`
	Interest string   `json:"interest" validate:"required,max=2000"`
	Notes    string   `json:"notes" validate:"omitempty,max=5000"`
	Campaign string   `json:"campaign" validate:"omitempty,max=200"`
	Tags     []string `json:"tags" validate:"omitempty,max=20,dive,max=60"`
}

func (r AdminCreateRequest) Input() Input {
	return Input{
		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		Interest: r.Interest,
		Source:   SourceManual,
		Notes:    r.Notes,
		Campaign: r.Campaign,
		Tags:     r.Tags,
	}
}

type UpdateLeadRequest struct {
	Name     *string   `json:"name" validate:"omitempty,min=1,max=200"`
	Email    *string   `json:"email" validate:"omitempty,email"`
	Phone    *string   `json:"phone" validate:"omitempty,max=40"`
	Interest *string   `json:"interest" validate:"omitempty,min=1,max=2000"`
	Notes    *string   `json:"notes" validate:"omitempty,max=5000"`
	Campaign *string   `json:"campaign" validate:"omitempty,max=200"`
	Status   *Status   `json:"status" validate:"omitempty,oneof=new contacted converted archived"`
	Tags     *[]string `json:"tags" validate:"omitempty,max=20,dive,max=60"`
}

func (r UpdateLeadRequest) Patch() Patch {
	return Patch{
		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		Interest: r.Interest,
		Notes:    r.Notes,
		Campaign: r.Campaign,
		Status:   r.Status,
		Tags:     r.Tags,
	}
}

type LinkUserRequest struct {
	UserID string `json:"userId" validate:"required,max=100"`
}
