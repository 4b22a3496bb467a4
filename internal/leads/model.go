package leads

import "time"

// Status tracks how far an application has moved through admin follow-up.
type Status string

const (
	StatusNew        Status = "new"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// ValidStatus reports whether s is one of the known statuses.
func ValidStatus(s Status) bool {
	switch s {
	case StatusNew, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Application represents a contact-form submission from the site.
// Rows are insert-only from the public API; only admin actions change status.
type Application struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	Message   string    `json:"message"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateApplicationRequest is the draft submitted by the contact form.
type CreateApplicationRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// ListFilter narrows admin application listings.
type ListFilter struct {
	Status Status
	Limit  int
	Offset int
}
