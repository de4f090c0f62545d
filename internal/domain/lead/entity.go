package lead

import "time"

// Status is the lifecycle state of a lead. Transitions are driven by
// admins; the store accepts any value from an authenticated caller.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusConverted Status = "converted"
	StatusArchived  Status = "archived"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusConverted, StatusArchived:
		return true
	}
	return false
}

// Source records where a lead was captured.
type Source string

const (
	SourceChatbot            Source = "chatbot"
	SourceContactForm        Source = "contact_form"
	SourceNewsletter         Source = "newsletter"
	SourceGuestPopup         Source = "guest_popup"
	SourceManual             Source = "manual"
	SourceLandingYouTube     Source = "landing_youtube"
	SourceLandingInstagram   Source = "landing_instagram"
	SourceLandingSocial      Source = "landing_social"
	SourceYouTubeDescription Source = "youtube_description"
	SourceInstagramBio       Source = "instagram_bio"
	SourcePaidSocial         Source = "paid_social"
	SourceEbook              Source = "ebook"
)

// Sources lists every source in display order.
func Sources() []Source {
	return []Source{
		SourceChatbot, SourceContactForm, SourceNewsletter, SourceGuestPopup,
		SourceManual, SourceLandingYouTube, SourceLandingInstagram, SourceLandingSocial,
		SourceYouTubeDescription, SourceInstagramBio, SourcePaidSocial, SourceEbook,
	}
}

func (s Source) Valid() bool {
	for _, known := range Sources() {
		if s == known {
			return true
		}
	}
	return false
}

// Lead is a captured contact intent.
type Lead struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	Interest    string    `json:"interest"`
	Source      Source    `json:"source"`
	Notes       string    `json:"notes,omitempty"`
	Tags        []string  `json:"tags"`
	Status      Status    `json:"status"`
	UserID      string    `json:"userId,omitempty"`
	Campaign    string    `json:"campaign,omitempty"`
	Date        time.Time `json:"date"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Input is what a visitor-facing surface submits to create a lead.
type Input struct {
	Name     string
	Email    string
	Phone    string
	Interest string
	Source   Source
	Notes    string
	Campaign string
	Tags     []string
}

// Patch holds the admin-editable fields; nil fields are left untouched.
type Patch struct {
	Name     *string
	Email    *string
	Phone    *string
	Interest *string
	Notes    *string
	Campaign *string
	Status   *Status
	Tags     *[]string
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil && p.Interest == nil &&
		p.Notes == nil && p.Campaign == nil && p.Status == nil && p.Tags == nil
}

// apply copies the patch onto l and stamps LastUpdated.
func (p Patch) apply(l *Lead, now time.Time) {
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Email != nil {
		l.Email = *p.Email
	}
	if p.Phone != nil {
		l.Phone = *p.Phone
	}
	if p.Interest != nil {
		l.Interest = *p.Interest
	}
	if p.Notes != nil {
		l.Notes = *p.Notes
	}
	if p.Campaign != nil {
		l.Campaign = *p.Campaign
	}
	if p.Status != nil {
		l.Status = *p.Status
	}
	if p.Tags != nil {
		l.Tags = append([]string{}, (*p.Tags)...)
	}
	l.LastUpdated = now
}
