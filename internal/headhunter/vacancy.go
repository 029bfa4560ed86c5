package headhunter

type Vacancies struct {
	Items []*Vacancy
}

// Vacancy is the raw listing shape returned by the vacancies endpoint. Only
// the fields the collector cares about are mapped; everything else in the
// payload is dropped on decode.
type Vacancy struct {
	ID           string    `json:"id,omitempty"`
	Name         string    `json:"name,omitempty"`
	Area         *Area     `json:"area,omitempty"`
	Salary       *Salary   `json:"salary,omitempty"`
	Employer     *Employer `json:"employer,omitempty"`
	Snippet      *Snippet  `json:"snippet,omitempty"`
	AlternateURL string    `json:"alternate_url,omitempty"`
	PublishedAt  string    `json:"published_at,omitempty"`
}

type Area struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// Salary bounds are independently optional: either one or both may be
// missing from a listing.
type Salary struct {
	From     *float64 `json:"from,omitempty"`
	To       *float64 `json:"to,omitempty"`
	Currency string   `json:"currency,omitempty"`
	Gross    bool     `json:"gross,omitempty"`
}

type Employer struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name,omitempty"`
	URL          string `json:"url,omitempty"`
	AlternateURL string `json:"alternate_url,omitempty"`
	Trusted      bool   `json:"trusted,omitempty"`
}

type Snippet struct {
	Requirement    string `json:"requirement,omitempty"`
	Responsibility string `json:"responsibility,omitempty"`
}

func (v *Vacancies) Len() int {
	return len(v.Items)
}
