package domain

import "time"

type Guest struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	Nationality string    `json:"nationality"`
	CountryFlag string    `json:"country_flag"`
	NationalID  string    `json:"national_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Session identifies an authenticated guest for the duration of a request.
// It is passed explicitly into every operation; there is no ambient lookup.
type Session struct {
	GuestID int64  `json:"guest_id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

// SignInReq is the payload delivered by the OAuth callback: the identity
// provider is a black box that yields a verified email and display name.
type SignInReq struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required"`
}

func (r *SignInReq) Validate() error {
	return validateStruct(r)
}

// UpdateProfileReq carries the guest-editable profile fields.
type UpdateProfileReq struct {
	Nationality string `json:"nationality" validate:"required"`
	CountryFlag string `json:"country_flag"`
	NationalID  string `json:"national_id" validate:"required,alphanum,min=6,max=12"`
}

func (r *UpdateProfileReq) Validate() error {
	return validateStruct(r)
}

// SessionResponse is returned by the sign-in endpoints.
type SessionResponse struct {
	SessionToken string `json:"session_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// AccessCode is a pending one-time email sign-in code.
type AccessCode struct {
	ID         int64
	Email      string
	CodeHash   string
	MagicToken string
	ExpiresAt  time.Time
	UsedAt     *time.Time
	CreatedAt  time.Time
}
