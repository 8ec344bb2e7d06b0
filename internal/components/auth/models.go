package auth

type (
	// Credential is the email/password pair submitted to /register and /login.
	Credential struct {
		Email    string
		Password string
	}

	// User is a stored credential row
	User struct {
		Email        string `json:"email"`
		PasswordHash string `json:"-"` // Never serialize password hash
	}

	Response struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Email   string `json:"email,omitempty"`
		Token   string `json:"token,omitempty"`
	}
)

const (
	fieldEmail    = "email"
	fieldPassword = "password"

	statusSuccess = "success"
	statusError   = "error"
)
