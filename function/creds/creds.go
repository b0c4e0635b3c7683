package creds

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/go-playground/validator/v10"
)

// Creds holds every credential key a platform may need. Which fields are
// mandatory depends on the auth flow, see the Validate* methods.
type Creds struct {
	Email     string `json:"email" validate:"required"`
	Password  string `json:"password" validate:"required"`
	Username  string `json:"username" validate:"required"`
	Token     string `json:"token" validate:"required"`
	Provider  string `json:"provider" validate:"required"`
	TeamToken string `json:"team_token" validate:"required"`
	Url       string `json:"url" validate:"required,url"`
}

// Cookies is a flat cookie name -> value mapping.
type Cookies map[string]string

var validate = validator.New()

func (c *Creds) validateFields(flow string, fields ...string) error {
	if c == nil {
		return fmt.Errorf("%s: no credentials provided", flow)
	}
	if err := validate.StructPartial(c, fields...); err != nil {
		return fmt.Errorf("%s: %w", flow, err)
	}
	return nil
}

// ValidateFormLogin checks the keys used by email/password form logins.
func (c *Creds) ValidateFormLogin() error {
	return c.validateFields("form login", "Email", "Password")
}

// ValidateToken checks the keys used by token exchange logins.
func (c *Creds) ValidateToken() error {
	return c.validateFields("token login", "Token", "Provider")
}

// ValidateUsernameLogin checks the keys used by CTFd style logins.
func (c *Creds) ValidateUsernameLogin() error {
	return c.validateFields("username login", "Username", "Password")
}

func (c *Creds) ValidateTeamToken() error {
	return c.validateFields("team token login", "TeamToken")
}

// HTTPCookies converts the mapping to cookies, sorted by name.
func (c Cookies) HTTPCookies() []*http.Cookie {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)

	cookies := make([]*http.Cookie, 0, len(names))
	for _, name := range names {
		cookies = append(cookies, &http.Cookie{Name: name, Value: c[name]})
	}
	return cookies
}
