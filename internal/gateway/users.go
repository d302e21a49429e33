package gateway

import (
	"context"
	"errors"
	"net/url"

	"github.com/arefin/qoverflow/internal/apperror"
	"github.com/arefin/qoverflow/internal/model"
)

// Login checks credentials against the upstream. The endpoint answers with a
// bare boolean; a structured 403 (account banned and the like) surfaces as an
// ErrForbidden AppError carrying the upstream message and reason.
func (c *Client) Login(ctx context.Context, username, password string) (bool, error) {
	body := map[string]string{"username": username, "password": password}
	var ok bool
	if err := c.send(ctx, "POST", "/users/login", body, &ok); err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && errors.Is(err, apperror.ErrForbidden) {
			// Login denials are a distinct case: message and reason must
			// reach the user verbatim.
			return false, apperror.AuthDenied(appErr.Message, appErr.Reason)
		}
		return false, err
	}
	return ok, nil
}

// Register creates an account and returns the new identity, normalized.
func (c *Client) Register(ctx context.Context, username, email, password, phoneNumber string) (*model.User, error) {
	body := map[string]string{
		"username":    username,
		"email":       email,
		"password":    password,
		"phoneNumber": phoneNumber,
	}
	var user model.User
	if err := c.send(ctx, "POST", "/users/create", body, &user); err != nil {
		return nil, err
	}
	user.Normalize()
	return &user, nil
}

// UserByID fetches one user.
func (c *Client) UserByID(ctx context.Context, id string) (*model.User, error) {
	if err := validateID("user ID", id); err != nil {
		return nil, err
	}
	var user model.User
	if err := c.get(ctx, "/users/id/"+url.PathEscape(id), &user); err != nil {
		return nil, err
	}
	user.Normalize()
	return &user, nil
}

// UserByUsername fetches one user by username.
func (c *Client) UserByUsername(ctx context.Context, username string) (*model.User, error) {
	if err := validateID("username", username); err != nil {
		return nil, err
	}
	var user model.User
	if err := c.get(ctx, "/users/username/"+url.PathEscape(username), &user); err != nil {
		return nil, err
	}
	user.Normalize()
	return &user, nil
}

// AllUsers lists every user.
func (c *Client) AllUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := c.get(ctx, "/users/all", &users); err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Normalize()
	}
	return users, nil
}

// SearchUsers searches users by keyword. The keyword is percent-encoded into
// the query string.
func (c *Client) SearchUsers(ctx context.Context, keyword string) ([]model.User, error) {
	if err := validateKeyword(keyword); err != nil {
		return nil, err
	}
	var users []model.User
	if err := c.get(ctx, "/users/search?keyword="+url.QueryEscape(keyword), &users); err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Normalize()
	}
	return users, nil
}

// UpdateUser performs a full-replace profile update and returns the stored
// identity.
func (c *Client) UpdateUser(ctx context.Context, id string, user model.User) (*model.User, error) {
	if err := validateID("user ID", id); err != nil {
		return nil, err
	}
	var updated model.User
	if err := c.send(ctx, "PUT", "/users/"+url.PathEscape(id), user, &updated); err != nil {
		return nil, err
	}
	updated.Normalize()
	return &updated, nil
}

// ChangePassword asks the upstream to replace the user's password after
// checking the current one.
func (c *Client) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return apperror.InvalidArgument("password", "Both current and new passwords are required")
	}
	if err := validateID("user ID", id); err != nil {
		return err
	}
	body := map[string]string{
		"currentPassword": currentPassword,
		"newPassword":     newPassword,
	}
	return c.send(ctx, "POST", "/users/"+url.PathEscape(id)+"/changePassword", body, nil)
}
