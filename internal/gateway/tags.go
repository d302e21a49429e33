package gateway

import (
	"context"
	"net/url"
	"strings"

	"github.com/arefin/qoverflow/internal/apperror"
	"github.com/arefin/qoverflow/internal/model"
)

// The tag resource lives under the singular /tag path upstream.

// AllTags lists every tag.
func (c *Client) AllTags(ctx context.Context) ([]model.Tag, error) {
	var tags []model.Tag
	if err := c.get(ctx, "/tag/all", &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// TagByID fetches one tag.
func (c *Client) TagByID(ctx context.Context, id string) (*model.Tag, error) {
	if err := validateID("tag ID", id); err != nil {
		return nil, err
	}
	var t model.Tag
	if err := c.get(ctx, "/tag/id/"+url.PathEscape(id), &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// TagByName fetches one tag by name.
func (c *Client) TagByName(ctx context.Context, name string) (*model.Tag, error) {
	if err := validateID("tag name", name); err != nil {
		return nil, err
	}
	var t model.Tag
	if err := c.get(ctx, "/tag/name/"+url.PathEscape(name), &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTag creates a tag.
func (c *Client) CreateTag(ctx context.Context, name string) (*model.Tag, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperror.InvalidArgument("name", "Tag name is required")
	}
	var t model.Tag
	if err := c.send(ctx, "POST", "/tag/create", map[string]string{"name": name}, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTag renames a tag.
func (c *Client) UpdateTag(ctx context.Context, id, name string) (*model.Tag, error) {
	if err := validateID("tag ID", id); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, apperror.InvalidArgument("name", "Tag name is required")
	}
	var t model.Tag
	if err := c.send(ctx, "PUT", "/tag/update/"+url.PathEscape(id), map[string]string{"name": name}, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// DeleteTag removes a tag.
func (c *Client) DeleteTag(ctx context.Context, id string) error {
	if err := validateID("tag ID", id); err != nil {
		return err
	}
	return c.send(ctx, "DELETE", "/tag/delete/"+url.PathEscape(id), nil, nil)
}
