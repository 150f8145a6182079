package commands

import (
	"Testify/internal/cli/api"
	"Testify/internal/config"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"text/tabwriter"
	"time"
)

type spaceView struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	CustomMessage    string            `json:"customMessage"`
	Logo             *string           `json:"logo"`
	UnpublishedCount int               `json:"unpublishedCount"`
	CollectorURL     string            `json:"collectorUrl"`
	WallURL          string            `json:"wallUrl"`
	Testimonials     []testimonialView `json:"testimonials"`
	CreatedAt        time.Time         `json:"createdAt"`
}

type testimonialView struct {
	ID          string    `json:"id"`
	AuthorName  string    `json:"authorName"`
	Text        string    `json:"text"`
	SocialURL   string    `json:"socialUrl"`
	IsPublished bool      `json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
}

type spacesCmd struct{}

func (spacesCmd) Name() string        { return "spaces" }
func (spacesCmd) Description() string { return "List your spaces with pending testimonials" }
func (spacesCmd) Usage() string       { return "spaces" }

func (spacesCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	token, err := loadToken(cfg)
	if err != nil {
		return err
	}
	resp, body, err := api.GetJSON(ctx, endpoint(cfg, "/api/spaces"), token)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return api.ServerError(resp, body)
	}
	var list struct {
		Spaces []spaceView `json:"spaces"`
	}
	if err := json.Unmarshal(body, &list); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if len(list.Spaces) == 0 {
		fmt.Fprintln(Out, "No spaces yet")
		return nil
	}

	tw := tabwriter.NewWriter(Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTOTAL\tPENDING\tCOLLECTOR")
	for _, s := range list.Spaces {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", s.ID, s.Name, len(s.Testimonials), s.UnpublishedCount, s.CollectorURL)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, s := range list.Spaces {
		for _, t := range s.Testimonials {
			if !t.IsPublished {
				fmt.Fprintf(Out, "pending %s [%s] %s: %q\n", t.ID, s.Name, t.AuthorName, t.Text)
			}
		}
	}
	return nil
}

type spaceCreateCmd struct{}

func (spaceCreateCmd) Name() string        { return "space-create" }
func (spaceCreateCmd) Description() string { return "Create a space" }
func (spaceCreateCmd) Usage() string       { return "space-create <name> <message> [logoUrl]" }

func (spaceCreateCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return ErrUsage
	}
	token, err := loadToken(cfg)
	if err != nil {
		return err
	}
	payload := map[string]any{"name": args[0], "customMessage": args[1]}
	if len(args) == 3 {
		payload["logo"] = args[2]
	}
	resp, body, err := api.PostJSON(ctx, endpoint(cfg, "/api/spaces"), payload, token)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusCreated {
		return api.ServerError(resp, body)
	}
	var s spaceView
	if err := json.Unmarshal(body, &s); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	fmt.Fprintf(Out, "Space created: %s\nCollector: %s\nWall: %s\n", s.ID, s.CollectorURL, s.WallURL)
	return nil
}

type spaceEditCmd struct{}

func (spaceEditCmd) Name() string        { return "space-edit" }
func (spaceEditCmd) Description() string { return "Rename a space or change its message and logo" }
func (spaceEditCmd) Usage() string       { return "space-edit <spaceId> <name> <message> [logoUrl]" }

// Run заменяет все поля пространства; logo без аргумента сбрасывается
func (spaceEditCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 3 || len(args) > 4 {
		return ErrUsage
	}
	token, err := loadToken(cfg)
	if err != nil {
		return err
	}
	payload := map[string]any{"name": args[1], "customMessage": args[2]}
	if len(args) == 4 {
		payload["logo"] = args[3]
	}
	resp, body, err := api.Do(ctx, http.MethodPut, endpoint(cfg, "/api/spaces/"+url.PathEscape(args[0])), payload, token)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return api.ServerError(resp, body)
	}
	var s spaceView
	if err := json.Unmarshal(body, &s); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	fmt.Fprintf(Out, "Space updated: %s (%s)\n", s.ID, s.Name)
	return nil
}

type spaceDeleteCmd struct{}

func (spaceDeleteCmd) Name() string        { return "space-delete" }
func (spaceDeleteCmd) Description() string { return "Delete a space with all its testimonials" }
func (spaceDeleteCmd) Usage() string       { return "space-delete <spaceId>" }

func (spaceDeleteCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	token, err := loadToken(cfg)
	if err != nil {
		return err
	}
	resp, body, err := api.Do(ctx, http.MethodDelete, endpoint(cfg, "/api/spaces/"+url.PathEscape(args[0])), nil, token)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusNoContent {
		return api.ServerError(resp, body)
	}
	fmt.Fprintln(Out, "Space deleted")
	return nil
}

type publishCmd struct{}

func (publishCmd) Name() string        { return "publish" }
func (publishCmd) Description() string { return "Publish a testimonial to the wall" }
func (publishCmd) Usage() string       { return "publish <testimonialId>" }

func (publishCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	token, err := loadToken(cfg)
	if err != nil {
		return err
	}
	path := "/api/testimonials/" + url.PathEscape(strings.TrimSpace(args[0])) + "/publish"
	resp, body, err := api.PostJSON(ctx, endpoint(cfg, path), nil, token)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return api.ServerError(resp, body)
	}
	fmt.Fprintln(Out, "Published", args[0])
	return nil
}

func init() {
	RegisterCmd(spacesCmd{})
	RegisterCmd(spaceCreateCmd{})
	RegisterCmd(spaceEditCmd{})
	RegisterCmd(spaceDeleteCmd{})
	RegisterCmd(publishCmd{})
}
