package commands

import (
	"Testify/internal/cli/api"
	"Testify/internal/config"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

type wallCmd struct{}

func (wallCmd) Name() string        { return "wall" }
func (wallCmd) Description() string { return "Show published testimonials of a space" }
func (wallCmd) Usage() string       { return "wall <spaceId>" }

func (wallCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	resp, body, err := api.GetJSON(ctx, endpoint(cfg, "/api/spaces/"+url.PathEscape(args[0])+"/wall"), "")
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return api.ServerError(resp, body)
	}
	var wall struct {
		Name         string            `json:"name"`
		Testimonials []testimonialView `json:"testimonials"`
	}
	if err := json.Unmarshal(body, &wall); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	fmt.Fprintf(Out, "%s\n", wall.Name)
	if len(wall.Testimonials) == 0 {
		fmt.Fprintln(Out, "No testimonials published yet.")
		return nil
	}
	for _, t := range wall.Testimonials {
		fmt.Fprintf(Out, "- %s: %q\n", t.AuthorName, t.Text)
	}
	return nil
}

type submitCmd struct{}

func (submitCmd) Name() string        { return "submit" }
func (submitCmd) Description() string { return "Leave a testimonial in a space (no login needed)" }
func (submitCmd) Usage() string       { return "submit <spaceId> <author> <text> [socialUrl]" }

func (submitCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 3 || len(args) > 4 {
		return ErrUsage
	}
	payload := map[string]any{"authorName": args[1], "text": args[2]}
	if len(args) == 4 {
		payload["socialUrl"] = args[3]
	}
	resp, body, err := api.PostJSON(ctx, endpoint(cfg, "/api/testimonials/"+url.PathEscape(args[0])), payload, "")
	if err != nil {
		return err
	}
	switch resp.StatusCode {
	case http.StatusCreated:
		fmt.Fprintln(Out, "Thank you! Your testimonial awaits moderation.")
		return nil
	case http.StatusTooManyRequests:
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			return fmt.Errorf("too many submissions, retry in %ss", ra)
		}
		return errors.New("too many submissions, try again later")
	default:
		return api.ServerError(resp, body)
	}
}

func init() {
	RegisterCmd(wallCmd{})
	RegisterCmd(submitCmd{})
}
