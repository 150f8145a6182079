package commands

import (
	"Testify/internal/cli/api"
	"Testify/internal/config"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

type credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type statusResponse struct {
	Result string `json:"result"`
}

// authenticate общий для login и register: POST и сохранение cookie
func authenticate(ctx context.Context, cfg *config.Config, path, login, password string) (*http.Response, []byte, error) {
	resp, body, err := api.PostJSON(ctx, endpoint(cfg, path), credentials{Login: login, Password: password}, "")
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return resp, body, nil
	}
	store := tokenStore(cfg)
	if err := api.PersistAuthFromResponse(resp, store); err != nil {
		return nil, nil, fmt.Errorf("saving auth: %w", err)
	}
	_ = store.SaveLastLogin(login)
	return resp, body, nil
}

type registerCmd struct{}

func (registerCmd) Name() string        { return "register" }
func (registerCmd) Description() string { return "Create an account and store auth cookie" }
func (registerCmd) Usage() string       { return "register <login> <password>" }

func (registerCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	resp, body, err := authenticate(ctx, cfg, "/api/user/register", args[0], args[1])
	if err != nil {
		return err
	}
	switch resp.StatusCode {
	case http.StatusOK:
		fmt.Fprintln(Out, "Registered and logged in as", args[0])
		return nil
	case http.StatusConflict:
		return errors.New("login already in use")
	default:
		return api.ServerError(resp, body)
	}
}

type loginCmd struct{}

func (loginCmd) Name() string        { return "login" }
func (loginCmd) Description() string { return "Login and store auth cookie" }
func (loginCmd) Usage() string       { return "login <login> <password>" }

func (loginCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	resp, body, err := authenticate(ctx, cfg, "/api/user/login", args[0], args[1])
	if err != nil {
		return err
	}
	switch resp.StatusCode {
	case http.StatusOK:
		fmt.Fprintln(Out, "Logged in successfully")
		return nil
	case http.StatusUnauthorized:
		return errors.New("invalid login or password")
	default:
		return api.ServerError(resp, body)
	}
}

type logoutCmd struct{}

func (logoutCmd) Name() string        { return "logout" }
func (logoutCmd) Description() string { return "Forget stored auth cookie" }
func (logoutCmd) Usage() string       { return "logout" }

func (logoutCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	store := tokenStore(cfg)
	if token, err := store.Load(); err == nil {
		// серверный logout лишь чистит cookie, сбой сети не мешает локальному выходу
		_, _, _ = api.PostJSON(ctx, endpoint(cfg, "/api/user/logout"), nil, token)
	}
	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Logged out")
	return nil
}

type statusCmd struct{}

func (statusCmd) Name() string        { return "status" }
func (statusCmd) Description() string { return "Show who the server thinks you are" }
func (statusCmd) Usage() string       { return "status" }

func (statusCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	store := tokenStore(cfg)
	token, _ := store.Load()
	resp, body, err := api.GetJSON(ctx, endpoint(cfg, "/api/user/me"), token)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return api.ServerError(resp, body)
	}
	var sr statusResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if login, err := store.LoadLastLogin(); err == nil && sr.Result != "anonymous" {
		fmt.Fprintf(Out, "Status: %s (%s)\n", sr.Result, login)
		return nil
	}
	fmt.Fprintln(Out, "Status:", sr.Result)
	return nil
}

func init() {
	RegisterCmd(registerCmd{})
	RegisterCmd(loginCmd{})
	RegisterCmd(logoutCmd{})
	RegisterCmd(statusCmd{})
}
