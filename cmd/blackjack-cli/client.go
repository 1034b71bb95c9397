package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// apiClient is a thin JSON client for the blackjack API.
type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// apiError mirrors the server's error envelope.
type apiError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (c *apiClient) do(method, path string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	req, err := http.NewRequest(method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Code == "" {
			return fmt.Errorf("request failed with status %d", resp.StatusCode)
		}
		return &apiErr
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *apiClient) register(email, password string) error {
	return c.do(http.MethodPost, "/api/v1/auth/register",
		map[string]string{"email": email, "password": password}, nil)
}

func (c *apiClient) login(email, password string) error {
	var out struct {
		Token string `json:"token"`
	}
	err := c.do(http.MethodPost, "/api/v1/auth/login",
		map[string]string{"email": email, "password": password}, &out)
	if err != nil {
		return err
	}
	c.token = out.Token
	return nil
}

type openGame struct {
	ID                   uuid.UUID `json:"id"`
	CreatorEmail         string    `json:"creator_email"`
	EnrolledCount        int       `json:"enrolled_count"`
	MaxPlayers           int       `json:"max_players"`
	TimeRemainingSeconds int64     `json:"time_remaining_seconds"`
}

func (c *apiClient) openGames() ([]openGame, error) {
	var out struct {
		Games []openGame `json:"games"`
	}
	if err := c.do(http.MethodGet, "/api/v1/games/open", nil, &out); err != nil {
		return nil, err
	}
	return out.Games, nil
}

func (c *apiClient) createGame(timeoutSeconds int64) (uuid.UUID, error) {
	var out struct {
		ID uuid.UUID `json:"id"`
	}
	body := map[string]int64{"enrollment_timeout_seconds": timeoutSeconds}
	if err := c.do(http.MethodPost, "/api/v1/games/", body, &out); err != nil {
		return uuid.Nil, err
	}
	return out.ID, nil
}

func (c *apiClient) enroll(gameID uuid.UUID) error {
	return c.do(http.MethodPost, "/api/v1/games/"+gameID.String()+"/enroll", nil, nil)
}

func (c *apiClient) closeEnrollment(gameID uuid.UUID) ([]string, error) {
	var out struct {
		TurnOrder []string `json:"turn_order"`
	}
	if err := c.do(http.MethodPost, "/api/v1/games/"+gameID.String()+"/close", nil, &out); err != nil {
		return nil, err
	}
	return out.TurnOrder, nil
}

type card struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Value int       `json:"value"`
	Suit  string    `json:"suit"`
}

type drawResult struct {
	Card          card   `json:"card"`
	CurrentPoints int    `json:"current_points"`
	Busted        bool   `json:"busted"`
	CardsHistory  []card `json:"cards_history"`
	GameFinished  bool   `json:"game_finished"`
}

func (c *apiClient) draw(gameID uuid.UUID) (*drawResult, error) {
	var out drawResult
	if err := c.do(http.MethodPost, "/api/v1/games/"+gameID.String()+"/draw", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type gameState struct {
	Phase         string `json:"phase"`
	Finished      bool   `json:"finished"`
	CurrentPlayer string `json:"current_player"`
	Players       map[string]struct {
		Points int    `json:"points"`
		State  string `json:"state"`
		Busted bool   `json:"busted"`
	} `json:"players"`
}

func (c *apiClient) stand(gameID uuid.UUID) (*gameState, error) {
	var out gameState
	if err := c.do(http.MethodPost, "/api/v1/games/"+gameID.String()+"/stand", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) state(gameID uuid.UUID) (*gameState, error) {
	var out gameState
	if err := c.do(http.MethodGet, "/api/v1/games/"+gameID.String()+"/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) setAce(gameID, cardID uuid.UUID, asEleven bool) error {
	body := map[string]any{"card_id": cardID, "as_eleven": asEleven}
	return c.do(http.MethodPost, "/api/v1/games/"+gameID.String()+"/ace", body, nil)
}

type gameResults struct {
	Winner        string   `json:"winner"`
	TiedPlayers   []string `json:"tied_players"`
	HighestScore  int      `json:"highest_score"`
	DealerPoints  int      `json:"dealer_points"`
	DealerBusted  bool     `json:"dealer_busted"`
	PlayerResults map[string]struct {
		Points  int    `json:"points"`
		Busted  bool   `json:"busted"`
		Outcome string `json:"outcome"`
	} `json:"player_results"`
}

func (c *apiClient) results(gameID uuid.UUID) (*gameResults, error) {
	var out gameResults
	if err := c.do(http.MethodGet, "/api/v1/games/"+gameID.String()+"/results", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) finish(gameID uuid.UUID) (*gameResults, error) {
	var out gameResults
	if err := c.do(http.MethodPost, "/api/v1/games/"+gameID.String()+"/finish", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type invitation struct {
	ID           uuid.UUID `json:"id"`
	GameID       uuid.UUID `json:"game_id"`
	InviteeEmail string    `json:"invitee_email"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func (c *apiClient) pendingInvitations() ([]invitation, error) {
	var out struct {
		Invitations []invitation `json:"invitations"`
	}
	if err := c.do(http.MethodGet, "/api/v1/invitations/pending", nil, &out); err != nil {
		return nil, err
	}
	return out.Invitations, nil
}

func (c *apiClient) invite(gameID uuid.UUID, email string) error {
	body := map[string]any{"game_id": gameID, "invitee_email": email}
	return c.do(http.MethodPost, "/api/v1/invitations/", body, nil)
}

func (c *apiClient) acceptInvitation(id uuid.UUID) error {
	return c.do(http.MethodPost, "/api/v1/invitations/"+id.String()+"/accept", nil, nil)
}
