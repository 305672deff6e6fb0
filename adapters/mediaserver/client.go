// Package mediaserver reads and writes songs through the REST API of a
// personal media server. The server owns persistence; the writer posts
// one record per song and the server upserts by title and artist.
package mediaserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const songsEndpoint = "/api/songs"

// serverSong is the wire shape the server speaks.
type serverSong struct {
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	Path      string `json:"path"`
	Genre     string `json:"genre,omitempty"`
	BPM       int    `json:"bpm,omitempty"`
	Rating    int    `json:"rating,omitempty"`
	PlayCount int    `json:"play_count,omitempty"`
	Year      int    `json:"year,omitempty"`
	AddedAt   string `json:"added_at,omitempty"`
}

type songsResponse struct {
	Success bool         `json:"success"`
	Data    []serverSong `json:"data"`
	Error   string       `json:"error,omitempty"`
}

type writeResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Client is a thin HTTP client for the media server API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an API client for the server at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Songs fetches the full song listing.
func (c *Client) Songs() ([]serverSong, error) {
	resp, err := c.httpClient.Get(c.baseURL + songsEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to get songs: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	var body songsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode songs response: %w", err)
	}
	if !body.Success {
		return nil, fmt.Errorf("server error: %s", body.Error)
	}
	return body.Data, nil
}

// PutSong sends one song to the server. The server upserts by title and
// artist, so repeated puts of the same track are safe.
func (c *Client) PutSong(s serverSong) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode song: %w", err)
	}

	resp, err := c.httpClient.Post(c.baseURL+songsEndpoint, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to put song: %w", err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	var body writeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("failed to decode write response: %w", err)
	}
	if !body.Success {
		return fmt.Errorf("server error: %s", body.Error)
	}
	return nil
}
