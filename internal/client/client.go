// Package client is a Go client for the campus events API. It keeps only
// transient, reconstructible state: the logged-in user, the last event list,
// and the set of event ids the user is registered for. Everything
// authoritative lives on the server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"campusconnect/internal/domain"
)

// User is the account identity returned by the login endpoint.
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// EventUpdate carries the fields to change on an event. Nil pointers are
// omitted from the request and keep their stored values. Setting Slides or
// Recording to an empty string removes that material.
type EventUpdate struct {
	Title         *string `json:"title,omitempty"`
	Description   *string `json:"description,omitempty"`
	Date          *string `json:"date,omitempty"`
	Location      *string `json:"location,omitempty"`
	Slides        *string `json:"slides,omitempty"`
	SlidesData    *string `json:"slides_data,omitempty"`
	SlidesType    *string `json:"slides_type,omitempty"`
	Recording     *string `json:"recording,omitempty"`
	RecordingData *string `json:"recording_data,omitempty"`
	RecordingType *string `json:"recording_type,omitempty"`
}

// APIError is a non-2xx response decoded into the server's error shape.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client talks to one campus events server. Safe for concurrent use.
type Client struct {
	baseURL string
	httpc   *http.Client

	mu          sync.Mutex
	currentUser *User
	token       string
	events      []*domain.EventWithCount
	registered  map[int64]struct{}
}

// New creates a Client for the server at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpc:      &http.Client{Timeout: 30 * time.Second},
		registered: make(map[int64]struct{}),
	}
}

// Login authenticates and checks that the account's role matches the role
// the caller intended to log in as. On a mismatch the session is not kept
// even though the credentials were valid.
func (c *Client) Login(ctx context.Context, email, password, role string) (*User, error) {
	var resp struct {
		Success bool   `json:"success"`
		User    User   `json:"user"`
		Token   string `json:"token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/login", body, &resp); err != nil {
		return nil, err
	}
	if resp.User.Role != role {
		return nil, fmt.Errorf("invalid credentials for %s role", role)
	}

	c.mu.Lock()
	c.currentUser = &resp.User
	c.token = resp.Token
	c.registered = make(map[int64]struct{})
	c.mu.Unlock()

	user := resp.User
	return &user, nil
}

// Logout drops the session state. Nothing is sent to the server.
func (c *Client) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentUser = nil
	c.token = ""
	c.events = nil
	c.registered = make(map[int64]struct{})
}

// CurrentUser returns the logged-in user, if any.
func (c *Client) CurrentUser() (*User, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.currentUser == nil {
		return nil, false
	}
	user := *c.currentUser
	return &user, true
}

// Register creates a student account.
func (c *Client) Register(ctx context.Context, email, password, name, department, usn string) error {
	body := map[string]string{
		"email":      email,
		"password":   password,
		"name":       name,
		"department": department,
		"usn":        usn,
	}
	return c.do(ctx, http.MethodPost, "/register", body, nil)
}

// Me resolves the server-side identity for the session token.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// LoadEvents fetches the event list and replaces the cached copy.
func (c *Client) LoadEvents(ctx context.Context) ([]*domain.EventWithCount, error) {
	var events []*domain.EventWithCount
	if err := c.do(ctx, http.MethodGet, "/events", nil, &events); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.events = events
	c.mu.Unlock()
	return events, nil
}

// CachedEvents returns the event list from the last LoadEvents call.
func (c *Client) CachedEvents() []*domain.EventWithCount {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*domain.EventWithCount, len(c.events))
	copy(out, c.events)
	return out
}

// CreateEvent creates an event and reloads the cached list.
func (c *Client) CreateEvent(ctx context.Context, title, description, date, location string) (int64, error) {
	var resp struct {
		ID      int64 `json:"id"`
		Success bool  `json:"success"`
	}
	body := map[string]string{
		"title":       title,
		"description": description,
		"date":        date,
		"location":    location,
	}
	if err := c.do(ctx, http.MethodPost, "/events", body, &resp); err != nil {
		return 0, err
	}
	if _, err := c.LoadEvents(ctx); err != nil {
		return resp.ID, err
	}
	return resp.ID, nil
}

// UpdateEvent applies a partial update and reloads the cached list.
func (c *Client) UpdateEvent(ctx context.Context, id int64, update EventUpdate) error {
	if err := c.do(ctx, http.MethodPut, "/events/"+strconv.FormatInt(id, 10), update, nil); err != nil {
		return err
	}
	_, err := c.LoadEvents(ctx)
	return err
}

// DeleteEvent deletes an event and reloads the cached list.
func (c *Client) DeleteEvent(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, "/events/"+strconv.FormatInt(id, 10), nil, nil); err != nil {
		return err
	}
	_, err := c.LoadEvents(ctx)
	return err
}

// EventRegistrations lists an event's registrations, newest first.
func (c *Client) EventRegistrations(ctx context.Context, eventID int64) ([]*domain.Registration, error) {
	var regs []*domain.Registration
	path := "/events/" + strconv.FormatInt(eventID, 10) + "/registrations"
	if err := c.do(ctx, http.MethodGet, path, nil, &regs); err != nil {
		return nil, err
	}
	return regs, nil
}

// RegisterForEvent registers a student for an event, records the id in the
// cached registered set, and reloads the event list for fresh counts.
func (c *Client) RegisterForEvent(ctx context.Context, eventID int64, name, department, usn, email string) (int64, error) {
	var resp struct {
		ID      int64 `json:"id"`
		Success bool  `json:"success"`
	}
	body := map[string]string{
		"name":       name,
		"department": department,
		"usn":        usn,
		"email":      email,
	}
	path := "/events/" + strconv.FormatInt(eventID, 10) + "/register"
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return 0, err
	}
	c.mu.Lock()
	c.registered[eventID] = struct{}{}
	c.mu.Unlock()
	if _, err := c.LoadEvents(ctx); err != nil {
		return resp.ID, err
	}
	return resp.ID, nil
}

// UnregisterFromEvent removes a registration, drops the id from the cached
// registered set, and reloads the event list.
func (c *Client) UnregisterFromEvent(ctx context.Context, eventID int64, email string) error {
	path := "/events/" + strconv.FormatInt(eventID, 10) + "/unregister"
	if err := c.do(ctx, http.MethodDelete, path, map[string]string{"email": email}, nil); err != nil {
		return err
	}
	c.mu.Lock()
	delete(c.registered, eventID)
	c.mu.Unlock()
	_, err := c.LoadEvents(ctx)
	return err
}

// IsRegistered asks the server whether the email is registered for the event.
func (c *Client) IsRegistered(ctx context.Context, eventID int64, email string) (bool, error) {
	var resp struct {
		IsRegistered bool `json:"isRegistered"`
	}
	path := "/events/" + strconv.FormatInt(eventID, 10) + "/check-registration?email=" + url.QueryEscape(email)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return false, err
	}
	return resp.IsRegistered, nil
}

// LoadRegisteredEventIDs fetches the event ids the email is registered for
// and replaces the cached registered set.
func (c *Client) LoadRegisteredEventIDs(ctx context.Context, email string) ([]int64, error) {
	var ids []int64
	path := "/student/" + url.PathEscape(email) + "/registrations"
	if err := c.do(ctx, http.MethodGet, path, nil, &ids); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.registered = make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		c.registered[id] = struct{}{}
	}
	c.mu.Unlock()
	return ids, nil
}

// IsRegisteredCached reports whether the cached registered set contains the
// event id. It does not hit the server.
func (c *Client) IsRegisteredCached(eventID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.registered[eventID]
	return ok
}

// UploadRecording uploads a recording as a multipart form.
func (c *Client) UploadRecording(ctx context.Context, eventID int64, filename string, content io.Reader) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("recording", filename)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(fw, content); err != nil {
		return fmt.Errorf("write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	path := "/events/" + strconv.FormatInt(eventID, 10) + "/upload-recording"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.setAuth(req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}
	return nil
}

// DownloadRecording streams an event's recording. The caller must close the
// returned reader.
func (c *Client) DownloadRecording(ctx context.Context, eventID int64) (io.ReadCloser, string, error) {
	path := "/events/" + strconv.FormatInt(eventID, 10) + "/recording"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, "", err
	}
	c.setAuth(req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		return nil, "", decodeAPIError(resp)
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}

// EventFiles returns material metadata for an event.
func (c *Client) EventFiles(ctx context.Context, eventID int64) (*domain.MaterialInfo, error) {
	var info domain.MaterialInfo
	path := "/events/" + strconv.FormatInt(eventID, 10) + "/files"
	if err := c.do(ctx, http.MethodGet, path, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// do issues a JSON request and decodes a JSON response into out (when out is
// non-nil). Non-2xx responses come back as *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setAuth(req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) setAuth(req *http.Request) {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func decodeAPIError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error == "" {
		return &APIError{Status: resp.StatusCode, Message: resp.Status}
	}
	return &APIError{Status: resp.StatusCode, Message: body.Error}
}
