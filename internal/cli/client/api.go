package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Response is a success envelope with its data decoded
type Response[T any] struct {
	Success bool
	Message string
	Data    T
}

func decode[T any](res *Result, err error) (*Response[T], error) {
	if err != nil {
		return nil, err
	}
	out := &Response[T]{Success: res.Success, Message: res.Message}
	if err := res.Decode(&out.Data); err != nil {
		return nil, err
	}
	return out, nil
}

// Page is a paginated listing
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

// AuthPayload is the data of a successful login. User is kept verbatim for the credential store.
type AuthPayload struct {
	Token     string          `json:"token"`
	TokenType string          `json:"tokenType"`
	User      json.RawMessage `json:"user"`
}

// SignupRequest represents the signup request body
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=15,username"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=20"`
}

// User represents a user record
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Nickname  string `json:"nickname,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// StatusInfo is the backend's presentation hint for a trip status
type StatusInfo struct {
	Description string `json:"description"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
}

// Trip represents a trip as listed
type Trip struct {
	ID                int64       `json:"id"`
	Title             string      `json:"title"`
	Description       string      `json:"description"`
	StartDate         string      `json:"startDate"`
	EndDate           string      `json:"endDate,omitempty"`
	Status            string      `json:"status"`
	StatusDescription string      `json:"statusDescription"`
	StatusInfo        *StatusInfo `json:"statusInfo,omitempty"`
	Destination       string      `json:"destination"`
	Budget            *int64      `json:"budget"`
	Duration          int         `json:"duration"`
}

// TripRequest represents the trip creation request
type TripRequest struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description,omitempty" validate:"max=1000"`
	StartDate   string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate     string `json:"endDate" validate:"required,datetime=2006-01-02"`
	Status      string `json:"status,omitempty" validate:"omitempty,oneof=PLANNING ONGOING COMPLETED CANCELLED"`
	Destination string `json:"destination,omitempty" validate:"max=100"`
	Budget      *int64 `json:"budget,omitempty" validate:"omitempty,min=0"`
}

// TripQuery holds the trip list filters
type TripQuery struct {
	Page          int
	Size          int
	Status        string
	Destination   string
	Title         string
	SortBy        string
	SortDirection string
}

// Values encodes the query, filling the list defaults
func (q TripQuery) Values() url.Values {
	v := url.Values{}
	size := q.Size
	if size <= 0 {
		size = 10
	}
	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = "createdAt"
	}
	dir := q.SortDirection
	if dir == "" {
		dir = "DESC"
	}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("size", strconv.Itoa(size))
	v.Set("sortBy", sortBy)
	v.Set("sortDirection", dir)
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.Destination != "" {
		v.Set("destination", q.Destination)
	}
	if q.Title != "" {
		v.Set("title", q.Title)
	}
	return v
}

// TravelLogQuery holds the travel log list filters
type TravelLogQuery struct {
	TripID   int64
	Location string
	LogDate  string
	Page     int
	Size     int
}

// Values encodes the query, filling the list defaults
func (q TravelLogQuery) Values() url.Values {
	v := url.Values{}
	size := q.Size
	if size <= 0 {
		size = 10
	}
	if q.TripID > 0 {
		v.Set("tripId", strconv.FormatInt(q.TripID, 10))
	}
	if q.Location != "" {
		v.Set("location", q.Location)
	}
	if q.LogDate != "" {
		v.Set("logDate", q.LogDate)
	}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("size", strconv.Itoa(size))
	return v
}

// TravelLog represents a travel log entry
type TravelLog struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	LogDate       string `json:"logDate"`
	Location      string `json:"location"`
	Mood          string `json:"mood"`
	Expenses      *int64 `json:"expenses"`
	Rating        *int   `json:"rating"`
	CreatedAt     string `json:"createdAt"`
	Trip          *Trip  `json:"trip,omitempty"`
	CoverImageURL string `json:"coverImageUrl,omitempty"`
}

// TravelLogRequest represents the travel log creation request
type TravelLogRequest struct {
	Title    string  `json:"title" validate:"required,max=100"`
	Content  string  `json:"content,omitempty" validate:"max=2000"`
	LogDate  string  `json:"logDate" validate:"required,datetime=2006-01-02"`
	Location string  `json:"location,omitempty" validate:"max=100"`
	Mood     string  `json:"mood,omitempty" validate:"max=50"`
	Expenses *int64  `json:"expenses,omitempty" validate:"omitempty,min=0"`
	Rating   *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	TagIDs   []int64 `json:"tagIds"`
}

// Tag represents a travel log tag
type Tag struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Color    string `json:"color"`
}

// TagRequest represents the tag creation request
type TagRequest struct {
	Name     string `json:"name" validate:"required"`
	Category string `json:"category" validate:"required"`
	Color    string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

// Photo represents an uploaded travel photo
type Photo struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}

// Login authenticates the user and returns the token and user record
func (c *Client) Login(req LoginRequest) (*Response[AuthPayload], error) {
	return decode[AuthPayload](c.Post("/api/auth/login", req))
}

// Signup registers a new user
func (c *Client) Signup(req SignupRequest) (*Response[User], error) {
	return decode[User](c.Post("/api/auth/signup", req))
}

// CheckUsername reports whether username is already taken
func (c *Client) CheckUsername(username string) (*Response[bool], error) {
	return decode[bool](c.Get("/api/auth/check-username?" + url.Values{"username": {username}}.Encode()))
}

// CheckEmail reports whether email is already taken
func (c *Client) CheckEmail(email string) (*Response[bool], error) {
	return decode[bool](c.Get("/api/auth/check-email?" + url.Values{"email": {email}}.Encode()))
}

// ListTrips returns one page of the user's trips
func (c *Client) ListTrips(q TripQuery) (*Response[Page[Trip]], error) {
	return decode[Page[Trip]](c.Get("/api/trips?" + q.Values().Encode()))
}

// GetTrip returns a single trip
func (c *Client) GetTrip(id int64) (*Response[Trip], error) {
	return decode[Trip](c.Get(fmt.Sprintf("/api/trips/%d", id)))
}

// CreateTrip creates a trip
func (c *Client) CreateTrip(req TripRequest) (*Response[Trip], error) {
	return decode[Trip](c.Post("/api/trips", req))
}

// UpdateTrip replaces a trip's editable fields
func (c *Client) UpdateTrip(id int64, req TripRequest) (*Response[Trip], error) {
	return decode[Trip](c.Put(fmt.Sprintf("/api/trips/%d", id), req))
}

// UpdateTripStatus moves a trip to another status
func (c *Client) UpdateTripStatus(id int64, status string) (*Response[Trip], error) {
	target := fmt.Sprintf("/api/trips/%d/status?", id) + url.Values{"status": {status}}.Encode()
	return decode[Trip](c.Request(target, Options{Method: http.MethodPatch}))
}

// DeleteTrip deletes a trip and its travel logs
func (c *Client) DeleteTrip(id int64) (*Response[json.RawMessage], error) {
	return decode[json.RawMessage](c.Delete(fmt.Sprintf("/api/trips/%d", id)))
}

// ListTravelLogs returns one page of the user's travel logs
func (c *Client) ListTravelLogs(q TravelLogQuery) (*Response[Page[TravelLog]], error) {
	return decode[Page[TravelLog]](c.Get("/api/travel-logs?" + q.Values().Encode()))
}

// GetTravelLog returns a single travel log
func (c *Client) GetTravelLog(id int64) (*Response[TravelLog], error) {
	return decode[TravelLog](c.Get(fmt.Sprintf("/api/travel-logs/%d", id)))
}

// CreateTravelLog creates a travel log. With files it is sent as multipart,
// otherwise as plain JSON.
func (c *Client) CreateTravelLog(tripID int64, req TravelLogRequest, files ...File) (*Response[json.RawMessage], error) {
	target := fmt.Sprintf("/api/travel-logs?tripId=%d", tripID)
	if len(files) == 0 {
		return decode[json.RawMessage](c.Post(target, req))
	}

	body, err := NewMultipart(req, files...)
	if err != nil {
		return nil, err
	}
	return decode[json.RawMessage](c.PostMultipart(target, body))
}

// DeleteTravelLog deletes a travel log and its photos
func (c *Client) DeleteTravelLog(id int64) (*Response[json.RawMessage], error) {
	return decode[json.RawMessage](c.Delete(fmt.Sprintf("/api/travel-logs/%d", id)))
}

// TravelLogTags returns the tags attached to a travel log
func (c *Client) TravelLogTags(id int64) (*Response[[]Tag], error) {
	return decode[[]Tag](c.Get(fmt.Sprintf("/api/travel-logs/%d/tags", id)))
}

// TravelLogPhotos returns the photos of a travel log
func (c *Client) TravelLogPhotos(id int64) (*Response[[]Photo], error) {
	return decode[[]Photo](c.Get(fmt.Sprintf("/api/photos/%d", id)))
}

// ListTags returns every tag, or only those of category when it is set
func (c *Client) ListTags(category string) (*Response[[]Tag], error) {
	target := "/api/tags"
	if category != "" {
		target += "?" + url.Values{"category": {category}}.Encode()
	}
	return decode[[]Tag](c.Get(target))
}

// SearchTags returns the tags whose name contains keyword
func (c *Client) SearchTags(keyword string) (*Response[[]Tag], error) {
	return decode[[]Tag](c.Get("/api/tags/search?" + url.Values{"keyword": {keyword}}.Encode()))
}

// CreateTag creates a tag
func (c *Client) CreateTag(req TagRequest) (*Response[Tag], error) {
	return decode[Tag](c.Post("/api/tags", req))
}
