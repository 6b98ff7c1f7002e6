package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/ehealth/portal/internal/client/models"
)

// RESTClient talks to the backend over plain HTTP. The bearer token is held
// here and attached per request; there is no process-global default header,
// so two clients never interfere with each other's sessions.
type RESTClient struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

var _ Client = (*RESTClient)(nil)

// NewRESTClient builds a client for the given base URL, e.g.
// "http://127.0.0.1:8000". Timeouts are the caller's business via ctx.
func NewRESTClient(baseURL string) *RESTClient {
	return &RESTClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

// SetToken arms the bearer token for subsequent requests.
func (c *RESTClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearToken disarms the bearer token.
func (c *RESTClient) ClearToken() {
	c.SetToken("")
}

func (c *RESTClient) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// do performs one request/response exchange. A nil body sends no payload; a
// non-nil out receives the decoded JSON response. Failures are normalised:
// transport errors and 5xx become ErrUnavailable, 401/403 become
// ErrUnauthorized, and remaining 4xx carry the backend's detail message.
func (c *RESTClient) do(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-Id", uuid.NewString())
	if t := c.currentToken(); t != "" {
		req.Header.Set("Authorization", "Bearer "+t)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := c.mapStatus(resp); err != nil {
		return err
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *RESTClient) mapStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode < 400:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	detail := http.StatusText(resp.StatusCode)
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Detail != "" {
		detail = body.Detail
	}
	return &APIError{Status: resp.StatusCode, Detail: detail}
}

func (c *RESTClient) Login(ctx context.Context, creds models.Credentials, audience Audience) (string, error) {
	var resp struct {
		AccessToken string `json:"access_token"`
		Role        string `json:"role"`
		Name        string `json:"name"`
	}
	if err := c.do(ctx, http.MethodPost, LoginPath(audience), creds, &resp); err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

func (c *RESTClient) Register(ctx context.Context, profile models.RegisterProfile) error {
	return c.do(ctx, http.MethodPost, RegisterPath(profile.Role), profile, nil)
}

func (c *RESTClient) MyAppointments(ctx context.Context) ([]models.Appointment, error) {
	var out []models.Appointment
	if err := c.do(ctx, http.MethodGet, "/appointments/doctor/my-appointments", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *RESTClient) AcceptAppointment(ctx context.Context, appointmentID string) error {
	path := fmt.Sprintf("/appointments/doctor/%s/accept", url.PathEscape(appointmentID))
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

func (c *RESTClient) CreatePrescription(ctx context.Context, p models.PrescriptionCreate) error {
	return c.do(ctx, http.MethodPost, "/prescriptions/doctor", p, nil)
}

func (c *RESTClient) Overview(ctx context.Context) (models.Overview, error) {
	var out models.Overview
	if err := c.do(ctx, http.MethodGet, "/hospital-admin/overview", nil, &out); err != nil {
		return models.Overview{}, err
	}
	return out, nil
}

func (c *RESTClient) Doctors(ctx context.Context) ([]models.Doctor, error) {
	var out []models.Doctor
	if err := c.do(ctx, http.MethodGet, "/hospital-admin/doctors", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *RESTClient) ApproveDoctor(ctx context.Context, doctorID string) error {
	path := fmt.Sprintf("/hospital-admin/approve/%s", url.PathEscape(doctorID))
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

func (c *RESTClient) RejectDoctor(ctx context.Context, doctorID string) error {
	path := fmt.Sprintf("/hospital-admin/reject/%s", url.PathEscape(doctorID))
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

func (c *RESTClient) PatientAppointments(ctx context.Context) ([]models.Appointment, error) {
	var out []models.Appointment
	if err := c.do(ctx, http.MethodGet, "/appointments/patient", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *RESTClient) PatientPrescriptions(ctx context.Context) ([]models.Prescription, error) {
	var out []models.Prescription
	if err := c.do(ctx, http.MethodGet, "/prescriptions/patient", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *RESTClient) Hospitals(ctx context.Context) ([]models.Hospital, error) {
	var out []models.Hospital
	if err := c.do(ctx, http.MethodGet, "/hospitals/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *RESTClient) HospitalDoctors(ctx context.Context, hospitalID string) ([]models.Doctor, error) {
	path := fmt.Sprintf("/appointments/hospitals/%s/doctors", url.PathEscape(hospitalID))
	var out []models.Doctor
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *RESTClient) BookAppointment(ctx context.Context, req models.BookingRequest) error {
	return c.do(ctx, http.MethodPost, "/appointments/request", req, nil)
}

func (c *RESTClient) DoctorProfile(ctx context.Context, doctorID string) (models.Doctor, error) {
	path := fmt.Sprintf("/users/doctor/%s", url.PathEscape(doctorID))
	var out models.Doctor
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return models.Doctor{}, err
	}
	return out, nil
}
