package mekong

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultURL     = "https://sandbox.mekongsms.com/api/postsms.aspx"
	DefaultTimeout = 15 * time.Second

	// successMarker is matched case-insensitively anywhere in the body.
	successMarker = "result=0"
)

// Client posts to the MekongSMS postsms.aspx endpoint. Credentials and the two
// campaign tags are static for the lifetime of the process.
type Client struct {
	Username string
	Password string
	Sender   string
	CD       string
	Int      string
	BaseURL  string
	HTTP     *http.Client
}

type SendRequest struct {
	To   string
	Text string
}

type SendResponse struct {
	StatusCode int
	Raw        string
}

// Accepted reports whether the gateway took the message. Only a 200 carrying
// the result=0 marker counts.
func (r SendResponse) Accepted() bool {
	return r.StatusCode == http.StatusOK && ContainsSuccess(r.Raw)
}

func NewClient(username, password, sender, cd, intVal, baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		Username: username,
		Password: password,
		Sender:   sender,
		CD:       cd,
		Int:      intVal,
		BaseURL:  baseURL,
		HTTP:     &http.Client{Timeout: timeout},
	}
}

// Form builds the seven-field body the gateway expects.
func (c *Client) Form(req SendRequest) url.Values {
	form := url.Values{}
	form.Set("username", c.Username)
	form.Set("pass", c.Password)
	form.Set("sender", c.Sender)
	form.Set("smstext", req.Text)
	form.Set("gsm", req.To)
	form.Set("cd", c.CD)
	form.Set("int", c.Int)
	return form
}

// SendSMS performs exactly one POST. A non-nil error means no usable response
// arrived (timeout, DNS, reset); HTTP status handling is left to the caller.
func (c *Client) SendSMS(ctx context.Context, req SendRequest) (SendResponse, error) {
	endpoint := strings.TrimSpace(c.BaseURL)
	if endpoint == "" {
		endpoint = DefaultURL
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(c.Form(req).Encode()))
	if err != nil {
		return SendResponse{}, err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	hc := c.HTTP
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}
	resp, err := hc.Do(httpReq)
	if err != nil {
		return SendResponse{}, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return SendResponse{StatusCode: resp.StatusCode}, err
	}
	return SendResponse{StatusCode: resp.StatusCode, Raw: string(b)}, nil
}

func ContainsSuccess(body string) bool {
	return strings.Contains(strings.ToLower(body), successMarker)
}

// IsTimeout tells deadline and network timeouts apart from other failures so
// they can be described as such to the user.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
