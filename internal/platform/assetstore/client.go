package assetstore

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.cloudinary.com"

// ErrRejected is returned when the asset store refuses an upload outright.
var ErrRejected = errors.New("asset store rejected upload")

type Config struct {
	CloudName  string
	APIKey     string
	APISecret  string
	BaseURL    string
	Folder     string
	RPS        int
	MaxRetries int
	Timeout    time.Duration
}

// Client uploads images to a Cloudinary-compatible signed upload endpoint.
type Client struct {
	httpClient *http.Client
	cfg        Config
	limiter    *rate.Limiter
	now        func() time.Time
	backoff    time.Duration
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Every(time.Second/time.Duration(cfg.RPS)), 1),
		now:     time.Now,
		backoff: time.Second,
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
	PublicID  string `json:"public_id"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends the file at filePath under publicID and returns its HTTPS URL.
func (c *Client) Upload(ctx context.Context, filePath, publicID string) (string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("read upload file: %w", err)
	}

	params := map[string]string{
		"public_id": publicID,
		"overwrite": "true",
		"timestamp": strconv.FormatInt(c.now().Unix(), 10),
	}
	if c.cfg.Folder != "" {
		params["folder"] = c.cfg.Folder
	}
	params["signature"] = sign(params, c.cfg.APISecret)
	params["api_key"] = c.cfg.APIKey

	endpoint := fmt.Sprintf("%s/v1_1/%s/image/upload", strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.CloudName)

	var lastErr error
	for i := 0; i <= c.cfg.MaxRetries; i++ {
		if i > 0 {
			// Backoff: 1s, 2s, 4s...
			select {
			case <-time.After(c.backoff << uint(i-1)):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}

		url, retry, err := c.post(ctx, endpoint, params, filepath.Base(filePath), content)
		if err == nil {
			return url, nil
		}
		if !retry {
			return "", err
		}
		lastErr = err
	}
	return "", fmt.Errorf("after %d retries: %w", c.cfg.MaxRetries, lastErr)
}

// post performs one upload attempt and reports whether a failure is worth retrying.
func (c *Client) post(ctx context.Context, endpoint string, params map[string]string, filename string, content []byte) (string, bool, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range params {
		if err := mw.WriteField(k, v); err != nil {
			return "", false, err
		}
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", false, err
	}
	if _, err := part.Write(content); err != nil {
		return "", false, err
	}
	if err := mw.Close(); err != nil {
		return "", false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return "", false, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", true, err
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", true, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var res uploadResponse
	if err := jsoniter.Unmarshal(raw, &res); err != nil {
		return "", false, fmt.Errorf("decode upload response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := http.StatusText(resp.StatusCode)
		if res.Error != nil && res.Error.Message != "" {
			msg = res.Error.Message
		}
		return "", false, fmt.Errorf("%w: %d %s", ErrRejected, resp.StatusCode, msg)
	}

	if res.SecureURL != "" {
		return res.SecureURL, false, nil
	}
	if res.URL != "" {
		return res.URL, false, nil
	}
	return "", false, fmt.Errorf("%w: response carried no url", ErrRejected)
}

// sign computes the request signature: the sorted key=value pairs joined by
// '&', followed by the API secret, hashed with SHA-1.
func sign(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + params[k]
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}
