// Package spreadsheet adalah klien HTTP untuk store berbasis spreadsheet
// (web app yang menerima action create/read/update/delete).
package spreadsheet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cast"

	"github.com/c14220110/igd-dashboard/internal/igd/models"
	"github.com/c14220110/igd-dashboard/pkg/store"
)

const (
	actionRead   = "read"
	actionCreate = "create"
	actionUpdate = "update"
	actionDelete = "delete"
)

type Options struct {
	Timeout time.Duration
	// RetryMax hanya berlaku untuk read. Create/update/delete tidak pernah diulang.
	RetryMax int
}

type Client struct {
	BaseURI     string
	readClient  *http.Client
	writeClient *http.Client
	log         zerolog.Logger
}

var _ store.RecordStore = (*Client)(nil)

func NewClient(baseURI string, opts Options, log zerolog.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	log = log.With().Str("komponen", "spreadsheet").Logger()
	return &Client{
		BaseURI:     baseURI,
		readClient:  newHTTPClient(opts.Timeout, opts.RetryMax, log),
		writeClient: newHTTPClient(opts.Timeout, 0, log),
		log:         log,
	}
}

func newHTTPClient(timeout time.Duration, retryMax int, log zerolog.Logger) *http.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = retryMax
	retryClient.Logger = leveledLogger{log}
	retryClient.HTTPClient = &http.Client{Timeout: timeout}
	return retryClient.StandardClient()
}

// response adalah amplop balasan web app. Field id bisa berupa angka.
type response struct {
	Status  string          `json:"status"`
	ID      interface{}     `json:"id"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) List(ctx context.Context) ([]models.Pasien, error) {
	req, err := c.prepareRequest(ctx, http.MethodGet, actionRead, nil)
	if err != nil {
		return nil, err
	}
	body, err := c.sendRequest(c.readClient, req)
	if err != nil {
		return nil, err
	}

	raw, err := extractRows(body)
	if err != nil {
		return nil, err
	}

	out := make([]models.Pasien, 0, len(raw))
	for _, r := range raw {
		row := make(map[string]string, len(r))
		for k, v := range r {
			row[k] = cast.ToString(v)
		}
		out = append(out, store.FromRow(row))
	}
	c.log.Debug().Int("jumlah", len(out)).Msg("baris dibaca dari spreadsheet")
	return out, nil
}

func (c *Client) Create(ctx context.Context, p models.Pasien) (string, error) {
	row := store.ToRow(p)
	delete(row, "createdAt")

	resp, err := c.write(ctx, actionCreate, row)
	if err != nil {
		return "", err
	}
	id := cast.ToString(resp.ID)
	if id == "" {
		id = p.ID
	}
	return id, nil
}

func (c *Client) Update(ctx context.Context, p models.Pasien) error {
	row := store.ToRow(p)
	delete(row, "createdAt")
	_, err := c.write(ctx, actionUpdate, row)
	return err
}

func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.write(ctx, actionDelete, map[string]string{"id": id})
	return err
}

func (c *Client) write(ctx context.Context, action string, payload any) (*response, error) {
	req, err := c.prepareRequest(ctx, http.MethodPost, action, payload)
	if err != nil {
		return nil, err
	}
	body, err := c.sendRequest(c.writeClient, req)
	if err != nil {
		return nil, err
	}

	resp := new(response)
	if err := json.Unmarshal(body, resp); err != nil {
		return nil, fmt.Errorf("%w: respons %s tidak valid: %v", store.ErrRemote, action, err)
	}
	switch normalizeStatus(resp.Status) {
	case "success", "ok":
		return resp, nil
	case "notfound":
		return nil, store.ErrNotFound
	default:
		msg := resp.Message
		if msg == "" {
			msg = "status " + resp.Status
		}
		return nil, fmt.Errorf("%w: %s gagal: %s", store.ErrRemote, action, msg)
	}
}

func (c *Client) prepareRequest(ctx context.Context, method, action string, body any) (*http.Request, error) {
	if c.BaseURI == "" {
		return nil, fmt.Errorf("%w: endpoint belum dikonfigurasi", store.ErrRemote)
	}
	u, err := url.Parse(c.BaseURI)
	if err != nil {
		return nil, fmt.Errorf("endpoint tidak valid: %w", err)
	}
	q := u.Query()
	q.Set("action", action)
	u.RawQuery = q.Encode()

	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), bodyReader)
	if err != nil {
		return nil, err
	}
	// text/plain menghindari preflight pada web app spreadsheet, isi tetap JSON
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) sendRequest(hc *http.Client, req *http.Request) ([]byte, error) {
	resp, err := hc.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", store.ErrRemote, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: gagal membaca respons: %v", store.ErrRemote, err)
	}

	c.log.Debug().
		Str("method", req.Method).
		Str("action", req.URL.Query().Get("action")).
		Int("status", resp.StatusCode).
		Msg("respons spreadsheet")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: server mengembalikan status %d", store.ErrRemote, resp.StatusCode)
	}
	return bodyBytes, nil
}

// extractRows menerima array baris langsung atau amplop {"status","data"}.
func extractRows(body []byte) ([]map[string]interface{}, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return []map[string]interface{}{}, nil
	}

	var rows []map[string]interface{}
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return nil, fmt.Errorf("%w: baris tidak valid: %v", store.ErrRemote, err)
		}
		return rows, nil
	}

	var resp response
	if err := json.Unmarshal(trimmed, &resp); err != nil {
		return nil, fmt.Errorf("%w: respons read tidak valid: %v", store.ErrRemote, err)
	}
	if s := normalizeStatus(resp.Status); s != "" && s != "success" && s != "ok" {
		return nil, fmt.Errorf("%w: read gagal: %s", store.ErrRemote, resp.Message)
	}
	if len(resp.Data) == 0 || string(resp.Data) == "null" {
		return []map[string]interface{}{}, nil
	}
	if err := json.Unmarshal(resp.Data, &rows); err != nil {
		return nil, fmt.Errorf("%w: data read tidak valid: %v", store.ErrRemote, err)
	}
	return rows, nil
}

func normalizeStatus(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", "", " ", "", "-", "").Replace(s)
}
