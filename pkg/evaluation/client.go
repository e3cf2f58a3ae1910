package evaluation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blockblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"
	"github.com/rs/zerolog"
)

const maxErrorBody = 1024

// APIError is a non-2xx answer from the project or blob endpoint.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// DatasetVersion is an uploaded dataset.
type DatasetVersion struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Version string `json:"version"`
	Type    string `json:"type"`
	DataURI string `json:"dataUri"`
}

// Run is the service's view of a submitted evaluation.
type Run struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Status      string `json:"status"`
}

type pendingUpload struct {
	PendingUploadID string `json:"pendingUploadId"`
	BlobReference   struct {
		BlobURI    string `json:"blobUri"`
		Credential struct {
			SASURI string `json:"sasUri"`
		} `json:"credential"`
	} `json:"blobReference"`
}

// Client talks to the project data plane. The api client must authorize requests
// (see credentials.TokenSource.Client). Blob uploads are authorized by the SAS URL the
// project hands out and go through azblob without credentials.
type Client struct {
	endpoint   string
	apiVersion string
	api        *http.Client
	blob       container.ClientOptions
	logger     zerolog.Logger
}

type ClientOption func(*Client)

// WithBlobClient sends blob uploads through c.
func WithBlobClient(c *http.Client) ClientOption {
	return func(cl *Client) { cl.blob.Transport = c }
}

func WithLogger(logger zerolog.Logger) ClientOption {
	return func(cl *Client) { cl.logger = logger.With().Str("component", "evaluation").Logger() }
}

func NewClient(endpoint, apiVersion string, api *http.Client, opts ...ClientOption) *Client {
	c := &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		apiVersion: apiVersion,
		api:        api,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UploadDataset uploads the file at path as a new version of the named dataset.
func (c *Client) UploadDataset(ctx context.Context, name, version, path string) (DatasetVersion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DatasetVersion{}, fmt.Errorf("read dataset: %w", err)
	}

	pending, err := c.startPendingUpload(ctx, name, version)
	if err != nil {
		return DatasetVersion{}, fmt.Errorf("start pending upload: %w", err)
	}
	if pending.BlobReference.Credential.SASURI == "" || pending.BlobReference.BlobURI == "" {
		return DatasetVersion{}, errors.New("start pending upload: response has no blob reference")
	}

	filename := filepath.Base(path)
	if err := c.putBlob(ctx, pending.BlobReference.Credential.SASURI, filename, data); err != nil {
		return DatasetVersion{}, fmt.Errorf("upload blob: %w", err)
	}
	c.logger.Debug().Str("dataset", name).Str("version", version).Int("bytes", len(data)).Msg("dataset blob uploaded")

	dataURI := strings.TrimRight(pending.BlobReference.BlobURI, "/") + "/" + filename
	var out DatasetVersion
	err = c.do(ctx, http.MethodPatch, c.url("datasets", name, "versions", version), "application/merge-patch+json",
		map[string]string{"type": "uri_file", "dataUri": dataURI}, nil, &out)
	if err != nil {
		return DatasetVersion{}, fmt.Errorf("create dataset version: %w", err)
	}
	if out.ID == "" {
		return DatasetVersion{}, errors.New("dataset upload succeeded but no id was returned")
	}
	return out, nil
}

// CreateEvaluation submits an evaluation run. modelEndpoint and modelAPIKey are passed to
// the evaluators that call the judge model.
func (c *Client) CreateEvaluation(ctx context.Context, ev Evaluation, modelEndpoint, modelAPIKey string) (Run, error) {
	headers := map[string]string{
		"model-endpoint": modelEndpoint,
		"api-key":        modelAPIKey,
	}
	var out Run
	if err := c.do(ctx, http.MethodPost, c.url("evaluations", "runs:run"), "application/json", ev, headers, &out); err != nil {
		return Run{}, fmt.Errorf("create evaluation: %w", err)
	}
	if out.Name == "" {
		out.Name = out.ID
	}
	return out, nil
}

func (c *Client) startPendingUpload(ctx context.Context, name, version string) (pendingUpload, error) {
	var out pendingUpload
	err := c.do(ctx, http.MethodPost, c.url("datasets", name, "versions", version, "startPendingUpload"), "application/json",
		map[string]string{"pendingUploadType": "BlobReference"}, nil, &out)
	return out, err
}

func (c *Client) putBlob(ctx context.Context, containerSAS, filename string, data []byte) error {
	containerClient, err := container.NewClientWithNoCredential(containerSAS, &c.blob)
	if err != nil {
		return fmt.Errorf("parse SAS uri: %w", err)
	}

	blobClient := containerClient.NewBlockBlobClient(filename)
	contentType := "application/octet-stream"
	_, err = blobClient.UploadBuffer(ctx, data, &blockblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	})
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		// SAS tokens live in the query string.
		target, _, _ := strings.Cut(blobClient.URL(), "?")
		return &APIError{
			Method:     http.MethodPut,
			URL:        target,
			StatusCode: respErr.StatusCode,
			Body:       respErr.ErrorCode,
		}
	}
	return err
}

func (c *Client) url(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return c.endpoint + "/" + strings.Join(escaped, "/") + "?api-version=" + url.QueryEscape(c.apiVersion)
}

func (c *Client) do(ctx context.Context, method, target, contentType string, body any, headers map[string]string, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.api.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := checkResponse(req, resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func checkResponse(req *http.Request, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	// SAS tokens live in the query string.
	u := *req.URL
	u.RawQuery = ""
	return &APIError{
		Method:     req.Method,
		URL:        u.String(),
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}
