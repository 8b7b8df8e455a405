// Package vectorstore maintains the document index behind retrieval mode:
// it uploads library PDFs to an OpenAI vector store and keeps the store in
// sync with a local folder.
package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const defaultAPIBase = "https://api.openai.com/v1"

type Client struct {
	apiKey     string
	apiBase    string
	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		apiBase:    defaultAPIBase,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

type storeFile struct {
	ID string `json:"id"`
}

type fileList struct {
	Data []storeFile `json:"data"`
}

type fileInfo struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.apiBase+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}
	return nil
}

// ListFileIDs returns the IDs of all files attached to the store.
func (c *Client) ListFileIDs(ctx context.Context, storeID string) ([]string, error) {
	var list fileList
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/vector_stores/%s/files", storeID), nil, "", &list); err != nil {
		return nil, fmt.Errorf("failed to list vector store files: %w", err)
	}

	ids := make([]string, 0, len(list.Data))
	for _, f := range list.Data {
		ids = append(ids, f.ID)
	}
	return ids, nil
}

// ListFileNames resolves the filenames already present in the store.
func (c *Client) ListFileNames(ctx context.Context, storeID string) (map[string]bool, error) {
	ids, err := c.ListFileIDs(ctx, storeID)
	if err != nil {
		return nil, err
	}

	names := make(map[string]bool, len(ids))
	for _, id := range ids {
		var info fileInfo
		if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/files/%s", id), nil, "", &info); err != nil {
			return nil, fmt.Errorf("failed to retrieve file %s: %w", id, err)
		}
		names[info.Filename] = true
	}
	return names, nil
}

// UploadFile uploads a local file with purpose "assistants" and returns its
// file ID.
func (c *Client) UploadFile(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("purpose", "assistants"); err != nil {
		return "", fmt.Errorf("failed to write form field: %w", err)
	}
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("failed to copy file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize form: %w", err)
	}

	var info fileInfo
	if err := c.do(ctx, http.MethodPost, "/files", &buf, writer.FormDataContentType(), &info); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", path, err)
	}
	return info.ID, nil
}

// AttachFile adds an uploaded file to the vector store.
func (c *Client) AttachFile(ctx context.Context, storeID, fileID string) error {
	body, err := json.Marshal(map[string]string{"file_id": fileID})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/vector_stores/%s/files", storeID), bytes.NewBuffer(body), "application/json", nil); err != nil {
		return fmt.Errorf("failed to attach file %s: %w", fileID, err)
	}
	return nil
}

// SyncFolder uploads every PDF in dir that the store does not already hold.
// Returns the number of files uploaded.
func (c *Client) SyncFolder(ctx context.Context, storeID, dir string) (int, error) {
	existing, err := c.ListFileNames(ctx, storeID)
	if err != nil {
		return 0, err
	}
	log.Printf("Vector store %s holds %d files", storeID, len(existing))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read folder %s: %w", dir, err)
	}

	uploaded := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(name), ".pdf") {
			continue
		}
		if existing[name] {
			log.Printf("Skipping already uploaded: %s", name)
			continue
		}

		log.Printf("Uploading: %s", name)
		fileID, err := c.UploadFile(ctx, filepath.Join(dir, name))
		if err != nil {
			return uploaded, err
		}
		if err := c.AttachFile(ctx, storeID, fileID); err != nil {
			return uploaded, err
		}
		uploaded++
	}
	return uploaded, nil
}

// Wipe removes every file from the vector store. When deleteFiles is set
// the underlying uploads are deleted from file storage as well.
func (c *Client) Wipe(ctx context.Context, storeID string, deleteFiles bool) error {
	ids, err := c.ListFileIDs(ctx, storeID)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		log.Printf("Vector store %s is already empty", storeID)
		return nil
	}

	for _, id := range ids {
		if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/vector_stores/%s/files/%s", storeID, id), nil, "", nil); err != nil {
			return fmt.Errorf("failed to remove file %s from store: %w", id, err)
		}
	}

	if deleteFiles {
		for _, id := range ids {
			if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/files/%s", id), nil, "", nil); err != nil {
				return fmt.Errorf("failed to delete file %s: %w", id, err)
			}
		}
	}

	log.Printf("Removed %d files from vector store %s", len(ids), storeID)
	return nil
}

// SetAPIBase overrides the API base URL (for testing or proxies).
func (c *Client) SetAPIBase(apiBase string) {
	c.apiBase = strings.TrimRight(apiBase, "/")
}
