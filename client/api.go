package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"docchat/types"
)

const defaultBaseURL = "http://localhost:5000"

// Client is a thin HTTP client for the document chat backend.
type Client struct {
	baseURL string
	http    *http.Client
}

func New() *Client {
	base := os.Getenv("API_BASE_URL")
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: 180 * time.Second},
	}
}

// Ask sends a question and returns the answer with its citations.
func (c *Client) Ask(question string) (types.AskResponse, error) {
	var out types.AskResponse
	body, err := json.Marshal(types.AskParams{Question: question})
	if err != nil {
		return out, err
	}
	resp, err := c.http.Post(c.baseURL+"/ask", "application/json", bytes.NewReader(body))
	if err != nil {
		return out, fmt.Errorf("ask request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return out, err
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("decode ask response: %w", err)
	}
	return out, nil
}

// PdfNames lists uploaded documents in upload order.
func (c *Client) PdfNames() ([]string, error) {
	resp, err := c.http.Get(c.baseURL + "/get-pdf-names")
	if err != nil {
		return nil, fmt.Errorf("pdf names request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	var out types.PdfNamesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode pdf names: %w", err)
	}
	return out.PdfNames, nil
}

// PageText fetches the text fragments of one page of a document.
func (c *Client) PageText(name string, page int) (types.PageTextResponse, error) {
	var out types.PageTextResponse
	u := c.baseURL + "/get-page-text/" + url.PathEscape(name) + "?page=" + strconv.Itoa(page)
	resp, err := c.http.Get(u)
	if err != nil {
		return out, fmt.Errorf("page text request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return out, err
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("decode page text: %w", err)
	}
	return out, nil
}

// checkStatus turns a non-2xx response into an error carrying the backend's
// message when one is present.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var apiErr struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error != "" {
		return fmt.Errorf("%s (status %d)", apiErr.Error, resp.StatusCode)
	}
	return fmt.Errorf("unexpected status %d", resp.StatusCode)
}
