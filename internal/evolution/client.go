// Package evolution implements the chat-gateway client for the Evolution API.
package evolution

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rogelio-fraga-dev/barberbot/internal/config"
)

var nonDigits = regexp.MustCompile(`[^0-9]`)

type Client struct {
	Config     *config.Config
	HTTPClient *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		Config: cfg,
		// Outbound sends must never stall a dispatch cycle indefinitely.
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// --- Message Structures ---

type TextMessage struct {
	Number      string `json:"number"`
	Text        string `json:"text"`
	Delay       int    `json:"delay,omitempty"`
	LinkPreview bool   `json:"linkPreview,omitempty"`
}

type MediaMessage struct {
	Number    string `json:"number"`
	Media     string `json:"media"`
	MediaType string `json:"mediatype"`
	Caption   string `json:"caption,omitempty"`
	Delay     int    `json:"delay,omitempty"`
}

type ListMessage struct {
	Number      string    `json:"number"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ButtonText  string    `json:"buttonText"`
	Footer      string    `json:"footer,omitempty"`
	Sections    []Section `json:"sections"`
	Delay       int       `json:"delay,omitempty"`
}

type Section struct {
	Title string `json:"title,omitempty"`
	Rows  []Row  `json:"rows"`
}

type Row struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// --- Helper Functions ---

func (c *Client) sendRequest(method, path string, body interface{}) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewBuffer(jsonData)
	}

	url := strings.TrimSuffix(c.Config.EvolutionBaseURL, "/") + path
	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("apikey", c.Config.EvolutionAPIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return respBody, fmt.Errorf("evolution API error: %s - %s", resp.Status, string(respBody))
	}

	return respBody, nil
}

// FormatPhone normalizes an address to digits only and prepends the Brazilian
// country code to 10/11-digit local numbers, the shape the gateway expects.
func FormatPhone(phone string) string {
	nums := nonDigits.ReplaceAllString(phone, "")
	if len(nums) == 10 || len(nums) == 11 {
		return "55" + nums
	}
	return nums
}

// --- Messaging Methods ---

func (c *Client) SendText(phone, text string) error {
	msg := TextMessage{
		Number:      FormatPhone(phone),
		Text:        text,
		Delay:       1200,
		LinkPreview: true,
	}
	_, err := c.sendRequest("POST", "/message/sendText/"+c.Config.EvolutionInstance, msg)
	return err
}

func (c *Client) SendMedia(phone, mediaURL, caption string) error {
	msg := MediaMessage{
		Number:    FormatPhone(phone),
		Media:     mediaURL,
		MediaType: "image",
		Caption:   caption,
		Delay:     1200,
	}
	_, err := c.sendRequest("POST", "/message/sendMedia/"+c.Config.EvolutionInstance, msg)
	return err
}

func (c *Client) SendList(phone, title, description, buttonText, footer string, sections []Section) error {
	msg := ListMessage{
		Number:      FormatPhone(phone),
		Title:       title,
		Description: description,
		ButtonText:  buttonText,
		Footer:      footer,
		Sections:    sections,
		Delay:       1000,
	}
	_, err := c.sendRequest("POST", "/message/sendList/"+c.Config.EvolutionInstance, msg)
	return err
}

// FetchMediaBase64 asks the gateway for the base64 payload of a media message
// that arrived without inline content.
func (c *Client) FetchMediaBase64(messageID string) (string, error) {
	payload := map[string]interface{}{
		"message": map[string]interface{}{
			"key": map[string]string{"id": messageID},
		},
	}
	resp, err := c.sendRequest("POST", "/chat/getBase64FromMediaMessage/"+c.Config.EvolutionInstance, payload)
	if err != nil {
		return "", err
	}

	var result struct {
		Base64 string `json:"base64"`
	}
	if err := json.Unmarshal(resp, &result); err != nil {
		return "", err
	}
	if result.Base64 == "" {
		return "", fmt.Errorf("gateway returned no base64 for message %s", messageID)
	}
	return result.Base64, nil
}
