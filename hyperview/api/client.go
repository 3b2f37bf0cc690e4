package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/oauth2"
)

const (
	USER_AGENT        = "hyperview-dit"
	CONTENT_TYPE_JSON = "application/json"
	// Longest response body kept in errors and logs.
	BODY_EXCERPT_LIMIT = 512
)

// levelTrace matches the CLI's trace level; request and response bodies are logged there.
const levelTrace = slog.Level(-8)

// Client performs one request at a time against a Hyperview instance. The
// token source is asked for a token on every request; an oauth2.ReuseTokenSource
// keeps that to a single handshake per process.
type Client struct {
	baseURL    string
	httpClient http.Client
	tokens     oauth2.TokenSource
	logger     *slog.Logger
}

// Response is the outcome of an operation that only reports the server status.
type Response struct {
	StatusCode int
	Status     string
	Body       string
}

func (response Response) Success() bool {
	return response.StatusCode >= 200 && response.StatusCode < 300
}

// RawResponse is a decoded JSON body returned without a typed shape.
type RawResponse struct {
	StatusCode int
	Status     string
	Body       any
}

func NewClient(baseURL string, tokens oauth2.TokenSource) *Client {
	return NewClientWithLogger(baseURL, tokens, nil)
}

func NewClientWithLogger(baseURL string, tokens oauth2.TokenSource, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		tokens:  tokens,
		logger:  logger,
	}
}

// SetRequestTimeout bounds each request. Zero, the default, means no timeout.
func (client *Client) SetRequestTimeout(timeout time.Duration) {
	client.httpClient.Timeout = timeout
}

func (client *Client) log(level slog.Level, msg string, args ...any) {
	if client.logger != nil {
		client.logger.Log(context.Background(), level, msg, args...)
	}
}

func (client *Client) authHeader() (string, error) {
	token, err := client.tokens.Token()
	if err != nil {
		return "", fmt.Errorf("failed to obtain access token: %w", err)
	}

	return "Bearer " + token.AccessToken, nil
}

func (client *Client) do(ctx context.Context, method string, path string, query url.Values, payload any) (*http.Response, []byte, error) {
	target := client.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
		client.log(levelTrace, "Request body", "method", method, "url", target, "body", string(encoded))
	}

	request, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	authorization, err := client.authHeader()
	if err != nil {
		return nil, nil, err
	}

	request.Header.Set("Authorization", authorization)
	request.Header.Set("Content-Type", CONTENT_TYPE_JSON)
	request.Header.Set("Accept", CONTENT_TYPE_JSON)
	request.Header.Set("User-Agent", USER_AGENT)

	client.log(slog.LevelDebug, "Sending request", "method", method, "url", target)

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, nil, &TransportError{Method: method, URL: target, Err: err}
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, nil, &TransportError{Method: method, URL: target, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	client.log(slog.LevelDebug, "Received response", "method", method, "url", target, "status", response.Status)
	client.log(levelTrace, "Response body", "url", target, "body", excerpt(responseBody))

	return response, responseBody, nil
}

func (client *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	response, body, err := client.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}

	target := response.Request.URL.String()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return &StatusError{
			URL:        target,
			StatusCode: response.StatusCode,
			Status:     response.Status,
			Body:       excerpt(body),
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &DecodeError{URL: target, Err: err}
	}

	return nil
}

func (client *Client) send(ctx context.Context, method string, path string, payload any) (*Response, error) {
	response, body, err := client.do(ctx, method, path, nil, payload)
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode: response.StatusCode,
		Status:     response.Status,
		Body:       excerpt(body),
	}, nil
}

func (client *Client) ListDefinitions(ctx context.Context, protocol Protocol) ([]Definition, error) {
	path, err := DefinitionsPath(protocol)
	if err != nil {
		return nil, err
	}

	var definitions []Definition
	if err := client.getJSON(ctx, path, nil, &definitions); err != nil {
		return nil, err
	}

	client.log(slog.LevelDebug, "Definitions fetched", "protocol", protocol, "count", len(definitions))

	return definitions, nil
}

// AddDefinition creates a definition and hands back whatever JSON the server replied with.
func (client *Client) AddDefinition(ctx context.Context, protocol Protocol, name string, assetType string) (*RawResponse, error) {
	path, err := DefinitionsPath(protocol)
	if err != nil {
		return nil, err
	}

	response, body, err := client.do(ctx, http.MethodPost, path, nil, definitionRequest{Name: name, AssetType: assetType})
	if err != nil {
		return nil, err
	}

	raw := &RawResponse{StatusCode: response.StatusCode, Status: response.Status}

	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &raw.Body); err != nil {
			return nil, &DecodeError{URL: response.Request.URL.String(), Err: err}
		}
	}

	return raw, nil
}

func listSensors[S any](ctx context.Context, client *Client, collection SensorCollection) ([]S, error) {
	path, err := collection.Path("")
	if err != nil {
		return nil, err
	}

	var sensors []S
	if err := client.getJSON(ctx, path, nil, &sensors); err != nil {
		return nil, err
	}

	client.log(slog.LevelDebug, "Sensors fetched",
		"protocol", collection.Protocol, "data_type", collection.DataType,
		"definition_id", collection.DefinitionID, "count", len(sensors))

	return sensors, nil
}

func (client *Client) ListBacnetNumericSensors(ctx context.Context, definitionID string) ([]BacnetNumericSensor, error) {
	return listSensors[BacnetNumericSensor](ctx, client, SensorCollection{ProtocolBacnet, DataTypeNumeric, definitionID})
}

func (client *Client) ListBacnetNonNumericSensors(ctx context.Context, definitionID string) ([]BacnetNonNumericSensor, error) {
	return listSensors[BacnetNonNumericSensor](ctx, client, SensorCollection{ProtocolBacnet, DataTypeNonNumeric, definitionID})
}

func (client *Client) ListModbusNumericSensors(ctx context.Context, definitionID string) ([]ModbusNumericSensor, error) {
	return listSensors[ModbusNumericSensor](ctx, client, SensorCollection{ProtocolModbus, DataTypeNumeric, definitionID})
}

func (client *Client) ListModbusNonNumericSensors(ctx context.Context, definitionID string) ([]ModbusNonNumericSensor, error) {
	return listSensors[ModbusNonNumericSensor](ctx, client, SensorCollection{ProtocolModbus, DataTypeNonNumeric, definitionID})
}

func (client *Client) ListSensorTypes(ctx context.Context, assetType string, class SensorClass) ([]SensorType, error) {
	query := url.Values{}
	query.Set("assetTypeId", assetType)
	query.Set("sensorTypeValueType", string(class))

	var sensorTypes []SensorType
	if err := client.getJSON(ctx, SENSOR_TYPE_ASSET_TYPE, query, &sensorTypes); err != nil {
		return nil, err
	}

	return sensorTypes, nil
}

// CreateSensor POSTs a sensor to the collection.
func (client *Client) CreateSensor(ctx context.Context, collection SensorCollection, sensor any) (*Response, error) {
	path, err := collection.Path("")
	if err != nil {
		return nil, err
	}

	return client.send(ctx, http.MethodPost, path, sensor)
}

// UpdateSensor PUTs the full sensor to its own path.
func (client *Client) UpdateSensor(ctx context.Context, collection SensorCollection, sensorID string, sensor any) (*Response, error) {
	if sensorID == "" {
		return nil, fmt.Errorf("update requires a sensor id")
	}

	path, err := collection.Path(sensorID)
	if err != nil {
		return nil, err
	}

	return client.send(ctx, http.MethodPut, path, sensor)
}

func excerpt(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) > BODY_EXCERPT_LIMIT {
		cut := BODY_EXCERPT_LIMIT
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}

		return text[:cut] + "..."
	}

	return text
}
