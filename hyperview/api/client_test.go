package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   string
}

type fakeHyperview struct {
	server   *httptest.Server
	requests []recordedRequest
}

func newFakeHyperview(t *testing.T, handler http.HandlerFunc) *fakeHyperview {
	fake := &fakeHyperview{}

	fake.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fake.requests = append(fake.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
			Body:   string(body),
		})
		handler(w, r)
	}))
	t.Cleanup(fake.server.Close)

	return fake
}

func (fake *fakeHyperview) client() *Client {
	return NewClient(fake.server.URL+"/", oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"}))
}

func TestClient_ListDefinitions(t *testing.T) {
	require := require.New(t)

	fake := newFakeHyperview(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case BACNET_DEFINITIONS_PATH:
			json.NewEncoder(w).Encode([]map[string]any{
				{"id": "d1", "name": "CRAH template", "assetType": "Crah", "associatedAssets": 4},
			})
		case MODBUS_DEFINITIONS_PATH:
			json.NewEncoder(w).Encode([]map[string]any{})
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	})

	definitions, err := fake.client().ListDefinitions(context.Background(), ProtocolBacnet)
	require.NoError(err)
	require.Equal([]Definition{{ID: "d1", Name: "CRAH template", AssetType: "Crah", AssociatedAssets: 4}}, definitions)

	definitions, err = fake.client().ListDefinitions(context.Background(), ProtocolModbus)
	require.NoError(err)
	require.Empty(definitions)

	header := fake.requests[0].Header
	require.Equal("Bearer test-token", header.Get("Authorization"))
	require.Equal("application/json", header.Get("Content-Type"))
	require.Equal("application/json", header.Get("Accept"))
}

func TestClient_ListDefinitionsDecodeError(t *testing.T) {
	fake := newFakeHyperview(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"unexpected": true}`))
	})

	_, err := fake.client().ListDefinitions(context.Background(), ProtocolBacnet)

	var decodeErr *DecodeError
	assert.True(t, errors.As(err, &decodeErr))
}

func TestClient_ListDefinitionsStatusError(t *testing.T) {
	fake := newFakeHyperview(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	})

	_, err := fake.client().ListDefinitions(context.Background(), ProtocolBacnet)

	var statusErr *StatusError
	if assert.True(t, errors.As(err, &statusErr)) {
		assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
		assert.Equal(t, "forbidden", statusErr.Body)
	}
}

func TestClient_TransportError(t *testing.T) {
	fake := newFakeHyperview(t, func(w http.ResponseWriter, r *http.Request) {})
	client := fake.client()
	fake.server.Close()

	_, err := client.ListDefinitions(context.Background(), ProtocolModbus)

	var transportErr *TransportError
	assert.True(t, errors.As(err, &transportErr))
}

func TestClient_TokenFailureStopsRequest(t *testing.T) {
	fake := newFakeHyperview(t, func(w http.ResponseWriter, r *http.Request) {})
	client := NewClient(fake.server.URL, oauth2.TokenSource(failingTokenSource{}))

	_, err := client.ListDefinitions(context.Background(), ProtocolBacnet)

	assert.Error(t, err)
	assert.Empty(t, fake.requests)
}

type failingTokenSource struct{}

func (failingTokenSource) Token() (*oauth2.Token, error) {
	return nil, errors.New("invalid_client")
}

func TestClient_AddDefinition(t *testing.T) {
	require := require.New(t)

	fake := newFakeHyperview(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": "new-id", "name": "Chiller template", "assetType": "Chiller"}`))
	})

	response, err := fake.client().AddDefinition(context.Background(), ProtocolModbus, "Chiller template", "Chiller")
	require.NoError(err)
	require.Equal(http.StatusCreated, response.StatusCode)
	require.Equal(map[string]any{"id": "new-id", "name": "Chiller template", "assetType": "Chiller"}, response.Body)

	request := fake.requests[0]
	require.Equal(http.MethodPost, request.Method)
	require.Equal(MODBUS_DEFINITIONS_PATH, request.Path)
	require.JSONEq(`{"name": "Chiller template", "assetType": "Chiller"}`, request.Body)
}

func TestClient_ListSensorsPaths(t *testing.T) {
	require := require.New(t)

	fake := newFakeHyperview(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	client := fake.client()
	ctx := context.Background()

	_, err := client.ListBacnetNumericSensors(ctx, "def-1")
	require.NoError(err)
	_, err = client.ListBacnetNonNumericSensors(ctx, "def-1")
	require.NoError(err)
	_, err = client.ListModbusNumericSensors(ctx, "def-2")
	require.NoError(err)
	_, err = client.ListModbusNonNumericSensors(ctx, "def-2")
	require.NoError(err)

	paths := []string{}
	for _, request := range fake.requests {
		paths = append(paths, request.Path)
	}

	require.Equal([]string{
		"/api/setting/bacnetIpDefinitions/bacnetIpNumericSensors/def-1",
		"/api/setting/bacnetIpDefinitions/bacnetIpNonNumericSensors/def-1",
		"/api/setting/modbusTcpDefinitions/modbusTcpNumericSensors/def-2",
		"/api/setting/modbusTcpDefinitions/modbusTcpNonNumericSensors/def-2",
	}, paths)
}

func TestClient_ListNonNumericSensorsDecodesMapping(t *testing.T) {
	require := require.New(t)

	fake := newFakeHyperview(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{
			"id": "s1", "name": "Door", "objectInstance": 9, "objectType": "binaryInput",
			"sensorType": "DoorState", "sensorTypeId": "55",
			"valueMapping": [{"text": "Closed", "value": 0}, {"text": "Open", "value": 1}]
		}]`))
	})

	sensors, err := fake.client().ListBacnetNonNumericSensors(context.Background(), "def-1")
	require.NoError(err)
	require.Len(sensors, 1)
	require.Equal(9, sensors[0].ObjectInstance)
	require.Equal([]ValueMapping{{Text: "Closed", Value: 0}, {Text: "Open", Value: 1}}, sensors[0].ValueMapping)
}

func TestClient_ListNumericSensorsNullUnit(t *testing.T) {
	require := require.New(t)

	fake := newFakeHyperview(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": "s1", "name": "Flow", "multiplier": 2.5, "address": 12, "registerType": "holdingRegister",
			"sensorType": "Flow", "sensorTypeId": "3", "unit": null, "unitId": null}]`))
	})

	sensors, err := fake.client().ListModbusNumericSensors(context.Background(), "def-2")
	require.NoError(err)
	require.Nil(sensors[0].Unit)
	require.Equal("", sensors[0].Row().Unit)
}

func TestClient_ListSensorTypes(t *testing.T) {
	require := require.New(t)

	fake := newFakeHyperview(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{
			"abbreviatedUnit": null, "isManuallyCreatable": true, "minimumValidValue": -40,
			"sensorDescription": "Temperature", "sensorParentType": "Environmental",
			"sensorTypeId": "1000", "unitDescription": "Celsius", "unitId": 2
		}]`))
	})

	sensorTypes, err := fake.client().ListSensorTypes(context.Background(), "Crah", SensorClassEnum)
	require.NoError(err)
	require.Len(sensorTypes, 1)
	require.Equal(LenientString(""), sensorTypes[0].AbbreviatedUnit)
	require.Equal(LenientString("-40"), sensorTypes[0].MinimumValidValue)
	require.Equal(LenientString("2"), sensorTypes[0].UnitID)

	request := fake.requests[0]
	require.Equal(SENSOR_TYPE_ASSET_TYPE, request.Path)
	require.Equal("assetTypeId=Crah&sensorTypeValueType=enum", request.Query)
}

func TestExcerptKeepsRunesWhole(t *testing.T) {
	assert := assert.New(t)

	body := strings.Repeat("a", BODY_EXCERPT_LIMIT-1) + strings.Repeat("é", 10)
	text := excerpt([]byte(body))

	assert.True(utf8.ValidString(text))
	assert.Equal(strings.Repeat("a", BODY_EXCERPT_LIMIT-1)+"...", text)
	assert.Equal("short", excerpt([]byte("  short\n")))
}

func TestClient_StatusErrorBodyIsValidUTF8(t *testing.T) {
	fake := newFakeHyperview(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, strings.Repeat("ü", BODY_EXCERPT_LIMIT), http.StatusBadGateway)
	})

	_, err := fake.client().ListDefinitions(context.Background(), ProtocolModbus)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.True(t, utf8.ValidString(statusErr.Body))
	assert.True(t, strings.HasSuffix(statusErr.Body, "..."))
}
