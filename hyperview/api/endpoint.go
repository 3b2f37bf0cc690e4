package api

import (
	"fmt"
	"net/url"
)

const (
	BACNET_DEFINITIONS_PATH = "/api/setting/bacnetIpDefinitions"
	MODBUS_DEFINITIONS_PATH = "/api/setting/modbusTcpDefinitions"
	SENSOR_TYPE_ASSET_TYPE  = "/api/setting/sensorTypeAssetType"
)

type Protocol string

const (
	ProtocolBacnet Protocol = "bacnet"
	ProtocolModbus Protocol = "modbus"
)

type DataType string

const (
	DataTypeNumeric    DataType = "numeric"
	DataTypeNonNumeric DataType = "non-numeric"
)

type SensorClass string

const (
	SensorClassNumeric SensorClass = "numeric"
	SensorClassEnum    SensorClass = "enum"
)

type protocolPaths struct {
	definitions       string
	numericSensors    string
	nonNumericSensors string
}

var paths = map[Protocol]protocolPaths{
	ProtocolBacnet: {
		definitions:       BACNET_DEFINITIONS_PATH,
		numericSensors:    BACNET_DEFINITIONS_PATH + "/bacnetIpNumericSensors",
		nonNumericSensors: BACNET_DEFINITIONS_PATH + "/bacnetIpNonNumericSensors",
	},
	ProtocolModbus: {
		definitions:       MODBUS_DEFINITIONS_PATH,
		numericSensors:    MODBUS_DEFINITIONS_PATH + "/modbusTcpNumericSensors",
		nonNumericSensors: MODBUS_DEFINITIONS_PATH + "/modbusTcpNonNumericSensors",
	},
}

func lookup(protocol Protocol) (protocolPaths, error) {
	p, ok := paths[protocol]
	if !ok {
		return protocolPaths{}, fmt.Errorf("unknown protocol: %q", protocol)
	}

	return p, nil
}

// DefinitionsPath returns the definition collection path of a protocol.
func DefinitionsPath(protocol Protocol) (string, error) {
	p, err := lookup(protocol)
	if err != nil {
		return "", err
	}

	return p.definitions, nil
}

// SensorCollection addresses the sensors of one data type under one definition.
type SensorCollection struct {
	Protocol     Protocol
	DataType     DataType
	DefinitionID string
}

// Path returns the collection path, or the path of a single sensor when sensorID is set.
func (collection SensorCollection) Path(sensorID string) (string, error) {
	p, err := lookup(collection.Protocol)
	if err != nil {
		return "", err
	}

	var prefix string
	switch collection.DataType {
	case DataTypeNumeric:
		prefix = p.numericSensors
	case DataTypeNonNumeric:
		prefix = p.nonNumericSensors
	default:
		return "", fmt.Errorf("unknown sensor data type: %q", collection.DataType)
	}

	path := prefix + "/" + url.PathEscape(collection.DefinitionID)
	if sensorID != "" {
		path += "/" + url.PathEscape(sensorID)
	}

	return path, nil
}
