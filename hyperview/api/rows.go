package api

import (
	"fmt"
	"strings"
)

const (
	KIND_DEFINITION               = "definition"
	KIND_SENSOR_TYPE              = "sensor-type"
	KIND_BACNET_NUMERIC_SENSOR    = "bacnet-numeric-sensor"
	KIND_BACNET_NONNUMERIC_SENSOR = "bacnet-non-numeric-sensor"
	KIND_MODBUS_NUMERIC_SENSOR    = "modbus-numeric-sensor"
	KIND_MODBUS_NONNUMERIC_SENSOR = "modbus-non-numeric-sensor"
)

// RowKey identifies a flat row outside of its CSV columns.
type RowKey struct {
	Kind string
	ID   string
	Name string
}

// ImportRow is one line of a sensor import file.
type ImportRow interface {
	// Identity returns the id cell (nil when empty) and the name cell.
	Identity() (*string, string)
	// Sensor builds the request body with the given id; "" leaves the id out.
	Sensor(id string) (any, error)
}

type DefinitionRow struct {
	ID               string `csv:"id" json:"id"`
	Name             string `csv:"name" json:"name"`
	AssetType        string `csv:"assetType" json:"assetType"`
	AssociatedAssets int    `csv:"associatedAssets" json:"associatedAssets"`
}

func (definition Definition) Row() DefinitionRow {
	return DefinitionRow(definition)
}

func (row DefinitionRow) Key() RowKey {
	return RowKey{Kind: KIND_DEFINITION, ID: row.ID, Name: row.Name}
}

type SensorTypeRow struct {
	SensorTypeID        string `csv:"sensorTypeId" json:"sensorTypeId"`
	SensorDescription   string `csv:"sensorDescription" json:"sensorDescription"`
	UnitID              string `csv:"unitId" json:"unitId"`
	UnitDescription     string `csv:"unitDescription" json:"unitDescription"`
	AbbreviatedUnit     string `csv:"abbreviatedUnit" json:"abbreviatedUnit"`
	MinimumValidValue   string `csv:"minimumValidValue" json:"minimumValidValue"`
	SensorParentType    string `csv:"sensorParentType" json:"sensorParentType"`
	IsManuallyCreatable bool   `csv:"isManuallyCreatable" json:"isManuallyCreatable"`
}

func (sensorType SensorType) Row() SensorTypeRow {
	return SensorTypeRow{
		SensorTypeID:        string(sensorType.SensorTypeID),
		SensorDescription:   string(sensorType.SensorDescription),
		UnitID:              string(sensorType.UnitID),
		UnitDescription:     string(sensorType.UnitDescription),
		AbbreviatedUnit:     string(sensorType.AbbreviatedUnit),
		MinimumValidValue:   string(sensorType.MinimumValidValue),
		SensorParentType:    string(sensorType.SensorParentType),
		IsManuallyCreatable: sensorType.IsManuallyCreatable,
	}
}

func (row SensorTypeRow) Key() RowKey {
	return RowKey{Kind: KIND_SENSOR_TYPE, ID: row.SensorTypeID, Name: row.SensorDescription}
}

type BacnetNumericSensorRow struct {
	ID             string  `csv:"id" json:"id"`
	Name           string  `csv:"name" json:"name"`
	Multiplier     float64 `csv:"multiplier" json:"multiplier"`
	ObjectInstance int     `csv:"objectInstance" json:"objectInstance"`
	ObjectType     string  `csv:"objectType" json:"objectType"`
	SensorType     string  `csv:"sensorType" json:"sensorType"`
	SensorTypeID   string  `csv:"sensorTypeId" json:"sensorTypeId"`
	Unit           string  `csv:"unit,omitempty" json:"unit"`
	UnitID         string  `csv:"unitId,omitempty" json:"unitId"`
}

func (sensor BacnetNumericSensor) Row() BacnetNumericSensorRow {
	return BacnetNumericSensorRow{
		ID:             sensor.ID,
		Name:           sensor.Name,
		Multiplier:     sensor.Multiplier,
		ObjectInstance: sensor.ObjectInstance,
		ObjectType:     sensor.ObjectType,
		SensorType:     sensor.SensorType,
		SensorTypeID:   sensor.SensorTypeID,
		Unit:           deref(sensor.Unit),
		UnitID:         deref(sensor.UnitID),
	}
}

func (row BacnetNumericSensorRow) Key() RowKey {
	return RowKey{Kind: KIND_BACNET_NUMERIC_SENSOR, ID: row.ID, Name: row.Name}
}

func (row BacnetNumericSensorRow) Identity() (*string, string) {
	return identity(row.ID, row.Name)
}

func (row BacnetNumericSensorRow) Sensor(id string) (any, error) {
	numeric, err := numericSensor(id, row.Name, row.Multiplier, row.SensorType, row.SensorTypeID, row.Unit, row.UnitID)
	if err != nil {
		return nil, err
	}

	return BacnetNumericSensor{
		NumericSensor:  numeric,
		ObjectInstance: row.ObjectInstance,
		ObjectType:     row.ObjectType,
	}, nil
}

type ModbusNumericSensorRow struct {
	ID           string  `csv:"id" json:"id"`
	Name         string  `csv:"name" json:"name"`
	Multiplier   float64 `csv:"multiplier" json:"multiplier"`
	Address      int     `csv:"address" json:"address"`
	RegisterType string  `csv:"registerType" json:"registerType"`
	SensorType   string  `csv:"sensorType" json:"sensorType"`
	SensorTypeID string  `csv:"sensorTypeId" json:"sensorTypeId"`
	Unit         string  `csv:"unit,omitempty" json:"unit"`
	UnitID       string  `csv:"unitId,omitempty" json:"unitId"`
}

func (sensor ModbusNumericSensor) Row() ModbusNumericSensorRow {
	return ModbusNumericSensorRow{
		ID:           sensor.ID,
		Name:         sensor.Name,
		Multiplier:   sensor.Multiplier,
		Address:      sensor.Address,
		RegisterType: sensor.RegisterType,
		SensorType:   sensor.SensorType,
		SensorTypeID: sensor.SensorTypeID,
		Unit:         deref(sensor.Unit),
		UnitID:       deref(sensor.UnitID),
	}
}

func (row ModbusNumericSensorRow) Key() RowKey {
	return RowKey{Kind: KIND_MODBUS_NUMERIC_SENSOR, ID: row.ID, Name: row.Name}
}

func (row ModbusNumericSensorRow) Identity() (*string, string) {
	return identity(row.ID, row.Name)
}

func (row ModbusNumericSensorRow) Sensor(id string) (any, error) {
	numeric, err := numericSensor(id, row.Name, row.Multiplier, row.SensorType, row.SensorTypeID, row.Unit, row.UnitID)
	if err != nil {
		return nil, err
	}

	return ModbusNumericSensor{
		NumericSensor: numeric,
		Address:       row.Address,
		RegisterType:  row.RegisterType,
	}, nil
}

type BacnetNonNumericSensorRow struct {
	ID             string `csv:"id" json:"id"`
	Name           string `csv:"name" json:"name"`
	ObjectInstance int    `csv:"objectInstance" json:"objectInstance"`
	ObjectType     string `csv:"objectType" json:"objectType"`
	SensorType     string `csv:"sensorType" json:"sensorType"`
	SensorTypeID   string `csv:"sensorTypeId" json:"sensorTypeId"`
	ValueMapping   string `csv:"valueMapping" json:"valueMapping"`
}

func (sensor BacnetNonNumericSensor) Row() BacnetNonNumericSensorRow {
	return BacnetNonNumericSensorRow{
		ID:             sensor.ID,
		Name:           sensor.Name,
		ObjectInstance: sensor.ObjectInstance,
		ObjectType:     sensor.ObjectType,
		SensorType:     sensor.SensorType,
		SensorTypeID:   sensor.SensorTypeID,
		ValueMapping:   EncodeValueMappings(sensor.ValueMapping),
	}
}

func (row BacnetNonNumericSensorRow) Key() RowKey {
	return RowKey{Kind: KIND_BACNET_NONNUMERIC_SENSOR, ID: row.ID, Name: row.Name}
}

func (row BacnetNonNumericSensorRow) Identity() (*string, string) {
	return identity(row.ID, row.Name)
}

func (row BacnetNonNumericSensorRow) Sensor(id string) (any, error) {
	nonNumeric, err := nonNumericSensor(id, row.Name, row.SensorType, row.SensorTypeID, row.ValueMapping)
	if err != nil {
		return nil, err
	}

	return BacnetNonNumericSensor{
		NonNumericSensor: nonNumeric,
		ObjectInstance:   row.ObjectInstance,
		ObjectType:       row.ObjectType,
	}, nil
}

type ModbusNonNumericSensorRow struct {
	ID           string `csv:"id" json:"id"`
	Name         string `csv:"name" json:"name"`
	Address      int    `csv:"address" json:"address"`
	RegisterType string `csv:"registerType" json:"registerType"`
	SensorType   string `csv:"sensorType" json:"sensorType"`
	SensorTypeID string `csv:"sensorTypeId" json:"sensorTypeId"`
	ValueMapping string `csv:"valueMapping" json:"valueMapping"`
}

func (sensor ModbusNonNumericSensor) Row() ModbusNonNumericSensorRow {
	return ModbusNonNumericSensorRow{
		ID:           sensor.ID,
		Name:         sensor.Name,
		Address:      sensor.Address,
		RegisterType: sensor.RegisterType,
		SensorType:   sensor.SensorType,
		SensorTypeID: sensor.SensorTypeID,
		ValueMapping: EncodeValueMappings(sensor.ValueMapping),
	}
}

func (row ModbusNonNumericSensorRow) Key() RowKey {
	return RowKey{Kind: KIND_MODBUS_NONNUMERIC_SENSOR, ID: row.ID, Name: row.Name}
}

func (row ModbusNonNumericSensorRow) Identity() (*string, string) {
	return identity(row.ID, row.Name)
}

func (row ModbusNonNumericSensorRow) Sensor(id string) (any, error) {
	nonNumeric, err := nonNumericSensor(id, row.Name, row.SensorType, row.SensorTypeID, row.ValueMapping)
	if err != nil {
		return nil, err
	}

	return ModbusNonNumericSensor{
		NonNumericSensor: nonNumeric,
		Address:          row.Address,
		RegisterType:     row.RegisterType,
	}, nil
}

func identity(id string, name string) (*string, string) {
	return optional(strings.TrimSpace(id)), name
}

// NormalizeUnit turns empty unit cells into absent fields. A unit without a
// unit id (or the reverse) is rejected.
func NormalizeUnit(unit string, unitID string) (*string, *string, error) {
	normalizedUnit, normalizedUnitID := optional(unit), optional(unitID)

	if (normalizedUnit == nil) != (normalizedUnitID == nil) {
		return nil, nil, fmt.Errorf("%w: unit %q and unitId %q must both be set or both be empty", ErrRowRejected, unit, unitID)
	}

	return normalizedUnit, normalizedUnitID, nil
}

func numericSensor(id, name string, multiplier float64, sensorType, sensorTypeID, unit, unitID string) (NumericSensor, error) {
	normalizedUnit, normalizedUnitID, err := NormalizeUnit(unit, unitID)
	if err != nil {
		return NumericSensor{}, err
	}

	return NumericSensor{
		ID:           id,
		Name:         name,
		Multiplier:   multiplier,
		SensorType:   sensorType,
		SensorTypeID: sensorTypeID,
		Unit:         normalizedUnit,
		UnitID:       normalizedUnitID,
	}, nil
}

func nonNumericSensor(id, name, sensorType, sensorTypeID, packedMapping string) (NonNumericSensor, error) {
	mappings, err := DecodeValueMappings(packedMapping)
	if err != nil {
		return NonNumericSensor{}, err
	}

	return NonNumericSensor{
		ID:           id,
		Name:         name,
		SensorType:   sensorType,
		SensorTypeID: sensorTypeID,
		ValueMapping: mappings,
	}, nil
}
