package api

import (
	"fmt"
	"strings"
)

// NumericSensor holds the fields shared by BACnet and Modbus numeric sensors.
// Unit and UnitID are nil when the sensor has no unit; they are never sent as "".
type NumericSensor struct {
	ID           string  `json:"id,omitempty"`
	Name         string  `json:"name"`
	Multiplier   float64 `json:"multiplier"`
	SensorType   string  `json:"sensorType"`
	SensorTypeID string  `json:"sensorTypeId"`
	Unit         *string `json:"unit,omitempty"`
	UnitID       *string `json:"unitId,omitempty"`
}

type BacnetNumericSensor struct {
	NumericSensor
	ObjectInstance int    `json:"objectInstance"`
	ObjectType     string `json:"objectType"`
}

func (sensor BacnetNumericSensor) String() string {
	return fmt.Sprintf(
		"id: %s\nname: %s\nmultiplier: %v\nobject instance: %d\nobject type: %s\nsensor type: %s\nsensor type id: %s\nunit: %s\nunit id: %s",
		sensor.ID, sensor.Name, sensor.Multiplier, sensor.ObjectInstance, sensor.ObjectType,
		sensor.SensorType, sensor.SensorTypeID, deref(sensor.Unit), deref(sensor.UnitID),
	)
}

type ModbusNumericSensor struct {
	NumericSensor
	Address      int    `json:"address"`
	RegisterType string `json:"registerType"`
}

func (sensor ModbusNumericSensor) String() string {
	return fmt.Sprintf(
		"id: %s\nname: %s\nmultiplier: %v\naddress: %d\nregister type: %s\nsensor type: %s\nsensor type id: %s\nunit: %s\nunit id: %s",
		sensor.ID, sensor.Name, sensor.Multiplier, sensor.Address, sensor.RegisterType,
		sensor.SensorType, sensor.SensorTypeID, deref(sensor.Unit), deref(sensor.UnitID),
	)
}

// NonNumericSensor holds the fields shared by enumerated sensors. The order of
// ValueMapping is the display order and is kept end-to-end.
type NonNumericSensor struct {
	ID           string         `json:"id,omitempty"`
	Name         string         `json:"name"`
	SensorType   string         `json:"sensorType"`
	SensorTypeID string         `json:"sensorTypeId"`
	ValueMapping []ValueMapping `json:"valueMapping"`
}

func (sensor NonNumericSensor) mappingLines() string {
	var builder strings.Builder

	for _, mapping := range sensor.ValueMapping {
		builder.WriteString("\n")
		builder.WriteString(mapping.String())
	}

	return builder.String()
}

type BacnetNonNumericSensor struct {
	NonNumericSensor
	ObjectInstance int    `json:"objectInstance"`
	ObjectType     string `json:"objectType"`
}

func (sensor BacnetNonNumericSensor) String() string {
	return fmt.Sprintf(
		"id: %s\nname: %s\nobject instance: %d\nobject type: %s\nsensor type: %s\nsensor type id: %s\nvalue mapping:%s",
		sensor.ID, sensor.Name, sensor.ObjectInstance, sensor.ObjectType,
		sensor.SensorType, sensor.SensorTypeID, sensor.mappingLines(),
	)
}

type ModbusNonNumericSensor struct {
	NonNumericSensor
	Address      int    `json:"address"`
	RegisterType string `json:"registerType"`
}

func (sensor ModbusNonNumericSensor) String() string {
	return fmt.Sprintf(
		"id: %s\nname: %s\naddress: %d\nregister type: %s\nsensor type: %s\nsensor type id: %s\nvalue mapping:%s",
		sensor.ID, sensor.Name, sensor.Address, sensor.RegisterType,
		sensor.SensorType, sensor.SensorTypeID, sensor.mappingLines(),
	)
}
