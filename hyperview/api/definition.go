package api

import (
	"fmt"
)

type Definition struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	AssetType        string `json:"assetType"`
	AssociatedAssets int    `json:"associatedAssets"`
}

func (definition Definition) String() string {
	return fmt.Sprintf(
		"id: %s\nname: %s\nasset type: %s\nassociated assets: %d",
		definition.ID, definition.Name, definition.AssetType, definition.AssociatedAssets,
	)
}

// definitionRequest is the body of a create call; the server assigns the rest.
type definitionRequest struct {
	Name      string `json:"name"`
	AssetType string `json:"assetType"`
}

type SensorType struct {
	AbbreviatedUnit     LenientString `json:"abbreviatedUnit"`
	IsManuallyCreatable bool          `json:"isManuallyCreatable"`
	MinimumValidValue   LenientString `json:"minimumValidValue"`
	SensorDescription   LenientString `json:"sensorDescription"`
	SensorParentType    LenientString `json:"sensorParentType"`
	SensorTypeID        LenientString `json:"sensorTypeId"`
	UnitDescription     LenientString `json:"unitDescription"`
	UnitID              LenientString `json:"unitId"`
}

func (sensorType SensorType) String() string {
	return fmt.Sprintf(
		"id: %s\ndescription: %s\nunit id: %s\nunit: %s",
		sensorType.SensorTypeID, sensorType.SensorDescription, sensorType.UnitID, sensorType.UnitDescription,
	)
}
