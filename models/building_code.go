package models

import (
	"time"

	"github.com/google/uuid"
)

// CodeType classifies a building code by regulatory domain
type CodeType string

const (
	CodeTypeBuilding      CodeType = "building"
	CodeTypeFire          CodeType = "fire"
	CodeTypePlumbing      CodeType = "plumbing"
	CodeTypeElectrical    CodeType = "electrical"
	CodeTypeMechanical    CodeType = "mechanical"
	CodeTypeEnergy        CodeType = "energy"
	CodeTypeAccessibility CodeType = "accessibility"
	CodeTypeZoning        CodeType = "zoning"
	CodeTypeLocal         CodeType = "local"
)

// AllCodeTypes lists every accepted code type, in display order
var AllCodeTypes = []CodeType{
	CodeTypeBuilding,
	CodeTypeFire,
	CodeTypePlumbing,
	CodeTypeElectrical,
	CodeTypeMechanical,
	CodeTypeEnergy,
	CodeTypeAccessibility,
	CodeTypeZoning,
	CodeTypeLocal,
}

// IsValidCodeType reports whether t is one of the accepted code types
func IsValidCodeType(t CodeType) bool {
	for _, v := range AllCodeTypes {
		if t == v {
			return true
		}
	}
	return false
}

// BuildingCode represents a tracked regulatory code (e.g., a fire code).
// Abbreviation is the natural key and is unique across all codes.
type BuildingCode struct {
	ID           uuid.UUID `json:"id"`
	CodeName     string    `json:"codeName"`
	Abbreviation string    `json:"codeAbbreviation"`
	Jurisdiction *string   `json:"jurisdiction"`
	CodeType     CodeType  `json:"codeType"`
	IsActive     bool      `json:"isActive"`
	Description  *string   `json:"description"`
	OfficialURL  *string   `json:"officialUrl"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// BuildingCodeDetail is a BuildingCode enriched with its versions,
// newest first, as returned by the catalog listing.
type BuildingCodeDetail struct {
	BuildingCode
	Versions []*BuildingCodeVersion `json:"versions"`
}
