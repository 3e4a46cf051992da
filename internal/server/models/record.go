package models

import (
	"strings"
	"time"
)

// DataType classifies what a record's payload holds.
type DataType string

const (
	DataTypePassword DataType = "password"
	DataTypeNote     DataType = "note"
	DataTypeCard     DataType = "card"
	DataTypeAccount  DataType = "account"
	DataTypeOther    DataType = "other"
)

// DataTypes lists every accepted DataType in display order.
var DataTypes = []DataType{DataTypePassword, DataTypeNote, DataTypeCard, DataTypeAccount, DataTypeOther}

func (t DataType) Valid() bool {
	for _, v := range DataTypes {
		if t == v {
			return true
		}
	}
	return false
}

// DataTypeList renders DataTypes as "password, note, ...".
func DataTypeList() string {
	s := make([]string, len(DataTypes))
	for i, v := range DataTypes {
		s[i] = string(v)
	}
	return strings.Join(s, ", ")
}

// Record is a single vault entry. EncryptedData is never serialized;
// Plaintext is only filled transiently when the owner reads the record.
type Record struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	CategoryID    *string   `json:"category_id"`
	Title         string    `json:"title"`
	Description   *string   `json:"description"`
	DataType      DataType  `json:"data_type"`
	EncryptedData []byte    `json:"-"`
	Tags          []string  `json:"tags"`
	IsFavorite    bool      `json:"is_favorite"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Category      *Category `json:"category,omitempty"`
	Plaintext     *string   `json:"decrypted_data,omitempty"`
}

// RecordInput is the body of a create request. Data is the plaintext
// payload to be sealed.
type RecordInput struct {
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	DataType    DataType `json:"data_type"`
	Data        string   `json:"data"`
	Tags        []string `json:"tags"`
	IsFavorite  *bool    `json:"is_favorite"`
	CategoryID  *string  `json:"category_id"`
}

// RecordPatch is the body of an update request. A set CategoryID holding
// nil detaches the record from its category.
type RecordPatch struct {
	Title       Optional[string]   `json:"title,omitzero"`
	Description Optional[*string]  `json:"description,omitzero"`
	DataType    Optional[DataType] `json:"data_type,omitzero"`
	Data        Optional[string]   `json:"data,omitzero"`
	Tags        Optional[[]string] `json:"tags,omitzero"`
	IsFavorite  Optional[bool]     `json:"is_favorite,omitzero"`
	CategoryID  Optional[*string]  `json:"category_id,omitzero"`
}
