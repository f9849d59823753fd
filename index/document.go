// Copyright 2025 The picmem Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package index

import (
	"time"

	"github.com/picmem/picmem/core"
)

// Document is the wire form of an image record in the search index.
// The field set mirrors the provisioned index schema.
type Document struct {
	Id                 string     `json:"id"`
	Text               string     `json:"text"`
	Description        string     `json:"description"`
	AdditionalMetadata string     `json:"additionalMetadata"`
	ExternalSourceName string     `json:"externalSourceName"`
	CreatedAt          *time.Time `json:"createdAt"`
	StorageRef         string     `json:"storageRef"`
	Location           *string    `json:"location"`
	Vector             []float32  `json:"vector"`
}

// FromRecord converts a domain record into its index document.
func FromRecord(record *core.ImageRecord) Document {
	return Document{
		Id:                 record.Id,
		Text:               record.Text,
		Description:        record.Caption,
		AdditionalMetadata: record.AdditionalMetadata,
		ExternalSourceName: record.ExternalSource,
		CreatedAt:          record.CreatedAt,
		StorageRef:         record.StorageRef,
		Location:           record.Location,
		Vector:             record.Vector,
	}
}

// ToRecord converts an index document back into a domain record.
func (d *Document) ToRecord() *core.ImageRecord {
	return &core.ImageRecord{
		Id:                 d.Id,
		Text:               d.Text,
		Caption:            d.Description,
		AdditionalMetadata: d.AdditionalMetadata,
		ExternalSource:     d.ExternalSourceName,
		CreatedAt:          d.CreatedAt,
		StorageRef:         d.StorageRef,
		Location:           d.Location,
		Vector:             d.Vector,
	}
}

// DocumentStatus reports the per-document outcome of a batch upsert.
type DocumentStatus struct {
	Key        string
	Succeeded  bool
	StatusCode int
	Message    string
}
