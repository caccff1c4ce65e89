package types

import (
	"encoding/json"
)

// ObjectRef identifies one version of an object.
type ObjectRef struct {
	ObjectID string         `json:"objectId"`
	Version  SequenceNumber `json:"version"`
	Digest   string         `json:"digest"`
}

// OwnedObjectRef is an object reference together with its owner, as listed in effects.
type OwnedObjectRef struct {
	Owner     Owner     `json:"owner"`
	Reference ObjectRef `json:"reference"`
}

type ObjectVersion struct {
	ObjectID       string         `json:"objectId"`
	SequenceNumber SequenceNumber `json:"sequenceNumber"`
}

type MoveContent struct {
	DataType          string          `json:"dataType"`
	Type              string          `json:"type,omitempty"`
	HasPublicTransfer bool            `json:"hasPublicTransfer"`
	Fields            json.RawMessage `json:"fields,omitempty"`
	Disassembled      json.RawMessage `json:"disassembled,omitempty"`
}

type ObjectData struct {
	ObjectID            string          `json:"objectId"`
	Version             SequenceNumber  `json:"version"`
	Digest              string          `json:"digest"`
	Type                string          `json:"type,omitempty"`
	Owner               Owner           `json:"owner"`
	PreviousTransaction string          `json:"previousTransaction,omitempty"`
	StorageRebate       string          `json:"storageRebate,omitempty"`
	Display             json.RawMessage `json:"display,omitempty"`
	Content             *MoveContent    `json:"content,omitempty"`
	Bcs                 json.RawMessage `json:"bcs,omitempty"`
}

func (o *ObjectData) Ref() ObjectRef {
	return ObjectRef{ObjectID: o.ObjectID, Version: o.Version, Digest: o.Digest}
}

// ObjectResponse is the result of sui_getObject and one entry of an owned-objects page.
// When the object does not exist, Data is empty and Error describes why.
type ObjectResponse struct {
	Data  ObjectData      `json:"data"`
	Error json.RawMessage `json:"error,omitempty"`
}

func (r *ObjectResponse) Exists() bool {
	return r.Data.ObjectID != ""
}

type ObjectsPage struct {
	Data        []ObjectResponse `json:"data"`
	NextCursor  *string          `json:"nextCursor"`
	HasNextPage bool             `json:"hasNextPage"`
}

// ObjectIDs lists the ids of every object on the page.
func (p *ObjectsPage) ObjectIDs() []string {
	ids := make([]string, 0, len(p.Data))
	for _, o := range p.Data {
		if o.Exists() {
			ids = append(ids, o.Data.ObjectID)
		}
	}
	return ids
}
