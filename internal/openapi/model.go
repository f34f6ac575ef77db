// Package openapi provides the structs that make up an OpenAPI 3.0 document.
package openapi

import (
	"fmt"
	"strings"
)

// Version is the OpenAPI version emitted in every document.
const Version = "3.0.0"

// Document is the root object of the OpenAPI specification.
type Document struct {
	OpenAPI    string               `json:"openapi"`
	Info       Info                 `json:"info"`
	Paths      map[string]*PathItem `json:"paths"`
	Components *Components          `json:"components,omitempty"`
}

// Info provides metadata about the API.
type Info struct {
	Title   string `json:"title"`
	Version string `json:"version"`
}

// PathItem describes the operations available on a single path.
type PathItem struct {
	Get     *Operation `json:"get,omitempty"`
	Post    *Operation `json:"post,omitempty"`
	Put     *Operation `json:"put,omitempty"`
	Delete  *Operation `json:"delete,omitempty"`
	Patch   *Operation `json:"patch,omitempty"`
	Head    *Operation `json:"head,omitempty"`
	Options *Operation `json:"options,omitempty"`
}

// Set assigns op to the slot named by method (case-insensitive).
func (p *PathItem) Set(method string, op *Operation) error {
	switch strings.ToLower(method) {
	case "get":
		p.Get = op
	case "post":
		p.Post = op
	case "put":
		p.Put = op
	case "delete":
		p.Delete = op
	case "patch":
		p.Patch = op
	case "head":
		p.Head = op
	case "options":
		p.Options = op
	default:
		return fmt.Errorf("unsupported method %q", method)
	}
	return nil
}

// Operation describes a single API operation on a path.
type Operation struct {
	Summary     string               `json:"summary,omitempty"`
	Description string               `json:"description,omitempty"`
	OperationID string               `json:"operationId,omitempty"`
	Responses   map[string]*Response `json:"responses"`
}

// Response describes a single response of an operation.
type Response struct {
	Description string                `json:"description"`
	Content     map[string]*MediaType `json:"content,omitempty"`
}

// MediaType holds the schema for one content type.
type MediaType struct {
	Schema *Schema `json:"schema,omitempty"`
}

// Schema is the subset of the JSON Schema dialect used by this service.
type Schema struct {
	Ref        string             `json:"$ref,omitempty"`
	Type       string             `json:"type,omitempty"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Items      *Schema            `json:"items,omitempty"`
	Required   []string           `json:"required,omitempty"`
}

// Components holds reusable schemas referenced from operations.
type Components struct {
	Schemas map[string]*Schema `json:"schemas,omitempty"`
}

// RefTo returns a reference schema pointing at a named component.
func RefTo(name string) *Schema {
	return &Schema{Ref: "#/components/schemas/" + name}
}
