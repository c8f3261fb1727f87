// Package docs holds the OpenAPI description served at /swagger.
// Regenerate with: swag init -g cmd/server/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/clients": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["clients"], "summary": "List clients"},
            "post": {"security": [{"BearerAuth": []}], "tags": ["clients"], "summary": "Create a client"}
        },
        "/clients/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["clients"], "summary": "Get a client"},
            "put": {"security": [{"BearerAuth": []}], "tags": ["clients"], "summary": "Update a client"},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["clients"], "summary": "Delete a client"}
        },
        "/documents": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "List documents"},
            "post": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "Create a document"}
        },
        "/documents/export": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "Export documents"}
        },
        "/documents/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "Get a document"},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "Delete a draft document"}
        },
        "/documents/{id}/items": {
            "put": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "Replace document items"}
        },
        "/documents/{id}/send": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "Mark a document as sent"}
        },
        "/documents/{id}/accept": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "Mark a document as accepted"}
        },
        "/documents/{id}/pay": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "Mark a document as paid"}
        },
        "/documents/{id}/cancel": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "Cancel a document"}
        },
        "/documents/{id}/pdf": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "Download the document as PDF"}
        },
        "/documents/{id}/email": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "Email the document to its client"}
        },
        "/documents/{id}/reminder": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "Send a payment reminder"}
        },
        "/documents/{id}/payments": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["payments"], "summary": "List payments of a document"},
            "post": {"security": [{"BearerAuth": []}], "tags": ["payments"], "summary": "Record a payment"}
        },
        "/recurring": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["recurring"], "summary": "List recurring schedules"},
            "post": {"security": [{"BearerAuth": []}], "tags": ["recurring"], "summary": "Schedule a recurring document"}
        },
        "/recurring/run": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["recurring"], "summary": "Run the recurring batch now"}
        },
        "/recurring/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["recurring"], "summary": "Get a recurring schedule"}
        },
        "/recurring/{id}/deactivate": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["recurring"], "summary": "Stop a recurring schedule"}
        },
        "/dashboard": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["dashboard"], "summary": "Tenant dashboard"}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Docflow API",
	Description:      "Invoices, quotes and other commercial documents with payments and recurring schedules.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
