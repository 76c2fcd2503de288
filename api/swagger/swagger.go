package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Expert Calendar API",
        "description": "Multi-tenant appointment scheduling with recurrence support",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Expert authentication"},
        {"name": "Appointments", "description": "Calendar occurrences and series"},
        {"name": "Exports", "description": "Calendar exports"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate an expert",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/appointments": {
            "get": {
                "tags": ["Appointments"],
                "summary": "List appointments in a range",
                "parameters": [
                    {"name": "start", "in": "query", "required": true, "type": "string", "description": "Inclusive range start (RFC3339 or YYYY-MM-DD)"},
                    {"name": "end", "in": "query", "required": true, "type": "string", "description": "Exclusive range end (RFC3339 or YYYY-MM-DD)"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Appointments"],
                "summary": "Create an appointment, optionally expanding a recurrence rule",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateAppointmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"}
                }
            }
        },
        "/appointments/{id}": {
            "patch": {
                "tags": ["Appointments"],
                "summary": "Patch an appointment under a scope",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "scope", "in": "query", "type": "string", "enum": ["single", "series", "future"]},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateAppointmentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Owned by another expert"},
                    "404": {"description": "Not found"}
                }
            },
            "delete": {
                "tags": ["Appointments"],
                "summary": "Delete an appointment under a scope",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "scope", "in": "query", "type": "string", "enum": ["single", "series", "future"]}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Owned by another expert"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/appointments/export.ics": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export a calendar range as an ICS feed",
                "parameters": [
                    {"name": "start", "in": "query", "required": true, "type": "string"},
                    {"name": "end", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "VCALENDAR document"}
                }
            }
        },
        "/appointments/agenda.pdf": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export a calendar range as a PDF agenda",
                "parameters": [
                    {"name": "start", "in": "query", "required": true, "type": "string"},
                    {"name": "end", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF document"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "RecurrenceInput": {
            "type": "object",
            "properties": {
                "enabled": {"type": "boolean"},
                "freq": {"type": "string", "enum": ["DAILY", "WEEKLY", "MONTHLY"]},
                "interval": {"type": "integer"},
                "mode": {"type": "string", "enum": ["count", "until"]},
                "count": {"type": "integer"},
                "until": {"type": "string"},
                "weekdays": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "CreateAppointmentRequest": {
            "type": "object",
            "required": ["title", "startAt"],
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "location": {"type": "string"},
                "startAt": {"type": "string"},
                "endAt": {"type": "string"},
                "allDay": {"type": "boolean"},
                "color": {"type": "string"},
                "recurrence": {"$ref": "#/definitions/RecurrenceInput"}
            }
        },
        "UpdateAppointmentRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "location": {"type": "string"},
                "startAt": {"type": "string"},
                "endAt": {"type": "string"},
                "allDay": {"type": "boolean"},
                "color": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
