package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "UniApply API",
        "description": "Student application management backend",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Authentication"},
        {"name": "Users", "description": "Operator accounts"},
        {"name": "Students", "description": "Applicant records"},
        {"name": "Universities", "description": "University catalog"},
        {"name": "Programs", "description": "Degree program catalog"},
        {"name": "Applications", "description": "Application workflow"},
        {"name": "Messages", "description": "Per-application conversations"},
        {"name": "Notifications", "description": "Per-user notifications"}
    ],
    "paths": {
        "/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate a user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/users": {
            "get": {
                "tags": ["Users"],
                "summary": "List users",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Users"],
                "summary": "Create user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateUserRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Email already exists"}
                }
            }
        },
        "/users/update-profile": {
            "put": {
                "tags": ["Users"],
                "summary": "Update profile fields",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "User not found"}
                }
            }
        },
        "/users/{id}": {
            "delete": {
                "tags": ["Users"],
                "summary": "Delete user",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "User not found"}
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "parameters": [
                    {"name": "role", "in": "query", "type": "string"},
                    {"name": "user_id", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Students"],
                "summary": "Create student",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Validation failure"},
                    "409": {"description": "Passport number already exists"}
                }
            }
        },
        "/universities": {
            "get": {
                "tags": ["Universities"],
                "summary": "List universities",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Universities"],
                "summary": "Create university",
                "responses": {
                    "201": {"description": "Created"},
                    "403": {"description": "Agents are not allowed to add universities"}
                }
            }
        },
        "/universities/import": {
            "post": {
                "tags": ["Universities"],
                "summary": "Import universities from a spreadsheet",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "200": {"description": "Imported count and created records"},
                    "400": {"description": "Parse failure"}
                }
            }
        },
        "/universities/{id}": {
            "put": {
                "tags": ["Universities"],
                "summary": "Partially update a university",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "University not found"}
                }
            },
            "delete": {
                "tags": ["Universities"],
                "summary": "Delete university",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "University not found"}
                }
            }
        },
        "/programs": {
            "get": {
                "tags": ["Programs"],
                "summary": "List programs",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Programs"],
                "summary": "Create program",
                "responses": {
                    "201": {"description": "Created"},
                    "403": {"description": "Agents are not allowed to add programs"}
                }
            }
        },
        "/programs/{id}": {
            "delete": {
                "tags": ["Programs"],
                "summary": "Delete program",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Program not found"}
                }
            }
        },
        "/applications": {
            "get": {
                "tags": ["Applications"],
                "summary": "List applications",
                "parameters": [
                    {"name": "role", "in": "query", "type": "string"},
                    {"name": "user_id", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Applications"],
                "summary": "Create application with attachments",
                "consumes": ["multipart/form-data"],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/applications_v2": {
            "post": {
                "tags": ["Applications"],
                "summary": "Create application without an owner",
                "consumes": ["multipart/form-data"],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/applications/export": {
            "get": {
                "tags": ["Applications"],
                "summary": "Export applications as CSV or PDF",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        },
        "/applications/{id}/files": {
            "get": {
                "tags": ["Applications"],
                "summary": "List application attachments",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Application not found"}
                }
            },
            "post": {
                "tags": ["Applications"],
                "summary": "Append attachments",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "No files uploaded"}
                }
            }
        },
        "/applications/{id}/status": {
            "put": {
                "tags": ["Applications"],
                "summary": "Update application status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Status is required"},
                    "404": {"description": "Application not found"}
                }
            }
        },
        "/applications/{id}/messages": {
            "get": {
                "tags": ["Messages"],
                "summary": "List application messages",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Messages"],
                "summary": "Post an application message",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "sender and message required"}
                }
            }
        },
        "/notifications": {
            "get": {
                "tags": ["Notifications"],
                "summary": "List notifications for a user",
                "parameters": [
                    {"name": "user_id", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "User ID required"}
                }
            }
        },
        "/notifications/{id}/read": {
            "put": {
                "tags": ["Notifications"],
                "summary": "Mark a notification as read",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Notification not found"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "CreateUserRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "role": {"type": "string"},
                "phone": {"type": "string"},
                "countryCode": {"type": "string"}
            }
        },
        "UpdateProfileRequest": {
            "type": "object",
            "properties": {
                "user_id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "phone": {"type": "string"},
                "countryCode": {"type": "string"}
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
