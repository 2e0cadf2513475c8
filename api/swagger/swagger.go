package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "ITS API",
        "description": "Accounts, roles and tutor-student relationships for the intelligent tutoring platform",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Signup, login and session management"},
        {"name": "Students", "description": "Student roster queries"},
        {"name": "Tutors", "description": "Tutor roster queries"},
        {"name": "Roles", "description": "Bulk promote/demote"},
        {"name": "Relationships", "description": "Tutor-student links"}
    ],
    "paths": {
        "/signup": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Create account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SignUpRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation or duplicate email", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate and issue tokens",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SignInRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Rotate the refresh token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid or revoked token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Revoke the refresh token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid or revoked token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/change-password": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Change password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChangePasswordRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Old password mismatch", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "patch": {
                "tags": ["Authentication"],
                "summary": "Update username and organisation",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List or filter students",
                "parameters": [
                    {"name": "student_ids", "in": "query", "type": "string", "description": "Repeated or comma-joined ids"},
                    {"name": "tutor_id", "in": "query", "type": "integer"},
                    {"name": "invert", "in": "query", "type": "boolean", "description": "Students NOT taught by the tutor"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Non-integer id", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/tutors": {
            "get": {
                "tags": ["Tutors"],
                "summary": "List or filter tutors",
                "parameters": [
                    {"name": "tutor_ids", "in": "query", "type": "string", "description": "Repeated or comma-joined ids"},
                    {"name": "student_id", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Non-integer id", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/promote": {
            "post": {
                "tags": ["Roles"],
                "summary": "Promote students to tutors",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PromoteRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Missing student_ids", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/tutors/demote": {
            "post": {
                "tags": ["Roles"],
                "summary": "Demote tutors to students",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DemoteRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Missing tutor_ids", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/relationships": {
            "post": {
                "tags": ["Relationships"],
                "summary": "Link tutors to students",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TeachesRequest"}}
                ],
                "responses": {
                    "200": {"description": "Per-pair report", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Malformed payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "User": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "email": {"type": "string"},
                "username": {"type": "string"},
                "organisation": {"type": "string"},
                "is_student": {"type": "boolean"},
                "is_tutor": {"type": "boolean"},
                "is_manager": {"type": "boolean"},
                "date_joined": {"type": "string"}
            }
        },
        "SignUpRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "username": {"type": "string"},
                "organisation": {"type": "string"},
                "is_student": {"type": "boolean"},
                "is_tutor": {"type": "boolean"},
                "is_manager": {"type": "boolean"}
            },
            "required": ["email", "password"]
        },
        "SignInRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "RefreshRequest": {
            "type": "object",
            "properties": {
                "refresh_token": {"type": "string"}
            },
            "required": ["refresh_token"]
        },
        "ChangePasswordRequest": {
            "type": "object",
            "properties": {
                "old_password": {"type": "string"},
                "new_password": {"type": "string"}
            },
            "required": ["old_password", "new_password"]
        },
        "UpdateProfileRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "organisation": {"type": "string"}
            }
        },
        "PromoteRequest": {
            "type": "object",
            "properties": {
                "student_ids": {"type": "array", "items": {"type": "integer"}}
            },
            "required": ["student_ids"]
        },
        "DemoteRequest": {
            "type": "object",
            "properties": {
                "tutor_ids": {"type": "array", "items": {"type": "integer"}}
            },
            "required": ["tutor_ids"]
        },
        "TeachesRequest": {
            "type": "object",
            "properties": {
                "tutor_id": {"type": "integer"},
                "student_ids": {"type": "array", "items": {"type": "integer"}}
            },
            "required": ["student_ids"]
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
