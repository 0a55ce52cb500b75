// Package docs registers the swagger document served at /swagger.
// Regenerate with swag init -g cmd/main.go after changing handler annotations.
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
        "/auth/login": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "auth"
                ],
                "summary": "Sign in as an admin",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/auth/logout": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "auth"
                ],
                "summary": "Log out and clear the session cookie",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/societies/public": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "societies"
                ],
                "summary": "List societies",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/societies/public/{id}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "societies"
                ],
                "summary": "Get a society",
                "parameters": [
                    {
                        "type": "integer",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/societies/active": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "societies"
                ],
                "summary": "List active societies by name",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/societies/latest-data": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "societies"
                ],
                "summary": "Latest approved data of a society",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/societies/statistics": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "societies"
                ],
                "summary": "Society counts",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/societies/register": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "societies"
                ],
                "summary": "Apply to register a new society",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/societies/registration/download/{id}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "societies"
                ],
                "summary": "Registration document",
                "parameters": [
                    {
                        "type": "integer",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/renewals/submit": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "renewals"
                ],
                "summary": "Apply to renew an existing society",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/renewals/{id}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "renewals"
                ],
                "summary": "Get a renewal",
                "parameters": [
                    {
                        "type": "integer",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/renewals/statistics": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "renewals"
                ],
                "summary": "Renewal counts",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/renewals/download/{id}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "renewals"
                ],
                "summary": "Renewal document",
                "parameters": [
                    {
                        "type": "integer",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/renewals/admin/pending": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "renewals"
                ],
                "summary": "Renewals waiting on the signed-in admin",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/renewals/admin/all": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "renewals"
                ],
                "summary": "Page through every renewal",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/renewals/admin/approve/{id}": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "renewals"
                ],
                "summary": "Approve a renewal at the current stage",
                "parameters": [
                    {
                        "type": "integer",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/renewals/admin/reject/{id}": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "renewals"
                ],
                "summary": "Reject a renewal",
                "parameters": [
                    {
                        "type": "integer",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/events/request": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "events"
                ],
                "summary": "Request permission to hold an event",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/events/validate-applicant": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "events"
                ],
                "summary": "Check an applicant against the society's office bearers",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/events/preview-pdf": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "events"
                ],
                "summary": "Render an event request before submitting it",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/events/{id}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "events"
                ],
                "summary": "Get an event request",
                "parameters": [
                    {
                        "type": "integer",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/events/public/upcoming": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "events"
                ],
                "summary": "Approved events from today on",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/events/applicant-details": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "events"
                ],
                "summary": "Office bearer details for a position",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/events/download/{id}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "events"
                ],
                "summary": "Event permission document",
                "parameters": [
                    {
                        "type": "integer",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/events/admin/pending": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "events"
                ],
                "summary": "Events waiting on the signed-in admin",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/events/admin/all": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "events"
                ],
                "summary": "Page through every event request",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/events/admin/approve/{id}": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "events"
                ],
                "summary": "Approve an event at the current stage",
                "parameters": [
                    {
                        "type": "integer",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/events/admin/reject/{id}": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "events"
                ],
                "summary": "Reject an event",
                "parameters": [
                    {
                        "type": "integer",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/admin/user-info": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "admin"
                ],
                "summary": "Get the signed-in admin",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/admin/dashboard": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "admin"
                ],
                "summary": "Admin dashboard counters",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/admin/pending-approvals": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "admin"
                ],
                "summary": "Applications of every kind waiting on the signed-in admin",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/admin/societies": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "admin"
                ],
                "summary": "Page through societies",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/admin/activity-logs": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "admin"
                ],
                "summary": "Audit trail",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/admin/approve-registration/{id}": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "admin"
                ],
                "summary": "Approve a registration at the current stage",
                "parameters": [
                    {
                        "type": "integer",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/admin/reject-registration/{id}": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "admin"
                ],
                "summary": "Reject a registration",
                "parameters": [
                    {
                        "type": "integer",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/admin/send-email": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "admin"
                ],
                "summary": "Email a list of recipients",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/admin/ar/manage-admin/add": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "admin"
                ],
                "summary": "Create an admin account",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/admin/ar/manage-admin/toggle-active": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "admin"
                ],
                "summary": "Activate or deactivate an admin account",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/admin/ar/manage-admin/remove": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "admin"
                ],
                "summary": "Delete an admin account",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/admin/ar/manage-admin/all": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "admin"
                ],
                "summary": "Every admin account",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/admin/ar/deactivate-lapsed": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "admin"
                ],
                "summary": "Mark societies that missed their renewal inactive",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/admin/ar/maintenance": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "admin"
                ],
                "summary": "Maintenance mode state",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            },
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "admin"
                ],
                "summary": "Turn maintenance mode on or off",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/admin/ss/monitoring-applications": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "admin"
                ],
                "summary": "Every application of every kind, newest first",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/files/export/societies": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "files"
                ],
                "summary": "Download societies as CSV",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/files/verify": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "files"
                ],
                "summary": "Resolve the QR code printed on a document",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/validation/email": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "validation"
                ],
                "summary": "Check an email address",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/validation/mobile": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "validation"
                ],
                "summary": "Check a mobile number",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/validation/registration-number": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "validation"
                ],
                "summary": "Check a student registration number",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/validation/bulk-emails": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "validation"
                ],
                "summary": "Check a list of email addresses",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Society Management Portal API",
	Description:      "Registration, renewal and event permission workflows for university societies.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
