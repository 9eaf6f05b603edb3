// Package fines holds the OpenAPI description of the fines HTTP API served
// under /swagger/. Regenerate it after changing handler annotations.
//
//go:generate swag init --dir ../../internal/fines/http,../../pkg/finesdk --generalInfo router.go --output . --outputTypes go --packageName fines
package fines

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "AussieBroadWAN Team",
            "url": "https://github.com/aussiebroadwan/finepay"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/v1/fines": {
            "get": {
                "description": "With one criterion only exact matches are returned. With several criteria any fine matching one of them is returned.",
                "produces": ["application/json"],
                "tags": ["Fines"],
                "summary": "Search fines",
                "parameters": [
                    {"type": "string", "description": "Driver national ID number", "name": "idNumber", "in": "query"},
                    {"type": "string", "description": "Notice number", "name": "noticeNumber", "in": "query"},
                    {"type": "string", "description": "Vehicle registration", "name": "vehicleRegistration", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/finesdk.SearchResponse"}},
                    "429": {"description": "rate_limit_exceeded", "schema": {"$ref": "#/definitions/finesdk.APIError"}}
                }
            }
        },
        "/v1/fines/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Fines"],
                "summary": "Get a fine",
                "parameters": [
                    {"type": "string", "description": "Fine id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/finesdk.Fine"}},
                    "404": {"description": "not_found", "schema": {"$ref": "#/definitions/finesdk.APIError"}}
                }
            }
        },
        "/v1/municipalities": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Fines"],
                "summary": "List municipalities",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/finesdk.MunicipalitiesResponse"}}
                }
            }
        },
        "/v1/users": {
            "post": {
                "description": "Creates an account and returns it with a signed access token.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Register an account",
                "parameters": [
                    {"description": "New account", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/finesdk.RegisterUserRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/finesdk.AuthResponse"}},
                    "400": {"description": "validation_error", "schema": {"$ref": "#/definitions/finesdk.APIError"}},
                    "409": {"description": "duplicate_account", "schema": {"$ref": "#/definitions/finesdk.APIError"}},
                    "429": {"description": "rate_limit_exceeded", "schema": {"$ref": "#/definitions/finesdk.APIError"}}
                }
            }
        },
        "/v1/sessions": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Sign in",
                "parameters": [
                    {"description": "Credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/finesdk.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/finesdk.AuthResponse"}},
                    "401": {"description": "invalid_credentials", "schema": {"$ref": "#/definitions/finesdk.APIError"}},
                    "429": {"description": "rate_limit_exceeded", "schema": {"$ref": "#/definitions/finesdk.APIError"}}
                }
            }
        },
        "/v1/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Me"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/finesdk.User"}},
                    "401": {"description": "unauthenticated", "schema": {"$ref": "#/definitions/finesdk.APIError"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Me"],
                "summary": "Update profile",
                "parameters": [
                    {"description": "Fields to change", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/finesdk.UpdateProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/finesdk.User"}},
                    "400": {"description": "validation_error", "schema": {"$ref": "#/definitions/finesdk.APIError"}},
                    "409": {"description": "duplicate_account", "schema": {"$ref": "#/definitions/finesdk.APIError"}}
                }
            }
        },
        "/v1/me/fines": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Me"],
                "summary": "My fines",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/finesdk.SearchResponse"}}
                }
            }
        },
        "/v1/me/payments": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Me"],
                "summary": "My payments",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/finesdk.PaymentHistoryResponse"}}
                }
            }
        },
        "/v1/me/dashboard": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Me"],
                "summary": "Dashboard",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/finesdk.DashboardResponse"}}
                }
            }
        },
        "/v1/me/vehicles": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Me"],
                "summary": "Add vehicle",
                "parameters": [
                    {"description": "Vehicle", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/finesdk.AddVehicleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/finesdk.User"}},
                    "400": {"description": "validation_error", "schema": {"$ref": "#/definitions/finesdk.APIError"}},
                    "409": {"description": "duplicate_vehicle", "schema": {"$ref": "#/definitions/finesdk.APIError"}}
                }
            }
        },
        "/v1/me/vehicles/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Me"],
                "summary": "Remove vehicle",
                "parameters": [
                    {"type": "string", "description": "Vehicle id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "not_found", "schema": {"$ref": "#/definitions/finesdk.APIError"}}
                }
            }
        },
        "/v1/payments": {
            "post": {
                "description": "Creates a payment session for the full fine amount and returns the hosted checkout form to POST to the gateway. Anonymous callers must supply an email.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Payments"],
                "summary": "Start paying a fine",
                "parameters": [
                    {"description": "Fine to pay", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/finesdk.InitiatePaymentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/finesdk.InitiatePaymentResponse"}},
                    "400": {"description": "validation_error", "schema": {"$ref": "#/definitions/finesdk.APIError"}},
                    "404": {"description": "not_found", "schema": {"$ref": "#/definitions/finesdk.APIError"}},
                    "409": {"description": "not_payable", "schema": {"$ref": "#/definitions/finesdk.APIError"}}
                }
            }
        },
        "/payment/notify/{fineId}": {
            "post": {
                "description": "Called by the payment gateway. Always answers 200 once the notification is understood so the gateway stops retrying.",
                "consumes": ["application/x-www-form-urlencoded"],
                "tags": ["Payments"],
                "summary": "Gateway notification",
                "parameters": [
                    {"type": "string", "description": "Fine id", "name": "fineId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "invalid_request", "schema": {"$ref": "#/definitions/finesdk.APIError"}},
                    "404": {"description": "not_found", "schema": {"$ref": "#/definitions/finesdk.APIError"}}
                }
            }
        },
        "/payment/{fineId}/success": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Payments"],
                "summary": "Payment return page",
                "parameters": [
                    {"type": "string", "description": "Fine id", "name": "fineId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/finesdk.PaymentOutcomeResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/finesdk.APIError"}}
                }
            }
        },
        "/payment/{fineId}/cancel": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Payments"],
                "summary": "Payment cancel page",
                "parameters": [
                    {"type": "string", "description": "Fine id", "name": "fineId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/finesdk.PaymentOutcomeResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/finesdk.APIError"}}
                }
            }
        },
        "/livez": {
            "get": {
                "description": "Liveness probe returning status, uptime and version. Always 200 while the process runs.",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health Check Endpoint",
                "responses": {
                    "200": {"description": "status, uptime, version", "schema": {"$ref": "#/definitions/finesdk.HealthResponse"}}
                }
            }
        },
        "/readyz": {
            "get": {
                "description": "Readiness probe checking the database, the optional cache and the token signer.",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness Check Endpoint",
                "responses": {
                    "200": {"description": "status, uptime, version, checks", "schema": {"$ref": "#/definitions/finesdk.HealthResponse"}},
                    "503": {"description": "service not ready", "schema": {"$ref": "#/definitions/finesdk.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "finesdk.APIError": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "error_description": {"type": "string"},
                "fields": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "finesdk.ContactInfo": {
            "type": "object",
            "properties": {
                "address": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"}
            }
        },
        "finesdk.Municipality": {
            "type": "object",
            "properties": {
                "contactInfo": {"$ref": "#/definitions/finesdk.ContactInfo"},
                "id": {"type": "string"},
                "isSupported": {"type": "boolean"},
                "logoUrl": {"type": "string"},
                "name": {"type": "string"},
                "province": {"type": "string"}
            }
        },
        "finesdk.MunicipalitiesResponse": {
            "type": "object",
            "properties": {
                "municipalities": {"type": "array", "items": {"$ref": "#/definitions/finesdk.Municipality"}}
            }
        },
        "finesdk.Offense": {
            "type": "object",
            "properties": {
                "category": {"type": "string"},
                "code": {"type": "string"},
                "description": {"type": "string"},
                "points": {"type": "integer"}
            }
        },
        "finesdk.Fine": {
            "type": "object",
            "properties": {
                "amount": {"type": "number"},
                "discountAmount": {"type": "number"},
                "discountValidUntil": {"type": "string"},
                "driverIdNumber": {"type": "string"},
                "dueDate": {"type": "string"},
                "id": {"type": "string"},
                "issueDate": {"type": "string"},
                "location": {"type": "string"},
                "municipality": {"$ref": "#/definitions/finesdk.Municipality"},
                "noticeNumber": {"type": "string"},
                "offense": {"$ref": "#/definitions/finesdk.Offense"},
                "status": {"type": "string"},
                "vehicleRegistration": {"type": "string"}
            }
        },
        "finesdk.SearchResponse": {
            "type": "object",
            "properties": {
                "results": {"type": "array", "items": {"$ref": "#/definitions/finesdk.Fine"}}
            }
        },
        "finesdk.Vehicle": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "make": {"type": "string"},
                "model": {"type": "string"},
                "registration": {"type": "string"},
                "userId": {"type": "string"},
                "year": {"type": "integer"}
            }
        },
        "finesdk.PaymentRecord": {
            "type": "object",
            "properties": {
                "amount": {"type": "number"},
                "fineId": {"type": "string"},
                "id": {"type": "string"},
                "paymentDate": {"type": "string"},
                "paymentMethod": {"type": "string"},
                "status": {"type": "string"},
                "transactionId": {"type": "string"}
            }
        },
        "finesdk.User": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "firstName": {"type": "string"},
                "id": {"type": "string"},
                "idNumber": {"type": "string"},
                "lastName": {"type": "string"},
                "paymentHistory": {"type": "array", "items": {"$ref": "#/definitions/finesdk.PaymentRecord"}},
                "phone": {"type": "string"},
                "vehicles": {"type": "array", "items": {"$ref": "#/definitions/finesdk.Vehicle"}}
            }
        },
        "finesdk.RegisterUserRequest": {
            "type": "object",
            "required": ["email", "firstName", "idNumber", "lastName", "password", "phone"],
            "properties": {
                "email": {"type": "string"},
                "firstName": {"type": "string", "maxLength": 100},
                "idNumber": {"type": "string"},
                "lastName": {"type": "string", "maxLength": 100},
                "password": {"type": "string", "maxLength": 128, "minLength": 8},
                "phone": {"type": "string", "maxLength": 32}
            }
        },
        "finesdk.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "finesdk.AuthResponse": {
            "type": "object",
            "properties": {
                "expiresAt": {"type": "string"},
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/finesdk.User"}
            }
        },
        "finesdk.UpdateProfileRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "firstName": {"type": "string", "maxLength": 100, "minLength": 1},
                "idNumber": {"type": "string"},
                "lastName": {"type": "string", "maxLength": 100, "minLength": 1},
                "phone": {"type": "string", "maxLength": 32}
            }
        },
        "finesdk.AddVehicleRequest": {
            "type": "object",
            "required": ["make", "model", "registration"],
            "properties": {
                "make": {"type": "string", "maxLength": 64},
                "model": {"type": "string", "maxLength": 64},
                "registration": {"type": "string"},
                "year": {"type": "integer", "maximum": 2100, "minimum": 1900}
            }
        },
        "finesdk.PaymentHistoryResponse": {
            "type": "object",
            "properties": {
                "payments": {"type": "array", "items": {"$ref": "#/definitions/finesdk.PaymentRecord"}}
            }
        },
        "finesdk.DashboardStats": {
            "type": "object",
            "properties": {
                "outstandingCount": {"type": "integer"},
                "outstandingTotal": {"type": "number"},
                "overdueCount": {"type": "integer"},
                "paidCount": {"type": "integer"},
                "totalCount": {"type": "integer"},
                "totalPaid": {"type": "number"},
                "vehicleCount": {"type": "integer"}
            }
        },
        "finesdk.DashboardResponse": {
            "type": "object",
            "properties": {
                "recentFines": {"type": "array", "items": {"$ref": "#/definitions/finesdk.Fine"}},
                "stats": {"$ref": "#/definitions/finesdk.DashboardStats"}
            }
        },
        "finesdk.InitiatePaymentRequest": {
            "type": "object",
            "required": ["fineId"],
            "properties": {
                "email": {"type": "string"},
                "fineId": {"type": "string"}
            }
        },
        "finesdk.PaymentSession": {
            "type": "object",
            "properties": {
                "amount": {"type": "number"},
                "expiresAt": {"type": "string"},
                "fineId": {"type": "string"},
                "id": {"type": "string"},
                "paymentUrl": {"type": "string"}
            }
        },
        "finesdk.FormField": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "value": {"type": "string"}
            }
        },
        "finesdk.Checkout": {
            "type": "object",
            "properties": {
                "action": {"type": "string"},
                "fields": {"type": "array", "items": {"$ref": "#/definitions/finesdk.FormField"}},
                "method": {"type": "string"}
            }
        },
        "finesdk.InitiatePaymentResponse": {
            "type": "object",
            "properties": {
                "checkout": {"$ref": "#/definitions/finesdk.Checkout"},
                "session": {"$ref": "#/definitions/finesdk.PaymentSession"}
            }
        },
        "finesdk.PaymentOutcomeResponse": {
            "type": "object",
            "properties": {
                "fine": {"$ref": "#/definitions/finesdk.Fine"},
                "message": {"type": "string"},
                "outcome": {"type": "string"}
            }
        },
        "finesdk.HealthChecks": {
            "type": "object",
            "properties": {
                "cache": {"type": "string"},
                "database": {"type": "string"},
                "signer": {"type": "string"}
            }
        },
        "finesdk.HealthResponse": {
            "type": "object",
            "properties": {
                "checks": {"$ref": "#/definitions/finesdk.HealthChecks"},
                "status": {"type": "string"},
                "uptime": {"type": "string"},
                "version": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "JWT access token. Format: \"Bearer {token}\".",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Finepay Traffic Fine API",
	Description:      "Search South African traffic fines, manage a driver profile and pay fines through PayFast.\n\nAccess tokens are Ed25519 signed JWTs returned from registration and sign in.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
