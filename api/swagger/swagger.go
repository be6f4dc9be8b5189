package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Dispatch API",
        "description": "Scheduling engine for field engineer dispatch",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Entries", "description": "Schedule entry placement and lifecycle"},
        {"name": "Engineers", "description": "Engineer roster and scheduling policy"},
        {"name": "Recurring Rules", "description": "Weekly recurrence templates"},
        {"name": "Schedule", "description": "Bulk calendar operations"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Not ready"}
                }
            }
        },
        "/api/v1/entries": {
            "get": {
                "tags": ["Entries"],
                "summary": "List entries in a date range",
                "parameters": [
                    {"name": "engineerId", "in": "query", "type": "string"},
                    {"name": "from", "in": "query", "required": true, "type": "string"},
                    {"name": "to", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Entries"],
                "summary": "Schedule a job",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ScheduleJobRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Placement rejected", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/entries/{id}": {
            "patch": {
                "tags": ["Entries"],
                "summary": "Move or resize an entry",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MoveEntryRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Placement rejected", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Entries"],
                "summary": "Delete an entry",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/api/v1/entries/{id}/status": {
            "patch": {
                "tags": ["Entries"],
                "summary": "Update entry status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateEntryStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/engineers": {
            "get": {
                "tags": ["Engineers"],
                "summary": "List engineers",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Engineers"],
                "summary": "Register an engineer",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateEngineerRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/engineers/{id}": {
            "get": {
                "tags": ["Engineers"],
                "summary": "Get an engineer",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/engineers/{id}/schedule-config": {
            "put": {
                "tags": ["Engineers"],
                "summary": "Replace scheduling policy",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateScheduleConfigRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/engineers/{id}/availability": {
            "get": {
                "tags": ["Engineers"],
                "summary": "Derived availability for one day",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "date", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/recurring-rules": {
            "get": {
                "tags": ["Recurring Rules"],
                "summary": "List rules",
                "parameters": [
                    {"name": "engineerId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Recurring Rules"],
                "summary": "Create a rule",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateRecurringRuleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/recurring-rules/{id}": {
            "delete": {
                "tags": ["Recurring Rules"],
                "summary": "Delete a rule",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/api/v1/schedule/generate": {
            "post": {
                "tags": ["Schedule"],
                "summary": "Expand recurring rules into a week",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateFromRulesRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/schedule/copy-week": {
            "post": {
                "tags": ["Schedule"],
                "summary": "Copy a week of bookings",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CopyWeekRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "ScheduleEntry": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "engineer_id": {"type": "string"},
                "job_id": {"type": "string"},
                "start_at": {"type": "string"},
                "end_at": {"type": "string"},
                "status": {"type": "string"},
                "notes": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "ScheduleJobRequest": {
            "type": "object",
            "properties": {
                "job_id": {"type": "string"},
                "engineer_id": {"type": "string"},
                "start_at": {"type": "string"},
                "end_at": {"type": "string"},
                "notes": {"type": "string"},
                "force": {"type": "boolean"}
            },
            "required": ["job_id", "engineer_id", "start_at", "end_at"]
        },
        "MoveEntryRequest": {
            "type": "object",
            "properties": {
                "start_at": {"type": "string"},
                "end_at": {"type": "string"},
                "engineer_id": {"type": "string"},
                "force": {"type": "boolean"}
            }
        },
        "UpdateEntryStatusRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string"}
            },
            "required": ["status"]
        },
        "CreateEngineerRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "work_start_hour": {"type": "integer"},
                "work_end_hour": {"type": "integer"},
                "break_minutes": {"type": "integer"},
                "max_jobs_per_day": {"type": "integer"},
                "travel_buffer_minutes": {"type": "integer"}
            },
            "required": ["name", "email"]
        },
        "UpdateScheduleConfigRequest": {
            "type": "object",
            "properties": {
                "work_start_hour": {"type": "integer"},
                "work_end_hour": {"type": "integer"},
                "break_minutes": {"type": "integer"},
                "max_jobs_per_day": {"type": "integer"},
                "travel_buffer_minutes": {"type": "integer"}
            }
        },
        "CreateRecurringRuleRequest": {
            "type": "object",
            "properties": {
                "engineer_id": {"type": "string"},
                "job_id": {"type": "string"},
                "days_of_week": {"type": "array", "items": {"type": "integer"}},
                "start_time": {"type": "string"},
                "duration_minutes": {"type": "integer"},
                "valid_from": {"type": "string"},
                "valid_until": {"type": "string"}
            },
            "required": ["engineer_id", "days_of_week", "start_time", "duration_minutes", "valid_from"]
        },
        "GenerateFromRulesRequest": {
            "type": "object",
            "properties": {
                "week_start": {"type": "string"}
            },
            "required": ["week_start"]
        },
        "CopyWeekRequest": {
            "type": "object",
            "properties": {
                "source_week_start": {"type": "string"},
                "target_week_start": {"type": "string"}
            },
            "required": ["source_week_start", "target_week_start"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "object"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
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
