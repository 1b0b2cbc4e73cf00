// Package docs registers the Swagger document served under /swagger/.
// Regenerate with: swag init -g internal/api/router.go
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
        "/runs": {
            "get": {
                "description": "Get every pipeline run, newest first",
                "produces": ["application/json"],
                "tags": ["runs"],
                "summary": "List runs",
                "responses": {
                    "200": {
                        "description": "List of runs",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Run"}}
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {"type": "object", "additionalProperties": true}
                    }
                }
            },
            "post": {
                "description": "Fetch posts, keep one user's posts, derive title_length and save a CSV. The run continues in the background.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["runs"],
                "summary": "Start a pipeline run",
                "parameters": [
                    {
                        "description": "Optional overrides",
                        "name": "run",
                        "in": "body",
                        "schema": {"$ref": "#/definitions/handler.CreateRunRequest"}
                    }
                ],
                "responses": {
                    "202": {
                        "description": "Run started",
                        "schema": {"$ref": "#/definitions/handler.CreateRunResponse"}
                    },
                    "400": {
                        "description": "Invalid request payload",
                        "schema": {"type": "object", "additionalProperties": true}
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {"type": "object", "additionalProperties": true}
                    }
                }
            }
        },
        "/runs/{id}": {
            "get": {
                "description": "Retrieve the status and counters of a pipeline run",
                "produces": ["application/json"],
                "tags": ["runs"],
                "summary": "Get run",
                "parameters": [
                    {"type": "string", "description": "Run ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {
                        "description": "Run details",
                        "schema": {"$ref": "#/definitions/handler.RunResponse"}
                    },
                    "400": {
                        "description": "Invalid run ID",
                        "schema": {"type": "object", "additionalProperties": true}
                    },
                    "404": {
                        "description": "Run not found",
                        "schema": {"type": "object", "additionalProperties": true}
                    }
                }
            }
        },
        "/runs/{id}/download": {
            "get": {
                "description": "Download processed_posts.csv produced by a completed run",
                "produces": ["text/csv"],
                "tags": ["runs"],
                "summary": "Download run output",
                "parameters": [
                    {"type": "string", "description": "Run ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "CSV file", "schema": {"type": "file"}},
                    "404": {
                        "description": "Run or output not found",
                        "schema": {"type": "object", "additionalProperties": true}
                    }
                }
            }
        }
    },
    "definitions": {
        "handler.CreateRunRequest": {
            "type": "object",
            "properties": {
                "userId": {"type": "integer"}
            }
        },
        "handler.CreateRunResponse": {
            "type": "object",
            "properties": {
                "createdAt": {"type": "string"},
                "downloadURL": {"type": "string"},
                "message": {"type": "string"},
                "runID": {"type": "string"},
                "status": {"$ref": "#/definitions/model.RunStatus"}
            }
        },
        "handler.RunResponse": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "download_url": {"type": "string"},
                "error": {"type": "string"},
                "fetched": {"type": "integer"},
                "id": {"type": "string"},
                "kept": {"type": "integer"},
                "output_path": {"type": "string"},
                "source_url": {"type": "string"},
                "status": {"$ref": "#/definitions/model.RunStatus"},
                "updated_at": {"type": "string"},
                "written": {"type": "boolean"}
            }
        },
        "model.Run": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "error": {"type": "string"},
                "fetched": {"type": "integer"},
                "id": {"type": "string"},
                "kept": {"type": "integer"},
                "output_path": {"type": "string"},
                "source_url": {"type": "string"},
                "status": {"$ref": "#/definitions/model.RunStatus"},
                "updated_at": {"type": "string"},
                "written": {"type": "boolean"}
            }
        },
        "model.RunStatus": {
            "type": "string",
            "enum": ["pending", "running", "completed", "failed"],
            "x-enum-varnames": ["RunPending", "RunRunning", "RunCompleted", "RunFailed"]
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Posts ETL API",
	Description:      "Start pipeline runs and download their CSV output.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
